package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rushteam/slatekit/core"
)

// MemoryStore 是内存实现的 KeyValueStore，用于测试/开发/原型。
// 支持 TTL（过期时间），但进程重启后数据丢失。
type MemoryStore struct {
	mu    sync.RWMutex
	data  map[string]*entry
	ttl   map[string]time.Time
	zsets map[string]map[string]float64 // zset key -> member -> score
	clean *time.Ticker
	done  chan struct{}
}

type entry struct {
	value []byte
	ttl   *time.Time
}

func NewMemoryStore() *MemoryStore {
	ms := &MemoryStore{
		data:  make(map[string]*entry),
		ttl:   make(map[string]time.Time),
		zsets: make(map[string]map[string]float64),
		clean: time.NewTicker(10 * time.Second),
		done:  make(chan struct{}),
	}
	go ms.cleanup()
	return ms
}

func (m *MemoryStore) Name() string { return "memory" }

func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.data[key]
	if !ok {
		return nil, core.ErrStoreNotFound
	}
	if e.ttl != nil && time.Now().After(*e.ttl) {
		return nil, core.ErrStoreNotFound
	}
	return e.value, nil
}

func (m *MemoryStore) Set(_ context.Context, key string, value []byte, ttl ...int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := &entry{value: value}
	if len(ttl) > 0 && ttl[0] > 0 {
		expire := time.Now().Add(time.Duration(ttl[0]) * time.Second)
		e.ttl = &expire
		m.ttl[key] = expire
	}
	m.data[key] = e
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.data, key)
	delete(m.ttl, key)
	return nil
}

func (m *MemoryStore) BatchGet(_ context.Context, keys []string) (map[string][]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make(map[string][]byte, len(keys))
	now := time.Now()
	for _, k := range keys {
		e, ok := m.data[k]
		if !ok {
			continue
		}
		if e.ttl != nil && now.After(*e.ttl) {
			continue
		}
		result[k] = e.value
	}
	return result, nil
}

func (m *MemoryStore) BatchSet(_ context.Context, kvs map[string][]byte, ttl ...int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var expire *time.Time
	if len(ttl) > 0 && ttl[0] > 0 {
		t := time.Now().Add(time.Duration(ttl[0]) * time.Second)
		expire = &t
	}

	for k, v := range kvs {
		m.data[k] = &entry{value: v, ttl: expire}
		if expire != nil {
			m.ttl[k] = *expire
		}
	}
	return nil
}

func (m *MemoryStore) Close() error {
	if m.clean != nil {
		m.clean.Stop()
	}
	close(m.done)
	return nil
}

func (m *MemoryStore) cleanup() {
	for {
		select {
		case <-m.clean.C:
			m.mu.Lock()
			now := time.Now()
			for k, expire := range m.ttl {
				if now.After(expire) {
					delete(m.data, k)
					delete(m.ttl, k)
				}
			}
			m.mu.Unlock()
		case <-m.done:
			return
		}
	}
}

var _ core.KeyValueStore = (*MemoryStore)(nil)

func (m *MemoryStore) ZAdd(_ context.Context, key string, score float64, member string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.zsets[key] == nil {
		m.zsets[key] = make(map[string]float64)
	}
	m.zsets[key][member] = score
	return nil
}

func (m *MemoryStore) ZIncrBy(_ context.Context, key string, increment float64, member string) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.zsets[key] == nil {
		m.zsets[key] = make(map[string]float64)
	}
	m.zsets[key][member] += increment
	return m.zsets[key][member], nil
}

// ZRange 按 score 降序返回 [start, stop] 区间的成员。
func (m *MemoryStore) ZRange(_ context.Context, key string, start, stop int64) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	zset, ok := m.zsets[key]
	if !ok || len(zset) == 0 {
		return nil, nil
	}

	type pair struct {
		member string
		score  float64
	}
	pairs := make([]pair, 0, len(zset))
	for member, score := range zset {
		pairs = append(pairs, pair{member: member, score: score})
	}
	sort.Slice(pairs, func(i, j int) bool {
		return pairs[i].score > pairs[j].score
	})

	if start < 0 {
		start = 0
	}
	if stop < 0 || stop >= int64(len(pairs)) {
		stop = int64(len(pairs)) - 1
	}
	if start > stop {
		return nil, nil
	}

	result := make([]string, 0, stop-start+1)
	for i := start; i <= stop && i < int64(len(pairs)); i++ {
		result = append(result, pairs[i].member)
	}
	return result, nil
}

func (m *MemoryStore) ZScore(_ context.Context, key string, member string) (float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	zset, ok := m.zsets[key]
	if !ok {
		return 0, core.ErrStoreNotFound
	}
	score, ok := zset[member]
	if !ok {
		return 0, core.ErrStoreNotFound
	}
	return score, nil
}

func (m *MemoryStore) HGet(_ context.Context, key, field string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.data["hash:"+key+":"+field]
	if !ok {
		return nil, core.ErrStoreNotFound
	}
	if e.ttl != nil && time.Now().After(*e.ttl) {
		return nil, core.ErrStoreNotFound
	}
	return e.value, nil
}

func (m *MemoryStore) HSet(_ context.Context, key, field string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data["hash:"+key+":"+field] = &entry{value: value}
	return nil
}

func (m *MemoryStore) HGetAll(_ context.Context, key string) (map[string][]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	prefix := "hash:" + key + ":"
	result := make(map[string][]byte)
	now := time.Now()
	for k, e := range m.data {
		if len(k) > len(prefix) && k[:len(prefix)] == prefix {
			if e.ttl != nil && now.After(*e.ttl) {
				continue
			}
			result[k[len(prefix):]] = e.value
		}
	}
	return result, nil
}
