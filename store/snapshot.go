package store

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/rushteam/slatekit/core"
)

// KV 键约定：
//   - 权重快照：slatekit:ranker:weights（JSON）
//   - 策略表：  slatekit:slate:policies（hash，field=策略名，value=JSON）
//   - 激活位：  slatekit:slate:policy:active（策略名）
const (
	keyRankerWeights = "slatekit:ranker:weights"
	keySlatePolicies = "slatekit:slate:policies"
	keyActivePolicy  = "slatekit:slate:policy:active"
)

// KVSnapshotStore 把 SnapshotStore 架在任意 KeyValueStore 上。
// 外部训练任务通过同样的键约定写入；请求路径只读。
type KVSnapshotStore struct {
	kv core.KeyValueStore
}

func NewKVSnapshotStore(kv core.KeyValueStore) *KVSnapshotStore {
	return &KVSnapshotStore{kv: kv}
}

func (s *KVSnapshotStore) Name() string { return "kv-snapshot:" + s.kv.Name() }

func (s *KVSnapshotStore) LatestRankerSnapshot(ctx context.Context) (*core.RankingWeights, error) {
	data, err := s.kv.Get(ctx, keyRankerWeights)
	if err != nil {
		return nil, err
	}
	var weights core.RankingWeights
	if err := json.Unmarshal(data, &weights); err != nil {
		return nil, core.NewDomainError(core.ModuleStore, core.ErrorCodeInternalError, "store: malformed weights snapshot: "+err.Error())
	}
	return &weights, nil
}

// SaveRankerSnapshot 写入新的权重快照（训练侧用）。
func (s *KVSnapshotStore) SaveRankerSnapshot(ctx context.Context, weights *core.RankingWeights) error {
	if weights == nil || !weights.Valid() {
		return core.NewDomainError(core.ModuleStore, core.ErrorCodeInvalidInput, "store: invalid weights snapshot")
	}
	data, err := json.Marshal(weights)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, keyRankerWeights, data)
}

func (s *KVSnapshotStore) CurrentSlatePolicy(ctx context.Context) (*core.SlatePolicy, error) {
	name, err := s.kv.Get(ctx, keyActivePolicy)
	if err != nil {
		return nil, err
	}
	data, err := s.kv.HGet(ctx, keySlatePolicies, string(name))
	if err != nil {
		return nil, err
	}
	var policy core.SlatePolicy
	if err := json.Unmarshal(data, &policy); err != nil {
		return nil, core.NewDomainError(core.ModuleStore, core.ErrorCodeInternalError, "store: malformed policy: "+err.Error())
	}
	return &policy, nil
}

func (s *KVSnapshotStore) ListSlatePolicies(ctx context.Context) ([]*core.SlatePolicy, error) {
	fields, err := s.kv.HGetAll(ctx, keySlatePolicies)
	if err != nil {
		return nil, err
	}
	policies := make([]*core.SlatePolicy, 0, len(fields))
	for _, data := range fields {
		var policy core.SlatePolicy
		if err := json.Unmarshal(data, &policy); err != nil {
			continue // 跳过脏数据，不让一条坏记录拖垮整个列表
		}
		policies = append(policies, &policy)
	}
	// hash 的遍历顺序不稳定，按名字排序保证结果可复现
	sort.Slice(policies, func(i, j int) bool {
		return policies[i].Name < policies[j].Name
	})
	return policies, nil
}

func (s *KVSnapshotStore) UpsertSlatePolicy(ctx context.Context, policy *core.SlatePolicy) error {
	if policy == nil || policy.Name == "" {
		return core.NewDomainError(core.ModuleStore, core.ErrorCodeInvalidInput, "store: policy requires a name")
	}
	data, err := json.Marshal(policy)
	if err != nil {
		return err
	}
	if err := s.kv.HSet(ctx, keySlatePolicies, policy.Name, data); err != nil {
		return err
	}
	if policy.IsActive {
		return s.kv.Set(ctx, keyActivePolicy, []byte(policy.Name))
	}
	return nil
}

func (s *KVSnapshotStore) Close() error { return nil }

var _ core.SnapshotStore = (*KVSnapshotStore)(nil)
