package slate

import (
	"math/rand"
	"sync"
	"time"
)

// RandSource 把全部随机性隔离在可注入的接口后面，
// 测试可以提供确定性序列并断言具体的探索选择。
// 注入到常驻节点的实现必须并发安全。
type RandSource interface {
	// Float64 返回 [0,1) 的随机数
	Float64() float64
	// Intn 返回 [0,n) 的随机整数
	Intn(n int) int
}

// mathRand 用互斥锁保护底层 *rand.Rand，多个请求可共享同一实例。
type mathRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (m *mathRand) Float64() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.r.Float64()
}

func (m *mathRand) Intn(n int) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.r.Intn(n)
}

// NewRand 返回 math/rand 实现的 RandSource，并发安全。
func NewRand(seed int64) RandSource {
	return &mathRand{r: rand.New(rand.NewSource(seed))}
}

// NewTimeRand 返回按当前时间播种的 RandSource（生产默认）。
func NewTimeRand() RandSource {
	return NewRand(time.Now().UnixNano())
}
