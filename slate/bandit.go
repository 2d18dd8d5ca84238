package slate

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/rushteam/slatekit/core"
)

// DefaultPolicy 是策略存储不可用时的兜底策略。
func DefaultPolicy() *core.SlatePolicy {
	return &core.SlatePolicy{
		Name: "default",
		Params: core.PolicyParams{
			Epsilon:            0.1,
			ExplorationBonus:   0.15,
			WildcardMinNovelty: 0.6,
		},
		IsActive: true,
	}
}

// PolicySelector 是多臂 bandit 的策略选择器：
//   - 利用（exploit）：在曝光量 ≥ MinImpressions 的策略里选历史
//     rewardScore 最高者
//   - 探索（explore）：以 ExploreProb 的固定小概率改选一个非领先策略
//
// 选择结果与 wasExploration 标记一起返回，供下游曝光日志使用。
// 存储读取带有界超时，失败回退到兜底策略，绝不阻塞请求。
type PolicySelector struct {
	Snapshots      core.SnapshotStore
	Rand           RandSource    // 并发安全的随机源；nil 时每次临时新建
	ExploreProb    float64       // 默认 0.1
	MinImpressions int           // 默认 10
	Timeout        time.Duration // 默认 300ms
	Logger         zerolog.Logger
}

// Select 返回本次请求使用的策略与探索标记。永不返回 error。
func (s *PolicySelector) Select(ctx context.Context) (*core.SlatePolicy, bool) {
	policies := s.loadPolicies(ctx)
	if len(policies) == 0 {
		return DefaultPolicy(), false
	}
	if len(policies) == 1 {
		return policies[0], false
	}

	minImpressions := s.MinImpressions
	if minImpressions <= 0 {
		minImpressions = 10
	}

	leader := -1
	for i, p := range policies {
		if p.Performance.Impressions < minImpressions {
			continue
		}
		if leader < 0 || p.Performance.RewardScore > policies[leader].Performance.RewardScore {
			leader = i
		}
	}
	if leader < 0 {
		// 还没有策略攒够曝光量：用激活位，其次第一个。
		for _, p := range policies {
			if p.IsActive {
				return p, false
			}
		}
		return policies[0], false
	}

	exploreProb := s.ExploreProb
	if exploreProb <= 0 {
		exploreProb = 0.1
	}
	rnd := s.Rand
	if rnd == nil {
		rnd = NewTimeRand()
	}
	if rnd.Float64() < exploreProb {
		// 探索：等概率挑一个非领先策略。
		idx := rnd.Intn(len(policies) - 1)
		if idx >= leader {
			idx++
		}
		return policies[idx], true
	}
	return policies[leader], false
}

func (s *PolicySelector) loadPolicies(ctx context.Context) []*core.SlatePolicy {
	if s.Snapshots == nil {
		return nil
	}
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = 300 * time.Millisecond
	}
	loadCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	policies, err := s.Snapshots.ListSlatePolicies(loadCtx)
	if err != nil {
		s.Logger.Warn().Err(err).Msg("policy store unavailable, using default policy")
		return nil
	}
	return policies
}
