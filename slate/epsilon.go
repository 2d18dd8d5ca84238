package slate

import (
	"math"

	"github.com/rushteam/slatekit/core"
)

// ApplyEpsilonGreedy 从按分数降序的候选里选出 topK 个：
// topK*(1-epsilon) 个确定性取最高分，其余从次级池（topK 之后、
// 3*topK 之前的位次）随机抽取，返回输出中探索位的下标。
//
// 边界保证：
//   - epsilon = 0 → 输出即确定性 Top-K，探索位为空
//   - 探索位数量 ≤ floor(topK*epsilon)，且 ≤ floor(0.2*len(candidates))
//   - 输出数量 = min(topK, len(candidates))
func ApplyEpsilonGreedy(
	candidates []*core.ScoredEvent,
	topK int,
	epsilon float64,
	rnd RandSource,
) (selected []*core.ScoredEvent, exploratory []int) {
	if topK <= 0 || len(candidates) == 0 {
		return nil, nil
	}
	if len(candidates) <= topK {
		out := make([]*core.ScoredEvent, len(candidates))
		copy(out, candidates)
		return out, nil
	}

	explore := 0
	if epsilon > 0 && rnd != nil {
		explore = int(math.Floor(float64(topK) * epsilon))
		if lim := int(math.Floor(0.2 * float64(len(candidates)))); explore > lim {
			explore = lim
		}
	}

	// 次级池：位次 (topK, 3*topK]，探索只在"够得着"的长尾里做。
	poolEnd := 3 * topK
	if poolEnd > len(candidates) {
		poolEnd = len(candidates)
	}
	pool := candidates[topK:poolEnd]
	if explore > len(pool) {
		explore = len(pool)
	}

	deterministic := topK - explore
	selected = make([]*core.ScoredEvent, 0, topK)
	selected = append(selected, candidates[:deterministic]...)

	if explore > 0 {
		picked := make(map[int]bool, explore)
		for len(picked) < explore {
			picked[rnd.Intn(len(pool))] = true
		}
		for idx := range pool {
			if !picked[idx] {
				continue
			}
			exploratory = append(exploratory, len(selected))
			selected = append(selected, pool[idx])
		}
	}
	return selected, exploratory
}
