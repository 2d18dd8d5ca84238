package slate

import (
	"strings"

	"github.com/rushteam/slatekit/core"
)

// pairSimilarity 是两个活动的类目/场地相似度：
// 类目相同计 0.6，场地相同计 0.4（空字段不计相同）。
func pairSimilarity(a, b *core.EnrichedEvent) float64 {
	sim := 0.0
	if a.Category != "" && strings.EqualFold(a.Category, b.Category) {
		sim += 0.6
	}
	if a.Venue != "" && strings.EqualFold(a.Venue, b.Venue) {
		sim += 0.4
	}
	return sim
}

// Diversity 计算一组活动的内部差异度：1 − 两两相似度均值。
// 空集合 0（退化输入），单元素 1（无相似对）。
func Diversity(events []*core.EnrichedEvent) float64 {
	n := len(events)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return 1
	}
	var total float64
	pairs := 0
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			total += pairSimilarity(events[i], events[j])
			pairs++
		}
	}
	return 1 - total/float64(pairs)
}

// Overlap 计算两个 slate 的事件重合度：|A∩B| / |A∪B|。
// 跨 slate 重合 < 0.4 是设计目标，由测试校验，不做运行时断言。
func Overlap(a, b *core.Slate) float64 {
	if a == nil || b == nil || (len(a.Entries) == 0 && len(b.Entries) == 0) {
		return 0
	}
	ids := make(map[string]int)
	for _, e := range a.Entries {
		ids[e.EventID] |= 1
	}
	for _, e := range b.Entries {
		ids[e.EventID] |= 2
	}
	inter, uni := 0, 0
	for _, mask := range ids {
		uni++
		if mask == 3 {
			inter++
		}
	}
	if uni == 0 {
		return 0
	}
	return float64(inter) / float64(uni)
}
