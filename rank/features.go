package rank

import (
	"strings"

	"github.com/rushteam/slatekit/core"
)

// 缺失数据的中性默认分："缺失 ≠ 差"。这些值与上游保持一致，
// 刻意偏乐观，保证目录数据不全的活动不被系统性压分，
// 不要在没有产品输入的情况下改成保守默认。
const (
	neutralDistance = 0.5 // 坐标缺失
	neutralPrice    = 0.6 // 价格未知
	missingCategory = 0.4 // 类目为空
	neutralMood     = 0.5 // 意图未带 mood
	neutralBudget   = 0.6 // 意图未带预算档位
)

// moodCategories 是固定的 mood → 类目表。
// 完整命中 1.0，子串部分命中 0.7，无命中 0.3。
var moodCategories = map[string][]string{
	"electric": {"MUSIC", "NIGHTLIFE", "PARTY"},
	"chill":    {"WELLNESS", "OUTDOORS", "CAFE"},
	"romantic": {"DATE", "FOOD", "ARTS"},
	"curious":  {"ARTS", "TALKS", "WORKSHOP", "MUSEUM"},
	"social":   {"MEETUP", "PARTY", "FOOD", "SPORTS"},
}

// BuildFeatures 从 EnrichedEvent + Intention 计算排序特征。
// 纯函数：无隐藏状态、无 I/O、无随机性，相同输入必得相同特征。
func BuildFeatures(it *core.Intention, ev *core.EnrichedEvent) core.RankingFeatures {
	return core.RankingFeatures{
		TextualSim:      ev.Relevance,
		TimeFit:         timeFit(it, ev),
		DistanceComfort: distanceComfort(it, ev),
		PriceComfort:    priceComfort(it, ev),
		MoodAlignment:   moodAlignment(it.Tokens.Mood, ev.Category),
		SocialHeat:      socialHeatScore(ev.Heat, ev.FriendInterest),
		Novelty:         ev.NoveltyScore,
		TasteMatch:      ev.TasteMatchScore,
	}
}

// timeFit 是离散衰减而不是连续函数，保证行为可预测、可测试：
// 窗口内 1.0，1.5 倍窗口内 0.6，3 倍窗口内 0.3，已开始或更远 0.1。
func timeFit(it *core.Intention, ev *core.EnrichedEvent) float64 {
	window := it.Window()
	delta := ev.StartTime.Sub(it.Now)
	switch {
	case delta < 0:
		return 0.1
	case delta <= window:
		return 1.0
	case float64(delta) <= 1.5*float64(window):
		return 0.6
	case float64(delta) <= 3.0*float64(window):
		return 0.3
	default:
		return 0.1
	}
}

// distanceComfort 按用户最大半径的占比离散衰减；距离缺失给中性分。
func distanceComfort(it *core.Intention, ev *core.EnrichedEvent) float64 {
	if ev.DistanceKm == nil {
		return neutralDistance
	}
	ratio := *ev.DistanceKm / it.MaxDistanceKm()
	switch {
	case ratio <= 0.5:
		return 1.0
	case ratio <= 1.0:
		return 0.7
	case ratio <= 1.5:
		return 0.4
	default:
		return 0.1
	}
}

// priceComfort：free 档只认恰好免费；非零档在上限内 1.0、
// 1.3 倍上限内 0.6、更贵 0.2。价格未知给乐观中性分，不是惩罚。
func priceComfort(it *core.Intention, ev *core.EnrichedEvent) float64 {
	if !ev.Price.Known {
		return neutralPrice
	}
	ceiling, ok := core.BudgetCeiling(it.Tokens.Budget)
	if !ok {
		return neutralBudget
	}
	price := ev.Price.Max
	if ceiling == 0 {
		if price == 0 {
			return 1.0
		}
		return 0.0
	}
	switch {
	case price <= ceiling:
		return 1.0
	case price <= 1.3*ceiling:
		return 0.6
	default:
		return 0.2
	}
}

func moodAlignment(mood, category string) float64 {
	if category == "" {
		return missingCategory
	}
	mood = strings.ToLower(strings.TrimSpace(mood))
	if mood == "" {
		return neutralMood
	}
	cats, ok := moodCategories[mood]
	if !ok {
		return neutralMood
	}
	cat := strings.ToUpper(strings.TrimSpace(category))
	for _, c := range cats {
		if cat == c {
			return 1.0
		}
	}
	for _, c := range cats {
		if strings.Contains(cat, c) || strings.Contains(c, cat) {
			return 0.7
		}
	}
	return 0.3
}

// socialHeatScore 对 24h 浏览/收藏与好友兴趣做饱和压缩后加权：
// (viewHeat + 1.2*saveHeat + 1.5*friendHeat) / 3.7，裁剪到 [0,1]。
func socialHeatScore(heat core.SocialHeat, friendInterest int) float64 {
	viewHeat := saturate(float64(heat.Views), 50)
	saveHeat := saturate(float64(heat.Saves), 10)
	friendHeat := saturate(float64(friendInterest), 3)
	return clamp01((viewHeat + 1.2*saveHeat + 1.5*friendHeat) / 3.7)
}

// saturate 是单调饱和压缩：x/(x+scale)，值域 [0,1)。
func saturate(x, scale float64) float64 {
	if x <= 0 {
		return 0
	}
	return x / (x + scale)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
