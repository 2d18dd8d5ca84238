package rank

import "github.com/rushteam/slatekit/core"

// WeightedSumModel 实现 weighted_sum 类型的排序器契约：
// score = Σ clamp01(feature) × weight，逐特征贡献明细随分数一起返回。
//
// 权重在构造期归一化一次（负值归零、和超 1 时等比缩放到 1），
// 此后每一项贡献都是字面的 clamp01(feature) × weight。
//
// 不变量：
//   - 确定性：相同 (features, weights) 必得相同分数与明细
//   - score == Σ contributions（浮点容差内）
//   - score ∈ [0,1]
type WeightedSumModel struct {
	Weights *core.RankingWeights
}

func NewWeightedSumModel(w *core.RankingWeights) *WeightedSumModel {
	if w == nil || !w.Valid() {
		w = core.DefaultRankingWeights()
	}
	return &WeightedSumModel{Weights: w.Normalized()}
}

func (m *WeightedSumModel) Name() string { return "weighted_sum" }

// Version 返回当前权重版本（用于日志与响应指标）。
func (m *WeightedSumModel) Version() string { return m.Weights.Version }

// Score 计算 fit score 与贡献明细。纯函数：无随机、无 I/O。
func (m *WeightedSumModel) Score(f core.RankingFeatures) (float64, map[string]float64) {
	values := f.ToMap()
	contributions := make(map[string]float64, len(core.FeatureNames))

	var sum float64
	for _, name := range core.FeatureNames {
		c := clamp01(values[name]) * m.Weights.Weights[name]
		contributions[name] = c
		sum += c
	}
	return sum, contributions
}

// ScoreEvents 对整批特征打分，输出与输入对齐。
func (m *WeightedSumModel) ScoreEvents(
	events []*core.EnrichedEvent,
	features []core.RankingFeatures,
) []*core.ScoredEvent {
	out := make([]*core.ScoredEvent, 0, len(events))
	for i, ev := range events {
		score, contributions := m.Score(features[i])
		out = append(out, &core.ScoredEvent{
			Event:         ev,
			EventID:       ev.ID,
			Score:         score,
			Features:      features[i],
			Contributions: contributions,
		})
	}
	return out
}
