package core

import "time"

// RankerType 标记排序器类型。当前只实现加权求和；
// 学习型模型（GBDT/NN）通过同一契约扩展，不在本仓库内。
type RankerType string

const (
	RankerWeightedSum RankerType = "weighted_sum"
)

// RankingWeights 是带版本的命名权重表。同一时刻至多一个版本处于激活态，
// 由外部训练任务周期性刷新；请求路径只读、不加锁（最终一致可接受）。
type RankingWeights struct {
	Version   string             `json:"version" yaml:"version"`
	Type      RankerType         `json:"type" yaml:"type"`
	Weights   map[string]float64 `json:"weights" yaml:"weights"`
	UpdatedAt time.Time          `json:"updated_at" yaml:"updated_at"`
}

// DefaultRankingWeights 返回编译期默认权重：快照不可用时的兜底。
// 权重和为 1，方便把总分直观解读为加权特征均值。
func DefaultRankingWeights() *RankingWeights {
	return &RankingWeights{
		Version: "builtin-v1",
		Type:    RankerWeightedSum,
		Weights: map[string]float64{
			FeatureTextualSim:      0.20,
			FeatureTimeFit:         0.16,
			FeatureDistanceComfort: 0.12,
			FeaturePriceComfort:    0.12,
			FeatureMoodAlignment:   0.14,
			FeatureSocialHeat:      0.10,
			FeatureNovelty:         0.06,
			FeatureTasteMatch:      0.10,
		},
	}
}

// Normalized 返回一份归一化副本：负权重归零，权重和超过 1 时整体
// 等比缩放到 1。归一化后 clamp01(feature) × weight 的逐项和天然落在
// [0,1]，打分路径不需要对贡献明细做任何事后调整。
func (w *RankingWeights) Normalized() *RankingWeights {
	out := &RankingWeights{
		Version:   w.Version,
		Type:      w.Type,
		Weights:   make(map[string]float64, len(w.Weights)),
		UpdatedAt: w.UpdatedAt,
	}
	var sum float64
	for name, v := range w.Weights {
		if v < 0 {
			v = 0
		}
		out.Weights[name] = v
		sum += v
	}
	if sum > 1 {
		for name := range out.Weights {
			out.Weights[name] /= sum
		}
	}
	return out
}

// Valid 校验权重表是否可用：类型匹配且至少有一个正权重。
func (w *RankingWeights) Valid() bool {
	if w == nil || len(w.Weights) == 0 {
		return false
	}
	if w.Type != "" && w.Type != RankerWeightedSum {
		return false
	}
	for _, v := range w.Weights {
		if v > 0 {
			return true
		}
	}
	return false
}
