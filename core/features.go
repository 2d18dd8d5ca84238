package core

// 特征名常量：权重表、贡献明细、快照文件共用同一套 key。
const (
	FeatureTextualSim      = "textual_similarity"
	FeatureTimeFit         = "time_fit"
	FeatureDistanceComfort = "distance_comfort"
	FeaturePriceComfort    = "price_comfort"
	FeatureMoodAlignment   = "mood_alignment"
	FeatureSocialHeat      = "social_heat"
	FeatureNovelty         = "novelty"
	FeatureTasteMatch      = "taste_match"
)

// FeatureNames 是八个排序特征的固定顺序（遍历输出需稳定时使用）。
var FeatureNames = []string{
	FeatureTextualSim,
	FeatureTimeFit,
	FeatureDistanceComfort,
	FeaturePriceComfort,
	FeatureMoodAlignment,
	FeatureSocialHeat,
	FeatureNovelty,
	FeatureTasteMatch,
}

// RankingFeatures 是 EnrichedEvent + Intention 的纯函数产物，
// 所有值归一化到 [0,1]。不携带隐藏状态：相同输入必得相同特征。
type RankingFeatures struct {
	TextualSim      float64 `json:"textual_similarity"`
	TimeFit         float64 `json:"time_fit"`
	DistanceComfort float64 `json:"distance_comfort"`
	PriceComfort    float64 `json:"price_comfort"`
	MoodAlignment   float64 `json:"mood_alignment"`
	SocialHeat      float64 `json:"social_heat"`
	Novelty         float64 `json:"novelty"`
	TasteMatch      float64 `json:"taste_match"`
}

// ToMap 按 FeatureNames 的 key 导出特征。
func (f RankingFeatures) ToMap() map[string]float64 {
	return map[string]float64{
		FeatureTextualSim:      f.TextualSim,
		FeatureTimeFit:         f.TimeFit,
		FeatureDistanceComfort: f.DistanceComfort,
		FeaturePriceComfort:    f.PriceComfort,
		FeatureMoodAlignment:   f.MoodAlignment,
		FeatureSocialHeat:      f.SocialHeat,
		FeatureNovelty:         f.Novelty,
		FeatureTasteMatch:      f.TasteMatch,
	}
}

// ScoredEvent 是排序输出：标量分 + 逐特征贡献明细（特征值 × 权重）。
// 不变量：Score == Σ Contributions（浮点容差内），用于可解释性校验。
type ScoredEvent struct {
	Event         *EnrichedEvent     `json:"event"`
	EventID       string             `json:"event_id"`
	Score         float64            `json:"score"`
	Features      RankingFeatures    `json:"features"`
	Contributions map[string]float64 `json:"contributions"`
}
