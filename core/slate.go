package core

// 三个固定 slate 的名字。
const (
	SlateBest         = "best"
	SlateWildcard     = "wildcard"
	SlateCloseAndEasy = "closeAndEasy"
)

// SlateEntry 是 slate 中的单个位次。
type SlateEntry struct {
	EventID             string             `json:"event_id"`
	Score               float64            `json:"score"`
	Position            int                `json:"position"`
	Exploratory         bool               `json:"exploratory,omitempty"`
	FactorContributions map[string]float64 `json:"factor_contributions,omitempty"`
}

// Slate 是一组按主题打包的排序结果。
// Diversity 是 [0,1] 的内部差异度：1 − slate 内两两（类目/场地）相似度均值。
type Slate struct {
	Name      string       `json:"name"`
	Label     string       `json:"label"`
	Entries   []SlateEntry `json:"events"`
	Strategy  string       `json:"strategy"`
	Diversity float64      `json:"diversity"`
}

// SlateSet 是一次请求的三个 slate。
type SlateSet struct {
	Best         *Slate `json:"best"`
	Wildcard     *Slate `json:"wildcard"`
	CloseAndEasy *Slate `json:"closeAndEasy"`
}

// All 按固定顺序返回三个 slate（可能包含空 slate，不含 nil）。
func (s *SlateSet) All() []*Slate {
	out := make([]*Slate, 0, 3)
	for _, sl := range []*Slate{s.Best, s.Wildcard, s.CloseAndEasy} {
		if sl != nil {
			out = append(out, sl)
		}
	}
	return out
}

// PolicyParams 是 bandit 策略的参数包。
type PolicyParams struct {
	Epsilon          float64 `json:"epsilon" yaml:"epsilon"`                     // slate 内探索比例
	ExplorationBonus float64 `json:"exploration_bonus" yaml:"exploration_bonus"` // wildcard 候选的新颖度加成
	WildcardMinNovelty float64 `json:"wildcard_min_novelty" yaml:"wildcard_min_novelty"`
}

// PolicyPerformance 是策略的历史表现记录，由离线任务回填。
type PolicyPerformance struct {
	Impressions int     `json:"impressions"`
	CTR         float64 `json:"ctr"`
	SaveRate    float64 `json:"save_rate"`
	RewardScore float64 `json:"reward_score"`
}

// SlatePolicy 是命名的 bandit 策略：参数包 + 表现记录。
// 同一时刻恰有一个策略处于激活态；选择可以是确定性的（exploit）
// 也可以是随机的（explore）。
type SlatePolicy struct {
	Name        string            `json:"name"`
	Params      PolicyParams      `json:"params"`
	Performance PolicyPerformance `json:"performance"`
	IsActive    bool              `json:"is_active"`
}
