package slate

import (
	"context"
	"math"
	"sort"

	"github.com/rs/zerolog"

	"github.com/rushteam/slatekit/core"
	"github.com/rushteam/slatekit/pipeline"
	"github.com/rushteam/slatekit/pkg/utils"
)

// ComposeNode 是 slate 组装节点：先做 bandit 策略选择，再把排序结果
// 分装为三个主题 slate，并在 slate 间控制重合度。
//
// 三个 slate 的语义：
//   - best：最高分且可达的精选（策略 epsilon 控制探索位）
//   - wildcard：高新颖度、与 best 低重合的冷门候选
//   - closeAndEasy：低距离、低门槛（便宜、快到）的候选
//
// 退化输入（零候选）产出三个空 slate、零差异度，而不是错误。
type ComposeNode struct {
	Selector  *PolicySelector
	Rand      RandSource // 并发安全的随机源；nil 时每次请求临时新建
	SlateSize int        // 默认 10
	Logger    zerolog.Logger
}

func (n *ComposeNode) Name() string        { return "slate.compose" }
func (n *ComposeNode) Kind() pipeline.Kind { return pipeline.KindSlate }
func (n *ComposeNode) Required() bool      { return true }

func (n *ComposeNode) Process(ctx context.Context, state *core.AgentState) error {
	policy, wasExploration := n.selectPolicy(ctx)
	state.Policy = policy
	state.PolicyExploration = wasExploration

	size := n.SlateSize
	if size <= 0 {
		size = 10
	}

	ranked := state.Ranked
	if len(ranked) == 0 {
		state.Slates = &core.SlateSet{
			Best:         emptySlate(core.SlateBest, "Best", policy.Name),
			Wildcard:     emptySlate(core.SlateWildcard, "Wildcard", policy.Name),
			CloseAndEasy: emptySlate(core.SlateCloseAndEasy, "Close & Easy", policy.Name),
		}
		return nil
	}

	used := make(map[string]bool)

	best, exploratory := ApplyEpsilonGreedy(ranked, size, policy.Params.Epsilon, n.rand())
	bestSlate := buildSlate(core.SlateBest, "Best", "epsilon_greedy:"+policy.Name, best, exploratory)
	markUsed(used, best)

	wildcard := n.pickWildcard(ranked, used, policy, size)
	wildcardSlate := buildSlate(core.SlateWildcard, "Wildcard", "novelty:"+policy.Name, wildcard, nil)
	markUsed(used, wildcard)

	easy := pickCloseAndEasy(ranked, used, size)
	easySlate := buildSlate(core.SlateCloseAndEasy, "Close & Easy", "proximity:"+policy.Name, easy, nil)

	state.Slates = &core.SlateSet{
		Best:         bestSlate,
		Wildcard:     wildcardSlate,
		CloseAndEasy: easySlate,
	}
	return nil
}

func (n *ComposeNode) selectPolicy(ctx context.Context) (*core.SlatePolicy, bool) {
	if n.Selector == nil {
		return DefaultPolicy(), false
	}
	return n.Selector.Select(ctx)
}

// rand 返回注入的随机源；未注入时每次新建一个，
// 绝不回写字段：节点是进程级共享的，Process 不能写自身状态。
func (n *ComposeNode) rand() RandSource {
	if n.Rand != nil {
		return n.Rand
	}
	return NewTimeRand()
}

// pickWildcard 选高新颖度候选：新颖度达标优先，按
// novelty + bonus*score 排序；优先未被 best 占用的活动。
func (n *ComposeNode) pickWildcard(
	ranked []*core.ScoredEvent,
	used map[string]bool,
	policy *core.SlatePolicy,
	size int,
) []*core.ScoredEvent {
	minNovelty := policy.Params.WildcardMinNovelty
	bonus := policy.Params.ExplorationBonus

	pool := make([]*core.ScoredEvent, len(ranked))
	copy(pool, ranked)
	sort.SliceStable(pool, func(i, j int) bool {
		return wildcardKey(pool[i], bonus) > wildcardKey(pool[j], bonus)
	})

	picks := make([]*core.ScoredEvent, 0, size)
	// 第一轮：新颖度达标且未占用。
	for _, se := range pool {
		if len(picks) >= size {
			return picks
		}
		if used[se.EventID] || se.Event.NoveltyScore < minNovelty {
			continue
		}
		picks = append(picks, se)
	}
	// 第二轮：候选不足时放宽新颖度门槛，仍避开已占用的。
	for _, se := range pool {
		if len(picks) >= size {
			return picks
		}
		if used[se.EventID] || contains(picks, se.EventID) {
			continue
		}
		picks = append(picks, se)
	}
	return picks
}

func wildcardKey(se *core.ScoredEvent, bonus float64) float64 {
	return se.Event.NoveltyScore + bonus*se.Score
}

// pickCloseAndEasy 按"摩擦"升序选：先近后远，距离缺失排最后；
// 同距离档位内便宜优先。
func pickCloseAndEasy(
	ranked []*core.ScoredEvent,
	used map[string]bool,
	size int,
) []*core.ScoredEvent {
	pool := make([]*core.ScoredEvent, len(ranked))
	copy(pool, ranked)
	sort.SliceStable(pool, func(i, j int) bool {
		return frictionKey(pool[i]) < frictionKey(pool[j])
	})

	picks := make([]*core.ScoredEvent, 0, size)
	for _, se := range pool {
		if len(picks) >= size {
			return picks
		}
		if used[se.EventID] {
			continue
		}
		picks = append(picks, se)
	}
	// 候选太少时允许与其他 slate 重合，保证有内容可展示。
	for _, se := range pool {
		if len(picks) >= size {
			break
		}
		if contains(picks, se.EventID) {
			continue
		}
		picks = append(picks, se)
	}
	return picks
}

func frictionKey(se *core.ScoredEvent) float64 {
	distance := math.MaxFloat64 / 4
	if se.Event.DistanceKm != nil {
		distance = *se.Event.DistanceKm
	}
	price := 0.0
	if se.Event.Price.Known {
		price = se.Event.Price.Max
	}
	return distance*10 + price*0.1
}

func buildSlate(
	name, label, strategy string,
	picks []*core.ScoredEvent,
	exploratory []int,
) *core.Slate {
	exploreAt := make(map[int]bool, len(exploratory))
	for _, idx := range exploratory {
		exploreAt[idx] = true
	}

	entries := make([]core.SlateEntry, 0, len(picks))
	events := make([]*core.EnrichedEvent, 0, len(picks))
	for i, se := range picks {
		se.Event.PutLabel("slate", utils.Label{Value: name, Source: "slate"})
		if exploreAt[i] {
			se.Event.PutLabel("explore", utils.Label{Value: "epsilon", Source: "slate"})
		}
		entries = append(entries, core.SlateEntry{
			EventID:             se.EventID,
			Score:               se.Score,
			Position:            i,
			Exploratory:         exploreAt[i],
			FactorContributions: se.Contributions,
		})
		events = append(events, se.Event)
	}

	return &core.Slate{
		Name:      name,
		Label:     label,
		Entries:   entries,
		Strategy:  strategy,
		Diversity: Diversity(events),
	}
}

func emptySlate(name, label, policy string) *core.Slate {
	return &core.Slate{Name: name, Label: label, Strategy: policy, Diversity: 0}
}

func markUsed(used map[string]bool, picks []*core.ScoredEvent) {
	for _, se := range picks {
		used[se.EventID] = true
	}
}

func contains(picks []*core.ScoredEvent, id string) bool {
	for _, se := range picks {
		if se.EventID == id {
			return true
		}
	}
	return false
}
