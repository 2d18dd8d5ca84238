package rank

import (
	"context"
	"fmt"
	"sort"

	"github.com/rushteam/slatekit/core"
	"github.com/rushteam/slatekit/pipeline"
	"github.com/rushteam/slatekit/pkg/utils"
)

// Node 是排序节点：required。补全阶段被跳过时在中性信号上继续排序，
// 所以它对 Enriched 为空是健壮的；真正的失败只有意图/模型缺失。
type Node struct {
	Model *WeightedSumModel

	// SnapshotDegraded 由启动时的权重加载流程置位，
	// 表示当前使用的是编译期兜底权重。
	SnapshotDegraded bool
}

func (n *Node) Name() string        { return "rank.weighted" }
func (n *Node) Kind() pipeline.Kind { return pipeline.KindRank }
func (n *Node) Required() bool      { return true }

func (n *Node) Process(_ context.Context, state *core.AgentState) error {
	if n.Model == nil {
		return fmt.Errorf("rank model not configured")
	}
	if state.Intention == nil {
		return fmt.Errorf("intention missing")
	}
	if n.SnapshotDegraded {
		state.SetDegraded(core.DegradedNoSnapshot)
	}

	enriched := state.Enriched
	if enriched == nil {
		// 补全节点失败/被关停：用中性信号包一层，保证 1:1 继续排序。
		enriched = neutralEnriched(state.Candidates)
		state.Enriched = enriched
	}

	features := make([]core.RankingFeatures, len(enriched))
	for i, ev := range enriched {
		features[i] = BuildFeatures(state.Intention, ev)
	}

	ranked := n.Model.ScoreEvents(enriched, features)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	for _, se := range ranked {
		se.Event.PutLabel("rank_model", utils.Label{Value: n.Model.Name(), Source: "rank"})
	}

	state.Ranked = ranked
	return nil
}

func neutralEnriched(candidates []*core.CandidateEvent) []*core.EnrichedEvent {
	out := make([]*core.EnrichedEvent, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, &core.EnrichedEvent{
			CandidateEvent:  c,
			NoveltyScore:    0.5,
			TasteMatchScore: 0.5,
		})
	}
	return out
}
