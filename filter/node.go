package filter

import (
	"context"

	"github.com/rushteam/slatekit/core"
	"github.com/rushteam/slatekit/pipeline"
	"github.com/rushteam/slatekit/pkg/utils"
)

// Node 是过滤节点：optional，组合多个过滤器对候选集做剔除。
// 任一过滤器命中即剔除；单个过滤器报错只跳过该过滤器，不中断流程。
type Node struct {
	Filters []Filter
}

func (n *Node) Name() string        { return "filter.candidates" }
func (n *Node) Kind() pipeline.Kind { return pipeline.KindFilter }
func (n *Node) Required() bool      { return false }

func (n *Node) Process(ctx context.Context, state *core.AgentState) error {
	if len(n.Filters) == 0 || len(state.Candidates) == 0 {
		return nil
	}

	out := make([]*core.CandidateEvent, 0, len(state.Candidates))
	for _, ev := range state.Candidates {
		if ev == nil {
			continue
		}

		dropped := false
		for _, f := range n.Filters {
			ok, err := f.ShouldFilter(ctx, state.Intention, ev)
			if err != nil {
				continue
			}
			if ok {
				dropped = true
				ev.PutLabel("filtered", utils.Label{Value: "true", Source: f.Name()})
				break
			}
		}
		if !dropped {
			out = append(out, ev)
		}
	}

	state.Candidates = out
	return nil
}
