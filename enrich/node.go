package enrich

import (
	"context"
	"fmt"

	"github.com/rushteam/slatekit/core"
	"github.com/rushteam/slatekit/pipeline"
)

// Node 是补全节点：optional。即使补全整体失败，排序阶段也能
// 在中性默认值上继续工作。
type Node struct {
	Enricher *Enricher
}

func (n *Node) Name() string        { return "enrich.signals" }
func (n *Node) Kind() pipeline.Kind { return pipeline.KindEnrich }
func (n *Node) Required() bool      { return false }

func (n *Node) Process(ctx context.Context, state *core.AgentState) error {
	if n.Enricher == nil {
		return fmt.Errorf("enricher not configured")
	}
	state.Enriched = n.Enricher.Enrich(ctx, state, state.Candidates)
	return nil
}
