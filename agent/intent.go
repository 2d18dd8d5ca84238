package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/rushteam/slatekit/core"
	"github.com/rushteam/slatekit/pipeline"
)

// intentNode 是意图节点：required。引擎在入口已做过结构校验，
// 这里负责把意图归一化并固化（小写档位、裁剪空白），之后整条链路
// 把 Intention 当作只读值。
type intentNode struct{}

func (n *intentNode) Name() string        { return "intent.normalize" }
func (n *intentNode) Kind() pipeline.Kind { return pipeline.KindIntent }
func (n *intentNode) Required() bool      { return true }

func (n *intentNode) Process(_ context.Context, state *core.AgentState) error {
	it := state.Intention
	if it == nil {
		return fmt.Errorf("intention missing")
	}
	if strings.TrimSpace(it.City) == "" {
		return core.NewDomainError(core.ModuleAgent, core.ErrorCodeInvalidInput, "city is required")
	}

	it.City = strings.TrimSpace(it.City)
	it.Tokens.Mood = strings.ToLower(strings.TrimSpace(it.Tokens.Mood))
	it.Tokens.Budget = strings.ToLower(strings.TrimSpace(it.Tokens.Budget))

	if it.Tokens.Budget != "" {
		if _, ok := core.BudgetCeiling(it.Tokens.Budget); !ok {
			return core.NewDomainError(core.ModuleAgent, core.ErrorCodeInvalidInput,
				"unknown budget tier: "+it.Tokens.Budget)
		}
	}

	companions := it.Tokens.Companions[:0]
	for _, c := range it.Tokens.Companions {
		c = strings.ToLower(strings.TrimSpace(c))
		if c != "" {
			companions = append(companions, c)
		}
	}
	it.Tokens.Companions = companions
	return nil
}
