package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/rushteam/slatekit/core"
)

// Pipeline 是引擎的核心抽象：把推荐逻辑拆成按序执行的 Node 图。
// 节点之间严格串行（真正的并行发生在节点内部，不跨节点）；
// 每个节点无论成败都会留下一条 NodeLog，供事后延迟/失败率分析。
type Pipeline struct {
	Nodes  []Node
	Logger zerolog.Logger // 未设置时为 zerolog.Nop()
}

// ErrRequiredNode 表示 required 节点失败，链路提前终止。
// 已累积的状态与节点日志原样返回给调用方（部分结果，显式失败）。
type ErrRequiredNode struct {
	Node string
	Err  error
}

func (e *ErrRequiredNode) Error() string {
	return fmt.Sprintf("required node %s failed: %v", e.Node, e.Err)
}

func (e *ErrRequiredNode) Unwrap() error { return e.Err }

// Run 按序执行全部节点。
//   - required 节点失败：向 state 追加 fatal error，终止并返回 *ErrRequiredNode
//   - optional 节点失败：向 state 追加 warning，继续执行
//
// 没有请求级取消：慢的可选信号在节点内部自行降级，而不是取消整个请求。
func (p *Pipeline) Run(ctx context.Context, state *core.AgentState) error {
	for _, node := range p.Nodes {
		start := time.Now()
		err := node.Process(ctx, state)
		end := time.Now()

		entry := core.NodeLog{
			Node:       node.Name(),
			StartMs:    start.UnixMilli(),
			EndMs:      end.UnixMilli(),
			DurationMs: end.Sub(start).Milliseconds(),
			Success:    err == nil,
		}
		if err != nil {
			entry.Error = err.Error()
		}
		state.NodeLogs = append(state.NodeLogs, entry)

		evt := p.Logger.Info()
		if err != nil {
			evt = p.Logger.Warn().Err(err)
		}
		evt.Str("node", node.Name()).
			Str("kind", string(node.Kind())).
			Str("trace_id", state.TraceID).
			Int64("duration_ms", entry.DurationMs).
			Bool("success", err == nil).
			Msg("node executed")

		if err == nil {
			continue
		}
		if node.Required() {
			state.AddError(fmt.Sprintf("%s: %v", node.Name(), err))
			return &ErrRequiredNode{Node: node.Name(), Err: err}
		}
		state.AddWarning(fmt.Sprintf("%s skipped: %v", node.Name(), err))
	}
	return nil
}
