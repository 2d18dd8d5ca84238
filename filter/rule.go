package filter

import (
	"context"

	"github.com/rushteam/slatekit/core"
	"github.com/rushteam/slatekit/pkg/dsl"
)

// RuleFilter 是 CEL 表达式驱动的业务规则过滤器。
// Expr 返回 true 时剔除该候选，例如：
//
//	intent.budget == "free" && has_price && event.price_max > 0.0
//	event.category == "GAMBLING"
type RuleFilter struct {
	// RuleName 用于观测与 filtered label 的来源标记。
	RuleName string

	// Expr 是 CEL 表达式；编译/求值失败按"不剔除"处理并返回错误，
	// 由 Node 跳过该过滤器。
	Expr string
}

func (f *RuleFilter) Name() string {
	if f.RuleName != "" {
		return "filter.rule." + f.RuleName
	}
	return "filter.rule"
}

func (f *RuleFilter) ShouldFilter(
	_ context.Context,
	intent *core.Intention,
	event *core.CandidateEvent,
) (bool, error) {
	return dsl.NewEval(event, intent).Evaluate(f.Expr)
}
