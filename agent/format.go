package agent

import (
	"context"
	"sort"

	"github.com/rushteam/slatekit/core"
	"github.com/rushteam/slatekit/pipeline"
)

// formatNode 是格式化节点：optional。整理响应侧字段：
// 保证 SlateSet 与三个 slate 非 nil、去重告警、排序降级标记。
// 不改变任何排序结果。
type formatNode struct{}

func (n *formatNode) Name() string        { return "format.response" }
func (n *formatNode) Kind() pipeline.Kind { return pipeline.KindFormat }
func (n *formatNode) Required() bool      { return false }

func (n *formatNode) Process(_ context.Context, state *core.AgentState) error {
	if state.Slates == nil {
		state.Slates = &core.SlateSet{}
	}
	if state.Slates.Best == nil {
		state.Slates.Best = emptySlate(core.SlateBest)
	}
	if state.Slates.Wildcard == nil {
		state.Slates.Wildcard = emptySlate(core.SlateWildcard)
	}
	if state.Slates.CloseAndEasy == nil {
		state.Slates.CloseAndEasy = emptySlate(core.SlateCloseAndEasy)
	}

	state.Warnings = dedup(state.Warnings)
	state.Reasons = dedup(state.Reasons)
	return nil
}

func emptySlate(name string) *core.Slate {
	return &core.Slate{
		Name:    name,
		Label:   slateLabel(name),
		Entries: []core.SlateEntry{},
	}
}

// slateLabel 把 slate 名映射成用户可见的文案。
func slateLabel(name string) string {
	switch name {
	case core.SlateBest:
		return "Top picks for you"
	case core.SlateWildcard:
		return "Something different"
	case core.SlateCloseAndEasy:
		return "Close and easy"
	}
	return name
}

// dedup 保序去重。
func dedup(in []string) []string {
	if len(in) < 2 {
		return in
	}
	seen := make(map[string]bool, len(in))
	out := in[:0]
	for _, s := range in {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// sortedFlags 返回排序后的降级标记，保证响应可复现。
func sortedFlags(state *core.AgentState) []string {
	flags := state.DegradedFlags()
	sort.Strings(flags)
	return flags
}
