package critic

import (
	"context"
	"fmt"
	"time"

	"github.com/rushteam/slatekit/core"
	"github.com/rushteam/slatekit/pipeline"
)

// Node 是质检节点：对组装完的 slate 做只读检查，产出面向用户的
// warnings / reasons。永不修改 slate 或分数，永不因质检失败阻断响应。
type Node struct {
	// MinResults 低于该总量时提示结果有限，默认 5。
	MinResults int
	// DiversityFloor 任一 slate 低于该差异度时提示同质化，默认 0.3。
	DiversityFloor float64
}

func (n *Node) Name() string        { return "critic.review" }
func (n *Node) Kind() pipeline.Kind { return pipeline.KindCritic }
func (n *Node) Required() bool      { return false }

func (n *Node) Process(_ context.Context, state *core.AgentState) error {
	if state.Slates == nil {
		state.AddWarning("no slates were composed")
		return nil
	}

	n.checkVolume(state)
	n.checkDiversity(state)
	n.checkDegradation(state)
	n.checkCoverage(state)
	return nil
}

func (n *Node) checkVolume(state *core.AgentState) {
	minResults := n.MinResults
	if minResults <= 0 {
		minResults = 5
	}
	total := 0
	for _, sl := range state.Slates.All() {
		total += len(sl.Entries)
	}
	switch {
	case total == 0:
		state.AddWarning("no matches found for this request")
	case total < minResults:
		state.AddWarning("limited results: fewer than expected matches")
	default:
		state.AddReason(fmt.Sprintf("%d events across the three slates", total))
	}
}

func (n *Node) checkDiversity(state *core.AgentState) {
	floor := n.DiversityFloor
	if floor <= 0 {
		floor = 0.3
	}
	for _, sl := range state.Slates.All() {
		if len(sl.Entries) >= 2 && sl.Diversity < floor {
			state.AddWarning(fmt.Sprintf("%s slate looks repetitive (diversity %.2f)", sl.Name, sl.Diversity))
		}
	}
}

// checkDegradation 把链路上的降级标记翻译成用户可读的说明。
func (n *Node) checkDegradation(state *core.AgentState) {
	captions := map[string]string{
		core.DegradedNoVectorSearch:  "semantic search was unavailable, results may be less relevant",
		core.DegradedNoKeywordSearch: "keyword search was unavailable, results may be incomplete",
		core.DegradedNoReranker:      "result reranking was skipped",
		core.DegradedNoGraph:         "social signals were unavailable, popularity may be inaccurate",
		core.DegradedNoTasteVector:   "personal taste profile was unavailable",
		core.DegradedNoEmbeddings:    "similarity signals were unavailable",
		core.DegradedNoSnapshot:      "using fallback ranking weights",
	}
	for flag, on := range state.Degraded {
		if !on {
			continue
		}
		if caption, ok := captions[flag]; ok {
			state.AddWarning(caption)
		}
	}
}

// checkCoverage 检查预算/时间覆盖：free 预算却没有免费活动、
// 短时间窗口却没有即将开始的活动，都值得提示。
func (n *Node) checkCoverage(state *core.AgentState) {
	if state.Intention == nil || len(state.Ranked) == 0 {
		return
	}

	if state.Intention.Tokens.Budget == core.BudgetFree {
		hasFree := false
		for _, se := range state.Ranked {
			if se.Event.Price.Known && se.Event.Price.Max == 0 {
				hasFree = true
				break
			}
		}
		if !hasFree {
			state.AddWarning("no free events matched; showing paid options")
		}
	}

	window := state.Intention.Window()
	if window <= 4*time.Hour {
		soon := false
		for _, se := range state.Ranked {
			delta := se.Event.StartTime.Sub(state.Intention.Now)
			if delta >= 0 && delta <= window {
				soon = true
				break
			}
		}
		if !soon {
			state.AddWarning("nothing starts within your time window; showing later events")
		}
	}
}
