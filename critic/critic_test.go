package critic

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rushteam/slatekit/core"
)

func stateWithSlates(entries int, diversity float64) *core.AgentState {
	state := core.NewAgentState("sess", "trace")
	s := &core.Slate{Name: core.SlateBest, Diversity: diversity}
	for i := 0; i < entries; i++ {
		s.Entries = append(s.Entries, core.SlateEntry{EventID: string(rune('a' + i))})
	}
	state.Slates = &core.SlateSet{
		Best:         s,
		Wildcard:     &core.Slate{Name: core.SlateWildcard, Diversity: 1},
		CloseAndEasy: &core.Slate{Name: core.SlateCloseAndEasy, Diversity: 1},
	}
	return state
}

func hasWarning(state *core.AgentState, substr string) bool {
	for _, w := range state.Warnings {
		if strings.Contains(w, substr) {
			return true
		}
	}
	return false
}

// TestCritic_Volume 验证结果量检查的三档输出。
func TestCritic_Volume(t *testing.T) {
	n := &Node{}

	empty := stateWithSlates(0, 1)
	_ = n.Process(context.Background(), empty)
	if !hasWarning(empty, "no matches found") {
		t.Errorf("零结果应告警: %v", empty.Warnings)
	}

	few := stateWithSlates(2, 1)
	_ = n.Process(context.Background(), few)
	if !hasWarning(few, "limited results") {
		t.Errorf("少量结果应告警: %v", few.Warnings)
	}

	plenty := stateWithSlates(8, 1)
	_ = n.Process(context.Background(), plenty)
	if len(plenty.Warnings) != 0 {
		t.Errorf("充足结果不应告警: %v", plenty.Warnings)
	}
	if len(plenty.Reasons) == 0 {
		t.Error("充足结果应有说明文案")
	}
}

// TestCritic_Diversity 验证低差异度告警。
func TestCritic_Diversity(t *testing.T) {
	n := &Node{}
	state := stateWithSlates(5, 0.1)
	_ = n.Process(context.Background(), state)
	if !hasWarning(state, "repetitive") {
		t.Errorf("低差异度应告警: %v", state.Warnings)
	}

	ok := stateWithSlates(5, 0.8)
	_ = n.Process(context.Background(), ok)
	if hasWarning(ok, "repetitive") {
		t.Errorf("正常差异度不应告警: %v", ok.Warnings)
	}
}

// TestCritic_Degradation 验证降级标记翻译成用户文案。
func TestCritic_Degradation(t *testing.T) {
	n := &Node{}
	state := stateWithSlates(8, 1)
	state.SetDegraded(core.DegradedNoVectorSearch)
	state.SetDegraded(core.DegradedNoGraph)

	_ = n.Process(context.Background(), state)

	if !hasWarning(state, "semantic search was unavailable") {
		t.Errorf("no_vector_search 应有文案: %v", state.Warnings)
	}
	if !hasWarning(state, "social signals were unavailable") {
		t.Errorf("no_graph 应有文案: %v", state.Warnings)
	}
}

// TestCritic_Coverage 验证预算/时间覆盖检查。
func TestCritic_Coverage(t *testing.T) {
	now := time.Date(2026, 6, 1, 18, 0, 0, 0, time.UTC)

	mkState := func(budget string, untilMinutes int, price float64, startIn time.Duration) *core.AgentState {
		state := stateWithSlates(8, 1)
		state.Intention = &core.Intention{
			City: "New York",
			Now:  now,
			Tokens: core.IntentTokens{
				Budget:       budget,
				UntilMinutes: untilMinutes,
			},
		}
		ev := core.NewCandidateEvent("x")
		ev.Price = core.PriceRange{Min: price, Max: price, Known: true}
		ev.StartTime = now.Add(startIn)
		state.Ranked = []*core.ScoredEvent{{
			Event:   &core.EnrichedEvent{CandidateEvent: ev},
			EventID: "x",
		}}
		return state
	}

	n := &Node{}

	noFree := mkState(core.BudgetFree, 120, 25, time.Hour)
	_ = n.Process(context.Background(), noFree)
	if !hasWarning(noFree, "no free events") {
		t.Errorf("free 预算无免费活动应告警: %v", noFree.Warnings)
	}

	hasFree := mkState(core.BudgetFree, 120, 0, time.Hour)
	_ = n.Process(context.Background(), hasFree)
	if hasWarning(hasFree, "no free events") {
		t.Errorf("有免费活动不应告警: %v", hasFree.Warnings)
	}

	nothingSoon := mkState("", 60, 10, 5*time.Hour)
	_ = n.Process(context.Background(), nothingSoon)
	if !hasWarning(nothingSoon, "nothing starts within") {
		t.Errorf("窗口内无活动应告警: %v", nothingSoon.Warnings)
	}
}

// TestCritic_NilSlates 验证缺失 slate 只告警不报错。
func TestCritic_NilSlates(t *testing.T) {
	n := &Node{}
	state := core.NewAgentState("sess", "trace")
	if err := n.Process(context.Background(), state); err != nil {
		t.Fatalf("质检不应报错: %v", err)
	}
	if !hasWarning(state, "no slates") {
		t.Errorf("应告警: %v", state.Warnings)
	}
}
