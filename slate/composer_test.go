package slate

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/rushteam/slatekit/core"
)

// rankedFixture 构造 n 个差异化候选：不同类目/场地/新颖度/距离/价格。
func rankedFixture(n int) []*core.ScoredEvent {
	categories := []string{"MUSIC", "ART", "FOOD", "SPORTS", "COMEDY"}
	out := make([]*core.ScoredEvent, n)
	for i := 0; i < n; i++ {
		ev := core.NewCandidateEvent(fmt.Sprintf("evt-%02d", i))
		ev.Category = categories[i%len(categories)]
		ev.Venue = fmt.Sprintf("Venue %d", i)
		ev.Price = core.PriceRange{Min: float64(i), Max: float64(i * 3), Known: true}

		enriched := &core.EnrichedEvent{
			CandidateEvent: ev,
			NoveltyScore:   float64(i) / float64(n), // 尾部更新颖
		}
		d := float64(i) * 0.5
		enriched.DistanceKm = &d

		out[i] = &core.ScoredEvent{
			Event:   enriched,
			EventID: ev.ID,
			Score:   1.0 - float64(i)*0.02,
			Contributions: map[string]float64{
				core.FeatureTextualSim: 0.2,
			},
		}
	}
	return out
}

func composeState(ranked []*core.ScoredEvent) *core.AgentState {
	state := core.NewAgentState("sess", "trace")
	state.Ranked = ranked
	return state
}

// TestCompose_ThreeSlates 验证三个 slate 的结构与位次完整性。
func TestCompose_ThreeSlates(t *testing.T) {
	n := &ComposeNode{Rand: NewRand(1), SlateSize: 5}
	state := composeState(rankedFixture(30))

	if err := n.Process(context.Background(), state); err != nil {
		t.Fatalf("组装失败: %v", err)
	}

	slates := state.Slates
	if slates == nil || slates.Best == nil || slates.Wildcard == nil || slates.CloseAndEasy == nil {
		t.Fatal("三个 slate 都应非 nil")
	}
	for _, s := range slates.All() {
		if len(s.Entries) != 5 {
			t.Errorf("slate %s 条目数 = %d, 期望 5", s.Name, len(s.Entries))
		}
		for i, e := range s.Entries {
			if e.Position != i {
				t.Errorf("slate %s 位次 %d 标记为 %d", s.Name, i, e.Position)
			}
			if e.FactorContributions == nil {
				t.Errorf("slate %s 条目 %s 缺少贡献明细", s.Name, e.EventID)
			}
		}
	}
	if state.Policy == nil {
		t.Error("应记录本次使用的策略")
	}
}

// TestCompose_OverlapBound 验证候选充足时跨 slate 重合 < 0.4。
func TestCompose_OverlapBound(t *testing.T) {
	for seed := int64(0); seed < 10; seed++ {
		n := &ComposeNode{Rand: NewRand(seed), SlateSize: 5}
		state := composeState(rankedFixture(30))
		if err := n.Process(context.Background(), state); err != nil {
			t.Fatalf("组装失败: %v", err)
		}

		pairs := []struct {
			name string
			a, b *core.Slate
		}{
			{"best/wildcard", state.Slates.Best, state.Slates.Wildcard},
			{"best/closeAndEasy", state.Slates.Best, state.Slates.CloseAndEasy},
			{"wildcard/closeAndEasy", state.Slates.Wildcard, state.Slates.CloseAndEasy},
		}
		for _, p := range pairs {
			if o := Overlap(p.a, p.b); o >= 0.4 {
				t.Errorf("seed=%d %s 重合度 = %v, 应 < 0.4", seed, p.name, o)
			}
		}
	}
}

// TestCompose_EmptyInput 验证零候选产出三个空 slate 而不是错误。
func TestCompose_EmptyInput(t *testing.T) {
	n := &ComposeNode{Rand: NewRand(1)}
	state := composeState(nil)

	if err := n.Process(context.Background(), state); err != nil {
		t.Fatalf("零候选不应报错: %v", err)
	}
	for _, s := range state.Slates.All() {
		if len(s.Entries) != 0 {
			t.Errorf("slate %s 应为空", s.Name)
		}
		if s.Diversity != 0 {
			t.Errorf("空 slate 差异度 = %v, 期望 0", s.Diversity)
		}
	}
}

// TestCompose_WildcardPrefersNovelty 验证 wildcard 偏向高新颖度候选。
func TestCompose_WildcardPrefersNovelty(t *testing.T) {
	n := &ComposeNode{Rand: NewRand(1), SlateSize: 5}
	ranked := rankedFixture(30)
	state := composeState(ranked)

	if err := n.Process(context.Background(), state); err != nil {
		t.Fatalf("组装失败: %v", err)
	}

	novelty := make(map[string]float64)
	for _, se := range ranked {
		novelty[se.EventID] = se.Event.NoveltyScore
	}
	var sum float64
	for _, e := range state.Slates.Wildcard.Entries {
		sum += novelty[e.EventID]
	}
	avg := sum / float64(len(state.Slates.Wildcard.Entries))
	if avg < 0.5 {
		t.Errorf("wildcard 平均新颖度 = %v, 应偏向高新颖度（≥0.5）", avg)
	}
}

// TestCompose_CloseAndEasyPrefersNear 验证 closeAndEasy 偏向近距离。
func TestCompose_CloseAndEasyPrefersNear(t *testing.T) {
	n := &ComposeNode{Rand: NewRand(1), SlateSize: 5}
	ranked := rankedFixture(30)
	state := composeState(ranked)

	if err := n.Process(context.Background(), state); err != nil {
		t.Fatalf("组装失败: %v", err)
	}

	distance := make(map[string]float64)
	for _, se := range ranked {
		distance[se.EventID] = *se.Event.DistanceKm
	}
	for _, e := range state.Slates.CloseAndEasy.Entries {
		if distance[e.EventID] > 10 {
			t.Errorf("closeAndEasy 含远距离活动 %s (%.1f km)", e.EventID, distance[e.EventID])
		}
	}
}

// TestCompose_SmallPool 验证候选不足时的退化行为：
// best 全量吃下，closeAndEasy 允许重合保证有内容，
// wildcard 不重复已占用的候选（可以为空）。
func TestCompose_SmallPool(t *testing.T) {
	n := &ComposeNode{Rand: NewRand(1), SlateSize: 5}
	state := composeState(rankedFixture(3))

	if err := n.Process(context.Background(), state); err != nil {
		t.Fatalf("组装失败: %v", err)
	}
	if len(state.Slates.Best.Entries) != 3 {
		t.Errorf("best 条目数 = %d, 期望 3（全量）", len(state.Slates.Best.Entries))
	}
	if len(state.Slates.CloseAndEasy.Entries) == 0 {
		t.Error("closeAndEasy 应通过允许重合保证有内容")
	}
}

// TestCompose_ConcurrentRequests 验证进程级共享同一个节点时并发请求
// 不触发数据竞争：共享随机源必须可并发调用（配合 -race 运行）。
func TestCompose_ConcurrentRequests(t *testing.T) {
	shared := &ComposeNode{Rand: NewRand(42), SlateSize: 10}

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				state := composeState(rankedFixture(30))
				if err := shared.Process(context.Background(), state); err != nil {
					t.Errorf("组装失败: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()
}

// TestCompose_NoFieldWrite 验证未注入随机源时 Process 不回写节点字段，
// 节点在请求路径上保持只读。
func TestCompose_NoFieldWrite(t *testing.T) {
	n := &ComposeNode{SlateSize: 5}
	if err := n.Process(context.Background(), composeState(rankedFixture(30))); err != nil {
		t.Fatalf("组装失败: %v", err)
	}
	if n.Rand != nil {
		t.Error("Process 不应回写 Rand 字段")
	}
}
