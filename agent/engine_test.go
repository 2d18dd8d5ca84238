package agent

import (
	"context"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/rushteam/slatekit/core"
	"github.com/rushteam/slatekit/store"
)

// staticKeywordSearch 是固定候选池上的关键词后端，按城市过滤。
type staticKeywordSearch struct {
	events []*core.CandidateEvent
}

func (s *staticKeywordSearch) Name() string { return "static" }

func (s *staticKeywordSearch) Search(ctx context.Context, req *core.KeywordSearchRequest) (*core.KeywordSearchResult, error) {
	result := &core.KeywordSearchResult{}
	for i, ev := range s.events {
		if req.Filters.City != "" && ev.City != req.Filters.City {
			continue
		}
		result.Hits = append(result.Hits, core.KeywordHit{
			Event: ev,
			Score: 1.0 - float64(i)*0.02,
		})
	}
	result.Found = len(result.Hits)
	return result, nil
}

func (s *staticKeywordSearch) Close() error { return nil }

// seedEvents 构造一个混合候选池：部分活动落在请求窗口与预算内，
// 部分超窗、超预算或在别的城市。
func seedEvents(now time.Time) []*core.CandidateEvent {
	mk := func(id, title, category, venue, city string, startIn time.Duration, price float64, lat, lon float64) *core.CandidateEvent {
		return &core.CandidateEvent{
			ID:        id,
			Title:     title,
			Category:  category,
			Venue:     venue,
			City:      city,
			StartTime: now.Add(startIn),
			EndTime:   now.Add(startIn + 2*time.Hour),
			Price:     core.PriceRange{Min: price, Max: price, Known: true},
			Location:  &core.GeoPoint{Lat: lat, Lon: lon},
		}
	}
	return []*core.CandidateEvent{
		// 窗口内、预算内、近距离
		mk("e01", "Rooftop DJ Set", "music", "The Loft", "New York", 45*time.Minute, 25, 40.72, -74.00),
		mk("e02", "Underground Jazz Night", "music", "Blue Cellar", "New York", 90*time.Minute, 30, 40.73, -73.99),
		mk("e03", "Neon Art Walk", "art", "Gallery Row", "New York", 60*time.Minute, 0, 40.71, -74.01),
		mk("e04", "Late Tapas Tasting", "food", "Casa Brava", "New York", 2*time.Hour, 45, 40.74, -73.98),
		mk("e05", "Improv Showcase", "comedy", "Laugh Cellar", "New York", 100*time.Minute, 20, 40.72, -73.99),
		mk("e06", "Synthwave Live", "music", "Echo Hall", "New York", 150*time.Minute, 35, 40.73, -74.00),
		mk("e07", "Night Market", "food", "Pier 17", "New York", 30*time.Minute, 10, 40.70, -74.00),
		mk("e08", "Poetry Slam", "art", "Ink House", "New York", 2*time.Hour, 15, 40.71, -73.99),
		// 超窗（6 小时后）
		mk("e09", "Sunrise Yoga", "wellness", "Hudson Park", "New York", 6*time.Hour, 20, 40.72, -74.01),
		mk("e10", "Morning Run Club", "sports", "Central Park", "New York", 8*time.Hour, 0, 40.77, -73.97),
		// 超预算（casual 上限以上）
		mk("e11", "Gala Dinner", "food", "Grand Ballroom", "New York", 90*time.Minute, 250, 40.75, -73.98),
		mk("e12", "Premium Wine Pairing", "food", "Cellar 54", "New York", 2*time.Hour, 180, 40.74, -73.99),
		// 异城（关键词后端按城市过滤，不应出现）
		mk("e13", "Beach Bonfire", "outdoor", "Venice Beach", "Los Angeles", time.Hour, 0, 33.98, -118.46),
		// 已结束（过期过滤器应剔除）
		{
			ID: "e14", Title: "Yesterday Fair", Category: "market", Venue: "Old Pier", City: "New York",
			StartTime: now.Add(-26 * time.Hour), EndTime: now.Add(-24 * time.Hour),
			Price: core.PriceRange{Known: true}, Location: &core.GeoPoint{Lat: 40.70, Lon: -74.02},
		},
	}
}

func newTestEngine(now time.Time) *Engine {
	return NewEngine(context.Background(), Deps{
		Keyword: &staticKeywordSearch{events: seedEvents(now)},
		Cache:   store.NewMemoryStore(),
		Logger:  zerolog.Nop(),
	}, Options{SlateSize: 5})
}

// TestRecommend_EndToEnd 跑通完整链路：只配关键词后端，
// 其余信号全部降级，仍应产出三个 slate 与完整执行指标。
func TestRecommend_EndToEnd(t *testing.T) {
	now := time.Date(2026, 7, 10, 19, 0, 0, 0, time.UTC)
	engine := newTestEngine(now)

	resp, err := engine.Recommend(context.Background(), &Request{
		SessionID:    "sess-1",
		City:         "New York",
		QueryText:    "something electric tonight",
		Mood:         "electric",
		UntilMinutes: 180,
		DistanceKm:   5,
		Budget:       "casual",
		Now:          now,
	})
	if err != nil {
		t.Fatalf("Recommend 失败: %v", err)
	}
	if resp.TraceID == "" || resp.SessionID != "sess-1" {
		t.Errorf("标识缺失: trace=%q session=%q", resp.TraceID, resp.SessionID)
	}

	if resp.Slates == nil || resp.Slates.Best == nil || resp.Slates.Wildcard == nil || resp.Slates.CloseAndEasy == nil {
		t.Fatalf("三个 slate 都应存在: %+v", resp.Slates)
	}
	if len(resp.Slates.Best.Entries) == 0 {
		t.Fatal("best slate 不应为空")
	}

	seeded := make(map[string]bool)
	for _, ev := range seedEvents(now) {
		if ev.City == "New York" {
			seeded[ev.ID] = true
		}
	}
	for _, sl := range resp.Slates.All() {
		for i, e := range sl.Entries {
			if !seeded[e.EventID] {
				t.Errorf("slate %s 出现异城候选 %s", sl.Name, e.EventID)
			}
			if e.EventID == "e14" {
				t.Errorf("slate %s 包含已结束活动", sl.Name)
			}
			if e.Position != i {
				t.Errorf("slate %s 位次不连续: entries[%d].Position = %d", sl.Name, i, e.Position)
			}
			if e.Score < 0 || e.Score > 1 {
				t.Errorf("分数越界: %f", e.Score)
			}
			sum := 0.0
			for _, c := range e.FactorContributions {
				sum += c
			}
			if math.Abs(e.Score-sum) > 1e-9 {
				t.Errorf("%s 贡献和 %f != 分数 %f", e.EventID, sum, e.Score)
			}
		}
	}

	// 窗口与预算契合的活动应主导 best 的非探索位
	inWindow := map[string]bool{"e01": true, "e02": true, "e03": true, "e04": true, "e05": true, "e06": true, "e07": true, "e08": true}
	fit := 0
	total := 0
	for _, e := range resp.Slates.Best.Entries {
		if e.Exploratory {
			continue
		}
		total++
		if inWindow[e.EventID] {
			fit++
		}
	}
	if total > 0 && fit*2 < total {
		t.Errorf("best 非探索位中窗口内活动占比过低: %d/%d", fit, total)
	}

	if resp.Metrics == nil {
		t.Fatal("执行指标缺失")
	}
	if len(resp.Metrics.NodeLogs) != 9 {
		t.Errorf("节点日志数 = %d, 期望 9", len(resp.Metrics.NodeLogs))
	}
	if resp.Metrics.SuccessRate != 1.0 {
		t.Errorf("降级不应计为节点失败, success_rate = %f", resp.Metrics.SuccessRate)
	}
	if resp.Metrics.Retrieval == nil || resp.Metrics.Retrieval.KeywordCount == 0 {
		t.Errorf("关键词召回统计缺失: %+v", resp.Metrics.Retrieval)
	}

	flags := strings.Join(resp.DegradedFlags, ",")
	for _, want := range []string{core.DegradedNoVectorSearch, core.DegradedNoGraph, core.DegradedNoLogSink} {
		if !strings.Contains(flags, want) {
			t.Errorf("降级标记缺少 %s: %v", want, resp.DegradedFlags)
		}
	}
}

// TestRecommend_SlateOverlap 验证同一次请求的三个 slate 两两重叠受控。
// slate 容量取 3，保证候选量相对容量充足（重叠目标只约束正常候选量）。
func TestRecommend_SlateOverlap(t *testing.T) {
	now := time.Date(2026, 7, 10, 19, 0, 0, 0, time.UTC)
	engine := NewEngine(context.Background(), Deps{
		Keyword: &staticKeywordSearch{events: seedEvents(now)},
		Cache:   store.NewMemoryStore(),
		Logger:  zerolog.Nop(),
	}, Options{SlateSize: 3})

	resp, err := engine.Recommend(context.Background(), &Request{
		City:         "New York",
		UntilMinutes: 300,
		Budget:       "casual",
		Now:          now,
	})
	if err != nil {
		t.Fatalf("Recommend 失败: %v", err)
	}

	ids := func(sl *core.Slate) map[string]bool {
		out := make(map[string]bool)
		for _, e := range sl.Entries {
			out[e.EventID] = true
		}
		return out
	}
	slates := resp.Slates.All()
	for i := 0; i < len(slates); i++ {
		for j := i + 1; j < len(slates); j++ {
			a, b := ids(slates[i]), ids(slates[j])
			if len(a) == 0 || len(b) == 0 {
				continue
			}
			inter, union := 0, len(b)
			for id := range a {
				if b[id] {
					inter++
				} else {
					union++
				}
			}
			if overlap := float64(inter) / float64(union); overlap >= 0.4 {
				t.Errorf("%s 与 %s 重叠 %f >= 0.4", slates[i].Name, slates[j].Name, overlap)
			}
		}
	}
}

// TestRecommend_Validation 验证入参校验：失败应返回 INVALID_INPUT 且无响应。
func TestRecommend_Validation(t *testing.T) {
	engine := newTestEngine(time.Now())

	tests := []struct {
		name string
		req  *Request
	}{
		{"nil 请求", nil},
		{"缺少城市", &Request{Budget: "casual"}},
		{"非法预算档", &Request{City: "New York", Budget: "lavish"}},
		{"窗口超上限", &Request{City: "New York", UntilMinutes: 2000}},
		{"距离为负", &Request{City: "New York", DistanceKm: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := engine.Recommend(context.Background(), tt.req)
			if err == nil {
				t.Fatal("应返回校验错误")
			}
			if !core.IsInvalidInput(err) {
				t.Errorf("错误码应为 INVALID_INPUT: %v", err)
			}
			if resp != nil {
				t.Error("校验失败不应产出响应")
			}
		})
	}
}

// TestRecommend_EmptyPool 验证空召回也能走完链路：
// 三个 slate 为空，质检给出提示文案。
func TestRecommend_EmptyPool(t *testing.T) {
	engine := NewEngine(context.Background(), Deps{
		Keyword: &staticKeywordSearch{},
		Cache:   store.NewMemoryStore(),
		Logger:  zerolog.Nop(),
	}, Options{})

	resp, err := engine.Recommend(context.Background(), &Request{City: "Nowhere"})
	if err != nil {
		t.Fatalf("空召回不应失败: %v", err)
	}
	if resp.Slates == nil || resp.Slates.Best == nil {
		t.Fatal("空召回也应返回 slate 骨架")
	}
	if len(resp.Slates.Best.Entries) != 0 {
		t.Errorf("best 应为空: %v", resp.Slates.Best.Entries)
	}
	found := false
	for _, w := range resp.Warnings {
		if strings.Contains(w, "no matches") {
			found = true
		}
	}
	if !found {
		t.Errorf("空结果应带质检告警: %v", resp.Warnings)
	}
}
