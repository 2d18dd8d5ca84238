package rank

import (
	"testing"
	"time"

	"github.com/rushteam/slatekit/core"
)

func testIntention(mood, budget string, untilMinutes int, distanceKm float64) *core.Intention {
	return &core.Intention{
		City: "New York",
		Now:  time.Date(2026, 6, 1, 18, 0, 0, 0, time.UTC),
		Tokens: core.IntentTokens{
			Mood:         mood,
			UntilMinutes: untilMinutes,
			DistanceKm:   distanceKm,
			Budget:       budget,
		},
	}
}

func enrichedAt(startIn time.Duration, it *core.Intention) *core.EnrichedEvent {
	ev := core.NewCandidateEvent("evt-t")
	ev.StartTime = it.Now.Add(startIn)
	return &core.EnrichedEvent{CandidateEvent: ev}
}

// TestTimeFit 验证时间契合度的离散衰减边界（窗口 180 分钟）。
func TestTimeFit(t *testing.T) {
	it := testIntention("", "", 180, 0)

	tests := []struct {
		name    string
		startIn time.Duration
		want    float64
	}{
		{"已开始", -10 * time.Minute, 0.1},
		{"窗口内", 90 * time.Minute, 1.0},
		{"恰在窗口边界", 180 * time.Minute, 1.0},
		{"1.5倍窗口内", 240 * time.Minute, 0.6},
		{"恰在1.5倍边界", 270 * time.Minute, 0.6},
		{"3倍窗口内", 400 * time.Minute, 0.3},
		{"恰在3倍边界", 540 * time.Minute, 0.3},
		{"远超窗口", 600 * time.Minute, 0.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := timeFit(it, enrichedAt(tt.startIn, it))
			if got != tt.want {
				t.Errorf("timeFit(%v) = %v, 期望 %v", tt.startIn, got, tt.want)
			}
		})
	}
}

// TestTimeFit_DefaultWindow 验证未指定窗口时默认 3 小时。
func TestTimeFit_DefaultWindow(t *testing.T) {
	it := testIntention("", "", 0, 0)
	if got := timeFit(it, enrichedAt(170*time.Minute, it)); got != 1.0 {
		t.Errorf("默认窗口内 timeFit = %v, 期望 1.0", got)
	}
	if got := timeFit(it, enrichedAt(4*time.Hour, it)); got != 0.6 {
		t.Errorf("默认窗口 1.5 倍内 timeFit = %v, 期望 0.6", got)
	}
}

// TestDistanceComfort 验证距离舒适度按半径占比的离散衰减。
func TestDistanceComfort(t *testing.T) {
	it := testIntention("", "", 0, 10)

	tests := []struct {
		name string
		km   *float64
		want float64
	}{
		{"半径一半以内", ptr(4.0), 1.0},
		{"恰在半径一半", ptr(5.0), 1.0},
		{"半径内", ptr(8.0), 0.7},
		{"恰在半径", ptr(10.0), 0.7},
		{"1.5倍半径内", ptr(14.0), 0.4},
		{"超出1.5倍", ptr(20.0), 0.1},
		{"距离缺失", nil, neutralDistance},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := enrichedAt(time.Hour, it)
			ev.DistanceKm = tt.km
			if got := distanceComfort(it, ev); got != tt.want {
				t.Errorf("distanceComfort = %v, 期望 %v", got, tt.want)
			}
		})
	}
}

// TestPriceComfort 验证价格舒适度：free 档只认免费，非零档按上限分档。
func TestPriceComfort(t *testing.T) {
	tests := []struct {
		name   string
		budget string
		price  core.PriceRange
		want   float64
	}{
		{"free档免费活动", "free", core.PriceRange{Min: 0, Max: 0, Known: true}, 1.0},
		{"free档收费活动", "free", core.PriceRange{Min: 5, Max: 5, Known: true}, 0.0},
		{"casual档上限内", "casual", core.PriceRange{Min: 20, Max: 60, Known: true}, 1.0},
		{"casual档1.3倍内", "casual", core.PriceRange{Min: 20, Max: 70, Known: true}, 0.6},
		{"casual档超出", "casual", core.PriceRange{Min: 20, Max: 100, Known: true}, 0.2},
		{"premium档上限内", "premium", core.PriceRange{Min: 80, Max: 150, Known: true}, 1.0},
		{"价格未知", "casual", core.PriceRange{}, neutralPrice},
		{"预算档位缺失", "", core.PriceRange{Min: 20, Max: 40, Known: true}, neutralBudget},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it := testIntention("", tt.budget, 0, 0)
			ev := enrichedAt(time.Hour, it)
			ev.Price = tt.price
			if got := priceComfort(it, ev); got != tt.want {
				t.Errorf("priceComfort = %v, 期望 %v", got, tt.want)
			}
		})
	}
}

// TestMoodAlignment 验证氛围契合度：完全命中 1.0、部分命中 0.7、
// 无命中 0.3、缺失给中性分。
func TestMoodAlignment(t *testing.T) {
	tests := []struct {
		name     string
		mood     string
		category string
		want     float64
	}{
		{"完全命中", "electric", "MUSIC", 1.0},
		{"大小写不敏感", "ELECTRIC", "music", 1.0},
		{"部分命中", "electric", "MUSIC_FESTIVAL", 0.7},
		{"无命中", "electric", "LECTURE", 0.3},
		{"类目缺失", "electric", "", missingCategory},
		{"mood缺失", "", "MUSIC", neutralMood},
		{"未知mood", "sleepy", "MUSIC", neutralMood},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := moodAlignment(tt.mood, tt.category); got != tt.want {
				t.Errorf("moodAlignment(%q, %q) = %v, 期望 %v", tt.mood, tt.category, got, tt.want)
			}
		})
	}
}

// TestSocialHeatScore 验证饱和压缩与加权组合。
func TestSocialHeatScore(t *testing.T) {
	if got := socialHeatScore(core.SocialHeat{}, 0); got != 0 {
		t.Errorf("零计数 = %v, 期望 0", got)
	}

	// 单调性：计数越高分越高，但不超过 1
	low := socialHeatScore(core.SocialHeat{Views: 10, Saves: 1}, 0)
	high := socialHeatScore(core.SocialHeat{Views: 500, Saves: 50}, 5)
	if low >= high {
		t.Errorf("热度应单调递增: low=%v high=%v", low, high)
	}
	if high > 1 {
		t.Errorf("热度分超出上界: %v", high)
	}

	// saturate 边界
	if got := saturate(50, 50); got != 0.5 {
		t.Errorf("saturate(50, 50) = %v, 期望 0.5", got)
	}
	if got := saturate(-1, 50); got != 0 {
		t.Errorf("负输入应为 0, 得到 %v", got)
	}
}

// TestBuildFeatures_Deterministic 验证特征构建是纯函数。
func TestBuildFeatures_Deterministic(t *testing.T) {
	it := testIntention("electric", "casual", 180, 5)
	ev := enrichedAt(time.Hour, it)
	ev.Category = "MUSIC"
	ev.Relevance = 0.8
	ev.Price = core.PriceRange{Min: 10, Max: 30, Known: true}
	ev.DistanceKm = ptr(2.0)
	ev.NoveltyScore = 0.7
	ev.TasteMatchScore = 0.6
	ev.Heat = core.SocialHeat{Views: 100, Saves: 20}
	ev.FriendInterest = 2

	a := BuildFeatures(it, ev)
	b := BuildFeatures(it, ev)
	if a != b {
		t.Errorf("相同输入得到不同特征: %+v vs %+v", a, b)
	}
	if a.TimeFit != 1.0 || a.DistanceComfort != 1.0 || a.PriceComfort != 1.0 || a.MoodAlignment != 1.0 {
		t.Errorf("理想候选的特征应全为 1.0: %+v", a)
	}
}

func ptr(f float64) *float64 { return &f }
