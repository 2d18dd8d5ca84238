package core

import (
	"time"

	"github.com/rushteam/slatekit/pkg/utils"
)

// SourceChannel 标记候选的召回通道。
type SourceChannel string

const (
	ChannelVector  SourceChannel = "vector"  // 向量相似召回
	ChannelKeyword SourceChannel = "keyword" // 关键词召回
	ChannelHybrid  SourceChannel = "hybrid"  // 关键词补充进向量结果（去重后追加）
)

// PriceRange 是活动的价格区间。Known 为 false 表示价格未知，
// 下游按"缺失不惩罚"策略给中性分，不默认为 0。
type PriceRange struct {
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Known bool    `json:"known"`
}

// GeoPoint 是活动坐标。缺失坐标用 nil *GeoPoint 表达，
// 距离计算时向下游传 nil 距离，而不是 0。
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// CandidateEvent 是召回阶段的原始命中，按活动 ID 去重后每个 ID 一条。
// Labels 是全链路透传的可解释标记。
type CandidateEvent struct {
	ID          string                 `json:"id"`
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Category    string                 `json:"category"`
	Venue       string                 `json:"venue"`
	City        string                 `json:"city"`
	StartTime   time.Time              `json:"start_time"`
	EndTime     time.Time              `json:"end_time"`
	Price       PriceRange             `json:"price"`
	Location    *GeoPoint              `json:"location,omitempty"`
	Tags        []string               `json:"tags,omitempty"`
	Channel     SourceChannel          `json:"channel"`
	Relevance   float64                `json:"relevance"` // 召回侧的源内相关性分
	Labels      map[string]utils.Label `json:"labels,omitempty"`
}

func NewCandidateEvent(id string) *CandidateEvent {
	return &CandidateEvent{
		ID:     id,
		Labels: make(map[string]utils.Label),
	}
}

// PutLabel 写入 Label；同名 key 按默认 Merge 规则累积。
func (e *CandidateEvent) PutLabel(key string, lbl utils.Label) {
	if e.Labels == nil {
		e.Labels = make(map[string]utils.Label)
	}
	if old, ok := e.Labels[key]; ok {
		e.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	e.Labels[key] = lbl
}

// SocialHeat 是固定回看窗口内的社交热度计数。
type SocialHeat struct {
	Views   int `json:"views"`
	Saves   int `json:"saves"`
	Attends int `json:"attends"`
}

// EnrichedEvent 是补全信号后的候选，与 CandidateEvent 一一对应。
// 信号缺失时填中性默认值（0.5 / 0 / 零值），并在 AgentState 上记录降级标记；
// 距离例外：坐标缺失时 DistanceKm 为 nil，下游给中性分。
type EnrichedEvent struct {
	*CandidateEvent

	DistanceKm        *float64   `json:"distance_km,omitempty"`
	TravelTimeMinutes *float64   `json:"travel_time_minutes,omitempty"`
	NoveltyScore      float64    `json:"novelty_score"`     // [0,1]
	FriendInterest    int        `json:"friend_interest"`   // 感兴趣的好友数
	Heat              SocialHeat `json:"heat"`
	TasteMatchScore   float64    `json:"taste_match_score"` // [0,1]
	Embedding         []float64  `json:"-"`
}
