package core

import (
	"context"
	"time"
)

// QueryLogEvent 是一次查询的离线学习日志，结构化落盘（不使用 any payload）。
type QueryLogEvent struct {
	TraceID    string    `json:"trace_id"`
	SessionID  string    `json:"session_id"`
	UserID     string    `json:"user_id,omitempty"`
	City       string    `json:"city"`
	QueryText  string    `json:"query_text,omitempty"`
	Mood       string    `json:"mood,omitempty"`
	Budget     string    `json:"budget,omitempty"`
	Candidates int       `json:"candidates"`
	At         time.Time `json:"at"`
}

// ImpressionLogEvent 是 slate 曝光日志：记录策略、位次与探索标记，
// 供离线训练回填策略表现。
type ImpressionLogEvent struct {
	TraceID     string    `json:"trace_id"`
	SessionID   string    `json:"session_id"`
	UserID      string    `json:"user_id,omitempty"`
	Slate       string    `json:"slate"`
	EventID     string    `json:"event_id"`
	Position    int       `json:"position"`
	Score       float64   `json:"score"`
	Policy      string    `json:"policy,omitempty"`
	Exploratory bool      `json:"exploratory,omitempty"`
	At          time.Time `json:"at"`
}

// InteractionLogSink 是 fire-and-forget 的日志下游。
// 写入失败只记日志、吞掉错误，绝不影响用户响应。
type InteractionLogSink interface {
	Name() string
	AppendQuery(ctx context.Context, ev *QueryLogEvent) error
	AppendImpression(ctx context.Context, ev *ImpressionLogEvent) error
	Close() error
}
