package agent

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/rushteam/slatekit/core"
	"github.com/rushteam/slatekit/pipeline"
)

// logNode 是日志节点：optional、fire-and-forget。把查询与曝光日志
// 异步写入下游；写入失败只打日志，绝不影响用户响应。
// Sink 未配置时置降级标记并直接跳过。
type logNode struct {
	Sink    core.InteractionLogSink
	Timeout time.Duration // 异步写入的独立超时，默认 2s
	Logger  zerolog.Logger
}

func (n *logNode) Name() string        { return "log.interactions" }
func (n *logNode) Kind() pipeline.Kind { return pipeline.KindLog }
func (n *logNode) Required() bool      { return false }

func (n *logNode) Process(_ context.Context, state *core.AgentState) error {
	if n.Sink == nil {
		state.SetDegraded(core.DegradedNoLogSink)
		return nil
	}

	query, impressions := n.collect(state)

	// 请求上下文随响应结束，异步写入用独立的根上下文。
	timeout := n.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := n.Sink.AppendQuery(ctx, query); err != nil {
			n.Logger.Warn().Err(err).Str("trace_id", query.TraceID).Msg("append query log failed")
		}
		for _, imp := range impressions {
			if err := n.Sink.AppendImpression(ctx, imp); err != nil {
				n.Logger.Warn().Err(err).Str("trace_id", imp.TraceID).Msg("append impression log failed")
				return
			}
		}
	}()
	return nil
}

// collect 在请求协程内拍快照，异步协程只读自己的副本。
func (n *logNode) collect(state *core.AgentState) (*core.QueryLogEvent, []*core.ImpressionLogEvent) {
	now := time.Now()

	query := &core.QueryLogEvent{
		TraceID:    state.TraceID,
		SessionID:  state.SessionID,
		UserID:     state.UserID,
		QueryText:  state.QueryText,
		Candidates: len(state.Candidates),
		At:         now,
	}
	if state.Intention != nil {
		query.City = state.Intention.City
		query.Mood = state.Intention.Tokens.Mood
		query.Budget = state.Intention.Tokens.Budget
	}

	policy := ""
	if state.Policy != nil {
		policy = state.Policy.Name
	}

	var impressions []*core.ImpressionLogEvent
	if state.Slates != nil {
		for _, slate := range state.Slates.All() {
			for _, entry := range slate.Entries {
				impressions = append(impressions, &core.ImpressionLogEvent{
					TraceID:     state.TraceID,
					SessionID:   state.SessionID,
					UserID:      state.UserID,
					Slate:       slate.Name,
					EventID:     entry.EventID,
					Position:    entry.Position,
					Score:       entry.Score,
					Policy:      policy,
					Exploratory: entry.Exploratory,
					At:          now,
				})
			}
		}
	}
	return query, impressions
}
