package agent

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/rushteam/slatekit/core"
	"github.com/rushteam/slatekit/critic"
	"github.com/rushteam/slatekit/enrich"
	"github.com/rushteam/slatekit/filter"
	"github.com/rushteam/slatekit/pipeline"
	"github.com/rushteam/slatekit/rank"
	"github.com/rushteam/slatekit/retrieve"
	"github.com/rushteam/slatekit/slate"
)

// Deps 是引擎的外部依赖集合。除检索通道外全部可选：
// 缺谁降级谁，链路不换形状。
type Deps struct {
	// 检索通道（至少配置一个，否则召回必然为空）
	Vector   core.VectorSearchService
	Keyword  core.KeywordSearchService
	Embedder core.Embedder
	Reranker core.RerankService
	Cache    core.Store

	// 补全信号
	Graph        core.GraphService
	Embeddings   core.EmbeddingStore
	UserLocation func(userID string) (core.GeoPoint, bool)

	// 快照与日志
	Snapshots core.SnapshotStore
	LogSink   core.InteractionLogSink

	// 候选过滤器；nil 时使用默认的过期活动过滤
	Filters []filter.Filter

	Logger zerolog.Logger
}

// Options 是引擎的调优参数，零值即合理默认。
type Options struct {
	Retrieve  retrieve.Options
	SlateSize int // 每个 slate 的容量，默认 10

	// SnapshotTimeout 是启动时加载权重快照的超时，默认 1s。
	SnapshotTimeout time.Duration
}

// Engine 是推荐引擎的门面：固定的九段编排图 +
// 一次性装配好的依赖。并发安全，整个进程共享一个实例。
//
// 编排图（按序）：
//
//	intent → retrieve → filter → enrich → rank → slate → critic → format → log
type Engine struct {
	pipeline *pipeline.Pipeline
	logger   zerolog.Logger
}

// NewEngine 装配引擎。权重快照在此时加载一次（有界超时、失败兜底），
// 请求路径不再读快照。
func NewEngine(ctx context.Context, deps Deps, opts Options) *Engine {
	logger := deps.Logger

	weights, snapshotDegraded := rank.LoadWeights(ctx, deps.Snapshots, opts.SnapshotTimeout, logger)

	filters := deps.Filters
	if filters == nil {
		filters = []filter.Filter{&filter.ExpiredFilter{}}
	}

	// 随机源在装配期建好一个并发安全实例，请求路径只读节点字段。
	rnd := slate.NewTimeRand()

	nodes := []pipeline.Node{
		&intentNode{},
		&retrieve.HybridNode{
			Retriever: &retrieve.Retriever{
				Vector:   deps.Vector,
				Keyword:  deps.Keyword,
				Embedder: deps.Embedder,
				Reranker: deps.Reranker,
				Cache:    deps.Cache,
				Logger:   logger,
			},
			Options: opts.Retrieve,
		},
		&filter.Node{Filters: filters},
		&enrich.Node{
			Enricher: &enrich.Enricher{
				Graph:        deps.Graph,
				Embeddings:   deps.Embeddings,
				UserLocation: deps.UserLocation,
				Logger:       logger,
			},
		},
		&rank.Node{
			Model:            rank.NewWeightedSumModel(weights),
			SnapshotDegraded: snapshotDegraded,
		},
		&slate.ComposeNode{
			Selector:  &slate.PolicySelector{Snapshots: deps.Snapshots, Rand: rnd, Logger: logger},
			Rand:      rnd,
			SlateSize: opts.SlateSize,
			Logger:    logger,
		},
		&critic.Node{},
		&formatNode{},
		&logNode{Sink: deps.LogSink, Logger: logger},
	}

	return &Engine{
		pipeline: &pipeline.Pipeline{Nodes: nodes, Logger: logger},
		logger:   logger,
	}
}

// Recommend 执行一次完整推荐。
//
// 返回约定：
//   - 入参校验失败 → (nil, INVALID_INPUT)
//   - required 节点失败 → 部分累积的响应 + 错误（显式失败，不装没事）
//   - 其余情况 → 完整响应，降级信息在 DegradedFlags/Warnings 里
func (e *Engine) Recommend(ctx context.Context, req *Request) (*Response, error) {
	if req == nil {
		return nil, core.NewDomainError(core.ModuleAgent, core.ErrorCodeInvalidInput, "request is nil")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	traceID := uuid.NewString()

	state := core.NewAgentState(sessionID, traceID)
	state.UserID = req.UserID
	state.QueryText = req.QueryText
	state.Intention = req.Intention()

	start := time.Now()
	runErr := e.pipeline.Run(ctx, state)
	totalMs := time.Since(start).Milliseconds()

	e.logger.Info().
		Str("trace_id", traceID).
		Str("city", state.Intention.City).
		Int("candidates", len(state.Candidates)).
		Int64("total_ms", totalMs).
		Float64("success_rate", state.SuccessRate()).
		Bool("failed", runErr != nil).
		Msg("recommendation completed")

	return e.buildResponse(state, totalMs), runErr
}

func (e *Engine) buildResponse(state *core.AgentState, totalMs int64) *Response {
	return &Response{
		TraceID:       state.TraceID,
		SessionID:     state.SessionID,
		Slates:        state.Slates,
		Reasons:       state.Reasons,
		Warnings:      state.Warnings,
		DegradedFlags: sortedFlags(state),
		Metrics: &ExecutionMetrics{
			TotalMs:     totalMs,
			NodeLogs:    state.NodeLogs,
			SuccessRate: state.SuccessRate(),
			Retrieval:   state.Retrieval,
		},
	}
}
