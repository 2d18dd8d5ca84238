package retrieve

import (
	"context"
	"fmt"

	"github.com/rushteam/slatekit/core"
	"github.com/rushteam/slatekit/pipeline"
)

// HybridNode 是召回节点：required。失败语义只有一种，
// 即意图缺失（malformed state）；召回本身的后端故障全部在 Retriever 内降级。
type HybridNode struct {
	Retriever *Retriever
	Options   Options
}

func (n *HybridNode) Name() string        { return "retrieve.hybrid" }
func (n *HybridNode) Kind() pipeline.Kind { return pipeline.KindRetrieve }
func (n *HybridNode) Required() bool      { return true }

func (n *HybridNode) Process(ctx context.Context, state *core.AgentState) error {
	if n.Retriever == nil {
		return fmt.Errorf("retriever not configured")
	}
	if state.Intention == nil {
		return fmt.Errorf("intention missing")
	}

	opts := n.Options
	if opts.CacheKey == "" && state.SessionID != "" {
		opts.CacheKey = state.SessionID + ":" + state.QueryText
	}

	res := n.Retriever.Retrieve(ctx, n.queryText(state), state.Intention, opts)

	state.Candidates = res.Candidates
	state.Retrieval = &core.RetrievalStats{
		VectorCount:   res.VectorCount,
		KeywordCount:  res.KeywordCount,
		RerankApplied: res.RerankApplied,
		CacheHit:      res.CacheHit,
		LatencyMs:     res.LatencyMs,
	}
	// 后端故障与通道未配置，对下游是同一件事：本次请求没有该信号。
	if res.VectorFailed || n.Retriever.Vector == nil || n.Retriever.Embedder == nil {
		state.SetDegraded(core.DegradedNoVectorSearch)
	}
	if res.KeywordFailed || n.Retriever.Keyword == nil {
		state.SetDegraded(core.DegradedNoKeywordSearch)
	}
	if opts.UseReranker && !res.RerankApplied && !res.CacheHit {
		state.SetDegraded(core.DegradedNoReranker)
	}
	return nil
}

// queryText 优先用自由文本，缺失时从结构化意图拼一个检索串。
func (n *HybridNode) queryText(state *core.AgentState) string {
	if state.QueryText != "" {
		return state.QueryText
	}
	it := state.Intention
	q := it.Tokens.Mood
	if q == "" {
		q = "events"
	}
	return q + " " + it.City
}
