package retrieve

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/rushteam/slatekit/core"
	"github.com/rushteam/slatekit/pkg/utils"
)

// Options 是单次召回的参数。
type Options struct {
	TopK        int           // 每个通道的召回量
	RerankTop   int           // 重排/截断窗口
	UseReranker bool          // 是否启用 cross-encoder 重排
	Timeout     time.Duration // 整个 fan-out 的总超时
	CacheKey    string        // 非空时启用结果缓存
	CacheTTL    int           // 缓存 TTL（秒），默认 60
}

func (o Options) withDefaults() Options {
	if o.TopK <= 0 {
		o.TopK = 40
	}
	if o.RerankTop <= 0 {
		o.RerankTop = 20
	}
	if o.Timeout <= 0 {
		o.Timeout = 800 * time.Millisecond
	}
	if o.CacheTTL <= 0 {
		o.CacheTTL = 60
	}
	return o
}

// Result 是召回结果。调用方通过 RerankApplied / *Failed 标记感知降级，
// 召回本身永远不向上抛错：部分结果优于没有结果。
type Result struct {
	Candidates    []*core.CandidateEvent `json:"candidates"`
	VectorCount   int                    `json:"vector_count"`
	KeywordCount  int                    `json:"keyword_count"`
	RerankApplied bool                   `json:"rerank_applied"`
	VectorFailed  bool                   `json:"vector_failed"`
	KeywordFailed bool                   `json:"keyword_failed"`
	CacheHit      bool                   `json:"cache_hit"`
	LatencyMs     int64                  `json:"latency_ms"`
}

// Retriever 并发执行向量召回与关键词召回，合并去重为候选集。
// 两个分支各自吞掉自己的错误并降级为空结果；整个 fan-out 受总超时约束，
// 超时同样按空结果处理（召回继续，不失败）。
type Retriever struct {
	Vector   core.VectorSearchService
	Keyword  core.KeywordSearchService
	Embedder core.Embedder
	Reranker core.RerankService
	Cache    core.Store // 可选：短 TTL 结果缓存
	Logger   zerolog.Logger
}

// Retrieve 执行一次混合召回。永不返回 error。
func (r *Retriever) Retrieve(
	ctx context.Context,
	queryText string,
	intention *core.Intention,
	opts Options,
) *Result {
	opts = opts.withDefaults()
	start := time.Now()

	if cached := r.cacheGet(ctx, opts.CacheKey); cached != nil {
		cached.CacheHit = true
		cached.LatencyMs = time.Since(start).Milliseconds()
		return cached
	}

	fanoutCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	var (
		vecHits []core.VectorHit
		kwHits  []core.KeywordHit
		res     = &Result{}
	)

	// 两个分支各自 catch 自己的错误：单个后端故障不得中断召回。
	eg, egCtx := errgroup.WithContext(fanoutCtx)
	eg.Go(func() error {
		hits, err := r.searchVector(egCtx, queryText, intention, opts.TopK)
		if err != nil {
			r.Logger.Warn().Err(err).Msg("vector retrieval degraded to empty")
			res.VectorFailed = true
			return nil
		}
		vecHits = hits
		return nil
	})
	eg.Go(func() error {
		hits, err := r.searchKeyword(egCtx, queryText, intention, opts.TopK)
		if err != nil {
			r.Logger.Warn().Err(err).Msg("keyword retrieval degraded to empty")
			res.KeywordFailed = true
			return nil
		}
		kwHits = hits
		return nil
	})
	_ = eg.Wait() // 分支自身永不返回 error

	res.VectorCount = len(vecHits)
	res.KeywordCount = len(kwHits)
	res.Candidates = union(vecHits, kwHits)

	res.Candidates, res.RerankApplied = r.rerank(ctx, queryText, res.Candidates, opts)

	res.LatencyMs = time.Since(start).Milliseconds()
	r.cacheSet(ctx, opts.CacheKey, opts.CacheTTL, res)
	return res
}

func (r *Retriever) searchVector(
	ctx context.Context,
	queryText string,
	intention *core.Intention,
	topK int,
) ([]core.VectorHit, error) {
	if r.Vector == nil || r.Embedder == nil {
		return nil, nil
	}
	emb, err := r.Embedder.EmbedQuery(ctx, queryText)
	if err != nil {
		return nil, err
	}
	out, err := r.Vector.Search(ctx, &core.VectorSearchRequest{
		Embedding: emb,
		City:      intention.City,
		TopK:      topK,
	})
	if err != nil {
		return nil, err
	}
	return out.Hits, nil
}

func (r *Retriever) searchKeyword(
	ctx context.Context,
	queryText string,
	intention *core.Intention,
	topK int,
) ([]core.KeywordHit, error) {
	if r.Keyword == nil {
		return nil, nil
	}
	filters := core.KeywordSearchFilters{
		City:     intention.City,
		DateFrom: intention.Now,
		DateTo:   intention.Now.Add(3 * intention.Window()),
	}
	if ceiling, ok := core.BudgetCeiling(intention.Tokens.Budget); ok && ceiling > 0 {
		filters.PriceMax = ceiling
	}
	out, err := r.Keyword.Search(ctx, &core.KeywordSearchRequest{
		Query:   queryText,
		Filters: filters,
		Page:    1,
		Limit:   topK,
	})
	if err != nil {
		return nil, err
	}
	return out.Hits, nil
}

// union 合并两个通道：向量命中优先入列，关键词命中按活动 ID 去重后追加。
// 向量通道非空时，追加的关键词命中标记为 hybrid；
// 向量通道整体缺席时保留 keyword 标记，便于观测降级形态。
func union(vecHits []core.VectorHit, kwHits []core.KeywordHit) []*core.CandidateEvent {
	seen := make(map[string]bool, len(vecHits)+len(kwHits))
	out := make([]*core.CandidateEvent, 0, len(vecHits)+len(kwHits))

	for _, h := range vecHits {
		if h.Event == nil || seen[h.Event.ID] {
			continue
		}
		seen[h.Event.ID] = true
		h.Event.Channel = core.ChannelVector
		h.Event.Relevance = h.Score
		h.Event.PutLabel("retrieve_source", utils.Label{Value: "vector", Source: "retrieve"})
		out = append(out, h.Event)
	}

	appended := core.ChannelHybrid
	if len(vecHits) == 0 {
		appended = core.ChannelKeyword
	}
	for _, h := range kwHits {
		if h.Event == nil || seen[h.Event.ID] {
			continue
		}
		seen[h.Event.ID] = true
		h.Event.Channel = appended
		h.Event.Relevance = h.Score
		h.Event.PutLabel("retrieve_source", utils.Label{Value: "keyword", Source: "retrieve"})
		out = append(out, h.Event)
	}
	return out
}

// rerank 对合并结果的前 RerankTop 个做 cross-encoder 重打分并按新分排序。
// 未配置或失败时优雅跳过：返回前 RerankTop 个原始结果。
func (r *Retriever) rerank(
	ctx context.Context,
	queryText string,
	candidates []*core.CandidateEvent,
	opts Options,
) ([]*core.CandidateEvent, bool) {
	if len(candidates) > opts.RerankTop {
		candidates = candidates[:opts.RerankTop]
	}
	if !opts.UseReranker || r.Reranker == nil || len(candidates) == 0 {
		return candidates, false
	}

	passages := make([]string, len(candidates))
	for i, c := range candidates {
		passages[i] = c.Title + " " + c.Description
	}
	scores, err := r.Reranker.Rerank(ctx, queryText, passages)
	if err != nil || len(scores) != len(candidates) {
		r.Logger.Warn().Err(err).Msg("rerank skipped")
		return candidates, false
	}

	for i, c := range candidates {
		c.Relevance = scores[i]
		c.PutLabel("reranked", utils.Label{Value: "cross_encoder", Source: "retrieve"})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Relevance > candidates[j].Relevance
	})
	return candidates, true
}

func (r *Retriever) cacheGet(ctx context.Context, key string) *Result {
	if r.Cache == nil || key == "" {
		return nil
	}
	data, err := r.Cache.Get(ctx, "retrieve:"+key)
	if err != nil {
		return nil
	}
	var res Result
	if err := json.Unmarshal(data, &res); err != nil {
		return nil
	}
	return &res
}

func (r *Retriever) cacheSet(ctx context.Context, key string, ttl int, res *Result) {
	if r.Cache == nil || key == "" {
		return
	}
	data, err := json.Marshal(res)
	if err != nil {
		return
	}
	if err := r.Cache.Set(ctx, "retrieve:"+key, data, ttl); err != nil {
		r.Logger.Warn().Err(err).Msg("retrieval cache write failed")
	}
}
