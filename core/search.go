package core

import (
	"context"
	"time"
)

// KeywordSearchFilters 是关键词检索的过滤条件。
type KeywordSearchFilters struct {
	City     string
	Category string
	DateFrom time.Time
	DateTo   time.Time
	PriceMax float64 // <= 0 表示不限
}

// KeywordSearchRequest 是关键词检索请求。
type KeywordSearchRequest struct {
	Query   string
	Filters KeywordSearchFilters
	Page    int
	Limit   int
}

// KeywordHit 是单条关键词命中，Score 为后端的相关性分。
type KeywordHit struct {
	Event *CandidateEvent
	Score float64
}

// KeywordSearchResult 是关键词检索响应。
type KeywordSearchResult struct {
	Hits  []KeywordHit
	Found int // 匹配总数（可能大于 len(Hits)）
}

// KeywordSearchService 是关键词检索后端的领域接口。
// 底层引擎（Typesense/ES/...）在范围之外，这里只约定逻辑契约。
type KeywordSearchService interface {
	Name() string
	Search(ctx context.Context, req *KeywordSearchRequest) (*KeywordSearchResult, error)
	Close() error
}

// VectorSearchRequest 是向量相似检索请求。
type VectorSearchRequest struct {
	Embedding []float64
	City      string // 过滤条件：只召回该城市的活动
	TopK      int
}

// VectorHit 是单条向量命中，Score 为相似度分。
type VectorHit struct {
	Event *CandidateEvent
	Score float64
}

// VectorSearchResult 是向量检索响应。
type VectorSearchResult struct {
	Hits []VectorHit
}

// VectorSearchService 是向量检索后端的领域接口。
type VectorSearchService interface {
	Name() string
	Search(ctx context.Context, req *VectorSearchRequest) (*VectorSearchResult, error)
	Close() error
}

// Embedder 把查询文本编码为向量，供向量召回使用。
// 编码失败时向量分支整体降级为空结果，不中断召回。
type Embedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float64, error)
}

// RerankService 是 cross-encoder 风格的重排后端：
// 对 (query, passage) 逐对打分，返回与 passages 对齐的分数切片。
type RerankService interface {
	Name() string
	Rerank(ctx context.Context, query string, passages []string) ([]float64, error)
	Close() error
}
