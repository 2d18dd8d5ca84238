package core

// 降级标记常量：记录某个可选上游信号本次不可用。
// 只影响解释与告警文案，不中断主链路。
const (
	DegradedNoVectorSearch  = "no_vector_search"
	DegradedNoKeywordSearch = "no_keyword_search"
	DegradedNoReranker      = "no_reranker"
	DegradedNoGraph         = "no_graph"
	DegradedNoTasteVector   = "no_taste_vector"
	DegradedNoEmbeddings    = "no_embeddings"
	DegradedNoSnapshot      = "no_snapshot"
	DegradedNoLogSink       = "no_log_sink"
)

// NodeLog 是单个节点的执行记录，无论成败都会追加，
// 用于事后延迟与失败率分析。
type NodeLog struct {
	Node       string `json:"node"`
	StartMs    int64  `json:"start_ms"`
	EndMs      int64  `json:"end_ms"`
	DurationMs int64  `json:"duration_ms"`
	Success    bool   `json:"success"`
	Error      string `json:"error,omitempty"`
}

// RetrievalStats 是召回阶段的统计，透传到响应的执行指标里。
type RetrievalStats struct {
	VectorCount   int   `json:"vector_count"`
	KeywordCount  int   `json:"keyword_count"`
	RerankApplied bool  `json:"rerank_applied"`
	CacheHit      bool  `json:"cache_hit"`
	LatencyMs     int64 `json:"latency_ms"`
}

// AgentState 是贯穿编排图的可变累加器：每个请求创建一次，
// 响应与异步日志写完后丢弃。每个阶段只写自己声明的字段，
// 不覆盖无关字段（字段级合并规则见各节点实现）。
type AgentState struct {
	SessionID string
	TraceID   string
	UserID    string
	QueryText string

	Intention *Intention

	Candidates []*CandidateEvent
	Enriched   []*EnrichedEvent
	Ranked     []*ScoredEvent
	Slates     *SlateSet

	Policy            *SlatePolicy
	PolicyExploration bool

	Retrieval *RetrievalStats
	Degraded  map[string]bool

	Warnings []string
	Errors   []string
	Reasons  []string

	NodeLogs []NodeLog
}

func NewAgentState(sessionID, traceID string) *AgentState {
	return &AgentState{
		SessionID: sessionID,
		TraceID:   traceID,
		Degraded:  make(map[string]bool),
	}
}

// SetDegraded 记录一个降级标记。
func (s *AgentState) SetDegraded(flag string) {
	if s.Degraded == nil {
		s.Degraded = make(map[string]bool)
	}
	s.Degraded[flag] = true
}

func (s *AgentState) AddWarning(msg string) { s.Warnings = append(s.Warnings, msg) }
func (s *AgentState) AddReason(msg string)  { s.Reasons = append(s.Reasons, msg) }
func (s *AgentState) AddError(msg string)   { s.Errors = append(s.Errors, msg) }

// SuccessRate 返回已执行节点的成功率：succeeded / total。
// 没有执行记录时返回 0。
func (s *AgentState) SuccessRate() float64 {
	if len(s.NodeLogs) == 0 {
		return 0
	}
	ok := 0
	for _, l := range s.NodeLogs {
		if l.Success {
			ok++
		}
	}
	return float64(ok) / float64(len(s.NodeLogs))
}

// DegradedFlags 导出已置位的降级标记（排序由调用方决定）。
func (s *AgentState) DegradedFlags() []string {
	out := make([]string, 0, len(s.Degraded))
	for flag, on := range s.Degraded {
		if on {
			out = append(out, flag)
		}
	}
	return out
}
