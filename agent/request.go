package agent

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/rushteam/slatekit/core"
)

// Request 是推荐引擎的入参：会话标识 + 结构化意图 token。
// 自然语言解析发生在引擎之外（LLM 网关），这里只接收解析结果。
type Request struct {
	SessionID string `json:"session_id" validate:"omitempty,max=128"`
	UserID    string `json:"user_id" validate:"omitempty,max=128"`

	City      string `json:"city" validate:"required,max=64"`
	QueryText string `json:"query_text" validate:"omitempty,max=512"`

	Mood         string   `json:"mood" validate:"omitempty,max=32"`
	UntilMinutes int      `json:"until_minutes" validate:"gte=0,lte=1440"`
	DistanceKm   float64  `json:"distance_km" validate:"gte=0,lte=100"`
	Budget       string   `json:"budget" validate:"omitempty,oneof=free casual premium"`
	Companions   []string `json:"companions" validate:"omitempty,max=8,dive,max=32"`

	// Now 为零值时使用当前时间。测试与回放场景传固定值。
	Now time.Time `json:"now,omitempty"`
}

var validate = validator.New()

// Validate 校验请求；失败返回 INVALID_INPUT 领域错误。
func (r *Request) Validate() error {
	if err := validate.Struct(r); err != nil {
		return core.NewDomainError(core.ModuleAgent, core.ErrorCodeInvalidInput, err.Error())
	}
	return nil
}

// Intention 把请求固化为不可变的结构化意图。
func (r *Request) Intention() *core.Intention {
	now := r.Now
	if now.IsZero() {
		now = time.Now()
	}
	source := "tokens"
	if r.Mood == "" && r.UntilMinutes == 0 && r.DistanceKm == 0 && r.Budget == "" {
		source = "default"
	}
	return &core.Intention{
		City: r.City,
		Now:  now,
		Tokens: core.IntentTokens{
			Mood:         r.Mood,
			UntilMinutes: r.UntilMinutes,
			DistanceKm:   r.DistanceKm,
			Budget:       r.Budget,
			Companions:   r.Companions,
		},
		Source: source,
	}
}

// Response 是一次推荐的完整出参。
type Response struct {
	TraceID   string `json:"trace_id"`
	SessionID string `json:"session_id"`

	Slates *core.SlateSet `json:"slates"`

	// Reasons 是给用户看的解释文案；Warnings 是降级/质检告警。
	Reasons  []string `json:"reasons,omitempty"`
	Warnings []string `json:"warnings,omitempty"`

	// DegradedFlags 列出本次请求不可用的上游信号（排序后）。
	DegradedFlags []string `json:"degraded_flags,omitempty"`

	// AISummary 预留给外部摘要服务回填，引擎侧始终为空。
	AISummary string `json:"ai_summary,omitempty"`

	Metrics *ExecutionMetrics `json:"metrics"`
}

// ExecutionMetrics 是请求级执行指标：总耗时、逐节点日志、成功率。
type ExecutionMetrics struct {
	TotalMs     int64                `json:"total_ms"`
	NodeLogs    []core.NodeLog       `json:"node_logs"`
	SuccessRate float64              `json:"success_rate"`
	Retrieval   *core.RetrievalStats `json:"retrieval,omitempty"`
}
