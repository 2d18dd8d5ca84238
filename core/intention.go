package core

import "time"

// Intention 是结构化的用户意图：想去哪、什么时候、花多少钱、和谁去。
// 由外部意图解析服务（LLM）产出，本引擎只消费，不做自然语言解析。
// 构建完成后不可变；链路内所有时间计算都相对 Now，而不是 wall-clock，
// 保证打分可复现、可测试。
type Intention struct {
	City   string       // 城市（召回与距离计算的锚点）
	Now    time.Time    // 请求时刻（所有时间窗口的基准）
	Tokens IntentTokens // 结构化意图 token
	Source string       // 意图来源：llm / tokens / default
}

// IntentTokens 是意图的结构化字段。
type IntentTokens struct {
	Mood         string   // 氛围：electric / chill / romantic / curious ...
	UntilMinutes int      // 时间窗口：希望活动在多少分钟内开始
	DistanceKm   float64  // 可接受的最大距离（公里）
	Budget       string   // 预算档位：free / casual / premium
	Companions   []string // 同行人：friends / date / solo / family ...
}

// 预算档位常量。
const (
	BudgetFree    = "free"
	BudgetCasual  = "casual"
	BudgetPremium = "premium"
)

// BudgetCeiling 返回预算档位对应的价格上限。
// free 档上限为 0（只接受免费活动）；未知档位返回 ok=false，
// 下游按"缺失不惩罚"策略处理。
func BudgetCeiling(budget string) (float64, bool) {
	switch budget {
	case BudgetFree:
		return 0, true
	case BudgetCasual:
		return 60, true
	case BudgetPremium:
		return 150, true
	}
	return 0, false
}

// Window 返回意图的时间窗口。UntilMinutes <= 0 时使用默认 3 小时。
func (it *Intention) Window() time.Duration {
	if it.Tokens.UntilMinutes <= 0 {
		return 3 * time.Hour
	}
	return time.Duration(it.Tokens.UntilMinutes) * time.Minute
}

// MaxDistanceKm 返回意图的最大距离，未设置时默认 10 公里。
func (it *Intention) MaxDistanceKm() float64 {
	if it.Tokens.DistanceKm <= 0 {
		return 10
	}
	return it.Tokens.DistanceKm
}
