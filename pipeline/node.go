package pipeline

import (
	"context"

	"github.com/rushteam/slatekit/core"
)

// Kind 用于标记 Node 类型，方便观测/治理/编排（例如按阶段打点）。
type Kind string

const (
	KindIntent   Kind = "intent"   // 意图阶段：校验并固化结构化意图
	KindRetrieve Kind = "retrieve" // 召回阶段：混合检索生成候选集
	KindFilter   Kind = "filter"   // 过滤阶段：剔除不符合约束的候选
	KindEnrich   Kind = "enrich"   // 补全阶段：注入空间/社交/口味信号
	KindRank     Kind = "rank"     // 排序阶段：计算 fit score 并排序
	KindSlate    Kind = "slate"    // 组装阶段：策略选择 + 三个 slate
	KindCritic   Kind = "critic"   // 质检阶段：只读告警，不改结果
	KindFormat   Kind = "format"   // 格式化阶段：整理响应侧字段
	KindLog      Kind = "log"      // 日志阶段：fire-and-forget 落盘
)

// Node 是编排图的最小可扩展单元。每个 Node 读写 AgentState 上
// 自己声明的字段，不覆盖无关字段。
//
// Required 语义：
//   - required 节点失败 → 记 fatal error，链路终止，返回已累积的状态
//   - optional 节点失败 → 记 warning，保留先前状态，继续下一个节点
type Node interface {
	Name() string
	Kind() Kind
	Required() bool

	Process(ctx context.Context, state *core.AgentState) error
}
