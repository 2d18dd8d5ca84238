// Package slatekit 是一个本地活动推荐引擎（Slate Kit）。
//
// 设计要点：
// - Pipeline-first: 推荐逻辑通过 Node 串联（Intent → Retrieve → Enrich → Rank → Slate → Critic）
// - 降级优先: 每路外部信号可独立失败，失败补中性默认值并置降级标记，链路不中断
// - Labels-first: labels 全链路透传与标准化 merge，支持 explain / 观测 / 策略驱动
// - Node 可扩展: 自定义 Node 即可插拔扩展（本地或 RPC 服务均可）
package slatekit

import "github.com/rushteam/slatekit/pipeline"

// 轻量 facade：便于用户直接 import "slatekit" 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindIntent   = pipeline.KindIntent
	KindRetrieve = pipeline.KindRetrieve
	KindFilter   = pipeline.KindFilter
	KindEnrich   = pipeline.KindEnrich
	KindRank     = pipeline.KindRank
	KindSlate    = pipeline.KindSlate
	KindCritic   = pipeline.KindCritic
)
