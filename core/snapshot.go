package core

import "context"

// SnapshotStore 是权重/策略快照存储的领域接口。
// 快照由外部训练任务写入；请求路径只读。读取必须有界超时，
// 失败/超时回退到编译期默认值，不阻塞请求。
type SnapshotStore interface {
	Name() string

	// LatestRankerSnapshot 返回最近一次激活的权重快照；没有时返回 ErrStoreNotFound。
	LatestRankerSnapshot(ctx context.Context) (*RankingWeights, error)

	// CurrentSlatePolicy 返回当前激活策略；没有时返回 ErrStoreNotFound。
	CurrentSlatePolicy(ctx context.Context) (*SlatePolicy, error)

	// ListSlatePolicies 返回全部已注册策略（bandit 选择在候选集上做）。
	ListSlatePolicies(ctx context.Context) ([]*SlatePolicy, error)

	// UpsertSlatePolicy 写入/更新策略；isActive 为 true 时同时切换激活位。
	UpsertSlatePolicy(ctx context.Context, policy *SlatePolicy) error

	Close() error
}
