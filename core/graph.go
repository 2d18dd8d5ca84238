package core

import (
	"context"
	"time"
)

// GraphService 是图后端（社交/新颖度信号）的领域接口。
// 四个读查询彼此独立、各自可失败；失败时由调用方填中性默认值
// 并记录降级标记，绝不中断链路：
//   - NoveltyForUser 失败 → 每个活动 0.5
//   - FriendOverlap 失败 → 每个活动 0
//   - EventHeat 失败 → 全零计数
//   - SimilarEvents 失败 → 空列表
type GraphService interface {
	Name() string

	// SimilarEvents 返回与指定活动相似的活动 ID。
	SimilarEvents(ctx context.Context, eventID string, topK int) ([]string, error)

	// NoveltyForUser 返回每个活动对该用户的新颖度 [0,1]。
	NoveltyForUser(ctx context.Context, userID string, eventIDs []string) (map[string]float64, error)

	// FriendOverlap 返回每个活动感兴趣的好友数。
	FriendOverlap(ctx context.Context, userID string, eventIDs []string) (map[string]int, error)

	// EventHeat 返回回看窗口内每个活动的社交热度计数。
	EventHeat(ctx context.Context, eventIDs []string, window time.Duration) (map[string]SocialHeat, error)

	Close() error
}

// EmbeddingStore 是向量仓库的领域接口：按 ID 批量取活动向量、
// 取用户口味向量。缺失的 ID 静默省略（partial map），不是错误。
type EmbeddingStore interface {
	Name() string

	// BatchGetEventVectors 批量取活动向量，缺失的 ID 不出现在结果里。
	BatchGetEventVectors(ctx context.Context, eventIDs []string) (map[string][]float64, error)

	// GetUserTasteVector 取用户口味向量；没有时返回 ErrStoreNotFound。
	GetUserTasteVector(ctx context.Context, userID string) ([]float64, error)

	Close() error
}
