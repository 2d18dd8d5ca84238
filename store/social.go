package store

import (
	"context"
	"time"

	"github.com/rushteam/slatekit/core"
)

// 热度计数按小时分桶落在 zset 上：
//   slatekit:heat:<action>:<yyyymmddhh>，member=活动 ID，score=计数
// 读取时把回看窗口覆盖到的桶求和。分桶粒度一小时，
// 窗口边界误差最多一个桶，足够排序信号使用。
const (
	keyHeatViewPrefix   = "slatekit:heat:view:"
	keyHeatSavePrefix   = "slatekit:heat:save:"
	keyHeatAttendPrefix = "slatekit:heat:attend:"

	heatBucketLayout = "2006010215"
)

// SocialCounter 记录并聚合活动的社交热度计数（浏览/收藏/报名）。
// 写入走 ZIncrBy，读取实现 GraphService 语义中的 EventHeat。
type SocialCounter struct {
	kv  core.KeyValueStore
	now func() time.Time
}

func NewSocialCounter(kv core.KeyValueStore) *SocialCounter {
	return &SocialCounter{kv: kv, now: time.Now}
}

func (c *SocialCounter) RecordView(ctx context.Context, eventID string) error {
	return c.incr(ctx, keyHeatViewPrefix, eventID)
}

func (c *SocialCounter) RecordSave(ctx context.Context, eventID string) error {
	return c.incr(ctx, keyHeatSavePrefix, eventID)
}

func (c *SocialCounter) RecordAttend(ctx context.Context, eventID string) error {
	return c.incr(ctx, keyHeatAttendPrefix, eventID)
}

func (c *SocialCounter) incr(ctx context.Context, prefix, eventID string) error {
	key := prefix + c.now().UTC().Format(heatBucketLayout)
	_, err := c.kv.ZIncrBy(ctx, key, 1, eventID)
	return err
}

// EventHeat 把回看窗口内的各小时桶求和，返回每个活动的计数。
// 某个桶读失败时跳过该桶，不失败整个查询。
func (c *SocialCounter) EventHeat(ctx context.Context, eventIDs []string, window time.Duration) (map[string]core.SocialHeat, error) {
	if window <= 0 {
		window = 3 * time.Hour
	}
	result := make(map[string]core.SocialHeat, len(eventIDs))
	for _, id := range eventIDs {
		result[id] = core.SocialHeat{}
	}

	now := c.now().UTC()
	buckets := int(window/time.Hour) + 1
	for i := 0; i < buckets; i++ {
		bucket := now.Add(-time.Duration(i) * time.Hour).Format(heatBucketLayout)
		for _, id := range eventIDs {
			heat := result[id]
			heat.Views += c.score(ctx, keyHeatViewPrefix+bucket, id)
			heat.Saves += c.score(ctx, keyHeatSavePrefix+bucket, id)
			heat.Attends += c.score(ctx, keyHeatAttendPrefix+bucket, id)
			result[id] = heat
		}
	}
	return result, nil
}

func (c *SocialCounter) score(ctx context.Context, key, member string) int {
	score, err := c.kv.ZScore(ctx, key, member)
	if err != nil {
		return 0
	}
	return int(score)
}
