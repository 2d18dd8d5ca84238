package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rushteam/slatekit/core"
)

// KV 时间线键约定：
//   - 查询日志：slatekit:log:query:<yyyymmdd>（zset，score=毫秒时间戳）
//   - 曝光日志：slatekit:log:impression:<yyyymmdd>
// 日志按天分桶，离线任务按桶拉取；TTL 由下游归档任务负责。
const (
	keyQueryLogPrefix      = "slatekit:log:query:"
	keyImpressionLogPrefix = "slatekit:log:impression:"
)

// KVLogSink 把交互日志落到 KeyValueStore 的 zset 时间线上。
type KVLogSink struct {
	kv core.KeyValueStore
}

func NewKVLogSink(kv core.KeyValueStore) *KVLogSink {
	return &KVLogSink{kv: kv}
}

func (s *KVLogSink) Name() string { return "kv-logsink:" + s.kv.Name() }

func (s *KVLogSink) AppendQuery(ctx context.Context, ev *core.QueryLogEvent) error {
	if ev == nil {
		return nil
	}
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	key := keyQueryLogPrefix + ev.At.UTC().Format("20060102")
	return s.kv.ZAdd(ctx, key, float64(ev.At.UnixMilli()), string(data))
}

func (s *KVLogSink) AppendImpression(ctx context.Context, ev *core.ImpressionLogEvent) error {
	if ev == nil {
		return nil
	}
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	key := keyImpressionLogPrefix + ev.At.UTC().Format("20060102")
	return s.kv.ZAdd(ctx, key, float64(ev.At.UnixMilli()), string(data))
}

func (s *KVLogSink) Close() error { return nil }

var _ core.InteractionLogSink = (*KVLogSink)(nil)
