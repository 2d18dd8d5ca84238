package filter

import (
	"context"

	"github.com/rushteam/slatekit/core"
)

// ExpiredFilter 剔除已经结束的活动。结束时间缺失时按开始时间
// 加宽限期判断；两者都缺失则保留（缺失不惩罚）。
type ExpiredFilter struct{}

func (f *ExpiredFilter) Name() string { return "filter.expired" }

func (f *ExpiredFilter) ShouldFilter(
	_ context.Context,
	intent *core.Intention,
	event *core.CandidateEvent,
) (bool, error) {
	if intent == nil {
		return false, nil
	}
	if !event.EndTime.IsZero() {
		return event.EndTime.Before(intent.Now), nil
	}
	if !event.StartTime.IsZero() {
		// 没有结束时间：开始超过 6 小时视为已结束。
		return intent.Now.Sub(event.StartTime).Hours() > 6, nil
	}
	return false, nil
}
