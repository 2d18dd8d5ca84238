package rank

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/rushteam/slatekit/core"
)

// LoadWeights 在有界超时内从快照存储读最新权重；失败/超时/格式不合法
// 一律回退到编译期默认值。返回的 degraded 表示本次使用了兜底权重。
// 快照读取绝不阻塞管线启动超过 timeout。
func LoadWeights(
	ctx context.Context,
	snapshots core.SnapshotStore,
	timeout time.Duration,
	logger zerolog.Logger,
) (weights *core.RankingWeights, degraded bool) {
	if snapshots == nil {
		return core.DefaultRankingWeights(), true
	}
	if timeout <= 0 {
		timeout = time.Second
	}
	loadCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	w, err := snapshots.LatestRankerSnapshot(loadCtx)
	if err != nil || !w.Valid() {
		logger.Warn().Err(err).Msg("ranker snapshot unavailable, using builtin weights")
		return core.DefaultRankingWeights(), true
	}
	return w, false
}

// LoadWeightsFromYAML 从本地 YAML 文件读权重快照（训练任务落盘的格式）。
func LoadWeightsFromYAML(path string) (*core.RankingWeights, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var w core.RankingWeights
	if err := yaml.Unmarshal(data, &w); err != nil {
		return nil, err
	}
	if !w.Valid() {
		return nil, core.NewDomainError(core.ModuleRank, core.ErrorCodeInvalidInput, "rank: malformed weights snapshot")
	}
	return &w, nil
}
