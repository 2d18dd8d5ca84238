package enrich

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/rushteam/slatekit/core"
)

// 中性默认值："信号缺失 ≠ 信号为差"。这是刻意的产品选择，
// 保证目录数据不全的活动不被系统性压分。
const (
	neutralNovelty    = 0.5
	neutralTasteMatch = 0.5
)

// Enricher 为候选集补全四路独立信号：新颖度、好友重合、社交热度、
// 口味匹配，并本地计算空间距离。四路信号并行拉取，各自失败各自降级，
// 输出数量恒等于输入数量（1:1），即使全部后端宕机。
type Enricher struct {
	Graph      core.GraphService
	Embeddings core.EmbeddingStore

	// SignalTimeout 是每路外部信号各自的超时；慢的可选信号降级而不是
	// 取消整个请求。默认 500ms。
	SignalTimeout time.Duration

	// HeatWindow 是社交热度的固定回看窗口，默认 3 小时。
	HeatWindow time.Duration

	// UserLocation 可选：用户坐标解析器（例如来自会话定位）。
	// 返回 false 时回退到城市中心。
	UserLocation func(userID string) (core.GeoPoint, bool)

	Logger zerolog.Logger
}

// signals 是一次并行拉取的汇总；失败的信号保持零值并置位对应 flag。
// flag 可能被多路 goroutine 置位，用 mu 保护。
type signals struct {
	mu sync.Mutex

	novelty     map[string]float64
	friends     map[string]int
	heat        map[string]core.SocialHeat
	tasteVector []float64
	embeddings  map[string][]float64

	noGraph       bool
	noTasteVector bool
	noEmbeddings  bool
}

func (s *signals) markNoGraph() {
	s.mu.Lock()
	s.noGraph = true
	s.mu.Unlock()
}

// Enrich 补全候选集。错误永不向上抛：降级信息写入 state 的 Degraded 集。
func (e *Enricher) Enrich(
	ctx context.Context,
	state *core.AgentState,
	candidates []*core.CandidateEvent,
) []*core.EnrichedEvent {
	ids := make([]string, 0, len(candidates))
	for _, c := range candidates {
		ids = append(ids, c.ID)
	}

	sig := e.fetchSignals(ctx, state.UserID, ids)
	if sig.noGraph {
		state.SetDegraded(core.DegradedNoGraph)
	}
	if sig.noTasteVector {
		state.SetDegraded(core.DegradedNoTasteVector)
	}
	if sig.noEmbeddings {
		state.SetDegraded(core.DegradedNoEmbeddings)
	}

	origin, hasOrigin := e.resolveOrigin(state)

	out := make([]*core.EnrichedEvent, 0, len(candidates))
	for _, c := range candidates {
		ev := &core.EnrichedEvent{
			CandidateEvent:  c,
			NoveltyScore:    neutralNovelty,
			TasteMatchScore: neutralTasteMatch,
		}

		if hasOrigin && c.Location != nil {
			d := HaversineKm(origin, *c.Location)
			ev.DistanceKm = &d
			t := travelTimeMinutes(d)
			ev.TravelTimeMinutes = &t
		}

		if v, ok := sig.novelty[c.ID]; ok {
			ev.NoveltyScore = clamp01(v)
		}
		if v, ok := sig.friends[c.ID]; ok {
			ev.FriendInterest = v
		}
		if v, ok := sig.heat[c.ID]; ok {
			ev.Heat = v
		}
		if emb, ok := sig.embeddings[c.ID]; ok {
			ev.Embedding = emb
			if len(sig.tasteVector) > 0 {
				ev.TasteMatchScore = clamp01(CosineSimilarity(sig.tasteVector, emb))
			}
		}

		out = append(out, ev)
	}
	return out
}

// fetchSignals 并行拉取四路信号，每路各带超时、各自吞错。
func (e *Enricher) fetchSignals(ctx context.Context, userID string, ids []string) *signals {
	sig := &signals{}
	if len(ids) == 0 {
		return sig
	}

	window := e.HeatWindow
	if window <= 0 {
		window = 3 * time.Hour
	}

	var eg errgroup.Group
	eg.Go(func() error {
		m, err := withTimeoutValue(ctx, e.signalTimeout(), func(c context.Context) (map[string]float64, error) {
			if e.Graph == nil {
				return nil, core.NewDomainError(core.ModuleGraph, core.ErrorCodeUnavailable, "graph service not configured")
			}
			return e.Graph.NoveltyForUser(c, userID, ids)
		})
		if err != nil {
			e.Logger.Warn().Err(err).Msg("novelty signal degraded")
			sig.markNoGraph()
			return nil
		}
		sig.novelty = m
		return nil
	})
	eg.Go(func() error {
		m, err := withTimeoutValue(ctx, e.signalTimeout(), func(c context.Context) (map[string]int, error) {
			if e.Graph == nil {
				return nil, core.NewDomainError(core.ModuleGraph, core.ErrorCodeUnavailable, "graph service not configured")
			}
			return e.Graph.FriendOverlap(c, userID, ids)
		})
		if err != nil {
			e.Logger.Warn().Err(err).Msg("friend overlap signal degraded")
			sig.markNoGraph()
			return nil
		}
		sig.friends = m
		return nil
	})
	eg.Go(func() error {
		m, err := withTimeoutValue(ctx, e.signalTimeout(), func(c context.Context) (map[string]core.SocialHeat, error) {
			if e.Graph == nil {
				return nil, core.NewDomainError(core.ModuleGraph, core.ErrorCodeUnavailable, "graph service not configured")
			}
			return e.Graph.EventHeat(c, ids, window)
		})
		if err != nil {
			e.Logger.Warn().Err(err).Msg("social heat signal degraded")
			sig.markNoGraph()
			return nil
		}
		sig.heat = m
		return nil
	})
	eg.Go(func() error {
		if e.Embeddings == nil {
			sig.noTasteVector = true
			sig.noEmbeddings = true
			return nil
		}
		taste, err := withTimeoutValue(ctx, e.signalTimeout(), func(c context.Context) ([]float64, error) {
			if userID == "" {
				return nil, core.ErrStoreNotFound
			}
			return e.Embeddings.GetUserTasteVector(c, userID)
		})
		if err != nil || len(taste) == 0 {
			sig.noTasteVector = true
		} else {
			sig.tasteVector = taste
		}

		embs, err := withTimeoutValue(ctx, e.signalTimeout(), func(c context.Context) (map[string][]float64, error) {
			return e.Embeddings.BatchGetEventVectors(c, ids)
		})
		if err != nil {
			e.Logger.Warn().Err(err).Msg("event embeddings degraded")
			sig.noEmbeddings = true
			return nil
		}
		sig.embeddings = embs
		return nil
	})
	_ = eg.Wait()
	return sig
}

func (e *Enricher) resolveOrigin(state *core.AgentState) (core.GeoPoint, bool) {
	if e.UserLocation != nil && state.UserID != "" {
		if p, ok := e.UserLocation(state.UserID); ok {
			return p, true
		}
	}
	if state.Intention != nil {
		return ResolveCityCenter(state.Intention.City)
	}
	return core.GeoPoint{}, false
}

// withTimeoutValue 给单路信号套上自己的超时：慢信号降级，不取消请求。
func withTimeoutValue[T any](ctx context.Context, d time.Duration, fn func(context.Context) (T, error)) (T, error) {
	c, cancel := context.WithTimeout(ctx, d)
	defer cancel()
	return fn(c)
}

func (e *Enricher) signalTimeout() time.Duration {
	if e.SignalTimeout > 0 {
		return e.SignalTimeout
	}
	return 500 * time.Millisecond
}

// travelTimeMinutes 用城市内的粗略速度估算通行时间。
func travelTimeMinutes(distanceKm float64) float64 {
	return distanceKm/25.0*60.0 + 10.0
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
