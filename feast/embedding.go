package feast

import (
	"context"

	"github.com/rushteam/slatekit/core"
)

// 特征命名约定（由离线物化管道写入）：
//   - 活动向量：feature view "event_embeddings"，特征 "vector"，实体键 "event_id"
//   - 口味向量：feature view "user_taste"，特征 "vector"，实体键 "user_id"
const (
	featureEventVector = "event_embeddings:vector"
	featureTasteVector = "user_taste:vector"

	entityEventID = "event_id"
	entityUserID  = "user_id"
)

// EmbeddingStore 把 Feast 在线特征库适配成向量仓库。
// 缺失的活动 ID 静默省略；没有口味向量时返回 ErrStoreNotFound。
type EmbeddingStore struct {
	client Client
}

func NewEmbeddingStore(client Client) *EmbeddingStore {
	return &EmbeddingStore{client: client}
}

func (s *EmbeddingStore) Name() string { return "feast" }

func (s *EmbeddingStore) BatchGetEventVectors(ctx context.Context, eventIDs []string) (map[string][]float64, error) {
	if len(eventIDs) == 0 {
		return map[string][]float64{}, nil
	}

	entityRows := make([]map[string]interface{}, len(eventIDs))
	for i, id := range eventIDs {
		entityRows[i] = map[string]interface{}{entityEventID: id}
	}

	resp, err := s.client.GetOnlineFeatures(ctx, &GetOnlineFeaturesRequest{
		Features:   []string{featureEventVector},
		EntityRows: entityRows,
	})
	if err != nil {
		return nil, core.NewDomainError(core.ModuleEmbedding, core.ErrorCodeUnavailable, err.Error())
	}

	result := make(map[string][]float64, len(eventIDs))
	for i, fv := range resp.FeatureVectors {
		if i >= len(eventIDs) {
			break
		}
		vec, ok := fv.Values[featureEventVector].([]float64)
		if !ok || len(vec) == 0 {
			continue
		}
		result[eventIDs[i]] = vec
	}
	return result, nil
}

func (s *EmbeddingStore) GetUserTasteVector(ctx context.Context, userID string) ([]float64, error) {
	resp, err := s.client.GetOnlineFeatures(ctx, &GetOnlineFeaturesRequest{
		Features:   []string{featureTasteVector},
		EntityRows: []map[string]interface{}{{entityUserID: userID}},
	})
	if err != nil {
		return nil, core.NewDomainError(core.ModuleEmbedding, core.ErrorCodeUnavailable, err.Error())
	}
	if len(resp.FeatureVectors) == 0 {
		return nil, core.ErrStoreNotFound
	}
	vec, ok := resp.FeatureVectors[0].Values[featureTasteVector].([]float64)
	if !ok || len(vec) == 0 {
		return nil, core.ErrStoreNotFound
	}
	return vec, nil
}

func (s *EmbeddingStore) Close() error {
	return s.client.Close()
}

var _ core.EmbeddingStore = (*EmbeddingStore)(nil)
