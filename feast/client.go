package feast

import (
	"context"
	"time"
)

// Client 是 Feast Feature Store 的客户端接口。
//
// Feast 提供在线特征存储（Online Store），本模块用它承载：
//   - 活动向量（event embedding，由离线管道物化）
//   - 用户口味向量（user taste vector，由离线管道物化）
//
// 参考：https://github.com/feast-dev/feast
type Client interface {
	// GetOnlineFeatures 获取在线特征（用于实时预测）。
	GetOnlineFeatures(ctx context.Context, req *GetOnlineFeaturesRequest) (*GetOnlineFeaturesResponse, error)

	// Close 关闭客户端连接。
	Close() error
}

// GetOnlineFeaturesRequest 获取在线特征请求。
type GetOnlineFeaturesRequest struct {
	// Features 特征名称列表，例如 ["event_embeddings:vector"]
	Features []string

	// EntityRows 实体行，例如 [{"event_id": "evt-1"}, {"event_id": "evt-2"}]
	EntityRows []map[string]interface{}

	// Project 项目名称（可选，缺省用客户端配置）
	Project string
}

// GetOnlineFeaturesResponse 获取在线特征响应。
type GetOnlineFeaturesResponse struct {
	// FeatureVectors 特征向量列表，每个元素对应一个实体行
	FeatureVectors []FeatureVector
}

// FeatureVector 特征向量。
type FeatureVector struct {
	// Values 特征值，key 为特征名称；向量特征的 value 为 []float64
	Values map[string]interface{}

	// EntityRow 对应的实体行
	EntityRow map[string]interface{}
}

// ClientOption 客户端配置选项。
type ClientOption func(*ClientConfig)

// ClientConfig 客户端配置。
type ClientConfig struct {
	Endpoint string
	Project  string
	Timeout  time.Duration
	Auth     *AuthConfig
}

// AuthConfig 认证配置。
type AuthConfig struct {
	// Type 认证类型：static（gRPC 静态 Token）
	Type  string
	Token string
}

// WithTimeout 配置选项：设置超时时间。
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *ClientConfig) {
		c.Timeout = timeout
	}
}

// WithAuth 配置选项：设置认证信息。
func WithAuth(auth *AuthConfig) ClientOption {
	return func(c *ClientConfig) {
		c.Auth = auth
	}
}
