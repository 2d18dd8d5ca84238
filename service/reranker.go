package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rushteam/slatekit/core"
)

// CrossEncoderClient 是 cross-encoder 重排序服务的 HTTP 客户端。
//
// 服务端通常是一个 TF Serving / TorchServe 风格的推理服务，
// 输入 query + passages，输出每个 passage 的相关性分数。
//
// 协议：POST {endpoint}/v1/models/{model}:rerank
//
//	请求：{"query": "...", "passages": ["...", "..."]}
//	响应：{"scores": [0.92, 0.41, ...]}
//
// 调用方（retrieve 阶段）在失败/超时/长度不匹配时跳过重排，
// 保留原始相关性分数，所以这里只负责忠实上报错误。
type CrossEncoderClient struct {
	// Endpoint 服务端点，例如 "http://localhost:8501"
	Endpoint string

	// ModelName 模型名称
	ModelName string

	// Timeout 超时时间
	Timeout time.Duration

	// Auth 认证信息
	Auth *AuthConfig

	httpClient *http.Client
}

// AuthConfig 认证配置。
type AuthConfig struct {
	// Type 认证类型：basic, bearer, api_key
	Type     string
	Username string
	Password string
	Token    string
	APIKey   string
}

// NewCrossEncoderClient 创建一个新的 cross-encoder 客户端。
func NewCrossEncoderClient(endpoint, modelName string, opts ...CrossEncoderOption) *CrossEncoderClient {
	client := &CrossEncoderClient{
		Endpoint:  endpoint,
		ModelName: modelName,
		Timeout:   30 * time.Second,
	}
	for _, opt := range opts {
		opt(client)
	}
	client.httpClient = &http.Client{Timeout: client.Timeout}
	return client
}

// CrossEncoderOption 客户端配置选项。
type CrossEncoderOption func(*CrossEncoderClient)

// WithCrossEncoderTimeout 设置超时时间。
func WithCrossEncoderTimeout(timeout time.Duration) CrossEncoderOption {
	return func(c *CrossEncoderClient) {
		c.Timeout = timeout
	}
}

// WithCrossEncoderAuth 设置认证信息。
func WithCrossEncoderAuth(auth *AuthConfig) CrossEncoderOption {
	return func(c *CrossEncoderClient) {
		c.Auth = auth
	}
}

func (c *CrossEncoderClient) Name() string { return "cross-encoder" }

// Rerank 实现 core.RerankService 接口。
// 返回的分数与 passages 一一对应。
func (c *CrossEncoderClient) Rerank(ctx context.Context, query string, passages []string) ([]float64, error) {
	if len(passages) == 0 {
		return nil, nil
	}

	url := fmt.Sprintf("%s/v1/models/%s:rerank", c.Endpoint, c.ModelName)

	body := map[string]interface{}{
		"query":    query,
		"passages": passages,
	}
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	c.addAuth(httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, core.NewDomainError(core.ModuleRetrieve, core.ErrorCodeUnavailable, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, core.NewDomainError(core.ModuleRetrieve, core.ErrorCodeUnavailable,
			fmt.Sprintf("rerank error: status=%d, body=%s", resp.StatusCode, string(bodyBytes)))
	}

	var result struct {
		Scores []float64 `json:"scores"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(result.Scores) != len(passages) {
		return nil, fmt.Errorf("rerank score count mismatch: expected %d, got %d", len(passages), len(result.Scores))
	}
	return result.Scores, nil
}

// Health 健康检查。
func (c *CrossEncoderClient) Health(ctx context.Context) error {
	url := fmt.Sprintf("%s/v1/models/%s", c.Endpoint, c.ModelName)

	httpReq, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	c.addAuth(httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("health check failed: status=%d, body=%s", resp.StatusCode, string(bodyBytes))
	}
	return nil
}

func (c *CrossEncoderClient) addAuth(req *http.Request) {
	if c.Auth == nil {
		return
	}
	switch c.Auth.Type {
	case "basic":
		req.SetBasicAuth(c.Auth.Username, c.Auth.Password)
	case "bearer":
		req.Header.Set("Authorization", "Bearer "+c.Auth.Token)
	case "api_key":
		req.Header.Set("X-API-Key", c.Auth.APIKey)
	}
}

// Close 实现 core.RerankService 接口；HTTP 客户端无需释放资源。
func (c *CrossEncoderClient) Close() error { return nil }

var _ core.RerankService = (*CrossEncoderClient)(nil)
