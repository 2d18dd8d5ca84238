package feast

import (
	"context"
	"fmt"
	"time"

	feastsdk "github.com/feast-dev/feast/sdk/go"
	feasttypes "github.com/feast-dev/feast/sdk/go/protos/feast/types"
)

// GrpcClient 是基于官方 Feast Go SDK 的 gRPC 客户端实现。
//
// 领域层只依赖 Client 接口（client.go），GrpcClient 属于基础设施层，
// 可整体替换为其它实现。
type GrpcClient struct {
	client *feastsdk.GrpcClient

	// Project 项目名称
	Project string

	// Endpoint 服务端点（用于信息展示）
	Endpoint string
}

// NewGrpcClient 创建一个基于官方 SDK 的 Feast gRPC 客户端。
// port 为 0 时使用默认 gRPC 端口 6565。
func NewGrpcClient(host string, port int, project string, opts ...ClientOption) (*GrpcClient, error) {
	if port == 0 {
		port = 6565
	}

	config := &ClientConfig{
		Endpoint: fmt.Sprintf("%s:%d", host, port),
		Project:  project,
		Timeout:  30 * time.Second,
	}
	for _, opt := range opts {
		opt(config)
	}

	var client *feastsdk.GrpcClient
	var err error
	if config.Auth != nil && config.Auth.Type == "static" && config.Auth.Token != "" {
		credential := feastsdk.NewStaticCredential(config.Auth.Token)
		security := feastsdk.SecurityConfig{
			EnableTLS:  false,
			Credential: credential,
		}
		client, err = feastsdk.NewSecureGrpcClient(host, port, security)
	} else {
		client, err = feastsdk.NewGrpcClient(host, port)
	}
	if err != nil {
		return nil, fmt.Errorf("feast: create grpc client: %w", err)
	}

	return &GrpcClient{
		client:   client,
		Project:  project,
		Endpoint: config.Endpoint,
	}, nil
}

// GetOnlineFeatures 获取在线特征（实现 Client 接口）。
func (c *GrpcClient) GetOnlineFeatures(ctx context.Context, req *GetOnlineFeaturesRequest) (*GetOnlineFeaturesResponse, error) {
	if len(req.Features) == 0 {
		return nil, fmt.Errorf("feast: features are required")
	}
	if len(req.EntityRows) == 0 {
		return nil, fmt.Errorf("feast: entity rows are required")
	}

	project := req.Project
	if project == "" {
		project = c.Project
	}
	if project == "" {
		return nil, fmt.Errorf("feast: project is required")
	}

	// SDK 的 Row 类型是 map[string]*types.Value
	entityRows := make([]feastsdk.Row, len(req.EntityRows))
	for i, row := range req.EntityRows {
		entityRow := make(feastsdk.Row)
		for k, v := range row {
			entityRow[k] = toSDKValue(v)
		}
		entityRows[i] = entityRow
	}

	sdkReq := &feastsdk.OnlineFeaturesRequest{
		Features: req.Features,
		Entities: entityRows,
		Project:  project,
	}

	sdkResp, err := c.client.GetOnlineFeatures(ctx, sdkReq)
	if err != nil {
		return nil, fmt.Errorf("feast: get online features: %w", err)
	}

	rows := sdkResp.Rows()
	if len(rows) != len(req.EntityRows) {
		return nil, fmt.Errorf("feast: response row count mismatch: expected %d, got %d", len(req.EntityRows), len(rows))
	}

	featureVectors := make([]FeatureVector, len(rows))
	for i, row := range rows {
		values := make(map[string]interface{})
		for _, featureName := range req.Features {
			if val, exists := row[featureName]; exists {
				if converted := fromSDKValue(val); converted != nil {
					values[featureName] = converted
				}
			}
		}
		featureVectors[i] = FeatureVector{
			Values:    values,
			EntityRow: req.EntityRows[i],
		}
	}

	return &GetOnlineFeaturesResponse{FeatureVectors: featureVectors}, nil
}

// Close 关闭客户端连接（实现 Client 接口）。
func (c *GrpcClient) Close() error {
	// 官方 SDK 没有显式的 Close 方法，连接由 gRPC 库管理
	c.client = nil
	return nil
}

func toSDKValue(v interface{}) *feasttypes.Value {
	switch val := v.(type) {
	case string:
		return feastsdk.StrVal(val)
	case int:
		return feastsdk.Int64Val(int64(val))
	case int64:
		return feastsdk.Int64Val(val)
	case int32:
		return feastsdk.Int64Val(int64(val))
	case float64:
		return feastsdk.DoubleVal(val)
	case float32:
		return feastsdk.FloatVal(val)
	case bool:
		return feastsdk.BoolVal(val)
	case []byte:
		return feastsdk.BytesVal(val)
	default:
		return feastsdk.StrVal(fmt.Sprintf("%v", val))
	}
}

// fromSDKValue 把 SDK 的 *types.Value 还原为领域值。
// 向量特征（DoubleList/FloatList）统一还原为 []float64。
func fromSDKValue(val *feasttypes.Value) interface{} {
	if val == nil {
		return nil
	}
	switch v := val.GetVal().(type) {
	case *feasttypes.Value_StringVal:
		return v.StringVal
	case *feasttypes.Value_Int32Val:
		return float64(v.Int32Val)
	case *feasttypes.Value_Int64Val:
		return float64(v.Int64Val)
	case *feasttypes.Value_DoubleVal:
		return v.DoubleVal
	case *feasttypes.Value_FloatVal:
		return float64(v.FloatVal)
	case *feasttypes.Value_BoolVal:
		if v.BoolVal {
			return float64(1)
		}
		return float64(0)
	case *feasttypes.Value_BytesVal:
		return string(v.BytesVal)
	case *feasttypes.Value_DoubleListVal:
		out := make([]float64, len(v.DoubleListVal.GetVal()))
		copy(out, v.DoubleListVal.GetVal())
		return out
	case *feasttypes.Value_FloatListVal:
		vals := v.FloatListVal.GetVal()
		out := make([]float64, len(vals))
		for i, f := range vals {
			out[i] = float64(f)
		}
		return out
	default:
		return nil
	}
}

// 确保 GrpcClient 实现了 Client 接口
var _ Client = (*GrpcClient)(nil)
