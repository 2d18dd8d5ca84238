package builders

import (
	"fmt"

	"github.com/rushteam/slatekit/config"
	"github.com/rushteam/slatekit/core"
	"github.com/rushteam/slatekit/critic"
	"github.com/rushteam/slatekit/filter"
	"github.com/rushteam/slatekit/pipeline"
	"github.com/rushteam/slatekit/pkg/conv"
	"github.com/rushteam/slatekit/rank"
	"github.com/rushteam/slatekit/slate"
)

func init() {
	config.Register("filter.candidates", BuildFilterNode)
	config.Register("rank.weighted", BuildRankNode)
	config.Register("slate.compose", BuildComposeNode)
	config.Register("critic.review", BuildCriticNode)
	config.Register("retrieve.hybrid", BuildRetrieveNode)
	config.Register("enrich.signals", BuildEnrichNode)
}

// BuildFilterNode 从配置构建过滤节点。
//
//	filter.candidates:
//	  expired: true
//	  rules:
//	    - name: no_stadiums
//	      expr: 'event.venue != "Stadium"'
func BuildFilterNode(cfg map[string]interface{}) (pipeline.Node, error) {
	var filters []filter.Filter
	if conv.ConfigGet(cfg, "expired", true) {
		filters = append(filters, &filter.ExpiredFilter{})
	}
	if rulesCfg, ok := cfg["rules"].([]interface{}); ok {
		for _, rc := range rulesCfg {
			ruleMap, ok := rc.(map[string]interface{})
			if !ok {
				continue
			}
			expr := conv.ConfigGet(ruleMap, "expr", "")
			if expr == "" {
				return nil, fmt.Errorf("rule expr is required")
			}
			filters = append(filters, &filter.RuleFilter{
				RuleName: conv.ConfigGet(ruleMap, "name", "rule"),
				Expr:     expr,
			})
		}
	}
	return &filter.Node{Filters: filters}, nil
}

// BuildRankNode 从配置构建排序节点。weights 缺省时使用内置默认权重。
//
//	rank.weighted:
//	  weights:
//	    textual_similarity: 0.20
//	    time_fit: 0.16
func BuildRankNode(cfg map[string]interface{}) (pipeline.Node, error) {
	weights := core.DefaultRankingWeights()
	if weightsMap, ok := cfg["weights"].(map[string]interface{}); ok {
		weights = &core.RankingWeights{
			Version: conv.ConfigGet(cfg, "version", "config"),
			Type:    core.RankerWeightedSum,
			Weights: conv.MapToFloat64(weightsMap),
		}
		if !weights.Valid() {
			return nil, fmt.Errorf("invalid ranking weights")
		}
	}
	return &rank.Node{Model: rank.NewWeightedSumModel(weights)}, nil
}

// BuildComposeNode 从配置构建组装节点。策略来自默认参数包；
// 带 bandit 选择的组装需要 SnapshotStore，走程序化装配。
func BuildComposeNode(cfg map[string]interface{}) (pipeline.Node, error) {
	node := &slate.ComposeNode{
		SlateSize: conv.ConfigGetInt(cfg, "slate_size", 0),
	}
	if seed := conv.ConfigGetInt(cfg, "seed", 0); seed != 0 {
		node.Rand = slate.NewRand(int64(seed))
	}
	return node, nil
}

// BuildCriticNode 从配置构建质检节点。
func BuildCriticNode(cfg map[string]interface{}) (pipeline.Node, error) {
	return &critic.Node{
		MinResults:     conv.ConfigGetInt(cfg, "min_results", 0),
		DiversityFloor: conv.ConfigGetFloat64(cfg, "diversity_floor", 0),
	}, nil
}

// BuildRetrieveNode 召回节点依赖检索服务实例，无法从纯配置构建。
func BuildRetrieveNode(cfg map[string]interface{}) (pipeline.Node, error) {
	return nil, fmt.Errorf("retrieve.hybrid requires search services, assemble via agent.NewEngine")
}

// BuildEnrichNode 补全节点依赖图服务/向量仓库实例，无法从纯配置构建。
func BuildEnrichNode(cfg map[string]interface{}) (pipeline.Node, error) {
	return nil, fmt.Errorf("enrich.signals requires graph/embedding services, assemble via agent.NewEngine")
}
