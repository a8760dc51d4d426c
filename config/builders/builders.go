// Package builders 提供内置 Node 的配置构建器，import 即注册。
package builders

import (
	"fmt"
	"sync"

	"github.com/rushteam/movierec/config"
	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/filter"
	"github.com/rushteam/movierec/pipeline"
	"github.com/rushteam/movierec/pkg/conv"
	"github.com/rushteam/movierec/recall"
	"github.com/rushteam/movierec/rerank"
)

func init() {
	config.Register("recall.itemcf", BuildItemCFNode)
	config.Register("recall.popularity", BuildPopularityNode)
	config.Register("filter", BuildFilterNode)
	config.Register("rerank.topn", BuildTopNNode)
}

var (
	defaultModelsMu sync.RWMutex
	defaultModels   core.ModelProvider
	defaultStore    core.Store
)

// SetModelProvider 设置配置构建的召回 Node 共享的模型快照来源。
// 配置文件只能描述参数，快照来源这种运行期依赖需在 BuildPipeline
// 之前通过这里注入。
func SetModelProvider(p core.ModelProvider) {
	defaultModelsMu.Lock()
	defer defaultModelsMu.Unlock()
	defaultModels = p
}

// SetStore 设置配置构建的热门召回使用的存储（可选，zset 覆盖读）。
func SetStore(s core.Store) {
	defaultModelsMu.Lock()
	defer defaultModelsMu.Unlock()
	defaultStore = s
}

func models() core.ModelProvider {
	defaultModelsMu.RLock()
	defer defaultModelsMu.RUnlock()
	return defaultModels
}

func store() core.Store {
	defaultModelsMu.RLock()
	defer defaultModelsMu.RUnlock()
	return defaultStore
}

func BuildItemCFNode(cfg map[string]interface{}) (pipeline.Node, error) {
	p := models()
	if p == nil {
		return nil, fmt.Errorf("model provider not set (call builders.SetModelProvider first)")
	}
	return &recall.ItemCF{
		Models:            p,
		PositiveThreshold: conv.ConfigGetFloat(cfg, "positive_threshold", 4.0),
		MaxExplanations:   conv.ConfigGetInt(cfg, "max_explanations", 3),
	}, nil
}

func BuildPopularityNode(cfg map[string]interface{}) (pipeline.Node, error) {
	p := models()
	if p == nil {
		return nil, fmt.Errorf("model provider not set (call builders.SetModelProvider first)")
	}
	return &recall.Popularity{
		Models: p,
		Store:  store(),
		Key:    conv.ConfigGet(cfg, "key", ""),
		TopN:   conv.ConfigGetInt(cfg, "top_n", 10),
	}, nil
}

func BuildFilterNode(cfg map[string]interface{}) (pipeline.Node, error) {
	filtersConfig, ok := cfg["filters"].([]interface{})
	if !ok {
		return nil, fmt.Errorf("filters not found or invalid")
	}
	filters := make([]filter.Filter, 0, len(filtersConfig))
	for _, fc := range filtersConfig {
		filterMap, ok := fc.(map[string]interface{})
		if !ok {
			continue
		}
		filterType := conv.ConfigGet(filterMap, "type", "")
		switch filterType {
		case "seen":
			filters = append(filters, &filter.SeenFilter{})
		case "rule":
			expr := conv.ConfigGet(filterMap, "expr", "")
			if expr == "" {
				return nil, fmt.Errorf("rule filter requires expr")
			}
			filters = append(filters, &filter.RuleFilter{Expr: expr})
		default:
			return nil, fmt.Errorf("unknown filter type: %s", filterType)
		}
	}
	return &filter.FilterNode{Filters: filters}, nil
}

func BuildTopNNode(cfg map[string]interface{}) (pipeline.Node, error) {
	return &rerank.TopNNode{N: conv.ConfigGetInt(cfg, "n", 0)}, nil
}
