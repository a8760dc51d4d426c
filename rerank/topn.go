package rerank

import (
	"context"
	"sort"

	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/pipeline"
)

// TopNNode 是最终排序 + 截断节点：按分数降序排列候选并截取前 N 个。
// 分数相同按电影 ID 升序——排序结果是对外契约的一部分，
// 同样的候选集必须得到同样的输出（可复现、可测试）。
//
// 示例：
//
//	pipeline := &pipeline.Pipeline{
//	    Nodes: []pipeline.Node{
//	        &recall.ItemCF{...},
//	        &filter.FilterNode{...},
//	        &rerank.TopNNode{N: 10},
//	    },
//	}
type TopNNode struct {
	// N 要保留的候选数量（Top N）
	// 如果 N <= 0，只排序不截断
	N int
}

func (n *TopNNode) Name() string {
	return "rerank.topn"
}

func (n *TopNNode) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *TopNNode) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}

	sorted := make([]*core.Item, len(items))
	copy(sorted, items)
	sort.Slice(sorted, func(a, b int) bool {
		if sorted[a].Score != sorted[b].Score {
			return sorted[a].Score > sorted[b].Score
		}
		return sorted[a].ID < sorted[b].ID
	})

	if n.N > 0 && len(sorted) > n.N {
		sorted = sorted[:n.N]
	}
	return sorted, nil
}

var _ pipeline.Node = (*TopNNode)(nil)
