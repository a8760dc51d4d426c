package pipeline

import (
	"context"

	"github.com/rushteam/movierec/core"
)

// Pipeline 是个性化推荐链路的核心抽象：把推荐逻辑拆成可组合的 Node 链。
// 服务侧的 item_based_cf 路径就是一条
// recall.itemcf → filter → rerank.topn 的 Pipeline。
type Pipeline struct {
	Nodes []Node
}

func (p *Pipeline) Run(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	cur := items
	for _, node := range p.Nodes {
		next, err := node.Process(ctx, rctx, cur)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}
