package filter

import (
	"context"

	"github.com/rushteam/movierec/core"
)

// SeenFilter 是已看过过滤器，过滤掉用户评分历史中出现过的电影。
// 这是推荐结果的硬性约束：recommend() 永远不返回历史中的电影。
//
// 历史直接来自 rctx.History（外部协作方按请求提供），不依赖
// 额外的曝光存储；召回侧已经排除过一次，这里是链路级兜底，
// 保证热门降级等不经过召回排除的路径同样满足约束。
type SeenFilter struct{}

func (f *SeenFilter) Name() string {
	return "filter.seen"
}

func (f *SeenFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil || rctx == nil || len(rctx.History) == 0 {
		return false, nil
	}
	for _, r := range rctx.History {
		if r.MovieID == item.ID {
			return true, nil
		}
	}
	return false, nil
}

var _ Filter = (*SeenFilter)(nil)
