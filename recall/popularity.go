package recall

import (
	"context"
	"strconv"

	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/pipeline"
	"github.com/rushteam/movierec/pkg/utils"
)

// Popularity 是热门召回源，按贝叶斯热门分（BayesScore）返回 TopN。
// 冷启动与降级路径都走它。
//
// 数据来源（优先级从高到低）：
//   - 如果 Store 实现了 KeyValueStore 且配置了 Key，用 ZRange 读有序集合
//     （训练发布时会把热门表同步写成 zset，线上可独立于快照刷新）
//   - 否则读取 Models 当前快照里的热门表
//
// Popularity 同时实现了 Source 和 Node 接口，可以直接在 Pipeline 中使用。
type Popularity struct {
	Models core.ModelProvider
	Store  core.Store // 可选：zset 覆盖读
	Key    string     // 存储 key，例如 "reco:model:current:rank"
	TopN   int        // 返回条数（默认 10）
}

func (r *Popularity) Name() string        { return "recall.popularity" }
func (r *Popularity) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，直接调用 Recall。
func (r *Popularity) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口。
func (r *Popularity) Recall(
	ctx context.Context,
	_ *core.RecommendContext,
) ([]*core.Item, error) {
	topN := r.TopN
	if topN <= 0 {
		topN = 10
	}

	// 优先从 Store 的有序集合读取
	if r.Store != nil && r.Key != "" {
		if kvStore, ok := r.Store.(core.KeyValueStore); ok {
			members, err := kvStore.ZRange(ctx, r.Key, 0, int64(topN-1))
			if err == nil && len(members) > 0 {
				out := make([]*core.Item, 0, len(members))
				for _, m := range members {
					id, err := strconv.ParseInt(m, 10, 64)
					if err != nil {
						continue
					}
					it := core.NewItem(id)
					if score, err := kvStore.ZScore(ctx, r.Key, m); err == nil {
						it.Score = score
					}
					it.PutLabel("recall_source", utils.Label{Value: "popularity", Source: "recall"})
					out = append(out, it)
				}
				return out, nil
			}
			// zset 不可用时回退到快照，不视为错误
		}
	}

	// 回退：读当前快照的热门表
	var model *core.Model
	if r.Models != nil {
		model = r.Models.Current()
	}
	if model == nil {
		return nil, core.ErrModelUnavailable
	}

	records := model.TopPopular(topN)
	out := make([]*core.Item, 0, len(records))
	for _, rec := range records {
		it := core.NewItem(rec.MovieID)
		it.Score = rec.BayesScore
		it.PutLabel("recall_source", utils.Label{Value: "popularity", Source: "recall"})
		out = append(out, it)
	}
	return out, nil
}

var _ Source = (*Popularity)(nil)
var _ pipeline.Node = (*Popularity)(nil)
