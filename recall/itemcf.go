package recall

import (
	"context"
	"math"
	"sort"

	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/pipeline"
	"github.com/rushteam/movierec/pkg/utils"
)

// epsilon 防止归一化分母为零；取值与离线训练侧保持一致，不要改。
const epsilon = 1e-12

// ItemCF 是基于物品协同过滤的召回源（Item-based Collaborative Filtering）。
//
// 核心思想："被同一批用户喜欢的电影，相互相似"
//
// 算法流程（在线部分，相似度已离线算好）：
//  1. 种子选择：历史中评分 >= PositiveThreshold 的电影；一个都没有时退化为全部历史
//  2. 候选聚合：对每个种子取近邻边，按候选累加
//     score(c) = Σ_seed sim(seed,c)·rating(seed) / (Σ_seed |sim(seed,c)| + ε)
//     即对用户评分做相似度加权的归一化平均，结果有界，可直接当隐式预测评分
//  3. 解释：每个候选保留贡献最大的前 MaxExplanations 个种子
//
// 工程特征：
//  - 实时性：好（在线只做查表 + 聚合）
//  - 可解释性：强（“因为你看过 X”）
//  - 冷启动：差（交给热门召回兜底）
//
// 返回 nil 的两种情况，均表示近邻图对该用户没有覆盖，由调用方降级：
//  - 所有种子都没有近邻边
//  - 排除已看过后候选集为空
type ItemCF struct {
	// Models 提供当前生效的近邻图快照
	Models core.ModelProvider

	// PositiveThreshold 是种子选择的评分阈值（典型 4.0）
	PositiveThreshold float64

	// MaxExplanations 是每个候选保留的解释条数（默认 3）
	MaxExplanations int
}

func (r *ItemCF) Name() string        { return "recall.itemcf" }
func (r *ItemCF) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，直接调用 Recall。
func (r *ItemCF) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口。
func (r *ItemCF) Recall(
	_ context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if rctx == nil || len(rctx.History) == 0 {
		return nil, nil
	}

	var model *core.Model
	if r.Models != nil {
		model = r.Models.Current()
	}
	if model == nil {
		return nil, core.ErrModelUnavailable
	}

	// 种子选择：优先用高分历史，没有高分时整个历史都是种子
	seeds := rctx.History.Positive(r.PositiveThreshold)
	if len(seeds) == 0 {
		seeds = rctx.History
	}
	seen := rctx.History.Seen()

	// 候选聚合
	type candidate struct {
		weighted   float64 // Σ sim·rating
		normalizer float64 // Σ |sim|
		sources    []core.Explanation
	}
	candidates := make(map[int64]*candidate)
	covered := false

	for _, seed := range seeds {
		edges := model.NeighborsOf(seed.MovieID)
		if len(edges) == 0 {
			continue
		}
		covered = true

		for _, edge := range edges {
			if _, ok := seen[edge.NeighborMovieID]; ok {
				continue
			}
			c, ok := candidates[edge.NeighborMovieID]
			if !ok {
				c = &candidate{}
				candidates[edge.NeighborMovieID] = c
			}
			c.weighted += edge.Similarity * seed.Rating
			c.normalizer += math.Abs(edge.Similarity)
			c.sources = append(c.sources, core.Explanation{
				MovieID:    seed.MovieID,
				Rating:     seed.Rating,
				Similarity: edge.Similarity,
			})
		}
	}

	// 没覆盖或排除已看过后没候选：交给调用方降级到热门
	if !covered || len(candidates) == 0 {
		return nil, nil
	}

	maxExp := r.MaxExplanations
	if maxExp <= 0 {
		maxExp = 3
	}

	out := make([]*core.Item, 0, len(candidates))
	for movieID, c := range candidates {
		norm := c.normalizer + epsilon

		it := core.NewItem(movieID)
		it.Score = c.weighted / norm

		// 每条解释的贡献 = sim·rating / normalizer，按贡献降序取前 maxExp
		for i := range c.sources {
			c.sources[i].Contribution = c.sources[i].Similarity * c.sources[i].Rating / norm
		}
		sort.Slice(c.sources, func(a, b int) bool {
			if c.sources[a].Contribution != c.sources[b].Contribution {
				return c.sources[a].Contribution > c.sources[b].Contribution
			}
			return c.sources[a].MovieID < c.sources[b].MovieID
		})
		if len(c.sources) > maxExp {
			c.sources = c.sources[:maxExp]
		}
		it.Explanations = c.sources

		it.PutLabel("recall_source", utils.Label{Value: "itemcf", Source: "recall"})
		out = append(out, it)
	}

	// 分数降序、ID 升序，保证同分输出确定（如 score(B)==score(C) 时 ID 小者在前）
	sort.Slice(out, func(a, b int) bool {
		if out[a].Score != out[b].Score {
			return out[a].Score > out[b].Score
		}
		return out[a].ID < out[b].ID
	})

	return out, nil
}

var _ Source = (*ItemCF)(nil)
var _ pipeline.Node = (*ItemCF)(nil)
