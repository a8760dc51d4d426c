// Package serve 负责在线推荐服务（Recommendation Scorer）。
//
// 状态机：COLD_START → SEEDING → SCORING → RANKING，
// 任意一步可降级到 FALLBACK（热门）。所有降级都是正常返回并显式
// 打 strategy 标记，不是错误；唯一的硬失败是模型从未加载
// （MODEL_UNAVAILABLE，service-not-ready）。
//
// 并发模型：Recommend 是对当前快照的纯只读函数，无共享可变状态；
// 快照替换通过 atomic 指针切换完成，进行中的请求继续读旧快照，
// 永远不会看到半更新的近邻图。
package serve

import (
	"context"
	"sync/atomic"

	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/filter"
	"github.com/rushteam/movierec/pipeline"
	"github.com/rushteam/movierec/pkg/utils"
	"github.com/rushteam/movierec/recall"
	"github.com/rushteam/movierec/rerank"
)

// 策略标记：每个响应都明确说明结果是怎么来的。
const (
	// StrategyItemCF 个性化协同过滤路径
	StrategyItemCF = "item_based_cf"
	// StrategyPopularity 冷启动：历史太短，直接上全局热门
	StrategyPopularity = "popularity"
	// StrategyPopularityFallback 降级：有历史但近邻图没覆盖/候选为空
	StrategyPopularityFallback = "popularity_fallback"
)

// Config 是服务配置。零值字段使用默认值。
type Config struct {
	// TopN 默认返回条数（默认 10），单次请求可覆盖
	TopN int

	// MinUserRatings 冷启动判定阈值（默认 5）：历史少于该值直接走热门
	MinUserRatings int

	// PositiveThreshold 种子选择的评分阈值（默认 4.0）
	PositiveThreshold float64

	// MaxExplanations 每个候选保留的解释条数（默认 3）
	MaxExplanations int

	// Rules 是 CEL 排除规则，作用在个性化候选上（可选）
	Rules []string
}

// Validate 校验服务配置。
func (c Config) Validate() error {
	if c.TopN < 0 || c.MinUserRatings < 0 {
		return core.NewInvalidConfig(core.ModuleServe, "serve: top_n/min_user_ratings must not be negative")
	}
	if c.PositiveThreshold < 0 {
		return core.NewInvalidConfig(core.ModuleServe, "serve: positive_threshold must not be negative")
	}
	return nil
}

func (c Config) normalized() Config {
	if c.TopN == 0 {
		c.TopN = 10
	}
	if c.MinUserRatings == 0 {
		c.MinUserRatings = 5
	}
	if c.PositiveThreshold == 0 {
		c.PositiveThreshold = 4.0
	}
	if c.MaxExplanations == 0 {
		c.MaxExplanations = 3
	}
	return c
}

// Response 是一次推荐请求的结果。
type Response struct {
	// Strategy 说明结果来源：item_based_cf / popularity / popularity_fallback
	Strategy string `json:"strategy"`

	// Recommendations 按分数降序（同分按电影 ID 升序）
	Recommendations []*core.Item `json:"recommendations"`
}

// Recommender 是推荐服务对象。
//
// 显式依赖注入：历史来源与模型存储由调用方构造传入，没有包级单例；
// 多个 Recommender 实例互不影响。
type Recommender struct {
	histories core.HistoryStore
	models    core.ModelStore
	cfg       Config

	// current 是当前生效的快照；Reload 整体替换，读方无锁
	current atomic.Pointer[core.Model]

	// personalized 是个性化链路：recall.itemcf → filter（截断在请求时做）
	personalized *pipeline.Pipeline
}

// New 构造 Recommender。配置校验失败立刻返回 INVALID_CONFIG。
func New(histories core.HistoryStore, models core.ModelStore, cfg Config) (*Recommender, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if histories == nil || models == nil {
		return nil, core.NewInvalidConfig(core.ModuleServe, "serve: history store and model store are required")
	}

	r := &Recommender{
		histories: histories,
		models:    models,
		cfg:       cfg.normalized(),
	}

	filters := []filter.Filter{&filter.SeenFilter{}}
	for _, expr := range r.cfg.Rules {
		filters = append(filters, &filter.RuleFilter{Expr: expr})
	}
	r.personalized = &pipeline.Pipeline{
		Nodes: []pipeline.Node{
			&recall.ItemCF{
				Models:            r,
				PositiveThreshold: r.cfg.PositiveThreshold,
				MaxExplanations:   r.cfg.MaxExplanations,
			},
			&filter.FilterNode{Filters: filters},
		},
	}
	return r, nil
}

// Current 实现 core.ModelProvider：返回当前生效的快照（可能为 nil）。
func (r *Recommender) Current() *core.Model {
	return r.current.Load()
}

// Reload 从 ModelStore 加载最新发布的快照并原子切换。
// 从未发布过时返回 MODEL_UNAVAILABLE，当前快照（如有）保持不变。
func (r *Recommender) Reload(ctx context.Context) error {
	model, err := r.models.Load(ctx)
	if err != nil {
		if core.IsStoreNotFound(err) {
			return core.ErrModelUnavailable
		}
		return err
	}
	r.current.Store(model)
	return nil
}

// Recommend 为用户生成 TopN 推荐。
//
// 约定：
//   - topN <= 0 时使用配置默认值
//   - 返回结果永远不包含用户历史中的电影
//   - 用户数据不足走降级路径并打 strategy 标记，不报错
//   - 快照从未加载过返回 MODEL_UNAVAILABLE
func (r *Recommender) Recommend(ctx context.Context, userID int64, topN int) (*Response, error) {
	model := r.current.Load()
	if model == nil {
		return nil, core.ErrModelUnavailable
	}
	if topN <= 0 {
		topN = r.cfg.TopN
	}

	history, err := r.histories.UserHistory(ctx, userID)
	if err != nil {
		return nil, err
	}

	rctx := &core.RecommendContext{UserID: userID, History: history}

	// COLD_START：历史太短，个性化没有意义，直接上全局热门
	if len(history) < r.cfg.MinUserRatings {
		return r.popularityResponse(ctx, rctx, topN, StrategyPopularity)
	}

	// SEEDING / SCORING：个性化链路（召回 + 过滤）
	items, err := r.personalized.Run(ctx, rctx, nil)
	if err != nil {
		return nil, err
	}

	// FALLBACK：近邻图没覆盖该用户的种子，或候选被排除殆尽
	if len(items) == 0 {
		return r.popularityResponse(ctx, rctx, topN, StrategyPopularityFallback)
	}

	// RANKING：确定性排序 + 截断
	topn := &rerank.TopNNode{N: topN}
	items, err = topn.Process(ctx, rctx, items)
	if err != nil {
		return nil, err
	}

	tagStrategy(items, StrategyItemCF)
	return &Response{Strategy: StrategyItemCF, Recommendations: items}, nil
}

// popularityResponse 构造热门列表响应。
// 多取 len(history) 条再过已看过滤，保证排除后仍有 topN 条可用。
func (r *Recommender) popularityResponse(ctx context.Context, rctx *core.RecommendContext, topN int, strategy string) (*Response, error) {
	pop := &recall.Popularity{
		Models: r,
		TopN:   topN + len(rctx.History),
	}
	items, err := pop.Recall(ctx, rctx)
	if err != nil {
		return nil, err
	}

	seen := &filter.FilterNode{Filters: []filter.Filter{&filter.SeenFilter{}}}
	items, err = seen.Process(ctx, rctx, items)
	if err != nil {
		return nil, err
	}

	topn := &rerank.TopNNode{N: topN}
	items, err = topn.Process(ctx, rctx, items)
	if err != nil {
		return nil, err
	}

	tagStrategy(items, strategy)
	return &Response{Strategy: strategy, Recommendations: items}, nil
}

func tagStrategy(items []*core.Item, strategy string) {
	for _, it := range items {
		it.PutLabel("strategy", utils.Label{Value: strategy, Source: "serve"})
	}
}

var _ core.ModelProvider = (*Recommender)(nil)
