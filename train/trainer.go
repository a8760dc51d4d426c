// Package train 负责离线训练批任务的编排（training entry）。
//
// 流程（单次顺序批任务，矩阵与近邻图没有并发写方）：
//
//	评分流 → [热门表 ∥ 稀疏矩阵 → 近邻图] → 离线评估 → 原子发布
//
// 发布是 all-or-nothing：任何一步失败都不发布，上一个版本的
// 近邻图 / 热门表保持权威，在线服务不受影响。
package train

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/eval"
	"github.com/rushteam/movierec/matrix"
	"github.com/rushteam/movierec/neighbor"
	"github.com/rushteam/movierec/popularity"
)

// Config 是训练配置。零值字段使用默认值；负值/非法值在任何计算
// 开始之前被 Validate 拒绝（INVALID_CONFIG）。
type Config struct {
	// KNeighbors 每部电影保留的近邻数（默认 20，典型 20~50）
	KNeighbors int

	// MinRatings 进近邻矩阵的最低评分数（默认 50）；热门表不受此过滤影响
	MinRatings int

	// PositiveThreshold 评估时种子选择阈值（默认 4.0）
	PositiveThreshold float64

	// EvalK 评估指标截断位置（默认 10）
	EvalK int

	// EvalSampleUsers 评估采样用户数上限（默认 1000）
	EvalSampleUsers int

	// BatchSize 近邻计算每批行数（默认 2000）
	BatchSize int

	// Workers 近邻计算并行批数（默认 4）
	Workers int
}

// DefaultConfig 返回默认训练配置。
func DefaultConfig() Config {
	return Config{
		KNeighbors:        20,
		MinRatings:        50,
		PositiveThreshold: 4.0,
		EvalK:             10,
		EvalSampleUsers:   1000,
		BatchSize:         2000,
		Workers:           4,
	}
}

// normalized 返回填充了默认值的副本；Validate 已保证没有负值。
func (c Config) normalized() Config {
	def := DefaultConfig()
	if c.KNeighbors == 0 {
		c.KNeighbors = def.KNeighbors
	}
	if c.MinRatings == 0 {
		c.MinRatings = def.MinRatings
	}
	if c.PositiveThreshold == 0 {
		c.PositiveThreshold = def.PositiveThreshold
	}
	if c.EvalK == 0 {
		c.EvalK = def.EvalK
	}
	if c.EvalSampleUsers == 0 {
		c.EvalSampleUsers = def.EvalSampleUsers
	}
	if c.BatchSize == 0 {
		c.BatchSize = def.BatchSize
	}
	if c.Workers == 0 {
		c.Workers = def.Workers
	}
	return c
}

// Validate 校验训练配置。
func (c Config) Validate() error {
	if c.KNeighbors < 0 {
		return core.NewInvalidConfig(core.ModuleTrain, "train: k_neighbors must be positive")
	}
	if c.MinRatings < 0 {
		return core.NewInvalidConfig(core.ModuleTrain, "train: min_ratings must not be negative")
	}
	if c.PositiveThreshold < 0 {
		return core.NewInvalidConfig(core.ModuleTrain, "train: positive_threshold must not be negative")
	}
	if c.EvalK < 0 || c.EvalSampleUsers < 0 {
		return core.NewInvalidConfig(core.ModuleTrain, "train: eval parameters must not be negative")
	}
	if c.BatchSize < 0 || c.Workers < 0 {
		return core.NewInvalidConfig(core.ModuleTrain, "train: batch_size/workers must not be negative")
	}
	return nil
}

// Report 是一次训练运行的结果摘要。
type Report struct {
	Version    string       `json:"version"`
	NumRatings int          `json:"num_ratings"`
	NumItems   int          `json:"num_items"` // 过滤后进近邻矩阵的电影数
	NumEdges   int          `json:"num_edges"`
	Metrics    eval.Metrics `json:"metrics"`
}

// Trainer 编排一次完整的训练运行。
// 显式依赖注入：评分来源、产物存储、实验追踪都由调用方构造传入，
// 没有包级单例。
type Trainer struct {
	// Source 提供全量评分流
	Source core.RatingSource

	// Models 是训练产物的发布目标
	Models core.ModelStore

	// Tracker 接收参数与指标上报（nil 时不上报）
	Tracker Tracker

	// Config 训练配置
	Config Config
}

// Train 执行一次全量训练并发布快照。
//
// 失败语义：
//   - 配置非法：计算开始前即返回 INVALID_CONFIG
//   - 评分流中途报错：中止运行，不发布，旧快照保持权威
//   - 发布失败：同上
func (t *Trainer) Train(ctx context.Context) (*Report, error) {
	if err := t.Config.Validate(); err != nil {
		return nil, err
	}
	cfg := t.Config.normalized()

	if t.Source == nil || t.Models == nil {
		return nil, core.NewInvalidConfig(core.ModuleTrain, "train: source and model store are required")
	}
	tracker := t.Tracker
	if tracker == nil {
		tracker = NopTracker{}
	}

	tracker.LogParam("k_neighbors", cfg.KNeighbors)
	tracker.LogParam("min_ratings", cfg.MinRatings)

	// 1. 吸入评分流；任何一条出错都中止整个运行
	var ratings []core.Rating
	err := t.Source.Ratings(ctx, func(r core.Rating) error {
		ratings = append(ratings, r)
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 2. 热门表（全量集）与近邻图（过滤集）相互独立，并行计算
	var (
		pop   []core.PopularityRecord
		m     *matrix.Matrix
		edges []core.NeighborEdge
	)

	eg, gctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		pop = popularity.Compute(ratings)
		return nil
	})
	eg.Go(func() error {
		m = matrix.Build(ratings, cfg.MinRatings)
		engine := &neighbor.Engine{
			K:         cfg.KNeighbors,
			BatchSize: cfg.BatchSize,
			Workers:   cfg.Workers,
		}
		var err error
		edges, err = engine.Compute(gctx, m)
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	neighbors := core.BuildNeighborIndex(edges)

	// 3. 离线评估（只度量协同过滤信号，不启用热门降级）
	metrics := eval.Evaluate(neighbors, ratings, eval.Config{
		K:                 cfg.EvalK,
		SampleUsers:       cfg.EvalSampleUsers,
		PositiveThreshold: cfg.PositiveThreshold,
	})

	// 4. 原子发布
	now := time.Now().UTC()
	model := &core.Model{
		Version:    fmt.Sprintf("itemcf-%s", now.Format("20060102T150405Z")),
		TrainedAt:  now.Unix(),
		Neighbors:  neighbors,
		Popularity: pop,
	}
	if err := t.Models.Publish(ctx, model); err != nil {
		return nil, err
	}

	tracker.SetTag("model_version", model.Version)
	tracker.LogMetric(fmt.Sprintf("recall_%d", cfg.EvalK), metrics.RecallAtK)
	tracker.LogMetric(fmt.Sprintf("precision_%d", cfg.EvalK), metrics.PrecisionAtK)
	tracker.LogMetric(fmt.Sprintf("ndcg_%d", cfg.EvalK), metrics.NDCGAtK)

	return &Report{
		Version:    model.Version,
		NumRatings: len(ratings),
		NumItems:   m.NumItems(),
		NumEdges:   len(edges),
		Metrics:    metrics,
	}, nil
}
