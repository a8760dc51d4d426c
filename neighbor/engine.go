// Package neighbor 负责离线计算物品近邻图（Neighbor Engine）。
//
// 算法：对矩阵中每一行（电影），暴力计算与其他所有行的余弦相似度，
// 保留相似度最高的 K 个近邻（排除自身）。
//
// 工程要点：
//   - 分批处理：行按 BatchSize 分批，完整的 O(items²) 距离矩阵
//     永远不会一次性落在内存里，峰值内存与并行度无关地被批大小约束
//   - 并行：批之间用 errgroup fan-out，Workers 限制并发数
//   - 确定性：相似度相同时按近邻电影 ID 升序取舍（固定 tie-break），
//     同一份输入同一份配置，两次计算输出逐字节一致
package neighbor

import (
	"context"
	"math"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/matrix"
)

const (
	defaultBatchSize = 2000
	defaultWorkers   = 4
)

// Engine 计算每部电影的 K 近邻。
type Engine struct {
	// K 是每部电影保留的近邻数（典型 20~50）
	K int

	// BatchSize 是每批处理的行数，约束峰值内存（默认 2000）
	BatchSize int

	// Workers 是并行批数（默认 4）
	Workers int
}

// Compute 计算整个矩阵的近邻边表。
// 输出顺序：按源电影的行序（即电影 ID 升序），每个源电影的边按
// 相似度降序、近邻 ID 升序。空矩阵返回空边表，不报错。
func (e *Engine) Compute(ctx context.Context, m *matrix.Matrix) ([]core.NeighborEdge, error) {
	if e.K <= 0 {
		return nil, core.NewInvalidConfig(core.ModuleTrain, "neighbor: k must be positive")
	}
	if m == nil || m.NumItems() == 0 {
		return nil, nil
	}

	batchSize := e.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	workers := e.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}

	n := m.NumItems()
	k := e.K
	if k > n-1 {
		k = n - 1
	}

	// 每行的近邻独立存放，批并行写互不相交的下标，无需加锁
	perRow := make([][]core.NeighborEdge, n)

	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)

	for start := 0; start < n; start += batchSize {
		end := start + batchSize
		if end > n {
			end = n
		}
		lo, hi := start, end

		eg.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			for i := lo; i < hi; i++ {
				perRow[i] = e.nearestOf(m, i, k)
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	edges := make([]core.NeighborEdge, 0, n*k)
	for _, rowEdges := range perRow {
		edges = append(edges, rowEdges...)
	}
	return edges, nil
}

// nearestOf 计算第 i 行的 K 近邻（排除自身）。
func (e *Engine) nearestOf(m *matrix.Matrix, i, k int) []core.NeighborEdge {
	src := m.Rows[i]
	sims := make([]core.NeighborEdge, 0, m.NumItems()-1)

	for j := 0; j < m.NumItems(); j++ {
		// 自身必然以距离 0 出现在最近邻里，直接丢弃
		if j == i {
			continue
		}
		sims = append(sims, core.NeighborEdge{
			MovieID:         m.MovieIDs[i],
			NeighborMovieID: m.MovieIDs[j],
			Similarity:      cosine(src, m.Rows[j]),
		})
	}

	// 相似度降序；相同相似度按近邻 ID 升序（固定 tie-break）
	sort.Slice(sims, func(a, b int) bool {
		if sims[a].Similarity != sims[b].Similarity {
			return sims[a].Similarity > sims[b].Similarity
		}
		return sims[a].NeighborMovieID < sims[b].NeighborMovieID
	})

	if len(sims) > k {
		sims = sims[:k]
	}
	return sims
}

// cosine 计算两条稀疏行的余弦相似度，任一侧为零向量时定义为 0。
// 浮点误差可能让结果略越出 [-1, 1]，此处收敛回边界。
func cosine(a, b matrix.Row) float64 {
	if a.Norm == 0 || b.Norm == 0 {
		return 0
	}
	sim := a.Dot(b) / (a.Norm * b.Norm)
	if sim > 1 {
		return 1
	}
	if sim < -1 {
		return -1
	}
	if math.IsNaN(sim) {
		return 0
	}
	return sim
}
