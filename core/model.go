package core

// NeighborEdge 是近邻图中的一条边：MovieID 的第若干近邻是
// NeighborMovieID，余弦相似度为 Similarity ∈ [-1, 1]。
//
// 不变式：
//   - NeighborMovieID != MovieID（自身永远被排除）
//   - 每个 MovieID 至多 K 条边，按相似度降序
//   - 相似度相同的边按 NeighborMovieID 升序（固定的 tie-break，保证可复现）
type NeighborEdge struct {
	MovieID         int64   `json:"movieId"`
	NeighborMovieID int64   `json:"neighborMovieId"`
	Similarity      float64 `json:"similarity"`
}

// PopularityRecord 是单部电影的贝叶斯热门度统计。
// BayesScore = (C·M + n·mean) / (C + n)，其中 C、M 是全局先验，
// 把评分很少的电影往全局均值收缩，避免一条 5 星孤评霸榜。
// 统计覆盖未过滤的全量评分集：即使某部电影因 min_ratings
// 被排除在近邻图之外，冷启动路径仍然可以返回它。
type PopularityRecord struct {
	MovieID    int64   `json:"movieId"`
	NumRatings int64   `json:"n_ratings"`
	MeanRating float64 `json:"mean_rating"`
	BayesScore float64 `json:"bayes_score"`
}

// Model 是一次训练产出的不可变快照：近邻图 + 热门表。
// 发布是 all-or-nothing：新快照整体替换旧快照，服务侧通过
// atomic 指针切换消费，旧请求继续读旧快照，不会看到半更新状态。
type Model struct {
	// Version 是发布版本号（通常为训练时间戳），用于追踪与回滚
	Version string `json:"version"`

	// TrainedAt 是训练完成的 Unix 时间戳
	TrainedAt int64 `json:"trained_at"`

	// Neighbors 是按源电影分桶的近邻边，桶内按相似度降序
	Neighbors map[int64][]NeighborEdge `json:"neighbors"`

	// Popularity 是按 BayesScore 降序的热门表（分数相同按 MovieID 升序）
	Popularity []PopularityRecord `json:"popularity"`
}

// BuildNeighborIndex 把扁平边表按源电影分桶，保持边的原有顺序
// （近邻引擎的输出本身已按相似度降序、近邻 ID 升序）。
func BuildNeighborIndex(edges []NeighborEdge) map[int64][]NeighborEdge {
	idx := make(map[int64][]NeighborEdge)
	for _, e := range edges {
		idx[e.MovieID] = append(idx[e.MovieID], e)
	}
	return idx
}

// NeighborsOf 返回某部电影的近邻边；没有覆盖时返回 nil。
func (m *Model) NeighborsOf(movieID int64) []NeighborEdge {
	if m == nil || m.Neighbors == nil {
		return nil
	}
	return m.Neighbors[movieID]
}

// TopPopular 返回热门表的前 n 条记录。
func (m *Model) TopPopular(n int) []PopularityRecord {
	if m == nil || n <= 0 {
		return nil
	}
	if n > len(m.Popularity) {
		n = len(m.Popularity)
	}
	return m.Popularity[:n]
}
