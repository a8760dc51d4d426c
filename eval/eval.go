// Package eval 负责离线评估排序质量（Evaluator）：
// 对有界采样的测试用户，用训练侧历史 + 近邻图复现与在线完全一致的
// 候选打分，再拿 TopK 推荐对照测试侧真实评分，计算
// recall@K / precision@K / ndcg@K 的算术平均。
//
// 两个刻意的设计：
//   - 评估期间不启用热门降级，近邻图没覆盖的用户得 0 分——
//     这里要度量的是协同过滤信号本身，而不是兜底策略
//   - SampleUsers 限制参评用户数，这是大数据集上控制评估耗时的
//     唯一机制（训练任务内部没有超时/取消）
package eval

import (
	"math"
	"sort"

	"github.com/rushteam/movierec/core"
)

const epsilon = 1e-12

// Config 是评估配置。
type Config struct {
	// K 是推荐/指标的截断位置（典型 10）
	K int

	// SampleUsers 是参评用户数上限（典型 1000），按用户 ID 升序取前若干
	SampleUsers int

	// PositiveThreshold 是种子选择阈值，与在线打分保持一致
	PositiveThreshold float64
}

// Metrics 是评估结果：各指标对非跳过用户的算术平均。
type Metrics struct {
	RecallAtK    float64 `json:"recall_at_k"`
	PrecisionAtK float64 `json:"precision_at_k"`
	NDCGAtK      float64 `json:"ndcg_at_k"`

	// UsersEvaluated 是计入均值的用户数
	UsersEvaluated int `json:"users_evaluated"`
	// UsersSkipped 是训练侧或测试侧为空而被跳过的用户数
	UsersSkipped int `json:"users_skipped"`
}

// Evaluate 在给定近邻图上评估排序质量。
// 训练侧为空或测试侧为空的用户被整体跳过（不进分子也不进分母）。
func Evaluate(neighbors map[int64][]core.NeighborEdge, ratings []core.Rating, cfg Config) Metrics {
	k := cfg.K
	if k <= 0 {
		k = 10
	}

	// 按用户分组
	byUser := make(map[int64]core.UserHistory)
	for _, r := range ratings {
		byUser[r.UserID] = append(byUser[r.UserID], r)
	}

	// 有界采样：用户 ID 升序取前 SampleUsers 个，保证可复现
	userIDs := make([]int64, 0, len(byUser))
	for id := range byUser {
		userIDs = append(userIDs, id)
	}
	sort.Slice(userIDs, func(i, j int) bool { return userIDs[i] < userIDs[j] })
	if cfg.SampleUsers > 0 && len(userIDs) > cfg.SampleUsers {
		userIDs = userIDs[:cfg.SampleUsers]
	}

	var m Metrics
	var sumRecall, sumPrecision, sumNDCG float64

	for _, userID := range userIDs {
		train, test := SplitChronological(byUser[userID])
		if len(train) == 0 || len(test) == 0 {
			m.UsersSkipped++
			continue
		}

		relevant := make(map[int64]struct{}, len(test))
		for _, r := range test {
			relevant[r.MovieID] = struct{}{}
		}

		recommended := scoreTopK(neighbors, train, cfg.PositiveThreshold, k)

		sumRecall += RecallAtK(recommended, relevant)
		sumPrecision += PrecisionAtK(recommended, relevant, k)
		sumNDCG += NDCGAtK(recommended, relevant, k)
		m.UsersEvaluated++
	}

	if m.UsersEvaluated > 0 {
		n := float64(m.UsersEvaluated)
		m.RecallAtK = sumRecall / n
		m.PrecisionAtK = sumPrecision / n
		m.NDCGAtK = sumNDCG / n
	}
	return m
}

// scoreTopK 用与在线一致的加权归一化打分生成 TopK 推荐。
// 没有候选时返回空（该用户各指标记 0，但仍计入均值）。
func scoreTopK(neighbors map[int64][]core.NeighborEdge, train core.UserHistory, threshold float64, k int) []int64 {
	seeds := train.Positive(threshold)
	if len(seeds) == 0 {
		seeds = train
	}
	seen := train.Seen()

	weighted := make(map[int64]float64)
	normalizer := make(map[int64]float64)
	for _, seed := range seeds {
		for _, edge := range neighbors[seed.MovieID] {
			if _, ok := seen[edge.NeighborMovieID]; ok {
				continue
			}
			weighted[edge.NeighborMovieID] += edge.Similarity * seed.Rating
			normalizer[edge.NeighborMovieID] += math.Abs(edge.Similarity)
		}
	}
	if len(weighted) == 0 {
		return nil
	}

	type scored struct {
		movieID int64
		score   float64
	}
	list := make([]scored, 0, len(weighted))
	for movieID, w := range weighted {
		list = append(list, scored{movieID, w / (normalizer[movieID] + epsilon)})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].score != list[j].score {
			return list[i].score > list[j].score
		}
		return list[i].movieID < list[j].movieID
	})
	if len(list) > k {
		list = list[:k]
	}

	out := make([]int64, len(list))
	for i, s := range list {
		out[i] = s.movieID
	}
	return out
}
