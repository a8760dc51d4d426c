// Package popularity 负责计算贝叶斯热门表（Popularity Estimator）。
//
// 对每部电影：count = 评分数，mean = 平均分。
// 全局先验：C = count 的均值，M = mean 的均值。
// BayesScore = (C·M + count·mean) / (C + count)。
//
// 评分越少的电影越向全局均值 M 收缩，评分越多越接近自身均值，
// 避免一条 5 星孤评压过口碑稳定的热门片。
//
// 注意：统计覆盖未过滤的全量评分集，而不是近邻图用的 min_ratings
// 过滤集——冷启动必须能覆盖被过滤掉的电影。
package popularity

import (
	"sort"

	"github.com/rushteam/movierec/core"
)

// Compute 计算全量评分集的热门表。
// 输出按 BayesScore 降序，分数相同按电影 ID 升序（固定 tie-break）。
// 空输入返回空表。
func Compute(ratings []core.Rating) []core.PopularityRecord {
	if len(ratings) == 0 {
		return nil
	}

	type stat struct {
		count int64
		sum   float64
	}
	stats := make(map[int64]*stat)
	for _, r := range ratings {
		s, ok := stats[r.MovieID]
		if !ok {
			s = &stat{}
			stats[r.MovieID] = s
		}
		s.count++
		s.sum += r.Rating
	}

	// 全局先验
	var sumCount, sumMean float64
	for _, s := range stats {
		sumCount += float64(s.count)
		sumMean += s.sum / float64(s.count)
	}
	numItems := float64(len(stats))
	priorC := sumCount / numItems // 平均评分数
	priorM := sumMean / numItems  // 平均均值

	out := make([]core.PopularityRecord, 0, len(stats))
	for movieID, s := range stats {
		count := float64(s.count)
		mean := s.sum / count
		out = append(out, core.PopularityRecord{
			MovieID:    movieID,
			NumRatings: s.count,
			MeanRating: mean,
			BayesScore: (priorC*priorM + count*mean) / (priorC + count),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].BayesScore != out[j].BayesScore {
			return out[i].BayesScore > out[j].BayesScore
		}
		return out[i].MovieID < out[j].MovieID
	})
	return out
}
