// Package matrix 负责把评分流变成稀疏的“电影 × 用户”矩阵（Matrix Builder）。
//
// 设计原则：
//   - 行 = 电影，列 = 用户，与近邻计算（物品相似度）保持一致
//   - ID 与行列索引的映射稳定：电影/用户均按 ID 升序编号，保证可复现
//   - 空输入返回零行矩阵，不报错，下游（近邻引擎）自然退化为空边表
//   - min_ratings 过滤只作用于矩阵；热门表另行基于全量评分计算
package matrix

import (
	"math"
	"sort"

	"github.com/rushteam/movierec/core"
)

// Row 是矩阵中一部电影的稀疏评分向量。
// Users 保存列索引（升序），Values 一一对应，Norm 是预计算的 L2 范数。
type Row struct {
	Users  []int32
	Values []float64
	Norm   float64
}

// Dot 计算两条稀疏行的点积（双指针归并，列索引已升序）。
func (r Row) Dot(other Row) float64 {
	var sum float64
	i, j := 0, 0
	for i < len(r.Users) && j < len(other.Users) {
		switch {
		case r.Users[i] == other.Users[j]:
			sum += r.Values[i] * other.Values[j]
			i++
			j++
		case r.Users[i] < other.Users[j]:
			i++
		default:
			j++
		}
	}
	return sum
}

// Matrix 是稀疏的电影 × 用户评分矩阵，附带双向 ID/索引映射。
type Matrix struct {
	Rows []Row

	// MovieIDs 行索引 -> 电影 ID（按 ID 升序）
	MovieIDs []int64
	// UserIDs 列索引 -> 用户 ID（按 ID 升序）
	UserIDs []int64

	movieIndex map[int64]int
	userIndex  map[int64]int
}

// NumItems 返回矩阵行数（过滤后的电影数）。
func (m *Matrix) NumItems() int { return len(m.Rows) }

// NumUsers 返回矩阵列数。
func (m *Matrix) NumUsers() int { return len(m.UserIDs) }

// MovieIndex 返回电影 ID 对应的行索引。
func (m *Matrix) MovieIndex(movieID int64) (int, bool) {
	idx, ok := m.movieIndex[movieID]
	return idx, ok
}

// UserIndex 返回用户 ID 对应的列索引。
func (m *Matrix) UserIndex(userID int64) (int, bool) {
	idx, ok := m.userIndex[userID]
	return idx, ok
}

// Build 从评分集合构建稀疏矩阵。
//
// 语义：
//   - 同一 (user, movie) 出现多条评分时，保留时间戳最大的一条
//     （上游应已去重，这里兜底保证确定性）
//   - 评分条数少于 minRatings 的电影被整行过滤（minRatings <= 0 不过滤）
//   - 空输入（或全部被过滤）返回零行矩阵
func Build(ratings []core.Rating, minRatings int) *Matrix {
	// 去重：后写的（时间戳更大）覆盖先写的
	type pair struct{ user, movie int64 }
	dedup := make(map[pair]core.Rating, len(ratings))
	for _, r := range ratings {
		k := pair{r.UserID, r.MovieID}
		if old, ok := dedup[k]; !ok || r.Timestamp >= old.Timestamp {
			dedup[k] = r
		}
	}

	// 统计每部电影的评分数，应用 min_ratings 过滤
	counts := make(map[int64]int)
	for k := range dedup {
		counts[k.movie]++
	}

	movieIDs := make([]int64, 0, len(counts))
	for movieID, n := range counts {
		if minRatings > 0 && n < minRatings {
			continue
		}
		movieIDs = append(movieIDs, movieID)
	}
	sort.Slice(movieIDs, func(i, j int) bool { return movieIDs[i] < movieIDs[j] })

	movieIndex := make(map[int64]int, len(movieIDs))
	for i, id := range movieIDs {
		movieIndex[id] = i
	}

	// 收集过滤后仍出现的用户，按 ID 升序编号
	userSet := make(map[int64]struct{})
	for k := range dedup {
		if _, ok := movieIndex[k.movie]; ok {
			userSet[k.user] = struct{}{}
		}
	}
	userIDs := make([]int64, 0, len(userSet))
	for id := range userSet {
		userIDs = append(userIDs, id)
	}
	sort.Slice(userIDs, func(i, j int) bool { return userIDs[i] < userIDs[j] })

	userIndex := make(map[int64]int, len(userIDs))
	for i, id := range userIDs {
		userIndex[id] = i
	}

	// 填充行
	rows := make([]Row, len(movieIDs))
	for k, r := range dedup {
		i, ok := movieIndex[k.movie]
		if !ok {
			continue
		}
		j := userIndex[k.user]
		rows[i].Users = append(rows[i].Users, int32(j))
		rows[i].Values = append(rows[i].Values, r.Rating)
	}

	// 行内按列索引升序，并预计算范数
	for i := range rows {
		row := &rows[i]
		sort.Sort(rowSorter{row})
		var sq float64
		for _, v := range row.Values {
			sq += v * v
		}
		row.Norm = math.Sqrt(sq)
	}

	return &Matrix{
		Rows:       rows,
		MovieIDs:   movieIDs,
		UserIDs:    userIDs,
		movieIndex: movieIndex,
		userIndex:  userIndex,
	}
}

// rowSorter 对单行的 (Users, Values) 做同步排序。
type rowSorter struct{ r *Row }

func (s rowSorter) Len() int           { return len(s.r.Users) }
func (s rowSorter) Less(i, j int) bool { return s.r.Users[i] < s.r.Users[j] }
func (s rowSorter) Swap(i, j int) {
	s.r.Users[i], s.r.Users[j] = s.r.Users[j], s.r.Users[i]
	s.r.Values[i], s.r.Values[j] = s.r.Values[j], s.r.Values[i]
}
