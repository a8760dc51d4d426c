package core

// Rating 是一条用户对电影的评分行为，训练与服务共用的最小数据单元。
// 上游（Rating Store）负责清洗与去重：理想情况下每个 (user, movie)
// 只保留最近一次评分。本包不做取值范围校验。
type Rating struct {
	UserID    int64   `json:"userId"`
	MovieID   int64   `json:"movieId"`
	Rating    float64 `json:"rating"`
	Timestamp int64   `json:"timestamp"`
}

// UserHistory 是单个用户的评分历史，按请求由外部协作方提供。
type UserHistory []Rating

// Seen 返回历史中出现过的电影 ID 集合，用于推荐时排除已看过的电影。
func (h UserHistory) Seen() map[int64]struct{} {
	seen := make(map[int64]struct{}, len(h))
	for _, r := range h {
		seen[r.MovieID] = struct{}{}
	}
	return seen
}

// Positive 返回评分不低于 threshold 的历史记录（种子候选）。
// 如果没有任何记录达到阈值，返回 nil，由调用方决定降级策略。
func (h UserHistory) Positive(threshold float64) UserHistory {
	var out UserHistory
	for _, r := range h {
		if r.Rating >= threshold {
			out = append(out, r)
		}
	}
	return out
}
