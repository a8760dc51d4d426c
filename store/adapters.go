package store

import (
	"context"
	"sort"

	"github.com/rushteam/movierec/core"
)

// SliceRatings 把内存中的评分切片适配成 core.RatingSource。
// 测试与小数据集（如 MovieLens CSV 整体读入）用；生产接数据库游标
// 或文件流时自行实现 RatingSource 即可。
type SliceRatings []core.Rating

// Ratings 实现 core.RatingSource。
func (s SliceRatings) Ratings(ctx context.Context, fn func(core.Rating) error) error {
	for _, r := range s {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(r); err != nil {
			return err
		}
	}
	return nil
}

// RatingHistories 把全量评分按用户分桶，适配成 core.HistoryStore。
// 每个用户的历史按 (时间戳, 电影 ID) 升序排好，查询只读。
type RatingHistories struct {
	byUser map[int64]core.UserHistory
}

// NewRatingHistories 从评分集合构建历史查询。
func NewRatingHistories(ratings []core.Rating) *RatingHistories {
	byUser := make(map[int64]core.UserHistory)
	for _, r := range ratings {
		byUser[r.UserID] = append(byUser[r.UserID], r)
	}
	for _, h := range byUser {
		sort.Slice(h, func(i, j int) bool {
			if h[i].Timestamp != h[j].Timestamp {
				return h[i].Timestamp < h[j].Timestamp
			}
			return h[i].MovieID < h[j].MovieID
		})
	}
	return &RatingHistories{byUser: byUser}
}

// UserHistory 实现 core.HistoryStore；未知用户返回空历史（不是错误）。
func (s *RatingHistories) UserHistory(_ context.Context, userID int64) (core.UserHistory, error) {
	return s.byUser[userID], nil
}

var _ core.RatingSource = (SliceRatings)(nil)
var _ core.HistoryStore = (*RatingHistories)(nil)
