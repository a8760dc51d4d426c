package eval

import (
	"sort"

	"github.com/rushteam/movierec/core"
)

// SplitChronological 对单个用户的历史做按时间的 80/20 切分：
// 按时间戳升序（时间相同按电影 ID 升序）排好后，前 floor(0.8·n)
// 条进训练侧，其余进测试侧。
//
// 按用户、按时间切分（而不是全局随机切分）是刻意的：随机切分会把
// “未来”的评分泄漏进训练侧，推荐质量指标随之虚高。
//
// n == 1 时训练侧为空（floor(0.8) == 0），该用户会被评估跳过。
func SplitChronological(history core.UserHistory) (train, test core.UserHistory) {
	if len(history) == 0 {
		return nil, nil
	}

	sorted := make(core.UserHistory, len(history))
	copy(sorted, history)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Timestamp != sorted[j].Timestamp {
			return sorted[i].Timestamp < sorted[j].Timestamp
		}
		return sorted[i].MovieID < sorted[j].MovieID
	})

	cut := len(sorted) * 8 / 10
	return sorted[:cut], sorted[cut:]
}
