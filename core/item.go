package core

import "github.com/rushteam/movierec/pkg/utils"

// Item 是推荐链路中的统一承载结构：分数、标签、解释。
// Labels 用于策略打标与观测；Score 是归一化加权评分，可直接
// 当作隐式预测评分使用；Explanations 记录得分来源（“因为你看过 X”）。
type Item struct {
	ID           int64
	Score        float64
	Labels       map[string]utils.Label
	Explanations []Explanation
}

// Explanation 是单个候选电影的一条得分解释：
// 用户对种子电影 MovieID 的评分 Rating、种子与候选的相似度 Similarity、
// 以及该种子对最终得分的贡献 Contribution = similarity·rating / normalizer。
type Explanation struct {
	MovieID      int64   `json:"because_movieId"`
	Rating       float64 `json:"rating"`
	Similarity   float64 `json:"similarity"`
	Contribution float64 `json:"contribution"`
}

func NewItem(id int64) *Item {
	return &Item{
		ID:     id,
		Score:  0,
		Labels: make(map[string]utils.Label),
	}
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (it *Item) PutLabel(key string, lbl utils.Label) {
	if it.Labels == nil {
		it.Labels = make(map[string]utils.Label)
	}
	if old, ok := it.Labels[key]; ok {
		it.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	it.Labels[key] = lbl
}
