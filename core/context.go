package core

import "github.com/rushteam/movierec/pkg/utils"

// RecommendContext 承载单次推荐请求的用户信息，贯穿整个 Pipeline 透传。
// History 由外部协作方按请求提供（通常来自 Rating Store），
// 推荐计算本身不读写任何共享可变状态。
type RecommendContext struct {
	UserID int64

	// History 是用户的评分历史（种子选择与已看过排除都基于它）
	History UserHistory

	// Labels 是用户级标签，可驱动整个 Pipeline 行为
	// 例如：新用户、冷启动、重度用户等
	Labels map[string]utils.Label

	// Params 请求级上下文参数（top_n、场景信息等）
	Params map[string]any
}

// PutLabel 写入用户级 Label。
func (rctx *RecommendContext) PutLabel(key string, lbl utils.Label) {
	if rctx.Labels == nil {
		rctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := rctx.Labels[key]; ok {
		rctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	rctx.Labels[key] = lbl
}

// GetLabel 获取用户级 Label。
func (rctx *RecommendContext) GetLabel(key string) (utils.Label, bool) {
	if rctx.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := rctx.Labels[key]
	return lbl, ok
}
