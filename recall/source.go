package recall

import (
	"context"

	"github.com/rushteam/movierec/core"
)

// Source 表示一个可复用的召回源（Item-CF / 热门 / ...）。
// 你可以把它理解为“可独立取候选的策略单元”：返回 nil 表示该策略
// 对当前用户没有覆盖，由调用方决定降级（例如切到热门）。
type Source interface {
	Name() string
	Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error)
}
