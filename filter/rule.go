package filter

import (
	"context"

	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/pkg/dsl"
)

// RuleFilter 是规则过滤器：用 CEL 表达式描述排除条件，表达式
// 求值为 true 的候选被过滤。规则随配置下发，不需要改代码。
//
// 可用变量见 pkg/dsl：item（id/score/labels）、label（直接取 value）、
// rctx（user_id/history_size/params）。
//
// 示例：
//   - `item.score < 1.0` → 过滤低置信度候选
//   - `label.recall_source == "popularity" && item.score < 3.0`
//
// 表达式编译或求值失败时 fail-closed：候选保留，由 FilterNode 打标。
type RuleFilter struct {
	// Expr 是 CEL 排除表达式；为空时不过滤任何候选
	Expr string
}

func (f *RuleFilter) Name() string {
	return "filter.rule"
}

func (f *RuleFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if f.Expr == "" || item == nil {
		return false, nil
	}
	matched, err := dsl.NewEval(item, rctx).Evaluate(f.Expr)
	if err != nil {
		return false, err
	}
	return matched, nil
}

var _ Filter = (*RuleFilter)(nil)
