package core

import "context"

// RatingSource 是训练输入的领域接口：一条一条地消费评分流。
//
// 设计原则：
//   - 定义在领域层（core），由上游 Rating Store 的适配层实现
//   - 流式消费：训练侧不要求整个数据集一次性进内存
//   - fn 返回 error 时立即中止迭代并透传该错误
//
// 实现可以是 CSV 文件、数据库游标、消息队列回放等。
type RatingSource interface {
	// Ratings 遍历全量评分，对每条调用 fn
	Ratings(ctx context.Context, fn func(Rating) error) error
}

// HistoryStore 是服务侧按请求获取用户评分历史的接口。
// 历史数据由外部协作方维护，本引擎只读。
type HistoryStore interface {
	// UserHistory 返回用户的全部评分历史；用户不存在时返回空历史（不是错误）
	UserHistory(ctx context.Context, userID int64) (UserHistory, error)
}

// ModelProvider 提供当前生效的模型快照。
// 服务侧实现为 atomic 指针读取：Current 返回的快照不可变，
// 并发请求各自持有一致的版本，发布新版本不影响进行中的请求。
// 从未加载过时返回 nil。
type ModelProvider interface {
	Current() *Model
}

// StaticModel 把固定快照包装成 ModelProvider（测试/离线评估用）。
type StaticModel struct{ Model *Model }

func (s StaticModel) Current() *Model { return s.Model }

// ModelStore 是训练产物的发布/加载契约。
//
// 语义要求：
//   - Publish 是 all-or-nothing：要么新快照完整可见，要么旧快照保持权威，
//     绝不出现近邻图和热门表版本不一致的中间状态
//   - Load 返回最近一次成功发布的快照；从未发布过时返回 ErrStoreNotFound
//   - 并发 Load 与 Publish 安全：加载方看到的永远是某个完整版本
type ModelStore interface {
	// Publish 发布一个完整的训练快照
	Publish(ctx context.Context, model *Model) error

	// Load 加载当前已发布的快照
	Load(ctx context.Context) (*Model, error)
}
