package train

// Tracker 是实验追踪的最小契约：训练任务把参数与指标上报给它。
// 对接什么系统（MLflow、自建面板、日志）由调用方决定，
// 训练侧只依赖这三个操作。
type Tracker interface {
	// LogParam 记录一个训练参数（如 k_neighbors、min_ratings）
	LogParam(key string, value any)

	// LogMetric 记录一个评估指标（如 recall_10）
	LogMetric(key string, value float64)

	// SetTag 记录一个运行标签（如版本号）
	SetTag(key, value string)
}

// NopTracker 是空实现，不上报任何内容。Trainer.Tracker 为 nil 时使用。
type NopTracker struct{}

func (NopTracker) LogParam(string, any)       {}
func (NopTracker) LogMetric(string, float64)  {}
func (NopTracker) SetTag(string, string)      {}

var _ Tracker = NopTracker{}
