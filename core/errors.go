package core

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 所有领域层错误都使用此类型
//   - 提供错误代码（Code）和消息（Message）
//   - 支持错误检查函数（IsXXX）
//
// 错误分类（见各 Code 常量）：
//   - DATA_UNAVAILABLE：单个用户没有可用数据（空历史、空矩阵）。
//     这是正常的降级路径，推荐链路内部消化，不向调用方抛错。
//   - MODEL_UNAVAILABLE：近邻图 / 热门表从未加载（系统未训练过）。
//     属于 service-not-ready，必须向调用方暴露。
//   - INVALID_CONFIG：非法配置（K 非正、阈值非法），在任何计算
//     开始之前就被拒绝。
type DomainError struct {
	Code    string // 错误代码（如 "MODEL_UNAVAILABLE"）
	Message string // 错误消息
	Module  string // 模块名称（如 "store", "train", "serve"）
}

func (e *DomainError) Error() string {
	return e.Message
}

// GetDomainError 获取 DomainError，如果不是则返回 nil。
func GetDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	if domainErr, ok := err.(*DomainError); ok {
		return domainErr
	}
	return nil
}

// NewDomainError 创建新的领域错误。
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
}

// 错误代码常量
const (
	ErrorCodeNotFound         = "NOT_FOUND"          // 资源不存在
	ErrorCodeNotSupported     = "NOT_SUPPORTED"      // 操作不支持
	ErrorCodeDataUnavailable  = "DATA_UNAVAILABLE"   // 数据不可用（可降级）
	ErrorCodeModelUnavailable = "MODEL_UNAVAILABLE"  // 模型未加载（不可服务）
	ErrorCodeInvalidConfig    = "INVALID_CONFIG"     // 配置非法
	ErrorCodeInternalError    = "INTERNAL_ERROR"     // 内部错误
)

// 模块名称常量
const (
	ModuleStore = "store" // 存储模块
	ModuleTrain = "train" // 离线训练模块
	ModuleServe = "serve" // 在线服务模块
	ModuleEval  = "eval"  // 离线评估模块
)

// 预定义错误
var (
	// ErrModelUnavailable 表示近邻图或热门表尚未加载/发布过
	ErrModelUnavailable = NewDomainError(ModuleServe, ErrorCodeModelUnavailable,
		"serve: model not loaded, train and publish first")

	// ErrDataUnavailable 表示当前输入没有可用数据（空历史/空矩阵）
	ErrDataUnavailable = NewDomainError(ModuleTrain, ErrorCodeDataUnavailable,
		"no usable rating data")
)

func codeIs(err error, code string) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == code
	}
	return false
}

// IsModelUnavailable 检查错误是否为 MODEL_UNAVAILABLE。
func IsModelUnavailable(err error) bool { return codeIs(err, ErrorCodeModelUnavailable) }

// IsDataUnavailable 检查错误是否为 DATA_UNAVAILABLE。
func IsDataUnavailable(err error) bool { return codeIs(err, ErrorCodeDataUnavailable) }

// IsInvalidConfig 检查错误是否为 INVALID_CONFIG。
func IsInvalidConfig(err error) bool { return codeIs(err, ErrorCodeInvalidConfig) }

// NewInvalidConfig 构造一个 INVALID_CONFIG 错误。
func NewInvalidConfig(module, message string) *DomainError {
	return NewDomainError(module, ErrorCodeInvalidConfig, message)
}
