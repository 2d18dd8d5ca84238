package core

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 所有领域层错误都使用此类型
//   - 提供错误代码（Code）和消息（Message）
//   - 支持错误检查函数（IsXXX）
type DomainError struct {
	Code    string // 错误代码（如 "NOT_FOUND", "TIMEOUT"）
	Message string // 错误消息
	Module  string // 模块名称（如 "retrieve", "store"）
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

// 错误代码常量。
const (
	ErrorCodeNotFound      = "NOT_FOUND"      // 资源不存在
	ErrorCodeNotSupported  = "NOT_SUPPORTED"  // 操作不支持
	ErrorCodeUnavailable   = "UNAVAILABLE"    // 后端不可用
	ErrorCodeTimeout       = "TIMEOUT"        // 外部调用超时
	ErrorCodeInvalidInput  = "INVALID_INPUT"  // 入口校验失败
	ErrorCodeInternalError = "INTERNAL_ERROR" // 内部错误
)

// 模块名称常量。
const (
	ModuleStore     = "store"
	ModuleRetrieve  = "retrieve"
	ModuleEnrich    = "enrich"
	ModuleRank      = "rank"
	ModuleSlate     = "slate"
	ModuleGraph     = "graph"
	ModuleEmbedding = "embedding"
	ModuleAgent     = "agent"
)

// IsNotFound 检查错误是否为 NOT_FOUND。
func IsNotFound(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeNotFound
	}
	return false
}

// IsNotSupported 检查错误是否为 NOT_SUPPORTED。
func IsNotSupported(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeNotSupported
	}
	return false
}

// IsUnavailable 检查错误是否为 UNAVAILABLE 或 TIMEOUT，
// 即可本地降级恢复的后端故障。
func IsUnavailable(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeUnavailable || domainErr.Code == ErrorCodeTimeout
	}
	return false
}

// IsInvalidInput 检查错误是否为入口校验失败。
func IsInvalidInput(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeInvalidInput
	}
	return false
}
