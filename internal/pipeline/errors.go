package pipeline

import (
	"errors"
	"fmt"
)

// AnalysisError 带阶段与细节的分析失败错误
// 流水线仅有两类硬失败：不支持的格式与文本提取失败，
// 其余异常一律降级为报告中的警告。
type AnalysisError struct {
	Op      string
	BaseErr error
	Detail  string
}

func (e *AnalysisError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s (阶段:%s): %s", e.BaseErr, e.Op, e.Detail)
	}
	return fmt.Sprintf("%s (阶段:%s)", e.BaseErr, e.Op)
}

func (e *AnalysisError) Unwrap() error {
	return e.BaseErr
}

// Is 实现 errors.Is 接口以支持错误比较
func (e *AnalysisError) Is(target error) bool {
	return errors.Is(e.BaseErr, target)
}

// NewExtractionError 提取阶段的硬失败
func NewExtractionError(base error, detail string) error {
	return &AnalysisError{
		Op:      "extract",
		BaseErr: base,
		Detail:  detail,
	}
}
