package ai

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog"

	"resume-ats-go/internal/config"
	"resume-ats-go/internal/llm"
	"resume-ats-go/internal/tracing"
	"resume-ats-go/internal/types"
)

// maxAttempts 初次调用加一次重试
const maxAttempts = 2

// FeedbackGenerator 调用外部文本生成模型产出简历改进建议
// 任何失败都降级为 AI_UNAVAILABLE 警告，绝不让整个分析失败。
type FeedbackGenerator struct {
	model          model.ChatModel
	promptMaxChars int
	timeout        time.Duration
	backoff        time.Duration
	logger         zerolog.Logger
}

// Option FeedbackGenerator 的可选配置
type Option func(*FeedbackGenerator)

// WithLogger 设置日志记录器
func WithLogger(l zerolog.Logger) Option {
	return func(g *FeedbackGenerator) { g.logger = l }
}

// NewFeedbackGenerator 创建建议生成器
// chatModel 为 nil 时生成器可用但每次调用都产出降级警告。
func NewFeedbackGenerator(chatModel model.ChatModel, cfg config.AnalyzerConfig, options ...Option) *FeedbackGenerator {
	g := &FeedbackGenerator{
		model:          chatModel,
		promptMaxChars: cfg.PromptMaxChars,
		timeout:        cfg.AITimeout(),
		backoff:        cfg.AIRetryBackoff(),
		logger:         zerolog.Nop(),
	}
	for _, opt := range options {
		opt(g)
	}
	return g
}

// Generate 生成改进建议
// 瞬时错误（超时、连接中断、服务端 5xx）重试一次；
// 认证与配额类错误不重试。重试预算耗尽或回复为空时返回 nil
// 并附带 AI_UNAVAILABLE 警告。
func (g *FeedbackGenerator) Generate(ctx context.Context, in Input) (*string, []types.Warning) {
	if g.model == nil {
		return nil, []types.Warning{{
			Code:    types.WarnAIUnavailable,
			Message: "未配置文本生成模型，跳过建议生成",
		}}
	}

	system, user := BuildPrompt(in, g.promptMaxChars)
	// 提示词含简历内容，日志中只记录截断后的片段
	g.logger.Debug().
		Int("chars", len(user)).
		Str("prompt", tracing.SafePrompt(user)).
		Msg("提示词构建完成")
	messages := []*schema.Message{
		{Role: schema.System, Content: system},
		{Role: schema.User, Content: user},
	}

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, []types.Warning{{
					Code:    types.WarnAIUnavailable,
					Message: "上下文已取消，建议生成中止",
				}}
			case <-time.After(g.backoff):
				g.logger.Debug().Int("attempt", attempt+1).Msg("重试建议生成")
			}
		}

		callCtx, cancel := context.WithTimeout(ctx, g.timeout)
		resp, err := g.model.Generate(callCtx, messages)
		cancel()

		if err == nil {
			content := strings.TrimSpace(resp.Content)
			if content == "" {
				// 空回复视为软失败，直接降级
				return nil, []types.Warning{{
					Code:    types.WarnAIUnavailable,
					Message: "文本生成模型返回空回复",
				}}
			}
			return &content, nil
		}

		lastErr = err
		if !isTransient(err) {
			g.logger.Warn().Err(err).Msg("建议生成遇到不可重试错误")
			break
		}
		g.logger.Warn().Err(err).Int("attempt", attempt+1).Msg("建议生成瞬时失败")
	}

	return nil, []types.Warning{{
		Code:    types.WarnAIUnavailable,
		Message: "建议生成失败: " + lastErr.Error(),
	}}
}

// isTransient 判断错误是否值得重试
// 服务端错误与网络瞬断可重试，认证和配额类错误重试无意义。
func isTransient(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *llm.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Transient()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	errStr := err.Error()
	return strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "deadline exceeded") ||
		strings.Contains(errStr, "connection reset") ||
		strings.Contains(errStr, "EOF") ||
		strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host")
}
