package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"resume-ats-go/internal/config"
	"resume-ats-go/internal/tracing"
)

var llmTracer = otel.Tracer("openai-chat")

const (
	// OpenAI 兼容模式的默认接入点与模型
	defaultAPIURL    = "https://dashscope.aliyuncs.com/compatible-mode/v1/chat/completions"
	defaultModelName = "qwen-plus"
)

// APIError 上游 API 的非 200 响应
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API 请求失败，状态码 %d: %s", e.StatusCode, e.Body)
}

// Transient 服务端错误可重试，认证与配额类错误不可
func (e *APIError) Transient() bool {
	return e.StatusCode >= 500
}

// OpenAIChatModel 通过 OpenAI 兼容接口访问文本生成模型，
// 实现 eino 的 model.ChatModel 接口。
type OpenAIChatModel struct {
	apiKey     string
	modelName  string
	apiURL     string
	maxTokens  int
	httpClient *http.Client
	logger     zerolog.Logger
}

// Option OpenAIChatModel 的可选配置
type Option func(*OpenAIChatModel)

// WithLogger 设置日志记录器
func WithLogger(l zerolog.Logger) Option {
	return func(m *OpenAIChatModel) { m.logger = l }
}

// WithHTTPClient 替换底层 HTTP 客户端，测试时注入
func WithHTTPClient(c *http.Client) Option {
	return func(m *OpenAIChatModel) { m.httpClient = c }
}

// WithMaxTokens 设置单次生成的 token 上限
func WithMaxTokens(n int) Option {
	return func(m *OpenAIChatModel) { m.maxTokens = n }
}

// NewOpenAIChatModel 创建聊天模型客户端
func NewOpenAIChatModel(cfg config.LLMConfig, options ...Option) (*OpenAIChatModel, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("API 密钥不能为空")
	}

	m := &OpenAIChatModel{
		apiKey:     cfg.APIKey,
		modelName:  cfg.Model,
		apiURL:     cfg.APIURL,
		httpClient: &http.Client{},
		logger:     zerolog.Nop(),
	}
	if strings.TrimSpace(m.modelName) == "" {
		m.modelName = defaultModelName
	}
	if strings.TrimSpace(m.apiURL) == "" {
		m.apiURL = defaultAPIURL
	}
	for _, opt := range options {
		opt(m)
	}

	m.logger.Info().Str("api_url", m.apiURL).Str("model", m.modelName).Msg("文本生成客户端已创建")
	return m, nil
}

// chatCompletionRequest OpenAI 兼容请求体
type chatCompletionRequest struct {
	Model     string            `json:"model"`
	Messages  []*schema.Message `json:"messages"`
	MaxTokens int               `json:"max_tokens,omitempty"`
}

type chatChoice struct {
	Index        int `json:"index"`
	Message      struct {
		Role    string  `json:"role"`
		Content *string `json:"content"`
	} `json:"message"`
	FinishReason string `json:"finish_reason"`
}

type chatCompletionResponse struct {
	Id      string       `json:"id"`
	Object  string       `json:"object"`
	Created int64        `json:"created"`
	Model   string       `json:"model"`
	Choices []chatChoice `json:"choices"`
}

// Generate 实现 model.ChatModel 接口
func (m *OpenAIChatModel) Generate(ctx context.Context, messages []*schema.Message, options ...model.Option) (*schema.Message, error) {
	ctx, span := llmTracer.Start(ctx, "llm.generate",
		trace.WithAttributes(
			attribute.String("llm.model", m.modelName),
			attribute.Int("llm.messages", len(messages)),
		))
	defer span.End()

	reqPayload := chatCompletionRequest{
		Model:     m.modelName,
		Messages:  messages,
		MaxTokens: m.maxTokens,
	}

	jsonData, err := json.Marshal(reqPayload)
	if err != nil {
		return nil, fmt.Errorf("序列化请求体失败: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, m.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("创建 HTTP 请求失败: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+m.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	m.logger.Debug().Str("model", m.modelName).Int("messages", len(messages)).Msg("发送生成请求")

	httpResp, err := m.httpClient.Do(httpReq)
	if err != nil {
		err = fmt.Errorf("发送 HTTP 请求失败: %w", err)
		tracing.RecordError(span, err, tracing.ErrorTypeLLM)
		return nil, err
	}
	defer httpResp.Body.Close()

	bodyBytes, err := io.ReadAll(httpResp.Body)
	if err != nil {
		err = fmt.Errorf("读取响应体失败: %w", err)
		tracing.RecordError(span, err, tracing.ErrorTypeLLM)
		return nil, err
	}

	if httpResp.StatusCode != http.StatusOK {
		apiErr := &APIError{StatusCode: httpResp.StatusCode, Body: string(bodyBytes)}
		tracing.RecordHTTPError(span, apiErr, apiErr.StatusCode)
		return nil, apiErr
	}

	var resp chatCompletionResponse
	if err := json.Unmarshal(bodyBytes, &resp); err != nil {
		err = fmt.Errorf("反序列化 API 响应失败: %w", err)
		tracing.RecordError(span, err, tracing.ErrorTypeLLM)
		return nil, err
	}
	if len(resp.Choices) == 0 {
		err := fmt.Errorf("从 API 收到空选项列表")
		tracing.RecordError(span, err, tracing.ErrorTypeLLM)
		return nil, err
	}

	apiMessage := resp.Choices[0].Message
	content := ""
	if apiMessage.Content != nil {
		content = *apiMessage.Content
	}

	role := schema.RoleType(apiMessage.Role)
	if role == "" {
		role = schema.Assistant
	}
	return &schema.Message{Role: role, Content: content}, nil
}

// Stream 实现 model.ChatModel 接口，当前场景不需要流式输出
func (m *OpenAIChatModel) Stream(ctx context.Context, messages []*schema.Message, options ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, fmt.Errorf("OpenAIChatModel 的 Stream 方法未实现")
}

// BindTools 实现 model.ChatModel 接口，本客户端不做工具调用
func (m *OpenAIChatModel) BindTools(tools []*schema.ToolInfo) error {
	return nil
}

var _ model.ChatModel = (*OpenAIChatModel)(nil)
