package extractor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"code.sajari.com/docconv"
	"github.com/cloudwego/eino-ext/components/document/parser/pdf"
	einoParser "github.com/cloudwego/eino/components/document/parser"
	"github.com/nguyenthenguyen/docx"
	"github.com/rs/zerolog"

	"resume-ats-go/internal/logger"
	"resume-ats-go/internal/tracing"
	"resume-ats-go/internal/types"
)

// 错误哨兵，流水线仅有的两类硬失败都产生于本阶段
var (
	// ErrUnsupportedFormat 声明的媒体类型不在支持范围内
	ErrUnsupportedFormat = errors.New("不支持的文档格式")
	// ErrExtractionFailure 文档损坏或完全无法提取出文本
	ErrExtractionFailure = errors.New("文档文本提取失败")
)

// minConfidentChars 可提取文本低于该字符数时视为降级提取
const minConfidentChars = 50

// extractTimeout 单个文档的解析超时
const extractTimeout = 30 * time.Second

// TextExtractor 将二进制文档转换为规范化文本
type TextExtractor struct {
	pdfParser *pdf.PDFParser
	logger    zerolog.Logger
}

// Option TextExtractor 的配置选项
type Option func(*TextExtractor)

// WithLogger 配置自定义日志记录器
func WithLogger(l zerolog.Logger) Option {
	return func(e *TextExtractor) {
		e.logger = l
	}
}

// NewTextExtractor 初始化文本提取器
// PDF解析配置为不按页面分割，以获取整个文档的连续文本
func NewTextExtractor(ctx context.Context, options ...Option) (*TextExtractor, error) {
	p, err := pdf.NewPDFParser(ctx, &pdf.Config{
		ToPages: false,
	})
	if err != nil {
		return nil, fmt.Errorf("创建PDF解析器失败: %w", err)
	}

	e := &TextExtractor{
		pdfParser: p,
		logger:    logger.Logger.With().Str("component", "text_extractor").Logger(),
	}
	for _, option := range options {
		option(e)
	}
	return e, nil
}

// Extract 从文档字节中提取规范化文本
// 媒体类型不支持时返回 ErrUnsupportedFormat；零字节或完全不可读时返回
// ErrExtractionFailure；只提取到少量文本时仍然成功返回，并附带降级告警。
func (e *TextExtractor) Extract(ctx context.Context, data []byte, mediaType types.MediaType) (types.NormalizedText, []types.Warning, error) {
	var empty types.NormalizedText

	switch mediaType {
	case types.MediaTypePDF, types.MediaTypeDOC, types.MediaTypeDOCX, types.MediaTypeText:
	default:
		return empty, nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, mediaType)
	}

	if len(data) == 0 {
		return empty, nil, fmt.Errorf("%w: 文档为空", ErrExtractionFailure)
	}

	ctx, cancel := context.WithTimeout(ctx, extractTimeout)
	defer cancel()

	startTime := time.Now()
	var raw string
	var err error

	switch mediaType {
	case types.MediaTypePDF:
		raw, err = e.extractPDF(ctx, data)
	case types.MediaTypeDOCX:
		raw, err = extractDOCX(data)
	case types.MediaTypeDOC:
		raw, err = extractDOC(data)
	case types.MediaTypeText:
		raw = string(data)
	}

	if err != nil {
		e.logger.Warn().Err(err).Str("media_type", string(mediaType)).Msg("文档解析失败")
		return empty, nil, fmt.Errorf("%w: %v", ErrExtractionFailure, err)
	}

	text := Normalize(raw)
	if len(text.Lines) == 0 {
		return empty, nil, fmt.Errorf("%w: 未能提取出任何文本", ErrExtractionFailure)
	}

	var warnings []types.Warning
	if len(strings.TrimSpace(raw)) < minConfidentChars {
		warnings = append(warnings, types.Warning{
			Code:    types.WarnDegradedExtraction,
			Message: fmt.Sprintf("仅提取到 %d 个字符，结果可能不完整", len(strings.TrimSpace(raw))),
		})
	}

	// 简历全文属于个人信息，日志中只记录截断后的片段
	e.logger.Debug().
		Str("media_type", string(mediaType)).
		Int("lines", len(text.Lines)).
		Str("preview", tracing.SafeResumeContent(raw)).
		Dur("elapsed", time.Since(startTime)).
		Msg("文档文本提取完成")

	return text, warnings, nil
}

// extractPDF 通过 Eino PDF Parser 提取PDF文本
func (e *TextExtractor) extractPDF(ctx context.Context, data []byte) (string, error) {
	docs, err := e.pdfParser.Parse(ctx, bytes.NewReader(data),
		einoParser.WithURI("resume.pdf"),
	)
	if err != nil {
		return "", fmt.Errorf("PDF解析失败: %w", err)
	}
	if len(docs) == 0 {
		return "", fmt.Errorf("PDF解析未返回任何文档")
	}

	var b strings.Builder
	for _, doc := range docs {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(doc.Content)
	}
	return b.String(), nil
}

// wordprocessing XML 中的文本片段与段落边界
var (
	docxTextRe = regexp.MustCompile(`<w:t[^>]*>(.*?)</w:t>`)
	docxParaRe = regexp.MustCompile(`</w:p>`)
)

// extractDOCX 提取DOCX文本，段落结束映射为换行
func extractDOCX(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("DOCX解析失败: %w", err)
	}
	defer doc.Close()

	content := doc.Editable().GetContent()
	content = docxParaRe.ReplaceAllString(content, "\n")

	// 逐段收集 <w:t> 文本，段落边界映射为换行
	var b strings.Builder
	for _, line := range strings.Split(content, "\n") {
		matches := docxTextRe.FindAllStringSubmatch(line, -1)
		if len(matches) == 0 {
			continue
		}
		for _, m := range matches {
			b.WriteString(unescapeXML(m[1]))
		}
		b.WriteString("\n")
	}
	return b.String(), nil
}

// unescapeXML 还原 wordprocessing XML 中的常见实体
func unescapeXML(s string) string {
	r := strings.NewReplacer(
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&apos;", "'",
	)
	return r.Replace(s)
}

// extractDOC 提取旧版DOC文本
func extractDOC(data []byte) (string, error) {
	text, _, err := docconv.ConvertDoc(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("DOC解析失败: %w", err)
	}
	return text, nil
}
