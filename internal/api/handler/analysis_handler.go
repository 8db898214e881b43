package handler

import (
	"context"
	"fmt"
	"strings"

	"resume-ats-go/internal/config"
	"resume-ats-go/internal/extractor"
	"resume-ats-go/internal/logger"
	"resume-ats-go/internal/pipeline"
	"resume-ats-go/internal/storage"
	"resume-ats-go/internal/types"
)

// AnalysisHandler 分析接口的业务处理器
// 归档库与缓存都是可选依赖，缺失或故障只影响对应能力，不影响分析本身。
type AnalysisHandler struct {
	cfg      *config.Config
	pipeline *pipeline.Pipeline
	db       *storage.MySQL
	cache    *storage.Redis
}

// HandlerOption AnalysisHandler 的可选依赖
type HandlerOption func(*AnalysisHandler)

// WithDB 启用分析报告归档
func WithDB(db *storage.MySQL) HandlerOption {
	return func(h *AnalysisHandler) { h.db = db }
}

// WithCache 启用JD关键词缓存
func WithCache(cache *storage.Redis) HandlerOption {
	return func(h *AnalysisHandler) { h.cache = cache }
}

// NewAnalysisHandler 创建分析处理器
func NewAnalysisHandler(cfg *config.Config, p *pipeline.Pipeline, options ...HandlerOption) *AnalysisHandler {
	h := &AnalysisHandler{cfg: cfg, pipeline: p}
	for _, opt := range options {
		opt(h)
	}
	return h
}

// ParseMediaType 将请求声明的格式归一为媒体类型
// 兼容常见的文件扩展名与MIME写法。
func ParseMediaType(raw string) (types.MediaType, error) {
	switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(raw, "."))) {
	case "pdf", "application/pdf":
		return types.MediaTypePDF, nil
	case "doc", "application/msword":
		return types.MediaTypeDOC, nil
	case "docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document":
		return types.MediaTypeDOCX, nil
	case "text", "txt", "text/plain":
		return types.MediaTypeText, nil
	default:
		return "", fmt.Errorf("%w: %q", extractor.ErrUnsupportedFormat, raw)
	}
}

// HandleAnalyze 执行一次完整的简历分析
// JD关键词优先走缓存；归档失败只记日志，报告照常返回。
func (h *AnalysisHandler) HandleAnalyze(ctx context.Context, data []byte, mediaType types.MediaType, jdText string) (*types.AnalysisReport, error) {
	jd := types.JobDescription{Text: jdText}
	jd.Keywords = h.jdKeywords(ctx, jdText)

	report, err := h.pipeline.Analyze(ctx, pipeline.Document{Data: data, MediaType: mediaType}, jd)
	if err != nil {
		return nil, err
	}

	if h.db != nil {
		if err := h.db.SaveReport(ctx, report, mediaType); err != nil {
			logger.Warn().Err(err).Str("report_id", report.ReportID).Msg("归档分析报告失败")
		}
	}
	return report, nil
}

// HandleGetReport 按ID取回归档的分析报告
func (h *AnalysisHandler) HandleGetReport(ctx context.Context, reportID string) (*types.AnalysisReport, error) {
	if h.db == nil {
		return nil, storage.ErrReportNotFound
	}
	return h.db.GetReport(ctx, reportID)
}

// ArchiveEnabled 归档能力是否可用
func (h *AnalysisHandler) ArchiveEnabled() bool {
	return h.db != nil
}

// jdKeywords 取JD关键词权重集，缓存错误一律按未命中处理
func (h *AnalysisHandler) jdKeywords(ctx context.Context, jdText string) map[string]float64 {
	if h.cache != nil {
		if keywords, err := h.cache.GetJDKeywords(ctx, jdText); err == nil {
			return keywords
		} else if err != storage.ErrCacheMiss {
			logger.Warn().Err(err).Msg("读取JD关键词缓存失败，按未命中处理")
		}
	}

	keywords := pipeline.KeywordWeights(jdText, h.cfg.Analyzer.KeywordLimit)

	if h.cache != nil {
		if err := h.cache.SetJDKeywords(ctx, jdText, keywords); err != nil {
			logger.Warn().Err(err).Msg("写入JD关键词缓存失败")
		}
	}
	return keywords
}
