package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"resume-ats-go/internal/ai"
	"resume-ats-go/internal/analyzer"
	"resume-ats-go/internal/config"
	"resume-ats-go/internal/extractor"
	"resume-ats-go/internal/matcher"
	"resume-ats-go/internal/nlp"
	"resume-ats-go/internal/segmenter"
	"resume-ats-go/internal/tracing"
	"resume-ats-go/internal/types"
)

// Document 一份待分析的简历：原始字节与声明的媒体类型
type Document struct {
	Data      []byte
	MediaType types.MediaType
}

// Pipeline 简历分析流水线：提取、切分、抽取、匹配、建议生成
// 单个实例可被并发请求安全复用。
type Pipeline struct {
	extractor    *extractor.TextExtractor
	segmenter    *segmenter.Segmenter
	skills       *analyzer.SkillsAnalyzer
	matcher      *matcher.Matcher
	feedback     *ai.FeedbackGenerator
	keywordLimit int
	tracer       trace.Tracer
	logger       zerolog.Logger
}

// Option Pipeline 的可选配置
type Option func(*Pipeline)

// WithSegmenter 替换章节切分器
func WithSegmenter(s *segmenter.Segmenter) Option {
	return func(p *Pipeline) { p.segmenter = s }
}

// WithSkillsAnalyzer 替换技能分析器
func WithSkillsAnalyzer(a *analyzer.SkillsAnalyzer) Option {
	return func(p *Pipeline) { p.skills = a }
}

// WithMatcher 替换匹配打分器
func WithMatcher(m *matcher.Matcher) Option {
	return func(p *Pipeline) { p.matcher = m }
}

// WithFeedbackGenerator 替换建议生成器
func WithFeedbackGenerator(g *ai.FeedbackGenerator) Option {
	return func(p *Pipeline) { p.feedback = g }
}

// WithLogger 设置日志记录器
func WithLogger(l zerolog.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// New 创建分析流水线
// 未显式注入的组件按配置以默认词表构建；未注入建议生成器时
// 每份报告都会带 AI_UNAVAILABLE 警告，但分析本身照常完成。
func New(cfg config.AnalyzerConfig, ext *extractor.TextExtractor, options ...Option) *Pipeline {
	p := &Pipeline{
		extractor:    ext,
		keywordLimit: cfg.KeywordLimit,
		tracer:       otel.Tracer("resume-pipeline"),
		logger:       zerolog.Nop(),
	}
	for _, opt := range options {
		opt(p)
	}
	if p.segmenter == nil {
		p.segmenter = segmenter.New(nil)
	}
	if p.skills == nil {
		p.skills = analyzer.NewSkillsAnalyzer(nil)
	}
	if p.matcher == nil {
		p.matcher = matcher.New(cfg.Weights, p.skills)
	}
	if p.feedback == nil {
		p.feedback = ai.NewFeedbackGenerator(nil, cfg)
	}
	return p
}

// Analyze 对一份简历与岗位描述执行完整分析
// 只有不支持的格式与提取失败会返回错误；
// 此后的一切退化都以警告形式进入报告。
// 返回的报告不可变，不引用 doc.Data。
func (p *Pipeline) Analyze(ctx context.Context, doc Document, jd types.JobDescription) (*types.AnalysisReport, error) {
	ctx, span := p.tracer.Start(ctx, "pipeline.analyze",
		trace.WithAttributes(
			attribute.String("resume.media_type", string(doc.MediaType)),
			attribute.Int("resume.bytes", len(doc.Data)),
		))
	defer span.End()

	started := time.Now()
	var warnings []types.Warning

	text, extractWarnings, err := p.extractor.Extract(ctx, doc.Data, doc.MediaType)
	if err != nil {
		tracing.RecordErrorWithInfo(span, err, tracing.ErrorTypeExtraction,
			attribute.String("error.stage", "extract"))
		return nil, NewExtractionError(err, string(doc.MediaType))
	}
	warnings = append(warnings, extractWarnings...)

	sections, segWarnings := p.segmenter.Segment(text)
	warnings = append(warnings, segWarnings...)

	info := analyzer.ExtractPersonalInfo(sections)
	skills := p.skills.ExtractSkills(sections)
	experience := analyzer.ExtractExperience(sections)
	education := analyzer.ExtractEducation(sections)

	// JD 关键词在单次请求内只计算一次，预热缓存的结果直接沿用
	if jd.Keywords == nil {
		jd.Keywords = KeywordWeights(jd.Text, p.keywordLimit)
	}

	match, matchWarnings := p.matcher.Match(sections, skills, jd)
	warnings = append(warnings, matchWarnings...)

	feedback, aiWarnings := p.feedback.Generate(ctx, ai.Input{
		Info:           info,
		Skills:         skills,
		Experience:     experience,
		Education:      education,
		Match:          match,
		JobDescription: jd.Text,
	})
	warnings = append(warnings, aiWarnings...)

	report := assembleReport(info, skills, experience, education, match, feedback, warnings)

	span.SetAttributes(
		attribute.String("report.id", report.ReportID),
		attribute.Float64("report.overall_score", report.Match.OverallScore),
		attribute.Int("report.warnings", len(report.Warnings)),
	)

	p.logger.Info().
		Str("report_id", report.ReportID).
		Str("media_type", string(doc.MediaType)).
		Int("sections", sections.TotalLines).
		Int("skills", len(report.Skills)).
		Int("warnings", len(report.Warnings)).
		Float64("overall_score", report.Match.OverallScore).
		Dur("elapsed", time.Since(started)).
		Msg("简历分析完成")

	return report, nil
}

// KeywordWeights 岗位描述的关键词权重集
func KeywordWeights(jdText string, limit int) map[string]float64 {
	keywords := nlp.ExtractKeywords(jdText, limit)
	out := make(map[string]float64, len(keywords))
	for _, kw := range keywords {
		out[kw.Term] = kw.Weight
	}
	return out
}

// assembleReport 汇总各阶段产物为最终报告
// 警告按阶段顺序排列，得分已由匹配器收敛到 [0,100]。
func assembleReport(
	info types.PersonalInfo,
	skills []types.SkillRecord,
	experience []types.ExperienceEntry,
	education []types.EducationEntry,
	match types.MatchResult,
	feedback *string,
	warnings []types.Warning,
) *types.AnalysisReport {
	return &types.AnalysisReport{
		ReportID:     uuid.NewString(),
		PersonalInfo: info,
		Skills:       skills,
		Experience:   experience,
		Education:    education,
		Match:        match,
		AIFeedback:   feedback,
		Warnings:     warnings,
		AnalyzedAt:   time.Now().UnixMilli(),
	}
}
