package handler

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-ats-go/internal/config"
	"resume-ats-go/internal/extractor"
	"resume-ats-go/internal/pipeline"
	"resume-ats-go/internal/storage"
	"resume-ats-go/internal/types"
)

const sampleResume = `John Doe
Austin, TX
john.doe@example.com | +1 (512) 555-0147

SUMMARY
Backend engineer focused on distributed systems.

SKILLS
Python, SQL, Docker

WORK EXPERIENCE
Acme Corp - Senior Engineer
Jan 2020 - Mar 2023
Built data pipelines in Python.
`

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Analyzer.Weights = config.MatchWeights{Skills: 0.4, Keywords: 0.3, Experience: 0.3}
	cfg.Analyzer.PromptMaxChars = 6000
	cfg.Analyzer.AIMaxTokens = 800
	cfg.Analyzer.AITimeoutSeconds = 1
	cfg.Analyzer.AIRetryBackoffMS = 1
	cfg.Analyzer.KeywordLimit = 30
	return cfg
}

func newTestHandler(t *testing.T) *AnalysisHandler {
	t.Helper()
	cfg := testConfig()
	ext, err := extractor.NewTextExtractor(context.Background())
	require.NoError(t, err)
	p := pipeline.New(cfg.Analyzer, ext)
	return NewAnalysisHandler(cfg, p)
}

// TestParseMediaType 验证媒体类型归一化
func TestParseMediaType(t *testing.T) {
	cases := []struct {
		raw  string
		want types.MediaType
	}{
		{"pdf", types.MediaTypePDF},
		{".pdf", types.MediaTypePDF},
		{"application/pdf", types.MediaTypePDF},
		{"DOCX", types.MediaTypeDOCX},
		{"application/vnd.openxmlformats-officedocument.wordprocessingml.document", types.MediaTypeDOCX},
		{"doc", types.MediaTypeDOC},
		{"txt", types.MediaTypeText},
		{"text/plain", types.MediaTypeText},
		{" text ", types.MediaTypeText},
	}
	for _, tc := range cases {
		got, err := ParseMediaType(tc.raw)
		require.NoError(t, err, tc.raw)
		assert.Equal(t, tc.want, got, tc.raw)
	}
}

// TestParseMediaTypeUnsupported 不认识的格式应命中不支持格式哨兵
func TestParseMediaTypeUnsupported(t *testing.T) {
	for _, raw := range []string{"rtf", ".odt", "image/png", ""} {
		_, err := ParseMediaType(raw)
		require.Error(t, err, raw)
		assert.True(t, errors.Is(err, extractor.ErrUnsupportedFormat), raw)
	}
}

// TestHandleAnalyze 端到端的分析请求，无归档无缓存
func TestHandleAnalyze(t *testing.T) {
	h := newTestHandler(t)

	report, err := h.HandleAnalyze(context.Background(), []byte(sampleResume), types.MediaTypeText,
		"Looking for a Python engineer with Rust experience.")
	require.NoError(t, err)
	require.NotNil(t, report)

	assert.NotEmpty(t, report.ReportID)
	require.NotNil(t, report.PersonalInfo.Email)
	assert.Equal(t, "john.doe@example.com", *report.PersonalInfo.Email)
	assert.Contains(t, report.Match.MissingSkills, "rust")
}

// TestHandleAnalyzeUnsupportedFormat 硬失败原样冒泡给路由层
func TestHandleAnalyzeUnsupportedFormat(t *testing.T) {
	h := newTestHandler(t)

	_, err := h.HandleAnalyze(context.Background(), []byte(sampleResume), types.MediaType("rtf"), "jd")
	require.Error(t, err)
	assert.True(t, errors.Is(err, extractor.ErrUnsupportedFormat))
}

// TestHandleGetReportWithoutArchive 未配置归档库时按未找到处理
func TestHandleGetReportWithoutArchive(t *testing.T) {
	h := newTestHandler(t)

	assert.False(t, h.ArchiveEnabled())
	_, err := h.HandleGetReport(context.Background(), "some-id")
	assert.True(t, errors.Is(err, storage.ErrReportNotFound))
}

// TestJDKeywordsWithoutCache 无缓存时直接计算关键词权重
func TestJDKeywordsWithoutCache(t *testing.T) {
	h := newTestHandler(t)

	keywords := h.jdKeywords(context.Background(), "Looking for a Python engineer with Rust experience.")
	assert.Contains(t, keywords, "python")
	assert.Contains(t, keywords, "rust")
	assert.NotContains(t, keywords, "for")
}
