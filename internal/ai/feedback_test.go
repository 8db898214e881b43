package ai

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-ats-go/internal/config"
	"resume-ats-go/internal/llm"
	"resume-ats-go/internal/types"
)

// 测试用文本生成模型模拟器
type mockChatModel struct {
	// 模拟响应
	response string
	// 前 failTimes 次调用返回 err
	err       error
	failTimes int
	// 调用计数
	calls        int
	lastMessages []*schema.Message
}

func (m *mockChatModel) Generate(ctx context.Context, messages []*schema.Message, options ...model.Option) (*schema.Message, error) {
	m.calls++
	m.lastMessages = messages
	if m.calls <= m.failTimes {
		return nil, m.err
	}
	return &schema.Message{Role: schema.Assistant, Content: m.response}, nil
}

func (m *mockChatModel) Stream(ctx context.Context, messages []*schema.Message, options ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, nil
}

func (m *mockChatModel) BindTools(tools []*schema.ToolInfo) error {
	return nil
}

var testCfg = config.AnalyzerConfig{
	PromptMaxChars:   6000,
	AIMaxTokens:      800,
	AITimeoutSeconds: 1,
	AIRetryBackoffMS: 1,
}

func sampleInput() Input {
	name := "John Doe"
	return Input{
		Info:   types.PersonalInfo{Name: &name},
		Skills: []types.SkillRecord{{Name: "python"}, {Name: "go"}},
		Experience: []types.ExperienceEntry{
			{Company: "Acme Corp", Role: "Senior Engineer", DateRange: "2020 - 2023", Description: "Built payment APIs."},
		},
		Education: []types.EducationEntry{
			{Institution: "State University", Degree: "B.S. Computer Science"},
		},
		Match: types.MatchResult{
			OverallScore: 65, SkillScore: 50, KeywordScore: 70, ExperienceScore: 75,
			MissingSkills: []string{"rust"},
		},
		JobDescription: "Looking for a Python and Rust engineer",
	}
}

func TestGenerateFeedbackSuccess(t *testing.T) {
	mock := &mockChatModel{response: "Add Rust projects to your experience section."}
	g := NewFeedbackGenerator(mock, testCfg)

	feedback, warnings := g.Generate(context.Background(), sampleInput())

	require.NotNil(t, feedback)
	assert.Equal(t, "Add Rust projects to your experience section.", *feedback)
	assert.Empty(t, warnings)
	assert.Equal(t, 1, mock.calls)

	// 提示词包含系统与用户两条消息
	require.Len(t, mock.lastMessages, 2)
	assert.Equal(t, schema.System, mock.lastMessages[0].Role)
	assert.Equal(t, schema.User, mock.lastMessages[1].Role)
	assert.Contains(t, mock.lastMessages[1].Content, "John Doe")
	assert.Contains(t, mock.lastMessages[1].Content, "rust")
}

func TestGenerateFeedbackRetriesTransient(t *testing.T) {
	mock := &mockChatModel{
		response:  "Looks solid overall.",
		err:       &llm.APIError{StatusCode: 503, Body: "upstream overloaded"},
		failTimes: 1,
	}
	g := NewFeedbackGenerator(mock, testCfg)

	feedback, warnings := g.Generate(context.Background(), sampleInput())

	require.NotNil(t, feedback)
	assert.Empty(t, warnings)
	assert.Equal(t, 2, mock.calls)
}

func TestGenerateFeedbackExhaustsRetryBudget(t *testing.T) {
	mock := &mockChatModel{
		err:       &llm.APIError{StatusCode: 500, Body: "boom"},
		failTimes: 10,
	}
	g := NewFeedbackGenerator(mock, testCfg)

	feedback, warnings := g.Generate(context.Background(), sampleInput())

	assert.Nil(t, feedback)
	require.Len(t, warnings, 1)
	assert.Equal(t, types.WarnAIUnavailable, warnings[0].Code)
	// 初次调用加一次重试
	assert.Equal(t, 2, mock.calls)
}

func TestGenerateFeedbackNoRetryOnAuthError(t *testing.T) {
	mock := &mockChatModel{
		err:       &llm.APIError{StatusCode: 401, Body: "invalid api key"},
		failTimes: 10,
	}
	g := NewFeedbackGenerator(mock, testCfg)

	feedback, warnings := g.Generate(context.Background(), sampleInput())

	assert.Nil(t, feedback)
	require.Len(t, warnings, 1)
	assert.Equal(t, types.WarnAIUnavailable, warnings[0].Code)
	assert.Equal(t, 1, mock.calls)
}

func TestGenerateFeedbackBlankResponse(t *testing.T) {
	mock := &mockChatModel{response: "   \n  "}
	g := NewFeedbackGenerator(mock, testCfg)

	feedback, warnings := g.Generate(context.Background(), sampleInput())

	assert.Nil(t, feedback)
	require.Len(t, warnings, 1)
	assert.Equal(t, types.WarnAIUnavailable, warnings[0].Code)
	assert.Equal(t, 1, mock.calls)
}

func TestGenerateFeedbackNilModel(t *testing.T) {
	g := NewFeedbackGenerator(nil, testCfg)

	feedback, warnings := g.Generate(context.Background(), sampleInput())

	assert.Nil(t, feedback)
	require.Len(t, warnings, 1)
	assert.Equal(t, types.WarnAIUnavailable, warnings[0].Code)
}

func TestIsTransient(t *testing.T) {
	assert.True(t, isTransient(&llm.APIError{StatusCode: 502}))
	assert.True(t, isTransient(context.DeadlineExceeded))
	assert.False(t, isTransient(&llm.APIError{StatusCode: 401}))
	assert.False(t, isTransient(&llm.APIError{StatusCode: 429}))
	assert.False(t, isTransient(nil))
}

func TestBuildPromptTruncationOrder(t *testing.T) {
	in := sampleInput()
	in.Experience[0].Description = strings.Repeat("Shipped features. ", 60)
	in.Education[0].Description = strings.Repeat("Coursework. ", 60)
	for i := 0; i < 20; i++ {
		in.Education = append(in.Education, types.EducationEntry{
			Institution: "Some Other University", Degree: "Certificate Program",
		})
	}

	system, user := BuildPrompt(in, 1500)

	assert.NotEmpty(t, system)
	// 概要与得分始终保留
	assert.Contains(t, user, "John Doe")
	assert.Contains(t, user, "Match scores")
	assert.Contains(t, user, "Job description:")
	// 技能与经历优先于教育经历
	assert.Contains(t, user, "Skills listed on the resume")
	assert.Contains(t, user, "Work experience:")
	assert.NotContains(t, user, "Certificate Program")
}

func TestBuildPromptDropsWholeEntries(t *testing.T) {
	in := sampleInput()
	for i := 0; i < 40; i++ {
		in.Education = append(in.Education, types.EducationEntry{
			Institution: "Some Other University",
			Degree:      fmt.Sprintf("Certificate Program %02d", i),
		})
	}

	_, user := BuildPrompt(in, 800)

	assert.LessOrEqual(t, len(user), 800)
	// 预算内的条目从头保留，尾部条目整条丢弃
	assert.Contains(t, user, "- Certificate Program 00, Some Other University\n")
	assert.NotContains(t, user, "Certificate Program 39")
	// 条目出现即完整，绝不留下半截条目
	for i := 0; i < 40; i++ {
		degree := fmt.Sprintf("Certificate Program %02d", i)
		if strings.Contains(user, degree) {
			assert.Contains(t, user, "- "+degree+", Some Other University\n")
		}
	}
}

func TestBuildPromptRespectsBudget(t *testing.T) {
	in := sampleInput()
	in.JobDescription = strings.Repeat("requirements and responsibilities ", 400)
	for i := 0; i < 50; i++ {
		in.Experience = append(in.Experience, types.ExperienceEntry{
			Company: "Company", Role: "Engineer", Description: strings.Repeat("Did things. ", 30),
		})
	}

	_, user := BuildPrompt(in, 3000)
	assert.LessOrEqual(t, len(user), 3000)
}
