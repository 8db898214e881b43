package matcher

import (
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog"

	"resume-ats-go/internal/analyzer"
	"resume-ats-go/internal/config"
	"resume-ats-go/internal/nlp"
	"resume-ats-go/internal/types"
)

const (
	// neutralScore 无法计算时的中性总分
	neutralScore = 50.0
	// missingKeywordLimit 缺失关键词最多返回条数
	missingKeywordLimit = 10
)

// Matcher 简历与岗位描述的匹配打分器
type Matcher struct {
	weights config.MatchWeights
	skills  *analyzer.SkillsAnalyzer
	logger  zerolog.Logger
}

// Option Matcher 的可选配置
type Option func(*Matcher)

// WithLogger 设置日志记录器
func WithLogger(l zerolog.Logger) Option {
	return func(m *Matcher) { m.logger = l }
}

// New 创建匹配器
// skills 为 nil 时使用内置词典；weights 需已通过配置校验（和为 1）。
func New(weights config.MatchWeights, skills *analyzer.SkillsAnalyzer, options ...Option) *Matcher {
	m := &Matcher{
		weights: weights,
		skills:  skills,
		logger:  zerolog.Nop(),
	}
	if m.skills == nil {
		m.skills = analyzer.NewSkillsAnalyzer(nil)
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

// Match 计算简历与岗位描述的匹配结果
// 岗位描述为空或无实义词时返回中性分并给出 MATCH_COMPUTATION 警告；
// jd.Keywords 非空时直接沿用该权重集（单次请求内只计算一次），
// 仅在缺省时从岗位描述文本推导。本方法永不失败，任何退化都以警告形式出现。
func (m *Matcher) Match(sections *types.SectionMap, skills []types.SkillRecord, jd types.JobDescription) (types.MatchResult, []types.Warning) {
	var warnings []types.Warning

	jdTokens := nlp.ContentTokens(jd.Text)
	if len(jdTokens) == 0 {
		warnings = append(warnings, types.Warning{
			Code:    types.WarnMatchComputation,
			Message: "岗位描述为空或无实义词，匹配得分置为中性值",
		})
		return types.MatchResult{
			OverallScore:    neutralScore,
			SkillScore:      neutralScore,
			KeywordScore:    neutralScore,
			ExperienceScore: neutralScore,
		}, warnings
	}

	jdVec := nlp.TermVector(jd.Keywords)
	if jd.Keywords == nil {
		jdVec = nlp.Vector(jd.Text)
	}
	jdKeywords := nlp.KeywordsFromVector(jdVec, 0)

	resumeText := fullResumeText(sections)

	skillScore, matchedSkills, missingSkills, skillWarnings := m.skillScore(skills, jd.Text)
	warnings = append(warnings, skillWarnings...)

	keywordScore, matchedKeywords := m.keywordScore(resumeText, jdVec, jdKeywords)
	experienceScore := m.experienceScore(sections, jdVec)

	overall := m.weights.Skills*skillScore +
		m.weights.Keywords*keywordScore +
		m.weights.Experience*experienceScore

	result := types.MatchResult{
		OverallScore:    clampScore(overall),
		SkillScore:      clampScore(skillScore),
		KeywordScore:    clampScore(keywordScore),
		ExperienceScore: clampScore(experienceScore),
		MatchedSkills:   matchedSkills,
		MissingSkills:   missingSkills,
		MatchedKeywords: matchedKeywords,
		MissingKeywords: m.missingKeywords(resumeText, jdKeywords),
	}

	m.logger.Debug().
		Float64("overall", result.OverallScore).
		Float64("skill", result.SkillScore).
		Float64("keyword", result.KeywordScore).
		Float64("experience", result.ExperienceScore).
		Msg("匹配打分完成")

	return result, warnings
}

// skillScore 技能重合子分
// 岗位要求技能由词典在岗位描述中识别；未识别出任何要求技能时
// 该维度不构成惩罚，记满分并给出 NO_REQUIRED_SKILLS 警告。
func (m *Matcher) skillScore(skills []types.SkillRecord, jdText string) (float64, []string, []string, []types.Warning) {
	required := m.skills.DetectInText(jdText)
	if len(required) == 0 {
		w := types.Warning{
			Code:    types.WarnNoRequiredSkills,
			Message: "岗位描述中未识别出要求技能，技能维度按满分计",
		}
		return 100, nil, nil, []types.Warning{w}
	}

	have := make(map[string]bool, len(skills))
	for _, s := range skills {
		have[s.Name] = true
	}

	var matched, missing []string
	for _, name := range required {
		if have[name] {
			matched = append(matched, name)
		} else {
			missing = append(missing, name)
		}
	}
	score := float64(len(matched)) / float64(len(required)) * 100
	return score, matched, missing, nil
}

// keywordScore 关键词余弦相似度子分，基于岗位描述的关键词权重向量
func (m *Matcher) keywordScore(resumeText string, jdVec nlp.TermVector, jdKeywords []nlp.Keyword) (float64, []string) {
	resumeVec := nlp.Vector(resumeText)
	score := nlp.CosineSimilarity(resumeVec, jdVec) * 100

	resumeSet := nlp.TokenSet(resumeText)
	var matched []string
	for _, kw := range jdKeywords {
		if resumeSet[kw.Term] {
			matched = append(matched, kw.Term)
			if len(matched) >= missingKeywordLimit*2 {
				break
			}
		}
	}
	return score, matched
}

// experienceScore 经历相关性子分：EXPERIENCE 章节与岗位关键词向量的余弦相似度
// 无 EXPERIENCE 章节时该维度为 0，缺失警告由切分器负责
func (m *Matcher) experienceScore(sections *types.SectionMap, jdVec nlp.TermVector) float64 {
	expText := sections.SectionText(types.SectionExperience)
	if strings.TrimSpace(expText) == "" {
		return 0
	}
	expVec := nlp.Vector(expText)
	return nlp.CosineSimilarity(expVec, jdVec) * 100
}

// missingKeywords 岗位关键词集中按权重排序、且简历全文未出现的关键词
func (m *Matcher) missingKeywords(resumeText string, jdKeywords []nlp.Keyword) []string {
	resumeSet := nlp.TokenSet(resumeText)
	var missing []string
	for _, kw := range jdKeywords {
		if resumeSet[kw.Term] {
			continue
		}
		missing = append(missing, kw.Term)
		if len(missing) >= missingKeywordLimit {
			break
		}
	}
	return missing
}

// fullResumeText 全部章节文本按行号顺序拼接
func fullResumeText(sections *types.SectionMap) string {
	var parts []string
	for _, t := range types.AllSectionTypes {
		if text := sections.SectionText(t); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n")
}

// clampScore 得分收敛到 [0,100]，NaN 归零
func clampScore(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return math.Round(v*100) / 100
}

// Describe 匹配器的简短描述，用于启动日志
func (m *Matcher) Describe() string {
	return fmt.Sprintf("weights(skills=%.2f keywords=%.2f experience=%.2f)",
		m.weights.Skills, m.weights.Keywords, m.weights.Experience)
}
