package ai

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"resume-ats-go/internal/types"
)

// systemPrompt 生成建议时的系统角色设定
const systemPrompt = `You are an experienced technical recruiter and resume coach.
Given a structured summary of a candidate's resume and a job description,
write specific, actionable feedback that helps the candidate improve the
resume for this role. Focus on missing skills, weak sections, and concrete
wording suggestions. Answer in 3 to 6 short paragraphs of plain text.`

// Input 构建提示词所需的分析产物
type Input struct {
	Info           types.PersonalInfo
	Skills         []types.SkillRecord
	Experience     []types.ExperienceEntry
	Education      []types.EducationEntry
	Match          types.MatchResult
	JobDescription string
}

// BuildPrompt 由分析产物构建系统与用户提示词
// 总长不超过 maxChars；超出预算时按信息价值从低到高裁剪：
// 先 EDUCATION，再 EXPERIENCE，最后 SKILLS。
// 被裁剪的块从尾部丢弃整个条目，绝不截断半个条目。
// 候选人概要与匹配得分始终保留。
func BuildPrompt(in Input, maxChars int) (string, string) {
	header := buildHeader(in)
	jdBlock := "Job description:\n" + truncate(strings.TrimSpace(in.JobDescription), maxChars/3) + "\n"

	budget := maxChars - len(header) - len(jdBlock)

	skillsBlock := consume("", skillsEntries(in.Skills), &budget)
	expBlock := consume("Work experience:\n", experienceEntries(in.Experience), &budget)
	eduBlock := consume("Education:\n", educationEntries(in.Education), &budget)

	var b strings.Builder
	b.WriteString(header)
	b.WriteString(skillsBlock)
	b.WriteString(expBlock)
	b.WriteString(eduBlock)
	b.WriteString(jdBlock)
	return systemPrompt, b.String()
}

// consume 在预算内渲染一个内容块并扣减预算
// 预算不足以容纳全部条目时，从尾部丢弃整个条目；
// 一个条目都放不下时整块丢弃，不会留下孤立的块标题。
func consume(title string, entries []string, budget *int) string {
	if len(entries) == 0 || *budget <= 0 {
		return ""
	}

	size := len(title)
	kept := 0
	for _, e := range entries {
		if size+len(e) > *budget {
			break
		}
		size += len(e)
		kept++
	}
	if kept == 0 {
		return ""
	}

	*budget -= size
	var b strings.Builder
	b.WriteString(title)
	for _, e := range entries[:kept] {
		b.WriteString(e)
	}
	return b.String()
}

func buildHeader(in Input) string {
	var b strings.Builder
	name := "the candidate"
	if in.Info.Name != nil {
		name = *in.Info.Name
	}
	fmt.Fprintf(&b, "Resume analysis for %s.\n", name)
	fmt.Fprintf(&b, "Match scores (0-100): overall %.1f, skills %.1f, keywords %.1f, experience %.1f.\n",
		in.Match.OverallScore, in.Match.SkillScore, in.Match.KeywordScore, in.Match.ExperienceScore)
	if len(in.Match.MissingSkills) > 0 {
		fmt.Fprintf(&b, "Skills required by the job but missing from the resume: %s.\n",
			strings.Join(in.Match.MissingSkills, ", "))
	}
	if len(in.Match.MissingKeywords) > 0 {
		fmt.Fprintf(&b, "High-signal keywords from the job description absent from the resume: %s.\n",
			strings.Join(in.Match.MissingKeywords, ", "))
	}
	return b.String()
}

func skillsEntries(skills []types.SkillRecord) []string {
	if len(skills) == 0 {
		return nil
	}
	names := make([]string, 0, len(skills))
	for _, s := range skills {
		names = append(names, s.Name)
	}
	return []string{"Skills listed on the resume: " + strings.Join(names, ", ") + ".\n"}
}

// experienceEntries 每个工作经历渲染为一个不可分割的条目
// 概要行及其描述行属于同一条目，裁剪时同进同退。
func experienceEntries(entries []types.ExperienceEntry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		var b strings.Builder
		line := strings.TrimSpace(strings.Join(nonEmpty(e.Role, e.Company, e.DateRange), ", "))
		if line != "" {
			b.WriteString("- " + line + "\n")
		}
		if e.Description != "" {
			b.WriteString("  " + strings.ReplaceAll(e.Description, "\n", " ") + "\n")
		}
		if b.Len() > 0 {
			out = append(out, b.String())
		}
	}
	return out
}

func educationEntries(entries []types.EducationEntry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		line := strings.TrimSpace(strings.Join(nonEmpty(e.Degree, e.Institution, e.DateRange), ", "))
		if line != "" {
			out = append(out, "- "+line+"\n")
		}
	}
	return out
}

func nonEmpty(parts ...string) []string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return out
}

// truncate 截断到 max 字节并回退到合法的 UTF-8 边界
func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if len(s) <= max {
		return s
	}
	cut := s[:max]
	for len(cut) > 0 && !utf8.ValidString(cut) {
		cut = cut[:len(cut)-1]
	}
	return cut
}
