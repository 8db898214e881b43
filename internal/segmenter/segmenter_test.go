package segmenter

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-ats-go/internal/types"
)

func lines(ls ...string) types.NormalizedText {
	return types.NormalizedText{Lines: ls}
}

// TestSegmentBasicResume 常规简历的章节切分
func TestSegmentBasicResume(t *testing.T) {
	s := New(nil)
	text := lines(
		"John Doe",
		"john@example.com | +1 555 123 4567",
		"SUMMARY",
		"Backend engineer with five years of experience building services.",
		"WORK EXPERIENCE",
		"Acme Corp - Senior Engineer",
		"Built payment APIs in Go.",
		"EDUCATION",
		"B.S. Computer Science, State University",
		"SKILLS",
		"Python, Go, SQL",
	)

	m, warnings := s.Segment(text)
	assert.Empty(t, warnings, "所有关键章节均存在，不应有告警")

	// 标题之前的联系信息落入 OTHER
	other := m.Get(types.SectionOther)
	require.Len(t, other, 1)
	assert.Equal(t, []string{"John Doe", "john@example.com | +1 555 123 4567"}, other[0].Lines)
	assert.Equal(t, 0, other[0].Start)
	assert.Equal(t, 2, other[0].End)

	summary := m.Get(types.SectionSummary)
	require.Len(t, summary, 1)
	assert.Equal(t, "SUMMARY", summary[0].Title)

	exp := m.Get(types.SectionExperience)
	require.Len(t, exp, 1)
	assert.Equal(t, []string{"Acme Corp - Senior Engineer", "Built payment APIs in Go."}, exp[0].Lines)

	require.Len(t, m.Get(types.SectionEducation), 1)
	require.Len(t, m.Get(types.SectionSkills), 1)
}

// TestSegmentCoversAllLines 行号范围必须完整覆盖输入且互不重叠
func TestSegmentCoversAllLines(t *testing.T) {
	s := New(nil)
	text := lines(
		"Jane Roe",
		"Professional Summary",
		"Engineer.",
		"Technical Skills:",
		"Go, Rust",
		"Projects",
		"Built a compiler.",
		"random trailing line",
	)

	m, _ := s.Segment(text)

	var all []*types.Section
	for _, secs := range m.Sections {
		all = append(all, secs...)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Start < all[j].Start })

	cursor := 0
	for _, sec := range all {
		assert.Equal(t, cursor, sec.Start, "章节之间不能有空洞或重叠")
		assert.Greater(t, sec.End, sec.Start)
		cursor = sec.End
	}
	assert.Equal(t, len(text.Lines), cursor, "最后一个章节必须到达文本末尾")
	assert.Equal(t, len(text.Lines), m.TotalLines)
}

// TestSegmentNoHeadings 无标题文档退化为单个 OTHER 章节加告警
func TestSegmentNoHeadings(t *testing.T) {
	s := New(nil)
	text := lines(
		"I write software for a living.",
		"Mostly distributed systems in large clusters.",
	)

	m, warnings := s.Segment(text)

	require.Len(t, m.Get(types.SectionOther), 1)
	assert.Equal(t, 2, m.Get(types.SectionOther)[0].End)

	require.Len(t, warnings, 1)
	assert.Equal(t, types.WarnDegradedExtraction, warnings[0].Code)
}

// TestSegmentInlineSkillsHeading 形如 "Skills: ..." 的单行章节保留冒号后的内容
func TestSegmentInlineSkillsHeading(t *testing.T) {
	s := New(nil)
	text := lines("Skills: Python, Go, SQL")

	m, _ := s.Segment(text)

	skills := m.Get(types.SectionSkills)
	require.Len(t, skills, 1)
	assert.Equal(t, []string{"Python, Go, SQL"}, skills[0].Lines)
	assert.Equal(t, "Skills: Python, Go, SQL", skills[0].Title)
}

// TestSegmentSynonyms 标题同义词映射到同一标签
func TestSegmentSynonyms(t *testing.T) {
	s := New(nil)
	tests := []struct {
		heading string
		want    types.SectionType
	}{
		{"Work Experience", types.SectionExperience},
		{"EMPLOYMENT HISTORY", types.SectionExperience},
		{"Professional Experience", types.SectionExperience},
		{"Academic Background", types.SectionEducation},
		{"Core Competencies", types.SectionSkills},
		{"About Me", types.SectionSummary},
		{"Licenses and Certifications", types.SectionCertifications},
	}

	for _, tt := range tests {
		t.Run(tt.heading, func(t *testing.T) {
			m, _ := s.Segment(lines(tt.heading, "content line"))
			require.Len(t, m.Get(tt.want), 1, "标题 %q 应归入 %s", tt.heading, tt.want)
		})
	}
}

// TestSegmentTieBreakLongestMatch 命中多个同义词时取字面最长的
func TestSegmentTieBreakLongestMatch(t *testing.T) {
	s := New(nil)

	// "work experience" 同时包含 EXPERIENCE 的 "experience" 与 "work experience"
	m, _ := s.Segment(lines("Work Experience", "did things"))
	require.Len(t, m.Get(types.SectionExperience), 1)

	// "technical skills" 同时匹配 "skills" 与 "technical skills"，应整体归入 SKILLS
	match := s.detectHeading("Technical Skills")
	require.NotNil(t, match)
	assert.Equal(t, "technical skills", match.synonym)
}

// TestSegmentNarrativeNotHeading 叙述性长句即使包含关键词也不是标题
func TestSegmentNarrativeNotHeading(t *testing.T) {
	s := New(nil)

	assert.Nil(t, s.detectHeading("I have ten years of experience working with distributed teams"))
	assert.Nil(t, s.detectHeading("Developed internal tools platform for the whole company together:"))
}

// TestSegmentMissingSectionsWarned 检出部分标题时，关键章节缺失产生告警
func TestSegmentMissingSectionsWarned(t *testing.T) {
	s := New(nil)
	text := lines(
		"SKILLS",
		"Go, Python",
	)

	_, warnings := s.Segment(text)

	var codes []types.WarningCode
	var messages []string
	for _, w := range warnings {
		codes = append(codes, w.Code)
		messages = append(messages, w.Message)
	}
	assert.Contains(t, codes, types.WarnSectionNotFound)
	assert.Contains(t, messages, "未检测到 EXPERIENCE 章节")
	assert.Contains(t, messages, "未检测到 EDUCATION 章节")
	assert.NotContains(t, messages, "未检测到 SKILLS 章节")
}

// TestLoadVocab 从YAML加载词表并拒绝未知标签
func TestLoadVocab(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("合法词表", func(t *testing.T) {
		path := filepath.Join(tmpDir, "headings.yaml")
		content := `
version: "1"
headings:
  EXPERIENCE:
    - "berufserfahrung"
  SKILLS:
    - "kenntnisse"
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		vocab, err := LoadVocab(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"berufserfahrung"}, vocab[types.SectionExperience])

		s := New(vocab)
		m, _ := s.Segment(lines("Berufserfahrung", "Firma GmbH"))
		require.Len(t, m.Get(types.SectionExperience), 1)
	})

	t.Run("未知标签被拒绝", func(t *testing.T) {
		path := filepath.Join(tmpDir, "bad.yaml")
		content := `
headings:
  HOBBIES:
    - "hobbies"
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		_, err := LoadVocab(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "HOBBIES")
	})
}
