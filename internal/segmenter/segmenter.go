package segmenter

import (
	"fmt"
	"strings"
	"unicode"

	"resume-ats-go/internal/types"
)

// headingScoreThreshold 一行被认定为章节标题所需的最低置信度
const headingScoreThreshold = 0.8

// maxHeadingLen 超过该长度的行不可能是标题
const maxHeadingLen = 100

// Segmenter 依据标题启发式将规范化文本切分为带标签的章节
// 词表在启动时加载，此后只读，可被并发请求安全复用
type Segmenter struct {
	vocab Vocab
}

// New 使用给定词表创建切分器，词表为空时使用内置默认词表
func New(vocab Vocab) *Segmenter {
	if len(vocab) == 0 {
		vocab = DefaultHeadingVocab()
	}
	return &Segmenter{vocab: vocab}
}

// headingMatch 一次标题命中
type headingMatch struct {
	section types.SectionType
	synonym string
	score   float64
}

// Segment 将文本切分为 SectionMap
// 不变量：每一行恰好归属一个章节，行号范围互不重叠且完整覆盖输入；
// 首个标题之前的行归入 OTHER；全文无标题时产出单个 OTHER 章节和降级告警。
func (s *Segmenter) Segment(text types.NormalizedText) (*types.SectionMap, []types.Warning) {
	m := &types.SectionMap{
		Sections:   make(map[types.SectionType][]*types.Section),
		TotalLines: len(text.Lines),
	}

	var current *types.Section
	headingFound := false

	flush := func(end int) {
		if current == nil {
			return
		}
		current.End = end
		m.Sections[current.Type] = append(m.Sections[current.Type], current)
		current = nil
	}

	for i, line := range text.Lines {
		match := s.detectHeading(line)
		if match == nil {
			if current == nil {
				// 首个标题之前的内容落入 OTHER
				current = &types.Section{Type: types.SectionOther, Start: i}
			}
			current.Lines = append(current.Lines, line)
			continue
		}

		headingFound = true
		flush(i)
		current = &types.Section{
			Type:  match.section,
			Title: line,
			Start: i,
		}
		// 形如 "Skills: Python, Go" 的单行章节，冒号后的内容保留为正文
		if rest := contentAfterColon(line); rest != "" {
			current.Lines = append(current.Lines, rest)
		}
	}
	flush(len(text.Lines))

	var warnings []types.Warning
	if !headingFound && len(text.Lines) > 0 {
		warnings = append(warnings, types.Warning{
			Code:    types.WarnDegradedExtraction,
			Message: "未检测到任何章节标题，全文归入 OTHER 章节",
		})
		return m, warnings
	}

	// 关键章节缺失时给出告警，下游据此降级而非失败
	for _, required := range []types.SectionType{types.SectionExperience, types.SectionEducation, types.SectionSkills} {
		if len(m.Sections[required]) == 0 {
			warnings = append(warnings, types.Warning{
				Code:    types.WarnSectionNotFound,
				Message: fmt.Sprintf("未检测到 %s 章节", required),
			})
		}
	}
	return m, warnings
}

// detectHeading 判断一行是否为章节标题
// 候选条件：包含某个标题同义词且整体置信度超过阈值；
// 多个同义词命中时取字面最长的（再按固定章节顺序消除歧义）。
func (s *Segmenter) detectHeading(line string) *headingMatch {
	if len(line) >= maxHeadingLen {
		return nil
	}
	lower := strings.ToLower(strings.TrimLeft(line, "-•*#0123456789. \t"))

	var best *headingMatch
	for _, section := range types.AllSectionTypes {
		for _, syn := range s.vocab[section] {
			score := scoreHeading(line, lower, syn)
			if score < headingScoreThreshold {
				continue
			}
			if best == nil ||
				len(syn) > len(best.synonym) ||
				(len(syn) == len(best.synonym) && score > best.score) {
				best = &headingMatch{section: section, synonym: syn, score: score}
			}
		}
	}
	return best
}

// scoreHeading 计算一行相对某个同义词的标题置信度
// 信号：同义词位于行首(强)或行内(弱)、行较短、以冒号结尾、
// 字母大多为大写、词数较少。
func scoreHeading(original, lower, synonym string) float64 {
	idx := strings.Index(lower, synonym)
	if idx < 0 {
		return 0
	}
	// 同义词必须按完整词出现，避免 "go" 命中 "governance" 这类误报
	if !isWordBoundary(lower, idx, len(synonym)) {
		return 0
	}

	var score float64
	if idx == 0 {
		score += 0.6
	} else {
		score += 0.4
	}

	if len([]rune(lower)) <= 32 {
		score += 0.2
	}
	if strings.HasSuffix(strings.TrimSpace(original), ":") {
		score += 0.2
	}
	if mostlyUppercase(original) {
		score += 0.2
	}
	if len(strings.Fields(original)) <= 5 {
		score += 0.1
	}
	return score
}

// isWordBoundary 判断 s[idx:idx+n] 两侧是否为词边界
func isWordBoundary(s string, idx, n int) bool {
	if idx > 0 {
		prev := rune(s[idx-1])
		if unicode.IsLetter(prev) || unicode.IsDigit(prev) {
			return false
		}
	}
	if end := idx + n; end < len(s) {
		next := rune(s[end])
		if unicode.IsLetter(next) || unicode.IsDigit(next) {
			return false
		}
	}
	return true
}

// mostlyUppercase 字母大多为大写（如 "EDUCATION"、"WORK EXPERIENCE"）
func mostlyUppercase(s string) bool {
	var letters, upper int
	for _, r := range s {
		if unicode.IsLetter(r) {
			letters++
			if unicode.IsUpper(r) {
				upper++
			}
		}
	}
	return letters > 0 && float64(upper)/float64(letters) >= 0.7
}

// contentAfterColon 返回首个冒号之后的非空内容
func contentAfterColon(line string) string {
	for _, sep := range []string{":", "："} {
		if idx := strings.Index(line, sep); idx >= 0 {
			return strings.TrimSpace(line[idx+len(sep):])
		}
	}
	return ""
}
