package analyzer

import (
	"strings"
	"unicode"

	"resume-ats-go/internal/types"
)

// SkillsAnalyzer 基于规范词典识别技能
type SkillsAnalyzer struct {
	dict *SkillsDictionary
}

// NewSkillsAnalyzer 创建技能分析器，dict 为 nil 时使用内置词典
func NewSkillsAnalyzer(dict *SkillsDictionary) *SkillsAnalyzer {
	if dict == nil {
		dict = DefaultSkillsDictionary()
	}
	return &SkillsAnalyzer{dict: dict}
}

// Dictionary 返回底层词典
func (a *SkillsAnalyzer) Dictionary() *SkillsDictionary {
	return a.dict
}

// skillHit 一次技能命中及其出现位置
type skillHit struct {
	record types.SkillRecord
	line   int
	col    int
}

// ExtractSkills 从章节映射中提取技能记录
// SKILLS 章节按分隔符直接拆分条目；EXPERIENCE 与 PROJECTS 的叙述文本按词典扫描。
// 结果按首次出现位置排序并去重，每条记录带来源章节。
func (a *SkillsAnalyzer) ExtractSkills(sections *types.SectionMap) []types.SkillRecord {
	var hits []skillHit

	for _, sec := range sections.Get(types.SectionSkills) {
		hits = append(hits, a.splitSkillLines(sec)...)
	}
	for _, t := range []types.SectionType{types.SectionExperience, types.SectionProjects} {
		for _, sec := range sections.Get(t) {
			hits = append(hits, a.scanNarrative(sec)...)
		}
	}

	// 按出现位置排序，保证同一输入产出稳定
	for i := 1; i < len(hits); i++ {
		for j := i; j > 0 && lessHit(hits[j], hits[j-1]); j-- {
			hits[j-1], hits[j] = hits[j], hits[j-1]
		}
	}

	seen := make(map[string]bool)
	var out []types.SkillRecord
	for _, h := range hits {
		if seen[h.record.Name] {
			continue
		}
		seen[h.record.Name] = true
		out = append(out, h.record)
	}
	return out
}

// DetectInText 在自由文本（如职位描述）中识别词典技能，返回规范名
// 顺序与文本中的首次出现一致。
func (a *SkillsAnalyzer) DetectInText(text string) []string {
	type pos struct {
		name string
		at   int
	}
	lower := strings.ToLower(text)
	var found []pos
	seen := make(map[string]bool)
	for _, term := range a.dict.terms {
		if len(term) < 2 {
			continue
		}
		canonical := a.dict.termOwner[term]
		if seen[canonical] {
			continue
		}
		if at := indexWord(lower, term); at >= 0 {
			seen[canonical] = true
			found = append(found, pos{name: canonical, at: at})
		}
	}
	for i := 1; i < len(found); i++ {
		for j := i; j > 0 && found[j].at < found[j-1].at; j-- {
			found[j-1], found[j] = found[j], found[j-1]
		}
	}
	out := make([]string, 0, len(found))
	for _, p := range found {
		out = append(out, p.name)
	}
	return out
}

// splitSkillLines SKILLS 章节的条目拆分
// 未收录的条目保留为 uncategorized，简历明确声称的技能不应丢弃
func (a *SkillsAnalyzer) splitSkillLines(sec *types.Section) []skillHit {
	var hits []skillHit
	for i, line := range sec.Lines {
		for col, item := range splitSkillItems(line) {
			name, category := a.resolve(item)
			if name == "" {
				continue
			}
			hits = append(hits, skillHit{
				record: types.SkillRecord{Name: name, Category: category, FoundIn: sec.Type},
				line:   sec.Start + i,
				col:    col,
			})
		}
	}
	return hits
}

// scanNarrative 叙述文本中的词典扫描，仅收录词典技能
func (a *SkillsAnalyzer) scanNarrative(sec *types.Section) []skillHit {
	var hits []skillHit
	for i, line := range sec.Lines {
		lower := strings.ToLower(line)
		for _, term := range a.dict.terms {
			if len(term) < 2 {
				continue
			}
			at := indexWord(lower, term)
			if at < 0 {
				continue
			}
			canonical := a.dict.termOwner[term]
			hits = append(hits, skillHit{
				record: types.SkillRecord{
					Name:     canonical,
					Category: types.SkillCategory(a.dict.Category(canonical)),
					FoundIn:  sec.Type,
				},
				line: sec.Start + i,
				col:  at,
			})
		}
	}
	return hits
}

// resolve 将 SKILLS 条目归一为规范名与分类
func (a *SkillsAnalyzer) resolve(item string) (string, types.SkillCategory) {
	item = strings.Trim(item, " \t.:;·•-")
	if item == "" {
		return "", ""
	}
	if canonical, ok := a.dict.Canonical(item); ok {
		return canonical, types.SkillCategory(a.dict.Category(canonical))
	}
	lower := strings.ToLower(item)
	// 过滤明显不是技能的碎片
	if len([]rune(lower)) < 2 || len([]rune(lower)) > 40 {
		return "", ""
	}
	if lower == "and" || lower == "etc" || lower == "other" || lower == "others" {
		return "", ""
	}
	return lower, types.SkillCategoryUncategorized
}

// splitSkillItems 按常见分隔符拆分技能行
func splitSkillItems(line string) []string {
	return strings.FieldsFunc(line, func(r rune) bool {
		switch r {
		case ',', ';', '|', '•', '·', '、', '\t':
			return true
		}
		return false
	})
}

func lessHit(a, b skillHit) bool {
	if a.line != b.line {
		return a.line < b.line
	}
	return a.col < b.col
}

// indexWord term 在 haystack 中首个词边界完整匹配的位置，无则 -1
func indexWord(haystack, term string) int {
	from := 0
	for {
		idx := strings.Index(haystack[from:], term)
		if idx < 0 {
			return -1
		}
		idx += from
		if wordBoundaryAt(haystack, idx, len(term)) {
			return idx
		}
		from = idx + 1
	}
}

// wordBoundaryAt 判断 haystack[idx:idx+n] 两侧是否为词边界
// 边界按字母数字判断，因此 "go," 与 "(go)" 均算完整匹配
func wordBoundaryAt(haystack string, idx, n int) bool {
	if idx > 0 {
		prev := rune(haystack[idx-1])
		if unicode.IsLetter(prev) || unicode.IsDigit(prev) {
			return false
		}
	}
	end := idx + n
	if end < len(haystack) {
		next := rune(haystack[end])
		if unicode.IsLetter(next) || unicode.IsDigit(next) {
			return false
		}
	}
	return true
}
