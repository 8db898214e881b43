package analyzer

import (
	"regexp"
	"strings"

	"resume-ats-go/internal/types"
)

// 个人信息的识别模式
var (
	emailRe    = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	phoneRe    = regexp.MustCompile(`\+?[0-9][0-9\-\s().]{5,18}[0-9]`)
	githubRe   = regexp.MustCompile(`github\.com/[A-Za-z0-9_\-]+`)
	linkedinRe = regexp.MustCompile(`linkedin\.com/in/[A-Za-z0-9_\-]+`)
	urlRe      = regexp.MustCompile(`https?://[^\s]+|www\.[^\s]+|[a-z0-9\-]+\.[a-z]{2,}/[^\s]*`)
	// locationRe 形如 "Austin, TX" 或 "Berlin, Germany" 的城市行
	locationRe = regexp.MustCompile(`\b([A-Z][A-Za-z.\-]+(?: [A-Z][A-Za-z.\-]+)?,\s*[A-Z][A-Za-z.\-]*(?: [A-Z][A-Za-z.\-]+)?)\b`)
	digitRe = regexp.MustCompile(`[0-9]`)
	// yearRangeRe 形如 "2019 - 2021" 的任职年份区间，位数上与电话难以区分
	yearRangeRe = regexp.MustCompile(`^(19|20)\d{2}\s*[-–—~]?\s*(19|20)\d{2}$`)
)

// ExtractPersonalInfo 从章节映射中尽力提取个人信息
// 各字段相互独立，缺失不构成错误，本函数永不失败。
// 联系模式在全文中匹配；姓名取任何模式命中之前的首个非空行。
func ExtractPersonalInfo(sections *types.SectionMap) types.PersonalInfo {
	info := types.PersonalInfo{}

	fullText := allSectionText(sections)
	leading := leadingLines(sections, 10)

	if email := emailRe.FindString(fullText); email != "" {
		info.Email = &email
	}

	if phone := findPhone(fullText); phone != "" {
		info.Phone = &phone
	}

	links := make(map[string]string)
	if gh := githubRe.FindString(fullText); gh != "" {
		links["github"] = "https://" + gh
	}
	if li := linkedinRe.FindString(fullText); li != "" {
		links["linkedin"] = "https://" + li
	}
	if len(links) > 0 {
		info.Links = links
	}

	if name := findName(leading); name != "" {
		info.Name = &name
	}
	if loc := findLocation(leading); loc != "" {
		info.Location = &loc
	}
	return info
}

// allSectionText 所有章节按行号顺序拼接的全文
func allSectionText(sections *types.SectionMap) string {
	ordered := orderedSections(sections)
	var b strings.Builder
	for _, sec := range ordered {
		if sec.Title != "" {
			b.WriteString(sec.Title)
			b.WriteString("\n")
		}
		b.WriteString(sec.Text())
		b.WriteString("\n")
	}
	return b.String()
}

// leadingLines 文档开头的若干行，姓名与位置信息通常在这里
// 优先取 CONTACT 章节，其次取位于文首的 OTHER 章节
func leadingLines(sections *types.SectionMap, limit int) []string {
	var out []string
	for _, t := range []types.SectionType{types.SectionContact, types.SectionOther} {
		for _, sec := range sections.Get(t) {
			if t == types.SectionOther && sec.Start > 0 {
				continue // 只看文首的 OTHER 块
			}
			out = append(out, sec.Lines...)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// findPhone 提取首个电话号码，按有效数字位数过滤掉年份等误报
func findPhone(text string) string {
	for _, candidate := range phoneRe.FindAllString(text, -1) {
		candidate = strings.TrimSpace(candidate)
		if yearRangeRe.MatchString(candidate) {
			continue
		}
		digits := len(digitRe.FindAllString(candidate, -1))
		if digits >= 7 && digits <= 15 {
			return candidate
		}
	}
	return ""
}

// findName 任何联系模式之前的首个非空行即姓名候选
// 候选行需为 1~4 个词且不含数字，避免把地址或标题当成姓名
func findName(leading []string) string {
	for _, line := range leading {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if emailRe.MatchString(line) || urlRe.MatchString(line) || findPhone(line) != "" {
			// 已经进入联系方式区域，不再向下找
			return ""
		}
		words := strings.Fields(line)
		if len(words) >= 1 && len(words) <= 4 && !digitRe.MatchString(line) {
			return line
		}
	}
	return ""
}

// findLocation 在文首行中寻找 "城市, 地区" 形态的位置信息
func findLocation(leading []string) string {
	for _, line := range leading {
		// 含邮箱或链接的行先剥离这些片段，避免域名被误识别
		stripped := emailRe.ReplaceAllString(line, "")
		stripped = urlRe.ReplaceAllString(stripped, "")
		if m := locationRe.FindString(stripped); m != "" {
			return m
		}
	}
	return ""
}

// orderedSections 所有章节按起始行号排序
func orderedSections(sections *types.SectionMap) []*types.Section {
	var all []*types.Section
	for _, secs := range sections.Sections {
		all = append(all, secs...)
	}
	for i := 1; i < len(all); i++ {
		for j := i; j > 0 && all[j-1].Start > all[j].Start; j-- {
			all[j-1], all[j] = all[j], all[j-1]
		}
	}
	return all
}
