package analyzer

import (
	"regexp"
	"strings"

	"resume-ats-go/internal/types"
)

// 经历与教育条目的识别模式
var (
	// dateRangeRe 匹配 "Jan 2020 - Mar 2023"、"2019-2021"、"2022 – Present" 等写法
	dateRangeRe = regexp.MustCompile(`(?i)\b(?:(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+)?\d{4}\s*(?:[-–—~]|to)\s*(?:(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+)?(?:\d{4}|present|current|now)\b`)
	degreeRe    = regexp.MustCompile(`(?i)\b(bachelor|master|ph\.?d|doctor|b\.?s\.?c?|m\.?s\.?c?|b\.?a\.?|m\.?a\.?|b\.?tech|m\.?tech|mba|associate|diploma)\b`)
	schoolRe    = regexp.MustCompile(`(?i)\b(university|college|institute|school|academy|polytechnic)\b`)
	yearRe      = regexp.MustCompile(`\b(19|20)\d{2}\b`)
)

// ExtractExperience 从 EXPERIENCE 章节尽力解析经历条目
// 含日期区间的行视为条目起点；解析不出结构时整段归入描述。
// 字段允许残缺，本函数永不失败。
func ExtractExperience(sections *types.SectionMap) []types.ExperienceEntry {
	var entries []types.ExperienceEntry
	for _, sec := range sections.Get(types.SectionExperience) {
		entries = append(entries, parseExperienceSection(sec.Lines)...)
	}
	return entries
}

func parseExperienceSection(lines []string) []types.ExperienceEntry {
	var entries []types.ExperienceEntry
	var current *types.ExperienceEntry
	var desc []string

	flush := func() {
		if current == nil {
			return
		}
		current.Description = strings.TrimSpace(strings.Join(desc, "\n"))
		entries = append(entries, *current)
		current = nil
		desc = nil
	}

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if dr := dateRangeRe.FindString(line); dr != "" {
			header := strings.TrimSpace(strings.Trim(strings.ReplaceAll(line, dr, ""), " |,-–—"))
			// 紧跟条目头的独立日期行归属当前条目
			if header == "" && current != nil && current.DateRange == "" && len(desc) == 0 {
				current.DateRange = dr
				continue
			}
			company, role := headerGuess(header)
			if header != "" && company == "" && role == "" && current != nil {
				// 含年份的叙述行，不是条目头
				desc = append(desc, line)
				continue
			}
			flush()
			current = &types.ExperienceEntry{DateRange: dr, Company: company, Role: role}
			continue
		}
		if current == nil {
			// 无日期的条目头，例如 "Acme Corp - Senior Engineer"
			if company, role := headerGuess(line); role != "" {
				current = &types.ExperienceEntry{Company: company, Role: role}
				continue
			}
			current = &types.ExperienceEntry{}
		}
		// 头部行的下一行常是公司或职位的补充
		if current.Company == "" && current.Role == "" && len(desc) == 0 {
			if company, role := headerGuess(line); role != "" {
				current.Company, current.Role = company, role
				continue
			}
		}
		desc = append(desc, line)
	}
	flush()
	return entries
}

// headerGuess 仅对足够短且非列表项的行尝试头部拆分，叙述行不参与
func headerGuess(line string) (company, role string) {
	if strings.HasPrefix(line, "-") || strings.HasPrefix(line, "•") {
		return "", ""
	}
	if len(strings.Fields(line)) > 8 {
		return "", ""
	}
	return splitHeader(line)
}

// splitHeader 将 "公司 - 职位" 或 "公司 | 职位" 形态的行拆成两段
func splitHeader(line string) (company, role string) {
	for _, sep := range []string{" - ", " – ", " — ", " | ", " at ", "，", ", "} {
		if idx := strings.Index(line, sep); idx > 0 {
			left := strings.TrimSpace(line[:idx])
			right := strings.TrimSpace(line[idx+len(sep):])
			if left != "" && right != "" {
				if sep == " at " {
					// "Senior Engineer at Acme" 职位在前
					return right, left
				}
				return left, right
			}
		}
	}
	return strings.TrimSpace(line), ""
}

// ExtractEducation 从 EDUCATION 章节尽力解析教育条目
func ExtractEducation(sections *types.SectionMap) []types.EducationEntry {
	var entries []types.EducationEntry
	for _, sec := range sections.Get(types.SectionEducation) {
		entries = append(entries, parseEducationSection(sec.Lines)...)
	}
	return entries
}

func parseEducationSection(lines []string) []types.EducationEntry {
	var entries []types.EducationEntry
	var current *types.EducationEntry

	flush := func() {
		if current != nil {
			entries = append(entries, *current)
			current = nil
		}
	}

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		hasDegree := degreeRe.MatchString(line)
		hasSchool := schoolRe.MatchString(line)

		// 新条目从学位行或院校行开始
		if current == nil || (hasDegree && current.Degree != "") || (hasSchool && current.Institution != "") {
			flush()
			current = &types.EducationEntry{}
		}
		if hasDegree && current.Degree == "" {
			current.Degree = extractDegreeLine(line)
		}
		if hasSchool && current.Institution == "" {
			current.Institution = extractSchool(line)
		}
		if current.DateRange == "" {
			if dr := dateRangeRe.FindString(line); dr != "" {
				current.DateRange = dr
			} else if y := yearRe.FindString(line); y != "" && (hasDegree || hasSchool) {
				current.DateRange = y
			}
		}
	}
	flush()
	return entries
}

// extractDegreeLine 学位部分通常在逗号前，如 "B.S. Computer Science, State University"
func extractDegreeLine(line string) string {
	if idx := strings.Index(line, ","); idx > 0 {
		left := strings.TrimSpace(line[:idx])
		if degreeRe.MatchString(left) {
			return left
		}
	}
	return strings.TrimSpace(dateRangeRe.ReplaceAllString(line, ""))
}

// extractSchool 取含院校关键词的片段
func extractSchool(line string) string {
	for _, part := range strings.Split(line, ",") {
		part = strings.TrimSpace(part)
		if schoolRe.MatchString(part) {
			return strings.TrimSpace(dateRangeRe.ReplaceAllString(part, ""))
		}
	}
	return strings.TrimSpace(dateRangeRe.ReplaceAllString(line, ""))
}
