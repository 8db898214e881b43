package extractor

import (
	"strings"
	"unicode"

	"resume-ats-go/internal/types"
)

// Normalize 将原始提取文本整理为规范化的行序列：
// 统一换行符，换页符视为段落边界，剔除控制字符与二进制残留，
// 行内空白折叠为单个空格，空行丢弃。
func Normalize(raw string) types.NormalizedText {
	// 去除 UTF-8 BOM
	raw = strings.TrimPrefix(raw, "\uFEFF")

	// 统一换行；换页符是PDF常见的分页标记
	replacer := strings.NewReplacer(
		"\r\n", "\n",
		"\r", "\n",
		"\f", "\n",
		"\v", "\n",
	)
	raw = replacer.Replace(raw)

	lines := make([]string, 0, strings.Count(raw, "\n")+1)
	for _, line := range strings.Split(raw, "\n") {
		cleaned := cleanLine(line)
		if cleaned == "" {
			continue
		}
		lines = append(lines, cleaned)
	}
	return types.NormalizedText{Lines: lines}
}

// cleanLine 清理单行：剔除不可打印字符，折叠空白，修剪首尾
func cleanLine(line string) string {
	var b strings.Builder
	b.Grow(len(line))

	lastSpace := false
	for _, r := range line {
		switch {
		case r == '\t' || unicode.IsSpace(r):
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
		case unicode.IsControl(r) || r == unicode.ReplacementChar:
			// 控制字符与解码残留直接丢弃
		default:
			b.WriteRune(r)
			lastSpace = false
		}
	}
	return strings.TrimSpace(b.String())
}
