package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-ats-go/internal/types"
)

// newSectionMap 测试辅助：由章节列表构建章节映射
func newSectionMap(secs ...*types.Section) *types.SectionMap {
	m := &types.SectionMap{Sections: make(map[types.SectionType][]*types.Section)}
	for _, s := range secs {
		m.Sections[s.Type] = append(m.Sections[s.Type], s)
		if s.End > m.TotalLines {
			m.TotalLines = s.End
		}
	}
	return m
}

func TestExtractPersonalInfoFull(t *testing.T) {
	m := newSectionMap(&types.Section{
		Type:  types.SectionOther,
		Lines: []string{"John Doe", "Austin, TX", "john.doe@example.com | +1 (555) 123-4567", "github.com/johndoe | linkedin.com/in/john-doe"},
		Start: 0, End: 4,
	})

	info := ExtractPersonalInfo(m)

	require.NotNil(t, info.Name)
	assert.Equal(t, "John Doe", *info.Name)
	require.NotNil(t, info.Email)
	assert.Equal(t, "john.doe@example.com", *info.Email)
	require.NotNil(t, info.Phone)
	assert.Equal(t, "+1 (555) 123-4567", *info.Phone)
	require.NotNil(t, info.Location)
	assert.Equal(t, "Austin, TX", *info.Location)
	require.NotNil(t, info.Links)
	assert.Equal(t, "https://github.com/johndoe", info.Links["github"])
	assert.Equal(t, "https://linkedin.com/in/john-doe", info.Links["linkedin"])
}

func TestExtractPersonalInfoMissingFields(t *testing.T) {
	m := newSectionMap(&types.Section{
		Type:  types.SectionOther,
		Lines: []string{"Jane Roe", "Engineer with a decade of experience."},
		Start: 0, End: 2,
	})

	info := ExtractPersonalInfo(m)

	// 缺失字段保持为 nil，不是空字符串
	require.NotNil(t, info.Name)
	assert.Equal(t, "Jane Roe", *info.Name)
	assert.Nil(t, info.Email)
	assert.Nil(t, info.Phone)
	assert.Nil(t, info.Links)
}

func TestExtractPersonalInfoEmpty(t *testing.T) {
	m := newSectionMap()
	info := ExtractPersonalInfo(m)

	assert.Nil(t, info.Name)
	assert.Nil(t, info.Email)
	assert.Nil(t, info.Phone)
	assert.Nil(t, info.Location)
	assert.Nil(t, info.Links)
}

func TestFindPhoneRejectsYears(t *testing.T) {
	// 年份区间不足七位有效数字，不应被当成电话
	assert.Equal(t, "", findPhone("worked there 2019 - 2021"))
	assert.Equal(t, "555-123-4567", findPhone("call 555-123-4567 anytime"))
}

func TestExtractPersonalInfoEmailFromAnySection(t *testing.T) {
	// 联系模式在全文匹配，即使出现在非文首章节
	m := newSectionMap(
		&types.Section{Type: types.SectionOther, Lines: []string{"Jane Roe"}, Start: 0, End: 1},
		&types.Section{Type: types.SectionSummary, Title: "Summary", Lines: []string{"Reach me at jane@roe.dev."}, Start: 1, End: 3},
	)

	info := ExtractPersonalInfo(m)
	require.NotNil(t, info.Email)
	assert.Equal(t, "jane@roe.dev", *info.Email)
}
