package types

// MediaType 表示上传文档的声明格式
type MediaType string

const (
	// MediaTypePDF PDF文档
	MediaTypePDF MediaType = "pdf"
	// MediaTypeDOC 旧版Word文档
	MediaTypeDOC MediaType = "doc"
	// MediaTypeDOCX OOXML Word文档
	MediaTypeDOCX MediaType = "docx"
	// MediaTypeText 纯文本
	MediaTypeText MediaType = "text"
)

// SectionType 表示简历章节类型
type SectionType string

const (
	// SectionContact 联系方式章节
	SectionContact SectionType = "CONTACT"
	// SectionSummary 个人简介章节
	SectionSummary SectionType = "SUMMARY"
	// SectionExperience 工作经历章节
	SectionExperience SectionType = "EXPERIENCE"
	// SectionEducation 教育经历章节
	SectionEducation SectionType = "EDUCATION"
	// SectionSkills 技能章节
	SectionSkills SectionType = "SKILLS"
	// SectionProjects 项目经历章节
	SectionProjects SectionType = "PROJECTS"
	// SectionCertifications 证书章节
	SectionCertifications SectionType = "CERTIFICATIONS"
	// SectionOther 未分类内容章节，兜底用
	SectionOther SectionType = "OTHER"
)

// AllSectionTypes 固定的章节类型词汇表，顺序即报告中的展示顺序
var AllSectionTypes = []SectionType{
	SectionContact,
	SectionSummary,
	SectionExperience,
	SectionEducation,
	SectionSkills,
	SectionProjects,
	SectionCertifications,
	SectionOther,
}

// NormalizedText 规范化后的简历文本，按行组织
// 不变量：单一字符集，无二进制残留，逻辑段落以行为界
type NormalizedText struct {
	Lines []string `json:"lines"`
}

// String 以换行拼接所有行
func (t NormalizedText) String() string {
	out := ""
	for i, line := range t.Lines {
		if i > 0 {
			out += "\n"
		}
		out += line
	}
	return out
}

// Section 一个章节的原始文本行及其在 NormalizedText 中的行号范围 [Start, End)
type Section struct {
	Type  SectionType `json:"type"`
	Title string      `json:"title,omitempty"` // 命中的原始标题行，OTHER 章节为空
	Lines []string    `json:"lines"`
	Start int         `json:"start"`
	End   int         `json:"end"`
}

// Text 章节正文（不含标题行）按换行拼接
func (s *Section) Text() string {
	out := ""
	for i, line := range s.Lines {
		if i > 0 {
			out += "\n"
		}
		out += line
	}
	return out
}

// SectionMap 章节标签到章节序列的映射
// 不变量：所有输入行恰好归属一个章节，行号范围互不重叠
type SectionMap struct {
	Sections map[SectionType][]*Section `json:"sections"`
	// TotalLines 输入文本的总行数，用于校验覆盖性
	TotalLines int `json:"total_lines"`
}

// Get 返回某一类型的全部章节，不存在时返回空切片
func (m *SectionMap) Get(t SectionType) []*Section {
	if m == nil || m.Sections == nil {
		return nil
	}
	return m.Sections[t]
}

// SectionText 某一类型所有章节正文的拼接
func (m *SectionMap) SectionText(t SectionType) string {
	out := ""
	for _, sec := range m.Get(t) {
		if out != "" {
			out += "\n"
		}
		out += sec.Text()
	}
	return out
}

// PersonalInfo 从简历中提取的个人信息，各字段相互独立、允许缺失
type PersonalInfo struct {
	Name     *string           `json:"name"`
	Email    *string           `json:"email"`
	Phone    *string           `json:"phone"`
	Location *string           `json:"location"`
	Links    map[string]string `json:"links,omitempty"` // 例如 github / linkedin -> URL
}

// SkillCategory 技能分类标签
type SkillCategory string

const (
	// SkillCategoryUncategorized 无法归类的技能
	SkillCategoryUncategorized SkillCategory = "uncategorized"
)

// SkillRecord 归一化后的技能条目
type SkillRecord struct {
	// Name 规范化技能词（小写、同义词归一）
	Name string `json:"name"`
	// Category 分类标签，无法归类时为 uncategorized
	Category SkillCategory `json:"category"`
	// FoundIn 技能首次出现的章节
	FoundIn SectionType `json:"found_in"`
}

// ExperienceEntry 工作经历条目，尽力解析，允许部分字段为空
type ExperienceEntry struct {
	Company     string `json:"company,omitempty"`
	Role        string `json:"role,omitempty"`
	DateRange   string `json:"date_range,omitempty"` // 原始时间段字符串，不做解析
	Description string `json:"description,omitempty"`
}

// EducationEntry 教育经历条目，尽力解析，允许部分字段为空
type EducationEntry struct {
	Institution string `json:"institution,omitempty"`
	Degree      string `json:"degree,omitempty"`
	DateRange   string `json:"date_range,omitempty"`
	Description string `json:"description,omitempty"`
}

// MatchResult 简历与岗位描述的匹配结果
type MatchResult struct {
	// OverallScore 总分 [0,100]
	OverallScore float64 `json:"overall_score"`
	// SkillScore 技能重合子分 [0,100]
	SkillScore float64 `json:"skill_score"`
	// KeywordScore 关键词重合子分 [0,100]
	KeywordScore float64 `json:"keyword_score"`
	// ExperienceScore 经历相关性子分 [0,100]
	ExperienceScore float64 `json:"experience_score"`
	// MatchedKeywords 简历中命中的JD关键词
	MatchedKeywords []string `json:"matched_keywords"`
	// MissingKeywords 简历中缺失的JD关键词，按区分度降序
	MissingKeywords []string `json:"missing_keywords"`
	// MatchedSkills JD要求且简历具备的技能
	MatchedSkills []string `json:"matched_skills"`
	// MissingSkills JD要求但简历缺失的技能
	MissingSkills []string `json:"missing_skills"`
}

// WarningCode 提取告警的枚举编码
type WarningCode string

const (
	// WarnDegradedExtraction 提取不完整或置信度低
	WarnDegradedExtraction WarningCode = "DEGRADED_EXTRACTION"
	// WarnSectionNotFound 未检测到某一预期章节
	WarnSectionNotFound WarningCode = "SECTION_NOT_FOUND"
	// WarnMatchComputation 岗位描述为空，匹配计算退化
	WarnMatchComputation WarningCode = "MATCH_COMPUTATION"
	// WarnNoRequiredSkills JD中未检测到任何技能要求
	WarnNoRequiredSkills WarningCode = "NO_REQUIRED_SKILLS"
	// WarnAIUnavailable 外部文本生成能力在重试预算内不可用
	WarnAIUnavailable WarningCode = "AI_UNAVAILABLE"
)

// Warning 单条提取告警，随报告一并返回，绝不静默丢弃
type Warning struct {
	Code    WarningCode `json:"code"`
	Message string      `json:"message"`
}

// JobDescription 岗位描述文本及其派生的关键词权重集
// Keywords 在单次分析请求内只计算一次
type JobDescription struct {
	Text     string             `json:"text"`
	Keywords map[string]float64 `json:"keywords,omitempty"`
}

// AnalysisReport 流水线唯一对外产物，生成后不可变，不引用原始文档字节
type AnalysisReport struct {
	ReportID     string            `json:"report_id"`
	PersonalInfo PersonalInfo      `json:"personal_info"`
	Skills       []SkillRecord     `json:"skills"`
	Experience   []ExperienceEntry `json:"experience"`
	Education    []EducationEntry  `json:"education"`
	Match        MatchResult       `json:"match"`
	// AIFeedback 外部模型生成的改进建议，失败降级时为 nil
	AIFeedback *string   `json:"ai_feedback"`
	Warnings   []Warning `json:"warnings"`
	// AnalyzedAt 报告生成时间，Unix毫秒
	AnalyzedAt int64 `json:"analyzed_at"`
}

// HasWarning 判断报告中是否存在指定编码的告警
func (r *AnalysisReport) HasWarning(code WarningCode) bool {
	for _, w := range r.Warnings {
		if w.Code == code {
			return true
		}
	}
	return false
}
