package models

import (
	"time"

	"gorm.io/datatypes"
)

// AnalysisRecord 一次简历分析的归档记录
// 完整报告以JSON形式存储，打分字段冗余成列便于查询与聚合。
type AnalysisRecord struct {
	// ReportID 报告UUID，与报告体中的report_id一致
	ReportID string `gorm:"column:report_id;type:varchar(36);primaryKey"`
	// MediaType 上传文档的声明格式
	MediaType string `gorm:"column:media_type;type:varchar(10);not null"`
	// OverallScore 总分，带索引支持按分数筛选
	OverallScore float64 `gorm:"column:overall_score;index"`
	// SkillScore 技能重合子分
	SkillScore float64 `gorm:"column:skill_score"`
	// KeywordScore 关键词重合子分
	KeywordScore float64 `gorm:"column:keyword_score"`
	// ExperienceScore 经历相关性子分
	ExperienceScore float64 `gorm:"column:experience_score"`
	// WarningCount 报告携带的警告数
	WarningCount int `gorm:"column:warning_count"`
	// Report 完整分析报告的JSON快照
	Report datatypes.JSON `gorm:"column:report;type:json;not null"`

	CreatedAt time.Time `gorm:"column:created_at;index"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

// TableName 指定表名
func (AnalysisRecord) TableName() string {
	return "analysis_reports"
}
