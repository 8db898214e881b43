package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"resume-ats-go/internal/config"
	"resume-ats-go/internal/storage/models"
	"resume-ats-go/internal/tracing"
	"resume-ats-go/internal/types"
)

var mysqlTracer = otel.Tracer("resume-ats-go/storage/mysql")

// ErrReportNotFound 请求的报告不存在
var ErrReportNotFound = errors.New("分析报告不存在")

// MySQL 分析报告的归档存储
type MySQL struct {
	db  *gorm.DB
	cfg *config.MySQLConfig
}

// NewMySQL 创建MySQL客户端并迁移表结构
func NewMySQL(cfg *config.MySQLConfig) (*MySQL, error) {
	if cfg == nil {
		return nil, fmt.Errorf("MySQL配置不能为空")
	}

	var logLevel logger.LogLevel
	switch cfg.LogLevel {
	case "silent":
		logLevel = logger.Silent
	case "error":
		logLevel = logger.Error
	case "info":
		logLevel = logger.Info
	default:
		logLevel = logger.Warn
	}

	gormConfig := &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   logger.Default.LogMode(logLevel),
		PrepareStmt:                              true,
		NowFunc: func() time.Time {
			return time.Now().Local()
		},
	}

	db, err := gorm.Open(mysql.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("连接MySQL失败: %w", err)
	}

	if err := db.AutoMigrate(&models.AnalysisRecord{}); err != nil {
		return nil, fmt.Errorf("迁移表结构失败: %w", err)
	}

	return &MySQL{db: db, cfg: cfg}, nil
}

// DB 返回GORM数据库连接实例
func (m *MySQL) DB() *gorm.DB {
	return m.db
}

// Close 关闭数据库连接
func (m *MySQL) Close() error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SaveReport 归档一份分析报告
func (m *MySQL) SaveReport(ctx context.Context, report *types.AnalysisReport, mediaType types.MediaType) error {
	ctx, span := mysqlTracer.Start(ctx, "INSERT analysis_reports",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			semconv.DBSystemMySQL,
			attribute.String("report.id", report.ReportID),
		))
	defer span.End()

	payload, err := json.Marshal(report)
	if err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeDB)
		return fmt.Errorf("序列化分析报告失败: %w", err)
	}

	record := models.AnalysisRecord{
		ReportID:        report.ReportID,
		MediaType:       string(mediaType),
		OverallScore:    report.Match.OverallScore,
		SkillScore:      report.Match.SkillScore,
		KeywordScore:    report.Match.KeywordScore,
		ExperienceScore: report.Match.ExperienceScore,
		WarningCount:    len(report.Warnings),
		Report:          payload,
	}

	if err := m.db.WithContext(ctx).Create(&record).Error; err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeDB)
		return fmt.Errorf("归档分析报告失败: %w", err)
	}
	return nil
}

// GetReport 按报告ID取回分析报告
func (m *MySQL) GetReport(ctx context.Context, reportID string) (*types.AnalysisReport, error) {
	ctx, span := mysqlTracer.Start(ctx, "SELECT analysis_reports",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			semconv.DBSystemMySQL,
			attribute.String("report.id", reportID),
		))
	defer span.End()

	var record models.AnalysisRecord
	err := m.db.WithContext(ctx).First(&record, "report_id = ?", reportID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReportNotFound
		}
		tracing.RecordError(span, err, tracing.ErrorTypeDB)
		return nil, fmt.Errorf("查询分析报告失败: %w", err)
	}

	var report types.AnalysisReport
	if err := json.Unmarshal(record.Report, &report); err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeDB)
		return nil, fmt.Errorf("反序列化分析报告失败: %w", err)
	}
	return &report, nil
}
