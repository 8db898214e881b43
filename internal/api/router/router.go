package router

import (
	"context"
	"errors"
	"io"
	"path/filepath"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"resume-ats-go/internal/api/handler"
	"resume-ats-go/internal/extractor"
	"resume-ats-go/internal/storage"
)

// RegisterRoutes 注册 API 路由
func RegisterRoutes(h *server.Hertz, analysisHandler *handler.AnalysisHandler, maxUploadBytes int64) {
	api := h.Group("/api/v1")

	api.POST("/resume/analyze", func(c context.Context, ctx *app.RequestContext) {
		// 获取上传的简历文件
		fileHeader, err := ctx.FormFile("file")
		if err != nil {
			ctx.JSON(consts.StatusBadRequest, utils.H{"error": "文件未找到"})
			return
		}
		if fileHeader.Size > maxUploadBytes {
			ctx.JSON(consts.StatusRequestEntityTooLarge, utils.H{"error": "文件超过大小限制"})
			return
		}

		// 媒体类型优先取表单声明，缺省时按文件扩展名推断
		mediaTypeRaw := ctx.PostForm("media_type")
		if mediaTypeRaw == "" {
			mediaTypeRaw = filepath.Ext(fileHeader.Filename)
		}
		mediaType, err := handler.ParseMediaType(mediaTypeRaw)
		if err != nil {
			ctx.JSON(consts.StatusUnsupportedMediaType, utils.H{"error": err.Error()})
			return
		}

		jobDescription := ctx.PostForm("job_description")

		file, err := fileHeader.Open()
		if err != nil {
			ctx.JSON(consts.StatusInternalServerError, utils.H{"error": "打开文件失败"})
			return
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			ctx.JSON(consts.StatusInternalServerError, utils.H{"error": "读取文件失败"})
			return
		}

		report, err := analysisHandler.HandleAnalyze(c, data, mediaType, jobDescription)
		if err != nil {
			ctx.JSON(statusForAnalyzeError(err), utils.H{"error": err.Error()})
			return
		}

		ctx.JSON(consts.StatusOK, report)
	})

	// 按报告ID取回归档的分析结果
	api.GET("/analyses/:id", func(c context.Context, ctx *app.RequestContext) {
		reportID := ctx.Param("id")
		if reportID == "" {
			ctx.JSON(consts.StatusBadRequest, utils.H{"error": "缺少报告ID"})
			return
		}

		report, err := analysisHandler.HandleGetReport(c, reportID)
		if err != nil {
			if errors.Is(err, storage.ErrReportNotFound) {
				ctx.JSON(consts.StatusNotFound, utils.H{"error": "报告不存在"})
				return
			}
			ctx.JSON(consts.StatusInternalServerError, utils.H{"error": err.Error()})
			return
		}

		ctx.JSON(consts.StatusOK, report)
	})

	// 添加健康检查
	api.GET("/health", func(c context.Context, ctx *app.RequestContext) {
		ctx.JSON(consts.StatusOK, utils.H{
			"status":  "ok",
			"archive": analysisHandler.ArchiveEnabled(),
		})
	})
}

// statusForAnalyzeError 把流水线的硬失败哨兵映射到HTTP状态码
func statusForAnalyzeError(err error) int {
	switch {
	case errors.Is(err, extractor.ErrUnsupportedFormat):
		return consts.StatusUnsupportedMediaType
	case errors.Is(err, extractor.ErrExtractionFailure):
		return consts.StatusUnprocessableEntity
	default:
		return consts.StatusInternalServerError
	}
}
