package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloudwego/hertz/pkg/app/server"
	glog "github.com/cloudwego/hertz/pkg/common/hlog"
	hertzadapter "github.com/hertz-contrib/logger/zerolog"
	"github.com/spf13/pflag"

	"resume-ats-go/internal/ai"
	"resume-ats-go/internal/analyzer"
	"resume-ats-go/internal/api/handler"
	"resume-ats-go/internal/api/router"
	"resume-ats-go/internal/config"
	"resume-ats-go/internal/extractor"
	"resume-ats-go/internal/llm"
	"resume-ats-go/internal/logger"
	"resume-ats-go/internal/matcher"
	"resume-ats-go/internal/pipeline"
	"resume-ats-go/internal/segmenter"
	"resume-ats-go/internal/storage"
)

var (
	version     = "1.0.0"         //nolint:gochecknoglobals
	serviceName = "resume-ats-go" //nolint:gochecknoglobals
)

// @title Resume ATS API
// @version 1.0
// @description 简历解析与岗位匹配分析服务
// @BasePath /api/v1
func main() {
	var configPath string
	pflag.StringVarP(&configPath, "config", "c", "config.yaml", "配置文件路径")
	pflag.Parse()

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Init(logger.Config{Level: "info", Format: "json"})
		logger.Fatal().Err(err).Msg("加载配置失败")
	}

	initLogger(cfg)
	logger.Info().Str("config", configPath).Msg("配置加载成功")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p, err := buildPipeline(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("初始化分析流水线失败")
	}
	logger.Info().Msg("分析流水线初始化成功")

	var handlerOptions []handler.HandlerOption

	// MySQL与Redis都是可选能力：未配置时服务照常运行，
	// 只是分别失去报告归档与JD关键词缓存。
	if cfg.MySQL.Host != "" {
		db, err := storage.NewMySQL(&cfg.MySQL)
		if err != nil {
			logger.Fatal().Err(err).Msg("初始化MySQL失败")
		}
		defer db.Close()
		handlerOptions = append(handlerOptions, handler.WithDB(db))
		logger.Info().Str("database", cfg.MySQL.Database).Msg("报告归档已启用")
	} else {
		logger.Warn().Msg("未配置MySQL，报告归档不可用")
	}

	if cfg.Redis.Address != "" {
		cache, err := storage.NewRedis(ctx, &cfg.Redis, storage.WithRedisLogger(logger.Logger))
		if err != nil {
			logger.Fatal().Err(err).Msg("初始化Redis失败")
		}
		defer cache.Close()
		handlerOptions = append(handlerOptions, handler.WithCache(cache))
		logger.Info().Str("address", cfg.Redis.Address).Msg("JD关键词缓存已启用")
	} else {
		logger.Warn().Msg("未配置Redis，JD关键词缓存不可用")
	}

	analysisHandler := handler.NewAnalysisHandler(cfg, p, handlerOptions...)

	h := server.New(
		server.WithHostPorts(cfg.Server.Address),
		server.WithHandleMethodNotAllowed(true),
	)

	maxUploadBytes := int64(cfg.Server.MaxUploadMB) << 20
	router.RegisterRoutes(h, analysisHandler, maxUploadBytes)
	logger.Info().Msg("HTTP路由注册成功")

	go func() {
		logger.Info().Str("address", cfg.Server.Address).Msg("HTTP服务器启动中")
		if err := h.Run(); err != nil {
			logger.Fatal().Err(err).Msg("启动HTTP服务器失败")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("接收到终止信号，正在优雅退出...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := h.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("服务器关闭失败")
	}
	logger.Info().Msg("优雅退出完成")
}

// initLogger 初始化全局日志，并把Hertz的日志桥接到zerolog
func initLogger(cfg *config.Config) {
	logger.Init(logger.Config{
		Level:        cfg.Logger.Level,
		Format:       cfg.Logger.Format,
		TimeFormat:   cfg.Logger.TimeFormat,
		ReportCaller: cfg.Logger.ReportCaller,
	})
	logger.Logger = logger.Logger.With().
		Str("app", serviceName).
		Str("version", version).
		Logger()

	glog.SetLogger(hertzadapter.From(logger.Logger))
}

// buildPipeline 按配置组装分析流水线
// 词表文件与LLM密钥都是可选的：缺词表用内置词表，缺密钥则AI建议降级。
func buildPipeline(ctx context.Context, cfg *config.Config) (*pipeline.Pipeline, error) {
	ext, err := extractor.NewTextExtractor(ctx)
	if err != nil {
		return nil, err
	}

	var options []pipeline.Option
	options = append(options, pipeline.WithLogger(logger.Logger))

	if cfg.Analyzer.HeadingVocabFile != "" {
		vocab, err := segmenter.LoadVocab(cfg.Analyzer.HeadingVocabFile)
		if err != nil {
			return nil, err
		}
		options = append(options, pipeline.WithSegmenter(segmenter.New(vocab)))
		logger.Info().Str("file", cfg.Analyzer.HeadingVocabFile).Msg("已加载章节标题词表")
	}

	var skills *analyzer.SkillsAnalyzer
	if cfg.Analyzer.SkillVocabFile != "" {
		dict, err := analyzer.LoadSkillsDictionary(cfg.Analyzer.SkillVocabFile)
		if err != nil {
			return nil, err
		}
		skills = analyzer.NewSkillsAnalyzer(dict)
		options = append(options, pipeline.WithSkillsAnalyzer(skills))
		logger.Info().Str("file", cfg.Analyzer.SkillVocabFile).Msg("已加载技能词典")
	}

	m := matcher.New(cfg.Analyzer.Weights, skills, matcher.WithLogger(logger.Logger))
	options = append(options, pipeline.WithMatcher(m))
	logger.Info().Str("matcher", m.Describe()).Msg("匹配打分器初始化成功")

	if cfg.LLM.APIKey != "" {
		chatModel, err := llm.NewOpenAIChatModel(cfg.LLM,
			llm.WithLogger(logger.Logger),
			llm.WithMaxTokens(cfg.Analyzer.AIMaxTokens),
		)
		if err != nil {
			return nil, err
		}
		feedback := ai.NewFeedbackGenerator(chatModel, cfg.Analyzer, ai.WithLogger(logger.Logger))
		options = append(options, pipeline.WithFeedbackGenerator(feedback))
		logger.Info().Str("model", cfg.LLM.Model).Msg("AI建议生成已启用")
	} else {
		logger.Warn().Msg("未配置LLM API密钥，AI建议将降级为空")
	}

	return pipeline.New(cfg.Analyzer, ext, options...), nil
}
