package config

import (
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ServerConfig HTTP服务配置
type ServerConfig struct {
	Address string `yaml:"address"` // 监听地址，例如 ":8080"
	// MaxUploadMB 上传文档的大小上限(MB)
	MaxUploadMB int `yaml:"max_upload_mb"`
}

// LLMConfig 外部文本生成能力的配置（OpenAI兼容接口）
type LLMConfig struct {
	APIKey string `yaml:"api_key"`
	APIURL string `yaml:"api_url"`
	Model  string `yaml:"model"`
}

// MatchWeights 匹配子分的权重，三者之和必须为 1.0
type MatchWeights struct {
	Skills     float64 `yaml:"skills"`
	Keywords   float64 `yaml:"keywords"`
	Experience float64 `yaml:"experience"`
}

// AnalyzerConfig 流水线各阶段的可调参数
type AnalyzerConfig struct {
	// Weights 匹配权重，默认 0.4/0.3/0.3
	Weights MatchWeights `yaml:"weights"`
	// PromptMaxChars 提示词长度上限（字符数）
	PromptMaxChars int `yaml:"prompt_max_chars"`
	// AIMaxTokens 生成回复的token上限
	AIMaxTokens int `yaml:"ai_max_tokens"`
	// AITimeoutSeconds 单次生成调用的超时(秒)
	AITimeoutSeconds int `yaml:"ai_timeout_seconds"`
	// AIRetryBackoffMS 瞬时失败重试前的等待(毫秒)
	AIRetryBackoffMS int `yaml:"ai_retry_backoff_ms"`
	// KeywordLimit 关键词提取的数量上限
	KeywordLimit int `yaml:"keyword_limit"`
	// HeadingVocabFile 章节标题同义词表文件路径，为空时使用内置词表
	HeadingVocabFile string `yaml:"heading_vocab_file"`
	// SkillVocabFile 技能词典文件路径，为空时使用内置词典
	SkillVocabFile string `yaml:"skill_vocab_file"`
}

// AITimeout 超时时间
func (a AnalyzerConfig) AITimeout() time.Duration {
	return time.Duration(a.AITimeoutSeconds) * time.Second
}

// AIRetryBackoff 重试等待时间
func (a AnalyzerConfig) AIRetryBackoff() time.Duration {
	return time.Duration(a.AIRetryBackoffMS) * time.Millisecond
}

// MySQLConfig MySQL配置，用于归档分析报告
type MySQLConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	// LogLevel GORM日志级别: silent, error, warn, info
	LogLevel string `yaml:"log_level"`
}

// DSN 构建MySQL连接串
func (m MySQLConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		m.Username, m.Password, m.Host, m.Port, m.Database)
}

// RedisConfig Redis配置，用于跨请求缓存JD关键词集
type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	// JDCacheTTLHours JD关键词缓存的过期时间(小时)
	JDCacheTTLHours int `yaml:"jd_cache_ttl_hours"`
}

// JDCacheTTL 缓存过期时间
func (r RedisConfig) JDCacheTTL() time.Duration {
	return time.Duration(r.JDCacheTTLHours) * time.Hour
}

// LoggerConfig 日志配置
type LoggerConfig struct {
	Level        string `yaml:"level"`
	Format       string `yaml:"format"`
	TimeFormat   string `yaml:"time_format"`
	ReportCaller bool   `yaml:"report_caller"`
}

// Config 应用程序配置
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	LLM      LLMConfig      `yaml:"llm"`
	Analyzer AnalyzerConfig `yaml:"analyzer"`
	MySQL    MySQLConfig    `yaml:"mysql"`
	Redis    RedisConfig    `yaml:"redis"`
	Logger   LoggerConfig   `yaml:"logger"`
}

// LoadConfig 从YAML文件加载配置，填充默认值并做校验
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件 %s 失败: %w", path, err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件 %s 失败: %w", path, err)
	}

	cfg.applyDefaults()

	// API密钥允许通过环境变量注入，避免写入配置文件
	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = os.Getenv("LLM_API_KEY")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Address == "" {
		c.Server.Address = ":8080"
	}
	if c.Server.MaxUploadMB <= 0 {
		c.Server.MaxUploadMB = 10
	}
	if c.Logger.Level == "" {
		c.Logger.Level = "info"
	}
	if c.Logger.Format == "" {
		c.Logger.Format = "json"
	}

	a := &c.Analyzer
	zero := MatchWeights{}
	if a.Weights == zero {
		a.Weights = MatchWeights{Skills: 0.4, Keywords: 0.3, Experience: 0.3}
	}
	if a.PromptMaxChars <= 0 {
		a.PromptMaxChars = 6000
	}
	if a.AIMaxTokens <= 0 {
		a.AIMaxTokens = 800
	}
	if a.AITimeoutSeconds <= 0 {
		a.AITimeoutSeconds = 30
	}
	if a.AIRetryBackoffMS <= 0 {
		a.AIRetryBackoffMS = 500
	}
	if a.KeywordLimit <= 0 {
		a.KeywordLimit = 30
	}

	if c.Redis.JDCacheTTLHours <= 0 {
		c.Redis.JDCacheTTLHours = 24
	}
	if c.MySQL.LogLevel == "" {
		c.MySQL.LogLevel = "warn"
	}
}

// Validate 校验配置合法性
func (c *Config) Validate() error {
	w := c.Analyzer.Weights
	sum := w.Skills + w.Keywords + w.Experience
	if math.Abs(sum-1.0) > 1e-9 {
		return fmt.Errorf("匹配权重之和必须为 1.0，当前为 %.4f", sum)
	}
	if w.Skills < 0 || w.Keywords < 0 || w.Experience < 0 {
		return fmt.Errorf("匹配权重不能为负数")
	}
	return nil
}
