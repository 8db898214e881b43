package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"resume-ats-go/internal/config"
	"resume-ats-go/internal/tracing"
)

var redisTracer = otel.Tracer("resume-ats-go/storage/redis")

// jdKeywordsKeyPrefix JD关键词缓存键前缀，键尾是JD文本的SHA-256
const jdKeywordsKeyPrefix = "jd:keywords:"

// ErrCacheMiss 缓存未命中
var ErrCacheMiss = redis.Nil

// Redis JD关键词集的跨请求缓存
// 同一份岗位描述的关键词权重只计算一次，缓存故障绝不影响分析流程，
// 调用方把任何错误都当作未命中处理。
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// RedisOption Redis 的可选配置
type RedisOption func(*Redis)

// WithRedisLogger 设置日志记录器
func WithRedisLogger(l zerolog.Logger) RedisOption {
	return func(r *Redis) { r.logger = l }
}

// NewRedis 创建Redis客户端并验证连通性
func NewRedis(ctx context.Context, cfg *config.RedisConfig, options ...RedisOption) (*Redis, error) {
	if cfg == nil {
		return nil, fmt.Errorf("Redis配置不能为空")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	r := &Redis{
		client: client,
		ttl:    cfg.JDCacheTTL(),
		logger: zerolog.Nop(),
	}
	for _, opt := range options {
		opt(r)
	}

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("连接Redis失败: %w", err)
	}
	return r, nil
}

// Close 关闭Redis连接
func (r *Redis) Close() error {
	return r.client.Close()
}

// Ping 验证连通性
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// JDKeywordsKey 岗位描述文本对应的缓存键
func JDKeywordsKey(jdText string) string {
	sum := sha256.Sum256([]byte(jdText))
	return jdKeywordsKeyPrefix + hex.EncodeToString(sum[:])
}

// GetJDKeywords 取回缓存的JD关键词权重集，未命中返回 ErrCacheMiss
func (r *Redis) GetJDKeywords(ctx context.Context, jdText string) (map[string]float64, error) {
	key := JDKeywordsKey(jdText)
	ctx, span := redisTracer.Start(ctx, "GET jd_keywords",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("cache.key", tracing.SafeRedisKey(key))))
	defer span.End()

	raw, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			tracing.RecordError(span, err, tracing.ErrorTypeRedis)
		}
		return nil, err
	}

	var keywords map[string]float64
	if err := json.Unmarshal(raw, &keywords); err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeRedis)
		return nil, fmt.Errorf("反序列化JD关键词缓存失败: %w", err)
	}
	span.SetAttributes(attribute.Int("cache.keywords", len(keywords)))
	return keywords, nil
}

// SetJDKeywords 缓存JD关键词权重集，按配置的TTL过期
func (r *Redis) SetJDKeywords(ctx context.Context, jdText string, keywords map[string]float64) error {
	key := JDKeywordsKey(jdText)
	ctx, span := redisTracer.Start(ctx, "SET jd_keywords",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("cache.key", tracing.SafeRedisKey(key))))
	defer span.End()

	raw, err := json.Marshal(keywords)
	if err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeRedis)
		return fmt.Errorf("序列化JD关键词失败: %w", err)
	}

	if err := r.client.Set(ctx, key, raw, r.ttl).Err(); err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeRedis)
		return fmt.Errorf("写入JD关键词缓存失败: %w", err)
	}
	return nil
}
