package service

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kitbuilder587/nexra-gpt/internal/cache"
	"github.com/kitbuilder587/nexra-gpt/internal/domain"
	"github.com/kitbuilder587/nexra-gpt/internal/llm"
	"github.com/kitbuilder587/nexra-gpt/internal/metrics"
)

const DefaultSystemPrompt = "You are a helpful assistant."

type ChatService interface {
	Ask(ctx context.Context, req *domain.ChatRequest) (*domain.ChatResponse, error)
}

type ChatConfig struct {
	SystemPrompt string
	DefaultModel string
	CacheTTL     time.Duration // 0 - без кеша
}

type ChatServiceDeps struct {
	LLM     llm.Client
	Cache   cache.Cache // может быть nil
	Logger  *zap.Logger
	Metrics *metrics.Metrics
	Config  ChatConfig
}

type chatService struct {
	llm     llm.Client
	cache   cache.Cache
	logger  *zap.Logger
	metrics *metrics.Metrics
	config  ChatConfig
}

func NewChatService(deps ChatServiceDeps) ChatService {
	if deps.Config.SystemPrompt == "" {
		deps.Config.SystemPrompt = DefaultSystemPrompt
	}
	if deps.Config.DefaultModel == "" {
		deps.Config.DefaultModel = llm.DefaultModel
	}

	return &chatService{
		llm:     deps.LLM,
		cache:   deps.Cache,
		logger:  deps.Logger,
		metrics: deps.Metrics,
		config:  deps.Config,
	}
}

// Ask sends one stateless exchange: the configured system prompt plus the
// user's text. Nothing about the conversation is kept between calls.
func (s *chatService) Ask(ctx context.Context, req *domain.ChatRequest) (*domain.ChatResponse, error) {
	startTime := time.Now()

	if s.metrics != nil {
		s.metrics.IncRequestsInFlight()
		defer s.metrics.DecRequestsInFlight()
	}

	// запрос вызывающего не трогаем
	r := *req
	req = &r

	if err := req.Validate(); err != nil {
		s.record("validation_error", startTime)
		return nil, err
	}
	req.Sanitize()

	model := req.Model
	if model == "" {
		model = s.config.DefaultModel
	}
	if !llm.ValidModel(model) {
		s.record("model_not_found", startTime)
		_, err := llm.ResolveModel(model)
		return nil, err
	}

	key := s.cacheKey(model, req.Text)
	if s.cacheEnabled() {
		if cached, ok := s.cache.Get(key); ok {
			if text, ok := cached.(string); ok {
				if s.metrics != nil {
					s.metrics.RecordCacheHit()
				}
				s.record("cached", startTime)
				s.logger.Debug("answer served from cache",
					zap.Int64("user_id", req.UserID),
					zap.String("model", model),
				)
				return &domain.ChatResponse{Text: text, Model: model, Cached: true, Duration: time.Since(startTime)}, nil
			}
		}
		if s.metrics != nil {
			s.metrics.RecordCacheMiss()
		}
	}

	messages, err := s.buildMessages(req.Text)
	if err != nil {
		s.record("validation_error", startTime)
		return nil, err
	}

	s.logger.Info("processing chat request",
		zap.Int64("user_id", req.UserID),
		zap.String("model", model),
		zap.Int("query_length", len(req.Text)),
	)

	text, err := s.llm.GenerateResponse(ctx, messages, llm.WithModel(model))
	if err != nil {
		s.record(errorStatus(err), startTime)
		return nil, fmt.Errorf("%w: %w", domain.ErrLLMFailed, err)
	}

	if s.cacheEnabled() {
		s.cache.Set(key, text, s.config.CacheTTL)
	}
	s.record("success", startTime)

	return &domain.ChatResponse{
		Text:     text,
		Model:    model,
		Duration: time.Since(startTime),
	}, nil
}

func (s *chatService) buildMessages(text string) ([]llm.Message, error) {
	system, err := llm.SystemMessage(s.config.SystemPrompt)
	if err != nil {
		return nil, err
	}
	user, err := llm.UserMessage(text)
	if err != nil {
		return nil, err
	}
	return []llm.Message{system, user}, nil
}

func (s *chatService) cacheEnabled() bool {
	return s.cache != nil && s.config.CacheTTL > 0
}

func (s *chatService) cacheKey(model, text string) string {
	data := model + "\x00" + s.config.SystemPrompt + "\x00" + strings.ToLower(strings.Join(strings.Fields(text), " "))
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("chat:%x", hash[:8])
}

func (s *chatService) record(status string, start time.Time) {
	if s.metrics != nil {
		s.metrics.RecordRequest("chat", status, time.Since(start))
	}
}

func errorStatus(err error) string {
	if e, ok := llm.AsError(err); ok {
		return e.Kind.String()
	}
	if errors.Is(err, context.Canceled) {
		return "canceled"
	}
	return "error"
}
