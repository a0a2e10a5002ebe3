// Package nexra talks to the task-based chat endpoint of nexra.aryahcr.cc:
// a conversation is submitted as a task, then the task is polled until it
// completes, fails or the call runs out of time.
package nexra

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kitbuilder587/nexra-gpt/internal/llm"
	"github.com/kitbuilder587/nexra-gpt/internal/metrics"
)

const (
	DefaultBaseURL      = "https://nexra.aryahcr.cc/api/chat"
	DefaultHTTPTimeout  = 30 * time.Second
	DefaultPollInterval = time.Second
	DefaultTimeout      = 60 * time.Second
)

type Config struct {
	BaseURL string
	APIKey  string // передается как есть, сервис его не требует
	Model   string
	// Timeout bounds a single HTTP request.
	Timeout time.Duration
	// PollInterval and PollTimeout are per-call defaults, see llm.WithPollInterval and llm.WithTimeout.
	PollInterval time.Duration
	PollTimeout  time.Duration
	Markdown     bool
}

// Client holds configuration only; every call keeps its task on its own stack,
// so one Client may be shared between goroutines.
type Client struct {
	baseURL  string
	apiKey   string
	markdown bool
	defaults llm.GenerateOptions
	client   *http.Client
	logger   *zap.Logger
	metrics  *metrics.Metrics
}

func New(cfg Config, logger *zap.Logger, m *metrics.Metrics) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = llm.DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultHTTPTimeout
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = DefaultTimeout
	}

	return &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:   cfg.APIKey,
		markdown: cfg.Markdown,
		defaults: llm.GenerateOptions{
			Model:        cfg.Model,
			PollInterval: cfg.PollInterval,
			Timeout:      cfg.PollTimeout,
		},
		client:  &http.Client{Timeout: cfg.Timeout},
		logger:  logger,
		metrics: m,
	}
}

// GenerateResponse submits messages as one task and blocks until the task
// completes, fails, or the call timeout elapses. Invalid messages and unknown
// models are rejected before any request is made.
func (c *Client) GenerateResponse(ctx context.Context, messages []llm.Message, opts ...llm.Option) (string, error) {
	o := llm.ApplyOptions(c.defaults, opts...)

	if err := llm.ValidateMessages(messages); err != nil {
		return "", err
	}
	modelID, err := llm.ResolveModel(o.Model)
	if err != nil {
		return "", err
	}

	reqID := uuid.NewString()
	log := c.logger.With(
		zap.String("request_id", reqID),
		zap.String("model", o.Model),
	)

	start := time.Now()
	if c.metrics != nil {
		c.metrics.IncGenerationsInFlight()
		defer c.metrics.DecGenerationsInFlight()
	}

	text, err := c.generate(ctx, log, reqID, messages, modelID, o, start.Add(o.Timeout))

	if c.metrics != nil {
		c.metrics.RecordGeneration(o.Model, outcomeLabel(err), time.Since(start))
	}
	if err != nil {
		log.Warn("generation failed",
			zap.Error(err),
			zap.Duration("elapsed", time.Since(start)),
		)
		return "", err
	}

	log.Info("generation completed",
		zap.Int("messages", len(messages)),
		zap.Int("response_len", len(text)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return text, nil
}

func (c *Client) generate(ctx context.Context, log *zap.Logger, reqID string, messages []llm.Message, modelID string, o llm.GenerateOptions, deadline time.Time) (string, error) {
	// отправка задачи тоже укладывается в общий таймаут вызова
	submitCtx, cancel := context.WithDeadline(ctx, deadline)
	task, err := c.submit(submitCtx, log, reqID, messages, modelID)
	if err != nil && ctx.Err() == nil && errors.Is(submitCtx.Err(), context.DeadlineExceeded) {
		err = &llm.Error{
			Kind:    llm.KindTimeout,
			Message: "task submission did not complete in time",
			Err:     submitCtx.Err(),
		}
	}
	cancel()
	if c.metrics != nil {
		c.metrics.RecordSubmission(outcomeLabel(err))
	}
	if err != nil {
		return "", err
	}

	log = log.With(zap.String("task_id", task.ID))
	log.Debug("task submitted", zap.String("status", string(task.Status)))

	// бывает, что результат приходит прямо в ответе на создание задачи
	if task.Status.Terminal() {
		_, text, err := task.outcome(task.ID)
		return text, err
	}

	return c.poll(ctx, log, reqID, task.ID, o.PollInterval, deadline)
}

func (c *Client) submit(ctx context.Context, log *zap.Logger, reqID string, messages []llm.Message, modelID string) (*taskResponse, error) {
	body, err := json.Marshal(submitRequest{
		Messages: messages,
		Model:    modelID,
		Markdown: c.markdown,
	})
	if err != nil {
		return nil, llm.Wrap(fmt.Errorf("marshal request: %w", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/gpt", bytes.NewReader(body))
	if err != nil {
		return nil, llm.Wrap(fmt.Errorf("create request: %w", err))
	}
	c.setHeaders(httpReq, reqID)
	httpReq.Header.Set("Content-Type", "application/json")

	respBody, statusCode, err := llm.DoRequest(c.client, httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, llm.Wrap(ctx.Err())
		}
		return nil, err
	}

	if !llm.IsSuccess(statusCode) {
		return nil, llm.HandleHTTPError(statusCode, respBody, log, "nexra")
	}

	var task taskResponse
	if err := llm.DecodeJSON(respBody, &task); err != nil {
		return nil, err
	}
	if task.ID == "" && task.Status.normalize() != StatusCompleted {
		return nil, llm.NewMalformedResponseError("submission response has no task id", nil)
	}

	return &task, nil
}

// poll checks the deadline before every status request. A failed status
// request is not fatal: only the task itself or the deadline ends the loop.
func (c *Client) poll(ctx context.Context, log *zap.Logger, reqID, taskID string, interval time.Duration, deadline time.Time) (string, error) {
	pollCtx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()

	var lastErr error
	for attempt := 1; ; attempt++ {
		if !time.Now().Before(deadline) {
			c.recordPoll("timeout")
			return "", llm.NewTimeoutError(taskID, lastErr)
		}

		task, err := c.checkTask(pollCtx, reqID, taskID)
		if err != nil {
			if ctx.Err() != nil {
				return "", llm.Wrap(ctx.Err())
			}
			if e, ok := llm.AsError(err); ok && e.Kind == llm.KindUnknown {
				return "", err
			}
			lastErr = err
			c.recordPoll("transient_error")
			log.Warn("task poll failed, will retry",
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
		} else {
			done, text, err := task.outcome(taskID)
			if done {
				if err != nil {
					c.recordPoll("failed")
				} else {
					c.recordPoll("completed")
				}
				return text, err
			}
			c.recordPoll("pending")
			log.Debug("task not ready",
				zap.Int("attempt", attempt),
				zap.String("status", string(task.Status)),
			)
		}

		wait := interval
		if remaining := time.Until(deadline); remaining < wait {
			wait = remaining
		}
		if wait < 0 {
			wait = 0
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", llm.Wrap(ctx.Err())
		case <-timer.C:
		}
	}
}

func (c *Client) checkTask(ctx context.Context, reqID, taskID string) (*taskResponse, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/task/"+url.PathEscape(taskID), nil)
	if err != nil {
		return nil, llm.Wrap(fmt.Errorf("create request: %w", err))
	}
	c.setHeaders(httpReq, reqID)

	respBody, statusCode, err := llm.DoRequest(c.client, httpReq)
	if err != nil {
		return nil, err
	}
	if !llm.IsSuccess(statusCode) {
		return nil, llm.StatusErrorFromBody(statusCode, respBody)
	}

	var task taskResponse
	if err := llm.DecodeJSON(respBody, &task); err != nil {
		return nil, err
	}
	if task.Status == "" {
		return nil, llm.NewMalformedResponseError("task status missing", nil)
	}
	return &task, nil
}

func (c *Client) setHeaders(req *http.Request, reqID string) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}

func (c *Client) recordPoll(outcome string) {
	if c.metrics != nil {
		c.metrics.RecordPoll(outcome)
	}
}

func outcomeLabel(err error) string {
	if err == nil {
		return "ok"
	}
	if e, ok := llm.AsError(err); ok {
		return e.Kind.String()
	}
	return "error"
}

var _ llm.Client = (*Client)(nil)
