package llm

import (
	"context"
	"time"
)

type Client interface {
	GenerateResponse(ctx context.Context, messages []Message, opts ...Option) (string, error)
}

// GenerateOptions - параметры одного вызова. Нулевые значения означают дефолты клиента.
type GenerateOptions struct {
	Model        string
	PollInterval time.Duration
	Timeout      time.Duration
}

type Option func(*GenerateOptions)

func WithModel(name string) Option {
	return func(o *GenerateOptions) { o.Model = name }
}

func WithPollInterval(d time.Duration) Option {
	return func(o *GenerateOptions) { o.PollInterval = d }
}

func WithTimeout(d time.Duration) Option {
	return func(o *GenerateOptions) { o.Timeout = d }
}

// ApplyOptions folds opts over defaults.
func ApplyOptions(defaults GenerateOptions, opts ...Option) GenerateOptions {
	o := defaults
	for _, opt := range opts {
		opt(&o)
	}
	if o.Model == "" {
		o.Model = defaults.Model
	}
	if o.PollInterval <= 0 {
		o.PollInterval = defaults.PollInterval
	}
	if o.Timeout <= 0 {
		o.Timeout = defaults.Timeout
	}
	return o
}
