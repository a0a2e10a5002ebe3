package mock

import (
	"context"
	"sync"
	"time"

	"github.com/kitbuilder587/nexra-gpt/internal/llm"
)

type Client struct {
	Response string
	Error    error
	Delay    time.Duration

	mu           sync.Mutex
	CallCount    int
	LastMessages []llm.Message
	LastOptions  llm.GenerateOptions
	AllCalls     []LLMCall
}

type LLMCall struct {
	Messages []llm.Message
	Options  llm.GenerateOptions
}

func New() *Client {
	return &Client{
		Response: "This is a mock response.",
	}
}

func (c *Client) WithResponse(response string) *Client {
	c.Response = response
	return c
}

func (c *Client) WithError(err error) *Client {
	c.Error = err
	return c
}

func (c *Client) WithDelay(delay time.Duration) *Client {
	c.Delay = delay
	return c
}

// GenerateResponse validates input the same way the real client does, so
// callers see ValidationError / ModelNotFoundError without a network stub.
func (c *Client) GenerateResponse(ctx context.Context, messages []llm.Message, opts ...llm.Option) (string, error) {
	o := llm.ApplyOptions(llm.GenerateOptions{Model: llm.DefaultModel}, opts...)

	c.mu.Lock()
	c.CallCount++
	c.LastMessages = messages
	c.LastOptions = o
	c.AllCalls = append(c.AllCalls, LLMCall{Messages: messages, Options: o})
	c.mu.Unlock()

	if err := llm.ValidateMessages(messages); err != nil {
		return "", err
	}
	if _, err := llm.ResolveModel(o.Model); err != nil {
		return "", err
	}

	if c.Delay > 0 {
		select {
		case <-ctx.Done():
			return "", llm.Wrap(ctx.Err())
		case <-time.After(c.Delay):
		}
	}

	if c.Error != nil {
		return "", c.Error
	}

	return c.Response, nil
}

func (c *Client) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.CallCount
}

func (c *Client) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.CallCount = 0
	c.LastMessages = nil
	c.LastOptions = llm.GenerateOptions{}
	c.AllCalls = nil
}

var _ llm.Client = (*Client)(nil)
