package nexra

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kitbuilder587/nexra-gpt/internal/llm"
)

type TaskStatus string

const (
	StatusPending   TaskStatus = "pending"
	StatusRunning   TaskStatus = "running"
	StatusCompleted TaskStatus = "completed"
	StatusError     TaskStatus = "error"
	StatusFailed    TaskStatus = "failed"
	StatusNotFound  TaskStatus = "not_found"
)

func (s TaskStatus) normalize() TaskStatus {
	return TaskStatus(strings.ToLower(strings.TrimSpace(string(s))))
}

func (s TaskStatus) Terminal() bool {
	switch s.normalize() {
	case StatusCompleted, StatusError, StatusFailed, StatusNotFound:
		return true
	}
	return false
}

type submitRequest struct {
	Messages []llm.Message `json:"messages"`
	Model    string        `json:"model"`
	Markdown bool          `json:"markdown"`
}

// taskResponse is shared by the submission and status endpoints. Only status
// is decoded strictly; payload fields are checked once the status is known.
type taskResponse struct {
	ID      string          `json:"id"`
	Status  TaskStatus      `json:"status"`
	GPT     json.RawMessage `json:"gpt"`
	Message json.RawMessage `json:"message"`
	Error   json.RawMessage `json:"error"`
}

func (t *taskResponse) reason() string {
	for _, raw := range []json.RawMessage{t.Message, t.Error} {
		if s := rawText(raw); s != "" {
			return s
		}
	}
	return fmt.Sprintf("task reported status %q", t.Status)
}

func (t *taskResponse) text() (string, error) {
	if isNull(t.GPT) {
		return "", llm.NewMalformedResponseError("completed task has no result text", nil)
	}
	var s string
	if err := json.Unmarshal(t.GPT, &s); err != nil {
		return "", llm.NewMalformedResponseError("completed task result is not a string", err)
	}
	if strings.TrimSpace(s) == "" {
		return "", llm.NewMalformedResponseError("completed task has no result text", nil)
	}
	return s, nil
}

// rawText returns a JSON string as is and any other non-null value as raw JSON.
func rawText(raw json.RawMessage) string {
	if isNull(raw) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

func isNull(raw json.RawMessage) bool {
	v := strings.TrimSpace(string(raw))
	return v == "" || v == "null"
}

// outcome reports whether the task reached a terminal state and, if so, its result.
func (t *taskResponse) outcome(taskID string) (done bool, text string, err error) {
	switch t.Status.normalize() {
	case StatusPending, StatusRunning:
		return false, "", nil
	case StatusCompleted:
		text, err := t.text()
		return true, text, err
	case StatusError, StatusFailed:
		return true, "", llm.NewJobFailedError(taskID, t.reason())
	case StatusNotFound:
		return true, "", llm.NewJobFailedError(taskID, "task not found")
	default:
		return true, "", llm.NewMalformedResponseError(fmt.Sprintf("unknown task status %q", t.Status), nil)
	}
}
