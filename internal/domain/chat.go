package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// MaxQueryLength is counted in runes.
const MaxQueryLength = 4000

type ChatRequest struct {
	UserID int64
	Text   string
	Model  string // пусто = модель по умолчанию
}

func (q *ChatRequest) Validate() error {
	text := strings.TrimSpace(q.Text)
	if text == "" {
		return ErrEmptyQuery
	}

	if utf8.RuneCountInString(text) > MaxQueryLength {
		return ErrQueryTooLong
	}

	return nil
}

func (q *ChatRequest) Sanitize() {
	q.Text = strings.TrimSpace(q.Text)
	q.Model = strings.TrimSpace(q.Model)
	if utf8.RuneCountInString(q.Text) > MaxQueryLength {
		q.Text = string([]rune(q.Text)[:MaxQueryLength])
	}
}

type ChatResponse struct {
	Text     string
	Model    string
	Cached   bool
	Duration time.Duration
}
