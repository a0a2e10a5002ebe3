package llm

import (
	"encoding/json"
	"strings"
)

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }

// Message - одна реплика диалога. Поля неэкспортируемые, после создания не меняется.
type Message struct {
	role    Role
	content string
}

// NewMessage returns a validated message or a KindValidation *Error.
func NewMessage(role Role, content string) (Message, error) {
	m := Message{role: role, content: content}
	if err := m.Validate(); err != nil {
		return Message{}, err
	}
	return m, nil
}

// MustNewMessage is NewMessage for literals; it panics on invalid input.
func MustNewMessage(role Role, content string) Message {
	m, err := NewMessage(role, content)
	if err != nil {
		panic(err)
	}
	return m
}

func SystemMessage(content string) (Message, error) { return NewMessage(RoleSystem, content) }

func UserMessage(content string) (Message, error) { return NewMessage(RoleUser, content) }

func AssistantMessage(content string) (Message, error) { return NewMessage(RoleAssistant, content) }

func (m Message) Role() Role      { return m.role }
func (m Message) Content() string { return m.content }

func (m Message) Validate() error {
	if !m.role.IsValid() {
		return NewValidationError("invalid role %q: expected one of system, user, assistant", string(m.role))
	}
	if strings.TrimSpace(m.content) == "" {
		return NewValidationError("message content must not be empty")
	}
	return nil
}

type wireMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

func (m Message) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireMessage{Role: m.role, Content: m.content})
}

// ValidateMessages checks a whole conversation before anything is sent.
func ValidateMessages(messages []Message) error {
	if len(messages) == 0 {
		return NewValidationError("messages must not be empty")
	}
	for i, m := range messages {
		if err := m.Validate(); err != nil {
			e, _ := AsError(err)
			return NewValidationError("message %d: %s", i, e.Message)
		}
	}
	return nil
}
