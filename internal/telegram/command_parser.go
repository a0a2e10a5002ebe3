package telegram

import (
	"strings"
)

// /model Name вопрос -> (вопрос, Name)
// обычный текст -> (текст, "") - модель по умолчанию
func ParseChatCommand(text string) (question string, model string) {
	text = strings.TrimSpace(text)

	if text == "" || !strings.HasPrefix(text, "/") {
		return text, ""
	}

	parts := strings.SplitN(text, " ", 2)
	command := strings.ToLower(parts[0])
	// /model@SomeBot
	if at := strings.Index(command, "@"); at >= 0 {
		command = command[:at]
	}

	if command != "/model" {
		return text, ""
	}
	if len(parts) < 2 {
		return "", ""
	}

	args := strings.SplitN(strings.TrimSpace(parts[1]), " ", 2)
	model = args[0]
	if len(args) > 1 {
		question = strings.TrimSpace(args[1])
	}
	return question, model
}
