package telegram

import (
	"fmt"
	"html"
	"strings"

	"github.com/kitbuilder587/nexra-gpt/internal/domain"
)

// FormatAnswer escapes the model output for HTML parse mode. The model name is
// shown only when it differs from the default one.
func FormatAnswer(resp *domain.ChatResponse, defaultModel string) string {
	var sb strings.Builder
	sb.WriteString(html.EscapeString(resp.Text))

	if resp.Model != "" && resp.Model != defaultModel {
		sb.WriteString("\n\n<i>Модель: ")
		sb.WriteString(html.EscapeString(resp.Model))
		sb.WriteString("</i>")
	}

	return sb.String()
}

func FormatModelsList(models []string, defaultModel string) string {
	var sb strings.Builder
	sb.WriteString("<b>Доступные модели:</b>\n\n")

	for i, m := range models {
		marker := "○"
		if m == defaultModel {
			marker = "●"
		}
		sb.WriteString(fmt.Sprintf("%d. %s <code>%s</code>\n", i+1, marker, html.EscapeString(m)))
	}

	sb.WriteString(fmt.Sprintf("\nПо умолчанию: %s", html.EscapeString(defaultModel)))
	return sb.String()
}

func SplitMessage(text string, maxLen int) []string {
	if len(text) <= maxLen {
		return []string{text}
	}

	var messages []string
	for len(text) > 0 {
		if len(text) <= maxLen {
			messages = append(messages, text)
			break
		}

		splitPoint := findSafeSplitPoint(text, maxLen)
		if splitPoint <= 0 || splitPoint > len(text) {
			splitPoint = maxLen
		}

		messages = append(messages, text[:splitPoint])
		text = text[splitPoint:]
	}

	return messages
}

func findSafeSplitPoint(text string, maxLen int) int {
	// ищем пробел или перевод строки, не ломая HTML-теги
	for i := maxLen - 1; i > maxLen/2; i-- {
		if i >= len(text) {
			continue
		}
		if isInsideHTMLTag(text, i) {
			continue
		}

		if text[i] == '\n' || text[i] == ' ' {
			return i + 1
		}
	}

	// внутри тега - ищем конец
	if maxLen < len(text) && isInsideHTMLTag(text, maxLen) {
		for i := maxLen; i < len(text); i++ {
			if text[i] == '>' {
				for j := i + 1; j < len(text) && j < i+50; j++ {
					if text[j] == '\n' || text[j] == ' ' {
						return j + 1
					}
				}
				return i + 1
			}
		}
	}

	for i := maxLen - 1; i > 0; i-- {
		if text[i] == ' ' || text[i] == '\n' {
			return i + 1
		}
	}

	return maxLen
}

func isInsideHTMLTag(text string, pos int) bool {
	if pos >= len(text) || pos < 0 {
		return false
	}
	for i := pos; i >= 0; i-- {
		if text[i] == '>' {
			return false
		}
		if text[i] == '<' {
			return true
		}
	}
	return false
}
