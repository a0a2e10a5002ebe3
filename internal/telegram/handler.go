package telegram

import (
	"context"
	"errors"
	"fmt"
	"html"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/kitbuilder587/nexra-gpt/internal/domain"
	"github.com/kitbuilder587/nexra-gpt/internal/llm"
)

// лимит телеграма на одно сообщение
const maxMessageLength = 4096

type Handler struct {
	bot *Bot
}

func NewHandler(bot *Bot) *Handler {
	return &Handler{bot: bot}
}

func (h *Handler) HandleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg == nil || msg.From == nil || msg.Chat == nil {
		return
	}

	h.bot.logger.Info("received message",
		zap.Int64("user_id", msg.From.ID),
		zap.String("username", msg.From.UserName),
		zap.Bool("is_command", msg.IsCommand()),
	)

	if msg.IsCommand() {
		h.handleCommand(ctx, msg)
	} else {
		h.handleQuery(ctx, msg)
	}
}

func (h *Handler) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		h.bot.Send(msg.Chat.ID, "Привет! Отправьте вопрос, и я передам его модели.\n\nИспользуйте /help для справки.")
	case "help":
		h.handleHelp(msg)
	case "models":
		h.bot.Send(msg.Chat.ID, FormatModelsList(llm.Models(), h.defaultModel()))
	case "model":
		h.handleQuery(ctx, msg)
	default:
		h.bot.Send(msg.Chat.ID, "Неизвестная команда. Используйте /help для справки.")
	}
}

func (h *Handler) handleHelp(msg *tgbotapi.Message) {
	helpText := fmt.Sprintf(`<b>Доступные команды:</b>

/start - Начать
/help - Показать эту справку
/models - Список доступных моделей
/model Название вопрос - Спросить конкретную модель

<b>Как использовать:</b>
Просто отправьте вопрос, ответит модель %s.
Бот не помнит предыдущие сообщения: каждый вопрос обрабатывается отдельно.

<b>Пример:</b>
/model GPT-3.5-Turbo что такое goroutine?`, html.EscapeString(h.defaultModel()))

	h.bot.Send(msg.Chat.ID, helpText)
}

func (h *Handler) handleQuery(ctx context.Context, msg *tgbotapi.Message) {
	question, model := ParseChatCommand(msg.Text)

	if msg.IsCommand() && model == "" {
		h.bot.Send(msg.Chat.ID, "Использование: /model Название вопрос\nСписок моделей: /models")
		return
	}

	h.bot.SendTyping(msg.Chat.ID)

	req := &domain.ChatRequest{
		UserID: msg.From.ID,
		Text:   question,
		Model:  model,
	}

	response, err := h.bot.chatService.Ask(ctx, req)
	if err != nil {
		h.bot.logger.Error("chat request failed",
			zap.Error(err),
			zap.Int64("user_id", msg.From.ID),
			zap.String("model", model),
		)
		h.bot.Send(msg.Chat.ID, mapErrorToMessage(err))
		return
	}

	formatted := FormatAnswer(response, h.defaultModel())
	for _, m := range SplitMessage(formatted, maxMessageLength) {
		if err := h.bot.Send(msg.Chat.ID, m); err != nil {
			h.bot.logger.Error("failed to send message", zap.Error(err))
		}
	}
}

func (h *Handler) defaultModel() string {
	if h.bot.defaultModel != "" {
		return h.bot.defaultModel
	}
	return llm.DefaultModel
}

func mapErrorToMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrEmptyQuery):
		return "Пустой запрос. Введите ваш вопрос."
	case errors.Is(err, domain.ErrQueryTooLong):
		return fmt.Sprintf("Запрос слишком длинный. Максимум %d символов.", domain.MaxQueryLength)
	case errors.Is(err, llm.ErrModelNotFound):
		return "Неизвестная модель. Список доступных: /models"
	case errors.Is(err, llm.ErrValidation):
		return "Некорректный запрос."
	case errors.Is(err, llm.ErrTimeout):
		return "Модель не успела ответить. Попробуйте позже."
	case errors.Is(err, llm.ErrJobFailed):
		if e, ok := llm.AsError(err); ok && e.Reason != "" {
			return "Не удалось сформировать ответ: " + html.EscapeString(e.Reason)
		}
		return "Не удалось сформировать ответ. Попробуйте позже."
	case errors.Is(err, llm.ErrAPI):
		return "Сервис генерации недоступен. Попробуйте позже."
	case errors.Is(err, domain.ErrLLMFailed):
		return "Не удалось сформировать ответ. Попробуйте позже."
	default:
		return "Произошла ошибка. Попробуйте позже."
	}
}
