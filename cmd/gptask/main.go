// Command gptask sends a single question to the chat service and prints the
// answer. Connection settings come from the same NEXRA_* variables as the bot.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/kitbuilder587/nexra-gpt/internal/config"
	"github.com/kitbuilder587/nexra-gpt/internal/llm"
	"github.com/kitbuilder587/nexra-gpt/internal/llm/nexra"
)

func main() {
	if err := run(); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	// .env не обязателен
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	model := flag.String("model", cfg.Nexra.Model, "model name, see -models")
	system := flag.String("system", cfg.SystemPrompt, "system prompt")
	timeout := flag.Duration("timeout", cfg.Nexra.Timeout, "overall time to wait for the answer")
	interval := flag.Duration("interval", cfg.Nexra.PollInterval, "delay between task status checks")
	listModels := flag.Bool("models", false, "print available models and exit")
	verbose := flag.Bool("v", false, "print model and elapsed time to stderr")
	flag.Parse()

	if *listModels {
		green := color.New(color.FgGreen)
		for _, name := range llm.Models() {
			if name == cfg.Nexra.Model {
				green.Println(name + " (default)")
				continue
			}
			fmt.Println(name)
		}
		return nil
	}

	question := strings.TrimSpace(strings.Join(flag.Args(), " "))
	if question == "" {
		return errors.New("usage: gptask [flags] question")
	}

	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	messages := make([]llm.Message, 0, 2)
	if strings.TrimSpace(*system) != "" {
		msg, err := llm.SystemMessage(*system)
		if err != nil {
			return err
		}
		messages = append(messages, msg)
	}
	msg, err := llm.UserMessage(question)
	if err != nil {
		return err
	}
	messages = append(messages, msg)

	client := nexra.New(nexra.Config{
		BaseURL: cfg.Nexra.BaseURL,
		APIKey:  cfg.Nexra.APIKey,
		Model:   cfg.Nexra.Model,
		Timeout: cfg.Nexra.HTTPTimeout,
	}, logger, nil)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	answer, err := client.GenerateResponse(ctx, messages,
		llm.WithModel(*model),
		llm.WithTimeout(*timeout),
		llm.WithPollInterval(*interval),
	)
	if err != nil {
		logger.Debug("request failed", zap.Error(err), zap.Duration("elapsed", time.Since(start)))
		return err
	}

	if *verbose {
		color.New(color.FgHiBlack).Fprintf(os.Stderr, "%s, %s\n", *model, time.Since(start).Round(time.Millisecond))
	}
	fmt.Println(answer)
	return nil
}
