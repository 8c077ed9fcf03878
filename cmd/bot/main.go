package main

import (
	"context"
	"errors"
	"os/signal"
	"sync"
	"syscall"

	"vet-assistant-relay/internal/adapter/gemini"
	"vet-assistant-relay/internal/adapter/memory"
	"vet-assistant-relay/internal/adapter/openai"
	"vet-assistant-relay/internal/adapter/telegram"
	"vet-assistant-relay/internal/adapter/webhook"
	"vet-assistant-relay/internal/config"
	"vet-assistant-relay/internal/usecase/chat"
	"vet-assistant-relay/internal/usecase/completion"
	"vet-assistant-relay/internal/usecase/reply"
	logx "vet-assistant-relay/pkg/logger"
)

func main() {
	logx.Init()

	cfg, err := config.Load(".env")
	if err != nil {
		logx.Fatal().Err(err).Msg("failed to load config")
	}
	logx.Init(logx.LoggerOpts{Environment: cfg.Env()})

	prompts, err := config.LoadPrompts(cfg.PromptsPath)
	if err != nil {
		logx.Fatal().Err(err).Msg("failed to load prompts")
	}

	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	provider, err := newProvider(ctx, cfg)
	if err != nil {
		logx.Fatal().Err(err).Msg("failed to init completion provider")
	}

	filter, err := reply.NewFilter(prompts.Filter.Patterns, prompts.Filter.Redirect)
	if err != nil {
		logx.Fatal().Err(err).Msg("failed to compile reply filter")
	}
	responder := reply.NewResponder(
		toEntries(prompts.Canned.FAQ),
		toEntries(prompts.Canned.FollowUps),
		prompts.Canned.ExamTriggers,
		prompts.Canned.ExamReply,
	)

	client := completion.NewClient(provider, completion.Options{
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
		Timeout:     cfg.Timeout(),
		Policy:      completion.NewRetryPolicy(cfg.RetryCount),
		Budget: completion.Budget{
			ContextWindow: cfg.ContextWindow,
			SafetyMargin:  cfg.SafetyMargin,
			Floor:         cfg.MinCompletionTokens,
			Ceiling:       cfg.MaxCompletionTokens,
			CharsPerToken: 4,
		},
		Fallback: prompts.Replies.Fallback,
	})

	store := memory.NewStore(cfg.HistoryLimit)
	chatSvc := chat.NewService(store, client, filter, responder, prompts.Persona, chat.Replies{
		NoMessage: prompts.Replies.NoMessage,
		Error:     prompts.Replies.Error,
	})

	var wg sync.WaitGroup
	errCh := make(chan error, 2)

	server := webhook.NewServer(cfg.Addr(), chatSvc, prompts.Replies.Error)
	wg.Add(1)
	go func() {
		defer wg.Done()
		errCh <- server.Run(ctx)
	}()

	if cfg.TelegramToken != "" {
		bot, err := telegram.NewBot(cfg.TelegramToken, cfg.AllowedTelegramUserIDs, chatSvc, prompts.Replies.Error)
		if err != nil {
			logx.Fatal().Err(err).Msg("failed to init telegram bot")
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			errCh <- bot.Run(ctx)
		}()
	}

	logx.Info().
		Str("provider", cfg.Provider).
		Str("model", cfg.Model).
		Int("history_limit", cfg.HistoryLimit).
		Int("retry_count", cfg.RetryCount).
		Msg("relay started")

	go func() {
		wg.Wait()
		close(errCh)
	}()

	for err := range errCh {
		if err == nil || errors.Is(err, context.Canceled) {
			continue
		}
		if ctx.Err() != nil {
			logx.Info().Err(err).Msg("shutdown")
			continue
		}
		logx.Error().Err(err).Msg("relay stopped with error")
		cancel()
	}
}

func newProvider(ctx context.Context, cfg config.Config) (completion.Provider, error) {
	if cfg.Provider == config.ProviderGemini {
		client, err := gemini.NewClient(ctx, cfg.GeminiKey)
		if err != nil {
			return nil, err
		}
		return client, nil
	}
	return openai.NewClient(cfg.OpenAIKey, cfg.OpenAIBaseURL), nil
}

func toEntries(in []config.CannedEntry) []reply.Entry {
	out := make([]reply.Entry, 0, len(in))
	for _, e := range in {
		out = append(out, reply.Entry{Triggers: e.Triggers, Reply: e.Reply})
	}
	return out
}
