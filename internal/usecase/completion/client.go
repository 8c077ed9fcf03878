package completion

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	logx "vet-assistant-relay/pkg/logger"
)

var (
	// ErrTransient marks failures worth another attempt: timeouts, rate
	// limits, remote 5xx and empty completions. Providers wrap it.
	ErrTransient = errors.New("transient completion failure")
	// ErrServiceExhausted is returned, together with the fallback text, once
	// no further attempt will be made.
	ErrServiceExhausted = errors.New("completion service exhausted")
)

type Message struct {
	Role    string
	Content string
}

type Request struct {
	Model       string
	Messages    []Message
	Temperature float32
	MaxTokens   int
}

// Provider performs exactly one remote completion call.
type Provider interface {
	Complete(ctx context.Context, req Request) (string, error)
}

type Options struct {
	Model       string
	Temperature float32
	Timeout     time.Duration
	Policy      RetryPolicy
	Budget      Budget
	Fallback    string
	Sleep       Sleeper
}

type Client struct {
	provider    Provider
	model       string
	temperature float32
	timeout     time.Duration
	policy      RetryPolicy
	budget      Budget
	fallback    string
	sleep       Sleeper
	now         func() time.Time
}

func NewClient(provider Provider, opts Options) *Client {
	if opts.Policy.MaxAttempts <= 0 {
		opts.Policy.MaxAttempts = DefaultMaxAttempts
	}
	if opts.Policy.Backoff == nil {
		opts.Policy.Backoff = ExponentialBackoff
	}
	if opts.Budget == (Budget{}) {
		opts.Budget = DefaultBudget()
	}
	if opts.Sleep == nil {
		opts.Sleep = SleepContext
	}

	return &Client{
		provider:    provider,
		model:       opts.Model,
		temperature: opts.Temperature,
		timeout:     opts.Timeout,
		policy:      opts.Policy,
		budget:      opts.Budget,
		fallback:    opts.Fallback,
		sleep:       opts.Sleep,
		now:         time.Now,
	}
}

// Complete returns the model reply for messages. When every attempt fails it
// returns the fallback text and an error wrapping ErrServiceExhausted and the
// last cause; the text is always safe to send to the user.
func (c *Client) Complete(ctx context.Context, messages []Message) (string, error) {
	req := Request{
		Model:       c.model,
		Messages:    messages,
		Temperature: c.temperature,
		MaxTokens:   c.budget.MaxTokens(messages),
	}

	var lastErr error
	for attempt := 1; attempt <= c.policy.MaxAttempts; attempt++ {
		start := c.now()
		text, err := c.attempt(ctx, req)
		latency := c.now().Sub(start)

		if err == nil {
			logx.Info().
				Int("attempt", attempt).
				Dur("latency", latency).
				Int("max_tokens", req.MaxTokens).
				Str("outcome", "ok").
				Msg("completion attempt")
			return text, nil
		}

		lastErr = err
		transient := IsTransient(err)
		logx.Warn().
			Err(err).
			Int("attempt", attempt).
			Dur("latency", latency).
			Int("max_tokens", req.MaxTokens).
			Bool("transient", transient).
			Str("outcome", "failed").
			Msg("completion attempt")

		if !transient || ctx.Err() != nil || attempt == c.policy.MaxAttempts {
			break
		}

		if err := c.sleep(ctx, c.policy.Backoff(attempt)); err != nil {
			lastErr = fmt.Errorf("backoff interrupted: %w", err)
			break
		}
	}

	logx.Error().Err(lastErr).Int("max_attempts", c.policy.MaxAttempts).Msg("completion gave up, using fallback")
	return c.fallback, fmt.Errorf("%w: %w", ErrServiceExhausted, lastErr)
}

func (c *Client) attempt(ctx context.Context, req Request) (string, error) {
	attemptCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	text, err := c.provider.Complete(attemptCtx, req)
	if err != nil {
		if ctx.Err() == nil && errors.Is(attemptCtx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: timed out after %s: %w", ErrTransient, c.timeout, err)
		}
		return "", err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%w: empty completion", ErrTransient)
	}
	return text, nil
}

// IsTransient reports whether err is worth retrying.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTransient) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
