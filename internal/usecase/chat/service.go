package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"vet-assistant-relay/internal/core/errx"
	"vet-assistant-relay/internal/domain"
	"vet-assistant-relay/internal/usecase/completion"
	logx "vet-assistant-relay/pkg/logger"
)

const (
	UnknownSender         = "unknown"
	DefaultNoMessageReply = "Nenhuma mensagem recebida."
)

var ErrEmptyMessage = errors.New("empty message")

type Completer interface {
	Complete(ctx context.Context, messages []completion.Message) (string, error)
}

type Filter interface {
	Filter(text string) string
}

type Responder interface {
	Respond(message string) (string, bool)
}

// Replies are the fixed texts returned instead of a model answer.
type Replies struct {
	NoMessage string
	Error     string
}

type Service struct {
	store     domain.ConversationStore
	client    Completer
	filter    Filter
	responder Responder
	persona   string
	replies   Replies
	now       func() time.Time
}

func NewService(store domain.ConversationStore, client Completer, filter Filter, responder Responder, persona string, replies Replies) *Service {
	if replies.NoMessage == "" {
		replies.NoMessage = DefaultNoMessageReply
	}
	if replies.Error == "" {
		replies.Error = errx.SystemErrorMessage
	}
	return &Service{
		store:     store,
		client:    client,
		filter:    filter,
		responder: responder,
		persona:   persona,
		replies:   replies,
		now:       time.Now,
	}
}

// HandleMessage answers one inbound message from senderID. The returned text
// is always suitable for the user, even when err is non-nil: err reports the
// failure kind (see errx) for logging, never a reason to drop the reply.
func (s *Service) HandleMessage(ctx context.Context, senderID, text string) (reply string, err error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return s.replies.NoMessage, errx.New(ErrEmptyMessage, errx.KindInput, s.replies.NoMessage)
	}

	senderID = strings.TrimSpace(senderID)
	if senderID == "" {
		senderID = UnknownSender
	}

	defer func() {
		if r := recover(); r != nil {
			logx.Error().Str("sender", senderID).Interface("panic", r).Msg("recovered panic while handling message")
			reply = s.replies.Error
			err = errx.New(fmt.Errorf("panic: %v", r), errx.KindUnexpected, s.replies.Error)
		}
	}()

	// the user turn is kept even when a canned answer short-circuits the model
	s.store.Append(senderID, domain.Turn{
		Role:      domain.RoleUser,
		Content:   text,
		Timestamp: s.now(),
	})

	if canned, ok := s.responder.Respond(text); ok {
		logx.Debug().Str("sender", senderID).Msg("answered with canned reply")
		return canned, nil
	}

	history := s.store.Snapshot(senderID)
	messages := make([]completion.Message, 0, len(history)+1)
	messages = append(messages, completion.Message{
		Role:    domain.RoleSystem,
		Content: s.persona,
	})
	for _, h := range history {
		messages = append(messages, completion.Message{
			Role:    h.Role,
			Content: h.Content,
		})
	}

	resp, err := s.client.Complete(ctx, messages)
	if err != nil {
		if errors.Is(err, completion.ErrServiceExhausted) && resp != "" {
			// fallback text is a non-answer; keep it out of the model context
			return resp, errx.New(err, errx.KindServiceExhausted, resp)
		}
		return s.replies.Error, errx.New(err, errx.KindUnexpected, s.replies.Error)
	}

	filtered := s.filter.Filter(resp)

	s.store.Append(senderID, domain.Turn{
		Role:      domain.RoleAssistant,
		Content:   filtered,
		Timestamp: s.now(),
	})

	return filtered, nil
}
