package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/synogpt/synogpt/internal/llm"
	"github.com/synogpt/synogpt/internal/logging"
	"github.com/synogpt/synogpt/internal/server/conversations"
)

// Apology is the fixed assistant reply shown and persisted when the
// completion request or stream fails. The underlying error is only logged.
const Apology = "I'm sorry, but I'm unable to process your request at the moment."

// Completer issues streaming completion calls.
type Completer interface {
	StreamChat(ctx context.Context, req llm.ChatRequest) (llm.ChatStream, error)
}

// HistoryStore persists finished conversations.
type HistoryStore interface {
	Load(ctx context.Context) []conversations.Conversation
	Save(ctx context.Context, turns []conversations.Message) error
}

// Sink receives display updates while a reply streams in. Delta appends a
// fragment to the shown text; Replace swaps the whole shown text (used for
// the apology on failure).
type Sink interface {
	Delta(token string)
	Replace(text string)
}

type Service struct {
	completer   Completer
	store       HistoryStore
	model       string
	maxTokens   int
	temperature float64
	logger      logging.Logger
	now         func() time.Time
}

func NewService(completer Completer, store HistoryStore, model string, maxTokens int, temperature float64, logger logging.Logger) *Service {
	return &Service{
		completer:   completer,
		store:       store,
		model:       model,
		maxTokens:   maxTokens,
		temperature: temperature,
		logger:      logger.With("module", "chat"),
		now:         time.Now,
	}
}

// Ask runs one user turn: the prompt joins the active turn list immediately,
// the completion streams into sink fragment by fragment, and the finished
// assistant turn is appended and the conversation saved. Any request or
// stream failure degrades to the fixed apology, which is displayed and
// persisted like a normal reply. The returned error covers only the save.
func (s *Service) Ask(ctx context.Context, sess *Session, prompt string, sink Sink) (string, error) {
	sess.appendTurn(conversations.Message{Role: conversations.RoleUser, Content: prompt})

	reply := s.streamReply(ctx, sess, sink)

	sess.appendTurn(conversations.Message{Role: conversations.RoleAssistant, Content: reply})

	if err := s.store.Save(ctx, sess.Turns()); err != nil {
		return reply, fmt.Errorf("chat: save conversation: %w", err)
	}
	return reply, nil
}

func (s *Service) streamReply(ctx context.Context, sess *Session, sink Sink) string {
	turns := sess.Turns()
	messages := make([]llm.Message, 0, len(turns))
	for _, m := range turns {
		messages = append(messages, llm.Message{Role: m.Role, Content: m.Content})
	}

	stream, err := s.completer.StreamChat(ctx, llm.ChatRequest{
		Model:       s.model,
		Messages:    messages,
		MaxTokens:   s.maxTokens,
		Temperature: s.temperature,
	})
	if err != nil {
		s.logger.Error(ctx, "completion request failed", "user", sess.Username, "error", err)
		sink.Replace(Apology)
		return Apology
	}
	defer stream.Close()

	var b strings.Builder
	for stream.Next() {
		token := stream.Content()
		if token == "" {
			continue
		}
		b.WriteString(token)
		sink.Delta(token)
	}

	if err := stream.Err(); err != nil {
		s.logger.Error(ctx, "completion stream failed", "user", sess.Username, "error", err)
		sink.Replace(Apology)
		return Apology
	}

	return b.String()
}

// Select replaces the active turn list with stored conversation index.
func (s *Service) Select(ctx context.Context, sess *Session, index int) error {
	convs := s.store.Load(ctx)
	if index < 0 || index >= len(convs) {
		return fmt.Errorf("chat: conversation index %d out of range", index)
	}
	sess.setTurns(convs[index].Messages)
	return nil
}

// Reset clears the active turn list (the New Chat action). Stored history
// is untouched.
func (s *Service) Reset(sess *Session) {
	sess.setTurns(nil)
}

// History returns the sidebar view of stored conversations.
func (s *Service) History(ctx context.Context) []conversations.Group {
	return conversations.Bucket(ctx, s.store.Load(ctx), s.now(), s.logger)
}
