package conversations

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/synogpt/synogpt/internal/common"
	"github.com/synogpt/synogpt/internal/logging"
	"github.com/synogpt/synogpt/internal/server/blob"
)

type Store struct {
	store  blob.ObjectStore
	key    string
	limit  int
	logger logging.Logger
	now    func() time.Time
}

func NewStore(store blob.ObjectStore, objectKey string, limit int, logger logging.Logger) *Store {
	return &Store{
		store:  store,
		key:    objectKey,
		limit:  limit,
		logger: logger.With("module", "conversations"),
		now:    time.Now,
	}
}

// Load returns all stored conversations in save order. A missing or empty
// document yields an empty slice; any other failure is logged and likewise
// degrades to an empty slice, never an error to the caller.
func (s *Store) Load(ctx context.Context) []Conversation {
	data, err := s.store.Download(ctx, s.key)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			s.logger.Error(ctx, "failed to load conversations", "key", s.key, "error", err)
		}
		return []Conversation{}
	}

	if len(data) == 0 {
		return []Conversation{}
	}

	var convs []Conversation
	if err := json.Unmarshal(data, &convs); err != nil {
		s.logger.Error(ctx, "failed to decode conversations", "key", s.key, "error", err)
		return []Conversation{}
	}
	return convs
}

// Save appends the given turn list as a new conversation stamped with the
// current time, drops the oldest entries beyond the retention cap, and
// overwrites the whole document. The caller's slice is not retained.
func (s *Store) Save(ctx context.Context, turns []Message) error {
	convs := s.Load(ctx)

	convs = append(convs, Conversation{
		Timestamp: s.now().Format(time.RFC3339Nano),
		Messages:  append([]Message(nil), turns...),
	})

	if len(convs) > s.limit {
		convs = convs[len(convs)-s.limit:]
	}

	data, err := json.MarshalIndent(convs, "", "    ")
	if err != nil {
		s.logger.Error(ctx, "failed to encode conversations", "error", err)
		return fmt.Errorf("conversations: encode: %w", err)
	}

	if err := s.store.Upload(ctx, s.key, data); err != nil {
		s.logger.Error(ctx, "failed to save conversations", "key", s.key, "error", err)
		return fmt.Errorf("conversations: save: %w", err)
	}

	return nil
}
