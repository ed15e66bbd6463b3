package conversations

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synogpt/synogpt/internal/common"
	"github.com/synogpt/synogpt/internal/logging"
)

type fakeStore struct {
	objects map[string][]byte
	downErr error
	upErr   error
	uploads int
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: map[string][]byte{}}
}

func (f *fakeStore) Download(ctx context.Context, key string) ([]byte, error) {
	if f.downErr != nil {
		return nil, f.downErr
	}
	data, ok := f.objects[key]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return data, nil
}

func (f *fakeStore) Upload(ctx context.Context, key string, data []byte) error {
	if f.upErr != nil {
		return f.upErr
	}
	f.uploads++
	f.objects[key] = data
	return nil
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})))
}

func newTestStore(t *testing.T, fake *fakeStore) *Store {
	t.Helper()
	return NewStore(fake, "conversations.json", 30, testLogger())
}

func TestStore_Load_MissingObjectIsEmpty(t *testing.T) {
	s := newTestStore(t, newFakeStore())
	assert.Empty(t, s.Load(context.Background()))
}

func TestStore_Load_EmptyObjectIsEmpty(t *testing.T) {
	fake := newFakeStore()
	fake.objects["conversations.json"] = []byte{}
	s := newTestStore(t, fake)
	assert.Empty(t, s.Load(context.Background()))
}

func TestStore_Load_TransportErrorDegradesToEmpty(t *testing.T) {
	fake := newFakeStore()
	fake.downErr = errors.New("connection refused")
	s := newTestStore(t, fake)
	assert.Empty(t, s.Load(context.Background()))
}

func TestStore_Load_CorruptDocumentDegradesToEmpty(t *testing.T) {
	fake := newFakeStore()
	fake.objects["conversations.json"] = []byte("{not json")
	s := newTestStore(t, fake)
	assert.Empty(t, s.Load(context.Background()))
}

func TestStore_SaveThenLoad_RoundTrip(t *testing.T) {
	fake := newFakeStore()
	s := newTestStore(t, fake)
	ctx := context.Background()

	turns := []Message{
		{Role: RoleUser, Content: "hello"},
		{Role: RoleAssistant, Content: "hi there"},
	}
	require.NoError(t, s.Save(ctx, turns))

	convs := s.Load(ctx)
	require.Len(t, convs, 1)
	assert.Equal(t, turns, convs[len(convs)-1].Messages)

	_, err := time.Parse(time.RFC3339Nano, convs[0].Timestamp)
	assert.NoError(t, err, "saved timestamp must be RFC 3339")
}

func TestStore_Save_RetainsMostRecent30(t *testing.T) {
	fake := newFakeStore()
	s := newTestStore(t, fake)
	ctx := context.Background()

	for i := 0; i < 35; i++ {
		turns := []Message{{Role: RoleUser, Content: fmt.Sprintf("prompt %d", i)}}
		require.NoError(t, s.Save(ctx, turns))
	}

	convs := s.Load(ctx)
	require.Len(t, convs, 30)

	// oldest five dropped, save order preserved among the rest
	for i, c := range convs {
		want := fmt.Sprintf("prompt %d", i+5)
		assert.Equal(t, want, c.Messages[0].Content)
	}
}

func TestStore_Save_PrettyPrintsDocument(t *testing.T) {
	fake := newFakeStore()
	s := newTestStore(t, fake)
	require.NoError(t, s.Save(context.Background(), []Message{{Role: RoleUser, Content: "x"}}))

	raw := fake.objects["conversations.json"]
	assert.Contains(t, string(raw), "\n    ")
	assert.True(t, json.Valid(raw))
}

func TestStore_Save_UploadErrorReported(t *testing.T) {
	fake := newFakeStore()
	fake.upErr = errors.New("denied")
	s := newTestStore(t, fake)

	err := s.Save(context.Background(), []Message{{Role: RoleUser, Content: "x"}})
	assert.Error(t, err)
}

func TestStore_Save_DoesNotAliasCallerSlice(t *testing.T) {
	fake := newFakeStore()
	s := newTestStore(t, fake)
	ctx := context.Background()

	turns := []Message{{Role: RoleUser, Content: "original"}}
	require.NoError(t, s.Save(ctx, turns))

	turns[0].Content = "mutated"

	convs := s.Load(ctx)
	require.Len(t, convs, 1)
	assert.Equal(t, "original", convs[0].Messages[0].Content)
}
