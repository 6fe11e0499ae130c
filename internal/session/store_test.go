package session

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_SetRejectsWrongSegmentCount(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("only three-segment tokens are accepted", prop.ForAll(
		func(parts []string, n int) bool {
			token := strings.Join(parts[:n], ".")
			store := NewStore()
			require.NoError(t, store.Set("x.y.z", "previous"))

			err := store.Set(token, "someone")
			segments := len(strings.Split(token, "."))
			if segments == 3 && token != "" {
				return err == nil && store.Current() == Session{Token: token, Username: "someone"}
			}
			return err != nil && store.Current() == Session{Token: "x.y.z", Username: "previous"}
		},
		gen.SliceOfN(6, gen.AlphaString()),
		gen.IntRange(0, 6),
	))

	properties.TestingRun(t)
}

func TestStore_LoginScenarios(t *testing.T) {
	tests := []struct {
		name          string
		token         string
		expectErr     bool
		expectedState Session
	}{
		{
			name:          "valid jwt shape",
			token:         "a.b.c",
			expectedState: Session{Token: "a.b.c", Username: "jdoe"},
		},
		{
			name:          "not a jwt",
			token:         "not-a-jwt",
			expectErr:     true,
			expectedState: Session{},
		},
		{
			name:          "four segments",
			token:         "a.b.c.d",
			expectErr:     true,
			expectedState: Session{},
		},
		{
			name:          "empty",
			token:         "",
			expectErr:     true,
			expectedState: Session{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewStore()
			err := store.Set(tt.token, "jdoe")
			if tt.expectErr {
				require.ErrorIs(t, err, ErrInvalidToken)
				var shapeErr *InvalidTokenError
				require.ErrorAs(t, err, &shapeErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.expectedState, store.Current())
		})
	}
}

func TestStore_ClearNotifiesSubscribers(t *testing.T) {
	store := NewStore()
	var events []bool
	store.Subscribe(func(authenticated bool) {
		events = append(events, authenticated)
		if !authenticated {
			_, ok := store.Token()
			assert.False(t, ok, "token must be gone when subscribers run")
			assert.Empty(t, store.Username())
		}
	})

	require.NoError(t, store.Set("a.b.c", "jdoe"))
	assert.True(t, store.Authenticated())

	require.NoError(t, store.Clear())
	assert.False(t, store.Authenticated())
	assert.Equal(t, []bool{true, false}, events)
}

func TestStore_FilePersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")

	first := NewStore(WithPersister(NewFilePersister(path)))
	require.NoError(t, first.Set("a.b.c", "jdoe"))

	second := NewStore(WithPersister(NewFilePersister(path)))
	require.NoError(t, second.Restore())
	assert.Equal(t, Session{Token: "a.b.c", Username: "jdoe"}, second.Current())

	require.NoError(t, second.Clear())

	third := NewStore(WithPersister(NewFilePersister(path)))
	require.NoError(t, third.Restore())
	assert.False(t, third.Authenticated())
}

func TestStore_RestoreDiscardsMalformedToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	persister := NewFilePersister(path)
	require.NoError(t, persister.Save(Session{Token: "garbage", Username: "jdoe"}))

	store := NewStore(WithPersister(persister))
	require.NoError(t, store.Restore())
	assert.False(t, store.Authenticated())

	saved, err := persister.Load()
	require.NoError(t, err)
	assert.Nil(t, saved)
}

func TestStore_RestoreDiscardsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	persister := NewFilePersister(path)
	_, err := persister.Load()
	require.ErrorIs(t, err, ErrCorruptSession)

	var logs bytes.Buffer
	store := NewStore(WithPersister(persister), WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))
	require.NoError(t, store.Restore())
	assert.False(t, store.Authenticated())
	assert.Contains(t, logs.String(), "level=WARN")
	assert.Contains(t, logs.String(), "discarding unreadable session")

	_, err = os.Stat(path)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

type failingDeletePersister struct {
	saved *Session
}

func (p *failingDeletePersister) Load() (*Session, error) { return p.saved, nil }
func (p *failingDeletePersister) Save(s Session) error    { p.saved = &s; return nil }
func (p *failingDeletePersister) Delete() error           { return errors.New("read-only filesystem") }

func TestStore_RestoreLogsFailedDiscard(t *testing.T) {
	var logs bytes.Buffer
	persister := &failingDeletePersister{saved: &Session{Token: "garbage", Username: "jdoe"}}
	store := NewStore(WithPersister(persister), WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))

	require.NoError(t, store.Restore())
	assert.False(t, store.Authenticated())
	assert.Contains(t, logs.String(), "discarding stored session")
	assert.Contains(t, logs.String(), "failed to remove stored session")
	assert.Contains(t, logs.String(), "read-only filesystem")

	assert.ErrorContains(t, store.Clear(), "read-only filesystem")
}

func TestStore_Claims(t *testing.T) {
	store := NewStore()
	_, ok := store.Claims()
	assert.False(t, ok)

	require.NoError(t, store.Set("a.b.c", "jdoe"))
	_, ok = store.Claims()
	assert.False(t, ok, "structurally valid but undecodable tokens have no claims")

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "jdoe",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	require.NoError(t, store.Set(signed, "jdoe"))
	claims, ok := store.Claims()
	require.True(t, ok)
	assert.Equal(t, "jdoe", claims["sub"])
}
