package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/content-api/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	st, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func seedUser(t *testing.T, st *SQLiteStore, username string) *model.User {
	t.Helper()

	user, err := st.CreateUser(context.Background(), username, username+"@example.com", "hashed")
	require.NoError(t, err)
	return user
}

func TestSQLiteUsers(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	ctx := context.Background()

	user := seedUser(t, st, "alice")
	assert.NotEmpty(t, user.ID)

	byName, err := st.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byName.ID)
	assert.Equal(t, "hashed", byName.HashedPassword)

	byEmail, err := st.GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	_, err = st.GetUserByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteDuplicateUsers(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	ctx := context.Background()

	seedUser(t, st, "alice")

	_, err := st.CreateUser(ctx, "alice", "other@example.com", "hashed")
	assert.ErrorIs(t, err, ErrDuplicate)

	_, err = st.CreateUser(ctx, "alice2", "alice@example.com", "hashed")
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestSQLiteContentLifecycle(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	ctx := context.Background()

	user := seedUser(t, st, "alice")

	created, err := st.CreateContent(ctx, user.ID, "some long review text")
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.Nil(t, created.Summary)
	assert.Nil(t, created.Sentiment)

	got, err := st.GetContent(ctx, created.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "some long review text", got.Text)
	assert.Nil(t, got.Summary)
	assert.Nil(t, got.Sentiment)

	require.NoError(t, st.UpdateContentAnalysis(ctx, created.ID, "A summary.", model.SentimentPositive))

	got, err = st.GetContent(ctx, created.ID, user.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Summary)
	require.NotNil(t, got.Sentiment)
	assert.Equal(t, "A summary.", *got.Summary)
	assert.Equal(t, model.SentimentPositive, *got.Sentiment)
	assert.NotNil(t, got.UpdatedAt)

	require.NoError(t, st.DeleteContent(ctx, created.ID, user.ID))
	_, err = st.GetContent(ctx, created.ID, user.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteContentOwnerScoping(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	ctx := context.Background()

	alice := seedUser(t, st, "alice")
	bob := seedUser(t, st, "bob")

	created, err := st.CreateContent(ctx, alice.ID, "alice's note")
	require.NoError(t, err)

	_, err = st.GetContent(ctx, created.ID, bob.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	err = st.DeleteContent(ctx, created.ID, bob.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// Still present for the owner after the failed cross-user delete.
	_, err = st.GetContent(ctx, created.ID, alice.ID)
	require.NoError(t, err)
}

func TestSQLiteListContents(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	ctx := context.Background()

	alice := seedUser(t, st, "alice")
	bob := seedUser(t, st, "bob")

	for i := 0; i < 5; i++ {
		_, err := st.CreateContent(ctx, alice.ID, "note")
		require.NoError(t, err)
	}
	_, err := st.CreateContent(ctx, bob.ID, "bob's note")
	require.NoError(t, err)

	contents, total, err := st.ListContents(ctx, alice.ID, 3, 0)
	require.NoError(t, err)
	assert.Len(t, contents, 3)
	assert.Equal(t, 5, total)

	contents, total, err = st.ListContents(ctx, alice.ID, 10, 3)
	require.NoError(t, err)
	assert.Len(t, contents, 2)
	assert.Equal(t, 5, total)

	contents, total, err = st.ListContents(ctx, bob.ID, 10, 0)
	require.NoError(t, err)
	assert.Len(t, contents, 1)
	assert.Equal(t, 1, total)
}

func TestSQLiteUpdateAnalysisMissingRow(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)

	err := st.UpdateContentAnalysis(context.Background(), "no-such-id", "s", model.SentimentNeutral)
	assert.ErrorIs(t, err, ErrNotFound)
}
