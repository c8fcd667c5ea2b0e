package history

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEngine produces deterministic vectors so similarity ordering in tests
// is predictable. Texts sharing a keyword land close together.
type fakeEngine struct {
	calls int
	fail  bool
}

func (f *fakeEngine) Embed(_ context.Context, text string) ([]float32, error) {
	f.calls++
	if f.fail {
		return nil, fmt.Errorf("encoder offline")
	}
	vec := make([]float32, 4)
	for i, r := range text {
		vec[i%4] += float32(r)
	}
	return vec, nil
}

func (f *fakeEngine) Dimensions() int { return 4 }
func (f *fakeEngine) Name() string    { return "fake" }

func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	s, err := Open(dir, "chat_history", &fakeEngine{})
	require.NoError(t, err)
	return s, dir
}

func TestAppendAndRecent(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 3; i++ {
		id, err := s.Append(ctx, fmt.Sprintf("prompt %d", i), fmt.Sprintf("response %d", i), "Content Writer", "")
		require.NoError(t, err)
		require.NotEmpty(t, id)
		ids = append(ids, id)
	}
	assert.Equal(t, 3, s.Len())

	recent := s.Recent(10)
	require.Len(t, recent, 3)
	// Newest first. Timestamps may collide at coarse resolution; IDs still
	// identify the records.
	seen := map[string]bool{}
	for _, rec := range recent {
		seen[rec.ID] = true
	}
	for _, id := range ids {
		assert.True(t, seen[id])
	}
	assert.False(t, recent[0].Timestamp.Before(recent[2].Timestamp))

	assert.Len(t, s.Recent(2), 2)
	assert.Nil(t, s.Recent(0))
}

func TestAppendDerivesLengths(t *testing.T) {
	s, _ := openTestStore(t)

	_, err := s.Append(context.Background(), "hello", "world!!", "Data Analyst", "")
	require.NoError(t, err)

	rec := s.Recent(1)[0]
	assert.Equal(t, 5, rec.PromptLength)
	assert.Equal(t, 7, rec.ResponseLength)
	assert.Equal(t, "Data Analyst", rec.RouteLabel)
	assert.False(t, rec.Timestamp.IsZero())
}

func TestAppendEmptyRouteDefaultsToNone(t *testing.T) {
	s, _ := openTestStore(t)

	_, err := s.Append(context.Background(), "p", "r", "", "try a human")
	require.NoError(t, err)

	rec := s.Recent(1)[0]
	assert.Equal(t, RouteNone, rec.RouteLabel)
	assert.Equal(t, "try a human", rec.SuggestionLabel)
}

func TestAppendFailedEmbedLeavesStoreUntouched(t *testing.T) {
	dir := t.TempDir()
	engine := &fakeEngine{fail: true}
	s, err := Open(dir, "chat_history", engine)
	require.NoError(t, err)

	_, err = s.Append(context.Background(), "p", "r", "X", "")
	require.Error(t, err)
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.Recent(10))
}

func TestSimilar(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()

	_, err := s.Append(ctx, "write a market research report", "done", "Market Research Analyst", "")
	require.NoError(t, err)
	_, err = s.Append(ctx, "edit my vacation video", "done", "Video Editor", "")
	require.NoError(t, err)

	matches, err := s.Similar(ctx, "write a market research report", 5)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "Market Research Analyst", matches[0].Record.RouteLabel)
	assert.GreaterOrEqual(t, matches[0].Score, matches[1].Score)
}

func TestSimilarEmptyStore(t *testing.T) {
	s, _ := openTestStore(t)

	matches, err := s.Similar(context.Background(), "anything", 5)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestSimilarClampsK(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()

	_, err := s.Append(ctx, "only one", "entry", "Content Writer", "")
	require.NoError(t, err)

	matches, err := s.Similar(ctx, "only one", 50)
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestFlushAndReload(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := Open(dir, "chat_history", &fakeEngine{})
	require.NoError(t, err)
	id, err := s.Append(ctx, "persist me", "ok", "Content Writer", "")
	require.NoError(t, err)
	require.NoError(t, s.Flush())

	reopened, err := Open(dir, "chat_history", &fakeEngine{})
	require.NoError(t, err)
	require.Equal(t, 1, reopened.Len())

	rec := reopened.Recent(1)[0]
	assert.Equal(t, id, rec.ID)
	assert.Equal(t, "persist me", rec.UserPrompt)

	// Vectors survived too: similarity works without re-embedding history.
	matches, err := reopened.Similar(ctx, "persist me", 1)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, id, matches[0].Record.ID)
}

func TestOpenMissingFilesStartsEmpty(t *testing.T) {
	s, err := Open(t.TempDir(), "chat_history", &fakeEngine{})
	require.NoError(t, err)
	assert.Equal(t, 0, s.Len())
}

func TestOpenCountMismatchStartsEmpty(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := Open(dir, "chat_history", &fakeEngine{})
	require.NoError(t, err)
	_, err = s.Append(ctx, "a", "b", "X", "")
	require.NoError(t, err)
	require.NoError(t, s.Flush())

	// Damage the pairing by rewriting the records file with two entries.
	data, err := os.ReadFile(s.recordsPath())
	require.NoError(t, err)
	damaged := []byte("[" + trimBrackets(string(data)) + "," + trimBrackets(string(data)) + "]")
	require.NoError(t, os.WriteFile(s.recordsPath(), damaged, 0644))

	reopened, err := Open(dir, "chat_history", &fakeEngine{})
	require.NoError(t, err)
	assert.Equal(t, 0, reopened.Len())
}

func trimBrackets(s string) string {
	s = s[1 : len(s)-1]
	return s
}

func TestClearRemovesFiles(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := Open(dir, "chat_history", &fakeEngine{})
	require.NoError(t, err)
	_, err = s.Append(ctx, "a", "b", "X", "")
	require.NoError(t, err)
	require.NoError(t, s.Flush())

	require.NoError(t, s.Clear())
	assert.Equal(t, 0, s.Len())

	_, err = os.Stat(s.recordsPath())
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(s.vectorsPath())
	assert.True(t, os.IsNotExist(err))

	// Appending after clear starts a fresh collection.
	_, err = s.Append(ctx, "new", "entry", "Y", "")
	require.NoError(t, err)
	assert.Equal(t, 1, s.Len())
}

func TestStats(t *testing.T) {
	s, dir := openTestStore(t)

	stats := s.Stats()
	assert.Equal(t, 0, stats.Count)
	assert.Equal(t, dir, stats.Location)
	assert.Equal(t, "chat_history", stats.Collection)

	_, err := s.Append(context.Background(), "a", "b", "X", "")
	require.NoError(t, err)
	assert.Equal(t, 1, s.Stats().Count)
	assert.Equal(t, 4, s.Stats().Dimension)
}
