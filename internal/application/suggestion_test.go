package application

import (
	"context"
	"math/rand"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type checkerFunc func(ctx context.Context, account, candidate string) (bool, error)

func (f checkerFunc) NameExists(ctx context.Context, account, candidate string) (bool, error) {
	return f(ctx, account, candidate)
}

func TestGenerateCandidates_SuffixLengths(t *testing.T) {
	src := &seqSource{draws: []string{"0123456789"}}

	candidates, err := GenerateCandidates("alice", 10, src)
	require.NoError(t, err)
	require.Len(t, candidates, 10)

	prev := 0
	for i, c := range candidates {
		require.True(t, strings.HasPrefix(c, "alice_"), c)
		suffix := strings.TrimPrefix(c, "alice_")
		assert.Equal(t, min(2+i, 10), len(suffix), "candidate %d", i)
		assert.GreaterOrEqual(t, len(suffix), prev)
		prev = len(suffix)
	}
	assert.Equal(t, "alice_01", candidates[0])
	assert.Equal(t, "alice_0123456789", candidates[9])
}

func TestGenerateCandidates_ShortDraw(t *testing.T) {
	_, err := GenerateCandidates("alice", 3, &seqSource{draws: []string{"x"}})
	assert.Error(t, err)

	_, err = GenerateCandidates("alice", 3, &seqSource{err: errStub})
	assert.ErrorIs(t, err, errStub)
}

func TestUUIDSource_Alphanumeric(t *testing.T) {
	draw, err := UUIDSource{}.Draw()
	require.NoError(t, err)
	assert.Len(t, draw, 32)
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]+$`), draw)
}

func TestSuggestionEngine_FiltersTakenInOrder(t *testing.T) {
	src := &seqSource{draws: []string{"abcdefghij"}}
	taken := map[string]bool{"bob_abc": true, "bob_abcdef": true}

	checker := checkerFunc(func(_ context.Context, account, candidate string) (bool, error) {
		assert.Equal(t, "0xaaa", account)
		time.Sleep(time.Duration(rand.Intn(5)) * time.Millisecond)
		return taken[candidate], nil
	})
	e := NewSuggestionEngine(checker, src, 5, zap.NewNop())

	got := e.Suggest(context.Background(), "0xaaa", "bob")

	assert.Equal(t, []string{"bob_ab", "bob_abcd", "bob_abcde"}, got)
}

func TestSuggestionEngine_AllTaken(t *testing.T) {
	checker := checkerFunc(func(context.Context, string, string) (bool, error) { return true, nil })
	e := NewSuggestionEngine(checker, &seqSource{draws: []string{"abcdef"}}, 4, zap.NewNop())

	assert.Empty(t, e.Suggest(context.Background(), "0xaaa", "bob"))
}

func TestSuggestionEngine_AnyErrorYieldsEmpty(t *testing.T) {
	checker := checkerFunc(func(_ context.Context, _, candidate string) (bool, error) {
		if candidate == "bob_abc" {
			return false, errStub
		}
		return false, nil
	})
	e := NewSuggestionEngine(checker, &seqSource{draws: []string{"abcdef"}}, 4, zap.NewNop())

	assert.Empty(t, e.Suggest(context.Background(), "0xaaa", "bob"))
}

func TestSuggestionEngine_CheckerPanicYieldsEmpty(t *testing.T) {
	checker := checkerFunc(func(context.Context, string, string) (bool, error) { panic("boom") })
	e := NewSuggestionEngine(checker, &seqSource{draws: []string{"abcdef"}}, 2, zap.NewNop())

	assert.Empty(t, e.Suggest(context.Background(), "0xaaa", "bob"))
}

func TestSuggestionEngine_DefaultCount(t *testing.T) {
	checker := checkerFunc(func(context.Context, string, string) (bool, error) { return false, nil })
	e := NewSuggestionEngine(checker, nil, 0, zap.NewNop())

	got := e.Suggest(context.Background(), "0xaaa", "bob")
	assert.Len(t, got, DefaultSuggestionCount)
}
