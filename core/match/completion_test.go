package match_test

import (
	"context"
	"errors"
	"testing"

	"datasync/core/endpoint"
	"datasync/core/match"
	"datasync/core/syncerr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	locals    *endpoint.MemoryStore[local, int]
	remotes   *endpoint.MemoryStore[remote, int]
	completer *match.Completer[local, remote, int]
}

func newFixture(t *testing.T) fixture {
	f := fixture{
		locals:  endpoint.NewMemoryStore[local, int](localKey),
		remotes: endpoint.NewMemoryStore[remote, int](remoteKey),
	}
	c, err := match.NewCompleter(newMatcher(t), match.Lookup[local, int](f.locals), match.Lookup[remote, int](f.remotes))
	require.NoError(t, err)
	f.completer = c
	return f
}

// countingLookup records how the completer queries a store.
type countingLookup[T any] struct {
	match.Lookup[T, int]
	reads     int
	readManys [][]int
	err       error
}

func (c *countingLookup[T]) Read(ctx context.Context, id int) (T, bool, error) {
	c.reads++
	if c.err != nil {
		var zero T
		return zero, false, c.err
	}
	return c.Lookup.Read(ctx, id)
}

func (c *countingLookup[T]) ReadMany(ctx context.Context, ids []int) ([]T, error) {
	c.readManys = append(c.readManys, ids)
	if c.err != nil {
		return nil, c.err
	}
	return c.Lookup.ReadMany(ctx, ids)
}

func TestNewCompleter_NilArguments(t *testing.T) {
	f := newFixture(t)

	_, err := match.NewCompleter[local, remote, int](nil, f.locals, f.remotes)
	assert.ErrorIs(t, err, syncerr.ErrNilArgument)
	_, err = match.NewCompleter[local, remote, int](newMatcher(t), nil, f.remotes)
	assert.ErrorIs(t, err, syncerr.ErrNilArgument)
	_, err = match.NewCompleter[local, remote, int](newMatcher(t), f.locals, nil)
	assert.ErrorIs(t, err, syncerr.ErrNilArgument)
}

func TestCompleteEach(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.locals.Create(ctx, local{Name: "l3", Ref: 3})
	require.NoError(t, err)
	_, err = f.remotes.Create(ctx, remote{Name: "r1", ID: 1})
	require.NoError(t, err)

	input := []match.ItemMatch[local, remote]{
		match.OnlyFirst[local, remote](local{Name: "l1", Ref: 1}),
		match.Paired(local{Name: "l2", Ref: 2}, remote{Name: "r2", ID: 2}),
		match.OnlySecond[local](remote{Name: "r3", ID: 3}),
		match.OnlySecond[local](remote{Name: "r4", ID: 4}),
		match.OnlyFirst[local, remote](local{Name: "orphan"}),
	}

	out, err := f.completer.CompleteEach(ctx, input)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"(l1, r1)",
		"(l2, r2)",
		"(l3, r3)",
		"(<none>, r4)",
		"(orphan, <none>)",
	}, render(out))

	// inputs are untouched
	assert.False(t, input[0].IsComplete())
}

func TestCompleteEach_OneReadPerIncompleteMatch(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	remotes := &countingLookup[remote]{Lookup: f.remotes}
	c, err := match.NewCompleter(newMatcher(t), match.Lookup[local, int](f.locals), match.Lookup[remote, int](remotes))
	require.NoError(t, err)

	_, err = c.CompleteEach(ctx, []match.ItemMatch[local, remote]{
		match.OnlyFirst[local, remote](local{Name: "a", Ref: 1}),
		match.OnlyFirst[local, remote](local{Name: "b", Ref: 2}),
		match.Paired(local{Name: "c", Ref: 3}, remote{Name: "C", ID: 3}),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, remotes.reads)
}

func TestCompleteEach_ReadError(t *testing.T) {
	f := newFixture(t)
	remotes := &countingLookup[remote]{Lookup: f.remotes, err: errors.New("timeout")}
	c, err := match.NewCompleter(newMatcher(t), match.Lookup[local, int](f.locals), match.Lookup[remote, int](remotes))
	require.NoError(t, err)

	_, err = c.CompleteEach(context.Background(), []match.ItemMatch[local, remote]{
		match.OnlyFirst[local, remote](local{Name: "a", Ref: 1}),
	})

	var syncErr *syncerr.SyncError
	require.ErrorAs(t, err, &syncErr)
	assert.EqualError(t, syncErr.Cause, "timeout")
}

func TestCompleteBatch_AllMissingFirstBecomeComplete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	locals := &countingLookup[local]{Lookup: f.locals}
	c, err := match.NewCompleter(newMatcher(t), match.Lookup[local, int](locals), match.Lookup[remote, int](f.remotes))
	require.NoError(t, err)

	input := []match.ItemMatch[local, remote]{
		match.OnlySecond[local](remote{Name: "r1", ID: 1}),
		match.OnlySecond[local](remote{Name: "r2", ID: 2}),
		match.OnlySecond[local](remote{Name: "r3", ID: 3}),
	}
	for _, l := range []local{{"l3", 3}, {"l1", 1}, {"l2", 2}} {
		_, err := f.locals.Create(ctx, l)
		require.NoError(t, err)
	}

	out, err := c.CompleteBatch(ctx, input, match.First)
	require.NoError(t, err)

	require.Len(t, out, 3)
	for _, m := range out {
		assert.True(t, m.IsComplete(), m.String())
	}
	assert.Equal(t, [][]int{{1, 2, 3}}, locals.readManys)
}

func TestCompleteBatch_Ordering(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.remotes.Create(ctx, remote{Name: "R2", ID: 2})
	require.NoError(t, err)

	input := []match.ItemMatch[local, remote]{
		match.OnlyFirst[local, remote](local{Name: "a", Ref: 1}),
		match.Paired(local{Name: "p", Ref: 9}, remote{Name: "P", ID: 9}),
		match.OnlyFirst[local, remote](local{Name: "b", Ref: 2}),
		match.OnlySecond[local](remote{Name: "only-remote", ID: 7}),
	}

	out, err := f.completer.CompleteBatch(ctx, input, match.Second)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"(p, P)",
		"(<none>, only-remote)",
		"(a, <none>)",
		"(b, R2)",
	}, render(out))
}

func TestCompleteBatch_NothingToComplete(t *testing.T) {
	f := newFixture(t)
	remotes := &countingLookup[remote]{Lookup: f.remotes}
	c, err := match.NewCompleter(newMatcher(t), match.Lookup[local, int](f.locals), match.Lookup[remote, int](remotes))
	require.NoError(t, err)

	input := []match.ItemMatch[local, remote]{
		match.Paired(local{Name: "a", Ref: 1}, remote{Name: "A", ID: 1}),
	}
	out, err := c.CompleteBatch(context.Background(), input, match.Second)
	require.NoError(t, err)
	assert.Equal(t, input, out)
	assert.Empty(t, remotes.readManys)
}

func TestCompleteBatch_InvalidTarget(t *testing.T) {
	f := newFixture(t)

	_, err := f.completer.CompleteBatch(context.Background(), nil, match.Side(0))
	assert.ErrorIs(t, err, syncerr.ErrNilArgument)
}

func TestCompleteBatch_ReadError(t *testing.T) {
	f := newFixture(t)
	remotes := &countingLookup[remote]{Lookup: f.remotes, err: errors.New("unavailable")}
	c, err := match.NewCompleter(newMatcher(t), match.Lookup[local, int](f.locals), match.Lookup[remote, int](remotes))
	require.NoError(t, err)

	_, err = c.CompleteBatch(context.Background(), []match.ItemMatch[local, remote]{
		match.OnlyFirst[local, remote](local{Name: "a", Ref: 1}),
	}, match.Second)
	assert.Equal(t, syncerr.CodeSyncFailed, syncerr.CodeOf(err))
}
