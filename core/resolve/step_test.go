package resolve_test

import (
	"context"
	"errors"
	"slices"
	"testing"

	"datasync/core/resolve"
	"datasync/core/syncerr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type settings struct {
	Prefix string
}

// counted builds a resolver that applies when decide returns true and counts decision calls.
func counted(name string, calls *int, decide func(string) (bool, error)) resolve.Resolver[string, *settings] {
	return resolve.NewResolver(name,
		func(item string, _ *settings) (bool, error) {
			*calls++
			return decide(item)
		},
		func(_ context.Context, item string, cfg *settings) (resolve.Result, error) {
			return resolve.Succeeded(cfg.Prefix+item, name), nil
		},
	)
}

func TestNewStep_Validation(t *testing.T) {
	r := counted("A", new(int), func(string) (bool, error) { return true, nil })

	_, err := resolve.NewStep[string, *settings](nil, r)
	require.ErrorIs(t, err, syncerr.ErrNilArgument)

	_, err = resolve.NewStep[string](&settings{})
	require.ErrorIs(t, err, syncerr.ErrNilArgument)

	_, err = resolve.NewStep(&settings{}, resolve.Resolver[string, *settings]{Name: "broken"})
	require.ErrorIs(t, err, syncerr.ErrNilArgument)

	// Non-nilable configuration types are always accepted.
	_, err = resolve.NewStep(0, resolve.NewResolver("int",
		func(string, int) (bool, error) { return false, nil },
		func(context.Context, string, int) (resolve.Result, error) { return resolve.Result{}, nil },
	))
	require.NoError(t, err)
}

func TestStep_FirstApplicableWins(t *testing.T) {
	var a, b, c int
	step, err := resolve.NewStep(&settings{Prefix: "x-"},
		counted("A", &a, func(string) (bool, error) { return false, nil }),
		counted("B", &b, func(string) (bool, error) { return true, nil }),
		counted("C", &c, func(string) (bool, error) { return true, nil }),
	)
	require.NoError(t, err)

	action, err := step.Resolve("item")
	require.NoError(t, err)
	assert.Equal(t, "B", action.Name())
	assert.Equal(t, "item", action.Applicant())
	assert.Equal(t, 1, a)
	assert.Equal(t, 1, b)
	assert.Equal(t, 0, c, "later decisions must not be consulted")

	result, err := action.Execute(context.Background())
	require.NoError(t, err)
	assert.True(t, result.OK())
	assert.Equal(t, "x-item", result.Message)
}

func TestStep_NoApplicableResolver(t *testing.T) {
	var calls int
	step, err := resolve.NewStep(&settings{},
		counted("A", &calls, func(string) (bool, error) { return false, nil }),
	)
	require.NoError(t, err)

	action, err := step.Resolve("item")
	require.NoError(t, err)
	assert.True(t, resolve.IsNull(action))
	assert.Equal(t, resolve.NullActionName, action.Name())
	assert.Equal(t, "", action.Applicant())

	result, err := action.Execute(context.Background())
	require.NoError(t, err)
	assert.True(t, result.Success)
}

func TestStep_DecisionFault(t *testing.T) {
	boom := errors.New("boom")
	var a, b int
	step, err := resolve.NewStep(&settings{},
		counted("A", &a, func(string) (bool, error) { return false, boom }),
		counted("B", &b, func(string) (bool, error) { return true, nil }),
	)
	require.NoError(t, err)

	action, err := step.Resolve("item")
	assert.Nil(t, action)
	require.Error(t, err)
	assert.Equal(t, "Failed to resolve change for item", err.Error())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, b)

	var re *syncerr.ResolutionError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "item", re.Item)
	assert.Same(t, boom, re.Cause)
}

func TestStep_DecisionPanic(t *testing.T) {
	var calls int
	step, err := resolve.NewStep(&settings{},
		counted("A", &calls, func(string) (bool, error) { panic("kaput") }),
	)
	require.NoError(t, err)

	_, err = step.Resolve("item")
	require.Error(t, err)
	assert.True(t, syncerr.IsResolutionError(err))
	assert.Contains(t, errors.Unwrap(err).Error(), "kaput")
}

func TestStep_Compose(t *testing.T) {
	var calls int
	step, err := resolve.NewStep(&settings{},
		counted("Even", &calls, func(s string) (bool, error) { return len(s)%2 == 0, nil }),
	)
	require.NoError(t, err)

	var order []string
	first := step.Observe(func(a resolve.Action[string]) { order = append(order, "first:"+a.Name()) })
	step.Observe(func(a resolve.Action[string]) { order = append(order, "second:"+a.Name()) })

	var names []string
	for action, err := range step.Compose(slices.Values([]string{"ab", "abc"})) {
		require.NoError(t, err)
		names = append(names, action.Name())
	}
	assert.Equal(t, []string{"Even", resolve.NullActionName}, names)
	assert.Equal(t, []string{
		"first:Even", "second:Even",
		"first:" + resolve.NullActionName, "second:" + resolve.NullActionName,
	}, order)

	first.Unsubscribe()
	order = nil
	for range step.Compose(slices.Values([]string{"cd"})) {
	}
	assert.Equal(t, []string{"second:Even"}, order)
}

func TestStep_ComposeStopsAfterError(t *testing.T) {
	boom := errors.New("boom")
	var calls int
	step, err := resolve.NewStep(&settings{},
		counted("A", &calls, func(s string) (bool, error) {
			if s == "bad" {
				return false, boom
			}
			return true, nil
		}),
	)
	require.NoError(t, err)

	var seen, errs int
	for _, err := range step.Compose(slices.Values([]string{"ok", "bad", "never"})) {
		if err != nil {
			errs++
			continue
		}
		seen++
	}
	assert.Equal(t, 1, seen)
	assert.Equal(t, 1, errs)
	assert.Equal(t, 2, calls)
}

func TestResult(t *testing.T) {
	assert.True(t, resolve.Succeeded("done", "k").OK())
	failed := resolve.Failed("nope", "sync.failed")
	assert.False(t, failed.OK())
	assert.Equal(t, "sync.failed", failed.MessageKey)
}
