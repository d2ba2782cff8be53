package match_test

import (
	"testing"

	"datasync/core/match"
	"datasync/core/syncerr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_BothAbsentFails(t *testing.T) {
	_, err := match.New[local, remote](nil, nil)
	assert.ErrorIs(t, err, syncerr.ErrNilArgument)
}

func TestNew(t *testing.T) {
	l := local{Name: "a", Ref: 1}
	r := remote{Name: "A", ID: 1}

	m, err := match.New(&l, (*remote)(nil))
	require.NoError(t, err)
	assert.True(t, m.Has(match.First))
	assert.False(t, m.Has(match.Second))
	assert.False(t, m.IsComplete())

	m, err = match.New(&l, &r)
	require.NoError(t, err)
	assert.True(t, m.IsComplete())

	got1, ok1 := m.Item1()
	got2, ok2 := m.Item2()
	assert.True(t, ok1)
	assert.True(t, ok2)
	assert.Equal(t, l, got1)
	assert.Equal(t, r, got2)

	// the match holds copies
	l.Name = "changed"
	got1, _ = m.Item1()
	assert.Equal(t, "a", got1.Name)
}

func TestConstructorsAndString(t *testing.T) {
	assert.Equal(t, "(a, A)", match.Paired(local{Name: "a"}, remote{Name: "A"}).String())
	assert.Equal(t, "(a, <none>)", match.OnlyFirst[local, remote](local{Name: "a"}).String())
	assert.Equal(t, "(<none>, A)", match.OnlySecond[local](remote{Name: "A"}).String())
	assert.Equal(t, "first", match.First.String())
	assert.Equal(t, "second", match.Second.String())
	assert.Equal(t, "side(9)", match.Side(9).String())
}
