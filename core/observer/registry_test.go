package observer_test

import (
	"testing"

	"datasync/core/observer"

	"github.com/stretchr/testify/assert"
)

func TestRegistry_NotifyInRegistrationOrder(t *testing.T) {
	var r observer.Registry[int]
	var calls []string

	r.Subscribe(func(v int) { calls = append(calls, "first") })
	r.Subscribe(func(v int) { calls = append(calls, "second") })
	r.Subscribe(func(v int) { calls = append(calls, "third") })

	r.Notify(1)

	assert.Equal(t, []string{"first", "second", "third"}, calls)
}

func TestRegistry_Unsubscribe(t *testing.T) {
	var r observer.Registry[string]
	var got []string

	sub := r.Subscribe(func(v string) { got = append(got, "a:"+v) })
	r.Subscribe(func(v string) { got = append(got, "b:"+v) })
	assert.Equal(t, 2, r.Len())

	sub.Unsubscribe()
	sub.Unsubscribe()
	assert.Equal(t, 1, r.Len())

	r.Notify("x")
	assert.Equal(t, []string{"b:x"}, got)
}

func TestRegistry_NilCallback(t *testing.T) {
	var r observer.Registry[int]

	sub := r.Subscribe(nil)
	assert.NotNil(t, sub)
	assert.Equal(t, 0, r.Len())
	sub.Unsubscribe()
}

func TestRegistry_UnsubscribeDuringNotify(t *testing.T) {
	var r observer.Registry[int]
	count := 0

	var sub observer.Subscription
	sub = r.Subscribe(func(int) {
		count++
		sub.Unsubscribe()
	})

	r.Notify(1)
	r.Notify(2)

	assert.Equal(t, 1, count)
}
