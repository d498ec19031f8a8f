package gcal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStateStore_IssueAndConsume(t *testing.T) {
	store := NewStateStore(time.Minute)

	state := store.Issue()
	assert.NotEmpty(t, state)

	assert.True(t, store.Consume(state))

	// Single use
	assert.False(t, store.Consume(state))
}

func TestStateStore_UnknownState(t *testing.T) {
	store := NewStateStore(time.Minute)

	assert.False(t, store.Consume("never-issued"))
	assert.False(t, store.Consume(""))
}

func TestStateStore_ExpiredState(t *testing.T) {
	store := NewStateStore(-time.Second)

	state := store.Issue()
	assert.False(t, store.Consume(state))
}

func TestStateStore_IndependentStates(t *testing.T) {
	store := NewStateStore(time.Minute)

	first := store.Issue()
	second := store.Issue()
	assert.NotEqual(t, first, second)

	assert.True(t, store.Consume(second))
	assert.True(t, store.Consume(first))
}
