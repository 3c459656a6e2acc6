package download

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionTo_ValidTransitions(t *testing.T) {
	tests := []struct {
		from Status
		to   Status
	}{
		{StatusCreated, StatusWorkspaceAcquired},
		{StatusWorkspaceAcquired, StatusConfigSelected},
		{StatusConfigSelected, StatusExtracting},
		{StatusExtracting, StatusResolving},
		{StatusResolving, StatusCompleted},
		{StatusCreated, StatusFailed},
		{StatusWorkspaceAcquired, StatusFailed},
		{StatusConfigSelected, StatusFailed},
		{StatusExtracting, StatusFailed},
		{StatusResolving, StatusFailed},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.True(t, tt.from.CanTransitionTo(tt.to),
				"%s should be able to transition to %s", tt.from, tt.to)
		})
	}
}

func TestCanTransitionTo_InvalidTransitions(t *testing.T) {
	tests := []struct {
		from Status
		to   Status
	}{
		{StatusCreated, StatusExtracting},          // skip workspace
		{StatusWorkspaceAcquired, StatusResolving}, // skip extraction
		{StatusExtracting, StatusCompleted},        // skip resolving
		{StatusResolving, StatusExtracting},        // backwards
		{StatusCompleted, StatusFailed},            // terminal
		{StatusFailed, StatusCreated},              // terminal, no retry
		{StatusCompleted, StatusCreated},           // terminal
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.False(t, tt.from.CanTransitionTo(tt.to),
				"%s should NOT be able to transition to %s", tt.from, tt.to)
		})
	}
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusFailed.IsTerminal())
	for _, s := range []Status{StatusCreated, StatusWorkspaceAcquired, StatusConfigSelected, StatusExtracting, StatusResolving} {
		assert.False(t, s.IsTerminal(), "%s should not be terminal", s)
	}
}
