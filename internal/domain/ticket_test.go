package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name      string
		current   TicketStatus
		target    TicketStatus
		payload   TransitionPayload
		wantErr   bool
		wantField string
	}{
		{
			name:    "resolve with full payload",
			current: TicketStatusPending,
			target:  TicketStatusResolved,
			payload: TransitionPayload{ResolvedBy: "Jagrit", Resolution: "replaced keyboard"},
		},
		{
			name:    "resolve with actual cost",
			current: TicketStatusPending,
			target:  TicketStatusResolved,
			payload: TransitionPayload{ResolvedBy: "Jagrit", Resolution: "new battery", ActualCost: floatPtr(120)},
		},
		{
			name:    "not resolved needs nothing",
			current: TicketStatusPending,
			target:  TicketStatusNotResolved,
		},
		{
			name:      "resolve without resolver",
			current:   TicketStatusPending,
			target:    TicketStatusResolved,
			payload:   TransitionPayload{Resolution: "fixed"},
			wantErr:   true,
			wantField: "resolved_by",
		},
		{
			name:      "resolve without resolution text",
			current:   TicketStatusPending,
			target:    TicketStatusResolved,
			payload:   TransitionPayload{ResolvedBy: "Jagrit"},
			wantErr:   true,
			wantField: "resolution",
		},
		{
			name:      "resolve with negative cost",
			current:   TicketStatusPending,
			target:    TicketStatusResolved,
			payload:   TransitionPayload{ResolvedBy: "Jagrit", Resolution: "fixed", ActualCost: floatPtr(-1)},
			wantErr:   true,
			wantField: "actual_cost",
		},
		{
			name:      "unknown target",
			current:   TicketStatusPending,
			target:    TicketStatus("reopened"),
			wantErr:   true,
			wantField: "status",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CanTransition(tt.current, tt.target, tt.payload)
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			var fieldErr *FieldError
			require.True(t, errors.As(err, &fieldErr))
			assert.Equal(t, tt.wantField, fieldErr.Field)
		})
	}
}

func TestCanTransitionFromTerminalStates(t *testing.T) {
	payload := TransitionPayload{ResolvedBy: "Jagrit", Resolution: "fixed"}
	for _, current := range []TicketStatus{TicketStatusResolved, TicketStatusNotResolved} {
		for _, target := range []TicketStatus{TicketStatusResolved, TicketStatusNotResolved, TicketStatusPending} {
			err := CanTransition(current, target, payload)
			assert.ErrorIs(t, err, ErrNotPending, "from %s to %s", current, target)
		}
	}
}

func TestValidPriority(t *testing.T) {
	for _, p := range []TicketPriority{TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityUrgent} {
		assert.True(t, ValidPriority(p))
	}
	assert.False(t, ValidPriority(TicketPriority("critical")))
	assert.False(t, ValidPriority(TicketPriority("")))
}
