package models

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from, to Status
		ok       bool
	}{
		{StatusPending, StatusInProgress, true},
		{StatusPending, StatusDonePreparing, true},
		{StatusInProgress, StatusDonePreparing, true},
		{StatusInProgress, StatusPending, false},
		{StatusDonePreparing, StatusInProgress, false},
		{StatusDonePreparing, StatusDonePreparing, false},
		{StatusPending, StatusPending, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			err := tt.from.Transition(tt.to)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.True(t, errors.Is(err, ErrIllegalTransition), "got %v", err)
			}
		})
	}
}

func TestStatusTransitionUnknownTarget(t *testing.T) {
	err := StatusPending.Transition(Status("Eaten"))
	assert.True(t, errors.Is(err, ErrUnknownStatus))
}

func TestParseStatus(t *testing.T) {
	st, err := ParseStatus("In Progress")
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, st)

	_, err = ParseStatus("in progress")
	assert.True(t, errors.Is(err, ErrUnknownStatus))
}

func TestDonePreparingIsTerminal(t *testing.T) {
	assert.True(t, StatusDonePreparing.IsTerminal())
	assert.False(t, StatusPending.IsTerminal())
}

func TestDishPriceIsJSONNumber(t *testing.T) {
	var in struct {
		Price decimal.Decimal `json:"price"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"price":"12.50"}`), &in))

	out, err := json.Marshal(Dish{DishName: "Kung Pao", Price: in.Price})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, 12.5, decoded["price"])
}
