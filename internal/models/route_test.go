package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateTransitionAllowsForwardSteps(t *testing.T) {
	assert.NoError(t, ValidateTransition(RouteStatusPending, RouteStatusStarted))
	assert.NoError(t, ValidateTransition(RouteStatusStarted, RouteStatusFinished))
}

func TestValidateTransitionRejectsSkipsAndReversals(t *testing.T) {
	cases := []struct {
		from string
		to   string
	}{
		{RouteStatusPending, RouteStatusFinished},
		{RouteStatusPending, RouteStatusPending},
		{RouteStatusStarted, RouteStatusPending},
		{RouteStatusFinished, RouteStatusStarted},
		{RouteStatusFinished, RouteStatusPending},
		{"bogus", RouteStatusStarted},
	}

	for _, c := range cases {
		err := ValidateTransition(c.from, c.to)
		assert.Error(t, err, "%s -> %s should be rejected", c.from, c.to)

		var invalid *ErrInvalidTransition
		assert.ErrorAs(t, err, &invalid)
		assert.Equal(t, c.from, invalid.From)
		assert.Equal(t, c.to, invalid.To)
	}
}

func TestErrInvalidTransitionMessage(t *testing.T) {
	err := &ErrInvalidTransition{From: RouteStatusPending, To: RouteStatusFinished}
	assert.Equal(t, "invalid route transition: pending -> finished", err.Error())
}
