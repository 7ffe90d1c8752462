package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplicationStatusTransitions(t *testing.T) {
	t.Parallel()

	cases := []struct {
		from    ApplicationStatus
		to      ApplicationStatus
		allowed bool
	}{
		{ApplicationStatusPendingReview, ApplicationStatusApproved, true},
		{ApplicationStatusPendingReview, ApplicationStatusRejected, true},
		{ApplicationStatusPendingReview, ApplicationStatusAccepted, false},
		{ApplicationStatusApproved, ApplicationStatusAccepted, true},
		{ApplicationStatusApproved, ApplicationStatusRejected, true},
		{ApplicationStatusApproved, ApplicationStatusPendingReview, false},
		{ApplicationStatusRejected, ApplicationStatusPendingReview, false},
		{ApplicationStatusRejected, ApplicationStatusApproved, false},
		{ApplicationStatusAccepted, ApplicationStatusRejected, false},
		{ApplicationStatusAccepted, ApplicationStatusPendingReview, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransition(tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestApplicationStatusTerminal(t *testing.T) {
	t.Parallel()

	assert.False(t, ApplicationStatusPendingReview.IsTerminal())
	assert.False(t, ApplicationStatusApproved.IsTerminal())
	assert.True(t, ApplicationStatusRejected.IsTerminal())
	assert.True(t, ApplicationStatusAccepted.IsTerminal())
}
