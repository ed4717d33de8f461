package apperr

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{NewValidation().Add("title", "too short"), http.StatusBadRequest},
		{Precondition("ticket has no assignee"), http.StatusPreconditionFailed},
		{ErrNotFound, http.StatusNotFound},
		{ErrForbidden, http.StatusForbidden},
		{ErrUnauthorized, http.StatusUnauthorized},
		{ErrConflict, http.StatusConflict},
		{fmt.Errorf("db exploded"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Status(tc.err), tc.err.Error())
	}
}

func TestStatus_UnwrapsWrappedSentinels(t *testing.T) {
	err := fmt.Errorf("citizen role required: %w", ErrForbidden)
	assert.Equal(t, http.StatusForbidden, Status(err))
}

func TestValidationError_OrNil(t *testing.T) {
	assert.NoError(t, NewValidation().OrNil())

	err := NewValidation().Add("phone", "must be 10-15 digits").OrNil()
	assert.Error(t, err)
	assert.Equal(t, map[string]string{"phone": "must be 10-15 digits"}, FieldsOf(err))
}

func TestValidationError_MessageIsStable(t *testing.T) {
	err := NewValidation().
		Add("title", "too short").
		Add("images", "required")
	assert.Equal(t, "validation failed: images: required; title: too short", err.Error())
}

func TestFieldsOf_NonValidationError(t *testing.T) {
	assert.Nil(t, FieldsOf(ErrNotFound))
}
