package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Is(t *testing.T) {
	wrapped := fmt.Errorf("removing member: %w", Conflict("Cannot remove the last admin."))

	assert.True(t, errors.Is(wrapped, &Error{Kind: KindConflict}))
	assert.True(t, errors.Is(wrapped, Conflict("Cannot remove the last admin.")))
	assert.False(t, errors.Is(wrapped, Conflict("something else")))
	assert.False(t, errors.Is(wrapped, &Error{Kind: KindVersionConflict}))

	assert.True(t, errors.Is(fmt.Errorf("gate: %w", ErrNotMember), ErrNotMember))
	assert.False(t, errors.Is(ErrNotMember, ErrInsufficientRole))
	assert.False(t, errors.Is(errors.New("boom"), ErrNotMember))
}

func TestKind_Status(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{KindNotFound, http.StatusNotFound},
		{KindForbidden, http.StatusForbidden},
		{KindValidation, http.StatusBadRequest},
		{KindConflict, http.StatusConflict},
		{KindVersionConflict, http.StatusConflict},
		{Kind(0), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.Status())
		})
	}
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindValidation, KindOf(fmt.Errorf("x: %w", Validation("name", "Name is required."))))
	assert.Equal(t, Kind(0), KindOf(errors.New("db down")))

	e, ok := As(fmt.Errorf("x: %w", Validation("name", "Name is required.")))
	assert.True(t, ok)
	assert.Equal(t, "name", e.Field)
}
