package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainErrorMessage(t *testing.T) {
	assert.Equal(t, "[NOT_FOUND] principal not found", ErrPrincipalNotFound.Error())

	wrapped := NewDomainErrorWithCause(ErrCodeInternalError, "search backend failed", errors.New("conn refused"))
	assert.Equal(t, "[INTERNAL_ERROR] search backend failed: conn refused", wrapped.Error())
}

func TestDomainErrorIs(t *testing.T) {
	cause := errors.New("conn refused")
	err := fmt.Errorf("search rotations: %w",
		NewDomainErrorWithCause(ErrCodeInternalError, ErrSearchBackend.Message, cause))

	assert.True(t, errors.Is(err, ErrSearchBackend))
	assert.True(t, errors.Is(err, cause))
	assert.False(t, errors.Is(err, ErrPrincipalNotFound))

	var de *DomainError
	assert.True(t, errors.As(err, &de))
	assert.Equal(t, ErrCodeInternalError, de.Code)
}
