package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAppErrorChain(t *testing.T) {
	base := errors.New("quantity must be at least 1")
	appErr := NewAppError(CodeInvalidQuantity, "add Apple", base).WithDetails(map[string]int{"quantity": 0})
	wrapped := fmt.Errorf("scenario: %w", appErr)

	require.True(t, IsAppError(wrapped))
	require.True(t, errors.Is(wrapped, base))
	require.Equal(t, CodeInvalidQuantity, CodeOf(wrapped))
	require.Equal(t, "add Apple: quantity must be at least 1", appErr.Error())
	require.Equal(t, map[string]int{"quantity": 0}, appErr.Details)

	require.False(t, IsAppError(base))
	require.Empty(t, CodeOf(base))

	var nilErr *AppError
	require.Empty(t, nilErr.Error())
	require.Nil(t, nilErr.Unwrap())
	require.Equal(t, "bare", (&AppError{Message: "bare"}).Error())
}
