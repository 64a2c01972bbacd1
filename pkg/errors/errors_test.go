package errors

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAppErrorErrorIncludesInternal(t *testing.T) {
	base := errors.New("connection refused")
	appErr := Wrap(base, "remote store unreachable")

	require.Equal(t, "remote store unreachable: connection refused", appErr.Error())
	require.ErrorIs(t, appErr, base)
}

func TestFromErrorPassesThroughAppError(t *testing.T) {
	appErr := NewBadRequest("trip date must be YYYY-MM-DD")

	converted := FromError(appErr)
	require.Same(t, appErr, converted)
}

func TestFromErrorWrapsGenericError(t *testing.T) {
	err := errors.New("boom")

	converted := FromError(err)
	require.Equal(t, ErrInternalServer.Code, converted.Code)
	require.Equal(t, http.StatusInternalServerError, converted.StatusCode)
	require.ErrorIs(t, converted, err)
}

func TestFromErrorNil(t *testing.T) {
	require.Nil(t, FromError(nil))
}

func TestWithInternalCopies(t *testing.T) {
	inner := errors.New("nested")
	copied := ErrNotFound.WithInternal(inner)

	require.NotSame(t, ErrNotFound, copied)
	require.Nil(t, ErrNotFound.Internal)
	require.ErrorIs(t, copied, inner)
}
