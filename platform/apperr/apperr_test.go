package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{KindValidation, http.StatusBadRequest},
		{KindBadRequest, http.StatusBadRequest},
		{KindUnauthorized, http.StatusUnauthorized},
		{KindNotFound, http.StatusNotFound},
		{KindUnavailable, http.StatusServiceUnavailable},
		{KindInternal, http.StatusInternalServerError},
		{KindUnknown, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, New(tt.kind, "x").HTTPStatus())
		})
	}
}

func TestErrorMessageIncludesOp(t *testing.T) {
	err := Validation("bad input").WithOp("mpin.Evaluate")
	assert.Equal(t, "mpin.Evaluate: bad input", err.Error())
	assert.Equal(t, "bad input", Validation("bad input").Error())
}

func TestKindAndCodeSurviveWrapping(t *testing.T) {
	sentinel := errors.New("sentinel")
	domainErr := Wrap(KindValidation, "invalid", sentinel).WithCode("INVALID_FORMAT")
	wrapped := fmt.Errorf("outer: %w", domainErr)

	require.True(t, Is(wrapped, KindValidation))
	assert.Equal(t, "INVALID_FORMAT", GetCode(wrapped))
	assert.ErrorIs(t, wrapped, sentinel)

	assert.Equal(t, KindUnknown, GetKind(errors.New("plain")))
	assert.Empty(t, GetCode(errors.New("plain")))
}
