package code

import (
	"net/http"
	"testing"

	"github.com/maxiaolu1981/cretem/nexuscore/errors"
	"github.com/stretchr/testify/assert"
)

func TestRegisteredCodes(t *testing.T) {
	tests := []struct {
		code int
		http int
		msg  string
	}{
		{ErrConfiguration, http.StatusInternalServerError, "Configuration error"},
		{ErrAuthenticationFailure, http.StatusUnauthorized, "Authentication failure"},
		{ErrNotFound, http.StatusNotFound, "Resource not found"},
		{ErrUnexpectedResponse, http.StatusBadGateway, "Unexpected response"},
		{ErrTransport, http.StatusServiceUnavailable, "Transport failure"},
	}
	for _, tt := range tests {
		err := errors.WithCode(tt.code, "boom")
		coder := errors.ParseCoderByErr(err)
		assert.Equal(t, tt.code, coder.Code())
		assert.Equal(t, tt.http, coder.HTTPStatus())
		assert.Equal(t, tt.msg, Message(err))
		assert.True(t, errors.IsCode(err, tt.code))
	}
}

func TestIsCodeFollowsWrappedCause(t *testing.T) {
	inner := errors.WithCode(ErrNotFound, "product %q not listed", "New product 1")
	outer := errors.WrapC(inner, ErrUnexpectedResponse, "round trip failed")

	assert.True(t, errors.IsCode(outer, ErrUnexpectedResponse))
	assert.True(t, errors.IsCode(outer, ErrNotFound))
	assert.False(t, errors.IsCode(outer, ErrConfiguration))
	assert.Equal(t, "", Message(nil))
}

func TestErrCodeDefaultsTo500(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, ErrCode{C: 1}.HTTPStatus())
}
