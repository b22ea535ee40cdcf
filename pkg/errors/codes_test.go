package errors_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nebulahq/hacknebula/pkg/errors"
)

func TestHTTPStatusForCode(t *testing.T) {
	t.Parallel()

	cases := []struct {
		code errors.ErrorCode
		want int
	}{
		{errors.ErrCodeTeamNotFound, http.StatusNotFound},
		{errors.ErrCodeTeamNameTaken, http.StatusConflict},
		{errors.ErrCodeChipQuotaExceeded, http.StatusTooManyRequests},
		{errors.ErrCodeScoreOutOfRange, http.StatusUnprocessableEntity},
		{errors.ErrCodeAssetTooLarge, http.StatusRequestEntityTooLarge},
		{errors.ErrCodeUnauthorized, http.StatusUnauthorized},
		{errors.ErrCodeMapUnavailable, http.StatusServiceUnavailable},
		{errors.ErrorCode("BOGUS_999"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, errors.HTTPStatusForCode(tc.code), "code %s", tc.code)
	}
}

func TestIsClientServerError(t *testing.T) {
	t.Parallel()

	assert.True(t, errors.IsClientError(errors.ErrCodeChipAmountInvalid))
	assert.False(t, errors.IsServerError(errors.ErrCodeChipAmountInvalid))

	assert.True(t, errors.IsServerError(errors.ErrCodeDatabaseError))
	assert.False(t, errors.IsClientError(errors.ErrCodeDatabaseError))
}
