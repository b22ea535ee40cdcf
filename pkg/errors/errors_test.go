// Package errors_test covers the AppError type, factory functions, and
// error-chain helpers.
package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nebulahq/hacknebula/pkg/errors"
)

func TestNew_FieldsAreSetCorrectly(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		code    errors.ErrorCode
		message string
	}{
		{"internal error", errors.ErrCodeInternal, "unexpected failure"},
		{"team not found", errors.ErrCodeTeamNotFound, "team 7f3a not found"},
		{"chip quota", errors.ErrCodeChipQuotaExceeded, "daily chip quota exhausted"},
		{"validation", errors.ErrCodeValidation, "score must be in [0,10]"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ae := errors.New(tc.code, tc.message)

			require.NotNil(t, ae)
			assert.Equal(t, tc.code, ae.Code)
			assert.Equal(t, tc.message, ae.Message)
			assert.Empty(t, ae.Detail)
			assert.Nil(t, ae.Cause)
		})
	}
}

func TestError_FormatIncludesDetailWhenSet(t *testing.T) {
	t.Parallel()

	ae := errors.New(errors.ErrCodeLandNotFound, "land not found")
	assert.Equal(t, "[LAND_001] land not found", ae.Error())

	withDetail := ae.WithDetail("team_id=42")
	assert.Equal(t, "[LAND_001] land not found: team_id=42", withDetail.Error())
	// The receiver is not mutated.
	assert.Empty(t, ae.Detail)
}

func TestWrap_NilReturnsNil(t *testing.T) {
	t.Parallel()

	var ae *errors.AppError = errors.Wrap(nil, errors.ErrCodeDatabaseError, "query failed")
	assert.Nil(t, ae)
}

func TestWrap_PreservesDomainCodeForInternal(t *testing.T) {
	t.Parallel()

	inner := errors.New(errors.ErrCodeTeamFull, "team is full")
	wrapped := errors.Wrap(inner, errors.ErrCodeInternal, "join failed")

	// Wrapping with the generic internal code keeps the domain classification.
	assert.Equal(t, errors.ErrCodeTeamFull, wrapped.Code)
	assert.True(t, stderrors.Is(wrapped, inner) || errors.IsCode(wrapped, errors.ErrCodeTeamFull))
}

func TestWrap_ChainIsTraversable(t *testing.T) {
	t.Parallel()

	root := fmt.Errorf("connection refused")
	mid := errors.Wrap(root, errors.ErrCodeDatabaseError, "query failed")
	outer := errors.Wrap(mid, errors.ErrCodeDatabaseError, "list teams failed")

	assert.ErrorIs(t, outer, root)

	var ae *errors.AppError
	require.True(t, stderrors.As(outer, &ae))
	assert.Equal(t, errors.ErrCodeDatabaseError, ae.Code)
}

func TestIsNotFound_CoversModuleSpecificCodes(t *testing.T) {
	t.Parallel()

	cases := []struct {
		code errors.ErrorCode
		want bool
	}{
		{errors.ErrCodeNotFound, true},
		{errors.ErrCodeTeamNotFound, true},
		{errors.ErrCodeSubmissionNotFound, true},
		{errors.ErrCodeLandNotFound, true},
		{errors.ErrCodeSessionNotFound, true},
		{errors.ErrCodePostNotFound, true},
		{errors.ErrCodeConflict, false},
		{errors.ErrCodeValidation, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, errors.IsNotFound(errors.New(tc.code, "x")), "code %s", tc.code)
	}
}

func TestIsNotFound_SeesThroughWrapping(t *testing.T) {
	t.Parallel()

	inner := errors.New(errors.ErrCodeLandNotFound, "land not found")
	outer := fmt.Errorf("galaxy map: %w", inner)
	assert.True(t, errors.IsNotFound(outer))
}

func TestIsRateLimit_IncludesChipQuota(t *testing.T) {
	t.Parallel()

	assert.True(t, errors.IsRateLimit(errors.New(errors.ErrCodeChipQuotaExceeded, "quota")))
	assert.True(t, errors.IsRateLimit(errors.RateLimit("slow down")))
	assert.False(t, errors.IsRateLimit(errors.New(errors.ErrCodeConflict, "x")))
}

func TestGetCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, errors.CodeOK, errors.GetCode(nil))
	assert.Equal(t, errors.ErrCodeChipAmountInvalid,
		errors.GetCode(errors.New(errors.ErrCodeChipAmountInvalid, "x")))
	assert.Equal(t, errors.ErrCodeInternal, errors.GetCode(fmt.Errorf("plain")))
}

func TestWithCause(t *testing.T) {
	t.Parallel()

	root := fmt.Errorf("io timeout")
	ae := errors.Internal("storage unavailable").WithCause(root)
	assert.ErrorIs(t, ae, root)

	var nilErr *errors.AppError
	assert.Nil(t, nilErr.WithCause(root))
	assert.Nil(t, nilErr.WithDetail("x"))
}
