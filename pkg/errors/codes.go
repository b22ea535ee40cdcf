package errors

import "net/http"

// ErrorCode is the typed identifier of a specific failure condition.
// Codes are grouped by module prefix: COMMON, TEAM, SUB, JUDGE, LAND, CHIP,
// SCHED, FEED, MAP.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common error codes.
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeUnauthorized       ErrorCode = "COMMON_003"
	ErrCodeForbidden          ErrorCode = "COMMON_004"
	ErrCodeNotFound           ErrorCode = "COMMON_005"
	ErrCodeConflict           ErrorCode = "COMMON_006"
	ErrCodeTooManyRequests    ErrorCode = "COMMON_007"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_008"
	ErrCodeTimeout            ErrorCode = "COMMON_009"
	ErrCodeValidation         ErrorCode = "COMMON_010"
	ErrCodeSerialization      ErrorCode = "COMMON_011"
	ErrCodeDatabaseError      ErrorCode = "COMMON_012"
	ErrCodeCacheError         ErrorCode = "COMMON_013"
	ErrCodeStorageError       ErrorCode = "COMMON_014"
	ErrCodeMessagingError     ErrorCode = "COMMON_015"
	ErrCodeSearchError        ErrorCode = "COMMON_016"

	// CodeOK is the sentinel returned by GetCode for a nil error.
	CodeOK ErrorCode = "OK"
)

// Team module error codes.
const (
	ErrCodeTeamNotFound      ErrorCode = "TEAM_001"
	ErrCodeTeamNameTaken     ErrorCode = "TEAM_002"
	ErrCodeTeamFull          ErrorCode = "TEAM_003"
	ErrCodeTeamLocked        ErrorCode = "TEAM_004"
	ErrCodeAlreadyOnTeam     ErrorCode = "TEAM_005"
	ErrCodeNotTeamMember     ErrorCode = "TEAM_006"
	ErrCodeLastLeaderLeaving ErrorCode = "TEAM_007"
)

// Submission module error codes.
const (
	ErrCodeSubmissionNotFound  ErrorCode = "SUB_001"
	ErrCodeSubmissionFrozen    ErrorCode = "SUB_002"
	ErrCodeSubmissionIncomplete ErrorCode = "SUB_003"
	ErrCodeAssetNotFound       ErrorCode = "SUB_004"
	ErrCodeAssetTooLarge       ErrorCode = "SUB_005"
)

// Judging module error codes.
const (
	ErrCodeScorecardNotFound ErrorCode = "JUDGE_001"
	ErrCodeScoreOutOfRange   ErrorCode = "JUDGE_002"
	ErrCodeCriteriaInvalid   ErrorCode = "JUDGE_003"
	ErrCodeJudgingClosed     ErrorCode = "JUDGE_004"
)

// Planets / land module error codes.
const (
	ErrCodeLandNotFound   ErrorCode = "LAND_001"
	ErrCodeLandExists     ErrorCode = "LAND_002"
	ErrCodeBuildLogEmpty  ErrorCode = "LAND_003"
)

// Chip allocation error codes.
const (
	ErrCodeChipQuotaExceeded ErrorCode = "CHIP_001"
	ErrCodeChipAmountInvalid ErrorCode = "CHIP_002"
	ErrCodeSelfAllocation    ErrorCode = "CHIP_003"
)

// Schedule module error codes.
const (
	ErrCodeSessionNotFound ErrorCode = "SCHED_001"
	ErrCodeSessionOverlap  ErrorCode = "SCHED_002"
	ErrCodeSessionInvalid  ErrorCode = "SCHED_003"
)

// Feed module error codes.
const (
	ErrCodePostNotFound ErrorCode = "FEED_001"
	ErrCodePostEmpty    ErrorCode = "FEED_002"
)

// Galaxy-map error codes.
const (
	ErrCodeMapUnavailable ErrorCode = "MAP_001"
)

// errorCodeHTTPStatus maps ErrorCodes to HTTP status codes.
var errorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeForbidden:          http.StatusForbidden,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeTooManyRequests:    http.StatusTooManyRequests,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeDatabaseError:      http.StatusInternalServerError,
	ErrCodeCacheError:         http.StatusInternalServerError,
	ErrCodeStorageError:       http.StatusInternalServerError,
	ErrCodeMessagingError:     http.StatusInternalServerError,
	ErrCodeSearchError:        http.StatusInternalServerError,

	ErrCodeTeamNotFound:      http.StatusNotFound,
	ErrCodeTeamNameTaken:     http.StatusConflict,
	ErrCodeTeamFull:          http.StatusConflict,
	ErrCodeTeamLocked:        http.StatusConflict,
	ErrCodeAlreadyOnTeam:     http.StatusConflict,
	ErrCodeNotTeamMember:     http.StatusForbidden,
	ErrCodeLastLeaderLeaving: http.StatusConflict,

	ErrCodeSubmissionNotFound:   http.StatusNotFound,
	ErrCodeSubmissionFrozen:     http.StatusConflict,
	ErrCodeSubmissionIncomplete: http.StatusUnprocessableEntity,
	ErrCodeAssetNotFound:        http.StatusNotFound,
	ErrCodeAssetTooLarge:        http.StatusRequestEntityTooLarge,

	ErrCodeScorecardNotFound: http.StatusNotFound,
	ErrCodeScoreOutOfRange:   http.StatusUnprocessableEntity,
	ErrCodeCriteriaInvalid:   http.StatusUnprocessableEntity,
	ErrCodeJudgingClosed:     http.StatusConflict,

	ErrCodeLandNotFound:  http.StatusNotFound,
	ErrCodeLandExists:    http.StatusConflict,
	ErrCodeBuildLogEmpty: http.StatusUnprocessableEntity,

	ErrCodeChipQuotaExceeded: http.StatusTooManyRequests,
	ErrCodeChipAmountInvalid: http.StatusUnprocessableEntity,
	ErrCodeSelfAllocation:    http.StatusForbidden,

	ErrCodeSessionNotFound: http.StatusNotFound,
	ErrCodeSessionOverlap:  http.StatusConflict,
	ErrCodeSessionInvalid:  http.StatusUnprocessableEntity,

	ErrCodePostNotFound: http.StatusNotFound,
	ErrCodePostEmpty:    http.StatusUnprocessableEntity,

	ErrCodeMapUnavailable: http.StatusServiceUnavailable,
}

// HTTPStatusForCode returns the HTTP status for an ErrorCode, defaulting to
// 500 for unknown codes.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// IsClientError reports whether the ErrorCode maps to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// IsServerError reports whether the ErrorCode maps to a 5xx HTTP status.
func IsServerError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 500 && status < 600
}
