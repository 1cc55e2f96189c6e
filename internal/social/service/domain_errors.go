package service

import (
	"net/http"

	commonerrors "github.com/vincentyono/icp-smart-contract/internal/common/errors"
)

var (
	ErrInvalidUsername = commonerrors.NewDomainError(
		"INVALID_USERNAME",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"invalid username",
	)

	ErrInvalidPassword = commonerrors.NewDomainError(
		"INVALID_PASSWORD",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"invalid password",
	)

	ErrInvalidID = commonerrors.NewDomainError(
		"INVALID_ID",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"invalid user or content id",
	)

	ErrInvalidParameter = commonerrors.NewDomainError(
		"INVALID_PARAMETER",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"invalid parameter",
	)

	ErrUserNotFound = commonerrors.NewDomainError(
		"USER_NOT_FOUND",
		commonerrors.CategoryNotFound,
		http.StatusNotFound,
		"user not found",
	)

	ErrContentNotFound = commonerrors.NewDomainError(
		"CONTENT_NOT_FOUND",
		commonerrors.CategoryNotFound,
		http.StatusNotFound,
		"content not found",
	)

	ErrNoSuchUser = commonerrors.NewDomainError(
		"NO_SUCH_USER",
		commonerrors.CategoryNotFound,
		http.StatusNotFound,
		"user doesn't exist",
	)

	ErrNotSignedIn = commonerrors.NewDomainError(
		"NOT_SIGNED_IN",
		commonerrors.CategoryAuth,
		http.StatusUnauthorized,
		"you're not signed in",
	)

	ErrBadCredentials = commonerrors.NewDomainError(
		"BAD_CREDENTIALS",
		commonerrors.CategoryAuth,
		http.StatusUnauthorized,
		"password is incorrect",
	)

	ErrSessionMismatch = commonerrors.NewDomainError(
		"SESSION_MISMATCH",
		commonerrors.CategoryAuth,
		http.StatusForbidden,
		"active session belongs to a different user",
	)

	ErrIDGenerationFailed = commonerrors.NewDomainError(
		"ID_GENERATION_FAILED",
		commonerrors.CategoryInternal,
		http.StatusInternalServerError,
		"failed to generate identifier",
	)

	ErrServiceUnavailable = commonerrors.NewDomainError(
		"SERVICE_UNAVAILABLE",
		commonerrors.CategoryExternal,
		http.StatusServiceUnavailable,
		"service temporarily unavailable",
	)
)
