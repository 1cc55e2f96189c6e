package service

import (
	"context"
	"errors"
	"net/http"

	commonerrors "github.com/vincentyono/icp-smart-contract/internal/common/errors"
)

// storeError turns an unexpected repository failure into a domain error.
func storeError(err error) error {
	if errors.Is(err, commonerrors.ErrCircuitOpen) {
		return ErrServiceUnavailable.WithCause(err)
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return ErrServiceUnavailable.WithCause(err)
	}
	return commonerrors.ErrDatabaseError.WithCause(err)
}

func newInternalError(code, message string, cause error) commonerrors.DomainError {
	err := commonerrors.NewDomainError(
		code,
		commonerrors.CategoryInternal,
		http.StatusInternalServerError,
		message,
	)
	if cause != nil {
		err = err.WithCause(cause)
	}
	return err
}
