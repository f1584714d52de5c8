package service

import (
	"errors"

	"connectrpc.com/connect"

	"github.com/payshare/backend/internal/auth"
	"github.com/payshare/backend/internal/storage"
)

// toConnectError maps domain errors onto Connect codes. Anything unknown is
// internal.
func toConnectError(err error) error {
	switch {
	case errors.Is(err, storage.ErrNotFound), errors.Is(err, auth.ErrUserNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, storage.ErrConflict), errors.Is(err, auth.ErrEmailExists):
		return connect.NewError(connect.CodeAlreadyExists, err)
	case errors.Is(err, auth.ErrWeakPassword), errors.Is(err, auth.ErrInvalidEmail):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, auth.ErrInvalidCredentials):
		return connect.NewError(connect.CodeUnauthenticated, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}
