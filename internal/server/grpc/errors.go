package grpc

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/sqlauth/internal/common"
)

// toStatus maps an auth error onto a gRPC status. Backend causes are not
// leaked to the caller.
func toStatus(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, common.ErrMissingField), errors.Is(err, common.ErrMalformedPrincipal):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrInvalidCredentials):
		return status.Error(codes.Unauthenticated, common.ErrInvalidCredentials.Error())
	case errors.Is(err, common.ErrBackendUnavailable):
		return status.Error(codes.Unavailable, common.ErrBackendUnavailable.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	case errors.Is(err, common.ErrAmbiguousIdentity):
		return status.Error(codes.Internal, common.ErrAmbiguousIdentity.Error())
	default:
		return status.Error(codes.Internal, "internal error")
	}
}

// fromStatus turns a status returned by the server back into an error
// matching the common sentinels.
func fromStatus(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	msg := st.Message()

	var kind error
	switch st.Code() {
	case codes.OK:
		return nil
	case codes.InvalidArgument:
		kind = common.ErrMissingField
		if strings.Contains(msg, common.ErrMalformedPrincipal.Error()) {
			kind = common.ErrMalformedPrincipal
		}
	case codes.Unauthenticated:
		kind = common.ErrInvalidCredentials
	case codes.Unavailable:
		kind = common.ErrBackendUnavailable
	case codes.Canceled:
		kind = context.Canceled
	case codes.DeadlineExceeded:
		kind = context.DeadlineExceeded
	case codes.Internal:
		if msg == common.ErrAmbiguousIdentity.Error() {
			kind = common.ErrAmbiguousIdentity
		}
	}
	if kind == nil {
		return err
	}
	return &remoteError{kind: kind, status: err}
}

type remoteError struct {
	kind   error
	status error
}

func (e *remoteError) Error() string   { return e.status.Error() }
func (e *remoteError) Unwrap() []error { return []error{e.kind, e.status} }
