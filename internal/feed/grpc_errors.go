package feed

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/signalsfoundry/satwatch/core"
)

var (
	// ErrInvalidSample is returned for a position, track point or observer
	// that fails validation.
	ErrInvalidSample = errors.New("invalid sample")
	// ErrInvalidInfo is returned for unusable satellite metadata.
	ErrInvalidInfo = errors.New("invalid satellite info")
	// ErrUnavailable is returned when the service has no dashboard bound.
	ErrUnavailable = errors.New("dashboard not available")
)

// ToStatusError maps feed errors onto gRPC status codes.
func ToStatusError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	switch {
	case errors.Is(err, ErrInvalidSample),
		errors.Is(err, ErrInvalidInfo):
		return status.Error(codes.InvalidArgument, err.Error())

	case errors.Is(err, core.ErrNonMonotonicTrack):
		return status.Error(codes.FailedPrecondition, err.Error())

	case errors.Is(err, ErrUnavailable):
		return status.Error(codes.Unavailable, err.Error())

	default:
		return status.Error(codes.Internal, err.Error())
	}
}
