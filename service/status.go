package service

import (
	"context"
	"errors"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"okinoko-gomoku/engine"
	"okinoko-gomoku/store"
)

// ErrorDomain identifies okinoko in errdetails.ErrorInfo.
const ErrorDomain = "okinoko.gomoku"

// Reasons for failures that carry no engine code.
const (
	ReasonNotFound      = "NOT_FOUND"
	ReasonAlreadyExists = "ALREADY_EXISTS"
	ReasonInternal      = "INTERNAL"
)

var grpcCodes = map[engine.Code]codes.Code{
	engine.CodeGameNotActive:        codes.FailedPrecondition,
	engine.CodeWrongTurn:            codes.FailedPrecondition,
	engine.CodeOutOfBounds:          codes.InvalidArgument,
	engine.CodePositionOccupied:     codes.FailedPrecondition,
	engine.CodeUnsupportedGameType:  codes.Unimplemented,
	engine.CodeSequentialMoveNumber: codes.Aborted,
	engine.CodeInvalidTransition:    codes.FailedPrecondition,
	engine.CodeNotAPlayer:           codes.PermissionDenied,
	engine.CodeOpponentRequired:     codes.FailedPrecondition,
	engine.CodeOpeningPhase:         codes.FailedPrecondition,
	engine.CodeTimeoutNotReached:    codes.FailedPrecondition,
	engine.CodeInvalidRuleSet:       codes.InvalidArgument,
	engine.CodeInvalidMoveLog:       codes.DataLoss,
}

// StatusFromError converts err into a gRPC status error carrying an
// ErrorInfo detail with the stable reason and the error's metadata.
// Nil stays nil; errors that already are statuses pass through.
func StatusFromError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	code, reason := classify(err)
	st := status.New(code, err.Error())
	detailed, detailErr := st.WithDetails(&errdetails.ErrorInfo{
		Reason:   reason,
		Domain:   ErrorDomain,
		Metadata: engine.Metadata(err),
	})
	if detailErr != nil {
		return st.Err()
	}
	return detailed.Err()
}

func classify(err error) (codes.Code, string) {
	switch {
	case errors.Is(err, context.Canceled):
		return codes.Canceled, "CANCELED"
	case errors.Is(err, context.DeadlineExceeded):
		return codes.DeadlineExceeded, "DEADLINE_EXCEEDED"
	case errors.Is(err, store.ErrNotFound):
		return codes.NotFound, ReasonNotFound
	case errors.Is(err, store.ErrAlreadyExists):
		return codes.AlreadyExists, ReasonAlreadyExists
	}
	if c := engine.CodeOf(err); c != engine.CodeUnknown {
		if gc, ok := grpcCodes[c]; ok {
			return gc, string(c)
		}
	}
	return codes.Internal, ReasonInternal
}

// ReasonOf extracts the ErrorInfo reason from a status error, or "".
func ReasonOf(err error) string {
	st, ok := status.FromError(err)
	if !ok {
		return ""
	}
	for _, d := range st.Details() {
		if info, ok := d.(*errdetails.ErrorInfo); ok {
			return info.GetReason()
		}
	}
	return ""
}
