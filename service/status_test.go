package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"okinoko-gomoku/engine"
	"okinoko-gomoku/store"
)

func TestStatusFromError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		code   codes.Code
		reason string
	}{
		{"out of bounds", &engine.OutOfBoundsError{Row: 15, Col: 0, Size: 15}, codes.InvalidArgument, "OUT_OF_BOUNDS"},
		{"wrong turn", &engine.WrongTurnError{Expected: engine.White}, codes.FailedPrecondition, "WRONG_TURN"},
		{"occupied", &engine.PositionOccupiedError{Row: 1, Col: 2}, codes.FailedPrecondition, "POSITION_OCCUPIED"},
		{"not a player", engine.NotAPlayer("mallory"), codes.PermissionDenied, "NOT_A_PLAYER"},
		{"unsupported", &engine.UnsupportedGameTypeError{Family: "HEX"}, codes.Unimplemented, "UNSUPPORTED_GAME_TYPE"},
		{"sequence", &engine.SequentialMoveNumberError{Expected: 3, Got: 5}, codes.Aborted, "SEQUENTIAL_MOVE_NUMBER"},
		{"not found", fmt.Errorf("load game g1: %w", store.ErrNotFound), codes.NotFound, ReasonNotFound},
		{"exists", store.ErrAlreadyExists, codes.AlreadyExists, ReasonAlreadyExists},
		{"canceled", context.Canceled, codes.Canceled, "CANCELED"},
		{"other", errors.New("disk on fire"), codes.Internal, ReasonInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := StatusFromError(tt.err)
			st, ok := status.FromError(err)
			require.True(t, ok)
			assert.Equal(t, tt.code, st.Code())
			assert.Equal(t, tt.reason, ReasonOf(err))
		})
	}
}

func TestStatusFromError_Metadata(t *testing.T) {
	st, ok := status.FromError(StatusFromError(&engine.OutOfBoundsError{Row: 15, Col: 3, Size: 15}))
	require.True(t, ok)
	require.Len(t, st.Details(), 1)
	info, ok := st.Details()[0].(*errdetails.ErrorInfo)
	require.True(t, ok)
	assert.Equal(t, ErrorDomain, info.GetDomain())
	assert.Equal(t, "15", info.GetMetadata()["row"])
	assert.Equal(t, "3", info.GetMetadata()["col"])
}

func TestStatusFromError_PassThrough(t *testing.T) {
	assert.NoError(t, StatusFromError(nil))
	orig := status.Error(codes.Unavailable, "down")
	assert.Equal(t, orig, StatusFromError(orig))
	assert.Empty(t, ReasonOf(errors.New("plain")))
}
