package testutil

import (
	"context"

	"github.com/invobill/invobill/internal/types"
)

const (
	TestUserID    = "user_01HTESTUSER0000000000000"
	TestRequestID = "test-request-id"
)

// SetupContext returns a context carrying the test caller's identity
func SetupContext() context.Context {
	ctx := context.Background()
	ctx = context.WithValue(ctx, types.CtxRequestID, TestRequestID)
	ctx = types.SetUserID(ctx, TestUserID)
	return ctx
}
