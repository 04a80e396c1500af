package testutil

import (
	"context"
)

// PassthroughTx satisfies the service transaction runner without a database
type PassthroughTx struct{}

func (PassthroughTx) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
