// internal/reqctx/reqctx.go
package reqctx

import "context"

type key int

const (
	keyRequestID key = iota
	keyUserID
	keyDemo
)

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, keyRequestID, id)
}

func GetRequestID(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(keyRequestID).(string)
	return v, ok
}

func WithUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, keyUserID, id)
}

func GetUserID(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(keyUserID).(string)
	return v, ok && v != ""
}

// WithDemo помечает запрос, пропущенный гейтом в демо-режиме.
func WithDemo(ctx context.Context) context.Context {
	return context.WithValue(ctx, keyDemo, true)
}

func IsDemo(ctx context.Context) bool {
	v, _ := ctx.Value(keyDemo).(bool)
	return v
}
