package reqctx

import "context"

type ctxKey string

const (
	keyRID ctxKey = "raqtkosh_rid"
	keyUID ctxKey = "raqtkosh_uid"
)

// WithRID stores the request id used to correlate log lines.
func WithRID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, keyRID, rid)
}

// RID returns the request id if present.
func RID(ctx context.Context) string {
	v, _ := ctx.Value(keyRID).(string)
	return v
}

// WithUID stores the authenticated identity-provider uid.
func WithUID(ctx context.Context, uid string) context.Context {
	return context.WithValue(ctx, keyUID, uid)
}

// UID returns the authenticated uid if present.
func UID(ctx context.Context) string {
	v, _ := ctx.Value(keyUID).(string)
	return v
}
