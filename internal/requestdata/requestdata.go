package requestdata

import (
	"context"

	"github.com/videoshowcase/backend/internal/types"
)

type ctxKey struct{}

// RequestData is the per-request identity carrier placed on the context by
// the auth middleware and read downstream by services and handlers.
type RequestData struct {
	TokenString string
	UserID      int64
	Role        types.Role
}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(ctx, ctxKey{}, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	if rd, ok := ctx.Value(ctxKey{}).(*RequestData); ok {
		return rd
	}
	return nil
}

func (rd *RequestData) IsAdmin() bool {
	return rd != nil && rd.Role == types.RoleAdmin
}
