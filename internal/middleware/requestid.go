package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// HeaderRequestID carries the correlation id in both directions.
const HeaderRequestID = "X-Request-ID"

// maxRequestIDLen caps caller-supplied ids before they reach logs and headers.
const maxRequestIDLen = 64

type requestIDKey struct{}

// RequestID accepts a well-formed caller id or mints a UUID, echoes it on the
// response, and stores it in the context. When a zerolog logger is already in
// the context it gains a request_id field.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := r.Header.Get(HeaderRequestID)
		if !validRequestID(rid) {
			rid = uuid.NewString()
		}
		w.Header().Set(HeaderRequestID, rid)

		ctx := context.WithValue(r.Context(), requestIDKey{}, rid)
		if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
			ctx = l.With().Str("request_id", rid).Logger().WithContext(ctx)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func RequestIDFromContext(ctx context.Context) string {
	rid, _ := ctx.Value(requestIDKey{}).(string)
	return rid
}

// validRequestID allows ids built from letters, digits, '.', '_' and '-'.
func validRequestID(rid string) bool {
	if rid == "" || len(rid) > maxRequestIDLen {
		return false
	}
	for i := 0; i < len(rid); i++ {
		switch c := rid[i]; {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '.', c == '_', c == '-':
		default:
			return false
		}
	}
	return true
}
