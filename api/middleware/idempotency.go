package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/grocemart/grocemart-backend/api/responses"
	pkgerrors "github.com/grocemart/grocemart-backend/pkg/errors"
	"github.com/grocemart/grocemart-backend/pkg/logger"
	pkgredis "github.com/grocemart/grocemart-backend/pkg/redis"
)

const (
	defaultIdempotencyTTL  = 24 * time.Hour
	criticalIdempotencyTTL = 7 * 24 * time.Hour
)

type guardedRoute struct {
	method  string
	pattern string
}

// Checkout submits keep their records for a week; a duplicate charge is far
// more expensive than the extra Redis memory.
var guardedRoutes = map[guardedRoute]time.Duration{
	{http.MethodPost, "/api/v1/cart"}:             defaultIdempotencyTTL,
	{http.MethodPost, "/api/v1/addresses"}:        defaultIdempotencyTTL,
	{http.MethodPost, "/api/v1/vendor/products"}:  defaultIdempotencyTTL,
	{http.MethodPost, "/api/v1/vendor/discounts"}: defaultIdempotencyTTL,
	{http.MethodPost, "/api/v1/checkout/submit"}:  criticalIdempotencyTTL,
}

// routeTTL matches on the literal URL path. Inside a nested router group
// the middleware runs before routing finishes, so the resolved chi route
// pattern is not available here.
func routeTTL(method, path string) (time.Duration, bool) {
	path = strings.TrimSpace(path)
	if path == "" {
		return 0, false
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	ttl, ok := guardedRoutes[guardedRoute{method: method, pattern: path}]
	return ttl, ok
}

// storedResponse is what gets persisted in Redis per (scope, key) pair. The
// request hash lets us reject a key reused with a different body.
type storedResponse struct {
	Status      int               `json:"status"`
	Body        string            `json:"body"`
	Headers     map[string]string `json:"headers,omitempty"`
	RequestHash string            `json:"request_hash"`
}

// Idempotency replays the stored response when a request repeats the same
// Idempotency-Key with the same body on a guarded route.
func Idempotency(store pkgredis.IdempotencyStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ttl, guarded := routeTTL(r.Method, r.URL.Path)
			if !guarded || store == nil {
				next.ServeHTTP(w, r)
				return
			}

			idempotencyKey := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
			if idempotencyKey == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "Idempotency-Key header required"))
				return
			}

			body, err := io.ReadAll(r.Body)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read request"))
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			requestHash := hashBody(body)
			key := store.IdempotencyKey(requestScope(r), idempotencyKey)

			stored, getErr := store.Get(r.Context(), key)
			if getErr != nil && !errors.Is(getErr, redis.Nil) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, getErr, "check idempotency"))
				return
			}
			if stored != "" {
				replayStored(w, r, logg, stored, requestHash)
				return
			}

			buf := &responseBuffer{ResponseWriter: w}
			next.ServeHTTP(buf, r)
			persistResponse(r.Context(), store, logg, key, ttl, requestHash, buf)
		})
	}
}

// replayStored serves the recorded response, or a conflict when the same key
// arrives with a different request body.
func replayStored(w http.ResponseWriter, r *http.Request, logg *logger.Logger, stored, requestHash string) {
	var record storedResponse
	if err := json.Unmarshal([]byte(stored), &record); err != nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode idempotency record"))
		return
	}
	if record.RequestHash != requestHash {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeIdempotency, "idempotency key reused with different request body"))
		return
	}

	if ct := record.Headers["Content-Type"]; ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	w.WriteHeader(record.Status)
	if decoded, err := base64.StdEncoding.DecodeString(record.Body); err == nil {
		_, _ = w.Write(decoded)
	}
}

// persistResponse records the handler's output. Failures here are logged and
// swallowed: the response already went to the client.
func persistResponse(ctx context.Context, store pkgredis.IdempotencyStore, logg *logger.Logger, key string, ttl time.Duration, requestHash string, buf *responseBuffer) {
	record := storedResponse{
		Status:      buf.statusOrOK(),
		Body:        base64.StdEncoding.EncodeToString(buf.body.Bytes()),
		RequestHash: requestHash,
	}
	if ct := buf.Header().Get("Content-Type"); ct != "" {
		record.Headers = map[string]string{"Content-Type": ct}
	}

	payload, err := json.Marshal(record)
	if err != nil {
		logError(ctx, logg, "marshal idempotency record", err)
		return
	}
	if _, err := store.SetNX(ctx, key, string(payload), ttl); err != nil {
		logError(ctx, logg, "persist idempotency record", err)
	}
}

// requestScope ties records to the authenticated identity so one user's key
// cannot replay another user's response.
func requestScope(r *http.Request) string {
	return strings.Join([]string{
		UserIDFromContext(r.Context()),
		StoreIDFromContext(r.Context()),
		r.Method,
		r.URL.Path,
	}, "|")
}

func hashBody(payload []byte) string {
	sum := sha256.Sum256(payload)
	return base64.StdEncoding.EncodeToString(sum[:])
}

type responseBuffer struct {
	http.ResponseWriter
	body   bytes.Buffer
	status int
}

func (b *responseBuffer) WriteHeader(code int) {
	b.status = code
	b.ResponseWriter.WriteHeader(code)
}

func (b *responseBuffer) Write(p []byte) (int, error) {
	if b.status == 0 {
		b.status = http.StatusOK
	}
	b.body.Write(p)
	return b.ResponseWriter.Write(p)
}

func (b *responseBuffer) statusOrOK() int {
	if b.status == 0 {
		return http.StatusOK
	}
	return b.status
}

func logError(ctx context.Context, logg *logger.Logger, msg string, err error) {
	if logg == nil || err == nil {
		return
	}
	logg.Error(ctx, msg, err)
}
