package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/felixge/httpsnoop"
	"github.com/go-redis/redis/v8"
)

const (
	IdempotencyHeader = "Idempotency-Key"

	idempotencyTTL = 24 * time.Hour
)

var (
	_ IdempotencyCacher = (*IdemResMap)(nil)
	_ IdempotencyCacher = RedisCache{}

	defaultCache = NewIdemResMap()
)

// An IdempotencyCacher can store responses paired to idempotency keys.
type IdempotencyCacher interface {
	Get(ctx context.Context, key string) (IdemRes, bool)
	Set(ctx context.Context, key string, res IdemRes)
}

// An IdemRes is data from an HTTP response
// that can be reused when another request
// matches the same idempotency key.
//
// A zero Status marks a request still being handled.
type IdemRes struct {
	Body   []byte      `json:"body"`
	Header http.Header `json:"header"`
	Status int         `json:"status"`
	Sum    []byte      `json:"sum"`
	URI    string      `json:"uri"`
}

// Idempotent returns an Adapter that enables idempotent POST requests
// keyed by the Idempotency-Key header.
// Other methods are idempotent by definition and pass through.
//
// If that key has been used before (and has not expired), Idempotent:
//
//   - responds with 409 if the original request is still processing
//   - responds with 422 if the URI or body does not match the original
//   - otherwise, replays the original status, headers and body
//
// cache can be nil, in which case an in-memory *IdemResMap is used.
//
// Idempotent implements the draft Idempotent HTTP Header Field specification:
// https://tools.ietf.org/id/draft-idempotency-header-01.html
func Idempotent(cache IdempotencyCacher) Adapter {
	if cache == nil {
		cache = defaultCache
	}

	return func(handler http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				handler.ServeHTTP(w, r)
				return
			}

			key := r.Header.Get(IdempotencyHeader)
			if key == "" {
				http.Error(w, "missing "+IdempotencyHeader, http.StatusBadRequest)
				return
			}

			body, err := io.ReadAll(r.Body)
			if err != nil {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}

			r.Body = io.NopCloser(bytes.NewReader(body))
			sum := sha256.Sum256(body)

			if prev, ok := cache.Get(r.Context(), key); ok {
				switch {
				case prev.Status == 0:
					w.WriteHeader(http.StatusConflict)
				case prev.URI != r.URL.RequestURI() || !bytes.Equal(prev.Sum, sum[:]):
					w.WriteHeader(http.StatusUnprocessableEntity)
				default:
					for k, v := range prev.Header {
						w.Header()[k] = v
					}
					w.WriteHeader(prev.Status)
					w.Write(prev.Body)
				}

				return
			}

			res := IdemRes{URI: r.URL.RequestURI(), Sum: sum[:]}
			cache.Set(r.Context(), key, res)

			buf := new(bytes.Buffer)
			hooked := httpsnoop.Wrap(w, httpsnoop.Hooks{
				WriteHeader: func(next httpsnoop.WriteHeaderFunc) httpsnoop.WriteHeaderFunc {
					return func(code int) {
						if res.Status == 0 {
							res.Status = code
						}
						next(code)
					}
				},
				Write: func(next httpsnoop.WriteFunc) httpsnoop.WriteFunc {
					return func(b []byte) (int, error) {
						if res.Status == 0 {
							res.Status = http.StatusOK
						}
						buf.Write(b)
						return next(b)
					}
				},
			})

			handler.ServeHTTP(hooked, r)

			if res.Status == 0 {
				res.Status = http.StatusOK
			}

			res.Body = buf.Bytes()
			res.Header = w.Header().Clone()
			cache.Set(r.Context(), key, res)
		})
	}
}

// An IdemResMap stores idempotency key, IdemRes value pairs in memory.
//
// Server restarts reset the map.
type IdemResMap struct {
	mu  sync.Mutex
	val map[string]idemResEntry
}

type idemResEntry struct {
	IdemRes
	at time.Time
}

// NewIdemResMap constructs an empty *IdemResMap.
func NewIdemResMap() *IdemResMap { return &IdemResMap{val: make(map[string]idemResEntry)} }

// Get retrieves the IdemRes paired to key.
func (m *IdemResMap) Get(ctx context.Context, key string) (IdemRes, bool) {
	if key == "" || ctx.Err() != nil {
		return IdemRes{}, false
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.val[key]
	return v.IdemRes, ok
}

// Set overwrites the value paired to key, evicting keys older than 24 hours.
func (m *IdemResMap) Set(ctx context.Context, key string, res IdemRes) {
	if ctx.Err() != nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-idempotencyTTL)
	for k, v := range m.val {
		if v.at.Before(cutoff) {
			delete(m.val, k)
		}
	}

	m.val[key] = idemResEntry{IdemRes: res, at: time.Now()}
}

// A RedisCache stores idempotent responses in Redis as JSON,
// expiring them after 24 hours.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache constructs a RedisCache with the options passed in.
func NewRedisCache(opts *redis.Options) RedisCache {
	return RedisCache{client: redis.NewClient(opts)}
}

// Get retrieves the IdemRes paired to key from Redis.
func (c RedisCache) Get(ctx context.Context, key string) (IdemRes, bool) {
	b, err := c.client.Get(ctx, c.key(key)).Bytes()
	if err != nil {
		return IdemRes{}, false
	}

	var res IdemRes
	if err := json.Unmarshal(b, &res); err != nil {
		return IdemRes{}, false
	}

	return res, true
}

// Set saves the IdemRes under key in Redis.
func (c RedisCache) Set(ctx context.Context, key string, res IdemRes) {
	b, err := json.Marshal(res)
	if err != nil {
		return
	}

	c.client.Set(ctx, c.key(key), b, idempotencyTTL)
}

func (RedisCache) key(k string) string { return "trailhead:idempotency:" + k }
