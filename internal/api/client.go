package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/codeGROOVE-dev/retry"
	"github.com/ssuji15/pokecli/internal/cache"
	"github.com/ssuji15/pokecli/internal/config"
	"github.com/ssuji15/pokecli/internal/service/logger"
	"github.com/ssuji15/pokecli/internal/tracer"
	"github.com/ssuji15/pokecli/internal/util"
	"github.com/ssuji15/pokecli/model"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

const (
	Version = "0.1.0"

	defaultRetryAttempts = 3
	defaultRetryDelay    = 200 * time.Millisecond
	maxRetryDelay        = 2 * time.Second
)

var ErrNotFound = errors.New("not found")

// StatusError is returned for non-2xx responses other than 404.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.URL, e.Code)
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	limiter    *rate.Limiter
	group      singleflight.Group

	cache cache.Cache
	ttl   time.Duration

	retryAttempts uint
	retryDelay    time.Duration
}

type Option func(*Client)

// WithCache enables cache-aside lookups. A nil cache leaves caching off.
func WithCache(c cache.Cache, ttl time.Duration) Option {
	return func(cl *Client) {
		cl.cache = c
		cl.ttl = ttl
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(cl *Client) { cl.httpClient = hc }
}

func WithRetry(attempts uint, delay time.Duration) Option {
	return func(cl *Client) {
		cl.retryAttempts = attempts
		cl.retryDelay = delay
	}
}

func NewClient(cfg *config.APIConfig, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout:   cfg.TIMEOUT,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		baseURL:       cfg.URL,
		userAgent:     "pokecli/" + Version,
		limiter:       rate.NewLimiter(rate.Limit(cfg.RATE_LIMIT), cfg.RATE_LIMIT),
		retryAttempts: defaultRetryAttempts,
		retryDelay:    defaultRetryDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) GetPokemon(ctx context.Context, nameOrID string) (model.Pokemon, error) {
	return fetch[model.Pokemon](ctx, c, "pokemon", util.GetPokemonKey, nameOrID)
}

func (c *Client) GetMove(ctx context.Context, nameOrID string) (model.Move, error) {
	return fetch[model.Move](ctx, c, "move", util.GetMoveKey, nameOrID)
}

func (c *Client) GetItem(ctx context.Context, nameOrID string) (model.Item, error) {
	return fetch[model.Item](ctx, c, "item", util.GetItemKey, nameOrID)
}

// ClearCache drops every cached response. It is a no-op without a cache.
func (c *Client) ClearCache(ctx context.Context) error {
	if c.cache == nil {
		return nil
	}
	return c.cache.Clear(ctx)
}

// fetch is cache-aside around a GET of /<kind>/<id>. Cache failures are
// logged and treated as misses; they never fail the request.
func fetch[T any](ctx context.Context, c *Client, kind string, keyFn func(string) string, nameOrID string) (T, error) {
	var zero T
	id, err := util.ValidateInput(nameOrID)
	if err != nil {
		return zero, err
	}
	key := keyFn(id)
	log := logger.FromContext(ctx).With().
		Str("key", key).
		Bool("numeric_id", util.IsNumericID(id)).
		Logger()

	ctx, span := tracer.GetTracer().Start(ctx, "PokeAPI/"+kind)
	defer span.End()
	span.SetAttributes(attribute.String("cache.key", key))

	if c.cache != nil {
		cached, err := cache.Get[T](ctx, c.cache, key)
		switch {
		case err != nil:
			log.Warn().Err(err).Msg("cache lookup failed, fetching from api")
		case cached.IsPresent():
			log.Debug().Msg("cache hit")
			span.SetAttributes(attribute.Bool("cache.hit", true))
			return cached.MustGet(), nil
		default:
			log.Debug().Msg("cache miss")
		}
	}
	span.SetAttributes(attribute.Bool("cache.hit", false))

	v, err, shared := c.group.Do(key, func() (any, error) {
		var out T
		endpoint := fmt.Sprintf("%s/%s/%s", c.baseURL, kind, url.PathEscape(id))
		if err := c.getJSON(ctx, endpoint, &out); err != nil {
			return nil, err
		}
		if c.cache != nil {
			if err := cache.Set(ctx, c.cache, key, out, c.ttl); err != nil {
				log.Warn().Err(err).Msg("cache write failed")
			}
		}
		return out, nil
	})
	if err != nil {
		util.RecordSpanError(span, err)
		if errors.Is(err, ErrNotFound) {
			return zero, fmt.Errorf("%s %q: %w", kind, nameOrID, ErrNotFound)
		}
		return zero, err
	}
	if shared {
		log.Debug().Msg("joined in-flight request")
	}
	return v.(T), nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	log := logger.FromContext(ctx)
	return retry.Do(
		func() error {
			if err := c.limiter.Wait(ctx); err != nil {
				return err
			}
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
			if err != nil {
				return err
			}
			req.Header.Set("User-Agent", c.userAgent)
			req.Header.Set("Accept", "application/json")

			resp, err := c.httpClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			switch {
			case resp.StatusCode == http.StatusNotFound:
				return ErrNotFound
			case resp.StatusCode < 200 || resp.StatusCode >= 300:
				return &StatusError{URL: endpoint, Code: resp.StatusCode}
			}
			if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
				return fmt.Errorf("decode %s: %w", endpoint, err)
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(c.retryAttempts),
		retry.DelayType(retry.BackOffDelay),
		retry.Delay(c.retryDelay),
		retry.MaxDelay(maxRetryDelay),
		retry.RetryIf(retryable),
		retry.OnRetry(func(n uint, err error) {
			log.Debug().Err(err).Uint("attempt", n+1).Str("url", endpoint).Msg("retrying request")
		}),
		retry.LastErrorOnly(true),
	)
}

// retryable reports whether a failed attempt may succeed if repeated:
// server errors, throttling and network failures.
func retryable(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code >= 500 || se.Code == http.StatusTooManyRequests
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var ne net.Error
	return errors.As(err, &ne)
}
