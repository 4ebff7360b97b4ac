package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"airstream/internal/ratelimit"
	"airstream/pkg/auth"
	"airstream/pkg/autosave"
	"airstream/pkg/directory"
	"airstream/pkg/session"
	"airstream/pkg/store"
	"airstream/services/dashboard/internal/security"
)

// Config holds runtime configuration for the dashboard core.
type Config struct {
	RedisAddr      string
	RedisPassword  string
	RedisKeyPrefix string

	AccountEmail  string
	AccountSecret string
	ResetCode     string

	AutoSaveInterval       time.Duration
	PageSize               int
	PlaceholderImageURL    string
	AuthRateLimitPerMinute int

	Logger *slog.Logger

	// Store and Identity replace the configured backends when set.
	Store    store.KVStore
	Identity auth.IdentityVerifier
}

// App wires the session, the asset directory and their supporting stores.
type App struct {
	session   *session.Session
	directory *directory.Directory
	saver     *autosave.Saver
	limiter   ratelimit.Limiter
	alerter   *security.AuditAlerter
	redis     *redis.Client
}

// New connects the durable store and restores the persisted auth flag.
// Without a redis address everything is kept in process memory and no
// security alerts are counted.
func New(ctx context.Context, cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	prefix := strings.TrimSpace(cfg.RedisKeyPrefix)
	if prefix == "" {
		prefix = "airstream"
	}

	a := &App{}
	if addr := strings.TrimSpace(cfg.RedisAddr); addr != "" {
		a.redis = redis.NewClient(&redis.Options{Addr: addr, Password: cfg.RedisPassword})
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err := a.redis.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			_ = a.redis.Close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
	}

	kv := cfg.Store
	if kv == nil {
		if a.redis != nil {
			kv = store.NewRedisStoreWithClient(a.redis, prefix+":client")
		} else {
			kv = store.NewMemoryStore()
		}
	}

	identity := cfg.Identity
	if identity == nil {
		static, err := auth.NewStaticIdentity(cfg.AccountEmail, cfg.AccountSecret, cfg.ResetCode)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("init identity: %w", err)
		}
		identity = static
	}

	sess, err := session.New(ctx, session.Config{Identity: identity, Flags: kv, Logger: logger})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("init session: %w", err)
	}
	a.session = sess

	a.directory = directory.New(directory.Config{
		PageSize:            cfg.PageSize,
		PlaceholderImageURL: cfg.PlaceholderImageURL,
		Logger:              logger,
	})

	a.saver, err = autosave.New(autosave.Config{
		Source:   a.directory,
		Store:    kv,
		Interval: cfg.AutoSaveInterval,
		Logger:   logger,
	})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("init auto-save: %w", err)
	}

	if cfg.AuthRateLimitPerMinute > 0 {
		if a.redis != nil {
			a.limiter, err = ratelimit.NewRedisLimiter(a.redis, prefix+":ratelimit", cfg.AuthRateLimitPerMinute, time.Minute)
		} else {
			a.limiter, err = ratelimit.NewMemoryLimiter(cfg.AuthRateLimitPerMinute, time.Minute)
		}
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("init rate limiter: %w", err)
		}
	}

	if a.redis != nil {
		a.alerter, err = security.NewAuditAlerter(a.redis, prefix+":auth:alerts")
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("init audit alerter: %w", err)
		}
	}

	logger.Info("dashboard core ready",
		"redis", a.redis != nil,
		"rate_limit", cfg.AuthRateLimitPerMinute,
		"authenticated", sess.IsAuthenticated(),
	)
	return a, nil
}

func (a *App) Session() *session.Session {
	return a.session
}

func (a *App) Directory() *directory.Directory {
	return a.directory
}

func (a *App) AutoSaver() *autosave.Saver {
	return a.saver
}

// Limiter is nil when auth rate limiting is off.
func (a *App) Limiter() ratelimit.Limiter {
	return a.limiter
}

// Alerter is nil without redis.
func (a *App) Alerter() *security.AuditAlerter {
	return a.alerter
}

// Close releases the redis connection.
func (a *App) Close() error {
	if a == nil || a.redis == nil {
		return nil
	}
	err := a.redis.Close()
	if errors.Is(err, redis.ErrClosed) {
		return nil
	}
	return err
}
