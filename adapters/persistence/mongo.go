package persistence

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/khoahotran/portfolio-api/internal/config"
	"github.com/khoahotran/portfolio-api/internal/domain/resource"
	"github.com/khoahotran/portfolio-api/pkg/apperror"
	"github.com/khoahotran/portfolio-api/pkg/logger"
)

const (
	maxPoolSize     = 10
	minPoolSize     = 1
	maxConnIdleTime = 60 * time.Second
	serverSelection = 5 * time.Second
	socketTimeout   = 45 * time.Second
)

// Provider owns the shared MongoDB handle. The first Acquire connects and
// caches the store; later calls reuse it. A failed attempt caches nothing, so
// the next request retries from scratch.
type Provider struct {
	cfg config.Config
	log logger.Logger

	mu    sync.Mutex
	store *mongoStore
}

func NewProvider(cfg config.Config, log logger.Logger) *Provider {
	return &Provider{cfg: cfg, log: log}
}

func (p *Provider) Acquire(ctx context.Context) (resource.Store, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.store != nil {
		return p.store, nil
	}

	if p.cfg.DB.URI == "" {
		return nil, apperror.NewConfig("connection target not configured: set MONGODB_URI")
	}

	opts := options.Client().
		ApplyURI(p.cfg.DB.URI).
		SetMaxPoolSize(maxPoolSize).
		SetMinPoolSize(minPoolSize).
		SetMaxConnIdleTime(maxConnIdleTime).
		SetServerSelectionTimeout(serverSelection).
		SetSocketTimeout(socketTimeout)
	if err := opts.Validate(); err != nil {
		return nil, apperror.NewUnavailable(
			"Invalid MongoDB connection string format. Verify the MONGODB_URI setting.", err)
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, classifyConnectError(err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, classifyConnectError(err)
	}

	store := &mongoStore{db: client.Database(p.cfg.DB.Name), log: p.log}
	if err := store.ensureCollections(ctx); err != nil {
		p.log.Warn("could not ensure collection validators", zap.Error(err))
	}

	p.log.Info("MongoDB connection established",
		zap.String("database", p.cfg.DB.Name),
		zap.Uint64("max_pool_size", maxPoolSize))
	p.store = store
	return store, nil
}

func classifyConnectError(err error) error {
	switch {
	case mongo.IsTimeout(err):
		return apperror.NewUnavailable(
			"Unable to reach MongoDB. Check the connection string, IP whitelisting, and cluster state.", err)
	case isAuthError(err):
		return apperror.NewUnavailable(
			"MongoDB authentication failed. Verify the configured username and password.", err)
	}
	return apperror.NewUnavailable("MongoDB connection error.", err)
}

// isAuthError only picks the operator-facing message; the taxonomy tag is
// ErrUnavailable either way.
func isAuthError(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "auth")
}
