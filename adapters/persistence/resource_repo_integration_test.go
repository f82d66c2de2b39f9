package persistence

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/khoahotran/portfolio-api/internal/config"
	"github.com/khoahotran/portfolio-api/internal/domain/resource"
	"github.com/khoahotran/portfolio-api/pkg/apperror"
	"github.com/khoahotran/portfolio-api/pkg/logger"
)

type MongoStoreIntegrationSuite struct {
	suite.Suite
	container *mongodb.MongoDBContainer
	provider  *Provider
	store     resource.Store
}

func TestMongoStoreIntegration(t *testing.T) {
	if os.Getenv("INTEGRATION_TESTS") == "" {
		t.Skip("Skipping integration tests. Set INTEGRATION_TESTS=1 to run.")
	}
	suite.Run(t, new(MongoStoreIntegrationSuite))
}

func (s *MongoStoreIntegrationSuite) SetupSuite() {
	ctx := context.Background()

	container, err := mongodb.Run(ctx, "mongo:7")
	if err != nil {
		s.T().Fatalf("Failed to start mongodb container: %s", err)
	}
	s.container = container

	uri, err := container.ConnectionString(ctx)
	if err != nil {
		s.T().Fatalf("Failed to get connection string: %s", err)
	}

	var cfg config.Config
	cfg.DB.URI = uri
	cfg.DB.Name = "portfolio_test"
	s.provider = NewProvider(cfg, logger.NewNop())

	store, err := s.provider.Acquire(ctx)
	if err != nil {
		s.T().Fatalf("Failed to acquire store: %s", err)
	}
	s.store = store
}

func (s *MongoStoreIntegrationSuite) TearDownSuite() {
	if s.container != nil {
		_ = s.container.Terminate(context.Background())
	}
}

func (s *MongoStoreIntegrationSuite) TestAcquireReturnsCachedStore() {
	again, err := s.provider.Acquire(context.Background())
	s.Require().NoError(err)
	s.Same(s.store, again)
}

func (s *MongoStoreIntegrationSuite) TestProjectLifecycle() {
	ctx := context.Background()

	created, err := s.store.Insert(ctx, resource.Project, bson.M{
		"title":       "Portfolio",
		"description": "Original",
		"featured":    false,
	})
	s.Require().NoError(err)
	id := created["_id"].(primitive.ObjectID).Hex()
	createdAt := created["createdAt"].(time.Time)

	got, err := s.store.Get(ctx, resource.Project, id)
	s.Require().NoError(err)
	s.Equal("Portfolio", got["title"])

	updated, err := s.store.Update(ctx, resource.Project, id, bson.M{"title": "Renamed"})
	s.Require().NoError(err)
	s.Equal("Renamed", updated["title"])
	s.Equal("Original", updated["description"])
	s.WithinDuration(createdAt, updated["createdAt"].(time.Time), time.Millisecond)
	s.True(updated["updatedAt"].(time.Time).After(updated["createdAt"].(time.Time)))

	deleted, err := s.store.Delete(ctx, resource.Project, id)
	s.Require().NoError(err)
	s.Equal("Renamed", deleted["title"])

	_, err = s.store.Get(ctx, resource.Project, id)
	s.True(errors.Is(err, apperror.ErrNotFound))

	_, err = s.store.Delete(ctx, resource.Project, id)
	s.True(errors.Is(err, apperror.ErrNotFound))
}

func (s *MongoStoreIntegrationSuite) TestMalformedIdentifier() {
	_, err := s.store.Get(context.Background(), resource.Project, "not-a-hex-id")
	s.True(errors.Is(err, apperror.ErrMalformedID))
	s.False(errors.Is(err, apperror.ErrNotFound))
}

func (s *MongoStoreIntegrationSuite) TestSchemaValidatorRejectsBadDocument() {
	_, err := s.store.Insert(context.Background(), resource.Project, bson.M{"description": "no title"})
	s.Require().Error(err)
	s.True(errors.Is(err, apperror.ErrInvalidInput))
	s.Equal("Validation failed", apperror.Message(err))
	s.NotEmpty(apperror.Details(err))
}

func (s *MongoStoreIntegrationSuite) TestMilestoneListSortsByDateDescending() {
	ctx := context.Background()

	older, err := s.store.Insert(ctx, resource.Milestone, bson.M{
		"title": "Started", "date": time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC),
	})
	s.Require().NoError(err)
	newer, err := s.store.Insert(ctx, resource.Milestone, bson.M{
		"title": "Launched", "date": time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	})
	s.Require().NoError(err)

	list, err := s.store.List(ctx, resource.Milestone)
	s.Require().NoError(err)

	posNewer, posOlder := -1, -1
	for i, doc := range list {
		switch doc["_id"] {
		case newer["_id"]:
			posNewer = i
		case older["_id"]:
			posOlder = i
		}
	}
	s.Require().GreaterOrEqual(posNewer, 0)
	s.Require().GreaterOrEqual(posOlder, 0)
	s.Less(posNewer, posOlder)
}

func (s *MongoStoreIntegrationSuite) TestSingletonUpsert() {
	ctx := context.Background()

	first, err := s.store.Upsert(ctx, resource.Profile, bson.M{"name": "A", "title": "B"})
	s.Require().NoError(err)
	s.NotNil(first["createdAt"])

	second, err := s.store.Upsert(ctx, resource.Profile, bson.M{"name": "A2", "title": "B"})
	s.Require().NoError(err)
	s.Equal(first["_id"], second["_id"])
	s.Equal("A2", second["name"])
	s.WithinDuration(first["createdAt"].(time.Time), second["createdAt"].(time.Time), time.Millisecond)
}
