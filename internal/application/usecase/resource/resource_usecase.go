package resource

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/khoahotran/portfolio-api/internal/domain/resource"
	"github.com/khoahotran/portfolio-api/pkg/logger"
)

// Service orchestrates the CRUD contract for every resource kind: acquire the
// store, validate the input, run exactly one document operation. It holds no
// state of its own; the provider owns the shared connection.
type Service struct {
	provider resource.StoreProvider
	log      logger.Logger
}

func NewService(provider resource.StoreProvider, log logger.Logger) *Service {
	return &Service{provider: provider, log: log}
}

func (s *Service) List(ctx context.Context, kind resource.Kind) ([]bson.M, error) {
	store, err := s.provider.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return store.List(ctx, kind)
}

func (s *Service) Get(ctx context.Context, kind resource.Kind, id string) (bson.M, error) {
	store, err := s.provider.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return store.Get(ctx, kind, id)
}

func (s *Service) Create(ctx context.Context, kind resource.Kind, body map[string]any) (bson.M, error) {
	store, err := s.provider.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	doc, err := kind.ValidateCreate(body)
	if err != nil {
		return nil, err
	}
	return store.Insert(ctx, kind, doc)
}

func (s *Service) Update(ctx context.Context, kind resource.Kind, id string, body map[string]any) (bson.M, error) {
	store, err := s.provider.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	doc, err := kind.ValidateUpdate(body)
	if err != nil {
		return nil, err
	}
	return store.Update(ctx, kind, id, doc)
}

func (s *Service) Delete(ctx context.Context, kind resource.Kind, id string) (bson.M, error) {
	store, err := s.provider.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return store.Delete(ctx, kind, id)
}

// GetSingleton reads the first (and only meaningful) document of the kind.
func (s *Service) GetSingleton(ctx context.Context, kind resource.Kind) (bson.M, error) {
	store, err := s.provider.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return store.First(ctx, kind)
}

// UpsertSingleton validates the body like a create (all required fields must
// be present) and updates the first document, creating it when absent.
func (s *Service) UpsertSingleton(ctx context.Context, kind resource.Kind, body map[string]any) (bson.M, error) {
	store, err := s.provider.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	doc, err := kind.ValidateCreate(body)
	if err != nil {
		return nil, err
	}
	return store.Upsert(ctx, kind, doc)
}
