package resource

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
)

// Store is the single-document operation surface the use case runs on.
// Implementations map storage failures onto the apperror taxonomy; callers
// branch on the tags only.
type Store interface {
	List(ctx context.Context, kind Kind) ([]bson.M, error)
	Get(ctx context.Context, kind Kind, id string) (bson.M, error)
	First(ctx context.Context, kind Kind) (bson.M, error)
	Insert(ctx context.Context, kind Kind, doc bson.M) (bson.M, error)
	Update(ctx context.Context, kind Kind, id string, doc bson.M) (bson.M, error)
	Delete(ctx context.Context, kind Kind, id string) (bson.M, error)
	Upsert(ctx context.Context, kind Kind, doc bson.M) (bson.M, error)
}

// StoreProvider hands out the shared store, connecting lazily on first use.
// It is safe to call on every request; a failed acquisition is never cached.
type StoreProvider interface {
	Acquire(ctx context.Context) (Store, error)
}
