package queue

import (
	"context"
	"time"

	"backend-sevapali/internal/models"
)

// Mutation is the field set a conditional update may change. Nil
// pointers leave the column untouched; ClearServed wipes served_by and
// served_at regardless of SetServed*.
type Mutation struct {
	Status       string
	SetCreatedAt *time.Time
	SetServedBy  *string
	SetServedAt  *time.Time
	ClearServed  bool
}

// Store is the durable token store the scheduler runs against. The one
// primitive everything depends on is ConditionalUpdate: apply the
// mutation only if the row's status still equals expectedStatus, and
// report whether a row was actually changed. A false return with a nil
// error means the caller lost a race.
type Store interface {
	Get(ctx context.Context, id string) (*models.Token, error)
	GetByNumber(ctx context.Context, tokenNumber string) (*models.Token, error)
	Insert(ctx context.Context, token *models.Token) error
	ConditionalUpdate(ctx context.Context, id, expectedStatus string, mut Mutation) (bool, error)

	// QueryWaiting returns the waiting set for a key ordered by
	// created_at ascending, id ascending on ties. This ordering is the
	// service order.
	QueryWaiting(ctx context.Context, key Key) ([]*models.Token, error)

	// FindServing returns the serving token for a key, or nil when the
	// counter is free.
	FindServing(ctx context.Context, key Key) (*models.Token, error)
}
