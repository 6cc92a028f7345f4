// Package store provides persistence for users and content.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/content-api/internal/model"
)

// Sentinel errors shared by all backends.
var (
	ErrNotFound  = eris.New("store: not found")
	ErrDuplicate = eris.New("store: duplicate")
)

// Store defines the persistence interface for the content service.
type Store interface {
	// Users
	CreateUser(ctx context.Context, username, email, hashedPassword string) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)

	// Content, always scoped by owner.
	CreateContent(ctx context.Context, userID, text string) (*model.Content, error)
	GetContent(ctx context.Context, id, userID string) (*model.Content, error)
	ListContents(ctx context.Context, userID string, limit, offset int) ([]model.Content, int, error)
	DeleteContent(ctx context.Context, id, userID string) error

	// UpdateContentAnalysis writes both enrichment fields together in a
	// single statement; a content row is never partially enriched.
	UpdateContentAnalysis(ctx context.Context, id, summary string, sentiment model.Sentiment) error

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
