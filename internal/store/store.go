// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"

	"github.com/ashureev/nextgen-minds/internal/domain"
)

// Repository defines the interface for persisting accounts, profiles and the
// catalog. Lookups of missing records return domain.ErrNotFound.
type Repository interface {
	// CreateUser inserts a new account. Returns domain.ErrEmailTaken if the
	// email is already registered.
	CreateUser(ctx context.Context, user *domain.User) error

	// GetUser retrieves a user by ID.
	GetUser(ctx context.Context, userID string) (*domain.User, error)

	// GetUserByEmail retrieves a user by email, case-insensitively.
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// GetProfile retrieves the career profile of a user.
	GetProfile(ctx context.Context, userID string) (*domain.Profile, error)

	// UpsertProfile creates or replaces the career profile of a user.
	UpsertProfile(ctx context.Context, profile *domain.Profile) error

	// ListCareers returns every career in catalog order.
	ListCareers(ctx context.Context) ([]domain.Career, error)

	// GetCareer retrieves one career by ID.
	GetCareer(ctx context.Context, id string) (*domain.Career, error)

	// ListScholarships returns every scholarship in catalog order.
	ListScholarships(ctx context.Context) ([]domain.Scholarship, error)

	// ListColleges returns every college in catalog order.
	ListColleges(ctx context.Context) ([]domain.College, error)

	// ReplaceCatalog swaps the whole catalog in one transaction.
	ReplaceCatalog(ctx context.Context, catalog domain.Catalog) error

	// CatalogSize returns the number of careers, used to decide on seeding.
	CatalogSize(ctx context.Context) (int, error)

	// Ping verifies database connectivity and returns an error if the database is unreachable.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}
