package repository

import (
	"context"

	"github.com/aleroux/chesslab/internal/models"
)

// UserRepository handles user-record data access. Lookups return (nil, nil)
// when no record matches.
type UserRepository interface {
	Get(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Insert(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}
