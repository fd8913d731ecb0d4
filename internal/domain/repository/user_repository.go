package repository

import (
	"context"
	"time"

	"viewsync/internal/domain/entity"
)

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*entity.User, error)
	Exists(ctx context.Context, id string) (bool, error)
	SetLastSeen(ctx context.Context, id string, at time.Time) error
}
