package repository

import (
	"context"

	"docexchange/internal/model"
)

// UserRepository defines data access for users and their role records.
type UserRepository interface {
	// Create inserts the user together with its role record in one transaction.
	// A taken email returns errs.ErrDuplicate.
	Create(ctx context.Context, u *model.User) (*model.User, error)

	// FindByID returns errs.ErrNotFound when no row matches.
	FindByID(ctx context.Context, id int64) (*model.User, error)

	// FindByEmail returns errs.ErrNotFound when no row matches.
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// FindRole reads the role record, returning errs.ErrNotFound when it is missing.
	FindRole(ctx context.Context, userID int64) (model.Role, error)

	// Activate sets is_active for the user.
	Activate(ctx context.Context, id int64) error

	// TouchLastLogin records a successful login.
	TouchLastLogin(ctx context.Context, id int64) error
}

// FileRepository is the authoritative file metadata store.
type FileRepository interface {
	// NextID reserves the next internal file id so the storage key can be derived before insert.
	NextID(ctx context.Context) (int64, error)

	// Create inserts a record with a caller-reserved ID.
	// A handle collision returns errs.ErrDuplicateHandle.
	Create(ctx context.Context, f *model.StoredFile) (*model.StoredFile, error)

	// FindByID returns errs.ErrNotFound when no row matches.
	FindByID(ctx context.Context, id int64) (*model.StoredFile, error)

	// FindByHandle returns errs.ErrNotFound when no row matches.
	FindByHandle(ctx context.Context, handle string) (*model.StoredFile, error)

	// List returns files newest first with a total count.
	List(ctx context.Context, pq PageQuery) (*PageResult[model.StoredFile], error)

	// ListAfter returns up to limit files older than last in the List order
	// (created_at, id descending). A nil last starts from the newest file.
	ListAfter(ctx context.Context, last *model.StoredFile, limit int) ([]model.StoredFile, error)
}

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
// T is typically a model type.
type PageResult[T any] struct {
	Items []T
	Total int
}
