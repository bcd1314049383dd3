package blog

import "context"

type Repository interface {
	Create(ctx context.Context, post *Post) error
	GetByID(ctx context.Context, gymID, id int) (*Post, error)
	ListByGym(ctx context.Context, gymID, limit, offset int) ([]Post, error)
	Update(ctx context.Context, gymID, id int, req UpdatePostRequest) (*Post, error)
	Delete(ctx context.Context, gymID, id int) error
}
