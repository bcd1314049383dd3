package notice

import "context"

type Repository interface {
	Create(ctx context.Context, notice *Notice) error
	GetByID(ctx context.Context, gymID, id int) (*Notice, error)
	ListByGym(ctx context.Context, gymID int) ([]Notice, error)
	Update(ctx context.Context, gymID, id int, req UpdateNoticeRequest) (*Notice, error)
	Delete(ctx context.Context, gymID, id int) error
}
