package predictions

import "context"

// Repo defines persistence operations for predictions.
type Repo interface {
	Create(ctx context.Context, p Prediction) error
	GetByID(ctx context.Context, userID, id string) (Prediction, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Prediction, error)
}
