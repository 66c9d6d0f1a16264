package predictions

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const predictionColumns = `id, user_id, file_name, mime_type, size_bytes, image_key, result, degraded_facets, created_at`

// Create inserts a prediction.
func (r *PGRepo) Create(ctx context.Context, p Prediction) error {
	const query = `
INSERT INTO predictions (
    id,
    user_id,
    file_name,
    mime_type,
    size_bytes,
    image_key,
    breed,
    confidence,
    advisory_degraded,
    degraded_facets,
    result,
    created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	result, err := json.Marshal(p.Result)
	if err != nil {
		return fmt.Errorf("marshal prediction result: %w", err)
	}
	var imageKey sql.NullString
	if p.ImageKey != "" {
		imageKey = sql.NullString{String: p.ImageKey, Valid: true}
	}

	_, err = r.DB.ExecContext(
		ctx,
		query,
		p.ID,
		p.UserID,
		p.FileName,
		p.MimeType,
		p.SizeBytes,
		imageKey,
		p.Result.Breed,
		p.Result.Confidence,
		p.AdvisoryDegraded(),
		strings.Join(p.DegradedFacets, ","),
		result,
		p.CreatedAt,
	)
	return err
}

// GetByID returns one prediction owned by userID.
func (r *PGRepo) GetByID(ctx context.Context, userID, id string) (Prediction, error) {
	query := `
SELECT ` + predictionColumns + `
FROM predictions
WHERE id = $1 AND user_id = $2`
	p, err := scanPrediction(r.DB.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Prediction{}, ErrNotFound
		}
		return Prediction{}, err
	}
	return p, nil
}

// ListByUser returns predictions for a user, newest first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Prediction, error) {
	if offset < 0 {
		offset = 0
	}
	query := `
SELECT ` + predictionColumns + `
FROM predictions
WHERE user_id = $1
ORDER BY created_at DESC
OFFSET $2`
	args := []any{userID, offset}
	if limit > 0 {
		query += `
LIMIT $3`
		args = append(args, limit)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Prediction{}
	for rows.Next() {
		p, err := scanPrediction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPrediction(row rowScanner) (Prediction, error) {
	var p Prediction
	var imageKey sql.NullString
	var result []byte
	var degraded string
	if err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.FileName,
		&p.MimeType,
		&p.SizeBytes,
		&imageKey,
		&result,
		&degraded,
		&p.CreatedAt,
	); err != nil {
		return Prediction{}, err
	}
	if imageKey.Valid {
		p.ImageKey = imageKey.String
	}
	if err := json.Unmarshal(result, &p.Result); err != nil {
		return Prediction{}, fmt.Errorf("decode prediction %s: %w", p.ID, err)
	}
	normalizeResult(&p.Result)
	if degraded != "" {
		p.DegradedFacets = strings.Split(degraded, ",")
	}
	return p, nil
}
