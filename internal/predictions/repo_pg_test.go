package predictions

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"aquabov-backend/internal/advisory"
)

func TestPGRepoCreateStoresResultJSON(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	p := Prediction{
		ID:             "8d1e5a63-3f7c-4a0e-9a57-2c5b0b1f3c11",
		UserID:         "guest:abc",
		FileName:       "cow.jpg",
		MimeType:       "image/jpeg",
		SizeBytes:      2048,
		ImageKey:       "ns/abc_cow.jpg",
		Result:         PredictionResult{Breed: "Gir", Confidence: 0.9, HeightCM: 120, WidthCM: 150, WeightKG: 225},
		DegradedFacets: []string{advisory.FacetNutrition},
		CreatedAt:      time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO predictions").
		WithArgs(
			p.ID,
			p.UserID,
			p.FileName,
			p.MimeType,
			p.SizeBytes,
			p.ImageKey,
			"Gir",
			0.9,
			true,
			"nutrition",
			sqlmock.AnyArg(), // result
			p.CreatedAt,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), p); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectQuery("SELECT (.+) FROM predictions").
		WithArgs("missing", "guest:abc").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err = (&PGRepo{DB: db}).GetByID(context.Background(), "guest:abc", "missing")
	if err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoListByUserDecodesRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	result, _ := json.Marshal(PredictionResult{Breed: "Sahiwal", HeightCM: 100, WidthCM: 160, WeightKG: 200})
	created := time.Date(2026, time.February, 2, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "user_id", "file_name", "mime_type", "size_bytes", "image_key", "result", "degraded_facets", "created_at"}).
		AddRow("p-1", "guest:abc", "cow.png", "image/png", int64(10), nil, result, "breeding,reproductive", created)

	mock.ExpectQuery("SELECT (.+) FROM predictions").
		WithArgs("guest:abc", 0, 20).
		WillReturnRows(rows)

	items, err := (&PGRepo{DB: db}).ListByUser(context.Background(), "guest:abc", 20, 0)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	got := items[0]
	if got.Result.Breed != "Sahiwal" || got.ImageKey != "" || !got.CreatedAt.Equal(created) {
		t.Fatalf("unexpected prediction %+v", got)
	}
	if len(got.DegradedFacets) != 2 || got.DegradedFacets[1] != advisory.FacetReproductive {
		t.Fatalf("unexpected degraded facets %v", got.DegradedFacets)
	}
	if got.Result.BestBreedingMatches == nil {
		t.Fatalf("expected non-nil breeding matches after decode")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
