package uploads

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	upload := Upload{
		ID:            "upload-1",
		OwnerID:       "user-1",
		SourceKind:    KindDocument,
		SourceLocator: "uploads/user-1/notes.pdf",
		Title:         "notes.pdf",
		Status:        StatusPending,
		SizeBytes:     2048,
		CreatedAt:     time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO user_uploads").
		WithArgs(
			upload.ID,
			upload.OwnerID,
			upload.SourceKind,
			upload.SourceLocator,
			upload.Title,
			upload.Status,
			upload.SizeBytes,
			0,
			nil,
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), upload); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoUpdateStatusConditional(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	startedAt := time.Now().UTC()

	mock.ExpectExec("UPDATE user_uploads").
		WithArgs(
			"upload-1",
			StatusPending,
			StatusProcessing,
			nil,
			nil,
			nil,
			nil,
			startedAt,
			nil,
			sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.UpdateStatus(context.Background(), "upload-1", StatusPending, StatusProcessing, StatusPatch{StartedAt: &startedAt})
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoUpdateStatusConflict(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}

	mock.ExpectExec("UPDATE user_uploads").
		WillReturnResult(sqlmock.NewResult(0, 0))
	rows := sqlmock.NewRows([]string{
		"id", "owner_id", "source_kind", "source_locator", "title", "status",
		"size_bytes", "duration_minutes", "error_message", "created_at", "started_at", "completed_at", "updated_at",
	}).AddRow("upload-1", "user-1", KindDocument, "key", "notes.pdf", StatusProcessing,
		0, 0, nil, time.Now().UTC(), nil, nil, time.Now().UTC())
	mock.ExpectQuery("SELECT id, owner_id, source_kind").WithArgs("upload-1").WillReturnRows(rows)

	err = repo.UpdateStatus(context.Background(), "upload-1", StatusPending, StatusProcessing, StatusPatch{})
	if !errors.Is(err, ErrStatusConflict) {
		t.Fatalf("expected ErrStatusConflict, got %v", err)
	}
}

func TestPGRepoUpdateStatusMissingRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}

	mock.ExpectExec("UPDATE user_uploads").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT id, owner_id, source_kind").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	err = repo.UpdateStatus(context.Background(), "missing", StatusPending, StatusProcessing, StatusPatch{})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoListByOwner(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "owner_id", "source_kind", "source_locator", "title", "status",
		"size_bytes", "duration_minutes", "error_message", "created_at", "started_at", "completed_at", "updated_at",
	}).
		AddRow("upload-2", "user-1", KindVideo, "https://youtu.be/abc", "YouTube Video (12 min)", StatusCompleted, 0, 12, nil, now, now, now, now).
		AddRow("upload-1", "user-1", KindDocument, "key", "notes.pdf", StatusFailed, 100, 0, "boom", now.Add(-time.Hour), now, now, now)

	mock.ExpectQuery("SELECT id, owner_id, source_kind").
		WithArgs("user-1", 20, 0).
		WillReturnRows(rows)

	uploads, err := repo.ListByOwner(context.Background(), "user-1", 20, 0)
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(uploads) != 2 {
		t.Fatalf("expected 2 uploads, got %d", len(uploads))
	}
	if uploads[0].DurationMinutes != 12 {
		t.Fatalf("unexpected duration: %d", uploads[0].DurationMinutes)
	}
	if uploads[1].ErrorMessage == nil || *uploads[1].ErrorMessage != "boom" {
		t.Fatalf("expected error message on failed upload")
	}
}
