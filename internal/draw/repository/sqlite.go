package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"map-draw/internal/draw/models"

	"github.com/google/uuid"
)

// ============================================================
// SQLite Snapshot Repository
// ============================================================

var ErrNotFound = errors.New("snapshot not found")

type Repository struct {
	db *sql.DB
}

func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Init применяет схему хранилища выгрузок.
func (r *Repository) Init(ctx context.Context, migrationsPath string) error {
	if err := r.runMigrations(ctx, migrationsPath); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	return nil
}

func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Save сохраняет выгрузку. Пустые ID и CreatedAt заполняются.
func (r *Repository) Save(ctx context.Context, s *models.Snapshot) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, `
        INSERT INTO snapshots (id, session_id, geom_type, transform_wgs, feature_count, document, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)
    `, s.ID, s.SessionID, s.GeomType, s.TransformWGS, s.FeatureCount, s.Document, s.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*models.Snapshot, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT id, session_id, geom_type, transform_wgs, feature_count, document, created_at
        FROM snapshots
        WHERE id = ?
    `, id)

	s, err := scanSnapshot(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

// ListBySession возвращает выгрузки сессии от старых к новым.
func (r *Repository) ListBySession(ctx context.Context, sessionID string) ([]models.Snapshot, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, session_id, geom_type, transform_wgs, feature_count, document, created_at
        FROM snapshots
        WHERE session_id = ?
        ORDER BY created_at, id
    `, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	var out []models.Snapshot
	for rows.Next() {
		s, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row scanner) (*models.Snapshot, error) {
	var (
		s       models.Snapshot
		created string
	)
	if err := row.Scan(&s.ID, &s.SessionID, &s.GeomType, &s.TransformWGS, &s.FeatureCount, &s.Document, &created); err != nil {
		return nil, err
	}
	t, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return nil, fmt.Errorf("parse created_at %q: %w", created, err)
	}
	s.CreatedAt = t
	return &s, nil
}

// ============================================================
// Migrations
// ============================================================

func (r *Repository) runMigrations(ctx context.Context, migrationsPath string) error {
	data, err := os.ReadFile(migrationsPath)
	if err != nil {
		return fmt.Errorf("read migration: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, string(data)); err != nil {
		return fmt.Errorf("apply migration: %w", err)
	}
	return nil
}

// OpenSQLite открывает sqlite по указанному пути.
func OpenSQLite(dbPath string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?cache=shared&mode=rwc&_pragma=busy_timeout=5000", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return db, nil
}
