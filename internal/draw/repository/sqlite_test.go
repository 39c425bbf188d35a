package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"map-draw/internal/draw/models"

	"github.com/kylelemons/godebug/pretty"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

func newRepository(t *testing.T) *Repository {
	t.Helper()
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "db", "draw.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	repo := New(db)
	if err := repo.Init(context.Background(), "../../../migrations/001_init_draw.sql"); err != nil {
		t.Fatal(err)
	}
	return repo
}

func TestSaveAndGet(t *testing.T) {
	ctx := context.Background()
	repo := newRepository(t)

	in := &models.Snapshot{
		SessionID:    "s1",
		GeomType:     "multiGeometry",
		TransformWGS: true,
		FeatureCount: 2,
		Document:     `{"type":"FeatureCollection","features":[]}`,
		CreatedAt:    time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	if err := repo.Save(ctx, in); err != nil {
		t.Fatal(err)
	}
	if in.ID == "" {
		t.Fatal("id not assigned")
	}

	got, err := repo.GetByID(ctx, in.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !got.CreatedAt.Equal(in.CreatedAt) {
		t.Errorf("created = %v", got.CreatedAt)
	}
	got.CreatedAt = in.CreatedAt
	if diff := pretty.Compare(in, got); diff != "" {
		t.Errorf("snapshot (-want +got):\n%s", diff)
	}
}

func TestGetMissing(t *testing.T) {
	repo := newRepository(t)
	if _, err := repo.GetByID(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestListBySession(t *testing.T) {
	ctx := context.Background()
	repo := newRepository(t)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i, sid := range []string{"a", "b", "a"} {
		s := &models.Snapshot{SessionID: sid, GeomType: "singleGeometry", Document: "{}", CreatedAt: base.Add(time.Duration(i) * time.Minute)}
		if err := repo.Save(ctx, s); err != nil {
			t.Fatal(err)
		}
	}

	list, err := repo.ListBySession(ctx, "a")
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 {
		t.Fatalf("snapshots = %d, want 2", len(list))
	}
	if !list[0].CreatedAt.Before(list[1].CreatedAt) {
		t.Error("snapshots not ordered by creation time")
	}
	if err := repo.Ping(ctx); err != nil {
		t.Errorf("ping: %v", err)
	}
}
