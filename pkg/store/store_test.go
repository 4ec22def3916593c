package store

import (
	"context"
	"testing"
	"time"

	"github.com/matzehuels/chartlayout/pkg/chartdoc"
	"github.com/matzehuels/chartlayout/pkg/errors"
	"github.com/matzehuels/chartlayout/pkg/geom"
	"github.com/matzehuels/chartlayout/pkg/render/timeline"
)

func sampleLayout() chartdoc.Layout {
	return chartdoc.Layout{
		Kind:   chartdoc.KindPyramid,
		Width:  400,
		Height: 300,
		Points: []chartdoc.Point{{
			Index:   0,
			Name:    "A",
			Value:   10,
			Polygon: []geom.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 5, Y: 10}},
		}},
	}
}

func testStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := base
	now = func() time.Time { return clock }
	defer func() { now = func() time.Time { return time.Now().UTC() } }()

	first := sampleLayout()
	if err := s.Save(ctx, &first); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := ValidateID(first.ID); err != nil {
		t.Errorf("Save should assign a uuid, got %q", first.ID)
	}
	if !first.CreatedAt.Equal(base) {
		t.Errorf("CreatedAt = %v, want %v", first.CreatedAt, base)
	}

	got, err := s.Get(ctx, first.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Kind != first.Kind || len(got.Points) != 1 || got.Points[0].Polygon[2] != (geom.Point{X: 5, Y: 10}) {
		t.Errorf("Get = %+v, want %+v", got, first)
	}

	clock = base.Add(time.Minute)
	second := chartdoc.Layout{Kind: chartdoc.KindTimeline, Width: 300, Height: 200, TotalRange: &timeline.Bounds{EX: 300}}
	if err := s.Save(ctx, &second); err != nil {
		t.Fatal(err)
	}

	list, err := s.List(ctx, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].ID != second.ID {
		t.Errorf("List = %d layouts (first %q), want 2 newest first (%q)", len(list), firstID(list), second.ID)
	}
	if list, _ := s.List(ctx, 1); len(list) != 1 {
		t.Errorf("List(1) = %d layouts, want 1", len(list))
	}

	first.Title = "renamed"
	if err := s.Save(ctx, &first); err != nil {
		t.Fatal(err)
	}
	if got, _ := s.Get(ctx, first.ID); got == nil || got.Title != "renamed" {
		t.Errorf("Save of an existing id should replace it, got %+v", got)
	}

	if err := s.Delete(ctx, first.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, first.ID); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Get after Delete = %v, want NOT_FOUND", err)
	}
	if err := s.Delete(ctx, first.ID); err != nil {
		t.Errorf("Delete of missing id = %v, want nil", err)
	}

	bad := sampleLayout()
	bad.ID = "../../etc/passwd"
	if err := s.Save(ctx, &bad); !errors.Is(err, errors.ErrCodeInvalidData) {
		t.Errorf("Save with a bad id = %v, want INVALID_DATA", err)
	}
}

func firstID(ls []chartdoc.Layout) string {
	if len(ls) == 0 {
		return ""
	}
	return ls[0].ID
}

func TestMemoryStore(t *testing.T) {
	testStore(t, NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	testStore(t, s)

	if _, err := s.Get(context.Background(), "not-a-uuid"); !errors.Is(err, errors.ErrCodeInvalidData) {
		t.Errorf("Get(bad id) = %v, want INVALID_DATA", err)
	}
}

func TestNewMongoStoreValidation(t *testing.T) {
	if _, err := NewMongoStore(context.Background(), MongoOptions{}); !errors.Is(err, errors.ErrCodeInvalidSetting) {
		t.Errorf("empty uri = %v, want INVALID_SETTING", err)
	}
}

func TestNewMongoStoreUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := NewMongoStore(ctx, MongoOptions{
		URI:            "mongodb://127.0.0.1:1",
		ConnectTimeout: 100 * time.Millisecond,
	})
	if !errors.Is(err, errors.ErrCodeStorage) {
		t.Errorf("err = %v, want STORAGE", err)
	}
}
