package storage

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"

	errs "github.com/AaronLge/GeometrieConverter/pkg/errors"
	"github.com/AaronLge/GeometrieConverter/pkg/structure"
)

func fptr(v float64) *float64 { return &v }

func openTestStore(t *testing.T) *SQLite {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "structures.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testBundle(id string) structure.Bundle {
	return structure.Bundle{
		Meta: structure.Meta{Identifier: id, HeightReference: "LAT", WaterDepth: fptr(25)},
		Segments: structure.Structure{
			{Section: 1, Top: 10, Bottom: 0, DTop: 5, DBottom: 5, Thickness: 50},
			{Section: 2, Top: 0, Bottom: -20, DTop: 5, DBottom: 5.5, Thickness: 60},
		},
		Masses: []structure.AddedMass{
			{Top: 8, Mass: 2.5, Comment: "ladder"},
			{Top: 5, Bottom: fptr(2), Mass: 4, Comment: "internal platform"},
		},
	}
}

func TestSQLite_SaveAndGet(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	want := testBundle("EXAMPLE_MP")

	if err := s.Save(ctx, KindMP, want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err := s.Get(ctx, KindMP, "EXAMPLE_MP")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Get() = %+v, want %+v", got, want)
	}
}

func TestSQLite_SaveDuplicate(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Save(ctx, KindMP, testBundle("EXAMPLE_MP")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	err := s.Save(ctx, KindMP, testBundle("EXAMPLE_MP"))
	if code := errs.GetCode(err); code != errs.ErrCodeDuplicateIdentifier {
		t.Errorf("second Save() code = %q, want %q", code, errs.ErrCodeDuplicateIdentifier)
	}

	// Same identifier in another database is fine.
	if err := s.Save(ctx, KindTP, testBundle("EXAMPLE_MP")); err != nil {
		t.Errorf("Save() in other kind error = %v", err)
	}
}

func TestSQLite_SaveInvalidIdentifier(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"", "a/b", "x\x00y"} {
		err := s.Save(ctx, KindMP, testBundle(id))
		if code := errs.GetCode(err); code != errs.ErrCodeInvalidIdentifier {
			t.Errorf("Save(%q) code = %q, want %q", id, code, errs.ErrCodeInvalidIdentifier)
		}
	}
}

func TestSQLite_GetMissing(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Get(context.Background(), KindTower, "NOPE")
	if code := errs.GetCode(err); code != errs.ErrCodeNotFound {
		t.Errorf("Get() code = %q, want %q", code, errs.ErrCodeNotFound)
	}
}

func TestSQLite_List(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"B_MP", "A_MP"} {
		if err := s.Save(ctx, KindMP, testBundle(id)); err != nil {
			t.Fatalf("Save(%s) error = %v", id, err)
		}
	}
	if err := s.Save(ctx, KindTP, testBundle("EXAMPLE_TP")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	entries, err := s.List(ctx, KindMP)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("List() returned %d entries, want 2", len(entries))
	}
	if entries[0].Identifier != "A_MP" || entries[1].Identifier != "B_MP" {
		t.Errorf("List() order = %s, %s; want A_MP, B_MP", entries[0].Identifier, entries[1].Identifier)
	}
	e := entries[0]
	if e.Kind != KindMP || e.Sections != 2 || e.Masses != 2 {
		t.Errorf("entry = %+v, want 2 sections and 2 masses", e)
	}
	if e.HeightReference != "LAT" || e.WaterDepth == nil || *e.WaterDepth != 25 {
		t.Errorf("entry metadata = %+v", e)
	}
	if e.UpdatedAt.IsZero() {
		t.Error("entry has no update time")
	}

	empty, err := s.List(ctx, KindTower)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("List(TOWER) = %+v, want none", empty)
	}
}

func TestSQLite_Replace(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Save(ctx, KindMP, testBundle("OLD")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	// Rename OLD to NEW with a changed table.
	b := testBundle("NEW")
	b.Segments = b.Segments[:1]
	if err := s.Replace(ctx, KindMP, "OLD", b); err != nil {
		t.Fatalf("Replace() error = %v", err)
	}

	if _, err := s.Get(ctx, KindMP, "OLD"); errs.GetCode(err) != errs.ErrCodeNotFound {
		t.Errorf("old name still resolves: %v", err)
	}
	got, err := s.Get(ctx, KindMP, "NEW")
	if err != nil {
		t.Fatalf("Get(NEW) error = %v", err)
	}
	if got.Segments.Len() != 1 {
		t.Errorf("replaced structure has %d segments, want 1", got.Segments.Len())
	}
}

func TestSQLite_ReplaceCollision(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"A", "B"} {
		if err := s.Save(ctx, KindMP, testBundle(id)); err != nil {
			t.Fatalf("Save(%s) error = %v", id, err)
		}
	}

	err := s.Replace(ctx, KindMP, "A", testBundle("B"))
	if code := errs.GetCode(err); code != errs.ErrCodeDuplicateIdentifier {
		t.Errorf("Replace() code = %q, want %q", code, errs.ErrCodeDuplicateIdentifier)
	}

	err = s.Replace(ctx, KindMP, "MISSING", testBundle("C"))
	if code := errs.GetCode(err); code != errs.ErrCodeNotFound {
		t.Errorf("Replace(missing) code = %q, want %q", code, errs.ErrCodeNotFound)
	}
}

func TestSQLite_Delete(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Save(ctx, KindTP, testBundle("GONE")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := s.Delete(ctx, KindTP, "GONE"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := s.Get(ctx, KindTP, "GONE"); errs.GetCode(err) != errs.ErrCodeNotFound {
		t.Errorf("Get() after delete = %v, want NOT_FOUND", err)
	}
	if err := s.Delete(ctx, KindTP, "GONE"); errs.GetCode(err) != errs.ErrCodeNotFound {
		t.Errorf("second Delete() = %v, want NOT_FOUND", err)
	}
}

func TestSQLite_ReopenPersists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "structures.db")
	ctx := context.Background()

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := s.Save(ctx, KindTower, testBundle("KEPT")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	s2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer s2.Close()
	got, err := s2.Get(ctx, KindTower, "KEPT")
	if err != nil {
		t.Fatalf("Get() after reopen error = %v", err)
	}
	if got.Meta.Identifier != "KEPT" {
		t.Errorf("identifier = %q, want KEPT", got.Meta.Identifier)
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"MP", KindMP, false},
		{"TP", KindTP, false},
		{"TOWER", KindTower, false},
		{"tower", "", true},
		{"JACKET", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseKind(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseKind(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseKind(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
