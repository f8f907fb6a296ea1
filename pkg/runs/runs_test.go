package runs

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

func TestNew(t *testing.T) {
	a, b := New("h"), New("h")
	if a.ID == b.ID {
		t.Error("New returned the same ID twice")
	}
	if err := ValidateID(a.ID); err != nil {
		t.Errorf("ValidateID(%q) = %v", a.ID, err)
	}
	if a.GraphHash != "h" || a.CreatedAt.IsZero() {
		t.Errorf("New = %+v", a)
	}
}

func TestValidateID(t *testing.T) {
	tests := []struct {
		id      string
		wantErr bool
	}{
		{"6f1c2f36-8f0e-4c3f-9a55-3f0f6f1d2b7a", false},
		{"", true},
		{"../etc/passwd", true},
		{"not-a-uuid", true},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			err := ValidateID(tt.id)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateID(%q) = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
		})
	}
}

func TestFileStore(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	r := New("abc")
	r.Arch = "cmplt:4"
	r.Domains = 4
	r.Comm = 12
	if err := s.Save(ctx, r); err != nil {
		t.Fatal(err)
	}

	got, err := s.Get(ctx, r.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Arch != "cmplt:4" || got.Domains != 4 || got.Comm != 12 {
		t.Errorf("Get = %+v", got)
	}

	if err := s.Delete(ctx, r.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(ctx, r.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after Delete = %v, want ErrNotFound", err)
	}
	if err := s.Delete(ctx, r.ID); err != nil {
		t.Errorf("second Delete = %v", err)
	}
}

func TestFileStoreRejectsBadIDs(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Save(ctx, &Run{ID: "../x"}); !errors.Is(err, ErrInvalidID) {
		t.Errorf("Save = %v, want ErrInvalidID", err)
	}
	if _, err := s.Get(ctx, "x"); !errors.Is(err, ErrInvalidID) {
		t.Errorf("Get = %v, want ErrInvalidID", err)
	}
}

func TestFileStoreList(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	var ids []string
	for i := range 5 {
		r := New("g")
		r.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		ids = append(ids, r.ID)
		if err := s.Save(ctx, r); err != nil {
			t.Fatal(err)
		}
	}
	// Foreign and broken files are ignored.
	_ = os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o600)
	_ = os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0o600)

	list, err := s.List(ctx, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 3 {
		t.Fatalf("len(List) = %d, want 3", len(list))
	}
	for i, want := range []string{ids[4], ids[3], ids[2]} {
		if list[i].ID != want {
			t.Errorf("List[%d] = %s, want %s", i, list[i].ID, want)
		}
	}

	all, err := s.List(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 5 {
		t.Errorf("List(0) returned %d runs, want 5", len(all))
	}
}

func TestMongoListOptions(t *testing.T) {
	opts := listOptions(0)
	if opts.Limit == nil || *opts.Limit != DefaultListLimit {
		t.Errorf("limit = %v, want %d", opts.Limit, DefaultListLimit)
	}
	sort, ok := opts.Sort.(bson.D)
	if !ok || len(sort) != 2 || sort[0].Key != "created_at" || sort[0].Value != -1 {
		t.Errorf("sort = %v, want created_at descending first", opts.Sort)
	}
	if got := listOptions(7); *got.Limit != 7 {
		t.Errorf("limit = %d, want 7", *got.Limit)
	}
}

func TestMongoIndexModels(t *testing.T) {
	models := indexModels()
	if len(models) != 2 {
		t.Fatalf("len(indexModels) = %d, want 2", len(models))
	}
	keys := models[1].Keys.(bson.D)
	if keys[0].Key != "graph_hash" {
		t.Errorf("second index on %q, want graph_hash", keys[0].Key)
	}
}

func TestNewMongoStoreRequiresURI(t *testing.T) {
	if _, err := NewMongoStore(context.Background(), MongoConfig{}); err == nil {
		t.Error("expected an error without a URI")
	}
}
