package contacts

import (
	"context"
	"net/url"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func seedStore(t *testing.T, s *MemoryStore) {
	t.Helper()
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	s.Seed(
		Contact{ID: "alice", First: "Alice", Last: "Zhang", CreatedAt: base},
		Contact{ID: "bob", First: "Bob", Last: "Ames", CreatedAt: base.Add(time.Minute)},
		Contact{ID: "carol", First: "Carol", Last: "Ames", CreatedAt: base.Add(2 * time.Minute)},
	)
}

func TestMemoryListSortsByLastThenCreated(t *testing.T) {
	s := NewMemoryStore()
	seedStore(t, s)

	list, err := s.List(context.Background(), "")
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	var ids []string
	for _, c := range list {
		ids = append(ids, c.ID)
	}
	want := []string{"bob", "carol", "alice"}
	if diff := cmp.Diff(want, ids); diff != "" {
		t.Errorf("List() order mismatch (-want +got):\n%s", diff)
	}
}

func TestMemoryCRUD(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	first, last := "Dana", "Novak"
	created, err := s.Create(ctx, Fields{First: &first, Last: &last})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if created.ID == "" {
		t.Fatal("Create() returned empty ID")
	}
	if created.CreatedAt.IsZero() {
		t.Error("Create() left CreatedAt zero")
	}

	got, err := s.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get(%q) error: %v", created.ID, err)
	}
	if got.First != "Dana" || got.Last != "Novak" {
		t.Errorf("Get(%q) = %+v, want Dana Novak", created.ID, got)
	}

	fav := true
	updated, err := s.Update(ctx, created.ID, Fields{Favorite: &fav})
	if err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	if !updated.Favorite {
		t.Error("Update() did not set Favorite")
	}
	if updated.First != "Dana" {
		t.Errorf("Update() clobbered First: got %q", updated.First)
	}

	if err := s.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, err := s.Get(ctx, created.ID); err != ErrNotFound {
		t.Errorf("Get() after Delete() = %v, want ErrNotFound", err)
	}
	if err := s.Delete(ctx, created.ID); err != ErrNotFound {
		t.Errorf("second Delete() = %v, want ErrNotFound", err)
	}
}

func TestFilterFuzzyMatchesName(t *testing.T) {
	list := []Contact{
		{ID: "a", First: "Alice", Last: "Zhang"},
		{ID: "b", First: "Bob", Last: "Ames"},
		{ID: "c", First: "Albert", Last: "Zimmer"},
	}

	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{"a", "b", "c"}},
		{"bob", []string{"b"}},
		{"zh", []string{"a"}},
		{"nobody", nil},
	}
	for _, tt := range tests {
		var got []string
		for _, c := range Filter(list, tt.query) {
			got = append(got, c.ID)
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("Filter(%q) mismatch (-want +got):\n%s", tt.query, diff)
		}
	}
}

func TestFieldsFromForm(t *testing.T) {
	form := url.Values{}
	form.Set("first", "Eve")
	form.Set("favorite", "true")

	f := FieldsFromForm(form)
	if f.First == nil || *f.First != "Eve" {
		t.Errorf("First = %v, want Eve", f.First)
	}
	if f.Favorite == nil || !*f.Favorite {
		t.Errorf("Favorite = %v, want true", f.Favorite)
	}
	if f.Last != nil {
		t.Error("Last should be nil when absent from the form")
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		c    Contact
		want string
	}{
		{Contact{First: "Alice", Last: "Zhang"}, "Alice Zhang"},
		{Contact{First: "Alice"}, "Alice"},
		{Contact{Last: "Zhang"}, "Zhang"},
		{Contact{}, "No Name"},
	}
	for _, tt := range tests {
		if got := tt.c.DisplayName(); got != tt.want {
			t.Errorf("DisplayName(%+v) = %q, want %q", tt.c, got, tt.want)
		}
	}
}

func TestBoltStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contacts.db")
	s, err := OpenBolt(path)
	if err != nil {
		t.Fatalf("OpenBolt() error: %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	first, last := "Frank", "Ames"
	created, err := s.Create(ctx, Fields{First: &first, Last: &last})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	got, err := s.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if diff := cmp.Diff(created, got, cmpopts.EquateApproxTime(time.Second)); diff != "" {
		t.Errorf("Get() mismatch (-created +got):\n%s", diff)
	}

	notes := "met at the conference"
	if _, err := s.Update(ctx, created.ID, Fields{Notes: &notes}); err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	list, err := s.List(ctx, "frank")
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(list) != 1 || list[0].Notes != notes {
		t.Errorf("List(frank) = %+v, want one contact with updated notes", list)
	}

	if err := s.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, err := s.Get(ctx, created.ID); err != ErrNotFound {
		t.Errorf("Get() after Delete() = %v, want ErrNotFound", err)
	}
}
