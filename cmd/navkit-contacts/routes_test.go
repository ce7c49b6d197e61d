package main

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/navkit-dev/navkit/internal/contacts"
	"github.com/navkit-dev/navkit/pkg/location"
	"github.com/navkit-dev/navkit/pkg/nav"
	"github.com/navkit-dev/navkit/pkg/routetree"
)

func testApp(t *testing.T) (*nav.Controller, *contacts.MemoryStore) {
	t.Helper()
	store := contacts.NewMemoryStore()
	store.Seed(
		contacts.Contact{ID: "ada", First: "Ada", Last: "Lovelace", CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		contacts.Contact{ID: "grace", First: "Grace", Last: "Hopper", CreatedAt: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
	)

	table, err := buildRoutes(store)
	if err != nil {
		t.Fatalf("buildRoutes() error: %v", err)
	}
	ctrl := nav.New(table)
	t.Cleanup(ctrl.Close)
	if err := ctrl.Start(context.Background()); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	return ctrl, store
}

func listData(t *testing.T, snap nav.Snapshot) contactListData {
	t.Helper()
	for _, data := range snap.Data {
		if d, ok := data.(contactListData); ok {
			return d
		}
	}
	t.Fatalf("no contact list in snapshot data for %s", snap.Location.String())
	return contactListData{}
}

func TestListLoaderFiltersByQuery(t *testing.T) {
	ctrl, _ := testApp(t)
	ctx := context.Background()

	if err := ctrl.Navigate(ctx, location.MustParse("/?q=ada")); err != nil {
		t.Fatalf("Navigate() error: %v", err)
	}
	d := listData(t, ctrl.Snapshot())
	if d.Query != "ada" {
		t.Errorf("Query = %q, want ada", d.Query)
	}
	if len(d.Contacts) != 1 || d.Contacts[0].ID != "ada" {
		t.Errorf("Contacts = %+v, want just ada", d.Contacts)
	}
}

func TestCreateRedirectsToEditForm(t *testing.T) {
	ctrl, store := testApp(t)
	ctx := context.Background()

	err := ctrl.Submit(ctx, nav.Submission{
		Method: routetree.MethodPost,
		Target: "/",
		Form:   formValues("first", "Annie", "last", "Easley"),
	})
	if err != nil {
		t.Fatalf("Submit() error: %v", err)
	}

	loc := ctrl.Location().String()
	if !strings.HasPrefix(loc, "/contacts/") || !strings.HasSuffix(loc, "/edit") {
		t.Fatalf("landed on %s, want /contacts/<id>/edit", loc)
	}

	id := ctrl.Location().Segments()[1]
	c, err := store.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get(%q) error: %v", id, err)
	}
	if c.First != "Annie" || c.Last != "Easley" {
		t.Errorf("created contact = %+v, want Annie Easley", c)
	}
}

func TestUpdateRedirectsToDetail(t *testing.T) {
	ctrl, store := testApp(t)
	ctx := context.Background()

	err := ctrl.Submit(ctx, nav.Submission{
		Method: routetree.MethodPost,
		Target: "/contacts/ada/edit",
		Form:   formValues("twitter", "@ada"),
	})
	if err != nil {
		t.Fatalf("Submit() error: %v", err)
	}
	if got := ctrl.Location().String(); got != "/contacts/ada" {
		t.Errorf("landed on %s, want /contacts/ada", got)
	}

	c, _ := store.Get(ctx, "ada")
	if c.Twitter != "@ada" {
		t.Errorf("Twitter = %q, want @ada", c.Twitter)
	}
	if c.First != "Ada" {
		t.Errorf("First = %q, partial update clobbered fields", c.First)
	}
}

func TestFavoriteRevalidatesInPlace(t *testing.T) {
	ctrl, _ := testApp(t)
	ctx := context.Background()

	if err := ctrl.Navigate(ctx, location.MustParse("/contacts/grace")); err != nil {
		t.Fatalf("Navigate() error: %v", err)
	}
	err := ctrl.Submit(ctx, nav.Submission{
		Method: routetree.MethodPost,
		Target: "/contacts/grace",
		Form:   formValues("favorite", "true"),
	})
	if err != nil {
		t.Fatalf("Submit() error: %v", err)
	}

	snap := ctrl.Snapshot()
	if got := snap.Location.String(); got != "/contacts/grace" {
		t.Errorf("location = %s, want /contacts/grace (no redirect)", got)
	}
	d, ok := snap.ActionData.(contactDetail)
	if !ok {
		t.Fatalf("ActionData = %T, want contactDetail", snap.ActionData)
	}
	if !d.Contact.Favorite {
		t.Error("action data shows Favorite = false, want true")
	}
}

func TestDestroyRedirectsToList(t *testing.T) {
	ctrl, store := testApp(t)
	ctx := context.Background()

	err := ctrl.Submit(ctx, nav.Submission{
		Method: routetree.MethodPost,
		Target: "/contacts/ada/destroy",
	})
	if err != nil {
		t.Fatalf("Submit() error: %v", err)
	}
	if got := ctrl.Location().String(); got != "/" {
		t.Errorf("landed on %s, want /", got)
	}
	if _, err := store.Get(ctx, "ada"); err != contacts.ErrNotFound {
		t.Errorf("Get(ada) after destroy = %v, want ErrNotFound", err)
	}
	d := listData(t, ctrl.Snapshot())
	for _, c := range d.Contacts {
		if c.ID == "ada" {
			t.Error("destroyed contact still in the list")
		}
	}
}

func TestMissingContactIs404(t *testing.T) {
	ctrl, _ := testApp(t)
	ctx := context.Background()

	err := ctrl.Navigate(ctx, location.MustParse("/contacts/nobody"))
	if err == nil {
		t.Fatal("Navigate() to missing contact returned nil error")
	}
	snap := ctrl.Snapshot()
	if snap.Err == nil {
		t.Fatal("snapshot has no error after failed load")
	}
	if snap.Err.Status != 404 {
		t.Errorf("snapshot error status = %d, want 404", snap.Err.Status)
	}
}

func TestSearchSubmissionFoldsIntoQuery(t *testing.T) {
	ctrl, _ := testApp(t)
	ctx := context.Background()

	err := ctrl.Submit(ctx, nav.Submission{
		Method: routetree.MethodGet,
		Target: "/",
		Form:   formValues("q", "hopper"),
	})
	if err != nil {
		t.Fatalf("Submit() error: %v", err)
	}
	if got := ctrl.Location().Query.Get("q"); got != "hopper" {
		t.Errorf("query q = %q, want hopper", got)
	}
	d := listData(t, ctrl.Snapshot())
	if len(d.Contacts) != 1 || d.Contacts[0].ID != "grace" {
		t.Errorf("Contacts = %+v, want just grace", d.Contacts)
	}
}
