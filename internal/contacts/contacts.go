// Package contacts is the data layer for the contacts walkthrough app: a
// small address book with pluggable persistence. The memory store backs
// demos and tests, the bolt store adds durability, and an S3 store is
// available behind the s3store build tag.
package contacts

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/url"
	"sort"
	"time"
)

// ErrNotFound is returned when no contact has the requested ID.
var ErrNotFound = errors.New("contacts: contact not found")

// Contact is one address book entry.
type Contact struct {
	ID        string    `json:"id"`
	First     string    `json:"first"`
	Last      string    `json:"last"`
	Avatar    string    `json:"avatar"`
	Twitter   string    `json:"twitter"`
	Notes     string    `json:"notes"`
	Favorite  bool      `json:"favorite"`
	CreatedAt time.Time `json:"createdAt"`
}

// DisplayName renders the contact's name the way the list shows it.
func (c Contact) DisplayName() string {
	switch {
	case c.First == "" && c.Last == "":
		return "No Name"
	case c.Last == "":
		return c.First
	case c.First == "":
		return c.Last
	default:
		return c.First + " " + c.Last
	}
}

// Fields is a partial update: nil pointers leave the existing value alone.
type Fields struct {
	First    *string
	Last     *string
	Avatar   *string
	Twitter  *string
	Notes    *string
	Favorite *bool
}

// FieldsFromForm decodes a form payload into Fields. Only keys present in
// the form are updated.
func FieldsFromForm(form url.Values) Fields {
	var f Fields
	if form.Has("first") {
		v := form.Get("first")
		f.First = &v
	}
	if form.Has("last") {
		v := form.Get("last")
		f.Last = &v
	}
	if form.Has("avatar") {
		v := form.Get("avatar")
		f.Avatar = &v
	}
	if form.Has("twitter") {
		v := form.Get("twitter")
		f.Twitter = &v
	}
	if form.Has("notes") {
		v := form.Get("notes")
		f.Notes = &v
	}
	if form.Has("favorite") {
		v := form.Get("favorite") == "true"
		f.Favorite = &v
	}
	return f
}

// apply merges the fields into the contact.
func (c *Contact) apply(f Fields) {
	if f.First != nil {
		c.First = *f.First
	}
	if f.Last != nil {
		c.Last = *f.Last
	}
	if f.Avatar != nil {
		c.Avatar = *f.Avatar
	}
	if f.Twitter != nil {
		c.Twitter = *f.Twitter
	}
	if f.Notes != nil {
		c.Notes = *f.Notes
	}
	if f.Favorite != nil {
		c.Favorite = *f.Favorite
	}
}

// Store is the persistence contract the route loaders and actions use.
type Store interface {
	// List returns contacts sorted by last name then creation time.
	// A non-empty query fuzzy-filters on the contact's name, best
	// matches first.
	List(ctx context.Context, query string) ([]Contact, error)

	// Get returns the contact with the given ID, or ErrNotFound.
	Get(ctx context.Context, id string) (Contact, error)

	// Create adds a new contact and returns it with its assigned ID.
	Create(ctx context.Context, fields Fields) (Contact, error)

	// Update merges fields into an existing contact.
	Update(ctx context.Context, id string, fields Fields) (Contact, error)

	// Delete removes the contact, or returns ErrNotFound.
	Delete(ctx context.Context, id string) error
}

// newID generates a random contact ID.
func newID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return hex.EncodeToString([]byte(time.Now().String()))[:16]
	}
	return hex.EncodeToString(b)
}

// sortContacts orders by last name, then creation time, matching the
// sidebar's list order.
func sortContacts(list []Contact) {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].Last != list[j].Last {
			return list[i].Last < list[j].Last
		}
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})
}
