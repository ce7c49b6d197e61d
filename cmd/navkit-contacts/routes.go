package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/navkit-dev/navkit/internal/contacts"
	"github.com/navkit-dev/navkit/pkg/nav"
	"github.com/navkit-dev/navkit/pkg/routetree"
)

// contactListData is what the root loader hands to the sidebar.
type contactListData struct {
	Query    string
	Contacts []contacts.Contact
}

// contactDetail is what the contact and edit loaders produce.
type contactDetail struct {
	Contact contacts.Contact
}

// contactParams binds the :id segment.
type contactParams struct {
	ID string `param:"id"`
}

// buildRoutes wires the contact store into the demo app's route table:
//
//	/                      list + create
//	/contacts/:id          detail + favorite toggle
//	/contacts/:id/edit     edit form + update
//	/contacts/:id/destroy  delete
func buildRoutes(store contacts.Store) (*routetree.Table, error) {
	return routetree.New(routetree.Route{
		Path:         "/",
		Loader:       listLoader(store),
		Action:       createAction(store),
		ErrorHandler: rootErrorHandler,
		Children: []routetree.Route{
			{Index: true},
			{
				Path:   "contacts/:id",
				Loader: contactLoader(store),
				Action: favoriteAction(store),
			},
			{
				Path:   "contacts/:id/edit",
				Loader: contactLoader(store),
				Action: updateAction(store),
			},
			{
				Path:   "contacts/:id/destroy",
				Action: destroyAction(store),
			},
		},
	})
}

// listLoader lists contacts, filtered by the ?q= query parameter.
func listLoader(store contacts.Store) routetree.Loader {
	return func(ctx context.Context, req *routetree.Request) (any, error) {
		q := req.Location.Query.Get("q")
		list, err := store.List(ctx, q)
		if err != nil {
			return nil, fmt.Errorf("listing contacts: %w", err)
		}
		return contactListData{Query: q, Contacts: list}, nil
	}
}

// contactLoader fetches one contact; a missing ID surfaces as a 404.
func contactLoader(store contacts.Store) routetree.Loader {
	return func(ctx context.Context, req *routetree.Request) (any, error) {
		var p contactParams
		if err := routetree.BindParams(req.Params, &p); err != nil {
			return nil, err
		}
		c, err := store.Get(ctx, p.ID)
		if errors.Is(err, contacts.ErrNotFound) {
			return nil, &nav.StatusError{Status: 404, Message: fmt.Sprintf("no contact with id %q", p.ID)}
		}
		if err != nil {
			return nil, err
		}
		return contactDetail{Contact: c}, nil
	}
}

// createAction makes a new contact and redirects to its edit form.
func createAction(store contacts.Store) routetree.Action {
	return func(ctx context.Context, req *routetree.Request) (any, error) {
		c, err := store.Create(ctx, contacts.FieldsFromForm(req.Form))
		if err != nil {
			return nil, fmt.Errorf("creating contact: %w", err)
		}
		return nil, nav.RedirectTo("/contacts/" + c.ID + "/edit")
	}
}

// updateAction saves the edit form and redirects to the contact page.
func updateAction(store contacts.Store) routetree.Action {
	return func(ctx context.Context, req *routetree.Request) (any, error) {
		var p contactParams
		if err := routetree.BindParams(req.Params, &p); err != nil {
			return nil, err
		}
		_, err := store.Update(ctx, p.ID, contacts.FieldsFromForm(req.Form))
		if errors.Is(err, contacts.ErrNotFound) {
			return nil, &nav.StatusError{Status: 404, Message: fmt.Sprintf("no contact with id %q", p.ID)}
		}
		if err != nil {
			return nil, err
		}
		return nil, nav.RedirectTo("/contacts/" + p.ID)
	}
}

// favoriteAction toggles the favorite star in place. It returns the updated
// contact as action data, so the detail loader re-runs with it available.
func favoriteAction(store contacts.Store) routetree.Action {
	return func(ctx context.Context, req *routetree.Request) (any, error) {
		var p contactParams
		if err := routetree.BindParams(req.Params, &p); err != nil {
			return nil, err
		}
		c, err := store.Update(ctx, p.ID, contacts.FieldsFromForm(req.Form))
		if errors.Is(err, contacts.ErrNotFound) {
			return nil, &nav.StatusError{Status: 404, Message: fmt.Sprintf("no contact with id %q", p.ID)}
		}
		if err != nil {
			return nil, err
		}
		return contactDetail{Contact: c}, nil
	}
}

// destroyAction deletes the contact and redirects to the list.
func destroyAction(store contacts.Store) routetree.Action {
	return func(ctx context.Context, req *routetree.Request) (any, error) {
		var p contactParams
		if err := routetree.BindParams(req.Params, &p); err != nil {
			return nil, err
		}
		err := store.Delete(ctx, p.ID)
		if errors.Is(err, contacts.ErrNotFound) {
			return nil, &nav.StatusError{Status: 404, Message: fmt.Sprintf("no contact with id %q", p.ID)}
		}
		if err != nil {
			return nil, err
		}
		return nil, nav.RedirectTo("/")
	}
}

// rootErrorHandler is the last stop for loader and action failures.
func rootErrorHandler(req *routetree.Request, err error) {
	errorMsg("route %s failed: %s", req.Location.String(), err)
}
