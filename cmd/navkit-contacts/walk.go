package main

import (
	"github.com/spf13/cobra"

	"github.com/navkit-dev/navkit/pkg/location"
	"github.com/navkit-dev/navkit/pkg/nav"
	"github.com/navkit-dev/navkit/pkg/routetree"
)

func walkCmd(flags *appFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "walk",
		Short: "Walk through the full contact lifecycle in one session",
		Long: `Run the whole lifecycle against one controller session:

  1. load the contact list
  2. create a contact (redirects to its edit form)
  3. save the edit form (redirects to the detail page)
  4. star the contact (revalidates in place)
  5. go back through history (re-runs loaders)
  6. destroy the contact (redirects to the list)

Useful with --inspect to watch the event stream while it runs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, flags)
			if err != nil {
				return err
			}
			defer a.close()

			info("── contact list ──")
			if err := a.ctrl.Navigate(ctx, location.MustParse("/")); err != nil {
				return err
			}
			printSnapshot(a.ctrl.Snapshot())

			info("── create ──")
			err = a.ctrl.Submit(ctx, nav.Submission{
				Method: routetree.MethodPost,
				Target: "/",
				Form:   formValues("first", "Annie", "last", "Easley"),
			})
			if err != nil {
				return err
			}
			printSnapshot(a.ctrl.Snapshot())

			// The create action redirected to /contacts/<id>/edit; recover
			// the id from where we landed.
			segs := a.ctrl.Location().Segments()
			if len(segs) < 2 {
				errorMsg("expected to land on an edit page, got %s", a.ctrl.Location().String())
				return nil
			}
			id := segs[1]

			info("── save edit ──")
			err = a.ctrl.Submit(ctx, nav.Submission{
				Method: routetree.MethodPost,
				Target: "/contacts/" + id + "/edit",
				Form:   formValues("twitter", "@annie", "notes", "rocket software"),
			})
			if err != nil {
				return err
			}
			printSnapshot(a.ctrl.Snapshot())

			info("── star ──")
			err = a.ctrl.Submit(ctx, nav.Submission{
				Method: routetree.MethodPost,
				Target: "/contacts/" + id,
				Form:   formValues("favorite", "true"),
			})
			if err != nil {
				return err
			}
			printSnapshot(a.ctrl.Snapshot())

			info("── back ──")
			a.ctrl.GoBack()
			printSnapshot(a.ctrl.Snapshot())

			info("── destroy ──")
			err = a.ctrl.Submit(ctx, nav.Submission{
				Method: routetree.MethodPost,
				Target: "/contacts/" + id + "/destroy",
			})
			if err != nil {
				return err
			}
			printSnapshot(a.ctrl.Snapshot())

			success("walkthrough complete")
			return nil
		},
	}
}
