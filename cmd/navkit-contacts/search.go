package main

import (
	"github.com/spf13/cobra"

	"github.com/navkit-dev/navkit/pkg/nav"
	"github.com/navkit-dev/navkit/pkg/routetree"
)

func searchCmd(flags *appFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search contacts by name",
		Long: `Search contacts the way the list's search box does: a GET
submission that folds the form into the query string and navigates
to /?q=<query>.

Examples:
  navkit-contacts search ada
  navkit-contacts search "grace hopper"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, flags)
			if err != nil {
				return err
			}
			defer a.close()

			sub := nav.Submission{
				Method: routetree.MethodGet,
				Target: "/",
				Form:   formValues("q", args[0]),
			}
			if err := a.ctrl.Submit(ctx, sub); err != nil {
				return err
			}
			printSnapshot(a.ctrl.Snapshot())
			return nil
		},
	}
}
