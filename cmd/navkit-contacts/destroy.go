package main

import (
	"github.com/spf13/cobra"

	"github.com/navkit-dev/navkit/pkg/nav"
	"github.com/navkit-dev/navkit/pkg/routetree"
)

func destroyCmd(flags *appFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "destroy <id>",
		Short: "Delete a contact",
		Long: `Delete a contact by submitting to its destroy route, then follow
the action's redirect back to the list.

Examples:
  navkit-contacts destroy 4`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, flags)
			if err != nil {
				return err
			}
			defer a.close()

			sub := nav.Submission{
				Method: routetree.MethodPost,
				Target: "/contacts/" + args[0] + "/destroy",
			}
			if err := a.ctrl.Submit(ctx, sub); err != nil {
				return err
			}
			snap := a.ctrl.Snapshot()
			if snap.Err == nil {
				success("contact %s deleted", args[0])
			}
			printSnapshot(snap)
			return nil
		},
	}
}
