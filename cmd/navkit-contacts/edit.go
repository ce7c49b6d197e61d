package main

import (
	"github.com/spf13/cobra"

	"github.com/navkit-dev/navkit/pkg/nav"
	"github.com/navkit-dev/navkit/pkg/routetree"
)

func editCmd(flags *appFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Update a contact's fields",
		Long: `Update a contact by submitting the edit form to its route's
action. Only the flags you pass are changed; the rest keep their
values.

Examples:
  navkit-contacts edit 1 --notes "invented programming"
  navkit-contacts edit 2 --twitter @hopper --last Hopper`,
		Args: cobra.ExactArgs(1),
	}
	form := contactFlags(cmd)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx, flags)
		if err != nil {
			return err
		}
		defer a.close()

		sub := nav.Submission{
			Method: routetree.MethodPost,
			Target: "/contacts/" + args[0] + "/edit",
			Form:   form(),
		}
		if err := a.ctrl.Submit(ctx, sub); err != nil {
			return err
		}
		snap := a.ctrl.Snapshot()
		if snap.Err == nil {
			success("contact %s updated", args[0])
		}
		printSnapshot(snap)
		return nil
	}
	return cmd
}
