package main

import (
	"github.com/spf13/cobra"

	"github.com/navkit-dev/navkit/pkg/nav"
	"github.com/navkit-dev/navkit/pkg/routetree"
)

func favoriteCmd(flags *appFlags) *cobra.Command {
	var unset bool

	cmd := &cobra.Command{
		Use:   "favorite <id>",
		Short: "Star or unstar a contact",
		Long: `Toggle a contact's favorite star. This submits to the contact's
own route, which revalidates in place instead of redirecting.

Examples:
  navkit-contacts favorite 3
  navkit-contacts favorite 3 --unset`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, flags)
			if err != nil {
				return err
			}
			defer a.close()

			val := "true"
			if unset {
				val = "false"
			}
			sub := nav.Submission{
				Method: routetree.MethodPost,
				Target: "/contacts/" + args[0],
				Form:   formValues("favorite", val),
			}
			if err := a.ctrl.Submit(ctx, sub); err != nil {
				return err
			}
			printSnapshot(a.ctrl.Snapshot())
			return nil
		},
	}
	cmd.Flags().BoolVar(&unset, "unset", false, "Remove the star instead of setting it")
	return cmd
}
