package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/navkit-dev/navkit/pkg/location"
)

func navCmd(flags *appFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "nav <path>",
		Short: "Navigate to a path and print what its loaders produced",
		Long: `Navigate to a path, running the loaders of every matched route,
and print the settled state.

Examples:
  navkit-contacts nav /
  navkit-contacts nav /contacts/1
  navkit-contacts nav "/?q=ada"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, flags)
			if err != nil {
				return err
			}
			defer a.close()

			target, err := location.Parse(args[0])
			if err != nil {
				return fmt.Errorf("bad path %q: %w", args[0], err)
			}
			if err := a.ctrl.Navigate(ctx, target); err != nil {
				return err
			}
			printSnapshot(a.ctrl.Snapshot())
			return nil
		},
	}
}
