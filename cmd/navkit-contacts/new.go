package main

import (
	"net/url"

	"github.com/spf13/cobra"

	"github.com/navkit-dev/navkit/pkg/nav"
	"github.com/navkit-dev/navkit/pkg/routetree"
)

// formValues builds a url.Values from alternating key/value pairs.
func formValues(pairs ...string) url.Values {
	form := url.Values{}
	for i := 0; i+1 < len(pairs); i += 2 {
		form.Set(pairs[i], pairs[i+1])
	}
	return form
}

// contactFlags registers the shared contact field flags and returns the
// form they were set into, tracking which flags were actually used.
func contactFlags(cmd *cobra.Command) func() url.Values {
	var first, last, avatar, twitter, notes string
	cmd.Flags().StringVar(&first, "first", "", "First name")
	cmd.Flags().StringVar(&last, "last", "", "Last name")
	cmd.Flags().StringVar(&avatar, "avatar", "", "Avatar URL")
	cmd.Flags().StringVar(&twitter, "twitter", "", "Twitter handle")
	cmd.Flags().StringVar(&notes, "notes", "", "Free-form notes")

	return func() url.Values {
		form := url.Values{}
		for name, val := range map[string]*string{
			"first": &first, "last": &last, "avatar": &avatar,
			"twitter": &twitter, "notes": &notes,
		} {
			if cmd.Flags().Changed(name) {
				form.Set(name, *val)
			}
		}
		return form
	}
}

func newCmd(flags *appFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a contact",
		Long: `Create a contact by submitting the new-contact form to the root
route's action, then follow its redirect to the edit page.

Examples:
  navkit-contacts new --first Ada --last Lovelace --twitter @ada`,
		Args: cobra.NoArgs,
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
			Target: "/",
			Form:   form(),
		}
		if err := a.ctrl.Submit(ctx, sub); err != nil {
			return err
		}
		success("contact created")
		printSnapshot(a.ctrl.Snapshot())
		return nil
	}
	return cmd
}
