// Command navkit-contacts is a terminal rendition of the classic contacts
// app: an address book driven entirely through a navigation controller.
// Every subcommand is a navigation or a form submission against the same
// route table a browser front end would use.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
)

func main() {
	var flags appFlags

	rootCmd := &cobra.Command{
		Use:   "navkit-contacts",
		Short: "A contacts address book driven by a navigation controller",
		Long: `navkit-contacts exercises the navkit navigation engine against a
small address book.

Each subcommand performs a navigation or a form submission through the
route table, running the same loaders and actions a UI would:

  /                      contact list (supports ?q= search)
  /contacts/:id          contact detail
  /contacts/:id/edit     edit form
  /contacts/:id/destroy  delete

Contacts live in memory by default; pass --db to persist them in a
bbolt file, and --inspect to stream settle events over WebSocket.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&flags.dbPath, "db", "", "Path to a bbolt database file (default: in-memory demo data)")
	rootCmd.PersistentFlags().StringVar(&flags.inspectAddr, "inspect", "", "Serve inspection endpoints (/events, /metrics, /healthz) on this address")
	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Log navigation internals")

	rootCmd.AddCommand(
		navCmd(&flags),
		searchCmd(&flags),
		newCmd(&flags),
		editCmd(&flags),
		favoriteCmd(&flags),
		destroyCmd(&flags),
		walkCmd(&flags),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("navkit-contacts %s (%s)\n", version, commit)
		},
	}
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}

// errorMsg prints an error message.
func errorMsg(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "\033[31m✗\033[0m %s\n", fmt.Sprintf(format, args...))
}
