// Package commands implements the postctl command tree.
package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/debemdeboas/postcraft/internal/cli/client"
	"github.com/debemdeboas/postcraft/internal/cli/ui"
)

const (
	version = "0.1.0"

	EnvServer     = "POSTCRAFT_SERVER"
	defaultServer = "localhost:12600"

	requestTimeout = 30 * time.Second
)

type options struct {
	server string
}

// NewRootCommand builds the postctl command tree.
func NewRootCommand() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:     "postctl",
		Short:   "Manage postcraft drafts from the terminal",
		Version: version,
		Long: `A command-line client for a running postcraft server. Lists, searches,
creates and deletes drafts, toggles the LinkedIn connection and publishes posts.`,
		Example: `  # List every draft
  $ postctl drafts list

  # Search drafts
  $ postctl drafts list -q remote

  # Publish a saved draft, connecting the account if needed
  $ postctl publish --draft example-1 --yes`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	server := os.Getenv(EnvServer)
	if server == "" {
		server = defaultServer
	}
	root.PersistentFlags().StringVarP(&opts.server, "server", "s", server, "postcraft server address (env "+EnvServer+")")

	root.CompletionOptions.DisableDefaultCmd = true
	root.SetVersionTemplate(fmt.Sprintf("postctl version %s\n", version))
	root.SetUsageTemplate(usageTemplate())

	root.AddCommand(newDraftsCmd(opts))
	root.AddCommand(newConnectionCmd(opts))
	root.AddCommand(newPublishCmd(opts))

	return root
}

// Execute runs postctl and reports the error on stderr.
func Execute() error {
	root := NewRootCommand()
	err := root.Execute()
	if err != nil {
		ui.PrintError(root.ErrOrStderr(), "%v", err)
	}
	return err
}

func (o *options) client() (*client.APIClient, error) {
	return client.NewAPIClient(o.server)
}

func requestContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, requestTimeout)
}

func usageTemplate() string {
	bold := ui.Styles.Bold
	return `{{if .Long}}{{.Long}}

{{end}}` + bold.Render("USAGE") + `
  {{.UseLine}}{{if .HasAvailableSubCommands}}
  {{.CommandPath}} [command]{{end}}

{{if .HasExample}}` + bold.Render("EXAMPLES") + `
{{.Example}}

{{end}}{{if .HasAvailableSubCommands}}` + bold.Render("COMMANDS") + `{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}

{{end}}{{if .HasAvailableLocalFlags}}` + bold.Render("OPTIONS") + `
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}

{{end}}{{if .HasAvailableInheritedFlags}}` + bold.Render("GLOBAL OPTIONS") + `
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}

{{end}}{{if .HasAvailableSubCommands}}Use "{{.CommandPath}} [command] --help" for more information about a command.{{end}}
`
}
