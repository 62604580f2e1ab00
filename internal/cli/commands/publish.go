package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/debemdeboas/postcraft/internal/cli/client"
	"github.com/debemdeboas/postcraft/internal/cli/ui"
)

// ErrNotConnected is returned when publishing without a connection and without --yes.
var ErrNotConnected = errors.New("LinkedIn account not connected, rerun with --yes to connect and publish")

func newPublishCmd(opts *options) *cobra.Command {
	var content, file, draftID string
	var yes bool

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "publish a post to LinkedIn",
		Long: `Publish a post. The content comes from --content, --file or a saved draft
(--draft). Publishing never creates or changes drafts. When the account is
not connected the command fails unless --yes is given, in which case the
account is connected first.`,
		Example: `  $ postctl publish -c "Hello LinkedIn #hello"
  $ postctl publish --draft example-1 --yes`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			ctx, cancel := requestContext(cmd)
			defer cancel()

			body := content
			if draftID != "" {
				d, err := c.GetDraft(ctx, draftID)
				if err != nil {
					return fmt.Errorf("failed to get draft %q: %w", draftID, err)
				}
				body = d.Content
			} else if body, err = readContent(cmd.InOrStdin(), content, file); err != nil {
				return err
			}

			notice, err := c.Publish(ctx, body, yes)
			switch {
			case client.IsCode(err, "NOT_CONNECTED"):
				return ErrNotConnected
			case client.IsCode(err, "EMPTY_POST"):
				return errors.New("nothing to publish, the post content is empty")
			case err != nil:
				return fmt.Errorf("failed to publish: %w", err)
			}

			ui.PrintNotification(cmd.OutOrStdout(), notice.Title, notice.Description)
			return nil
		},
	}
	cmd.Flags().StringVarP(&content, "content", "c", "", "post content")
	cmd.Flags().StringVarP(&file, "file", "f", "", "read content from a file, - for stdin")
	cmd.Flags().StringVarP(&draftID, "draft", "d", "", "publish the content of a saved draft")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "connect the account first if needed")
	cmd.MarkFlagsMutuallyExclusive("content", "file", "draft")
	return cmd
}
