package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/debemdeboas/postcraft/internal/cli/ui"
)

func newDraftsCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "drafts",
		Aliases: []string{"draft"},
		Short:   "list, show, create and delete drafts",
	}

	cmd.AddCommand(newDraftsListCmd(opts))
	cmd.AddCommand(newDraftsGetCmd(opts))
	cmd.AddCommand(newDraftsCreateCmd(opts))
	cmd.AddCommand(newDraftsDeleteCmd(opts))
	return cmd
}

func newDraftsListCmd(opts *options) *cobra.Command {
	var query string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "list drafts in store order",
		Long: `List drafts in the order they were saved. With --query only drafts whose title or content
contains the term (case-insensitive) are shown.`,
		Example: `  $ postctl drafts list
  $ postctl drafts list -q "remote work"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			ctx, cancel := requestContext(cmd)
			defer cancel()

			drafts, err := c.ListDrafts(ctx, query)
			if err != nil {
				return fmt.Errorf("failed to list drafts: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.RenderDraftTable(drafts))
			return nil
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "search term")
	return cmd
}

func newDraftsGetCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "show a draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			ctx, cancel := requestContext(cmd)
			defer cancel()

			d, err := c.GetDraft(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to get draft %q: %w", args[0], err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.RenderDraft(d))
			return nil
		},
	}
}

func newDraftsCreateCmd(opts *options) *cobra.Command {
	var title, content, file, image string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "save a new draft",
		Long: `Save a new draft. The content comes from --content or from --file
("-" reads standard input). A blank title is stored as "Untitled - <date>".`,
		Example: `  $ postctl drafts create -t "Launch" -c "We shipped! #golang"
  $ postctl drafts create -t "Weekly notes" -f notes.md
  $ echo "From a pipe" | postctl drafts create -f -`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := readContent(cmd.InOrStdin(), content, file)
			if err != nil {
				return err
			}

			c, err := opts.client()
			if err != nil {
				return err
			}
			ctx, cancel := requestContext(cmd)
			defer cancel()

			d, notice, err := c.CreateDraft(ctx, title, body, image)
			if err != nil {
				return fmt.Errorf("failed to create draft: %w", err)
			}
			ui.PrintNotification(cmd.OutOrStdout(), notice.Title, notice.Description)
			ui.PrintInfo(cmd.OutOrStdout(), "id: %s", d.ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "draft title")
	cmd.Flags().StringVarP(&content, "content", "c", "", "draft content")
	cmd.Flags().StringVarP(&file, "file", "f", "", "read content from a file, - for stdin")
	cmd.Flags().StringVar(&image, "image", "", "image reference to attach")
	cmd.MarkFlagsMutuallyExclusive("content", "file")
	return cmd
}

func newDraftsDeleteCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "delete a draft",
		Long:  `Delete a draft. Deleting an id that does not exist is not an error.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			ctx, cancel := requestContext(cmd)
			defer cancel()

			notice, err := c.DeleteDraft(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to delete draft %q: %w", args[0], err)
			}
			ui.PrintNotification(cmd.OutOrStdout(), notice.Title, notice.Description)
			return nil
		},
	}
}

func readContent(stdin io.Reader, content, file string) (string, error) {
	switch file {
	case "":
		return content, nil
	case "-":
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(b), nil
	default:
		b, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", file, err)
		}
		return string(b), nil
	}
}
