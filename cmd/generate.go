package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ryukoposting/ustack/internal/scaffold"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate new content from templates",
}

var generatePostCmd = &cobra.Command{
	Use:   "post <id>",
	Short: "Generate a new blog post",
	Long: `Creates posts/<id>.md from the post template. The id becomes the post's
URL (/p/<id>) and must consist solely of a-z, A-Z, 0-9 and hyphens.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := blogRoot(appConfig)
		if err != nil {
			return fmt.Errorf("resolving blog directory: %w", err)
		}
		path, err := scaffold.NewPost(root, args[0], time.Now())
		if err != nil {
			return err
		}
		logger.Debug("generated post", "id", args[0], "path", path)
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

func init() {
	generateCmd.AddCommand(generatePostCmd)
	rootCmd.AddCommand(generateCmd)
}
