package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ryukoposting/ustack/internal/scaffold"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new blog in the blog directory",
	Long: `The init command creates the posts and public directories, a default
index.md and a default public/styles.css. Files that already exist are left
untouched.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := blogRoot(appConfig)
		if err != nil {
			return fmt.Errorf("resolving blog directory: %w", err)
		}
		res, err := scaffold.Init(root, logger)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, f := range res.Created {
			fmt.Fprintln(out, "created", f)
		}
		for _, f := range res.Skipped {
			fmt.Fprintln(out, "kept existing", f)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
