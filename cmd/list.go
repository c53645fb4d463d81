package cmd

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/disiqueira/gotree/v3"
	"github.com/spf13/cobra"

	"github.com/ryukoposting/ustack/internal/content"
	"github.com/ryukoposting/ustack/internal/scaffold"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the posts of the blog as a tree",
	Long: `The list command loads every post the way the server would and prints
them newest first, with their tags. Posts that fail to parse are reported in
the log and left out.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := blogRoot(appConfig)
		if err != nil {
			return fmt.Errorf("resolving blog directory: %w", err)
		}
		cache, err := content.New(filepath.Join(root, scaffold.PostsDir), appConfig.TTL(), logger)
		if err != nil {
			return err
		}
		if _, err := cache.RefreshIndex(true); err != nil {
			logger.Warn("loading index", "err", err)
		}
		return printTree(cmd.OutOrStdout(), cache)
	},
}

func printTree(w io.Writer, cache *content.Cache) error {
	title := cache.Site().Title
	if title == "" {
		title = "Untitled Blog"
	}
	tree := gotree.New(title)
	for _, post := range cache.Posts() {
		label := fmt.Sprintf("%s  %s  %s", post.Published().Format("2006-01-02"), post.ID, post.Metadata.Title)
		node := tree.Add(label)
		for _, tag := range post.Metadata.Tags {
			node.Add("#" + tag)
		}
	}
	_, err := io.WriteString(w, tree.Print())
	return err
}

func init() {
	rootCmd.AddCommand(listCmd)
}
