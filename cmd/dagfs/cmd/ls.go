package cmd

import (
	"github.com/spf13/cobra"

	"github.com/dagfs/dagfs/pkg/model"
	"github.com/dagfs/dagfs/pkg/resolve"
)

var lsCmd = &cobra.Command{
	Use:   "ls <root-id> [path]",
	Short: "List the links of a directory node",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := mustLogger()
		defer func() { _ = logger.Sync() }()

		rootId, err := model.ParseContentId(args[0])
		if err != nil {
			return err
		}
		path := ""
		if len(args) == 2 {
			path = args[1]
		}

		resolver, err := resolve.New(makeStore(logger), resolve.Logger(logger))
		if err != nil {
			return err
		}

		root := model.FileSystemNode{Id: rootId, Name: "/", IsDirectory: true}
		node, err := resolver.ResolveNode(cmd.Context(), root, path)
		if err != nil {
			return err
		}

		printNode(cmd, node)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(lsCmd)
}
