package cmd

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/dagfs/dagfs/pkg/model"
	"github.com/dagfs/dagfs/pkg/resolve"
)

var catCmd = &cobra.Command{
	Use:   "cat <root-id> <path>",
	Short: "Stream a file's bytes out of the store",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := mustLogger()
		defer func() { _ = logger.Sync() }()

		rootId, err := model.ParseContentId(args[0])
		if err != nil {
			return err
		}

		resolver, err := resolve.New(makeStore(logger), resolve.Logger(logger))
		if err != nil {
			return err
		}

		root := model.FileSystemNode{Id: rootId, Name: "/", IsDirectory: true}
		rdr, err := resolver.ReadFile(cmd.Context(), root, args[1])
		if err != nil {
			return err
		}
		defer rdr.Close()

		_, err = io.Copy(cmd.OutOrStdout(), rdr)
		return err
	},
}

func init() {
	rootCmd.AddCommand(catCmd)
}
