package cmd

import (
	"fmt"

	units "github.com/docker/go-units"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dagfs/dagfs/pkg/dag"
	"github.com/dagfs/dagfs/pkg/model"
)

var buildRecursive bool

var buildCmd = &cobra.Command{
	Use:   "build <path>",
	Short: "Build a content-addressed DAG from a file tree",
	Long: `Build walks the file or directory at path, uploads every file as a leaf
and materializes one node per directory, bottom-up. On success the root
id is printed; feed it to "dagfs ls" or "dagfs cat" to read the tree back.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := mustLogger()
		defer func() { _ = logger.Sync() }()

		opts := []dag.Option{
			dag.Store(makeStore(logger)),
			dag.Logger(logger),
		}
		if n := viper.GetInt(maxParallelFlag); n > 0 {
			opts = append(opts, dag.MaxParallel(n))
		}
		builder, err := dag.New(opts...)
		if err != nil {
			return err
		}

		node, err := builder.Build(cmd.Context(), args[0], buildRecursive)
		if err != nil {
			return err
		}

		printNode(cmd, node)
		return nil
	},
}

func printNode(cmd *cobra.Command, node model.FileSystemNode) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s\t%s\t%s\n", node.Id, units.HumanSize(float64(node.Size)), node.Name)
	for _, link := range node.Links {
		kind := "file"
		if link.IsDirectory {
			kind = "dir"
		}
		fmt.Fprintf(out, "  %s\t%s\t%s\t%s\n", link.Id, kind, units.HumanSize(float64(link.Size)), link.Name)
	}
}

func init() {
	buildCmd.Flags().BoolVar(&buildRecursive, "recursive", true, "descend into sub-directories")
	rootCmd.AddCommand(buildCmd)
}
