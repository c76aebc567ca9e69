// Package cmd implements the dagfs command line interface.
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/dagfs/dagfs/pkg/cas"
	"github.com/dagfs/dagfs/pkg/dlogger"
	"github.com/dagfs/dagfs/pkg/storage/localfs"
)

const (
	storeFlag       = "store"
	logLevelFlag    = "log-level"
	maxParallelFlag = "max-parallel"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "dagfs",
	Short: "dagfs turns file trees into content-addressed DAGs",
	Long: `dagfs converts a local file tree into a content-addressed Merkle DAG.

Every file becomes a leaf identified by its content hash; every directory
becomes a node linking to its children by name, id, size and type. An
unchanged tree always rebuilds to the same root id, so the root id acts
as a stable fingerprint of the whole tree.
`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	fls := rootCmd.PersistentFlags()
	fls.String(storeFlag, filepath.Join(".dagfs", "objects"), "directory the blob store writes to")
	fls.String(logLevelFlag, dlogger.LogLevelInfo, "log level (debug, info, none)")
	fls.Int(maxParallelFlag, 0, "maximum concurrent uploads per directory level (0 picks a default)")

	_ = viper.BindPFlag(storeFlag, fls.Lookup(storeFlag))
	_ = viper.BindPFlag(logLevelFlag, fls.Lookup(logLevelFlag))
	_ = viper.BindPFlag(maxParallelFlag, fls.Lookup(maxParallelFlag))
}

func initConfig() {
	viper.SetConfigName(".dagfs")
	viper.SetConfigType("yaml")
	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(home)
	}
	viper.AddConfigPath(".")
	viper.SetEnvPrefix("dagfs")
	viper.AutomaticEnv()
	// a missing config file is fine, flags and env carry the defaults
	_ = viper.ReadInConfig()
}

func mustLogger() *zap.Logger {
	l, err := dlogger.GetLogger(viper.GetString(logLevelFlag))
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid log level %q: %v\n", viper.GetString(logLevelFlag), err)
		os.Exit(1)
	}
	return l
}

func makeStore(logger *zap.Logger) cas.Store {
	backend := localfs.New(afero.NewBasePathFs(afero.NewOsFs(), viper.GetString(storeFlag)))
	return cas.New(
		cas.Backend(backend),
		cas.Logger(logger),
		cas.VerifyHash(true),
	)
}
