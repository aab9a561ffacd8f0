// internal/cli/root.go

package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"marketplace/internal/logger"
	"marketplace/internal/service/gazetteer"
	"marketplace/internal/service/synonym"
)

const app = "searchctl"

// Actual version can be specified in build command.
var version = "unknown"

// Execute runs the searchctl command tree
func Execute() error {
	return NewRootCmd(viper.New()).Execute()
}

// NewRootCmd builds the command tree around its own viper instance
func NewRootCmd(v *viper.Viper) *cobra.Command {
	var cfgFile string

	root := &cobra.Command{
		Use:          app,
		Short:        "searchctl inspects and exercises the marketplace search tables",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return initConfig(v, cfgFile)
		},
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is searchctl.yaml in current directory)")
	root.PersistentFlags().String("synonyms", "", "synonym table to use instead of the built-in one")
	root.PersistentFlags().String("gazetteer", "", "gazetteer to use instead of the built-in one")
	root.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	root.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	v.BindPFlag("synonyms", root.PersistentFlags().Lookup("synonyms"))
	v.BindPFlag("gazetteer", root.PersistentFlags().Lookup("gazetteer"))
	v.BindPFlag("debug", root.PersistentFlags().Lookup("debug"))
	v.BindPFlag("json", root.PersistentFlags().Lookup("json"))

	v.SetEnvPrefix(app)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	root.AddCommand(
		newVersionCmd(),
		newExpandCmd(v),
		newLocationsCmd(v),
		newValidateCmd(v),
		newSearchCmd(v),
		newPublishCmd(v),
	)

	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version: %s\n", app, version)
		},
	}
}

// initConfig reads the config file when one is given or present
func initConfig(v *viper.Viper, cfgFile string) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName(app)
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}

	return nil
}

func newLogger(v *viper.Viper) *zap.Logger {
	l, err := logger.New(v.GetBool("json"), v.GetBool("debug"))
	if err != nil {
		return zap.NewNop()
	}
	return l
}

// loadSynonyms returns the configured synonym table or the built-in one
func loadSynonyms(v *viper.Viper) (*synonym.Expander, error) {
	path := v.GetString("synonyms")
	if path == "" {
		return synonym.NewDefault()
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening synonym table: %w", err)
	}
	defer f.Close()

	return synonym.Load(f)
}

// loadGazetteer returns the configured gazetteer or the built-in one
func loadGazetteer(v *viper.Viper) (*gazetteer.Gazetteer, error) {
	path := v.GetString("gazetteer")
	if path == "" {
		return gazetteer.NewDefault()
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening gazetteer: %w", err)
	}
	defer f.Close()

	return gazetteer.Load(f)
}

func printJSON(w io.Writer, payload interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}
