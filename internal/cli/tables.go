// internal/cli/tables.go

package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newExpandCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "expand <keyword...>",
		Short: "Show the synonym expansion of every keyword token",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			synonyms, err := loadSynonyms(v)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), synonyms.ExpandQuery(strings.Join(args, " ")))
		},
	}
}

func newLocationsCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "locations <place>",
		Short: "Show every place name contained in a location",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			places, err := loadGazetteer(v)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), places.ExpandLocation(strings.Join(args, " ")))
		},
	}
}

func newValidateCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load the synonym table and gazetteer and report their sizes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			synonyms, err := loadSynonyms(v)
			if err != nil {
				return fmt.Errorf("synonym table: %w", err)
			}

			places, err := loadGazetteer(v)
			if err != nil {
				return fmt.Errorf("gazetteer: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "synonym groups: %d\nplaces: %d\n", synonyms.Len(), places.Len())
			return nil
		},
	}
}
