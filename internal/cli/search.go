// internal/cli/search.go

package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"marketplace/internal/adapter/events"
	"marketplace/internal/adapter/storage"
	"marketplace/internal/domain/listing"
	"marketplace/internal/domain/search"
	searchService "marketplace/internal/service/search"
)

func newSearchCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:       "search <manpower|jobs|equipment|all>",
		Short:     "Run a search against a JSON fixtures file",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"manpower", "jobs", "equipment", "all"},
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger(v)
			defer log.Sync()

			path := v.GetString("fixtures")
			if path == "" {
				return fmt.Errorf("a fixtures file is required")
			}

			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("opening fixtures: %w", err)
			}
			defer f.Close()

			store, err := storage.LoadFixtures(f)
			if err != nil {
				return err
			}

			synonyms, err := loadSynonyms(v)
			if err != nil {
				return err
			}
			places, err := loadGazetteer(v)
			if err != nil {
				return err
			}

			service := searchService.NewService(synonyms, places, store, store, store, searchService.Config{}, log)

			filters, err := parseFilters(v.GetStringSlice("filter"))
			if err != nil {
				return err
			}

			q := search.Query{
				Keyword:  v.GetString("keyword"),
				Location: v.GetString("location"),
				Filters:  filters,
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			var resp interface{}
			switch args[0] {
			case "manpower":
				resp, err = service.SearchManpower(ctx, q)
			case "jobs":
				resp, err = service.SearchJobs(ctx, q)
			case "equipment":
				resp, err = service.SearchEquipment(ctx, q)
			default:
				resp, err = service.SearchAll(ctx, q)
			}
			if err != nil {
				return err
			}

			return printJSON(cmd.OutOrStdout(), resp)
		},
	}

	cmd.Flags().StringP("fixtures", "f", "", "JSON file with manpower, jobs and equipment records")
	cmd.Flags().StringP("keyword", "k", "", "keyword to search for")
	cmd.Flags().StringP("location", "l", "", "location to search within")
	cmd.Flags().StringSlice("filter", nil, "structured filter as name=value, may be repeated")

	v.BindPFlag("fixtures", cmd.Flags().Lookup("fixtures"))
	v.BindPFlag("keyword", cmd.Flags().Lookup("keyword"))
	v.BindPFlag("location", cmd.Flags().Lookup("location"))
	v.BindPFlag("filter", cmd.Flags().Lookup("filter"))

	return cmd
}

// parseFilters reads name=value pairs
func parseFilters(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	filters := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("invalid filter %q, expected name=value", pair)
		}
		filters[strings.TrimSpace(name)] = strings.TrimSpace(value)
	}
	return filters, nil
}

func newPublishCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publish <manpower|job|equipment> <id> <created|updated|deleted>",
		Short: "Announce a listing change so running services drop cached rollups",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := parseEvent(args)
			if err != nil {
				return err
			}

			nc, err := nats.Connect(v.GetString("nats-url"), nats.Name(app))
			if err != nil {
				return fmt.Errorf("connecting to NATS: %w", err)
			}
			defer nc.Close()

			topic := v.GetString("topic")
			if err := events.NewPublisher(nc, topic).Publish(e); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "published %s\n", e.Subject(topic))
			return nil
		},
	}

	cmd.Flags().String("nats-url", nats.DefaultURL, "NATS server URL")
	cmd.Flags().String("topic", "listing", "listing events topic")

	v.BindPFlag("nats-url", cmd.Flags().Lookup("nats-url"))
	v.BindPFlag("topic", cmd.Flags().Lookup("topic"))

	return cmd
}

// parseEvent builds a change event from kind, id and action arguments
func parseEvent(args []string) (listing.ChangeEvent, error) {
	kind := listing.Kind(args[0])
	switch kind {
	case listing.KindManpower, listing.KindJob, listing.KindEquipment:
	default:
		return listing.ChangeEvent{}, fmt.Errorf("unknown listing kind %q", args[0])
	}

	id, err := uuid.Parse(args[1])
	if err != nil {
		return listing.ChangeEvent{}, fmt.Errorf("invalid listing id: %w", err)
	}

	action := args[2]
	switch action {
	case listing.ActionCreated, listing.ActionUpdated, listing.ActionDeleted:
	default:
		return listing.ChangeEvent{}, fmt.Errorf("unknown action %q", action)
	}

	return listing.ChangeEvent{Kind: kind, ID: id, Action: action}, nil
}
