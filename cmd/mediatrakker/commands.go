package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/amaumene/mediatrakker/internal/client"
	"github.com/amaumene/mediatrakker/internal/config"
	"github.com/amaumene/mediatrakker/internal/models"
	"github.com/amaumene/mediatrakker/internal/tracker"
	"github.com/amaumene/mediatrakker/internal/ui"
	"github.com/amaumene/mediatrakker/internal/utils"
	"github.com/spf13/cobra"
)

// session is the client side state shared by the tracker commands
type session struct {
	coordinator *tracker.Coordinator
	store       *tracker.Store
	prefs       *tracker.Preferences
	renderer    *ui.Renderer
}

func newSession(ctx context.Context) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := utils.NewLoggerWithOutput(cfg.LogLevel, os.Stderr)
	backend := client.NewClient(cfg.BackendURL, cfg.ClientTimeout, logger)
	store := tracker.NewStore(backend, logger)
	prefs := tracker.NewPreferences(backend, logger)

	// Rendering falls back to the default theme when preferences are unreachable
	_ = prefs.Load(ctx)

	return &session{
		coordinator: tracker.NewCoordinator(backend, store, logger),
		store:       store,
		prefs:       prefs,
		renderer:    ui.NewRenderer(prefs.Theme()),
	}, nil
}

func mediaTypeFlag(cmd *cobra.Command) (models.MediaType, error) {
	raw, _ := cmd.Flags().GetString("type")
	return models.ParseMediaType(raw)
}

func newSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the catalog for one media type",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mediaType, err := mediaTypeFlag(cmd)
			if err != nil {
				return err
			}
			s, err := newSession(cmd.Context())
			if err != nil {
				return err
			}

			if err := s.coordinator.Search(cmd.Context(), strings.Join(args, " "), mediaType); err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), s.renderer.SearchResults(s.coordinator.SearchState(mediaType)))
			return nil
		},
	}
	cmd.Flags().StringP("type", "t", string(models.MediaTypeMovie), "media type (movie, tv, anime, manga, book, game)")
	return cmd
}

func newAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <query>",
		Short: "Search and add one of the results to your list",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mediaType, err := mediaTypeFlag(cmd)
			if err != nil {
				return err
			}
			pick, _ := cmd.Flags().GetInt("pick")
			rawStatus, _ := cmd.Flags().GetString("status")
			status := models.Status(rawStatus)
			if !models.ValidStatus(mediaType, status) {
				return fmt.Errorf("%w %q for %s", models.ErrInvalidStatus, rawStatus, mediaType)
			}

			s, err := newSession(cmd.Context())
			if err != nil {
				return err
			}
			if err := s.coordinator.Search(cmd.Context(), strings.Join(args, " "), mediaType); err != nil {
				return err
			}
			results := s.coordinator.SearchState(mediaType).Results
			if pick < 1 || pick > len(results) {
				return fmt.Errorf("no result #%d, the search returned %d", pick, len(results))
			}

			result := s.coordinator.AddToList(cmd.Context(), results[pick-1], status)
			fmt.Fprint(cmd.OutOrStdout(), s.renderer.AddResult(result))
			if !result.Added() {
				return result.Err
			}
			return nil
		},
	}
	cmd.Flags().StringP("type", "t", string(models.MediaTypeMovie), "media type (movie, tv, anime, manga, book, game)")
	cmd.Flags().IntP("pick", "p", 1, "which search result to add")
	cmd.Flags().StringP("status", "s", string(models.StatusPlanning), "initial status")
	return cmd
}

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show your list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd.Context())
			if err != nil {
				return err
			}
			if err := s.store.ReloadList(cmd.Context()); err != nil {
				return err
			}

			rawType, _ := cmd.Flags().GetString("type")
			rawStatus, _ := cmd.Flags().GetString("status")
			filter, _ := cmd.Flags().GetString("filter")

			var entries []models.UserListEntry
			for _, e := range tracker.FilterEntries(s.store.Entries(), filter) {
				if rawType != "" && string(e.ListItem.MediaType) != rawType {
					continue
				}
				if rawStatus != "" && string(e.ListItem.Status) != rawStatus {
					continue
				}
				entries = append(entries, e)
			}
			fmt.Fprint(cmd.OutOrStdout(), s.renderer.List(entries))
			return nil
		},
	}
	cmd.Flags().StringP("type", "t", "", "only this media type")
	cmd.Flags().StringP("status", "s", "", "only this status")
	cmd.Flags().StringP("filter", "f", "", "fuzzy title filter")
	return cmd
}

func newUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <list-item-id>",
		Short: "Change the status, rating or notes of a list item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var update models.ListItemUpdate
			if cmd.Flags().Changed("status") {
				raw, _ := cmd.Flags().GetString("status")
				status := models.Status(raw)
				update.Status = &status
			}
			if cmd.Flags().Changed("rating") {
				rating, _ := cmd.Flags().GetFloat64("rating")
				if !models.ValidRating(rating) {
					return models.ErrInvalidRating
				}
				update.Rating = &rating
			}
			if cmd.Flags().Changed("notes") {
				notes, _ := cmd.Flags().GetString("notes")
				update.Notes = &notes
			}
			if update.Empty() {
				return fmt.Errorf("nothing to update, pass --status, --rating or --notes")
			}

			s, err := newSession(cmd.Context())
			if err != nil {
				return err
			}
			if err := s.coordinator.UpdateItem(cmd.Context(), args[0], update); err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), s.renderer.Success("Item updated"))
			return nil
		},
	}
	cmd.Flags().StringP("status", "s", "", "new status")
	cmd.Flags().Float64P("rating", "r", 0, "rating from 0 to 10")
	cmd.Flags().StringP("notes", "n", "", "notes")
	return cmd
}

func newRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <list-item-id>",
		Short: "Remove an item from your list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd.Context())
			if err != nil {
				return err
			}
			if err := s.coordinator.RemoveItem(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), s.renderer.Success("Item removed from list"))
			return nil
		},
	}
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show counts by media type and status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd.Context())
			if err != nil {
				return err
			}
			if err := s.store.ReloadStats(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), s.renderer.Stats(s.store.Stats()))
			return nil
		},
	}
}

func newDashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show totals, completion and recent activity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd.Context())
			if err != nil {
				return err
			}
			if err := s.store.Reload(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), s.renderer.Dashboard(s.store.Stats(), s.store.Entries()))
			return nil
		},
	}
}

func newThemeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "theme [name]",
		Short: "List the themes or switch to one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd.Context())
			if err != nil {
				return err
			}
			if len(args) == 0 {
				fmt.Fprint(cmd.OutOrStdout(), s.renderer.Themes(s.prefs.Theme()))
				return nil
			}

			if err := s.prefs.SetTheme(cmd.Context(), args[0]); err != nil {
				if suggestion, ok := ui.SuggestTheme(args[0]); ok && errors.Is(err, tracker.ErrInvalidTheme) {
					return fmt.Errorf("%w, did you mean %q?", err, suggestion)
				}
				return err
			}
			r := ui.NewRenderer(s.prefs.Theme())
			fmt.Fprint(cmd.OutOrStdout(), r.Success("Theme set to "+r.Theme().DisplayName))
			return nil
		},
	}
}

func newStatusesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "statuses <media-type>",
		Short: "Show the statuses a media type accepts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mediaType, err := models.ParseMediaType(args[0])
			if err != nil {
				return err
			}
			r := ui.NewRenderer(models.DefaultTheme)
			fmt.Fprint(cmd.OutOrStdout(), r.Statuses(mediaType, models.StatusesFor(mediaType)))
			return nil
		},
	}
}
