package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/desertthunder/festmatch/internal/catalog"
	"github.com/desertthunder/festmatch/internal/formatter"
	"github.com/desertthunder/festmatch/internal/repositories"
	"github.com/desertthunder/festmatch/internal/shared"
	"github.com/desertthunder/festmatch/internal/tasks"
	"github.com/urfave/cli/v3"
)

// CatalogList lists the catalog festivals for one region.
func (r *Runner) CatalogList(ctx context.Context, cmd *cli.Command) error {
	config := r.loadConfig(cmd)
	region := cmd.String("region")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	festivals, err := catalog.NewStore(config.Catalog.Path).Load()
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	regionFestivals := catalog.FilterRegion(festivals, catalog.LookupRegion(region))

	if useJSON {
		return r.writeJSON(regionFestivals, pretty)
	}

	r.writePlainHeader(fmt.Sprintf("Festivals: %s (%d)", region, len(regionFestivals)))
	for _, festival := range regionFestivals {
		r.writePlain("%s - %s, %s [%s]\n", festival.Name, festival.Location, festival.Country, festival.Dates)
		if festival.LineupStatus != catalog.LineupConfirmed {
			r.writePlain("  lineup: %s\n", festival.LineupStatus)
		}
	}

	return nil
}

// CatalogMatches ranks a region's festivals against an artist list and writes
// the result in the requested format.
func (r *Runner) CatalogMatches(ctx context.Context, cmd *cli.Command) error {
	config := r.loadConfig(cmd)
	region := cmd.String("region")
	format := cmd.String("format")
	outputPath := cmd.String("output")
	pretty := cmd.Bool("pretty")

	store := catalog.NewStore(config.Catalog.Path)

	var result *tasks.RankResult
	artists := splitArtists(cmd.String("artists"))

	if email := cmd.String("user"); email != "" {
		db, err := r.openDatabase(config)
		if err != nil {
			return err
		}
		defer db.Close()

		users, err := repositories.NewUserRepository(db).List(map[string]any{"email": email})
		if err != nil {
			return fmt.Errorf("failed to look up user: %w", err)
		}
		if len(users) == 0 {
			return fmt.Errorf("%w: no user with email %s", shared.ErrNotFound, email)
		}
		user := users[0]

		artistRepo := repositories.NewArtistRepository(db)
		if artists, err = artistRepo.Names(user.ID()); err != nil {
			return fmt.Errorf("failed to load user artists: %w", err)
		}

		engine := tasks.NewEngine(artistRepo, repositories.NewFavoriteRepository(db), store)
		if result, err = engine.RankForUser(user.ID(), region); err != nil {
			return fmt.Errorf("failed to rank festivals: %w", err)
		}
	} else {
		if len(artists) == 0 {
			r.logger.Info("no artists given, ranking the demo lineup")
			artists = tasks.DemoArtistNames()
		}

		var err error
		engine := tasks.NewEngine(nil, nil, store)
		if result, err = engine.RankForArtists(artists, region); err != nil {
			return fmt.Errorf("failed to rank festivals: %w", err)
		}
	}

	export := &formatter.MatchExport{
		Region:    region,
		Year:      config.Catalog.Year,
		Artists:   artists,
		Festivals: result.Festivals,
	}

	switch format {
	case "json":
		return r.writeJSON(result, pretty)
	case "csv":
		path, err := formatter.WriteCSVExport(export, outputPath)
		if err != nil {
			return err
		}
		return r.writePlain("✓ Matches written to %s\n", path)
	case "markdown", "md":
		path, err := formatter.WriteMarkdownExport(export, outputPath)
		if err != nil {
			return err
		}
		return r.writePlain("✓ Matches written to %s\n", path)
	case "text":
		if outputPath != "" {
			path, err := formatter.WriteTextExport(export, outputPath)
			if err != nil {
				return err
			}
			return r.writePlain("✓ Matches written to %s\n", path)
		}
		text, err := formatter.ExportToText(export)
		if err != nil {
			return err
		}
		return r.writePlain("%s", text)
	default:
		return fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, format)
	}
}

// CatalogImport appends festivals from a JSON file to the live catalog,
// skipping entries whose name is already present.
func (r *Runner) CatalogImport(ctx context.Context, cmd *cli.Command) error {
	config := r.loadConfig(cmd)
	inputPath := cmd.StringArg("path")
	if inputPath == "" {
		return fmt.Errorf("%w: input file path", shared.ErrMissingArgument)
	}

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("failed to read import file: %w", err)
	}

	var imported []catalog.Festival
	if err := json.Unmarshal(data, &imported); err != nil {
		return fmt.Errorf("%w: import file is not a festival list: %v", shared.ErrInvalidInput, err)
	}

	store := catalog.NewStore(config.Catalog.Path)
	existing, err := store.Load()
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	added, skipped := 0, 0
	for _, festival := range imported {
		if festival.Name == "" {
			skipped++
			continue
		}
		if _, ok := catalog.FindByName(existing, festival.Name); ok {
			skipped++
			continue
		}
		if festival.ID == "" {
			festival.ID = catalog.Slug(festival.Name)
		}
		if festival.LineupStatus == "" {
			festival.LineupStatus = catalog.LineupUnannounced
		}
		if festival.Lineup == nil {
			festival.Lineup = []string{}
		}
		if err := store.Append(festival); err != nil {
			return fmt.Errorf("failed to append %s: %w", festival.Name, err)
		}
		existing = append(existing, festival)
		added++
	}

	r.logger.Info("catalog import finished", "added", added, "skipped", skipped)
	return r.writePlain("✓ Imported %d festivals (%d skipped)\n", added, skipped)
}

// splitArtists parses a comma-separated artist list, dropping empty entries.
func splitArtists(raw string) []string {
	var names []string
	for _, name := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			names = append(names, trimmed)
		}
	}
	return names
}
