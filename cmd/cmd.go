// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// serveCommand runs the HTTP server.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the festival match web server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "Override the configured listen port",
			},
		},
		Action: r.Serve,
	}
}

// setupCommand handles setup operations for database and catalog.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Initialize database and run migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupDatabase,
			},
			{
				Name:  "catalog",
				Usage: "Write the seed festival catalog",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Overwrite an existing catalog file",
					},
				},
				Action: r.SetupCatalog,
			},
		},
	}
}

// catalogCommand handles festival catalog operations
func catalogCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "catalog",
		Aliases: []string{"cat"},
		Usage:   "Festival catalog operations",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List catalog festivals for a region",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
					&cli.StringFlag{
						Name:  "region",
						Usage: "Region to list (europe, usa, canada, australia)",
						Value: "europe",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.CatalogList,
			},
			{
				Name:  "matches",
				Usage: "Rank a region's festivals against a list of artists",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
					&cli.StringFlag{
						Name:  "region",
						Usage: "Region to rank (europe, usa, canada, australia)",
						Value: "europe",
					},
					&cli.StringFlag{
						Name:  "artists",
						Usage: "Comma-separated artist names (default: demo lineup)",
					},
					&cli.StringFlag{
						Name:  "user",
						Usage: "Rank for a registered user's artists (by email)",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Output format (json, csv, markdown, text)",
						Value:   "text",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (defaults next to the working directory)",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print JSON output",
						Value: true,
					},
				},
				Action: r.CatalogMatches,
			},
			{
				Name:  "import",
				Usage: "Append festivals from a JSON file to the catalog",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.CatalogImport,
			},
		},
	}
}

// suggestionsCommand handles the festival suggestion review workflow
func suggestionsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "suggestions",
		Aliases: []string{"sug"},
		Usage:   "Review community festival suggestions",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List suggestions",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
					&cli.StringFlag{
						Name:  "status",
						Usage: "Filter by status (pending, approved, rejected, duplicate)",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.SuggestionsList,
			},
			{
				Name:  "approve",
				Usage: "Approve a pending suggestion and append it to the catalog",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SuggestionsApprove,
			},
			{
				Name:  "reject",
				Usage: "Reject a pending suggestion",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SuggestionsReject,
			},
		},
	}
}

// cacheCommand handles the tour-date cache
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Manage the tour-date cache",
		Commands: []*cli.Command{
			{
				Name:  "warm",
				Usage: "Prime tour dates for every artist users follow",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
					&cli.StringFlag{
						Name:  "region",
						Usage: "Region to warm",
						Value: "europe",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent workers (capped at 10)",
						Value: 5,
					},
					&cli.IntFlag{
						Name:  "rate",
						Usage: "Upstream requests per second",
						Value: 2,
					},
				},
				Action: r.CacheWarm,
			},
			{
				Name:  "sweep",
				Usage: "Delete expired sessions and stale cached tour dates",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.CacheSweep,
			},
		},
	}
}

// authCommand handles authentication operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage authentication",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Log in with Google and print a session ID",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.AuthLogin,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for suggestion review.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"review", "ui"},
		Usage:   "Launch interactive TUI for suggestion review",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.TUI,
	}
}
