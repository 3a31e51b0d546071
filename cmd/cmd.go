// submodule cmd contains command definitions
package main

import (
	"strings"

	"github.com/desertthunder/skillstream/internal/catalog"
	"github.com/desertthunder/skillstream/internal/formatter"
	"github.com/desertthunder/skillstream/internal/tasks"
	"github.com/urfave/cli/v3"
)

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

func formatFlag(value string) cli.Flag {
	names := make([]string, len(formatter.Formats))
	for i, f := range formatter.Formats {
		names[i] = string(f)
	}
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Output format (" + strings.Join(names, ", ") + ")",
		Value:   value,
	}
}

// courseFlags are the editable course fields shared by admin create and update.
func courseFlags(withCode bool) []cli.Flag {
	flags := []cli.Flag{
		&cli.StringFlag{Name: "title", Usage: "Course title"},
		&cli.StringFlag{Name: "description", Usage: "Course description"},
		&cli.StringFlag{Name: "provider", Usage: "Provider or instructor"},
		&cli.StringFlag{Name: "image", Usage: "Image URL"},
		&cli.StringFlag{Name: "duration", Usage: "Duration in hours"},
		&cli.StringFlag{Name: "url", Usage: "Course URL"},
		&cli.StringFlag{Name: "tags", Usage: "Comma separated tags"},
	}
	if withCode {
		flags = append([]cli.Flag{&cli.StringFlag{Name: "code", Usage: "Public course code", Required: true}}, flags...)
	}
	return flags
}

// setupCommand handles setup operations for the database and configuration.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Initialize database and run migrations",
				Flags: []cli.Flag{
					configFlag(),
					&cli.BoolFlag{
						Name:  "rollback",
						Usage: "Roll back the most recent migration",
					},
				},
				Action: r.SetupDatabase,
			},
			{
				Name:  "config",
				Usage: "Write a config file from the defaults",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{Name: "api-url", Usage: "API base URL to store"},
					&cli.StringFlag{Name: "theme", Usage: "Default theme (dark or light)"},
				},
				Action: r.SetupConfig,
			},
		},
	}
}

// authCommand handles the session.
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage the session",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Log in and store the session token",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Required: true},
					&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Required: true},
				},
				Action: r.AuthLogin,
			},
			{
				Name:  "register",
				Usage: "Create an account and store the session token",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Required: true},
					&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Required: true},
					&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Required: true},
				},
				Action: r.AuthRegister,
			},
			{
				Name:   "logout",
				Usage:  "Clear the stored session",
				Action: r.AuthLogout,
			},
			{
				Name:   "status",
				Usage:  "Show the session and its claims",
				Action: r.AuthStatus,
			},
		},
	}
}

// coursesCommand handles the public catalog.
func coursesCommand(r *Runner) *cli.Command {
	sortKeys := make([]string, len(catalog.SortKeys))
	for i, k := range catalog.SortKeys {
		sortKeys[i] = string(k)
	}

	return &cli.Command{
		Name:  "courses",
		Usage: "Browse the course catalog",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List courses with optional filters",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "query", Aliases: []string{"q"}, Usage: "Search text, or #tag"},
					&cli.StringFlag{Name: "tag", Aliases: []string{"t"}, Usage: "Only courses with this tag"},
					&cli.StringFlag{Name: "sort", Aliases: []string{"s"}, Usage: "Sort by " + strings.Join(sortKeys, ", "), Value: string(catalog.SortRelevance)},
					&cli.BoolFlag{Name: "offline", Usage: "Read the local cache instead of the API"},
					formatFlag(string(formatter.Text)),
				},
				Action: r.CoursesList,
			},
			{
				Name:      "search",
				Usage:     "Search courses on the server",
				Arguments: []cli.Argument{&cli.StringArg{Name: "query"}},
				Flags:     []cli.Flag{formatFlag(string(formatter.Text))},
				Action:    r.CoursesSearch,
			},
			{
				Name:   "tags",
				Usage:  "Show the quick-filter tags",
				Flags:  []cli.Flag{&cli.BoolFlag{Name: "offline", Usage: "Read the local cache instead of the API"}},
				Action: r.CoursesTags,
			},
			{
				Name:      "open",
				Usage:     "Open a course link in the browser",
				Arguments: []cli.Argument{&cli.StringArg{Name: "code"}},
				Action:    r.CoursesOpen,
			},
		},
	}
}

// favoritesCommand handles the favorites of the session user.
func favoritesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "favorites",
		Aliases: []string{"favs", "fav"},
		Usage:   "Manage your favorite courses",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List your favorites",
				Flags:  []cli.Flag{formatFlag(string(formatter.Text))},
				Action: r.FavoritesList,
			},
			{
				Name:      "add",
				Usage:     "Add a course by code",
				Arguments: []cli.Argument{&cli.StringArg{Name: "code"}},
				Action:    r.FavoritesAdd,
			},
			{
				Name:      "remove",
				Aliases:   []string{"rm"},
				Usage:     "Remove a course by code",
				Arguments: []cli.Argument{&cli.StringArg{Name: "code"}},
				Action:    r.FavoritesRemove,
			},
		},
	}
}

// adminCommand handles course administration.
func adminCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "admin",
		Usage: "Administer courses (requires the admin role)",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List courses with their row ids",
				Action: r.AdminList,
			},
			{
				Name:   "stats",
				Usage:  "Show dashboard totals",
				Action: r.AdminStats,
			},
			{
				Name:   "create",
				Usage:  "Create a course",
				Flags:  courseFlags(true),
				Action: r.AdminCreate,
			},
			{
				Name:      "update",
				Usage:     "Update the given fields of a course",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Flags:     courseFlags(false),
				Action:    r.AdminUpdate,
			},
			{
				Name:      "delete",
				Usage:     "Delete a course",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "Skip the confirmation prompt"},
				},
				Action: r.AdminDelete,
			},
		},
	}
}

// exportCommand writes course lists to files.
func exportCommand(r *Runner) *cli.Command {
	names := make([]string, len(tasks.Collections))
	for i, c := range tasks.Collections {
		names[i] = string(c)
	}

	return &cli.Command{
		Name:  "export",
		Usage: "Export course lists to files",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "collection",
				Aliases: []string{"C"},
				Usage:   "Lists to export (" + strings.Join(names, ", ") + ")",
			},
			formatFlag(string(formatter.JSON)),
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Output directory"},
			&cli.IntFlag{Name: "workers", Usage: "Concurrent writers", Value: 3},
		},
		Action: r.Export,
	}
}

// cacheCommand handles the local catalog cache.
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Keep a local copy of the catalog",
		Commands: []*cli.Command{
			{
				Name:   "sync",
				Usage:  "Replace the cache with the current catalog",
				Action: r.CacheSync,
			},
			{
				Name:  "show",
				Usage: "Show the cache and recent syncs",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "runs", Usage: "Number of recent syncs to show", Value: 5},
				},
				Action: r.CacheShow,
			},
		},
	}
}

// apiCommand handles direct API calls.
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct calls to the catalog API",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "GET a path under the API base URL and print the body",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.APIGet,
			},
			{
				Name:  "dump",
				Usage: "Fetch every list endpoint",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
					&cli.BoolFlag{
						Name:  "save",
						Usage: "Save dump to api_dump.json",
					},
				},
				Action: r.APIDump,
			},
		},
	}
}

func themeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "theme",
		Usage:     "Show or set the UI theme (light or dark)",
		Arguments: []cli.Argument{&cli.StringArg{Name: "theme"}},
		Action:    r.Theme,
	}
}

// tuiCommand returns the top-level TUI command.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive catalog browser",
		Action:  r.TUI,
	}
}

// devCommand runs a local copy of the catalog API.
func devCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "dev",
		Usage: "Development helpers",
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Serve the catalog API from fixtures",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "fixtures", Usage: "Seed YAML file (default: built-in fixtures)"},
					&cli.StringFlag{Name: "host", Usage: "Listen host"},
					&cli.IntFlag{Name: "port", Usage: "Listen port"},
				},
				Action: r.DevServe,
			},
		},
	}
}
