// submodule cmd contains command definitions
package main

import (
	"github.com/desertthunder/tagstream/internal/formatter"
	"github.com/urfave/cli/v3"
)

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Output format: text, markdown, csv, or json",
		Value:   formatter.FormatText,
	}
}

func noAudioFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "no-audio",
		Usage: "Resolve and print the stream source without starting the player",
	}
}

// searchCommand searches the catalog by tag key
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "search",
		Aliases: []string{"s"},
		Usage:   "List songs carrying a tag key",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "tag"},
		},
		Flags: []cli.Flag{
			formatFlag(),
			&cli.BoolFlag{
				Name:    "play",
				Aliases: []string{"p"},
				Usage:   "Play the first result",
			},
			noAudioFlag(),
		},
		Action: r.Search,
	}
}

// listCommand lists the full catalog
func listCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "List every song in the catalog",
		Flags:   []cli.Flag{formatFlag()},
		Action:  r.List,
	}
}

// playCommand streams a single song
func playCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "play",
		Usage: "Stream a song by id (or path, for path-addressed catalogs)",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "locator"},
		},
		Flags:  []cli.Flag{noAudioFlag()},
		Action: r.Play,
	}
}

// uploadCommand uploads an audio file under a tag
func uploadCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "upload",
		Aliases: []string{"up"},
		Usage:   "Upload an audio file with a tag",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "file"},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "tag",
				Aliases: []string{"t"},
				Usage:   "Tag key to file the song under",
			},
			&cli.StringFlag{
				Name:  "name",
				Usage: "Name sent with the file (default: upload.placeholder_name, else the file name)",
			},
		},
		Action: r.Upload,
	}
}

// historyCommand shows play and upload history
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Show recent plays and uploads",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "Maximum number of entries",
				Value:   10,
			},
			&cli.BoolFlag{
				Name:  "uploads",
				Usage: "Show uploads instead of plays",
			},
			&cli.BoolFlag{
				Name:  "failed",
				Usage: "Only failed uploads (with --uploads)",
			},
			&cli.BoolFlag{
				Name:  "top",
				Usage: "Show the most played songs",
			},
		},
		Action: r.History,
	}
}

// setupCommand handles setup operations for configuration and the database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "config",
				Usage:  "Write the default configuration file to --config",
				Action: r.SetupConfig,
			},
			{
				Name:   "database",
				Usage:  "Initialize the history database and run migrations",
				Action: r.SetupDatabase,
			},
		},
	}
}

// nodeCommand handles the development catalog node
func nodeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "node",
		Usage: "Development catalog node",
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Serve an in-memory catalog under node.base_path",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "addr",
						Usage: "Listen address",
						Value: ":8080",
					},
					&cli.StringFlag{
						Name:  "seed",
						Usage: "Directory of audio files to preload (subdirectories become tags)",
					},
				},
				Action: r.NodeServe,
			},
			{
				Name:   "watch",
				Usage:  "Print messages from the node status channel (node.ws_url)",
				Action: r.NodeWatch,
			},
		},
	}
}

// apiCommand handles direct catalog calls
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct calls to the catalog node",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Direct GET relative to the catalog root, prints the raw response",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output compact JSON",
					},
				},
				Action: r.APIGet,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive player",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "dir",
				Usage: "Starting directory of the upload file picker",
				Value: ".",
			},
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Log file used while the TUI owns the terminal",
				Value: "./tmp/tagstream-tui.log",
			},
		},
		Action: r.TUI,
	}
}
