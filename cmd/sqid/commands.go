package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/bunchhieng/sqid/internal/app"
	sqidcli "github.com/bunchhieng/sqid/internal/cli"
	"github.com/bunchhieng/sqid/internal/storage"
	"github.com/bunchhieng/sqid/internal/tui"
)

// withCodec runs fn against commands that need the codec only.
func withCodec(st *state, fn func(c *cli.Context, cmds *sqidcli.Commands) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		a, err := app.OpenCodec(st.cfg, st.log)
		if err != nil {
			return err
		}
		return fn(c, sqidcli.NewCommands(a, c.App.Writer))
	}
}

// withStore runs fn against commands backed by the link store.
func withStore(st *state, fn func(c *cli.Context, cmds *sqidcli.Commands) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		a, err := app.Open(c.Context, st.cfg, st.log, app.OpenOptions{
			ResetCodec: c.Bool("reset-codec"),
		})
		if err != nil {
			return err
		}
		defer a.Close()
		return fn(c, sqidcli.NewCommands(a, c.App.Writer))
	}
}

func requireArgs(c *cli.Context, n int, usage string) error {
	if c.Args().Len() < n {
		return fmt.Errorf("usage: sqid %s", usage)
	}
	return nil
}

func commands(st *state) []*cli.Command {
	return []*cli.Command{
		{
			Name:      "encode",
			Aliases:   []string{"e"},
			Usage:     "Encode numbers into an ID",
			ArgsUsage: "<n> [n...]",
			Action: withCodec(st, func(c *cli.Context, cmds *sqidcli.Commands) error {
				if err := requireArgs(c, 1, "encode <n> [n...]"); err != nil {
					return err
				}
				return cmds.Encode(c.Args().Slice())
			}),
		},
		{
			Name:      "decode",
			Aliases:   []string{"d"},
			Usage:     "Decode an ID into numbers",
			ArgsUsage: "<id>",
			Action: withCodec(st, func(c *cli.Context, cmds *sqidcli.Commands) error {
				if err := requireArgs(c, 1, "decode <id>"); err != nil {
					return err
				}
				return cmds.Decode(c.Args().First())
			}),
		},
		{
			Name:      "check",
			Usage:     "Report whether an ID contains a blocked word",
			ArgsUsage: "<id>",
			Action: withCodec(st, func(c *cli.Context, cmds *sqidcli.Commands) error {
				if err := requireArgs(c, 1, "check <id>"); err != nil {
					return err
				}
				return cmds.Check(c.Args().First())
			}),
		},
		{
			Name:  "batch",
			Usage: "Encode (or decode) one line of stdin per line of stdout (lines up to 16 MiB)",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  "decode",
					Usage: "Treat each line as an ID to decode",
				},
				&cli.IntFlag{
					Name:  "workers",
					Usage: "Number of parallel workers (default: GOMAXPROCS)",
				},
			},
			Action: withCodec(st, func(c *cli.Context, cmds *sqidcli.Commands) error {
				return cmds.Batch(c.Context, c.App.Reader, c.App.Writer, sqidcli.BatchOptions{
					Decode:  c.Bool("decode"),
					Workers: c.Int("workers"),
				})
			}),
		},
		{
			Name:  "info",
			Usage: "Show the active codec configuration",
			Action: withCodec(st, func(c *cli.Context, cmds *sqidcli.Commands) error {
				return cmds.Info()
			}),
		},
		{
			Name:      "add",
			Usage:     "Add or update a link",
			ArgsUsage: "<url>",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "title", Usage: "Title for the link"},
				&cli.StringFlag{Name: "note", Usage: "Note for the link"},
				&cli.StringFlag{Name: "tags", Usage: "Comma-separated tags"},
			},
			Action: withStore(st, func(c *cli.Context, cmds *sqidcli.Commands) error {
				if err := requireArgs(c, 1, `add [--title "..."] [--note "..."] [--tags "t1,t2"] <url>`); err != nil {
					return err
				}
				return cmds.Add(c.Context, c.Args().First(), c.String("title"), c.String("note"), c.String("tags"))
			}),
		},
		{
			Name:    "list",
			Aliases: []string{"ls"},
			Usage:   "List links (default: unread)",
			Flags: []cli.Flag{
				&cli.BoolFlag{Name: "unread", Usage: "Show only unread links (default)"},
				&cli.BoolFlag{Name: "read", Usage: "Show only read links"},
				&cli.BoolFlag{Name: "all", Usage: "Show all links"},
				&cli.StringFlag{Name: "tag", Usage: "Filter by tag"},
				&cli.IntFlag{Name: "limit", Usage: "Limit number of results"},
			},
			Action: withStore(st, func(c *cli.Context, cmds *sqidcli.Commands) error {
				readStatus := storage.ReadStatusUnread
				if c.Bool("all") {
					readStatus = storage.ReadStatusAll
				} else if c.Bool("read") {
					readStatus = storage.ReadStatusRead
				}
				return cmds.List(c.Context, storage.ListOptions{
					ReadStatus: readStatus,
					Tag:        c.String("tag"),
					Limit:      c.Int("limit"),
				})
			}),
		},
		{
			Name:      "open",
			Usage:     "Open a link in the browser",
			ArgsUsage: "<id>",
			Action: withStore(st, func(c *cli.Context, cmds *sqidcli.Commands) error {
				if err := requireArgs(c, 1, "open <id>"); err != nil {
					return err
				}
				return cmds.Open(c.Context, c.Args().First())
			}),
		},
		{
			Name:      "done",
			Usage:     "Mark a link as read",
			ArgsUsage: "<id>",
			Action: withStore(st, func(c *cli.Context, cmds *sqidcli.Commands) error {
				if err := requireArgs(c, 1, "done <id>"); err != nil {
					return err
				}
				return cmds.Done(c.Context, c.Args().First())
			}),
		},
		{
			Name:      "undo",
			Usage:     "Mark a link as unread",
			ArgsUsage: "<id>",
			Action: withStore(st, func(c *cli.Context, cmds *sqidcli.Commands) error {
				if err := requireArgs(c, 1, "undo <id>"); err != nil {
					return err
				}
				return cmds.Undo(c.Context, c.Args().First())
			}),
		},
		{
			Name:      "rm",
			Usage:     "Delete one or more links",
			ArgsUsage: "<id> [id...]",
			Action: withStore(st, func(c *cli.Context, cmds *sqidcli.Commands) error {
				if err := requireArgs(c, 1, "rm <id> [id...]"); err != nil {
					return err
				}
				return cmds.Remove(c.Context, c.Args().Slice()...)
			}),
		},
		{
			Name:  "export",
			Usage: "Export all links",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: "json", Usage: "json or msgpack"},
				&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Write to file instead of stdout"},
			},
			Action: withStore(st, func(c *cli.Context, cmds *sqidcli.Commands) error {
				format, err := sqidcli.ParseFormat(c.String("format"))
				if err != nil {
					return err
				}
				out := c.App.Writer
				if path := c.String("output"); path != "" {
					f, err := os.Create(path)
					if err != nil {
						return fmt.Errorf("create output: %w", err)
					}
					defer f.Close()
					out = f
				}
				return cmds.Export(c.Context, out, format)
			}),
		},
		{
			Name:      "import",
			Usage:     "Import links from an export file",
			ArgsUsage: "<file>",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Usage: "json or msgpack (default: from file extension)"},
			},
			Action: withStore(st, func(c *cli.Context, cmds *sqidcli.Commands) error {
				if err := requireArgs(c, 1, "import [--format json|msgpack] <file>"); err != nil {
					return err
				}
				var format sqidcli.Format
				if name := c.String("format"); name != "" {
					var err error
					if format, err = sqidcli.ParseFormat(name); err != nil {
						return err
					}
				}
				return cmds.Import(c.Context, c.Args().First(), format)
			}),
		},
		{
			Name:      "search",
			Usage:     "Search links using full-text search",
			ArgsUsage: "<query>",
			Action: withStore(st, func(c *cli.Context, cmds *sqidcli.Commands) error {
				if err := requireArgs(c, 1, "search <query>"); err != nil {
					return err
				}
				return cmds.Search(c.Context, strings.Join(c.Args().Slice(), " "))
			}),
		},
		{
			Name:  "tui",
			Usage: "Interactive encode/decode playground",
			Action: func(c *cli.Context) error {
				a, err := app.OpenCodec(st.cfg, st.log)
				if err != nil {
					return err
				}
				return tui.Run(a.IDs.Codec())
			},
		},
		{
			Name:  "version",
			Usage: "Show version",
			Action: func(c *cli.Context) error {
				fmt.Fprintf(c.App.Writer, "sqid version %s\n", version)
				return nil
			},
		},
	}
}
