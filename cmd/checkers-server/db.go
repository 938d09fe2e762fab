package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"checkers/internal/storage"

	"github.com/urfave/cli/v2"
)

func pathFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "path",
		Usage:    "database file path",
		Required: true,
		EnvVars:  []string{"CHECKERS_STORAGE_PATH"},
	}
}

func dbCommand() *cli.Command {
	return &cli.Command{
		Name:  "db",
		Usage: "manage the game history database",
		Subcommands: []*cli.Command{
			{
				Name:  "init",
				Usage: "create the schema",
				Flags: []cli.Flag{pathFlag()},
				Action: func(c *cli.Context) error {
					return withStore(c, func(store *storage.Store) error {
						if err := store.InitDB(); err != nil {
							return fmt.Errorf("failed to initialize database: %w", err)
						}
						fmt.Fprintf(c.App.Writer, "Database initialized at: %s\n", c.String("path"))
						return nil
					})
				},
			},
			{
				Name:  "delete",
				Usage: "remove the database file",
				Flags: []cli.Flag{pathFlag()},
				Action: func(c *cli.Context) error {
					store, err := storage.NewStore(c.String("path"), false)
					if err != nil {
						return fmt.Errorf("failed to open store: %w", err)
					}
					if err := store.DeleteDB(); err != nil {
						return fmt.Errorf("failed to delete database: %w", err)
					}
					fmt.Fprintf(c.App.Writer, "Database deleted: %s\n", c.String("path"))
					return nil
				},
			},
			{
				Name:  "query",
				Usage: "list recorded games, or the moves of one game",
				Flags: []cli.Flag{
					pathFlag(),
					&cli.StringFlag{Name: "game-id", Usage: "game ID to filter (* for all)"},
					&cli.StringFlag{Name: "result", Usage: "result to filter, e.g. ongoing or \"red wins\" (* for all)"},
					&cli.BoolFlag{Name: "moves", Usage: "print the move list of --game-id"},
				},
				Action: func(c *cli.Context) error {
					return withStore(c, func(store *storage.Store) error {
						if c.Bool("moves") {
							return printMoves(c.App.Writer, store, c.String("game-id"))
						}
						return printGames(c.App.Writer, store, c.String("game-id"), c.String("result"))
					})
				},
			},
		},
	}
}

func withStore(c *cli.Context, fn func(store *storage.Store) error) error {
	store, err := storage.NewStore(c.String("path"), false)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer store.Close()
	return fn(store)
}

func printGames(out io.Writer, store *storage.Store, gameID, result string) error {
	games, err := store.QueryGames(gameID, result)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}
	if len(games) == 0 {
		fmt.Fprintln(out, "No games found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Game ID\tAI\tResult\tStart Time")
	fmt.Fprintln(w, strings.Repeat("-", 72))
	for _, g := range games {
		ai := "off"
		if g.AIEnabled {
			ai = fmt.Sprintf("%s/%s", g.AISide, g.Difficulty)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", g.GameID, ai, g.Result, g.StartTimeUTC.Format("2006-01-02 15:04:05"))
	}
	w.Flush()

	fmt.Fprintf(out, "\nFound %d game(s)\n", len(games))
	return nil
}

func printMoves(out io.Writer, store *storage.Store, gameID string) error {
	if gameID == "" || gameID == "*" {
		return fmt.Errorf("--moves needs a single --game-id")
	}
	moves, err := store.QueryMoves(gameID)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tSide\tMove\tFlags\tPosition")
	for _, m := range moves {
		var flags []string
		if m.Captured {
			flags = append(flags, "capture")
		}
		if m.Promoted {
			flags = append(flags, "king")
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", m.MoveNumber, m.PlayerSide, m.MoveNotation, strings.Join(flags, ","), m.PositionAfterMove)
	}
	w.Flush()
	return nil
}
