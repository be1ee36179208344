package main

import (
	"fmt"
	"os"
	"strconv"
	"wars/config"
	"wars/game"
	"wars/history"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func historyCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded matches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(store *history.Store) error {
				matches, err := store.Matches(limit)
				if err != nil {
					return err
				}
				table := tablewriter.NewTable(os.Stdout,
					tablewriter.WithHeader([]string{"ID", "Played", "Map", "Agents", "Winner", "Reason", "Turns", "Intents"}),
				)
				for _, m := range matches {
					table.Append([]string{
						strconv.FormatUint(uint64(m.ID), 10),
						m.CreatedAt.Format("2006-01-02 15:04"),
						m.Name,
						m.Agents,
						winnerName(m.Winner),
						m.Reason,
						strconv.Itoa(m.Turns),
						strconv.Itoa(m.Intents),
					})
				}
				table.Render()
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of matches to list")
	cmd.AddCommand(historyShowCmd(), historyDeleteCmd())
	return cmd
}

func historyShowCmd() *cobra.Command {
	var savePath string
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print the events of a recorded match",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseMatchID(args[0])
			if err != nil {
				return err
			}
			return withStore(func(store *history.Store) error {
				match, err := store.Match(id)
				if err != nil {
					return err
				}
				events, err := store.Events(id)
				if err != nil {
					return err
				}

				color.New(color.FgCyan, color.Bold).Printf("match %d on %s: %s wins (%s)\n", match.ID, match.Name, winnerName(match.Winner), match.Reason)
				table := tablewriter.NewTable(os.Stdout,
					tablewriter.WithHeader([]string{"#", "Turn", "Team", "Event", "Unit", "From", "To", "Amount"}),
				)
				for _, e := range events {
					table.Append([]string{
						strconv.Itoa(e.Seq),
						strconv.Itoa(e.Turn),
						game.TeamColor(e.Team),
						e.Kind,
						e.UnitType,
						fmt.Sprintf("%d,%d", e.FromRow, e.FromCol),
						fmt.Sprintf("%d,%d", e.ToRow, e.ToCol),
						strconv.Itoa(e.Amount),
					})
				}
				table.Render()

				if savePath != "" {
					if err := os.WriteFile(savePath, []byte(match.FinalSave), 0o644); err != nil {
						return err
					}
					color.Green("final position written to %s", savePath)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&savePath, "save", "", "write the final position to this file")
	return cmd
}

func historyDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a recorded match",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseMatchID(args[0])
			if err != nil {
				return err
			}
			return withStore(func(store *history.Store) error {
				if err := store.DeleteMatch(id); err != nil {
					return err
				}
				color.Green("deleted match %d", id)
				return nil
			})
		},
	}
}

func withStore(fn func(store *history.Store) error) error {
	cfg := config.GetHistoryConfig()
	if !cfg.Enabled {
		return fmt.Errorf("match history is disabled in %s", config.FileName)
	}
	store, err := history.Open(cfg.Path)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

func parseMatchID(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("bad match id %q", s)
	}
	return uint(id), nil
}

func winnerName(team int) string {
	if team < 0 {
		return "nobody"
	}
	return game.TeamColor(team)
}
