package main

import (
	"fmt"
	"os"
	"strconv"
	"wars/game"
	"wars/player"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <map>",
		Short: "Check that a save file loads into a playable battle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadScenario(args[0])
			if err != nil {
				return err
			}
			b, err := game.NewBattleFromScenario(s)
			if err != nil {
				return err
			}
			b.CheckInvariants()
			color.New(color.FgGreen, color.Bold).Printf("✓ %s: %dx%d, %d players, %d units\n",
				args[0], s.Map.Rows, s.Map.Cols, s.NumPlayers, len(s.Units))
			return nil
		},
	}
}

func inspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <map>",
		Short: "Print a save file's board, teams and units",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadScenario(args[0])
			if err != nil {
				return err
			}
			b, err := game.NewBattleFromScenario(s)
			if err != nil {
				return err
			}

			color.New(color.FgCyan, color.Bold).Printf("%s (%dx%d, starting funds %d)\n", args[0], s.Map.Rows, s.Map.Cols, s.Funds)
			player.Render(os.Stdout, b.Snapshot())
			fmt.Println()
			printObjectives(b)
			fmt.Println()
			printArmies(b)
			return nil
		},
	}
}

func printObjectives(b *game.Battle) {
	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"Objective", "Position", "Owner", "Defense"}),
	)
	for _, pos := range b.Map().Objectives() {
		obj, _ := b.Map().ObjectiveAt(pos)
		table.Append([]string{
			obj.Kind.String(),
			pos.String(),
			game.TeamColor(obj.Owner),
			strconv.Itoa(b.Map().DefenseAt(pos)),
		})
	}
	table.Render()
}

func printArmies(b *game.Battle) {
	header := []string{"Team"}
	for _, t := range game.UnitTypes {
		header = append(header, t.String())
	}
	header = append(header, "Value")

	table := tablewriter.NewTable(os.Stdout, tablewriter.WithHeader(header))
	for _, team := range b.Teams() {
		counts := make(map[game.UnitType]int)
		value := 0
		for _, u := range team.Units {
			counts[u.Type]++
			value += b.Rules().Cost(u.Type)
		}
		row := []string{team.Color}
		for _, t := range game.UnitTypes {
			row = append(row, strconv.Itoa(counts[t]))
		}
		row = append(row, strconv.Itoa(value))
		table.Append(row)
	}
	table.Render()
}

func newMapCmd() *cobra.Command {
	var (
		players int
		funds   int
	)
	cmd := &cobra.Command{
		Use:   "new <rows> <cols> <out>",
		Short: "Write a blank map with one HQ per player in the corners",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := strconv.Atoi(args[0])
			if err != nil || rows < 2 {
				return fmt.Errorf("bad row count %q", args[0])
			}
			cols, err := strconv.Atoi(args[1])
			if err != nil || cols < 2 {
				return fmt.Errorf("bad column count %q", args[1])
			}
			if players < game.MinPlayers || players > game.MaxPlayers {
				return fmt.Errorf("players must be between %d and %d", game.MinPlayers, game.MaxPlayers)
			}

			m := game.NewBlankMap(rows, cols)
			corners := []game.Position{
				{Row: 0, Col: 0},
				{Row: rows - 1, Col: cols - 1},
				{Row: 0, Col: cols - 1},
				{Row: rows - 1, Col: 0},
			}
			for team := 0; team < players; team++ {
				if err := m.SetObjective(corners[team], team, game.HQ); err != nil {
					return err
				}
			}
			if err := game.NewScenario(m, funds, nil).WriteFile(args[2]); err != nil {
				return err
			}
			color.Green("wrote %s", args[2])
			return nil
		},
	}
	cmd.Flags().IntVarP(&players, "players", "p", 2, "number of players")
	cmd.Flags().IntVar(&funds, "funds", 0, "starting funds per team")
	return cmd
}
