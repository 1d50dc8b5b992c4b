package main

import (
	"fmt"

	"github.com/aluiziolira/go-game-deals/models"
	"github.com/aluiziolira/go-game-deals/stores"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newGenresCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "genres",
		Short: "Lists genre indexes and the code each store uses for them.",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			t := newTable(cmd.OutOrStdout())
			header := table.Row{"Index", "Genre"}
			for _, s := range models.AllStores() {
				header = append(header, s.String())
			}
			t.AppendHeader(header)

			for i, g := range models.Genres() {
				row := table.Row{i, g.String()}
				for _, s := range models.AllStores() {
					row = append(row, stores.CodeFor(s, g))
				}
				t.AppendRow(row)
			}
			t.Render()
			fmt.Fprintln(cmd.OutOrStdout())
		},
	}
}
