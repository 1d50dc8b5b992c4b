package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aluiziolira/go-game-deals/models"
	"github.com/jedib0t/go-pretty/v6/table"
)

func newTable(out io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(out)
	return t
}

func printSummary(out io.Writer, result *models.ScrapeResult, games int, paths []string, metrics map[string]interface{}) {
	t := newTable(out)
	t.SetTitle("Scrape complete")
	t.AppendHeader(table.Row{"Store", "Pages", "Seen", "Kept", "Below threshold", "Error"})
	for _, s := range result.Stores {
		errText := ""
		if s.Err != nil {
			errText = s.Err.Error()
		}
		t.AppendRow(table.Row{s.Store.String(), s.Pages, s.ItemsSeen, s.ItemsKept, s.ItemsSkipped, errText})
	}
	t.AppendFooter(table.Row{"games", games, "", "", "failed stores", result.Failed()})
	t.Render()

	exported := int64(0)
	if n, ok := metrics["exported_games"].(int64); ok {
		exported = n
	}
	fmt.Fprintf(out, "  Exported:  %d\n", exported)
	if valErrors, ok := metrics["validation_errors"].(map[string]int); ok && len(valErrors) > 0 {
		fmt.Fprintf(out, "  Skipped:   %v\n", valErrors)
	}
	fmt.Fprintf(out, "  Duration:  %v\n", result.EndTime.Sub(result.StartTime).Round(time.Millisecond))
	fmt.Fprintf(out, "  Output:    %s\n", strings.Join(paths, ", "))
}
