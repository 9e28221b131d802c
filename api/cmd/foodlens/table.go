package main

import (
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"food-lens/api/internal/deck"
	"food-lens/api/internal/store"
	"food-lens/api/internal/util"
)

func newTable(headers ...any) table.Writer {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row(headers))
	return tw
}

func renderFeed(f deck.Feed) string {
	if f.Len() == 0 {
		return "Feed is empty."
	}
	tw := newTable("#", "Dish", "Photos", "Match", "Confidence", "Analysis")
	for i, c := range f.Cards() {
		match := "no"
		if c.Analysis.Data.IsMatch {
			match = "yes"
		}
		tw.AppendRow(table.Row{
			i + 1,
			c.Name,
			len(c.Images),
			match,
			fmt.Sprintf("%.0f%%", c.Analysis.Data.Confidence*100),
			util.Truncate(c.Analysis.Data.Analysis, 60),
		})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})
	return tw.Render()
}

func renderJournal(entries []store.Entry) string {
	if len(entries) == 0 {
		return "Journal is empty."
	}
	tw := newTable("ID", "When", "Kind", "Dish", "Images", "Engine", "Result")
	for _, e := range entries {
		result := util.Truncate(string(e.Result), 60)
		if !e.OK() {
			result = "error: " + util.Truncate(e.Error, 53)
		}
		tw.AppendRow(table.Row{
			strconv.FormatInt(e.ID, 10),
			e.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			string(e.Kind),
			e.ItemName,
			e.ImageCount,
			e.Engine + "/" + e.Model,
			result,
		})
	}
	return tw.Render()
}
