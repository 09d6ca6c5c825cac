package main

import (
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/handiism/albumart/internal/batch"
	"github.com/handiism/albumart/internal/model"
)

func renderSummary(outcomes []model.Outcome, stats batch.Stats) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Row", "Folder", "Files", "Tagged", "Failed", "Status"})

	for _, o := range outcomes {
		row := "-"
		if o.Target.Line > 0 {
			row = strconv.Itoa(o.Target.Line)
		}
		folder := o.Target.Folder
		if folder == "" {
			folder = "-"
		}
		tw.AppendRow(table.Row{row, folder, o.Files, o.Tagged, o.Failed, status(o)})
	}

	tw.AppendFooter(table.Row{"", fmt.Sprintf("%d folder(s), %d skipped", stats.Targets, stats.Skipped), stats.Files, stats.Tagged, stats.Failed, ""})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})

	return tw.Render()
}

func status(o model.Outcome) string {
	switch {
	case o.Skipped():
		if k := model.Kind(o.Err); k != nil {
			return "skipped: " + k.Error()
		}
		return "skipped"
	case o.Failed > 0 && o.Tagged == 0:
		return "failed"
	case o.Failed > 0:
		return "partial"
	default:
		return "ok"
	}
}
