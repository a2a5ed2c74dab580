package main

import (
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"code-review-pipeline/internal/model"
)

var (
	green  = color.New(color.FgHiGreen).SprintFunc()
	yellow = color.New(color.FgHiYellow).SprintFunc()
	red    = color.New(color.FgHiRed).SprintFunc()
	cyan   = color.New(color.FgHiCyan).SprintFunc()
)

// newTable creates a borderless, left aligned table.
func newTable(w io.Writer, headers ...string) *tablewriter.Table {
	table := tablewriter.NewTable(w,
		tablewriter.WithHeaderAlignment(tw.AlignLeft),
		tablewriter.WithRowAlignment(tw.AlignLeft),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Lines:      tw.LinesNone,
				Separators: tw.SeparatorsNone,
			},
		}),
		tablewriter.WithPadding(tw.Padding{Left: "", Right: "  "}),
	)
	table.Header(headers)
	return table
}

func statusColor(s model.JobStatus) string {
	switch s {
	case model.JobCompleted:
		return green(string(s))
	case model.JobProcessing, model.JobPending:
		return yellow(string(s))
	case model.JobFailed:
		return red(string(s))
	default:
		return string(s)
	}
}

func scoreColor(score *int) string {
	if score == nil {
		return "-"
	}
	s := strconv.Itoa(*score)
	switch {
	case *score >= 80:
		return green(s)
	case *score >= 60:
		return yellow(s)
	default:
		return red(s)
	}
}

func activeColor(active bool) string {
	if active {
		return green("active")
	}
	return red("inactive")
}
