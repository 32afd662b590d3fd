package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/handiism/ytmp3/internal/download"
	"github.com/handiism/ytmp3/internal/timeutil"
)

// Rows returns the summary of r as label/value pairs, in display order.
// Unknown values are shown as "-".
func Rows(r *download.Result) [][]string {
	orDash := func(s string) string {
		if s == "" {
			return "-"
		}
		return s
	}

	rows := [][]string{
		{"File", r.Path},
		{"Title", orDash(r.Song.Title.OrElse(r.Video.Title))},
	}
	if !r.VideoOnly {
		rows = append(rows,
			[]string{"Artist", orDash(r.Song.Artist.OrElse(""))},
			[]string{"Album", orDash(r.Song.Album.OrElse(""))},
			[]string{"Genre", orDash(r.Song.Genre.OrElse(""))},
			[]string{"Year", orDash(r.Song.Year.OrElse(""))},
		)
	}

	rows = append(rows,
		[]string{"Duration", timeutil.FormatDuration(r.Probe.Duration)},
		[]string{"Size", timeutil.FormatBytes(r.Probe.Size)},
	)
	if !r.VideoOnly {
		bitrate := "-"
		if r.Probe.BitRate > 0 {
			bitrate = fmt.Sprintf("%d kbps", r.Probe.BitRate/1000)
		}
		rows = append(rows,
			[]string{"Bit rate", bitrate},
			[]string{"Metadata", orDash(string(r.Source))},
		)
	}
	rows = append(rows, []string{"Elapsed", timeutil.FormatDuration(r.Elapsed)})
	return rows
}

// Summary prints a table describing r, followed by a success line.
func Summary(out io.Writer, r *download.Result) {
	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"", "Value"})
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetColumnColor(tablewriter.Colors{tablewriter.FgCyanColor}, tablewriter.Colors{})
	table.AppendBulk(Rows(r))
	table.Render()

	ok := color.New(color.FgHiGreen)
	if len(r.Warnings) > 0 {
		color.New(color.FgYellow).Fprintf(out, "Finished with %d warning(s)\n", len(r.Warnings))
		return
	}
	ok.Fprintf(out, "✨ Complete! Saved %s in %s\n", r.Path, timeutil.FormatDuration(r.Elapsed))
}
