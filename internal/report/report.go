// Package report renders per-country means as a ranked table.
package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/KaramelBytes/metricmean-cli/internal/stats"
)

// Options labels the rendered report.
type Options struct {
	// Label is the free-text report name shown in the banner.
	Label string
	// Metric is the column header for the values.
	Metric string
}

// Sorted returns a copy of means ordered by value, highest first. Equal
// values keep their input order.
func Sorted(means []stats.Mean) []stats.Mean {
	out := make([]stats.Mean, len(means))
	copy(out, means)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Value > out[j].Value })
	return out
}

// Render writes the banner and the ranked table to w.
func Render(w io.Writer, means []stats.Mean, opt Options) error {
	p := message.NewPrinter(language.English)
	cell := lipgloss.NewStyle().Padding(0, 1)
	right := cell.Align(lipgloss.Right)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "country", opt.Metric).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col == 1 {
				return cell
			}
			return right
		})
	for i, m := range Sorted(means) {
		t.Row(strconv.Itoa(i+1), m.Country, p.Sprintf("%.2f", m.Value))
	}
	body := t.String()

	banner := "REPORT: " + strings.ToUpper(opt.Label)
	width := lipgloss.Width(body)
	if n := lipgloss.Width(banner); n > width {
		width = n
	}
	rule := strings.Repeat("=", width)
	_, err := fmt.Fprintf(w, "%s\n%s\n%s\n%s\n%s\n", rule, banner, rule, body, rule)
	return err
}
