package main

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/xitonix/xshift/shift"
	"github.com/xitonix/xshift/taps"
)

var (
	accentColor  = lipgloss.Color("#2DA44E")
	warningColor = lipgloss.Color("#D29922")
	errorColor   = lipgloss.Color("#CF222E")
	dimColor     = lipgloss.Color("#6E7681")
)

// summary collects the outcome of every processed file of a run
type summary struct {
	rows     []*taps.Result
	failures int
	errors   int
}

func (s *summary) add(r *taps.Result) {
	s.rows = append(s.rows, r)
	if r.Status != shift.Completed {
		s.failures++
	}
}

func (s *summary) ok() bool {
	return s.failures == 0 && s.errors == 0
}

// render writes the summary table. The colours are only used if w is a terminal.
func (s *summary) render(w io.Writer) {
	r := lipgloss.NewRenderer(w)
	header := r.NewStyle().Bold(true).Padding(0, 1)
	cell := r.NewStyle().Padding(0, 1)
	success := cell.Foreground(accentColor)
	warning := cell.Foreground(warningColor)
	failure := cell.Foreground(errorColor).Bold(true)
	dim := r.NewStyle().Foreground(dimColor)

	sort.Slice(s.rows, func(i, j int) bool {
		return s.rows[i].Input.Name < s.rows[j].Input.Name
	})

	var matches, shifted, warnings int
	rows := make([][]string, 0, len(s.rows))
	for _, row := range s.rows {
		var m, sh, wn int
		if row.Report != nil {
			m, sh, wn = row.Report.Matches, row.Report.Shifted, len(row.Report.Warnings)
		}
		matches += m
		shifted += sh
		warnings += wn
		rows = append(rows, []string{row.Input.Name, row.Status.String(), strconv.Itoa(m), strconv.Itoa(sh), strconv.Itoa(wn)})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(dim).
		Headers("FILE", "STATUS", "MATCHES", "SHIFTED", "WARNINGS").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			if row < 0 || row >= len(s.rows) {
				return cell
			}
			result := s.rows[row]
			switch {
			case col == 1 && result.Status != shift.Completed:
				return failure
			case col == 1:
				return success
			case col == 4 && result.Report != nil && len(result.Report.Warnings) > 0:
				return warning
			}
			return cell
		})

	fmt.Fprintln(w, t.String())
	line := fmt.Sprintf("%d file(s), %d date(s) found, %d shifted, %d warning(s)", len(s.rows), matches, shifted, warnings)
	if s.failures > 0 || s.errors > 0 {
		fmt.Fprintln(w, failure.UnsetPadding().Render(fmt.Sprintf("%s, %d failure(s), %d error(s)", line, s.failures, s.errors)))
		return
	}
	fmt.Fprintln(w, success.UnsetPadding().Render(line))
}
