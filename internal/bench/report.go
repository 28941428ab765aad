package bench

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	passStyle   = cellStyle.Foreground(lipgloss.Color("46"))
	failStyle   = cellStyle.Foreground(lipgloss.Color("196")).Bold(true)
)

var reportHeaders = []string{"Scenario", "Tasks", "Returned", "Total", "Mean", "StdDev", "Rate, items/ms", "Status"}

const statusColumn = 7

// Report рисует таблицу результатов
func Report(results []ScenarioResult) string {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{
			r.Scenario.Name,
			strconv.Itoa(r.Scenario.Size),
			strconv.Itoa(r.Result.ItemsReturned),
			formatDuration(r.Result.ExecutionTime),
			formatDuration(r.Result.MeanIteration),
			formatDuration(r.Result.StdDevIteration),
			fmt.Sprintf("%.0f", r.Result.FilteringRate),
			verdict(r.Acceptable()),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		Headers(reportHeaders...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == statusColumn && row >= 0 && row < len(results):
				if results[row].Acceptable() {
					return passStyle
				}
				return failStyle
			default:
				return cellStyle
			}
		})

	return t.String()
}

// AllAcceptable - true, если каждый сценарий прошёл порог
func AllAcceptable(results []ScenarioResult) bool {
	for _, r := range results {
		if !r.Acceptable() {
			return false
		}
	}
	return true
}

func verdict(ok bool) string {
	if ok {
		return "PASS"
	}
	return "SLOW"
}

func formatDuration(d time.Duration) string {
	return d.Round(time.Microsecond).String()
}
