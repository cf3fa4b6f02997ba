// Package render formats pod listings and context output for the terminal.
package render

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"

	"github.com/ppiankov/ktool/internal/kubectl"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")) // Blue

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("226")) // Yellow

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // Dim gray

	boldStyle = lipgloss.NewStyle().Bold(true)
)

// Options controls which pods are shown and how.
type Options struct {
	Namespace string
	Service   string         // substring filter on pod name, empty means all
	Search    *regexp.Regexp // regex filter on pod name, nil means all
	Summary   bool
	BadOnly   bool
}

// Match reports whether a pod passes the service and search filters. Filters
// are conjunctive: both must pass when both are set.
func Match(pod kubectl.Pod, opts Options) bool {
	if opts.Service != "" && !strings.Contains(pod.Name, opts.Service) {
		return false
	}
	if opts.Search != nil && !opts.Search.MatchString(pod.Name) {
		return false
	}
	return true
}

// CommandEcho prints the kubectl command line that is about to run.
func CommandEcho(w io.Writer, argv []string) {
	fmt.Fprintln(w, dimStyle.Render("Running: kubectl "+strings.Join(argv, " ")))
}

// PodTable renders the filtered pod listing plus the optional summary.
//
// State counts and the bad count always cover every matched pod; BadOnly only
// narrows the rows shown. Count order follows first appearance among matched
// pods.
func PodTable(w io.Writer, pods []kubectl.Pod, opts Options) {
	var matched []kubectl.Pod
	for _, pod := range pods {
		if Match(pod, opts) {
			matched = append(matched, pod)
		}
	}

	if len(matched) == 0 {
		fmt.Fprintln(w, warnStyle.Render("No pods matched"))
		return
	}

	counts := map[string]int{}
	var order []string
	badCount := 0
	for _, pod := range matched {
		if counts[pod.State] == 0 {
			order = append(order, pod.State)
		}
		counts[pod.State]++
		if pod.Bad {
			badCount++
		}
	}

	rows := matched
	if opts.BadOnly {
		rows = nil
		for _, pod := range matched {
			if pod.Bad {
				rows = append(rows, pod)
			}
		}
	}

	fmt.Fprintln(w, titleStyle.Render("Pods in "+opts.Namespace))
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Pod", "State", "Bad"})
	for _, pod := range rows {
		bad := ""
		if pod.Bad {
			bad = "YES"
		}
		table.Append([]string{pod.Name, pod.State, bad})
	}
	table.Render()

	if opts.Summary {
		parts := make([]string, 0, len(order))
		for _, state := range order {
			parts = append(parts, fmt.Sprintf("%s=%d", state, counts[state]))
		}
		fmt.Fprintf(w, "%s %s\n", boldStyle.Render("Summary:"), strings.Join(parts, ", "))
		fmt.Fprintf(w, "%s %d  %s %d\n",
			boldStyle.Render("Total:"), len(matched),
			boldStyle.Render("Problematic:"), badCount)
	}
}
