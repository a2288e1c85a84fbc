package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/goccy/go-yaml"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	// FormatTable renders a bordered table (default for terminal)
	FormatTable OutputFormat = "table"
	// FormatYAML outputs as YAML
	FormatYAML OutputFormat = "yaml"
	// FormatJSON outputs as indented JSON
	FormatJSON OutputFormat = "json"
)

// FingerprintDisplayLength is how much of a fingerprint tables show
const FingerprintDisplayLength = 12

// ParseOutputFormat validates an --output value
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatTable, FormatYAML, FormatJSON:
		return f, nil
	case "":
		return FormatTable, nil
	}
	return "", fmt.Errorf("unsupported output format: %s", s)
}

// Tabular is implemented by results that can be rendered as a table
type Tabular interface {
	Header() []string
	Rows() [][]string
}

// Theme defines the table colors
type Theme struct {
	Primary lipgloss.Color
	Dim     lipgloss.Color
}

// DefaultTheme is the default bright green theme.
var DefaultTheme = Theme{
	Primary: lipgloss.Color("#00ff9f"),
	Dim:     lipgloss.Color("#6e7681"),
}

// Output writes result to w in the requested format. Results that are not
// Tabular fall back to YAML for the table format.
func Output(w io.Writer, format OutputFormat, result any) error {
	switch format {
	case FormatJSON:
		return outputJSON(w, result)
	case FormatYAML:
		return outputYAML(w, result)
	case FormatTable, "":
		if t, ok := result.(Tabular); ok {
			return outputTable(w, t)
		}
		return outputYAML(w, result)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

func outputJSON(w io.Writer, result any) error {
	data, err := sonic.ConfigStd.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func outputYAML(w io.Writer, result any) error {
	data, err := yaml.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	_, err = w.Write(data)
	return err
}

func outputTable(w io.Writer, t Tabular) error {
	theme := DefaultTheme
	header := lipgloss.NewStyle().Bold(true).Foreground(theme.Primary).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)

	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.Dim)).
		Headers(t.Header()...).
		Rows(t.Rows()...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})

	_, err := fmt.Fprintln(w, tbl.String())
	return err
}

// entryTable lists container entries
type entryTable struct {
	Container string      `json:"container" yaml:"container"`
	Entries   []entryView `json:"entries" yaml:"entries"`
}

type entryView struct {
	Name        string `json:"name" yaml:"name"`
	Kind        string `json:"kind" yaml:"kind"`
	Size        int    `json:"size" yaml:"size"`
	Fingerprint string `json:"blake3" yaml:"blake3"`
	Duplicate   bool   `json:"duplicate,omitempty" yaml:"duplicate,omitempty"`
}

func (t entryTable) Header() []string {
	return []string{"NAME", "KIND", "SIZE", "BLAKE3"}
}

func (t entryTable) Rows() [][]string {
	rows := make([][]string, 0, len(t.Entries))
	for _, e := range t.Entries {
		fp := e.Fingerprint
		if len(fp) > FingerprintDisplayLength {
			fp = fp[:FingerprintDisplayLength]
		}
		if e.Duplicate {
			fp += " (dup)"
		}
		rows = append(rows, []string{e.Name, e.Kind, formatBytes(int64(e.Size)), fp})
	}
	return rows
}

// settingsTable lists configuration values
type settingsTable map[string]string

func (t settingsTable) Header() []string {
	return []string{"KEY", "VALUE"}
}

func (t settingsTable) Rows() [][]string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rows := make([][]string, 0, len(t))
	for _, k := range keys {
		rows = append(rows, []string{k, t[k]})
	}
	return rows
}

// jobTable lists the jobs of a conversion batch
type jobTable struct {
	Total     int       `json:"total" yaml:"total"`
	Succeeded int       `json:"succeeded" yaml:"succeeded"`
	Failed    int       `json:"failed" yaml:"failed"`
	Skipped   int       `json:"skipped" yaml:"skipped"`
	Jobs      []jobView `json:"jobs" yaml:"jobs"`
}

type jobView struct {
	ID      string `json:"id" yaml:"id"`
	Source  string `json:"source" yaml:"source"`
	Name    string `json:"name,omitempty" yaml:"name,omitempty"`
	Status  string `json:"status" yaml:"status"`
	Elapsed string `json:"elapsed,omitempty" yaml:"elapsed,omitempty"`
	Error   string `json:"error,omitempty" yaml:"error,omitempty"`
}

func (t jobTable) Header() []string {
	return []string{"SOURCE", "NAME", "STATUS", "ELAPSED", "ERROR"}
}

func (t jobTable) Rows() [][]string {
	rows := make([][]string, 0, len(t.Jobs))
	for _, j := range t.Jobs {
		rows = append(rows, []string{j.Source, j.Name, j.Status, j.Elapsed, j.Error})
	}
	return rows
}

// exportTable lists the results of an export
type exportTable struct {
	Dir       string       `json:"dir,omitempty" yaml:"dir,omitempty"`
	Format    string       `json:"format" yaml:"format"`
	Succeeded int          `json:"succeeded" yaml:"succeeded"`
	Failed    int          `json:"failed" yaml:"failed"`
	Results   []exportView `json:"results" yaml:"results"`
}

type exportView struct {
	Name     string `json:"name" yaml:"name"`
	Path     string `json:"path" yaml:"path"`
	Duration string `json:"duration,omitempty" yaml:"duration,omitempty"`
	Error    string `json:"error,omitempty" yaml:"error,omitempty"`
}

func (t exportTable) Header() []string {
	return []string{"NAME", "PATH", "DURATION", "ERROR"}
}

func (t exportTable) Rows() [][]string {
	rows := make([][]string, 0, len(t.Results))
	for _, r := range t.Results {
		rows = append(rows, []string{r.Name, r.Path, r.Duration, r.Error})
	}
	return rows
}

// formatBytes formats bytes to human readable format
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
