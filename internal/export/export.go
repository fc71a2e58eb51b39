// Package export renders sync results as JSON, YAML, or Markdown reports.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/klauern/msgsync/internal/logging"
	"github.com/klauern/msgsync/internal/sync"
)

// Format represents the output format for reports.
type Format string

const (
	// FormatJSON renders reports as JSON.
	FormatJSON Format = "json"
	// FormatYAML renders reports as YAML.
	FormatYAML Format = "yaml"
	// FormatMarkdown renders reports as Markdown.
	FormatMarkdown Format = "markdown"
)

// IsValid returns true if the format is recognized.
func (f Format) IsValid() bool {
	switch f {
	case FormatJSON, FormatYAML, FormatMarkdown:
		return true
	default:
		return false
	}
}

// String returns the string representation of the format.
func (f Format) String() string {
	return string(f)
}

// AllFormats returns all supported report formats.
func AllFormats() []Format {
	return []Format{FormatJSON, FormatYAML, FormatMarkdown}
}

// ParseFormat parses a string into a Format.
func ParseFormat(s string) (Format, error) {
	format := Format(strings.ToLower(strings.TrimSpace(s)))
	if !format.IsValid() {
		return "", fmt.Errorf("unsupported format %q (valid: json, yaml, markdown)", s)
	}
	return format, nil
}

// Options configures export behavior.
type Options struct {
	// Format specifies the output format.
	Format Format
	// Pretty enables pretty-printing for JSON/YAML.
	Pretty bool
}

// DefaultOptions returns the default export options.
func DefaultOptions() Options {
	return Options{
		Format: FormatJSON,
		Pretty: true,
	}
}

// Exporter writes reports in the configured format.
type Exporter struct {
	opts Options
}

// New creates a new Exporter with the given options.
func New(opts Options) *Exporter {
	return &Exporter{opts: opts}
}

// Diff writes the diff with every set sorted by id.
func (e *Exporter) Diff(diff sync.Diff, w io.Writer) error {
	sorted := diff.Sorted()
	return e.write("diff", sorted, func() string { return markdownDiff(sorted) }, w)
}

// Stats writes store counts.
func (e *Exporter) Stats(stats sync.Stats, w io.Writer) error {
	return e.write("stats", stats, func() string { return markdownStats(stats) }, w)
}

// Resolution writes a single conflict resolution.
func (e *Exporter) Resolution(res sync.Resolution, w io.Writer) error {
	return e.write("resolution", res, func() string { return markdownResolution(res) }, w)
}

// Plan writes a sync plan.
func (e *Exporter) Plan(plan *sync.Plan, w io.Writer) error {
	return e.write("plan", plan, func() string { return markdownPlan(plan) }, w)
}

// ApplyResult writes the outcome of applying a plan.
func (e *Exporter) ApplyResult(result *sync.ApplyResult, w io.Writer) error {
	return e.write("apply_result", applyReport(result), func() string { return markdownApplyResult(result) }, w)
}

func (e *Exporter) write(kind string, v any, markdown func() string, w io.Writer) error {
	defer logging.Timer("export")()

	logging.Debug("starting export",
		slog.String("format", string(e.opts.Format)),
		slog.String("report", kind),
		logging.Operation("export"),
	)

	var err error
	switch e.opts.Format {
	case FormatJSON:
		err = e.exportJSON(v, w)
	case FormatYAML:
		err = e.exportYAML(v, w)
	case FormatMarkdown:
		_, err = io.WriteString(w, markdown())
	default:
		err = fmt.Errorf("unsupported format: %s", e.opts.Format)
	}

	if err != nil {
		logging.Error("export failed",
			slog.String("format", string(e.opts.Format)),
			logging.Err(err),
		)
		return err
	}
	return nil
}

func (e *Exporter) exportJSON(v any, w io.Writer) error {
	encoder := json.NewEncoder(w)
	if e.opts.Pretty {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(v)
}

func (e *Exporter) exportYAML(v any, w io.Writer) error {
	encoder := yaml.NewEncoder(w)
	if e.opts.Pretty {
		encoder.SetIndent(2)
	}
	if err := encoder.Encode(v); err != nil {
		_ = encoder.Close()
		return err
	}
	return encoder.Close()
}

// outcomeReport carries the error text that Outcome itself does not serialize.
type outcomeReport struct {
	sync.Outcome `yaml:",inline"`
	Error        string `json:"error,omitempty" yaml:"error,omitempty"`
}

type applyResultReport struct {
	RunID    string          `json:"run_id" yaml:"run_id"`
	Success  bool            `json:"success" yaml:"success"`
	Outcomes []outcomeReport `json:"outcomes" yaml:"outcomes"`
}

func applyReport(result *sync.ApplyResult) applyResultReport {
	report := applyResultReport{
		RunID:    result.RunID,
		Success:  result.Success(),
		Outcomes: make([]outcomeReport, len(result.Outcomes)),
	}
	for i, o := range result.Outcomes {
		report.Outcomes[i] = outcomeReport{Outcome: o}
		if o.Error != nil {
			report.Outcomes[i].Error = o.Error.Error()
		}
	}
	return report
}
