// Package validate implements the validate command, which checks every
// record file without writing anything.
package validate

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/showroom"
	"github.com/agentstation/showroom/internal/appcontext"
	"github.com/agentstation/showroom/internal/cmd/output"
	"github.com/agentstation/showroom/pkg/constants"
	"github.com/agentstation/showroom/pkg/errors"
	"github.com/agentstation/showroom/pkg/logging"
	"github.com/agentstation/showroom/pkg/reconciler"
)

// Report is the outcome of a validation run.
type Report struct {
	Files      int       `json:"files" yaml:"files"`
	Valid      int       `json:"valid" yaml:"valid"`
	Skipped    []Problem `json:"skipped" yaml:"skipped"`
	Duplicates []int     `json:"duplicates" yaml:"duplicates"`
}

// Problem describes one rejected record file.
type Problem struct {
	File   string `json:"file" yaml:"file"`
	Reason string `json:"reason" yaml:"reason"`
}

// OK reports whether every file was decoded and identifiers are unique.
func (r Report) OK() bool {
	return len(r.Skipped) == 0 && len(r.Duplicates) == 0
}

// ErrInvalidRecords is returned when validation finds problems.
var ErrInvalidRecords = errors.NewValidationError("records", nil, "validation failed")

// NewCommand creates the validate command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "validate",
		GroupID: "management",
		Short:   "Check every record file",
		Long: `Validate decodes every record file and reports the files that would be
skipped by a build, along with identifiers shared by more than one record.

The command exits with a non-zero status when any problem is found.`,
		Example: `  showroom validate
  showroom validate --records content/_vehicules --decoder yaml -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, app)
		},
	}

	cmd.Flags().String("records", "", "directory holding the record files (default "+constants.DefaultRecordDir+")")
	cmd.Flags().String("decoder", "", "metadata decoder: line or yaml")

	return cmd
}

func run(cmd *cobra.Command, app appcontext.Interface) error {
	format, err := output.ParseFormat(app.OutputFormat())
	if err != nil {
		return err
	}

	var opts []showroom.Option
	if cmd.Flags().Changed("records") {
		dir, _ := cmd.Flags().GetString("records")
		opts = append(opts, showroom.WithRecordDir(dir))
	}
	if cmd.Flags().Changed("decoder") {
		name, _ := cmd.Flags().GetString("decoder")
		opts = append(opts, showroom.WithDecoder(name))
	}
	p, err := app.PipelineWithOptions(opts...)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(logging.WithLogger(cmd.Context(), app.Logger()), constants.BuildTimeout)
	defer cancel()

	report, err := Validate(ctx, p)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch format {
	case output.FormatJSON, output.FormatYAML:
		if err := output.NewFormatter(format).Format(out, report); err != nil {
			return err
		}
	default:
		printReport(cmd, p.RecordDir(), report)
	}

	if !report.OK() {
		return ErrInvalidRecords
	}
	return nil
}

// Validate scans the pipeline's record directory.
func Validate(ctx context.Context, p *showroom.Pipeline) (Report, error) {
	result, err := p.Scan(ctx)
	if err != nil {
		return Report{}, err
	}

	changes, err := reconciler.Reconcile(nil, result.Vehicles, reconciler.WithLogger(logging.FromContext(ctx)))
	if err != nil {
		return Report{}, err
	}

	report := Report{
		Files:      result.Files,
		Valid:      len(result.Vehicles),
		Skipped:    make([]Problem, 0, len(result.Skipped)),
		Duplicates: changes.Duplicates,
	}
	if report.Duplicates == nil {
		report.Duplicates = []int{}
	}
	for _, s := range result.Skipped {
		report.Skipped = append(report.Skipped, Problem{File: s.File, Reason: s.Error()})
	}
	return report, nil
}

func printReport(cmd *cobra.Command, dir string, report Report) {
	out := cmd.OutOrStdout()
	for _, s := range report.Skipped {
		fmt.Fprintf(out, "✗ %s: %s\n", s.File, s.Reason)
	}
	for _, id := range report.Duplicates {
		fmt.Fprintf(out, "✗ identifier %d is used by more than one record\n", id)
	}
	if report.OK() {
		fmt.Fprintf(out, "✓ %d record files in %s are valid\n", report.Files, dir)
		return
	}
	fmt.Fprintf(out, "%d of %d record files in %s are valid\n", report.Valid, report.Files, dir)
}
