// Package build implements the build command, which merges the record files
// over the published baseline and writes the dataset artifact.
package build

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentstation/showroom"
	"github.com/agentstation/showroom/internal/appcontext"
	"github.com/agentstation/showroom/pkg/catalogs"
	"github.com/agentstation/showroom/pkg/constants"
	"github.com/agentstation/showroom/pkg/emitter"
	"github.com/agentstation/showroom/pkg/logging"
)

// NewCommand creates the build command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "build",
		GroupID: "core",
		Short:   "Build the dataset artifact from the record files",
		Long: `Build reads every record file, merges the records over the previously
published dataset (the baseline) and replaces the output artifact.

Records win over baseline entries with the same identifier; baseline entries
without a matching record are kept. Malformed record files are skipped and
reported. The artifact is written atomically.

Supported formats: ` + strings.Join(formatNames(), ", "),
		Example: `  # Rebuild js/data.js from _vehicules, keeping unmatched entries
  showroom build --baseline js/data.js

  # Write JSON elsewhere and preview the changes only
  showroom build --output dist/vehicles.json --dry-run

  # Rebuild every 10 minutes until interrupted
  showroom build --baseline js/data.js --interval 10m`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, app)
		},
	}

	cmd.Flags().String("records", "", "directory holding the record files (default "+constants.DefaultRecordDir+")")
	cmd.Flags().String("baseline", "", "previously published dataset to merge over")
	cmd.Flags().String("output", "", "artifact path (default "+constants.DefaultOutputPath+")")
	cmd.Flags().String("format", "", "artifact format, inferred from --output when empty")
	cmd.Flags().String("decoder", "", "metadata decoder: line or yaml")
	cmd.Flags().Bool("strict-duplicates", false, "fail when two records share an identifier")
	cmd.Flags().Bool("banner", false, "add a generation comment to the artifact")
	cmd.Flags().Bool("dry-run", false, "compute the artifact without writing it")
	cmd.Flags().Duration("interval", 0, "rebuild periodically at this interval until interrupted")

	return cmd
}

func run(cmd *cobra.Command, app appcontext.Interface) error {
	opts, err := optionsFromFlags(cmd)
	if err != nil {
		return err
	}

	p, err := app.PipelineWithOptions(opts...)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	p.OnVehicleAdded(func(v catalogs.Vehicle) {
		fmt.Fprintf(out, "  + %d %s\n", v.ID, v.Title())
	})
	p.OnVehicleReplaced(func(_, v catalogs.Vehicle) {
		fmt.Fprintf(out, "  ~ %d %s\n", v.ID, v.Title())
	})

	ctx := logging.WithLogger(cmd.Context(), app.Logger())
	buildCtx, cancel := context.WithTimeout(ctx, constants.BuildTimeout)
	result, err := p.Build(buildCtx)
	cancel()
	if err != nil {
		return err
	}
	printResult(out, cmd.ErrOrStderr(), result)

	interval, _ := cmd.Flags().GetDuration("interval")
	if interval <= 0 {
		return nil
	}

	if err := p.AutoBuildOn(); err != nil {
		return err
	}
	defer func() { _ = p.AutoBuildOff() }()

	fmt.Fprintf(out, "Rebuilding every %s, press Ctrl+C to stop\n", interval)
	<-ctx.Done()
	return nil
}

// optionsFromFlags returns pipeline options for the flags that were set.
func optionsFromFlags(cmd *cobra.Command) ([]showroom.Option, error) {
	var opts []showroom.Option
	flags := cmd.Flags()

	for name, option := range map[string]func(string) showroom.Option{
		"records":  showroom.WithRecordDir,
		"baseline": showroom.WithBaselinePath,
		"output":   showroom.WithOutputPath,
		"format":   showroom.WithFormat,
		"decoder":  showroom.WithDecoder,
	} {
		if !flags.Changed(name) {
			continue
		}
		v, err := flags.GetString(name)
		if err != nil {
			return nil, err
		}
		opts = append(opts, option(v))
	}

	for name, option := range map[string]func(bool) showroom.Option{
		"strict-duplicates": showroom.WithStrictDuplicates,
		"banner":            showroom.WithBanner,
		"dry-run":           showroom.WithDryRun,
	} {
		if !flags.Changed(name) {
			continue
		}
		v, err := flags.GetBool(name)
		if err != nil {
			return nil, err
		}
		opts = append(opts, option(v))
	}

	if flags.Changed("interval") {
		interval, err := flags.GetDuration("interval")
		if err != nil {
			return nil, err
		}
		opts = append(opts, showroom.WithAutoBuildInterval(interval))
	}

	return opts, nil
}

func printResult(out, errOut io.Writer, result *showroom.BuildResult) {
	for _, skipped := range result.Skipped {
		fmt.Fprintf(errOut, "  ! skipped %s: %v\n", skipped.File, skipped.Err)
	}

	verb := "Wrote"
	if result.DryRun {
		verb = "Would write"
	}
	fmt.Fprintf(out, "%s\n", result.Changes.Summary())
	fmt.Fprintf(out, "%s %s (%s, %d bytes) in %s\n",
		verb, result.OutputPath, result.Format, result.Bytes, result.Duration.Round(time.Millisecond))
}

func formatNames() []string {
	var names []string
	for _, f := range emitter.Formats() {
		names = append(names, f.String())
	}
	return names
}
