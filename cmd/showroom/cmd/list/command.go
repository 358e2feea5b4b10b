// Package list implements the list command, which prints the vehicles
// currently described by the record files.
package list

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/agentstation/showroom"
	"github.com/agentstation/showroom/internal/appcontext"
	"github.com/agentstation/showroom/internal/cmd/output"
	"github.com/agentstation/showroom/pkg/catalogs"
	"github.com/agentstation/showroom/pkg/constants"
	"github.com/agentstation/showroom/pkg/errors"
	"github.com/agentstation/showroom/pkg/logging"
)

// NewCommand creates the list command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list [id]",
		GroupID: "core",
		Short:   "List vehicles from the record files",
		Long: `List reads the record files and prints the vehicles sorted by
identifier. No baseline is merged and nothing is written.

Filters mirror the query parameters of the HTTP API.`,
		Example: `  showroom list                               # All vehicles
  showroom list 42                            # Details of vehicle 42
  showroom list --type occasion --max-price 15000
  showroom list --brand renault -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, app)
		},
	}

	cmd.Flags().String("records", "", "directory holding the record files (default "+constants.DefaultRecordDir+")")
	cmd.Flags().String("decoder", "", "metadata decoder: line or yaml")
	cmd.Flags().String("type", "", "only vehicles carrying this type tag")
	cmd.Flags().String("destination", "", "only vehicles for this destination")
	cmd.Flags().String("brand", "", "brand substring, case-insensitive")
	cmd.Flags().Float64("min-price", 0, "minimum price")
	cmd.Flags().Float64("max-price", 0, "maximum price")
	cmd.Flags().String("fuel", "", "exact fuel")
	cmd.Flags().String("transmission", "", "exact transmission")

	return cmd
}

func run(cmd *cobra.Command, args []string, app appcontext.Interface) error {
	format, err := output.ParseFormat(app.OutputFormat())
	if err != nil {
		return err
	}
	format = output.DetectFormat(string(format))

	p, err := pipeline(cmd, app)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(logging.WithLogger(cmd.Context(), app.Logger()), constants.BuildTimeout)
	defer cancel()

	vehicles, err := p.Load(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	if len(args) == 1 {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return errors.NewValidationError("id", args[0], "must be an integer")
		}
		v, ok := catalogs.FindByID(vehicles, id)
		if !ok {
			return errors.NewNotFoundError("vehicle", args[0])
		}
		if format == output.FormatTable || format == output.FormatWide {
			return output.NewFormatter(format).Format(out, output.VehicleToTableData(v))
		}
		return output.NewFormatter(format).Format(out, v)
	}

	filter, err := filterFromFlags(cmd)
	if err != nil {
		return err
	}
	vehicles = filter.Apply(vehicles)

	if err := output.FormatVehicles(out, vehicles, format); err != nil {
		return err
	}
	if format == output.FormatTable || format == output.FormatWide {
		fmt.Fprintf(cmd.ErrOrStderr(), "\n%d vehicles\n", len(vehicles))
	}
	return nil
}

func pipeline(cmd *cobra.Command, app appcontext.Interface) (*showroom.Pipeline, error) {
	var opts []showroom.Option
	if cmd.Flags().Changed("records") {
		dir, _ := cmd.Flags().GetString("records")
		opts = append(opts, showroom.WithRecordDir(dir))
	}
	if cmd.Flags().Changed("decoder") {
		name, _ := cmd.Flags().GetString("decoder")
		opts = append(opts, showroom.WithDecoder(name))
	}
	if len(opts) == 0 {
		return app.Pipeline()
	}
	return app.PipelineWithOptions(opts...)
}

func filterFromFlags(cmd *cobra.Command) (catalogs.Filter, error) {
	flags := cmd.Flags()
	var f catalogs.Filter
	var err error

	strs := []struct {
		name string
		dst  *string
	}{
		{"type", &f.Type},
		{"destination", &f.Destination},
		{"brand", &f.Brand},
		{"fuel", &f.Fuel},
		{"transmission", &f.Transmission},
	}
	for _, s := range strs {
		if *s.dst, err = flags.GetString(s.name); err != nil {
			return f, err
		}
	}
	if f.MinPrice, err = flags.GetFloat64("min-price"); err != nil {
		return f, err
	}
	if f.MaxPrice, err = flags.GetFloat64("max-price"); err != nil {
		return f, err
	}
	return f, nil
}
