package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/aristath/advisor/internal/api"
	"github.com/aristath/advisor/internal/encoding"
	"github.com/aristath/advisor/internal/modules/metrics"
	"github.com/aristath/advisor/pkg/formulas"
)

// Report is the machine readable output of the report command
type Report struct {
	Metrics   map[string]encoding.Float `json:"metrics"`
	NonFinite []string                  `json:"nonFinite,omitempty"`
}

func newReportCmd(newLog func(io.Writer) zerolog.Logger) *cobra.Command {
	var (
		input  string
		format string
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Compute the composite metrics for a series file",
		Long: `Reads {"returns": [...], "prices": [...], "benchmarkReturns": [...], "years": 3}
and prints the composite metrics record. Prices are compounded from the
returns when omitted. Use --input - to read from stdin.

Example:
  advisor report --input series.json --format text`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd, input)
			if err != nil {
				return err
			}

			var req metrics.PortfolioRequest
			if err := json.Unmarshal(raw, &req); err != nil {
				return fmt.Errorf("failed to parse %s: %w", input, err)
			}
			if err := api.NewValidator().Struct(req); err != nil {
				return err
			}

			service := metrics.NewService(formulas.DefaultMetricsOptions(), newLog(cmd.ErrOrStderr()))
			m := service.Portfolio(req)

			return writeReport(cmd.OutOrStdout(), format, m)
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "series file (JSON), - for stdin")
	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format (json|msgpack|text)")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func readInput(cmd *cobra.Command, input string) ([]byte, error) {
	if input == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	raw, err := os.ReadFile(input)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return raw, nil
}

func writeReport(w io.Writer, format string, m formulas.PortfolioMetrics) error {
	if format == "text" {
		return writeText(w, m)
	}

	f, err := encoding.ParseFormat(format)
	if err != nil {
		return err
	}

	body, err := encoding.Marshal(f, Report{Metrics: encoding.MetricsView(m), NonFinite: m.NonFinite()})
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	if f == encoding.FormatJSON {
		body = append(body, '\n')
	}
	_, err = w.Write(body)
	return err
}

func writeText(w io.Writer, m formulas.PortfolioMetrics) error {
	for _, field := range m.Fields() {
		if _, err := fmt.Fprintf(w, "  %-18s: %.4f\n", field.Name, field.Value); err != nil {
			return err
		}
	}
	return nil
}
