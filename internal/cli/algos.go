package cli

import (
	"github.com/spf13/cobra"

	"github.com/wesleyorama2/perfstamp/internal/bench"
	"github.com/wesleyorama2/perfstamp/internal/output"
)

var algosCmd = &cobra.Command{
	Use:   "algos",
	Short: "List the benchmark algorithms and perf columns",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		formatName, _ := cmd.Flags().GetString("format")
		format, err := output.ParseFormat(formatName)
		if err != nil {
			return err
		}

		tbl := output.NewTable(
			output.Column{Heading: "Kind", Justify: output.Left},
			output.Column{Heading: "Name", Justify: output.Left},
			output.Column{Heading: "Description", Justify: output.Left},
		)
		for _, w := range bench.Workloads() {
			tbl.AddRow(output.TextCell("algo"), output.TextCell(w.Name), output.TextCell(w.Description))
		}
		for _, name := range bench.PerfColumnNames() {
			tbl.AddRow(output.TextCell("perf-col"), output.TextCell(name), output.TextCell(bench.PerfColumnEvent(name)))
		}
		return renderTable(cmd, format, tbl)
	},
}

func init() {
	algosCmd.Flags().String("format", "", "Output format (table, csv, json, yaml)")
}
