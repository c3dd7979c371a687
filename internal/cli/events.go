package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/perfstamp/internal/config"
	"github.com/wesleyorama2/perfstamp/internal/output"
	"github.com/wesleyorama2/perfstamp/pmu"
)

var eventsCmd = &cobra.Command{
	Use:   "events [flags]",
	Short: "List or resolve hardware events",
	Long: `List the event names known on this host: the generic kernel events, the
events the kernel publishes in sysfs and, with --event-table, every event of a
perfmon JSON event file.

With --resolve, print the encoding each named event resolves to:
  perfstamp events --resolve instructions,cpu/event=0x3c/,L1D.REPLACEMENT`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return listEvents(cmd)
	},
}

func listEvents(cmd *cobra.Command) error {
	flags := cmd.Flags()
	tablePath, _ := flags.GetString("event-table")
	if tablePath == "" {
		tablePath = os.Getenv(config.EventTableEnv)
	}
	formatName, _ := flags.GetString("format")
	format, err := output.ParseFormat(formatName)
	if err != nil {
		return err
	}

	var table *pmu.TableResolver
	if tablePath != "" {
		table, err = pmu.LoadTableResolver(tablePath, pmu.SysFS())
		if err != nil {
			return fmt.Errorf("error loading event table: %w", err)
		}
	}

	var tbl *output.Table
	if flags.Changed("resolve") {
		s, _ := flags.GetString("resolve")
		events, err := pmu.ParseEventList(s)
		if err != nil {
			return err
		}
		tbl = resolveTable(pmu.NewResolver(pmu.SysFS(), table), events)
	} else {
		tbl = namesTable(pmu.NewLiteralResolver(pmu.SysFS()), table)
	}

	return renderTable(cmd, format, tbl)
}

// namesTable lists every event name by source.
func namesTable(sysfs *pmu.LiteralResolver, table *pmu.TableResolver) *output.Table {
	tbl := output.NewTable(
		output.Column{Heading: "Source", Justify: output.Left},
		output.Column{Heading: "Event", Justify: output.Left},
	)
	add := func(source string, names []string) {
		for _, n := range names {
			tbl.AddRow(output.TextCell(source), output.TextCell(n))
		}
	}
	add("builtin", pmu.BuiltinResolver{}.Names())
	add("sysfs", sysfs.Names())
	if table != nil {
		add("table", table.Names())
	}
	return tbl
}

// resolveTable resolves each event and reports its encoding, or the error.
func resolveTable(r pmu.EventResolver, events []pmu.Event) *output.Table {
	tbl := output.NewTable(
		output.Column{Heading: "Event", Justify: output.Left},
		output.Column{Heading: "Encoding", Justify: output.Left},
		output.Column{Heading: "Decoded", Justify: output.Left},
	)
	for _, e := range events {
		cfg, err := r.Resolve(e)
		if err != nil {
			fail := output.FailCell()
			fail.Text = err.Error()
			fail.Value = err.Error()
			tbl.AddRow(output.TextCell(e.Name), fail, output.TextCell(""))
			continue
		}
		tbl.AddRow(output.TextCell(e.Name), output.TextCell(cfg.String()), output.TextCell(cfg.Decoded))
	}
	return tbl
}

// renderTable writes tbl to stdout in the given format.
func renderTable(cmd *cobra.Command, format output.OutputFormat, tbl *output.Table) error {
	noColor, _ := cmd.Flags().GetBool("no-color")
	w := cmd.OutOrStdout()
	return output.GetFormatter(format, !output.ColorEnabled(w, noColor)).Format(w, tbl)
}

func init() {
	eventsCmd.Flags().String("event-table", "", "perfmon JSON event file (env: "+config.EventTableEnv+")")
	eventsCmd.Flags().String("resolve", "", "Resolve the comma separated events instead of listing names")
	eventsCmd.Flags().String("format", "", "Output format (table, csv, json, yaml)")
}
