package main

import (
	"github.com/spf13/cobra"

	"github.com/AdamBromiley/basil/internal/export"
)

type dumpOptions struct {
	format      string
	delimiter   string
	escape      bool
	headerOnly  bool
	recordsOnly bool
}

func (o dumpOptions) resolve() (export.Options, error) {
	format, err := export.ParseFormat(o.format)
	if err != nil {
		return export.Options{}, &usageError{msg: err.Error()}
	}
	if len(o.delimiter) != 1 {
		return export.Options{}, &usageError{msg: "--delimiter: must be a single character"}
	}
	if o.headerOnly && o.recordsOnly {
		return export.Options{}, &usageError{msg: "--header-only and --records-only are mutually exclusive"}
	}

	opts := export.Options{
		Format:    format,
		Delimiter: o.delimiter[0],
		Escape:    o.escape,
	}
	switch {
	case o.headerOnly:
		opts.Part = export.HeaderOnly
	case o.recordsOnly:
		opts.Part = export.RecordsOnly
	}
	return opts, nil
}

func newDumpCommand(a *app) *cobra.Command {
	var o dumpOptions

	cmd := &cobra.Command{
		Use:   "dump [FILE]",
		Short: "Load FILE and write it back out as CSV, JSON or YAML",
		Long: `Load FILE and write it back out as CSV, JSON or YAML.

CSV output ends every record with CRLF and joins fields with --delimiter. Fields
are written exactly as stored unless --escape is given, in which case fields that
contain the delimiter, a quote or a line break are quoted again.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 1 {
				return &usageError{msg: "Too many arguments supplied"}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := o.resolve()
			if err != nil {
				return err
			}
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			tbl, err := a.load(cmd.Context(), path, a.cfg.Header)
			if err != nil {
				return err
			}
			return export.Write(a.stdout, tbl, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&o.format, "format", "f", "csv", "output format: csv, json or yaml")
	f.StringVarP(&o.delimiter, "delimiter", "d", ",", "CSV field delimiter")
	f.BoolVar(&o.escape, "escape", false, "quote CSV fields that would otherwise be ambiguous")
	f.BoolVar(&o.headerOnly, "header-only", false, "write only the header row")
	f.BoolVar(&o.recordsOnly, "records-only", false, "write only the data records")
	return cmd
}
