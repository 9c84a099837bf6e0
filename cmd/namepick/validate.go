package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newValidateCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [FILE]",
		Short: "Check that FILE is well-formed CSV and report its shape",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 1 {
				return &usageError{msg: "Too many arguments supplied"}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			tbl, err := a.load(cmd.Context(), path, a.cfg.Header)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(a.stdout, "ok: %d records, %d fields\n", tbl.RecordCount(), tbl.FieldCount())
			return err
		},
	}
}
