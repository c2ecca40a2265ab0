package main

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/andaru/largexml/service"
)

var fixCmd = &cobra.Command{
	Use:   "fix FILE INDEX",
	Short: "Apply the automatic fix for a finding",
	Long: `Validates FILE and applies the automatic fix for the selected
finding. Only unclosed elements whose fix fits on the opening line can
be fixed this way; everything else is rejected with the file untouched.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		idx, err := strconv.Atoi(args[1])
		if err != nil {
			return errors.Wrapf(err, "bad finding index %q", args[1])
		}
		svc, err := newService()
		if err != nil {
			return err
		}
		defer svc.Close()

		v := svc.Validate(service.ValidateRequest{FilePath: args[0]})
		if idx < 0 || idx >= len(v.Findings) {
			return errors.Errorf("finding index %d out of range (%d findings)", idx, len(v.Findings))
		}
		resp := svc.AutoFix(service.FixRequest{FilePath: args[0], Finding: v.Findings[idx]})
		if !resp.Success {
			return errors.New(resp.Message)
		}
		fmt.Fprintln(cmd.OutOrStdout(), resp.Message)
		return nil
	},
}
