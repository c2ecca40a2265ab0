package main

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/andaru/largexml/service"
)

var navigateCmd = &cobra.Command{
	Use:   "navigate FILE INDEX",
	Short: "Show one finding with its precise range and context",
	Args:  cobra.ExactArgs(2),
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
		resp := svc.Navigate(service.NavigateRequest{FilePath: args[0], Finding: v.Findings[idx]})
		if !resp.Success {
			return errors.New(resp.Message)
		}

		out := cmd.OutOrStdout()
		f := resp.Finding
		printFinding(out, idx, f)
		if f.ZoneExtracted() {
			fmt.Fprintf(out, "context (lines %d-%d):\n%s\n", f.ZoneStartLine, f.ZoneEndLine, f.ZoneContent)
		}
		return nil
	},
}
