package main

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/andaru/largexml/service"
)

var flagOffset int64

func init() {
	zonesCmd.Flags().Int64Var(&flagOffset, "offset", -1, "show the excerpt around a byte offset instead")
}

var zonesCmd = &cobra.Command{
	Use:   "zones FILE [INDEX...]",
	Short: "Show context excerpts around findings",
	Long: `Validates FILE and prints a bounded excerpt around each selected
finding. INDEX values refer to the finding numbers printed by the
validate command; with no indexes, every finding is shown.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newService()
		if err != nil {
			return err
		}
		defer svc.Close()

		if flagOffset >= 0 {
			resp := svc.ZoneAt(service.ZoneAtRequest{FilePath: args[0], Offset: flagOffset})
			if !resp.Success {
				return errors.New(resp.Message)
			}
			fmt.Fprintln(cmd.OutOrStdout(), resp.Zone.Content)
			return nil
		}

		selected := make([]int, 0, len(args)-1)
		for _, a := range args[1:] {
			idx, err := strconv.Atoi(a)
			if err != nil {
				return errors.Wrapf(err, "bad finding index %q", a)
			}
			selected = append(selected, idx)
		}

		v := svc.Validate(service.ValidateRequest{FilePath: args[0]})
		if len(v.Findings) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no findings")
			return nil
		}
		resp := svc.ExtractZones(service.ZonesRequest{
			FilePath:        args[0],
			Findings:        v.Findings,
			SelectedIndexes: selected,
		})

		out := cmd.OutOrStdout()
		header := color.New(color.Bold)
		for i, f := range resp.Findings {
			if !f.ZoneExtracted() {
				continue
			}
			header.Fprintf(out, "finding %d: %s (line %d)\n", i, f.Message, f.Line)
			fmt.Fprintf(out, "lines %d-%d:\n%s\n\n", f.ZoneStartLine, f.ZoneEndLine, f.ZoneContent)
		}
		return nil
	},
}
