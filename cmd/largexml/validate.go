package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/andaru/largexml/finding"
	"github.com/andaru/largexml/service"
)

var flagSchema string

func init() {
	validateCmd.Flags().StringVar(&flagSchema, "schema", "", "XSD schema to validate against")
}

var validateCmd = &cobra.Command{
	Use:   "validate FILE",
	Short: "Scan a document for structural and schema problems",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newService()
		if err != nil {
			return err
		}
		defer svc.Close()

		resp := svc.Validate(service.ValidateRequest{FilePath: args[0], SchemaPath: flagSchema})
		out := cmd.OutOrStdout()
		for i, f := range resp.Findings {
			printFinding(out, i, f)
		}
		fmt.Fprintf(out, "%s (%d error(s), %d warning(s), %d bytes, %dms)\n",
			resp.Message, resp.ErrorCount, resp.WarningCount,
			resp.FileSizeBytes, resp.ElapsedMillis)
		if !resp.Success {
			return errors.Errorf("%d problem(s) found", resp.ErrorCount)
		}
		return nil
	},
}

var (
	severityColor = map[finding.Severity]*color.Color{
		finding.SeverityError:   color.New(color.FgRed, color.Bold),
		finding.SeverityWarning: color.New(color.FgYellow),
		finding.SeverityInfo:    color.New(color.FgCyan),
		finding.SeverityHint:    color.New(color.FgHiBlack),
	}
)

func printFinding(w io.Writer, index int, f *finding.Finding) {
	c, ok := severityColor[f.Severity()]
	if !ok {
		c = color.New()
	}
	loc := fmt.Sprintf("line %d", f.Line)
	if f.Column > 0 {
		loc += fmt.Sprintf(", col %d", f.Column)
	}
	if f.Precise != nil {
		loc = fmt.Sprintf("line %d, col %d-%d",
			f.Precise.Start.Line, f.Precise.Start.Column, f.Precise.End.Column)
	}
	fmt.Fprintf(w, "%3d. %s [%s] %s (%s)\n",
		index, c.Sprint(f.Severity()), f.Code(), f.Message, loc)
	if f.Suggestion != "" {
		fmt.Fprintf(w, "     suggestion: %s\n", f.Suggestion)
	}
}
