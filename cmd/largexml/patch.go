package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/andaru/largexml/patch"
	"github.com/andaru/largexml/service"
)

var patchCmd = &cobra.Command{
	Use:   "patch",
	Short: "Record, apply and inspect byte-offset patches",
}

var (
	flagStart    int64
	flagEnd      int64
	flagText     string
	flagType     string
	flagFragment string

	flagOutput string

	flagStartLine int
	flagEndLine   int
)

func init() {
	recordCmd.Flags().Int64Var(&flagStart, "start", 0, "start byte offset (inclusive)")
	recordCmd.Flags().Int64Var(&flagEnd, "end", 0, "end byte offset (exclusive)")
	recordCmd.Flags().StringVar(&flagText, "text", "", "replacement text")
	recordCmd.Flags().StringVar(&flagType, "type", "REPLACE", "patch type (REPLACE|INSERT|DELETE)")
	recordCmd.Flags().StringVar(&flagFragment, "fragment", "", "fragment identifier")
	_ = recordCmd.MarkFlagRequired("start")
	_ = recordCmd.MarkFlagRequired("end")

	saveCmd.Flags().StringVar(&flagOutput, "output", "", "output path (default: in place)")

	linesCmd.Flags().IntVar(&flagStartLine, "start-line", 0, "first line to replace (1-based, inclusive)")
	linesCmd.Flags().IntVar(&flagEndLine, "end-line", 0, "last line to replace (inclusive)")
	linesCmd.Flags().StringVar(&flagText, "text", "", "replacement fragment text")
	_ = linesCmd.MarkFlagRequired("start-line")
	_ = linesCmd.MarkFlagRequired("end-line")

	patchCmd.AddCommand(recordCmd)
	patchCmd.AddCommand(saveCmd)
	patchCmd.AddCommand(linesCmd)
}

var recordCmd = &cobra.Command{
	Use:   "record FILE",
	Short: "Record a pending byte-offset patch",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var typ patch.Type
		if err := typ.UnmarshalText([]byte(flagType)); err != nil {
			return errors.Wrapf(err, "bad patch type %q", flagType)
		}
		svc, err := newService()
		if err != nil {
			return err
		}
		defer svc.Close()

		resp := svc.RecordPatch(service.RecordRequest{
			FilePath:        args[0],
			StartOffset:     flagStart,
			EndOffset:       flagEnd,
			ReplacementText: flagText,
			Type:            typ,
			FragmentID:      flagFragment,
		})
		if !resp.Success {
			return errors.New(resp.Message)
		}
		fmt.Fprintln(cmd.OutOrStdout(), resp.Message)
		return nil
	},
}

var saveCmd = &cobra.Command{
	Use:   "save FILE",
	Short: "Apply the pending patch set",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newService()
		if err != nil {
			return err
		}
		defer svc.Close()

		resp := svc.Save(service.SaveRequest{FilePath: args[0], OutputPath: flagOutput})
		if !resp.Success {
			return errors.New(resp.Message)
		}
		fmt.Fprintln(cmd.OutOrStdout(), resp.Message)
		return nil
	},
}

var linesCmd = &cobra.Command{
	Use:   "lines FILE",
	Short: "Replace a line range with a fragment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newService()
		if err != nil {
			return err
		}
		defer svc.Close()

		resp := svc.PatchFragment(service.FragmentRequest{
			FilePath:        args[0],
			ReplacementText: flagText,
			StartLine:       flagStartLine,
			EndLine:         flagEndLine,
		})
		if !resp.Success {
			return errors.New(resp.Message)
		}
		fmt.Fprintln(cmd.OutOrStdout(), resp.Message)
		return nil
	},
}
