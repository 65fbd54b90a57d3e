package main

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dgallion1/swcr/internal/inspect"
	"github.com/dgallion1/swcr/internal/output"
)

func newInspectCmd() *cobra.Command {
	var withText bool

	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Report the page count and text of a DOCX or PDF",
		Long: `Read a generated listing back and report how many pages it has. With --text
the text of every page is printed too.

Examples:
  swcr inspect listing.pdf
  swcr inspect listing.docx --text --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, args[0], withText)
		},
	}
	cmd.Flags().BoolVar(&withText, "text", false, "Include the text of each page")
	return cmd
}

func runInspect(cmd *cobra.Command, path string, withText bool) error {
	printer := newPrinter(cmd)

	if _, err := inspect.ForFile(path); err != nil {
		exitErr := output.NewUserError(err.Error())
		printer.Error(exitErr)
		return exitErr
	}
	sum, err := inspect.File(path)
	if err != nil {
		var exitErr *output.ExitError
		if errors.Is(err, fs.ErrNotExist) {
			exitErr = output.NewUserErrorWithCause("inspect "+path, err)
		} else {
			exitErr = output.NewSystemErrorWithCause("inspect "+path, err)
		}
		printer.Error(exitErr)
		return exitErr
	}
	if !withText {
		sum.Text = nil
	}

	if printer.IsJSON() {
		return printer.WriteJSON(sum)
	}
	printer.KeyValue("file", path)
	printer.KeyValue("format", sum.Format)
	printer.KeyValue("pages", strconv.Itoa(sum.Pages))
	for i, page := range sum.Text {
		printer.Section(fmt.Sprintf("Page %d", i+1))
		for _, line := range page {
			printer.Println(line)
		}
	}
	return nil
}
