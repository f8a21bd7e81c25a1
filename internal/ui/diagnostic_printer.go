package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/muesli/termenv"

	"github.com/temirov/treesync/internal/execshell"
)

const (
	commandAnnouncementTemplateConstant   = "executing: %s"
	directoryAnnouncementTemplateConstant = "cd %s"
	announcementLineTemplateConstant      = "%s\n"
)

// DiagnosticPrinter writes echo and dry-run announcements to the diagnostic stream.
// Terminals receive faint styling; other writers receive plain text.
type DiagnosticPrinter struct {
	output *termenv.Output
}

// NewDiagnosticPrinter constructs a printer writing to writer, defaulting to standard error.
func NewDiagnosticPrinter(writer io.Writer, options ...termenv.OutputOption) *DiagnosticPrinter {
	if writer == nil {
		writer = os.Stderr
	}
	return &DiagnosticPrinter{output: termenv.NewOutput(writer, options...)}
}

// AnnounceCommand implements execshell.CommandAnnouncer.
func (printer *DiagnosticPrinter) AnnounceCommand(command execshell.ShellCommand) {
	printer.printLine(fmt.Sprintf(commandAnnouncementTemplateConstant, command.Label()))
}

// AnnounceDirectoryChange reports a change of the process working directory.
func (printer *DiagnosticPrinter) AnnounceDirectoryChange(directory string) {
	printer.printLine(fmt.Sprintf(directoryAnnouncementTemplateConstant, directory))
}

func (printer *DiagnosticPrinter) printLine(line string) {
	if printer == nil || printer.output == nil {
		return
	}
	styledLine := printer.output.String(line).Faint()
	fmt.Fprintf(printer.output, announcementLineTemplateConstant, styledLine)
}

// ProfileFor returns the color profile to use when writing to stream. Terminal
// streams keep the profile detected from the environment; anything else is plain.
func ProfileFor(stream io.Writer) termenv.OutputOption {
	if file, isFile := stream.(*os.File); isFile {
		return termenv.WithProfile(termenv.NewOutput(file).Profile)
	}
	return termenv.WithProfile(termenv.Ascii)
}
