package ui_test

import (
	"bytes"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"

	"github.com/temirov/treesync/internal/execshell"
	"github.com/temirov/treesync/internal/ui"
)

func TestDiagnosticPrinterWritesPlainAnnouncements(testInstance *testing.T) {
	var diagnosticBuffer bytes.Buffer
	printer := ui.NewDiagnosticPrinter(&diagnosticBuffer, termenv.WithProfile(termenv.Ascii))

	printer.AnnounceDirectoryChange("vendor/llvm")
	printer.AnnounceCommand(execshell.ShellCommand{Name: execshell.CommandGit, Details: execshell.CommandDetails{Arguments: []string{"fetch"}}})
	printer.AnnounceCommand(execshell.ShellCommand{Name: execshell.CommandGit, Details: execshell.CommandDetails{Arguments: []string{"svn", "rebase", "-l"}}})

	require.Equal(testInstance, "cd vendor/llvm\nexecuting: git fetch\nexecuting: git svn rebase -l\n", diagnosticBuffer.String())
}

func TestDiagnosticPrinterStylesTerminalOutput(testInstance *testing.T) {
	var diagnosticBuffer bytes.Buffer
	printer := ui.NewDiagnosticPrinter(&diagnosticBuffer, termenv.WithProfile(termenv.ANSI))

	printer.AnnounceCommand(execshell.ShellCommand{Name: execshell.CommandGit, Details: execshell.CommandDetails{Arguments: []string{"rebase"}}})

	require.Contains(testInstance, diagnosticBuffer.String(), "executing: git rebase")
	require.NotEqual(testInstance, "executing: git rebase\n", diagnosticBuffer.String())
}

func TestProfileForNonTerminalStreamIsPlain(testInstance *testing.T) {
	var diagnosticBuffer bytes.Buffer
	printer := ui.NewDiagnosticPrinter(&diagnosticBuffer, ui.ProfileFor(&diagnosticBuffer))

	printer.AnnounceDirectoryChange(".")

	require.Equal(testInstance, "cd .\n", diagnosticBuffer.String())
}
