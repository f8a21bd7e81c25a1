// Package flags provides helpers for binding standardized execution flags to Cobra commands.
package flags

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	// DryRunFlagName exposes the shared dry-run flag name.
	DryRunFlagName = "dry-run"
	// DryRunFlagShorthand provides the shorthand for the dry-run flag.
	DryRunFlagShorthand = "D"
	// DryRunFlagUsage describes the dry-run flag purpose.
	DryRunFlagUsage = "Print the commands that would run without running them"
	// EchoFlagName exposes the shared echo flag name.
	EchoFlagName = "echo"
	// EchoFlagShorthand provides the shorthand for the echo flag.
	EchoFlagShorthand = "e"
	// EchoFlagUsage describes the echo flag purpose.
	EchoFlagUsage = "Print each command before running it"
	// DebugFlagName exposes the shared verbosity flag name.
	DebugFlagName = "debug"
	// DebugFlagShorthand provides the shorthand for the verbosity flag.
	DebugFlagShorthand = "d"
	// DebugFlagUsage describes the verbosity flag purpose.
	DebugFlagUsage = "Increase diagnostic output (repeatable)"
)

// ExecutionDefaults describes default flag values shared across commands.
type ExecutionDefaults struct {
	DryRun bool
	Echo   bool
}

// ExecutionFlagDefinition captures a single flag's configuration.
type ExecutionFlagDefinition struct {
	Name      string
	Usage     string
	Shorthand string
	Enabled   bool
}

// ExecutionFlagDefinitions groups execution flag definitions.
type ExecutionFlagDefinitions struct {
	DryRun ExecutionFlagDefinition
	Echo   ExecutionFlagDefinition
	Debug  ExecutionFlagDefinition
}

// DefaultExecutionFlagDefinitions enables -D, -e, and -d with their standard names.
func DefaultExecutionFlagDefinitions() ExecutionFlagDefinitions {
	return ExecutionFlagDefinitions{
		DryRun: ExecutionFlagDefinition{Name: DryRunFlagName, Shorthand: DryRunFlagShorthand, Usage: DryRunFlagUsage, Enabled: true},
		Echo:   ExecutionFlagDefinition{Name: EchoFlagName, Shorthand: EchoFlagShorthand, Usage: EchoFlagUsage, Enabled: true},
		Debug:  ExecutionFlagDefinition{Name: DebugFlagName, Shorthand: DebugFlagShorthand, Usage: DebugFlagUsage, Enabled: true},
	}
}

// ExecutionFlagValues reports the execution flags parsed for a command.
// The Set fields record whether the flag appeared on the command line.
type ExecutionFlagValues struct {
	DryRun    bool
	DryRunSet bool
	Echo      bool
	EchoSet   bool
	Verbosity int
}

// BindExecutionFlags attaches standardized execution flags to the provided command using persistent scope.
func BindExecutionFlags(command *cobra.Command, defaults ExecutionDefaults, definitions ExecutionFlagDefinitions) {
	if command == nil {
		return
	}

	persistentFlagSet := command.PersistentFlags()

	bindBoolFlag(persistentFlagSet, definitions.DryRun, defaults.DryRun)
	bindBoolFlag(persistentFlagSet, definitions.Echo, defaults.Echo)
	bindCountFlag(persistentFlagSet, definitions.Debug)
}

// ReadExecutionFlags extracts execution flag values from a parsed command.
// Flags that were not bound report their zero value.
func ReadExecutionFlags(command *cobra.Command, definitions ExecutionFlagDefinitions) ExecutionFlagValues {
	if command == nil {
		return ExecutionFlagValues{}
	}

	flagSet := command.Flags()
	values := ExecutionFlagValues{}
	values.DryRun, values.DryRunSet = readBoolFlag(flagSet, definitions.DryRun)
	values.Echo, values.EchoSet = readBoolFlag(flagSet, definitions.Echo)
	values.Verbosity = readCountFlag(flagSet, definitions.Debug)
	return values
}

func bindBoolFlag(flagSet *pflag.FlagSet, definition ExecutionFlagDefinition, defaultValue bool) {
	if flagSet == nil || !definition.Enabled || len(definition.Name) == 0 {
		return
	}

	if len(definition.Shorthand) > 0 {
		flagSet.BoolP(definition.Name, definition.Shorthand, defaultValue, definition.Usage)
		return
	}

	flagSet.Bool(definition.Name, defaultValue, definition.Usage)
}

func bindCountFlag(flagSet *pflag.FlagSet, definition ExecutionFlagDefinition) {
	if flagSet == nil || !definition.Enabled || len(definition.Name) == 0 {
		return
	}

	if len(definition.Shorthand) > 0 {
		flagSet.CountP(definition.Name, definition.Shorthand, definition.Usage)
		return
	}

	flagSet.Count(definition.Name, definition.Usage)
}

func readBoolFlag(flagSet *pflag.FlagSet, definition ExecutionFlagDefinition) (bool, bool) {
	if !definition.Enabled || flagSet.Lookup(definition.Name) == nil {
		return false, false
	}
	value, lookupError := flagSet.GetBool(definition.Name)
	if lookupError != nil {
		return false, false
	}
	return value, flagSet.Changed(definition.Name)
}

func readCountFlag(flagSet *pflag.FlagSet, definition ExecutionFlagDefinition) int {
	if !definition.Enabled || flagSet.Lookup(definition.Name) == nil {
		return 0
	}
	value, lookupError := flagSet.GetCount(definition.Name)
	if lookupError != nil {
		return 0
	}
	return value
}
