package cli

import (
	"github.com/temirov/treesync/internal/utils/flags"
	"github.com/temirov/treesync/internal/workflow"
)

// ApplicationConfiguration describes the persisted configuration for the CLI entrypoint.
type ApplicationConfiguration struct {
	Common ApplicationCommonConfiguration `mapstructure:"common"`
	Update UpdateConfiguration            `mapstructure:"update"`
}

// ApplicationCommonConfiguration stores logging configuration.
type ApplicationCommonConfiguration struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// UpdateConfiguration stores defaults for repository synchronization.
type UpdateConfiguration struct {
	IntegrationBranch string `mapstructure:"integration_branch"`
	DryRun            bool   `mapstructure:"dry_run"`
	Echo              bool   `mapstructure:"echo"`
}

// RunConfiguration layers execution flags over the update configuration.
// Flags given on the command line win over configured values.
func (configuration UpdateConfiguration) RunConfiguration(flagValues flags.ExecutionFlagValues) workflow.RunConfiguration {
	runConfiguration := workflow.RunConfiguration{
		DryRun:            configuration.DryRun,
		Echo:              configuration.Echo,
		Verbosity:         flagValues.Verbosity,
		IntegrationBranch: configuration.IntegrationBranch,
	}
	if flagValues.DryRunSet {
		runConfiguration.DryRun = flagValues.DryRun
	}
	if flagValues.EchoSet {
		runConfiguration.Echo = flagValues.Echo
	}
	runConfiguration.IntegrationBranch = runConfiguration.ResolvedIntegrationBranch()
	return runConfiguration
}
