package workflow

import (
	"strings"

	"github.com/temirov/treesync/internal/execshell"
	"github.com/temirov/treesync/internal/repos/shared"
)

// RunConfiguration captures the options of a single synchronization run.
// It is built once from flags and configuration and never modified afterwards.
type RunConfiguration struct {
	DryRun            bool
	Echo              bool
	Verbosity         int
	IntegrationBranch string
}

// ExecutionMode returns the command gate mode selected by the configuration.
func (configuration RunConfiguration) ExecutionMode() execshell.ExecutionMode {
	return execshell.ExecutionMode{DryRun: configuration.DryRun, Echo: configuration.Echo}
}

// ResolvedIntegrationBranch returns the configured integration branch or master when unset.
func (configuration RunConfiguration) ResolvedIntegrationBranch() string {
	trimmedBranch := strings.TrimSpace(configuration.IntegrationBranch)
	if len(trimmedBranch) == 0 {
		return shared.DefaultIntegrationBranchConstant
	}
	return trimmedBranch
}
