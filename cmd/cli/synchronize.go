package cli

import (
	"github.com/spf13/cobra"

	"github.com/temirov/treesync/internal/repos/dependencies"
	"github.com/temirov/treesync/internal/ui"
	"github.com/temirov/treesync/internal/workflow"
)

func (application *Application) runSynchronization(command *cobra.Command) error {
	logger := application.logger

	gitExecutor, executorError := dependencies.ResolveGitExecutor(application.dependencies.GitExecutor, logger, application.humanReadableLoggingEnabled())
	if executorError != nil {
		return executorError
	}

	fileSystem := dependencies.ResolveFileSystem(application.dependencies.FileSystem)
	repositoryDiscoverer, discovererError := dependencies.ResolveRepositoryDiscoverer(application.dependencies.RepositoryDiscoverer, fileSystem)
	if discovererError != nil {
		return discovererError
	}

	diagnosticPrinter := ui.NewDiagnosticPrinter(application.diagnosticWriter, ui.ProfileFor(application.dependencies.ErrorOutput))

	executor := workflow.NewExecutor(workflow.DefaultOperations(), workflow.Dependencies{
		Logger:               logger,
		RepositoryDiscoverer: repositoryDiscoverer,
		GitExecutor:          gitExecutor,
		FileSystem:           fileSystem,
		Diagnostics:          diagnosticPrinter,
	})

	return executor.Execute(command.Context(), startDirectoryConstant, application.runConfiguration)
}
