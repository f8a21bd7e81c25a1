package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/temirov/treesync/internal/repos/shared"
	"github.com/temirov/treesync/internal/utils"
	"github.com/temirov/treesync/internal/utils/flags"
	"github.com/temirov/treesync/internal/workflow"
)

const (
	applicationNameConstant                 = "treesync"
	applicationShortDescriptionConstant     = "Synchronize a git working copy and its nested repositories with upstream"
	applicationLongDescriptionConstant      = "treesync finds every git repository below the current directory, checks that each one is on the integration branch, and then fetches and rebases them deepest first. Repositories mirrored from Subversion through git-svn are rebased with git svn rebase -l."
	configFileFlagNameConstant              = "config"
	configFileFlagUsageConstant             = "Optional path to a configuration file (YAML or JSON)."
	logLevelFlagNameConstant                = "log-level"
	logLevelFlagUsageConstant               = "Override the configured log level."
	logFormatFlagNameConstant               = "log-format"
	logFormatFlagUsageConstant              = "Override the configured log format (structured or console)."
	environmentPrefixConstant               = "TREESYNC"
	configurationNameConstant               = "treesync"
	configurationTypeConstant               = "yaml"
	configurationInitializedMessageConstant = "configuration initialized"
	configurationLogLevelFieldConstant      = "log_level"
	configurationLogFormatFieldConstant     = "log_format"
	configurationFileFieldConstant          = "config_file"
	configurationDryRunFieldConstant        = "dry_run"
	configurationEchoFieldConstant          = "echo"
	configurationVerbosityFieldConstant     = "verbosity"
	configurationBranchFieldConstant        = "integration_branch"
	configurationLoaderErrorTemplate        = "unable to prepare configuration loader: %w"
	configurationLoadErrorTemplateConstant  = "unable to load configuration: %w"
	loggerCreationErrorTemplateConstant     = "unable to create logger: %w"
	loggerSyncErrorTemplateConstant         = "unable to flush logger: %w"
	unexpectedArgumentsTemplateConstant     = "unexpected arguments: %s"
	usageErrorTemplateConstant              = "usage error: %v"
	defaultConfigurationSearchPathConstant  = "."
	startDirectoryConstant                  = "."
)

// UsageError reports malformed command-line input. The usage text is printed before it is returned.
type UsageError struct {
	Cause error
}

// Error describes the invalid input.
func (usageError UsageError) Error() string {
	return fmt.Sprintf(usageErrorTemplateConstant, usageError.Cause)
}

// Unwrap exposes the parser error.
func (usageError UsageError) Unwrap() error {
	return usageError.Cause
}

// ApplicationDependencies overrides the collaborators used by the synchronization run.
// Zero values select the operating system defaults.
type ApplicationDependencies struct {
	RepositoryDiscoverer shared.RepositoryDiscoverer
	GitExecutor          shared.GitExecutor
	FileSystem           shared.FileSystem
	ErrorOutput          io.Writer
}

// Application wires the Cobra root command, configuration loader, and structured logger.
type Application struct {
	rootCommand           *cobra.Command
	configurationLoader   *utils.ConfigurationLoader
	loggerFactory         *utils.LoggerFactory
	logger                *zap.Logger
	diagnosticWriter      *utils.DiagnosticWriter
	configuration         ApplicationConfiguration
	configurationMetadata utils.LoadedConfiguration
	runConfiguration      workflow.RunConfiguration
	configurationFilePath string
	logLevelFlagValue     string
	logFormatFlagValue    string
	executionFlags        flags.ExecutionFlagDefinitions
	dependencies          ApplicationDependencies
}

// NewApplication assembles a CLI application backed by the operating system.
func NewApplication() *Application {
	return NewApplicationWithDependencies(ApplicationDependencies{})
}

// NewApplicationWithDependencies assembles a CLI application using the provided collaborators.
func NewApplicationWithDependencies(dependencies ApplicationDependencies) *Application {
	if dependencies.ErrorOutput == nil {
		dependencies.ErrorOutput = os.Stderr
	}

	diagnosticWriter := utils.NewDiagnosticWriter(dependencies.ErrorOutput)
	application := &Application{
		loggerFactory:    utils.NewLoggerFactory(diagnosticWriter),
		logger:           zap.NewNop(),
		diagnosticWriter: diagnosticWriter,
		executionFlags:   flags.DefaultExecutionFlagDefinitions(),
		dependencies:     dependencies,
	}

	cobraCommand := &cobra.Command{
		Use:           applicationNameConstant,
		Short:         applicationShortDescriptionConstant,
		Long:          applicationLongDescriptionConstant,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          rejectPositionalArguments,
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			return application.initializeConfiguration(command)
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			return application.runSynchronization(command)
		},
	}

	cobraCommand.SetContext(context.Background())
	cobraCommand.SetOut(diagnosticWriter)
	cobraCommand.SetErr(diagnosticWriter)
	cobraCommand.SetFlagErrorFunc(func(command *cobra.Command, flagError error) error {
		return UsageError{Cause: flagError}
	})
	cobraCommand.PersistentFlags().StringVar(&application.configurationFilePath, configFileFlagNameConstant, "", configFileFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.logLevelFlagValue, logLevelFlagNameConstant, "", logLevelFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.logFormatFlagValue, logFormatFlagNameConstant, "", logFormatFlagUsageConstant)
	flags.BindExecutionFlags(cobraCommand, flags.ExecutionDefaults{}, application.executionFlags)

	application.rootCommand = cobraCommand

	return application
}

// SetArguments replaces the command-line arguments parsed by Execute.
func (application *Application) SetArguments(arguments []string) {
	application.rootCommand.SetArgs(arguments)
}

// RunConfiguration returns the run configuration resolved during the last execution.
func (application *Application) RunConfiguration() workflow.RunConfiguration {
	return application.runConfiguration
}

// Execute runs the root command, prints usage for malformed input, and flushes the logger.
// An interrupt or termination signal cancels the running git command.
func (application *Application) Execute() error {
	signalContext, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	executionError := application.rootCommand.ExecuteContext(signalContext)

	var usageError UsageError
	if errors.As(executionError, &usageError) {
		fmt.Fprint(application.diagnosticWriter, application.rootCommand.UsageString())
	}

	if syncError := application.flushLogger(); syncError != nil && executionError == nil {
		return fmt.Errorf(loggerSyncErrorTemplateConstant, syncError)
	}
	return executionError
}

// Execute builds a fresh application instance and executes the root command.
func Execute() error {
	return NewApplication().Execute()
}

func rejectPositionalArguments(command *cobra.Command, arguments []string) error {
	if len(arguments) == 0 {
		return nil
	}
	return UsageError{Cause: fmt.Errorf(unexpectedArgumentsTemplateConstant, strings.Join(arguments, " "))}
}

func (application *Application) initializeConfiguration(command *cobra.Command) error {
	if application.configurationLoader == nil {
		configurationLoader, loaderError := utils.NewConfigurationLoader(utils.ConfigurationLoaderOptions{
			Name:              configurationNameConstant,
			Type:              configurationTypeConstant,
			EnvironmentPrefix: environmentPrefixConstant,
			SearchPaths:       []string{defaultConfigurationSearchPathConstant},
			RejectUnknownKeys: true,
		})
		if loaderError != nil {
			return fmt.Errorf(configurationLoaderErrorTemplate, loaderError)
		}
		configurationLoader.SetEmbeddedConfiguration(EmbeddedDefaultConfiguration())
		application.configurationLoader = configurationLoader
	}

	application.configuration = ApplicationConfiguration{}
	loadedConfiguration, loadError := application.configurationLoader.LoadConfiguration(application.configurationFilePath, &application.configuration)
	if loadError != nil {
		return fmt.Errorf(configurationLoadErrorTemplateConstant, loadError)
	}
	application.configurationMetadata = loadedConfiguration

	if application.persistentFlagChanged(command, logLevelFlagNameConstant) {
		application.configuration.Common.LogLevel = application.logLevelFlagValue
	}
	if application.persistentFlagChanged(command, logFormatFlagNameConstant) {
		application.configuration.Common.LogFormat = application.logFormatFlagValue
	}

	flagValues := flags.ReadExecutionFlags(command, application.executionFlags)
	application.runConfiguration = application.configuration.Update.RunConfiguration(flagValues)

	effectiveLogLevel := utils.LogLevelForVerbosity(application.runConfiguration.Verbosity, utils.LogLevel(application.configuration.Common.LogLevel))
	logger, loggerCreationError := application.loggerFactory.CreateLogger(effectiveLogLevel, utils.LogFormat(application.configuration.Common.LogFormat))
	if loggerCreationError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, loggerCreationError)
	}
	application.logger = logger

	application.logger.Debug(
		configurationInitializedMessageConstant,
		zap.String(configurationLogLevelFieldConstant, string(effectiveLogLevel)),
		zap.String(configurationLogFormatFieldConstant, application.configuration.Common.LogFormat),
		zap.String(configurationFileFieldConstant, application.configurationMetadata.ConfigFileUsed),
		zap.Bool(configurationDryRunFieldConstant, application.runConfiguration.DryRun),
		zap.Bool(configurationEchoFieldConstant, application.runConfiguration.Echo),
		zap.Int(configurationVerbosityFieldConstant, application.runConfiguration.Verbosity),
		zap.String(configurationBranchFieldConstant, application.runConfiguration.IntegrationBranch),
	)

	return nil
}

func (application *Application) humanReadableLoggingEnabled() bool {
	logFormatValue := strings.TrimSpace(application.configuration.Common.LogFormat)
	return strings.EqualFold(logFormatValue, string(utils.LogFormatConsole))
}

func (application *Application) flushLogger() error {
	if application.logger == nil {
		return nil
	}

	syncError := application.logger.Sync()
	switch {
	case syncError == nil:
		return nil
	case errors.Is(syncError, syscall.ENOTSUP):
		return nil
	case errors.Is(syncError, syscall.EINVAL):
		return nil
	default:
		return syncError
	}
}

func (application *Application) persistentFlagChanged(command *cobra.Command, flagName string) bool {
	if command == nil {
		return false
	}

	flagSetsToInspect := []*pflag.FlagSet{
		command.PersistentFlags(),
		command.InheritedFlags(),
	}
	if rootCommand := command.Root(); rootCommand != nil {
		flagSetsToInspect = append(flagSetsToInspect, rootCommand.PersistentFlags())
	}

	for _, flagSet := range flagSetsToInspect {
		if flagSet != nil && flagSet.Changed(flagName) {
			return true
		}
	}
	return false
}
