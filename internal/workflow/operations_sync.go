package workflow

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

const (
	checkingRepositoryLogMessageConstant = "checking repository"
	updatingRepositoryLogMessageConstant = "updating repository"
	validatorMissingMessageConstant      = "validate-branches operation requires a validator"
	updaterMissingMessageConstant        = "update-repositories operation requires an updater"
	logFieldRepositoryConstant           = "repository"
	logFieldDryRunConstant               = "dry_run"
)

// ValidateBranchesOperation confirms every repository is on the integration branch.
type ValidateBranchesOperation struct{}

// Name identifies the operation type.
func (operation *ValidateBranchesOperation) Name() string {
	return string(OperationTypeValidateBranches)
}

// Execute validates repositories in discovery order and stops at the first failure.
func (operation *ValidateBranchesOperation) Execute(executionContext context.Context, environment *Environment, state *State) error {
	if environment == nil || state == nil {
		return nil
	}
	if environment.Validator == nil {
		return errors.New(validatorMissingMessageConstant)
	}

	for _, repository := range state.Repositories {
		environment.logger().Info(checkingRepositoryLogMessageConstant, zap.String(logFieldRepositoryConstant, repository.Path()))
		if validationError := environment.Validator.Validate(executionContext, repository); validationError != nil {
			return validationError
		}
	}
	return nil
}

// UpdateRepositoriesOperation fetches and integrates upstream changes in every repository.
type UpdateRepositoriesOperation struct{}

// Name identifies the operation type.
func (operation *UpdateRepositoriesOperation) Name() string {
	return string(OperationTypeUpdateRepositories)
}

// Execute updates repositories in discovery order and stops at the first failure.
func (operation *UpdateRepositoriesOperation) Execute(executionContext context.Context, environment *Environment, state *State) error {
	if environment == nil || state == nil {
		return nil
	}
	if environment.Updater == nil {
		return errors.New(updaterMissingMessageConstant)
	}

	for _, repository := range state.Repositories {
		environment.logger().Info(
			updatingRepositoryLogMessageConstant,
			zap.String(logFieldRepositoryConstant, repository.Path()),
			zap.Bool(logFieldDryRunConstant, environment.DryRun),
		)
		if updateError := environment.Updater.Update(executionContext, repository); updateError != nil {
			return updateError
		}
	}
	return nil
}

func (environment *Environment) logger() *zap.Logger {
	if environment.Logger == nil {
		return zap.NewNop()
	}
	return environment.Logger
}
