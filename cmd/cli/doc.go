// Package cli constructs the treesync command-line interface. It wires the
// Cobra root command, the layered configuration loader, structured logging,
// and the repository synchronization workflow behind a single command that
// accepts only flags.
package cli
