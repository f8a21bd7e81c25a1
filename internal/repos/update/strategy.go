package update

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/temirov/treesync/internal/execshell"
	"github.com/temirov/treesync/internal/repos/shared"
)

const (
	gitFetchSubcommandConstant   = "fetch"
	gitRebaseSubcommandConstant  = "rebase"
	gitSvnSubcommandConstant     = "svn"
	gitSvnLocalFlagConstant      = "-l"
	flavorDetectionErrorTemplate = "unable to inspect %s: %w"
	unknownFlavorErrorTemplate   = "unknown repository flavor %q"
	flavorPlainConstant          = "plain"
	flavorBridgeConstant         = "bridge"
)

// Flavor identifies how a repository is kept in sync with its upstream.
type Flavor string

// Supported repository flavors.
const (
	FlavorPlain  Flavor = Flavor(flavorPlainConstant)
	FlavorBridge Flavor = Flavor(flavorBridgeConstant)
)

// DetectFlavor inspects the repository in the current working directory.
// A svn entry inside the metadata directory marks a bridge repository.
func DetectFlavor(fileSystem shared.FileSystem) (Flavor, error) {
	bridgeMarkerPath := filepath.Join(shared.MetadataDirectoryNameConstant, shared.BridgeMarkerNameConstant)
	_, statError := fileSystem.Stat(bridgeMarkerPath)
	switch {
	case statError == nil:
		return FlavorBridge, nil
	case errors.Is(statError, fs.ErrNotExist):
		return FlavorPlain, nil
	default:
		return "", fmt.Errorf(flavorDetectionErrorTemplate, bridgeMarkerPath, statError)
	}
}

// IntegrationStrategy lists the git commands that bring a repository of one flavor up to date.
type IntegrationStrategy interface {
	Flavor() Flavor
	Commands() []execshell.CommandDetails
}

type plainStrategy struct{}

func (plainStrategy) Flavor() Flavor {
	return FlavorPlain
}

func (plainStrategy) Commands() []execshell.CommandDetails {
	return []execshell.CommandDetails{
		{Arguments: []string{gitFetchSubcommandConstant}},
		{Arguments: []string{gitRebaseSubcommandConstant}},
	}
}

type bridgeStrategy struct{}

func (bridgeStrategy) Flavor() Flavor {
	return FlavorBridge
}

func (bridgeStrategy) Commands() []execshell.CommandDetails {
	return []execshell.CommandDetails{
		{Arguments: []string{gitFetchSubcommandConstant}},
		{Arguments: []string{gitSvnSubcommandConstant, gitRebaseSubcommandConstant, gitSvnLocalFlagConstant}},
	}
}

// StrategyFor returns the integration strategy of flavor.
func StrategyFor(flavor Flavor) (IntegrationStrategy, error) {
	switch flavor {
	case FlavorPlain:
		return plainStrategy{}, nil
	case FlavorBridge:
		return bridgeStrategy{}, nil
	default:
		return nil, fmt.Errorf(unknownFlavorErrorTemplate, flavor)
	}
}
