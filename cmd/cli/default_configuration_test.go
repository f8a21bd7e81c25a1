package cli_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/temirov/treesync/cmd/cli"
)

type embeddedConfigurationDocument struct {
	Common struct {
		LogLevel  string `yaml:"log_level"`
		LogFormat string `yaml:"log_format"`
	} `yaml:"common"`
	Update struct {
		IntegrationBranch string `yaml:"integration_branch"`
		DryRun            bool   `yaml:"dry_run"`
		Echo              bool   `yaml:"echo"`
	} `yaml:"update"`
}

func TestEmbeddedDefaultConfiguration(testInstance *testing.T) {
	content, configurationType := cli.EmbeddedDefaultConfiguration()
	require.Equal(testInstance, "yaml", configurationType)

	var document embeddedConfigurationDocument
	decoder := yaml.NewDecoder(bytes.NewReader(content))
	decoder.KnownFields(true)
	require.NoError(testInstance, decoder.Decode(&document))

	require.Equal(testInstance, "warn", document.Common.LogLevel)
	require.Equal(testInstance, "console", document.Common.LogFormat)
	require.Equal(testInstance, "master", document.Update.IntegrationBranch)
	require.False(testInstance, document.Update.DryRun)
	require.False(testInstance, document.Update.Echo)
}

func TestEmbeddedDefaultConfigurationReturnsCopy(testInstance *testing.T) {
	firstContent, _ := cli.EmbeddedDefaultConfiguration()
	require.NotEmpty(testInstance, firstContent)
	firstContent[0] = '#'

	secondContent, _ := cli.EmbeddedDefaultConfiguration()
	require.NotEqual(testInstance, byte('#'), secondContent[0])
}
