package utils

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

const (
	environmentKeySeparatorOldConstant              = "."
	environmentKeySeparatorNewConstant              = "_"
	configurationReadErrorTemplateConstant          = "failed to read configuration: %w"
	configurationUnmarshalErrorTemplateConstant     = "failed to parse configuration: %w"
	embeddedConfigurationMergeErrorTemplateConstant = "failed to merge embedded configuration: %w"
	configurationNameMissingMessageConstant         = "configuration name must be provided"
	configurationExtensionSeparatorConstant         = "."
)

// ErrConfigurationNameMissing indicates the loader was constructed without a configuration name.
var ErrConfigurationNameMissing = errors.New(configurationNameMissingMessageConstant)

// ConfigurationLoaderOptions describes where configuration is searched for and how it is decoded.
type ConfigurationLoaderOptions struct {
	Name              string
	Type              string
	EnvironmentPrefix string
	SearchPaths       []string
	// RejectUnknownKeys fails loading when a configuration source sets a key the target does not declare.
	RejectUnknownKeys bool
}

// ConfigurationLoader wraps Viper to load structured configuration files and environment overrides.
type ConfigurationLoader struct {
	options                   ConfigurationLoaderOptions
	environmentKeyReplacer    *strings.Replacer
	embeddedConfiguration     []byte
	embeddedConfigurationType string
}

// LoadedConfiguration surfaces metadata about the resolved configuration.
type LoadedConfiguration struct {
	ConfigFileUsed string
}

// NewConfigurationLoader creates a loader that searches known paths and respects an environment prefix.
func NewConfigurationLoader(options ConfigurationLoaderOptions) (*ConfigurationLoader, error) {
	if len(strings.TrimSpace(options.Name)) == 0 {
		return nil, ErrConfigurationNameMissing
	}

	options.SearchPaths = append([]string(nil), options.SearchPaths...)
	return &ConfigurationLoader{
		options:                options,
		environmentKeyReplacer: strings.NewReplacer(environmentKeySeparatorOldConstant, environmentKeySeparatorNewConstant),
	}, nil
}

// SetEmbeddedConfiguration stores embedded configuration data merged before user-provided configuration files.
func (loader *ConfigurationLoader) SetEmbeddedConfiguration(configurationData []byte, configurationType string) {
	if loader == nil {
		return
	}

	loader.embeddedConfiguration = nil
	loader.embeddedConfigurationType = strings.TrimSpace(configurationType)

	if len(configurationData) == 0 {
		return
	}
	loader.embeddedConfiguration = bytes.Clone(configurationData)
}

// LoadConfiguration populates targetConfiguration from the embedded defaults, then a
// configuration file, then environment variables. An explicit configurationFilePath
// must exist; a file found through the search paths is optional.
func (loader *ConfigurationLoader) LoadConfiguration(configurationFilePath string, targetConfiguration any) (LoadedConfiguration, error) {
	viperInstance := viper.New()
	viperInstance.SetConfigType(loader.options.Type)

	if len(loader.embeddedConfiguration) > 0 {
		configurationType := loader.options.Type
		if len(loader.embeddedConfigurationType) > 0 {
			configurationType = loader.embeddedConfigurationType
		}

		viperInstance.SetConfigType(configurationType)
		if mergeError := viperInstance.MergeConfig(bytes.NewReader(loader.embeddedConfiguration)); mergeError != nil {
			return LoadedConfiguration{}, fmt.Errorf(embeddedConfigurationMergeErrorTemplateConstant, mergeError)
		}
		viperInstance.SetConfigType(loader.options.Type)
	}

	viperInstance.SetEnvPrefix(loader.options.EnvironmentPrefix)
	viperInstance.SetEnvKeyReplacer(loader.environmentKeyReplacer)
	viperInstance.AutomaticEnv()

	resolvedConfigurationFilePath := strings.TrimSpace(configurationFilePath)
	if len(resolvedConfigurationFilePath) == 0 {
		discoveredFilePath, discoveryError := loader.findConfigurationFile()
		if discoveryError != nil {
			return LoadedConfiguration{}, fmt.Errorf(configurationReadErrorTemplateConstant, discoveryError)
		}
		resolvedConfigurationFilePath = discoveredFilePath
	}

	if len(resolvedConfigurationFilePath) > 0 {
		viperInstance.SetConfigFile(resolvedConfigurationFilePath)
		if readError := viperInstance.MergeInConfig(); readError != nil {
			return LoadedConfiguration{}, fmt.Errorf(configurationReadErrorTemplateConstant, readError)
		}
	}

	decoderOptions := []viper.DecoderConfigOption{viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		trimStringValuesHook,
		mapstructure.StringToTimeDurationHookFunc(),
	))}
	if loader.options.RejectUnknownKeys {
		decoderOptions = append(decoderOptions, func(decoderConfiguration *mapstructure.DecoderConfig) {
			decoderConfiguration.ErrorUnused = true
		})
	}

	if unmarshalError := viperInstance.Unmarshal(targetConfiguration, decoderOptions...); unmarshalError != nil {
		return LoadedConfiguration{}, fmt.Errorf(configurationUnmarshalErrorTemplateConstant, unmarshalError)
	}

	return LoadedConfiguration{ConfigFileUsed: viperInstance.ConfigFileUsed()}, nil
}

// findConfigurationFile returns the first <Name>.<Type> file found in the search paths.
// Files carrying only the bare name are never considered.
func (loader *ConfigurationLoader) findConfigurationFile() (string, error) {
	configurationFileName := loader.options.Name + configurationExtensionSeparatorConstant + loader.options.Type
	for _, searchPath := range loader.options.SearchPaths {
		candidatePath := filepath.Join(searchPath, configurationFileName)
		fileInfo, statError := os.Stat(candidatePath)
		switch {
		case statError == nil && fileInfo.Mode().IsRegular():
			return candidatePath, nil
		case statError == nil, errors.Is(statError, fs.ErrNotExist):
			continue
		default:
			return "", statError
		}
	}
	return "", nil
}

func trimStringValuesHook(sourceType reflect.Type, targetType reflect.Type, data any) (any, error) {
	if sourceType.Kind() != reflect.String || targetType.Kind() != reflect.String {
		return data, nil
	}
	return strings.TrimSpace(reflect.ValueOf(data).String()), nil
}
