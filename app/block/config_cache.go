package block

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/lysyi3m/related-nodes/app/related"
)

const (
	DefaultLimit            = 1
	DefaultLinkedText       = "[node:title]"
	DefaultLinkedTextMaxLen = 40
)

type ConfigCache struct {
	blocksDir string
	cache     map[string]*Config
	mu        sync.RWMutex
}

func NewConfigCache(blocksDir string) *ConfigCache {
	return &ConfigCache{
		blocksDir: blocksDir,
		cache:     make(map[string]*Config),
	}
}

func (cc *ConfigCache) Run() error {
	if _, err := os.Stat(cc.blocksDir); os.IsNotExist(err) {
		return nil
	}

	files, err := filepath.Glob(filepath.Join(cc.blocksDir, "*.yml"))
	if err != nil {
		return fmt.Errorf("failed to find YML files: %w", err)
	}

	for _, file := range files {
		blockName := strings.TrimSuffix(filepath.Base(file), ".yml")

		config, err := cc.LoadConfig(blockName)
		if err != nil {
			return fmt.Errorf("error loading %s: %w", file, err)
		}

		slog.Debug("Configuration loaded", "block", blockName, "display_type", config.DisplayType(), "mode", config.RowDisplay.Mode, "limit", config.RowDisplay.Limit)
	}

	return nil
}

func (cc *ConfigCache) LoadConfig(blockName string) (*Config, error) {
	configFile := cc.getConfigFilePath(blockName)
	data, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	blockConfig, err := ParseConfig(blockName, data)
	if err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", configFile, err)
	}

	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.cache[blockConfig.Name] = blockConfig

	return blockConfig, nil
}

func (cc *ConfigCache) GetConfig(blockName string) (*Config, error) {
	cc.mu.RLock()
	defer cc.mu.RUnlock()

	blockConfig, ok := cc.cache[blockName]
	if !ok {
		return nil, fmt.Errorf("block config with name '%s' not found", blockName)
	}
	return blockConfig, nil
}

func (cc *ConfigCache) GetConfigs() map[string]*Config {
	cc.mu.RLock()
	defer cc.mu.RUnlock()

	configsCopy := make(map[string]*Config, len(cc.cache))
	for k, v := range cc.cache {
		configsCopy[k] = v
	}
	return configsCopy
}

// GetConfigNames returns the names of all loaded blocks, sorted.
func (cc *ConfigCache) GetConfigNames() []string {
	cc.mu.RLock()
	defer cc.mu.RUnlock()

	names := make([]string, 0, len(cc.cache))
	for name := range cc.cache {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (cc *ConfigCache) GetConfigCount() int {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	return len(cc.cache)
}

func (cc *ConfigCache) getConfigFilePath(blockName string) string {
	return filepath.Join(cc.blocksDir, blockName+".yml")
}

// ParseConfig decodes a block configuration, applies defaults and validates
// the result.
func ParseConfig(blockName string, data []byte) (*Config, error) {
	var raw rawConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	blockConfig, err := raw.toConfig(blockName)
	if err != nil {
		return nil, err
	}

	if err := blockConfig.Validate(); err != nil {
		return nil, err
	}

	return blockConfig, nil
}

func (r *rawConfig) toConfig(blockName string) (*Config, error) {
	var errs error

	filterMode, err := related.ParseFilterMode(orDefault(r.RowFilter.ContentTypeCurrNode, string(related.FilterInclude)))
	errs = multierr.Append(errs, err)

	refTS, err := related.ParseTimestampField(orDefault(r.RowFilter.RefTS, string(related.TimestampCreated)))
	errs = multierr.Append(errs, err)

	ordering, err := related.ParseOrdering(orDefault(r.RowDisplay.Type, string(related.OrderPrev)))
	errs = multierr.Append(errs, err)

	mode := related.DisplayMode(orDefault(r.RowDisplay.Mode, string(related.ModeLinkedText)))
	if mode != related.ModeLinkedText && mode != related.ModeViewMode {
		errs = multierr.Append(errs, fmt.Errorf("invalid row display mode: %q", r.RowDisplay.Mode))
	}

	if errs != nil {
		return nil, errs
	}

	return &Config{
		Name:  blockName,
		Title: r.Title,
		RowFilter: RowFilter{
			Specific:            r.RowFilter.Specific,
			NodeTitleID:         strings.TrimSpace(r.RowFilter.NodeTitleID),
			ContentTypes:        r.RowFilter.ContentTypes,
			ContentTypesNegate:  boolOr(r.RowFilter.ContentTypesNegate, true),
			ContentTypeCurrNode: filterMode,
			RefTS:               refTS,
		},
		RowDisplay: RowDisplay{
			Type:         ordering,
			Limit:        intOr(r.RowDisplay.Limit, DefaultLimit),
			Skip:         r.RowDisplay.Skip,
			ReverseOrder: r.RowDisplay.ReverseOrder,
			Mode:         mode,
			ModeOptions: ModeOptions{
				LinkedText:       stringOr(r.RowDisplay.ModeOptions.LinkedText, DefaultLinkedText),
				LinkedTextMaxLen: intOr(r.RowDisplay.ModeOptions.LinkedTextMaxLen, DefaultLinkedTextMaxLen),
				ViewMode:         stringOr(r.RowDisplay.ModeOptions.ViewMode, related.DefaultViewMode),
				PrefixSuffixDiv:  r.RowDisplay.ModeOptions.PrefixSuffixDiv,
				Prefix:           r.RowDisplay.ModeOptions.Prefix,
				Suffix:           r.RowDisplay.ModeOptions.Suffix,
			},
			Attr:           r.RowDisplay.Attr,
			AddlCSSClasses: boolOr(r.RowDisplay.AddlCSSClasses, true),
		},
		BlockDisplay: BlockDisplay{
			Prefix:         r.BlockDisplay.Prefix,
			Suffix:         r.BlockDisplay.Suffix,
			Attr:           r.BlockDisplay.Attr,
			AddlCSSClasses: boolOr(r.BlockDisplay.AddlCSSClasses, true),
		},
	}, nil
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func boolOr(value *bool, fallback bool) bool {
	if value == nil {
		return fallback
	}
	return *value
}

func intOr(value *int, fallback int) int {
	if value == nil {
		return fallback
	}
	return *value
}

func stringOr(value *string, fallback string) string {
	if value == nil {
		return fallback
	}
	return *value
}
