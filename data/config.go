package data

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config keys.
const (
	KeyLogLevel       = "log.level"
	KeyServerEndpoint = "server.endpoint"
	KeyServerMaxDocs  = "server.max_docs"
	KeyServerTimeout  = "server.timeout"
	KeyModeKeywords   = "mode.keywords"
	KeyParserNode     = "parser.node"
	KeyParserScript   = "parser.script"
	KeyParserNodePath = "parser.node_path"
	KeyParserTimeout  = "parser.timeout"
	KeyTagsMaxDepth   = "tags.max_depth"
	KeyScanWorkers    = "scan.workers"
	KeyRenderStyle    = "render.style"
)

const (
	DefaultEndpoint      = "http://127.0.0.1:8000/askStream"
	DefaultMaxDocs       = 2
	DefaultParserTimeout = 30 * time.Second
	DefaultMaxDepth      = 10000
	DefaultRenderStyle   = "auto"
)

// DefaultModeKeywords switch a question to buffered mode.
var DefaultModeKeywords = []string{"visualize", "visualise", "flowchart", "mermaid"}

type keyKind int

const (
	kindString keyKind = iota
	kindInt
	kindDuration
	kindList
)

var knownKeys = map[string]keyKind{
	KeyLogLevel:       kindString,
	KeyServerEndpoint: kindString,
	KeyServerMaxDocs:  kindInt,
	KeyServerTimeout:  kindDuration,
	KeyModeKeywords:   kindList,
	KeyParserNode:     kindString,
	KeyParserScript:   kindString,
	KeyParserNodePath: kindString,
	KeyParserTimeout:  kindDuration,
	KeyTagsMaxDepth:   kindInt,
	KeyScanWorkers:    kindInt,
	KeyRenderStyle:    kindString,
}

// Keys returns every settable config key, sorted.
func Keys() []string {
	keys := make([]string, 0, len(knownKeys))
	for k := range knownKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SetDefaults registers the default of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyServerEndpoint, DefaultEndpoint)
	v.SetDefault(KeyServerMaxDocs, DefaultMaxDocs)
	v.SetDefault(KeyServerTimeout, "0s")
	v.SetDefault(KeyModeKeywords, DefaultModeKeywords)
	v.SetDefault(KeyParserNode, "node")
	v.SetDefault(KeyParserScript, "")
	v.SetDefault(KeyParserNodePath, "")
	v.SetDefault(KeyParserTimeout, DefaultParserTimeout.String())
	v.SetDefault(KeyTagsMaxDepth, DefaultMaxDepth)
	v.SetDefault(KeyScanWorkers, runtime.NumCPU())
	v.SetDefault(KeyRenderStyle, DefaultRenderStyle)
}

// ConfigStore provides typed access to iqcore.yaml configuration.
// It wraps viper internally and exposes only typed interfaces.
type ConfigStore struct {
	v *viper.Viper
}

// NewConfigStore creates a new ConfigStore using the existing viper configuration.
func NewConfigStore() *ConfigStore {
	return &ConfigStore{v: viper.GetViper()}
}

// NewConfigStoreWith wraps a specific viper instance.
func NewConfigStoreWith(v *viper.Viper) *ConfigStore {
	return &ConfigStore{v: v}
}

// SetConfigFile points the store at path and reads it when it exists.
func (c *ConfigStore) SetConfigFile(path string) error {
	c.v.SetConfigFile(path)
	SetDefaults(c.v)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return c.v.ReadInConfig()
}

// ConfigFileUsed returns the path to the config file being used.
func (c *ConfigStore) ConfigFileUsed() string {
	return c.v.ConfigFileUsed()
}

// GetLogLevel returns the configured logrus level name.
func (c *ConfigStore) GetLogLevel() string {
	return c.v.GetString(KeyLogLevel)
}

// GetEndpoint returns the askStream endpoint URL.
func (c *ConfigStore) GetEndpoint() string {
	if s := strings.TrimSpace(c.v.GetString(KeyServerEndpoint)); s != "" {
		return s
	}
	return DefaultEndpoint
}

// GetMaxDocs returns how many documents the server may retrieve per question.
func (c *ConfigStore) GetMaxDocs() int {
	if n := c.v.GetInt(KeyServerMaxDocs); n > 0 {
		return n
	}
	return DefaultMaxDocs
}

// GetServerTimeout returns the overall request deadline; 0 means none.
func (c *ConfigStore) GetServerTimeout() time.Duration {
	d := c.v.GetDuration(KeyServerTimeout)
	if d < 0 {
		return 0
	}
	return d
}

// GetModeKeywords returns the keywords that select buffered mode.
func (c *ConfigStore) GetModeKeywords() []string {
	var out []string
	for _, k := range c.v.GetStringSlice(KeyModeKeywords) {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	if len(out) == 0 {
		return DefaultModeKeywords
	}
	return out
}

// GetParserNode returns the node executable used to run the parser script.
func (c *ConfigStore) GetParserNode() string {
	if s := c.v.GetString(KeyParserNode); s != "" {
		return s
	}
	return "node"
}

// GetParserScript returns a custom parser script path, or "" for the bundled one.
func (c *ConfigStore) GetParserScript() string {
	return c.v.GetString(KeyParserScript)
}

// GetParserNodePath returns the NODE_PATH handed to the parser.
func (c *ConfigStore) GetParserNodePath() string {
	return c.v.GetString(KeyParserNodePath)
}

// GetParserTimeout returns the per-file parse deadline.
func (c *ConfigStore) GetParserTimeout() time.Duration {
	if d := c.v.GetDuration(KeyParserTimeout); d > 0 {
		return d
	}
	return DefaultParserTimeout
}

// GetMaxDepth returns the syntax tree depth ceiling.
func (c *ConfigStore) GetMaxDepth() int {
	if n := c.v.GetInt(KeyTagsMaxDepth); n > 0 {
		return n
	}
	return DefaultMaxDepth
}

// GetScanWorkers returns the number of files parsed concurrently.
func (c *ConfigStore) GetScanWorkers() int {
	if n := c.v.GetInt(KeyScanWorkers); n > 0 {
		return n
	}
	return runtime.NumCPU()
}

// GetRenderStyle returns the glamour style for terminal output.
func (c *ConfigStore) GetRenderStyle() string {
	if s := c.v.GetString(KeyRenderStyle); s != "" {
		return s
	}
	return DefaultRenderStyle
}

// Get returns the raw value of key.
func (c *ConfigStore) Get(key string) interface{} {
	return c.v.Get(key)
}

// Set validates value for a known key and stores it without saving.
// Lists are comma separated.
func (c *ConfigStore) Set(key, value string) error {
	key = strings.ToLower(strings.TrimSpace(key))
	kind, ok := knownKeys[key]
	if !ok {
		return fmt.Errorf("unknown config key '%s'", key)
	}

	switch kind {
	case kindInt:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s expects an integer: %w", key, err)
		}
		if n < 0 {
			return fmt.Errorf("%s must not be negative", key)
		}
		c.v.Set(key, n)
	case kindDuration:
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("%s expects a duration like 30s: %w", key, err)
		}
		c.v.Set(key, d.String())
	case kindList:
		var items []string
		for _, item := range strings.Split(value, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		c.v.Set(key, items)
	default:
		c.v.Set(key, value)
	}
	return nil
}

// AllSettings returns the merged settings, defaults included.
func (c *ConfigStore) AllSettings() map[string]interface{} {
	return c.v.AllSettings()
}

// Save persists the configuration to disk.
func (c *ConfigStore) Save() error {
	configFile := c.v.ConfigFileUsed()
	if configFile == "" {
		configFile = GetConfigFilePath()
		c.v.SetConfigFile(configFile)
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(configFile), 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return c.v.WriteConfigAs(configFile)
}

// Export saves the current configuration to the specified path.
func (c *ConfigStore) Export(path string) error {
	// A separate viper keeps the current config file path untouched
	exportViper := viper.New()
	for k, v := range c.v.AllSettings() {
		exportViper.Set(k, v)
	}
	exportViper.SetConfigFile(path)
	return exportViper.WriteConfigAs(path)
}
