package data

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func newTestStore(t *testing.T) *ConfigStore {
	t.Helper()
	v := viper.New()
	SetDefaults(v)
	return NewConfigStoreWith(v)
}

func TestConfigDefaults(t *testing.T) {
	c := newTestStore(t)

	if got := c.GetEndpoint(); got != DefaultEndpoint {
		t.Errorf("GetEndpoint() = %q, want %q", got, DefaultEndpoint)
	}
	if got := c.GetMaxDocs(); got != 2 {
		t.Errorf("GetMaxDocs() = %d, want 2", got)
	}
	if got := c.GetServerTimeout(); got != 0 {
		t.Errorf("GetServerTimeout() = %v, want 0", got)
	}
	if got := c.GetModeKeywords(); !reflect.DeepEqual(got, DefaultModeKeywords) {
		t.Errorf("GetModeKeywords() = %v, want %v", got, DefaultModeKeywords)
	}
	if got := c.GetParserTimeout(); got != 30*time.Second {
		t.Errorf("GetParserTimeout() = %v, want 30s", got)
	}
	if got := c.GetMaxDepth(); got != 10000 {
		t.Errorf("GetMaxDepth() = %d, want 10000", got)
	}
	if got := c.GetScanWorkers(); got < 1 {
		t.Errorf("GetScanWorkers() = %d, want >= 1", got)
	}
	if got := c.GetRenderStyle(); got != "auto" {
		t.Errorf("GetRenderStyle() = %q, want auto", got)
	}
	if got := c.GetLogLevel(); got != "info" {
		t.Errorf("GetLogLevel() = %q, want info", got)
	}
}

func TestConfigSet(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		wantErr bool
		check   func(c *ConfigStore) bool
	}{
		{KeyServerMaxDocs, "5", false, func(c *ConfigStore) bool { return c.GetMaxDocs() == 5 }},
		{KeyServerMaxDocs, "many", true, nil},
		{KeyServerMaxDocs, "-1", true, nil},
		{KeyServerTimeout, "1m30s", false, func(c *ConfigStore) bool { return c.GetServerTimeout() == 90*time.Second }},
		{KeyParserTimeout, "soon", true, nil},
		{KeyModeKeywords, "diagram, chart,,", false, func(c *ConfigStore) bool {
			return reflect.DeepEqual(c.GetModeKeywords(), []string{"diagram", "chart"})
		}},
		{"SERVER.ENDPOINT", "http://example.test/ask", false, func(c *ConfigStore) bool { return c.GetEndpoint() == "http://example.test/ask" }},
		{"no.such.key", "x", true, nil},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			c := newTestStore(t)
			err := c.Set(tt.key, tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Set(%q, %q) error = %v, wantErr %v", tt.key, tt.value, err, tt.wantErr)
			}
			if tt.check != nil && !tt.check(c) {
				t.Errorf("Set(%q, %q) did not take effect", tt.key, tt.value)
			}
		})
	}
}

func TestConfigSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "iqcore.yaml")

	c := NewConfigStoreWith(viper.New())
	if err := c.SetConfigFile(path); err != nil {
		t.Fatalf("SetConfigFile() on missing file error = %v", err)
	}
	if err := c.Set(KeyRenderStyle, "dark"); err != nil {
		t.Fatal(err)
	}
	if err := c.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not written: %v", err)
	}

	reloaded := NewConfigStoreWith(viper.New())
	if err := reloaded.SetConfigFile(path); err != nil {
		t.Fatalf("SetConfigFile() error = %v", err)
	}
	if got := reloaded.GetRenderStyle(); got != "dark" {
		t.Errorf("GetRenderStyle() after reload = %q, want dark", got)
	}
	if got := reloaded.ConfigFileUsed(); got != path {
		t.Errorf("ConfigFileUsed() = %q, want %q", got, path)
	}
}

func TestKeysSorted(t *testing.T) {
	keys := Keys()
	if len(keys) != len(knownKeys) {
		t.Fatalf("Keys() returned %d keys, want %d", len(keys), len(knownKeys))
	}
	for i := 1; i < len(keys); i++ {
		if keys[i-1] > keys[i] {
			t.Errorf("Keys() not sorted at %d: %q > %q", i, keys[i-1], keys[i])
		}
	}
}
