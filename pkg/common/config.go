package common

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Duration decodes Go duration strings ("90s", "2m") from json, yaml and toml.
type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// SupplySettings tunes the supply command. Empty fields fall back to built-in defaults.
type SupplySettings struct {
	PriorityFeeGwei string   `json:"priority_fee_gwei,omitempty" yaml:"priority_fee_gwei,omitempty" toml:"priority_fee_gwei,omitempty"`
	ReceiptTimeout  Duration `json:"receipt_timeout,omitempty" yaml:"receipt_timeout,omitempty" toml:"receipt_timeout,omitempty"`
	PollInterval    Duration `json:"poll_interval,omitempty" yaml:"poll_interval,omitempty" toml:"poll_interval,omitempty"`
	RPCRetries      uint     `json:"rpc_retries,omitempty" yaml:"rpc_retries,omitempty" toml:"rpc_retries,omitempty"`
	NoncePolicy     string   `json:"nonce_policy,omitempty" yaml:"nonce_policy,omitempty" toml:"nonce_policy,omitempty"`
	TxRate          float64  `json:"tx_rate,omitempty" yaml:"tx_rate,omitempty" toml:"tx_rate,omitempty"`
}

// Config is the on-disk tool configuration. "network" is a list of single-entry
// name -> RPC URL maps, the first match wins.
type Config struct {
	SupplierPrivateKey string              `json:"supplier_private_key,omitempty" yaml:"supplier_private_key,omitempty" toml:"supplier_private_key,omitempty"`
	Networks           []map[string]string `json:"network" yaml:"network" toml:"network"`
	Supply             SupplySettings      `json:"supply,omitempty" yaml:"supply,omitempty" toml:"supply,omitempty"`
}

// ConfigFormat is derived from the file extension.
type ConfigFormat string

const (
	FormatJSON ConfigFormat = "json"
	FormatYAML ConfigFormat = "yaml"
	FormatTOML ConfigFormat = "toml"
)

func FormatForPath(path string) (ConfigFormat, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("unsupported config format %q (use .json, .yaml or .toml)", filepath.Ext(path))
	}
}

// LoadConfig reads and decodes the config file at path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}
	cfg, err := ParseConfig(data, format)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

func ParseConfig(data []byte, format ConfigFormat) (*Config, error) {
	var cfg Config
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return nil, err
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
	case FormatTOML:
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q", format)
	}
	return &cfg, nil
}

// NetworkNames lists configured network names in file order.
func (c *Config) NetworkNames() []string {
	var names []string
	seen := make(map[string]bool)
	for _, entry := range c.Networks {
		keys := make([]string, 0, len(entry))
		for name := range entry {
			keys = append(keys, name)
		}
		sort.Strings(keys)
		for _, name := range keys {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	return names
}

// RPCForNetwork resolves a network name to its RPC URL.
func (c *Config) RPCForNetwork(name string) (string, error) {
	for _, entry := range c.Networks {
		if url, ok := entry[name]; ok {
			return url, nil
		}
	}
	return "", fmt.Errorf("network %q not found in config (available: %s)", name, strings.Join(c.NetworkNames(), ", "))
}

// EncodeConfig renders cfg in the given format.
func EncodeConfig(cfg *Config, format ConfigFormat) ([]byte, error) {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case FormatYAML:
		return yaml.Marshal(cfg)
	case FormatTOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unsupported config format %q", format)
	}
}
