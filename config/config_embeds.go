package config

import _ "embed"

// DefaultConfigYaml is written by 'evm-tools config init'.
//
//go:embed default.config.yaml
var DefaultConfigYaml string
