package common

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"

	"evm-tools/pkg/chain"
)

// ValidationError represents a specific validation error with a field and message
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationResult contains the results of validating a config
type ValidationResult struct {
	Valid  bool
	Errors []ValidationError
}

func (r *ValidationResult) add(field, format string, args ...any) {
	r.Valid = false
	r.Errors = append(r.Errors, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
}

// Err joins all validation errors into one, or returns nil.
func (r ValidationResult) Err() error {
	if r.Valid {
		return nil
	}
	msgs := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		msgs = append(msgs, e.Error())
	}
	return fmt.Errorf("invalid config:\n  - %s", strings.Join(msgs, "\n  - "))
}

var rpcSchemes = map[string]bool{"http": true, "https": true, "ws": true, "wss": true}

// ValidateConfig checks networks, the optional supplier key and supply settings.
func ValidateConfig(config *Config) ValidationResult {
	result := ValidationResult{
		Valid:  true,
		Errors: []ValidationError{},
	}

	if len(config.Networks) == 0 {
		result.add("network", "At least one network must be configured")
	}
	for i, entry := range config.Networks {
		if len(entry) == 0 {
			result.add(fmt.Sprintf("network[%d]", i), "Network entry is empty")
		}
		for name, raw := range entry {
			field := fmt.Sprintf("network[%d].%s", i, name)
			if strings.TrimSpace(name) == "" {
				result.add(field, "Network name cannot be empty")
			}
			u, err := url.Parse(raw)
			if err != nil || u.Host == "" || !rpcSchemes[u.Scheme] {
				result.add(field, "RPC URL %q must be an http(s) or ws(s) URL", raw)
			}
		}
	}

	if key := strings.TrimSpace(config.SupplierPrivateKey); key != "" {
		if _, err := crypto.HexToECDSA(strings.TrimPrefix(key, "0x")); err != nil {
			result.add("supplier_private_key", "Invalid private key: must be 32 bytes of hex")
		}
	}

	validateSupplySettings(&config.Supply, &result)

	return result
}

func validateSupplySettings(s *SupplySettings, result *ValidationResult) {
	if s.PriorityFeeGwei != "" {
		fee, err := chain.ParseGwei(s.PriorityFeeGwei)
		if err != nil || fee.Sign() <= 0 {
			result.add("supply.priority_fee_gwei", "Priority fee must be a positive decimal number of gwei")
		}
	}
	if s.ReceiptTimeout.Duration < 0 {
		result.add("supply.receipt_timeout", "Receipt timeout cannot be negative")
	}
	if s.PollInterval.Duration < 0 {
		result.add("supply.poll_interval", "Poll interval cannot be negative")
	}
	switch s.NoncePolicy {
	case "", "consume", "reuse":
	default:
		result.add("supply.nonce_policy", "Nonce policy must be 'consume' or 'reuse', got %q", s.NoncePolicy)
	}
	if s.TxRate < 0 {
		result.add("supply.tx_rate", "Transaction rate cannot be negative")
	}
}
