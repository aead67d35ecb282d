package chain

import (
	"fmt"
	"math/big"
	"strings"
)

const (
	EtherDecimals = 18
	GweiDecimals  = 9
)

var (
	WeiPerEther = new(big.Int).Exp(big.NewInt(10), big.NewInt(EtherDecimals), nil)
	WeiPerGwei  = big.NewInt(1_000_000_000)
)

// ParseUnits converts a decimal string into an integer amount scaled by 10^decimals.
// Fractional digits beyond the unit's precision are rejected rather than truncated.
func ParseUnits(s string, decimals int) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty amount")
	}

	neg := false
	if s[0] == '+' || s[0] == '-' {
		neg = s[0] == '-'
		s = s[1:]
	}

	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" && frac == "" {
		return nil, fmt.Errorf("invalid amount %q", s)
	}
	if !isDigits(whole) || !isDigits(frac) {
		return nil, fmt.Errorf("invalid amount %q", s)
	}
	if len(frac) > decimals {
		return nil, fmt.Errorf("amount %q has more than %d decimal places", s, decimals)
	}

	digits := whole + frac + strings.Repeat("0", decimals-len(frac))
	v, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return nil, fmt.Errorf("invalid amount %q", s)
	}
	if neg {
		v.Neg(v)
	}
	return v, nil
}

// ParseEther parses a decimal ETH amount into wei.
func ParseEther(s string) (*big.Int, error) {
	return ParseUnits(s, EtherDecimals)
}

// ParseGwei parses a decimal gwei amount into wei.
func ParseGwei(s string) (*big.Int, error) {
	return ParseUnits(s, GweiDecimals)
}

// FormatUnits renders v / 10^decimals with trailing zeros trimmed.
func FormatUnits(v *big.Int, decimals int) string {
	if v == nil {
		return "0"
	}
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	r := new(big.Rat).SetFrac(new(big.Int).Set(v), scale)
	s := r.FloatString(decimals)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	}
	return s
}

func FormatEther(v *big.Int) string {
	return FormatUnits(v, EtherDecimals)
}

func FormatGwei(v *big.Int) string {
	return FormatUnits(v, GweiDecimals)
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
