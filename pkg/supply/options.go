package supply

import (
	"fmt"
	"math/big"
	"time"

	"evm-tools/pkg/chain"
)

// NoncePolicy decides what happens to a nonce whose transaction the endpoint rejected.
type NoncePolicy string

const (
	// NonceConsume advances the counter after every submission attempt.
	NonceConsume NoncePolicy = "consume"
	// NonceReuse hands a rejected submission's nonce to the next recipient.
	NonceReuse NoncePolicy = "reuse"
)

func ParseNoncePolicy(s string) (NoncePolicy, error) {
	switch NoncePolicy(s) {
	case "", NonceConsume:
		return NonceConsume, nil
	case NonceReuse:
		return NonceReuse, nil
	default:
		return "", fmt.Errorf("unknown nonce policy %q (want %q or %q)", s, NonceConsume, NonceReuse)
	}
}

const (
	DefaultReceiptTimeout = 2 * time.Minute
	DefaultPollInterval   = 2 * time.Second
	DefaultRPCRetries     = 3
	DefaultRetryDelay     = 500 * time.Millisecond
)

// DefaultPriorityFee is the fixed tip added on top of the base fee: 1 gwei.
var DefaultPriorityFee = new(big.Int).Set(chain.WeiPerGwei)

// Options tunes fee estimation and dispatch. Zero values fall back to the defaults above.
type Options struct {
	PriorityFee    *big.Int
	ReceiptTimeout time.Duration
	PollInterval   time.Duration
	RPCRetries     uint
	RetryDelay     time.Duration
	DialTimeout    time.Duration
	NoncePolicy    NoncePolicy
	// TxRate caps submissions per second. Zero disables pacing.
	TxRate float64
}

func DefaultOptions() Options {
	return Options{}.withDefaults()
}

func (o Options) withDefaults() Options {
	if o.PriorityFee == nil {
		o.PriorityFee = new(big.Int).Set(DefaultPriorityFee)
	}
	if o.ReceiptTimeout <= 0 {
		o.ReceiptTimeout = DefaultReceiptTimeout
	}
	if o.PollInterval <= 0 {
		o.PollInterval = DefaultPollInterval
	}
	if o.RPCRetries == 0 {
		o.RPCRetries = DefaultRPCRetries
	}
	if o.RetryDelay <= 0 {
		o.RetryDelay = DefaultRetryDelay
	}
	if o.DialTimeout <= 0 {
		o.DialTimeout = chain.DefaultDialTimeout
	}
	if o.NoncePolicy == "" {
		o.NoncePolicy = NonceConsume
	}
	return o
}
