package common

const (
	DefaultConfigPath  = "./config.json"
	DefaultNetwork     = "arbitrum-sepolia"
	DefaultWalletsPath = "./wallets/wallets_to_supply.txt"
	DefaultWalletsDir  = "./wallets"
)

// Environment variables read by the CLI (a .env file in the working directory is loaded first).
const (
	EnvSupplierPrivateKey = "SUPPLIER_PRIVATE_KEY"
	EnvRPCURL             = "RPC_URL"
	EnvKeystorePassword   = "KEYSTORE_PASSWORD"
	EnvConfigPath         = "EVM_TOOLS_CONFIG"
	EnvNetwork            = "EVM_TOOLS_NETWORK"
)
