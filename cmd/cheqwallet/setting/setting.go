package setting

import (
	"os"

	"github.com/cheqd/wallet-core/types"
	"github.com/cheqd/wallet-core/utils"
)

var Config *config
var HomePath string

const VERSION = "v0.1.0"

type grpcConfig struct {
	GrpcServer string `toml:"grpc_server" comment:"gRPC address of a cheqd node, used for gas simulation. Eg: \"grpc.cheqd.net:443\". Leave empty to disable"`
	Insecure   bool   `toml:"insecure"`
}

type nodeConfig struct {
	RpcEndpoint string     `toml:"rpc_endpoint" comment:"cometbft RPC endpoint of a cheqd node Eg: \"https://rpc.cheqd.net:443\""`
	Grpc        grpcConfig `toml:"grpc"`
	RateLimit   float64    `toml:"rate_limit" comment:"Maximum RPC requests per second. 0 disables throttling"`
	RateBurst   int        `toml:"rate_burst"`
}

type transactionsConfig struct {
	GasPrice      string  `toml:"gas_price" comment:"Price of one unit of gas Eg: \"50ncheq\""`
	GasAdjustment float64 `toml:"gas_adjustment"`
	DefaultGas    uint64  `toml:"default_gas" comment:"Gas limit used when simulation is not available"`
}

type keysConfig struct {
	KeystorePath string `toml:"keystore_path" comment:"Web3 keystore file of the default account, relative to the home path"`
	HdPath       string `toml:"hd_path"`
	Prefix       string `toml:"prefix"`
}

type logConfig struct {
	Level string `toml:"level" comment:"One of detail, debug, info, warn, error"`
}

type monitorConfig struct {
	MetricsPort string `toml:"metrics_port" comment:"Port serving prometheus metrics. Leave empty to disable"`
}

type config struct {
	ChainId      string             `toml:"chain_id" comment:"Leave empty to read the chain id from the node"`
	Node         nodeConfig         `toml:"node"`
	Transactions transactionsConfig `toml:"transactions"`
	Keys         keysConfig         `toml:"keys"`
	Log          logConfig          `toml:"log"`
	Monitor      monitorConfig      `toml:"monitor"`
}

func LoadConfig(path string) error {
	Config = new(config)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		utils.Log("The config at location", path, "does not exist")
		return err
	}

	err := utils.LoadConfigFile(Config, path)
	if err != nil {
		return err
	}
	Config.applyDefaults()
	return nil
}

func GenDefaultConfig(path string) error {
	Config = defaultConfig()
	return utils.WriteTomlConfig(Config, path)
}

func defaultConfig() *config {
	return &config{
		ChainId: "",
		Node: nodeConfig{
			RpcEndpoint: "http://127.0.0.1:26657",
			Grpc: grpcConfig{
				GrpcServer: "127.0.0.1:9090",
				Insecure:   true,
			},
			RateLimit: 10,
			RateBurst: 5,
		},
		Transactions: transactionsConfig{
			GasPrice:      "50" + types.BaseDenom,
			GasAdjustment: 1.3,
			DefaultGas:    200000,
		},
		Keys: keysConfig{
			KeystorePath: "keys/wallet.json",
			HdPath:       types.DefaultHDPath,
			Prefix:       types.CheqdBech32Prefix,
		},
		Log: logConfig{
			Level: "info",
		},
	}
}

func (c *config) applyDefaults() {
	def := defaultConfig()
	if c.Transactions.GasPrice == "" {
		c.Transactions.GasPrice = def.Transactions.GasPrice
	}
	if c.Transactions.GasAdjustment <= 0 {
		c.Transactions.GasAdjustment = def.Transactions.GasAdjustment
	}
	if c.Transactions.DefaultGas == 0 {
		c.Transactions.DefaultGas = def.Transactions.DefaultGas
	}
	if c.Keys.HdPath == "" {
		c.Keys.HdPath = def.Keys.HdPath
	}
	if c.Keys.Prefix == "" {
		c.Keys.Prefix = def.Keys.Prefix
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
}
