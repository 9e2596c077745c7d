package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"loopso-bridge/pkg/types"
)

// DesignatedWalletLabel is the wallet label that signs through the platform-injected provider
const DesignatedWalletLabel = "Universal Profiles"

// Config holds the application configuration
type Config struct {
	LogLevel      string             `mapstructure:"log_level"`
	Wallet        WalletConfig       `mapstructure:"wallet"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	Kafka         KafkaConfig        `mapstructure:"kafka"`
	Networks      []types.Network    `mapstructure:"networks"`
	Tokens        []types.Token      `mapstructure:"tokens"`
}

// WalletConfig describes the connected wallet session
type WalletConfig struct {
	Label            string `mapstructure:"label"`
	Address          string `mapstructure:"address"`
	PrivateKey       string `mapstructure:"private_key"`
	InjectedEndpoint string `mapstructure:"injected_endpoint"`
}

// NotificationConfig controls how submission progress is reported
type NotificationConfig struct {
	Duration       time.Duration `mapstructure:"duration"`
	FollowUpDelay  time.Duration `mapstructure:"follow_up_delay"`
	WatchReleases  bool          `mapstructure:"watch_releases"`
	ReleaseTimeout time.Duration `mapstructure:"release_timeout"`
	PollInterval   time.Duration `mapstructure:"poll_interval"`
}

// KafkaConfig enables publishing notifications to a Kafka topic
type KafkaConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Broker  string `mapstructure:"broker"`
	Topic   string `mapstructure:"topic"`
}

// Load reads configuration from the config file and environment variables.
// An empty path searches $HOME and the working directory for .loopso-bridge.yaml.
func Load(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(".loopso-bridge")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME")
		v.AddConfigPath(".")
	}

	// Set default values
	v.SetDefault("log_level", "info")
	v.SetDefault("wallet.label", "Private Key")
	v.SetDefault("notifications.duration", 8*time.Second)
	v.SetDefault("notifications.follow_up_delay", 10*time.Second)
	v.SetDefault("notifications.watch_releases", false)
	v.SetDefault("notifications.release_timeout", 30*time.Minute)
	v.SetDefault("notifications.poll_interval", 15*time.Second)
	v.SetDefault("kafka.broker", "localhost:9092")
	v.SetDefault("kafka.topic", "loopso-bridge-notifications")

	// Read from environment variables
	v.SetEnvPrefix("LOOPSO_BRIDGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range []string{"wallet.private_key", "wallet.address", "wallet.injected_endpoint"} {
		_ = v.BindEnv(key)
	}

	if err := v.ReadInConfig(); err != nil {
		// An explicit path must exist, the search locations are optional
		if _, notFound := err.(viper.ConfigFileNotFoundError); path != "" || !notFound {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	applyTokenDefaults(v.Get("tokens"), cfg.Tokens)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the network and token catalogs for consistency
func (c *Config) Validate() error {
	if len(c.Networks) == 0 {
		return fmt.Errorf("no networks configured. Add a networks section to .loopso-bridge.yaml")
	}

	seenKeys := make(map[string]bool)
	seenChains := make(map[int64]bool)
	for _, n := range c.Networks {
		key := strings.ToLower(n.Key)
		if key == "" {
			return fmt.Errorf("network %q has no key", n.Name)
		}
		if n.ChainID <= 0 {
			return fmt.Errorf("network %s has no chain id", n.Key)
		}
		if seenKeys[key] {
			return fmt.Errorf("network key %s is configured twice", n.Key)
		}
		if seenChains[n.ChainID] {
			return fmt.Errorf("chain id %d is configured twice", n.ChainID)
		}
		seenKeys[key] = true
		seenChains[n.ChainID] = true
	}

	for _, t := range c.Tokens {
		if !seenKeys[strings.ToLower(t.Network)] {
			return fmt.Errorf("token %s references unknown network %s", t.Symbol, t.Network)
		}
		if t.Decimals < 0 {
			return fmt.Errorf("token %s on %s has negative decimals", t.Symbol, t.Network)
		}
		if !t.IsNative && t.Address == "" {
			return fmt.Errorf("token %s on %s has no contract address", t.Symbol, t.Network)
		}
	}

	return nil
}

// NetworkByKey finds a network by its key or display name
func (c *Config) NetworkByKey(key string) (*types.Network, error) {
	for i := range c.Networks {
		n := &c.Networks[i]
		if strings.EqualFold(n.Key, key) || strings.EqualFold(n.Name, key) {
			return n, nil
		}
	}
	return nil, fmt.Errorf("network '%s' not configured", key)
}

// NetworkByChainID finds a network by chain id
func (c *Config) NetworkByChainID(chainID int64) (*types.Network, bool) {
	for i := range c.Networks {
		if c.Networks[i].ChainID == chainID {
			return &c.Networks[i], true
		}
	}
	return nil, false
}

// TokensOn returns the tokens listed on a network
func (c *Config) TokensOn(network *types.Network) []types.Token {
	tokens := make([]types.Token, 0)
	for _, t := range c.Tokens {
		if t.BelongsTo(network) {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

// FindToken searches for a token by symbol on a specific network
func (c *Config) FindToken(symbol string, network *types.Network) (*types.Token, error) {
	for i := range c.Tokens {
		t := &c.Tokens[i]
		if strings.EqualFold(t.Symbol, symbol) && t.BelongsTo(network) {
			return t, nil
		}
	}
	return nil, fmt.Errorf("token '%s' not found on network '%s'", symbol, network.Key)
}

// applyTokenDefaults sets DefaultDecimals on tokens whose entry has no
// decimals key. An explicit 0 is kept.
func applyTokenDefaults(raw interface{}, tokens []types.Token) {
	entries, _ := raw.([]interface{})
	for i := range tokens {
		if i < len(entries) && hasKey(entries[i], "decimals") {
			continue
		}
		tokens[i].Decimals = types.DefaultDecimals
	}
}

func hasKey(entry interface{}, key string) bool {
	switch m := entry.(type) {
	case map[string]interface{}:
		for k := range m {
			if strings.EqualFold(k, key) {
				return true
			}
		}
	case map[interface{}]interface{}:
		for k := range m {
			if s, ok := k.(string); ok && strings.EqualFold(s, key) {
				return true
			}
		}
	}
	return false
}
