package credential

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sales793/torenius-timber/internal/xero"
)

// Storage key names within the store's namespace.
const (
	tokensKey = "xero_tokens"
	configKey = "xero_config"
)

// kv is the minimal byte-level contract shared by the MySQL and in-memory
// stores. get returns (nil, nil) when the key is absent.
type kv interface {
	get(ctx context.Context, key string) ([]byte, error)
	set(ctx context.Context, key string, value []byte) error
	delete(ctx context.Context, key string) error
}

func getTokens(ctx context.Context, s kv) (*xero.TokenSet, error) {
	data, err := s.get(ctx, tokensKey)
	if err != nil || data == nil {
		return nil, err
	}

	var tokens xero.TokenSet
	if err := json.Unmarshal(data, &tokens); err != nil {
		return nil, fmt.Errorf("failed to decode stored tokens: %w", err)
	}
	return &tokens, nil
}

func saveTokens(ctx context.Context, s kv, tokens *xero.TokenSet) error {
	if tokens == nil {
		return fmt.Errorf("tokens cannot be nil")
	}

	data, err := json.Marshal(tokens)
	if err != nil {
		return fmt.Errorf("failed to encode tokens: %w", err)
	}
	return s.set(ctx, tokensKey, data)
}

func getConfig(ctx context.Context, s kv) (*xero.OrgConfig, error) {
	data, err := s.get(ctx, configKey)
	if err != nil || data == nil {
		return nil, err
	}

	var config xero.OrgConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to decode stored config: %w", err)
	}
	return &config, nil
}

func saveConfig(ctx context.Context, s kv, config *xero.OrgConfig) error {
	if config == nil {
		return fmt.Errorf("config cannot be nil")
	}

	data, err := json.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return s.set(ctx, configKey, data)
}

func clearAll(ctx context.Context, s kv) error {
	if err := s.delete(ctx, tokensKey); err != nil {
		return err
	}
	return s.delete(ctx, configKey)
}
