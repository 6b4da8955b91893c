package vault

import (
	"fmt"

	"github.com/hashicorp/vault/api"

	"github.com/seu-repo/evstation/pkg/config"
)

type SecretManager struct {
	client *api.Client
	path   string
}

func NewSecretManager(cfg config.VaultConfig) (*SecretManager, error) {
	vc := api.DefaultConfig()
	if cfg.Address != "" {
		vc.Address = cfg.Address
	}

	client, err := api.NewClient(vc)
	if err != nil {
		return nil, fmt.Errorf("vault client: %w", err)
	}
	client.SetToken(cfg.Token)

	return &SecretManager{client: client, path: cfg.Path}, nil
}

// read returns the data map of the KV v2 secret at the configured path.
func (sm *SecretManager) read() (map[string]interface{}, error) {
	secret, err := sm.client.Logical().Read(sm.path)
	if err != nil {
		return nil, fmt.Errorf("vault read %s: %w", sm.path, err)
	}
	if secret == nil || secret.Data == nil {
		return nil, fmt.Errorf("vault secret %s not found", sm.path)
	}
	data, ok := secret.Data["data"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("vault secret %s is not a kv v2 secret", sm.path)
	}
	return data, nil
}

// Overlay replaces the database URL and JWT secret in cfg with the values stored in Vault.
// Missing keys leave the existing values in place.
func (sm *SecretManager) Overlay(cfg *config.Config) error {
	data, err := sm.read()
	if err != nil {
		return err
	}
	if v, ok := data["database_url"].(string); ok && v != "" {
		cfg.Database.URL = v
	}
	if v, ok := data["jwt_secret"].(string); ok && v != "" {
		cfg.JWT.Secret = v
	}
	if v, ok := data["sendgrid_api_key"].(string); ok && v != "" {
		cfg.Notification.Email.APIKey = v
	}
	return nil
}
