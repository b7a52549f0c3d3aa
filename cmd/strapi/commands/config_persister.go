package commands

import (
	"sync"

	"github.com/fivetwenty-io/strapi-client/internal/auth"
)

// ConfigPersister implements auth.TokenPersister on top of the CLI
// configuration file.
type ConfigPersister struct {
	mutex sync.Mutex
}

// NewConfigPersister creates a new config persister.
func NewConfigPersister() *ConfigPersister {
	return &ConfigPersister{}
}

// SaveToken stores token as the configured bearer token for baseURL.
func (p *ConfigPersister) SaveToken(baseURL string, token *auth.Token) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	config, err := loadConfig()
	if err != nil {
		return err
	}

	config.BaseURL = baseURL
	config.Token = token.AccessToken
	config.TokenExpiresAt = nil

	if !token.ExpiresAt.IsZero() {
		expiresAt := token.ExpiresAt
		config.TokenExpiresAt = &expiresAt
	}

	return saveConfig(config)
}
