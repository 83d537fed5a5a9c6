// Package vault implements the envvar.Provider interface backed by
// HashiCorp Vault's KV secrets engine.
package vault

import (
	"sync"

	"github.com/hashicorp/vault/api"

	"github.com/agenda-tarefas/agenda-api/internal"
)

// Provider reads secure configuration values from a single Vault path.
type Provider struct {
	client *api.Client
	path   string

	mu      sync.Mutex
	secrets map[string]string
}

// New instantiates a Vault client using the received token and address, the
// secrets themselves are read lazily on first Get.
func New(token, address, path string) (*Provider, error) {
	config := api.DefaultConfig()
	config.Address = address

	client, err := api.NewClient(config)
	if err != nil {
		return nil, internal.WrapErrorf(err, internal.ErrorCodeUnknown, "api.NewClient")
	}

	client.SetToken(token)

	return &Provider{
		client: client,
		path:   path,
	}, nil
}

// Get returns the secret stored under key.
func (p *Provider) Get(key string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.secrets == nil {
		if err := p.load(); err != nil {
			return "", err
		}
	}

	res, ok := p.secrets[key]
	if !ok {
		return "", internal.NewErrorf(internal.ErrorCodeNotFound, "secret %s not found", key)
	}

	return res, nil
}

func (p *Provider) load() error {
	secret, err := p.client.Logical().Read(p.path)
	if err != nil {
		return internal.WrapErrorf(err, internal.ErrorCodeUnknown, "logical.Read %s", p.path)
	}

	if secret == nil {
		return internal.NewErrorf(internal.ErrorCodeNotFound, "no secrets at %s", p.path)
	}

	// KV v2 nests the payload under "data", KV v1 stores it flat.
	data := secret.Data
	if nested, ok := secret.Data["data"].(map[string]interface{}); ok {
		data = nested
	}

	p.secrets = make(map[string]string, len(data))

	for k, v := range data {
		if s, ok := v.(string); ok {
			p.secrets[k] = s
		}
	}

	return nil
}
