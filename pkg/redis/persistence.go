package redis

import (
	"context"
	"errors"
	"fmt"
)

const keyPrefix = "community-compass"

// Persistence stores one client's voice settings under its own key space.
// It satisfies voice.Persistence.
type Persistence struct {
	client    IRedis
	namespace string
}

func NewPersistence(client IRedis, clientID string) *Persistence {
	return &Persistence{
		client:    client,
		namespace: fmt.Sprintf("%s:%s:", keyPrefix, clientID),
	}
}

func (p *Persistence) key(key string) string {
	return p.namespace + key
}

func (p *Persistence) Read(ctx context.Context, key string) (string, bool, error) {
	value, err := p.client.Get(ctx, p.key(key))
	if errors.Is(err, ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read %s: %w", key, err)
	}
	return value, true, nil
}

func (p *Persistence) Write(ctx context.Context, key, value string) error {
	if err := p.client.Set(ctx, p.key(key), value, 0); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func (p *Persistence) Remove(ctx context.Context, key string) error {
	if err := p.client.Delete(ctx, p.key(key)); err != nil {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}
