package voice

import (
	"context"
	"fmt"
	"strings"
	"sync"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

const CustomizationsKey = "voice-command-customizations"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Persistence stores the customization mapping as one opaque string.
type Persistence interface {
	Read(ctx context.Context, key string) (string, bool, error)
	Write(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

type MemoryPersistence struct {
	mu     sync.Mutex
	values map[string]string
}

func NewMemoryPersistence() *MemoryPersistence {
	return &MemoryPersistence{values: make(map[string]string)}
}

func (m *MemoryPersistence) Read(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.values[key]
	return value, ok, nil
}

func (m *MemoryPersistence) Write(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MemoryPersistence) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

type Customizations struct {
	mu          sync.Mutex
	store       Persistence
	key         string
	phrases     map[string][]string
	subscribers map[int]func(map[string][]string)
	nextSub     int
	log         *logrus.Entry
}

func NewCustomizations(store Persistence, log *logrus.Entry) *Customizations {
	if store == nil {
		store = NewMemoryPersistence()
	}
	return &Customizations{
		store:       store,
		key:         CustomizationsKey,
		phrases:     make(map[string][]string),
		subscribers: make(map[int]func(map[string][]string)),
		log:         orDiscard(log),
	}
}

// Load replaces the in-memory mapping with the persisted one. Unreadable or
// malformed data is logged and leaves the mapping empty.
func (c *Customizations) Load(ctx context.Context) map[string][]string {
	loaded := make(map[string][]string)

	raw, ok, err := c.store.Read(ctx, c.key)
	switch {
	case err != nil:
		c.log.WithFields(logrus.Fields{
			"key":   c.key,
			"error": err.Error(),
		}).Warn("Failed to read voice command customizations")
	case ok && raw != "":
		if err := json.Unmarshal([]byte(raw), &loaded); err != nil {
			c.log.WithFields(logrus.Fields{
				"key":   c.key,
				"error": err.Error(),
			}).Warn("Malformed voice command customizations, using defaults")
			loaded = make(map[string][]string)
		}
	}

	for path, phrases := range loaded {
		if len(phrases) == 0 {
			delete(loaded, path)
		}
	}

	c.mu.Lock()
	c.phrases = loaded
	snapshot := c.snapshotLocked()
	c.mu.Unlock()

	c.notify(snapshot)
	return snapshot
}

func (c *Customizations) Add(ctx context.Context, path, phrase string) error {
	phrase = strings.ToLower(strings.TrimSpace(phrase))
	if phrase == "" {
		return ErrEmptyPhrase
	}

	c.mu.Lock()
	for _, existing := range c.phrases[path] {
		if existing == phrase {
			c.mu.Unlock()
			return nil
		}
	}
	c.phrases[path] = append(c.phrases[path], phrase)
	return c.commitLocked(ctx)
}

func (c *Customizations) Remove(ctx context.Context, path, phrase string) error {
	phrase = strings.ToLower(strings.TrimSpace(phrase))

	c.mu.Lock()
	current := c.phrases[path]
	kept := make([]string, 0, len(current))
	for _, existing := range current {
		if existing != phrase {
			kept = append(kept, existing)
		}
	}
	if len(kept) == len(current) {
		c.mu.Unlock()
		return nil
	}

	if len(kept) == 0 {
		delete(c.phrases, path)
	} else {
		c.phrases[path] = kept
	}
	return c.commitLocked(ctx)
}

func (c *Customizations) ResetAll(ctx context.Context) error {
	c.mu.Lock()
	c.phrases = make(map[string][]string)
	c.mu.Unlock()

	err := c.store.Remove(ctx, c.key)
	c.notify(c.Snapshot())
	if err != nil {
		return fmt.Errorf("remove customizations: %w", err)
	}
	return nil
}

func (c *Customizations) Phrases(path string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.phrases[path]...)
}

func (c *Customizations) Snapshot() map[string][]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Subscribe registers fn to be called synchronously after every mutation.
func (c *Customizations) Subscribe(fn func(map[string][]string)) func() {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subscribers[id] = fn
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.subscribers, id)
			c.mu.Unlock()
		})
	}
}

// commitLocked persists the mapping, releases the lock and notifies.
func (c *Customizations) commitLocked(ctx context.Context) error {
	snapshot := c.snapshotLocked()
	c.mu.Unlock()

	raw, err := json.Marshal(snapshot)
	if err == nil {
		err = c.store.Write(ctx, c.key, string(raw))
	}

	c.notify(snapshot)
	if err != nil {
		return fmt.Errorf("persist customizations: %w", err)
	}
	return nil
}

func (c *Customizations) snapshotLocked() map[string][]string {
	out := make(map[string][]string, len(c.phrases))
	for path, phrases := range c.phrases {
		out[path] = append([]string(nil), phrases...)
	}
	return out
}

func (c *Customizations) notify(snapshot map[string][]string) {
	c.mu.Lock()
	subs := make([]func(map[string][]string), 0, len(c.subscribers))
	for _, fn := range c.subscribers {
		subs = append(subs, fn)
	}
	c.mu.Unlock()

	for _, fn := range subs {
		fn(snapshot)
	}
}
