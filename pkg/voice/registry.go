package voice

import (
	"context"
	"sync"

	"github.com/elliotchance/orderedmap/v3"
	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"
)

type registration struct {
	cmd Command
	seq uint64
}

// Registry owns the built-in catalog commands, the commands registered by
// mounted screens, and the user's custom phrases.
type Registry struct {
	mu       sync.RWMutex
	features []Feature
	builtin  []Command
	dynamic  *orderedmap.OrderedMap[string, registration]
	seq      uint64
	custom   *Customizations
	log      *logrus.Entry
}

func NewRegistry(catalog []Feature, custom *Customizations, log *logrus.Entry) *Registry {
	log = orDiscard(log)
	if custom == nil {
		custom = NewCustomizations(nil, log)
	}

	builtin := make([]Command, 0, len(catalog))
	for _, feature := range catalog {
		builtin = append(builtin, feature.Command())
	}

	return &Registry{
		features: append([]Feature(nil), catalog...),
		builtin:  builtin,
		dynamic:  orderedmap.NewOrderedMap[string, registration](),
		custom:   custom,
		log:      log,
	}
}

// Register adds cmd to the dynamic set. A missing ID is generated. The
// returned func removes exactly this registration and is safe to call twice.
func (r *Registry) Register(cmd Command) (string, func()) {
	if cmd.ID == "" {
		cmd.ID = ulid.Make().String()
	}
	cmd = cmd.clone()

	r.mu.Lock()
	r.seq++
	seq := r.seq
	r.dynamic.Set(cmd.ID, registration{cmd: cmd, seq: seq})
	r.mu.Unlock()

	r.log.WithFields(logrus.Fields{
		"command_id": cmd.ID,
		"path":       cmd.Path,
	}).Debug("Voice command registered")

	var once sync.Once
	return cmd.ID, func() {
		once.Do(func() { r.unregister(cmd.ID, seq) })
	}
}

func (r *Registry) unregister(id string, seq uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.dynamic.Get(id)
	if !ok || current.seq != seq {
		return
	}
	r.dynamic.Delete(id)

	r.log.WithField("command_id", id).Debug("Voice command unregistered")
}

// Update swaps the side effect of a registered command.
func (r *Registry) Update(id string, action func()) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.dynamic.Get(id)
	if !ok {
		return false
	}
	current.cmd.Action = action
	r.dynamic.Set(id, current)
	return true
}

// Invoke runs the side effect currently registered under id.
func (r *Registry) Invoke(id string) bool {
	r.mu.RLock()
	current, ok := r.dynamic.Get(id)
	r.mu.RUnlock()

	if !ok || current.cmd.Action == nil {
		return false
	}
	current.cmd.Action()
	return true
}

// All returns the built-in commands, with custom phrases merged in for every
// language, followed by the dynamic commands in registration order.
func (r *Registry) All() []Command {
	custom := r.custom.Snapshot()

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Command, 0, len(r.builtin)+r.dynamic.Len())
	for _, cmd := range r.builtin {
		merged := cmd.clone()
		if phrases := custom[cmd.Path]; len(phrases) > 0 {
			for _, lang := range Languages() {
				merged.Keywords[lang] = append(merged.Keywords[lang], phrases...)
			}
		}
		out = append(out, merged)
	}

	for el := r.dynamic.Front(); el != nil; el = el.Next() {
		out = append(out, el.Value.cmd)
	}
	return out
}

func (r *Registry) Features() []Feature {
	return append([]Feature(nil), r.features...)
}

func (r *Registry) Feature(path string) (Feature, bool) {
	for _, feature := range r.features {
		if feature.Path == path {
			return feature, true
		}
	}
	return Feature{}, false
}

func (r *Registry) Customizations() *Customizations {
	return r.custom
}

func (r *Registry) LoadCustomizations(ctx context.Context) map[string][]string {
	return r.custom.Load(ctx)
}

func (r *Registry) AddCustomPhrase(ctx context.Context, path, phrase string) error {
	if _, ok := r.Feature(path); !ok {
		return ErrFeatureNotFound
	}
	return r.custom.Add(ctx, path, phrase)
}

func (r *Registry) RemoveCustomPhrase(ctx context.Context, path, phrase string) error {
	return r.custom.Remove(ctx, path, phrase)
}

func (r *Registry) ResetAll(ctx context.Context) error {
	return r.custom.ResetAll(ctx)
}
