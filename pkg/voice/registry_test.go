package voice

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func pathsOf(cmds []Command) []string {
	out := make([]string, 0, len(cmds))
	for _, cmd := range cmds {
		out = append(out, cmd.Path)
	}
	return out
}

func keywordsFor(cmds []Command, path string, lang Language) []string {
	for _, cmd := range cmds {
		if cmd.Path == path {
			return cmd.Keywords[lang]
		}
	}
	return nil
}

func TestRegistryBuiltinFromCatalog(t *testing.T) {
	r := NewRegistry(DefaultCatalog(), nil, nil)

	cmds := r.All()
	require.Len(t, cmds, len(DefaultCatalog()))
	require.Equal(t, "/dashboard", cmds[0].Path)
	require.Equal(t, "feature:/dashboard", cmds[0].ID)
	require.Equal(t, "Going to Dashboard", cmds[0].ResponseFor(LanguageEnglish))
}

func TestRegistryRegisterAndUnregisterTwice(t *testing.T) {
	r := NewRegistry(DefaultCatalog(), nil, nil)
	base := len(r.All())

	id, unregister := r.Register(Command{Keywords: map[Language][]string{LanguageEnglish: {"send message"}}})
	require.NotEmpty(t, id)
	require.Len(t, r.All(), base+1)

	unregister()
	require.Len(t, r.All(), base)

	unregister()
	require.Len(t, r.All(), base)
}

func TestRegistryDynamicOrderFollowsRegistration(t *testing.T) {
	r := NewRegistry(nil, nil, nil)

	_, unA := r.Register(Command{ID: "a", Path: "/a"})
	r.Register(Command{ID: "b", Path: "/b"})
	r.Register(Command{ID: "c", Path: "/c"})
	require.Equal(t, []string{"/a", "/b", "/c"}, pathsOf(r.All()))

	unA()
	require.Equal(t, []string{"/b", "/c"}, pathsOf(r.All()))
}

func TestRegistryStaleUnregisterKeepsReplacement(t *testing.T) {
	r := NewRegistry(nil, nil, nil)

	_, first := r.Register(Command{ID: "compose", Path: "/old"})
	r.Register(Command{ID: "compose", Path: "/new"})

	first()
	require.Equal(t, []string{"/new"}, pathsOf(r.All()))
}

func TestRegistryInvokeUsesCurrentAction(t *testing.T) {
	r := NewRegistry(nil, nil, nil)

	var oldCalls, newCalls atomic.Int32
	id, unregister := r.Register(Command{
		Keywords: map[Language][]string{LanguageEnglish: {"refresh"}},
		Action:   func() { oldCalls.Add(1) },
	})

	require.True(t, r.Update(id, func() { newCalls.Add(1) }))
	require.True(t, r.Invoke(id))
	require.Equal(t, int32(0), oldCalls.Load())
	require.Equal(t, int32(1), newCalls.Load())

	unregister()
	require.False(t, r.Invoke(id))
	require.False(t, r.Update(id, func() {}))
}

func TestRegistryCustomPhraseRoundTrip(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry(DefaultCatalog(), nil, nil)

	require.NoError(t, r.AddCustomPhrase(ctx, "/map", "  Where Is Everyone "))
	require.Contains(t, keywordsFor(r.All(), "/map", LanguageEnglish), "where is everyone")
	require.Contains(t, keywordsFor(r.All(), "/map", LanguageBengali), "where is everyone")

	cmd, ok := Match("tell me where is everyone", r.All(), LanguageEnglish)
	require.True(t, ok)
	require.Equal(t, "/map", cmd.Path)

	require.NoError(t, r.ResetAll(ctx))
	require.NotContains(t, keywordsFor(r.All(), "/map", LanguageEnglish), "where is everyone")
}

func TestRegistryCustomBengaliPhraseMatchesMap(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry(DefaultCatalog(), nil, nil)

	require.NoError(t, r.AddCustomPhrase(ctx, "/map", "যাও"))

	cmd, ok := Match("আমাকে যাও", r.All(), LanguageBengali)
	require.True(t, ok)
	require.Equal(t, "/map", cmd.Path)
}

func TestRegistryCustomPhraseDoesNotMutateCatalog(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry(DefaultCatalog(), nil, nil)
	before := len(keywordsFor(r.All(), "/chat", LanguageEnglish))

	require.NoError(t, r.AddCustomPhrase(ctx, "/chat", "talk"))
	require.NoError(t, r.RemoveCustomPhrase(ctx, "/chat", "talk"))

	require.Len(t, keywordsFor(r.All(), "/chat", LanguageEnglish), before)
}

func TestRegistryCustomPhraseUnknownPath(t *testing.T) {
	r := NewRegistry(DefaultCatalog(), nil, nil)
	require.ErrorIs(t, r.AddCustomPhrase(context.Background(), "/nowhere", "x"), ErrFeatureNotFound)
}

func TestRegistryFeatureLookup(t *testing.T) {
	r := NewRegistry(DefaultCatalog(), nil, nil)

	feature, ok := r.Feature("/sos")
	require.True(t, ok)
	require.Equal(t, "SOS Emergency", feature.DisplayName.In(LanguageEnglish))

	_, ok = r.Feature("/missing")
	require.False(t, ok)
}
