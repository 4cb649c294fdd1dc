package voice

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func catalogCommands() []Command {
	return NewRegistry(DefaultCatalog(), nil, nil).All()
}

func TestMatchCatalogScenarios(t *testing.T) {
	tests := []struct {
		name       string
		transcript string
		lang       Language
		wantPath   string
	}{
		{name: "longest dashboard phrase", transcript: "please go to dashboard now", lang: LanguageEnglish, wantPath: "/dashboard"},
		{name: "emergency opens sos", transcript: "emergency", lang: LanguageEnglish, wantPath: "/sos"},
		{name: "case folded", transcript: "  Open The MAP  ", lang: LanguageEnglish, wantPath: "/map"},
		{name: "emergency contacts beats emergency", transcript: "show my emergency contacts", lang: LanguageEnglish, wantPath: "/emergency-contacts"},
		{name: "create notice beats notices", transcript: "i want to create notice", lang: LanguageEnglish, wantPath: "/create-notice"},
		{name: "bengali map", transcript: "ম্যাপ দেখাও", lang: LanguageBengali, wantPath: "/map"},
	}

	cmds := catalogCommands()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cmd, ok := Match(tc.transcript, cmds, tc.lang)
			require.True(t, ok)
			require.Equal(t, tc.wantPath, cmd.Path)
		})
	}
}

func TestMatchSOSResponse(t *testing.T) {
	cmd, ok := Match("emergency", catalogCommands(), LanguageEnglish)
	require.True(t, ok)
	require.Equal(t, "Opening SOS Emergency", cmd.ResponseFor(LanguageEnglish))
}

func TestMatchLongestKeywordWins(t *testing.T) {
	short := Command{ID: "a", Keywords: map[Language][]string{LanguageEnglish: {"start"}}}
	long := Command{ID: "b", Keywords: map[Language][]string{LanguageEnglish: {"start survey"}}}

	cmd, ok := Match("please start survey", []Command{short, long}, LanguageEnglish)
	require.True(t, ok)
	require.Equal(t, "b", cmd.ID)
}

func TestMatchTieKeepsRegistrationOrder(t *testing.T) {
	first := Command{ID: "first", Keywords: map[Language][]string{LanguageEnglish: {"alpha"}}}
	second := Command{ID: "second", Keywords: map[Language][]string{LanguageEnglish: {"bravo"}}}

	cmd, ok := Match("alpha bravo", []Command{first, second}, LanguageEnglish)
	require.True(t, ok)
	require.Equal(t, "first", cmd.ID)

	cmd, ok = Match("alpha bravo", []Command{second, first}, LanguageEnglish)
	require.True(t, ok)
	require.Equal(t, "second", cmd.ID)
}

func TestMatchLengthCountsRunes(t *testing.T) {
	cmd, ok := Match("জরুরি নাম্বার দাও", catalogCommands(), LanguageBengali)
	require.True(t, ok)
	require.Equal(t, "/emergency-contacts", cmd.Path)
}

func TestMatchNeverReturnsCommandWithoutKeywords(t *testing.T) {
	empty := Command{ID: "empty", Keywords: map[Language][]string{LanguageBengali: {"হ্যালো"}}}
	blank := Command{ID: "blank", Keywords: map[Language][]string{LanguageEnglish: {""}}}

	_, ok := Match("anything at all", []Command{empty, blank}, LanguageEnglish)
	require.False(t, ok)

	_, ok = Match("", catalogCommands(), LanguageEnglish)
	require.False(t, ok)

	_, ok = Match("   ", catalogCommands(), LanguageEnglish)
	require.False(t, ok)
}

func TestMatchNoMatch(t *testing.T) {
	_, ok := Match("what is the weather like", catalogCommands(), LanguageEnglish)
	require.False(t, ok)
}

func TestMatchPhrase(t *testing.T) {
	phrase, ok := MatchPhrase("Hey Assistant open dashboard", DefaultWakePhrases, LanguageEnglish)
	require.True(t, ok)
	require.Equal(t, "hey assistant", phrase)

	_, ok = MatchPhrase("hey there", DefaultWakePhrases, LanguageEnglish)
	require.False(t, ok)
}

func TestContainsStopPhrase(t *testing.T) {
	require.True(t, ContainsStopPhrase("I need to stop this", DefaultStopPhrases))
	require.True(t, ContainsStopPhrase("বন্ধ করো এখন", DefaultStopPhrases))
	require.True(t, ContainsStopPhrase("Cancel", DefaultStopPhrases))
	require.False(t, ContainsStopPhrase("go to dashboard", DefaultStopPhrases))
}

func TestStripPunctuation(t *testing.T) {
	require.Equal(t, "help me now", stripPunctuation("help, me now!"))
	require.Equal(t, "ড্যাশবোর্ড", stripPunctuation("ড্যাশবোর্ড।"))
}

func TestMatchComposesBengaliVowelSigns(t *testing.T) {
	cmds := []Command{{
		ID:       "go",
		Keywords: map[Language][]string{LanguageBengali: {"\u0995\u09CB"}},
	}}

	cmd, ok := Match("\u0995\u09C7\u09BE", cmds, LanguageBengali)
	require.True(t, ok)
	require.Equal(t, "go", cmd.ID)
}
