package voice

import (
	"sort"
	"strings"
	"unicode"
)

var DefaultStopPhrases = map[Language][]string{
	LanguageEnglish: {"stop listening", "stop", "cancel", "be quiet"},
	LanguageBengali: {"থামো", "বন্ধ করো", "বাতিল"},
}

func normalizeTranscript(transcript string, lang Language) string {
	return lang.lower(strings.TrimSpace(transcript))
}

// Match returns the command whose keyword occurs in the transcript, trying
// commands with longer keywords first. Equal lengths keep the order of cmds.
func Match(transcript string, cmds []Command, lang Language) (Command, bool) {
	text := normalizeTranscript(transcript, lang)
	if text == "" {
		return Command{}, false
	}

	candidates := make([]Command, 0, len(cmds))
	for _, cmd := range cmds {
		if len(cmd.Keywords[lang]) > 0 {
			candidates = append(candidates, cmd)
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].longestKeyword(lang) > candidates[j].longestKeyword(lang)
	})

	for _, cmd := range candidates {
		for _, keyword := range cmd.Keywords[lang] {
			if keyword == "" {
				continue
			}
			if strings.Contains(text, lang.lower(keyword)) {
				return cmd, true
			}
		}
	}

	return Command{}, false
}

// MatchPhrase reports the first phrase contained in the transcript.
func MatchPhrase(transcript string, phrases []string, lang Language) (string, bool) {
	text := normalizeTranscript(transcript, lang)
	if text == "" {
		return "", false
	}

	for _, phrase := range phrases {
		needle := normalizeTranscript(phrase, lang)
		if needle != "" && strings.Contains(text, needle) {
			return phrase, true
		}
	}
	return "", false
}

// ContainsStopPhrase checks the stop phrases of every language, regardless
// of the one currently selected.
func ContainsStopPhrase(transcript string, phrases map[Language][]string) bool {
	for _, lang := range Languages() {
		if _, ok := MatchPhrase(transcript, phrases[lang], lang); ok {
			return true
		}
	}
	return false
}

// stripPunctuation keeps letters, marks, digits and spaces.
func stripPunctuation(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == ' ' || r == '\t':
			return ' '
		case isWordRune(r):
			return r
		}
		return -1
	}, s)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r) || r == '_'
}
