package voice

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

type Language string

const (
	LanguageEnglish Language = "en"
	LanguageBengali Language = "bn"
)

var speechTags = map[Language]language.Tag{
	LanguageEnglish: language.MustParse("en-US"),
	LanguageBengali: language.MustParse("bn-BD"),
}

func Languages() []Language {
	return []Language{LanguageEnglish, LanguageBengali}
}

// ParseLanguage accepts a bare code ("bn") or a full speech tag ("bn-BD").
func ParseLanguage(raw string) (Language, error) {
	tag, err := language.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnknownLanguage, raw)
	}

	base, _ := tag.Base()
	lang := Language(base.String())
	if _, ok := speechTags[lang]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownLanguage, raw)
	}

	return lang, nil
}

func (l Language) Valid() bool {
	_, ok := speechTags[l]
	return ok
}

// SpeechTag is the BCP 47 tag handed to the recognizer and synthesizer.
func (l Language) SpeechTag() string {
	if tag, ok := speechTags[l]; ok {
		return tag.String()
	}
	return speechTags[LanguageEnglish].String()
}

func (l Language) pick(en, bn string) string {
	if l == LanguageBengali {
		return bn
	}
	return en
}

// lower folds case without touching diacritics or punctuation. Input is
// composed to NFC so split Bengali vowel signs match their precomposed form.
func (l Language) lower(s string) string {
	tag, ok := speechTags[l]
	if !ok {
		tag = language.Und
	}
	return cases.Lower(tag).String(norm.NFC.String(s))
}
