package voice

import "unicode/utf8"

type Command struct {
	ID        string
	Keywords  map[Language][]string
	Responses map[Language]string
	Path      string
	Action    func()
}

func (c Command) KeywordsFor(lang Language) []string {
	return c.Keywords[lang]
}

func (c Command) ResponseFor(lang Language) string {
	return c.Responses[lang]
}

func (c Command) longestKeyword(lang Language) int {
	longest := 0
	for _, keyword := range c.Keywords[lang] {
		if n := utf8.RuneCountInString(keyword); n > longest {
			longest = n
		}
	}
	return longest
}

func (c Command) clone() Command {
	out := c
	out.Keywords = make(map[Language][]string, len(c.Keywords))
	for lang, keywords := range c.Keywords {
		out.Keywords[lang] = append([]string(nil), keywords...)
	}
	if c.Responses != nil {
		out.Responses = make(map[Language]string, len(c.Responses))
		for lang, text := range c.Responses {
			out.Responses[lang] = text
		}
	}
	return out
}

type Localized map[Language]string

func (l Localized) In(lang Language) string {
	if text, ok := l[lang]; ok && text != "" {
		return text
	}
	return l[LanguageEnglish]
}

// Feature is one record of the application's feature catalog.
type Feature struct {
	Path            string
	DisplayName     Localized
	Description     Localized
	DefaultKeywords map[Language][]string
	Response        Localized
}

func (f Feature) Command() Command {
	cmd := Command{
		ID:        "feature:" + f.Path,
		Path:      f.Path,
		Keywords:  make(map[Language][]string, len(f.DefaultKeywords)),
		Responses: make(map[Language]string, len(f.Response)),
	}
	for lang, keywords := range f.DefaultKeywords {
		cmd.Keywords[lang] = append([]string(nil), keywords...)
	}
	for lang, text := range f.Response {
		cmd.Responses[lang] = text
	}
	return cmd
}
