package preview

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// Highlight splits text in styled lines with the lexer matching name. It
// returns nil when no lexer matches; an unknown theme falls back to the
// default chroma style.
func Highlight(name, text, theme string) []Line {
	lexer := lexers.Match(name)
	if lexer == nil {
		return nil
	}
	lexer = chroma.Coalesce(lexer)

	style, ok := styles.Registry[strings.ToLower(theme)]
	if !ok {
		style = styles.Fallback
	}

	it, err := lexer.Tokenise(nil, normalize(text))
	if err != nil {
		return nil
	}

	var lines []Line
	for _, tokens := range chroma.SplitTokensIntoLines(it.Tokens()) {
		line := Line{}
		for _, tok := range tokens {
			value := strings.TrimSuffix(tok.Value, "\n")
			if value == "" {
				continue
			}
			entry := style.Get(tok.Type)
			f := Fragment{
				Text:      value,
				Bold:      entry.Bold == chroma.Yes,
				Italic:    entry.Italic == chroma.Yes,
				Underline: entry.Underline == chroma.Yes,
			}
			if entry.Colour.IsSet() {
				f.Fg = entry.Colour.String()
			}
			line = append(line, f)
		}
		lines = append(lines, line)
	}
	return lines
}
