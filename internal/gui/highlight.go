package gui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	. "modernc.org/tk9.0"
)

// syntaxSpan colours columns [Start, End) of a 1-based detail pane line.
type syntaxSpan struct {
	Line  int
	Start int
	End   int
	Color string
}

func (a *Controller) applySyntaxHighlight(content string) {
	if a.ui.diffDetail == nil || content == "" {
		return
	}
	a.clearSyntaxHighlight()
	for _, span := range syntaxSpans(content, styleForPalette(a.theme.palette)) {
		tag := a.syntaxTagForColor(span.Color)
		if tag == "" {
			continue
		}
		a.ui.diffDetail.TagAdd(tag, fmt.Sprintf("%d.%d", span.Line, span.Start), fmt.Sprintf("%d.%d", span.Line, span.End))
	}
}

func (a *Controller) clearSyntaxHighlight() {
	if a.ui.diffDetail == nil {
		return
	}
	for _, tag := range a.state.diff.syntaxTags {
		a.ui.diffDetail.TagRemove(tag, "1.0", END)
	}
}

func (a *Controller) syntaxTagForColor(color string) string {
	if color == "" || a.ui.diffDetail == nil {
		return ""
	}
	if a.state.diff.syntaxTags == nil {
		a.state.diff.syntaxTags = make(map[string]string)
	}
	if tag, ok := a.state.diff.syntaxTags[color]; ok {
		return tag
	}
	tag := fmt.Sprintf("syntax_%d", len(a.state.diff.syntaxTags))
	a.ui.diffDetail.TagConfigure(tag, Foreground(color))
	a.state.diff.syntaxTags[color] = tag
	return tag
}

// syntaxSpans tokenises the code lines of every file in a unified diff with
// the lexer matching the file name. Header and hunk lines are skipped.
func syntaxSpans(content string, style *chroma.Style) []syntaxSpan {
	if style == nil || content == "" {
		return nil
	}
	var (
		spans        []syntaxSpan
		currentLexer chroma.Lexer
		lexerCache   = map[string]chroma.Lexer{}
	)
	for i, line := range strings.Split(content, "\n") {
		if path, ok := diffPathFromLine(line); ok {
			currentLexer = nil
			if path != "" {
				lx, cached := lexerCache[path]
				if !cached {
					lx = lexerForPath(path)
					lexerCache[path] = lx
				}
				currentLexer = lx
			}
			continue
		}
		if currentLexer == nil {
			continue
		}
		if strings.HasPrefix(line, "--- ") || strings.HasPrefix(line, "+++ ") || strings.HasPrefix(line, "@@") {
			continue
		}
		code, offset, ok := diffLineCode(line)
		if !ok || code == "" {
			continue
		}
		spans = append(spans, lineSpans(currentLexer, style, code, i+1, offset)...)
	}
	return spans
}

func lineSpans(lexer chroma.Lexer, style *chroma.Style, code string, lineNo, offset int) []syntaxSpan {
	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return nil
	}
	var spans []syntaxSpan
	col := offset
	for _, token := range iterator.Tokens() {
		if token.Value == "" {
			continue
		}
		length := utf8.RuneCountInString(token.Value)
		if color := colorFromEntry(style.Get(token.Type)); color != "" && strings.TrimSpace(token.Value) != "" {
			spans = append(spans, syntaxSpan{Line: lineNo, Start: col, End: col + length, Color: color})
		}
		col += length
	}
	return spans
}

func styleForPalette(p colorPalette) *chroma.Style {
	name := "github"
	if p.isDark() {
		name = "github-dark"
	}
	if st := styles.Get(name); st != nil {
		return st
	}
	return styles.Fallback
}

func colorFromEntry(entry chroma.StyleEntry) string {
	if !entry.Colour.IsSet() {
		return ""
	}
	return "#" + strings.TrimPrefix(strings.ToLower(entry.Colour.String()), "#")
}

func lexerForPath(path string) chroma.Lexer {
	if path == "" {
		return nil
	}
	lexer := lexers.Match(path)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	return chroma.Coalesce(lexer)
}
