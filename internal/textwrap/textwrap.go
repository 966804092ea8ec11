// Package textwrap breaks free text into lines no wider than a fixed column.
package textwrap

import (
	"strings"
	"unicode/utf8"
)

// DefaultWidth is the column width used when none is given.
const DefaultWidth = 80

// Wrap splits text into lines of at most width runes. Paragraphs separated
// by blank lines stay separated by a single empty line; single newlines
// inside a paragraph are kept as line breaks. Words longer than width are
// split.
func Wrap(text string, width int) []string {
	if width <= 0 {
		width = DefaultWidth
	}

	text = strings.TrimSpace(strings.ReplaceAll(text, "\r\n", "\n"))
	if text == "" {
		return nil
	}

	var out []string
	for i, para := range splitParagraphs(text) {
		if i > 0 {
			out = append(out, "")
		}
		for _, line := range strings.Split(para, "\n") {
			out = append(out, wrapLine(line, width)...)
		}
	}
	return out
}

// Fill wraps text and joins the lines, prefixing each non-empty one with indent.
func Fill(text string, width int, indent string) string {
	lines := Wrap(text, width-utf8.RuneCountInString(indent))
	for i, l := range lines {
		if l != "" {
			lines[i] = indent + l
		}
	}
	return strings.Join(lines, "\n")
}

// splitParagraphs splits on runs of blank lines.
func splitParagraphs(text string) []string {
	lines := strings.Split(text, "\n")
	var paras []string
	var current []string

	flush := func() {
		if len(current) == 0 {
			return
		}
		paras = append(paras, strings.Join(current, "\n"))
		current = nil
	}

	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		current = append(current, strings.TrimRight(line, " \t"))
	}
	flush()

	return paras
}

// wrapLine greedily packs words into lines of at most width runes.
func wrapLine(line string, width int) []string {
	words := strings.Fields(line)
	if len(words) == 0 {
		return nil
	}

	var out []string
	var cur strings.Builder
	curLen := 0

	flush := func() {
		if curLen > 0 {
			out = append(out, cur.String())
			cur.Reset()
			curLen = 0
		}
	}

	for _, w := range words {
		for _, piece := range hardSplit(w, width) {
			n := utf8.RuneCountInString(piece)
			if curLen > 0 && curLen+1+n > width {
				flush()
			}
			if curLen > 0 {
				cur.WriteByte(' ')
				curLen++
			}
			cur.WriteString(piece)
			curLen += n
		}
	}
	flush()

	return out
}

// hardSplit breaks a word that exceeds width into width-sized pieces.
func hardSplit(word string, width int) []string {
	if utf8.RuneCountInString(word) <= width {
		return []string{word}
	}
	runes := []rune(word)
	var pieces []string
	for len(runes) > width {
		pieces = append(pieces, string(runes[:width]))
		runes = runes[width:]
	}
	if len(runes) > 0 {
		pieces = append(pieces, string(runes))
	}
	return pieces
}
