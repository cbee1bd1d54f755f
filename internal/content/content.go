// Package content turns stored article markup into plain text for prompting.
package content

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	droppedElements = "script, style, noscript"
	blockElements   = "p, div, h1, h2, h3, h4, h5, h6, li, tr, blockquote"
)

var (
	horizontalSpaceRe = regexp.MustCompile(`[ \t\x{00A0}]+`)
	lineEdgeSpaceRe   = regexp.MustCompile(` ?\n ?`)
	blankLinesRe      = regexp.MustCompile(`\n{3,}`)
	wordRe            = regexp.MustCompile(`\p{L}+(?:['’-]\p{L}+)*`)
)

// Prepare strips markup from an article body while keeping paragraph and line
// structure. Script, style and noscript elements are dropped with their
// contents. When the markup cannot be parsed the raw input is normalized
// instead, so content is never lost.
func Prepare(raw string) string {
	text, err := markupToText(raw)
	if err != nil {
		text = raw
	}

	return normalizeWhitespace(text)
}

func markupToText(raw string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("create document from reader: %w", err)
	}

	doc.Find(droppedElements).Remove()

	doc.Find("br").Each(func(_ int, br *goquery.Selection) {
		br.ReplaceWithHtml("\n")
	})
	doc.Find(blockElements).Each(func(_ int, block *goquery.Selection) {
		block.AppendHtml("\n")
	})

	return doc.Text(), nil
}

func normalizeWhitespace(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = horizontalSpaceRe.ReplaceAllString(text, " ")
	text = lineEdgeSpaceRe.ReplaceAllString(text, "\n")
	text = blankLinesRe.ReplaceAllString(text, "\n\n")

	return strings.TrimSpace(text)
}

// CountWords counts runs of letters. Internal hyphens and apostrophes keep a
// word together; tokens made only of digits or punctuation are not words.
func CountWords(text string) int {
	return len(wordRe.FindAllStringIndex(text, -1))
}
