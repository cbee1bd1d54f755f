// Package diff renders a word-level comparison of two texts as HTML.
//
// The alignment is a longest common subsequence over words, computed with a
// full (len(old)+1) x (len(new)+1) table. Memory grows with the product of
// both word counts, which is fine for summaries of a few hundred words but
// not for whole documents.
package diff

import (
	"html"
	"strings"
)

const (
	deletedOpen   = `<del class="diff-removed">`
	deletedClose  = `</del>`
	insertedOpen  = `<ins class="diff-added">`
	insertedClose = `</ins>`
)

type Result struct {
	Before string `json:"before"`
	After  string `json:"after"`
}

type opKind int

const (
	opKeep opKind = iota
	opDelete
	opInsert
)

type op struct {
	kind opKind
	word string
}

// Words marks words only in oldText as deleted in Before and words only in
// newText as inserted in After. Shared words appear unmarked in both.
func Words(oldText, newText string) Result {
	ops := align(strings.Fields(oldText), strings.Fields(newText))

	var before, after renderer
	for _, o := range ops {
		switch o.kind {
		case opKeep:
			before.write(o.word, "", "")
			after.write(o.word, "", "")
		case opDelete:
			before.write(o.word, deletedOpen, deletedClose)
		case opInsert:
			after.write(o.word, insertedOpen, insertedClose)
		}
	}

	return Result{Before: before.String(), After: after.String()}
}

// align walks the suffix LCS table from the start. On a tie it advances the
// old side first, which makes the chosen subsequence deterministic.
func align(oldWords, newWords []string) []op {
	n, m := len(oldWords), len(newWords)

	lcs := make([][]int, n+1)
	for i := range lcs {
		lcs[i] = make([]int, m+1)
	}

	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if oldWords[i] == newWords[j] {
				lcs[i][j] = lcs[i+1][j+1] + 1
			} else {
				lcs[i][j] = max(lcs[i+1][j], lcs[i][j+1])
			}
		}
	}

	ops := make([]op, 0, n+m)
	i, j := 0, 0

	for i < n && j < m {
		switch {
		case oldWords[i] == newWords[j]:
			ops = append(ops, op{kind: opKeep, word: oldWords[i]})
			i++
			j++
		case lcs[i+1][j] >= lcs[i][j+1]:
			ops = append(ops, op{kind: opDelete, word: oldWords[i]})
			i++
		default:
			ops = append(ops, op{kind: opInsert, word: newWords[j]})
			j++
		}
	}

	for ; i < n; i++ {
		ops = append(ops, op{kind: opDelete, word: oldWords[i]})
	}
	for ; j < m; j++ {
		ops = append(ops, op{kind: opInsert, word: newWords[j]})
	}

	return ops
}

// renderer groups consecutive words with the same markup into one element.
// Words are escaped before any markup is added.
type renderer struct {
	b         strings.Builder
	openTag   string
	closeTag  string
	hasOutput bool
}

func (r *renderer) write(word, openTag, closeTag string) {
	if r.openTag != openTag {
		r.b.WriteString(r.closeTag)
	}

	if r.hasOutput {
		r.b.WriteByte(' ')
	}

	if r.openTag != openTag {
		r.b.WriteString(openTag)
		r.openTag, r.closeTag = openTag, closeTag
	}

	r.b.WriteString(html.EscapeString(word))
	r.hasOutput = true
}

func (r *renderer) String() string {
	return r.b.String() + r.closeTag
}
