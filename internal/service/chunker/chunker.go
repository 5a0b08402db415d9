// Package chunker splits contract text into token-bounded chunks for
// embedding and strips personal data before it leaves the process.
//
// Token counts are estimated as ceil(runes / charsPerToken). The estimate
// errs high for German legal text, so a chunk that fits the estimate fits
// the embedding backend.
package chunker

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Options configures a Chunker.
type Options struct {
	// MaxTokens is the backend's per-request limit. Every chunk stays
	// strictly below it.
	MaxTokens int
	// ChunkTokens is the target chunk size, below MaxTokens.
	ChunkTokens int
	// OverlapTokens is how much trailing context is repeated at the start
	// of the next chunk.
	OverlapTokens int
	// CharsPerToken drives the estimate.
	CharsPerToken float64
}

// Chunker splits text into ordered chunks. It is stateless and safe for
// concurrent use.
type Chunker struct {
	chunk   int
	overlap int
	cpt     float64
}

// New creates a Chunker. Out-of-range options are clamped so the chunk size
// always stays below MaxTokens.
func New(o Options) *Chunker {
	if o.CharsPerToken <= 0 {
		o.CharsPerToken = 2.5
	}
	if o.MaxTokens <= 1 {
		o.MaxTokens = 8192
	}
	if o.ChunkTokens <= 0 || o.ChunkTokens >= o.MaxTokens {
		o.ChunkTokens = o.MaxTokens - 1
	}
	if o.OverlapTokens < 0 || o.OverlapTokens >= o.ChunkTokens {
		o.OverlapTokens = 0
	}
	return &Chunker{chunk: o.ChunkTokens, overlap: o.OverlapTokens, cpt: o.CharsPerToken}
}

// EstimateTokens is the conservative token estimate for text.
func EstimateTokens(text string, charsPerToken float64) int {
	return tokensFor(utf8.RuneCountInString(text), charsPerToken)
}

func tokensFor(runes int, cpt float64) int {
	return int(math.Ceil(float64(runes) / cpt))
}

// Estimate is EstimateTokens with the chunker's ratio.
func (c *Chunker) Estimate(text string) int {
	return EstimateTokens(text, c.cpt)
}

// Chunk splits text into chunks of at most ChunkTokens estimated tokens.
// Content is never dropped: oversized input yields more chunks. Chunks are
// trimmed and empty chunks are omitted.
func (c *Chunker) Chunk(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	units := c.bounded(splitUnits(text))

	var (
		chunks  []string
		current []unit
		runes   int
	)
	flush := func() {
		var b strings.Builder
		for _, u := range current {
			b.WriteString(u.text)
		}
		if s := strings.TrimSpace(b.String()); s != "" {
			chunks = append(chunks, s)
		}
	}

	for _, u := range units {
		if len(current) > 0 && tokensFor(runes+u.runes, c.cpt) > c.chunk {
			flush()
			current, runes = c.carry(current)
			for len(current) > 0 && tokensFor(runes+u.runes, c.cpt) > c.chunk {
				runes -= current[0].runes
				current = current[1:]
			}
		}
		current = append(current, u)
		runes += u.runes
	}
	if len(current) > 0 {
		flush()
	}
	return chunks
}

// carry returns the trailing units of a finished chunk that fit the overlap.
func (c *Chunker) carry(prev []unit) ([]unit, int) {
	if c.overlap == 0 {
		return nil, 0
	}
	runes := 0
	start := len(prev)
	for i := len(prev) - 1; i > 0; i-- {
		if tokensFor(runes+prev[i].runes, c.cpt) > c.overlap {
			break
		}
		runes += prev[i].runes
		start = i
	}
	return append([]unit(nil), prev[start:]...), runes
}

type unit struct {
	text  string
	runes int
}

// bounded breaks units above the chunk size by words, then by rune windows.
func (c *Chunker) bounded(parts []string) []unit {
	window := int(math.Floor(float64(c.chunk) * c.cpt))
	if window < 1 {
		window = 1
	}

	out := make([]unit, 0, len(parts))
	for _, p := range parts {
		n := utf8.RuneCountInString(p)
		if tokensFor(n, c.cpt) <= c.chunk {
			out = append(out, unit{p, n})
			continue
		}
		for _, w := range splitWords(p) {
			wn := utf8.RuneCountInString(w)
			if tokensFor(wn, c.cpt) <= c.chunk {
				out = append(out, unit{w, wn})
				continue
			}
			rs := []rune(w)
			for i := 0; i < len(rs); i += window {
				end := min(i+window, len(rs))
				out = append(out, unit{string(rs[i:end]), end - i})
			}
		}
	}
	return out
}

// splitUnits cuts text at sentence ends, line breaks and before legal
// section markers. Concatenating the result yields the input.
func splitUnits(text string) []string {
	var (
		units []string
		start int
	)
	cut := func(at int) {
		if at > start {
			units = append(units, text[start:at])
			start = at
		}
	}

	for i, r := range text {
		switch {
		case r == '\n':
			cut(i + 1)
		case r == '.' || r == '!' || r == '?' || r == ';':
			next, size := utf8.DecodeRuneInString(text[i+1:])
			if size > 0 && unicode.IsSpace(next) {
				cut(i + 1 + size)
			}
		case i > start && (r == '§' || strings.HasPrefix(text[i:], "Art. ") || strings.HasPrefix(text[i:], "Abs. ")):
			prev, _ := utf8.DecodeLastRuneInString(text[:i])
			if unicode.IsSpace(prev) {
				cut(i)
			}
		}
	}
	cut(len(text))
	return units
}

// splitWords splits after each whitespace run, keeping the whitespace.
func splitWords(s string) []string {
	var (
		words   []string
		start   int
		inSpace bool
	)
	for i, r := range s {
		space := unicode.IsSpace(r)
		if inSpace && !space {
			words = append(words, s[start:i])
			start = i
		}
		inSpace = space
	}
	if start < len(s) {
		words = append(words, s[start:])
	}
	return words
}
