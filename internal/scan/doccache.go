package scan

import (
	"log"

	"github.com/mvp-joe/phpscope/internal/phpdoc"
)

// docResolver caches parsed docblocks by symbol identity so that repeated
// queries for the same symbol (its description, then a tag filter) parse the
// raw comment at most once. A malformed comment degrades to an empty block
// and never aborts the scan.
type docResolver struct {
	cache map[string]*phpdoc.Block

	// parseCount tracks underlying parser invocations; used by tests to pin
	// the parse-at-most-once behavior.
	parseCount int
}

func newDocResolver() *docResolver {
	return &docResolver{cache: make(map[string]*phpdoc.Block)}
}

// describe returns the parsed block for the given symbol identity, parsing
// and caching on first use. Never returns nil.
func (r *docResolver) describe(identity, rawComment string) *phpdoc.Block {
	if block, ok := r.cache[identity]; ok {
		return block
	}

	r.parseCount++
	block, err := phpdoc.Parse(rawComment)
	if err != nil {
		log.Printf("phpscope: ignoring malformed doc comment on %s: %v", identity, err)
		block = &phpdoc.Block{}
	}
	r.cache[identity] = block
	return block
}

// tagsNamed filters the cached tags of the symbol by tag name. Returns an
// empty list when no such tags exist.
func (r *docResolver) tagsNamed(identity, rawComment, tagName string) []phpdoc.Tag {
	return r.describe(identity, rawComment).TagsNamed(tagName)
}
