// Package phpdoc parses PHP documentation comments (docblocks) into a free
// text description plus an ordered list of structured tags.
package phpdoc

import (
	"errors"
	"fmt"
	"strings"
)

// ErrDocParse indicates a malformed documentation comment.
var ErrDocParse = errors.New("malformed doc comment")

// Tag is one structured annotation extracted from a docblock, e.g.
// "@param int $count number of items".
type Tag struct {
	// Name is the tag name without the leading "@".
	Name string
	// Type is the declared type token, if the tag carries one.
	Type string
	// Var is the associated identifier (parameter or property name) without
	// the leading "$", if the tag carries one.
	Var string
	// Description is the remaining free text.
	Description string
}

// Block is a fully parsed docblock.
type Block struct {
	Description string
	Tags        []Tag
}

// TagsNamed filters the block's tags by name, preserving order.
func (b *Block) TagsNamed(name string) []Tag {
	var out []Tag
	for _, t := range b.Tags {
		if t.Name == name {
			out = append(out, t)
		}
	}
	return out
}

// typedTags carry a leading type token before the optional variable.
var typedTags = map[string]bool{
	"param":          true,
	"var":            true,
	"return":         true,
	"throws":         true,
	"property":       true,
	"property-read":  true,
	"property-write": true,
}

// Parse parses a raw docblock. The empty string parses to an empty block. Any
// non-empty comment must be delimited by "/**" and "*/", otherwise Parse fails
// with ErrDocParse.
func Parse(raw string) (*Block, error) {
	if raw == "" {
		return &Block{}, nil
	}

	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "/**") || !strings.HasSuffix(trimmed, "*/") {
		return nil, fmt.Errorf("%w: %.40q", ErrDocParse, raw)
	}

	body := strings.TrimSuffix(strings.TrimPrefix(trimmed, "/**"), "*/")

	block := &Block{}
	var descLines []string
	var current *Tag

	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimPrefix(line, "*")
		line = strings.TrimSpace(line)

		if strings.HasPrefix(line, "@") {
			block.Tags = append(block.Tags, parseTagLine(line))
			current = &block.Tags[len(block.Tags)-1]
			continue
		}

		if current != nil {
			// Continuation of the previous tag's description.
			if line != "" {
				if current.Description != "" {
					current.Description += " "
				}
				current.Description += line
			}
			continue
		}

		descLines = append(descLines, line)
	}

	block.Description = strings.TrimSpace(strings.Join(descLines, "\n"))
	return block, nil
}

// parseTagLine splits "@name [type] [$var] [description]" into a Tag. The type
// token is only consumed for tags known to carry one.
func parseTagLine(line string) Tag {
	fields := strings.Fields(strings.TrimPrefix(line, "@"))
	if len(fields) == 0 {
		return Tag{}
	}

	tag := Tag{Name: fields[0]}
	rest := fields[1:]

	if typedTags[tag.Name] && len(rest) > 0 && !strings.HasPrefix(rest[0], "$") {
		tag.Type = rest[0]
		rest = rest[1:]
	}
	if len(rest) > 0 && strings.HasPrefix(rest[0], "$") {
		tag.Var = strings.TrimPrefix(rest[0], "$")
		rest = rest[1:]
	}
	tag.Description = strings.Join(rest, " ")
	return tag
}
