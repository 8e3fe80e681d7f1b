package phpdoc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for phpdoc:
// - Empty input parses to an empty block
// - Description-only comments keep their text
// - Typed tags (@param, @var, @return) split type, variable, description
// - Untyped tags keep the whole rest as description
// - Tag descriptions continue across lines
// - Comments without /** */ delimiters fail with ErrDocParse
// - TagsNamed filters by tag name preserving order

func TestParse_Empty(t *testing.T) {
	t.Parallel()

	block, err := Parse("")

	require.NoError(t, err)
	assert.Empty(t, block.Description)
	assert.Empty(t, block.Tags)
}

func TestParse_DescriptionOnly(t *testing.T) {
	t.Parallel()

	block, err := Parse(`/**
 * Maximum retry attempts for transient failures.
 */`)

	require.NoError(t, err)
	assert.Equal(t, "Maximum retry attempts for transient failures.", block.Description)
	assert.Empty(t, block.Tags)
}

func TestParse_SingleLine(t *testing.T) {
	t.Parallel()

	block, err := Parse(`/** Default currency for new accounts. */`)

	require.NoError(t, err)
	assert.Equal(t, "Default currency for new accounts.", block.Description)
}

func TestParse_TypedTags(t *testing.T) {
	t.Parallel()

	block, err := Parse(`/**
 * Formats a greeting.
 *
 * @param string $name recipient name
 * @param int $times how many times to repeat
 * @return string the formatted greeting
 */`)

	require.NoError(t, err)
	assert.Equal(t, "Formats a greeting.", block.Description)
	require.Len(t, block.Tags, 3)

	assert.Equal(t, Tag{Name: "param", Type: "string", Var: "name", Description: "recipient name"}, block.Tags[0])
	assert.Equal(t, Tag{Name: "param", Type: "int", Var: "times", Description: "how many times to repeat"}, block.Tags[1])
	assert.Equal(t, Tag{Name: "return", Type: "string", Description: "the formatted greeting"}, block.Tags[2])
}

func TestParse_VarTagWithUnionType(t *testing.T) {
	t.Parallel()

	block, err := Parse(`/** @var int|null last modification time */`)

	require.NoError(t, err)
	require.Len(t, block.Tags, 1)
	assert.Equal(t, "var", block.Tags[0].Name)
	assert.Equal(t, "int|null", block.Tags[0].Type)
	assert.Equal(t, "last modification time", block.Tags[0].Description)
}

func TestParse_UntypedTag(t *testing.T) {
	t.Parallel()

	block, err := Parse(`/**
 * @deprecated use the new accessor instead
 */`)

	require.NoError(t, err)
	require.Len(t, block.Tags, 1)
	assert.Equal(t, "deprecated", block.Tags[0].Name)
	assert.Empty(t, block.Tags[0].Type)
	assert.Equal(t, "use the new accessor instead", block.Tags[0].Description)
}

func TestParse_TagContinuation(t *testing.T) {
	t.Parallel()

	block, err := Parse(`/**
 * @param string $query the search expression,
 *   including any boolean operators
 */`)

	require.NoError(t, err)
	require.Len(t, block.Tags, 1)
	assert.Equal(t, "the search expression, including any boolean operators", block.Tags[0].Description)
}

func TestParse_Malformed(t *testing.T) {
	t.Parallel()

	// A plain line comment is not a docblock.
	_, err := Parse("// not a docblock")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDocParse)
}

func TestParse_UnterminatedMalformed(t *testing.T) {
	t.Parallel()

	_, err := Parse("/** missing terminator")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDocParse)
}

func TestTagsNamed(t *testing.T) {
	t.Parallel()

	block, err := Parse(`/**
 * @param int $a first
 * @return bool
 * @param int $b second
 */`)

	require.NoError(t, err)

	params := block.TagsNamed("param")
	require.Len(t, params, 2)
	assert.Equal(t, "a", params[0].Var)
	assert.Equal(t, "b", params[1].Var)

	assert.Empty(t, block.TagsNamed("throws"))
}
