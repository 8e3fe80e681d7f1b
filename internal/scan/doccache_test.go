package scan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for the doc resolver:
// - Repeated queries for one identity parse the raw comment at most once
// - describe never returns nil, even for malformed comments
// - Malformed comments degrade to an empty block instead of failing the scan
// - Distinct identities are cached independently

func TestDocResolver_ParsesAtMostOnce(t *testing.T) {
	t.Parallel()

	r := newDocResolver()
	raw := `/**
 * Deposits an amount.
 *
 * @param float $amount value in account currency
 * @return float the new balance
 */`

	block := r.describe("Account::deposit", raw)
	require.NotNil(t, block)
	assert.Equal(t, "Deposits an amount.", block.Description)
	assert.Equal(t, 1, r.parseCount)

	// Description again, then two tag filters: still a single parse.
	r.describe("Account::deposit", raw)
	params := r.tagsNamed("Account::deposit", raw, "param")
	returns := r.tagsNamed("Account::deposit", raw, "return")

	assert.Len(t, params, 1)
	assert.Len(t, returns, 1)
	assert.Equal(t, 1, r.parseCount)
}

func TestDocResolver_MalformedDegrades(t *testing.T) {
	t.Parallel()

	r := newDocResolver()

	block := r.describe("Broken::member", "/* not a docblock */")
	require.NotNil(t, block)
	assert.Empty(t, block.Description)
	assert.Empty(t, block.Tags)

	// The degraded result is cached like any other.
	r.describe("Broken::member", "/* not a docblock */")
	assert.Equal(t, 1, r.parseCount)
}

func TestDocResolver_DistinctIdentities(t *testing.T) {
	t.Parallel()

	r := newDocResolver()
	r.describe("greet", "/** Formats a greeting. */")
	r.describe("Account", "/** An account aggregate. */")

	assert.Equal(t, 2, r.parseCount)
	assert.Equal(t, "Formats a greeting.", r.describe("greet", "").Description)
}
