package export

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/phpscope/internal/model"
	"github.com/mvp-joe/phpscope/internal/scan"
)

// Test Plan for export:
// - JSON output is byte-identical across repeated renders of one report
// - JSON round-trips through the data model
// - Empty category slices serialize as [] rather than null
// - Text mode prints category counts, headers, and member details
// - Inherited members are annotated with their declaring ancestor

func fixture(name string) string {
	return filepath.Join("..", "..", "testdata", "php", name)
}

func TestJSON_Deterministic(t *testing.T) {
	t.Parallel()

	report, err := scan.ExportFile(fixture("simple.php"))
	require.NoError(t, err)

	first, err := JSON(report)
	require.NoError(t, err)
	second, err := JSON(report)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.True(t, strings.HasSuffix(string(first), "\n"))
}

func TestJSON_RoundTrip(t *testing.T) {
	t.Parallel()

	report, err := scan.ExportFile(fixture("simple.php"))
	require.NoError(t, err)

	out, err := JSON(report)
	require.NoError(t, err)

	var decoded model.FileReport
	require.NoError(t, json.Unmarshal(out, &decoded))

	assert.Equal(t, report.FilePath, decoded.FilePath)
	require.Len(t, decoded.Classes, 1)
	assert.Equal(t, "Account", decoded.Classes[0].Name)
	assert.Equal(t, report.Classes[0].Constants, decoded.Classes[0].Constants)
}

func TestJSON_EmptyCategoriesPresent(t *testing.T) {
	t.Parallel()

	report, err := scan.ExportFile(fixture("empty.php"))
	require.NoError(t, err)

	out, err := JSON(report)
	require.NoError(t, err)

	for _, key := range []string{`"constants": []`, `"functions": []`, `"interfaces": []`, `"traits": []`, `"classes": []`} {
		assert.Contains(t, string(out), key)
	}
}

func TestText_Report(t *testing.T) {
	t.Parallel()

	report, err := scan.ExportFile(fixture("simple.php"))
	require.NoError(t, err)

	out := Text(report)

	assert.Contains(t, out, "File: "+report.FilePath)
	assert.Contains(t, out, "Constants (2):")
	assert.Contains(t, out, "Functions (1):")
	assert.Contains(t, out, "Interfaces (1):")
	assert.Contains(t, out, "Traits (1):")
	assert.Contains(t, out, "Classes (1):")

	assert.Contains(t, out, "MAX_RETRIES = 3 (int)")
	assert.Contains(t, out, "class Account implements Persistable uses Timestamped [final]")
	assert.Contains(t, out, "(from Persistable)")
	assert.Contains(t, out, "(from Timestamped)")
	assert.Contains(t, out, "Formats a greeting.")
}

func TestText_EmptyCategories(t *testing.T) {
	t.Parallel()

	report, err := scan.ExportFile(fixture("empty.php"))
	require.NoError(t, err)

	out := Text(report)

	assert.Contains(t, out, "Constants (0):")
	assert.Contains(t, out, "Classes (0):")
}

func TestText_Deterministic(t *testing.T) {
	t.Parallel()

	report, err := scan.ExportFile(fixture("simple.php"))
	require.NoError(t, err)

	assert.Equal(t, Text(report), Text(report))
}
