package commands

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revlens-dev/revlens/internal/config"
	"github.com/revlens-dev/revlens/internal/logger"
	"github.com/revlens-dev/revlens/internal/model"
	"github.com/revlens-dev/revlens/internal/runlog"
	"github.com/revlens-dev/revlens/internal/validate"
)

func decFromString(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

const sampleFeed = `T001|2024-01-01|P101|Widget|5|100.00|C001|North
T002|2024-01-01|P102|Gadget|2|50.00|C002|South
T003|2024-01-02|P999|Hinge|1|10.00|C001|North
T004|2024-01-02|P103|Cable
X005|2024-01-02|P104|Cord|0|5.00|C003|South
`

// setupProject scaffolds a project dir with the sample feed and a
// config pointing at catalogURL.
func setupProject(t *testing.T, catalogURL string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, runInit(dir))

	cfg, err := config.Load(filepath.Join(dir, config.FileName))
	require.NoError(t, err)
	cfg.Catalog.URL = catalogURL
	cfg.Catalog.TimeoutSeconds = 2
	require.NoError(t, config.Save(filepath.Join(dir, config.FileName), cfg))

	feedPath := filepath.Join(dir, "data", "sales_data.txt")
	require.NoError(t, os.WriteFile(feedPath, []byte(sampleFeed), 0o644))
	return dir
}

func catalogServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"products":[
			{"id":101,"title":"Widget","category":"Electronics","brand":"Acme","rating":4.5},
			{"id":102,"title":"Gadget","category":"Accessories","brand":"Globex","rating":4.2}
		]}`)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRunAnalyze_EndToEnd(t *testing.T) {
	srv := catalogServer(t)
	dir := setupProject(t, srv.URL)

	var stdout bytes.Buffer
	log := logger.NewWithWriter(io.Discard)
	err := runAnalyze(dir, analyzeOptions{}, log, strings.NewReader(""), &stdout)
	require.NoError(t, err)

	// T004 dropped at parse (7 fields), X005 rejected at validation,
	// leaving 3 valid. P101 and P102 match the catalog, P999 does not.
	assert.Contains(t, stdout.String(), "Analyzed 3 transactions (2 matched against catalog)")

	enriched, err := os.ReadFile(filepath.Join(dir, "data", "enriched_sales_data.txt"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(enriched), "\n"), "\n")
	require.Len(t, lines, 4, "header plus three rows")
	assert.Equal(t, "T001|2024-01-01|P101|Widget|5|100.00|C001|North|Electronics|Acme|4.5|true", lines[1])
	assert.Equal(t, "T003|2024-01-02|P999|Hinge|1|10.00|C001|North||||false", lines[3])

	reportData, err := os.ReadFile(filepath.Join(dir, "output", "sales_report.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(reportData), "SALES ANALYTICS REPORT")
	assert.Contains(t, string(reportData), "Records Processed: 3")

	entries, err := runlog.Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 4, entries[0].Parsed, "parsed excludes the malformed line")
	assert.Equal(t, 1, entries[0].Skipped)
	assert.Equal(t, 1, entries[0].Invalid)
	assert.Equal(t, 3, entries[0].Final)
	assert.Equal(t, 2, entries[0].Matched)
}

func TestRunAnalyze_CatalogDownStillCompletes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // fetch will fail, pipeline must not

	dir := setupProject(t, srv.URL)

	var stdout bytes.Buffer
	log := logger.NewWithWriter(io.Discard)
	err := runAnalyze(dir, analyzeOptions{}, log, strings.NewReader(""), &stdout)
	require.NoError(t, err)

	assert.Contains(t, stdout.String(), "(0 matched against catalog)")

	enriched, err := os.ReadFile(filepath.Join(dir, "data", "enriched_sales_data.txt"))
	require.NoError(t, err)
	for _, line := range strings.Split(strings.TrimRight(string(enriched), "\n"), "\n")[1:] {
		assert.True(t, strings.HasSuffix(line, "||||false"), "line %q should be unmatched", line)
	}

	_, err = os.Stat(filepath.Join(dir, "output", "sales_report.txt"))
	assert.NoError(t, err, "report still written when catalog is down")
}

func TestRunAnalyze_RegionFilter(t *testing.T) {
	srv := catalogServer(t)
	dir := setupProject(t, srv.URL)

	var stdout bytes.Buffer
	log := logger.NewWithWriter(io.Discard)
	err := runAnalyze(dir, analyzeOptions{region: "North"}, log, strings.NewReader(""), &stdout)
	require.NoError(t, err)

	assert.Contains(t, stdout.String(), "Analyzed 2 transactions")
}

func TestRunAnalyze_MissingFeedIsFatal(t *testing.T) {
	srv := catalogServer(t)
	dir := setupProject(t, srv.URL)
	require.NoError(t, os.Remove(filepath.Join(dir, "data", "sales_data.txt")))

	log := logger.NewWithWriter(io.Discard)
	err := runAnalyze(dir, analyzeOptions{}, log, strings.NewReader(""), io.Discard)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "opening sales feed")
}

func TestCriteriaFromFlags(t *testing.T) {
	c, err := criteriaFromFlags(analyzeOptions{region: "North", minAmount: "100", maxAmount: "500.50"})
	require.NoError(t, err)
	assert.Equal(t, "North", c.Region)
	require.NotNil(t, c.MinAmount)
	require.NotNil(t, c.MaxAmount)
	assert.Equal(t, "100", c.MinAmount.String())
	assert.Equal(t, "500.5", c.MaxAmount.String())

	_, err = criteriaFromFlags(analyzeOptions{minAmount: "lots"})
	assert.Error(t, err)
}

func TestPromptCriteria(t *testing.T) {
	txns := []model.Transaction{
		{Region: "North", Quantity: 1, UnitPrice: decFromString("100")},
		{Region: "South", Quantity: 2, UnitPrice: decFromString("50")},
	}

	var out bytes.Buffer
	in := strings.NewReader("y\nNorth\n100\n\n")
	c, err := promptCriteria(in, &out, txns)
	require.NoError(t, err)

	assert.Equal(t, "North", c.Region)
	require.NotNil(t, c.MinAmount)
	assert.Equal(t, "100", c.MinAmount.String())
	assert.Nil(t, c.MaxAmount)

	assert.Contains(t, out.String(), "Regions: North, South")
	assert.Contains(t, out.String(), "Amount Range: 100.00 - 100.00")
}

func TestPromptCriteria_Declined(t *testing.T) {
	var out bytes.Buffer
	c, err := promptCriteria(strings.NewReader("n\n"), &out, nil)
	require.NoError(t, err)
	assert.Equal(t, validate.Criteria{}, c)
}
