package converter

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/langcsv/internal/config"
	"github.com/ginjaninja78/langcsv/internal/fetcher"
	"github.com/ginjaninja78/langcsv/internal/logging"
	"github.com/ginjaninja78/langcsv/internal/validation"
)

const tableCSV = "key,en,fr\n" +
	"greeting,Hello,Bonjour\n" +
	"farewell,Goodbye,\n"

type lineRecorder struct {
	mu    sync.Mutex
	lines []string
}

func (r *lineRecorder) Line(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, msg)
}

// testOptions writes csv to a temp file and returns options reading it.
func testOptions(t *testing.T, csv string) *config.Options {
	t.Helper()

	dir := t.TempDir()
	src := filepath.Join(dir, "table.csv")
	require.NoError(t, os.WriteFile(src, []byte(csv), 0o644))

	return &config.Options{
		FilePath:    src,
		ScratchPath: filepath.Join(dir, "scratch", "lang.csv"),
		Dest:        filepath.Join(dir, "out") + "/",
		ColumnKey:   "key",
		ColumnValue: []string{"en", "fr"},
	}
}

func readJSON(t *testing.T, path string) map[string]string {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var out map[string]string
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func TestRunWritesOneJSONPerLanguage(t *testing.T) {
	t.Parallel()

	opts := testOptions(t, tableCSV)
	var calls int
	opts.OnComplete = func() { calls++ }

	liner := &lineRecorder{}
	report, err := New(opts, WithLogger(logging.Nope()), WithLiner(liner)).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Equal(t, []string{opts.Dest + "en.json", opts.Dest + "fr.json"}, report.Written)
	assert.Len(t, liner.lines, 2)

	assert.Equal(t, map[string]string{"greeting": "Hello", "farewell": "Goodbye"}, readJSON(t, opts.Dest+"en.json"))
	assert.Equal(t, map[string]string{"greeting": "Bonjour", "farewell": "Goodbye"}, readJSON(t, opts.Dest+"fr.json"))

	entries, err := os.ReadDir(opts.Dest)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestRunAllFormats(t *testing.T) {
	t.Parallel()

	opts := testOptions(t, "key,en,fr\ntitle,The &quot;Guide&quot;,\ngone,Gone,**NO_TRANSLATIONS**\n")
	opts.ColumnValue = []string{"fr"}
	opts.Output = []string{"json", "strings", "yml", "xml", "liquid", "json"}
	opts.OutputName = "app-"

	var calls int
	opts.OnComplete = func() { calls++ }

	report, err := New(opts, WithLogger(logging.Nope())).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 5, report.Expected)

	read := func(name string) string {
		data, err := os.ReadFile(opts.Dest + name)
		require.NoError(t, err, name)
		return string(data)
	}

	assert.Equal(t, "{\n  \"title\": \"The \\\"Guide\\\"\",\n  \"gone\": \"\"\n}", read("app-fr.json"))
	assert.Equal(t, "\"title\" = \"The \\\"Guide\\\"\";\n\"gone\" = \"\";\n", read("app-fr.lproj/Localizable.strings"))
	assert.Equal(t, "fr:\n  title: \"The \\\"Guide\\\"\"\n  gone: \"\"\n", read("app-fr.yml"))
	assert.Equal(t,
		"<resources>\n"+
			"    <string name=\"title\">The &quot;Guide&quot;</string>\n"+
			"    <string name=\"gone\"></string>\n"+
			"</resources>\n",
		read("app-values-fr/strings.xml"))
	assert.Equal(t, "{% assign title = \"The \\\"Guide\\\"\" %}\n{% assign gone = \"\" %}\n", read("app-fr.liquid"))
}

func TestRunCallbackAfterAllWrites(t *testing.T) {
	t.Parallel()

	opts := testOptions(t, tableCSV)
	opts.Output = []string{"json", "yml"}

	var seen int
	opts.OnComplete = func() {
		entries, err := os.ReadDir(opts.Dest)
		require.NoError(t, err)
		seen = len(entries)
	}

	report, err := New(opts, WithLogger(logging.Nope())).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, report.Expected)
	assert.Equal(t, 4, seen)
}

func TestRunCacheBust(t *testing.T) {
	t.Parallel()

	var (
		mu      sync.Mutex
		queries []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		queries = append(queries, r.URL.RawQuery)
		mu.Unlock()
		io.WriteString(w, tableCSV)
	}))
	defer srv.Close()

	now := func() time.Time { return time.UnixMilli(1700000000000) }

	opts := testOptions(t, "")
	opts.FilePath = srv.URL + "/pub?output=csv"
	_, err := New(opts, WithLogger(logging.Nope()), WithClock(now)).Run(context.Background())
	require.NoError(t, err)

	opts.DisableCacheBust = true
	_, err = New(opts, WithLogger(logging.Nope()), WithClock(now)).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"_timestamp=1700000000000&output=csv", "output=csv"}, queries)
}

func TestRunFetchFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	opts := testOptions(t, "")
	opts.FilePath = srv.URL
	var calls int
	opts.OnComplete = func() { calls++ }

	report, err := New(opts, WithLogger(logging.Nope())).Run(context.Background())
	require.ErrorIs(t, err, fetcher.ErrBadStatus)
	assert.Nil(t, report)
	assert.Zero(t, calls)
	assert.NoFileExists(t, opts.ScratchPath)
	assert.NoFileExists(t, opts.Dest+"en.json")
}

func TestRunFetchTimeout(t *testing.T) {
	t.Parallel()

	opts := testOptions(t, "")
	opts.FilePath = "https://example.com/table.csv"
	opts.FetchTimeout = 20 * time.Millisecond

	slow := fetcher.FetcherFunc(func(ctx context.Context, source string, w io.Writer) error {
		<-ctx.Done()
		return ctx.Err()
	})

	_, err := New(opts, WithLogger(logging.Nope()), WithFetcher(slow)).Run(context.Background())
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRunInvalidOptions(t *testing.T) {
	t.Parallel()

	opts := testOptions(t, tableCSV)
	opts.Output = []string{"json", "csv"}

	called := false
	f := fetcher.FetcherFunc(func(ctx context.Context, source string, w io.Writer) error {
		called = true
		return nil
	})

	_, err := New(opts, WithLogger(logging.Nope()), WithFetcher(f)).Run(context.Background())
	require.ErrorIs(t, err, validation.ErrInvalidOptions)
	assert.False(t, called)
}

func TestRunWriteFailure(t *testing.T) {
	t.Parallel()

	opts := testOptions(t, tableCSV)
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))
	opts.Dest = blocker + "/"

	var calls int
	opts.OnComplete = func() { calls++ }

	report, err := New(opts, WithLogger(logging.Nope())).Run(context.Background())
	require.Error(t, err)
	require.NotNil(t, report)
	assert.Zero(t, calls)
	assert.Len(t, report.Failures, 2)
	assert.Empty(t, report.Written)
	assert.ErrorIs(t, err, report.Failures[0].Err)
}

func TestRunXLSXSource(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "table.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for i, row := range [][]any{
		{"key", "en", "fr"},
		{"greeting", "Hello", "Bonjour"},
		{"count", 3, ""},
	} {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	require.NoError(t, f.SaveAs(src))
	require.NoError(t, f.Close())

	opts := &config.Options{
		FilePath:    src,
		ScratchPath: filepath.Join(dir, "scratch", "lang.xlsx"),
		Dest:        filepath.Join(dir, "out") + "/",
		ColumnKey:   "key",
		ColumnValue: []string{"fr"},
	}

	c := New(opts, WithLogger(logging.Nope()))
	assert.Equal(t, "xlsx", string(c.Options().SourceFormat))

	_, err := c.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"greeting": "Bonjour", "count": "3"}, readJSON(t, opts.Dest+"fr.json"))
}

func TestRunDebugLevels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		level int
		want  string
	}{
		{1, "==== data (2 rows) ===="},
		{2, "=> fr farewell Goodbye\n"},
		{3, "==== fr ====\n{\n  \"greeting\": \"Bonjour\""},
	}

	for _, tt := range tests {
		opts := testOptions(t, tableCSV)
		opts.Debug = tt.level

		var out bytes.Buffer
		_, err := New(opts, WithLogger(logging.Nope()), WithDebugOutput(&out)).Run(context.Background())
		require.NoError(t, err)
		assert.Contains(t, out.String(), tt.want, "level %d", tt.level)
	}

	opts := testOptions(t, tableCSV)
	var out bytes.Buffer
	_, err := New(opts, WithLogger(logging.Nope()), WithDebugOutput(&out)).Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, out.String())
}

func TestNewCopiesOptions(t *testing.T) {
	t.Parallel()

	opts := &config.Options{FilePath: "https://example.com/t.csv", ColumnKey: "key"}
	c := New(opts, WithLogger(logging.Nope()))

	assert.Empty(t, opts.Output)
	assert.Equal(t, []string{"json"}, c.Options().Output)
	assert.NotEmpty(t, c.RunID())
}

func TestRunNoLanguages(t *testing.T) {
	t.Parallel()

	opts := testOptions(t, tableCSV)
	opts.ColumnValue = nil
	var calls int
	opts.OnComplete = func() { calls++ }

	report, err := New(opts, WithLogger(logging.Nope())).Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, report.Expected)
	assert.Equal(t, 1, calls)
}
