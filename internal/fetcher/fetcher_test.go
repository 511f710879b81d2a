package fetcher

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = "key,en,fr\ngreeting,Hello,Bonjour\n"

func TestHTTPFetcher(t *testing.T) {
	t.Parallel()

	t.Run("writes the body verbatim", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(sampleCSV))
		}))
		defer srv.Close()

		var buf bytes.Buffer
		err := NewHTTPFetcher(srv.Client()).Fetch(context.Background(), srv.URL+"/sheet.csv", &buf)
		require.NoError(t, err)
		assert.Equal(t, sampleCSV, buf.String())
	})

	t.Run("rejects error status", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "gone", http.StatusNotFound)
		}))
		defer srv.Close()

		err := NewHTTPFetcher(nil).Fetch(context.Background(), srv.URL, io.Discard)
		require.ErrorIs(t, err, ErrBadStatus)
	})

	t.Run("honors context cancellation", func(t *testing.T) {
		t.Parallel()
		release := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}))
		defer srv.Close()
		defer close(release)

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		err := NewHTTPFetcher(nil).Fetch(ctx, srv.URL, io.Discard)
		require.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestLocalFetcher(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "table.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))

	for _, source := range []string{path, (&url.URL{Scheme: "file", Path: path}).String()} {
		var buf bytes.Buffer
		require.NoError(t, LocalFetcher{}.Fetch(context.Background(), source, &buf), source)
		assert.Equal(t, sampleCSV, buf.String())
	}

	err := LocalFetcher{}.Fetch(context.Background(), filepath.Join(t.TempDir(), "missing.csv"), io.Discard)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestRouter(t *testing.T) {
	t.Parallel()

	var got []string
	record := func(name string) Fetcher {
		return FetcherFunc(func(ctx context.Context, source string, w io.Writer) error {
			got = append(got, name)
			return nil
		})
	}

	r := NewRouter().
		Handle(record("http"), "http", "https").
		Handle(record("local"), "file")

	ctx := context.Background()
	require.NoError(t, r.Fetch(ctx, "HTTPS://example.com/x.csv", io.Discard))
	require.NoError(t, r.Fetch(ctx, "/tmp/x.csv", io.Discard))
	require.NoError(t, r.Fetch(ctx, `C:\data\x.csv`, io.Discard))

	err := r.Fetch(ctx, "ftp://example.com/x.csv", io.Discard)
	require.ErrorIs(t, err, ErrUnsupportedScheme)

	assert.Equal(t, []string{"http", "local", "local"}, got)
}

func TestDownload(t *testing.T) {
	t.Parallel()

	t.Run("overwrites destination", func(t *testing.T) {
		t.Parallel()
		dst := filepath.Join(t.TempDir(), "scratch", "lang.csv")
		require.NoError(t, os.MkdirAll(filepath.Dir(dst), 0o755))
		require.NoError(t, os.WriteFile(dst, []byte(strings.Repeat("stale,", 100)), 0o644))

		src := FetcherFunc(func(ctx context.Context, source string, w io.Writer) error {
			_, err := io.WriteString(w, sampleCSV)
			return err
		})

		require.NoError(t, Download(context.Background(), src, "https://example.com/t.csv", dst))

		data, err := os.ReadFile(dst)
		require.NoError(t, err)
		assert.Equal(t, sampleCSV, string(data))
	})

	t.Run("removes partial file on failure", func(t *testing.T) {
		t.Parallel()
		dst := filepath.Join(t.TempDir(), "lang.csv")
		boom := errors.New("connection reset")

		src := FetcherFunc(func(ctx context.Context, source string, w io.Writer) error {
			io.WriteString(w, "key,en\npartial")
			return boom
		})

		err := Download(context.Background(), src, "https://example.com/t.csv", dst)
		require.ErrorIs(t, err, boom)
		assert.NoFileExists(t, dst)
	})

	t.Run("empty source", func(t *testing.T) {
		t.Parallel()
		err := Download(context.Background(), LocalFetcher{}, "", filepath.Join(t.TempDir(), "x"))
		require.ErrorIs(t, err, ErrEmptySource)
	})
}

func TestWithCacheBust(t *testing.T) {
	t.Parallel()

	now := time.UnixMilli(1700000000123)

	busted := WithCacheBust("https://docs.google.com/spreadsheets/d/abc/pub?output=csv", now)
	u, err := url.Parse(busted)
	require.NoError(t, err)
	assert.Equal(t, "csv", u.Query().Get("output"))
	assert.Equal(t, "1700000000123", u.Query().Get("_timestamp"))

	assert.Equal(t, "s3://bucket/t.csv", WithCacheBust("s3://bucket/t.csv", now))
	assert.Equal(t, "./t.csv", WithCacheBust("./t.csv", now))
}

type fakeGetter struct {
	input *s3.GetObjectInput
	body  string
	err   error
}

func (f *fakeGetter) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.input = in
	if f.err != nil {
		return nil, f.err
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(f.body))}, nil
}

func TestS3Fetcher(t *testing.T) {
	t.Parallel()

	t.Run("reads object", func(t *testing.T) {
		t.Parallel()
		getter := &fakeGetter{body: sampleCSV}
		var buf bytes.Buffer

		err := (&S3Fetcher{client: getter}).Fetch(context.Background(), "s3://i18n-bucket/app/table.csv", &buf)
		require.NoError(t, err)
		assert.Equal(t, sampleCSV, buf.String())
		assert.Equal(t, "i18n-bucket", *getter.input.Bucket)
		assert.Equal(t, "app/table.csv", *getter.input.Key)
	})

	t.Run("propagates client errors", func(t *testing.T) {
		t.Parallel()
		boom := errors.New("access denied")
		err := (&S3Fetcher{client: &fakeGetter{err: boom}}).Fetch(context.Background(), "s3://b/k.csv", io.Discard)
		require.ErrorIs(t, err, boom)
	})

	t.Run("constructs a real client", func(t *testing.T) {
		t.Parallel()
		f := NewS3Fetcher(S3Config{Region: "eu-west-1", Endpoint: "http://localhost:9000", PathStyle: true})
		require.NotNil(t, f.client)
	})
}

func TestParseS3URL(t *testing.T) {
	t.Parallel()

	bucket, key, err := ParseS3URL("s3://bucket/dir/file.xlsx")
	require.NoError(t, err)
	assert.Equal(t, "bucket", bucket)
	assert.Equal(t, "dir/file.xlsx", key)

	for _, bad := range []string{"s3://bucket", "s3:///key", "https://bucket/key"} {
		_, _, err := ParseS3URL(bad)
		require.ErrorIs(t, err, ErrInvalidS3URL, bad)
	}
}
