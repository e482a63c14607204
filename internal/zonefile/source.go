// Package zonefile is the thin collaborator boundary for the upstream
// zonefile archive source: it is out of the core's scope beyond this
// named interface, so this package only does enough to hand the
// build/daily pipelines a stream of raw lines.
package zonefile

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Source fetches a zonefile bundle (full snapshot or daily delta file)
// and returns a decompressed line reader.
type Source struct {
	httpClient *http.Client
	apiURL     string
	token      string
}

// New creates a Source against the ZONEFILE_API_URL endpoint, authorizing
// with ZONEFILE_TOKEN.
func New(apiURL, token string) *Source {
	return &Source{
		httpClient: &http.Client{},
		apiURL:     apiURL,
		token:      token,
	}
}

// Open downloads the archive named by path (relative to apiURL) and
// returns a ReadCloser of decompressed text — one domain per line.
// Compression is inferred from the path's extension (.gz or .zst);
// uncompressed archives are passed through unchanged.
func (s *Source) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	url := s.apiURL
	if path != "" {
		url = strings.TrimRight(s.apiURL, "/") + "/" + strings.TrimLeft(path, "/")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("zonefile: build request: %w", err)
	}
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("zonefile: download: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("zonefile: unexpected status %d", resp.StatusCode)
	}

	return decompress(path, resp.Body)
}

type gzipReadCloser struct {
	*gzip.Reader
	src io.Closer
}

func (g *gzipReadCloser) Close() error {
	err := g.Reader.Close()
	if cerr := g.src.Close(); err == nil {
		err = cerr
	}
	return err
}

type zstdReadCloser struct {
	*zstd.Decoder
	src io.Closer
}

func (z *zstdReadCloser) Close() error {
	z.Decoder.Close()
	return z.src.Close()
}

func (z *zstdReadCloser) Read(p []byte) (int, error) {
	return z.Decoder.Read(p)
}

func decompress(path string, r io.ReadCloser) (io.ReadCloser, error) {
	switch {
	case strings.HasSuffix(path, ".gz"):
		gz, err := gzip.NewReader(r)
		if err != nil {
			r.Close()
			return nil, fmt.Errorf("zonefile: gzip: %w", err)
		}
		return &gzipReadCloser{Reader: gz, src: r}, nil
	case strings.HasSuffix(path, ".zst"):
		dec, err := zstd.NewReader(r)
		if err != nil {
			r.Close()
			return nil, fmt.Errorf("zonefile: zstd: %w", err)
		}
		return &zstdReadCloser{Decoder: dec, src: r}, nil
	default:
		return r, nil
	}
}

// Lines returns a scanner over the decompressed stream, one raw line per
// call to Scan — consumed directly by label.Normalize in the build/daily
// pipelines.
func Lines(r io.Reader) *bufio.Scanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return sc
}
