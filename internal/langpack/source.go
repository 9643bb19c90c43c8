package langpack

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"
)

//go:embed data/*.yaml
var builtin embed.FS

// Source fetches a named resource such as "rules_us.yaml".
type Source interface {
	Fetch(ctx context.Context, name string) ([]byte, error)
}

// Lister is implemented by sources that can enumerate their languages.
type Lister interface {
	Languages() ([]string, error)
}

// FSSource reads resources from a file system.
type FSSource struct {
	fsys fs.FS
}

// Embedded returns the language packs compiled into the binary.
func Embedded() *FSSource {
	sub, err := fs.Sub(builtin, "data")
	if err != nil {
		panic(err)
	}
	return &FSSource{fsys: sub}
}

// Dir reads resources from a directory on disk.
func Dir(path string) *FSSource {
	return &FSSource{fsys: os.DirFS(path)}
}

// FromFS wraps an arbitrary file system.
func FromFS(fsys fs.FS) *FSSource {
	return &FSSource{fsys: fsys}
}

func (s *FSSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return fs.ReadFile(s.fsys, name)
}

// Languages lists the codes that have a rules resource.
func (s *FSSource) Languages() ([]string, error) {
	matches, err := fs.Glob(s.fsys, "rules_*.yaml")
	if err != nil {
		return nil, err
	}
	var langs []string
	for _, m := range matches {
		langs = append(langs, strings.TrimSuffix(strings.TrimPrefix(m, "rules_"), ".yaml"))
	}
	sort.Strings(langs)
	return langs, nil
}

// HTTPSource fetches resources relative to a base URL.
type HTTPSource struct {
	baseURL string
	client  *http.Client
}

// HTTP creates a source that GETs <baseURL>/<name>.
func HTTP(baseURL string) *HTTPSource {
	return &HTTPSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *HTTPSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/"+name, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("fetch %s: status %d: %s", name, resp.StatusCode, strings.TrimSpace(string(b)))
	}
	return io.ReadAll(resp.Body)
}

// Languages lists the languages of src, or an error if src cannot list them.
func Languages(src Source) ([]string, error) {
	l, ok := src.(Lister)
	if !ok {
		return nil, errors.New("source cannot list languages")
	}
	return l.Languages()
}
