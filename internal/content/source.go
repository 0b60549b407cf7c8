package content

import (
	"context"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/questforge/progression-api/internal/errors"
)

// Source supplies the content catalog. The two variants, Remote and
// Static, present the same shape so callers never feature-detect:
// remote server config when the sync layer has it, bundled static
// files otherwise.
type Source interface {
	// Load returns the current catalog snapshot
	Load(ctx context.Context) (*Catalog, error)

	// Name identifies the source for logging
	Name() string
}

// StaticSource reads catalog YAML files bundled with the binary.
// Missing files are not an error: the catalog is allowed to be
// partially loaded and consumers fall back to procedural generation.
type StaticSource struct {
	dir string
}

// Catalog file names under the content directory
const (
	equipmentFile = "equipment.yaml"
	affixesFile   = "affixes.yaml"
	cardsFile     = "cards.yaml"
)

// NewStaticSource creates a source reading from the given directory
func NewStaticSource(dir string) (*StaticSource, error) {
	if dir == "" {
		return nil, errors.InvalidArgument("content directory is required")
	}
	return &StaticSource{dir: dir}, nil
}

// Name identifies the source for logging
func (s *StaticSource) Name() string { return "static" }

// Load reads and parses all catalog files present in the directory
func (s *StaticSource) Load(_ context.Context) (*Catalog, error) {
	catalog := Empty()

	if err := readYAML(filepath.Join(s.dir, equipmentFile), &catalog.Equipment); err != nil {
		return nil, errors.Wrapf(err, "failed to load %s", equipmentFile)
	}
	if err := readYAML(filepath.Join(s.dir, affixesFile), &catalog.Affixes); err != nil {
		return nil, errors.Wrapf(err, "failed to load %s", affixesFile)
	}
	if err := readYAML(filepath.Join(s.dir, cardsFile), &catalog.Cards); err != nil {
		return nil, errors.Wrapf(err, "failed to load %s", cardsFile)
	}

	return catalog, nil
}

// readYAML decodes one catalog file into out, treating a missing file
// as empty content
func readYAML(path string, out interface{}) error {
	data, err := os.ReadFile(path) // #nosec G304 -- path is operator-configured
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return yaml.Unmarshal(data, out)
}

// FetchFunc obtains a catalog from the remote config collaborator
type FetchFunc func(ctx context.Context) (*Catalog, error)

// RemoteSource wraps server-synced catalog data. The core never talks
// to the network itself; the surrounding application hands it a fetch
// function over already-synced state.
type RemoteSource struct {
	fetch FetchFunc
}

// NewRemoteSource creates a source backed by the given fetch function
func NewRemoteSource(fetch FetchFunc) (*RemoteSource, error) {
	if fetch == nil {
		return nil, errors.InvalidArgument("fetch function is required")
	}
	return &RemoteSource{fetch: fetch}, nil
}

// Name identifies the source for logging
func (s *RemoteSource) Name() string { return "remote" }

// Load returns the remote catalog snapshot
func (s *RemoteSource) Load(ctx context.Context) (*Catalog, error) {
	catalog, err := s.fetch(ctx)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "remote catalog fetch failed")
	}
	if catalog == nil {
		catalog = Empty()
	}
	return catalog, nil
}

// FallbackSource tries a primary source and falls back to a secondary
// when the primary fails or returns an empty catalog. The usual wiring
// is remote-first with the static bundle as a safety net.
type FallbackSource struct {
	primary  Source
	fallback Source
}

// NewFallbackSource chains two sources
func NewFallbackSource(primary, fallback Source) (*FallbackSource, error) {
	if primary == nil || fallback == nil {
		return nil, errors.InvalidArgument("both primary and fallback sources are required")
	}
	return &FallbackSource{primary: primary, fallback: fallback}, nil
}

// Name identifies the source for logging
func (s *FallbackSource) Name() string {
	return s.primary.Name() + "+" + s.fallback.Name()
}

// Load returns the primary catalog, or the fallback's when the primary
// fails or is empty
func (s *FallbackSource) Load(ctx context.Context) (*Catalog, error) {
	catalog, err := s.primary.Load(ctx)
	if err == nil && (len(catalog.Equipment) > 0 || len(catalog.Affixes) > 0 || len(catalog.Cards) > 0) {
		return catalog, nil
	}
	return s.fallback.Load(ctx)
}
