// Package store persists fetched eCFR datasets as JSON fixtures on disk and
// keeps per-dataset bookkeeping (when it was fetched, how large it is).
// The engine never touches the filesystem; everything it analyzes is loaded
// through this package.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/regscope/regscope/internal/model"
)

const (
	titlesFile   = "titles.json"
	agenciesFile = "agencies.json"
	metadataFile = "metadata.json"
)

// ErrNotFound is returned when a requested fixture has not been fetched yet
var ErrNotFound = errors.New("fixture not found")

// nowFunc is the clock used for bookkeeping (injectable for tests)
var nowFunc = time.Now

// DatasetInfo records the bookkeeping for one persisted dataset
type DatasetInfo struct {
	FetchedAt time.Time `json:"fetched_at"`
	SizeBytes int       `json:"size_bytes"`
}

// Metadata maps dataset names ("titles", "agencies", "structure-17") to
// their bookkeeping records
type Metadata struct {
	Datasets map[string]DatasetInfo `json:"datasets"`
}

// Store reads and writes fixtures under a single data directory
type Store struct {
	dir string
}

// New creates a store rooted at dir; the directory is created on first write
func New(dir string) *Store {
	return &Store{dir: dir}
}

// SaveTitles persists the title registry
func (s *Store) SaveTitles(titles []model.TitleEntry) error {
	return s.save(titlesFile, "titles", titles)
}

// LoadTitles loads the title registry
func (s *Store) LoadTitles() ([]model.TitleEntry, error) {
	var titles []model.TitleEntry
	if err := s.load(titlesFile, &titles); err != nil {
		return nil, err
	}
	return titles, nil
}

// SaveAgencies persists the agency forest
func (s *Store) SaveAgencies(agencies []*model.Agency) error {
	return s.save(agenciesFile, "agencies", agencies)
}

// LoadAgencies loads the agency forest
func (s *Store) LoadAgencies() ([]*model.Agency, error) {
	var agencies []*model.Agency
	if err := s.load(agenciesFile, &agencies); err != nil {
		return nil, err
	}
	return agencies, nil
}

// SaveStructure persists one title's structure tree
func (s *Store) SaveStructure(number int, root *model.StructureNode) error {
	name := structureName(number)
	return s.save(name+".json", name, root)
}

// LoadStructure loads one title's structure tree
func (s *Store) LoadStructure(number int) (*model.StructureNode, error) {
	var root model.StructureNode
	if err := s.load(structureName(number)+".json", &root); err != nil {
		return nil, err
	}
	return &root, nil
}

// ListStructures returns the title numbers with a persisted structure
// fixture, ascending
func (s *Store) ListStructures() ([]int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read data dir: %w", err)
	}

	var numbers []int
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, "structure-") || !strings.HasSuffix(name, ".json") {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(name, "structure-"), ".json"))
		if err != nil {
			continue
		}
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)
	return numbers, nil
}

// Metadata returns the bookkeeping for all persisted datasets. A store that
// has never been written reports an empty record.
func (s *Store) Metadata() (*Metadata, error) {
	meta := &Metadata{Datasets: make(map[string]DatasetInfo)}
	err := s.load(metadataFile, meta)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if meta.Datasets == nil {
		meta.Datasets = make(map[string]DatasetInfo)
	}
	return meta, nil
}

// save writes a fixture via temp file + rename and updates the bookkeeping
func (s *Store) save(file, dataset string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", dataset, err)
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	path := filepath.Join(s.dir, file)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", dataset, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename %s: %w", dataset, err)
	}

	return s.record(dataset, len(data))
}

// load reads and unmarshals a fixture
func (s *Store) load(file string, v interface{}) error {
	data, err := os.ReadFile(filepath.Join(s.dir, file))
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%s: %w", file, ErrNotFound)
		}
		return fmt.Errorf("read %s: %w", file, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("unmarshal %s: %w", file, err)
	}
	return nil
}

// record updates the metadata entry for one dataset
func (s *Store) record(dataset string, size int) error {
	meta, err := s.Metadata()
	if err != nil {
		return err
	}
	meta.Datasets[dataset] = DatasetInfo{
		FetchedAt: nowFunc().UTC(),
		SizeBytes: size,
	}

	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, metadataFile), data, 0644); err != nil {
		return fmt.Errorf("write metadata: %w", err)
	}
	return nil
}

func structureName(number int) string {
	return fmt.Sprintf("structure-%d", number)
}
