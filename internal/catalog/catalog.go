package catalog

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/tuannm99/tupledesc/internal/record"
)

var (
	ErrTableNotFound = errors.New("catalog: table not found")
	ErrInvalidTable  = errors.New("catalog: invalid table")
	ErrBadVersion    = errors.New("catalog: unsupported file version")
)

// Catalog tracks the tables of a database and their schemas. Descriptors are
// immutable and shared; the catalog only guards its own maps.
type Catalog struct {
	mu     sync.RWMutex
	byID   map[uuid.UUID]*TableMeta
	byName map[string]uuid.UUID
}

func New() *Catalog {
	return &Catalog{
		byID:   make(map[uuid.UUID]*TableMeta),
		byName: make(map[string]uuid.UUID),
	}
}

// AddTable registers a table. A table with the same name is replaced.
// pkey may be empty; otherwise it must name a field of desc.
func (c *Catalog) AddTable(name string, desc *record.TupleDesc, pkey string) (uuid.UUID, error) {
	if strings.TrimSpace(name) == "" || desc == nil {
		return uuid.Nil, fmt.Errorf("%w: name=%q desc=%v", ErrInvalidTable, name, desc)
	}
	if err := desc.Validate(); err != nil {
		return uuid.Nil, fmt.Errorf("table %s: %w", name, err)
	}
	if pkey != "" {
		if _, err := desc.FieldNameToIndex(pkey); err != nil {
			return uuid.Nil, fmt.Errorf("primary key of %s: %w", name, err)
		}
	}

	meta := &TableMeta{
		ID:         uuid.New(),
		Name:       name,
		Desc:       desc,
		PrimaryKey: pkey,
		CreatedAt:  time.Now().UTC(),
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if old, ok := c.byName[name]; ok {
		slog.Info("catalog: replacing table", "name", name, "old_id", old, "new_id", meta.ID)
		delete(c.byID, old)
	}
	c.put(meta)
	return meta.ID, nil
}

func (c *Catalog) put(meta *TableMeta) {
	c.byID[meta.ID] = meta
	c.byName[meta.Name] = meta.ID
}

func (c *Catalog) lookup(id uuid.UUID) (*TableMeta, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %s", ErrTableNotFound, id)
	}
	return m, nil
}

func (c *Catalog) TableID(name string) (uuid.UUID, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	id, ok := c.byName[name]
	if !ok {
		return uuid.Nil, fmt.Errorf("%w: %q", ErrTableNotFound, name)
	}
	return id, nil
}

func (c *Catalog) TupleDesc(id uuid.UUID) (*record.TupleDesc, error) {
	m, err := c.lookup(id)
	if err != nil {
		return nil, err
	}
	return m.Desc, nil
}

func (c *Catalog) TableName(id uuid.UUID) (string, error) {
	m, err := c.lookup(id)
	if err != nil {
		return "", err
	}
	return m.Name, nil
}

func (c *Catalog) PrimaryKey(id uuid.UUID) (string, error) {
	m, err := c.lookup(id)
	if err != nil {
		return "", err
	}
	return m.PrimaryKey, nil
}

// Tables returns a snapshot sorted by name.
func (c *Catalog) Tables() []TableMeta {
	c.mu.RLock()
	out := make([]TableMeta, 0, len(c.byID))
	for _, m := range c.byID {
		out = append(out, *m)
	}
	c.mu.RUnlock()

	slices.SortFunc(out, func(a, b TableMeta) int { return strings.Compare(a.Name, b.Name) })
	return out
}

func (c *Catalog) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.byID)
	clear(c.byName)
}

// Save writes the catalog as JSON, replacing path atomically.
func (c *Catalog) Save(path string) error {
	data, err := json.MarshalIndent(file{Version: fileVersion, Tables: c.Tables()}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal catalog: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Load replaces the catalog contents with the tables saved at path.
func (c *Catalog) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var f file
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("unmarshal catalog %s: %w", path, err)
	}
	return c.replace(f, path)
}

// LoadYAML is Load for catalogs written by ExportYAML or by hand.
func (c *Catalog) LoadYAML(r io.Reader) error {
	var f file
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		return fmt.Errorf("decode yaml catalog: %w", err)
	}
	return c.replace(f, "yaml")
}

func (c *Catalog) replace(f file, src string) error {
	if f.Version != fileVersion {
		return fmt.Errorf("%w: %d", ErrBadVersion, f.Version)
	}
	names := make(map[string]struct{}, len(f.Tables))
	ids := make(map[uuid.UUID]struct{}, len(f.Tables))
	for i, m := range f.Tables {
		if m.Name == "" || m.Desc == nil {
			return fmt.Errorf("%w: entry %d", ErrInvalidTable, i)
		}
		if _, dup := names[m.Name]; dup {
			return fmt.Errorf("%w: duplicate name %q", ErrInvalidTable, m.Name)
		}
		names[m.Name] = struct{}{}
		if m.ID == uuid.Nil {
			continue
		}
		if _, dup := ids[m.ID]; dup {
			return fmt.Errorf("%w: duplicate id %s", ErrInvalidTable, m.ID)
		}
		ids[m.ID] = struct{}{}
	}
	for i := range f.Tables {
		if f.Tables[i].ID == uuid.Nil {
			f.Tables[i].ID = uuid.New()
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.byID)
	clear(c.byName)
	for i := range f.Tables {
		c.put(&f.Tables[i])
	}
	slog.Info("catalog: loaded", "source", src, "tables", len(f.Tables))
	return nil
}

// ExportYAML writes the catalog in the same layout as Save, as YAML.
func (c *Catalog) ExportYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(file{Version: fileVersion, Tables: c.Tables()}); err != nil {
		return err
	}
	return enc.Close()
}
