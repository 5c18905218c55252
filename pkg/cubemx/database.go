package cubemx

import (
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"
)

const (
	docExt = ".xml.gz"
	mcuDir = "mcu"
	ipDir  = "IP"
)

// Database gives access to a CubeMX database directory.
type Database struct {
	root   string
	logger *zap.Logger
}

// Option configures a Database.
type Option func(*Database)

// WithLogger sets the logger used to trace document loading.
func WithLogger(logger *zap.Logger) Option {
	return func(db *Database) {
		if logger != nil {
			db.logger = logger
		}
	}
}

// Open checks that root looks like a CubeMX database (it has an mcu
// directory) and returns a handle on it.
func Open(root string, opts ...Option) (*Database, error) {
	db := &Database{root: root, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(db)
	}
	info, err := os.Stat(filepath.Join(root, mcuDir))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("cubemx: open %s: %w", root, ErrNotFound)
		}
		return nil, fmt.Errorf("cubemx: open %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("cubemx: open %s: %s is not a directory: %w", root, mcuDir, ErrNotFound)
	}
	return db, nil
}

// Root returns the database directory.
func (db *Database) Root() string {
	return db.root
}

// ListParts returns the sorted names of all parts whose name matches the
// regular expression pattern.
func (db *Database) ListParts(pattern string) ([]string, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("cubemx: invalid part pattern: %w", err)
	}
	parts, err := db.allParts()
	if err != nil {
		return nil, err
	}
	var matches []string
	for _, part := range parts {
		if re.MatchString(part) {
			matches = append(matches, part)
		}
	}
	return matches, nil
}

// allParts lists the part documents directly under mcu/. The IP
// subdirectory is skipped.
func (db *Database) allParts() ([]string, error) {
	dir := filepath.Join(db.root, mcuDir)
	var parts []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if path != dir {
				return fs.SkipDir
			}
			return nil
		}
		if part, ok := partName(d.Name()); ok {
			parts = append(parts, part)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("cubemx: list %s: %w", dir, err)
	}
	sort.Strings(parts)
	return parts, nil
}

func partName(filename string) (string, bool) {
	if !strings.HasSuffix(filename, docExt) || len(filename) == len(docExt) {
		return "", false
	}
	return strings.TrimSuffix(filename, docExt), true
}

// ReadDocument reads and decompresses the document at rel, a path relative
// to the database root.
func (db *Database) ReadDocument(rel string) ([]byte, error) {
	path := filepath.Join(db.root, rel)
	db.logger.Debug("reading document", zap.String("path", path))

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("cubemx: read %s: %w", rel, ErrNotFound)
		}
		return nil, fmt.Errorf("cubemx: read %s: %w", rel, err)
	}
	defer file.Close()

	gz, err := gzip.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("cubemx: read %s: %w: %v", rel, ErrDecompression, err)
	}
	defer gz.Close()

	data, err := io.ReadAll(gz)
	if err != nil {
		return nil, fmt.Errorf("cubemx: read %s: %w: %v", rel, ErrDecompression, err)
	}
	db.logger.Debug("document decompressed",
		zap.String("path", path),
		zap.Int("bytes", len(data)))
	return data, nil
}

// LoadPart reads a part and its GPIO modes document and returns the
// resolved model.
func (db *Database) LoadPart(name string) (*Part, error) {
	resolved, err := db.resolvePart(name)
	if err != nil {
		return nil, err
	}
	rel := filepath.Join(mcuDir, resolved+docExt)
	data, err := db.ReadDocument(rel)
	if err != nil {
		return nil, err
	}
	part, err := ParsePart(resolved, data)
	if err != nil {
		return nil, fmt.Errorf("cubemx: parse %s: %w", rel, err)
	}

	modesRel := filepath.Join(mcuDir, ipDir, "GPIO-"+part.GPIOVersion+"_Modes"+docExt)
	data, err = db.ReadDocument(modesRel)
	if err != nil {
		return nil, err
	}
	modes, err := ParseGPIOModes(data)
	if err != nil {
		return nil, fmt.Errorf("cubemx: parse %s: %w", modesRel, err)
	}
	part.ApplyGPIOModes(modes)

	db.logger.Debug("part loaded",
		zap.String("part", part.Name),
		zap.Stringer("mode", part.Mode),
		zap.Int("pins", len(part.Pins)))
	return part, nil
}

// resolvePart maps a user supplied part name to a database file stem. An
// exact match wins; otherwise a unique case-insensitive match is accepted.
func (db *Database) resolvePart(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("cubemx: empty part name: %w", ErrNotFound)
	}
	exact := filepath.Join(db.root, mcuDir, name+docExt)
	if _, err := os.Stat(exact); err == nil {
		return name, nil
	}

	parts, err := db.allParts()
	if err != nil {
		return "", err
	}
	var candidates []string
	for _, part := range parts {
		if strings.EqualFold(part, name) {
			candidates = append(candidates, part)
		}
	}
	switch len(candidates) {
	case 0:
		return "", fmt.Errorf("cubemx: part %s: %w", name, ErrNotFound)
	case 1:
		db.logger.Debug("resolved part name",
			zap.String("requested", name),
			zap.String("resolved", candidates[0]))
		return candidates[0], nil
	default:
		return "", fmt.Errorf("cubemx: part %s is ambiguous (%s): %w",
			name, strings.Join(candidates, ", "), ErrNotFound)
	}
}
