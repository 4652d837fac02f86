package dataset

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"agridash/config"
)

// Category names one of the raw dataset families.
type Category string

const (
	CategoryRainfall   Category = "rainfall"
	CategoryAirQuality Category = "air_quality"
	CategoryCrop       Category = "crop"
)

const rainfallSubdir = "rainfall"

// Loader reads raw dataset files into tables. It holds no mutable state
// beyond the optional table cache, and tables are immutable, so one Loader
// is shared by all requests.
type Loader struct {
	dir            string
	airQualityFile string
	cache          *cache.Cache
	log            *zap.Logger
}

func NewLoader(cfg *config.Data, log *zap.Logger) *Loader {
	l := &Loader{
		dir:            cfg.Dir,
		airQualityFile: cfg.AirQualityFile,
		log:            log.Named("loader"),
	}
	if cfg.Cache {
		// source files are static, so entries never expire
		l.cache = cache.New(cache.NoExpiration, 0)
	}
	return l
}

// Load returns the table for one category.
func (l *Loader) Load(ctx context.Context, cat Category) (*Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if l.cache != nil {
		if t, ok := l.cache.Get(string(cat)); ok {
			return t.(*Table), nil
		}
	}
	var (
		t   *Table
		err error
	)
	switch cat {
	case CategoryRainfall:
		t, err = l.loadRainfall()
	case CategoryAirQuality:
		t, err = l.loadAirQuality()
	case CategoryCrop:
		t, err = l.loadCrop()
	default:
		return nil, fmt.Errorf("unknown dataset category %q", cat)
	}
	if err != nil {
		return nil, err
	}
	l.log.Debug("dataset loaded",
		zap.String("category", string(cat)),
		zap.Int("rows", t.Len()),
		zap.Int("columns", t.Width()))
	if l.cache != nil {
		l.cache.Set(string(cat), t, cache.NoExpiration)
	}
	return t, nil
}

func (l *Loader) Rainfall(ctx context.Context) (*Table, error)   { return l.Load(ctx, CategoryRainfall) }
func (l *Loader) AirQuality(ctx context.Context) (*Table, error) { return l.Load(ctx, CategoryAirQuality) }
func (l *Loader) Crop(ctx context.Context) (*Table, error)       { return l.Load(ctx, CategoryCrop) }

func (l *Loader) loadRainfall() (*Table, error) {
	dir := filepath.Join(l.dir, rainfallSubdir)
	files, err := listFiles(dir, ".csv")
	if err != nil {
		return nil, err
	}
	tables := make([]*Table, 0, len(files))
	for _, f := range files {
		t, err := ReadCSVFile(f)
		if err != nil {
			return nil, err
		}
		if len(tables) > 0 && !sameColumns(tables[0], t) {
			// merged permissively: non-overlapping columns become null
			l.log.Warn("rainfall schema differs between files",
				zap.String("file", filepath.Base(f)),
				zap.Strings("columns", t.ColumnNames()),
				zap.Strings("first_columns", tables[0].ColumnNames()))
		}
		tables = append(tables, t)
	}
	return Concat(tables...), nil
}

func (l *Loader) loadAirQuality() (*Table, error) {
	return ReadCSVFile(filepath.Join(l.dir, l.airQualityFile))
}

func (l *Loader) loadCrop() (*Table, error) {
	files, err := listFiles(l.dir, ".xls", ".xlsx")
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return Empty(), nil
	}
	tables := make([]*Table, 0, len(files))
	for _, f := range files {
		t, err := ReadSpreadsheet(f)
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return Concat(tables...), nil
}

// listFiles returns regular files in dir with one of the given extensions,
// sorted by name.
func listFiles(dir string, exts ...string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &NotFoundError{Path: dir, Err: err}
		}
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}
	var out []string
	for _, e := range entries {
		// skip directories, dotfiles and office lock files (~$book.xlsx)
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") || strings.HasPrefix(e.Name(), "~$") {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		for _, want := range exts {
			if ext == want {
				out = append(out, filepath.Join(dir, e.Name()))
				break
			}
		}
	}
	sort.Strings(out)
	return out, nil
}

func sameColumns(a, b *Table) bool {
	an, bn := a.ColumnNames(), b.ColumnNames()
	if len(an) != len(bn) {
		return false
	}
	for i := range an {
		if an[i] != bn[i] {
			return false
		}
	}
	return true
}
