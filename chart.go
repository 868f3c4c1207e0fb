package rks

import (
	"bufio"
	"context"
	"io"
	"io/fs"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Dehou23333-awa/RKS/internal/metrics"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
	"golang.org/x/text/cases"
)

// Chart source file names.
const (
	DifficultyFile = "difficulty.tsv"
	InfoFile       = "info.tsv"
)

// Song holds the chart metadata of one song.
type Song struct {
	ID          string `json:"id"`
	Title       string `json:"name"`
	Composer    string `json:"composer"`
	Illustrator string `json:"illustrator"`

	// Difficulties lists the chart constants of the tiers present, EZ first.
	Difficulties []float64 `json:"difficulties"`
	// Charters lists the charter credits, indexed by Level.
	Charters [NumLevels]string `json:"charters"`
}

// Difficulty returns the chart constant of a tier.
func (s *Song) Difficulty(l Level) (float64, bool) {
	if int(l) < len(s.Difficulties) {
		return s.Difficulties[l], true
	}
	return 0, false
}

// ChartLoader produces the song list of a chart index.
type ChartLoader func(ctx context.Context) ([]*Song, error)

// ChartOptions configure a ChartIndex.
type ChartOptions struct {
	// Logger receives load progress.
	// Default: logrus.StandardLogger().
	Logger logrus.FieldLogger
}

func (o *ChartOptions) norm() *ChartOptions {
	var oo ChartOptions
	if o != nil {
		oo = *o
	}
	if oo.Logger == nil {
		oo.Logger = logrus.StandardLogger()
	}
	return &oo
}

// ChartIndex is a lazily loaded, read-only song catalogue. Concurrent
// callers share a single in-flight load; a failed load leaves the index
// empty so the next call retries.
type ChartIndex struct {
	load ChartLoader
	log  logrus.FieldLogger

	group  singleflight.Group
	loaded atomic.Bool

	mu    sync.RWMutex
	gen   uint64
	byID  map[string]*Song
	songs []*Song
}

// NewChartIndex creates an index populated by load on first use.
func NewChartIndex(load ChartLoader, o *ChartOptions) *ChartIndex {
	o = o.norm()
	return &ChartIndex{load: load, log: o.Logger}
}

// Load populates the index unless it is already loaded.
func (c *ChartIndex) Load(ctx context.Context) error {
	if c.loaded.Load() {
		return nil
	}

	_, err, _ := c.group.Do("charts", func() (interface{}, error) {
		if c.loaded.Load() {
			return nil, nil
		}

		c.mu.RLock()
		gen := c.gen
		c.mu.RUnlock()

		start := time.Now()
		songs, err := c.load(ctx)
		metrics.ChartLoad(err, start)
		if err != nil {
			return nil, err
		}

		byID := make(map[string]*Song, len(songs))
		for _, s := range songs {
			byID[s.ID] = s
		}

		c.mu.Lock()
		defer c.mu.Unlock()
		if c.gen != gen {
			return nil, errors.New("rks: chart index reset during load")
		}
		c.byID, c.songs = byID, songs
		c.loaded.Store(true)
		return nil, nil
	})
	if err != nil {
		c.log.WithError(err).Error("failed to load chart data")
		return errors.Wrap(err, "rks: load chart index")
	}
	c.log.Debug("chart data loaded")
	return nil
}

// Loaded reports whether the index is populated.
func (c *ChartIndex) Loaded() bool { return c.loaded.Load() }

// Reset discards the cached songs. The next Load reads the sources again.
func (c *ChartIndex) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gen++
	c.byID, c.songs = nil, nil
	c.loaded.Store(false)
}

// Lookup returns the song with the given identifier.
func (c *ChartIndex) Lookup(id string) (*Song, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s, ok := c.byID[id]
	return s, ok
}

// Songs returns all songs in source order.
func (c *ChartIndex) Songs() []*Song {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return append([]*Song(nil), c.songs...)
}

// Search returns one page of the songs whose title or composer contains
// term, ignoring case, along with the total number of matches. Pages start
// at 1; limit defaults to 20.
func (c *ChartIndex) Search(term string, page, limit int) ([]*Song, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	fold := cases.Fold()
	term = fold.String(term)

	var matches []*Song
	for _, s := range c.Songs() {
		if term == "" || strings.Contains(fold.String(s.Title), term) || strings.Contains(fold.String(s.Composer), term) {
			matches = append(matches, s)
		}
	}

	start := (page - 1) * limit
	if start >= len(matches) {
		return nil, len(matches)
	}
	end := start + limit
	if end > len(matches) {
		end = len(matches)
	}
	return matches[start:end], len(matches)
}

// --------------------------------------------------------------------

// TSVLoader reads DifficultyFile and InfoFile from fsys and merges them by
// song identifier. Both files must exist and be non-empty.
//
//	difficulty.tsv: id \t EZ \t HD \t IN [\t AT]
//	info.tsv:       id \t title \t composer \t illustrator \t charter EZ .. charter AT
func TSVLoader(fsys fs.FS) ChartLoader {
	return func(ctx context.Context) ([]*Song, error) {
		var (
			songs []*Song
			byID  = make(map[string]*Song)
		)
		song := func(id string) *Song {
			if s, ok := byID[id]; ok {
				return s
			}
			s := &Song{ID: id}
			byID[id] = s
			songs = append(songs, s)
			return s
		}

		err := readTSV(fsys, DifficultyFile, func(cols []string) {
			s := song(cols[0])
			for _, col := range cols[1:] {
				if d, err := strconv.ParseFloat(strings.TrimSpace(col), 64); err == nil {
					s.Difficulties = append(s.Difficulties, d)
				}
			}
		})
		if err != nil {
			return nil, err
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		err = readTSV(fsys, InfoFile, func(cols []string) {
			s := song(cols[0])
			s.Title = column(cols, 1)
			s.Composer = column(cols, 2)
			s.Illustrator = column(cols, 3)
			for i := range s.Charters {
				s.Charters[i] = column(cols, 4+i)
			}
		})
		if err != nil {
			return nil, err
		}
		return songs, nil
	}
}

func column(cols []string, i int) string {
	if i < len(cols) {
		return cols[i]
	}
	return ""
}

func readTSV(fsys fs.FS, name string, fn func(cols []string)) error {
	f, err := fsys.Open(name)
	if err != nil {
		return errors.Wrapf(err, "rks: open %s", name)
	}
	defer f.Close()

	return scanTSV(f, name, fn)
}

func scanTSV(r io.Reader, name string, fn func(cols []string)) error {
	rows := 0
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fn(strings.Split(line, "\t"))
		rows++
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrapf(err, "rks: read %s", name)
	}
	if rows == 0 {
		return errors.Errorf("rks: %s is empty", name)
	}
	return nil
}
