package rks

import (
	"math"
	"sort"

	"github.com/sirupsen/logrus"
)

// Ranking caps.
const (
	PhiSlots  = 3
	BestSlots = 33

	// RatedSlots is the number of filler entries counted towards RKS.
	RatedSlots = 27
	// RKSDivisor is applied regardless of how many slots are filled.
	RKSDivisor = 30

	MaxScore = 1000000
)

// ScoreEntry is one rated tier of a song.
type ScoreEntry struct {
	SongID     string  `json:"songId"`
	Title      string  `json:"title,omitempty"`
	Level      Level   `json:"level"`
	Score      uint32  `json:"score"`
	Accuracy   float64 `json:"acc"`
	FullCombo  bool    `json:"fc"`
	Difficulty float64 `json:"difficulty"`
	Rating     float64 `json:"rks"`
}

// Perfect reports whether the entry has the maximum score.
func (e *ScoreEntry) Perfect() bool { return e.Score == MaxScore }

// Grade returns the letter grade shown for the entry.
func (e *ScoreEntry) Grade() string { return Grade(e.Score, e.FullCombo) }

type entryKey struct {
	id    string
	level Level
}

func (e *ScoreEntry) key() entryKey { return entryKey{id: e.SongID, level: e.Level} }

// Rating computes the contribution of a result with the given accuracy,
// in percent, on a chart of the given difficulty.
func Rating(acc, difficulty float64) float64 {
	x := (acc - 55) / 45
	return x * x * difficulty
}

// Grade maps a score to its letter grade.
func Grade(score uint32, fc bool) string {
	switch {
	case score == MaxScore:
		return "phi"
	case fc:
		return "FC"
	case score > 960000:
		return "V"
	case score > 920000:
		return "S"
	case score > 880000:
		return "A"
	case score > 820000:
		return "B"
	case score > 700000:
		return "C"
	}
	return "F"
}

// --------------------------------------------------------------------

// ChartLookup resolves chart metadata by song identifier.
type ChartLookup interface {
	Lookup(id string) (*Song, bool)
}

// RankingEngine rates score histories against a chart catalogue.
type RankingEngine struct {
	charts ChartLookup
	log    logrus.FieldLogger
}

// NewRankingEngine creates an engine. A nil logger selects
// logrus.StandardLogger().
func NewRankingEngine(charts ChartLookup, log logrus.FieldLogger) *RankingEngine {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &RankingEngine{charts: charts, log: log}
}

// Flatten rates every tier of rec. Songs missing from the catalogue and
// tiers without a chart constant are skipped.
func (e *RankingEngine) Flatten(rec *GameRecord) []ScoreEntry {
	entries := make([]ScoreEntry, 0, len(rec.Songs)*2)
	for _, song := range rec.Songs {
		meta, ok := e.charts.Lookup(song.ID)
		if !ok {
			e.log.WithField("song", song.ID).Warn("no chart data, skipping song")
			continue
		}

		for _, lv := range song.Levels {
			diff, ok := meta.Difficulty(lv.Level)
			if !ok {
				if lv.Level != Legacy {
					e.log.WithFields(logrus.Fields{"song": song.ID, "level": lv.Level}).Debug("no chart constant")
				}
				continue
			}

			acc := float64(lv.Accuracy)
			entries = append(entries, ScoreEntry{
				SongID:     song.ID,
				Title:      meta.Title,
				Level:      lv.Level,
				Score:      lv.Score,
				Accuracy:   acc,
				FullCombo:  lv.FullCombo,
				Difficulty: diff,
				Rating:     Rating(acc, diff),
			})
		}
	}
	return entries
}

// Rank flattens rec and selects its best entries.
func (e *RankingEngine) Rank(rec *GameRecord) *Best {
	return BestN(e.Flatten(rec))
}

// --------------------------------------------------------------------

// Best is the top performance view: up to PhiSlots perfect entries by
// difficulty, then up to BestSlots other entries by rating.
type Best struct {
	Phi  []ScoreEntry `json:"phi"`
	Best []ScoreEntry `json:"best"`
}

// BestN selects the best entries. Filler entries never repeat a
// (song, level) pair already listed as perfect.
func BestN(entries []ScoreEntry) *Best {
	sorted := append([]ScoreEntry(nil), entries...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Rating > sorted[j].Rating })

	var phi []ScoreEntry
	for _, s := range sorted {
		if s.Perfect() {
			phi = append(phi, s)
		}
	}
	sort.SliceStable(phi, func(i, j int) bool { return phi[i].Difficulty > phi[j].Difficulty })
	if len(phi) > PhiSlots {
		phi = phi[:PhiSlots]
	}

	seen := make(map[entryKey]struct{}, len(phi))
	for i := range phi {
		seen[phi[i].key()] = struct{}{}
	}

	best := make([]ScoreEntry, 0, BestSlots)
	for i := 0; i < len(sorted) && len(best) < BestSlots; i++ {
		if _, ok := seen[sorted[i].key()]; ok {
			continue
		}
		best = append(best, sorted[i])
	}
	return &Best{Phi: phi, Best: best}
}

// List returns the perfect entries followed by the fillers.
func (b *Best) List() []ScoreEntry {
	out := make([]ScoreEntry, 0, len(b.Phi)+len(b.Best))
	out = append(out, b.Phi...)
	return append(out, b.Best...)
}

func (b *Best) rated() []ScoreEntry {
	n := len(b.Best)
	if n > RatedSlots {
		n = RatedSlots
	}
	out := make([]ScoreEntry, 0, len(b.Phi)+n)
	out = append(out, b.Phi...)
	return append(out, b.Best[:n]...)
}

// RKS returns the player rating.
func (b *Best) RKS() float64 {
	var sum float64
	for _, s := range b.rated() {
		sum += s.Rating
	}
	return sum / RKSDivisor
}

// Deviation returns the population standard deviation of the ratings
// counted towards RKS.
func (b *Best) Deviation() float64 {
	rated := b.rated()
	if len(rated) == 0 {
		return 0
	}

	var mean float64
	for _, s := range rated {
		mean += s.Rating
	}
	mean /= float64(len(rated))

	var sq float64
	for _, s := range rated {
		sq += (s.Rating - mean) * (s.Rating - mean)
	}
	return math.Sqrt(sq / float64(len(rated)))
}

// PhiRatings returns the ratings of the perfect entries.
func (b *Best) PhiRatings() []float64 {
	out := make([]float64, len(b.Phi))
	for i, s := range b.Phi {
		out[i] = s.Rating
	}
	return out
}

// Suggest returns the accuracy e needs for the displayed RKS, rounded to two
// decimals, to rise by 0.01. When that takes more than 100%, a perfect
// result is suggested if entering the perfect tier would raise RKS, and
// ok is false otherwise.
func Suggest(e ScoreEntry, rks float64, phi []float64) (acc float64, ok bool) {
	if e.Difficulty <= 0 {
		return 0, false
	}

	target := round(rks, 2) + 0.005
	needed := target*RKSDivisor - (rks*RKSDivisor - e.Rating)
	acc = math.Sqrt(needed/e.Difficulty)*45 + 55
	if acc <= 100 {
		return acc, true
	}
	if e.Rating == e.Difficulty {
		return 0, false
	}

	var current, next float64
	for _, r := range phi {
		current += r
	}
	if len(phi) < PhiSlots {
		next = current + e.Difficulty
	} else {
		sim := append(append([]float64(nil), phi...), e.Difficulty)
		sort.Float64s(sim)
		for _, r := range sim[1:] {
			next += r
		}
	}
	if round((rks*RKSDivisor-current+next)/RKSDivisor, 4) > round(rks, 4) {
		return 100, true
	}
	return 0, false
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
