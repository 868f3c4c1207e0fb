package rks_test

import (
	"fmt"
	"math"

	rks "github.com/Dehou23333-awa/RKS"
	. "github.com/onsi/ginkgo"
	"github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"
)

var _ = Describe("Rating", func() {
	It("should apply the quadratic formula", func() {
		Expect(rks.Rating(100, 13)).To(Equal(13.0))
		Expect(rks.Rating(55, 15)).To(Equal(0.0))
		Expect(rks.Rating(77.5, 16)).To(BeNumerically("~", 4.0, 1e-12))
	})

	table.DescribeTable("Grade",
		func(score uint32, fc bool, exp string) {
			Expect(rks.Grade(score, fc)).To(Equal(exp))
		},
		table.Entry("phi", uint32(1000000), false, "phi"),
		table.Entry("phi beats fc", uint32(1000000), true, "phi"),
		table.Entry("fc", uint32(650000), true, "FC"),
		table.Entry("V", uint32(960001), false, "V"),
		table.Entry("S", uint32(960000), false, "S"),
		table.Entry("A", uint32(920000), false, "A"),
		table.Entry("B", uint32(880000), false, "B"),
		table.Entry("C", uint32(820000), false, "C"),
		table.Entry("F", uint32(700000), false, "F"),
	)
})

var _ = Describe("RankingEngine", func() {
	var subject *rks.RankingEngine

	BeforeEach(func() {
		subject = rks.NewRankingEngine(seedCharts(
			&rks.Song{ID: "X", Title: "Song X", Difficulties: []float64{2, 13, 14.5}},
			&rks.Song{ID: "Y", Title: "Song Y", Difficulties: []float64{3, 8, 12, 15.2}},
		), discardLogger())
	})

	It("should rate perfect results", func() {
		entries := subject.Flatten(&rks.GameRecord{Songs: []rks.SongRecord{
			{ID: "X", Levels: []rks.LevelRecord{{Level: rks.HD, Score: 1000000, Accuracy: 100, FullCombo: true}}},
		}})
		Expect(entries).To(Equal([]rks.ScoreEntry{{
			SongID:     "X",
			Title:      "Song X",
			Level:      rks.HD,
			Score:      1000000,
			Accuracy:   100,
			FullCombo:  true,
			Difficulty: 13,
			Rating:     13,
		}}))
		Expect(entries[0].Perfect()).To(BeTrue())
		Expect(entries[0].Grade()).To(Equal("phi"))
	})

	It("should skip unknown songs and unrated levels", func() {
		entries := subject.Flatten(&rks.GameRecord{Songs: []rks.SongRecord{
			{ID: "Z", Levels: []rks.LevelRecord{{Level: rks.EZ, Score: 1000000, Accuracy: 100}}},
			{ID: "X", Levels: []rks.LevelRecord{
				{Level: rks.EZ, Score: 900000, Accuracy: 90},
				{Level: rks.AT, Score: 900000, Accuracy: 90},
				{Level: rks.Legacy, Score: 900000, Accuracy: 90},
			}},
		}})
		Expect(entries).To(HaveLen(1))
		Expect(entries[0].SongID).To(Equal("X"))
		Expect(entries[0].Level).To(Equal(rks.EZ))
	})

	It("should rank records", func() {
		best := subject.Rank(seedGameRecordFor("X", "Y"))
		Expect(best.Phi).To(HaveLen(1))
		Expect(best.Phi[0].Level).To(Equal(rks.EZ))
		Expect(best.Best).To(HaveLen(2))
		Expect(best.Best[0].Level).To(Equal(rks.HD))
		Expect(best.List()).To(HaveLen(3))
	})
})

func seedGameRecordFor(ids ...string) *rks.GameRecord {
	rec := new(rks.GameRecord)
	for _, id := range ids {
		rec.Songs = append(rec.Songs, rks.SongRecord{ID: id})
	}
	rec.Songs[0].Levels = []rks.LevelRecord{
		{Level: rks.EZ, Score: 1000000, Accuracy: 100, FullCombo: true},
		{Level: rks.HD, Score: 950000, Accuracy: 97},
	}
	rec.Songs[1].Levels = []rks.LevelRecord{
		{Level: rks.IN, Score: 900000, Accuracy: 94},
	}
	return rec
}

var _ = Describe("BestN", func() {
	entry := func(id string, lv rks.Level, score uint32, diff, rating float64) rks.ScoreEntry {
		return rks.ScoreEntry{SongID: id, Level: lv, Score: score, Difficulty: diff, Rating: rating}
	}

	ids := func(entries []rks.ScoreEntry) []string {
		out := make([]string, len(entries))
		for i, e := range entries {
			out[i] = fmt.Sprintf("%s/%s", e.SongID, e.Level)
		}
		return out
	}

	It("should order perfect entries by difficulty", func() {
		best := rks.BestN([]rks.ScoreEntry{
			entry("A", rks.IN, 1000000, 14.0, 14.0),
			entry("C", rks.IN, 990000, 14.5, 13.8),
			entry("B", rks.AT, 1000000, 15.2, 15.2),
		})
		Expect(ids(best.Phi)).To(Equal([]string{"B/AT", "A/IN"}))
		Expect(ids(best.Best)).To(Equal([]string{"C/IN"}))
		Expect(ids(best.List())).To(Equal([]string{"B/AT", "A/IN", "C/IN"}))
	})

	It("should not repeat perfect entries", func() {
		best := rks.BestN([]rks.ScoreEntry{
			entry("A", rks.AT, 1000000, 16, 16),
			entry("B", rks.IN, 990000, 15, 14),
			entry("A", rks.IN, 990000, 14, 13),
		})
		Expect(ids(best.Phi)).To(Equal([]string{"A/AT"}))
		Expect(ids(best.Best)).To(Equal([]string{"B/IN", "A/IN"}))
	})

	It("should pick the hardest perfect entries", func() {
		var entries []rks.ScoreEntry
		for i := 0; i < 5; i++ {
			d := 10 + float64(i)
			entries = append(entries, entry(fmt.Sprintf("P%d", i), rks.IN, 1000000, d, d))
		}
		best := rks.BestN(entries)
		Expect(ids(best.Phi)).To(Equal([]string{"P4/IN", "P3/IN", "P2/IN"}))
		Expect(ids(best.Best)).To(Equal([]string{"P1/IN", "P0/IN"}))
	})

	It("should cap the lists", func() {
		var entries []rks.ScoreEntry
		for i := 0; i < 50; i++ {
			entries = append(entries, entry(fmt.Sprintf("S%02d", i), rks.HD, 900000, 10, float64(i)))
		}
		best := rks.BestN(entries)
		Expect(best.Phi).To(BeEmpty())
		Expect(best.Best).To(HaveLen(33))
		Expect(best.Best[0].SongID).To(Equal("S49"))
		Expect(best.Best[32].SongID).To(Equal("S17"))

		// S49..S23 are counted
		var sum float64
		for i := 23; i < 50; i++ {
			sum += float64(i)
		}
		Expect(best.RKS()).To(BeNumerically("~", sum/30, 1e-9))
	})

	It("should keep input order for ties", func() {
		best := rks.BestN([]rks.ScoreEntry{
			entry("A", rks.HD, 900000, 10, 5),
			entry("B", rks.HD, 900000, 10, 5),
			entry("C", rks.HD, 900000, 10, 6),
		})
		Expect(ids(best.Best)).To(Equal([]string{"C/HD", "A/HD", "B/HD"}))
	})

	It("should divide by 30", func() {
		best := rks.BestN([]rks.ScoreEntry{entry("X", rks.HD, 1000000, 13, 13)})
		Expect(best.Phi).To(HaveLen(1))
		Expect(best.Best).To(HaveLen(0))
		Expect(best.RKS()).To(BeNumerically("~", 13.0/30, 1e-12))

		Expect(rks.BestN(nil).RKS()).To(Equal(0.0))
	})

	It("should compute the deviation of rated entries", func() {
		best := rks.BestN([]rks.ScoreEntry{
			entry("A", rks.HD, 1000000, 14, 14),
			entry("B", rks.HD, 900000, 10, 10),
		})
		Expect(best.Deviation()).To(BeNumerically("~", 2.0, 1e-12))
		Expect(rks.BestN(nil).Deviation()).To(Equal(0.0))
		Expect(best.PhiRatings()).To(Equal([]float64{14}))
	})
})

var _ = Describe("Suggest", func() {
	It("should return the accuracy for the next 0.01", func() {
		e := rks.ScoreEntry{Accuracy: 97, Difficulty: 15, Rating: rks.Rating(97, 15)}
		acc, ok := rks.Suggest(e, 14.5, nil)
		Expect(ok).To(BeTrue())
		Expect(acc).To(BeNumerically(">", 97))
		Expect(acc).To(BeNumerically("<", 100))

		// the suggested accuracy adds exactly the missing rating
		target := math.Round(14.5*100)/100 + 0.005
		Expect(rks.Rating(acc, 15) - e.Rating).To(BeNumerically("~", (target-14.5)*30, 1e-9))
	})

	It("should suggest a perfect result when entering the perfect tier helps", func() {
		e := rks.ScoreEntry{Accuracy: 99.9, Difficulty: 16, Rating: rks.Rating(99.9, 16)}
		acc, ok := rks.Suggest(e, 10, []float64{12, 11, 10})
		Expect(ok).To(BeTrue())
		Expect(acc).To(Equal(100.0))
	})

	It("should give up when nothing helps", func() {
		e := rks.ScoreEntry{Accuracy: 60, Difficulty: 0.1, Rating: rks.Rating(60, 0.1)}
		_, ok := rks.Suggest(e, 15, []float64{16, 16, 16})
		Expect(ok).To(BeFalse())

		e = rks.ScoreEntry{Accuracy: 100, Difficulty: 12, Rating: 12}
		_, ok = rks.Suggest(e, 15, nil)
		Expect(ok).To(BeFalse())

		_, ok = rks.Suggest(rks.ScoreEntry{}, 15, nil)
		Expect(ok).To(BeFalse())
	})
})
