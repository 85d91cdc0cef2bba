// Package generator produces the sample observation tables. Every numeric
// field is drawn independently and uniformly from a field-specific fixed
// range; the random source is an explicit seed so identical configuration
// and seed always yield identical tables.
package generator

import (
	"math/rand/v2"
	"time"

	"agridash/internal/dataset/models"
)

// Field generation ranges. The invariant "every numeric field lies within
// its range" is pinned by tests against these bounds.
const (
	farmersTrainedMin = 100
	farmersTrainedMax = 500
	womenPctMin       = 30
	womenPctMax       = 60
	youthPctMin       = 20
	youthPctMax       = 50
	hectaresMin       = 10
	hectaresMax       = 80
	yieldBeforeMin    = 0.8
	yieldBeforeMax    = 2.5
	yieldAfterMin     = 1.0
	yieldAfterMax     = 4.5

	seedlingsMin    = 500
	seedlingsMax    = 5000
	survivalRateMin = 0.0
	survivalRateMax = 1.0

	farmersAdoptingMin = 50
	farmersAdoptingMax = 400
	seasonGainMin      = 0.0
	seasonGainMax      = 80.0
)

// Generator builds snapshots for one static configuration. Generation cannot
// fail and performs no I/O; memoization is the caller's concern (the session
// service stores one snapshot per session).
type Generator struct {
	cfg models.Config
}

// New creates a Generator for the given configuration.
func New(cfg models.Config) *Generator {
	return &Generator{cfg: cfg}
}

// Config returns the static configuration the generator draws from.
func (g *Generator) Config() models.Config { return g.cfg }

// RandomSeed returns a non-deterministic seed for sessions that did not
// request one. The process-global source is seeded from OS entropy.
func RandomSeed() uint64 {
	return rand.Uint64()
}

// Generate draws all three tables from a single seeded source. Row order is
// region-major, then year (IVS, tree crops) or technique (vegetables).
func (g *Generator) Generate(seed uint64) *models.Snapshot {
	r := rand.New(rand.NewPCG(seed, seed))

	snap := &models.Snapshot{
		Seed:        seed,
		GeneratedAt: time.Now().UTC(),
		IVS:         make([]models.IVSRecord, 0, len(g.cfg.Regions)*len(g.cfg.Years())),
		TreeCrops:   make([]models.TreeCropRecord, 0, len(g.cfg.Regions)*len(g.cfg.Years())),
		Vegetables:  make([]models.VegetableRecord, 0, len(g.cfg.Regions)*len(g.cfg.Techniques)),
	}

	for _, region := range g.cfg.Regions {
		for _, year := range g.cfg.Years() {
			snap.IVS = append(snap.IVS, models.IVSRecord{
				Region:            region,
				Year:              year,
				FarmersTrained:    intBetween(r, farmersTrainedMin, farmersTrainedMax),
				WomenPct:          floatBetween(r, womenPctMin, womenPctMax),
				YouthPct:          floatBetween(r, youthPctMin, youthPctMax),
				HectaresDeveloped: floatBetween(r, hectaresMin, hectaresMax),
				YieldBefore:       floatBetween(r, yieldBeforeMin, yieldBeforeMax),
				// Drawn independently of YieldBefore, so the derived
				// gain may come out negative. Kept unclamped.
				YieldAfter: floatBetween(r, yieldAfterMin, yieldAfterMax),
			})
		}
	}

	for _, region := range g.cfg.Regions {
		for _, year := range g.cfg.Years() {
			snap.TreeCrops = append(snap.TreeCrops, models.TreeCropRecord{
				Region:           region,
				Year:             year,
				CocoaSeedlings:   intBetween(r, seedlingsMin, seedlingsMax),
				OilPalmSeedlings: intBetween(r, seedlingsMin, seedlingsMax),
				SurvivalRate:     floatBetween(r, survivalRateMin, survivalRateMax),
			})
		}
	}

	for _, region := range g.cfg.Regions {
		for _, technique := range g.cfg.Techniques {
			snap.Vegetables = append(snap.Vegetables, models.VegetableRecord{
				Region:           region,
				Technique:        technique,
				FarmersAdopting:  intBetween(r, farmersAdoptingMin, farmersAdoptingMax),
				DrySeasonGainPct: floatBetween(r, seasonGainMin, seasonGainMax),
				WetSeasonGainPct: floatBetween(r, seasonGainMin, seasonGainMax),
			})
		}
	}

	return snap
}

// intBetween draws uniformly from [lo, hi], both inclusive.
func intBetween(r *rand.Rand, lo, hi int) int {
	return lo + r.IntN(hi-lo+1)
}

// floatBetween draws uniformly from [lo, hi).
func floatBetween(r *rand.Rand, lo, hi float64) float64 {
	return lo + r.Float64()*(hi-lo)
}
