// Package aggregate recomputes the dashboard's derived metrics from a
// session's snapshot on every filter change. All computation is synchronous
// over in-memory tables; nothing here caches or mutates.
package aggregate

import (
	"time"

	"agridash/internal/aggregate/metrics"
	"agridash/internal/dataset/models"
	dErrors "agridash/pkg/domain-errors"
)

// Tables are the filtered record subsets, in generation order. Export and
// charts consume these as-is; no reordering happens downstream.
type Tables struct {
	IVS        []models.IVSRecord
	TreeCrops  []models.TreeCropRecord
	Vegetables []models.VegetableRecord
}

// KPI is one named scalar shown on a dashboard tile. Count carries the
// number of rows behind the value so clients can tell a true zero from the
// empty-set sentinel.
type KPI struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Count int     `json:"count"`
	Unit  string  `json:"unit"`
}

// RegionAggregate is the per-region group-by over the filtered IVS table.
type RegionAggregate struct {
	Region            models.Region `json:"region"`
	Rows              int           `json:"rows"`
	AvgFarmersTrained float64       `json:"avg_farmers_trained"`
	AvgYieldGainPct   float64       `json:"avg_yield_gain_pct"`
	AvgWomenPct       float64       `json:"avg_women_pct"`
}

// YearAggregate is the per-year group-by over the filtered IVS table.
type YearAggregate struct {
	Year              int     `json:"year"`
	Rows              int     `json:"rows"`
	AvgFarmersTrained float64 `json:"avg_farmers_trained"`
	AvgYieldGainPct   float64 `json:"avg_yield_gain_pct"`
	AvgWomenPct       float64 `json:"avg_women_pct"`
}

// TechniqueAggregate is the per-technique group-by over the filtered
// vegetable table.
type TechniqueAggregate struct {
	Technique           models.Technique `json:"technique"`
	Rows                int              `json:"rows"`
	FarmersAdopting     int              `json:"farmers_adopting"`
	AvgDrySeasonGainPct float64          `json:"avg_dry_season_gain_pct"`
	AvgWetSeasonGainPct float64          `json:"avg_wet_season_gain_pct"`
}

// RowCounts reports the filtered subset sizes.
type RowCounts struct {
	IVS        int `json:"ivs"`
	TreeCrops  int `json:"tree_crops"`
	Vegetables int `json:"vegetables"`
}

// Dashboard is the full render result handed to the presentation layer.
// LeadKPI names the participation KPI the gender focus points at, or is
// empty for no focus.
type Dashboard struct {
	Filter      FilterSelection      `json:"filter"`
	KPIs        []KPI                `json:"kpis"`
	LeadKPI     string               `json:"lead_kpi,omitempty"`
	ByRegion    []RegionAggregate    `json:"by_region"`
	ByYear      []YearAggregate      `json:"by_year"`
	ByTechnique []TechniqueAggregate `json:"by_technique"`
	Rows        RowCounts            `json:"rows"`
}

// Service computes filtered subsets and derived metrics. It is stateless
// beyond configuration and safe for concurrent use.
type Service struct {
	cfg     models.Config
	metrics *metrics.Metrics
}

// NewService creates an aggregator for the given configuration. metrics may
// be nil in tests.
func NewService(cfg models.Config, m *metrics.Metrics) *Service {
	return &Service{cfg: cfg, metrics: m}
}

// Filter validates the selection and returns the three filtered subsets.
// Membership: Region in the selected set AND Year within [from, to], both
// inclusive; vegetables match on technique only when one is chosen.
func (s *Service) Filter(snap *models.Snapshot, f FilterSelection) (*Tables, error) {
	if snap == nil {
		return nil, ErrSnapshotRequired
	}
	if err := f.Validate(); err != nil {
		s.metrics.IncrementOutcome("invalid_filter")
		return nil, err
	}

	regions := f.regionSet()
	tables := &Tables{}

	for _, rec := range snap.IVS {
		if regions[rec.Region] && rec.Year >= f.YearFrom && rec.Year <= f.YearTo {
			tables.IVS = append(tables.IVS, rec)
		}
	}
	for _, rec := range snap.TreeCrops {
		if regions[rec.Region] && rec.Year >= f.YearFrom && rec.Year <= f.YearTo {
			tables.TreeCrops = append(tables.TreeCrops, rec)
		}
	}
	for _, rec := range snap.Vegetables {
		if regions[rec.Region] && (f.Technique == "" || rec.Technique == f.Technique) {
			tables.Vegetables = append(tables.Vegetables, rec)
		}
	}
	return tables, nil
}

// Render computes the full dashboard for one filter change.
func (s *Service) Render(snap *models.Snapshot, f FilterSelection) (*Dashboard, error) {
	start := time.Now()

	tables, err := s.Filter(snap, f)
	if err != nil {
		return nil, err
	}

	d := &Dashboard{
		Filter:      f,
		KPIs:        s.kpis(tables),
		LeadKPI:     leadKPI(f.Focus),
		ByRegion:    s.byRegion(tables.IVS),
		ByYear:      s.byYear(tables.IVS),
		ByTechnique: s.byTechnique(tables.Vegetables),
		Rows: RowCounts{
			IVS:        len(tables.IVS),
			TreeCrops:  len(tables.TreeCrops),
			Vegetables: len(tables.Vegetables),
		},
	}

	s.metrics.ObserveRender(time.Since(start))
	s.metrics.IncrementOutcome("ok")
	return d, nil
}

// KPI names are the stable contract with the presentation layer.
const (
	KPITotalFarmersTrained = "total_farmers_trained"
	KPIAvgWomenPct         = "avg_women_pct"
	KPIAvgYouthPct         = "avg_youth_pct"
	KPIAvgYieldGainPct     = "avg_yield_gain_pct"
	KPIHectaresDeveloped   = "hectares_developed"
	KPITotalSeedlings      = "total_seedlings"
	KPIAvgSurvivalRate     = "avg_survival_rate"
	KPIFarmersAdopting     = "farmers_adopting_vegetables"
	KPIAvgDrySeasonGainPct = "avg_dry_season_gain_pct"
	KPIAvgWetSeasonGainPct = "avg_wet_season_gain_pct"
)

func leadKPI(focus Focus) string {
	switch focus {
	case FocusWomen:
		return KPIAvgWomenPct
	case FocusYouth:
		return KPIAvgYouthPct
	default:
		return ""
	}
}

func (s *Service) kpis(t *Tables) []KPI {
	var (
		farmers  Stat
		women    Stat
		youth    Stat
		gain     Stat
		hectares Stat
		seedl    Stat
		survival Stat
		adopting Stat
		dryGain  Stat
		wetGain  Stat
	)

	for _, rec := range t.IVS {
		farmers.Add(float64(rec.FarmersTrained))
		women.Add(rec.WomenPct)
		youth.Add(rec.YouthPct)
		gain.Add(rec.YieldGainPct())
		hectares.Add(rec.HectaresDeveloped)
	}
	for _, rec := range t.TreeCrops {
		seedl.Add(float64(rec.TotalSeedlings()))
		survival.Add(rec.SurvivalRate)
	}
	for _, rec := range t.Vegetables {
		adopting.Add(float64(rec.FarmersAdopting))
		dryGain.Add(rec.DrySeasonGainPct)
		wetGain.Add(rec.WetSeasonGainPct)
	}

	return []KPI{
		{Name: KPITotalFarmersTrained, Value: farmers.Sum, Count: farmers.Count, Unit: "farmers"},
		{Name: KPIAvgWomenPct, Value: women.Mean(), Count: women.Count, Unit: "%"},
		{Name: KPIAvgYouthPct, Value: youth.Mean(), Count: youth.Count, Unit: "%"},
		{Name: KPIAvgYieldGainPct, Value: gain.Mean(), Count: gain.Count, Unit: "%"},
		{Name: KPIHectaresDeveloped, Value: hectares.Sum, Count: hectares.Count, Unit: "ha"},
		{Name: KPITotalSeedlings, Value: seedl.Sum, Count: seedl.Count, Unit: "seedlings"},
		{Name: KPIAvgSurvivalRate, Value: survival.Mean(), Count: survival.Count, Unit: "ratio"},
		{Name: KPIFarmersAdopting, Value: adopting.Sum, Count: adopting.Count, Unit: "farmers"},
		{Name: KPIAvgDrySeasonGainPct, Value: dryGain.Mean(), Count: dryGain.Count, Unit: "%"},
		{Name: KPIAvgWetSeasonGainPct, Value: wetGain.Mean(), Count: wetGain.Count, Unit: "%"},
	}
}

// byRegion groups in the configuration's region order; regions with no rows
// after filtering are omitted rather than reported as zero.
func (s *Service) byRegion(rows []models.IVSRecord) []RegionAggregate {
	type acc struct{ farmers, gain, women Stat }
	groups := make(map[models.Region]*acc)

	for _, rec := range rows {
		g, ok := groups[rec.Region]
		if !ok {
			g = &acc{}
			groups[rec.Region] = g
		}
		g.farmers.Add(float64(rec.FarmersTrained))
		g.gain.Add(rec.YieldGainPct())
		g.women.Add(rec.WomenPct)
	}

	var out []RegionAggregate
	for _, region := range s.cfg.Regions {
		g, ok := groups[region]
		if !ok {
			continue
		}
		out = append(out, RegionAggregate{
			Region:            region,
			Rows:              g.farmers.Count,
			AvgFarmersTrained: g.farmers.Mean(),
			AvgYieldGainPct:   g.gain.Mean(),
			AvgWomenPct:       g.women.Mean(),
		})
	}
	return out
}

func (s *Service) byYear(rows []models.IVSRecord) []YearAggregate {
	type acc struct{ farmers, gain, women Stat }
	groups := make(map[int]*acc)

	for _, rec := range rows {
		g, ok := groups[rec.Year]
		if !ok {
			g = &acc{}
			groups[rec.Year] = g
		}
		g.farmers.Add(float64(rec.FarmersTrained))
		g.gain.Add(rec.YieldGainPct())
		g.women.Add(rec.WomenPct)
	}

	var out []YearAggregate
	for _, year := range s.cfg.Years() {
		g, ok := groups[year]
		if !ok {
			continue
		}
		out = append(out, YearAggregate{
			Year:              year,
			Rows:              g.farmers.Count,
			AvgFarmersTrained: g.farmers.Mean(),
			AvgYieldGainPct:   g.gain.Mean(),
			AvgWomenPct:       g.women.Mean(),
		})
	}
	return out
}

func (s *Service) byTechnique(rows []models.VegetableRecord) []TechniqueAggregate {
	type acc struct {
		adopting int
		dry, wet Stat
	}
	groups := make(map[models.Technique]*acc)

	for _, rec := range rows {
		g, ok := groups[rec.Technique]
		if !ok {
			g = &acc{}
			groups[rec.Technique] = g
		}
		g.adopting += rec.FarmersAdopting
		g.dry.Add(rec.DrySeasonGainPct)
		g.wet.Add(rec.WetSeasonGainPct)
	}

	var out []TechniqueAggregate
	for _, technique := range s.cfg.Techniques {
		g, ok := groups[technique]
		if !ok {
			continue
		}
		out = append(out, TechniqueAggregate{
			Technique:           technique,
			Rows:                g.dry.Count,
			FarmersAdopting:     g.adopting,
			AvgDrySeasonGainPct: g.dry.Mean(),
			AvgWetSeasonGainPct: g.wet.Mean(),
		})
	}
	return out
}

// ErrSnapshotRequired guards handler wiring mistakes.
var ErrSnapshotRequired = dErrors.New(dErrors.CodeInternal, "nil snapshot passed to aggregator")
