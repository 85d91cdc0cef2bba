package aggregate_test

import (
	"math"
	"net/url"
	"testing"

	"agridash/internal/aggregate"
	"agridash/internal/dataset/generator"
	"agridash/internal/dataset/models"
	dErrors "agridash/pkg/domain-errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type AggregateSuite struct {
	suite.Suite
	cfg  models.Config
	snap *models.Snapshot
	svc  *aggregate.Service
}

func TestAggregateSuite(t *testing.T) {
	suite.Run(t, new(AggregateSuite))
}

func (s *AggregateSuite) SetupSuite() {
	s.cfg = models.DefaultConfig()
	s.snap = generator.New(s.cfg).Generate(1234)
	s.svc = aggregate.NewService(s.cfg, nil)
}

func (s *AggregateSuite) TestFilterMembershipExact() {
	f := aggregate.FilterSelection{
		Regions:  []models.Region{models.RegionBo, models.RegionKono},
		YearFrom: 2020,
		YearTo:   2022,
		Focus:    aggregate.FocusNone,
	}

	tables, err := s.svc.Filter(s.snap, f)
	s.Require().NoError(err)

	// Count matching rows independently; boundaries inclusive on both ends.
	want := 0
	for _, rec := range s.snap.IVS {
		if (rec.Region == models.RegionBo || rec.Region == models.RegionKono) &&
			rec.Year >= 2020 && rec.Year <= 2022 {
			want++
		}
	}
	s.Len(tables.IVS, want)
	s.Equal(2*3, want, "2 regions x 3 years, lo and hi inclusive")

	for _, rec := range tables.IVS {
		s.Contains([]models.Region{models.RegionBo, models.RegionKono}, rec.Region)
		s.GreaterOrEqual(rec.Year, 2020)
		s.LessOrEqual(rec.Year, 2022)
	}
}

func (s *AggregateSuite) TestFilterPreservesGenerationOrder() {
	tables, err := s.svc.Filter(s.snap, aggregate.AllOf(s.cfg))
	s.Require().NoError(err)

	s.Equal(s.snap.IVS, tables.IVS)
	s.Equal(s.snap.TreeCrops, tables.TreeCrops)
	s.Equal(s.snap.Vegetables, tables.Vegetables)
}

func (s *AggregateSuite) TestFilterByTechnique() {
	f := aggregate.AllOf(s.cfg)
	f.Technique = models.TechniqueDripIrrigation

	tables, err := s.svc.Filter(s.snap, f)
	s.Require().NoError(err)

	s.Len(tables.Vegetables, len(s.cfg.Regions))
	for _, rec := range tables.Vegetables {
		s.Equal(models.TechniqueDripIrrigation, rec.Technique)
	}
	// Technique never restricts the other two tables.
	s.Len(tables.IVS, len(s.snap.IVS))
	s.Len(tables.TreeCrops, len(s.snap.TreeCrops))
}

func (s *AggregateSuite) TestAllFilterIsNoOpForKPITotals() {
	d, err := s.svc.Render(s.snap, aggregate.AllOf(s.cfg))
	s.Require().NoError(err)

	wantFarmers := 0.0
	wantSeedlings := 0.0
	for _, rec := range s.snap.IVS {
		wantFarmers += float64(rec.FarmersTrained)
	}
	for _, rec := range s.snap.TreeCrops {
		wantSeedlings += float64(rec.TotalSeedlings())
	}

	s.InDelta(wantFarmers, kpiValue(s.T(), d, aggregate.KPITotalFarmersTrained), 1e-9)
	s.InDelta(wantSeedlings, kpiValue(s.T(), d, aggregate.KPITotalSeedlings), 1e-9)
	s.Equal(len(s.snap.IVS), d.Rows.IVS)
}

func (s *AggregateSuite) TestEmptyRegionSubsetYieldsSentinels() {
	f := aggregate.FilterSelection{
		Regions:  nil,
		YearFrom: s.cfg.YearFrom,
		YearTo:   s.cfg.YearTo,
		Focus:    aggregate.FocusNone,
	}

	d, err := s.svc.Render(s.snap, f)
	s.Require().NoError(err)

	s.Equal(aggregate.RowCounts{}, d.Rows)
	s.Empty(d.ByRegion)
	s.Empty(d.ByYear)
	s.Empty(d.ByTechnique)

	for _, kpi := range d.KPIs {
		s.Equal(0, kpi.Count, "kpi %s", kpi.Name)
		s.Equal(0.0, kpi.Value, "kpi %s", kpi.Name)
		s.False(math.IsNaN(kpi.Value), "kpi %s", kpi.Name)
	}
}

func (s *AggregateSuite) TestInvertedYearRangeRejected() {
	f := aggregate.AllOf(s.cfg)
	f.YearFrom = 2024
	f.YearTo = 2020

	_, err := s.svc.Render(s.snap, f)
	s.Require().Error(err)
	s.True(dErrors.Is(err, dErrors.CodeInvalidFilter))
}

func (s *AggregateSuite) TestUnknownRegionRejected() {
	f := aggregate.AllOf(s.cfg)
	f.Regions = append(f.Regions, models.Region("Freetown"))

	_, err := s.svc.Filter(s.snap, f)
	s.Require().Error(err)
	s.True(dErrors.Is(err, dErrors.CodeInvalidFilter))
}

func (s *AggregateSuite) TestGroupedMeansRecombineToOverallMean() {
	d, err := s.svc.Render(s.snap, aggregate.AllOf(s.cfg))
	s.Require().NoError(err)

	// Row-count-weighted recombination of per-region means must reproduce
	// the ungrouped mean.
	var weighted float64
	var rows int
	for _, g := range d.ByRegion {
		weighted += g.AvgYieldGainPct * float64(g.Rows)
		rows += g.Rows
	}
	s.Require().NotZero(rows)

	var overall float64
	for _, rec := range s.snap.IVS {
		overall += rec.YieldGainPct()
	}
	overall /= float64(len(s.snap.IVS))

	s.InDelta(overall, weighted/float64(rows), 1e-9)
}

func (s *AggregateSuite) TestGroupOrderFollowsConfig() {
	d, err := s.svc.Render(s.snap, aggregate.AllOf(s.cfg))
	s.Require().NoError(err)

	s.Require().Len(d.ByRegion, len(s.cfg.Regions))
	for i, g := range d.ByRegion {
		s.Equal(s.cfg.Regions[i], g.Region)
		s.Equal(len(s.cfg.Years()), g.Rows)
	}
	s.Require().Len(d.ByYear, len(s.cfg.Years()))
	for i, g := range d.ByYear {
		s.Equal(s.cfg.YearFrom+i, g.Year)
	}
	s.Require().Len(d.ByTechnique, len(s.cfg.Techniques))
}

func (s *AggregateSuite) TestFocusSelectsLeadKPI() {
	f := aggregate.AllOf(s.cfg)

	f.Focus = aggregate.FocusWomen
	d, err := s.svc.Render(s.snap, f)
	s.Require().NoError(err)
	s.Equal(aggregate.KPIAvgWomenPct, d.LeadKPI)

	f.Focus = aggregate.FocusYouth
	d, err = s.svc.Render(s.snap, f)
	s.Require().NoError(err)
	s.Equal(aggregate.KPIAvgYouthPct, d.LeadKPI)

	// Focus never changes row membership.
	s.Equal(len(s.snap.IVS), d.Rows.IVS)

	f.Focus = aggregate.FocusNone
	d, err = s.svc.Render(s.snap, f)
	s.Require().NoError(err)
	s.Empty(d.LeadKPI)
}

func (s *AggregateSuite) TestNilSnapshotRejected() {
	_, err := s.svc.Filter(nil, aggregate.AllOf(s.cfg))
	s.Require().Error(err)
	s.True(dErrors.Is(err, dErrors.CodeInternal))
}

func kpiValue(t *testing.T, d *aggregate.Dashboard, name string) float64 {
	t.Helper()
	for _, kpi := range d.KPIs {
		if kpi.Name == name {
			return kpi.Value
		}
	}
	t.Fatalf("kpi %q not present", name)
	return 0
}

func TestParseFilterDefaults(t *testing.T) {
	cfg := models.DefaultConfig()

	f, err := aggregate.ParseFilter(url.Values{}, cfg)
	require.NoError(t, err)

	assert.Equal(t, cfg.Regions, f.Regions)
	assert.Equal(t, cfg.YearFrom, f.YearFrom)
	assert.Equal(t, cfg.YearTo, f.YearTo)
	assert.Empty(t, string(f.Technique))
	assert.Equal(t, aggregate.FocusNone, f.Focus)
}

func TestParseFilterExplicitValues(t *testing.T) {
	cfg := models.DefaultConfig()
	q := url.Values{}
	q.Set("regions", "Bo, Kono ,Bo")
	q.Set("from", "2021")
	q.Set("to", "2023")
	q.Set("technique", "Raised Beds")
	q.Set("focus", "women")

	f, err := aggregate.ParseFilter(q, cfg)
	require.NoError(t, err)

	assert.Equal(t, []models.Region{models.RegionBo, models.RegionKono}, f.Regions)
	assert.Equal(t, 2021, f.YearFrom)
	assert.Equal(t, 2023, f.YearTo)
	assert.Equal(t, models.TechniqueRaisedBeds, f.Technique)
	assert.Equal(t, aggregate.FocusWomen, f.Focus)
}

func TestParseFilterBlankRegionsMeansEmptySubset(t *testing.T) {
	cfg := models.DefaultConfig()
	q := url.Values{}
	q.Set("regions", "")

	f, err := aggregate.ParseFilter(q, cfg)
	require.NoError(t, err)
	assert.Empty(t, f.Regions)
}

func TestParseFilterErrors(t *testing.T) {
	cfg := models.DefaultConfig()

	tests := []struct {
		name  string
		query url.Values
		code  dErrors.Code
	}{
		{
			name:  "unknown region",
			query: url.Values{"regions": {"Atlantis"}},
			code:  dErrors.CodeInvalidFilter,
		},
		{
			name:  "unknown technique",
			query: url.Values{"technique": {"Terracing"}},
			code:  dErrors.CodeInvalidFilter,
		},
		{
			name:  "unknown focus",
			query: url.Values{"focus": {"elders"}},
			code:  dErrors.CodeInvalidFilter,
		},
		{
			name:  "inverted year range",
			query: url.Values{"from": {"2024"}, "to": {"2020"}},
			code:  dErrors.CodeInvalidFilter,
		},
		{
			name:  "non-numeric year",
			query: url.Values{"from": {"twenty"}},
			code:  dErrors.CodeBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := aggregate.ParseFilter(tt.query, cfg)
			require.Error(t, err)
			assert.True(t, dErrors.Is(err, tt.code))
		})
	}
}
