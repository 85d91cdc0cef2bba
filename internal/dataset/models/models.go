// Package models defines the static programme configuration and the three
// observation record shapes tracked by the dashboard: inland valley swamp
// rice, tree crops, and vegetable techniques. Records are immutable once
// generated; nothing in this package mutates them.
package models

import (
	"time"

	dErrors "agridash/pkg/domain-errors"
)

// Region is a named administrative area of the programme. Identity is the
// name string; the set is static.
type Region string

// Programme districts.
const (
	RegionBo        Region = "Bo"
	RegionKenema    Region = "Kenema"
	RegionKono      Region = "Kono"
	RegionKailahun  Region = "Kailahun"
	RegionTonkolili Region = "Tonkolili"
	RegionPortLoko  Region = "Port Loko"
)

// validRegions is the single source of truth for region names.
var validRegions = map[Region]bool{
	RegionBo:        true,
	RegionKenema:    true,
	RegionKono:      true,
	RegionKailahun:  true,
	RegionTonkolili: true,
	RegionPortLoko:  true,
}

// AllRegions returns the regions in their canonical (generation) order.
func AllRegions() []Region {
	return []Region{
		RegionBo, RegionKenema, RegionKono,
		RegionKailahun, RegionTonkolili, RegionPortLoko,
	}
}

// ParseRegion constructs a Region from external input.
//
// Errors: returns CodeInvalidFilter when the name is not a programme region;
// filters referencing unknown regions are rejected, never silently ignored.
func ParseRegion(s string) (Region, error) {
	r := Region(s)
	if !validRegions[r] {
		return "", dErrors.New(dErrors.CodeInvalidFilter, "unknown region: "+s)
	}
	return r, nil
}

func (r Region) String() string { return string(r) }

// Technique is a named climate-smart agriculture practice.
type Technique string

// CSA practices tracked for the vegetable value chain.
const (
	TechniqueBundsCompost      Technique = "Bunds & Compost"
	TechniqueImprovedSeedlings Technique = "Improved Seedlings"
	TechniqueMulchingDrainage  Technique = "Mulching & Drainage"
	TechniqueDripIrrigation    Technique = "Drip Irrigation"
	TechniqueRaisedBeds        Technique = "Raised Beds"
	TechniqueShadingMulching   Technique = "Shading & Mulching"
)

var validTechniques = map[Technique]bool{
	TechniqueBundsCompost:      true,
	TechniqueImprovedSeedlings: true,
	TechniqueMulchingDrainage:  true,
	TechniqueDripIrrigation:    true,
	TechniqueRaisedBeds:        true,
	TechniqueShadingMulching:   true,
}

// AllTechniques returns the techniques in their canonical (generation) order.
func AllTechniques() []Technique {
	return []Technique{
		TechniqueBundsCompost, TechniqueImprovedSeedlings,
		TechniqueMulchingDrainage, TechniqueDripIrrigation,
		TechniqueRaisedBeds, TechniqueShadingMulching,
	}
}

// ParseTechnique constructs a Technique from external input.
//
// Errors: returns CodeInvalidFilter when the name is not a known practice.
func ParseTechnique(s string) (Technique, error) {
	t := Technique(s)
	if !validTechniques[t] {
		return "", dErrors.New(dErrors.CodeInvalidFilter, "unknown technique: "+s)
	}
	return t, nil
}

func (t Technique) String() string { return string(t) }

// Config is the static generation configuration. It never changes within a
// session, which is what makes the per-session snapshot a valid cache.
type Config struct {
	Regions    []Region
	YearFrom   int
	YearTo     int
	Techniques []Technique
}

// DefaultConfig covers the programme's reporting window.
func DefaultConfig() Config {
	return Config{
		Regions:    AllRegions(),
		YearFrom:   2019,
		YearTo:     2025,
		Techniques: AllTechniques(),
	}
}

// Years returns the inclusive year range in ascending order.
func (c Config) Years() []int {
	years := make([]int, 0, c.YearTo-c.YearFrom+1)
	for y := c.YearFrom; y <= c.YearTo; y++ {
		years = append(years, y)
	}
	return years
}

// IVSRecord is one inland valley swamp rice observation per region and year.
type IVSRecord struct {
	Region            Region  `json:"region"`
	Year              int     `json:"year"`
	FarmersTrained    int     `json:"farmers_trained"`
	WomenPct          float64 `json:"women_pct"`
	YouthPct          float64 `json:"youth_pct"`
	HectaresDeveloped float64 `json:"hectares_developed"`
	YieldBefore       float64 `json:"yield_before_tpha"`
	YieldAfter        float64 `json:"yield_after_tpha"`
}

// YieldGainPct derives the percentage yield change. Before and after are
// drawn independently, so a negative gain is legal output, not a bug.
func (r IVSRecord) YieldGainPct() float64 {
	return (r.YieldAfter - r.YieldBefore) / r.YieldBefore * 100
}

// TreeCropRecord is one tree-crop observation per region and year.
type TreeCropRecord struct {
	Region           Region  `json:"region"`
	Year             int     `json:"year"`
	CocoaSeedlings   int     `json:"cocoa_seedlings"`
	OilPalmSeedlings int     `json:"oil_palm_seedlings"`
	SurvivalRate     float64 `json:"survival_rate"`
}

// TotalSeedlings sums both seedling counts.
func (r TreeCropRecord) TotalSeedlings() int {
	return r.CocoaSeedlings + r.OilPalmSeedlings
}

// VegetableRecord is one vegetable-technique observation per region and
// practice.
type VegetableRecord struct {
	Region           Region    `json:"region"`
	Technique        Technique `json:"technique"`
	FarmersAdopting  int       `json:"farmers_adopting"`
	DrySeasonGainPct float64   `json:"dry_season_gain_pct"`
	WetSeasonGainPct float64   `json:"wet_season_gain_pct"`
}

// Snapshot is one session's generated tables. Row order is generation order
// (region-major, then year or technique) and is also the export order.
type Snapshot struct {
	Seed        uint64            `json:"seed"`
	GeneratedAt time.Time         `json:"generated_at"`
	IVS         []IVSRecord       `json:"ivs"`
	TreeCrops   []TreeCropRecord  `json:"tree_crops"`
	Vegetables  []VegetableRecord `json:"vegetables"`
}
