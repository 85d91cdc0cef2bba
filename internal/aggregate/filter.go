package aggregate

import (
	"net/url"
	"strconv"

	"agridash/internal/dataset/models"
	dErrors "agridash/pkg/domain-errors"
	pstrings "agridash/pkg/platform/strings"
)

// Focus selects which participation series leads the KPI set. It never
// filters rows; the source dashboard only re-points its charts.
type Focus string

const (
	FocusNone  Focus = "none"
	FocusWomen Focus = "women"
	FocusYouth Focus = "youth"
)

var validFocus = map[Focus]bool{
	FocusNone:  true,
	FocusWomen: true,
	FocusYouth: true,
}

// ParseFocus constructs a Focus from external input; empty means none.
func ParseFocus(s string) (Focus, error) {
	if s == "" {
		return FocusNone, nil
	}
	f := Focus(s)
	if !validFocus[f] {
		return "", dErrors.New(dErrors.CodeInvalidFilter, "unknown focus: "+s)
	}
	return f, nil
}

// FilterSelection is the user's current scope. It is transient: rebuilt from
// query parameters on every interaction, validated, then discarded.
type FilterSelection struct {
	Regions   []models.Region  `json:"regions"`
	YearFrom  int              `json:"year_from"`
	YearTo    int              `json:"year_to"`
	Technique models.Technique `json:"technique,omitempty"` // empty = all techniques
	Focus     Focus            `json:"focus"`
}

// AllOf builds the no-op selection for a configuration: every region, the
// full year range, no technique restriction.
func AllOf(cfg models.Config) FilterSelection {
	return FilterSelection{
		Regions:  append([]models.Region(nil), cfg.Regions...),
		YearFrom: cfg.YearFrom,
		YearTo:   cfg.YearTo,
		Focus:    FocusNone,
	}
}

// ParseFilter builds a FilterSelection from query parameters.
//
// Conventions: an absent "regions" parameter means every region; a present
// but blank one means the empty subset, which is a valid selection that
// yields empty results. Absent years default to the configured range.
//
// Errors: CodeBadRequest for unparseable integers, CodeInvalidFilter for
// unknown names or an inverted year range (via Validate).
func ParseFilter(q url.Values, cfg models.Config) (FilterSelection, error) {
	f := FilterSelection{
		YearFrom: cfg.YearFrom,
		YearTo:   cfg.YearTo,
		Focus:    FocusNone,
	}

	if !q.Has("regions") {
		f.Regions = append([]models.Region(nil), cfg.Regions...)
	} else {
		for _, name := range pstrings.SplitAndDedupe(q.Get("regions")) {
			region, err := models.ParseRegion(name)
			if err != nil {
				return FilterSelection{}, err
			}
			f.Regions = append(f.Regions, region)
		}
	}

	if raw := q.Get("from"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			return FilterSelection{}, dErrors.New(dErrors.CodeBadRequest, "from must be a year")
		}
		f.YearFrom = year
	}
	if raw := q.Get("to"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			return FilterSelection{}, dErrors.New(dErrors.CodeBadRequest, "to must be a year")
		}
		f.YearTo = year
	}

	if raw := q.Get("technique"); raw != "" {
		technique, err := models.ParseTechnique(raw)
		if err != nil {
			return FilterSelection{}, err
		}
		f.Technique = technique
	}

	focus, err := ParseFocus(q.Get("focus"))
	if err != nil {
		return FilterSelection{}, err
	}
	f.Focus = focus

	if err := f.Validate(); err != nil {
		return FilterSelection{}, err
	}
	return f, nil
}

// Validate rejects malformed selections. An empty region subset is valid;
// an inverted year range or unknown name is not. The source dashboard
// silently produced empty frames for these — rejected here instead.
func (f FilterSelection) Validate() error {
	if f.YearFrom > f.YearTo {
		return dErrors.New(dErrors.CodeInvalidFilter, "year_from after year_to")
	}
	for _, region := range f.Regions {
		if _, err := models.ParseRegion(region.String()); err != nil {
			return err
		}
	}
	if f.Technique != "" {
		if _, err := models.ParseTechnique(f.Technique.String()); err != nil {
			return err
		}
	}
	if f.Focus != "" && !validFocus[f.Focus] {
		return dErrors.New(dErrors.CodeInvalidFilter, "unknown focus: "+string(f.Focus))
	}
	return nil
}

// regionSet returns the selection's regions as a membership set.
func (f FilterSelection) regionSet() map[models.Region]bool {
	set := make(map[models.Region]bool, len(f.Regions))
	for _, region := range f.Regions {
		set[region] = true
	}
	return set
}
