// Package pb holds the wire contract of photometry.v1.CoverageService.
//
// Messages are plain Go structs carried with the json codec registered in
// codec.go; clients created with NewCoverageServiceClient select it
// automatically. Lengths are metres unless Units is "ft".
package pb

// LightSource is a fixture placement. Leave Ppf/BeamAngle at zero and set
// FixtureModel to take them from the catalog.
type LightSource struct {
	Id           string             `json:"id,omitempty"`
	X            float64            `json:"x"`
	Y            float64            `json:"y"`
	Z            float64            `json:"z"`
	Ppf          float64            `json:"ppf,omitempty"`
	BeamAngle    float64            `json:"beam_angle,omitempty"`
	FixtureModel string             `json:"fixture_model,omitempty"`
	Spectrum     map[string]float64 `json:"spectrum,omitempty"`
}

type Plane struct {
	Width      float64 `json:"width"`
	Length     float64 `json:"length"`
	Resolution float64 `json:"resolution"`
}

// Calibration overrides the service's calibration constants when set.
type Calibration struct {
	ReferenceBeamAngle    float64 `json:"reference_beam_angle,omitempty"`
	ConcentrationBase     float64 `json:"concentration_base,omitempty"`
	ConcentrationExponent float64 `json:"concentration_exponent,omitempty"`
	WideBeamThreshold     float64 `json:"wide_beam_threshold,omitempty"`
	NarrowBeamThreshold   float64 `json:"narrow_beam_threshold,omitempty"`
	Falloff               string  `json:"falloff,omitempty"`
}

// Options left nil fall back to the service defaults.
type Options struct {
	PhotoperiodHours *float64     `json:"photoperiod_hours,omitempty"`
	Reflectance      *float64     `json:"reflectance,omitempty"`
	Calibration      *Calibration `json:"calibration,omitempty"`
}

type Warning struct {
	Code      string  `json:"code"`
	SourceId  string  `json:"source_id,omitempty"`
	BeamAngle float64 `json:"beam_angle"`
	Message   string  `json:"message"`
}

type CoverageResult struct {
	MinPpfd     float64    `json:"min_ppfd"`
	MaxPpfd     float64    `json:"max_ppfd"`
	AveragePpfd float64    `json:"average_ppfd"`
	Uniformity  float64    `json:"uniformity"`
	MinMaxRatio float64    `json:"min_max_ratio"`
	Dli         float64    `json:"dli"`
	Category    string     `json:"category"`
	Confidence  string     `json:"confidence"`
	Warnings    []*Warning `json:"warnings,omitempty"`
	Columns     int32      `json:"columns"`
	Rows        int32      `json:"rows"`
	Grid        []float64  `json:"grid,omitempty"` // row-major, only when requested
}

type CoverageRun struct {
	Id        string          `json:"id"`
	Name      string          `json:"name,omitempty"`
	CreatedAt int64           `json:"created_at"` // unix seconds
	Sources   []*LightSource  `json:"sources"`
	Plane     *Plane          `json:"plane"`
	Result    *CoverageResult `json:"result"`
}

type Fixture struct {
	Model        string  `json:"model"`
	Manufacturer string  `json:"manufacturer,omitempty"`
	Ppf          float64 `json:"ppf"`
	BeamAngle    float64 `json:"beam_angle"`
	Wattage      float64 `json:"wattage,omitempty"`
	Efficacy     float64 `json:"efficacy,omitempty"`
}

type ComputeCoverageRequest struct {
	Name        string         `json:"name,omitempty"`
	Units       string         `json:"units,omitempty"`
	Sources     []*LightSource `json:"sources"`
	Plane       *Plane         `json:"plane"`
	Options     *Options       `json:"options,omitempty"`
	Persist     bool           `json:"persist,omitempty"`
	IncludeGrid bool           `json:"include_grid,omitempty"`
}

type ComputeCoverageResponse struct {
	Run *CoverageRun `json:"run"`
}

type GetRunRequest struct {
	Id          string `json:"id"`
	IncludeGrid bool   `json:"include_grid,omitempty"`
}

type GetRunResponse struct {
	Run *CoverageRun `json:"run"`
}

type GetLatestRunRequest struct {
	IncludeGrid bool `json:"include_grid,omitempty"`
}

type GetLatestRunResponse struct {
	Run *CoverageRun `json:"run"`
}

// ListRunsRequest selects runs created in [StartTime, EndTime), unix seconds.
type ListRunsRequest struct {
	StartTime int64 `json:"start_time"`
	EndTime   int64 `json:"end_time"`
}

type ListRunsResponse struct {
	Runs       []*CoverageRun `json:"runs"`
	AverageDli float64        `json:"average_dli"`
	MinDli     float64        `json:"min_dli"`
	MaxDli     float64        `json:"max_dli"`
}

type ListFixturesRequest struct{}

type ListFixturesResponse struct {
	Fixtures []*Fixture `json:"fixtures"`
}
