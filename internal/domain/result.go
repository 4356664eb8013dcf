package domain

import (
	"fmt"
	"math"
)

// Confidence levels attached to a CalculationResult.
const (
	ConfidenceHigh    = "high"
	ConfidenceReduced = "reduced"
)

// Warning codes for beam angles outside the calibrated range.
const (
	WarningWideBeam   = "wide_beam"
	WarningNarrowBeam = "narrow_beam"
)

// Warning is a non-fatal advisory about the accuracy of a result.
type Warning struct {
	Code      string  `json:"code" bson:"code"`
	SourceID  string  `json:"source_id,omitempty" bson:"sourceId,omitempty"`
	BeamAngle float64 `json:"beam_angle" bson:"beamAngle"`
	Message   string  `json:"message" bson:"message"`
}

// CalculationResult aggregates a sampled grid.
//
// Uniformity is min/average and MinMaxRatio is min/max; both lie in [0, 1].
type CalculationResult struct {
	MinPPFD     float64     `json:"min_ppfd" bson:"minPpfd"`
	MaxPPFD     float64     `json:"max_ppfd" bson:"maxPpfd"`
	AveragePPFD float64     `json:"average_ppfd" bson:"averagePpfd"`
	Uniformity  float64     `json:"uniformity" bson:"uniformity"`
	MinMaxRatio float64     `json:"min_max_ratio" bson:"minMaxRatio"`
	DLI         float64     `json:"dli" bson:"dli"` // mol/m²/day
	Category    string      `json:"category" bson:"category"`
	Confidence  string      `json:"confidence" bson:"confidence"`
	Warnings    []Warning   `json:"warnings,omitempty" bson:"warnings,omitempty"`
	Grid        *SampleGrid `json:"grid,omitempty" bson:"grid,omitempty"`
}

// IsLowLight returns true below 200 μmol/m²/s (clones and seedlings)
func (r *CalculationResult) IsLowLight() bool {
	return r.AveragePPFD < 200
}

// IsMediumLight returns true for 200-600 μmol/m²/s (vegetative growth)
func (r *CalculationResult) IsMediumLight() bool {
	return r.AveragePPFD >= 200 && r.AveragePPFD < 600
}

// IsHighLight returns true from 600 μmol/m²/s (flowering and fruiting)
func (r *CalculationResult) IsHighLight() bool {
	return r.AveragePPFD >= 600
}

// PPFDCategory returns the human-readable band for an average PPFD.
func PPFDCategory(avg float64) string {
	r := CalculationResult{AveragePPFD: avg}
	if r.IsLowLight() {
		return "Low Light"
	} else if r.IsMediumLight() {
		return "Medium Light"
	}
	return "High Light"
}

// DLI converts an average PPFD held for hours into mol/m²/day.
func DLI(avgPPFD, hours float64) float64 {
	return avgPPFD * (hours * 3600 / 1e6)
}

func summarize(grid *SampleGrid, sources []LightSource, opts CalcOptions) *CalculationResult {
	min, max := math.Inf(1), math.Inf(-1)
	var sum float64
	for _, v := range grid.Values {
		sum += v
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	n := float64(grid.Len())
	avg := sum / n
	if math.IsInf(sum, 1) {
		avg = 0
		for _, v := range grid.Values {
			avg += v / n
		}
	}

	res := &CalculationResult{
		MinPPFD:     min,
		MaxPPFD:     max,
		AveragePPFD: avg,
		Uniformity:  ratio(min, avg),
		MinMaxRatio: ratio(min, max),
		DLI:         DLI(avg, opts.PhotoperiodHours),
		Category:    PPFDCategory(avg),
		Confidence:  ConfidenceHigh,
		Warnings:    beamWarnings(sources, opts.Calibration),
		Grid:        grid,
	}
	if len(res.Warnings) > 0 {
		res.Confidence = ConfidenceReduced
	}
	return res
}

// ratio returns num/den clamped to [0, 1]; summation noise can push min/avg past 1
// on a perfectly flat field. Undefined ratios are 0.
func ratio(num, den float64) float64 {
	q := num / den
	if den <= 0 || math.IsNaN(q) {
		return 0
	}
	return math.Max(0, math.Min(1, q))
}

func beamWarnings(sources []LightSource, cal Calibration) []Warning {
	var out []Warning
	for _, s := range sources {
		switch {
		case s.BeamAngle >= cal.WideBeamThreshold:
			out = append(out, Warning{
				Code:      WarningWideBeam,
				SourceID:  s.ID,
				BeamAngle: s.BeamAngle,
				Message: fmt.Sprintf("beam angle %g° is at or above %g°; PPFD is likely underestimated",
					s.BeamAngle, cal.WideBeamThreshold),
			})
		case s.BeamAngle <= cal.NarrowBeamThreshold:
			out = append(out, Warning{
				Code:      WarningNarrowBeam,
				SourceID:  s.ID,
				BeamAngle: s.BeamAngle,
				Message: fmt.Sprintf("beam angle %g° is at or below %g°; PPFD is likely overestimated",
					s.BeamAngle, cal.NarrowBeamThreshold),
			})
		}
	}
	return out
}
