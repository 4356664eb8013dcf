package domain

import "math"

// Falloff selects the tail shape beyond a source's effective radius.
type Falloff string

const (
	// FalloffCosineCubed treats the tail as a point source on a horizontal plane
	// (inverse-square with cosine incidence), matched to the disk value at the radius edge.
	FalloffCosineCubed Falloff = "cosine-cubed"

	// FalloffGaussian decays with a Gaussian skirt of sigma = effectiveRadius/2.
	FalloffGaussian Falloff = "gaussian"
)

// Calibration holds the empirical constants of the concentrated-disk model.
// They were tuned against a 600 W, 120° LED bar hung 0.91 m over the canopy and
// are expected to move when recalibrated against PAR-meter data.
type Calibration struct {
	ReferenceBeamAngle    float64 `yaml:"reference_beam_angle" json:"reference_beam_angle" bson:"referenceBeamAngle"`
	ConcentrationBase     float64 `yaml:"concentration_base" json:"concentration_base" bson:"concentrationBase"`
	ConcentrationExponent float64 `yaml:"concentration_exponent" json:"concentration_exponent" bson:"concentrationExponent"`
	WideBeamThreshold     float64 `yaml:"wide_beam_threshold" json:"wide_beam_threshold" bson:"wideBeamThreshold"`
	NarrowBeamThreshold   float64 `yaml:"narrow_beam_threshold" json:"narrow_beam_threshold" bson:"narrowBeamThreshold"`
	Falloff               Falloff `yaml:"falloff" json:"falloff" bson:"falloff"`
}

// DefaultCalibration returns the constants the calibration scenario was tuned with.
func DefaultCalibration() Calibration {
	return Calibration{
		ReferenceBeamAngle:    120,
		ConcentrationBase:     2.4,
		ConcentrationExponent: 1.0,
		WideBeamThreshold:     140,
		NarrowBeamThreshold:   90,
		Falloff:               FalloffCosineCubed,
	}
}

// ConcentrationFactor is how much tighter than a uniform cone a fixture of the
// given beam angle concentrates its flux. Decreasing in beamAngle.
func (c Calibration) ConcentrationFactor(beamAngle float64) float64 {
	return c.ConcentrationBase * math.Pow(c.ReferenceBeamAngle/beamAngle, c.ConcentrationExponent)
}

func (c Calibration) validate() error {
	if !isFinite(c.ReferenceBeamAngle) || c.ReferenceBeamAngle <= 0 || c.ReferenceBeamAngle > 180 {
		return invalid("calibration.reference_beam_angle", "must be in (0, 180], got %g", c.ReferenceBeamAngle)
	}
	if !isFinite(c.ConcentrationBase) || c.ConcentrationBase <= 0 {
		return invalid("calibration.concentration_base", "must be greater than 0, got %g", c.ConcentrationBase)
	}
	// Wider beams must always receive the smaller correction.
	if !isFinite(c.ConcentrationExponent) || c.ConcentrationExponent <= 0 {
		return invalid("calibration.concentration_exponent", "must be greater than 0, got %g", c.ConcentrationExponent)
	}
	if !isFinite(c.WideBeamThreshold) || c.WideBeamThreshold <= 0 || c.WideBeamThreshold > 180 {
		return invalid("calibration.wide_beam_threshold", "must be in (0, 180], got %g", c.WideBeamThreshold)
	}
	if !isFinite(c.NarrowBeamThreshold) || c.NarrowBeamThreshold <= 0 || c.NarrowBeamThreshold > 180 {
		return invalid("calibration.narrow_beam_threshold", "must be in (0, 180], got %g", c.NarrowBeamThreshold)
	}
	if c.NarrowBeamThreshold >= c.WideBeamThreshold {
		return invalid("calibration.narrow_beam_threshold", "must be below wide_beam_threshold (%g), got %g",
			c.WideBeamThreshold, c.NarrowBeamThreshold)
	}
	switch c.Falloff {
	case FalloffCosineCubed, FalloffGaussian:
	default:
		return invalid("calibration.falloff", "unknown falloff %q", c.Falloff)
	}
	return nil
}

// CalcOptions tunes a single coverage computation.
type CalcOptions struct {
	PhotoperiodHours float64 `yaml:"photoperiod_hours" json:"photoperiod_hours" bson:"photoperiodHours"`

	// Reflectance is a flat multiplicative bonus (1 + reflectance) standing in for
	// wall and floor bounce. It is not a radiosity model.
	Reflectance float64 `yaml:"reflectance" json:"reflectance" bson:"reflectance"`

	Calibration Calibration `yaml:"calibration" json:"calibration" bson:"calibration"`
}

// DefaultOptions returns a 12 h photoperiod, no reflectance and the default calibration.
func DefaultOptions() CalcOptions {
	return CalcOptions{
		PhotoperiodHours: 12,
		Calibration:      DefaultCalibration(),
	}
}

// Validate checks photoperiod, reflectance and calibration ranges.
func (o CalcOptions) Validate() error {
	if !isFinite(o.PhotoperiodHours) || o.PhotoperiodHours <= 0 || o.PhotoperiodHours > 24 {
		return invalid("options.photoperiod_hours", "must be in (0, 24], got %g", o.PhotoperiodHours)
	}
	if !isFinite(o.Reflectance) || o.Reflectance < 0 || o.Reflectance > 1 {
		return invalid("options.reflectance", "must be in [0, 1], got %g", o.Reflectance)
	}
	return o.Calibration.validate()
}
