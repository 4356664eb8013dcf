package domain

// LightSource is a single fixture placed in the room frame.
// Z is the mounting height above the canopy, so the target plane is always z = 0.
type LightSource struct {
	ID        string  `json:"id,omitempty" bson:"id,omitempty"`
	X         float64 `json:"x" bson:"x"`
	Y         float64 `json:"y" bson:"y"`
	Z         float64 `json:"z" bson:"z"`
	PPF       float64 `json:"ppf" bson:"ppf"`             // μmol/s
	BeamAngle float64 `json:"beam_angle" bson:"beamAngle"` // full angle, degrees

	// FixtureModel records which catalog entry the source was resolved from, if any.
	FixtureModel string `json:"fixture_model,omitempty" bson:"fixtureModel,omitempty"`

	// Spectrum is carried through untouched; the estimator does not weight by it.
	Spectrum map[string]float64 `json:"spectrum,omitempty" bson:"spectrum,omitempty"`
}

// Validate checks the source on its own, without reference to a plane.
func (s LightSource) Validate() error {
	return s.validate("source")
}

func (s LightSource) validate(field string) error {
	values := []struct {
		name string
		v    float64
	}{{"x", s.X}, {"y", s.Y}, {"z", s.Z}, {"ppf", s.PPF}, {"beam_angle", s.BeamAngle}}
	for _, f := range values {
		if !isFinite(f.v) {
			return invalid(field+"."+f.name, "must be a finite number")
		}
	}
	if s.PPF <= 0 {
		return invalid(field+".ppf", "must be greater than 0, got %g", s.PPF)
	}
	if s.BeamAngle <= 0 || s.BeamAngle > 180 {
		return invalid(field+".beam_angle", "must be in (0, 180] degrees, got %g", s.BeamAngle)
	}
	if s.Z <= 0 {
		return invalid(field+".z", "mounting height must be above the canopy, got %g", s.Z)
	}
	return nil
}

// Fixture is a catalog entry: what a named fixture model emits.
type Fixture struct {
	Model        string  `yaml:"model" json:"model"`
	Manufacturer string  `yaml:"manufacturer" json:"manufacturer,omitempty"`
	PPF          float64 `yaml:"ppf" json:"ppf"`
	BeamAngle    float64 `yaml:"beam_angle" json:"beam_angle"`
	Wattage      float64 `yaml:"wattage" json:"wattage,omitempty"`
}

// Efficacy returns photon efficacy in μmol/J, or 0 when wattage is unknown.
func (f Fixture) Efficacy() float64 {
	if f.Wattage <= 0 {
		return 0
	}
	return f.PPF / f.Wattage
}

// Place resolves the fixture into a LightSource at the given position.
func (f Fixture) Place(id string, x, y, z float64) LightSource {
	return LightSource{
		ID:           id,
		X:            x,
		Y:            y,
		Z:            z,
		PPF:          f.PPF,
		BeamAngle:    f.BeamAngle,
		FixtureModel: f.Model,
	}
}

// FeetToMeters converts a length in feet to metres.
func FeetToMeters(ft float64) float64 {
	return ft * 0.3048
}
