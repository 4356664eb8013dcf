package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/quentinrf/plant-monitor/services/photometry-service/pkg/pb"
)

// scenario is the YAML layout read by ppfd:
//
//	name: 4x4 tent
//	units: ft
//	plane: {width: 4, length: 4, resolution: 0.5}
//	sources:
//	  - {id: bar, x: 2, y: 2, z: 3, fixture: led-bar-600}
//	options:
//	  photoperiod_hours: 18
type scenario struct {
	Name    string           `yaml:"name"`
	Units   string           `yaml:"units"`
	Plane   scenarioPlane    `yaml:"plane"`
	Sources []scenarioSource `yaml:"sources"`
	Options scenarioOptions  `yaml:"options"`
}

type scenarioPlane struct {
	Width      float64 `yaml:"width"`
	Length     float64 `yaml:"length"`
	Resolution float64 `yaml:"resolution"`
}

type scenarioSource struct {
	ID        string             `yaml:"id"`
	X         float64            `yaml:"x"`
	Y         float64            `yaml:"y"`
	Z         float64            `yaml:"z"`
	PPF       float64            `yaml:"ppf"`
	BeamAngle float64            `yaml:"beam_angle"`
	Fixture   string             `yaml:"fixture"`
	Spectrum  map[string]float64 `yaml:"spectrum"`
}

type scenarioOptions struct {
	PhotoperiodHours *float64             `yaml:"photoperiod_hours"`
	Reflectance      *float64             `yaml:"reflectance"`
	Calibration      *scenarioCalibration `yaml:"calibration"`
}

type scenarioCalibration struct {
	ReferenceBeamAngle    float64 `yaml:"reference_beam_angle"`
	ConcentrationBase     float64 `yaml:"concentration_base"`
	ConcentrationExponent float64 `yaml:"concentration_exponent"`
	Falloff               string  `yaml:"falloff"`
}

func loadScenario(path string) (*scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(sc.Sources) == 0 {
		return nil, fmt.Errorf("%s: no sources", path)
	}
	return &sc, nil
}

func (sc *scenario) request(includeGrid bool) *pb.ComputeCoverageRequest {
	req := &pb.ComputeCoverageRequest{
		Name:  sc.Name,
		Units: sc.Units,
		Plane: &pb.Plane{
			Width:      sc.Plane.Width,
			Length:     sc.Plane.Length,
			Resolution: sc.Plane.Resolution,
		},
		Options: &pb.Options{
			PhotoperiodHours: sc.Options.PhotoperiodHours,
			Reflectance:      sc.Options.Reflectance,
		},
		IncludeGrid: includeGrid,
	}
	if c := sc.Options.Calibration; c != nil {
		req.Options.Calibration = &pb.Calibration{
			ReferenceBeamAngle:    c.ReferenceBeamAngle,
			ConcentrationBase:     c.ConcentrationBase,
			ConcentrationExponent: c.ConcentrationExponent,
			Falloff:               c.Falloff,
		}
	}
	for _, s := range sc.Sources {
		req.Sources = append(req.Sources, &pb.LightSource{
			Id:           s.ID,
			X:            s.X,
			Y:            s.Y,
			Z:            s.Z,
			Ppf:          s.PPF,
			BeamAngle:    s.BeamAngle,
			FixtureModel: s.Fixture,
			Spectrum:     s.Spectrum,
		})
	}
	return req
}
