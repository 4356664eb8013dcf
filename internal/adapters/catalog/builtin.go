package catalog

import "github.com/quentinrf/plant-monitor/services/photometry-service/internal/domain"

// Figures are typical for each lamp class, not for a specific product.
var builtinFixtures = []domain.Fixture{
	{Model: "led-bar-600", Manufacturer: "generic", PPF: 1620, BeamAngle: 120, Wattage: 600},
	{Model: "led-bar-320", Manufacturer: "generic", PPF: 870, BeamAngle: 120, Wattage: 320},
	{Model: "led-panel-240", Manufacturer: "generic", PPF: 540, BeamAngle: 120, Wattage: 240},
	{Model: "led-cob-100", Manufacturer: "generic", PPF: 230, BeamAngle: 90, Wattage: 100},
	{Model: "hps-de-1000", Manufacturer: "generic", PPF: 2100, BeamAngle: 140, Wattage: 1000},
	{Model: "cmh-315", Manufacturer: "generic", PPF: 580, BeamAngle: 150, Wattage: 315},
	{Model: "t5-ho-4x54", Manufacturer: "generic", PPF: 250, BeamAngle: 160, Wattage: 216},
}
