package catalog

import "github.com/san-kum/oceansim/internal/dynamo"

func builtinModels() []*SimulationModel {
	return []*SimulationModel{
		{
			ID:              dynamo.PlasticDispersal,
			Title:           "Plastic dispersal",
			Description:     "Floating debris released from a river mouth spreads under surface currents and wind.",
			NominalDuration: 60,
			ScientificNote:  "Surface drift is roughly current velocity plus 1-3% of wind speed (windage).",
			params: []dynamo.Parameter{
				{ID: "pollutant_density", Name: "Pollutant density", Value: 50, Min: 10, Max: 150, Unit: "items/km²",
					Description: "Amount of debris released at the source.",
					ImpactNote:  "More debris means more particles on screen."},
				{ID: "current_speed", Name: "Current speed", Value: 1, Min: 0, Max: 5, Unit: "m/s",
					Description: "Strength of the background ocean current.",
					ImpactNote:  "Faster currents carry debris further along the flow field."},
				{ID: "wind_speed", Name: "Wind speed", Value: 5, Min: 0, Max: 20, Unit: "m/s",
					Description: "Wind pushing floating items downwind.",
					ImpactNote:  "Strong wind adds eastward drift and turbulence."},
				{ID: "degradation_rate", Name: "Degradation rate", Value: 0.1, Min: 0.01, Max: 1, Unit: "%/day",
					Description: "How quickly items fragment below visible size.",
					ImpactNote:  "Higher rates make particles fade and disappear sooner."},
			},
		},
		{
			ID:              dynamo.OilSpill,
			Title:           "Oil spill spreading",
			Description:     "A slick spreads from a point source, pushed by wind and broken up by waves.",
			NominalDuration: 45,
			ScientificNote:  "Spreading slows as viscosity rises; weathering removes light fractions by evaporation.",
			params: []dynamo.Parameter{
				{ID: "spill_volume", Name: "Spill volume", Value: 50, Min: 10, Max: 100, Unit: "kt",
					Description: "Quantity of oil released.",
					ImpactNote:  "Larger spills produce more droplets."},
				{ID: "viscosity", Name: "Viscosity", Value: 0.5, Min: 0.1, Max: 1, Unit: "Pa·s",
					Description: "Resistance of the oil to flow.",
					ImpactNote:  "Viscous oil spreads slowly and stays compact."},
				{ID: "wind_speed", Name: "Wind speed", Value: 10, Min: 0, Max: 30, Unit: "m/s",
					Description: "Wind dragging the slick across the surface.",
					ImpactNote:  "Wind stretches the slick downwind."},
				{ID: "wave_height", Name: "Wave height", Value: 2, Min: 0, Max: 8, Unit: "m",
					Description: "Significant wave height at the spill site.",
					ImpactNote:  "High waves scatter droplets and emulsify the slick."},
				{ID: "water_temperature", Name: "Water temperature", Value: 15, Min: 0, Max: 35, Unit: "°C",
					Description: "Sea surface temperature.",
					ImpactNote:  "Warm water evaporates oil faster."},
			},
		},
		{
			ID:              dynamo.FoodChain,
			Title:           "Micro-plastic food chain",
			Description:     "Micro-plastics enter plankton and climb the food chain to large fish.",
			NominalDuration: 50,
			ScientificNote:  "Concentrations rise with each trophic level (biomagnification).",
			params: []dynamo.Parameter{
				{ID: "microplastic_concentration", Name: "Micro-plastic concentration", Value: 30, Min: 5, Max: 100, Unit: "particles/m³",
					Description: "Micro-plastic load in the water column.",
					ImpactNote:  "Scales the population of plastics and organisms."},
				{ID: "ingestion_rate", Name: "Ingestion rate", Value: 0.3, Min: 0, Max: 1, Unit: "",
					Description: "Share of encountered plastic that organisms swallow.",
					ImpactNote:  "Hungrier organisms forage more actively."},
				{ID: "bioaccumulation_factor", Name: "Bioaccumulation factor", Value: 2, Min: 1, Max: 10, Unit: "×",
					Description: "Concentration multiplier between trophic levels.",
					ImpactNote:  "Raises the toxin load carried by top predators."},
			},
		},
		{
			ID:              dynamo.CoralBleaching,
			Title:           "Coral bleaching",
			Description:     "Heat stress and acidification drive corals to expel their algae and turn white.",
			NominalDuration: 40,
			ScientificNote:  "Bleaching typically starts about 1 °C above the summer maximum; low pH compounds the stress.",
			params: []dynamo.Parameter{
				{ID: "coral_density", Name: "Coral density", Value: 40, Min: 10, Max: 100, Unit: "colonies/ha",
					Description: "Number of coral colonies on the reef.",
					ImpactNote:  "More colonies on screen."},
				{ID: "temperature_anomaly", Name: "Temperature anomaly", Value: 0.5, Min: 0, Max: 4, Unit: "°C",
					Description: "Water temperature above the long-term summer maximum.",
					ImpactNote:  "Above 1 °C corals start bleaching."},
				{ID: "ph_level", Name: "pH level", Value: 8.1, Min: 7.6, Max: 8.3, Unit: "pH",
					Description: "Acidity of the sea water.",
					ImpactNote:  "Below 7.9 corals start bleaching."},
			},
		},
		{
			ID:              dynamo.Cleanup,
			Title:           "Cleanup technology",
			Description:     "Collection vessels sweep a polluted area in figure-eight patterns.",
			NominalDuration: 60,
			ScientificNote:  "Recovery rates depend on boom geometry and sweep coverage.",
			params: []dynamo.Parameter{
				{ID: "pollution_level", Name: "Pollution level", Value: 60, Min: 10, Max: 150, Unit: "t/km²",
					Description: "Amount of floating waste in the area.",
					ImpactNote:  "More waste means more particles to collect."},
				{ID: "cleanup_efficiency", Name: "Cleanup efficiency", Value: 0.6, Min: 0.1, Max: 1, Unit: "",
					Description: "Fraction of waste captured when a vessel passes.",
					ImpactNote:  "Efficient vessels remove debris faster."},
				{ID: "sweep_speed", Name: "Sweep speed", Value: 1, Min: 0.2, Max: 3, Unit: "×",
					Description: "How fast the vessels run their sweep pattern.",
					ImpactNote:  "Faster sweeps cover more area per second."},
			},
		},
	}
}
