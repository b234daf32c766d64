package config

import "sort"

var Presets = map[string]map[string]*Config{
	"plastic_dispersal": {
		"river_flood": {
			Model: "plastic_dispersal", Duration: 60,
			Params: map[string]float64{"pollutant_density": 140, "current_speed": 3.5, "wind_speed": 4},
		},
		"gyre": {
			Model: "plastic_dispersal", Duration: 90,
			Params: map[string]float64{"pollutant_density": 80, "current_speed": 0.5, "wind_speed": 2, "degradation_rate": 0.02},
		},
		"gale": {
			Model: "plastic_dispersal", Duration: 40,
			Params: map[string]float64{"wind_speed": 20, "current_speed": 1.5},
		},
	},
	"oil_spill": {
		"calm": {
			Model: "oil_spill", Duration: 45,
			Params: map[string]float64{"wind_speed": 2, "wave_height": 0.5, "viscosity": 0.4},
		},
		"storm": {
			Model: "oil_spill", Duration: 45,
			Params: map[string]float64{"wind_speed": 28, "wave_height": 7, "viscosity": 0.3},
		},
		"heavy_crude": {
			Model: "oil_spill", Duration: 60,
			Params: map[string]float64{"spill_volume": 100, "viscosity": 1, "water_temperature": 8},
		},
		"tropical": {
			Model: "oil_spill", Duration: 30,
			Params: map[string]float64{"water_temperature": 32, "viscosity": 0.2},
		},
	},
	"food_chain": {
		"clean_water": {
			Model: "food_chain", Duration: 50,
			Params: map[string]float64{"microplastic_concentration": 10, "ingestion_rate": 0.1, "bioaccumulation_factor": 1.5},
		},
		"polluted_bay": {
			Model: "food_chain", Duration: 50,
			Params: map[string]float64{"microplastic_concentration": 90, "ingestion_rate": 0.8, "bioaccumulation_factor": 6},
		},
	},
	"coral_bleaching": {
		"healthy": {
			Model: "coral_bleaching", Duration: 40,
			Params: map[string]float64{"temperature_anomaly": 0.2, "ph_level": 8.2},
		},
		"heatwave": {
			Model: "coral_bleaching", Duration: 40,
			Params: map[string]float64{"temperature_anomaly": 2.5, "ph_level": 8.1},
		},
		"acidified": {
			Model: "coral_bleaching", Duration: 40,
			Params: map[string]float64{"temperature_anomaly": 0.5, "ph_level": 7.7},
		},
	},
	"cleanup": {
		"skimmer_fleet": {
			Model: "cleanup", Duration: 60,
			Params: map[string]float64{"cleanup_efficiency": 0.9, "sweep_speed": 2},
		},
		"understaffed": {
			Model: "cleanup", Duration: 60,
			Params: map[string]float64{"pollution_level": 140, "cleanup_efficiency": 0.2, "sweep_speed": 0.5},
		},
	},
}

func GetPreset(model, preset string) *Config {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	cfg, ok := modelPresets[preset]
	if !ok {
		return nil
	}
	return cfg
}

// ListPresets returns the preset names for model in sorted order.
func ListPresets(model string) []string {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(modelPresets))
	for name := range modelPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
