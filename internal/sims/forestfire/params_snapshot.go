package forestfire

import (
	"strconv"

	"wildfire-ca/internal/core"
)

// Parameters reports the active configuration grouped for display.
func (e *Engine) Parameters() core.ParameterSnapshot {
	cfg := e.cfg
	seed := "random"
	if cfg.Seed != nil {
		seed = strconv.FormatInt(*cfg.Seed, 10)
	}
	groups := []core.ParameterGroup{
		{
			Name: "World",
			Params: []core.Parameter{
				intParam("width", "Width", cfg.Width),
				intParam("height", "Height", cfg.Height),
				{Key: "seed", Label: "Seed", Type: core.ParamTypeInt, Value: seed},
				intParam("step", "Step", e.step),
			},
		},
		{
			Name: "Vegetation",
			Params: []core.Parameter{
				floatParam("p", "Growth (p)", cfg.Growth),
				floatParam("init_tree_density", "Initial density", cfg.InitTreeDensity),
				floatParam("conifer_ratio", "Conifer ratio", cfg.ConiferRatio),
				floatParam("flamm_decid", "Deciduous flammability", cfg.FlammDecid),
				floatParam("flamm_conif", "Conifer flammability", cfg.FlammConif),
			},
		},
		{
			Name: "Fire",
			Params: []core.Parameter{
				floatParam("f", "Lightning (f)", cfg.Lightning),
				boolParam("lightning_enabled", "Lightning", cfg.LightningEnabled),
				choiceParam("neighborhood", "Neighborhood", string(cfg.Neighborhood)),
			},
		},
		{
			Name: "Weather",
			Params: []core.Parameter{
				floatParam("humidity", "Humidity", cfg.Humidity),
				boolParam("wind_enabled", "Wind", cfg.WindEnabled),
				choiceParam("wind_dir", "Wind direction", string(cfg.WindDir)),
				floatParam("wind_strength", "Wind strength", cfg.WindStrength),
			},
		},
	}
	return core.ParameterSnapshot{Groups: groups}
}

// ParameterControls lists the parameters that can be adjusted while the
// simulation runs. Bounds follow the clamping the step rule applies.
func (e *Engine) ParameterControls() []core.ParameterControl {
	return []core.ParameterControl{
		floatControl("p", "Growth (p)", 0.001, 0, 1),
		floatControl("f", "Lightning (f)", 0.0005, 0, 1),
		floatControl("humidity", "Humidity", 0.05, 0, 1),
		floatControl("wind_strength", "Wind strength", 0.05, 0, 1),
		floatControl("conifer_ratio", "Conifer ratio", 0.05, 0, 1),
		floatControl("init_tree_density", "Initial density", 0.05, 0, 1),
		floatControl("flamm_decid", "Deciduous flammability", 0.05, 0, 5),
		floatControl("flamm_conif", "Conifer flammability", 0.05, 0, 5),
		{Key: "lightning_enabled", Label: "Lightning", Type: core.ParamTypeBool},
		{Key: "wind_enabled", Label: "Wind", Type: core.ParamTypeBool},
		{Key: "wind_dir", Label: "Wind direction", Type: core.ParamTypeChoice, Options: windDirNames()},
		{Key: "neighborhood", Label: "Neighborhood", Type: core.ParamTypeChoice, Options: neighborhoodNames()},
	}
}

// SetFloatParameter clamps and applies a floating point parameter. It reports
// false for unknown keys.
func (e *Engine) SetFloatParameter(key string, value float64) bool {
	for _, ctrl := range e.ParameterControls() {
		if ctrl.Key != key || ctrl.Type != core.ParamTypeFloat {
			continue
		}
		value = core.Clamp(value, ctrl.Min, ctrl.Max)
		return e.cfg.Set(key, strconv.FormatFloat(value, 'f', -1, 64)) == nil
	}
	return false
}

// SetIntParameter selects an option of a choice parameter by index. Indices
// wrap around so repeated +1 steps cycle through the options.
func (e *Engine) SetIntParameter(key string, value int) bool {
	switch key {
	case "wind_dir":
		n := len(WindDirs)
		e.cfg.WindDir = WindDirs[(value%n+n)%n]
		return true
	case "neighborhood":
		n := len(Neighborhoods)
		e.cfg.Neighborhood = Neighborhoods[(value%n+n)%n]
		return true
	}
	return false
}

// SetBoolParameter applies a boolean parameter.
func (e *Engine) SetBoolParameter(key string, value bool) bool {
	switch key {
	case "lightning_enabled":
		e.cfg.LightningEnabled = value
		return true
	case "wind_enabled":
		e.cfg.WindEnabled = value
		return true
	}
	return false
}

func windDirNames() []string {
	names := make([]string, len(WindDirs))
	for i, d := range WindDirs {
		names[i] = string(d)
	}
	return names
}

func neighborhoodNames() []string {
	names := make([]string, len(Neighborhoods))
	for i, n := range Neighborhoods {
		names[i] = string(n)
	}
	return names
}

func floatControl(key, label string, step, lo, hi float64) core.ParameterControl {
	return core.ParameterControl{
		Key:    key,
		Label:  label,
		Type:   core.ParamTypeFloat,
		Step:   step,
		Min:    lo,
		Max:    hi,
		HasMin: true,
		HasMax: true,
	}
}

func intParam(key, label string, value int) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.Itoa(value),
	}
}

func floatParam(key, label string, value float64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeFloat,
		Value: strconv.FormatFloat(value, 'f', -1, 64),
	}
}

func boolParam(key, label string, value bool) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeBool,
		Value: strconv.FormatBool(value),
	}
}

func choiceParam(key, label, value string) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeChoice,
		Value: value,
	}
}
