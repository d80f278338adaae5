/*
Copyright © 2023 the DSSATEval authors.
This file is part of DSSATEval.

DSSATEval is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

DSSATEval is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with DSSATEval.  If not, see <http://www.gnu.org/licenses/>.
*/

package dssateval

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	yaml "gopkg.in/yaml.v2"
)

// stringList is a YAML value that may be written as either a scalar
// string or a list of strings.
type stringList []string

func (s *stringList) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var one string
	if err := unmarshal(&one); err == nil {
		*s = stringList{one}
		return nil
	}
	var many []string
	if err := unmarshal(&many); err != nil {
		return err
	}
	*s = many
	return nil
}

// First returns the first element, or "" for an empty list.
func (s stringList) First() string {
	if len(s) == 0 {
		return ""
	}
	return s[0]
}

// Join joins the elements with ", ".
func (s stringList) Join() string {
	return strings.Join(s, ", ")
}

// CalibConfig is the per-calibration metadata read from config.yaml in
// each calibration directory. Every field may be a string or a list.
type CalibConfig struct {
	ShortLabel        stringList `yaml:"short_label"`
	LongLabel         stringList `yaml:"long_label"`
	CalibrationMethod stringList `yaml:"calibration_method"`
	OverviewVariables stringList `yaml:"overview_variables"`
	PlantGroVariables stringList `yaml:"plantgro_variables"`
}

// ReadCalibConfig reads and decodes a calibration config.yaml.
func ReadCalibConfig(path string) (*CalibConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("dssateval: reading calibration config: %w", err)
	}
	c := new(CalibConfig)
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("dssateval: decoding %s: %w", path, err)
	}
	return c, nil
}

// An OverviewObs is an OVERVIEW.OUT record tagged with its calibration
// metadata and relabeled for reporting. It is the unit the metric engine
// consumes.
type OverviewObs struct {
	Calibration string // calibration directory name
	Method      string
	ShortLabel  string
	LongLabel   string

	// Treatment is the human-readable field treatment label derived from
	// the first four characters of the simulation ID.
	Treatment string

	// Variable is the human-readable variable name.
	Variable string

	SimulationID string
	Cultivar     string
	Simulated    float64
	Measured     float64
}

// LoadOverviews parses <base>/<code>/OVERVIEW.OUT and <base>/<code>/config.yaml
// for every calibration code, drops records without a measured value, and
// tags the rest with the calibration metadata. Treatment codes (the first
// four characters of the simulation ID) are relabeled through treatments
// and raw DSSAT variable names through variables; names absent from a map
// pass through unchanged.
func LoadOverviews(base string, codes []string, treatments, variables map[string]string) ([]OverviewObs, error) {
	var obs []OverviewObs
	for _, code := range codes {
		records, err := ParseOverview(filepath.Join(base, code, "OVERVIEW.OUT"))
		if err != nil {
			return nil, err
		}
		cfg, err := ReadCalibConfig(filepath.Join(base, code, "config.yaml"))
		if err != nil {
			return nil, err
		}
		for _, r := range records {
			if math.IsNaN(r.Measured) {
				continue
			}
			treatment := r.SimulationID
			if len(treatment) > 4 {
				treatment = treatment[:4]
			}
			obs = append(obs, OverviewObs{
				Calibration:  code,
				Method:       cfg.CalibrationMethod.Join(),
				ShortLabel:   cfg.ShortLabel.First(),
				LongLabel:    cfg.LongLabel.Join(),
				Treatment:    relabel(treatment, treatments),
				Variable:     relabel(r.Variable, variables),
				SimulationID: r.SimulationID,
				Cultivar:     r.Cultivar,
				Simulated:    r.Simulated,
				Measured:     r.Measured,
			})
		}
	}
	return obs, nil
}

// relabel maps name through m, keeping name itself when unmapped.
func relabel(name string, m map[string]string) string {
	if m == nil {
		return name
	}
	if mapped, ok := m[name]; ok {
		return mapped
	}
	return name
}
