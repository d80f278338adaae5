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

package dssatevalutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cropsci/dssateval/metrics"
	"github.com/lnashier/viper"
	"github.com/spf13/cast"
)

// expandStringSlice expands the environment variables in a slice of strings.
func expandStringSlice(s []string) []string {
	for i := 0; i < len(s); i++ {
		s[i] = os.ExpandEnv(s[i])
	}
	return s
}

// checkOutputDir makes sure the output directory is specified and
// exists, and expands any environment variables.
func checkOutputDir(dir string) (string, error) {
	if dir == "" {
		return "", fmt.Errorf(`you need to specify an output directory configuration variable (for example: OutputDir="figures")`)
	}
	dir = os.ExpandEnv(dir)
	if _, err := os.Stat(dir); err != nil {
		return dir, fmt.Errorf("dssateval: the OutputDir directory doesn't exist: %v", err)
	}
	return dir, nil
}

// outputPath joins a checked output directory with a figure file name.
func outputPath(cfg *viper.Viper, name string) (string, error) {
	dir, err := checkOutputDir(cfg.GetString("OutputDir"))
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

// checkCalibrationCodes makes sure at least one calibration is selected.
func checkCalibrationCodes(cfg *viper.Viper) ([]string, error) {
	codes := expandStringSlice(cfg.GetStringSlice("CalibrationCodes"))
	if len(codes) == 0 {
		return nil, fmt.Errorf("there are no calibrations specified. Please fill in " +
			"the CalibrationCodes configuration and try again.")
	}
	return codes, nil
}

// checkNorm converts the NRMSENorm configuration variable and ensures
// that an acceptable value was specified.
func checkNorm(name string) (metrics.Normalization, error) {
	switch name {
	case "mean":
		return metrics.NormMean, nil
	case "range":
		return metrics.NormRange, nil
	case "stddev":
		return metrics.NormStdDev, nil
	}
	return 0, fmt.Errorf("the NRMSENorm variable in the configuration file "+
		"needs to be set to either mean, range, or stddev, but is currently set to `%s`", name)
}

// GetStringMapString returns a map[string]string from a viper configuration,
// accounting for the fact that it might be a json object if it was set
// from a command line argument.
func GetStringMapString(varName string, cfg *viper.Viper) map[string]string {
	i := cfg.Get(varName)
	switch i.(type) {
	case map[string]string:
		return i.(map[string]string)
	case map[string]interface{}:
		return cast.ToStringMapString(i)
	case string:
		b := bytes.NewBuffer(([]byte)(i.(string)))
		d := json.NewDecoder(b)
		o := make(map[string]string)
		if err := d.Decode(&o); err != nil {
			panic(err)
		}
		return o
	default:
		panic(fmt.Errorf("invalid type for GetStringMapString variable %s: %#v", varName, i))
	}
}
