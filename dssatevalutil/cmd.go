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

// Package dssatevalutil holds the command-line interface of DSSATEval:
// the command tree, the configuration options, and the glue between the
// parsed model output and the figure renderers.
package dssatevalutil

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/cropsci/dssateval"
	"github.com/lnashier/viper"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	// Options are the configuration options available to DSSATEval.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "BaseDataDir",
			usage: `
              BaseDataDir is the directory holding one subdirectory per
              calibration code, each containing OVERVIEW.OUT, PlantGro.OUT,
              and config.yaml. The path can include environment variables.`,
			defaultVal: "data/calibrations",
			flagsets:   []*pflag.FlagSet{heatmapCmd.Flags(), nrmsegridCmd.Flags(), growthCmd.Flags()},
		},
		{
			name: "OutputDir",
			usage: `
              OutputDir is the directory figures are written to. It must
              exist. The path can include environment variables.`,
			shorthand:  "o",
			defaultVal: "figures",
			flagsets: []*pflag.FlagSet{heatmapCmd.Flags(), nrmsegridCmd.Flags(),
				barplotCmd.Flags(), growthCmd.Flags()},
		},
		{
			name: "WheatDataDir",
			usage: `
              WheatDataDir is the directory holding the .WHT field
              measurement files referenced by the simulation experiments.
              The path can include environment variables.`,
			defaultVal: "data/wheat",
			flagsets:   []*pflag.FlagSet{growthCmd.Flags()},
		},
		{
			name: "CalibrationCodes",
			usage: `
              CalibrationCodes lists the calibration subdirectories of
              BaseDataDir to compare.`,
			defaultVal: []string{},
			flagsets:   []*pflag.FlagSet{heatmapCmd.Flags(), nrmsegridCmd.Flags(), growthCmd.Flags()},
		},
		{
			name: "Treatments",
			usage: `
              Treatments maps the 4-character treatment codes embedded in
              simulation IDs to display labels.`,
			defaultVal: map[string]string{
				"WW23": "WW-23",
				"DR22": "DR-22",
				"DR23": "DR-23",
				"HT22": "HT-22",
			},
			flagsets: []*pflag.FlagSet{heatmapCmd.Flags(), nrmsegridCmd.Flags(), growthCmd.Flags()},
		},
		{
			name: "Treatment",
			usage: `
              Treatment is the 4-character treatment code a single-treatment
              figure is drawn for.`,
			shorthand:  "t",
			defaultVal: "WW23",
			flagsets:   []*pflag.FlagSet{heatmapCmd.Flags()},
		},
		{
			name: "SelectedVariables",
			usage: `
              SelectedVariables maps the OVERVIEW.OUT variable names to be
              scored to their display names.`,
			defaultVal: map[string]string{
				"Anthesis day (dap)":            "Anthesis (dap)",
				"Maturity day (dap)":            "Maturity (dap)",
				"Product wt (kg dm/ha;no loss)": "Grain yield (kg/ha)",
				"Product unit weight (g dm)":    "Kernel weight (g)",
				"Product number (no/m2)":        "Grain number (no/m2)",
				"Maximum leaf area index":       "Maximum LAI",
				"Canopy (tops) wt (kg dm/ha)":   "Biomass (kg/ha)",
			},
			flagsets: []*pflag.FlagSet{heatmapCmd.Flags(), nrmsegridCmd.Flags()},
		},
		{
			name: "NRMSENorm",
			usage: `
              NRMSENorm selects the NRMSE normalizer. Acceptable values are
              'mean', 'range', and 'stddev'.`,
			defaultVal: "mean",
			flagsets:   []*pflag.FlagSet{heatmapCmd.Flags(), nrmsegridCmd.Flags()},
		},
		{
			name: "GrowthVariables",
			usage: `
              GrowthVariables lists the PlantGro.OUT trait columns drawn in
              the growth comparison figure, one panel row each.`,
			defaultVal: []string{"LWAD", "RWAD"},
			flagsets:   []*pflag.FlagSet{growthCmd.Flags()},
		},
		{
			name: "GrowthTreatments",
			usage: `
              GrowthTreatments lists the 4-character treatment codes drawn
              in the growth comparison figure, one panel column each.`,
			defaultVal: []string{"WW23", "DR22", "DR23"},
			flagsets:   []*pflag.FlagSet{growthCmd.Flags()},
		},
		{
			name: "Cultivars",
			usage: `
              Cultivars restricts the growth curve averaging to these
              cultivar genotypes. An empty list averages every genotype
              present.`,
			defaultVal: []string{},
			flagsets:   []*pflag.FlagSet{growthCmd.Flags()},
		},
		{
			name: "TraitVariables",
			usage: `
              TraitVariables maps PlantGro.OUT trait columns to axis labels.`,
			defaultVal: map[string]string{
				"LAID": "Leaf area index",
				"LWAD": "Leaf weight (kg/ha)",
				"RWAD": "Root weight (kg/ha)",
				"SWAD": "Stem weight (kg/ha)",
				"GWAD": "Grain weight (kg/ha)",
				"CWAD": "Tops weight (kg/ha)",
				"HIAD": "Harvest index",
			},
			flagsets: []*pflag.FlagSet{growthCmd.Flags()},
		},
		{
			name: "ParameterFile",
			usage: `
              ParameterFile is the CSV table of calibrated cultivar
              parameters per step, cultivar, and ecotype. The path can
              include environment variables.`,
			defaultVal: "data/cultivar_parameters.csv",
			flagsets:   []*pflag.FlagSet{barplotCmd.Flags()},
		},
		{
			name: "Parameters",
			usage: `
              Parameters lists the cultivar parameter columns drawn along
              the barplot x axis.`,
			defaultVal: []string{"P1V", "P1D", "P5", "G1", "G2", "G3", "PHINT"},
			flagsets:   []*pflag.FlagSet{barplotCmd.Flags()},
		},
		{
			name: "Steps",
			usage: `
              Steps lists the calibration steps, one barplot panel each, in
              order.`,
			defaultVal: []string{"Ecotype_assessment", "Cultivar_calibration", "Combined_calibration"},
			flagsets:   []*pflag.FlagSet{barplotCmd.Flags()},
		},
		{
			name: "StepTitles",
			usage: `
              StepTitles maps calibration steps to barplot panel titles.`,
			defaultVal: map[string]string{
				"Ecotype_assessment":   "Ecotype assessment",
				"Cultivar_calibration": "Cultivar calibration",
				"Combined_calibration": "Combined calibration",
			},
			flagsets: []*pflag.FlagSet{barplotCmd.Flags()},
		},
		{
			name: "Ecotypes",
			usage: `
              Ecotypes fixes the bar order within each parameter group.
              subset_C is conventionally pinned third.`,
			defaultVal: []string{"CI0001", "CI0002", "subset_C", "CI0003"},
			flagsets:   []*pflag.FlagSet{barplotCmd.Flags()},
		},
		{
			name: "BaselineStep",
			usage: `
              BaselineStep names the step of the reference parameter set
              that percent changes are computed against.`,
			defaultVal: "Initial_value",
			flagsets:   []*pflag.FlagSet{barplotCmd.Flags()},
		},
		{
			name: "BaselineCultivar",
			usage: `
              BaselineCultivar names the cultivar of the reference
              parameter set.`,
			defaultVal: "Yecora_Rojo",
			flagsets:   []*pflag.FlagSet{barplotCmd.Flags()},
		},
		{
			name: "BaselineEcotype",
			usage: `
              BaselineEcotype names the ecotype of the reference parameter
              set.`,
			defaultVal: "CI0001",
			flagsets:   []*pflag.FlagSet{barplotCmd.Flags()},
		},
		{
			name: "ReplicateEcotype",
			usage: `
              ReplicateEcotype is the ecotype whose ReplicateFrom results
              are copied into the later steps for direct comparison.`,
			defaultVal: "subset_C",
			flagsets:   []*pflag.FlagSet{barplotCmd.Flags()},
		},
		{
			name: "ReplicateFrom",
			usage: `
              ReplicateFrom is the step whose ReplicateEcotype results are
              copied into every step listed after it in Steps.`,
			defaultVal: "Cultivar_calibration",
			flagsets:   []*pflag.FlagSet{barplotCmd.Flags()},
		},
		{
			name: "ScaleStep",
			usage: `
              ScaleStep is the step in which ScaleParameter is rescaled
              before plotting.`,
			defaultVal: "Ecotype_assessment",
			flagsets:   []*pflag.FlagSet{barplotCmd.Flags()},
		},
		{
			name: "ScaleParameter",
			usage: `
              ScaleParameter is the parameter whose percent change is
              multiplied by ScaleFactor within ScaleStep, to keep one
              dominant parameter from dwarfing the rest of the panel.`,
			defaultVal: "P1V",
			flagsets:   []*pflag.FlagSet{barplotCmd.Flags()},
		},
		{
			name: "ScaleFactor",
			usage: `
              ScaleFactor is the multiplier applied to ScaleParameter in
              ScaleStep.`,
			defaultVal: 0.05,
			flagsets:   []*pflag.FlagSet{barplotCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("DSSATEVAL")

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case []string:
				if option.shorthand == "" {
					set.StringSlice(option.name, option.defaultVal.([]string), option.usage)
				} else {
					set.StringSliceP(option.name, option.shorthand, option.defaultVal.([]string), option.usage)
				}
			case bool:
				if option.shorthand == "" {
					set.Bool(option.name, option.defaultVal.(bool), option.usage)
				} else {
					set.BoolP(option.name, option.shorthand, option.defaultVal.(bool), option.usage)
				}
			case int:
				if option.shorthand == "" {
					set.Int(option.name, option.defaultVal.(int), option.usage)
				} else {
					set.IntP(option.name, option.shorthand, option.defaultVal.(int), option.usage)
				}
			case float64:
				if option.shorthand == "" {
					set.Float64(option.name, option.defaultVal.(float64), option.usage)
				} else {
					set.Float64P(option.name, option.shorthand, option.defaultVal.(float64), option.usage)
				}
			case map[string]string:
				b := bytes.NewBuffer(nil)
				e := json.NewEncoder(b)
				e.Encode(option.defaultVal)
				s := string(b.Bytes())
				if option.shorthand == "" {
					set.String(option.name, s, option.usage)
				} else {
					set.StringP(option.name, option.shorthand, s, option.usage)
				}
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(heatmapCmd)
	Root.AddCommand(nrmsegridCmd)
	Root.AddCommand(barplotCmd)
	Root.AddCommand(growthCmd)
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("dssateval: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "dssateval",
	Short: "Evaluate DSSAT Wheat calibrations.",
	Long: `DSSATEval scores DSSAT Wheat model output against field measurements and
renders the comparison figures. Use the subcommands specified below to
access the functionality.

Refer to the subcommand documentation for configuration options and default
settings. Configuration can be changed by using a configuration file (and
providing the path to the file using the --config flag), by using
command-line arguments, or by setting environment variables in the format
'DSSATEVAL_var' where 'var' is the name of the variable to be set. Many
configuration variables are additionally allowed to contain environment
variables within them.
Refer to https://github.com/spf13/viper for additional configuration information.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of DSSATEval.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("DSSATEval v%s\n", dssateval.Version)
	},
	DisableAutoGenTag: true,
}

var heatmapCmd = &cobra.Command{
	Use:   "heatmap",
	Short: "Draw the four-metric heatmap for one treatment.",
	Long: `heatmap scores every calibration against the field measurements in
OVERVIEW.OUT and draws side-by-side NRMSE, MPE, R², and Gain heatmaps of
variables against calibrations for the selected treatment.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Heatmap(Cfg)
	},
	DisableAutoGenTag: true,
}

var nrmsegridCmd = &cobra.Command{
	Use:   "nrmsegrid",
	Short: "Draw the NRMSE grid across all treatments.",
	Long: `nrmsegrid draws one NRMSE heatmap per treatment on a shared color
scale, so calibrations can be compared across growing conditions at a
glance.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return NRMSEGrid(Cfg)
	},
	DisableAutoGenTag: true,
}

var barplotCmd = &cobra.Command{
	Use:   "barplot",
	Short: "Draw the cultivar parameter change barplot.",
	Long: `barplot draws per-step panels of the percent change of each cultivar
parameter relative to the reference parameter set, grouped by ecotype,
with standard error bars.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Barplot(Cfg)
	},
	DisableAutoGenTag: true,
}

var growthCmd = &cobra.Command{
	Use:   "growth",
	Short: "Draw the simulated against measured growth panels.",
	Long: `growth draws a grid of growth comparison panels, one row per trait
and one column per treatment: the simulated growth curves of every
calibration, averaged across the selected cultivars with deviation
bands, over the reconciled field measurements.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Growth(Cfg)
	},
	DisableAutoGenTag: true,
}
