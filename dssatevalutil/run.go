/*
Copyright © 2024 the DSSATEval authors.
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
	"fmt"
	"os"

	"github.com/cropsci/dssateval"
	"github.com/cropsci/dssateval/figures"
	"github.com/cropsci/dssateval/metrics"
	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
)

// Log receives progress information. It may be changed before running a
// command.
var Log logrus.FieldLogger = logrus.StandardLogger()

// loadScores parses and scores OVERVIEW.OUT for every configured
// calibration.
func loadScores(cfg *viper.Viper) (nrmse, mpe, r2, gain []metrics.Score, err error) {
	codes, err := checkCalibrationCodes(cfg)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	norm, err := checkNorm(cfg.GetString("NRMSENorm"))
	if err != nil {
		return nil, nil, nil, nil, err
	}
	base := os.ExpandEnv(cfg.GetString("BaseDataDir"))
	treatments := GetStringMapString("Treatments", cfg)
	variables := GetStringMapString("SelectedVariables", cfg)

	Log.WithFields(logrus.Fields{
		"base":  base,
		"codes": codes,
	}).Info("scoring calibrations")

	obs, err := dssateval.LoadOverviews(base, codes, treatments, variables)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	return metrics.NRMSE(obs, norm), metrics.MPE(obs), metrics.R2OneToOne(obs), metrics.Gain(obs), nil
}

// selectedVariables returns the display names of the scored variables,
// restricted to the SelectedVariables configuration, in score order.
func selectedVariables(cfg *viper.Viper, scores []metrics.Score) []string {
	want := make(map[string]bool)
	for _, v := range GetStringMapString("SelectedVariables", cfg) {
		want[v] = true
	}
	seen := make(map[string]bool)
	var out []string
	for _, s := range scores {
		if want[s.Variable] && !seen[s.Variable] {
			seen[s.Variable] = true
			out = append(out, s.Variable)
		}
	}
	return out
}

// scoredTreatments returns the distinct treatment labels in score order.
func scoredTreatments(scores []metrics.Score) []string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range scores {
		if !seen[s.Treatment] {
			seen[s.Treatment] = true
			out = append(out, s.Treatment)
		}
	}
	return out
}

// treatmentLabel maps a treatment code through the Treatments
// configuration.
func treatmentLabel(cfg *viper.Viper, code string) string {
	if label, ok := GetStringMapString("Treatments", cfg)[code]; ok {
		return label
	}
	return code
}

// Heatmap renders the four-metric heatmap figure for the configured
// treatment.
func Heatmap(cfg *viper.Viper) error {
	nrmse, mpe, r2, gain, err := loadScores(cfg)
	if err != nil {
		return err
	}
	code := cfg.GetString("Treatment")
	treatment := treatmentLabel(cfg, code)
	variables := selectedVariables(cfg, nrmse)
	labels := metrics.ShortLabels(nrmse)

	n, m, r, g := metrics.PrepareTreatment(nrmse, mpe, r2, gain, treatment, variables, labels)

	path, err := outputPath(cfg, "heatmap_"+code+".png")
	if err != nil {
		return err
	}
	if err := figures.MetricHeatmaps(n, m, r, g, figures.HeatmapOptions{
		Treatment: treatment,
		XLabel:    "Calibration",
		Path:      path,
	}); err != nil {
		return err
	}
	Log.WithFields(logrus.Fields{
		"treatment": treatment,
		"path":      path,
	}).Info("saved heatmap figure")
	return nil
}

// NRMSEGrid renders the NRMSE grid figure across all scored treatments.
func NRMSEGrid(cfg *viper.Viper) error {
	nrmse, _, _, _, err := loadScores(cfg)
	if err != nil {
		return err
	}
	variables := selectedVariables(cfg, nrmse)
	labels := metrics.ShortLabels(nrmse)
	treatments := scoredTreatments(nrmse)
	if len(treatments) == 0 {
		return fmt.Errorf("dssateval: no treatments were scored")
	}

	tables := make(map[string]*metrics.Table, len(treatments))
	for _, treatment := range treatments {
		tables[treatment], _, _, _ = metrics.PrepareTreatment(nrmse, nil, nil, nil,
			treatment, variables, labels)
	}
	limits := metrics.GlobalLimits(nrmse, nil, nil, nil, variables, labels)

	path, err := outputPath(cfg, "nrmse_grid.png")
	if err != nil {
		return err
	}
	if err := figures.NRMSEGrid(tables, limits, figures.GridOptions{
		Treatments: treatments,
		XLabel:     "Calibration",
		Path:       path,
	}); err != nil {
		return err
	}
	Log.WithFields(logrus.Fields{
		"treatments": treatments,
		"path":       path,
	}).Info("saved NRMSE grid figure")
	return nil
}

// Barplot renders the cultivar parameter change figure.
func Barplot(cfg *viper.Viper) error {
	parameters := expandStringSlice(cfg.GetStringSlice("Parameters"))
	table, err := dssateval.LoadParameterTable(os.ExpandEnv(cfg.GetString("ParameterFile")), parameters)
	if err != nil {
		return err
	}
	changes, err := table.PercentChanges(cfg.GetString("BaselineStep"),
		cfg.GetString("BaselineCultivar"), cfg.GetString("BaselineEcotype"))
	if err != nil {
		return err
	}

	steps := cfg.GetStringSlice("Steps")
	replicateFrom := cfg.GetString("ReplicateFrom")
	var laterSteps []string
	for i, step := range steps {
		if step == replicateFrom && i+1 < len(steps) {
			laterSteps = steps[i+1:]
			break
		}
	}
	changes = dssateval.ReplicateStep(changes, replicateFrom,
		cfg.GetString("ReplicateEcotype"), laterSteps)
	dssateval.ScaleChanges(changes, cfg.GetString("ScaleStep"),
		cfg.GetString("ScaleParameter"), cfg.GetFloat64("ScaleFactor"))

	summaries := dssateval.SummarizeChanges(changes)

	path, err := outputPath(cfg, "parameter_changes.png")
	if err != nil {
		return err
	}
	if err := figures.ParameterBarplot(summaries, figures.BarplotOptions{
		Steps:      steps,
		StepTitles: GetStringMapString("StepTitles", cfg),
		Ecotypes:   expandStringSlice(cfg.GetStringSlice("Ecotypes")),
		Parameters: parameters,
		YLabel:     "Change (%)",
		Path:       path,
	}); err != nil {
		return err
	}
	Log.WithFields(logrus.Fields{
		"steps": steps,
		"path":  path,
	}).Info("saved parameter barplot figure")
	return nil
}

// Growth renders the simulated against measured growth panels: one row
// per trait and one column per configured treatment.
func Growth(cfg *viper.Viper) error {
	codes, err := checkCalibrationCodes(cfg)
	if err != nil {
		return err
	}
	base := os.ExpandEnv(cfg.GetString("BaseDataDir"))
	whtDir := os.ExpandEnv(cfg.GetString("WheatDataDir"))
	traits := expandStringSlice(cfg.GetStringSlice("GrowthVariables"))
	treatments := expandStringSlice(cfg.GetStringSlice("GrowthTreatments"))

	data := make(map[figures.GrowthKey][]figures.GrowthSeries, len(traits)*len(treatments))
	for _, trait := range traits {
		for _, treatment := range treatments {
			for _, calib := range codes {
				Log.WithFields(logrus.Fields{
					"calibration": calib,
					"trait":       trait,
					"treatment":   treatment,
				}).Info("loading growth time series")
				ts, err := dssateval.LoadTimeSeries(base, whtDir, calib, trait, treatment)
				if err != nil {
					return err
				}
				key := figures.GrowthKey{Variable: trait, Treatment: treatment}
				data[key] = append(data[key], figures.GrowthSeries{
					Label: ts.Sim[0].ShortLabel,
					Sim:   ts.Sim,
					Meas:  ts.Meas,
				})
			}
		}
	}

	path, err := outputPath(cfg, "growth_panels.png")
	if err != nil {
		return err
	}
	if err := figures.GrowthPanels(data, figures.GrowthOptions{
		Variables:       traits,
		VariableTitles:  GetStringMapString("TraitVariables", cfg),
		Treatments:      treatments,
		TreatmentLabels: GetStringMapString("Treatments", cfg),
		Cultivars:       expandStringSlice(cfg.GetStringSlice("Cultivars")),
		Path:            path,
	}); err != nil {
		return err
	}
	Log.WithFields(logrus.Fields{
		"treatments": treatments,
		"path":       path,
	}).Info("saved growth figure")
	return nil
}
