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

package dssateval

import (
	"fmt"
	"math"
	"path/filepath"
	"sort"
	"time"
)

// A GrowthRecord is one day of one simulated growth curve, reduced to the
// trait of interest.
type GrowthRecord struct {
	Date         string // YYYYDDD
	DAS, DAP     int
	Treatment    string // treatment code, e.g. "WW23"
	Genotype     string
	SimulationID string
	TreatmentNum int
	ExperimentID string
	ShortLabel   string

	// Value is the requested trait value, NaN when the trait column was
	// not present in the PlantGro file.
	Value float64
}

// A Measurement is one field observation from a .WHT file, reconciled
// against the simulations: keyed back to a simulation by experiment ID
// and treatment number, and assigned a days-after-planting offset.
type Measurement struct {
	TRNO         int
	Date         string // YYYYDDD
	ExperimentID string
	SimulationID string
	Treatment    string
	Genotype     string
	ShortLabel   string

	// DAS is copied from the matching simulation day, or -1 when the
	// measurement date has no simulated counterpart.
	DAS int

	// DAP is copied from the matching simulation day when one exists and
	// otherwise derived by date arithmetic against the earliest simulated
	// planting date (the first date with DAP 0).
	DAP int

	Value float64

	// SamplingID is the dense rank of DAP within the genotype, starting
	// at 1. It orders repeated field samplings of the same plot.
	SamplingID int
}

// A TimeSeries pairs the simulated growth curves of one calibration with
// the reconciled field measurements for one treatment and trait.
type TimeSeries struct {
	Sim  []GrowthRecord
	Meas []Measurement
}

// LoadTimeSeries loads <base>/<code>/PlantGro.OUT and the .WHT
// measurement files it references from whtDir, keeps the rows for the
// requested treatment code, reduces both to the named trait, and
// reconciles measurements against the simulations. Measurements with
// missing or non-positive trait values are dropped.
func LoadTimeSeries(base, whtDir, code, variable, treatment string) (*TimeSeries, error) {
	cfg, err := ReadCalibConfig(filepath.Join(base, code, "config.yaml"))
	if err != nil {
		return nil, err
	}
	short := cfg.ShortLabel.First()

	tables, err := ParsePlantGro(filepath.Join(base, code, "PlantGro.OUT"))
	if err != nil {
		return nil, err
	}

	ts := new(TimeSeries)
	var plantingRef time.Time
	experiments := make(map[string]bool)
	// timingByKey indexes simulated (date, treatment, genotype) triples
	// so measurements can inherit DAS/DAP.
	timingByKey := make(map[string]simulationTiming)

	for _, table := range tables {
		treat, geno, err := SplitSimulationID(table.SimulationID)
		if err != nil {
			return nil, err
		}
		if treat != treatment {
			continue
		}
		experiments[table.Experiment] = true

		records, err := growthRecords(&table, treat, geno, short, variable)
		if err != nil {
			return nil, err
		}
		for _, r := range records {
			ts.Sim = append(ts.Sim, r)
			key := r.Date + "|" + r.Treatment + "|" + r.Genotype
			if _, ok := timingByKey[key]; !ok {
				timingByKey[key] = simulationTiming{das: r.DAS, dap: r.DAP}
			}
			if r.DAP == 0 {
				d, err := ParseDayDate(r.Date)
				if err != nil {
					return nil, err
				}
				if plantingRef.IsZero() || d.Before(plantingRef) {
					plantingRef = d
				}
			}
		}
	}
	if len(ts.Sim) == 0 {
		return nil, fmt.Errorf("dssateval: %s: no simulations for treatment %q", code, treatment)
	}

	// sims maps (experiment, TRNO) back to a simulation.
	sims := make(map[simulationKey]Block)
	for _, table := range tables {
		sims[simulationKey{table.Experiment, table.TreatmentNum}] = table.Block
	}

	var experimentIDs []string
	for id := range experiments {
		experimentIDs = append(experimentIDs, id)
	}
	sort.Strings(experimentIDs)

	for _, id := range experimentIDs {
		wht, err := ParseWHT(filepath.Join(whtDir, id+".WHT"))
		if err != nil {
			return nil, err
		}
		meas, err := reconcileMeasurements(wht, id, sims, variable, treatment, short, timingByKey, plantingRef)
		if err != nil {
			return nil, err
		}
		ts.Meas = append(ts.Meas, meas...)
	}

	kept := ts.Meas[:0]
	for _, m := range ts.Meas {
		if !math.IsNaN(m.Value) && m.Value > 0 {
			kept = append(kept, m)
		}
	}
	ts.Meas = kept
	assignSamplingIDs(ts.Meas)
	return ts, nil
}

// growthRecords flattens one PlantGro block into GrowthRecords for the
// requested trait. The DATE field is composed from the YEAR and DOY
// columns.
func growthRecords(t *GrowthTable, treat, geno, short, variable string) ([]GrowthRecord, error) {
	years, ok := t.Column("YEAR")
	if !ok {
		return nil, fmt.Errorf("dssateval: %s: PlantGro block has no YEAR column", t.SimulationID)
	}
	doys, ok := t.Column("DOY")
	if !ok {
		return nil, fmt.Errorf("dssateval: %s: PlantGro block has no DOY column", t.SimulationID)
	}
	das, ok := t.Column("DAS")
	if !ok {
		return nil, fmt.Errorf("dssateval: %s: PlantGro block has no DAS column", t.SimulationID)
	}
	dap, ok := t.Column("DAP")
	if !ok {
		return nil, fmt.Errorf("dssateval: %s: PlantGro block has no DAP column", t.SimulationID)
	}
	values, haveVar := t.Column(variable)

	records := make([]GrowthRecord, len(t.Rows))
	for i := range t.Rows {
		r := GrowthRecord{
			Date:         FormatDayDate(int(years[i]), int(doys[i])),
			DAS:          int(das[i]),
			DAP:          int(dap[i]),
			Treatment:    treat,
			Genotype:     geno,
			SimulationID: t.SimulationID,
			TreatmentNum: t.TreatmentNum,
			ExperimentID: t.Experiment,
			ShortLabel:   short,
			Value:        math.NaN(),
		}
		if haveVar {
			r.Value = values[i]
		}
		records[i] = r
	}
	return records, nil
}

// reconcileMeasurements joins the rows of one .WHT file to the
// simulations of the same experiment by treatment number, inheriting
// timing from matching simulation days and deriving DAP from the planting
// reference date otherwise. Rows for other treatments are dropped.
func reconcileMeasurements(wht *MeasurementTable, experimentID string,
	sims map[simulationKey]Block, variable, treatment, short string,
	timingByKey map[string]simulationTiming, plantingRef time.Time) ([]Measurement, error) {

	trnos, ok := wht.Column("TRNO")
	if !ok {
		return nil, fmt.Errorf("dssateval: %s.WHT: no TRNO column", experimentID)
	}
	dates, ok := wht.Column("DATE")
	if !ok {
		return nil, fmt.Errorf("dssateval: %s.WHT: no DATE column", experimentID)
	}
	values, haveVar := wht.Column(variable)

	var meas []Measurement
	for i := range wht.Rows {
		block, ok := sims[simulationKey{experimentID, int(trnos[i])}]
		if !ok {
			continue
		}
		treat, geno, err := SplitSimulationID(block.SimulationID)
		if err != nil {
			return nil, err
		}
		if treat != treatment {
			continue
		}

		m := Measurement{
			TRNO:         int(trnos[i]),
			Date:         fmt.Sprintf("%07.0f", dates[i]),
			ExperimentID: experimentID,
			SimulationID: block.SimulationID,
			Treatment:    treat,
			Genotype:     geno,
			ShortLabel:   short,
			DAS:          -1,
			Value:        math.NaN(),
		}
		if haveVar {
			m.Value = values[i]
		}

		if t, ok := timingByKey[m.Date+"|"+treat+"|"+geno]; ok {
			m.DAS = t.das
			m.DAP = t.dap
		} else {
			if plantingRef.IsZero() {
				return nil, fmt.Errorf("dssateval: %s.WHT row %d: measurement on %s matches no simulated day and no simulation reports a planting date to derive DAP from",
					experimentID, i+1, m.Date)
			}
			d, err := ParseDayDate(m.Date)
			if err != nil {
				return nil, fmt.Errorf("dssateval: %s.WHT row %d: %w", experimentID, i+1, err)
			}
			m.DAP = daysBetween(plantingRef, d)
		}
		meas = append(meas, m)
	}
	return meas, nil
}

// simulationKey identifies a simulation by experiment and DSSAT
// treatment number, the key .WHT measurement rows carry.
type simulationKey struct {
	experiment string
	trno       int
}

// simulationTiming is the DAS/DAP pair of one simulated day.
type simulationTiming struct{ das, dap int }

// assignSamplingIDs ranks measurements by DAP within each genotype,
// densely: measurements on the same day share a rank.
func assignSamplingIDs(meas []Measurement) {
	byGenotype := make(map[string][]int)
	for i, m := range meas {
		byGenotype[m.Genotype] = append(byGenotype[m.Genotype], i)
	}
	for _, idx := range byGenotype {
		daps := make(map[int]bool)
		for _, i := range idx {
			daps[meas[i].DAP] = true
		}
		order := make([]int, 0, len(daps))
		for d := range daps {
			order = append(order, d)
		}
		sort.Ints(order)
		rank := make(map[int]int, len(order))
		for r, d := range order {
			rank[d] = r + 1
		}
		for _, i := range idx {
			meas[i].SamplingID = rank[meas[i].DAP]
		}
	}
}
