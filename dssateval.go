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

// Package dssateval reads DSSAT Wheat model output files (OVERVIEW.OUT,
// PlantGro.OUT, and .WHT measurement files) and reconciles simulated and
// measured values into tabular records keyed by treatment, genotype, and
// experiment. The records feed the metric and figure packages; no
// simulation or calibration happens here.
package dssateval

// Version is the version of this software.
const Version = "1.2.0"
