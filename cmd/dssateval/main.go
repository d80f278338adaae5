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

// Command dssateval is a command-line interface for evaluating DSSAT
// Wheat calibrations against field measurements.
package main

import (
	"fmt"
	"os"

	"github.com/cropsci/dssateval/dssatevalutil"
)

func main() {
	if err := dssatevalutil.Root.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}
}
