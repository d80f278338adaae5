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
	"strconv"
	"time"
)

// ParseDayDate converts a DSSAT YYYYDDD date (year plus day of year) to a
// time.Time at midnight UTC.
func ParseDayDate(s string) (time.Time, error) {
	if len(s) != 7 {
		return time.Time{}, fmt.Errorf("dssateval: date %q is not in YYYYDDD form", s)
	}
	year, err := strconv.Atoi(s[:4])
	if err != nil {
		return time.Time{}, fmt.Errorf("dssateval: date %q: %w", s, err)
	}
	doy, err := strconv.Atoi(s[4:])
	if err != nil {
		return time.Time{}, fmt.Errorf("dssateval: date %q: %w", s, err)
	}
	if doy < 1 || doy > 366 {
		return time.Time{}, fmt.Errorf("dssateval: date %q: day of year out of range", s)
	}
	return time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, doy-1), nil
}

// FormatDayDate composes a YYYYDDD date string from a year and a day of
// year, zero-padding the day to three digits.
func FormatDayDate(year, doy int) string {
	return fmt.Sprintf("%04d%03d", year, doy)
}

// daysBetween returns the whole number of days from a to b.
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}
