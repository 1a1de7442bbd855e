// Package naming derives index metadata from filenames.
//
// Source images follow a loose station_location_angle convention in their
// stems (for example 34th_st_times_square_platform.jpg). Parsing is best
// effort: it never fails, and stems that do not follow the convention simply
// yield empty fields.
package naming
