// Package pipeline walks an input tree and converts raster images to WebP.
//
// A run is one synchronous pass: walk, filter by extension, convert or copy
// each file into a mirrored output path, and accumulate index rows plus
// counters. A single file's failure never aborts the run. File visit order
// is whatever the traversal yields; callers must not assume alphabetical
// order, and with more than one worker rows arrive in completion order.
package pipeline
