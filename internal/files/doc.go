// Package files locates ridership tables in the data directories.
//
// The scraper writes new raw exports into the raw directory; Discovery lets a run
// pick the newest one instead of a fixed file name.
package files
