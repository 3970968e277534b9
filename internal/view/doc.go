// Package view derives everything the screens and exports display from a
// cache snapshot: low-stock flags, name and priority orderings, text and
// date filters, unit conversion and formatting.
//
// Every function is pure and returns fresh slices, so results can be
// recomputed on each render without touching the cache.
package view
