// Package search implements a grid and randomized hyperparameter search
// driver over quantization and training parameters: mixed-radix
// enumeration of the cartesian product of a search space, quantization
// caching across candidates that share a quantization triple, candidate
// evaluation through pluggable Trainer/CVRunner/Quantizer/Splitter
// collaborators, and best-candidate selection by a metric's declared
// direction (Min/Max).
//
// GridSearch walks one or more grids exhaustively. RandomizedSearch
// draws a fixed number of candidates from a single grid, with or
// without replacement depending on whether the caller registered any
// random-distribution generators. Both return a BestOptionValues: the
// winning candidate's typed option maps plus enough bookkeeping to tell
// which grid and which quantization axes produced it.
package search
