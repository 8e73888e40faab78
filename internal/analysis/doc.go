// Package analysis runs the full rejection measurement: Welch spectra of an
// open-loop and a closed-loop record, their per-bin ratio, and a fit of the
// loop model to that ratio.
//
// It is the glue used by cmd/looptf. Configuration comes from a YAML file
// (see [LoadConfig]) layered over [DefaultConfig].
package analysis
