// Core types and collaborator interfaces for duplicate-post campaign analysis.
//
// This package (`github.com/tweettrace/tweettrace/trace`) holds the shared data
// model for the analysis pipeline: posts, account profile snapshots, duplicate
// matches, scored accounts, and the final campaign report. It also defines the
// two capability interfaces the engine consumes from the platform side (post
// discovery and profile fetching), and the error taxonomy used across the
// pipeline.
//
// See `trace/engine` for the pipeline itself, and `cmd/tweettrace` for a
// daemon built on it.
package trace
