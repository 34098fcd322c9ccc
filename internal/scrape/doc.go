// Package scrape implements the incremental BAR pipeline: link collection,
// challenge-aware fetching, profile extraction, pacing, and the run
// orchestrator that feeds the dedup ledger and append store.
package scrape
