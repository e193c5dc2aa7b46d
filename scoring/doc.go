// Package scoring grades submitted assessment answers.
//
// A Judge scores one answer by prompting the generative model for a
// correctness probability; a Scorer fans judge calls out over a bounded
// worker pool and aggregates them into a Report whose results stay
// index-aligned with the input. Every failure mode at the answer level
// degrades to a zero score so a batch always yields one result per
// submitted answer.
package scoring
