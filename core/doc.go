// Package core defines the domain model for assessly: assessment types,
// generated questions, submitted answers, scoring verdicts, and document
// chunks, together with their validation rules.
//
// The package has no dependencies on storage, AI services, or transport.
// Answers whose shape varies between a scalar value and an ordered sequence
// of per-slot values (fill-in-the-blank) are modeled with the tagged
// AnswerValue and Correctness types rather than untyped JSON, so shape
// invariants are enforced at the boundary where service output is parsed.
package core
