// Package server exposes assessment generation, scoring, and document
// upload over HTTP using echo.
//
// Routes:
//
//	POST /api/assessment/generate  generate questions for a topic
//	POST /api/assessment/score     score a batch of submitted answers
//	POST /api/assessment/upload    ingest documents (multipart, field "documents")
//	GET  /api/assessment/recent    list recently saved assessments
//	GET  /api/assessment/:id       fetch one saved assessment
package server
