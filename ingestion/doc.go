// Package ingestion turns uploaded documents into embedded chunks.
//
// A Pipeline cycle runs two stages in order:
//   - the document stage structures every unprocessed document and commits its
//     chunks in one transaction, or records a failure message on the document
//   - the chunk stage embeds unprocessed chunks one at a time until none remain,
//     marking each processed whether or not an embedding was produced
//
// A Scheduler repeats cycles with a fixed pause between them. Work is
// strictly sequential. Failures of the external services are isolated to the
// document or chunk at hand; store failures end the cycle and the Scheduler.
package ingestion
