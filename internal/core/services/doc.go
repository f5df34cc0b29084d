// Package services runs the question-answering pipeline.
//
// IngestService checks uploads against the limits, extracts and chunks
// them. Indexer embeds the chunks and builds an Index, which never changes
// once built. AnswerService retrieves from an Index and asks the LLM.
// Session ties the three together for the MCP server, swapping in a new
// Index only after it has been built successfully.
package services
