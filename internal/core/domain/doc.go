// Package domain holds docqa's core types: uploads and the source documents
// made from them, the text extracted from each document with its diagnostic,
// the chunks cut from that text, and the ranked retrieval results and
// answers built on those chunks. It also defines the sentinel errors every
// layer matches with errors.Is, the upload limits and the settings model.
//
// domain imports only the standard library; everything else imports domain.
package domain
