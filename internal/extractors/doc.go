// Package extractors turns uploaded documents into plain text.
//
// Each file kind maps to an ordered list of extraction strategies. The
// chain tries them in sequence until one yields non-whitespace text. A
// document that defeats every strategy contributes empty text and a
// degraded diagnostic; it never fails the batch.
//
// Format-specific strategies live in subpackages (plaintext, pdf, docx,
// legacydoc, image). DefaultTable wires them together.
package extractors
