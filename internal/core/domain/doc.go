// Package domain contains the core business entities for the RAG pipeline:
// documents, chunks, sessions, answers and the error taxonomy. It has no
// dependencies on adapters or transport.
package domain
