// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports): embedding and language model providers, the
// vector database, text extractors and the session store.
package driven
