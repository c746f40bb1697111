// Package driving provides the interfaces the transport layer calls into
// (primary/inbound ports): ingestion and question answering.
package driving
