// Package chatflow provides a minimal public façade for building chatbot flows
// without importing internal packages. It re-exports the core flow types and
// exposes a Runtime that opens editors backed by an in-memory flow store.
package chatflow
