// Package journal keeps an append-only SQLite history of batch runs and the
// per-dataset outcomes they produced. The marker files remain the source of
// truth for retry decisions; the journal only answers "what happened when".
package journal
