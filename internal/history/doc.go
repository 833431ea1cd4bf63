// Package history keeps a local SQLite log of completed translations and
// can move the log into a timestamped archive. API keys are never stored.
package history
