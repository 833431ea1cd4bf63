// Package models lists the models offered by the configured
// OpenAI-compatible translation endpoint, so users can pick a value for
// api.model.
package models
