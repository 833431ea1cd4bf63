// Package translation provides the translation client for OpenAI-compatible
// chat completion APIs (DeepSeek by default) and the target languages the
// application can translate into.
package translation
