// Package workflow runs one translation request at a time: it resolves the
// input, builds the system prompt, calls the translator and hands the
// outcome back to the interactive thread through a dispatcher.
//
// The orchestrator moves through Idle -> Running -> Success|Failed -> Idle.
// A request started while another one is running is rejected with ErrBusy.
// The final transition back to Idle always happens on the dispatcher, no
// matter how the worker ended.
package workflow
