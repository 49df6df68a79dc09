// Package cli implements the interactive shell of the Cogni Flash client.
//
// The shell queues study actions (reviews, card and deck edits) through the
// sync engine, so they work the same online and offline, and reads the study
// queue and deck list through the engine's cache. A background ping monitor
// flips the prompt between online and offline mode; pending mutations are
// flushed when the connection comes back.
//
// See App, NewApp and runREPL for details.
package cli
