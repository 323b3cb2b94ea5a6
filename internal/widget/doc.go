// Package widget implements the upload form and file listing as a
// UI-agnostic state machine.
//
// State and its transition functions are pure. Controller owns one State,
// applies transitions in response to events on a single goroutine, performs
// the network calls through an API and hands every new State to a View
// adapter that does the actual drawing (HTML, terminal, ...).
package widget
