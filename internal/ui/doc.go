// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for reviewing festival suggestions:
//  1. [SuggestionListView] : Browse the pending suggestion inbox
//  2. [DetailView] : Inspect one suggestion before deciding
//  3. [ResultView] : Display the resolution (approved, duplicate or rejected)
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Resolutions run through the same [tasks.Curator] the HTTP admin routes use, so
// a suggestion approved here lands in the catalog file exactly as it would from the web.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, a/r, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
