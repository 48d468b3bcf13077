// Package render serializes virtual render trees to HTML.
//
// The renderer is used for the first paint of a session and for the HTML
// form of inserted subtrees in patch frames. Host IDs already present on
// the tree are emitted as data-hid attributes so the thin client can
// address elements in later patches.
package render
