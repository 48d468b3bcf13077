// Package vdom provides the virtual render-tree node model consumed by the
// strand engine and its collaborators.
//
// The engine itself treats nodes as opaque: it builds them through component
// views, stores the last rendered node per component instance, and hands
// (previous, next) pairs to a Patcher. This package supplies the default
// Patcher: Diff compares two trees and produces a flat list of patch
// operations, and Applier feeds those operations to a sink (typically a
// host session streaming them to a thin client).
//
// Nodes support reconciliation keys (WithKey) and lifecycle hooks
// (SetHook); the Applier fires the "destroy" hook for every node removed
// by a patch.
package vdom
