package engine

import (
	"log/slog"
	"reflect"

	"github.com/mitchellh/hashstructure/v2"
)

// guard enforces the read-only contract on state and props snapshots.
//
// Go has no per-object write trap, so the deep-freeze contract is realized
// as mutation detection: observe takes a deep fingerprint of each snapshot
// as it is handed to user code, and the returned verify function re-hashes
// them at the dispatch boundary, panicking with ErrFrozenMutation on any
// difference. Fingerprinting runs once per snapshot per dispatch, matching
// the once-per-object bound of a recursive freeze.
type guard struct {
	logger *slog.Logger
}

type fingerprint struct {
	value any
	hash  uint64
}

// observe fingerprints every mutable snapshot in vals and returns the
// verify function for the enclosing dispatch.
func (g *guard) observe(vals ...any) func() {
	fps := make([]fingerprint, 0, len(vals))
	for _, v := range vals {
		if !mutable(v) {
			continue
		}
		h, err := hashstructure.Hash(v, hashstructure.FormatV2, nil)
		if err != nil {
			g.logger.Warn("immutability guard cannot fingerprint value",
				"type", reflect.TypeOf(v).String(), "error", err)
			continue
		}
		fps = append(fps, fingerprint{value: v, hash: h})
	}
	return func() {
		for _, fp := range fps {
			h, err := hashstructure.Hash(fp.value, hashstructure.FormatV2, nil)
			if err != nil {
				continue
			}
			if h != fp.hash {
				panic(ErrFrozenMutation)
			}
		}
	}
}

// mutable reports whether v is a value user code could write into.
// Scalars and strings are copied on handoff and need no guarding.
func mutable(v any) bool {
	if v == nil {
		return false
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Map, reflect.Slice, reflect.Ptr, reflect.Interface:
		return true
	default:
		return false
	}
}
