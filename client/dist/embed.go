package clientdist

import _ "embed"

// StrandJS is the thin client JavaScript bundle.
//
// It is served by the host at "/strand/client.js".
//
//go:embed strand.js
var StrandJS []byte
