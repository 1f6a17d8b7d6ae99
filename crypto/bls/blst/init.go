// Package blst wraps github.com/supranational/blst, the BLS12-381 library
// the teacher also depends on, behind crypto/bls/iface. Grounded on the
// teacher's shared/bls/blst package.
package blst

import (
	"runtime"

	blst "github.com/supranational/blst/bindings/go"
)

// domainSeparationTag matches the IETF BLS signature suite Ethereum
// consensus uses: ciphersuite "BLS_SIG_BLS12381G2_XMD:SHA-256_SSWU_RO_POP_".
var domainSeparationTag = []byte("BLS_SIG_BLS12381G2_XMD:SHA-256_SSWU_RO_POP_")

func init() {
	// Cap the number of goroutines blst's multi-threaded operations use at
	// this process's GOMAXPROCS.
	blst.SetMaxProcs(runtime.GOMAXPROCS(0))
}
