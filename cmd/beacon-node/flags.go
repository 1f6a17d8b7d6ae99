package main

import "github.com/urfave/cli/v2"

// validatorKeysFlag accepts one or more hex-encoded BLS secret keys for
// validators this node should produce blocks/attestations for locally,
// the unencrypted-keys-gen-style bring-your-own-key path this repository
// supports in place of the teacher's full keystore/keymanager stack.
var validatorKeysFlag = &cli.StringSliceFlag{
	Name:  "validator-key",
	Usage: "Hex-encoded BLS secret key for a validator this node signs duties for. May be repeated.",
}

// graffitiFlag sets the 32-byte graffiti field stamped into every block
// this node proposes.
var graffitiFlag = &cli.StringFlag{
	Name:  "graffiti",
	Usage: "Graffiti string stamped into proposed blocks, truncated to 32 bytes",
}
