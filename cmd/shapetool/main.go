// Command shapetool packs reference datasets into model containers and
// converts datasets to and from sample vectors.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
