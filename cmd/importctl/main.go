// Command importctl runs the match import pipeline offline: normalize and
// reconcile a pasted payload, render its preview, or mint an admin token.
package main

import (
	"log"
	"os"
)

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
