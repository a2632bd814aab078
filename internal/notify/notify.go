// Package notify fires desktop notifications for finished jobs. Everything
// here is strictly additive: a missing notification daemon or a failed send
// must never affect job tracking, so errors stop at stderr.
package notify

import (
	"fmt"
	"os"

	"github.com/gen2brain/beeep"
)

func Send(title, body string) {
	if err := beeep.Notify(title, body, ""); err != nil {
		fmt.Fprintf(os.Stderr, "notify: %v\n", err)
	}
}
