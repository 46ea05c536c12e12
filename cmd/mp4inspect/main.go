// Command mp4inspect prints the atom tree, tracks and samples of MP4 and
// QuickTime files, and can serve the same views over HTTP.
package main

import (
	"fmt"
	"os"

	"github.com/ugparu/mp4atom/utils/logger"
)

func main() {
	err := newRootCmd().Execute()
	logger.Flush()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
