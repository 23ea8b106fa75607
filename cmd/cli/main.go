// Command og-scrape fetches pages and prints their Open Graph and Twitter
// Card metadata as JSON records.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
