package main

import (
	"fmt"
	"os"
)

func main() {
	if err := run(os.Exit, os.Args[1:]...); err != nil {
		fmt.Fprintf(os.Stderr, "grouplog: %v\n", err)
		os.Exit(1)
	}
}
