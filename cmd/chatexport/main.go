package main

import (
	"fmt"
	"os"

	"github.com/soyeahso/chatexport/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "chatexport:", err)
		os.Exit(1)
	}
}
