package main

import (
	"fmt"
	"os"

	"clinic-management-api/cmd/bootstrap"
)

func main() {
	if err := bootstrap.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
