package main

import (
	"fmt"
	"os"

	"github.com/kirbyfan64/Celero/pkg/celero"
)

func main() {
	if err := celero.Run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
