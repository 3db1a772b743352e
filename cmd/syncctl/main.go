package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/finsync/internal/syncctl"
)

func main() {
	if err := syncctl.NewRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
