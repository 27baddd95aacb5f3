package main

import (
	"context"
	"fmt"
	"os"

	"github.com/kbukum/newsfeed/internal/cli"
)

func main() {
	if err := cli.Execute(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "newsfeed:", err)
		os.Exit(1)
	}
}
