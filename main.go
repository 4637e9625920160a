package main

import (
	"fmt"
	"os"

	"github.com/ytbatch/ytbatch/internal/cli"
	"github.com/ytbatch/ytbatch/internal/downloader"
)

func main() {
	if err := cli.Execute(); err != nil {
		if !downloader.IsReported(err) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(downloader.ExitCode(err))
	}
}
