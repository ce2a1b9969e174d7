package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	archivecmd "github.com/louisbranch/arc-engine/internal/cmd/archive"
)

func main() {
	cfg, err := archivecmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	log.SetPrefix("[ARCHIVE] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := archivecmd.Run(ctx, cfg, os.Stdout); err != nil {
		log.Fatalf("archive: %v", err)
	}
}
