package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/freekieb7/rubble/filesystem"
	"github.com/freekieb7/rubble/handler"
	"github.com/freekieb7/rubble/http"
	"github.com/freekieb7/rubble/telemetry"
)

func main() {
	if err := run(context.Background()); err != nil {
		log.Fatalln(err)
	}
}

func run(ctx context.Context) error {
	addr := flag.String("addr", http.DefaultAddr, "listen address")
	directory := flag.String("directory", "", "root directory for the /files routes")
	workers := flag.Int("workers", http.DefaultWorkerCount, "worker pool size")
	flag.Parse()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	shutdownTelemetry, err := telemetry.Setup(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTelemetry(context.Background()); err != nil {
			log.Println(err)
		}
	}()

	server := http.NewServer("rubble")
	server.WorkerCount = *workers
	handler.Register(server.Router, filesystem.NewLocalStore(*directory))

	serverErrCh := make(chan error, 1)
	go func() {
		log.Printf("Listening and serving on: %s", *addr)
		serverErrCh <- server.ListenAndServe(ctx, *addr)
	}()

	select {
	case err := <-serverErrCh:
		return err
	case <-ctx.Done():
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}
