package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/CK6170/cgscale-go/internal/server"
)

func main() {
	var (
		addr       = flag.String("addr", "127.0.0.1:8080", "http listen address")
		configPath = flag.String("config", "", "connect this config at startup")
		sim        = flag.Bool("sim", false, "connect simulated cells at startup")
	)
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s := server.New()
	if *configPath != "" {
		if err := s.Connect(*configPath, *sim); err != nil {
			log.Fatalf("startup connect: %v", err)
		}
		log.Printf("Connected session from %s (sim=%v)", *configPath, *sim)
	}

	httpSrv := &http.Server{Addr: *addr, Handler: s.Handler()}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("Serving on http://%s", *addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		s.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})
	if err := g.Wait(); err != nil {
		log.Fatal(err)
	}
}
