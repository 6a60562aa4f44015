// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/gaissmai/pfxtrie/handle"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve lookups and prometheus metrics over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		reg, h, err := loadRules()
		if err != nil {
			return err
		}
		defer reg.Destroy(h)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		addr := fmt.Sprintf("%s:%d", opts.Metrics.Address, opts.Metrics.Port)
		return serve(ctx, addr, newMux(reg, h))
	},
}

// newMux routes
//
//	/metrics            prometheus exposition
//	/lookup?q=ADDR[/LEN] longest match as JSON
//	/rules              all rules as nested JSON list
func newMux(reg *handle.Registry, h handle.Handle) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/lookup", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		if q == "" {
			http.Error(w, "missing query parameter q", http.StatusBadRequest)
			return
		}

		res, err := lookupOne(reg, h, q)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(res); err != nil {
			log.WithError(err).Warn("writing lookup response")
		}
	})

	mux.HandleFunc("/rules", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := dumpJSON(w, reg, h); err != nil {
			log.WithError(err).Warn("writing rules response")
		}
	})

	return mux
}

func serve(ctx context.Context, addr string, handler http.Handler) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("HTTP server: addr = %s", addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	log.Debug("shutting down HTTP server")
	return server.Shutdown(shutdownCtx)
}
