package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/charmbracelet/log"

	"github.com/idilsaglam/duely/internal/config"
	"github.com/idilsaglam/duely/internal/store/jsonstore"
	"github.com/idilsaglam/duely/internal/web"
)

func main() {
	dataFile := flag.String("file", "", "path to the todos JSON file")
	listen := flag.String("listen", "", "bind address (host:port)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	if *dataFile != "" {
		cfg.DataFile = *dataFile
	}
	if *listen != "" {
		cfg.Listen = *listen
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		ReportTimestamp: true,
		Prefix:          "duely-web",
	})

	store, err := jsonstore.Open(cfg.DataFile)
	if err != nil {
		logger.Fatal("store", "err", err)
	}
	renderer, err := web.NewRenderer()
	if err != nil {
		logger.Fatal("templates", "err", err)
	}

	handler := web.NewHandler(store, renderer, logger)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	logger.Info("listening", "addr", cfg.Listen, "file", store.Path())
	if err := http.ListenAndServe(cfg.Listen, web.RequestLogger(logger, mux)); err != nil {
		logger.Fatal("server", "err", err)
	}
}
