package main

import (
	"flag"
	"log"
	"net/http"

	"github.com/joho/godotenv"

	"textsum/internal/app"
	"textsum/internal/config"
	"textsum/internal/pipeline"
	"textsum/internal/server"
)

func main() {
	_ = godotenv.Load()

	var (
		cfgPath = flag.String("config", "", "Path to YAML config file (optional; uses ~/.config/textsum/config.yaml if not provided)")
		addr    = flag.String("addr", "", "Listen address (overrides config)")
	)
	flag.Parse()

	var cfg *config.AppConfig
	var err error
	if *cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(*cfgPath)
	}
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	// probe the assembly once so configuration errors fail at startup
	if _, err := app.BuildSummarizer(cfg); err != nil {
		log.Fatalf("failed to assemble pipeline: %v", err)
	}

	srv := server.New(func() (*pipeline.Summarizer, error) {
		return app.BuildSummarizer(cfg)
	}, app.EvalConfig(cfg))

	log.Printf("listening on %s", cfg.Server.Addr)
	if err := http.ListenAndServe(cfg.Server.Addr, srv.Handler()); err != nil {
		log.Fatal(err)
	}
}
