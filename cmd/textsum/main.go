package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"textsum/internal/app"
	"textsum/internal/config"
	"textsum/internal/domain"
	"textsum/internal/pipeline"
	"textsum/internal/tui"
)

func main() {
	_ = godotenv.Load()

	var (
		cfgPath      = flag.String("config", "", "Path to YAML config file (optional; uses ~/.config/textsum/config.yaml if not provided)")
		inputPath    = flag.String("input", "", "Path to input .txt file; reads stdin when omitted")
		mode         = flag.String("mode", "extractive", "Summarization mode: extractive or abstractive")
		strategy     = flag.String("strategy", "", "Extractive ranking strategy (overrides config)")
		numSentences = flag.Int("n", 0, "Number of sentences for extractive summaries (0 = config default)")
		minLength    = flag.Int("min-length", 0, "Min token length for abstractive summaries (0 = config default)")
		maxLength    = flag.Int("max-length", 0, "Max token length for abstractive summaries (0 = config default)")
		plain        = flag.Bool("plain", false, "Print the summary and exit instead of opening the TUI")
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

	if *strategy != "" {
		cfg.Ranker.Strategy = *strategy
	}

	text, err := readInput(*inputPath)
	if err != nil {
		log.Fatalf("failed to read input: %v", err)
	}

	summarizer, err := app.BuildSummarizer(cfg)
	if err != nil {
		log.Fatalf("failed to assemble pipeline: %v", err)
	}

	resp, err := summarizer.Summarize(context.Background(), pipeline.Request{
		Text:         text,
		Mode:         domain.Mode(*mode),
		NumSentences: *numSentences,
		MinLength:    *minLength,
		MaxLength:    *maxLength,
	})
	if err != nil {
		log.Fatalf("summarization failed: %v", err)
	}

	if *plain {
		fmt.Println(resp.Summary)
		for _, w := range resp.Details.Warnings {
			fmt.Fprintln(os.Stderr, "warning:", w)
		}
		return
	}

	m := tui.New(resp, app.EvalConfig(cfg))
	if _, err := tea.NewProgram(m).Run(); err != nil {
		log.Fatal(err)
	}
}

func readInput(path string) (string, error) {
	if path == "" {
		data, err := io.ReadAll(os.Stdin)
		return string(data), err
	}
	data, err := os.ReadFile(path)
	return string(data), err
}
