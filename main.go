package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"autolist/catalog"
	"autolist/config"
	"autolist/export"
	"autolist/generator"
	"autolist/models"
	"autolist/scraper/instagram"
	"autolist/server"
	"autolist/services"
	"autolist/storage"
	"autolist/utils"
)

func main() {
	serve := flag.Bool("serve", false, "start the HTTP API server")
	addr := flag.String("addr", "", "listen address when --serve (overrides ADDR)")
	postURL := flag.String("post", "", "instagram post URL to generate a listing from")
	caption := flag.String("caption", "", "caption text to generate a listing from")
	captionFile := flag.String("caption-file", "", "path to a file containing the caption text")
	category := flag.String("category", "", "category override (skips detection)")
	format := flag.String("format", "json", "export format: json | csv | html | pdf")
	out := flag.String("out", "", "output directory (overrides OUTPUT_DIR)")
	mock := flag.Bool("mock", false, "use the offline mock model instead of OpenAI")
	flag.Parse()

	cfg := config.Load()
	logger := utils.NewLoggerAt(utils.ParseLevel(cfg.LogLevel))

	llm, err := buildLLM(cfg, *mock)
	if err != nil {
		logger.Error("LLM setup failed: %v", err)
		os.Exit(1)
	}
	gen, err := generator.New(llm, logger, cfg.MaxRetries)
	if err != nil {
		logger.Error("Generator setup failed: %v", err)
		os.Exit(1)
	}

	cat, err := catalog.Load()
	if err != nil {
		logger.Error("Catalog load failed: %v", err)
		os.Exit(1)
	}

	renderer := export.NewChromeRenderer(export.RendererOptions{
		ChromeBin:   cfg.ChromeBin,
		SettleDelay: time.Duration(cfg.ExportSettleMs) * time.Millisecond,
		Timeout:     time.Duration(cfg.ExportTimeout) * time.Second,
		Logger:      logger,
	})
	defer renderer.Close()

	exporter := export.New(renderer)
	normalizer := services.NewNormalizer(logger, cfg.MaxCaptionLen)
	validator := services.NewValidator(logger)
	analytics := services.NewAnalyticsService(logger)
	fetcher := instagram.New(cfg, logger)

	if *serve {
		srv, err := server.New(server.Options{
			Config:     cfg,
			Logger:     logger,
			Fetcher:    fetcher,
			Generator:  gen,
			Normalizer: normalizer,
			Validator:  validator,
			Analytics:  analytics,
			Catalog:    cat,
			Exporter:   exporter,
		})
		if err != nil {
			logger.Error("Server setup failed: %v", err)
			os.Exit(1)
		}
		listen := cfg.Addr
		if *addr != "" {
			listen = *addr
		}
		logger.Info("=== Autolist API listening on %s ===", listen)
		if err := http.ListenAndServe(listen, srv.Routes()); err != nil {
			logger.Error("Server stopped: %v", err)
			os.Exit(1)
		}
		return
	}

	// One-shot pipeline mode: fetch/read → generate → validate → export.
	captionText := *caption
	if *captionFile != "" {
		data, err := os.ReadFile(*captionFile)
		if err != nil {
			logger.Error("Failed to read caption file: %v", err)
			os.Exit(1)
		}
		captionText = string(data)
	}
	if *postURL == "" && captionText == "" {
		fmt.Fprintln(os.Stderr, "either --post, --caption or --caption-file is required (or --serve)")
		os.Exit(1)
	}

	ctx := context.Background()
	post := &models.RawPost{Caption: captionText, Platform: "direct", FetchedAt: time.Now()}
	if *postURL != "" {
		logger.Info("=== Autolist pipeline: fetching %s ===", *postURL)
		post, err = fetcher.Fetch(ctx, *postURL)
		if err != nil {
			logger.Error("Post fetch failed: %v", err)
			os.Exit(1)
		}
	}

	norm := normalizer.Normalize(post)
	categoryName := *category
	if categoryName == "" {
		categoryName = cat.Detect(norm.Caption, norm.Hashtags)
		logger.Info("Detected category: %s", categoryName)
	}

	listing, err := gen.Generate(ctx, generator.Input{
		Caption:   norm.Caption,
		Hashtags:  norm.Hashtags,
		PriceHint: norm.PriceHint,
		Category:  categoryName,
		ImageURLs: norm.ImageURLs,
	})
	if err != nil {
		logger.Error("Listing generation failed: %v", err)
		os.Exit(1)
	}

	validation := validator.Validate(listing)
	analytics.Print(listing, analytics.Analyze(listing, validation))

	exportFormat, err := export.ParseFormat(*format)
	if err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}
	file, err := exporter.Export(ctx, listing, exportFormat)
	if err != nil {
		logger.Error("Export failed: %v", err)
		os.Exit(1)
	}

	outputDir := cfg.OutputDir
	if *out != "" {
		outputDir = *out
	}
	var sink storage.ExportSink = storage.NewFileWriter(outputDir)
	path, err := sink.Save(file)
	if err != nil {
		logger.Error("Save failed: %v", err)
		os.Exit(1)
	}

	fmt.Printf("  Done. Listing exported → %s\n\n", path)
}

func buildLLM(cfg *config.Config, mock bool) (generator.LLMClient, error) {
	if mock || cfg.OpenAIAPIKey == "" {
		if !mock {
			fmt.Fprintln(os.Stderr, "OPENAI_API_KEY not set, using the offline mock model")
		}
		return generator.MockLLM{}, nil
	}
	return generator.NewOpenAILLM(generator.LLMSettings{
		Model:   cfg.OpenAIModel,
		APIKey:  cfg.OpenAIAPIKey,
		BaseURL: cfg.OpenAIBaseURL,
	})
}
