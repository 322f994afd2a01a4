// Package main is the kura CLI entry point.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/hyperjump/kura"
	"github.com/hyperjump/kura/internal/api"
	"github.com/hyperjump/kura/internal/cli"
	"github.com/hyperjump/kura/internal/server"
	"github.com/hyperjump/kura/internal/watcher"
	"github.com/hyperjump/kura/pkg/utils"
	"github.com/hyperjump/kura/record"
	"github.com/hyperjump/kura/storage"
)

const defaultConfigPath = "/usr/local/etc/kura/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks
// for config.yaml in the current directory (for development); when neither
// file exists, configuration falls back to KURA_* environment variables.
// Returns the config and the path that was actually loaded (for saving).
func loadConfig(path string) (*kura.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := kura.LoadConfig(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
		if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
			cfg, envErr := kura.ConfigFromEnv()
			if envErr != nil {
				return nil, "", envErr
			}
			return cfg, "", nil
		}
	}
	cfg, err := kura.LoadConfig(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "serve":
		runServe()
	case "put":
		runPut()
	case "get":
		runGet()
	case "list":
		runList()
	case "delete":
		runDelete()
	case "clear":
		runClear()
	case "search":
		runSearch()
	case "status":
		runStatus()
	case "rebuild":
		runRebuild()
	case "watch":
		runWatch()
	case "version", "--version", "-v":
		fmt.Printf("kura version %s\n", kura.Version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

// openStore loads config, builds a logger, and brings up an initialized
// store for direct (serverless) commands.
func openStore(configPath string) (*kura.Store, *kura.Config, *zap.Logger, error) {
	cfg, _, err := loadConfig(configPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	store, err := kura.New(cfg, kura.WithLogger(logger))
	if err != nil {
		return nil, nil, nil, err
	}
	if err := store.Initialize(context.Background()); err != nil {
		return nil, nil, nil, err
	}
	return store, cfg, logger, nil
}

func runServe() {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging (watch events, record writes, etc.)")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	store, err := kura.New(cfg, kura.WithLogger(logger))
	if err != nil {
		logger.Fatal("failed to create store", zap.Error(err))
	}
	if err := store.Initialize(context.Background()); err != nil {
		logger.Fatal("failed to initialize store", zap.Error(err))
	}
	defer store.Close()
	if err := store.RebuildIndex(context.Background()); err != nil {
		logger.Warn("initial index rebuild failed", zap.Error(err))
	}

	watchOpts := []watcher.Option{}
	if debugMode {
		watchOpts = append(watchOpts, watcher.WithLogger(logger))
	}
	watchSvc := watcher.New(
		cfg.Watch.Directories,
		cfg.Watch.Extensions,
		cfg.Watch.RecursiveOrDefault(),
		fileHandler(store, cfg.Watch.Collection, logger),
		watchOpts...,
	)
	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	if err := watchSvc.Start(watchCtx); err != nil {
		logger.Fatal("failed to start watcher", zap.Error(err))
	}
	watchSvc.SyncExistingFiles()

	srv := server.New(store, cfg, watchSvc, resolvedConfigPath, logger)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutting down")
	watchCancel()
	watchSvc.Stop()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

// fileHandler maps watched files onto records in collection. Records are
// keyed by a hash of the absolute path so rewrites upsert instead of
// duplicating. Files that are not valid UTF-8 are skipped.
func fileHandler(store *kura.Store, collection string, logger *zap.Logger) watcher.Handler {
	return watcher.Handler{
		Upsert: func(path string) {
			abs, err := filepath.Abs(path)
			if err != nil {
				return
			}
			data, err := os.ReadFile(abs)
			if err != nil {
				logger.Warn("watch read failed", zap.String("path", abs), zap.Error(err))
				return
			}
			if !utf8.Valid(data) {
				logger.Debug("skipping binary file", zap.String("path", abs))
				return
			}
			rec := record.Record{
				"id":    record.HashID(abs),
				"title": filepath.Base(abs),
				"text":  string(data),
				"path":  abs,
			}
			if _, err := store.Put(context.Background(), collection, rec); err != nil {
				logger.Warn("watch store failed", zap.String("path", abs), zap.Error(err))
			}
		},
		Remove: func(path string) {
			abs, err := filepath.Abs(path)
			if err != nil {
				return
			}
			if err := store.Delete(context.Background(), collection, record.HashID(abs)); err != nil {
				logger.Warn("watch delete failed", zap.String("path", abs), zap.Error(err))
			}
		},
	}
}

func runPut() {
	fs := flag.NewFlagSet("put", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	collection := fs.String("collection", "default", "target collection")
	id := fs.String("id", "", "record id (generated when empty)")
	_ = fs.Parse(os.Args[2:])

	var input []byte
	if fs.NArg() >= 1 {
		input = []byte(strings.Join(fs.Args(), " "))
	} else {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to read stdin: %v\n", err)
			os.Exit(1)
		}
		input = data
	}

	var rec record.Record
	if err := json.Unmarshal(input, &rec); err != nil {
		fmt.Fprintf(os.Stderr, "Record must be a JSON object: %v\n", err)
		os.Exit(1)
	}
	if *id != "" {
		rec["id"] = *id
	}

	store, _, logger, err := openStore(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	defer store.Close()
	defer logger.Sync()

	storedID, err := store.Put(context.Background(), *collection, rec)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Store failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Stored: %s/%s\n", *collection, storedID)
}

func runGet() {
	fs := flag.NewFlagSet("get", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	collection := fs.String("collection", "default", "collection to read")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: kura get [flags] <record-id>")
		os.Exit(1)
	}
	id := fs.Arg(0)

	store, _, logger, err := openStore(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	defer store.Close()
	defer logger.Sync()

	rec, err := store.Get(context.Background(), *collection, id)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Get failed: %v\n", err)
		os.Exit(1)
	}
	if rec == nil {
		fmt.Fprintf(os.Stderr, "Record not found: %s/%s\n", *collection, id)
		os.Exit(1)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(rec)
}

func runList() {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	collection := fs.String("collection", "default", "collection to list")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	store, _, logger, err := openStore(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	defer store.Close()
	defer logger.Sync()

	records, err := store.GetAll(context.Background(), *collection)
	if err != nil {
		fmt.Fprintf(os.Stderr, "List failed: %v\n", err)
		os.Exit(1)
	}

	if *outputFormat == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(&api.ListRecordsResponse{Collection: *collection, Total: len(records), Records: records})
		return
	}
	fmt.Printf("%d record(s) in %s\n", len(records), *collection)
	for _, rec := range records {
		id, _ := record.IDKey(rec[record.FieldID])
		preview := utils.TruncateWords(record.SearchableText(rec), 10)
		if preview == "" {
			fmt.Printf("  %s\n", id)
			continue
		}
		fmt.Printf("  %s  %s\n", id, preview)
	}
}

func runDelete() {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	collection := fs.String("collection", "default", "collection to delete from")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: kura delete [flags] <record-id>")
		os.Exit(1)
	}
	id := fs.Arg(0)

	store, _, logger, err := openStore(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	defer store.Close()
	defer logger.Sync()

	if err := store.Delete(context.Background(), *collection, id); err != nil {
		fmt.Fprintf(os.Stderr, "Delete failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Deleted: %s/%s\n", *collection, id)
}

func runClear() {
	fs := flag.NewFlagSet("clear", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: kura clear [flags] <collection>")
		os.Exit(1)
	}
	collection := fs.Arg(0)

	store, _, logger, err := openStore(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	defer store.Close()
	defer logger.Sync()

	if err := store.Clear(context.Background(), collection); err != nil {
		fmt.Fprintf(os.Stderr, "Clear failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Cleared collection: %s\n", collection)
}

// buildSearchQuery joins all positional args with spaces so multi-word
// queries work the same with or without shell quoting.
func buildSearchQuery(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// searchArgsReorder moves any flags (and their values) that appear after the
// query to the front of the slice so that flag.Parse() sees them. Go's flag
// package stops at the first non-flag argument.
func searchArgsReorder(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

func runSearch() {
	searchArgs := searchArgsReorder(os.Args[2:])

	fs := flag.NewFlagSet("search", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path (for direct mode)")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = open the store directly)")
	outputFormat := fs.String("output", "text", "output format: text, compact, or json")
	_ = fs.Parse(searchArgs)

	if fs.NArg() < 1 {
		fmt.Println("Usage: kura search [flags] <query>")
		os.Exit(1)
	}
	query := buildSearchQuery(fs.Args())
	if query == "" {
		fmt.Println("Usage: kura search [flags] <query>")
		os.Exit(1)
	}

	format, err := cli.ParseFormat(*outputFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	if *serverURL != "" {
		// Query the running server; this also avoids opening the database a
		// second time while it is held by the serve process.
		resp, err := searchViaHTTP(*serverURL, query)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
			os.Exit(1)
		}
		if err := cli.WriteSearchResults(os.Stdout, resp, format); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	store, _, logger, err := openStore(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	defer store.Close()
	defer logger.Sync()

	ctx := context.Background()
	// A fresh process starts with an empty index; fill it before searching.
	if err := store.RebuildIndex(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Index rebuild failed: %v\n", err)
		os.Exit(1)
	}
	start := time.Now()
	results, err := store.Search(ctx, query)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
		os.Exit(1)
	}

	hits := make([]api.SearchHit, 0, len(results))
	for _, res := range results {
		hit := api.SearchHit{Collection: res.Collection, ID: res.ID, Score: res.Score, IndexedAt: res.IndexedAt}
		if rec, getErr := store.Get(ctx, res.Collection, res.ID); getErr == nil && rec != nil {
			hit.Preview = utils.Truncate(record.SearchableText(rec), 200)
		}
		hits = append(hits, hit)
	}
	resp := &api.SearchResponse{
		Query:   query,
		Total:   len(hits),
		TookMS:  time.Since(start).Milliseconds(),
		Results: hits,
	}
	if err := cli.WriteSearchResults(os.Stdout, resp, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func searchViaHTTP(serverURL, query string) (*api.SearchResponse, error) {
	resp, err := http.Get(serverURL + "/api/v1/search?q=" + url.QueryEscape(query))
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var out api.SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &out, nil
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path (for direct mode)")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = open the store directly)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	format, err := cli.ParseFormat(*outputFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	var status *api.StatusResponse
	if *serverURL != "" {
		status, err = statusViaHTTP(*serverURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Status failed: %v\n", err)
			os.Exit(1)
		}
	} else {
		store, cfg, logger, openErr := openStore(*configPath)
		if openErr != nil {
			fmt.Fprintf(os.Stderr, "%v\n", openErr)
			os.Exit(1)
		}
		defer store.Close()
		defer logger.Sync()

		stats, statsErr := store.Stats(context.Background())
		if statsErr != nil {
			fmt.Fprintf(os.Stderr, "Stats failed: %v\n", statsErr)
			os.Exit(1)
		}
		if stats == nil {
			fmt.Fprintln(os.Stderr, "Stats unavailable")
			os.Exit(1)
		}
		status = &api.StatusResponse{
			Version:         stats.Version,
			Project:         stats.ProjectName,
			Collections:     stats.Collections,
			TotalItems:      stats.TotalItems,
			SearchIndexSize: stats.SearchIndexSize,
			EstimatedSize:   stats.EstimatedSize,
			Config: &api.StatusConfig{
				DataDir:        cfg.DataDir,
				DatabasePath:   cfg.DatabasePath(),
				BleveIndexPath: cfg.BleveIndexPath(),
				CacheBackend:   cfg.Cache.Backend,
				SearchBackend:  cfg.Search.Backend,
			},
		}
		if diskBytes, diskErr := diskUsageFor(cfg); diskErr == nil {
			status.DiskUsageBytes = &diskBytes
		}
	}

	if err := cli.WriteStatus(os.Stdout, status, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func statusViaHTTP(serverURL string) (*api.StatusResponse, error) {
	resp, err := http.Get(serverURL + "/api/v1/status")
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var out api.StatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &out, nil
}

func runRebuild() {
	fs := flag.NewFlagSet("rebuild", flag.ExitOnError)
	serverURL := fs.String("server", "http://localhost:8080", "server URL")
	_ = fs.Parse(os.Args[2:])

	resp, err := http.Post(*serverURL+"/api/v1/rebuild", "application/json", nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Request failed: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		fmt.Fprintf(os.Stderr, "Rebuild failed (%d): %s\n", resp.StatusCode, string(b))
		os.Exit(1)
	}
	fmt.Println("Search index rebuilt")
}

func runWatch() {
	if len(os.Args) < 3 {
		fmt.Println("Usage: kura watch <add|remove|list> [path]")
		fmt.Println("  kura watch add <path>     Add directory to watch")
		fmt.Println("  kura watch remove <path>  Remove directory from watch")
		fmt.Println("  kura watch list           List watched directories")
		os.Exit(1)
	}
	sub := os.Args[2]
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	serverURL := fs.String("server", "http://localhost:8080", "server URL")
	_ = fs.Parse(os.Args[3:])

	switch sub {
	case "add":
		if fs.NArg() < 1 {
			fmt.Println("Usage: kura watch add <path>")
			os.Exit(1)
		}
		path, _ := filepath.Abs(fs.Arg(0))
		body, _ := json.Marshal(api.WatchAddRequest{Path: path})
		resp, err := http.Post(*serverURL+"/api/v1/watch/directories", "application/json", bytes.NewReader(body))
		if err != nil {
			fmt.Printf("Request failed: %v\n", err)
			os.Exit(1)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusCreated {
			b, _ := io.ReadAll(resp.Body)
			fmt.Printf("Add failed (%d): %s\n", resp.StatusCode, string(b))
			os.Exit(1)
		}
		fmt.Printf("Added: %s\n", path)
	case "remove":
		if fs.NArg() < 1 {
			fmt.Println("Usage: kura watch remove <path>")
			os.Exit(1)
		}
		path, _ := filepath.Abs(fs.Arg(0))
		req, _ := http.NewRequest(http.MethodDelete, *serverURL+"/api/v1/watch/directories?path="+url.QueryEscape(path), nil)
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			fmt.Printf("Request failed: %v\n", err)
			os.Exit(1)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			b, _ := io.ReadAll(resp.Body)
			fmt.Printf("Remove failed (%d): %s\n", resp.StatusCode, string(b))
			os.Exit(1)
		}
		fmt.Printf("Removed: %s\n", path)
	case "list":
		resp, err := http.Get(*serverURL + "/api/v1/watch/directories")
		if err != nil {
			fmt.Printf("Request failed: %v\n", err)
			os.Exit(1)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			b, _ := io.ReadAll(resp.Body)
			fmt.Printf("List failed (%d): %s\n", resp.StatusCode, string(b))
			os.Exit(1)
		}
		var out api.WatchDirectoriesResponse
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			fmt.Printf("Parse failed: %v\n", err)
			os.Exit(1)
		}
		for _, d := range out.Directories {
			fmt.Println(d)
		}
	default:
		fmt.Printf("Unknown watch subcommand: %s\n", sub)
		os.Exit(1)
	}
}

func diskUsageFor(cfg *kura.Config) (int64, error) {
	return storage.DiskUsage(cfg.DatabasePath(), cfg.BleveIndexPath())
}

func printUsage() {
	fmt.Println(`kura - local record store with search

Usage:
  kura serve [flags]                Start the HTTP server
  kura put [flags] [json]           Store a record (JSON object; stdin when omitted)
  kura get [flags] <id>             Read a record
  kura list [flags]                 List a collection
  kura delete [flags] <id>          Delete a record
  kura clear [flags] <collection>   Remove every record in a collection
  kura search [flags] <query>       Search across collections
  kura status [flags]               Show store statistics
  kura rebuild [flags]              Rebuild the server's search index
  kura watch <add|remove|list>      Manage watched directories
  kura version                      Show version
  kura help                         Show this help

Serve Flags:
  --config string    Config file path (default: /usr/local/etc/kura/config.yaml)
  --debug            Enable debug logging (watch events, record writes, etc.)

Record Flags (put/get/list/delete):
  --config string      Config file path
  --collection string  Collection to operate on (default: "default")
  --id string          Record id for put (generated when empty)

Search Flags:
  --config string    Config file path (for direct mode)
  --server string    Server URL (default: http://localhost:8080). Use --server "" to open the store directly.
  --output string    Output format: text, compact, or json (default: text)

Status Flags:
  --config string    Config file path (for direct mode)
  --server string    Server URL (default: http://localhost:8080). Use --server "" to open the store directly.
  --output string    Output format: text or json (default: text)

Examples:
  kura serve
  kura put --collection todos '{"title": "Buy milk"}'
  kura search milk
  kura search --output json "quarterly report"
  kura list --collection todos
  kura status --output json
  kura watch add /path/to/docs`)
}
