package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"riskmap/internal/cache"
	"riskmap/internal/debug"
	"riskmap/internal/fetch"
	"riskmap/internal/geo"
	"riskmap/internal/ui"

	"github.com/joho/godotenv"
	"github.com/paulmach/orb/geojson"
)

func main() {
	// Load .env before flags so it can supply their defaults
	envFile := envFileArg(os.Args[1:])
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to load %s: %v\n", envFile, err)
			os.Exit(1)
		}
	} else {
		_ = godotenv.Load(".env")
	}

	// Parse command line flags
	help := flag.Bool("h", false, "Show help message")
	flag.String("env", "", "Environment file with default settings (default: .env)")
	configPath := flag.String("config", getenv("RISKMAP_CONFIG", "config/layers.json"), "Layer configuration, relative to the base")
	base := flag.String("base", getenv("RISKMAP_BASE", "."), "Base URL or directory that dataset paths resolve against")
	cacheBackend := flag.String("cache", getenv("RISKMAP_CACHE", cache.BackendFile), "Dataset cache: file, redis or none")
	cacheDir := flag.String("cache-dir", os.Getenv("RISKMAP_CACHE_DIR"), "Cache directory for datasets (default: ~/.riskmap/cache)")
	basemapDir := flag.String("basemap", os.Getenv("RISKMAP_BASEMAP"), "Directory of shapefiles drawn beneath the layers")
	debugLog := flag.String("d", "", "Debug log file (e.g., debug.log)")
	radiusKm := flag.Float64("r", ui.DefaultRadiusKm, "Map radius in km (1-2000)")
	aspectRatio := flag.Float64("a", 2.0, "Character aspect ratio - adjust for font width (1.0-4.0, default: 2.0)")
	flag.Parse()

	// Show help if requested
	if *help {
		fmt.Println("riskmap - Terminal risk data map")
		fmt.Println("\nUsage: riskmap [options]")
		fmt.Println("\nOptions:")
		flag.PrintDefaults()
		os.Exit(0)
	}

	// Validate aspect ratio
	if *aspectRatio < 1.0 || *aspectRatio > 4.0 {
		fmt.Fprintf(os.Stderr, "Error: Aspect ratio must be between 1.0 and 4.0\n")
		os.Exit(1)
	}

	// Validate radius
	if *radiusKm < 1 || *radiusKm > 2000 {
		fmt.Fprintf(os.Stderr, "Error: Radius must be between 1 and 2000 km\n")
		os.Exit(1)
	}

	// Set up debug logging if requested
	if *debugLog != "" {
		logFile, err := os.Create(*debugLog)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to create debug log: %v\n", err)
		} else {
			defer logFile.Close()
			debug.SetOutput(logFile)
			debug.Log("riskmap debug log started")
			fmt.Printf("Debug logging enabled: %s\n", *debugLog)
		}
	}

	// Initialize dataset cache
	store, err := cache.New(cache.Options{
		Backend:   *cacheBackend,
		Dir:       *cacheDir,
		RedisAddr: redisAddr(),
		RedisPass: os.Getenv("REDIS_PASS"),
		RedisDB:   redisDB(),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize cache: %v\n", err)
		os.Exit(1)
	}
	switch s := store.(type) {
	case *cache.FileStore:
		fmt.Printf("Dataset cache: %s\n", s.Dir())
	case *cache.RedisStore:
		defer s.Close()
	}

	fetcher := fetch.New(*base, fetch.WithCache(store))
	debug.L().Info("riskmap starting", "base", *base, "config", *configPath, "cache", *cacheBackend)

	// Load basemap shapefiles
	var basemap []*geojson.FeatureCollection
	if *basemapDir != "" {
		fmt.Println("Loading basemap...")
		basemap, err = loadBasemap(*basemapDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to load basemap: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Loaded %d basemap shapefiles\n", len(basemap))
	}

	// Create and run application
	fmt.Printf("Starting riskmap (base: %s, radius: %.0f km, aspect: %.1f)...\n", *base, *radiusKm, *aspectRatio)
	app, err := ui.NewApp(fetcher, ui.Options{
		ConfigPath:  *configPath,
		RadiusKm:    *radiusKm,
		AspectRatio: *aspectRatio,
		Basemap:     basemap,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create application: %v\n", err)
		os.Exit(1)
	}

	// Run with panic recovery to ensure terminal is always restored
	func() {
		defer func() {
			if r := recover(); r != nil {
				fmt.Fprintf(os.Stderr, "\nPanic: %v\n", r)
			}
		}()

		if err := app.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	}()

	fmt.Println("\nGoodbye!")
}

// envFileArg finds the -env value ahead of flag parsing
func envFileArg(args []string) string {
	for i, arg := range args {
		name, value, hasValue := strings.Cut(strings.TrimLeft(arg, "-"), "=")
		if !strings.HasPrefix(arg, "-") || name != "env" {
			continue
		}
		if hasValue {
			return value
		}
		if i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func redisAddr() string {
	return getenv("REDIS_HOST", "127.0.0.1") + ":" + getenv("REDIS_PORT", "6379")
}

// redisDB falls back to 0 when REDIS_DB does not parse
func redisDB() int {
	db, err := strconv.Atoi(os.Getenv("REDIS_DB"))
	if err != nil {
		return 0
	}
	return db
}

// loadBasemap loads every shapefile in dir, in name order
func loadBasemap(dir string) ([]*geojson.FeatureCollection, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.shp"))
	if err != nil {
		return nil, err
	}

	basemap := make([]*geojson.FeatureCollection, 0, len(paths))
	for _, path := range paths {
		fc, err := geo.LoadShapefile(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		debug.Log("basemap %s: %d features", filepath.Base(path), len(fc.Features))
		basemap = append(basemap, fc)
	}

	return basemap, nil
}
