package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/alitto/pond"
	"github.com/urfave/cli/v2"

	"github.com/sixy6e/go-erf/encode"
	"github.com/sixy6e/go-erf/loader"
	"github.com/sixy6e/go-erf/search"
)

// load_forecast handles loading a single forecast rooted at forecast_uri
// (a directory tree or a zip archive) and writing its success summary.
func load_forecast(forecast_uri, config_uri, outdir_uri string) error {
	log.Println("Loading forecast:", forecast_uri)

	var (
		tree loader.SourceTree
		err  error
	)
	if strings.HasSuffix(strings.ToLower(forecast_uri), ".zip") {
		tree, err = loader.NewZipTree(forecast_uri)
	} else {
		tree, err = loader.NewVfsTree(forecast_uri, config_uri)
	}
	if err != nil {
		return err
	}
	defer tree.Close()

	name := filepath.Base(filepath.Clean(forecast_uri))
	name = strings.TrimSuffix(name, ".zip")
	model, err := loader.Load(name, tree)
	if err != nil {
		return err
	}

	if outdir_uri == "" {
		outdir_uri = filepath.Dir(forecast_uri)
	}
	out_uri := filepath.Join(outdir_uri, name+"-summary.json")

	log.Println("Writing summary")
	_, err = encode.WriteSummary(out_uri, config_uri, model)
	if err != nil {
		return err
	}

	log.Println("Finished forecast:", forecast_uri)

	return nil
}

// load_forecast_trawl searches uri for forecast roots (every directory
// containing a gmm.xml under a SourceType subdirectory) and loads each
// one concurrently on a fixed-size worker pool.
func load_forecast_trawl(uri, config_uri, outdir_uri string) error {
	log.Println("Searching uri:", uri)
	gmmPaths := search.FindForecasts(uri, config_uri)
	roots := search.ForecastRoots(gmmPaths)
	log.Println("Number of forecasts to load:", len(roots))

	// Create a context that will be cancelled when the user presses Ctrl+C
	// (process receives termination signal).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// fixed pool
	n := runtime.NumCPU() * 2
	pool := pond.New(n, 0, pond.MinWorkers(n), pond.Context(ctx))

	var (
		mu       sync.Mutex
		firstErr error
	)
	for _, name := range roots {
		root_uri := name
		pool.Submit(func() {
			if err := load_forecast(root_uri, config_uri, outdir_uri); err != nil {
				log.Println("Error loading forecast:", root_uri, err)
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
			}
		})
	}

	pool.StopAndWait()

	return firstErr
}

func main() {
	app := &cli.App{
		Commands: []*cli.Command{
			{
				Name: "load",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "forecast-uri",
						Usage: "URI or pathname to a forecast directory or zip archive.",
					},
					&cli.StringFlag{
						Name:  "config-uri",
						Usage: "URI or pathname to a TileDB config file.",
					},
					&cli.StringFlag{
						Name:  "outdir-uri",
						Usage: "URI or pathname to an output directory.",
					},
				},
				Action: func(cCtx *cli.Context) error {
					return load_forecast(cCtx.String("forecast-uri"), cCtx.String("config-uri"), cCtx.String("outdir-uri"))
				},
			},
			{
				Name: "load-trawl",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "uri",
						Usage: "URI or pathname to a directory containing one or more forecasts.",
					},
					&cli.StringFlag{
						Name:  "config-uri",
						Usage: "URI or pathname to a TileDB config file.",
					},
					&cli.StringFlag{
						Name:  "outdir-uri",
						Usage: "URI or pathname to an output directory.",
					},
				},
				Action: func(cCtx *cli.Context) error {
					return load_forecast_trawl(cCtx.String("uri"), cCtx.String("config-uri"), cCtx.String("outdir-uri"))
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
