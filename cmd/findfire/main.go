// Command findfire walks a directory tree of FDC scan files, clusters the
// fire pixels of each scan, and persists the clusters to the store.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/ashfall-data/wildfire.report/internal/config"
	"github.com/ashfall-data/wildfire.report/internal/findfire"
)

func main() {
	app := &cli.App{
		Name:  "findfire",
		Usage: "cluster satellite fire detections into the wildfire store",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "data-dir",
				Usage:    "root directory of FDC scan files",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "store",
				Usage: "path to the SQLite store (overrides config)",
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "path to a tuning config JSON file",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "decode worker count (overrides config)",
			},
		},
		Action: runFindFire,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func runFindFire(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	p, err := findfire.New(cfg, findfire.CDFDecoder{})
	if err != nil {
		return err
	}
	defer p.Close()

	_, err = p.Run(c.String("data-dir"))
	return err
}

func loadConfig(c *cli.Context) (*config.TuningConfig, error) {
	var cfg *config.TuningConfig
	if path := c.String("config"); path != "" {
		loaded, err := config.LoadTuningConfig(path)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	} else {
		cfg = config.MustLoadDefaultConfig()
	}

	if store := c.String("store"); store != "" {
		cfg.DatabasePath = &store
	}
	if workers := c.Int("workers"); workers > 0 {
		cfg.DecodeWorkers = &workers
	}
	return cfg, nil
}
