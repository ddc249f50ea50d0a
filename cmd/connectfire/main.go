// Command connectfire connects persisted clusters across time into
// wildfires, and exports the resulting fires as KML.
package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/samber/lo"
	"github.com/urfave/cli/v2"

	"github.com/ashfall-data/wildfire.report/internal/config"
	"github.com/ashfall-data/wildfire.report/internal/connectfire"
	"github.com/ashfall-data/wildfire.report/internal/fdc"
	"github.com/ashfall-data/wildfire.report/internal/firedb"
	"github.com/ashfall-data/wildfire.report/internal/kml"
)

func main() {
	storeFlag := &cli.StringFlag{
		Name:  "store",
		Usage: "path to the SQLite store (overrides config)",
	}
	configFlag := &cli.StringFlag{
		Name:  "config",
		Usage: "path to a tuning config JSON file",
	}
	satelliteFlag := &cli.StringFlag{
		Name:  "satellite",
		Usage: "restrict to one satellite (G16 or G17)",
	}

	app := &cli.App{
		Name:  "connectfire",
		Usage: "connect clusters across time into wildfires",
		Commands: []*cli.Command{
			{
				Name:  "track",
				Usage: "run the temporal tracker over the stored clusters",
				Flags: []cli.Flag{
					storeFlag, configFlag, satelliteFlag,
					&cli.StringFlag{
						Name:  "sector",
						Usage: "restrict to one sector (FDCF, FDCC, FDCM1, FDCM2)",
					},
					&cli.TimestampFlag{
						Name:   "start",
						Usage:  "only process scans starting at or after this time",
						Layout: time.RFC3339,
					},
					&cli.TimestampFlag{
						Name:   "end",
						Usage:  "only process scans starting at or before this time",
						Layout: time.RFC3339,
					},
				},
				Action: runTrack,
			},
			{
				Name:  "export",
				Usage: "write the stored wildfires to a KML file",
				Flags: []cli.Flag{
					storeFlag, configFlag, satelliteFlag,
					&cli.StringFlag{
						Name:     "out",
						Usage:    "output KML path",
						Required: true,
					},
				},
				Action: runExport,
			},
			{
				Name:  "migrate",
				Usage: "apply (or roll back) store schema migrations",
				Flags: []cli.Flag{
					storeFlag, configFlag,
					&cli.BoolFlag{
						Name:  "down",
						Usage: "roll back the most recent migration instead",
					},
				},
				Action: runMigrate,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func runTrack(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	q := firedb.RowQuery{}
	if q.Satellite, err = satelliteArg(c); err != nil {
		return err
	}
	if s := c.String("sector"); s != "" {
		if q.Sector, err = fdc.ParseSector(s); err != nil {
			return err
		}
	}
	q.Start = c.Timestamp("start")
	q.End = c.Timestamp("end")

	tracker, err := connectfire.New(cfg)
	if err != nil {
		return err
	}
	defer tracker.Close()

	_, err = tracker.Run(q)
	return err
}

func runExport(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	sat, err := satelliteArg(c)
	if err != nil {
		return err
	}

	db, err := firedb.Open(cfg.GetDatabasePath())
	if err != nil {
		return err
	}
	defer db.Close()

	rows, err := db.QueryFires(sat)
	if err != nil {
		return err
	}
	fires := lo.Map(rows, func(r firedb.FireRow, _ int) kml.Fire {
		return kml.Fire{
			ID:             r.ID,
			Satellite:      r.Satellite,
			FirstObserved:  r.FirstObserved,
			LastObserved:   r.LastObserved,
			Centroid:       r.Centroid,
			MaxPower:       r.MaxPower,
			MaxTemperature: r.MaxTemperature,
			Footprint:      r.Pixels,
		}
	})

	out, err := os.Create(c.String("out"))
	if err != nil {
		return err
	}
	defer out.Close()

	if err := kml.WriteFires(out, "wildfires", fires); err != nil {
		return err
	}
	log.Printf("exported %d fires to %s", len(fires), c.String("out"))
	return nil
}

func runMigrate(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	db, err := firedb.Open(cfg.GetDatabasePath())
	if err != nil {
		return err
	}
	defer db.Close()

	if c.Bool("down") {
		return db.MigrateDown()
	}
	return db.MigrateUp()
}

func satelliteArg(c *cli.Context) (fdc.Satellite, error) {
	s := c.String("satellite")
	if s == "" {
		return fdc.SatelliteNone, nil
	}
	sat, err := fdc.ParseSatellite(s)
	if err != nil {
		return fdc.SatelliteNone, fmt.Errorf("--satellite: %w", err)
	}
	return sat, nil
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
	return cfg, nil
}
