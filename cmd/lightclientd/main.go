// Copyright 2024 The rainbow-bridge-sub000 Authors
// This file is part of the rainbow-bridge-sub000 library.
//
// The rainbow-bridge-sub000 library is free software: you can redistribute it
// and/or modify it under the terms of the GNU Lesser General Public License
// as published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// The rainbow-bridge-sub000 library is distributed in the hope that it will
// be useful, but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the GNU Lesser
// General Public License for more details.

// Command lightclientd runs either era of the light client engine
// (spec.md §4.D PoW or §4.E/§4.F post-Merge) behind a single
// client.Facade, exposing its read operations and Prometheus metrics
// over HTTP (ambient CLI/daemon wiring, SPEC_FULL.md §0/§1.3).
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	beaconlight "github.com/Near-One/rainbow-bridge-sub000/beacon/light"
	"github.com/Near-One/rainbow-bridge-sub000/client"
	"github.com/Near-One/rainbow-bridge-sub000/consensus/ethash"
	"github.com/Near-One/rainbow-bridge-sub000/ethdb"
	"github.com/Near-One/rainbow-bridge-sub000/ethdb/memorydb"
	"github.com/Near-One/rainbow-bridge-sub000/ethdb/pebbledb"
	"github.com/Near-One/rainbow-bridge-sub000/internal/metrics"
	lg "github.com/Near-One/rainbow-bridge-sub000/log"
	powlight "github.com/Near-One/rainbow-bridge-sub000/light"
	"github.com/Near-One/rainbow-bridge-sub000/params"
	"github.com/urfave/cli/v2"
)

var (
	configFlag = &cli.StringFlag{
		Name:  "config",
		Usage: "path to a TOML configuration file (spec.md §6 options table)",
	}
	dataDirFlag = &cli.StringFlag{
		Name:  "datadir",
		Usage: "pebble database directory; empty uses an in-memory store (tests only)",
	}
	eraFlag = &cli.StringFlag{
		Name:  "era",
		Usage: "which engine to run: \"pow\" or \"beacon\"",
		Value: "pow",
	}
	listenFlag = &cli.StringFlag{
		Name:  "listen",
		Usage: "address the query/metrics HTTP server binds to",
		Value: "127.0.0.1:8645",
	}
	dagMerkleRootsFlag = &cli.StringFlag{
		Name:  "dags-merkle-roots",
		Usage: "path to a newline-delimited hex DAG Merkle root file (PoW era only)",
	}
	genesisHeaderFlag = &cli.StringFlag{
		Name:  "genesis-header",
		Usage: "path to a raw RLP-encoded genesis ExecutionHeader (PoW era, first run only)",
	}
	genesisDifficultyFlag = &cli.StringFlag{
		Name:  "genesis-cumulative-difficulty",
		Usage: "decimal cumulative difficulty of the genesis header (PoW era, first run only)",
	}
	bootstrapHeaderFlag = &cli.StringFlag{
		Name:  "bootstrap-beacon-header",
		Usage: "path to a raw RLP-encoded ExtendedBeaconBlockHeader (beacon era, first run only)",
	}
	bootstrapExecFlag = &cli.StringFlag{
		Name:  "bootstrap-execution-info",
		Usage: "path to a raw RLP-encoded ExecutionHeaderInfo (beacon era, first run only)",
	}
	bootstrapCommitteeFlag = &cli.StringFlag{
		Name:  "bootstrap-sync-committee",
		Usage: "path to a raw RLP-encoded SyncCommittee (beacon era, first run only)",
	}
	ownerFlag = &cli.StringFlag{
		Name:  "owner",
		Usage: "admin-op caller identity authorized by UpdateTrustedSigner/UpdateHashesGcThreshold/SetPaused",
	}
)

func main() {
	app := &cli.App{
		Name:  "lightclientd",
		Usage: "Ethereum light client core daemon",
		Flags: []cli.Flag{
			configFlag, dataDirFlag, eraFlag, listenFlag, dagMerkleRootsFlag,
			genesisHeaderFlag, genesisDifficultyFlag,
			bootstrapHeaderFlag, bootstrapExecFlag, bootstrapCommitteeFlag,
			ownerFlag,
		},
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "lightclientd:", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	db, err := openStore(c.String(dataDirFlag.Name))
	if err != nil {
		return err
	}
	collector := metrics.New("lightclientd")

	var facade *client.Facade
	switch c.String(eraFlag.Name) {
	case "pow":
		facade, err = setupPoW(c, db, cfg, collector)
	case "beacon":
		facade, err = setupBeacon(c, db, cfg, collector)
	default:
		err = fmt.Errorf("lightclientd: unknown era %q (want \"pow\" or \"beacon\")", c.String(eraFlag.Name))
	}
	if err != nil {
		return err
	}

	lg.Root().Info("lightclientd starting", "era", c.String(eraFlag.Name), "listen", c.String(listenFlag.Name))

	srv := &http.Server{
		Addr:    c.String(listenFlag.Name),
		Handler: newQueryServer(facade, collector).mux(),
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case <-ctx.Done():
		lg.Root().Info("lightclientd shutting down")
		return srv.Shutdown(context.Background())
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func loadConfig(c *cli.Context) (params.Config, error) {
	if path := c.String(configFlag.Name); path != "" {
		return params.LoadConfigFile(path)
	}
	return params.Config{
		HashesGcThreshold:    2048,
		FinalizedGcThreshold: 2048,
		NumConfirmations:     25,
	}, nil
}

func openStore(dir string) (ethdb.KeyValueStore, error) {
	if dir == "" {
		lg.Root().Warn("no -datadir given, using an in-memory store (state lost on exit)")
		return memorydb.New(), nil
	}
	return pebbledb.Open(dir)
}

func setupPoW(c *cli.Context, db ethdb.KeyValueStore, cfg params.Config, collector *metrics.Collector) (*client.Facade, error) {
	var roots ethash.EpochDAGRoots
	if path := c.String(dagMerkleRootsFlag.Name); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("lightclientd: opening dag merkle roots file: %w", err)
		}
		defer f.Close()
		roots, err = params.LoadDAGMerkleRoots(f, cfg.DagsStartEpoch)
		if err != nil {
			return nil, err
		}
	}

	engine := powlight.New(db, powlight.Config{
		DAGRoots:             roots,
		ValidateEthash:       cfg.ValidateEthash,
		NumConfirmations:     cfg.NumConfirmations,
		HashesGcThreshold:    cfg.HashesGcThreshold,
		FinalizedGcThreshold: cfg.FinalizedGcThreshold,
		TrustedSigner:        cfg.TrustedSigner,
		Owner:                c.String(ownerFlag.Name),
		Metrics:              collector,
	})

	last, err := engine.LastBlockNumber()
	if err == nil {
		_, err = engine.BlockHash(last)
	}
	if err != nil {
		headerPath := c.String(genesisHeaderFlag.Name)
		difficulty := c.String(genesisDifficultyFlag.Name)
		if headerPath == "" || difficulty == "" {
			return nil, fmt.Errorf("lightclientd: store is empty; -genesis-header and -genesis-cumulative-difficulty are required on first run")
		}
		header, cumulative, err := loadPoWGenesis(headerPath, difficulty)
		if err != nil {
			return nil, err
		}
		if err := engine.Genesis(header, cumulative); err != nil {
			return nil, fmt.Errorf("lightclientd: seeding genesis: %w", err)
		}
		lg.Root().Info("seeded PoW genesis", "number", header.Number, "hash", header.Hash())
	}

	return client.NewPoWFacade(engine), nil
}

func setupBeacon(c *cli.Context, db ethdb.KeyValueStore, cfg params.Config, collector *metrics.Collector) (*client.Facade, error) {
	schedule, err := params.Schedule(cfg.Network)
	if err != nil {
		return nil, err
	}

	engine := beaconlight.New(db, beaconlight.Config{
		Schedule:            schedule,
		ValidateUpdates:     cfg.ValidateUpdates,
		VerifyBLSSignatures: cfg.VerifyBLSSignatures,
		HashesGcThreshold:   cfg.HashesGcThreshold,
		TrustedSigner:       cfg.TrustedSigner,
		Owner:               c.String(ownerFlag.Name),
		Metrics:             collector,
	})

	if _, err := engine.FinalizedBeaconBlockSlot(); err != nil {
		headerPath := c.String(bootstrapHeaderFlag.Name)
		execPath := c.String(bootstrapExecFlag.Name)
		committeePath := c.String(bootstrapCommitteeFlag.Name)
		if headerPath == "" || execPath == "" || committeePath == "" {
			return nil, fmt.Errorf("lightclientd: store is empty; -bootstrap-beacon-header, -bootstrap-execution-info, and -bootstrap-sync-committee are required on first run")
		}
		boot, err := loadBeaconBootstrap(headerPath, execPath, committeePath)
		if err != nil {
			return nil, err
		}
		if err := engine.Bootstrap(boot.Header, boot.FinalizedExecution, boot.CurrentCommittee); err != nil {
			return nil, fmt.Errorf("lightclientd: seeding beacon bootstrap: %w", err)
		}
		lg.Root().Info("seeded beacon bootstrap", "slot", boot.Header.Header.Slot)
	}

	return client.NewBeaconFacade(engine), nil
}

func parseUint(s string) (uint64, error) {
	if s == "" {
		return 0, fmt.Errorf("lightclientd: missing required numeric query parameter")
	}
	return strconv.ParseUint(s, 10, 64)
}
