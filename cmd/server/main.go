// Command server wires the chunk engine core into a runnable process: load
// config, acquire the world lock, open the level manager, and shut down
// cleanly on signal. It does not speak the Minecraft network protocol; that
// surface belongs to whatever embeds this module.
package main

import (
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/go-mclib/server/internal/config"
	"github.com/go-mclib/server/internal/level"
	"github.com/go-mclib/server/internal/services"
)

const dataVersion = 3953 // 1.21.1

func main() {
	configPath := flag.String("config", "server.toml", "path to the server config file")
	flag.Parse()

	cfg := config.Default()
	if _, err := os.Stat(*configPath); err == nil {
		loaded, err := config.Load(*configPath)
		if err != nil {
			os.Stderr.WriteString("server: " + err.Error() + "\n")
			os.Exit(1)
		}
		cfg = loaded
	}

	svc := services.New(cfg)

	if err := os.MkdirAll(filepath.Join(cfg.WorldRoot, "region"), 0o755); err != nil {
		svc.Log.Fatalf("creating world directory: %v", err)
	}

	lock, err := level.AcquireSessionLock(cfg.WorldRoot)
	if err != nil {
		svc.Log.Fatalf("acquiring session lock: %v", err)
	}
	defer lock.Release()

	if _, err := level.LoadLevelDat(cfg.WorldRoot); err != nil {
		svc.Log.Infof("no existing level.dat, starting a fresh world at %s", cfg.WorldRoot)
		if err := level.SaveLevelDat(cfg.WorldRoot, level.Data{Seed: cfg.Seed, DataVersion: dataVersion}); err != nil {
			svc.Log.Fatalf("writing initial level.dat: %v", err)
		}
	}

	mgr := level.New(cfg.WorldRoot, nil, dataVersion)
	svc.Log.WithField("world_root", cfg.WorldRoot).Info("chunk engine ready")

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	svc.Stop()
	svc.Log.Info("shutting down, flushing chunks")
	mgr.Save()
	mgr.Stop()
}
