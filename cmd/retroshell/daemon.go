package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/1broseidon/retroshell/internal/catalog"
	"github.com/1broseidon/retroshell/internal/config"
	"github.com/1broseidon/retroshell/internal/desktop"
	"github.com/1broseidon/retroshell/internal/ipc"
	"github.com/1broseidon/retroshell/internal/runtimepath"
)

func runDaemon(args []string) int {
	if len(args) > 0 && (args[0] == "help" || args[0] == "-h" || args[0] == "--help") {
		fmt.Fprintln(os.Stdout, "Usage: retroshell daemon")
		return 0
	}
	if len(args) > 0 {
		fmt.Fprintln(os.Stderr, "daemon takes no arguments")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Usage: retroshell daemon")
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		log.Printf("Failed to load configuration: %v", err)
		return 1
	}
	logger := newSlogLogger(cfg.LogLevel, os.Stderr)
	logger.Info("configuration loaded",
		"viewport", fmt.Sprintf("%.0fx%.0f", cfg.Viewport.Width, cfg.Viewport.Height),
		"breakpoint", cfg.Viewport.Breakpoint)

	socketPath, err := runtimepath.ResolveSocketPath(cfg.SocketPath)
	if err != nil {
		log.Printf("Failed to resolve socket path: %v", err)
		return 1
	}
	if ipc.NewClientWithSocket(socketPath).Ping() == nil {
		log.Printf("A retroshell daemon is already listening on %s", socketPath)
		return 1
	}

	cat, err := loadCatalog(cfg)
	if err != nil {
		log.Printf("Failed to load catalog: %v", err)
		return 1
	}
	logger.Info("catalog loaded", "items", cat.Len(), "topics", len(cat.Topics()))

	actions, err := newActionLogger(cfg)
	if err != nil {
		log.Printf("Warning: failed to initialize action log: %v", err)
		actions = nil
	}
	var recorder desktop.Recorder
	if actions != nil {
		recorder = actions
		defer actions.Close()
	}

	desk := desktop.New(cat, desktopOptions(cfg, recorder, logger))
	defer desk.Close()

	// RELOAD re-reads the config file too, so edited catalog paths apply.
	reload := func() (*catalog.Catalog, error) {
		newCfg, err := config.Load()
		if err != nil {
			return nil, err
		}
		return loadCatalog(newCfg)
	}

	ipcServer, err := ipc.NewServer(socketPath, desk, reload)
	if err != nil {
		log.Printf("Failed to create IPC server: %v", err)
		return 1
	}
	if err := ipcServer.Start(); err != nil {
		log.Printf("Failed to start IPC server: %v", err)
		return 1
	}
	defer ipcServer.Stop()

	pidPath, err := writePIDFile()
	if err != nil {
		logger.Warn("failed to write pid file", "error", err)
	} else {
		defer os.Remove(pidPath)
	}

	log.Println("retroshell daemon started successfully")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigCh)

	for sig := range sigCh {
		switch sig {
		case syscall.SIGHUP:
			log.Println("Received SIGHUP, reloading catalog...")
			newCat, err := reload()
			if err != nil {
				log.Printf("Catalog reload failed: %v", err)
				continue
			}
			desk.Reload(newCat)
			logger.Info("catalog reloaded", "items", newCat.Len())

		case os.Interrupt, syscall.SIGTERM:
			log.Println("Shutting down retroshell daemon...")
			return 0
		}
	}
	return 0
}

func writePIDFile() (string, error) {
	path, err := runtimepath.PIDPath()
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())+"\n"), 0600); err != nil {
		return "", fmt.Errorf("failed to write pid file: %w", err)
	}
	return path, nil
}

// readPIDFile returns the recorded daemon pid, or 0 when none is recorded.
func readPIDFile() (int, error) {
	path, err := runtimepath.PIDPath()
	if err != nil {
		return 0, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("invalid pid file %s: %w", path, err)
	}
	return pid, nil
}
