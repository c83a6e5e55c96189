package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"mockagent/internal/agent"
	"mockagent/internal/config"
	"mockagent/internal/logging"
)

func main() {
	configPath := flag.String("config", "mock-server.yaml", "path to the stub catalog YAML file")
	socketPath := flag.String("socket", "", "host transport socket path (accepted for protocol compatibility; unused by the demo front-end)")
	grpcAddress := flag.String("grpc-address", "", "host transport gRPC address (accepted for protocol compatibility; unused by the demo front-end)")
	address := flag.String("address", ":8080", "address for the demo HTTP front-end, default ':8080'")
	logLevel := flag.String("log-level", "info", "log level, default 'info'")
	logDir := flag.String("log-dir", "log", "log directory, default 'log'")
	printConfig := flag.Bool("print-config", false, "print the bundled default configuration and exit")
	validate := flag.Bool("validate", false, "parse and validate the config, report the stub count, and exit")
	flag.Parse()

	_ = socketPath
	_ = grpcAddress

	if *printConfig {
		os.Stdout.Write(config.DefaultConfigYAML())
		os.Exit(0)
	}

	data, err := os.ReadFile(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read config %q: %s\n", *configPath, err)
		os.Exit(1)
	}

	cfg, err := config.Load(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config %q: %s\n", *configPath, err)
		os.Exit(1)
	}

	if *validate {
		fmt.Printf("config %q is valid: %d stub(s), %d enabled\n", *configPath, len(cfg.Stubs), cfg.EnabledCount())
		os.Exit(0)
	}

	log, err := logging.NewZapLogger(*logLevel, *logDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %s\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	procLogger, err := logging.NewProcessLogger(log, *logDir, "decisions", 10)
	if err != nil {
		log.Error("init process logger", zap.Error(err))
		os.Exit(1)
	}
	defer procLogger.Close()

	a, err := agent.New(log, cfg)
	if err != nil {
		log.Error("build agent", zap.Error(err))
		os.Exit(1)
	}

	router := newRouter(a, log, procLogger)

	log.Info("mock agent demo front-end listening", zap.String("address", *address))
	if err := startServer(*address, router); err != nil {
		log.Error("serve", zap.Error(err))
		os.Exit(1)
	}
}
