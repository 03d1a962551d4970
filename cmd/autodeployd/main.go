package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gwhaley/autodeployd/internal/config"
	"github.com/gwhaley/autodeployd/internal/deploy"
	"github.com/gwhaley/autodeployd/internal/hook"
	"github.com/gwhaley/autodeployd/internal/log"
	"github.com/gwhaley/autodeployd/internal/notify"
	"github.com/joho/godotenv"
)

const version = "0.1.0"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("autodeployd", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "Path to configuration file")
	showVersion := fs.Bool("version", false, "Print version and exit")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to parse flags: %v\n", err)
		return 1
	}

	if *showVersion {
		fmt.Printf("autodeployd version %s\n", version)
		return 0
	}

	// A .env file is optional; process environment wins either way.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}

	log.Setup(cfg.LogLevel)
	logger := log.WithComponent("main")
	logger.Info("autodeployd starting", "version", version, "config", *configPath)

	if fp, err := config.Fingerprint(*configPath); err == nil {
		logger.Info("configuration loaded",
			"blake3", fp,
			"deployments", len(cfg.Deployments),
			"recipients", len(cfg.Notify.Recipients),
		)
	}

	if cfg.Secret() == "" {
		logger.Warn("webhook secret is not set; deliveries will be rejected", "secret_env", cfg.SecretEnv)
	}

	resolver := deploy.NewResolver(cfg.Deployments)
	runner := deploy.NewRunner(deploy.Config{
		ProjectDir: cfg.Ansible.ProjectDir,
		Playbook:   cfg.Ansible.Playbook,
		Inventory:  cfg.Ansible.Inventory,
		RemoteUser: cfg.Ansible.RemoteUser,
	}, log.WithComponent("deploy"))

	mailer := notify.NewSMTPMailer(cfg.Notify.RelayHost, cfg.Notify.RelayPort, cfg.Notify.From)
	notifier := notify.New(mailer, cfg.Notify.Recipients, cfg.Notify.SubjectPrefix, log.WithComponent("notify"))

	dispatcher := deploy.NewDispatcher(runner, notifier, log.WithComponent("deploy"))

	server := hook.New(hook.Config{
		Listen:     cfg.Listen,
		Secret:     cfg.Secret,
		Recipients: cfg.Notify.Recipients,
	}, resolver, dispatcher, notifier, log.WithComponent("hook"))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("server exited", "error", err)
		return 1
	}

	logger.Info("shutdown complete")
	return 0
}
