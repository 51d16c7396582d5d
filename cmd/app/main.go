package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	clicmds "sicoil-cli/internal/adapters/cli"
	"sicoil-cli/internal/adapters/repl"
	"sicoil-cli/internal/api"
	"sicoil-cli/internal/config"
	"sicoil-cli/internal/session"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "sicoil: %v\n", err)
		os.Exit(1)
	}

	log := logrus.New()
	log.SetOutput(os.Stderr)
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	client, err := api.NewClient(cfg.APIBaseURL, cfg.AuthBaseURL, log)
	if err != nil {
		log.WithError(err).Fatal("building API client")
	}

	store := session.NewStore(cfg.SessionFile)
	client.OnUnauthorized(store.Clear)

	go func() {
		for u := range store.Subscribe() {
			if u != nil {
				log.WithField("usuario", u.Usuario).Debug("session started")
			} else {
				log.Debug("session cleared")
			}
		}
	}()

	deps := clicmds.Deps{
		API:      client,
		Session:  store,
		Log:      log,
		In:       os.Stdin,
		Out:      os.Stdout,
		PageSize: cfg.PageSize,
	}

	appRoot := &cli.App{
		Name:     "sicoil",
		Usage:    "cliente de terminal para el backend SICOIL",
		Commands: clicmds.Commands(deps),
		Action: func(c *cli.Context) error {
			shell := repl.New(client, store, log, os.Stdin, os.Stdout, cfg.PageSize)
			return shell.Run(c.Context)
		},
	}

	if err := appRoot.Run(os.Args); err != nil {
		log.WithError(err).Error("command failed")
		os.Exit(1)
	}
}
