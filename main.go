package main

import (
	"os"

	"github.com/finview/finview/internal/cli"
	log "github.com/sirupsen/logrus"
)

func init() {
	level := os.Getenv("LOG_LEVEL")
	if level != "" {
		logrusLevel, err := log.ParseLevel(level)
		if err != nil {
			log.Fatal(err)
		}
		log.SetLevel(logrusLevel)
	} else {
		log.SetLevel(log.WarnLevel)
	}
}

func main() {
	root, err := cli.NewRootCommand()
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
