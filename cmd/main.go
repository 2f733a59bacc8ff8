package main

import (
	"os"

	"github.com/sirupsen/logrus"

	"github.com/hatlabs/cockpit-package-manager/internal/cli"
)

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
