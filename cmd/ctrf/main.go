package main

import (
	"os"

	"github.com/sirupsen/logrus"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		logrus.Errorf("An error occurred: %v", err)
		os.Exit(1)
	}
}
