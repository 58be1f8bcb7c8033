package main

import (
	"context"
	"fmt"

	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"

	"github.com/drone/drone-ctrf/plugin"
)

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	var args plugin.Args
	if err := envconfig.Process("", &args); err != nil {
		logrus.Fatalln(err)
	}

	if err := setLogLevel(args.Level); err != nil {
		logrus.Fatalln(err)
	}

	if err := plugin.ValidateInputs(args); err != nil {
		logrus.Fatalln(err)
	}

	if err := plugin.Exec(context.Background(), args); err != nil {
		logrus.Fatalln(err)
	}
}

// setLogLevel applies PLUGIN_LOG_LEVEL. An empty value keeps the default.
func setLogLevel(raw string) error {
	if raw == "" {
		return nil
	}
	lvl, err := logrus.ParseLevel(raw)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", raw, err)
	}
	logrus.SetLevel(lvl)
	return nil
}
