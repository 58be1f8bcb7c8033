package main

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/drone/drone-ctrf/ctrf"
	"github.com/drone/drone-ctrf/junit"
	"github.com/drone/drone-ctrf/testng"
)

const defaultLogLevel = "info"

func newRootCommand() *cobra.Command {
	v := viper.New()

	rootCmd := &cobra.Command{
		Use: "ctrf",
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		Short: "Convert TestNG and JUnit XML reports to CTRF JSON",
		Long: `ctrf converts test reports produced by TestNG or JUnit compatible runners into
the Common Test Report Format, a single JSON schema for dashboards and CI tooling.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return initLogLevel(v)
		},
	}

	flags := rootCmd.PersistentFlags()
	addFlags(flags)

	cobra.CheckErr(v.BindPFlags(flags))

	// CTRF_OUTPUT, CTRF_TOOL_NAME, CTRF_ENV_FILE and CTRF_LOG_LEVEL override flag defaults.
	v.SetEnvPrefix("ctrf")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	rootCmd.AddCommand(convertCommand(v, "testng", "Convert a TestNG testng-results.xml report", testng.Convert))
	rootCmd.AddCommand(convertCommand(v, "junit", "Convert a JUnit XML report", junit.Convert))
	return rootCmd
}

func addFlags(flags *pflag.FlagSet) {
	flags.StringP("output", "o", ctrf.DefaultOutputPath,
		"Path of the CTRF report to write. Parent directories are created as needed.")
	flags.StringP("tool-name", "t", "",
		`Tool name recorded in the report (default "TestNG" or "junit-to-ctrf")`)
	flags.StringArrayP("env", "e", nil,
		"Environment property in KEY=value form, added to the report. Can be repeated.")
	flags.String("env-file", "",
		"Dotenv file with additional environment properties. --env values take precedence.")
	flags.StringP("log-level", "l", defaultLogLevel,
		`Log level. Can be any standard log-level ("info", "debug", etc...)`)
}

func initLogLevel(v *viper.Viper) error {
	rawLvl := v.GetString("log-level")
	lvl, err := logrus.ParseLevel(rawLvl)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", rawLvl, err)
	}
	logrus.SetLevel(lvl)
	return nil
}
