package main

import (
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/drone/drone-ctrf/ctrf"
	"github.com/drone/drone-ctrf/internal/diag"
)

type converter func(path string, opts ctrf.Options, log logrus.FieldLogger) (*ctrf.Report, []diag.Diagnostic, error)

func convertCommand(v *viper.Viper, name, short string, convert converter) *cobra.Command {
	return &cobra.Command{
		Use:   name + " REPORT",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			props, err := cmd.Flags().GetStringArray("env")
			if err != nil {
				return err
			}
			return runConvert(cmd.OutOrStdout(), v, args[0], props, convert)
		},
	}
}

func runConvert(w io.Writer, v *viper.Viper, input string, props []string, convert converter) error {
	env := ctrf.ParseEnvironment(props, logrus.StandardLogger())
	if envFile := v.GetString("env-file"); envFile != "" {
		var err error
		if env, err = ctrf.LoadEnvironmentFile(envFile, env); err != nil {
			return err
		}
	}

	output, err := ctrf.ResolveOutputPath(v.GetString("output"))
	if err != nil {
		return err
	}

	log := logrus.WithField("File", input)
	report, diags, err := convert(input, ctrf.Options{ToolName: v.GetString("tool-name"), Environment: env}, log)
	if err != nil {
		log.WithError(err).Error("Conversion failed")
		return err
	}

	if err := ctrf.Write(output, report); err != nil {
		log.WithError(err).Error("Failed to write report")
		return err
	}

	log.WithField("Diagnostics", len(diags)).Infof("CTRF report written to %s", output)
	ctrf.RenderSummary(w, report)
	return nil
}
