package cmd

import (
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	cfg "github.com/maastricht-university/speech-emotion/config"
	"github.com/maastricht-university/speech-emotion/logging"
)

var (
	configPath string
	conf       *cfg.Root
)

var rootCmd = &cobra.Command{
	Use:           "ser",
	Short:         "Speech emotion recognition: transcribe audio and classify the emotion of every segment",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		envErr := godotenv.Load()

		c, err := cfg.Load(configPath, cmd.Flags())
		if err != nil {
			return err
		}
		if err := logging.Setup(c.Pipeline.LogLvl, c.Pipeline.LogFormat); err != nil {
			return err
		}
		if envErr != nil {
			log.Debug("no .env file found; using process environment")
		}
		conf = c
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default config/$CONFIG_ENV/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
}

func Execute() error {
	return rootCmd.Execute()
}
