package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/maastricht-university/speech-emotion/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the upload form and the /upload endpoint",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := newPipeline(conf)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		log.WithFields(log.Fields{
			"name":         conf.Pipeline.Name,
			"version":      conf.Pipeline.Version,
			"asr_provider": conf.Services.ASR.Provider,
		}).Info("starting")
		return server.New(conf, p).ListenAndServe(ctx)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (overrides server.addr)")
	rootCmd.AddCommand(serveCmd)
}
