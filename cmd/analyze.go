package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/maastricht-university/speech-emotion/audio"
)

var audioFlag string

var analyzeCmd = &cobra.Command{
	Use:   "analyze [-audio path] <path/to/audio.(wav|mp3|m4a|mp4)>",
	Short: "Run the pipeline on a local file and print the segments as JSON",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := audioFlag
		if in == "" && len(args) > 0 {
			in = args[0]
		}
		if in == "" {
			return errors.New("no audio file given")
		}
		if _, ok := audio.Extension(in, conf.Audio.Extensions); !ok {
			return fmt.Errorf("unsupported file format: %s", in)
		}

		p, err := newPipeline(conf)
		if err != nil {
			return err
		}
		a, err := p.Run(cmd.Context(), in)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(a.Segments)
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&audioFlag, "audio", "", "path to audio file")
	rootCmd.AddCommand(analyzeCmd)
}
