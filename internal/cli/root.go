package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mgpai22/subalign/internal/config"
	"github.com/mgpai22/subalign/internal/logging"
)

// app carries state shared by every command in one invocation.
type app struct {
	verbose    bool
	configPath string

	logger *logging.Logger
	cfg    *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "subalign",
		Short: "AI-powered subtitle generation, alignment and translation",
		Long: `Subalign generates timed subtitles for audio and video files using
OpenAI, Groq or Gemini transcription, translates existing subtitle files,
and converts or retimes SRT and WebVTT documents.

Provider API keys are read from the config file, a .env file in the
working directory, or the environment (OPENAI_API_KEY, GROQ_API_KEY,
GEMINI_API_KEY, ANTHROPIC_API_KEY).`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.logger = logging.NewLogger(a.verbose)
			if shouldSkipConfig(cmd) {
				return nil
			}

			cfg, path, exists, err := config.Load(a.configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			a.cfg = cfg
			a.logger.Debugw("Loaded configuration",
				"path", path,
				"exists", exists,
			)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	cmd.PersistentFlags().
		BoolVarP(&a.verbose, "verbose", "v", false, "Enable verbose output")
	cmd.PersistentFlags().
		StringVar(&a.configPath, "config", "", "Config file path (default ~/.config/subalign/config.toml)")
	cmd.PersistentFlags().StringP("output", "o", "", "Output file path")
	cmd.PersistentFlags().
		StringP("language", "l", "", "Language code (e.g., en, es, fr)")

	cmd.AddCommand(
		newGenerateCmd(a),
		newTranslateCmd(a),
		newConvertCmd(a),
		newShiftCmd(a),
		newInfoCmd(a),
		newExtractCmd(a),
		newConfigCmd(a),
	)
	return cmd
}

// commands annotated with skipConfigLoad run without a loaded config
func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

// Execute runs the CLI. Interrupts cancel the running command's context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return newRootCmd().ExecuteContext(ctx)
}
