package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mgpai22/subalign/internal/config"
	"github.com/mgpai22/subalign/internal/provider"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the configuration file",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:         "init",
		Short:       "Write a config file with the default settings",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		Long: `Write a config file with the default settings to --config or
~/.config/subalign/config.toml. A .yaml or .yml path writes YAML.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runConfigInit(cmd, force)
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), renderSummary(configRows(a.cfg)))
			return nil
		},
	}

	cmd.AddCommand(initCmd, showCmd)
	return cmd
}

func (a *app) runConfigInit(cmd *cobra.Command, force bool) error {
	path, err := config.DefaultConfigPath()
	if a.configPath != "" {
		path, err = config.ExpandPath(a.configPath)
	}
	if err != nil {
		return fmt.Errorf("resolve config path: %w", err)
	}
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("config file already exists: %s (use --force to overwrite)", path)
	}

	cfg := config.Default()
	if err := cfg.Save(path); err != nil {
		return err
	}
	a.logger.Infow("Wrote config file", "path", path)
	fmt.Fprintf(cmd.OutOrStdout(), "Config written to %s\n", path)
	return nil
}

func configRows(cfg *config.Config) [][]string {
	rows := [][]string{
		{"transcription.provider", cfg.Transcription.Provider},
		{"transcription.model", cfg.Transcription.Model},
		{"transcription.refine_model", cfg.Transcription.RefineModel},
		{"transcription.language", cfg.Transcription.Language},
		{"transcription.task", cfg.Transcription.Task},
		{"transcription.chunk_seconds", strconv.FormatFloat(cfg.Transcription.ChunkSeconds, 'f', -1, 64)},
		{"transcription.temperature", strconv.FormatFloat(cfg.Transcription.Temperature, 'f', -1, 64)},
		{"translation.provider", cfg.Translation.Provider},
		{"translation.source_language", cfg.Translation.SourceLanguage},
		{"translation.temperature", strconv.FormatFloat(cfg.Translation.Temperature, 'f', -1, 64)},
		{"output.format", cfg.Output.Format},
		{"ffmpeg.ffmpeg_path", cfg.FFmpeg.FFmpegPath},
		{"ffmpeg.ffprobe_path", cfg.FFmpeg.FFprobePath},
	}
	for _, p := range provider.Providers() {
		creds := cfg.Credentials(p)
		rows = append(rows, []string{"providers." + string(p) + ".api_key", maskKey(creds.APIKey)})
		if creds.BaseURL != "" {
			rows = append(rows, []string{"providers." + string(p) + ".base_url", creds.BaseURL})
		}
		if creds.Model != "" {
			rows = append(rows, []string{"providers." + string(p) + ".model", creds.Model})
		}
	}
	return rows
}
