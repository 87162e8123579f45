// Package main provides the entry point for the speech CLI.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dgnsrekt/offline-speech/internal/config"
	"github.com/dgnsrekt/offline-speech/internal/result"
	"github.com/dgnsrekt/offline-speech/internal/speech"
	"github.com/dgnsrekt/offline-speech/internal/stt/vosk"
)

const appName = "offline-speech"

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	configFile        string
	defaultConfigFile string
	outputFormat      string
	debug             bool

	cfg config.Config

	// errFailed marks a command whose failure was already reported.
	errFailed = errors.New("operation failed")

	rootCmd = &cobra.Command{
		Use:   "speech",
		Short: "Offline text-to-speech and speech-to-text",
		Long: paragraph(
			fmt.Sprintf("\nSpeak text and transcribe audio %s, through espeak-ng, piper and vosk.", keyword("offline")),
		),
		SilenceErrors:    true,
		SilenceUsage:     true,
		TraverseChildren: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return validateOptions(cmd)
		},
	}
)

func validateOptions(cmd *cobra.Command) error {
	if cmd.Flags().Changed("config") {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("unable to read config file: %w", err)
		}
	}

	loaded, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}
	cfg = loaded

	if debug || viper.GetBool("debug") {
		log.SetLevel(log.DebugLevel)
	} else {
		vosk.SetLogLevel(-1)
	}
	return nil
}

func newService() (*speech.Service, error) {
	svc, err := speech.New(cfg, speech.Options{Logger: log.Default()})
	if err != nil {
		return nil, fmt.Errorf("unable to set up speech service: %w", err)
	}
	return svc, nil
}

// writeRecord prints rec in the configured format. JSON is always written
// to stdout; text failures go to stderr and fail the command.
func writeRecord(cmd *cobra.Command, rec result.Record) error {
	format, err := result.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}
	if format == result.FormatText && !rec.Success {
		_ = result.Write(cmd.ErrOrStderr(), rec, format)
		return errFailed
	}
	return result.Write(cmd.OutOrStdout(), rec, format)
}

func main() {
	closer, err := setupLog()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		_ = closer()
		os.Exit(1)
	}
	_ = closer()
}

func init() {
	tryLoadConfigFromDefaultPlaces()
	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		Version = "unknown (built from source)"
	}
	rootCmd.Version = Version
	rootCmd.InitDefaultCompletionCmd()

	rootCmd.PersistentFlags().StringVar(&configFile, "config", defaultConfigFile, "config file")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "F", "json", "output format: json or text")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	_ = viper.BindPFlag("format", rootCmd.PersistentFlags().Lookup("format"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))

	config.SetDefaults(viper.GetViper())

	rootCmd.AddCommand(speakCmd, transcribeCmd, voicesCmd, checkCmd, configCmd, manCmd)
}

func configDirs() ([]string, error) {
	scope := gap.NewScope(gap.User, appName)
	dirs, err := scope.ConfigDirs()
	if err != nil {
		return nil, err
	}

	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, appName)}, dirs...)
	}

	if c := os.Getenv("SPEECH_CONFIG_HOME"); c != "" {
		dirs = append([]string{c}, dirs...)
	}
	return dirs, nil
}

func tryLoadConfigFromDefaultPlaces() {
	dirs, err := configDirs()
	if err != nil {
		fmt.Println("Could not find configuration directory.")
		os.Exit(1)
	}

	for _, v := range dirs {
		viper.AddConfigPath(v)
	}

	viper.SetConfigName("speech")
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("speech")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Warn("Could not parse configuration file", "err", err)
		}
	}

	if used := viper.ConfigFileUsed(); used != "" {
		log.Debug("Using configuration file", "path", used)
		defaultConfigFile = used
		return
	}

	defaultConfigFile = filepath.Join(dirs[0], "speech.yml")
	if err := ensureConfigFile(defaultConfigFile); err != nil {
		log.Error("Could not create default configuration", "error", err)
	}
}
