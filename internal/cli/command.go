package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/apex/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/snonux/deeptranslate/internal"
)

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "deeptranslate",
		Short: "Text and image translator with glossary support",
		Long: `deeptranslate translates typed text or the text found in an image
into Chinese or English using an OpenAI-compatible chat API (DeepSeek by
default), optionally applying a glossary of term substitutions.

The API key is read from DEEPTRANSLATE_API_KEY or DEEPSEEK_API_KEY (also
from a .env file) or typed into the GUI. It is never written to disk.

Examples:
  deeptranslate                                   # Launch interactive GUI (default)
  deeptranslate --text "hello world"              # Translate to Chinese
  deeptranslate --image scan.png --target en      # OCR an image, translate to English
  deeptranslate --text "..." --glossary terms.txt # Apply a glossary
  deeptranslate --history 20                      # Show recent translations`,
		Args:          cobra.NoArgs,
		Version:       internal.Version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	// Set up flags
	setupFlags(rootCmd, flags)

	return rootCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	// Global flags
	cmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.deeptranslate.yaml)")
	cmd.PersistentFlags().StringVar(&flags.LogLevel, "log-level", flags.LogLevel, "Log level: debug, info, warn, error")

	// Headless translation
	cmd.Flags().StringVarP(&flags.Text, "text", "t", "", "Translate this text instead of launching the GUI")
	cmd.Flags().StringVarP(&flags.ImagePath, "image", "i", "", "Translate the text found in this PNG/JPEG image")
	cmd.Flags().StringVar(&flags.Target, "target", flags.Target, "Target language: zh or en")
	cmd.Flags().StringVarP(&flags.GlossaryFile, "glossary", "g", "", "Glossary file (one substitution rule per line)")
	cmd.Flags().StringVarP(&flags.OutputFile, "output", "o", "", "Write the translation to this file instead of stdout")

	// Backends
	cmd.Flags().StringVar(&flags.Model, "model", flags.Model, "Chat model used for translation")
	cmd.Flags().StringVar(&flags.OCREngine, "ocr-engine", flags.OCREngine, "OCR engine: tesseract, vision or gemini")
	cmd.Flags().BoolVar(&flags.ListModels, "list-models", false, "List models available at the configured endpoint")

	// History
	cmd.Flags().IntVar(&flags.History, "history", 0, "Show the N most recent translations")
	cmd.Flags().BoolVar(&flags.ArchiveHistory, "archive-history", false, "Move the history database into the archive directory")
	cmd.Flags().BoolVar(&flags.NoHistory, "no-history", false, "Do not record translations in the history")

	// Bind flags to viper
	bindFlagsToViper(cmd)
}

func bindFlagsToViper(cmd *cobra.Command) {
	viper.BindPFlag("api.model", cmd.Flags().Lookup("model"))
	viper.BindPFlag("ocr.engine", cmd.Flags().Lookup("ocr-engine"))
	viper.BindPFlag("log.level", cmd.PersistentFlags().Lookup("log-level"))
}

// setDefaults registers defaults for keys without a flag
func setDefaults() {
	viper.SetDefault("api.base_url", "https://api.deepseek.com")
	viper.SetDefault("api.timeout", "120s")
	viper.SetDefault("api.breaker_failures", 5)
	viper.SetDefault("ocr.language", "")
	viper.SetDefault("ocr.vision_base_url", "https://api.openai.com/v1")
	viper.SetDefault("ocr.vision_model", "gpt-4o-mini")
	viper.SetDefault("ocr.gemini_model", "gemini-2.5-flash")
	viper.SetDefault("history.enabled", true)
	viper.SetDefault("history.path", "")
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	setDefaults()

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			log.WithError(err).Warn("cannot determine home directory")
			return
		}

		// Search config in home directory with name ".deeptranslate" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".deeptranslate")
	}

	// Environment variables
	viper.SetEnvPrefix("DEEPTRANSLATE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err == nil {
		log.WithField("file", viper.ConfigFileUsed()).Info("using config file")
	}
}

// LoadDotEnv loads a .env file from the working directory or from the
// executable's directory. Variables already set are not overridden.
func LoadDotEnv() {
	envPaths := []string{".env"}

	if execPath, err := os.Executable(); err == nil {
		envPaths = append(envPaths, filepath.Join(filepath.Dir(execPath), ".env"))
	}

	for _, envPath := range envPaths {
		if _, err := os.Stat(envPath); err == nil {
			if err := godotenv.Load(envPath); err != nil {
				log.WithError(err).WithField("file", envPath).Warn("failed to load .env file")
			}
			return
		}
	}
}

// GetAPIKey retrieves the translation API key from the environment. The
// key is deliberately not read from the config file.
func GetAPIKey() string {
	for _, name := range []string{"DEEPTRANSLATE_API_KEY", "DEEPSEEK_API_KEY"} {
		if key := os.Getenv(name); key != "" {
			return key
		}
	}
	return ""
}

// GetOpenAIKey retrieves the key for the vision OCR engine
func GetOpenAIKey() string {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}
	return GetAPIKey()
}

// GetGeminiKey retrieves the key for the Gemini OCR engine
func GetGeminiKey() string {
	for _, name := range []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"} {
		if key := os.Getenv(name); key != "" {
			return key
		}
	}
	return ""
}
