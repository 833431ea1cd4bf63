package cli

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"codeberg.org/snonux/deeptranslate/internal/history"
	"codeberg.org/snonux/deeptranslate/internal/ocr"
	"codeberg.org/snonux/deeptranslate/internal/translation"
)

// Settings is the resolved configuration of a run
type Settings struct {
	Translation *translation.Config
	OCR         *ocr.Config

	HistoryEnabled bool
	HistoryPath    string

	LogLevel string
}

// LoadSettings builds Settings from viper and the flags
func LoadSettings(flags *Flags) (*Settings, error) {
	setDefaults()

	timeout, err := time.ParseDuration(viper.GetString("api.timeout"))
	if err != nil {
		return nil, configError("api.timeout", err)
	}

	failures := viper.GetInt("api.breaker_failures")
	if failures < 1 {
		return nil, configError("api.breaker_failures", fmt.Errorf("must be at least 1, got %d", failures))
	}

	historyPath := viper.GetString("history.path")
	if historyPath == "" {
		historyPath = history.DefaultPath()
	}

	return &Settings{
		Translation: &translation.Config{
			BaseURL:         viper.GetString("api.base_url"),
			Model:           viper.GetString("api.model"),
			Timeout:         timeout,
			BreakerFailures: uint32(failures),
		},
		OCR: &ocr.Config{
			Engine:        viper.GetString("ocr.engine"),
			Language:      viper.GetString("ocr.language"),
			VisionBaseURL: viper.GetString("ocr.vision_base_url"),
			VisionModel:   viper.GetString("ocr.vision_model"),
			VisionAPIKey:  GetOpenAIKey(),
			GeminiModel:   viper.GetString("ocr.gemini_model"),
			GeminiAPIKey:  GetGeminiKey(),
		},
		HistoryEnabled: viper.GetBool("history.enabled") && !flags.NoHistory,
		HistoryPath:    historyPath,
		LogLevel:       viper.GetString("log.level"),
	}, nil
}

func configError(key string, err error) error {
	return fmt.Errorf("invalid configuration %s: %w", key, err)
}
