// Package config loads the flat process configuration from the environment.
// All values are read once at startup; there is no runtime reconfiguration.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds every tunable the process needs, loaded from environment
// variables (optionally seeded from a .env file).
type Config struct {
	// Wakeup
	AttentionWord string `env:"ATTENTION_WORD" envDefault:"hello tj"`

	// Speech to Text
	STTUsername string `env:"STT_USERNAME"`
	STTPassword string `env:"STT_PASSWORD"`
	STTModel    string `env:"STT_MODEL" envDefault:"en-US_BroadbandModel"`

	// Visual Recognition
	VRAPIKey     string `env:"VR_API_KEY"`
	ClassifierID string `env:"VR_CLASSIFIER_ID"`

	// Tone Analyzer
	ToneUsername string `env:"TONE_USERNAME"`
	TonePassword string `env:"TONE_PASSWORD"`

	// Conversation
	ConversationUsername string `env:"CONVERSATION_USERNAME"`
	ConversationPassword string `env:"CONVERSATION_PASSWORD"`
	WorkspaceID          string `env:"CONVERSATION_WORKSPACE_ID"`

	// Text to Speech
	TTSUsername string `env:"TTS_USERNAME"`
	TTSPassword string `env:"TTS_PASSWORD"`
	Voice       string `env:"TTS_VOICE" envDefault:"en-US_MichaelVoice"`

	// Audio
	MicDevice     string `env:"MIC_DEVICE" envDefault:"default"`
	SampleRate    int    `env:"MIC_SAMPLE_RATE" envDefault:"16000"`
	AudioOutPath  string `env:"AUDIO_OUT_PATH" envDefault:"output.wav"`
	PlayerCommand string `env:"PLAYER_COMMAND" envDefault:"aplay"`

	// Camera
	CameraDevice  int    `env:"CAMERA_DEVICE" envDefault:"0"`
	CameraWidth   int    `env:"CAMERA_WIDTH" envDefault:"320"`
	CameraHeight  int    `env:"CAMERA_HEIGHT" envDefault:"240"`
	CameraQuality int    `env:"CAMERA_QUALITY" envDefault:"20"`
	ImageDir      string `env:"IMAGE_DIR" envDefault:"/tmp/tjbot"`

	// Observability
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load reads the .env file (if present) and parses the environment.
func Load() (Config, error) {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse environment: %w", err)
	}
	return cfg, nil
}

// Validate checks that every credential pair required at runtime is present.
func (c Config) Validate() error {
	var missing []string
	if c.AttentionWord == "" {
		missing = append(missing, "ATTENTION_WORD")
	}
	if c.STTUsername == "" || c.STTPassword == "" {
		missing = append(missing, "STT_USERNAME/STT_PASSWORD")
	}
	if c.VRAPIKey == "" {
		missing = append(missing, "VR_API_KEY")
	}
	if c.ClassifierID == "" {
		missing = append(missing, "VR_CLASSIFIER_ID")
	}
	if c.ToneUsername == "" || c.TonePassword == "" {
		missing = append(missing, "TONE_USERNAME/TONE_PASSWORD")
	}
	if c.ConversationUsername == "" || c.ConversationPassword == "" {
		missing = append(missing, "CONVERSATION_USERNAME/CONVERSATION_PASSWORD")
	}
	if c.WorkspaceID == "" {
		missing = append(missing, "CONVERSATION_WORKSPACE_ID")
	}
	if c.TTSUsername == "" || c.TTSPassword == "" {
		missing = append(missing, "TTS_USERNAME/TTS_PASSWORD")
	}
	if len(missing) > 0 {
		return errors.New("config: missing required settings: " + strings.Join(missing, ", "))
	}
	return nil
}

