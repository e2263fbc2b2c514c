package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const envPrefix = "SER"

// ASR providers understood by services.asr.provider.
const (
	ProviderHTTP   = "http"
	ProviderOpenAI = "openai"
)

type Service struct {
	URL     string `yaml:"url" mapstructure:"url"`
	Timeout int    `yaml:"timeout" mapstructure:"timeout"` // seconds
}

type ASR struct {
	Service  `yaml:",inline" mapstructure:",squash"`
	Provider string `yaml:"provider" mapstructure:"provider"`
	Model    string `yaml:"model" mapstructure:"model"`
	Language string `yaml:"language" mapstructure:"language"`
	APIKey   string `yaml:"api_key" mapstructure:"api_key"`
	BaseURL  string `yaml:"base_url" mapstructure:"base_url"`
}

type Emotion struct {
	Service `yaml:",inline" mapstructure:",squash"`
	TopK    int `yaml:"top_k" mapstructure:"top_k"`
}

type Services struct {
	ASR     ASR     `yaml:"asr" mapstructure:"asr"`
	Emotion Emotion `yaml:"emotion" mapstructure:"emotion"`
}

type Audio struct {
	SampleRate int      `yaml:"sample_rate" mapstructure:"sample_rate"`
	Channels   int      `yaml:"channels" mapstructure:"channels"`
	Codec      string   `yaml:"codec" mapstructure:"codec"`
	FFmpeg     string   `yaml:"ffmpeg" mapstructure:"ffmpeg"`
	Extensions []string `yaml:"extensions" mapstructure:"extensions"`
}

type Server struct {
	Addr            string `yaml:"addr" mapstructure:"addr"`
	MaxUploadMB     int64  `yaml:"max_upload_mb" mapstructure:"max_upload_mb"`
	ReadTimeout     int    `yaml:"read_timeout" mapstructure:"read_timeout"`
	ShutdownTimeout int    `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
}

type Features struct {
	DetectLanguage bool `yaml:"detect_language" mapstructure:"detect_language"`
}

type Paths struct {
	Uploads     string `yaml:"uploads" mapstructure:"uploads"`
	Outputs     string `yaml:"outputs" mapstructure:"outputs"`
	KeepUploads bool   `yaml:"keep_uploads" mapstructure:"keep_uploads"`
}

type Root struct {
	Pipeline struct {
		Name      string `yaml:"name" mapstructure:"name"`
		Version   string `yaml:"version" mapstructure:"version"`
		LogLvl    string `yaml:"log_level" mapstructure:"log_level"`
		LogFormat string `yaml:"log_format" mapstructure:"log_format"`
	} `yaml:"pipeline" mapstructure:"pipeline"`
	Server   Server   `yaml:"server" mapstructure:"server"`
	Audio    Audio    `yaml:"audio" mapstructure:"audio"`
	Services Services `yaml:"services" mapstructure:"services"`
	Features Features `yaml:"features" mapstructure:"features"`
	Paths    Paths    `yaml:"paths" mapstructure:"paths"`
}

// flagKeys maps command line flag names onto config keys.
var flagKeys = map[string]string{
	"addr":      "server.addr",
	"log-level": "pipeline.log_level",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("pipeline.name", "speech-emotion")
	v.SetDefault("pipeline.version", "0.1.0")
	v.SetDefault("pipeline.log_level", "info")
	v.SetDefault("pipeline.log_format", "text")

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.max_upload_mb", 100)
	v.SetDefault("server.read_timeout", 300)
	v.SetDefault("server.shutdown_timeout", 10)

	v.SetDefault("audio.sample_rate", 16000)
	v.SetDefault("audio.channels", 1)
	v.SetDefault("audio.codec", "pcm_s16le")
	v.SetDefault("audio.ffmpeg", "ffmpeg")
	v.SetDefault("audio.extensions", []string{"mp3", "m4a", "mp4", "wav"})

	v.SetDefault("services.asr.url", "http://localhost:9000")
	v.SetDefault("services.asr.timeout", 300)
	v.SetDefault("services.asr.provider", ProviderHTTP)
	v.SetDefault("services.asr.model", "whisper-1")
	v.SetDefault("services.asr.language", "")
	v.SetDefault("services.asr.api_key", "")
	v.SetDefault("services.asr.base_url", "")
	v.SetDefault("services.emotion.url", "http://localhost:9001")
	v.SetDefault("services.emotion.timeout", 60)
	v.SetDefault("services.emotion.top_k", 1)

	v.SetDefault("features.detect_language", false)

	v.SetDefault("paths.uploads", "uploads")
	v.SetDefault("paths.outputs", "")
	v.SetDefault("paths.keep_uploads", false)
}

// guessPaths lists the config files tried when no explicit path is given.
func guessPaths() []string {
	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	return []string{
		filepath.Join("config", env, "config.yaml"),
		filepath.Join("src", "shared", "config.yaml"),
	}
}

// Load resolves the configuration from defaults, the config file, SER_*
// environment variables and flags, in increasing order of precedence.
// flags may be nil.
func Load(path string, flags *pflag.FlagSet) (*Root, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		for _, p := range guessPaths() {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, err
				}
			}
		}
	}

	var cfg Root
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	for i, ext := range cfg.Audio.Extensions {
		cfg.Audio.Extensions[i] = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
	}
	return &cfg, nil
}

func (r *Root) Validate() error {
	var errs []error
	switch r.Services.ASR.Provider {
	case ProviderHTTP:
		if r.Services.ASR.URL == "" {
			errs = append(errs, errors.New("services.asr.url is required"))
		}
	case ProviderOpenAI:
		if r.Services.ASR.APIKey == "" && os.Getenv("OPENAI_API_KEY") == "" {
			errs = append(errs, errors.New("services.asr.api_key (or OPENAI_API_KEY) is required for the openai provider"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown services.asr.provider %q", r.Services.ASR.Provider))
	}
	if r.Services.Emotion.URL == "" {
		errs = append(errs, errors.New("services.emotion.url is required"))
	}
	if len(r.Audio.Extensions) == 0 {
		errs = append(errs, errors.New("audio.extensions must not be empty"))
	}
	if r.Paths.Uploads == "" {
		errs = append(errs, errors.New("paths.uploads is required"))
	}
	return errors.Join(errs...)
}

// YAML renders the effective configuration, api keys redacted.
func (r *Root) YAML() ([]byte, error) {
	c := *r
	if c.Services.ASR.APIKey != "" {
		c.Services.ASR.APIKey = "***"
	}
	return yaml.Marshal(&c)
}

func DurSeconds(n int) time.Duration { return time.Duration(n) * time.Second }
