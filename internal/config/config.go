package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Practitioner is the identity block printed on every recipe and used for the
// WhatsApp contact QR target.
type Practitioner struct {
	Name        string `mapstructure:"PRACTITIONER_NAME"`
	ShortName   string `mapstructure:"PRACTITIONER_SHORT_NAME"`
	Specialty   string `mapstructure:"PRACTITIONER_SPECIALTY"`
	Credentials string `mapstructure:"PRACTITIONER_CREDENTIALS"`
	Address     string `mapstructure:"PRACTITIONER_ADDRESS"`
	Phones      []string
}

type Config struct {
	Port         string `mapstructure:"PORT"`
	Env          string `mapstructure:"ENV"`
	AccessCode   string `mapstructure:"ACCESS_CODE"`
	CountryCode  string `mapstructure:"COUNTRY_CODE"`
	GeminiAPIKey string `mapstructure:"GEMINI_API_KEY"`
	GeminiModel  string `mapstructure:"GEMINI_MODEL"`
	SnapshotPath string `mapstructure:"SNAPSHOT_PATH"`

	Practitioner Practitioner `mapstructure:",squash"`
}

// Load reads the environment plus an optional .env file. Defaults carry the
// consultorio's fixed identity so the binary runs with zero configuration.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("ACCESS_CODE", "831024")
	v.SetDefault("COUNTRY_CODE", "52")
	v.SetDefault("GEMINI_MODEL", "gemini-3-flash-preview")
	v.SetDefault("SNAPSHOT_PATH", "last_consultation.json")
	v.SetDefault("PRACTITIONER_NAME", "Dr. Modesto Morales Hoyos")
	v.SetDefault("PRACTITIONER_SHORT_NAME", "Dr. Morales")
	v.SetDefault("PRACTITIONER_SPECIALTY", "Médico Internista")
	v.SetDefault("PRACTITIONER_CREDENTIALS", "Universidad Veracruzana | Céd. Prof. 1219623 | Céd. Esp. 3352905")
	v.SetDefault("PRACTITIONER_ADDRESS", "Emiliano Zapata 13, Col. Centro, Rafael Lucio, Veracruz, C.P. 91315")
	v.SetDefault("PRACTITIONER_PHONES", "2288370103,2289546865")

	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("ACCESS_CODE")
	v.BindEnv("COUNTRY_CODE")
	v.BindEnv("GEMINI_API_KEY")
	v.BindEnv("GEMINI_MODEL")
	v.BindEnv("SNAPSHOT_PATH")
	v.BindEnv("PRACTITIONER_NAME")
	v.BindEnv("PRACTITIONER_SHORT_NAME")
	v.BindEnv("PRACTITIONER_SPECIALTY")
	v.BindEnv("PRACTITIONER_CREDENTIALS")
	v.BindEnv("PRACTITIONER_ADDRESS")
	v.BindEnv("PRACTITIONER_PHONES")

	// A missing .env is fine.
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.Practitioner.Phones = splitList(v.GetString("PRACTITIONER_PHONES"))

	if cfg.AccessCode == "" {
		return nil, fmt.Errorf("ACCESS_CODE must not be empty")
	}
	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
