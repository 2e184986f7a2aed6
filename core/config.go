package core

import (
	"net/mail"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type (
	Config struct {
		Debug    bool
		TestMode bool
		Env      string // DEV (default), TEST, QA, PROD
		Build    string

		AppName          string
		SecretKey        []byte
		FrontendBaseURL  string
		DefaultFromEmail mail.Address
		SendgridAPIKey   string
		RollbarToken     string

		Server   ServerConfig
		Database DatabaseConfig
		Google   GoogleConfig
	}

	ServerConfig struct {
		Host               string
		Addr               string
		JWTExpirationDelta time.Duration
	}

	DatabaseConfig struct {
		URI  string
		Name string
	}

	GoogleConfig struct {
		ClientID     string
		ClientSecret string
		RedirectURL  string

		// overridable in tests; empty values fall back to Google's endpoints
		AuthURL     string
		TokenURL    string
		UserInfoURL string
	}
)

func (c GoogleConfig) Enabled() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

// NewConfig loads the app configuration from defaults, an optional .env file
// and environment variables (in increasing order of precedence).
func NewConfig() (*Config, error) {
	v := viper.New()
	v.SetTypeByDefaultValue(true)

	// defaults
	v.SetDefault("debug", true)
	v.SetDefault("appName", "Darasa")
	v.SetDefault("secretKey", "w3lp$x(h!u#8f_sdj2m&ze+57=dz9uoxh2qh4y^$cegm2emy")
	v.SetDefault("frontendBaseURL", "http://localhost:5173")
	v.SetDefault("defaultFromEmail", "noreply@localhost")
	v.SetDefault("jwtExpirationDelta", 7*24*time.Hour)
	v.SetDefault("serverHost", "localhost")
	v.SetDefault("serverAddr", ":8000")
	v.SetDefault("databaseURI", "mongodb://localhost:27017")
	v.SetDefault("databaseName", "darasa")

	env := os.Getenv("ENV")
	if env == "" {
		env = "DEV"
	}
	if strings.EqualFold(env, "TEST") {
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, errors.Wrap(err, "config.godotenv")
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrap(err, "config.os.Stat(.env)")
	}
	v.AutomaticEnv()

	conf := &Config{
		Debug:            v.GetBool("debug"),
		TestMode:         v.GetBool("testMode"),
		Env:              strings.ToUpper(env),
		Build:            v.GetString("build"),
		AppName:          v.GetString("appName"),
		SecretKey:        []byte(v.GetString("secretKey")),
		FrontendBaseURL:  v.GetString("frontendBaseURL"),
		DefaultFromEmail: mail.Address{Name: v.GetString("appName"), Address: v.GetString("defaultFromEmail")},
		SendgridAPIKey:   v.GetString("sendgridAPIKey"),
		RollbarToken:     v.GetString("rollbarToken"),
		Server: ServerConfig{
			Host:               v.GetString("serverHost"),
			Addr:               v.GetString("serverAddr"),
			JWTExpirationDelta: v.GetDuration("jwtExpirationDelta"),
		},
		Database: DatabaseConfig{
			URI:  v.GetString("databaseURI"),
			Name: v.GetString("databaseName"),
		},
		Google: GoogleConfig{
			ClientID:     v.GetString("googleClientID"),
			ClientSecret: v.GetString("googleClientSecret"),
			RedirectURL:  v.GetString("googleRedirectURL"),
		},
	}
	return conf, nil
}
