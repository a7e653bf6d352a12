package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gopkg.in/ini.v1"

	"github.com/Davis1233798/proxy-demos-go/internal/proxy"
	"github.com/Davis1233798/proxy-demos-go/pkg/fingerprint"
)

// DefaultProfilePath is read when no -config flag is given.
const DefaultProfilePath = "demos.ini"

// Env holds secrets and process settings taken from the environment.
// Nothing here is interpreted beyond presence checks.
type Env struct {
	CustomerID string

	DatacenterZone      string
	DatacenterPassword  string
	ResidentialZone     string
	ResidentialPassword string
	UnlockerZone        string
	UnlockerPassword    string
	BrowserZone         string
	BrowserPassword     string

	SerpToken string
	SerpZone  string

	DiscordWebhookURL string
	MetricsPort       int
	LogLevel          string
}

// Config is the environment plus the demo profiles from the ini file.
type Config struct {
	Env  Env
	file *ini.File
}

// Load reads .env (if present), the environment and the profile file at
// path. A missing profile file is not an error; defaults apply.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using environment variables")
	}

	f, err := loadProfiles(path)
	if err != nil {
		return nil, err
	}
	return &Config{Env: ReadEnv(), file: f}, nil
}

func loadProfiles(path string) (*ini.File, error) {
	if path == "" {
		return ini.Empty(), nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		log.Debug().Str("path", path).Msg("profile file not found, using defaults")
		return ini.Empty(), nil
	}
	f, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load profiles %s: %w", path, err)
	}
	return f, nil
}

// ReadEnv reads the process environment only.
func ReadEnv() Env {
	return Env{
		CustomerID:          getEnv("BRIGHTDATA_CUSTOMER_ID", ""),
		DatacenterZone:      getEnv("DATACENTER_ZONE", ""),
		DatacenterPassword:  getEnv("DATACENTER_PASSWORD", ""),
		ResidentialZone:     getEnv("RESIDENTIAL_ZONE", ""),
		ResidentialPassword: getEnv("RESIDENTIAL_PASSWORD", ""),
		UnlockerZone:        getEnv("WEB_UNLOCKER_ZONE", ""),
		UnlockerPassword:    getEnv("WEB_UNLOCKER_PASSWORD", ""),
		BrowserZone:         getEnv("SCRAPING_BROWSER_ZONE", ""),
		BrowserPassword:     getEnv("SCRAPING_BROWSER_PASSWORD", ""),
		SerpToken:           getEnv("SERP_API_TOKEN", ""),
		SerpZone:            getEnv("SERP_API_ZONE", "serp"),
		DiscordWebhookURL:   getEnv("DISCORD_WEBHOOK_URL", ""),
		MetricsPort:         getEnvAsInt("METRICS_PORT", 0),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
	}
}

func (e Env) datacenter() proxy.Credentials {
	return proxy.Credentials{CustomerID: e.CustomerID, Zone: e.DatacenterZone, Password: e.DatacenterPassword}
}

func (e Env) residential() proxy.Credentials {
	return proxy.Credentials{CustomerID: e.CustomerID, Zone: e.ResidentialZone, Password: e.ResidentialPassword}
}

func (e Env) unlocker() proxy.Credentials {
	return proxy.Credentials{CustomerID: e.CustomerID, Zone: e.UnlockerZone, Password: e.UnlockerPassword}
}

func (e Env) scrapingBrowser(country string) proxy.Credentials {
	return proxy.Credentials{CustomerID: e.CustomerID, Zone: e.BrowserZone, Password: e.BrowserPassword, Country: country}
}

// section returns the named profile section, or an empty one.
func (c *Config) section(name string) *ini.Section {
	return c.file.Section(name)
}

func millis(sec *ini.Section, key string, def int) time.Duration {
	return time.Duration(sec.Key(key).MustInt(def)) * time.Millisecond
}

// cookies returns the [<profile>.cookies] section in file order, or def.
func (c *Config) cookies(profile string, def []fingerprint.Cookie) []fingerprint.Cookie {
	sec, err := c.file.GetSection(profile + ".cookies")
	if err != nil || len(sec.Keys()) == 0 {
		return def
	}
	out := make([]fingerprint.Cookie, 0, len(sec.Keys()))
	for _, k := range sec.Keys() {
		out = append(out, fingerprint.Cookie{Name: k.Name(), Value: k.Value()})
	}
	return out
}

// Helper functions
func getEnv(key string, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultVal
}
