// Package config loads and validates scraper configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures every knob of a scrape run, loaded via Viper from an
// optional file and BNW_* environment variables.
type Config struct {
	Site      SiteConfig      `mapstructure:"site"`
	Browser   BrowserConfig   `mapstructure:"browser"`
	Pacing    PacingConfig    `mapstructure:"pacing"`
	Challenge ChallengeConfig `mapstructure:"challenge"`
	Extract   ExtractConfig   `mapstructure:"extract"`
	Store     StoreConfig     `mapstructure:"store"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// SiteConfig identifies the roster site and its markup hooks.
type SiteConfig struct {
	BaseURL          string `mapstructure:"base_url"`
	ProfilePrefix    string `mapstructure:"profile_prefix"`
	LoadMoreSelector string `mapstructure:"load_more_selector"`
	BarFragment      string `mapstructure:"bar_fragment"`
	SettleSelector   string `mapstructure:"settle_selector"`
	SettleTimeoutSec int    `mapstructure:"settle_timeout_seconds"`
}

// BrowserConfig controls the headless browser collaborator.
type BrowserConfig struct {
	UserAgent       string  `mapstructure:"user_agent"`
	NavTimeoutSec   int     `mapstructure:"nav_timeout_seconds"`
	ClickTimeoutSec int     `mapstructure:"click_timeout_seconds"`
	NavQPS          float64 `mapstructure:"nav_qps"`
}

// PacingConfig governs politeness delays between requests.
type PacingConfig struct {
	JitterMinSec int `mapstructure:"jitter_min_seconds"`
	JitterMaxSec int `mapstructure:"jitter_max_seconds"`
	PageDelaySec int `mapstructure:"page_delay_seconds"`
	BurstEvery   int `mapstructure:"burst_every"`
	CooldownSec  int `mapstructure:"cooldown_seconds"`
}

// ChallengeConfig bounds the anti-bot wait-and-retry loop.
type ChallengeConfig struct {
	WaitSec         int      `mapstructure:"wait_seconds"`
	MaxRetries      int      `mapstructure:"max_retries"`
	Keywords        []string `mapstructure:"keywords"`
	MarkerSelectors []string `mapstructure:"marker_selectors"`
}

// ExtractConfig controls extraction-time normalization choices.
type ExtractConfig struct {
	ShiftBelowMinimum bool `mapstructure:"shift_below_minimum"`
}

// StoreConfig names the raw and derived output files.
type StoreConfig struct {
	RawFile         string `mapstructure:"raw_file"`
	PercentilesFile string `mapstructure:"percentiles_file"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("BNW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("site.base_url", "https://baseballnorthwest.com")
	v.SetDefault("site.profile_prefix", "/profiles/")
	v.SetDefault("site.load_more_selector", "//button[contains(., 'Load More')]")
	v.SetDefault("site.bar_fragment", "#player-bar-year")
	v.SetDefault("site.settle_selector", "#player-bar-year div.stat-item")
	v.SetDefault("site.settle_timeout_seconds", 3)
	v.SetDefault("browser.user_agent", "bnw-scrapie/1.0")
	v.SetDefault("browser.nav_timeout_seconds", 45)
	v.SetDefault("browser.click_timeout_seconds", 5)
	v.SetDefault("browser.nav_qps", 0.0)
	v.SetDefault("pacing.jitter_min_seconds", 2)
	v.SetDefault("pacing.jitter_max_seconds", 10)
	v.SetDefault("pacing.page_delay_seconds", 1)
	v.SetDefault("pacing.burst_every", 40)
	v.SetDefault("pacing.cooldown_seconds", 120)
	v.SetDefault("challenge.wait_seconds", 60)
	v.SetDefault("challenge.max_retries", 2)
	v.SetDefault("challenge.keywords", []string{"Attention Required!", "cf-error-details"})
	v.SetDefault("challenge.marker_selectors", []string{})
	v.SetDefault("extract.shift_below_minimum", false)
	v.SetDefault("store.raw_file", "bnw_bar_raw.csv")
	v.SetDefault("store.percentiles_file", "bnw_bar_percentiles.csv")
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Site.BaseURL == "" {
		return fmt.Errorf("site.base_url must be set")
	}
	if c.Site.ProfilePrefix == "" {
		return fmt.Errorf("site.profile_prefix must be set")
	}
	if c.Browser.NavTimeoutSec <= 0 {
		return fmt.Errorf("browser.nav_timeout_seconds must be > 0")
	}
	if c.Pacing.JitterMinSec < 0 || c.Pacing.JitterMaxSec < c.Pacing.JitterMinSec {
		return fmt.Errorf("pacing jitter range must satisfy 0 <= min <= max")
	}
	if c.Pacing.BurstEvery < 0 {
		return fmt.Errorf("pacing.burst_every must be >= 0")
	}
	if c.Challenge.MaxRetries < 0 {
		return fmt.Errorf("challenge.max_retries must be >= 0")
	}
	if c.Store.RawFile == "" {
		return fmt.Errorf("store.raw_file must be set")
	}
	if c.Store.PercentilesFile == "" {
		return fmt.Errorf("store.percentiles_file must be set")
	}
	return nil
}

// NavTimeout returns the navigation budget as a duration.
func (c Config) NavTimeout() time.Duration {
	return time.Duration(c.Browser.NavTimeoutSec) * time.Second
}

// ClickTimeout returns the click budget as a duration.
func (c Config) ClickTimeout() time.Duration {
	return time.Duration(c.Browser.ClickTimeoutSec) * time.Second
}
