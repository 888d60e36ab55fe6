package config

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Sort modes accepted by --sort.
const (
	SortLexical = "lexical"
	SortNumeric = "numeric"
)

// Config holds all run configuration. Load fills it from defaults, .env and
// SCRAPER_* environment variables; the CLI then overrides it with flags.
type Config struct {
	Website    string
	DriverPath string
	Filename   string

	InitialSleepSec  int
	ScrollSleepSec   int
	MaxScrolls       int
	ScrollTimeoutSec int
	PageTimeoutSec   int
	MaxRetries       int

	MinPriceRatio float64
	SortMode      string
	Headless      bool
	LogLevel      string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[config] could not read .env: %v", err)
	}

	return &Config{
		Website:    getEnv("SCRAPER_WEBSITE", ""),
		DriverPath: getEnv("SCRAPER_DRIVER_PATH", getEnv("CHROME_BIN", DefaultDriverPath())),
		Filename:   getEnv("SCRAPER_FILENAME", "products.csv"),

		InitialSleepSec:  getEnvInt("SCRAPER_INITIAL_SLEEP", 10),
		ScrollSleepSec:   getEnvInt("SCRAPER_SCROLL_SLEEP", 5),
		MaxScrolls:       getEnvInt("SCRAPER_MAX_SCROLLS", 50),
		ScrollTimeoutSec: getEnvInt("SCRAPER_SCROLL_TIMEOUT", 600),
		PageTimeoutSec:   getEnvInt("SCRAPER_PAGE_TIMEOUT", 120),
		MaxRetries:       getEnvInt("SCRAPER_MAX_RETRIES", 3),

		MinPriceRatio: getEnvFloat("SCRAPER_MIN_PRICE_RATIO", 0),
		SortMode:      getEnv("SCRAPER_SORT", SortLexical),
		Headless:      getEnvBool("SCRAPER_HEADLESS", true),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
	}
}

// Validate checks the values that the pipeline depends on.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Website) == "" {
		return fmt.Errorf("config: --website is required (one of: %s)", strings.Join(SiteKeys(), ", "))
	}
	if _, err := LookupSite(c.Website); err != nil {
		return err
	}
	if strings.TrimSpace(c.Filename) == "" {
		return fmt.Errorf("config: --filename must not be empty")
	}
	if c.InitialSleepSec <= 0 {
		return fmt.Errorf("config: --initial_sleep must be > 0, got %d", c.InitialSleepSec)
	}
	if c.ScrollSleepSec <= 0 {
		return fmt.Errorf("config: --scroll_sleep must be > 0, got %d", c.ScrollSleepSec)
	}
	if c.MaxScrolls <= 0 {
		return fmt.Errorf("config: --max_scrolls must be > 0, got %d", c.MaxScrolls)
	}
	if c.ScrollTimeoutSec <= 0 {
		return fmt.Errorf("config: --scroll_timeout must be > 0, got %d", c.ScrollTimeoutSec)
	}
	if c.PageTimeoutSec <= 0 {
		return fmt.Errorf("config: --page_timeout must be > 0, got %d", c.PageTimeoutSec)
	}
	if c.MaxRetries <= 0 {
		return fmt.Errorf("config: --max_retries must be > 0, got %d", c.MaxRetries)
	}
	if c.MinPriceRatio < 0 {
		return fmt.Errorf("config: --min_price_ratio must be >= 0, got %g", c.MinPriceRatio)
	}
	switch c.SortMode {
	case SortLexical, SortNumeric:
	default:
		return fmt.Errorf("config: unknown --sort %q (want %s or %s)", c.SortMode, SortLexical, SortNumeric)
	}
	return nil
}

func (c *Config) InitialSleep() time.Duration {
	return time.Duration(c.InitialSleepSec) * time.Second
}

func (c *Config) ScrollSleep() time.Duration {
	return time.Duration(c.ScrollSleepSec) * time.Second
}

func (c *Config) ScrollTimeout() time.Duration {
	return time.Duration(c.ScrollTimeoutSec) * time.Second
}

func (c *Config) PageTimeout() time.Duration {
	return time.Duration(c.PageTimeoutSec) * time.Second
}

// DefaultDriverPath returns the platform's usual Chrome location, or "" to let
// chromedp search $PATH itself.
func DefaultDriverPath() string {
	switch runtime.GOOS {
	case "darwin":
		return "/Applications/Google Chrome.app/Contents/MacOS/Google Chrome"
	case "windows":
		return `C:\Program Files\Google\Chrome\Application\chrome.exe`
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		f, err := strconv.ParseFloat(val, 64)
		if err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}
