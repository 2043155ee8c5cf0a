package config

import (
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath = "/etc/feedbox"
	ConfigFileName    = "feedbox.yml"
)

// FeedboxConfig holds the tunable settings of the feedback service.
type FeedboxConfig struct {
	// AllowedOrigins lists the dashboard origins allowed by CORS. "*" allows any origin.
	AllowedOrigins []string `yaml:"allowed_origins" json:"allowed_origins"`

	// ListLimitMax is the largest page size accepted by list endpoints
	ListLimitMax int `yaml:"list_limit_max" json:"list_limit_max"`

	// ListLimitDefault is the page size used when a request gives none
	ListLimitDefault int `yaml:"list_limit_default" json:"list_limit_default"`

	// TokenTTL is the lifetime of bearer tokens in seconds
	TokenTTL int `yaml:"token_ttl" json:"token_ttl"`

	// BcryptCost is the work factor for password hashes
	BcryptCost int `yaml:"bcrypt_cost" json:"bcrypt_cost"`

	// RatingMin and RatingMax optionally bound the rating of a submitted
	// record (inclusive). Nil leaves that side open.
	RatingMin *float64 `yaml:"rating_min" json:"rating_min"`
	RatingMax *float64 `yaml:"rating_max" json:"rating_max"`

	// MaxBodyBytes caps the size of request bodies
	MaxBodyBytes int64 `yaml:"max_body_bytes" json:"max_body_bytes"`

	sources        map[string]string
	configFilePath string
}

// fileConfig mirrors FeedboxConfig with optional fields so that explicit zero
// values in the file are distinguishable from absent keys.
type fileConfig struct {
	AllowedOrigins   []string `yaml:"allowed_origins"`
	ListLimitMax     *int     `yaml:"list_limit_max"`
	ListLimitDefault *int     `yaml:"list_limit_default"`
	TokenTTL         *int     `yaml:"token_ttl"`
	BcryptCost       *int     `yaml:"bcrypt_cost"`
	RatingMin        *float64 `yaml:"rating_min"`
	RatingMax        *float64 `yaml:"rating_max"`
	MaxBodyBytes     *int64   `yaml:"max_body_bytes"`
}

// Attribute represents a configuration attribute with its value and source
type Attribute struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Source string `json:"source"`
}

var (
	globalConfig *FeedboxConfig
	configMu     sync.RWMutex
)

// Get returns the global configuration, loading it if necessary
func Get() *FeedboxConfig {
	configMu.RLock()
	if globalConfig != nil {
		configMu.RUnlock()
		return globalConfig
	}
	configMu.RUnlock()

	configMu.Lock()
	defer configMu.Unlock()

	if globalConfig == nil {
		cfg, err := Load()
		if err != nil {
			globalConfig = Default()
		} else {
			globalConfig = cfg
		}
	}
	return globalConfig
}

// Set replaces the global configuration.
func Set(cfg *FeedboxConfig) {
	configMu.Lock()
	globalConfig = cfg
	configMu.Unlock()
}

// Reload reloads the configuration from file and environment. An invalid
// configuration leaves the current one in place.
func Reload() error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	Set(cfg)
	return nil
}

// Default returns a config with default values
func Default() *FeedboxConfig {
	c := &FeedboxConfig{
		AllowedOrigins:   []string{},
		ListLimitMax:     1000,
		ListLimitDefault: 100,
		TokenTTL:         3600,
		BcryptCost:       10,
		MaxBodyBytes:     1 << 20,
		sources:          make(map[string]string),
	}
	for _, name := range attributeNames() {
		c.sources[name] = "default"
	}
	return c
}

// Load loads configuration from file and environment variables.
// Environment variables take precedence over file values.
func Load() (*FeedboxConfig, error) {
	config := Default()
	config.configFilePath = FilePath()

	if data, err := os.ReadFile(config.configFilePath); err == nil {
		var file fileConfig
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", config.configFilePath, err)
		}
		config.applyFileConfig(&file)
	}

	config.applyEnvConfig()

	return config, nil
}

// FilePath returns the location of the config file, honoring FEEDBOX_CONFIG_PATH.
func FilePath() string {
	configPath := os.Getenv("FEEDBOX_CONFIG_PATH")
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	return filepath.Join(configPath, ConfigFileName)
}

func attributeNames() []string {
	return []string{
		"allowed_origins", "list_limit_max", "list_limit_default",
		"token_ttl", "bcrypt_cost", "rating_min", "rating_max", "max_body_bytes",
	}
}

func (c *FeedboxConfig) applyFileConfig(file *fileConfig) {
	if len(file.AllowedOrigins) > 0 {
		c.AllowedOrigins = file.AllowedOrigins
		c.sources["allowed_origins"] = "file"
	}
	if file.ListLimitMax != nil {
		c.ListLimitMax = *file.ListLimitMax
		c.sources["list_limit_max"] = "file"
	}
	if file.ListLimitDefault != nil {
		c.ListLimitDefault = *file.ListLimitDefault
		c.sources["list_limit_default"] = "file"
	}
	if file.TokenTTL != nil {
		c.TokenTTL = *file.TokenTTL
		c.sources["token_ttl"] = "file"
	}
	if file.BcryptCost != nil {
		c.BcryptCost = *file.BcryptCost
		c.sources["bcrypt_cost"] = "file"
	}
	if file.RatingMin != nil {
		c.RatingMin = file.RatingMin
		c.sources["rating_min"] = "file"
	}
	if file.RatingMax != nil {
		c.RatingMax = file.RatingMax
		c.sources["rating_max"] = "file"
	}
	if file.MaxBodyBytes != nil {
		c.MaxBodyBytes = *file.MaxBodyBytes
		c.sources["max_body_bytes"] = "file"
	}
}

func (c *FeedboxConfig) applyEnvConfig() {
	if val := os.Getenv("FEEDBOX_ALLOWED_ORIGINS"); val != "" {
		c.AllowedOrigins = splitAndTrim(val)
		c.sources["allowed_origins"] = "environment"
	}
	envInt("FEEDBOX_LIST_LIMIT_MAX", &c.ListLimitMax, c.sources, "list_limit_max")
	envInt("FEEDBOX_LIST_LIMIT_DEFAULT", &c.ListLimitDefault, c.sources, "list_limit_default")
	envInt("FEEDBOX_TOKEN_TTL", &c.TokenTTL, c.sources, "token_ttl")
	envInt("FEEDBOX_BCRYPT_COST", &c.BcryptCost, c.sources, "bcrypt_cost")
	if val := os.Getenv("FEEDBOX_RATING_MIN"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			c.RatingMin = &f
			c.sources["rating_min"] = "environment"
		}
	}
	if val := os.Getenv("FEEDBOX_RATING_MAX"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			c.RatingMax = &f
			c.sources["rating_max"] = "environment"
		}
	}
	if val := os.Getenv("FEEDBOX_MAX_BODY_BYTES"); val != "" {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			c.MaxBodyBytes = i
			c.sources["max_body_bytes"] = "environment"
		}
	}
}

func envInt(key string, dst *int, sources map[string]string, name string) {
	val := os.Getenv(key)
	if val == "" {
		return
	}
	if i, err := strconv.Atoi(val); err == nil {
		*dst = i
		sources[name] = "environment"
	}
}

// ConfigFilePath returns the path to the config file
func (c *FeedboxConfig) ConfigFilePath() string {
	return c.configFilePath
}

// Source returns the source of a configuration attribute
func (c *FeedboxConfig) Source(name string) string {
	if c.sources == nil {
		return "default"
	}
	if s, ok := c.sources[name]; ok {
		return s
	}
	return "default"
}

// TokenLifetime returns the bearer token TTL as a duration
func (c *FeedboxConfig) TokenLifetime() time.Duration {
	return time.Duration(c.TokenTTL) * time.Second
}

// PageLimit clamps a requested page size to list_limit_max. Zero means no
// size was requested and yields list_limit_default.
func (c *FeedboxConfig) PageLimit(requested int) int {
	if requested <= 0 {
		return c.ListLimitDefault
	}
	if requested > c.ListLimitMax {
		return c.ListLimitMax
	}
	return requested
}

// AllowsAnyOrigin reports whether CORS is open to every origin.
func (c *FeedboxConfig) AllowsAnyOrigin() bool {
	for _, o := range c.AllowedOrigins {
		if o == "*" {
			return true
		}
	}
	return false
}

// Validate validates the configuration
func (c *FeedboxConfig) Validate() error {
	for _, origin := range c.AllowedOrigins {
		if origin == "*" {
			continue
		}
		u, err := url.Parse(origin)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid allowed_origins value: %s", origin)
		}
	}
	if c.ListLimitMax < 1 {
		return fmt.Errorf("list_limit_max must be positive, got %d", c.ListLimitMax)
	}
	if c.ListLimitDefault < 1 || c.ListLimitDefault > c.ListLimitMax {
		return fmt.Errorf("list_limit_default must be between 1 and %d, got %d", c.ListLimitMax, c.ListLimitDefault)
	}
	if c.TokenTTL < 1 {
		return fmt.Errorf("token_ttl must be positive, got %d", c.TokenTTL)
	}
	// bcrypt.MinCost and bcrypt.MaxCost
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("bcrypt_cost must be between 4 and 31, got %d", c.BcryptCost)
	}
	for name, bound := range map[string]*float64{"rating_min": c.RatingMin, "rating_max": c.RatingMax} {
		if bound != nil && (math.IsNaN(*bound) || math.IsInf(*bound, 0)) {
			return fmt.Errorf("%s must be a finite number, got %v", name, *bound)
		}
	}
	if c.RatingMin != nil && c.RatingMax != nil && *c.RatingMin > *c.RatingMax {
		return fmt.Errorf("rating_min (%v) must not exceed rating_max (%v)", *c.RatingMin, *c.RatingMax)
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("max_body_bytes must be at least 1024, got %d", c.MaxBodyBytes)
	}
	return nil
}

// Attributes returns all configuration attributes with their values and sources
func (c *FeedboxConfig) Attributes() []Attribute {
	return []Attribute{
		{Name: "allowed_origins", Value: strings.Join(c.AllowedOrigins, ","), Source: c.Source("allowed_origins")},
		{Name: "list_limit_max", Value: strconv.Itoa(c.ListLimitMax), Source: c.Source("list_limit_max")},
		{Name: "list_limit_default", Value: strconv.Itoa(c.ListLimitDefault), Source: c.Source("list_limit_default")},
		{Name: "token_ttl", Value: strconv.Itoa(c.TokenTTL), Source: c.Source("token_ttl")},
		{Name: "bcrypt_cost", Value: strconv.Itoa(c.BcryptCost), Source: c.Source("bcrypt_cost")},
		{Name: "rating_min", Value: formatBound(c.RatingMin), Source: c.Source("rating_min")},
		{Name: "rating_max", Value: formatBound(c.RatingMax), Source: c.Source("rating_max")},
		{Name: "max_body_bytes", Value: strconv.FormatInt(c.MaxBodyBytes, 10), Source: c.Source("max_body_bytes")},
	}
}

func formatBound(bound *float64) string {
	if bound == nil {
		return ""
	}
	return strconv.FormatFloat(*bound, 'g', -1, 64)
}

// FormatText returns a text representation of the configuration
func (c *FeedboxConfig) FormatText() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Config file: %s\n\n", c.configFilePath))
	sb.WriteString(fmt.Sprintf("%-24s %-30s %s\n", "NAME", "VALUE", "SOURCE"))
	sb.WriteString(fmt.Sprintf("%-24s %-30s %s\n", "----", "-----", "------"))

	for _, attr := range c.Attributes() {
		value := attr.Value
		if value == "" {
			value = "(not set)"
		}
		sb.WriteString(fmt.Sprintf("%-24s %-30s %s\n", attr.Name, value, attr.Source))
	}
	return sb.String()
}

// FormatJSON returns a JSON representation of the configuration
func (c *FeedboxConfig) FormatJSON() (string, error) {
	result := map[string]interface{}{
		"config_file": c.configFilePath,
		"attributes":  c.Attributes(),
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
