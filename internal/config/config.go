package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DefaultPath = "config/config.yml"

type AppConfig struct {
	Port            int    `yaml:"port"`
	GinMode         string `yaml:"gin_mode"`
	ShutdownTimeout string `yaml:"shutdown_timeout"`
	StaticDir       string `yaml:"static_dir"`
}

type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	DSN      string `yaml:"dsn"`
	LogLevel string `yaml:"log_level"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type SessionConfig struct {
	Secret         string `yaml:"secret"`
	Issuer         string `yaml:"issuer"`
	TTL            string `yaml:"ttl"`
	CookieName     string `yaml:"cookie_name"`
	CookieDomain   string `yaml:"cookie_domain"`
	CookieSecure   bool   `yaml:"cookie_secure"`
	RevalidateRole *bool  `yaml:"revalidate_role"`
}

type ChallengeConfig struct {
	Secret       string   `yaml:"secret"`
	VerifyURL    string   `yaml:"verify_url"`
	MinScore     *float64 `yaml:"min_score"`
	StrictAction bool     `yaml:"strict_action"`
	Timeout      string   `yaml:"timeout"`
}

type LoginConfig struct {
	MaxAttempts          int    `yaml:"max_attempts"`
	Window               string `yaml:"window"`
	RequireVerifiedEmail *bool  `yaml:"require_verified_email"`
}

type RegistrationConfig struct {
	Enabled     *bool  `yaml:"enabled"`
	DefaultRole string `yaml:"default_role"`
}

// RouteRule grants the listed roles access to a path prefix
type RouteRule struct {
	Prefix string   `yaml:"prefix"`
	Roles  []string `yaml:"roles"`
}

type RoutesConfig struct {
	LoginPath      string      `yaml:"login_path"`
	LandingPath    string      `yaml:"landing_path"`
	APIPrefix      string      `yaml:"api_prefix"`
	PublicPrefixes []string    `yaml:"public_prefixes"`
	AuthPages      []string    `yaml:"auth_pages"`
	Protected      []RouteRule `yaml:"protected"`
}

type GoogleConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	RedirectURL  string `yaml:"redirect_url"`
	StateTTL     string `yaml:"state_ttl"`
}

type TwilioConfig struct {
	AccountSID  string `yaml:"account_sid"`
	AuthToken   string `yaml:"auth_token"`
	FromNumber  string `yaml:"from_number"`
	NotifyPhone string `yaml:"notify_phone"`
}

type CasbinConfig struct {
	ModelPath string `yaml:"model_path"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type MetricsConfig struct {
	Namespace string `yaml:"namespace"`
}

type ConfigFile struct {
	App          AppConfig          `yaml:"app"`
	Database     DatabaseConfig     `yaml:"database"`
	Redis        RedisConfig        `yaml:"redis"`
	Session      SessionConfig      `yaml:"session"`
	Challenge    ChallengeConfig    `yaml:"challenge"`
	Login        LoginConfig        `yaml:"login"`
	Registration RegistrationConfig `yaml:"registration"`
	Routes       RoutesConfig       `yaml:"routes"`
	Google       GoogleConfig       `yaml:"google"`
	Twilio       TwilioConfig       `yaml:"twilio"`
	Casbin       CasbinConfig       `yaml:"casbin"`
	Log          LogConfig          `yaml:"log"`
	Metrics      MetricsConfig      `yaml:"metrics"`
}

// Config is the resolved runtime configuration
type Config struct {
	Port            string
	GinMode         string
	ShutdownTimeout time.Duration
	StaticDir       string

	DBDriver   string
	DSN        string
	DBLogLevel string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	SessionSecret  string
	SessionIssuer  string
	SessionTTL     time.Duration
	CookieName     string
	CookieDomain   string
	CookieSecure   bool
	RevalidateRole bool

	ChallengeSecret       string
	ChallengeVerifyURL    string
	ChallengeMinScore     float64
	ChallengeStrictAction bool
	ChallengeTimeout      time.Duration

	LoginMaxAttempts     int
	LoginWindow          time.Duration
	RequireVerifiedEmail bool

	RegistrationEnabled bool
	DefaultRole         string

	Routes RoutesConfig

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
	OAuthStateTTL      time.Duration

	TwilioSID         string
	TwilioToken       string
	TwilioFrom        string
	TwilioNotifyPhone string

	CasbinModelPath string

	LogLevel  string
	LogFormat string

	MetricsNamespace string
}

// GoogleEnabled reports whether Google sign-in is configured
func (c *Config) GoogleEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != ""
}

// Load reads the config file named by CONFIG_PATH (or the default path),
// applies environment overrides and validates the result.
func Load() (*Config, error) {
	// A missing .env file is fine outside development
	_ = godotenv.Load()

	path := env("CONFIG_PATH", DefaultPath)
	configFile, err := loadConfigFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}
	cfg, err := Resolve(configFile)
	if err != nil {
		return nil, err
	}
	applyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Resolve turns a parsed config file into a Config, applying defaults
func Resolve(f *ConfigFile) (*Config, error) {
	shutdown, err := parseDuration(f.App.ShutdownTimeout, 15*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid app shutdown timeout: %w", err)
	}
	sessionTTL, err := parseDuration(f.Session.TTL, 30*24*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("invalid session TTL: %w", err)
	}
	challengeTimeout, err := parseDuration(f.Challenge.Timeout, 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid challenge timeout: %w", err)
	}
	loginWindow, err := parseDuration(f.Login.Window, 15*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("invalid login window: %w", err)
	}
	stateTTL, err := parseDuration(f.Google.StateTTL, 10*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("invalid oauth state TTL: %w", err)
	}

	routes := f.Routes
	if routes.LoginPath == "" {
		routes.LoginPath = "/admin/login"
	}
	if routes.LandingPath == "" {
		routes.LandingPath = "/admin"
	}
	if routes.APIPrefix == "" {
		routes.APIPrefix = "/api/"
	}
	if len(routes.AuthPages) == 0 {
		routes.AuthPages = []string{"/login", "/register", "/admin/login", "/admin/register"}
	}
	if len(routes.PublicPrefixes) == 0 {
		routes.PublicPrefixes = []string{"/api/auth/", "/health", "/metrics"}
	}
	if len(routes.Protected) == 0 {
		routes.Protected = []RouteRule{
			{Prefix: "/admin", Roles: []string{"ADMIN", "EDITOR"}},
			{Prefix: "/api/admin", Roles: []string{"ADMIN", "EDITOR"}},
			{Prefix: "/api/admin/policies", Roles: []string{"ADMIN"}},
		}
	}

	port := f.App.Port
	if port == 0 {
		port = 8080
	}

	return &Config{
		Port:                  strconv.Itoa(port),
		GinMode:               orDefault(f.App.GinMode, "release"),
		ShutdownTimeout:       shutdown,
		StaticDir:             f.App.StaticDir,
		DBDriver:              orDefault(f.Database.Driver, "postgres"),
		DSN:                   f.Database.DSN,
		DBLogLevel:            orDefault(f.Database.LogLevel, "warn"),
		RedisAddr:             orDefault(f.Redis.Addr, "localhost:6379"),
		RedisPassword:         f.Redis.Password,
		RedisDB:               f.Redis.DB,
		SessionSecret:         f.Session.Secret,
		SessionIssuer:         orDefault(f.Session.Issuer, "studiosvc"),
		SessionTTL:            sessionTTL,
		CookieName:            orDefault(f.Session.CookieName, "session_token"),
		CookieDomain:          f.Session.CookieDomain,
		CookieSecure:          f.Session.CookieSecure,
		RevalidateRole:        boolOr(f.Session.RevalidateRole, true),
		ChallengeSecret:       f.Challenge.Secret,
		ChallengeVerifyURL:    orDefault(f.Challenge.VerifyURL, "https://www.google.com/recaptcha/api/siteverify"),
		ChallengeMinScore:     floatOr(f.Challenge.MinScore, 0.5),
		ChallengeStrictAction: f.Challenge.StrictAction,
		ChallengeTimeout:      challengeTimeout,
		LoginMaxAttempts:      intOr(f.Login.MaxAttempts, 5),
		LoginWindow:           loginWindow,
		RequireVerifiedEmail:  boolOr(f.Login.RequireVerifiedEmail, true),
		RegistrationEnabled:   boolOr(f.Registration.Enabled, true),
		DefaultRole:           orDefault(f.Registration.DefaultRole, "EDITOR"),
		Routes:                routes,
		GoogleClientID:        f.Google.ClientID,
		GoogleClientSecret:    f.Google.ClientSecret,
		GoogleRedirectURL:     f.Google.RedirectURL,
		OAuthStateTTL:         stateTTL,
		TwilioSID:             f.Twilio.AccountSID,
		TwilioToken:           f.Twilio.AuthToken,
		TwilioFrom:            f.Twilio.FromNumber,
		TwilioNotifyPhone:     f.Twilio.NotifyPhone,
		CasbinModelPath:       f.Casbin.ModelPath,
		LogLevel:              orDefault(f.Log.Level, "info"),
		LogFormat:             orDefault(f.Log.Format, "json"),
		MetricsNamespace:      orDefault(f.Metrics.Namespace, "studiosvc"),
	}, nil
}

// Validate rejects configurations the service cannot run with
func (c *Config) Validate() error {
	var errs []error
	if c.DSN == "" {
		errs = append(errs, errors.New("database dsn is required (DATABASE_URL)"))
	}
	if c.DBDriver != "postgres" && c.DBDriver != "sqlite" {
		errs = append(errs, fmt.Errorf("unsupported database driver %q", c.DBDriver))
	}
	if len(c.SessionSecret) < 32 {
		errs = append(errs, errors.New("session secret must be at least 32 bytes (JWT_SECRET)"))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, errors.New("session ttl must be positive"))
	}
	if c.ChallengeSecret == "" {
		errs = append(errs, errors.New("challenge secret is required (RECAPTCHA_SECRET_KEY)"))
	}
	if c.ChallengeMinScore < 0 || c.ChallengeMinScore > 1 {
		errs = append(errs, fmt.Errorf("challenge min_score %.2f outside [0,1]", c.ChallengeMinScore))
	}
	if c.LoginMaxAttempts <= 0 {
		errs = append(errs, errors.New("login max_attempts must be positive"))
	}
	if !isKnownRole(c.DefaultRole) {
		errs = append(errs, fmt.Errorf("registration default_role %q is not a known role", c.DefaultRole))
	}
	for _, rule := range c.Routes.Protected {
		if !strings.HasPrefix(rule.Prefix, "/") {
			errs = append(errs, fmt.Errorf("protected prefix %q must start with /", rule.Prefix))
		}
		for _, role := range rule.Roles {
			if !isKnownRole(role) {
				errs = append(errs, fmt.Errorf("protected prefix %q lists unknown role %q", rule.Prefix, role))
			}
		}
	}
	if c.GoogleClientID != "" && c.GoogleRedirectURL == "" {
		errs = append(errs, errors.New("google redirect_url is required when client_id is set"))
	}
	return errors.Join(errs...)
}

func applyEnv(c *Config) {
	c.Port = env("PORT", c.Port)
	c.DSN = env("DATABASE_URL", c.DSN)
	c.RedisAddr = env("REDIS_ADDR", c.RedisAddr)
	c.RedisPassword = env("REDIS_PASSWORD", c.RedisPassword)
	c.SessionSecret = env("JWT_SECRET", c.SessionSecret)
	c.ChallengeSecret = env("RECAPTCHA_SECRET_KEY", c.ChallengeSecret)
	c.GoogleClientID = env("GOOGLE_CLIENT_ID", c.GoogleClientID)
	c.GoogleClientSecret = env("GOOGLE_CLIENT_SECRET", c.GoogleClientSecret)
	c.TwilioSID = env("TWILIO_ACCOUNT_SID", c.TwilioSID)
	c.TwilioToken = env("TWILIO_AUTH_TOKEN", c.TwilioToken)
	c.TwilioFrom = env("TWILIO_FROM", c.TwilioFrom)
	c.TwilioNotifyPhone = env("NOTIFY_PHONE", c.TwilioNotifyPhone)
	c.GinMode = env("GIN_MODE", c.GinMode)
}

func loadConfigFile(path string) (*ConfigFile, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file at %s: %w", path, err)
	}
	return Parse(bytes)
}

// Parse decodes a YAML config document
func Parse(data []byte) (*ConfigFile, error) {
	var config ConfigFile
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("could not parse config yaml: %w", err)
	}
	return &config, nil
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func parseDuration(s string, def time.Duration) (time.Duration, error) {
	if s == "" {
		return def, nil
	}
	return time.ParseDuration(s)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func boolOr(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}

func intOr(i, def int) int {
	if i == 0 {
		return def
	}
	return i
}

func floatOr(f *float64, def float64) float64 {
	if f == nil {
		return def
	}
	return *f
}

func isKnownRole(s string) bool {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ADMIN", "EDITOR", "VIEWER":
		return true
	}
	return false
}
