package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gorm.io/gorm"

	"github.com/you/studiosvc/domain"
	"github.com/you/studiosvc/internal/config"
	httpx "github.com/you/studiosvc/internal/http"
	"github.com/you/studiosvc/internal/http/handlers"
	"github.com/you/studiosvc/internal/http/middleware"
	"github.com/you/studiosvc/internal/infrastructure/auth"
	"github.com/you/studiosvc/internal/infrastructure/challenge"
	"github.com/you/studiosvc/internal/infrastructure/database"
	"github.com/you/studiosvc/internal/infrastructure/notifications"
	"github.com/you/studiosvc/internal/infrastructure/oauth"
	"github.com/you/studiosvc/internal/infrastructure/repositories"
	"github.com/you/studiosvc/internal/logging"
	"github.com/you/studiosvc/internal/services"
)

// Container holds all dependencies
type Container struct {
	Config *config.Config
	Log    logging.Logger

	// Infrastructure
	DB      *gorm.DB
	Redis   *database.RedisClient
	Casbin  *auth.CasbinService
	Metrics *middleware.Metrics

	// Repositories
	UserRepo      domain.UserRepository
	Revocations   domain.SessionRevocationRepository
	PortfolioRepo domain.PortfolioRepository
	BlogRepo      domain.BlogRepository
	BookingRepo   domain.BookingRepository
	InquiryRepo   domain.InquiryRepository
	Throttle      domain.LoginThrottle
	OAuthStates   domain.OAuthStateStore

	// Services
	Audit      domain.AuditLogger
	Tokens     domain.SessionTokenService
	Challenge  domain.ChallengeVerifier
	Notifier   domain.StudioNotifier
	Providers  []domain.IdentityProvider
	AuthSvc    *services.AuthServiceImpl
	PolicySvc  domain.PolicyService
	Portfolio  domain.PortfolioService
	Blog       domain.BlogService
	Bookings   domain.BookingService
	Inquiries  domain.InquiryService
	Dashboard  domain.DashboardService
	Authorizer *services.RouteAuthorizer
}

// NewContainer connects to the stores and builds every service. The
// caller owns Close.
func NewContainer(ctx context.Context, cfg *config.Config, log logging.Logger) (*Container, error) {
	c := &Container{Config: cfg, Log: log}

	if err := c.initDatabase(); err != nil {
		return nil, err
	}
	if err := c.initRedis(ctx); err != nil {
		c.Close()
		return nil, err
	}
	if err := c.initPolicies(ctx); err != nil {
		c.Close()
		return nil, err
	}
	c.initRepositories()
	if err := c.initServices(); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

func (c *Container) initDatabase() error {
	db, err := database.Open(c.Config.DBDriver, c.Config.DSN, c.Config.DBLogLevel)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		return err
	}
	c.DB = db
	return nil
}

func (c *Container) initRedis(ctx context.Context) error {
	c.Redis = database.NewRedis(c.Config.RedisAddr, c.Config.RedisPassword, c.Config.RedisDB)
	if err := c.Redis.Ping(ctx); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	return nil
}

// initPolicies loads the enforcer and adds any configured route policy the
// table is missing.
func (c *Container) initPolicies(ctx context.Context) error {
	cas, err := auth.NewCasbinService(c.DB, c.Config.CasbinModelPath)
	if err != nil {
		return fmt.Errorf("casbin: %w", err)
	}
	rules, err := accessRules(c.Config.Routes.Protected)
	if err != nil {
		return err
	}
	added, err := cas.Seed(rules)
	if err != nil {
		return err
	}
	if added > 0 {
		c.Log.Info(ctx, "casbin: added route policies", "rules", len(rules), "policies", added)
	}
	c.Casbin = cas
	c.PolicySvc = services.NewPolicyService(cas.E)
	return nil
}

func (c *Container) initRepositories() {
	rdb := c.Redis.Client
	c.UserRepo = repositories.NewUserRepository(c.DB)
	c.PortfolioRepo = repositories.NewPortfolioRepository(c.DB)
	c.BlogRepo = repositories.NewBlogRepository(c.DB)
	c.BookingRepo = repositories.NewBookingRepository(c.DB)
	c.InquiryRepo = repositories.NewInquiryRepository(c.DB)
	c.Revocations = repositories.NewSessionRepository(rdb)
	c.Throttle = repositories.NewLoginThrottle(rdb, c.Config.LoginMaxAttempts, c.Config.LoginWindow)
	c.OAuthStates = repositories.NewOAuthStateRepository(rdb)
}

func (c *Container) initServices() error {
	cfg := c.Config

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	c.Metrics = middleware.NewMetrics(cfg.MetricsNamespace, reg)

	c.Audit = logging.NewAuditLogger(c.Log)
	c.Tokens = auth.NewJWTService(cfg.SessionSecret, cfg.SessionIssuer, cfg.SessionTTL)
	c.Challenge = challenge.NewVerifier(challenge.Config{
		Secret:       cfg.ChallengeSecret,
		VerifyURL:    cfg.ChallengeVerifyURL,
		MinScore:     &cfg.ChallengeMinScore,
		StrictAction: cfg.ChallengeStrictAction,
		Timeout:      cfg.ChallengeTimeout,
	}, c.Log, challenge.WithRecorder(c.Metrics))

	sms := notifications.NewTwilioService(cfg.TwilioSID, cfg.TwilioToken, cfg.TwilioFrom, c.Log)
	c.Notifier = notifications.NewSMSNotifier(sms, cfg.TwilioNotifyPhone, c.Log.With("component", "studio_notifier"))

	if cfg.GoogleEnabled() {
		c.Providers = append(c.Providers, oauth.NewGoogleProvider(oauth.GoogleConfig{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
		}))
	}

	defaultRole, err := domain.ParseRole(cfg.DefaultRole)
	if err != nil {
		return fmt.Errorf("registration default role: %w", err)
	}
	c.AuthSvc = services.NewAuthService(
		c.UserRepo,
		c.Revocations,
		auth.NewPasswordService(0),
		c.Tokens,
		c.Challenge,
		c.Throttle,
		c.Audit,
		c.Log,
		services.AuthConfig{
			DefaultRole:          defaultRole,
			RegistrationEnabled:  cfg.RegistrationEnabled,
			RequireVerifiedEmail: cfg.RequireVerifiedEmail,
		},
		services.WithLoginRecorder(c.Metrics),
	)

	c.Portfolio = services.NewPortfolioService(c.PortfolioRepo, c.Audit)
	c.Blog = services.NewBlogService(c.BlogRepo, c.Audit)
	c.Bookings = services.NewBookingService(c.BookingRepo, c.Challenge, c.Notifier, c.Audit)
	c.Inquiries = services.NewInquiryService(c.InquiryRepo, c.Challenge, c.Notifier, c.Audit)
	c.Dashboard = services.NewDashboardService(c.UserRepo, c.PortfolioRepo, c.BlogRepo, c.BookingRepo, c.InquiryRepo)

	c.Authorizer = services.NewRouteAuthorizer(routePolicy(cfg.Routes), c.PolicySvc, c.Log)
	return nil
}

// Router builds the HTTP handler tree
func (c *Container) Router() *gin.Engine {
	cfg := c.Config
	log := c.Log

	session := middleware.NewSessionMW(c.Tokens, c.Revocations, c.AuthSvc, c.Authorizer,
		middleware.SessionConfig{CookieName: cfg.CookieName, RevalidateRole: cfg.RevalidateRole}, log)

	authH := handlers.NewAuthHandlers(c.AuthSvc, c.OAuthStates,
		handlers.CookieConfig{
			Name:   cfg.CookieName,
			Domain: cfg.CookieDomain,
			Secure: cfg.CookieSecure,
			MaxAge: cfg.SessionTTL,
		},
		handlers.RedirectConfig{
			LoginPath:   cfg.Routes.LoginPath,
			LandingPath: cfg.Routes.LandingPath,
			StateTTL:    cfg.OAuthStateTTL,
		},
		log, c.Providers...)

	return httpx.BuildRouter(httpx.Router{
		Auth:        authH,
		Content:     handlers.NewContentHandlers(c.Portfolio, c.Blog, log),
		Submissions: handlers.NewSubmissionHandlers(c.Bookings, c.Inquiries, log),
		Dashboard:   handlers.NewDashboardHandlers(c.Dashboard, log),
		Policies:    handlers.NewPolicyHandlers(c.PolicySvc, log),
		Check:       handlers.NewAuthzCheckHandlers(c.Authorizer, session, c.Metrics, log),
		Health:      handlers.NewHealthHandlers(c.healthChecks()),
		Session:     session,
		Guard:       middleware.NewRouteGuard(c.Authorizer, cfg.Routes.APIPrefix, c.Audit, c.Metrics, log),
		Metrics:     c.Metrics,
		Log:         log,
		APIPrefix:   cfg.Routes.APIPrefix,
		StaticDir:   cfg.StaticDir,
	})
}

func (c *Container) healthChecks() map[string]handlers.HealthCheck {
	return map[string]handlers.HealthCheck{
		"database": func(ctx context.Context) error {
			sqlDB, err := c.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
		"redis": c.Redis.Ping,
	}
}

// Close waits for background writes and closes all connections
func (c *Container) Close() error {
	if c.AuthSvc != nil {
		c.AuthSvc.Wait()
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
	if c.DB != nil {
		sqlDB, err := c.DB.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	return nil
}

func accessRules(rules []config.RouteRule) ([]auth.AccessRule, error) {
	out := make([]auth.AccessRule, 0, len(rules))
	for _, rule := range rules {
		roles := make([]domain.Role, 0, len(rule.Roles))
		for _, name := range rule.Roles {
			role, err := domain.ParseRole(name)
			if err != nil {
				return nil, fmt.Errorf("route %s: %w", rule.Prefix, err)
			}
			roles = append(roles, role)
		}
		out = append(out, auth.AccessRule{Prefix: rule.Prefix, Roles: roles})
	}
	return out, nil
}

func routePolicy(r config.RoutesConfig) services.RoutePolicy {
	protected := make([]string, 0, len(r.Protected))
	for _, rule := range r.Protected {
		protected = append(protected, rule.Prefix)
	}
	return services.RoutePolicy{
		LoginPath:         r.LoginPath,
		LandingPath:       r.LandingPath,
		PublicPrefixes:    r.PublicPrefixes,
		AuthPages:         r.AuthPages,
		ProtectedPrefixes: protected,
	}
}
