package httpx

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/you/studiosvc/internal/http/handlers"
	"github.com/you/studiosvc/internal/http/middleware"
	"github.com/you/studiosvc/internal/logging"
)

// Router holds everything BuildRouter mounts
type Router struct {
	Auth        *handlers.AuthHandlers
	Content     *handlers.ContentHandlers
	Submissions *handlers.SubmissionHandlers
	Dashboard   *handlers.DashboardHandlers
	Policies    *handlers.PolicyHandlers
	Check       *handlers.AuthzCheckHandlers
	Health      *handlers.HealthHandlers

	Session *middleware.SessionMW
	Guard   *middleware.RouteGuard
	Metrics *middleware.Metrics
	Log     logging.Logger

	APIPrefix string
	// StaticDir, when set, serves the site's pages for unmatched non-API
	// paths.
	StaticDir string
}

// BuildRouter wires middleware and routes. The session and route guard
// run for every request, including unmatched ones.
func BuildRouter(rt Router) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(rt.Log))
	if rt.Metrics != nil {
		r.Use(rt.Metrics.Instrument())
	}
	r.Use(rt.Session.Load(), rt.Guard.Enforce())

	r.GET("/health", rt.Health.Live)
	r.GET("/health/ready", rt.Health.Ready)
	if rt.Metrics != nil {
		r.GET("/metrics", gin.WrapH(rt.Metrics.Handler()))
	}

	auth := r.Group("/api/auth")
	auth.POST("/login", rt.Auth.Login)
	auth.POST("/register", rt.Auth.Register)
	auth.POST("/logout", rt.Auth.Logout)
	auth.GET("/session", rt.Auth.Session)
	auth.GET("/oauth/:provider", rt.Auth.OAuthStart)
	auth.GET("/callback/:provider", rt.Auth.OAuthCallback)
	auth.GET("/check", rt.Check.Check)

	pub := r.Group("/api/public")
	pub.GET("/portfolio", rt.Content.PublicPortfolio)
	pub.GET("/blog", rt.Content.PublicBlog)
	pub.GET("/blog/:slug", rt.Content.PublicPost)
	pub.POST("/bookings", rt.Submissions.SubmitBooking)
	pub.POST("/inquiries", rt.Submissions.SubmitInquiry)

	adm := r.Group("/api/admin")
	adm.GET("/me", rt.Auth.Me)
	adm.GET("/dashboard/stats", rt.Dashboard.Stats)
	adm.GET("/dashboard/recent-bookings", rt.Dashboard.RecentBookings)

	adm.GET("/portfolio", rt.Content.ListPortfolio)
	adm.POST("/portfolio", rt.Content.CreatePortfolio)
	adm.PUT("/portfolio/:id", rt.Content.UpdatePortfolio)
	adm.DELETE("/portfolio/:id", rt.Content.DeletePortfolio)

	adm.GET("/blog", rt.Content.ListPosts)
	adm.POST("/blog", rt.Content.CreatePost)
	adm.PUT("/blog/:id", rt.Content.UpdatePost)
	adm.DELETE("/blog/:id", rt.Content.DeletePost)

	adm.GET("/bookings", rt.Submissions.ListBookings)
	adm.PATCH("/bookings/:id/status", rt.Submissions.UpdateBookingStatus)
	adm.DELETE("/bookings/:id", rt.Submissions.DeleteBooking)

	adm.GET("/inquiries", rt.Submissions.ListInquiries)
	adm.PATCH("/inquiries/:id/status", rt.Submissions.UpdateInquiryStatus)
	adm.DELETE("/inquiries/:id", rt.Submissions.DeleteInquiry)

	adm.GET("/policies", rt.Policies.List)
	adm.POST("/policies", rt.Policies.Add)
	adm.DELETE("/policies", rt.Policies.Remove)

	r.NoRoute(notFound(rt.APIPrefix, rt.StaticDir))
	return r
}

// notFound serves static pages with an index.html fallback, or a JSON 404
// for API paths and when no static directory is configured.
func notFound(apiPrefix, staticDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := c.Request.URL.Path
		if staticDir == "" || (apiPrefix != "" && strings.HasPrefix(p, apiPrefix)) ||
			(c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}

		file := filepath.Join(staticDir, filepath.FromSlash(path.Clean("/"+p)))
		if info, err := os.Stat(file); err == nil && !info.IsDir() {
			c.File(file)
			return
		}
		c.File(filepath.Join(staticDir, "index.html"))
	}
}
