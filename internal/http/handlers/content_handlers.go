package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/you/studiosvc/domain"
	"github.com/you/studiosvc/internal/http/middleware"
	"github.com/you/studiosvc/internal/logging"
)

// ContentHandlers serves the portfolio and the blog, publicly and to the
// admin dashboard.
type ContentHandlers struct {
	portfolio domain.PortfolioService
	blog      domain.BlogService
	log       logging.Logger
}

func NewContentHandlers(portfolio domain.PortfolioService, blog domain.BlogService, log logging.Logger) *ContentHandlers {
	return &ContentHandlers{portfolio: portfolio, blog: blog, log: log.With("component", "content_handlers")}
}

// PublicPortfolio lists published portfolio items, optionally by category
func (h *ContentHandlers) PublicPortfolio(c *gin.Context) {
	items, err := h.portfolio.ListPublished(c.Request.Context(), c.Query("category"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items})
}

// PublicBlog lists published posts
func (h *ContentHandlers) PublicBlog(c *gin.Context) {
	posts, err := h.blog.ListPublished(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": posts})
}

// PublicPost returns one published post by slug
func (h *ContentHandlers) PublicPost(c *gin.Context) {
	post, err := h.blog.GetPublished(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": post})
}

func (h *ContentHandlers) ListPortfolio(c *gin.Context) {
	items, err := h.portfolio.List(c.Request.Context(), middleware.PrincipalFrom(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items})
}

func (h *ContentHandlers) CreatePortfolio(c *gin.Context) {
	var in domain.PortfolioInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	item, err := h.portfolio.Create(c.Request.Context(), middleware.PrincipalFrom(c), in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": item})
}

// UpdatePortfolio edits an item; publishing and featuring go through here
func (h *ContentHandlers) UpdatePortfolio(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var in domain.PortfolioInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	item, err := h.portfolio.Update(c.Request.Context(), middleware.PrincipalFrom(c), id, in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": item})
}

func (h *ContentHandlers) DeletePortfolio(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.portfolio.Delete(c.Request.Context(), middleware.PrincipalFrom(c), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ContentHandlers) ListPosts(c *gin.Context) {
	posts, err := h.blog.List(c.Request.Context(), middleware.PrincipalFrom(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": posts})
}

func (h *ContentHandlers) CreatePost(c *gin.Context) {
	var in domain.BlogInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	post, err := h.blog.Create(c.Request.Context(), middleware.PrincipalFrom(c), in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": post})
}

func (h *ContentHandlers) UpdatePost(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var in domain.BlogInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	post, err := h.blog.Update(c.Request.Context(), middleware.PrincipalFrom(c), id, in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": post})
}

func (h *ContentHandlers) DeletePost(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.blog.Delete(c.Request.Context(), middleware.PrincipalFrom(c), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// idParam parses the :id path parameter, answering 400 when it is not a
// positive integer.
func idParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id", "code": domain.KindValidation.String()})
		return 0, false
	}
	return uint(id), true
}
