package handlers

import (
	"crypto/subtle"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/localfeat/backend/internal/logger"
	"github.com/localfeat/backend/internal/models"
	"github.com/localfeat/backend/internal/repository"
	"github.com/localfeat/backend/internal/util"
	"go.uber.org/zap"
)

// CreateBlogPostRequest is the body of POST /api/blog/posts; AdminKey must match ADMIN_KEY
type CreateBlogPostRequest struct {
	AdminKey        string   `json:"adminKey"`
	Title           string   `json:"title" binding:"required,max=200"`
	Slug            string   `json:"slug" binding:"required,max=200"`
	Content         string   `json:"content" binding:"required"`
	Excerpt         string   `json:"excerpt"`
	Tags            []string `json:"tags"`
	MetaTitle       *string  `json:"metaTitle"`
	MetaDescription *string  `json:"metaDescription"`
	Featured        bool     `json:"featured"`
	Published       *bool    `json:"published"`
}

// GetBlogPosts lists published articles, optionally by tag
// GET /api/blog/posts?limit=10&offset=0&tag=
func (h *Handlers) GetBlogPosts(c *gin.Context) {
	limit := util.ParsePositiveInt(c.Query("limit"), 10)
	offset := util.ParseNonNegativeInt(c.Query("offset"), 0)

	posts, err := h.repos.Blog.List(c.Request.Context(), c.Query("tag"), limit, offset)
	if err != nil {
		util.RespondInternalError(c, "Failed to fetch blog posts", err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

// GetFeaturedBlogPosts lists featured published articles
// GET /api/blog/posts/featured?limit=5
func (h *Handlers) GetFeaturedBlogPosts(c *gin.Context) {
	posts, err := h.repos.Blog.ListFeatured(c.Request.Context(), util.ParsePositiveInt(c.Query("limit"), 5))
	if err != nil {
		util.RespondInternalError(c, "Failed to fetch featured blog posts", err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

// GetBlogPost returns one article and counts the view
// GET /api/blog/posts/:slug
func (h *Handlers) GetBlogPost(c *gin.Context) {
	post, err := h.repos.Blog.ViewBySlug(c.Request.Context(), c.Param("slug"))
	if util.HandleDBError(c, err, "Blog post", repository.ErrBlogPostNotFound) {
		return
	}
	c.JSON(http.StatusOK, post)
}

// CreateBlogPost publishes an article
// POST /api/blog/posts
func (h *Handlers) CreateBlogPost(c *gin.Context) {
	var req CreateBlogPostRequest
	bindErr := c.ShouldBindJSON(&req)
	if !h.validAdminKey(req.AdminKey) {
		util.RespondForbidden(c, "Unauthorized")
		return
	}
	if bindErr != nil {
		util.RespondBindError(c, "Invalid blog post data", bindErr)
		return
	}

	published := true
	if req.Published != nil {
		published = *req.Published
	}
	post := &models.BlogPost{
		Title:           req.Title,
		Slug:            req.Slug,
		Content:         req.Content,
		Excerpt:         req.Excerpt,
		Tags:            models.StringList(req.Tags),
		MetaTitle:       req.MetaTitle,
		MetaDescription: req.MetaDescription,
		Featured:        req.Featured,
		Published:       published,
	}
	if err := h.repos.Blog.Create(c.Request.Context(), post); err != nil {
		if errors.Is(err, repository.ErrInvalidInput) {
			util.RespondBadRequest(c, "Invalid blog post data")
			return
		}
		util.RespondInternalError(c, "Failed to create blog post", err)
		return
	}

	logger.Log.Info("Blog post created", zap.String("slug", post.Slug))
	c.JSON(http.StatusCreated, post)
}

func (h *Handlers) validAdminKey(key string) bool {
	return h.adminKey != "" && subtle.ConstantTimeCompare([]byte(key), []byte(h.adminKey)) == 1
}
