package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog/log"

	"github.com/AquilaXk/aquila-log/blog/domain"
)

// TokenHeader carries the shared revalidation secret.
const TokenHeader = "x-revalidate-token"

// RevalidateHandler exposes the webhook that invalidates rendered paths.
// With an explicit path it invalidates just that path; without one it forces
// a fresh ingestion and invalidates the root plus every post's routing path.
type RevalidateHandler struct {
	secret      string
	provider    domain.PostProvider
	invalidator domain.PathInvalidator
}

func NewRevalidateHandler(secret string, provider domain.PostProvider, invalidator domain.PathInvalidator) *RevalidateHandler {
	return &RevalidateHandler{
		secret:      secret,
		provider:    provider,
		invalidator: invalidator,
	}
}

func (h *RevalidateHandler) RegisterRoutes(router *gin.Engine) {
	router.POST("/api/revalidate", h.HandleRevalidate)
}

func (h *RevalidateHandler) HandleRevalidate(c *gin.Context) {
	if h.secret == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Missing revalidate token on server"})
		return
	}

	provided := c.GetHeader(TokenHeader)
	if provided == "" {
		provided = c.Query("secret")
	}
	if provided != h.secret {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid token"})
		return
	}

	var body struct {
		Path string `json:"path"`
	}
	// The body is optional; an empty or non-JSON body means "all paths".
	_ = c.ShouldBindJSON(&body)

	target := body.Path
	if target == "" {
		target = c.Query("path")
	}

	ctx := c.Request.Context()

	var paths []string
	if target != "" {
		if !strings.HasPrefix(target, "/") {
			target = "/" + target
		}
		paths = []string{target}
	} else {
		posts, err := h.provider.GetPosts(ctx, true)
		if err != nil {
			log.Error().Err(err).Msg("Failed to refresh posts for revalidation")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error revalidating"})
			return
		}

		seen := map[string]struct{}{"/": {}}
		paths = []string{"/"}
		for _, post := range posts {
			if post.Slug == "" {
				continue
			}
			path := "/" + post.Slug
			if _, ok := seen[path]; ok {
				continue
			}
			seen[path] = struct{}{}
			paths = append(paths, path)
		}
	}

	var errs *multierror.Error
	for _, path := range paths {
		if err := h.invalidator.Invalidate(ctx, path); err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	if err := errs.ErrorOrNil(); err != nil {
		log.Error().Err(err).Int("paths", len(paths)).Msg("Failed to invalidate paths")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error revalidating"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"revalidated": true,
		"count":       len(paths),
		"paths":       paths,
	})
}
