package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/AquilaXk/aquila-log/blog/application"
	"github.com/AquilaXk/aquila-log/blog/domain"
)

// PostsHandler serves the assembled post list from the cache layer.
type PostsHandler struct {
	provider domain.PostProvider
}

func (h *PostsHandler) GetPosts(c *gin.Context) {
	posts, err := h.provider.GetPosts(c.Request.Context(), false)
	if err != nil {
		handleProviderError(c, err)
		return
	}

	c.JSON(http.StatusOK, posts)
}

func (h *PostsHandler) GetPost(c *gin.Context) {
	slug := c.Param("slug")

	posts, err := h.provider.GetPosts(c.Request.Context(), false)
	if err != nil {
		handleProviderError(c, err)
		return
	}

	for _, post := range posts {
		if post.Slug == slug {
			c.JSON(http.StatusOK, post)
			return
		}
	}

	c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
}

func handleProviderError(c *gin.Context, err error) {
	log.Error().Err(err).Msg("Failed to load posts")
	if errors.Is(err, application.ErrNoSchema) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "content collection is misconfigured"})
		return
	}
	c.JSON(http.StatusBadGateway, gin.H{"error": "failed to load posts"})
}
