package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/AquilaXk/aquila-log/blog/domain"
)

// NewApi registers the read API on the router.
func NewApi(router *gin.Engine, provider domain.PostProvider) {
	h := &PostsHandler{provider: provider}

	postsV1 := router.Group("posts/v1")
	{
		postsV1.GET("/", h.GetPosts)
		postsV1.GET("/:slug", h.GetPost)
	}
}
