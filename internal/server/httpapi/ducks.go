package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *HTTPServer) searchDucks(c *gin.Context) {
	res, err := s.ducks.SearchDucks(c.Request.Context(), c.Query("query"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *HTTPServer) retrieveDuck(c *gin.Context) {
	d, err := s.ducks.RetrieveDuck(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (s *HTTPServer) toggleFavorite(c *gin.Context) {
	on, err := s.ducks.ToggleFavorite(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "favorite": on})
}

func (s *HTTPServer) retrieveFavorites(c *gin.Context) {
	res, err := s.ducks.RetrieveFavorites(c.Request.Context(), userID(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
