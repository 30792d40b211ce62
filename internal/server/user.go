package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	userdomain "github.com/brandloom/brandloom/internal/user/domain"
)

func (s *Server) ListUsers(c *gin.Context) {
	users, err := s.userSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (s *Server) GetUser(c *gin.Context) {
	id := c.Param("id")
	if p := currentPrincipal(c); !p.Admin && p.ID != id {
		AbortWithError(c, ErrForbidden)
		return
	}

	user, err := s.userSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

type updateUserRequest struct {
	Name    string `json:"name"`
	Tel     string `json:"tel"`
	Country string `json:"country"`
	Address string `json:"address"`
}

func (s *Server) UpdateUser(c *gin.Context) {
	id := c.Param("id")
	if p := currentPrincipal(c); !p.Admin && p.ID != id {
		AbortWithError(c, ErrForbidden)
		return
	}

	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	user, err := s.userSvc.Update(c.Request.Context(), userdomain.UpdateUserRequest{
		ID:      id,
		Name:    req.Name,
		Tel:     req.Tel,
		Country: req.Country,
		Address: req.Address,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (s *Server) DeleteUser(c *gin.Context) {
	if err := s.userSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
