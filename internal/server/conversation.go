package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	conversationdomain "github.com/brandloom/brandloom/internal/conversation/domain"
)

func (s *Server) GetMessages(c *gin.Context) {
	p := currentPrincipal(c)
	messages, err := s.conversationSvc.GetMessages(c.Request.Context(), conversationdomain.Principal{
		ID:    p.ID,
		Role:  p.Role,
		Admin: p.Admin,
	}, c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

type postMessageRequest struct {
	Text string `json:"text"`
}

func (s *Server) PostMessage(c *gin.Context) {
	var req postMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	p := currentPrincipal(c)
	message, err := s.conversationSvc.CreateMessage(c.Request.Context(), conversationdomain.Principal{
		ID:    p.ID,
		Role:  p.Role,
		Admin: p.Admin,
	}, c.Param("id"), req.Text)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, message)
}

func (s *Server) ListConversations(c *gin.Context) {
	previews, err := s.conversationSvc.ListAll(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversations": previews})
}

func (s *Server) ListMyConversations(c *gin.Context) {
	previews, err := s.conversationSvc.ListForUser(c.Request.Context(), currentPrincipal(c).ID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversations": previews})
}

// ServeConversationSocket upgrades to a websocket scoped to one service
// request's conversation. Participation is checked before the upgrade so the
// handshake fails with a proper HTTP status.
func (s *Server) ServeConversationSocket(c *gin.Context) {
	p := currentPrincipal(c)
	principal := conversationdomain.Principal{
		ID:    p.ID,
		Role:  p.Role,
		Admin: p.Admin,
	}
	requestID := c.Param("id")

	if _, err := s.conversationSvc.GetMessages(c.Request.Context(), principal, requestID); err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.hub.Serve(c.Writer, c.Request, principal, requestID); err != nil {
		s.log.Warn("websocket upgrade failed", zap.Error(err))
	}
}
