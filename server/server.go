// Package server exposes the conversation pipeline over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	contractx "github.com/rohanmehta-dev/fintalk/agent/contract"
	"github.com/rohanmehta-dev/fintalk/agent/orchestrator"
)

type Config struct {
	Addr string `split_words:"true" default:":8080"`
	Mode string `split_words:"true" default:"release"`
}

// TurnHandler resolves one chat turn into the reply text.
type TurnHandler interface {
	HandleTurn(ctx context.Context, req contractx.TurnRequest) (string, error)
}

type Server struct {
	engine *gin.Engine
	turns  TurnHandler
	addr   string
}

func New(cfg Config, turns TurnHandler) *Server {
	gin.SetMode(cfg.Mode)
	engine := gin.New()
	engine.Use(gin.Logger(), gin.Recovery())

	s := &Server{
		engine: engine,
		turns:  turns,
		addr:   cfg.Addr,
	}

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	engine.POST("/api/chat", s.handleChat)

	return s
}

func (s *Server) Run() error {
	return s.engine.Run(s.addr)
}

// Handler exposes the router for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}

type chatRequest struct {
	Message string              `json:"message"`
	History []contractx.Message `json:"history"`
	Model   string              `json:"model"`
}

func (s *Server) handleChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	reply, err := s.turns.HandleTurn(c.Request.Context(), contractx.TurnRequest{
		Text:    req.Message,
		History: req.History,
		Model:   req.Model,
	})
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"response": reply})
	case errors.Is(err, contractx.ErrEmptyMessage):
		c.JSON(http.StatusBadRequest, gin.H{"error": "No message provided"})
	case errors.Is(err, contractx.ErrProviderUnavailable):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Language model API key not configured."})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": orchestrator.ReplyCritical})
	}
}
