package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/handtohand/marketplace/internal/common"
	"github.com/handtohand/marketplace/internal/exchange"
	"github.com/handtohand/marketplace/internal/server/api"
	"github.com/handtohand/marketplace/internal/server/services"
)

type proposeRequest struct {
	PartnerID  string `json:"partner_id" binding:"required"`
	OfferTitle string `json:"offer_title"`
	WishTitle  string `json:"wish_title"`
}

type actionRequest struct {
	Action string `json:"action" binding:"required"`
}

type feedbackRequest struct {
	ExchangeID         string `json:"exchange_id" binding:"required"`
	WouldExchangeAgain *bool  `json:"would_exchange_again" binding:"required"`
	Comment            string `json:"comment"`
}

func (s *HTTPServer) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}

func (s *HTTPServer) findMatches(c *gin.Context) {
	kind, err := services.ParseMatchKind(c.Query("type"))
	if err != nil {
		s.fail(c, err)
		return
	}

	res, err := s.matches.Find(c.Request.Context(), c.GetString(userIDKey), kind)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, api.Matches(res))
}

func (s *HTTPServer) proposeExchange(c *gin.Context) {
	var req proposeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	e, err := s.exchanges.Propose(c.Request.Context(), c.GetString(userIDKey), req.PartnerID, req.OfferTitle, req.WishTitle)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, api.Exchange(e))
}

func (s *HTTPServer) activeExchange(c *gin.Context) {
	e, err := s.exchanges.Active(c.Request.Context(), c.GetString(userIDKey), c.Query("partner_id"))
	if errors.Is(err, common.ErrorNotFound) {
		c.JSON(http.StatusOK, api.NoExchange())
		return
	}
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, api.Exchange(e))
}

func (s *HTTPServer) applyExchangeAction(c *gin.Context) {
	var req actionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	e, err := s.exchanges.Act(c.Request.Context(), c.Param("id"), c.GetString(userIDKey), exchange.Action(req.Action))
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, api.Exchange(e))
}

func (s *HTTPServer) submitFeedback(c *gin.Context) {
	var req feedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	fb, err := s.feedback.Submit(c.Request.Context(), req.ExchangeID, c.GetString(userIDKey), *req.WouldExchangeAgain, req.Comment)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, api.Feedback(fb))
}

func (s *HTTPServer) userStats(c *gin.Context) {
	stats, err := s.feedback.Stats(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, api.Stats(stats))
}

func (s *HTTPServer) fail(c *gin.Context, err error) {
	code, _, msg := api.Status(err)
	if code == http.StatusInternalServerError {
		s.logger.Error(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err)
	}
	c.JSON(code, gin.H{"error": msg})
}
