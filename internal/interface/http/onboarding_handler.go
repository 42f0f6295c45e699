package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/daily-briefing/internal/domain/onboarding"
)

// StartOnboarding opens a new onboarding session for the caller.
func (h *Handler) StartOnboarding(c *gin.Context) {
	claims, ok := h.requireClaims(c)
	if !ok {
		return
	}
	session, err := h.onboardingSvc.Start(c.Request.Context(), claims.UserID)
	if err != nil {
		abortWithError(c, fromDomainError(err, "onboarding_failed"))
		return
	}
	c.JSON(http.StatusCreated, session)
}

// GetOnboarding returns one of the caller's sessions.
func (h *Handler) GetOnboarding(c *gin.Context) {
	claims, ok := h.requireClaims(c)
	if !ok {
		return
	}
	session, err := h.onboardingSvc.Get(c.Request.Context(), claims.UserID, c.Param("id"))
	if err != nil {
		abortWithError(c, fromDomainError(err, "onboarding_failed"))
		return
	}
	c.JSON(http.StatusOK, session)
}

// AnswerOnboarding records the answer for the session's current step.
func (h *Handler) AnswerOnboarding(c *gin.Context) {
	claims, ok := h.requireClaims(c)
	if !ok {
		return
	}
	var answer onboarding.Answer
	if err := c.ShouldBindJSON(&answer); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	session, err := h.onboardingSvc.Answer(c.Request.Context(), claims.UserID, c.Param("id"), answer)
	if err != nil {
		abortWithError(c, fromDomainError(err, "onboarding_failed"))
		return
	}
	c.JSON(http.StatusOK, session)
}

// BackOnboarding returns to the previous step.
func (h *Handler) BackOnboarding(c *gin.Context) {
	claims, ok := h.requireClaims(c)
	if !ok {
		return
	}
	session, err := h.onboardingSvc.Back(c.Request.Context(), claims.UserID, c.Param("id"))
	if err != nil {
		abortWithError(c, fromDomainError(err, "onboarding_failed"))
		return
	}
	c.JSON(http.StatusOK, session)
}

// NextOnboarding applies an optional answer and advances one step.
func (h *Handler) NextOnboarding(c *gin.Context) {
	claims, ok := h.requireClaims(c)
	if !ok {
		return
	}
	answer, ok := optionalAnswer(c)
	if !ok {
		return
	}
	session, err := h.onboardingSvc.Next(c.Request.Context(), claims.UserID, c.Param("id"), answer)
	if err != nil {
		abortWithError(c, fromDomainError(err, "onboarding_failed"))
		return
	}
	c.JSON(http.StatusOK, session)
}

// CompleteOnboarding persists the profile from the final step.
func (h *Handler) CompleteOnboarding(c *gin.Context) {
	claims, ok := h.requireClaims(c)
	if !ok {
		return
	}
	answer, ok := optionalAnswer(c)
	if !ok {
		return
	}
	p, err := h.onboardingSvc.Complete(c.Request.Context(), claims.UserID, c.Param("id"), answer)
	if err != nil {
		abortWithError(c, fromDomainError(err, "onboarding_failed"))
		return
	}
	c.JSON(http.StatusOK, p)
}

// optionalAnswer decodes a request body when one was sent.
func optionalAnswer(c *gin.Context) (*onboarding.Answer, bool) {
	var answer onboarding.Answer
	if err := c.ShouldBindJSON(&answer); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, true
		}
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return nil, false
	}
	return &answer, true
}
