package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/daily-briefing/internal/domain/auth"
	"github.com/yanqian/daily-briefing/internal/domain/briefing"
	"github.com/yanqian/daily-briefing/internal/domain/news"
	"github.com/yanqian/daily-briefing/internal/domain/onboarding"
	"github.com/yanqian/daily-briefing/internal/domain/profile"
	"github.com/yanqian/daily-briefing/internal/domain/weather"
	apperrors "github.com/yanqian/daily-briefing/pkg/errors"
)

// Handler wires the HTTP transport to domain services.
type Handler struct {
	authSvc       auth.Service
	profileSvc    profile.Service
	onboardingSvc onboarding.Service
	weatherSvc    weather.Service
	briefingSvc   briefing.Service
	logger        *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(
	authSvc auth.Service,
	profileSvc profile.Service,
	onboardingSvc onboarding.Service,
	weatherSvc weather.Service,
	briefingSvc briefing.Service,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		authSvc:       authSvc,
		profileSvc:    profileSvc,
		onboardingSvc: onboardingSvc,
		weatherSvc:    weatherSvc,
		briefingSvc:   briefingSvc,
		logger:        logger.With("component", "http.handler"),
	}
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Register creates an account.
func (h *Handler) Register(c *gin.Context) {
	var req auth.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	user, err := h.authSvc.Register(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, fromDomainError(err, "register_failed"))
		return
	}
	c.JSON(http.StatusCreated, user)
}

// Login exchanges credentials for a token pair.
func (h *Handler) Login(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	resp, err := h.authSvc.Login(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, fromDomainError(err, "login_failed"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Refresh exchanges a refresh token for a new token pair.
func (h *Handler) Refresh(c *gin.Context) {
	var req auth.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	resp, err := h.authSvc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		abortWithError(c, fromDomainError(err, "refresh_failed"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Me returns the signed-in account.
func (h *Handler) Me(c *gin.Context) {
	claims, ok := h.requireClaims(c)
	if !ok {
		return
	}
	user, err := h.authSvc.Me(c.Request.Context(), claims.UserID)
	if err != nil {
		abortWithError(c, fromDomainError(err, "auth_failed"))
		return
	}
	c.JSON(http.StatusOK, user)
}

// Catalog lists the selectable regions and news categories.
func (h *Handler) Catalog(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"regions":    weather.Prefectures,
		"categories": news.Categories,
	})
}

// Weather returns the standalone forecast view for a region.
func (h *Handler) Weather(c *gin.Context) {
	region := strings.TrimSpace(c.Query("region"))
	if region == "" {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, apperrors.CodeInvalidInput, "region is required", nil))
		return
	}
	day, ok := dayParam(c)
	if !ok {
		return
	}
	outlook, err := h.weatherSvc.Outlook(c.Request.Context(), region)
	if err != nil {
		abortWithError(c, fromDomainError(err, "weather_failed"))
		return
	}
	view, err := weather.SelectDay(outlook.Daily, day)
	if err != nil {
		abortWithError(c, fromDomainError(err, "weather_failed"))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"region":    region,
		"location":  outlook.Location,
		"current":   outlook.Current,
		"daily":     outlook.Daily,
		"day":       view,
		"fetchedAt": outlook.FetchedAt,
	})
}

// WeatherRaw returns the last raw provider payloads archived for a region.
func (h *Handler) WeatherRaw(c *gin.Context) {
	region := strings.TrimSpace(c.Query("region"))
	if region == "" {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, apperrors.CodeInvalidInput, "region is required", nil))
		return
	}
	snapshot, err := h.weatherSvc.Raw(c.Request.Context(), region)
	if err != nil {
		abortWithError(c, fromDomainError(err, "weather_failed"))
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

// Profile returns the caller's stored onboarding answers.
func (h *Handler) Profile(c *gin.Context) {
	claims, ok := h.requireClaims(c)
	if !ok {
		return
	}
	p, err := h.profileSvc.Get(c.Request.Context(), claims.UserID)
	if err != nil {
		abortWithError(c, fromDomainError(err, "profile_failed"))
		return
	}
	c.JSON(http.StatusOK, p)
}

// Briefing assembles the caller's daily briefing.
func (h *Handler) Briefing(c *gin.Context) {
	claims, ok := h.requireClaims(c)
	if !ok {
		return
	}
	day, ok := dayParam(c)
	if !ok {
		return
	}
	out, err := h.briefingSvc.Assemble(c.Request.Context(), claims.UserID, day, c.Query("region"))
	if err != nil {
		abortWithError(c, fromDomainError(err, "briefing_failed"))
		return
	}
	c.JSON(http.StatusOK, out)
}

// dayParam reads the optional day query parameter, defaulting to today.
func dayParam(c *gin.Context) (int, bool) {
	raw := strings.TrimSpace(c.Query("day"))
	if raw == "" {
		return 0, true
	}
	day, err := strconv.Atoi(raw)
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, apperrors.CodeInvalidInput, "day must be an integer", err))
		return 0, false
	}
	return day, true
}
