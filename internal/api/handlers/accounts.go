package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/codyseavey/trading-dashboard/internal/apperr"
	"github.com/codyseavey/trading-dashboard/internal/metrics"
	"github.com/codyseavey/trading-dashboard/internal/models"
	"github.com/codyseavey/trading-dashboard/internal/services"
)

type AccountHandler struct {
	accountService *services.AccountService
	log            *zap.SugaredLogger
}

func NewAccountHandler(accountService *services.AccountService, log *zap.SugaredLogger) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		log:            log,
	}
}

// overviewResponse carries the zeroed aggregate alongside an error so dashboards never see null fields
type overviewResponse struct {
	models.AccountsOverview
	Error string `json:"error,omitempty"`
}

type statsResponse struct {
	models.Stats
	Error string `json:"error,omitempty"`
}

// ErrorHeader carries the failure message on endpoints whose body is a JSON array
const ErrorHeader = "X-Error"

// respondListError keeps the empty array body of list endpoints and moves the message to ErrorHeader
func (h *AccountHandler) respondListError(c *gin.Context, err error, empty any) {
	h.log.Errorw("request failed", "path", c.FullPath(), "error", err)
	c.Header(ErrorHeader, err.Error())
	c.JSON(apperr.StatusCode(err), empty)
}

// respondError answers with the status mapped from err's type
func (h *AccountHandler) respondError(c *gin.Context, err error) {
	status := apperr.StatusCode(err)
	if status >= http.StatusInternalServerError {
		h.log.Errorw("request failed", "path", c.FullPath(), "error", err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// UpdateAccount ingests one terminal report
func (h *AccountHandler) UpdateAccount(c *gin.Context) {
	var report models.AccountReport
	if err := c.ShouldBindJSON(&report); err != nil {
		metrics.IngestsTotal.WithLabelValues("invalid").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body: " + err.Error()})
		return
	}

	acc, err := h.accountService.Ingest(c.Request.Context(), &report)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": fmt.Sprintf("Account %s updated", acc.AccountKey),
		"data":    acc,
	})
}

// GetAccounts returns the full aggregate, sorted by ?sort= and ?order=
func (h *AccountHandler) GetAccounts(c *gin.Context) {
	sortField := c.DefaultQuery("sort", services.SortAccountNumber)
	order := c.DefaultQuery("order", "asc")

	overview, err := h.accountService.Overview(c.Request.Context(), sortField, order)
	if err != nil {
		h.log.Errorw("failed to build accounts overview", "error", err)
		c.JSON(apperr.StatusCode(err), overviewResponse{AccountsOverview: overview, Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, overviewResponse{AccountsOverview: overview})
}

// GetStats returns win rate and profit distribution
func (h *AccountHandler) GetStats(c *gin.Context) {
	stats, err := h.accountService.Stats(c.Request.Context())
	if err != nil {
		h.log.Errorw("failed to build stats", "error", err)
		c.JSON(apperr.StatusCode(err), statsResponse{Stats: stats, Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, statsResponse{Stats: stats})
}

// GetSummary returns the per-group rollup
func (h *AccountHandler) GetSummary(c *gin.Context) {
	summary, err := h.accountService.Summary(c.Request.Context())
	if err != nil {
		h.respondListError(c, err, summary)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetAccount returns the stored record for one account
func (h *AccountHandler) GetAccount(c *gin.Context) {
	key, ok := h.accountKey(c)
	if !ok {
		return
	}

	acc, err := h.accountService.GetAccount(c.Request.Context(), key)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, acc)
}

// GetAccountHistory returns daily snapshots for the last ?days= days (default 30)
func (h *AccountHandler) GetAccountHistory(c *gin.Context) {
	key, ok := h.accountKey(c)
	if !ok {
		return
	}

	days := services.DefaultHistoryDays
	if v := c.Query("days"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			days = n
		}
	}

	history, err := h.accountService.History(c.Request.Context(), key, days)
	if errors.Is(err, services.ErrHistoryUnavailable) {
		c.JSON(http.StatusNotImplemented, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		h.respondListError(c, err, history)
		return
	}

	c.JSON(http.StatusOK, history)
}

// accountKey reads the :id path parameter; numeric deployments reject non-integer ids
func (h *AccountHandler) accountKey(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "account id is required"})
		return "", false
	}

	if h.accountService.KeyMode() == models.KeyModeNumber {
		n, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid account number"})
			return "", false
		}
		return strconv.FormatInt(n, 10), true
	}
	return id, true
}

// Health reports store reachability; failures are returned as data with a 500
func (h *AccountHandler) Health(c *gin.Context) {
	status := h.accountService.Health(c.Request.Context())
	if !status.Healthy() {
		c.JSON(http.StatusInternalServerError, status)
		return
	}
	c.JSON(http.StatusOK, status)
}
