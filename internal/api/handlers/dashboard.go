package handlers

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
)

const placeholderPage = `<html>
  <body style="font-family: Arial; padding: 50px; text-align: center;">
    <h1>Dashboard is not available yet</h1>
    <p>Place <code>dashboard.html</code> next to the server or set <code>DASHBOARD_PATH</code>.</p>
    <p><a href="/health">Check API health</a></p>
  </body>
</html>`

type DashboardHandler struct {
	path string
}

func NewDashboardHandler(path string) *DashboardHandler {
	return &DashboardHandler{path: path}
}

// Serve returns the dashboard page, or a placeholder when the file is missing
func (h *DashboardHandler) Serve(c *gin.Context) {
	if info, err := os.Stat(h.path); err == nil && !info.IsDir() {
		c.File(h.path)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(placeholderPage))
}
