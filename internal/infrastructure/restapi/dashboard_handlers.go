package restapi

import (
	"embed"
	"errors"
	"html/template"
	"io"
	"net/http"
	"strings"

	"yolodash/internal/app/port"
	"yolodash/internal/app/view"
	"yolodash/internal/domain/entity"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

//go:embed templates/page.html
var templatesFS embed.FS

// PageTemplate is the HTML shell that hosts the rendered dashboard.
var PageTemplate = template.Must(template.New("page.html").ParseFS(templatesFS, "templates/page.html"))

// SectionRequest is the body of POST /actions/section.
type SectionRequest struct {
	Section string `json:"section" form:"section" binding:"required,oneof=Home Shade home shade"`
}

// DashboardHandler serves the dashboard page and its actions.
type DashboardHandler struct {
	dashboard port.Dashboard
	opts      view.Options
	logger    *zap.Logger
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboard port.Dashboard, opts view.Options, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboard: dashboard,
		opts:      opts,
		logger:    logger.Named("DashboardHandler"),
	}
}

func (h *DashboardHandler) render(snap entity.Snapshot) string {
	return view.RenderHTML(view.Render(snap, h.opts))
}

// GetPageHandler renders the full page.
func (h *DashboardHandler) GetPageHandler(c *gin.Context) {
	c.HTML(http.StatusOK, "page.html", gin.H{
		"Title": h.opts.Title,
		"Body":  template.HTML(h.render(h.dashboard.Snapshot())),
	})
}

// GetFragmentHandler renders only the dashboard tree.
func (h *DashboardHandler) GetFragmentHandler(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(h.render(h.dashboard.Snapshot())))
}

// GetStateHandler returns the current snapshot as JSON.
func (h *DashboardHandler) GetStateHandler(c *gin.Context) {
	c.JSON(http.StatusOK, h.dashboard.Snapshot())
}

// GetEventsHandler streams a re-rendered fragment after every state change.
func (h *DashboardHandler) GetEventsHandler(c *gin.Context) {
	updates, cancel := h.dashboard.Subscribe()
	defer cancel()

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")

	// Send the current state first so a reconnecting client is never stale.
	c.SSEvent("render", h.render(h.dashboard.Snapshot()))
	c.Writer.Flush()

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case snap, ok := <-updates:
			if !ok {
				return false
			}
			c.SSEvent("render", h.render(snap))
			return true
		}
	})
	h.logger.Debug("Event stream closed", zap.String("clientIP", c.ClientIP()))
}

// PostActionHandler returns a handler running action.
func (h *DashboardHandler) PostActionHandler(action view.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch action {
		case view.ActionConnect:
			h.dashboard.Connect()
		case view.ActionDisconnect:
			h.dashboard.Disconnect()
		case view.ActionSelectHome:
			if !h.selectSection(c, entity.SectionHome) {
				return
			}
		case view.ActionSelectShade:
			if !h.selectSection(c, entity.SectionShade) {
				return
			}
		case view.ActionRefreshPrice:
			h.dashboard.RefreshPrice()
		case view.ActionRefreshBatch:
			h.dashboard.RefreshBatchPrices()
		default:
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown action"})
			return
		}
		h.respond(c)
	}
}

// PostSectionHandler selects the section named in the request body.
func (h *DashboardHandler) PostSectionHandler(c *gin.Context) {
	var req SectionRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	section, err := entity.ParseSection(req.Section)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !h.selectSection(c, section) {
		return
	}
	h.respond(c)
}

// PostRefreshAllHandler starts both price fetches.
func (h *DashboardHandler) PostRefreshAllHandler(c *gin.Context) {
	h.dashboard.RefreshAll()
	h.respond(c)
}

func (h *DashboardHandler) selectSection(c *gin.Context, section entity.Section) bool {
	if err := h.dashboard.SelectSection(section); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, entity.ErrUnknownSection) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return false
	}
	return true
}

// respond answers an action: JSON clients get the snapshot, form posts are
// redirected back to the page.
func (h *DashboardHandler) respond(c *gin.Context) {
	if wantsJSON(c) {
		c.JSON(http.StatusOK, h.dashboard.Snapshot())
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func wantsJSON(c *gin.Context) bool {
	return strings.Contains(c.GetHeader("Accept"), "application/json") ||
		strings.HasPrefix(c.ContentType(), "application/json")
}
