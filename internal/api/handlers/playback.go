package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"energy-dashboard/internal/api/middleware"
	"energy-dashboard/internal/api/models"
	"energy-dashboard/internal/metrics"
	"energy-dashboard/internal/playback"
)

var errNoDataset = errors.New("no decision dataset is loaded")

// PlaybackHandler exposes one playback engine over HTTP and streams
// every committed change to WebSocket peers.
type PlaybackHandler struct {
	engine      *playback.Engine
	hub         *Hub
	log         zerolog.Logger
	unsubscribe func()
}

// NewPlaybackHandler wires engine changes into hub and rec. engine may
// be nil when the server runs without a dataset; every playback route
// then answers 404 NO_DATASET.
func NewPlaybackHandler(engine *playback.Engine, hub *Hub, rec *metrics.Recorder, log zerolog.Logger) *PlaybackHandler {
	h := &PlaybackHandler{engine: engine, hub: hub, log: log, unsubscribe: func() {}}
	if engine != nil {
		h.unsubscribe = engine.OnChange(func(v playback.View) {
			if rec != nil {
				rec.RecordPlayback(v.Index, v.IsPlaying())
			}
			if hub != nil {
				hub.Broadcast(v)
			}
		})
	}
	return h
}

// Close detaches from the engine and disconnects stream peers.
func (h *PlaybackHandler) Close() {
	h.unsubscribe()
	if h.hub != nil {
		h.hub.Close()
	}
}

// Peers is the number of connected stream clients.
func (h *PlaybackHandler) Peers() int {
	if h.hub == nil {
		return 0
	}
	return h.hub.Len()
}

func (h *PlaybackHandler) ready(c *gin.Context) bool {
	if h.engine == nil {
		middleware.Abort(c, http.StatusNotFound, models.CodeNoDataset, errNoDataset)
		return false
	}
	return true
}

// GetView handles GET /api/v1/playback
func (h *PlaybackHandler) GetView(c *gin.Context) {
	if !h.ready(c) {
		return
	}
	c.JSON(http.StatusOK, h.engine.View())
}

// control adapts an engine command to a POST route answering with the
// resulting view.
func (h *PlaybackHandler) control(cmd func(*playback.Engine)) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !h.ready(c) {
			return
		}
		cmd(h.engine)
		c.JSON(http.StatusOK, h.engine.View())
	}
}

func (h *PlaybackHandler) Play() gin.HandlerFunc     { return h.control((*playback.Engine).Play) }
func (h *PlaybackHandler) Pause() gin.HandlerFunc    { return h.control((*playback.Engine).Pause) }
func (h *PlaybackHandler) Toggle() gin.HandlerFunc   { return h.control((*playback.Engine).Toggle) }
func (h *PlaybackHandler) Next() gin.HandlerFunc     { return h.control((*playback.Engine).Next) }
func (h *PlaybackHandler) Previous() gin.HandlerFunc { return h.control((*playback.Engine).Previous) }

// Seek handles POST /api/v1/playback/seek. Selecting a record from a
// list stops playback, so this maps to Select rather than Seek.
func (h *PlaybackHandler) Seek(c *gin.Context) {
	if !h.ready(c) {
		return
	}
	var req models.SeekRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.Abort(c, http.StatusBadRequest, models.CodeInvalidRequest, err)
		return
	}
	h.engine.Select(*req.Index)
	c.JSON(http.StatusOK, h.engine.View())
}

// Records handles GET /api/v1/playback/records
func (h *PlaybackHandler) Records(c *gin.Context) {
	if !h.ready(c) {
		return
	}
	var q models.RecordsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		middleware.Abort(c, http.StatusBadRequest, models.CodeInvalidRequest, err)
		return
	}
	resp := models.RecordsResponse{Order: "asc", Records: h.engine.Records()}
	if q.Order == "desc" {
		resp.Order = "desc"
		resp.Records = h.engine.LogView()
	}
	resp.Count = len(resp.Records)
	c.JSON(http.StatusOK, resp)
}

// Domain handles GET /api/v1/playback/domain
func (h *PlaybackHandler) Domain(c *gin.Context) {
	if !h.ready(c) {
		return
	}
	c.JSON(http.StatusOK, h.engine.View().Domain)
}

// Stream handles GET /api/v1/playback/stream. The peer first receives
// the current view, then one view per change.
func (h *PlaybackHandler) Stream(c *gin.Context) {
	if !h.ready(c) {
		return
	}
	if h.hub == nil {
		middleware.Abort(c, http.StatusNotFound, models.CodeNotFound, errors.New("streaming is disabled"))
		return
	}
	h.hub.Serve(c, h.engine.View())
}
