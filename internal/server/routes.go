package server

import (
	"encoding/hex"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/danmuck/runecheck/internal/config"
	"github.com/danmuck/runecheck/internal/observability"
	"github.com/danmuck/runecheck/internal/protocol/bytemap"
	"github.com/danmuck/runecheck/internal/protocol/codepoint"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// contextWindow is how many bytes either side of a failure are echoed back.
const contextWindow = 8

type spanView struct {
	Offset    int  `json:"offset"`
	Size      int  `json:"size"`
	CodePoint rune `json:"code_point"`
}

type decodeResponse struct {
	Count      int        `json:"count"`
	CodePoints []rune     `json:"code_points,omitempty"`
	Text       string     `json:"text,omitempty"`
	Spans      []spanView `json:"spans,omitempty"`
}

type decodeErrorResponse struct {
	Error       string `json:"error"`
	Offset      int    `json:"offset"`
	Reason      string `json:"reason"`
	Bytes       string `json:"bytes"`
	BytesOffset int    `json:"bytes_offset"`
}

type encodeRequest struct {
	CodePoints []rune `json:"code_points"`
}

type encodeResponse struct {
	Bytes    string `json:"bytes"`
	Size     int    `json:"size"`
	Rendered string `json:"rendered"`
}

func (s *Server) registerRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"uptime":  time.Since(s.appeared).String(),
			"service": s.cfg.ID,
			"version": "0.1.0",
		})
	})
	if s.cfg.MetricsEnabled {
		s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	v1 := s.router.Group("/v1")
	v1.POST("/decode", s.handleDecode)
	v1.POST("/encode", s.handleEncode)
}

func (s *Server) handleDecode(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, s.cfg.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "body exceeds max_body_bytes", "limit": tooLarge.Limit})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	render := strings.ToLower(strings.TrimSpace(c.DefaultQuery("render", s.cfg.Render)))
	switch render {
	case config.RenderCodePoints, config.RenderText, config.RenderSpans:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown render mode: " + render})
		return
	}

	spans, err := codepoint.DecodeSpans(body)
	if err != nil {
		var encErr *codepoint.InvalidEncodingError
		if !errors.As(err, &encErr) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		s.record(len(body), string(encErr.Reason))
		c.Set("reason", string(encErr.Reason))
		from, to := window(encErr.Offset, len(body))
		c.JSON(http.StatusUnprocessableEntity, decodeErrorResponse{
			Error:       err.Error(),
			Offset:      encErr.Offset,
			Reason:      string(encErr.Reason),
			Bytes:       bytemap.Render(body[from:to]),
			BytesOffset: from,
		})
		return
	}
	s.record(len(body), "")

	resp := decodeResponse{Count: len(spans)}
	switch render {
	case config.RenderText:
		resp.Text = string(body)
	case config.RenderSpans:
		resp.Spans = make([]spanView, 0, len(spans))
		for _, sp := range spans {
			resp.Spans = append(resp.Spans, spanView{Offset: sp.Offset, Size: sp.Size, CodePoint: sp.Rune})
		}
	default:
		resp.CodePoints = make([]rune, 0, len(spans))
		for _, sp := range spans {
			resp.CodePoints = append(resp.CodePoints, sp.Rune)
		}
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleEncode(c *gin.Context) {
	var req encodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	out, err := codepoint.Encode(req.CodePoints)
	if err != nil {
		var cpErr *codepoint.InvalidCodePointError
		if errors.As(err, &cpErr) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "index": cpErr.Index})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, encodeResponse{
		Bytes:    hex.EncodeToString(out),
		Size:     len(out),
		Rendered: bytemap.Render(out),
	})
}

func (s *Server) record(size int, reason string) {
	if s.cfg.MetricsEnabled {
		observability.RecordDecode("http", size, reason)
	}
}

// window bounds the bytes echoed around offset.
func window(offset, n int) (int, int) {
	from := max(offset-contextWindow, 0)
	to := min(offset+contextWindow, n)
	return from, to
}
