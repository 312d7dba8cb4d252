// Package api provides the REST API server for microtune
package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/james-see/microtune/pkg/detune"
	"github.com/james-see/microtune/pkg/notes"
	"github.com/james-see/microtune/pkg/pitch"
	"github.com/james-see/microtune/pkg/tuning"
)

// @title microtune API
// @version 1.0
// @description API for retuning resampler pitch-bend strings into microtonal tunings
// @host localhost:8080
// @BasePath /api/v1

// DefaultPort is the port the API listens on unless told otherwise
const DefaultPort = 8080

// maxTableNotes bounds the size of a tuning table response
const maxTableNotes = 256

// StartServer starts the API server on the specified port
func StartServer(port int) error {
	return NewRouter().Run(fmt.Sprintf(":%d", port))
}

// NewRouter returns the API routes
func NewRouter() *gin.Engine {
	r := gin.Default()

	// CORS middleware
	r.Use(corsMiddleware())

	// Health check
	r.GET("/health", healthCheck)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.POST("/pitch/decode", handleDecode)
		v1.POST("/pitch/encode", handleEncode)
		v1.POST("/detune", handleDetune)
		v1.GET("/tunings/edo/:n", handleEDOTable)
		v1.GET("/notes/:name", handleNote)
	}

	// Swagger docs
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// DecodeRequest is the body of a decode call
type DecodeRequest struct {
	Bend string `json:"bend"`
}

// EncodeRequest is the body of an encode call
type EncodeRequest struct {
	Cents []int `json:"cents" binding:"required"`
}

// DetuneRequest is the body of a detune call. Scale takes precedence over
// EDO; with neither the tuning is 12-EDO.
type DetuneRequest struct {
	Note   string    `json:"note" binding:"required"`
	Bend   string    `json:"bend"`
	EDO    int       `json:"edo"`
	Center int       `json:"center"`
	Scale  []float64 `json:"scale"`
}

// healthCheck godoc
// @Summary Health check endpoint
// @Description Returns the health status of the API
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "microtune",
	})
}

// handleDecode godoc
// @Summary Decode a pitch-bend string
// @Description Returns the cent offsets carried by a pitch-bend string
// @Tags pitch
// @Accept json
// @Produce json
// @Param request body DecodeRequest true "pitch-bend string"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /api/v1/pitch/decode [post]
func handleDecode(c *gin.Context) {
	var req DecodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	stream, err := pitch.Decode(req.Bend)
	warnings := []string{}
	if err != nil {
		warnings = append(warnings, err.Error())
	}

	cents := make([]int, len(stream))
	for i, v := range stream {
		cents[i] = int(v)
	}
	c.JSON(http.StatusOK, gin.H{
		"cents":    cents,
		"warnings": warnings,
	})
}

// handleEncode godoc
// @Summary Encode cent offsets
// @Description Returns the pitch-bend string for a list of cent offsets
// @Tags pitch
// @Accept json
// @Produce json
// @Param request body EncodeRequest true "cent offsets"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /api/v1/pitch/encode [post]
func handleEncode(c *gin.Context) {
	var req EncodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	stream := make(pitch.Stream, len(req.Cents))
	clipped := 0
	for i, v := range req.Cents {
		var hit bool
		stream[i], hit = pitch.Clamp(float64(v))
		if hit {
			clipped++
		}
	}

	bend, err := pitch.Encode(stream)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"bend":    bend,
		"clipped": clipped,
	})
}

// handleDetune godoc
// @Summary Retune a note
// @Description Returns the replacement note and pitch-bend string for a tuning
// @Tags detune
// @Accept json
// @Produce json
// @Param request body DetuneRequest true "note, bend and tuning"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /api/v1/detune [post]
func handleDetune(c *gin.Context) {
	var req DetuneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	src, err := requestTuning(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := detune.Transform(req.Note, req.Bend, src)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	warnings := []string{}
	for _, w := range result.Warnings {
		warnings = append(warnings, w.Error())
	}
	c.JSON(http.StatusOK, gin.H{
		"note":     result.Note,
		"bend":     result.Bend,
		"average":  result.Average,
		"clipped":  result.Clipped,
		"tuning":   src.Name(),
		"warnings": warnings,
	})
}

func requestTuning(req DetuneRequest) (*tuning.Source, error) {
	center := req.Center
	if center == 0 {
		center = notes.A4
	}
	switch {
	case len(req.Scale) > 0:
		return tuning.FromScale("custom", req.Scale, tuning.WithReference(center))
	case req.EDO != 0:
		return tuning.EqualDivision(req.EDO, tuning.WithReference(center))
	default:
		return tuning.EqualDivision(detune.DefaultDivisions, tuning.WithReference(center))
	}
}

// handleEDOTable godoc
// @Summary Tuning table for an equal division
// @Description Returns tuned pitches for a range of MIDI notes
// @Tags tunings
// @Produce json
// @Param n path int true "divisions of the octave"
// @Param from query int false "first MIDI note (default 60)"
// @Param to query int false "last MIDI note (default 72)"
// @Param center query int false "reference note (default 69)"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /api/v1/tunings/edo/{n} [get]
func handleEDOTable(c *gin.Context) {
	n, err := strconv.Atoi(c.Param("n"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "divisions must be an integer"})
		return
	}
	from, err1 := strconv.Atoi(c.DefaultQuery("from", "60"))
	to, err2 := strconv.Atoi(c.DefaultQuery("to", "72"))
	center, err3 := strconv.Atoi(c.DefaultQuery("center", strconv.Itoa(notes.A4)))
	if err1 != nil || err2 != nil || err3 != nil || to < from || to-from >= maxTableNotes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid note range"})
		return
	}

	src, err := tuning.EqualDivision(n, tuning.WithReference(center))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rows, err := tuning.Chart(src, from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"tuning": src.Name(),
		"notes":  rows,
	})
}

// handleNote godoc
// @Summary Look up a note name
// @Description Returns the MIDI index and 12-EDO position of a note name
// @Tags notes
// @Produce json
// @Param name path string true "note name, e.g. C#4 (percent-encode #)"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /api/v1/notes/{name} [get]
func handleNote(c *gin.Context) {
	name := c.Param("name")
	index, err := notes.ToIndex(name)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"name":    notes.Name(index),
		"index":   index,
		"cents12": notes.Cents12(index),
	})
}
