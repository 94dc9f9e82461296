package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/aguxez/foodplates/models"
	"github.com/aguxez/foodplates/store"
)

const describePath = "/describe"

// Describer drafts a menu description for a plate.
type Describer interface {
	Describe(ctx context.Context, d models.Draft) (string, error)
}

type describeResponse struct {
	Description string `json:"description"`
}

// FoodHandler serves the /foods collection the dashboard talks to.
type FoodHandler struct {
	store     store.FoodStore
	describer Describer
	log       zerolog.Logger
}

// NewFoodHandler wires the handler. describer may be nil, in which case /describe
// answers 503.
func NewFoodHandler(s store.FoodStore, describer Describer, log zerolog.Logger) *FoodHandler {
	return &FoodHandler{store: s, describer: describer, log: log}
}

// NewRouter builds a gin engine with the food routes registered.
func NewRouter(h *FoodHandler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), h.requestLogger())
	h.RegisterRoutes(r)
	return r
}

func (h *FoodHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	foods := r.Group(foodsPath)
	{
		foods.GET("", h.list)
		foods.POST("", h.create)
		foods.GET("/:id", h.get)
		foods.PUT("/:id", h.replace)
		foods.DELETE("/:id", h.delete)
	}

	r.POST(describePath, h.describe)
}

func (h *FoodHandler) list(c *gin.Context) {
	foods, err := h.store.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	if foods == nil {
		foods = []models.FoodPlate{}
	}
	c.JSON(http.StatusOK, foods)
}

func (h *FoodHandler) get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	p, err := h.store.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *FoodHandler) create(c *gin.Context) {
	p, ok := bindPlate(c)
	if !ok {
		return
	}
	created, err := h.store.Create(c.Request.Context(), p)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.log.Info().Int("id", created.ID).Str("name", created.Name).Msg("food plate created")
	c.JSON(http.StatusCreated, created)
}

func (h *FoodHandler) replace(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	p, ok := bindPlate(c)
	if !ok {
		return
	}
	updated, err := h.store.Replace(c.Request.Context(), id, p)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.log.Info().Int("id", updated.ID).Msg("food plate replaced")
	c.JSON(http.StatusOK, updated)
}

func (h *FoodHandler) delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.store.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	h.log.Info().Int("id", id).Msg("food plate deleted")
	c.JSON(http.StatusOK, gin.H{})
}

func (h *FoodHandler) describe(c *gin.Context) {
	if h.describer == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "description agent not configured"})
		return
	}
	var d models.Draft
	if err := c.ShouldBindJSON(&d); err != nil || strings.TrimSpace(d.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}
	text, err := h.describer.Describe(c.Request.Context(), d)
	if err != nil {
		h.log.Error().Err(err).Str("name", d.Name).Msg("describe failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, describeResponse{Description: text})
}

func (h *FoodHandler) fail(c *gin.Context, err error) {
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	h.log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("store error")
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

func (h *FoodHandler) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		h.log.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Msg("request")
	}
}

func pathID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func bindPlate(c *gin.Context) (models.FoodPlate, bool) {
	var p models.FoodPlate
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body: " + err.Error()})
		return models.FoodPlate{}, false
	}
	if _, err := models.ParsePrice(p.Price); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return models.FoodPlate{}, false
	}
	return p, true
}
