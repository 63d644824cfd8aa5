package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/vinifvision/alerta-conecta-mobile/internal/auth"
	"github.com/vinifvision/alerta-conecta-mobile/internal/geocode"
	"github.com/vinifvision/alerta-conecta-mobile/internal/models"
	"github.com/vinifvision/alerta-conecta-mobile/internal/service"
	"github.com/vinifvision/alerta-conecta-mobile/internal/upstream"
)

type Handler struct {
	Store     upstream.IncidentStore
	Auth      auth.Authenticator
	Geocoder  geocode.Geocoder
	Validator *validator.Validate
	Logger    zerolog.Logger
}

// pinger is implemented by stores with a real backing connection (Postgres).
type pinger interface {
	Ping(ctx context.Context) error
}

func (h *Handler) Healthz(c *gin.Context) {
	if p, ok := h.Store.(pinger); ok {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()
		if err := p.Ping(ctx); err != nil {
			writeError(c, http.StatusServiceUnavailable, "DB_UNAVAILABLE", "Banco de dados indisponível", err.Error())
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type LoginRequest struct {
	CPF  string `json:"cpf" validate:"required"`
	Pass string `json:"pass" validate:"required"`
}

// @Summary Login
// @Description Authenticate an operator by CPF and password
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "credentials"
// @Success 200 {object} models.User
// @Failure 401 {object} map[string]any
// @Router /api/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Payload inválido", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "CPF e senha são obrigatórios", err.Error())
		return
	}

	user, err := h.Auth.Login(c.Request.Context(), req.CPF, req.Pass)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeError(c, http.StatusUnauthorized, "UNAUTHORIZED", err.Error(), nil)
			return
		}
		h.Logger.Error().Err(err).Msg("login upstream failed")
		writeError(c, http.StatusBadGateway, "UPSTREAM_ERROR", "Falha ao autenticar no serviço de usuários", err.Error())
		return
	}
	c.JSON(http.StatusOK, user)
}

// @Summary List incidents
// @Description Filtered, grouped-by-status incident list
// @Tags incidents
// @Produce json
// @Param search query string false "id or title substring"
// @Param date_from query string false "DD/MM/AAAA"
// @Param date_to query string false "DD/MM/AAAA"
// @Param status query string false "Em_andamento | Encerrada | Cancelada"
// @Param type query int false "incident type id"
// @Param region query string false "region or address substring"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Router /api/incidents [get]
func (h *Handler) IncidentsList(c *gin.Context) {
	criteria := models.FilterCriteria{
		Region: c.Query("region"),
	}

	if raw := strings.TrimSpace(c.Query("date_from")); raw != "" {
		t, err := service.ParseBRDate(raw)
		if err != nil {
			writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "date_from inválida (DD/MM/AAAA)", nil)
			return
		}
		criteria.DateFrom = t
	}
	if raw := strings.TrimSpace(c.Query("date_to")); raw != "" {
		t, err := service.ParseBRDate(raw)
		if err != nil {
			writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "date_to inválida (DD/MM/AAAA)", nil)
			return
		}
		criteria.DateTo = t
	}
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		st, ok := models.ParseStatus(raw)
		if !ok {
			writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "status desconhecido", nil)
			return
		}
		criteria.Status = st
	}
	if raw := strings.TrimSpace(c.Query("type")); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "type deve ser numérico", nil)
			return
		}
		criteria.Type = &id
	}

	all, err := h.Store.GetAll(c.Request.Context())
	if err != nil {
		h.Logger.Error().Err(err).Msg("failed to load incidents")
		writeError(c, http.StatusBadGateway, "UPSTREAM_ERROR", "Falha ao carregar ocorrências", err.Error())
		return
	}

	sections := service.Project(all, c.Query("search"), criteria)
	total := 0
	for _, s := range sections {
		total += s.Count
	}
	c.JSON(http.StatusOK, gin.H{"sections": sections, "total": total})
}

// @Summary Incident details
// @Tags incidents
// @Produce json
// @Param id path int true "incident id"
// @Success 200 {object} models.Incident
// @Failure 404 {object} map[string]any
// @Router /api/incidents/{id} [get]
func (h *Handler) IncidentDetail(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "id deve ser numérico", nil)
		return
	}

	inc, err := h.Store.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, upstream.ErrNotFound) {
			writeError(c, http.StatusNotFound, "NOT_FOUND", "Ocorrência não encontrada", nil)
			return
		}
		h.Logger.Error().Err(err).Int("id", id).Msg("failed to load incident")
		writeError(c, http.StatusBadGateway, "UPSTREAM_ERROR", "Falha ao carregar ocorrência", err.Error())
		return
	}
	c.JSON(http.StatusOK, inc)
}

// IncidentForm mirrors the register/edit form. Date and time accept either the
// masked form (25/10/2025, 14:30) or a raw digit stream; the mask is applied
// server-side before validation.
type IncidentForm struct {
	Title      string   `json:"title"`
	TypeID     *int     `json:"type_id"`
	TypeName   string   `json:"type_name"`
	Date       string   `json:"date"`
	Time       string   `json:"time"`
	Priority   string   `json:"priority"`
	Victims    string   `json:"victims"`
	Details    string   `json:"details"`
	Status     string   `json:"status"`
	Street     string   `json:"street"`
	Number     string   `json:"number"`
	Complement string   `json:"complement"`
	DistrictID string   `json:"district_id"`
	Lat        *float64 `json:"lat"`
	Lng        *float64 `json:"lng"`
}

func (f IncidentForm) toInput(id int) service.FormInput {
	return service.FormInput{
		ID:         id,
		Title:      f.Title,
		TypeID:     f.TypeID,
		TypeName:   f.TypeName,
		Date:       service.FormatDateDigits(f.Date),
		Time:       service.FormatTimeDigits(f.Time),
		Priority:   f.Priority,
		Victims:    f.Victims,
		Details:    f.Details,
		Status:     f.Status,
		Street:     f.Street,
		Number:     f.Number,
		Complement: f.Complement,
		DistrictID: f.DistrictID,
		Lat:        f.Lat,
		Lng:        f.Lng,
	}
}

// @Summary Register an incident
// @Tags incidents
// @Accept json
// @Produce json
// @Param incident body IncidentForm true "incident form"
// @Success 201 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Failure 502 {object} map[string]any
// @Router /api/incidents [post]
func (h *Handler) IncidentCreate(c *gin.Context) {
	var form IncidentForm
	if err := c.ShouldBindJSON(&form); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Payload inválido", err.Error())
		return
	}

	sub, err := service.BuildSubmission(form.toInput(0), service.ModeCreate)
	if err != nil {
		writeValidationError(c, err)
		return
	}

	created, err := h.Store.Create(c.Request.Context(), sub)
	if err != nil {
		h.writeStoreError(c, err)
		return
	}
	if created == nil {
		// The legacy contract acknowledges with an empty body.
		c.JSON(http.StatusCreated, gin.H{"status": "ok"})
		return
	}
	c.JSON(http.StatusCreated, created)
}

// @Summary Update an incident
// @Tags incidents
// @Accept json
// @Produce json
// @Param id path int true "incident id"
// @Param incident body IncidentForm true "incident form"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Failure 404 {object} map[string]any
// @Router /api/incidents/{id} [put]
func (h *Handler) IncidentUpdate(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "id deve ser numérico", nil)
		return
	}

	var form IncidentForm
	if err := c.ShouldBindJSON(&form); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Payload inválido", err.Error())
		return
	}

	sub, err := service.BuildSubmission(form.toInput(id), service.ModeUpdate)
	if err != nil {
		writeValidationError(c, err)
		return
	}

	if err := h.Store.Update(c.Request.Context(), id, sub); err != nil {
		if errors.Is(err, upstream.ErrNotFound) {
			writeError(c, http.StatusNotFound, "NOT_FOUND", "Ocorrência não encontrada", nil)
			return
		}
		h.writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// @Summary Form options catalog
// @Tags options
// @Produce json
// @Success 200 {object} upstream.FormOptions
// @Router /api/options [get]
func (h *Handler) OptionsCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, upstream.Options())
}

// @Summary Geocode an address
// @Tags geocode
// @Produce json
// @Param q query string false "free-text query"
// @Param street query string false "street (used when q is empty)"
// @Param number query string false "number"
// @Param city query string false "city"
// @Success 200 {object} map[string]any
// @Failure 404 {object} map[string]any
// @Router /api/geocode/search [get]
func (h *Handler) GeocodeSearch(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		query = geocode.BuildQuery(c.Query("street"), c.Query("number"), c.Query("city"))
	}
	if query == "" {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "informe q ou street/city", nil)
		return
	}

	res, err := h.Geocoder.Search(c.Request.Context(), query)
	if err != nil {
		if errors.Is(err, geocode.ErrNotFound) {
			writeError(c, http.StatusNotFound, "NOT_FOUND", "Endereço não encontrado", nil)
			return
		}
		h.Logger.Error().Err(err).Str("query", query).Msg("geocode search failed")
		writeError(c, http.StatusBadGateway, "UPSTREAM_ERROR", "Falha ao consultar o geocodificador", err.Error())
		return
	}
	c.JSON(http.StatusOK, geocodeResponse(res))
}

// @Summary Reverse geocode coordinates
// @Tags geocode
// @Produce json
// @Param lat query number true "latitude"
// @Param lon query number true "longitude"
// @Success 200 {object} map[string]any
// @Failure 404 {object} map[string]any
// @Router /api/geocode/reverse [get]
func (h *Handler) GeocodeReverse(c *gin.Context) {
	lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
	lon, lonErr := strconv.ParseFloat(c.Query("lon"), 64)
	if latErr != nil || lonErr != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "lat e lon devem ser numéricos", nil)
		return
	}

	res, err := h.Geocoder.Reverse(c.Request.Context(), lat, lon)
	if err != nil {
		if errors.Is(err, geocode.ErrNotFound) {
			writeError(c, http.StatusNotFound, "NOT_FOUND", "Endereço não encontrado", nil)
			return
		}
		h.Logger.Error().Err(err).Float64("lat", lat).Float64("lon", lon).Msg("reverse geocode failed")
		writeError(c, http.StatusBadGateway, "UPSTREAM_ERROR", "Falha ao consultar o geocodificador", err.Error())
		return
	}
	c.JSON(http.StatusOK, geocodeResponse(res))
}

func geocodeResponse(res geocode.Result) gin.H {
	return gin.H{
		"lat":          res.Lat,
		"lon":          res.Lon,
		"display_name": res.DisplayName,
		"confidence":   res.Confidence,
	}
}

func writeValidationError(c *gin.Context, err error) {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", verr.Message, gin.H{"field": verr.Field})
		return
	}
	writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
}

// writeStoreError maps a store failure onto the response. Upstream rejections
// keep their status and raw body so the client sees what the backend said.
func (h *Handler) writeStoreError(c *gin.Context, err error) {
	var serr *upstream.SubmissionError
	if errors.As(err, &serr) {
		h.Logger.Warn().Int("upstream_status", serr.StatusCode).Msg("upstream rejected submission")
		writeError(c, http.StatusBadGateway, "UPSTREAM_ERROR", "O servidor recusou a ocorrência", gin.H{
			"upstream_status": serr.StatusCode,
			"upstream_body":   serr.Body,
		})
		return
	}
	h.Logger.Error().Err(err).Msg("store operation failed")
	writeError(c, http.StatusInternalServerError, "STORE_ERROR", "Falha ao gravar ocorrência", err.Error())
}

func writeError(c *gin.Context, status int, code string, message string, details any) {
	c.JSON(status, gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}
