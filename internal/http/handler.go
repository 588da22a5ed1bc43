// Package http exposes the coordinator operations over a JSON API.
package http

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adilzhm/garagelog/internal/due"
	"github.com/adilzhm/garagelog/internal/http/middleware"
	"github.com/adilzhm/garagelog/internal/ledger"
	"github.com/adilzhm/garagelog/internal/models"
	"github.com/adilzhm/garagelog/internal/report"
)

type Handler struct {
	coord   *ledger.Coordinator
	reports *report.Generator
}

func NewHandler(coord *ledger.Coordinator, reports *report.Generator) *Handler {
	return &Handler{coord: coord, reports: reports}
}

func (h *Handler) Register(api *gin.RouterGroup) {
	api.GET("/vehicles", h.listVehicles)
	api.POST("/vehicles", h.addVehicle)
	api.GET("/vehicles/:id", h.getVehicle)
	api.PUT("/vehicles/:id", h.updateVehicle)
	api.DELETE("/vehicles/:id", h.deleteVehicle)
	api.GET("/vehicles/:id/report", h.vehicleReport)
	api.POST("/vehicles/:id/trips", h.addTrip)
	api.POST("/vehicles/:id/services", h.performService)
	api.DELETE("/trips/:id", h.deleteTrip)
	api.POST("/refresh", h.refresh)
}

type vehicleResponse struct {
	ID                             string            `json:"id"`
	Class                          string            `json:"class"`
	Plate                          string            `json:"plate"`
	TotalDistance                  float64           `json:"total_distance"`
	LastOilServiceDistance         float64           `json:"last_oil_service_distance"`
	LastMaintenanceServiceDistance float64           `json:"last_maintenance_service_distance"`
	OilDue                         bool              `json:"oil_due"`
	MaintenanceDue                 bool              `json:"maintenance_due"`
	Trips                          []tripResponse    `json:"trips,omitempty"`
	History                        []serviceLogEntry `json:"history,omitempty"`
}

type tripResponse struct {
	ID       string  `json:"id"`
	Date     string  `json:"date"`
	Distance float64 `json:"distance"`
	Label    string  `json:"label,omitempty"`
}

type serviceLogEntry struct {
	ID               string  `json:"id"`
	Kind             string  `json:"kind"`
	Date             string  `json:"date"`
	MileageAtService float64 `json:"mileage_at_service"`
	Notes            string  `json:"notes,omitempty"`
}

func toVehicleResponse(v *models.Vehicle) vehicleResponse {
	status := due.Evaluate(v)
	resp := vehicleResponse{
		ID:                             v.ID,
		Class:                          string(v.Class),
		Plate:                          v.Plate,
		TotalDistance:                  v.TotalDistance,
		LastOilServiceDistance:         v.LastOilServiceDistance,
		LastMaintenanceServiceDistance: v.LastMaintenanceServiceDistance,
		OilDue:                         status.OilDue,
		MaintenanceDue:                 status.MaintenanceDue,
	}
	for _, t := range v.Trips {
		resp.Trips = append(resp.Trips, tripResponse{
			ID:       t.ID,
			Date:     t.Date.Format(time.RFC3339),
			Distance: t.Distance,
			Label:    t.Label,
		})
	}
	for _, e := range v.History {
		resp.History = append(resp.History, serviceLogEntry{
			ID:               e.ID,
			Kind:             string(e.Kind),
			Date:             e.Date.Format(time.RFC3339),
			MileageAtService: e.MileageAtService,
			Notes:            e.Notes,
		})
	}
	return resp
}

func (h *Handler) listVehicles(c *gin.Context) {
	ownerID := middleware.OwnerID(c)
	force := c.Query("refresh") == "1"

	vehicles, err := h.coord.ListVehicles(c.Request.Context(), ownerID, force)
	if err != nil {
		h.handleError(c, err)
		return
	}

	out := make([]vehicleResponse, 0, len(vehicles))
	for _, v := range vehicles {
		out = append(out, toVehicleResponse(v))
	}
	c.JSON(http.StatusOK, gin.H{"vehicles": out})
}

type vehicleRequest struct {
	Class string `json:"class" binding:"required"`
	Plate string `json:"plate" binding:"required"`
}

func (h *Handler) addVehicle(c *gin.Context) {
	var req vehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	class, err := models.ParseVehicleClass(req.Class)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	v, err := h.coord.AddVehicle(c.Request.Context(), middleware.OwnerID(c), class, req.Plate)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toVehicleResponse(v))
}

func (h *Handler) getVehicle(c *gin.Context) {
	v, err := h.coord.GetVehicle(c.Request.Context(), middleware.OwnerID(c), c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toVehicleResponse(v))
}

func (h *Handler) updateVehicle(c *gin.Context) {
	var req vehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	class, err := models.ParseVehicleClass(req.Class)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ownerID := middleware.OwnerID(c)
	vehicleID := c.Param("id")
	if err := h.coord.UpdateVehicle(c.Request.Context(), ownerID, vehicleID, class, req.Plate); err != nil {
		h.handleError(c, err)
		return
	}

	v, err := h.coord.GetVehicle(c.Request.Context(), ownerID, vehicleID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toVehicleResponse(v))
}

func (h *Handler) deleteVehicle(c *gin.Context) {
	if err := h.coord.DeleteVehicle(c.Request.Context(), middleware.OwnerID(c), c.Param("id")); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type addTripRequest struct {
	Date     string   `json:"date" binding:"required"`
	Distance *float64 `json:"distance" binding:"required"`
	Label    string   `json:"label"`
}

func (h *Handler) addTrip(c *gin.Context) {
	var req addTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	date, err := time.Parse(time.RFC3339, req.Date)
	if err != nil {
		// Accept date-only values as well.
		date, err = time.Parse("2006-01-02", req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
			return
		}
	}

	res, err := h.coord.AddTrip(c.Request.Context(), middleware.OwnerID(c), c.Param("id"), ledger.TripInput{
		Date:     date,
		Distance: *req.Distance,
		Label:    req.Label,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	body := gin.H{"trip": tripResponse{
		ID:       res.Trip.ID,
		Date:     res.Trip.Date.Format(time.RFC3339),
		Distance: res.Trip.Distance,
		Label:    res.Trip.Label,
	}}
	if res.Warning != nil {
		body["warning"] = res.Warning.Error()
	}
	c.JSON(http.StatusCreated, body)
}

func (h *Handler) deleteTrip(c *gin.Context) {
	res, err := h.coord.DeleteTrip(c.Request.Context(), middleware.OwnerID(c), c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	body := gin.H{}
	if res.Warning != nil {
		body["warning"] = res.Warning.Error()
	}
	c.JSON(http.StatusOK, body)
}

type performServiceRequest struct {
	Kind  string `json:"kind" binding:"required"`
	Notes string `json:"notes"`
}

func (h *Handler) performService(c *gin.Context) {
	var req performServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	kind, err := models.ParseServiceKind(req.Kind)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.coord.PerformService(c.Request.Context(), middleware.OwnerID(c), c.Param("id"), kind, req.Notes)
	if err != nil {
		h.handleError(c, err)
		return
	}

	body := gin.H{}
	if res.Entry != nil {
		body["entry"] = serviceLogEntry{
			ID:               res.Entry.ID,
			Kind:             string(res.Entry.Kind),
			Date:             res.Entry.Date.Format(time.RFC3339),
			MileageAtService: res.Entry.MileageAtService,
			Notes:            res.Entry.Notes,
		}
	}
	if res.Vehicle != nil {
		body["vehicle"] = toVehicleResponse(res.Vehicle)
	}
	if res.Warning != nil {
		body["warning"] = res.Warning.Error()
	}
	c.JSON(http.StatusOK, body)
}

func (h *Handler) refresh(c *gin.Context) {
	vehicles, err := h.coord.Refresh(c.Request.Context(), middleware.OwnerID(c))
	if err != nil {
		h.handleError(c, err)
		return
	}

	out := make([]vehicleResponse, 0, len(vehicles))
	for _, v := range vehicles {
		out = append(out, toVehicleResponse(v))
	}
	c.JSON(http.StatusOK, gin.H{"vehicles": out})
}

func (h *Handler) vehicleReport(c *gin.Context) {
	format, err := report.ParseFormat(c.Query("format"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	v, err := h.coord.GetVehicle(c.Request.Context(), middleware.OwnerID(c), c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	content, err := h.reports.Generate(v, format)
	if err != nil {
		slog.Error("report generation failed", "vehicle_id", v.ID, "format", format, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "report generation failed"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+h.reports.FileName(v, format)+`"`)
	c.Data(http.StatusOK, format.ContentType(), content)
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ledger.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, ledger.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ledger.ErrDuplicatePlate):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, ledger.ErrStore):
		slog.Error("store failure", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "storage unavailable"})
	default:
		slog.Error("unhandled error", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
