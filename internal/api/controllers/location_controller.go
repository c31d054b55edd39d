package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"concierge/internal/contract"
	"concierge/internal/models/request_models"
	"concierge/internal/models/response_models"
	"concierge/internal/services"
	"concierge/pkg/utils"
)

type LocationController struct {
	locationService services.LocationService
}

func NewLocationController(locationService services.LocationService) *LocationController {
	return &LocationController{locationService: locationService}
}

// SearchLocation godoc
// @Summary Resolve a place name to coordinates
// @Tags Location
// @Produce json
// @Param place_name query string true "Place name"
// @Success 200 {object} response_models.LocationResponse
// @Failure 404 {object} utils.APIResponse
// @Router /agents/location/search [get]
func (l *LocationController) SearchLocation(c *gin.Context) {
	var q request_models.LocationSearchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "place_name is required")
		return
	}

	loc, err := l.locationService.Search(c.Request.Context(), q.PlaceName)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, response_models.LocationResponse{PlaceName: loc.Name, Coordinates: loc.Coordinates}, "")
}

// GetRoute godoc
// @Summary Driving route between two points
// @Tags Location
// @Produce json
// @Param start_lon query number true "Start longitude"
// @Param start_lat query number true "Start latitude"
// @Param end_lon query number true "End longitude"
// @Param end_lat query number true "End latitude"
// @Success 200 {object} response_models.RouteResponse
// @Router /agents/location/route [get]
func (l *LocationController) GetRoute(c *gin.Context) {
	var q request_models.RouteQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "start_lon, start_lat, end_lon and end_lat are required numbers")
		return
	}

	from := contract.NewCoordinates(*q.StartLon, *q.StartLat)
	to := contract.NewCoordinates(*q.EndLon, *q.EndLat)

	route, err := l.locationService.Route(c.Request.Context(), from, to)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, response_models.RouteResponse{
		DistanceMeters:  route.DistanceMeters,
		DurationSeconds: route.DurationSeconds,
		Geometry:        route.Geometry,
	}, "")
}
