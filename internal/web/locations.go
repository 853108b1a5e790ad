package web

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nhle/lacquer/internal/geo"
	"github.com/nhle/lacquer/internal/service"
	"github.com/nhle/lacquer/internal/views"
)

var errInvalidCoordinates = errors.New("Invalid coordinates")

type settingsRequest struct {
	AutoLocationFilter *bool `json:"auto_location_filter"`
}

func (s *Server) handleListLocations(c *gin.Context) {
	withTasks := c.Query("include") == "tasks"
	variant := ""
	if withTasks {
		variant = "tasks"
	}
	if s.notModified(c, views.Locations, variant) {
		return
	}

	ctx := c.Request.Context()
	userID := currentUser(c)

	var (
		locations any
		err       error
	)
	if withTasks {
		locations, err = s.svc.ListLocationsWithTasks(ctx, userID)
	} else {
		locations, err = s.svc.ListLocations(ctx, userID)
	}
	if err != nil {
		s.writeError(c, err, "fetch locations")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "locations": locations})
}

func (s *Server) handleCreateLocation(c *gin.Context) {
	var req service.LocationInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	location, err := s.svc.CreateLocation(c.Request.Context(), currentUser(c), req)
	if err != nil {
		s.writeError(c, err, "save location")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "location": location})
}

func (s *Server) handleGetSettings(c *gin.Context) {
	if s.notModified(c, views.Settings, "") {
		return
	}
	enabled := s.svc.AutoLocationFilter(c.Request.Context(), currentUser(c))
	c.JSON(http.StatusOK, gin.H{"success": true, "auto_location_filter": enabled})
}

func (s *Server) handleUpdateSettings(c *gin.Context) {
	var req settingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if req.AutoLocationFilter == nil {
		badRequest(c, "auto_location_filter is required")
		return
	}

	err := s.svc.UpdateAutoLocationFilter(c.Request.Context(), currentUser(c), *req.AutoLocationFilter)
	if err != nil {
		s.writeError(c, err, "update settings")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) handleGeocode(c *gin.Context) {
	if s.geocoder == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "Geocoding is not configured"})
		return
	}

	places, err := s.geocoder.Forward(c.Request.Context(), c.Query("address"))
	if err != nil {
		s.logger.Warn("geocoding failed", "err", err)
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "error": "Failed to search address. Please try again."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "places": places})
}

func (s *Server) handleReverseGeocode(c *gin.Context) {
	coord, err := parseCoordinate(c.Query("lat"), c.Query("lng"))
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	address := geo.FormatCoordinate(coord)
	if s.geocoder != nil {
		address = s.geocoder.ReverseOrCoordinates(c.Request.Context(), coord)
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "address": address, "lat": coord.Lat, "lng": coord.Lng})
}

// handleMap lays out markers for the user's locations and an optional
// in-progress selection given as lat/lng.
func (s *Server) handleMap(c *gin.Context) {
	selection, err := parsePosition(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	locations, err := s.svc.ListLocations(c.Request.Context(), currentUser(c))
	if err != nil {
		s.writeError(c, err, "load map")
		return
	}

	pins := make([]geo.Pin, 0, len(locations))
	for _, l := range locations {
		pins = append(pins, geo.Pin{ID: l.ID, Name: l.Name, Position: l.Coordinate()})
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "markers": geo.Markers(pins, selection)})
}
