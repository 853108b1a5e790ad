package web

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nhle/lacquer/internal/geo"
	"github.com/nhle/lacquer/internal/listing"
	"github.com/nhle/lacquer/internal/service"
	"github.com/nhle/lacquer/internal/views"
)

type createTaskRequest struct {
	Description string                 `json:"task_description"`
	ProjectID   string                 `json:"project_id"`
	Location    *service.LocationInput `json:"location"`
	DueDate     string                 `json:"due_date"`
	Priority    string                 `json:"priority_level"`
}

// dueDateRequest keeps due_date raw so an explicit null, which clears the
// date, differs from a missing field.
type dueDateRequest struct {
	DueDate json.RawMessage `json:"due_date"`
}

type completionRequest struct {
	IsCompleted *bool `json:"is_completed"`
}

type noteRequest struct {
	Content string `json:"content"`
}

func (s *Server) handleListTasks(c *gin.Context) {
	if s.notModified(c, views.Tasks, "") {
		return
	}

	tasks, err := s.svc.ListTasks(c.Request.Context(), currentUser(c))
	if err != nil {
		s.writeError(c, err, "fetch tasks")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"tasks":   tasks,
		"count":   len(tasks),
	})
}

// handleTaskView returns the task list filtered and sorted server side.
// Without a filter parameter the list starts from the user's preference.
func (s *Server) handleTaskView(c *gin.Context) {
	ctx := c.Request.Context()
	userID := currentUser(c)

	pos, err := parsePosition(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	var st listing.State
	if raw, ok := c.GetQuery("filter"); ok {
		filter, err := listing.ParseFilter(raw)
		if err != nil {
			badRequest(c, err.Error())
			return
		}
		st = listing.State{Filter: filter, Value: c.Query("value"), Position: pos}
	} else {
		st = listing.Initial(s.svc.AutoLocationFilter(ctx, userID), pos)
	}

	sort, err := listing.ParseSort(c.Query("sort"))
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	st.Sort = sort
	st.ShowCompleted, _ = strconv.ParseBool(c.Query("show_completed"))

	tasks, err := s.svc.ListTasks(ctx, userID)
	if err != nil {
		s.writeError(c, err, "fetch tasks")
		return
	}
	res := listing.Apply(tasks, st)

	body := gin.H{
		"success":  true,
		"tasks":    res.Tasks,
		"filter":   st.Filter,
		"value":    st.Value,
		"sort":     st.Sort,
		"total":    res.Total,
		"matching": res.Matching,
		"summary":  res.Summary(),
	}
	if len(res.Tasks) == 0 {
		body["empty_message"] = res.EmptyMessage()
	}
	c.JSON(http.StatusOK, body)
}

func (s *Server) handleCreateTask(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	due, err := s.parseDue(req.DueDate)
	if err != nil {
		s.writeError(c, err, "create task")
		return
	}

	task, err := s.svc.CreateTask(c.Request.Context(), currentUser(c), service.CreateTaskInput{
		Description: req.Description,
		ProjectID:   req.ProjectID,
		Location:    req.Location,
		DueDate:     due,
		Priority:    req.Priority,
	})
	if err != nil {
		s.writeError(c, err, "create task")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "task": task})
}

func (s *Server) handleDeleteTask(c *gin.Context) {
	if err := s.svc.DeleteTask(c.Request.Context(), currentUser(c), c.Param("id")); err != nil {
		s.writeError(c, err, "delete task")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) handleUpdateDueDate(c *gin.Context) {
	var req dueDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	if len(req.DueDate) == 0 {
		badRequest(c, "due_date is required")
		return
	}
	var value *string
	if err := json.Unmarshal(req.DueDate, &value); err != nil {
		badRequest(c, "due_date must be a date string or null")
		return
	}

	var due *time.Time
	if value != nil {
		var err error
		if due, err = s.parseDue(*value); err != nil {
			s.writeError(c, err, "update due date")
			return
		}
	}

	if err := s.svc.UpdateTaskDueDate(c.Request.Context(), currentUser(c), c.Param("id"), due); err != nil {
		s.writeError(c, err, "update due date")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) handleUpdateCompletion(c *gin.Context) {
	var req completionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if req.IsCompleted == nil {
		badRequest(c, "is_completed is required")
		return
	}

	err := s.svc.UpdateTaskCompletion(c.Request.Context(), currentUser(c), c.Param("id"), *req.IsCompleted)
	if err != nil {
		s.writeError(c, err, "update task")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) handleUpsertNote(c *gin.Context) {
	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	note, err := s.svc.UpsertTaskNote(c.Request.Context(), currentUser(c), c.Param("id"), req.Content)
	if err != nil {
		s.writeError(c, err, "save note")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "note": note})
}

// parseDue accepts YYYY-MM-DD or an RFC 3339 timestamp.
func (s *Server) parseDue(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, nil
	}
	return s.svc.ParseDueDate(value)
}

// parsePosition reads optional lat/lng query parameters.
func parsePosition(c *gin.Context) (*geo.Coordinate, error) {
	latRaw, lngRaw := c.Query("lat"), c.Query("lng")
	if latRaw == "" && lngRaw == "" {
		return nil, nil
	}
	coord, err := parseCoordinate(latRaw, lngRaw)
	if err != nil {
		return nil, err
	}
	return &coord, nil
}

func parseCoordinate(latRaw, lngRaw string) (geo.Coordinate, error) {
	lat, err := strconv.ParseFloat(latRaw, 64)
	if err != nil {
		return geo.Coordinate{}, errInvalidCoordinates
	}
	lng, err := strconv.ParseFloat(lngRaw, 64)
	if err != nil {
		return geo.Coordinate{}, errInvalidCoordinates
	}
	coord := geo.Coordinate{Lat: lat, Lng: lng}
	if !coord.Valid() {
		return geo.Coordinate{}, errInvalidCoordinates
	}
	return coord, nil
}
