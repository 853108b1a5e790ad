package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nhle/lacquer/internal/model"
	"github.com/nhle/lacquer/internal/views"
)

// projectWithTasks always carries the tasks key, empty or not.
type projectWithTasks struct {
	model.Project
	Tasks []model.Task `json:"tasks"`
}

func withTasks(projects []model.Project) []projectWithTasks {
	out := make([]projectWithTasks, len(projects))
	for i, p := range projects {
		tasks := p.Tasks
		if tasks == nil {
			tasks = []model.Task{}
		}
		out[i] = projectWithTasks{Project: p, Tasks: tasks}
	}
	return out
}

type createProjectRequest struct {
	Name        string `json:"project_name"`
	Description string `json:"project_description"`
}

func (s *Server) handleListProjects(c *gin.Context) {
	includeTasks := c.Query("include") == "tasks"
	variant := ""
	if includeTasks {
		variant = "tasks"
	}
	if s.notModified(c, views.Projects, variant) {
		return
	}

	ctx := c.Request.Context()
	userID := currentUser(c)

	if includeTasks {
		projects, err := s.svc.ListProjectsWithTasks(ctx, userID)
		if err != nil {
			s.writeError(c, err, "fetch projects")
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "projects": withTasks(projects)})
		return
	}

	projects, err := s.svc.ListProjects(ctx, userID)
	if err != nil {
		s.writeError(c, err, "fetch projects")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "projects": projects})
}

func (s *Server) handleCreateProject(c *gin.Context) {
	var req createProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	project, err := s.svc.CreateProject(c.Request.Context(), currentUser(c), req.Name, req.Description)
	if err != nil {
		s.writeError(c, err, "create project")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":      true,
		"project_id":   project.ID,
		"project_name": project.Name,
	})
}

func (s *Server) handleDeleteProject(c *gin.Context) {
	if err := s.svc.DeleteProject(c.Request.Context(), currentUser(c), c.Param("id")); err != nil {
		s.writeError(c, err, "delete project")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
