package projects

import (
	"net/http"
	"strconv"

	"projecttracker/internal/api"
	"projecttracker/internal/cache"
	"projecttracker/internal/database"
	"projecttracker/internal/middleware"
	"projecttracker/internal/model"
	"projecttracker/internal/service"
	"projecttracker/internal/store"

	"github.com/labstack/echo/v4"
)

var (
	createProject         = store.CreateProject
	listProjects          = store.ListProjects
	listProjectsByCreator = store.ListProjectsByCreator
	getProjectByID        = store.GetProjectByID
	updateProject         = store.UpdateProject
	updateProjectStatus   = store.UpdateProjectStatus
	deleteProject         = store.DeleteProject
	listEntriesByProject  = store.ListTimeEntriesByProject
)

func toProjectResponse(p *model.Project) api.ProjectResponse {
	return api.ProjectResponse{
		ID:          p.ID,
		Name:        p.Name,
		Client:      p.Client,
		Status:      p.Status,
		HourlyRate:  p.HourlyRate,
		CreatedBy:   p.CreatedBy,
		CreatorName: p.CreatorName,
		CreatedAt:   p.CreatedAt,
	}
}

func claimsFrom(c echo.Context) (*service.CustomClaims, bool) {
	claims, ok := c.Get(middleware.ContextUserKey).(*service.CustomClaims)
	return claims, ok && claims.UserID != 0
}

// invalidateBilling drops the cached billing working set after a mutation;
// the next billing read refetches from the store.
func invalidateBilling(c echo.Context, rdb cache.Cache) {
	rdb.Del(c.Request().Context(), cache.KeyBillingBundles)
}

// @Summary     List projects
// @Description Returns the full project board with creator names. With scope=mine the list is narrowed for the time-tracking view: employees get only the projects they created, admins still get everything.
// @Tags        projects
// @Produce     json
// @Param       scope query string false "mine narrows the list to the caller's own projects"
// @Success     200 {array} api.ProjectResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /projects [get]
func ListProjectsHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		var (
			projects []model.Project
			err      error
		)
		if c.QueryParam("scope") == "mine" {
			claims, ok := claimsFrom(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid or missing token"})
			}
			if service.ScopedToOwn(claims) {
				projects, err = listProjectsByCreator(c.Request().Context(), db, claims.UserID)
			} else {
				projects, err = listProjects(c.Request().Context(), db)
			}
		} else {
			projects, err = listProjects(c.Request().Context(), db)
		}
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
		}
		resp := make([]api.ProjectResponse, 0, len(projects))
		for i := range projects {
			resp = append(resp, toProjectResponse(&projects[i]))
		}
		return c.JSON(http.StatusOK, resp)
	}
}

// @Summary     Create a project
// @Description Any authenticated user may create a project; status starts at active
// @Tags        projects
// @Accept      application/x-www-form-urlencoded
// @Produce     json
// @Param       name        formData string true  "Project name"
// @Param       client      formData string true  "Client name"
// @Param       hourly_rate formData number false "Billing rate, defaults to 75"
// @Success     201 {object} api.ProjectResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /projects [post]
func CreateProjectHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.CreateProjectRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid form data"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}

		claims, ok := claimsFrom(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid or missing token"})
		}

		rate := req.HourlyRate
		if rate == 0 {
			rate = model.DefaultProjectRate
		}

		project, err := createProject(c.Request().Context(), db, &model.Project{
			Name:       req.Name,
			Client:     req.Client,
			Status:     model.StatusActive,
			HourlyRate: rate,
			CreatedBy:  claims.UserID,
		})
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
		}
		return c.JSON(http.StatusCreated, toProjectResponse(project))
	}
}

// @Summary     Get a project
// @Description Returns a project with its recomputed hour and amount totals (billing rate)
// @Tags        projects
// @Produce     json
// @Param       id path int true "Project ID"
// @Success     200 {object} api.ProjectResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /projects/{id} [get]
func GetProjectHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid project ID"})
		}
		project, err := getProjectByID(c.Request().Context(), db, id)
		if err != nil {
			return c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "project not found"})
		}

		entries, err := listEntriesByProject(c.Request().Context(), db, id)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
		}

		resp := toProjectResponse(project)
		resp.TotalHours, resp.TotalAmount = service.Totals(entries, project.HourlyRate)
		return c.JSON(http.StatusOK, resp)
	}
}

// @Summary     Update a project
// @Description Updates name, client and billing rate; creator or admin only
// @Tags        projects
// @Accept      application/x-www-form-urlencoded
// @Produce     json
// @Param       id          path     int    true "Project ID"
// @Param       name        formData string true "Project name"
// @Param       client      formData string true "Client name"
// @Param       hourly_rate formData number true "Billing rate"
// @Success     204 "No Content"
// @Failure     400 {object} api.ErrorResponse
// @Failure     403 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /projects/{id} [put]
func UpdateProjectHandler(db database.DB, rdb cache.Cache) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid project ID"})
		}

		var req api.UpdateProjectRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid form data"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}

		claims, ok := claimsFrom(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid or missing token"})
		}

		project, err := getProjectByID(c.Request().Context(), db, id)
		if err != nil {
			return c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "project not found"})
		}
		if !service.CanModifyProject(claims, project) {
			return c.JSON(http.StatusForbidden, api.ErrorResponse{Message: "not allowed to modify this project"})
		}

		project.Name = req.Name
		project.Client = req.Client
		project.HourlyRate = req.HourlyRate
		if err := updateProject(c.Request().Context(), db, project); err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
		}

		invalidateBilling(c, rdb)
		return c.NoContent(http.StatusNoContent)
	}
}

// @Summary     Set project status
// @Description Writes the target status directly (board drag-and-drop); creator or admin only
// @Tags        projects
// @Accept      application/x-www-form-urlencoded
// @Produce     json
// @Param       id     path     int    true "Project ID"
// @Param       status formData string true "active, to-invoice or completed"
// @Success     204 "No Content"
// @Failure     400 {object} api.ErrorResponse
// @Failure     403 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /projects/{id}/status [patch]
func UpdateProjectStatusHandler(db database.DB, rdb cache.Cache) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid project ID"})
		}

		var req api.UpdateProjectStatusRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid form data"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}
		if !model.ValidStatus(req.Status) {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid status"})
		}

		claims, ok := claimsFrom(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid or missing token"})
		}

		project, err := getProjectByID(c.Request().Context(), db, id)
		if err != nil {
			return c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "project not found"})
		}
		if !service.CanModifyProject(claims, project) {
			return c.JSON(http.StatusForbidden, api.ErrorResponse{Message: "not allowed to modify this project"})
		}

		if err := updateProjectStatus(c.Request().Context(), db, id, req.Status); err != nil {
			// The stored status is unchanged; surface the failure.
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
		}

		invalidateBilling(c, rdb)
		return c.NoContent(http.StatusNoContent)
	}
}

// @Summary     Delete a project
// @Description Removes a project and, by cascade, all its time entries; creator or admin only
// @Tags        projects
// @Produce     json
// @Param       id path int true "Project ID"
// @Success     204 "No Content"
// @Failure     400 {object} api.ErrorResponse
// @Failure     403 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /projects/{id} [delete]
func DeleteProjectHandler(db database.DB, rdb cache.Cache) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid project ID"})
		}

		claims, ok := claimsFrom(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid or missing token"})
		}

		project, err := getProjectByID(c.Request().Context(), db, id)
		if err != nil {
			return c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "project not found"})
		}
		if !service.CanModifyProject(claims, project) {
			return c.JSON(http.StatusForbidden, api.ErrorResponse{Message: "not allowed to modify this project"})
		}

		if err := deleteProject(c.Request().Context(), db, id); err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
		}

		invalidateBilling(c, rdb)
		return c.NoContent(http.StatusNoContent)
	}
}
