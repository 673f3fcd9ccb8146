package entries

import (
	"net/http"
	"strconv"
	"time"

	"projecttracker/internal/api"
	"projecttracker/internal/cache"
	"projecttracker/internal/database"
	"projecttracker/internal/invoice"
	"projecttracker/internal/middleware"
	"projecttracker/internal/model"
	"projecttracker/internal/service"
	"projecttracker/internal/store"

	"github.com/labstack/echo/v4"
)

var (
	createTimeEntry       = store.CreateTimeEntry
	listTimeEntries       = store.ListTimeEntries
	listTimeEntriesByUser = store.ListTimeEntriesByUser
	getTimeEntryByID      = store.GetTimeEntryByID
	deleteTimeEntry       = store.DeleteTimeEntry
	getProjectByID        = store.GetProjectByID
	now                   = time.Now
)

const dateParam = "2006-01-02"

func toEntryResponse(e *model.TimeEntry) api.EntryResponse {
	return api.EntryResponse{
		ID:            e.ID,
		ProjectID:     e.ProjectID,
		UserID:        e.UserID,
		Description:   e.Description,
		Hours:         e.Hours,
		Date:          e.Date.Format(dateParam),
		CreatedAt:     e.CreatedAt,
		ProjectName:   e.ProjectName,
		ProjectClient: e.ProjectClient,
		UserName:      e.UserName,
		Rate:          service.EntryRate(*e),
		Value:         service.EntryValue(*e),
	}
}

func claimsFrom(c echo.Context) (*service.CustomClaims, bool) {
	claims, ok := c.Get(middleware.ContextUserKey).(*service.CustomClaims)
	return claims, ok && claims.UserID != 0
}

// scopedEntries loads entries for the time-tracking views: employees get
// only their own rows, admins all of them. The project-board asymmetry is
// deliberate; see service.ScopedToOwn.
func scopedEntries(c echo.Context, db database.DB, claims *service.CustomClaims) ([]model.TimeEntry, error) {
	if service.ScopedToOwn(claims) {
		return listTimeEntriesByUser(c.Request().Context(), db, claims.UserID)
	}
	return listTimeEntries(c.Request().Context(), db)
}

// entryFilter builds the conjunctive filter from query parameters. The
// logger filter is admin-only; employee rows are already scoped.
func entryFilter(c echo.Context, claims *service.CustomClaims) (service.EntryFilter, error) {
	f := service.EntryFilter{Search: c.QueryParam("search")}

	if v := c.QueryParam("project_id"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			return f, echo.NewHTTPError(http.StatusBadRequest, "invalid project_id")
		}
		f.ProjectID = id
	}
	if v := c.QueryParam("user_id"); v != "" && !service.ScopedToOwn(claims) {
		id, err := strconv.Atoi(v)
		if err != nil {
			return f, echo.NewHTTPError(http.StatusBadRequest, "invalid user_id")
		}
		f.UserID = id
	}
	if v := c.QueryParam("from"); v != "" {
		t, err := time.Parse(dateParam, v)
		if err != nil {
			return f, echo.NewHTTPError(http.StatusBadRequest, "invalid from date")
		}
		f.From = t
	}
	if v := c.QueryParam("to"); v != "" {
		t, err := time.Parse(dateParam, v)
		if err != nil {
			return f, echo.NewHTTPError(http.StatusBadRequest, "invalid to date")
		}
		f.To = t
	}
	return f, nil
}

// @Summary     List time entries
// @Description Time-tracking view: employees see their own entries, admins all; filters compose with AND
// @Tags        entries
// @Produce     json
// @Param       search     query string false "Substring match on description, project, client or logger"
// @Param       project_id query int    false "Filter by project"
// @Param       user_id    query int    false "Filter by logger (admin only)"
// @Param       from       query string false "Inclusive lower date bound (YYYY-MM-DD)"
// @Param       to         query string false "Inclusive upper date bound (YYYY-MM-DD)"
// @Success     200 {array} api.EntryResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /entries [get]
func ListEntriesHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := claimsFrom(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid or missing token"})
		}

		f, err := entryFilter(c, claims)
		if err != nil {
			return err
		}

		entries, err := scopedEntries(c, db, claims)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
		}

		filtered := service.FilterEntries(entries, f)
		resp := make([]api.EntryResponse, 0, len(filtered))
		for i := range filtered {
			resp = append(resp, toEntryResponse(&filtered[i]))
		}
		return c.JSON(http.StatusOK, resp)
	}
}

// @Summary     Log time
// @Description Creates a time entry against a project; date defaults to today
// @Tags        entries
// @Accept      application/x-www-form-urlencoded
// @Produce     json
// @Param       project_id  formData int    true  "Project ID"
// @Param       description formData string true  "Work description"
// @Param       hours       formData number true  "Hours, fractional allowed"
// @Param       date        formData string false "Date (YYYY-MM-DD)"
// @Success     201 {object} api.EntryResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /entries [post]
func CreateEntryHandler(db database.DB, rdb cache.Cache) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.CreateEntryRequest
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

		if _, err := getProjectByID(c.Request().Context(), db, req.ProjectID); err != nil {
			return c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "project not found"})
		}

		date := now().UTC().Truncate(24 * time.Hour)
		if req.Date != "" {
			parsed, err := time.Parse(dateParam, req.Date)
			if err != nil {
				return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid date"})
			}
			date = parsed
		}

		entry, err := createTimeEntry(c.Request().Context(), db, &model.TimeEntry{
			ProjectID:   req.ProjectID,
			UserID:      claims.UserID,
			Description: req.Description,
			Hours:       req.Hours,
			Date:        date,
		})
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
		}

		rdb.Del(c.Request().Context(), cache.KeyBillingBundles)
		return c.JSON(http.StatusCreated, toEntryResponse(entry))
	}
}

// @Summary     Delete a time entry
// @Description Logger or admin only
// @Tags        entries
// @Produce     json
// @Param       id path int true "Entry ID"
// @Success     204 "No Content"
// @Failure     400 {object} api.ErrorResponse
// @Failure     403 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /entries/{id} [delete]
func DeleteEntryHandler(db database.DB, rdb cache.Cache) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid entry ID"})
		}

		claims, ok := claimsFrom(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid or missing token"})
		}

		entry, err := getTimeEntryByID(c.Request().Context(), db, id)
		if err != nil {
			return c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "entry not found"})
		}
		if !service.CanDeleteEntry(claims, entry) {
			return c.JSON(http.StatusForbidden, api.ErrorResponse{Message: "not allowed to delete this entry"})
		}

		if err := deleteTimeEntry(c.Request().Context(), db, id); err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
		}

		rdb.Del(c.Request().Context(), cache.KeyBillingBundles)
		return c.NoContent(http.StatusNoContent)
	}
}

// @Summary     Export time entries as CSV
// @Description Same scoping and filters as the list; values use the personal-first rate
// @Tags        entries
// @Produce     text/csv
// @Param       search     query string false "Substring match"
// @Param       project_id query int    false "Filter by project"
// @Param       user_id    query int    false "Filter by logger (admin only)"
// @Param       from       query string false "Inclusive lower date bound (YYYY-MM-DD)"
// @Param       to         query string false "Inclusive upper date bound (YYYY-MM-DD)"
// @Success     200 {string} string "CSV body"
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /entries/export [get]
func ExportEntriesHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := claimsFrom(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid or missing token"})
		}

		f, err := entryFilter(c, claims)
		if err != nil {
			return err
		}

		entries, err := scopedEntries(c, db, claims)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
		}

		filtered := service.FilterEntries(entries, f)
		includeEmployee := !service.ScopedToOwn(claims)
		body := invoice.EntriesCSV(filtered, includeEmployee)

		c.Response().Header().Set(echo.HeaderContentDisposition,
			`attachment; filename="`+invoice.EntriesCSVFilename(now())+`"`)
		return c.Blob(http.StatusOK, "text/csv; charset=utf-8", []byte(body))
	}
}
