package billing

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"projecttracker/internal/api"
	"projecttracker/internal/cache"
	"projecttracker/internal/database"
	"projecttracker/internal/invoice"
	"projecttracker/internal/model"
	"projecttracker/internal/service"
	"projecttracker/internal/store"

	"github.com/labstack/echo/v4"
)

var (
	listProjectsByStatus = store.ListProjectsByStatus
	listTimeEntries      = store.ListTimeEntries
	getProjectByID       = store.GetProjectByID
	listEntriesByProject = store.ListTimeEntriesByProject
	updateProjectStatus  = store.UpdateProjectStatus
	getInvoice           = store.GetInvoice
	createInvoice        = store.CreateInvoice
	listInvoices         = store.ListInvoices
	now                  = time.Now
)

// loadBundles builds the billing working set: every to-invoice project with
// its entries and recomputed totals. Reads go through the Redis cache;
// mutations elsewhere delete the key.
func loadBundles(c echo.Context, db database.DB, rdb cache.Cache) ([]service.BillingBundle, error) {
	ctx := c.Request().Context()

	if raw, err := rdb.Get(ctx, cache.KeyBillingBundles).Result(); err == nil {
		var cached []service.BillingBundle
		if err := json.Unmarshal([]byte(raw), &cached); err == nil {
			return cached, nil
		}
	}

	projects, err := listProjectsByStatus(ctx, db, model.StatusToInvoice)
	if err != nil {
		return nil, err
	}
	entries, err := listTimeEntries(ctx, db)
	if err != nil {
		return nil, err
	}
	bundles := service.BuildBundles(projects, entries)

	if body, err := json.Marshal(bundles); err == nil {
		// Best effort; a failed cache write only costs the next read a refetch.
		rdb.Set(ctx, cache.KeyBillingBundles, body, cache.BillingTTL)
	}
	return bundles, nil
}

// bundleFor returns the billing bundle of one project, or an error when the
// project is absent from the billing working set.
func bundleFor(c echo.Context, db database.DB, projectID int) (service.BillingBundle, error) {
	ctx := c.Request().Context()

	project, err := getProjectByID(ctx, db, projectID)
	if err != nil {
		return service.BillingBundle{}, echo.NewHTTPError(http.StatusNotFound, "project not found")
	}
	if project.Status != model.StatusToInvoice {
		return service.BillingBundle{}, echo.NewHTTPError(http.StatusNotFound, "project is not in the billing working set")
	}

	entries, err := listEntriesByProject(ctx, db, projectID)
	if err != nil {
		return service.BillingBundle{}, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return service.BuildBundle(*project, entries), nil
}

// @Summary     Billing working set
// @Description Admin-only: all to-invoice projects with entries and totals, optionally filtered by project or client name
// @Tags        billing
// @Produce     json
// @Param       search query string false "Substring match on project or client name"
// @Success     200 {object} api.BillingResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     403 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /billing [get]
func ListBillingHandler(db database.DB, rdb cache.Cache) echo.HandlerFunc {
	return func(c echo.Context) error {
		bundles, err := loadBundles(c, db, rdb)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
		}

		if q := strings.ToLower(c.QueryParam("search")); q != "" {
			filtered := make([]service.BillingBundle, 0, len(bundles))
			for _, b := range bundles {
				if strings.Contains(strings.ToLower(b.Project.Name), q) ||
					strings.Contains(strings.ToLower(b.Project.Client), q) {
					filtered = append(filtered, b)
				}
			}
			bundles = filtered
		}

		resp := api.BillingResponse{Bundles: bundles}
		for _, b := range bundles {
			resp.TotalBillableHours += b.TotalHours
			resp.TotalBillableAmount += b.TotalAmount
		}
		return c.JSON(http.StatusOK, resp)
	}
}

// @Summary     Export a billing bundle as CSV
// @Description Invoice CSV billed at the project rate, closed by the TOTAAL row
// @Tags        billing
// @Produce     text/csv
// @Param       project_id path int true "Project ID"
// @Success     200 {string} string "CSV body"
// @Failure     400 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /billing/{project_id}/export [get]
func ExportBillingCSVHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := strconv.Atoi(c.Param("project_id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid project ID"})
		}

		bundle, err := bundleFor(c, db, id)
		if err != nil {
			return err
		}

		body := invoice.BundleCSV(bundle)
		c.Response().Header().Set(echo.HeaderContentDisposition,
			`attachment; filename="`+invoice.BundleCSVFilename(bundle.Project.Name, now())+`"`)
		return c.Blob(http.StatusOK, "text/csv; charset=utf-8", []byte(body))
	}
}

func providerDisplayName(provider string) string {
	switch provider {
	case model.ProviderMoneybird:
		return "Moneybird"
	case model.ProviderTwinfield:
		return "Twinfield"
	}
	return provider
}

// @Summary     Send an invoice to a provider
// @Description Simulated send to Moneybird or Twinfield; on success the project is marked completed and a durable invoice record is written. A second send for the same project and provider is rejected.
// @Tags        billing
// @Produce     json
// @Param       project_id path string true "Project ID"
// @Param       provider   path string true "moneybird or twinfield"
// @Success     200 {object} api.SendInvoiceResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Failure     409 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Failure     502 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /billing/{project_id}/send/{provider} [post]
func SendInvoiceHandler(db database.DB, rdb cache.Cache, sender *invoice.Sender) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := strconv.Atoi(c.Param("project_id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid project ID"})
		}
		provider := c.Param("provider")
		if !model.ValidProvider(provider) {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid provider"})
		}

		ctx := c.Request().Context()

		// Idempotency: never double-invoice a project at the same provider.
		if _, err := getInvoice(ctx, db, id, provider); err == nil {
			return c.JSON(http.StatusConflict, api.ErrorResponse{
				Message: "Factuur voor dit project is al verzonden naar " + providerDisplayName(provider),
			})
		} else if !errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
		}

		bundle, err := bundleFor(c, db, id)
		if err != nil {
			return err
		}

		var payload any
		var reference string
		switch provider {
		case model.ProviderMoneybird:
			mb := invoice.BuildMoneybirdInvoice(bundle, now())
			payload, reference = mb, mb.Reference
		case model.ProviderTwinfield:
			tw := invoice.BuildTwinfieldInvoice(bundle, now())
			payload, reference = tw, tw.Reference
		}

		if err := sender.Send(ctx, provider, payload); err != nil {
			// Nothing was persisted; the project keeps its status.
			return c.JSON(http.StatusBadGateway, api.ErrorResponse{
				Message: "Fout bij het verzenden naar " + providerDisplayName(provider),
			})
		}

		inv, err := createInvoice(ctx, db, &model.Invoice{
			ProjectID:   id,
			Provider:    provider,
			Reference:   reference,
			TotalAmount: bundle.TotalAmount,
		})
		if err != nil {
			// A concurrent send won the unique constraint race.
			return c.JSON(http.StatusConflict, api.ErrorResponse{
				Message: "Factuur voor dit project is al verzonden naar " + providerDisplayName(provider),
			})
		}

		if err := updateProjectStatus(ctx, db, id, model.StatusCompleted); err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
		}

		rdb.Del(ctx, cache.KeyBillingBundles)
		return c.JSON(http.StatusOK, api.SendInvoiceResponse{
			Message: "Factuur voor " + bundle.Project.Name + " succesvol verzonden naar " + providerDisplayName(provider) + "!",
			Invoice: *inv,
		})
	}
}

// @Summary     List sent invoices
// @Description Durable record of successful provider sends, newest first
// @Tags        billing
// @Produce     json
// @Success     200 {array} model.Invoice
// @Failure     401 {object} api.ErrorResponse
// @Failure     403 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /billing/invoices [get]
func ListInvoicesHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		invoices, err := listInvoices(c.Request().Context(), db)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
		}
		if invoices == nil {
			invoices = []model.Invoice{}
		}
		return c.JSON(http.StatusOK, invoices)
	}
}
