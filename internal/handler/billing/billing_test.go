package billing

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"projecttracker/internal/cache"
	"projecttracker/internal/database"
	"projecttracker/internal/invoice"
	"projecttracker/internal/middleware"
	"projecttracker/internal/model"
	"projecttracker/internal/service"
	"projecttracker/internal/store"
	"projecttracker/internal/worker"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newCtx(e *echo.Echo, method, target string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)
	ctx.Set(middleware.ContextUserKey, &service.CustomClaims{UserID: 1, Role: model.RoleAdmin})
	return ctx, rec
}

func newProjectCtx(e *echo.Echo, method, target, projectID string, extra ...string) (echo.Context, *httptest.ResponseRecorder) {
	ctx, rec := newCtx(e, method, target)
	names := []string{"project_id"}
	values := []string{projectID}
	for i := 0; i+1 < len(extra); i += 2 {
		names = append(names, extra[i])
		values = append(values, extra[i+1])
	}
	ctx.SetParamNames(names...)
	ctx.SetParamValues(values...)
	return ctx, rec
}

func restore() {
	listProjectsByStatus = store.ListProjectsByStatus
	listTimeEntries = store.ListTimeEntries
	getProjectByID = store.GetProjectByID
	listEntriesByProject = store.ListTimeEntriesByProject
	updateProjectStatus = store.UpdateProjectStatus
	getInvoice = store.GetInvoice
	createInvoice = store.CreateInvoice
	listInvoices = store.ListInvoices
	now = time.Now
}

// cacheMiss stubs an empty Redis.
func cacheMiss() *cache.FakeCache {
	return &cache.FakeCache{
		GetFn: func(ctx context.Context, key string) *redis.StringCmd {
			return redis.NewStringResult("", redis.Nil)
		},
		SetFn: func(ctx context.Context, key string, val any, ttl time.Duration) *redis.StatusCmd {
			return redis.NewStatusResult("OK", nil)
		},
	}
}

func workingSet() ([]model.Project, []model.TimeEntry) {
	projects := []model.Project{
		{ID: 1, Name: "Website", Client: "Acme BV", Status: model.StatusToInvoice, HourlyRate: 75},
		{ID: 2, Name: "App", Client: "Beta NV", Status: model.StatusToInvoice, HourlyRate: 80},
	}
	entries := []model.TimeEntry{
		{ID: 1, ProjectID: 1, Hours: 2, UserName: "Jan"},
		{ID: 2, ProjectID: 1, Hours: 1.5, UserName: "Piet"},
		{ID: 3, ProjectID: 2, Hours: 1, UserName: "Jan"},
	}
	return projects, entries
}

func TestListBillingHandler(t *testing.T) {
	e := echo.New()

	t.Run("cache miss builds and stores bundles", func(t *testing.T) {
		t.Cleanup(restore)
		projects, entries := workingSet()
		listProjectsByStatus = func(ctx context.Context, db database.DB, status string) ([]model.Project, error) {
			require.Equal(t, model.StatusToInvoice, status)
			return projects, nil
		}
		listTimeEntries = func(context.Context, database.DB) ([]model.TimeEntry, error) {
			return entries, nil
		}
		stored := false
		rdb := cacheMiss()
		rdb.SetFn = func(ctx context.Context, key string, val any, ttl time.Duration) *redis.StatusCmd {
			stored = true
			require.Equal(t, cache.KeyBillingBundles, key)
			require.Equal(t, cache.BillingTTL, ttl)
			return redis.NewStatusResult("OK", nil)
		}

		ctx, rec := newCtx(e, http.MethodGet, "/billing")
		require.NoError(t, ListBillingHandler(nil, rdb)(ctx))
		require.Equal(t, http.StatusOK, rec.Code)
		require.True(t, stored)

		var resp struct {
			Bundles             []service.BillingBundle `json:"bundles"`
			TotalBillableHours  float64                 `json:"total_billable_hours"`
			TotalBillableAmount float64                 `json:"total_billable_amount"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Bundles, 2)
		require.Equal(t, 262.5, resp.Bundles[0].TotalAmount)
		require.Equal(t, 80.0, resp.Bundles[1].TotalAmount)
		require.Equal(t, 4.5, resp.TotalBillableHours)
		require.Equal(t, 342.5, resp.TotalBillableAmount)
	})

	t.Run("cache hit skips the store", func(t *testing.T) {
		t.Cleanup(restore)
		bundles := []service.BillingBundle{{
			Project:     model.Project{ID: 1, Name: "Website"},
			TotalHours:  3.5,
			TotalAmount: 262.5,
		}}
		body, err := json.Marshal(bundles)
		require.NoError(t, err)
		rdb := &cache.FakeCache{GetFn: func(ctx context.Context, key string) *redis.StringCmd {
			require.Equal(t, cache.KeyBillingBundles, key)
			return redis.NewStringResult(string(body), nil)
		}}
		listProjectsByStatus = func(context.Context, database.DB, string) ([]model.Project, error) {
			t.Fatal("store must not be hit on a cache hit")
			return nil, nil
		}

		ctx, rec := newCtx(e, http.MethodGet, "/billing")
		require.NoError(t, ListBillingHandler(nil, rdb)(ctx))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "Website")
	})

	t.Run("search filters by project or client name", func(t *testing.T) {
		t.Cleanup(restore)
		projects, entries := workingSet()
		listProjectsByStatus = func(context.Context, database.DB, string) ([]model.Project, error) {
			return projects, nil
		}
		listTimeEntries = func(context.Context, database.DB) ([]model.TimeEntry, error) {
			return entries, nil
		}

		ctx, rec := newCtx(e, http.MethodGet, "/billing?search=beta")
		require.NoError(t, ListBillingHandler(nil, cacheMiss())(ctx))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "App")
		require.NotContains(t, rec.Body.String(), "Website")
		require.Contains(t, rec.Body.String(), `"total_billable_amount":80`)
	})

	t.Run("store error", func(t *testing.T) {
		t.Cleanup(restore)
		listProjectsByStatus = func(context.Context, database.DB, string) ([]model.Project, error) {
			return nil, errors.New("boom")
		}
		ctx, rec := newCtx(e, http.MethodGet, "/billing")
		require.NoError(t, ListBillingHandler(nil, cacheMiss())(ctx))
		require.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestExportBillingCSVHandler(t *testing.T) {
	e := echo.New()

	t.Run("invalid id", func(t *testing.T) {
		t.Cleanup(restore)
		ctx, rec := newProjectCtx(e, http.MethodGet, "/billing/x/export", "x")
		require.NoError(t, ExportBillingCSVHandler(nil)(ctx))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("project not in working set", func(t *testing.T) {
		t.Cleanup(restore)
		getProjectByID = func(context.Context, database.DB, int) (*model.Project, error) {
			return &model.Project{ID: 1, Status: model.StatusActive}, nil
		}
		ctx, _ := newProjectCtx(e, http.MethodGet, "/billing/1/export", "1")
		err := ExportBillingCSVHandler(nil)(ctx)
		require.Error(t, err)
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		require.Equal(t, http.StatusNotFound, he.Code)
	})

	t.Run("csv attachment", func(t *testing.T) {
		t.Cleanup(restore)
		getProjectByID = func(context.Context, database.DB, int) (*model.Project, error) {
			return &model.Project{ID: 1, Name: "Website Redesign", Client: "Acme BV", Status: model.StatusToInvoice, HourlyRate: 75}, nil
		}
		listEntriesByProject = func(context.Context, database.DB, int) ([]model.TimeEntry, error) {
			return []model.TimeEntry{
				{ID: 1, ProjectID: 1, Hours: 2, UserName: "Jan", Description: "Homepage", Date: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)},
				{ID: 2, ProjectID: 1, Hours: 1.5, UserName: "Piet", Description: "Footer", Date: time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)},
			}, nil
		}
		now = func() time.Time { return time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC) }

		ctx, rec := newProjectCtx(e, http.MethodGet, "/billing/1/export", "1")
		require.NoError(t, ExportBillingCSVHandler(nil)(ctx))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Header().Get(echo.HeaderContentType), "text/csv")
		require.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "factuur-website-redesign-2026-03-15.csv")
		require.Contains(t, rec.Body.String(), "TOTAAL,3.5,,€262.50")
	})
}

func TestSendInvoiceHandler(t *testing.T) {
	e := echo.New()
	pool := worker.NewPool(1)
	defer pool.Stop()
	sender := invoice.NewSender(pool, 0)

	toInvoiceProject := func(context.Context, database.DB, int) (*model.Project, error) {
		return &model.Project{ID: 1, Name: "Website", Client: "Acme BV", Status: model.StatusToInvoice, HourlyRate: 75}, nil
	}
	projectEntries := func(context.Context, database.DB, int) ([]model.TimeEntry, error) {
		return []model.TimeEntry{
			{ID: 1, ProjectID: 1, Hours: 2, UserName: "Jan", Description: "Homepage", Date: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)},
			{ID: 2, ProjectID: 1, Hours: 1.5, UserName: "Piet", Description: "Footer", Date: time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)},
		}, nil
	}
	notSentYet := func(context.Context, database.DB, int, string) (*model.Invoice, error) {
		return nil, store.ErrNotFound
	}

	t.Run("invalid provider", func(t *testing.T) {
		t.Cleanup(restore)
		ctx, rec := newProjectCtx(e, http.MethodPost, "/billing/1/send/sap", "1", "provider", "sap")
		require.NoError(t, SendInvoiceHandler(nil, &cache.FakeCache{}, sender)(ctx))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Contains(t, rec.Body.String(), "invalid provider")
	})

	t.Run("already sent", func(t *testing.T) {
		t.Cleanup(restore)
		getInvoice = func(ctx context.Context, db database.DB, projectID int, provider string) (*model.Invoice, error) {
			require.Equal(t, 1, projectID)
			require.Equal(t, model.ProviderMoneybird, provider)
			return &model.Invoice{ID: 1}, nil
		}
		ctx, rec := newProjectCtx(e, http.MethodPost, "/billing/1/send/moneybird", "1", "provider", "moneybird")
		require.NoError(t, SendInvoiceHandler(nil, &cache.FakeCache{}, sender)(ctx))
		require.Equal(t, http.StatusConflict, rec.Code)
		require.Contains(t, rec.Body.String(), "al verzonden naar Moneybird")
	})

	t.Run("project not in working set", func(t *testing.T) {
		t.Cleanup(restore)
		getInvoice = notSentYet
		getProjectByID = func(context.Context, database.DB, int) (*model.Project, error) {
			return &model.Project{ID: 1, Status: model.StatusCompleted}, nil
		}
		ctx, _ := newProjectCtx(e, http.MethodPost, "/billing/1/send/moneybird", "1", "provider", "moneybird")
		err := SendInvoiceHandler(nil, &cache.FakeCache{}, sender)(ctx)
		require.Error(t, err)
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		require.Equal(t, http.StatusNotFound, he.Code)
	})

	t.Run("moneybird success completes the project", func(t *testing.T) {
		t.Cleanup(restore)
		getInvoice = notSentYet
		getProjectByID = toInvoiceProject
		listEntriesByProject = projectEntries
		var created *model.Invoice
		createInvoice = func(ctx context.Context, db database.DB, inv *model.Invoice) (*model.Invoice, error) {
			created = inv
			inv.ID = 1
			return inv, nil
		}
		var newStatus string
		updateProjectStatus = func(ctx context.Context, db database.DB, id int, status string) error {
			require.Equal(t, 1, id)
			newStatus = status
			return nil
		}
		invalidated := false
		rdb := &cache.FakeCache{DelFn: func(ctx context.Context, keys ...string) *redis.IntCmd {
			invalidated = true
			return redis.NewIntResult(1, nil)
		}}

		ctx, rec := newProjectCtx(e, http.MethodPost, "/billing/1/send/moneybird", "1", "provider", "moneybird")
		require.NoError(t, SendInvoiceHandler(nil, rdb, sender)(ctx))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "Factuur voor Website succesvol verzonden naar Moneybird!")
		require.Equal(t, model.StatusCompleted, newStatus)
		require.True(t, invalidated)
		require.NotNil(t, created)
		require.Equal(t, model.ProviderMoneybird, created.Provider)
		require.Equal(t, "Project: Website", created.Reference)
		require.Equal(t, 262.5, created.TotalAmount)
	})

	t.Run("twinfield success records its reference", func(t *testing.T) {
		t.Cleanup(restore)
		getInvoice = notSentYet
		getProjectByID = toInvoiceProject
		listEntriesByProject = projectEntries
		var created *model.Invoice
		createInvoice = func(ctx context.Context, db database.DB, inv *model.Invoice) (*model.Invoice, error) {
			created = inv
			inv.ID = 2
			return inv, nil
		}
		updateProjectStatus = func(context.Context, database.DB, int, string) error { return nil }

		ctx, rec := newProjectCtx(e, http.MethodPost, "/billing/1/send/twinfield", "1", "provider", "twinfield")
		require.NoError(t, SendInvoiceHandler(nil, &cache.FakeCache{}, sender)(ctx))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "succesvol verzonden naar Twinfield!")
		require.Equal(t, "PRJ-WEBSITE", created.Reference)
	})

	t.Run("send failure leaves status untouched", func(t *testing.T) {
		t.Cleanup(restore)
		getInvoice = notSentYet
		getProjectByID = toInvoiceProject
		listEntriesByProject = projectEntries
		createInvoice = func(context.Context, database.DB, *model.Invoice) (*model.Invoice, error) {
			t.Fatal("no invoice record on a failed send")
			return nil, nil
		}
		updateProjectStatus = func(context.Context, database.DB, int, string) error {
			t.Fatal("status must not change on a failed send")
			return nil
		}

		// a canceled context makes the simulated delivery fail
		ctx, rec := newProjectCtx(e, http.MethodPost, "/billing/1/send/moneybird", "1", "provider", "moneybird")
		canceled, cancel := context.WithCancel(ctx.Request().Context())
		cancel()
		ctx.SetRequest(ctx.Request().WithContext(canceled))

		stuck := invoice.NewSender(stuckPool{}, time.Second)
		require.NoError(t, SendInvoiceHandler(nil, &cache.FakeCache{}, stuck)(ctx))
		require.Equal(t, http.StatusBadGateway, rec.Code)
		require.Contains(t, rec.Body.String(), "Fout bij het verzenden naar Moneybird")
	})

	t.Run("create race yields conflict", func(t *testing.T) {
		t.Cleanup(restore)
		getInvoice = notSentYet
		getProjectByID = toInvoiceProject
		listEntriesByProject = projectEntries
		createInvoice = func(context.Context, database.DB, *model.Invoice) (*model.Invoice, error) {
			return nil, errors.New("duplicate key")
		}
		ctx, rec := newProjectCtx(e, http.MethodPost, "/billing/1/send/moneybird", "1", "provider", "moneybird")
		require.NoError(t, SendInvoiceHandler(nil, &cache.FakeCache{}, sender)(ctx))
		require.Equal(t, http.StatusConflict, rec.Code)
	})
}

// stuckPool accepts jobs but never runs them.
type stuckPool struct{}

func (stuckPool) Submit(worker.Job) {}
func (stuckPool) Stop()             {}

func TestListInvoicesHandler(t *testing.T) {
	e := echo.New()

	t.Run("store error", func(t *testing.T) {
		t.Cleanup(restore)
		listInvoices = func(context.Context, database.DB) ([]model.Invoice, error) {
			return nil, errors.New("boom")
		}
		ctx, rec := newCtx(e, http.MethodGet, "/billing/invoices")
		require.NoError(t, ListInvoicesHandler(nil)(ctx))
		require.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("empty list is an empty array", func(t *testing.T) {
		t.Cleanup(restore)
		listInvoices = func(context.Context, database.DB) ([]model.Invoice, error) {
			return nil, nil
		}
		ctx, rec := newCtx(e, http.MethodGet, "/billing/invoices")
		require.NoError(t, ListInvoicesHandler(nil)(ctx))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "[]\n", rec.Body.String())
	})

	t.Run("success", func(t *testing.T) {
		t.Cleanup(restore)
		listInvoices = func(context.Context, database.DB) ([]model.Invoice, error) {
			return []model.Invoice{{ID: 2, Provider: model.ProviderTwinfield}, {ID: 1, Provider: model.ProviderMoneybird}}, nil
		}
		ctx, rec := newCtx(e, http.MethodGet, "/billing/invoices")
		require.NoError(t, ListInvoicesHandler(nil)(ctx))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "twinfield")
		require.Contains(t, rec.Body.String(), "moneybird")
	})
}
