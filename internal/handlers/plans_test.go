package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPlanArchiveLifecycle drives a plan through optimize, list, lookup,
// export and delete.
func TestPlanArchiveLifecycle(t *testing.T) {
	setupHandlers(t)
	router := newTestRouter()

	reqBody := PlanOptimizeRequest{
		Items:    []*PlanItem{{CanonicalID: "milk", Quantity: 1}},
		Location: &testOrigin,
	}
	w := postJSON(t, router, "/api/plans/optimize", reqBody)
	require.Equal(t, http.StatusOK, w.Code)

	var plan PlanResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &plan))
	require.NotEmpty(t, plan.PlanID)

	// List includes the archived plan.
	w = getPath(t, router, "/internal/plans")
	require.Equal(t, http.StatusOK, w.Code)
	var listing struct {
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listing))
	assert.Equal(t, 1, listing.Total)

	// Lookup by ID returns the record.
	w = getPath(t, router, "/internal/plans/"+plan.PlanID)
	assert.Equal(t, http.StatusOK, w.Code)

	// Stats reflect one stored plan.
	w = getPath(t, router, "/internal/plans/stats")
	require.Equal(t, http.StatusOK, w.Code)
	var stats struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 1, stats.Count)

	// Export renders a workbook attachment.
	w = getPath(t, router, "/internal/plans/"+plan.PlanID+"/export")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), plan.PlanID)
	assert.NotEmpty(t, w.Body.Bytes())

	// Delete removes it; a second delete is a 404.
	req, err := http.NewRequest("DELETE", "/internal/plans/"+plan.PlanID, nil)
	require.NoError(t, err)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = getPath(t, router, "/internal/plans/"+plan.PlanID)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetPlanNotFound(t *testing.T) {
	setupHandlers(t)
	router := newTestRouter()

	w := getPath(t, router, "/internal/plans/plan_999999")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListPlansInvalidLimit(t *testing.T) {
	setupHandlers(t)
	router := newTestRouter()

	w := getPath(t, router, "/internal/plans?limit=zero")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearchProductsEndpoint(t *testing.T) {
	setupHandlers(t)
	router := newTestRouter()

	w := getPath(t, router, "/internal/products/search?q=milk")
	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Results []*ProductInfo `json:"results"`
		Total   int            `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, 1, response.Total)
	assert.Equal(t, "milk", response.Results[0].CanonicalID)

	// Missing query is a 400.
	w = getPath(t, router, "/internal/products/search")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetProductEndpoint(t *testing.T) {
	setupHandlers(t)
	router := newTestRouter()

	w := getPath(t, router, "/internal/products/bread")
	require.Equal(t, http.StatusOK, w.Code)

	var product ProductInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &product))
	assert.Equal(t, "White Bread 700g", product.CanonicalName)

	w = getPath(t, router, "/internal/products/caviar")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestNearbyStoresEndpoint(t *testing.T) {
	setupHandlers(t)
	router := newTestRouter()

	// A 2 km radius around the origin only reaches alpha_city.
	w := getPath(t, router, "/internal/stores/nearby?lat=-33.87&lng=151.206&radiusKm=2")
	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Results []*StoreInfo `json:"results"`
		Total   int          `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, 1, response.Total)
	assert.Equal(t, "alpha_city", response.Results[0].StoreID)

	// The default 10 km radius picks up beta_mid too, nearest first.
	w = getPath(t, router, "/internal/stores/nearby?lat=-33.87&lng=151.206")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, 2, response.Total)
	assert.Equal(t, "alpha_city", response.Results[0].StoreID)
	assert.Equal(t, "beta_mid", response.Results[1].StoreID)
}

func TestNearbyStoresValidation(t *testing.T) {
	setupHandlers(t)
	router := newTestRouter()

	for _, path := range []string{
		"/internal/stores/nearby",
		"/internal/stores/nearby?lat=95&lng=0",
		"/internal/stores/nearby?lat=0&lng=185",
		"/internal/stores/nearby?lat=0&lng=0&radiusKm=-5",
	} {
		w := getPath(t, router, path)
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
	}
}

func TestHealthCheckEndpoint(t *testing.T) {
	setupHandlers(t)
	router := newTestRouter()

	w := getPath(t, router, "/internal/health")
	require.Equal(t, http.StatusOK, w.Code)

	var response HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "ok", response.Status)
	assert.Equal(t, "loaded", response.ReferenceData)
	assert.Equal(t, "available", response.PlanArchive)
	assert.Equal(t, 2, response.Products)
}

func TestHealthCheckDegraded(t *testing.T) {
	Init(nil, nil, nil)
	router := newTestRouter()

	w := getPath(t, router, "/internal/health")
	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	var response HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "degraded", response.Status)
}
