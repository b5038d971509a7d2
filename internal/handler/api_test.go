package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/tempcast/internal/config"
	"github.com/user/tempcast/internal/model"
	"github.com/user/tempcast/internal/service"
)

// fakeHistoryStore 内存存储，替代真实数据库
type fakeHistoryStore struct {
	records []*model.SearchHistory
	nextID  int
}

func (f *fakeHistoryStore) Insert(r *model.SearchHistory) error {
	f.nextID++
	r.ID = f.nextID
	f.records = append(f.records, r)
	return nil
}

func (f *fakeHistoryStore) ListByOwner(userID int) ([]*model.SearchHistory, error) {
	var out []*model.SearchHistory
	for _, r := range f.records {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].SearchedAt.Equal(out[j].SearchedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].SearchedAt.After(out[j].SearchedAt)
	})
	return out, nil
}

// newTestRouter 组装一个带内存存储的测试路由
// asUser > 0 时模拟登录中间件注入的用户 ID
func newTestRouter(store *fakeHistoryStore, asUser int) *gin.Engine {
	gin.SetMode(gin.TestMode)

	h := &Handler{
		Config:   &config.Config{SiteName: "Tempcast"},
		History:  service.NewHistoryService(store),
		Forecast: service.NewForecastService(),
	}

	r := gin.New()
	identity := func(c *gin.Context) {
		if asUser > 0 {
			c.Set("user_id", asUser)
		}
	}
	api := r.Group("/api", identity)
	{
		api.POST("/search-history", h.RecordSearch)
		api.GET("/search-history", h.ListSearchHistory)
		api.POST("/temperature", h.Temperature)
	}
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRecordSearchRequiresAuth(t *testing.T) {
	store := &fakeHistoryStore{}
	r := newTestRouter(store, 0)

	w := doJSON(t, r, http.MethodPost, "/api/search-history", `{"location":"Paris","days":7}`)

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "UNAUTHORIZED", resp["code"])
	assert.Empty(t, store.records, "未登录请求不能产生写入")
}

func TestRecordSearchCreatesRecord(t *testing.T) {
	store := &fakeHistoryStore{}
	r := newTestRouter(store, 1)

	w := doJSON(t, r, http.MethodPost, "/api/search-history", `{"location":" Paris ","days":7}`)

	require.Equal(t, http.StatusCreated, w.Code)

	var record model.SearchHistory
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &record))
	assert.NotZero(t, record.ID)
	assert.Equal(t, 1, record.UserID)
	assert.Equal(t, "Paris", record.Location)
	assert.Equal(t, 7, record.Days)
	assert.False(t, record.SearchedAt.IsZero())
	require.Len(t, store.records, 1)
}

func TestRecordSearchRejectsUserIDField(t *testing.T) {
	store := &fakeHistoryStore{}
	r := newTestRouter(store, 1)

	for _, body := range []string{
		`{"userId":2,"location":"Paris","days":7}`,
		`{"user_id":2,"location":"Paris","days":7}`,
	} {
		w := doJSON(t, r, http.MethodPost, "/api/search-history", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "USER_ID_NOT_ALLOWED", resp["code"])
	}
	assert.Empty(t, store.records)
}

func TestRecordSearchValidation(t *testing.T) {
	store := &fakeHistoryStore{}
	r := newTestRouter(store, 1)

	cases := []struct {
		body string
		code string
	}{
		{`{"days":7}`, "INVALID_LOCATION"},
		{`{"location":"   ","days":7}`, "INVALID_LOCATION"},
		{`{"location":123,"days":7}`, "INVALID_LOCATION"},
		{`{"location":"Paris"}`, "INVALID_DAYS"},
		{`{"location":"Paris","days":0}`, "INVALID_DAYS"},
		{`{"location":"Paris","days":-3}`, "INVALID_DAYS"},
		{`{"location":"Paris","days":2.5}`, "INVALID_DAYS"},
		{`{"location":"Paris","days":"7"}`, "INVALID_DAYS"},
	}

	for _, tc := range cases {
		w := doJSON(t, r, http.MethodPost, "/api/search-history", tc.body)
		assert.Equal(t, http.StatusBadRequest, w.Code, "body: %s", tc.body)

		var resp map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, tc.code, resp["code"], "body: %s", tc.body)
	}
	assert.Empty(t, store.records, "校验失败不能产生写入")
}

func TestListSearchHistoryRequiresAuth(t *testing.T) {
	r := newTestRouter(&fakeHistoryStore{}, 0)

	w := doJSON(t, r, http.MethodGet, "/api/search-history", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListSearchHistoryReturnsOwnRecordsNewestFirst(t *testing.T) {
	store := &fakeHistoryStore{}
	base := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	// 预置两个用户的历史，user 1 的记录乱序写入
	require.NoError(t, store.Insert(&model.SearchHistory{UserID: 1, Location: "Tokyo", Days: 5, SearchedAt: base}))
	require.NoError(t, store.Insert(&model.SearchHistory{UserID: 2, Location: "Berlin", Days: 7, SearchedAt: base}))
	require.NoError(t, store.Insert(&model.SearchHistory{UserID: 1, Location: "Osaka", Days: 3, SearchedAt: base.Add(time.Hour)}))

	r := newTestRouter(store, 1)
	w := doJSON(t, r, http.MethodGet, "/api/search-history", "")
	require.Equal(t, http.StatusOK, w.Code)

	var records []model.SearchHistory
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &records))
	require.Len(t, records, 2)
	assert.Equal(t, "Osaka", records[0].Location)
	assert.Equal(t, "Tokyo", records[1].Location)
	for _, rec := range records {
		assert.Equal(t, 1, rec.UserID, "不能返回其他用户的记录")
	}
}

func TestListSearchHistoryEmpty(t *testing.T) {
	r := newTestRouter(&fakeHistoryStore{}, 1)

	w := doJSON(t, r, http.MethodGet, "/api/search-history", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", strings.TrimSpace(w.Body.String()))
}

func TestTemperatureEndpoint(t *testing.T) {
	r := newTestRouter(&fakeHistoryStore{}, 0)

	w := doJSON(t, r, http.MethodPost, "/api/temperature", `{"location":"Tokyo","days":5}`)
	require.Equal(t, http.StatusOK, w.Code)

	var forecast model.Forecast
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &forecast))
	assert.Equal(t, "Tokyo", forecast.Location)
	assert.Equal(t, "celsius", forecast.Unit)
	assert.Len(t, forecast.Predictions, 5)
}

func TestTemperatureMissingLocation(t *testing.T) {
	r := newTestRouter(&fakeHistoryStore{}, 0)

	for _, body := range []string{`{}`, `{"location":"   "}`, `{"days":7}`} {
		w := doJSON(t, r, http.MethodPost, "/api/temperature", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, "body: %s", body)

		var resp map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Location is required", resp["error"])
		assert.NotContains(t, resp, "predictions")
	}
}

func TestTemperatureDefaultDays(t *testing.T) {
	r := newTestRouter(&fakeHistoryStore{}, 0)

	w := doJSON(t, r, http.MethodPost, "/api/temperature", `{"location":"Paris"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var forecast model.Forecast
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &forecast))
	assert.Len(t, forecast.Predictions, 7)
}
