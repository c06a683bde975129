package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	userapp "github.com/brookse/smartdoc-backend/internal/application"
	"github.com/brookse/smartdoc-backend/internal/domain/entity"
	handlers "github.com/brookse/smartdoc-backend/internal/interface/http"
	"github.com/brookse/smartdoc-backend/internal/router/modules"
)

const anaID = "7a9f1e6a-8a1d-4a67-9a4a-6f3a3c6d2e01"

type fakeService struct {
	user    *entity.User
	users   []entity.User
	err     error
	deleted bool

	createCalls int
	updateCalls int
	getCalls    int
	deleteCalls int
}

func (f *fakeService) CreateUser(ctx context.Context, in userapp.UserInput) (*entity.User, error) {
	f.createCalls++
	return f.user, f.err
}

func (f *fakeService) GetUser(ctx context.Context, id string) (*entity.User, error) {
	f.getCalls++
	return f.user, f.err
}

func (f *fakeService) ListUsers(ctx context.Context) ([]entity.User, error) {
	return f.users, f.err
}

func (f *fakeService) UpdateUser(ctx context.Context, id string, in userapp.UserInput) (*entity.User, error) {
	f.updateCalls++
	return f.user, f.err
}

func (f *fakeService) DeleteUser(ctx context.Context, id string) error {
	f.deleteCalls++
	f.deleted = f.err == nil
	return f.err
}

func newRouter(svc *fakeService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := handlers.NewUserHandler(svc, nil)
	modules.NewUserModule(h, nil, false).Register(r.Group("/"))
	return r
}

func doRequest(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
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

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body["error"]
}

func anaUser() *entity.User {
	return &entity.User{
		ID:        anaID,
		Name:      "Ana",
		Zipcode:   "10001",
		Latitude:  40.75,
		Longitude: -73.99,
		Timezone:  "America/New_York",
	}
}

func TestCreate_ValidationFailures(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"both missing", `{}`, "Name and zipcode are required."},
		{"name missing", `{"zipcode":"10001"}`, "Name is required."},
		{"zipcode missing", `{"name":"Ana"}`, "Zipcode is required."},
		{"bad format", `{"name":"Ana","zipcode":"abc"}`, "Zipcode format is not valid."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService{}
			r := newRouter(svc)

			w := doRequest(t, r, http.MethodPost, "/users", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.want, errorMessage(t, w))
			assert.Equal(t, 0, svc.createCalls, "validation must reject before any side effect")
		})
	}
}

func TestUpdate_ValidationRunsIdentically(t *testing.T) {
	svc := &fakeService{}
	r := newRouter(svc)

	w := doRequest(t, r, http.MethodPut, "/users/"+anaID, `{"name":"Ana","zipcode":"123"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Zipcode format is not valid.", errorMessage(t, w))
	assert.Equal(t, 0, svc.updateCalls)
}

func TestCreate_MalformedJSON(t *testing.T) {
	svc := &fakeService{}
	r := newRouter(svc)

	w := doRequest(t, r, http.MethodPost, "/users", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, svc.createCalls)
}

func TestCreate_Success(t *testing.T) {
	svc := &fakeService{user: anaUser()}
	r := newRouter(svc)

	w := doRequest(t, r, http.MethodPost, "/users", `{"name":"Ana","zipcode":"10001"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, anaID, body["id"])
	assert.Equal(t, "Ana", body["name"])
	assert.Equal(t, "10001", body["zipcode"])
	assert.Equal(t, 40.75, body["latitude"])
	assert.Equal(t, -73.99, body["longitude"])
	assert.Equal(t, "America/New_York", body["timezone"])
}

func TestCreate_ResolutionFailure(t *testing.T) {
	svc := &fakeService{err: userapp.ErrResolutionFailed}
	r := newRouter(svc)

	w := doRequest(t, r, http.MethodPost, "/users", `{"name":"Ana","zipcode":"10001"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, errorMessage(t, w), "Error creating user")
}

func TestList_Success(t *testing.T) {
	svc := &fakeService{users: []entity.User{*anaUser()}}
	r := newRouter(svc)

	w := doRequest(t, r, http.MethodGet, "/users", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body, 1)
	assert.Equal(t, "Ana", body[0]["name"])
}

func TestGet_Success(t *testing.T) {
	svc := &fakeService{user: anaUser()}
	r := newRouter(svc)

	w := doRequest(t, r, http.MethodGet, "/users/"+anaID, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGet_NotFound(t *testing.T) {
	svc := &fakeService{err: userapp.ErrUserNotFound}
	r := newRouter(svc)

	w := doRequest(t, r, http.MethodGet, "/users/"+anaID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "User not found", errorMessage(t, w))
}

func TestGet_MalformedIDReadsAsAbsent(t *testing.T) {
	svc := &fakeService{}
	r := newRouter(svc)

	w := doRequest(t, r, http.MethodGet, "/users/not-a-uuid", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, 0, svc.getCalls)
}

func TestUpdate_NotFound(t *testing.T) {
	svc := &fakeService{err: userapp.ErrUserNotFound}
	r := newRouter(svc)

	w := doRequest(t, r, http.MethodPut, "/users/"+anaID, `{"name":"Ana","zipcode":"10001"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdate_ConcurrentModification(t *testing.T) {
	svc := &fakeService{err: userapp.ErrConflict}
	r := newRouter(svc)

	w := doRequest(t, r, http.MethodPut, "/users/"+anaID, `{"name":"Ana","zipcode":"10001"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestUpdate_Success(t *testing.T) {
	svc := &fakeService{user: anaUser()}
	r := newRouter(svc)

	w := doRequest(t, r, http.MethodPut, "/users/"+anaID, `{"name":"Ana","zipcode":"10001"}`)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDelete_Success(t *testing.T) {
	svc := &fakeService{}
	r := newRouter(svc)

	w := doRequest(t, r, http.MethodDelete, "/users/"+anaID, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, svc.deleted)
}

func TestDelete_NotFound(t *testing.T) {
	svc := &fakeService{err: userapp.ErrUserNotFound}
	r := newRouter(svc)

	w := doRequest(t, r, http.MethodDelete, "/users/"+anaID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "User not found", errorMessage(t, w))
}
