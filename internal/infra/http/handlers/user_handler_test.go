package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/xavierca1/oneconsig-crm/internal/entity"
	"github.com/xavierca1/oneconsig-crm/internal/infra/http/middleware"
	"github.com/xavierca1/oneconsig-crm/internal/usecase"
)

func newUserRouter(repo *MockUserRepository, actor *entity.Actor) http.Handler {
	h := NewUserHandler(usecase.NewManageUsersUseCase(repo))
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(middleware.WithActor(req.Context(), actor)))
		})
	})
	r.Get("/users", h.List)
	r.Post("/users", h.Create)
	r.Put("/users/{id}", h.Update)
	r.Delete("/users/{id}", h.Delete)
	return r
}

func TestCreateUserDefaults(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(u *entity.AuthorizedUser) bool {
		return u.Status == entity.UserAtivo && u.DataFim != nil
	})).Return(nil)

	req := httptest.NewRequest(http.MethodPost, "/users", bytes.NewBufferString(`{"nome":"Carla","telefone":"11988887777"}`))
	rec := httptest.NewRecorder()
	newUserRouter(repo, admin).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	repo.AssertExpectations(t)
}

func TestUsersForbiddenForAttendant(t *testing.T) {
	repo := new(MockUserRepository)

	rec := httptest.NewRecorder()
	newUserRouter(repo, attendant).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users", nil))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	repo.AssertNotCalled(t, "List", mock.Anything)
}

func TestDeleteUnknownUser(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("Delete", mock.Anything, "x").Return(entity.ErrUserNotFound)

	rec := httptest.NewRecorder()
	newUserRouter(repo, admin).ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/users/x", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
