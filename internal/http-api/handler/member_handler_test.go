package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"librarium/internal/http-api/dto"
	"librarium/internal/http-api/handler"
	"librarium/internal/http-api/models"
	"librarium/internal/http-api/service"
)

// --- MOCK SERVICE ---

type MockMemberService struct {
	mock.Mock
}

func (m *MockMemberService) GetAll(ctx context.Context, limit, offset int, search string) ([]models.Member, int64, error) {
	args := m.Called(ctx, limit, offset, search)
	return args.Get(0).([]models.Member), args.Get(1).(int64), args.Error(2)
}

func (m *MockMemberService) GetByID(ctx context.Context, id string) (*models.Member, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Member), args.Error(1)
}

func (m *MockMemberService) Register(ctx context.Context, member *models.Member) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *MockMemberService) Update(ctx context.Context, id string, apply func(*models.Member)) (*models.Member, error) {
	args := m.Called(ctx, id, apply)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Member), args.Error(1)
}

func (m *MockMemberService) Archive(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// --- SETUP ---

func setupMemberRouter(svc *MockMemberService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := handler.NewMemberHandler(svc)
	h.RegisterRoutes(r.Group("/api/members"))
	return r
}

// --- TESTS ---

func TestMemberHandler_List(t *testing.T) {
	svc := new(MockMemberService)
	r := setupMemberRouter(svc)

	since := time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC)
	expected := []models.Member{
		{ID: "member-1", FirstName: "Paul", LastName: "Atreides", Email: "paul@arrakis.io", MemberSince: since},
	}

	t.Run("Success", func(t *testing.T) {
		svc.On("GetAll", mock.Anything, 10, 0, "").Return(expected, int64(1), nil).Once()

		req, _ := http.NewRequest(http.MethodGet, "/api/members", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var response map[string]interface{}
		json.Unmarshal(w.Body.Bytes(), &response)
		data := response["data"].([]interface{})
		assert.Len(t, data, 1)
		item := data[0].(map[string]interface{})
		assert.Equal(t, "paul@arrakis.io", item["email"])
	})

	t.Run("SearchPassthrough", func(t *testing.T) {
		svc.On("GetAll", mock.Anything, 10, 0, "arrakis").Return([]models.Member{}, int64(0), nil).Once()

		req, _ := http.NewRequest(http.MethodGet, "/api/members?search=arrakis", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})
}

func TestMemberHandler_Get(t *testing.T) {
	svc := new(MockMemberService)
	r := setupMemberRouter(svc)

	t.Run("Success", func(t *testing.T) {
		expected := &models.Member{ID: "member-1", FirstName: "Paul", LastName: "Atreides", Email: "paul@arrakis.io"}
		svc.On("GetByID", mock.Anything, "member-1").Return(expected, nil).Once()

		req, _ := http.NewRequest(http.MethodGet, "/api/members/member-1", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var response dto.MemberResponse
		json.Unmarshal(w.Body.Bytes(), &response)
		assert.Equal(t, "member-1", response.ID)
	})

	t.Run("NotFound", func(t *testing.T) {
		svc.On("GetByID", mock.Anything, "missing").Return(nil, service.ErrMemberNotFound).Once()

		req, _ := http.NewRequest(http.MethodGet, "/api/members/missing", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestMemberHandler_Register(t *testing.T) {
	svc := new(MockMemberService)
	r := setupMemberRouter(svc)

	t.Run("Success", func(t *testing.T) {
		svc.On("Register", mock.Anything, mock.MatchedBy(func(m *models.Member) bool {
			return m.Email == "paul@arrakis.io" && m.FirstName == "Paul"
		})).Return(nil).Once()

		body, _ := json.Marshal(dto.RegisterMemberDTO{
			FirstName: "Paul",
			LastName:  "Atreides",
			Email:     "paul@arrakis.io",
		})
		req, _ := http.NewRequest(http.MethodPost, "/api/members/register", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("InvalidEmail", func(t *testing.T) {
		body := []byte(`{"first_name":"Paul","last_name":"Atreides","email":"not-an-email"}`)
		req, _ := http.NewRequest(http.MethodPost, "/api/members/register", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		svc.On("Register", mock.Anything, mock.Anything).Return(service.ErrDuplicateEmail).Once()

		body, _ := json.Marshal(dto.RegisterMemberDTO{
			FirstName: "Paul",
			LastName:  "Atreides",
			Email:     "paul@arrakis.io",
		})
		req, _ := http.NewRequest(http.MethodPost, "/api/members/register", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestMemberHandler_Update(t *testing.T) {
	svc := new(MockMemberService)
	r := setupMemberRouter(svc)

	t.Run("Success", func(t *testing.T) {
		updated := &models.Member{ID: "member-1", FirstName: "Paul", LastName: "Muad'Dib", Email: "paul@arrakis.io"}
		svc.On("Update", mock.Anything, "member-1", mock.Anything).Return(updated, nil).Once()

		body, _ := json.Marshal(dto.UpdateMemberDTO{LastName: stringPtr("Muad'Dib")})
		req, _ := http.NewRequest(http.MethodPatch, "/api/members/member-1", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var response dto.MemberResponse
		json.Unmarshal(w.Body.Bytes(), &response)
		assert.Equal(t, "Muad'Dib", response.LastName)
	})

	t.Run("NotFound", func(t *testing.T) {
		svc.On("Update", mock.Anything, "missing", mock.Anything).Return(nil, service.ErrMemberNotFound).Once()

		body, _ := json.Marshal(dto.UpdateMemberDTO{LastName: stringPtr("X")})
		req, _ := http.NewRequest(http.MethodPatch, "/api/members/missing", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestMemberHandler_Archive(t *testing.T) {
	svc := new(MockMemberService)
	r := setupMemberRouter(svc)

	t.Run("Success", func(t *testing.T) {
		svc.On("Archive", mock.Anything, "member-1").Return(nil).Once()

		req, _ := http.NewRequest(http.MethodDelete, "/api/members/member-1", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("NotFound", func(t *testing.T) {
		svc.On("Archive", mock.Anything, "missing").Return(service.ErrMemberNotFound).Once()

		req, _ := http.NewRequest(http.MethodDelete, "/api/members/missing", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
