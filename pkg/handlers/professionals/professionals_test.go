package professionals_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/chris/timelock-payments/pkg/api"
	handler "github.com/chris/timelock-payments/pkg/handlers/professionals"
	"github.com/chris/timelock-payments/pkg/models"
	"github.com/chris/timelock-payments/pkg/storage"
	"github.com/chris/timelock-payments/pkg/storage/mocks"
)

func TestCreateProfessional(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockStore := new(mocks.Storage)
		mockStore.On("CreateProfessional", mock.Anything, mock.MatchedBy(func(p *models.Professional) bool {
			return p.Name == "Ana" && p.WalletAddress == "0xABC"
		})).Return(&models.Professional{Id: "prof1", Name: "Ana", WalletAddress: "0xABC"}, nil)

		h := handler.NewProfessionalsHandler(mockStore)
		body, _ := json.Marshal(api.NewProfessional{Name: "Ana", WalletAddress: "0xABC"})
		rec := httptest.NewRecorder()
		h.CreateProfessional(rec, httptest.NewRequest("POST", "/v1/professionals", bytes.NewReader(body)))

		assert.Equal(t, http.StatusCreated, rec.Code)

		var resp api.Professional
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "prof1", resp.Id)
	})

	t.Run("Missing Name Returns 400", func(t *testing.T) {
		mockStore := new(mocks.Storage)

		h := handler.NewProfessionalsHandler(mockStore)
		body, _ := json.Marshal(api.NewProfessional{WalletAddress: "0xABC"})
		rec := httptest.NewRecorder()
		h.CreateProfessional(rec, httptest.NewRequest("POST", "/v1/professionals", bytes.NewReader(body)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		mockStore.AssertNotCalled(t, "CreateProfessional")
	})
}

func TestGetProfessionalById(t *testing.T) {
	t.Run("Found", func(t *testing.T) {
		mockStore := new(mocks.Storage)
		mockStore.On("GetProfessional", mock.Anything, "prof1").
			Return(&models.Professional{Id: "prof1", Name: "Ana"}, nil)

		h := handler.NewProfessionalsHandler(mockStore)
		rec := httptest.NewRecorder()
		h.GetProfessionalById(rec, httptest.NewRequest("GET", "/v1/professionals/prof1", nil), "prof1")

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("Missing Returns 404", func(t *testing.T) {
		mockStore := new(mocks.Storage)
		mockStore.On("GetProfessional", mock.Anything, "ghost").
			Return(nil, storage.ErrProfessionalNotFound)

		h := handler.NewProfessionalsHandler(mockStore)
		rec := httptest.NewRecorder()
		h.GetProfessionalById(rec, httptest.NewRequest("GET", "/v1/professionals/ghost", nil), "ghost")

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestListProfessionals(t *testing.T) {
	mockStore := new(mocks.Storage)
	mockStore.On("ListProfessionals", mock.Anything).Return([]models.Professional{
		{Id: "prof1", Name: "Ana"},
		{Id: "prof2", Name: "Ben"},
	}, nil)

	h := handler.NewProfessionalsHandler(mockStore)
	rec := httptest.NewRecorder()
	h.ListProfessionals(rec, httptest.NewRequest("GET", "/v1/professionals", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp []api.Professional
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp, 2)
}
