package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/retail/backoffice/internal/domain/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWholesaleEngines(svc *services) (admin, public *gin.Engine) {
	h := NewWholesaleHandler(svc.links)

	admin = gin.New()
	admin.Use(asRole(identity.RoleAdmin))
	admin.POST("/wholesale/links", h.CreateLink)
	admin.GET("/wholesale/links", h.ListLinks)
	admin.GET("/wholesale/links/:id", h.GetLink)
	admin.POST("/wholesale/links/:id/deactivate", h.DeactivateLink)
	admin.DELETE("/wholesale/links/:id", h.DeleteLink)

	public = gin.New()
	public.GET("/wholesale/links/validate/:token", h.Validate)
	public.POST("/wholesale/apply-pricing", h.ApplyPricing)
	public.POST("/wholesale/save-customer", h.SaveCustomer)
	public.GET("/wholesale/customer/:token", h.GetCustomer)
	return admin, public
}

type linkBody struct {
	ID        uuid.UUID  `json:"id"`
	Token     string     `json:"token"`
	Uses      int        `json:"uses"`
	IsActive  bool       `json:"isActive"`
	CreatedBy *uuid.UUID `json:"createdBy"`
}

func TestWholesaleHandler_LinkLifecycle(t *testing.T) {
	svc := newServices(t, nil)
	admin, public := newWholesaleEngines(svc)

	rec := doJSON(t, admin, http.MethodPost, "/wholesale/links", map[string]any{
		"name":         "Mayorista Norte",
		"discount":     "15",
		"businessName": "Norte SRL",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var link linkBody
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &link))
	require.NotEmpty(t, link.Token)
	assert.True(t, link.IsActive)
	assert.NotNil(t, link.CreatedBy)

	rec = doJSON(t, public, http.MethodGet, "/wholesale/links/validate/"+link.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var view struct {
		Name     string `json:"name"`
		Discount string `json:"discount"`
	}
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &view))
	assert.Equal(t, "Mayorista Norte", view.Name)
	assert.Equal(t, "15", view.Discount)

	rec = doJSON(t, admin, http.MethodGet, "/wholesale/links/"+link.ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &link))
	assert.Equal(t, 1, link.Uses)

	rec = doJSON(t, admin, http.MethodPost, "/wholesale/links/"+link.ID.String()+"/deactivate", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, public, http.MethodGet, "/wholesale/links/validate/"+link.Token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, admin, http.MethodGet, "/wholesale/links?active=false", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1), decode(t, rec).Meta.Total)

	rec = doJSON(t, admin, http.MethodDelete, "/wholesale/links/"+link.ID.String(), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, admin, http.MethodGet, "/wholesale/links/"+link.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWholesaleHandler_PublicValidation(t *testing.T) {
	svc := newServices(t, nil)
	_, public := newWholesaleEngines(svc)

	rec := doJSON(t, public, http.MethodGet, "/wholesale/links/validate/unknown-token", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, public, http.MethodPost, "/wholesale/apply-pricing", map[string]any{"productIds": []string{}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, public, http.MethodPost, "/wholesale/save-customer", map[string]any{
		"token":         "abc",
		"customerName":  "Ana",
		"customerEmail": "not-an-email",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	env := decode(t, rec)
	require.Len(t, env.Error.Details, 1)
	assert.Equal(t, "customerEmail", env.Error.Details[0].Field)
}

func TestWholesaleHandler_CreateLinkRejectsNegativeDiscount(t *testing.T) {
	svc := newServices(t, nil)
	admin, _ := newWholesaleEngines(svc)

	rec := doJSON(t, admin, http.MethodPost, "/wholesale/links", map[string]any{"name": "X", "discount": "-5"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
