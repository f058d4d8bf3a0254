package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/pawtracker/pet-care-api/models"
)

func postAd(t *testing.T, env *testEnv, fields map[string]string, photoName string, photo []byte, bearer string) *http.Response {
	t.Helper()
	body, contentType := adForm(t, fields, photoName, photo)
	req := httptest.NewRequest(http.MethodPost, "/advertisements", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", bearer)
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeAd(t *testing.T, resp *http.Response) models.Advertisement {
	t.Helper()
	var ad models.Advertisement
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&ad))
	return ad
}

func TestCreateAdvertisement(t *testing.T) {
	env := newTestEnv(t)
	bearer := token(t, "jane@x.com", false)

	resp := postAd(t, env, janeFields(), "cat.jpg", jpegHeader, bearer)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	ad := decodeAd(t, resp)
	assert.Equal(t, models.StatusPending, ad.Status)
	assert.Equal(t, models.PaymentPending, ad.PaymentStatus)
	assert.Equal(t, "Jane Doe", ad.Name)
	assert.NotEmpty(t, ad.Photo)
	assert.Len(t, env.ads.ads, 1)
}

func TestCreateAdvertisementMissingFields(t *testing.T) {
	env := newTestEnv(t)
	bearer := token(t, "jane@x.com", false)

	for _, missing := range []string{"name", "email", "contactNumber", "advertisementType", "heading", "description"} {
		fields := janeFields()
		delete(fields, missing)
		resp := postAd(t, env, fields, "cat.jpg", jpegHeader, bearer)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "missing %s", missing)
	}
	assert.Empty(t, env.ads.ads, "no document may be persisted on validation failure")
}

func TestCreateAdvertisementSellRequiresPetType(t *testing.T) {
	env := newTestEnv(t)
	bearer := token(t, "jane@x.com", false)

	fields := janeFields()
	fields["advertisementType"] = models.AdTypeSell
	resp := postAd(t, env, fields, "cat.jpg", jpegHeader, bearer)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Empty(t, env.ads.ads)

	fields["petType"] = "Cat"
	resp = postAd(t, env, fields, "cat.jpg", jpegHeader, bearer)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "Cat", decodeAd(t, resp).PetType)
}

func TestCreateAdvertisementClearsPetTypeForNonSale(t *testing.T) {
	env := newTestEnv(t)
	bearer := token(t, "jane@x.com", false)

	fields := janeFields()
	fields["petType"] = "Dog" // stray value on a Lost Pet ad
	resp := postAd(t, env, fields, "cat.jpg", jpegHeader, bearer)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Empty(t, decodeAd(t, resp).PetType)
}

func TestCreateAdvertisementInvalidType(t *testing.T) {
	env := newTestEnv(t)
	bearer := token(t, "jane@x.com", false)

	fields := janeFields()
	fields["advertisementType"] = "Free Pet"
	resp := postAd(t, env, fields, "cat.jpg", jpegHeader, bearer)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Empty(t, env.ads.ads)
}

func TestCreateAdvertisementRejectsOversizedUpload(t *testing.T) {
	env := newTestEnv(t)
	bearer := token(t, "jane@x.com", false)

	big := append(append([]byte{}, jpegHeader...), bytes.Repeat([]byte{0}, 6<<20)...)
	resp := postAd(t, env, janeFields(), "big.jpg", big, bearer)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Empty(t, env.ads.ads, "rejection must happen before document creation")
}

func TestCreateAdvertisementRejectsDisguisedTextFile(t *testing.T) {
	env := newTestEnv(t)
	bearer := token(t, "jane@x.com", false)

	resp := postAd(t, env, janeFields(), "notes.jpg", []byte("this is plain text, not an image"), bearer)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Empty(t, env.ads.ads)
}

func TestApproveAdvertisement(t *testing.T) {
	env := newTestEnv(t)
	userBearer := token(t, "jane@x.com", false)
	adminBearer := token(t, "admin@x.com", true)

	resp := postAd(t, env, janeFields(), "cat.jpg", jpegHeader, userBearer)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeAd(t, resp)

	req := httptest.NewRequest(http.MethodPut, "/advertisements/approve/"+created.ID.Hex(), nil)
	req.Header.Set("Authorization", adminBearer)
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/advertisements/details/"+created.ID.Hex(), nil)
	resp, err = env.app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	got := decodeAd(t, resp)
	assert.Equal(t, models.StatusApproved, got.Status)
	// Moderation alters nothing else.
	assert.Equal(t, created.Name, got.Name)
	assert.Equal(t, created.Heading, got.Heading)
	assert.Equal(t, created.PaymentStatus, got.PaymentStatus)
	assert.Equal(t, created.Photo, got.Photo)

	// The owner is told about the decision.
	notifications, err := env.notifications.ByEmail(nil, "jane@x.com")
	require.NoError(t, err)
	require.Len(t, notifications, 1)
}

func TestRejectAdvertisement(t *testing.T) {
	env := newTestEnv(t)
	userBearer := token(t, "jane@x.com", false)
	adminBearer := token(t, "admin@x.com", true)

	resp := postAd(t, env, janeFields(), "cat.jpg", jpegHeader, userBearer)
	created := decodeAd(t, resp)

	req := httptest.NewRequest(http.MethodPut, "/advertisements/reject/"+created.ID.Hex(), nil)
	req.Header.Set("Authorization", adminBearer)
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	stored, err := env.ads.ByID(nil, created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, stored.Status)
}

func TestModerationUnknownID(t *testing.T) {
	env := newTestEnv(t)
	adminBearer := token(t, "admin@x.com", true)

	for _, action := range []string{"approve", "reject"} {
		req := httptest.NewRequest(http.MethodPut,
			fmt.Sprintf("/advertisements/%s/%s", action, primitive.NewObjectID().Hex()), nil)
		req.Header.Set("Authorization", adminBearer)
		resp, err := env.app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	}
	assert.Empty(t, env.ads.ads, "collection must be unchanged")
}

func TestModerationRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)
	userBearer := token(t, "jane@x.com", false)

	resp := postAd(t, env, janeFields(), "cat.jpg", jpegHeader, userBearer)
	created := decodeAd(t, resp)

	req := httptest.NewRequest(http.MethodPut, "/advertisements/approve/"+created.ID.Hex(), nil)
	req.Header.Set("Authorization", userBearer)
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestDeleteAdvertisement(t *testing.T) {
	env := newTestEnv(t)
	bearer := token(t, "jane@x.com", false)

	resp := postAd(t, env, janeFields(), "cat.jpg", jpegHeader, bearer)
	created := decodeAd(t, resp)

	req := httptest.NewRequest(http.MethodDelete, "/advertisements/delete/"+primitive.NewObjectID().Hex(), nil)
	req.Header.Set("Authorization", bearer)
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	req = httptest.NewRequest(http.MethodDelete, "/advertisements/delete/"+created.ID.Hex(), nil)
	req.Header.Set("Authorization", bearer)
	resp, err = env.app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/advertisements/details/"+created.ID.Hex(), nil)
	resp, err = env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMyAdvertisements(t *testing.T) {
	env := newTestEnv(t)
	janeBearer := token(t, "jane@x.com", false)
	bobBearer := token(t, "bob@x.com", false)

	postAd(t, env, janeFields(), "cat.jpg", jpegHeader, janeBearer)
	postAd(t, env, janeFields(), "cat2.jpg", jpegHeader, janeBearer)

	bobFields := janeFields()
	bobFields["email"] = "bob@x.com"
	bobFields["name"] = "Bob"
	postAd(t, env, bobFields, "dog.jpg", jpegHeader, bobBearer)

	req := httptest.NewRequest(http.MethodGet, "/advertisements/my-ads/jane@x.com", nil)
	req.Header.Set("Authorization", janeBearer)
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var payload struct {
		Count int                    `json:"count"`
		Data  []models.Advertisement `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Equal(t, 2, payload.Count)
	for _, ad := range payload.Data {
		assert.Equal(t, "jane@x.com", ad.Email)
	}

	// Bob cannot list Jane's ads with his own token.
	req = httptest.NewRequest(http.MethodGet, "/advertisements/my-ads/jane@x.com", nil)
	req.Header.Set("Authorization", bobBearer)
	resp, err = env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestEditAdvertisementOwnership(t *testing.T) {
	env := newTestEnv(t)
	janeBearer := token(t, "jane@x.com", false)
	bobBearer := token(t, "bob@x.com", false)

	resp := postAd(t, env, janeFields(), "cat.jpg", jpegHeader, janeBearer)
	created := decodeAd(t, resp)

	fields := janeFields()
	fields["heading"] = "Found my cat"
	body, contentType := adForm(t, fields, "", nil)

	req := httptest.NewRequest(http.MethodPut, "/advertisements/edit/"+created.ID.Hex(), body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", bobBearer)
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	body, contentType = adForm(t, fields, "", nil)
	req = httptest.NewRequest(http.MethodPut, "/advertisements/edit/"+created.ID.Hex(), body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", janeBearer)
	resp, err = env.app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	stored, err := env.ads.ByID(nil, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Found my cat", stored.Heading)
	assert.Equal(t, created.Photo, stored.Photo, "photo is kept when no new file is sent")
}

func TestEditAdvertisementRemovesPhotoOnUpdateFailure(t *testing.T) {
	env := newTestEnv(t)
	bearer := token(t, "jane@x.com", false)

	resp := postAd(t, env, janeFields(), "cat.jpg", jpegHeader, bearer)
	created := decodeAd(t, resp)

	env.ads.updateErr = errors.New("write failed")

	body, contentType := adForm(t, janeFields(), "new.jpg", jpegHeader)
	req := httptest.NewRequest(http.MethodPut, "/advertisements/edit/"+created.ID.Hex(), body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", bearer)
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	// The replacement file must not be orphaned; only the original remains.
	entries, err := os.ReadDir(env.uploadDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, created.Photo, entries[0].Name())
}

func TestCreateAdvertisementRequiresAuth(t *testing.T) {
	env := newTestEnv(t)

	body, contentType := adForm(t, janeFields(), "cat.jpg", jpegHeader)
	req := httptest.NewRequest(http.MethodPost, "/advertisements", body)
	req.Header.Set("Content-Type", contentType)
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestListAdvertisementsPublic(t *testing.T) {
	env := newTestEnv(t)
	bearer := token(t, "jane@x.com", false)
	postAd(t, env, janeFields(), "cat.jpg", jpegHeader, bearer)

	req := httptest.NewRequest(http.MethodGet, "/advertisements", nil)
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var payload struct {
		Data []models.Advertisement `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &payload))
	assert.Len(t, payload.Data, 1)
}
