package commerce

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"commerce-events-go/internal/config"
	"commerce-events-go/internal/store"
)

func TestFromConfigSignsWithOAuthKeys(t *testing.T) {
	var gotAuth, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"entity_id": 7}`)
	}))
	defer srv.Close()

	c := FromConfig(config.CommerceConfig{
		BaseURL:           srv.URL,
		StoreView:         "default",
		ConsumerKey:       "ck",
		ConsumerSecret:    "cs",
		AccessToken:       "at",
		AccessTokenSecret: "as",
	})

	res := c.GetOrder(context.Background(), 7)
	require.True(t, res.Success)
	assert.Equal(t, "/rest/default/V1/orders/7", gotPath)
	assert.True(t, strings.HasPrefix(gotAuth, "OAuth "), "got %q", gotAuth)
	assert.Contains(t, gotAuth, `oauth_consumer_key="ck"`)
	assert.Contains(t, gotAuth, "oauth_signature=")
}

func TestFromConfigAdminTokenFallback(t *testing.T) {
	exchanges := 0
	var gotAuth string
	mux := http.NewServeMux()
	mux.HandleFunc("/rest/V1/integration/admin/token", func(w http.ResponseWriter, r *http.Request) {
		exchanges++
		var creds map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, "admin", creds["username"])
		assert.Equal(t, "secret", creds["password"])
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `"admin-token-1"`)
	})
	mux.HandleFunc("/rest/default/V1/orders/7", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"entity_id": 7}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := FromConfig(config.CommerceConfig{
		BaseURL:       srv.URL,
		StoreView:     "default",
		AdminUsername: "admin",
		AdminPassword: "secret",
	}, WithTokenCache(store.NewMemoryStore()))

	require.True(t, c.GetOrder(context.Background(), 7).Success)
	require.True(t, c.GetOrder(context.Background(), 7).Success)
	assert.Equal(t, "Bearer admin-token-1", gotAuth)
	assert.Equal(t, 1, exchanges, "token should come from the cache on the second call")
}

func TestAdminTokenFallbackDegradesToAnonymous(t *testing.T) {
	var gotAuth string
	mux := http.NewServeMux()
	mux.HandleFunc("/rest/V1/integration/admin/token", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message": "invalid credentials"}`, http.StatusUnauthorized)
	})
	mux.HandleFunc("/rest/default/V1/orders/7", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		http.Error(w, `{"message": "unauthorized"}`, http.StatusUnauthorized)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := FromConfig(config.CommerceConfig{
		BaseURL:       srv.URL,
		StoreView:     "default",
		AdminUsername: "admin",
		AdminPassword: "wrong",
	})

	res := c.GetOrder(context.Background(), 7)
	require.False(t, res.Success)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	assert.Equal(t, "Bearer null", gotAuth)
}

func TestUpdateOrderStatusPayload(t *testing.T) {
	var gotBody map[string]interface{}
	var gotMethod, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `true`)
	}))
	defer srv.Close()

	c := FromConfig(config.CommerceConfig{
		BaseURL:     srv.URL,
		StoreView:   "default",
		ConsumerKey: "ck",
	})

	res := c.UpdateOrderStatus(context.Background(), 42, "processing", "relayed")
	require.True(t, res.Success)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/rest/default/V1/orders/42/comments", gotPath)
	history, ok := gotBody["statusHistory"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "processing", history["status"])
	assert.Equal(t, "relayed", history["comment"])
}

func TestSearchOrdersBuildsCriteria(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"items": [], "total_count": 0}`)
	}))
	defer srv.Close()

	c := FromConfig(config.CommerceConfig{BaseURL: srv.URL, StoreView: "default", ConsumerKey: "ck"})

	res := c.SearchOrders(context.Background(), "increment_id", "000000042")
	require.True(t, res.Success)
	assert.Contains(t, gotQuery, "field%5D=increment_id")
	assert.Contains(t, gotQuery, "value%5D=000000042")
}

func TestPublishEvent(t *testing.T) {
	var gotPath string
	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := FromConfig(config.CommerceConfig{BaseURL: srv.URL, StoreView: "default", ConsumerKey: "ck"})

	res := c.PublishEvent(context.Background(), "com.example.order.placed", map[string]interface{}{"id": 42})
	require.True(t, res.Success)
	assert.Equal(t, "/rest/default/V1/events/publish", gotPath)
	assert.Equal(t, "com.example.order.placed", gotBody["event_code"])
}
