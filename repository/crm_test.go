package repository

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/worldmotoclash/wmc-capital-hub-sub000/config"
	"github.com/worldmotoclash/wmc-capital-hub-sub000/model"
)

func newTestCRMClient(baseURL string) *CRMClient {
	return NewCRMClient(&config.Config{
		TrackingURL:     baseURL + "/track",
		VerificationURL: baseURL + "/verify",
		ResetURL:        baseURL + "/reset",
		HTTPTimeout:     5 * time.Second,
	})
}

func TestSubmitTrackingFields(t *testing.T) {
	var form map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		form = map[string]string{}
		for key, values := range r.MultipartForm.Value {
			form[key] = values[0]
		}
	}))
	defer server.Close()

	client := newTestCRMClient(server.URL)
	err := client.SubmitTracking(context.Background(), model.TrackingEvent{
		ContactID:  "003A",
		TargetURL:  "https://invest.worldmotoclash.com/dealroom",
		ActionType: model.ActionDocumentClicked,
		Title:      "Series A Deck",
		IPAddress:  "1.2.3.4",
		Country:    "United States",
		City:       "Austin",
	})
	require.NoError(t, err)

	assert.Equal(t, "ri__Portal__c", form["sObj"])
	assert.Equal(t, "003A", form["string_ri__Contact__c"])
	assert.Equal(t, "https://invest.worldmotoclash.com/dealroom", form["text_ri__Login_URL__c"])
	assert.Equal(t, "Document Clicked", form["text_ri__Action__c"])
	assert.Equal(t, "1.2.3.4", form["text_ri__IP_Address__c"])
	assert.Equal(t, "United States", form["text_ri__Login_Country__c"])
	assert.Equal(t, "Austin", form["text_ri__Login_City__c"])
	assert.Equal(t, "Series A Deck", form["text_ri__Document_Title__c"])
}

func TestSubmitTrackingTitleOmitted(t *testing.T) {
	var hasTitle bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		_, hasTitle = r.MultipartForm.Value["text_ri__Document_Title__c"]
	}))
	defer server.Close()

	client := newTestCRMClient(server.URL)
	err := client.SubmitTracking(context.Background(), model.TrackingEvent{
		ContactID:  "003A",
		ActionType: model.ActionLogin,
	})
	require.NoError(t, err)
	assert.False(t, hasTitle)
}

// The servlet owns the action vocabulary; anything we are handed goes out
// on the wire unvalidated.
func TestSubmitTrackingUnknownActionStillSent(t *testing.T) {
	var sentAction string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		sentAction = r.MultipartForm.Value["text_ri__Action__c"][0]
	}))
	defer server.Close()

	client := newTestCRMClient(server.URL)
	err := client.SubmitTracking(context.Background(), model.TrackingEvent{
		ContactID:  "003A",
		ActionType: "Video View", // not in the vocabulary; servlet drops it silently
	})
	require.NoError(t, err)
	assert.Equal(t, "Video View", sentAction)
}

func TestSubmitTrackingNon2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestCRMClient(server.URL)
	err := client.SubmitTracking(context.Background(), model.TrackingEvent{ContactID: "003A"})
	assert.Error(t, err)
}

func TestFlagIPVerificationQuery(t *testing.T) {
	var query map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = map[string]string{}
		for key := range r.URL.Query() {
			query[key] = r.URL.Query().Get(key)
		}
	}))
	defer server.Close()

	client := newTestCRMClient(server.URL)
	err := client.FlagIPVerification(context.Background(), "003A", "9.9.9.9", "Germany", "Berlin")
	require.NoError(t, err)

	assert.Equal(t, "Contact", query["sObj"])
	assert.Equal(t, "003A", query["id_Contact"])
	assert.Equal(t, "Yes", query["text_IP_Verification_Required__c"])
	assert.Equal(t, "9.9.9.9", query["text_ri__IP_Address__c"])
	assert.Equal(t, "Germany", query["text_ri__Login_Country__c"])
	assert.Equal(t, "Berlin", query["text_ri__Login_City__c"])
}

func TestPasswordResetRoundTrip(t *testing.T) {
	var forms []map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		form := map[string]string{}
		for key, values := range r.MultipartForm.Value {
			form[key] = values[0]
		}
		forms = append(forms, form)
	}))
	defer server.Close()

	client := newTestCRMClient(server.URL)
	require.NoError(t, client.RequestPasswordReset(context.Background(), "003A"))
	require.NoError(t, client.CompletePasswordReset(context.Background(), "003A", "new-secret"))

	require.Len(t, forms, 2)
	assert.Equal(t, "Yes", forms[0]["text_Reset_Password__c"])
	assert.Equal(t, "Contact", forms[0]["sObj"])
	assert.Equal(t, "", forms[1]["text_Reset_Password__c"])
	assert.Equal(t, "new-secret", forms[1]["string_ri__Password__c"])
}
