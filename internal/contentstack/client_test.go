package contentstack

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type testEntry struct {
	UID   string `json:"uid"`
	Title string `json:"title"`
	Count int    `json:"count,omitempty"`
}

// newTestClient points a Client at a fake stack served by httptest.
func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := New(Config{
		APIHost:         srv.URL,
		APIKey:          "stack-key",
		ManagementToken: "mgmt-token",
	})
	return client, srv
}

func TestFetchEntry_DecodesEnvelope(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s, want GET", r.Method)
		}
		if r.URL.Path != "/v3/content_types/application/entries/app1" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.Header.Get("api_key") != "stack-key" {
			t.Errorf("api_key header = %q", r.Header.Get("api_key"))
		}
		if r.Header.Get("authorization") != "mgmt-token" {
			t.Errorf("authorization header = %q", r.Header.Get("authorization"))
		}
		w.Write([]byte(`{"entry":{"uid":"app1","title":"jq","count":5}}`))
	})

	var entry testEntry
	if err := client.FetchEntry(context.Background(), "application", "app1", &entry); err != nil {
		t.Fatalf("FetchEntry() error = %v", err)
	}
	if entry.UID != "app1" || entry.Title != "jq" || entry.Count != 5 {
		t.Errorf("entry = %+v", entry)
	}
}

func TestFetchEntry_NotFound(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error_message":"entry not found"}`))
	})

	var entry testEntry
	err := client.FetchEntry(context.Background(), "application", "missing", &entry)
	if err == nil {
		t.Fatal("FetchEntry() should error on 404")
	}
	if !IsStatus(err, http.StatusNotFound) {
		t.Errorf("IsStatus(404) = false for %v", err)
	}
	if IsStatus(err, http.StatusConflict) {
		t.Error("IsStatus(409) = true for a 404")
	}
}

func TestQueryEntries_SendsJSONFilter(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		raw := r.URL.Query().Get("query")
		var filter map[string]any
		if err := json.Unmarshal([]byte(raw), &filter); err != nil {
			t.Errorf("query param is not JSON: %q", raw)
		}
		if filter["email"] != "a@x.com" {
			t.Errorf("filter = %v, want email=a@x.com", filter)
		}
		w.Write([]byte(`{"entries":[{"uid":"u1","title":"a@x.com"}]}`))
	})

	var entries []testEntry
	err := client.QueryEntries(context.Background(), "users", map[string]any{"email": "a@x.com"}, &entries)
	if err != nil {
		t.Fatalf("QueryEntries() error = %v", err)
	}
	if len(entries) != 1 || entries[0].UID != "u1" {
		t.Errorf("entries = %+v", entries)
	}
}

func TestQueryEntries_EmptyResult(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"entries":[]}`))
	})

	var entries []testEntry
	if err := client.QueryEntries(context.Background(), "users", nil, &entries); err != nil {
		t.Fatalf("QueryEntries() error = %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("entries = %+v, want empty", entries)
	}
}

func TestCreateEntry_WrapsAndUnwraps(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		var payload struct {
			Entry testEntry `json:"entry"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		if payload.Entry.Title != "new app" {
			t.Errorf("entry title = %q", payload.Entry.Title)
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"entry":{"uid":"generated-uid","title":"new app"}}`))
	})

	var created testEntry
	err := client.CreateEntry(context.Background(), "application", testEntry{Title: "new app"}, &created)
	if err != nil {
		t.Fatalf("CreateEntry() error = %v", err)
	}
	if created.UID != "generated-uid" {
		t.Errorf("UID = %q, want CMS-assigned uid", created.UID)
	}
}

func TestUpdateEntry_SendsVersionParam(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("method = %s, want PUT", r.Method)
		}
		if got := r.URL.Query().Get("version"); got != "7" {
			t.Errorf("version param = %q, want 7", got)
		}
		w.Write([]byte(`{"entry":{"uid":"app1","title":"jq"}}`))
	})

	err := client.UpdateEntry(context.Background(), "application", "app1", testEntry{Title: "jq"}, 7, nil)
	if err != nil {
		t.Fatalf("UpdateEntry() error = %v", err)
	}
}

func TestUpdateEntry_ZeroVersionOmitsParam(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Has("version") {
			t.Error("version param sent for version 0")
		}
		w.Write([]byte(`{"entry":{"uid":"app1"}}`))
	})

	if err := client.UpdateEntry(context.Background(), "application", "app1", testEntry{}, 0, nil); err != nil {
		t.Fatalf("UpdateEntry() error = %v", err)
	}
}

func TestUpdateEntry_Conflict(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"error_message":"version mismatch"}`))
	})

	err := client.UpdateEntry(context.Background(), "application", "app1", testEntry{}, 3, nil)
	if !IsStatus(err, http.StatusConflict) {
		t.Errorf("IsStatus(409) = false for %v", err)
	}
}

func TestPublishEntry_Payload(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v3/content_types/users/entries/u1/publish" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var payload struct {
			Entry struct {
				Environments []string `json:"environments"`
				Locales      []string `json:"locales"`
			} `json:"entry"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		if len(payload.Entry.Environments) != 1 || payload.Entry.Environments[0] != "production" {
			t.Errorf("environments = %v", payload.Entry.Environments)
		}
		if len(payload.Entry.Locales) != 1 || payload.Entry.Locales[0] != "en-us" {
			t.Errorf("locales = %v", payload.Entry.Locales)
		}
		w.Write([]byte(`{"notice":"ok"}`))
	})

	err := client.PublishEntry(context.Background(), "users", "u1", []string{"production"}, []string{"en-us"})
	if err != nil {
		t.Fatalf("PublishEntry() error = %v", err)
	}
}

func TestDo_ErrorBodyTruncated(t *testing.T) {
	long := make([]byte, 4096)
	for i := range long {
		long[i] = 'x'
	}
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write(long)
	})

	var entry testEntry
	err := client.FetchEntry(context.Background(), "application", "app1", &entry)
	if err == nil {
		t.Fatal("FetchEntry() should error on 500")
	}
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("error = %T, want StatusError", err)
	}
	if len(se.Body) > 1024 {
		t.Errorf("error body length = %d, want at most 1024", len(se.Body))
	}
}

func TestDecodeEnvelope_MissingKey(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"something_else":{}}`))
	})

	var entry testEntry
	err := client.FetchEntry(context.Background(), "application", "app1", &entry)
	if err == nil {
		t.Fatal("FetchEntry() should error when the envelope key is missing")
	}
}
