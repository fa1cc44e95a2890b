package dbfs

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

type call struct {
	Path string
	Body map[string]any
	Auth string
}

func recordingServer(t *testing.T, status func(path string) (int, string)) (*httptest.Server, func() []call) {
	t.Helper()
	var mu sync.Mutex
	var calls []call
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		mu.Lock()
		calls = append(calls, call{Path: r.URL.Path, Body: body, Auth: r.Header.Get("Authorization")})
		mu.Unlock()
		st, msg := http.StatusOK, "{}"
		if status != nil {
			st, msg = status(r.URL.Path)
		}
		w.WriteHeader(st)
		_, _ = w.Write([]byte(msg))
	}))
	t.Cleanup(srv.Close)
	return srv, func() []call {
		mu.Lock()
		defer mu.Unlock()
		return append([]call(nil), calls...)
	}
}

func TestMkdirsAndPut(t *testing.T) {
	srv, calls := recordingServer(t, nil)
	c, err := NewClient(srv.URL+"/", "tok", time.Second, nil)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if err := c.Mkdirs("/FileStore/spark_df_profiling/css"); err != nil {
		t.Fatalf("Mkdirs: %v", err)
	}
	if err := c.Put("/FileStore/spark_df_profiling/css/a.css", []byte("body{}"), true); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got := calls()
	if len(got) != 2 {
		t.Fatalf("calls = %+v", got)
	}
	if got[0].Path != "/api/2.0/dbfs/mkdirs" || got[0].Body["path"] != "/FileStore/spark_df_profiling/css" {
		t.Fatalf("mkdirs call = %+v", got[0])
	}
	if got[1].Path != "/api/2.0/dbfs/put" || got[1].Body["overwrite"] != true {
		t.Fatalf("put call = %+v", got[1])
	}
	dec, _ := base64.StdEncoding.DecodeString(got[1].Body["contents"].(string))
	if string(dec) != "body{}" {
		t.Fatalf("contents = %q", dec)
	}
	if got[0].Auth != "Bearer tok" {
		t.Fatalf("auth = %q", got[0].Auth)
	}
}

func TestErrorClassification(t *testing.T) {
	cases := []struct {
		status int
		body   string
		check  func(error) bool
	}{
		{401, `{"error_code":"PERMISSION_DENIED","message":"no"}`, func(err error) bool { var e *AuthError; return errors.As(err, &e) }},
		{404, `{"error_code":"RESOURCE_DOES_NOT_EXIST","message":"gone"}`, func(err error) bool { var e *NotFoundError; return errors.As(err, &e) }},
		{400, `{"error_code":"RESOURCE_ALREADY_EXISTS","message":"exists"}`, func(err error) bool { var e *ExistsError; return errors.As(err, &e) }},
		{503, `oops`, func(err error) bool { var e *ServerError; return errors.As(err, &e) && e.Message == "oops" }},
		{400, `{"error_code":"INVALID_PARAMETER_VALUE","message":"bad"}`, func(err error) bool {
			var e *APIError
			return errors.As(err, &e) && e.Code == "INVALID_PARAMETER_VALUE"
		}},
	}
	for _, tc := range cases {
		srv, calls := recordingServer(t, func(string) (int, string) { return tc.status, tc.body })
		c, _ := NewClient(srv.URL, "tok", time.Second, nil)
		err := c.Mkdirs("/x")
		if err == nil || !tc.check(err) {
			t.Errorf("status %d: err = %v (%T)", tc.status, err, err)
		}
		if n := len(calls()); n != 1 {
			t.Errorf("status %d: %d calls, want exactly one (no retries)", tc.status, n)
		}
	}
}

func TestUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	c, _ := NewClient(url, "tok", time.Second, nil)
	var ue *UnreachableError
	if err := c.Put("/x", nil, false); !errors.As(err, &ue) {
		t.Fatalf("err = %v, want UnreachableError", err)
	}
}

func TestNewClientRequiresCredentials(t *testing.T) {
	if _, err := NewClient("", "tok", 0, nil); err == nil {
		t.Error("expected error for missing host")
	}
	if _, err := NewClient("https://example", "", 0, nil); err == nil {
		t.Error("expected error for missing token")
	}
}
