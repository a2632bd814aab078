package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 5*time.Second)
}

func writeTempCSV(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "addresses.csv")
	if err := os.WriteFile(path, []byte("address\n100 Main St\n200 Oak St\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestUploadSendsMultipartForm(t *testing.T) {
	var gotColumn, gotFilename, gotRequestID string
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/upload" || r.Method != http.MethodPost {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		gotRequestID = r.Header.Get("X-Request-ID")
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		gotColumn = r.FormValue("address_column")
		if _, header, err := r.FormFile("file"); err == nil {
			gotFilename = header.Filename
		} else {
			t.Errorf("form file: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"job_id":"job-42","total":2}`))
	}))

	res, err := c.Upload(context.Background(), UploadOptions{
		Path:          writeTempCSV(t),
		AddressColumn: "property_address",
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if res.JobID != "job-42" || res.Total != 2 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if gotFilename != "addresses.csv" {
		t.Fatalf("expected original filename, got %q", gotFilename)
	}
	if gotColumn != "property_address" {
		t.Fatalf("column override missing, got %q", gotColumn)
	}
	if gotRequestID == "" {
		t.Fatalf("expected an X-Request-ID header")
	}
}

func TestUploadSurfacesDetailFromErrorBody(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"detail":"no address column found"}`))
	}))

	_, err := c.Upload(context.Background(), UploadOptions{Path: writeTempCSV(t)})
	if err == nil {
		t.Fatalf("expected an error")
	}
	if err.Error() != "no address column found" {
		t.Fatalf("expected the server's detail message, got %q", err.Error())
	}
}

func TestUploadFallsBackToErrorField(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"database unavailable"}`))
	}))

	_, err := c.Upload(context.Background(), UploadOptions{Path: writeTempCSV(t)})
	if err == nil || err.Error() != "database unavailable" {
		t.Fatalf("expected the server's error message, got %v", err)
	}
}

func TestListJobsAcceptsBareArrayAndWrapper(t *testing.T) {
	bodies := []string{
		`[{"job_id":"a","status":"processing","total":100}]`,
		`{"jobs":[{"job_id":"a","status":"processing","total":100}]}`,
	}
	for _, body := range bodies {
		payload := body
		c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/jobs" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			_, _ = w.Write([]byte(payload))
		}))

		jobs, err := c.ListJobs(context.Background())
		if err != nil {
			t.Fatalf("list jobs (%s): %v", payload, err)
		}
		if len(jobs) != 1 || jobs[0].JobID != "a" || !jobs[0].IsRunning() {
			t.Fatalf("unexpected jobs for %s: %+v", payload, jobs)
		}
	}
}

func TestCancelJobHitsCancelEndpoint(t *testing.T) {
	var gotPath string
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.Method + " " + r.URL.Path
		w.WriteHeader(http.StatusAccepted)
	}))

	if err := c.CancelJob(context.Background(), "job-9"); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if gotPath != "POST /api/jobs/job-9/cancel" {
		t.Fatalf("unexpected request %q", gotPath)
	}
}

func TestDownloadWritesServerBytesVerbatim(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("address,agent\n100 Main St,Jane Realtor\n"))
	}))

	dest := filepath.Join(t.TempDir(), "out.csv")
	if err := c.Download(context.Background(), "job-1", dest); err != nil {
		t.Fatalf("download: %v", err)
	}
	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "address,agent\n100 Main St,Jane Realtor\n" {
		t.Fatalf("unexpected file contents: %q", data)
	}
}

func TestDeleteJob(t *testing.T) {
	var gotPath string
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.Method + " " + r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))

	if err := c.DeleteJob(context.Background(), "job-3"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if gotPath != "DELETE /api/jobs/job-3" {
		t.Fatalf("unexpected request %q", gotPath)
	}
}
