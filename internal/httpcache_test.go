/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package internal

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestHttpClient(t *testing.T) {
	var hits atomic.Int32
	var agent atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter,
		r *http.Request) {

		hits.Add(1)
		agent.Store(r.Header.Get("User-Agent"))
		w.Header().Set("Cache-Control", "no-cache, no-store")
		w.Header().Set("Pragma", "no-cache")
		fmt.Fprintf(w, "<html><body>roster</body></html>")
	}))
	defer srv.Close()

	client := NewCachedHttpClient(nil, 5*time.Minute)

	for i := 0; i < 3; i++ {
		resp, err := client.Get(srv.URL)
		if err != nil {
			t.Fatalf("get %v failed: %v", i, err)
		}
		data, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			t.Fatalf("Failed to read response body: %v", err)
		}
		if len(data) == 0 {
			t.Errorf("Empty data")
		}
		if i > 0 && resp.Header.Get("X-From-Cache") != "1" {
			t.Errorf("object not cached on request %v", i)
		}
	}
	if hits.Load() != 1 {
		t.Errorf("origin hit %v times; expected 1", hits.Load())
	}
	if agent.Load() != UserAgent {
		t.Errorf("user agent %q; expected %q", agent.Load(), UserAgent)
	}
}
