package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCollectorExportsCounters(t *testing.T) {
	c := New("lightclientd_test")
	c.HeaderAdded("pow")
	c.HeaderAdded("pow")
	c.UpdateSubmitted("accepted")
	c.OperationFailed("add_header", "light: header already known")
	c.SetFinalizedHeight("pow_tip", 42)
	c.SetUnfinalizedDepth(3)
	c.SetClientMode(1)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/metrics", nil)
	c.Handler().ServeHTTP(rec, req)

	body := rec.Body.String()
	require.Contains(t, body, `lightclientd_test_headers_added_total{engine="pow"} 2`)
	require.Contains(t, body, `lightclientd_test_updates_submitted_total{result="accepted"} 1`)
	require.Contains(t, body, `lightclientd_test_finalized_height{chain="pow_tip"} 42`)
	require.True(t, strings.Contains(body, "lightclientd_test_beacon_client_mode 1"))
}

func TestNilCollectorIsNoOp(t *testing.T) {
	var c *Collector
	require.NotPanics(t, func() {
		c.HeaderAdded("pow")
		c.UpdateSubmitted("accepted")
		c.OperationFailed("op", "err")
		c.SetFinalizedHeight("chain", 1)
		c.SetUnfinalizedDepth(1)
		c.SetClientMode(0)
		_ = c.Handler()
	})
}
