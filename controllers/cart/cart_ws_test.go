package cartControllers_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/MindSpaceMan/flora-site/cart"
)

// dialFeed opens the cart websocket with the browser's session cookie so
// the feed and the HTTP requests share one cart store.
func dialFeed(t *testing.T, gateway *httptest.Server, browser *http.Client) *websocket.Conn {
	t.Helper()

	gatewayURL, err := url.Parse(gateway.URL)
	if err != nil {
		t.Fatalf("parse gateway url: %v", err)
	}
	header := http.Header{}
	for _, c := range browser.Jar.Cookies(gatewayURL) {
		header.Add("Cookie", c.String())
	}

	wsURL := "ws" + strings.TrimPrefix(gateway.URL, "http") + "/cart/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, header)
	if err != nil {
		t.Fatalf("dial %s: %v", wsURL, err)
	}
	if resp != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { conn.Close() })
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	return conn
}

func TestCartFeedPushesSnapshotOnChange(t *testing.T) {
	upstream := httptest.NewServer((&fakeUpstream{}).handler())
	defer upstream.Close()
	gateway := newGateway(t, upstream.URL)
	browser := newBrowser(t)

	// Establish the session cookie over plain HTTP first.
	resp := doJSON(t, browser, http.MethodGet, gateway.URL+"/cart", nil)
	resp.Body.Close()

	conn := dialFeed(t, gateway, browser)

	var snap cart.Snapshot
	if err := conn.ReadJSON(&snap); err != nil {
		t.Fatalf("read initial snapshot: %v", err)
	}
	if snap.ItemCount != 0 {
		t.Fatalf("initial ItemCount = %d, want 0", snap.ItemCount)
	}

	// A mutation from another tab of the same browser must reach the feed.
	// Identity creation publishes its own frame first, so read until the
	// added line shows up.
	resp = postJSON(t, browser, gateway.URL+"/cart/items", map[string]interface{}{"product_id": "p1", "quantity": 2})
	resp.Body.Close()

	for snap.ItemCount != 2 {
		if err := conn.ReadJSON(&snap); err != nil {
			t.Fatalf("waiting for change push: %v (last snapshot %+v)", err, snap)
		}
	}
	if len(snap.Lines) != 1 || snap.Lines[0].Product.ID != "p1" {
		t.Fatalf("pushed snapshot = %+v, want one line of p1", snap)
	}
}

func TestCartFeedSeparateSessionsStaySilent(t *testing.T) {
	upstream := httptest.NewServer((&fakeUpstream{}).handler())
	defer upstream.Close()
	gateway := newGateway(t, upstream.URL)

	watcher := newBrowser(t)
	resp := doJSON(t, watcher, http.MethodGet, gateway.URL+"/cart", nil)
	resp.Body.Close()
	conn := dialFeed(t, gateway, watcher)

	var snap cart.Snapshot
	if err := conn.ReadJSON(&snap); err != nil {
		t.Fatalf("read initial snapshot: %v", err)
	}

	// A different browser's mutation must not surface on this feed.
	other := newBrowser(t)
	resp = postJSON(t, other, gateway.URL+"/cart/items", map[string]interface{}{"product_id": "p9", "quantity": 1})
	resp.Body.Close()

	conn.SetReadDeadline(time.Now().Add(300 * time.Millisecond))
	if err := conn.ReadJSON(&snap); err == nil {
		t.Fatalf("unexpected frame for another session's cart: %+v", snap)
	}
}
