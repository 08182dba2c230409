package daemon

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/charlie0129/devbridge/pkg/bridge"
	"github.com/charlie0129/devbridge/pkg/config"
	"github.com/charlie0129/devbridge/pkg/device"
	"github.com/charlie0129/devbridge/pkg/events"
)

func newTestServer(t *testing.T) (*daemon, *device.Mock, *httptest.Server) {
	t.Helper()

	mock := device.NewMock(
		device.Identity{Manufacturer: "Apple", Model: "iPhone", HardwareID: "iPhone16,1"},
		device.OSVersion{PlatformName: "iOS", VersionString: "17.4"},
	)
	d := newDaemon(config.NewFileFromConfig(nil, ""), mock, device.DefaultModelTable())
	ts := httptest.NewServer(d.setupRoutes())
	t.Cleanup(func() {
		d.publisher.Close()
		ts.Close()
	})

	return d, mock, ts
}

func invoke(t *testing.T, ts *httptest.Server, body string) (int, bridge.MethodResponse) {
	t.Helper()

	resp, err := http.Post(ts.URL+"/channels/platform", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var mr bridge.MethodResponse
	if resp.StatusCode != http.StatusBadRequest {
		if err := json.NewDecoder(resp.Body).Decode(&mr); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
	}
	return resp.StatusCode, mr
}

func TestInvokeMethod(t *testing.T) {
	_, mock, ts := newTestServer(t)
	mock.SetBatteryPercentage(57)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantResult string
		wantCode   string
		notImpl    bool
	}{
		{name: "battery level", body: `{"method":"getBatteryLevel"}`, wantStatus: 200, wantResult: `57`},
		{name: "device model", body: `{"method":"getDeviceModel"}`, wantStatus: 200, wantResult: `"iPhone 15 Pro"`},
		{name: "os version", body: `{"method":"getAndroidVersion"}`, wantStatus: 200, wantResult: `"iOS 17.4"`},
		{name: "os version alias", body: `{"method":"getOsVersion"}`, wantStatus: 200, wantResult: `"iOS 17.4"`},
		{name: "unknown method", body: `{"method":"getScreenBrightness"}`, wantStatus: 501, notImpl: true},
		{name: "empty method", body: `{"method":""}`, wantStatus: 501, notImpl: true},
		{name: "malformed body", body: `{"method":`, wantStatus: 400},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, mr := invoke(t, ts, tt.body)
			if status != tt.wantStatus {
				t.Fatalf("status = %d, want %d", status, tt.wantStatus)
			}
			if tt.wantResult != "" && string(mr.Result) != tt.wantResult {
				t.Errorf("result = %s, want %s", mr.Result, tt.wantResult)
			}
			if mr.NotImplemented != tt.notImpl {
				t.Errorf("notImplemented = %v, want %v", mr.NotImplemented, tt.notImpl)
			}
		})
	}
}

func TestInvokeMethodUnavailable(t *testing.T) {
	_, mock, ts := newTestServer(t)
	mock.SetBatteryUnavailable()

	status, mr := invoke(t, ts, `{"method":"getBatteryLevel"}`)
	if status != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", status)
	}
	if mr.Error == nil || mr.Error.Code != bridge.CodeUnavailable {
		t.Fatalf("error = %+v, want UNAVAILABLE", mr.Error)
	}
	if mr.Error.Message != "Battery level not available." {
		t.Errorf("message = %q", mr.Error.Message)
	}
	if len(mr.Result) != 0 {
		t.Errorf("unexpected result %s", mr.Result)
	}
}

// sseReader reads events from a gin SSE stream.
type sseReader struct {
	r *bufio.Reader
}

func (s *sseReader) next(t *testing.T) (string, string) {
	t.Helper()

	var name, data string
	for {
		line, err := s.r.ReadString('\n')
		if err != nil {
			t.Fatalf("failed to read event: %v", err)
		}
		line = strings.TrimRight(line, "\n")
		if line == "" {
			if name == "" && data == "" {
				continue
			}
			return name, data
		}
		if v, ok := strings.CutPrefix(line, "event:"); ok {
			name = v
		}
		if v, ok := strings.CutPrefix(line, "data:"); ok {
			data = v
		}
	}
}

func openStream(t *testing.T, ctx context.Context, ts *httptest.Server) (*http.Response, *sseReader) {
	t.Helper()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/channels/battery", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	return resp, &sseReader{r: bufio.NewReader(resp.Body)}
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestStreamBattery(t *testing.T) {
	d, mock, ts := newTestServer(t)
	mock.SetBatteryPercentage(80)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	resp, sse := openStream(t, ctx, ts)
	defer resp.Body.Close()

	if id := resp.Header.Get("X-Subscription-Id"); id == "" || id != d.publisher.Status().ID {
		t.Errorf("X-Subscription-Id = %q, status %+v", id, d.publisher.Status())
	}

	if name, data := sse.next(t); name != events.BatteryLevel || data != "80" {
		t.Fatalf("initial event = %s %s, want battery 80", name, data)
	}

	mock.SetBatteryPercentage(79)
	if name, data := sse.next(t); name != events.BatteryLevel || data != "79" {
		t.Fatalf("event = %s %s, want battery 79", name, data)
	}

	mock.SetBatteryUnavailable()
	name, data := sse.next(t)
	if name != events.BatteryError {
		t.Fatalf("event = %s %s, want error", name, data)
	}
	var e events.BatteryErrorEvent
	if err := json.Unmarshal([]byte(data), &e); err != nil || e.Code != bridge.CodeUnavailable {
		t.Errorf("error payload = %s", data)
	}

	// Hanging up cancels the subscription and the OS registration.
	cancel()
	waitFor(t, "unsubscribe", func() bool {
		return !d.publisher.Status().Active && mock.ActiveWatchers() == 0
	})

	// Further changes go nowhere.
	mock.SetBatteryPercentage(50)
	if mock.ActiveWatchers() != 0 {
		t.Errorf("watchers leaked after unsubscribe")
	}
}

func TestStreamBatteryReplaced(t *testing.T) {
	d, mock, ts := newTestServer(t)

	ctx := context.Background()
	first, sse1 := openStream(t, ctx, ts)
	defer first.Body.Close()
	if name, data := sse1.next(t); name != events.BatteryLevel || data != "100" {
		t.Fatalf("initial event = %s %s", name, data)
	}

	second, sse2 := openStream(t, ctx, ts)
	defer second.Body.Close()
	if name, _ := sse1.next(t); name != events.StreamEnd {
		t.Fatalf("first stream got %s, want end", name)
	}
	if name, data := sse2.next(t); name != events.BatteryLevel || data != "100" {
		t.Fatalf("initial event = %s %s", name, data)
	}

	if got := d.publisher.Status().ID; got != second.Header.Get("X-Subscription-Id") {
		t.Errorf("active subscription = %s, want the second stream", got)
	}
	if n := mock.ActiveWatchers(); n != 1 {
		t.Errorf("ActiveWatchers() = %d, want 1", n)
	}
}

func TestStreamBatteryWebSocket(t *testing.T) {
	d, mock, ts := newTestServer(t)
	mock.SetBatteryPercentage(42)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/channels/battery/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()

	readLevel := func() int {
		t.Helper()
		var ev events.Event
		_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		if err := conn.ReadJSON(&ev); err != nil {
			t.Fatalf("read failed: %v", err)
		}
		if ev.Name != events.BatteryLevel {
			t.Fatalf("event = %+v, want battery", ev)
		}
		level, err := events.DecodeAs[int](ev)
		if err != nil {
			t.Fatal(err)
		}
		return level
	}

	if got := readLevel(); got != 42 {
		t.Errorf("initial level = %d, want 42", got)
	}
	mock.SetBatteryPercentage(41)
	if got := readLevel(); got != 41 {
		t.Errorf("level = %d, want 41", got)
	}

	// Closing the publisher ends the stream.
	d.publisher.Close()
	var ev events.Event
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&ev); err != nil || ev.Name != events.StreamEnd {
		t.Fatalf("got %+v, %v, want end", ev, err)
	}
	if mock.ActiveWatchers() != 0 {
		t.Errorf("watchers leaked after close")
	}
}

func TestInfoRoutes(t *testing.T) {
	_, _, ts := newTestServer(t)

	get := func(path string) string {
		t.Helper()
		resp, err := http.Get(ts.URL + path)
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("GET %s: status %d", path, resp.StatusCode)
		}
		b, err := io.ReadAll(resp.Body)
		if err != nil {
			t.Fatal(err)
		}
		return string(b)
	}

	channels := map[string]string{}
	if err := json.Unmarshal([]byte(get("/channels")), &channels); err != nil {
		t.Fatal(err)
	}
	if channels["platform"] != "devbridge/platform" || channels["battery"] != "devbridge/battery" {
		t.Errorf("channels = %v", channels)
	}

	var info bridge.SubscriptionInfo
	if err := json.Unmarshal([]byte(get("/subscription")), &info); err != nil {
		t.Fatal(err)
	}
	if info.Active {
		t.Errorf("subscription should be idle, got %+v", info)
	}

	var v string
	if err := json.Unmarshal([]byte(get("/version")), &v); err != nil || v == "" {
		t.Errorf("version = %q, %v", v, err)
	}

	invoke(t, ts, `{"method":"getBatteryLevel"}`)
	invoke(t, ts, `{"method":"nope"}`)
	m := get("/metrics")
	for _, want := range []string{
		`devbridge_method_calls_total{method="getBatteryLevel",outcome="success"} 1`,
		`devbridge_method_calls_total{method="unknown",outcome="not_implemented"} 1`,
		`devbridge_battery_streams_open 0`,
	} {
		if !strings.Contains(m, want) {
			t.Errorf("metrics missing %q", want)
		}
	}
}
