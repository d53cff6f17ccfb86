package events

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testResponseRecorder mirrors gin's test-only TestResponseRecorder, which
// is not exported outside the gin package: an httptest.ResponseRecorder that
// also implements http.CloseNotifier.
type testResponseRecorder struct {
	*httptest.ResponseRecorder
	closeChannel chan bool
}

func (r *testResponseRecorder) CloseNotify() <-chan bool {
	return r.closeChannel
}

func createTestResponseRecorder() *testResponseRecorder {
	return &testResponseRecorder{
		httptest.NewRecorder(),
		make(chan bool, 1),
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	require.Eventually(t, cond, time.Second, 5*time.Millisecond)
}

func TestHub_PublishReachesOnlyThatSession(t *testing.T) {
	hub := NewHub()

	a := hub.Subscribe("a")
	b := hub.Subscribe("b")
	waitFor(t, func() bool { return hub.ClientCount("a") == 1 && hub.ClientCount("b") == 1 })

	hub.Publish("a", PlotRendered, map[string]interface{}{"kind": "bar"})

	select {
	case ev := <-a:
		assert.Equal(t, "a", ev.SessionID)
		assert.Equal(t, PlotRendered, ev.Type)
		assert.Equal(t, "bar", ev.Data["kind"])
		assert.False(t, ev.Timestamp.IsZero())
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}

	select {
	case ev := <-b:
		t.Fatalf("session b received %v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_Unsubscribe(t *testing.T) {
	hub := NewHub()
	ch := hub.Subscribe("s")
	waitFor(t, func() bool { return hub.ClientCount("s") == 1 })

	hub.Unsubscribe("s", ch)
	waitFor(t, func() bool { return hub.ClientCount("s") == 0 })

	_, open := <-ch
	assert.False(t, open)
}

func TestHub_UnsubscribeRightAfterSubscribe(t *testing.T) {
	hub := NewHub()
	for i := 0; i < 200; i++ {
		ch := hub.Subscribe("s")
		hub.Unsubscribe("s", ch)
		_, open := <-ch
		require.False(t, open, "stream %d left open", i)
	}
	assert.Equal(t, 0, hub.ClientCount("s"))

	hub.Publish("s", PlotRendered, nil)
	other := hub.Subscribe("other")
	hub.Unsubscribe("s", other)
	assert.Equal(t, 1, hub.ClientCount("other"), "a stream is only closed through its own session")
}

func TestHub_PublishWithoutListeners(t *testing.T) {
	hub := NewHub()
	for i := 0; i < 500; i++ {
		hub.Publish("nobody", DatasetLoaded, nil)
	}
}

func TestHub_Stream(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := NewHub()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := createTestResponseRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/events", nil).WithContext(ctx)

	done := make(chan struct{})
	go func() {
		hub.Stream(c, "s1")
		close(done)
	}()

	waitFor(t, func() bool { return hub.ClientCount("s1") == 1 })
	hub.Publish("s1", DatasetLoaded, map[string]interface{}{"rows": 3})
	hub.Publish("s1", PlotSkipped, nil)

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("stream did not stop after cancel")
	}

	body := w.Body.String()
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
	assert.True(t, strings.Contains(body, "event:"+DatasetLoaded))
	assert.Contains(t, body, `"rows":3`)
	waitFor(t, func() bool { return hub.ClientCount("s1") == 0 })
}
