package live

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) (*Hub, context.CancelFunc) {
	t.Helper()

	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(func() {
		cancel()
		<-hub.Done()
	})

	return hub, cancel
}

func receive(t *testing.T, c *Client) Update {
	t.Helper()

	select {
	case data, ok := <-c.Send:
		require.True(t, ok, "client channel closed")
		var u Update
		require.NoError(t, json.Unmarshal(data, &u))
		return u
	case <-time.After(time.Second):
		t.Fatal("no update received")
		return Update{}
	}
}

func TestHub_PublishReachesOnlySubscribersOfMatch(t *testing.T) {
	hub, _ := startHub(t)

	a := hub.Subscribe(1)
	b := hub.Subscribe(2)
	require.NotNil(t, a)
	require.NotNil(t, b)
	require.Eventually(t, func() bool { return hub.Subscribers(1) == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, hub.Publish(Update{Event: EventRoundAdded, MatchID: 1, Data: map[string]int{"team1_score": 60}}))

	u := receive(t, a)
	assert.Equal(t, EventRoundAdded, u.Event)
	assert.Equal(t, uint(1), u.MatchID)

	select {
	case <-b.Send:
		t.Fatal("subscriber of another match got the update")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_Unsubscribe(t *testing.T) {
	hub, _ := startHub(t)

	c := hub.Subscribe(5)
	require.NotNil(t, c)
	hub.Unsubscribe(c)

	_, ok := <-c.Send
	assert.False(t, ok)
	assert.Equal(t, 0, hub.Subscribers(5))

	// a second unsubscribe is a no-op
	hub.Unsubscribe(c)
}

func TestHub_StopClosesClients(t *testing.T) {
	hub, cancel := startHub(t)

	c := hub.Subscribe(3)
	require.NotNil(t, c)

	cancel()
	<-hub.Done()

	_, ok := <-c.Send
	assert.False(t, ok)
	assert.Nil(t, hub.Subscribe(3))
}

func TestServe(t *testing.T) {
	hub, _ := startHub(t)
	upgrader := websocket.Upgrader{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		Serve(hub, hub.Subscribe(9), conn)
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Subscribers(9) == 1 }, time.Second, 10*time.Millisecond)
	require.NoError(t, hub.Publish(Update{Event: EventWeisAdded, MatchID: 9}))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	var u Update
	require.NoError(t, conn.ReadJSON(&u))
	assert.Equal(t, EventWeisAdded, u.Event)
	assert.Equal(t, uint(9), u.MatchID)

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return hub.Subscribers(9) == 0 }, time.Second, 10*time.Millisecond)
}
