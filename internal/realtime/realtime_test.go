package realtime_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qrorder-vn/qrorder-client/internal/qrtest"
	"github.com/qrorder-vn/qrorder-client/internal/realtime"
	pkgerrors "github.com/qrorder-vn/qrorder-client/pkg/errors"
)

const waitFor = 2 * time.Second

func newConn(t *testing.T, server *qrtest.Server) *realtime.Conn {
	t.Helper()
	conn := realtime.New(realtime.Options{
		URL:            server.ChannelURL(),
		ReconnectDelay: 20 * time.Millisecond,
	})
	ctx, cancel := context.WithTimeout(context.Background(), waitFor)
	defer cancel()
	require.NoError(t, conn.Connect(ctx))
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestTopicNames(t *testing.T) {
	assert.Equal(t, "/topic/kitchen/7", realtime.KitchenTopic(7))
	assert.Equal(t, "/topic/staff/7", realtime.StaffTopic(7))
	assert.Equal(t, "/topic/table/42", realtime.TableTopic(42))
}

func TestSubscribeDispatchesMessages(t *testing.T) {
	server := qrtest.NewServer()
	defer server.Close()
	conn := newConn(t, server)

	got := make(chan []byte, 1)
	sub, err := conn.Subscribe(realtime.KitchenTopic(1), func(body []byte) {
		got <- body
	})
	require.NoError(t, err)
	defer sub.Unsubscribe()

	require.True(t, server.WaitSubscribed(realtime.KitchenTopic(1), waitFor))
	require.NoError(t, server.Push(realtime.KitchenTopic(1), map[string]any{"id": 9}))

	select {
	case body := <-got:
		var payload struct {
			ID int64 `json:"id"`
		}
		require.NoError(t, json.Unmarshal(body, &payload))
		assert.Equal(t, int64(9), payload.ID)
	case <-time.After(waitFor):
		t.Fatal("message never reached the handler")
	}
}

func TestMessagesOnOtherTopicsAreNotDispatched(t *testing.T) {
	server := qrtest.NewServer()
	defer server.Close()
	conn := newConn(t, server)

	got := make(chan []byte, 1)
	sub, err := conn.Subscribe(realtime.KitchenTopic(1), func(body []byte) {
		got <- body
	})
	require.NoError(t, err)
	defer sub.Unsubscribe()
	require.True(t, server.WaitSubscribed(realtime.KitchenTopic(1), waitFor))

	require.NoError(t, server.Push(realtime.KitchenTopic(2), map[string]any{"id": 1}))

	select {
	case <-got:
		t.Fatal("handler received a message for another store's topic")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestUnsubscribeIsIdempotent(t *testing.T) {
	server := qrtest.NewServer()
	defer server.Close()
	conn := newConn(t, server)

	sub, err := conn.Subscribe(realtime.StaffTopic(3), func([]byte) {})
	require.NoError(t, err)
	require.True(t, server.WaitSubscribed(realtime.StaffTopic(3), waitFor))

	sub.Unsubscribe()
	sub.Unsubscribe()
	require.NoError(t, sub.Close())
	assert.True(t, server.WaitUnsubscribed(realtime.StaffTopic(3), waitFor))
}

func TestUnsubscribeKeepsTopicWhileOtherHandlersRemain(t *testing.T) {
	server := qrtest.NewServer()
	defer server.Close()
	conn := newConn(t, server)

	first, err := conn.Subscribe(realtime.TableTopic(5), func([]byte) {})
	require.NoError(t, err)
	second, err := conn.Subscribe(realtime.TableTopic(5), func([]byte) {})
	require.NoError(t, err)
	require.True(t, server.WaitSubscribed(realtime.TableTopic(5), waitFor))

	first.Unsubscribe()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, server.SubscriberCount(realtime.TableTopic(5)))

	second.Unsubscribe()
	assert.True(t, server.WaitUnsubscribed(realtime.TableTopic(5), waitFor))
}

func TestPublishReachesDestination(t *testing.T) {
	server := qrtest.NewServer()
	defer server.Close()
	conn := newConn(t, server)

	require.NoError(t, conn.Publish(realtime.CallStaffDestination, map[string]any{
		"tableId":  int64(5),
		"callType": "SERVICE",
	}))

	msg, ok := server.WaitSent(realtime.CallStaffDestination, waitFor)
	require.True(t, ok)
	var body struct {
		TableID  int64  `json:"tableId"`
		CallType string `json:"callType"`
	}
	require.NoError(t, json.Unmarshal(msg.Body, &body))
	assert.Equal(t, int64(5), body.TableID)
	assert.Equal(t, "SERVICE", body.CallType)
}

func TestPublishWithoutConnectionFails(t *testing.T) {
	conn := realtime.New(realtime.Options{URL: "ws://127.0.0.1:1/ws"})
	err := conn.Publish(realtime.CallStaffDestination, map[string]any{})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeChannelUnavailable, pkgerrors.CodeOf(err))
}

func TestReconnectReplaysSubscriptions(t *testing.T) {
	server := qrtest.NewServer()
	defer server.Close()
	conn := newConn(t, server)

	got := make(chan []byte, 4)
	sub, err := conn.Subscribe(realtime.KitchenTopic(1), func(body []byte) {
		got <- body
	})
	require.NoError(t, err)
	defer sub.Unsubscribe()
	require.True(t, server.WaitSubscribed(realtime.KitchenTopic(1), waitFor))

	server.DropConnections()
	require.True(t, server.WaitSubscribed(realtime.KitchenTopic(1), waitFor))

	require.NoError(t, server.Push(realtime.KitchenTopic(1), map[string]any{"id": 2}))
	select {
	case <-got:
	case <-time.After(waitFor):
		t.Fatal("no message after reconnect")
	}
}

func TestCloseReleasesSubscriptions(t *testing.T) {
	server := qrtest.NewServer()
	defer server.Close()
	conn := newConn(t, server)

	_, err := conn.Subscribe(realtime.KitchenTopic(1), func([]byte) {})
	require.NoError(t, err)
	require.True(t, server.WaitSubscribed(realtime.KitchenTopic(1), waitFor))

	require.NoError(t, conn.Close())
	require.NoError(t, conn.Close())
	assert.False(t, conn.Connected())

	_, err = conn.Subscribe(realtime.StaffTopic(1), func([]byte) {})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeChannelUnavailable, pkgerrors.CodeOf(err))
}
