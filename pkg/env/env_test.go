package env

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fx "github.com/mikeyg123/pi-alarm/pkg/framework"
	"github.com/mikeyg123/pi-alarm/pkg/keypad"
)

type nullTransport struct {
	written [][]byte
}

func (t *nullTransport) WriteAddrMsg(msg []byte) (int, error) {
	t.written = append(t.written, msg)
	return len(msg), nil
}

func (t *nullTransport) ReadMsg(n int) ([]byte, error) { return nil, nil }

func TestNewEnv(t *testing.T) {
	conf := NewConfig()
	conf.ID = "hall"
	conf.MQTTBrokerURL = "mqtt://localhost:1883/alarm/"
	conf.Listen = "127.0.0.1:0"
	e, err := conf.NewEnv(&nullTransport{})
	require.NoError(t, err)
	require.NotNil(t, e.Bridge)
	require.NotNil(t, e.Feed)
	assert.Len(t, e.Events.Senders, 2)
	assert.Equal(t, "hall/key", e.Bridge.Topic("key"))
	assert.Equal(t, "1200 8O1", e.Bridge.Meta.Line)
}

func TestNewEnvMinimal(t *testing.T) {
	conf := NewConfig()
	conf.MQTTBrokerURL = ""
	conf.Banner = "READY"
	conn := &nullTransport{}
	e, err := conf.NewEnv(conn)
	require.NoError(t, err)
	assert.Nil(t, e.Bridge)
	assert.Nil(t, e.Feed)
	assert.True(t, e.Controller.Verbose)

	loop := fx.NewLoop().Add(e)
	assert.Equal(t, conf.PollInterval, loop.Interval)
	loop.RunIteration(context.Background())
	assert.Equal(t, [][]byte{keypad.EncodeFrame(keypad.AddrLCD, append([]byte{5}, "READY"...))}, conn.written)
}

func TestNewEnvBadURL(t *testing.T) {
	conf := NewConfig()
	conf.MQTTBrokerURL = "mqtt://%zz"
	_, err := conf.NewEnv(&nullTransport{})
	assert.Error(t, err)
}
