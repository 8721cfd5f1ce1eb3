package keypad

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fx "github.com/mikeyg123/pi-alarm/pkg/framework"
	"github.com/mikeyg123/pi-alarm/pkg/msgs"
)

type eventRecorder struct {
	events []fx.Message
}

func (r *eventRecorder) SendEvent(ctx context.Context, msg fx.Message) error {
	r.events = append(r.events, msg)
	return nil
}

func TestControllerKeyPress(t *testing.T) {
	conn := newFake()
	conn.reads = [][]byte{{'K', KeyBell, 'K' + KeyBell}}
	events := &eventRecorder{}
	loop := fx.NewLoop()
	loop.Add(NewController(New(conn), events))

	loop.RunIteration(context.Background())
	require.Len(t, events.events, 1)
	ev := events.events[0].(*msgs.KeyPress)
	assert.Equal(t, uint32(KeyBell), ev.Code)
	assert.Equal(t, "bell", ev.Name)
	assert.NotZero(t, ev.Time)

	loop.RunIteration(context.Background())
	assert.Len(t, events.events, 1)
}

func TestControllerCommands(t *testing.T) {
	conn := newFake()
	events := &eventRecorder{}
	loop := fx.NewLoop()
	loop.Add(NewController(New(conn), events))

	loop.PostMessage(&msgs.LcdText{Text: "ARM"})
	loop.PostMessage(&msgs.LedState{Zones: 1, Leds: uint32(LEDPower)})
	loop.PostMessage(&msgs.LcdText{Clear: true})
	loop.RunIteration(context.Background())

	assert.Equal(t, [][]byte{
		EncodeFrame(AddrLCD, []byte{3, 'A', 'R', 'M'}),
		EncodeFrame(AddrLED, []byte{1, LEDPower}),
		EncodeFrame(AddrLCD, []byte{1, LCDClear}),
	}, conn.written)
	assert.Empty(t, events.events)
}

func TestControllerCommandErrors(t *testing.T) {
	conn := newFake()
	conn.accept = 1
	events := &eventRecorder{}
	loop := fx.NewLoop()
	loop.Add(NewController(New(conn), events))

	loop.PostMessage(&msgs.LedState{Zones: 1})
	loop.PostMessage(&msgs.LedState{Zones: 0x100})
	loop.PostMessage(&msgs.LcdText{Text: strings.Repeat("x", MaxTextLen+1)})
	loop.RunIteration(context.Background())

	require.Len(t, events.events, 3)
	for _, ev := range events.events {
		assert.IsType(t, &msgs.CommandErr{}, ev)
	}
	assert.Contains(t, events.events[0].(*msgs.CommandErr).Message, "sent 1/4")
	assert.Contains(t, events.events[1].(*msgs.CommandErr).Message, "out of range")
	assert.Contains(t, events.events[2].(*msgs.CommandErr).Message, ErrTextTooLong.Error())
	assert.Len(t, conn.written, 1)
}
