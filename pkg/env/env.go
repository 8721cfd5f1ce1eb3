package env

import (
	"fmt"

	"github.com/golang/glog"

	"github.com/mikeyg123/pi-alarm/pkg/feed"
	fx "github.com/mikeyg123/pi-alarm/pkg/framework"
	"github.com/mikeyg123/pi-alarm/pkg/keypad"
	"github.com/mikeyg123/pi-alarm/pkg/mqtt"
	"github.com/mikeyg123/pi-alarm/pkg/msgs"
)

// Env wires a keypad to the configured event sinks and command sources.
type Env struct {
	Config     *Config
	Controller *keypad.Controller
	Events     *fx.EventSenders
	Bridge     *mqtt.Bridge
	Feed       *feed.Server
}

// NewEnv creates Env around an opened keypad transport.
func (c *Config) NewEnv(conn keypad.Transport) (*Env, error) {
	e := &Env{Config: c, Events: &fx.EventSenders{}}
	if c.MQTTBrokerURL != "" {
		meta := mqtt.Meta{Type: "keypad", Line: c.Line.String(), Bus: c.Bus()}
		bridge, err := mqtt.NewBridge(c.MQTTBrokerURL, c.ID, meta)
		if err != nil {
			return nil, fmt.Errorf("create MQTT bridge error: %w", err)
		}
		e.Bridge = bridge
		e.Events.Add(bridge)
	}
	if c.Listen != "" {
		e.Feed = &feed.Server{Addr: c.Listen, Hub: feed.NewHub()}
		e.Events.Add(e.Feed.Hub)
	}
	if len(e.Events.Senders) == 0 {
		glog.Warning("neither MQTT nor websocket feed configured, key presses are only logged")
	}
	e.Controller = keypad.NewController(keypad.New(conn), e.Events)
	e.Controller.Verbose = len(e.Events.Senders) == 0 || bool(glog.V(1))
	return e, nil
}

// MustNewEnv creates Env and exits on error.
func (c *Config) MustNewEnv(conn keypad.Transport) *Env {
	e, err := c.NewEnv(conn)
	if err != nil {
		glog.Exit(err)
	}
	return e
}

// AddToLoop implements LoopAdder.
func (e *Env) AddToLoop(loop *fx.Loop) {
	loop.Interval = e.Config.PollInterval
	if e.Bridge != nil {
		loop.Add(e.Bridge)
	}
	if e.Feed != nil {
		loop.Add(e.Feed)
	}
	loop.Add(e.Controller)
	if e.Config.Banner != "" {
		loop.PostMessage(&msgs.LcdText{Text: e.Config.Banner})
	}
}
