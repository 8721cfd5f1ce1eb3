package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/golang/glog"

	fx "github.com/mikeyg123/pi-alarm/pkg/framework"
	"github.com/mikeyg123/pi-alarm/pkg/msgs"
)

// Topics relative to <prefix><id>/.
const (
	TopicKey   = "key"
	TopicErr   = "err"
	TopicEvent = "event"
	TopicMeta  = "meta"
	TopicCmd   = "cmd"
)

// ErrNoLoop is returned by Run when the context doesn't come from a Loop.
var ErrNoLoop = errors.New("mqtt bridge: not running in a loop")

// DefaultPublishTimeout bounds how long SendEvent waits for the broker.
const DefaultPublishTimeout = 2 * time.Second

// Meta is published retained on <id>/meta while the bridge is online.
type Meta struct {
	Type string `json:"type"`
	Line string `json:"line,omitempty"`
	Bus  string `json:"bus,omitempty"`
}

// Bridge publishes keypad events and feeds commands into the loop.
type Bridge struct {
	Queue          *Queue
	ID             string
	Meta           Meta
	PublishTimeout time.Duration

	metaJSON []byte
}

// NewBridge creates a Bridge. The connection is made when it runs.
func NewBridge(brokerURL, id string, meta Meta) (*Bridge, error) {
	if id == "" {
		return nil, fmt.Errorf("mqtt bridge: empty id")
	}
	metaJSON, err := json.Marshal(&meta)
	if err != nil {
		return nil, err
	}
	opts, topicPrefix, err := ClientOptionsFromURL(brokerURL)
	if err != nil {
		return nil, fmt.Errorf("mqtt url %q: %w", brokerURL, err)
	}
	opts.SetBinaryWill(topicPrefix+id+"/"+TopicMeta, nil, 1, true)
	if opts.ClientID == "" {
		opts.SetClientID("pialarm:" + id)
	}
	b := &Bridge{
		Queue:          NewQueue(opts, topicPrefix),
		ID:             id,
		Meta:           meta,
		PublishTimeout: DefaultPublishTimeout,
		metaJSON:       metaJSON,
	}
	b.Queue.OnConnect = func(*Queue) { b.publishMeta(b.metaJSON) }
	return b, nil
}

// Topic returns the topic of this bridge for name.
func (b *Bridge) Topic(name string) string {
	return b.ID + "/" + name
}

// EventTopic selects the topic for an event message.
func (b *Bridge) EventTopic(msg fx.Message) string {
	switch msg.(type) {
	case *msgs.KeyPress:
		return b.Topic(TopicKey)
	case *msgs.CommandErr:
		return b.Topic(TopicErr)
	default:
		return b.Topic(TopicEvent)
	}
}

// SendEvent implements EventSender.
func (b *Bridge) SendEvent(ctx context.Context, msg fx.Message) error {
	data, err := msgs.Encode(msg)
	if err != nil {
		return err
	}
	topic := b.EventTopic(msg)
	token := b.Queue.Pub(topic, data)
	if !token.WaitTimeout(b.PublishTimeout) {
		return fmt.Errorf("publish %s: timeout", topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	return nil
}

// AddToLoop implements LoopAdder.
func (b *Bridge) AddToLoop(loop *fx.Loop) {
	loop.AddRunnable(fx.NamedRun("mqtt", b))
}

// Run implements Runnable.
func (b *Bridge) Run(ctx context.Context) error {
	loopCtl := fx.LoopCtlFrom(ctx)
	if loopCtl == nil {
		return ErrNoLoop
	}
	sub := b.Queue.Sub(b.Topic(TopicCmd), func(topic string, payload []byte) {
		b.HandleCommand(loopCtl, payload)
	})
	if token := b.Queue.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("mqtt connect: %w", token.Error())
	}
	<-ctx.Done()
	b.publishMeta(nil).WaitTimeout(b.PublishTimeout)
	if err := sub.Close(); err != nil {
		glog.Warningf("mqtt unsubscribe: %v", err)
	}
	return b.Queue.Close()
}

// HandleCommand decodes a command payload and posts it into the loop.
func (b *Bridge) HandleCommand(loopCtl fx.LoopControl, payload []byte) {
	msg, err := msgs.Decode(payload)
	if err == nil {
		switch msg.(type) {
		case *msgs.LcdText, *msgs.LedState:
			loopCtl.PostMessage(msg)
			loopCtl.TriggerNext()
			return
		default:
			err = fmt.Errorf("%T: %w", msg, msgs.ErrUnknownCommand)
		}
	}
	glog.Warningf("mqtt command: %v", err)
	if err := b.SendEvent(context.Background(), msgs.NewCommandErr(err)); err != nil {
		glog.Errorf("mqtt command error reply: %v", err)
	}
}

func (b *Bridge) publishMeta(data []byte) paho.Token {
	return b.Queue.PubWith(b.Topic(TopicMeta), data, 1, true)
}
