package keypad

import (
	"fmt"

	"github.com/golang/glog"

	fx "github.com/mikeyg123/pi-alarm/pkg/framework"
	"github.com/mikeyg123/pi-alarm/pkg/msgs"
)

// Controller drives a Keypad from the loop: it applies LCD and LED
// commands posted to the loop and reports key presses as events.
type Controller struct {
	Keypad  *Keypad
	Events  fx.EventSender
	Verbose bool
}

// NewController creates a Controller.
func NewController(kp *Keypad, events fx.EventSender) *Controller {
	return &Controller{Keypad: kp, Events: events}
}

// AddToLoop implements LoopAdder.
func (c *Controller) AddToLoop(loop *fx.Loop) {
	loop.AddController(fx.PrLvControl, c)
}

// Control implements Controller.
func (c *Controller) Control(cc fx.ControlContext) error {
	var errs fx.AggregatedError
	cc.Messages().ProcessMessages(fx.ProcessMessageFunc(func(mctx fx.MessageProcessingContext) {
		var err error
		switch msg := mctx.CurrentMessage().(type) {
		case *msgs.LcdText:
			mctx.MessageTaken()
			err = c.writeLcd(msg)
		case *msgs.LedState:
			mctx.MessageTaken()
			err = c.setLeds(msg)
		default:
			return
		}
		if err != nil {
			glog.Warningf("keypad command: %v", err)
			errs.Add(c.Events.SendEvent(cc.Context(), msgs.NewCommandErr(err)))
		}
	}))

	key, ok, err := c.Keypad.ReadKey()
	if err != nil {
		return errs.Add(err).Aggregate()
	}
	if ok {
		ev := &msgs.KeyPress{Code: uint32(key), Name: KeyName(key), Time: cc.Time().UnixNano()}
		if c.Verbose {
			glog.Infof("key %s", ev.Name)
		}
		errs.Add(c.Events.SendEvent(cc.Context(), ev))
		// more reports may be waiting in the FIFO.
		cc.TriggerNext()
	}
	return errs.Aggregate()
}

func (c *Controller) writeLcd(msg *msgs.LcdText) error {
	var sent Sent
	var err error
	if msg.Clear {
		sent, err = c.Keypad.ClearLcd()
	} else {
		sent, err = c.Keypad.WriteLcd(msg.Text)
	}
	return checkSent("lcd", sent, err)
}

func (c *Controller) setLeds(msg *msgs.LedState) error {
	if msg.Zones > 0xff || msg.Leds > 0xff {
		return fmt.Errorf("leds: mask out of range: zones %#x leds %#x", msg.Zones, msg.Leds)
	}
	sent, err := c.Keypad.SetLeds(byte(msg.Zones), byte(msg.Leds))
	return checkSent("leds", sent, err)
}

func checkSent(what string, sent Sent, err error) error {
	if err != nil {
		return fmt.Errorf("%s: %w", what, err)
	}
	if !sent.Complete() {
		return fmt.Errorf("%s: transmitter blocked, sent %v bytes", what, sent)
	}
	return nil
}
