package framework

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testMsg struct {
	val int
}

func (m *testMsg) NewMessage() Message { return &testMsg{} }

type recordSender struct {
	events []Message
	err    error
}

func (s *recordSender) SendEvent(ctx context.Context, msg Message) error {
	s.events = append(s.events, msg)
	return s.err
}

func TestLoopControllerOrder(t *testing.T) {
	var order []string
	loop := NewLoop()
	loop.AddController(PrLvPostProc, ControlFunc(func(ControlContext) error {
		order = append(order, "post")
		return nil
	}))
	loop.AddController(PrLvControl, ControlFunc(func(ControlContext) error {
		order = append(order, "control")
		return errors.New("ignored")
	}))
	loop.AddController(PrLvTop, ControlFunc(func(ControlContext) error {
		order = append(order, "top")
		return nil
	}))
	loop.RunIteration(context.Background())
	assert.Equal(t, []string{"top", "control", "post"}, order)
}

func TestLoopMessages(t *testing.T) {
	loop := NewLoop()
	var taken, seen []int
	loop.AddController(PrLvHigh, ControlFunc(func(cc ControlContext) error {
		cc.Messages().ProcessMessages(ProcessMessageFunc(func(mc MessageProcessingContext) {
			msg := mc.CurrentMessage().(*testMsg)
			if msg.val%2 == 0 {
				mc.MessageTaken()
				taken = append(taken, msg.val)
			}
		}))
		return nil
	}))
	loop.AddController(PrLvLow, ControlFunc(func(cc ControlContext) error {
		cc.Messages().ProcessMessages(ProcessMessageFunc(func(mc MessageProcessingContext) {
			seen = append(seen, mc.CurrentMessage().(*testMsg).val)
		}))
		return nil
	}))
	for i := 1; i <= 4; i++ {
		loop.PostMessage(&testMsg{val: i})
	}
	loop.RunIteration(context.Background())
	assert.Equal(t, []int{2, 4}, taken)
	assert.Equal(t, []int{1, 3}, seen)

	taken, seen = nil, nil
	loop.RunIteration(context.Background())
	assert.Empty(t, taken)
	assert.Empty(t, seen)
}

func TestLoopStopProcessing(t *testing.T) {
	loop := NewLoop()
	var first, second []int
	loop.AddController(PrLvHigh, ControlFunc(func(cc ControlContext) error {
		cc.Messages().ProcessMessages(ProcessMessageFunc(func(mc MessageProcessingContext) {
			first = append(first, mc.CurrentMessage().(*testMsg).val)
			mc.MessageTaken()
			mc.StopProcessing()
		}))
		return nil
	}))
	loop.AddController(PrLvLow, ControlFunc(func(cc ControlContext) error {
		cc.Messages().ProcessMessages(ProcessMessageFunc(func(mc MessageProcessingContext) {
			second = append(second, mc.CurrentMessage().(*testMsg).val)
		}))
		return nil
	}))
	loop.PostMessage(&testMsg{val: 1})
	loop.PostMessage(&testMsg{val: 2})
	loop.PostMessage(&testMsg{val: 3})
	loop.RunIteration(context.Background())
	assert.Equal(t, []int{1}, first)
	assert.Equal(t, []int{2, 3}, second)
}

func TestLoopRun(t *testing.T) {
	loop := &Loop{Interval: time.Hour}
	done := make(chan int, 1)
	loop.AddController(PrLvControl, ControlFunc(func(cc ControlContext) error {
		cc.Messages().ProcessMessages(ProcessMessageFunc(func(mc MessageProcessingContext) {
			mc.MessageTaken()
			select {
			case done <- mc.CurrentMessage().(*testMsg).val:
			default:
			}
		}))
		return nil
	}))
	loop.AddRunnable(RunFunc(func(ctx context.Context) error {
		ctl := LoopCtlFrom(ctx)
		assert.NotNil(t, ctl)
		ctl.PostMessage(&testMsg{val: 7})
		ctl.TriggerNext()
		<-ctx.Done()
		return ctx.Err()
	}))

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- loop.Run(ctx) }()
	select {
	case val := <-done:
		assert.Equal(t, 7, val)
	case <-time.After(5 * time.Second):
		t.Fatal("message not delivered")
	}
	cancel()
	assert.Equal(t, context.Canceled, <-errCh)
}

func TestEventSenders(t *testing.T) {
	s1, s2 := &recordSender{}, &recordSender{err: errors.New("offline")}
	var senders EventSenders
	senders.Add(s1, s2)
	msg := &testMsg{val: 1}
	err := senders.SendEvent(context.Background(), msg)
	require.Error(t, err)
	assert.Equal(t, "offline", err.Error())
	assert.Equal(t, []Message{msg}, s1.events)
	assert.Equal(t, []Message{msg}, s2.events)

	s2.err = nil
	assert.NoError(t, senders.SendEvent(context.Background(), msg))
}

func TestAggregatedError(t *testing.T) {
	var errs AggregatedError
	assert.NoError(t, errs.Add(nil, nil).Aggregate())
	errs.Add(errors.New("a"), nil, errors.New("b"))
	assert.Len(t, errs.Errors, 2)
	assert.Equal(t, "Multiple errors:\na\nb", errs.Aggregate().Error())
}

func TestRunner(t *testing.T) {
	boom := errors.New("boom")
	r := NewRunner().Go(
		NamedRun("ok", RunFunc(func(context.Context) error { return nil })),
		RunFunc(func(context.Context) error { return boom }),
		RunFunc(func(context.Context) error { return context.Canceled }),
	)
	err := r.Wait()
	require.Error(t, err)
	assert.Equal(t, "boom", err.Error())
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func TestRunWithContextCloser(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	stop := make(chan struct{})
	closed := 0
	closer := closerFunc(func() error {
		closed++
		close(stop)
		return nil
	})
	cancel()
	err := RunWithContextCloser(ctx, closer, func() error {
		<-stop
		return nil
	})
	assert.Equal(t, context.Canceled, err)
	assert.Equal(t, 1, closed)

	closed = 0
	stop = make(chan struct{})
	err = RunWithContextCloser(context.Background(), closer, func() error { return nil })
	assert.NoError(t, err)
	assert.Equal(t, 1, closed)
}
