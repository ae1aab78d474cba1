package event

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDispatchOrder(t *testing.T) {
	var d Dispatcher[int]
	var got []string
	d.Subscribe(func(v int) { got = append(got, "a") })
	d.Subscribe(func(v int) { got = append(got, "b") })

	d.Dispatch(1)

	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("order = %v, want [a b]", got)
	}
}

func TestUnsubscribe(t *testing.T) {
	var d Dispatcher[int]
	calls := 0
	unsub := d.Subscribe(func(int) { calls++ })
	d.Dispatch(1)
	unsub()
	unsub() // idempotent
	d.Dispatch(2)

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if d.Len() != 0 {
		t.Errorf("Len = %d, want 0", d.Len())
	}
}

func TestOnce(t *testing.T) {
	var d Dispatcher[string]
	calls := 0
	d.Once(func(string) { calls++ })
	d.Dispatch("x")
	d.Dispatch("y")
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestUnsubscribeInsideHandler(t *testing.T) {
	var d Dispatcher[int]
	var unsub func()
	calls, other := 0, 0
	unsub = d.Subscribe(func(int) {
		calls++
		unsub()
	})
	d.Subscribe(func(int) { other++ })

	d.Dispatch(1)
	d.Dispatch(2)

	if calls != 1 {
		t.Errorf("self-removing handler calls = %d, want 1", calls)
	}
	if other != 2 {
		t.Errorf("other handler calls = %d, want 2", other)
	}
}

func TestWaitWithTrigger(t *testing.T) {
	var d Dispatcher[int]
	v, err := Wait(context.Background(), &d, func(v int) bool { return v == 3 }, func() error {
		d.Dispatch(1)
		d.Dispatch(3)
		return nil
	})
	if err != nil {
		t.Fatalf("Wait failed: %v", err)
	}
	if v != 3 {
		t.Errorf("v = %d, want 3", v)
	}
	if d.Len() != 0 {
		t.Errorf("Wait left %d subscribers", d.Len())
	}
}

func TestWaitTriggerError(t *testing.T) {
	var d Dispatcher[int]
	boom := errors.New("boom")
	_, err := Wait(context.Background(), &d, nil, func() error { return boom })
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want boom", err)
	}
}

func TestWaitContextDone(t *testing.T) {
	var d Dispatcher[int]
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := Wait(ctx, &d, nil, nil)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want DeadlineExceeded", err)
	}
}

func TestWaitFromOtherGoroutine(t *testing.T) {
	var d Dispatcher[int]
	go func() {
		for d.Len() == 0 {
			time.Sleep(time.Millisecond)
		}
		d.Dispatch(7)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	v, err := Wait(ctx, &d, nil, nil)
	if err != nil || v != 7 {
		t.Errorf("Wait = %d, %v", v, err)
	}
}

func TestBus(t *testing.T) {
	var b Bus[string, int]
	var acc, gyro int
	b.Subscribe("acceleration", func(v int) { acc += v })
	b.Subscribe("gyroscope", func(v int) { gyro += v })

	b.Dispatch("acceleration", 2)
	b.Dispatch("gyroscope", 5)
	b.Dispatch("nobody", 9)

	if acc != 2 || gyro != 5 {
		t.Errorf("acc = %d gyro = %d", acc, gyro)
	}
}
