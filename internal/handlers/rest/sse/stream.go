package sse

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Stream поток server-sent events поверх одного ответа.
// Каждая запись сдвигает write deadline сервера, поэтому WriteTimeout http.Server на поток не действует.
type Stream struct {
	w            http.ResponseWriter
	rc           *http.ResponseController
	writeTimeout time.Duration
}

// Open пишет заголовки потока и сразу отправляет их клиенту.
func Open(w http.ResponseWriter, writeTimeout time.Duration) (*Stream, error) {
	header := w.Header()
	header.Set("Content-Type", "text/event-stream")
	header.Set("Cache-Control", "no-cache")
	header.Set("Connection", "keep-alive")
	header.Set("X-Accel-Buffering", "no")

	s := &Stream{
		w:            w,
		rc:           http.NewResponseController(w),
		writeTimeout: writeTimeout,
	}

	if err := s.extendDeadline(); err != nil {
		return nil, err
	}
	w.WriteHeader(http.StatusOK)
	if err := s.flush(); err != nil {
		return nil, err
	}
	return s, nil
}

// Event одно событие, data - JSON одной строкой.
func (s *Stream) Event(name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", name, err)
	}

	if err = s.extendDeadline(); err != nil {
		return err
	}
	if _, err = fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", name, data); err != nil {
		return fmt.Errorf("write %s event: %w", name, err)
	}
	return s.flush()
}

// Heartbeat комментарий, который не дает прокси закрыть простаивающее соединение.
func (s *Stream) Heartbeat() error {
	if err := s.extendDeadline(); err != nil {
		return err
	}
	if _, err := fmt.Fprint(s.w, ": heartbeat\n\n"); err != nil {
		return fmt.Errorf("write heartbeat: %w", err)
	}
	return s.flush()
}

func (s *Stream) extendDeadline() error {
	if s.writeTimeout <= 0 {
		return nil
	}
	err := s.rc.SetWriteDeadline(time.Now().Add(s.writeTimeout))
	if err != nil && !errors.Is(err, http.ErrNotSupported) {
		return fmt.Errorf("set write deadline: %w", err)
	}
	return nil
}

func (s *Stream) flush() error {
	if err := s.rc.Flush(); err != nil {
		return fmt.Errorf("flush stream: %w", err)
	}
	return nil
}

// RunFn источник значений: вызывает put на каждое изменение, пока не отменен ctx.
type RunFn[T any] func(ctx context.Context, put func(T)) error

// Serve запускает run и пишет в поток последнее значение, которое тот отдал.
// Промежуточные значения, которые клиент не успел получить, пропускаются.
// Возвращается при отмене ctx, завершении run или ошибке записи.
func Serve[T any](
	ctx context.Context,
	s *Stream,
	event string,
	heartbeat time.Duration,
	run RunFn[T],
	render func(T) any,
) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	latest := NewLatest[T]()
	done := make(chan error, 1)
	go func() {
		done <- run(ctx, latest.Put)
	}()

	var tick <-chan time.Time
	if heartbeat > 0 {
		ticker := time.NewTicker(heartbeat)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			return <-done

		case err := <-done:
			// последнее значение run успел положить до выхода
			select {
			case v := <-latest.C():
				if werr := s.Event(event, render(v)); werr != nil {
					return errors.Join(err, werr)
				}
			default:
			}
			return err

		case v := <-latest.C():
			if err := s.Event(event, render(v)); err != nil {
				cancel()
				<-done
				return err
			}

		case <-tick:
			if err := s.Heartbeat(); err != nil {
				cancel()
				<-done
				return err
			}
		}
	}
}
