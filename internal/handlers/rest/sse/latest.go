package sse

// Latest буфер на одно значение: новое вытесняет непрочитанное.
// Put вызывается из одной горутины.
type Latest[T any] struct {
	ch chan T
}

func NewLatest[T any]() *Latest[T] {
	return &Latest[T]{ch: make(chan T, 1)}
}

func (l *Latest[T]) Put(v T) {
	for {
		select {
		case l.ch <- v:
			return
		default:
			select {
			case <-l.ch:
			default:
			}
		}
	}
}

func (l *Latest[T]) C() <-chan T {
	return l.ch
}
