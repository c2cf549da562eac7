package relay

import "fmt"

// OverflowPolicy — поведение буфера при достижении ёмкости.
type OverflowPolicy string

// Политики переполнения.
const (
	// OverflowReject — новое сообщение не принимается и остаётся в источнике.
	OverflowReject OverflowPolicy = "reject"

	// OverflowDropOldest — самое старое сообщение вытесняется из буфера.
	// Оно не было подтверждено и вернётся из источника после visibility timeout.
	OverflowDropOldest OverflowPolicy = "drop-oldest"

	// OverflowBackpressure — как reject, но engine перестаёт получать
	// новые пачки, пока в буфере нет места.
	OverflowBackpressure OverflowPolicy = "backpressure"
)

// DefaultBufferCapacity — ёмкость буфера по умолчанию.
const DefaultBufferCapacity = 10000

// ParseOverflowPolicy разбирает название политики.
func ParseOverflowPolicy(s string) (OverflowPolicy, error) {
	switch p := OverflowPolicy(s); p {
	case OverflowReject, OverflowDropOldest, OverflowBackpressure:
		return p, nil
	case "":
		return OverflowBackpressure, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidOverflowPolicy, s)
	}
}

// Buffer — FIFO очередь сообщений, ожидающих брокера.
//
// Буфер живёт только в памяти и теряется при падении процесса.
// Не потокобезопасен: им владеет Supervisor.
type Buffer struct {
	items    []Pending
	capacity int
	policy   OverflowPolicy
}

// NewBuffer создаёт буфер. capacity <= 0 — DefaultBufferCapacity.
func NewBuffer(capacity int, policy OverflowPolicy) *Buffer {
	if capacity <= 0 {
		capacity = DefaultBufferCapacity
	}
	if policy == "" {
		policy = OverflowBackpressure
	}

	return &Buffer{
		capacity: capacity,
		policy:   policy,
	}
}

// Push добавляет сообщение в конец буфера.
//
// При переполнении с OverflowDropOldest возвращает вытесненное сообщение,
// с остальными политиками — ErrBufferFull.
func (b *Buffer) Push(p Pending) (*Pending, error) {
	if len(b.items) < b.capacity {
		b.items = append(b.items, p)
		return nil, nil
	}

	if b.policy != OverflowDropOldest {
		return nil, ErrBufferFull
	}

	oldest := b.items[0]
	b.items[0] = Pending{}
	b.items = append(b.items[1:], p)
	return &oldest, nil
}

// Front возвращает самое старое сообщение без удаления.
func (b *Buffer) Front() (Pending, bool) {
	if len(b.items) == 0 {
		return Pending{}, false
	}
	return b.items[0], true
}

// PopFront удаляет самое старое сообщение.
func (b *Buffer) PopFront() {
	if len(b.items) == 0 {
		return
	}
	b.items[0] = Pending{}
	b.items = b.items[1:]
}

// Len возвращает количество сообщений в буфере.
func (b *Buffer) Len() int {
	return len(b.items)
}

// Cap возвращает ёмкость буфера.
func (b *Buffer) Cap() int {
	return b.capacity
}

// Full сообщает, что буфер заполнен.
func (b *Buffer) Full() bool {
	return len(b.items) >= b.capacity
}

// Policy возвращает политику переполнения.
func (b *Buffer) Policy() OverflowPolicy {
	return b.policy
}

// Items возвращает копию содержимого в порядке FIFO.
func (b *Buffer) Items() []Pending {
	out := make([]Pending, len(b.items))
	copy(out, b.items)
	return out
}
