// Package keyboard contains the queue which sits between the host,
// which produces key-presses, and the emulated keyboard controller
// which consumes them.
//
// The queue is a fixed ring of 256 bytes with 8-bit head/tail indexes.
// Enqueue never checks whether the queue is full, it simply stores the
// byte and advances the tail.  Writing more than 255 bytes without
// reading any therefore overwrites the oldest entries, and writing
// exactly 256 leaves the queue looking empty.  Programs running under
// the emulator can observe this, so it is kept as-is.
package keyboard

// StatusDataAvailable is the bit of the status byte which is set when
// there are bytes waiting to be read.
const StatusDataAvailable = 0x01

// Queue is a ring-buffer of key bytes.
//
// The zero value is an empty queue, ready to use.
type Queue struct {
	buf    [256]byte
	head   uint8
	tail   uint8
	status uint8
}

// New returns an empty queue.
func New() *Queue {
	return &Queue{}
}

// Reset empties the queue and clears the status byte.
func (q *Queue) Reset() {
	q.head = 0
	q.tail = 0
	q.status = 0
}

// Enqueue adds a byte to the end of the queue.
func (q *Queue) Enqueue(b byte) {
	q.buf[q.tail] = b
	q.tail++
	q.status |= StatusDataAvailable
}

// EnqueueString adds each byte of the given string to the queue.
func (q *Queue) EnqueueString(s string) {
	for i := 0; i < len(s); i++ {
		q.Enqueue(s[i])
	}
}

// Dequeue removes the byte at the front of the queue.
//
// If the queue is empty zero is returned, along with false.  The
// data-available status bit is cleared once the queue has drained.
func (q *Queue) Dequeue() (byte, bool) {
	if q.Empty() {
		q.status &^= StatusDataAvailable
		return 0, false
	}

	b := q.buf[q.head]
	q.head++

	if q.Empty() {
		q.status &^= StatusDataAvailable
	}
	return b, true
}

// Peek returns the byte at the front of the queue, without removing it.
func (q *Queue) Peek() (byte, bool) {
	if q.Empty() {
		return 0, false
	}
	return q.buf[q.head], true
}

// Empty returns true if there are no bytes waiting.
func (q *Queue) Empty() bool {
	return q.head == q.tail
}

// Full returns true if one more byte would make the queue appear empty.
func (q *Queue) Full() bool {
	return q.tail+1 == q.head
}

// Len returns the number of bytes waiting.
func (q *Queue) Len() int {
	return int(q.tail - q.head)
}

// Status returns the status byte.
func (q *Queue) Status() uint8 {
	return q.status
}

// SetAvailable marks data as available in the status byte.
func (q *Queue) SetAvailable() {
	q.status |= StatusDataAvailable
}
