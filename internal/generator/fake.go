package generator

import "context"

// Fake is a deterministic Generator double for tests. Text is returned
// verbatim from Generate; Err, when set, is returned instead. Stream emits
// Text as a single chunk followed by EventDone, or EventError when Err is
// set.
type Fake struct {
	Text string
	Err  error
	Calls int
}

// Generate implements Generator.
func (f *Fake) Generate(ctx context.Context, req Request) (*Response, error) {
	f.Calls++
	if f.Err != nil {
		return nil, f.Err
	}
	return &Response{Text: f.Text}, nil
}

// Stream implements Generator.
func (f *Fake) Stream(ctx context.Context, req Request) (<-chan Event, error) {
	f.Calls++
	ch := make(chan Event, 2)
	if f.Err != nil {
		ch <- Event{Type: EventError, Err: f.Err}
		close(ch)
		return ch, nil
	}
	ch <- Event{Type: EventChunk, Text: f.Text}
	ch <- Event{Type: EventDone}
	close(ch)
	return ch, nil
}
