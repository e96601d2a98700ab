package clip

import (
	"context"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

// fakeVideo is a VideoEndpoint that finishes after a fixed number of checks.
type fakeVideo struct {
	submitErr  error
	submitNil  bool
	checkErr   error
	pending    int // checks answered with Done=false before finishing
	never      bool
	finalErr   *OperationError
	media      *Media
	panicOnRun bool

	submits  atomic.Int32
	checks   atomic.Int32
	lastReq  *VideoRequest
	reqMu    sync.Mutex
	checkCtx func(ctx context.Context)
}

func (f *fakeVideo) Submit(_ context.Context, req *VideoRequest) (*Operation, error) {
	f.submits.Add(1)
	f.reqMu.Lock()
	f.lastReq = req
	f.reqMu.Unlock()
	if f.panicOnRun {
		panic("endpoint exploded")
	}
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	if f.submitNil {
		return nil, nil
	}
	return &Operation{Name: "operations/test-1"}, nil
}

func (f *fakeVideo) Check(ctx context.Context, op *Operation) (*Operation, error) {
	n := int(f.checks.Add(1))
	if f.checkCtx != nil {
		f.checkCtx(ctx)
	}
	if f.checkErr != nil {
		return nil, f.checkErr
	}
	if f.never || n <= f.pending {
		return &Operation{Name: op.Name}, nil
	}
	done := &Operation{Name: op.Name, Done: true, Error: f.finalErr}
	if f.finalErr == nil {
		done.Output = &OperationOutput{Content: []Part{{Text: "caption"}}}
		if f.media != nil {
			done.Output.Content = append(done.Output.Content, Part{Media: f.media})
		}
	}
	return done, nil
}

func (f *fakeVideo) request() *VideoRequest {
	f.reqMu.Lock()
	defer f.reqMu.Unlock()
	return f.lastReq
}

// fakeSpeech is a SpeechEndpoint returning a fixed response.
type fakeSpeech struct {
	resp  *SpeechResponse
	err   error
	delay time.Duration

	calls   atomic.Int32
	mu      sync.Mutex
	lastReq *SpeechRequest
}

func (f *fakeSpeech) Speak(ctx context.Context, req *SpeechRequest) (*SpeechResponse, error) {
	f.calls.Add(1)
	f.mu.Lock()
	f.lastReq = req
	f.mu.Unlock()
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.resp, f.err
}

func (f *fakeSpeech) request() *SpeechRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastReq
}

// pcmSamples returns n mono 16-bit samples.
func pcmSamples(n int) []byte {
	b := make([]byte, n*2)
	for i := 0; i < n; i++ {
		binary.LittleEndian.PutUint16(b[i*2:], uint16(int16((i%200)*100-10000)))
	}
	return b
}

func pcmResponse(rate string, n int) *SpeechResponse {
	mime := "audio/L16;codec=pcm;rate=" + rate
	return &SpeechResponse{Media: &Media{
		URL:         "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(pcmSamples(n)),
		ContentType: mime,
	}}
}

// sleepRecorder records requested sleeps without waiting.
type sleepRecorder struct {
	mu     sync.Mutex
	sleeps []time.Duration
	// order interleaves "sleep" and "check" markers when shared with a fake.
	order *[]string
}

func (s *sleepRecorder) sleep(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sleeps = append(s.sleeps, d)
	if s.order != nil {
		*s.order = append(*s.order, "sleep")
	}
	return ctx.Err()
}

func (s *sleepRecorder) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sleeps)
}

var errBoom = errors.New("boom")

func noCredential() CredentialProvider {
	return CredentialFunc(func(context.Context) (string, error) { return "", ErrNoCredential })
}
