package history

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/haivivi/clipgen/pkg/clip"
	"github.com/haivivi/clipgen/pkg/kv"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := New(kv.NewMemory(nil))
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	var tick int
	s.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}
	return s
}

func TestLifecycle(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	rec, err := s.Begin(ctx, clip.Request{Prompt: "sea", Language: clip.LanguageHindi})
	if err != nil {
		t.Fatal(err)
	}
	if rec.Status != StatusRunning || rec.ID == "" {
		t.Fatalf("rec = %+v", rec)
	}
	if rec.Duration() != 0 {
		t.Errorf("Duration while running = %v", rec.Duration())
	}

	res := &clip.Result{Video: "data:video/mp4;base64,AA==", Audio: "data:audio/wav;base64,AA=="}
	assets := &clip.Assets{Video: "clips/x/video.mp4", Audio: "clips/x/audio.wav"}
	if err := s.Succeed(ctx, rec, res, assets); err != nil {
		t.Fatal(err)
	}

	got, err := s.Get(ctx, rec.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != StatusSucceeded || !got.HasAudio || got.Assets.Video != "clips/x/video.mp4" {
		t.Errorf("got = %+v", got)
	}
	if got.Request.Prompt != "sea" || got.Request.Language != clip.LanguageHindi {
		t.Errorf("request = %+v", got.Request)
	}
	if got.Duration() != time.Second {
		t.Errorf("Duration = %v", got.Duration())
	}
}

func TestFailRecordsKind(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	rec, _ := s.Begin(ctx, clip.Request{Prompt: "p"})

	err := fmt.Errorf("run: %w", &clip.Error{Kind: clip.KindOperation, Msg: "video generation failed", Err: errors.New("quota exceeded")})
	if err := s.Fail(ctx, rec, err); err != nil {
		t.Fatal(err)
	}
	got, _ := s.Get(ctx, rec.ID)
	if got.Status != StatusFailed || got.ErrorKind != "operation" {
		t.Errorf("got = %+v", got)
	}
	if got.Error != "run: video generation failed: quota exceeded" {
		t.Errorf("Error = %q", got.Error)
	}
}

func TestListNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	var ids []string
	for i := 0; i < 3; i++ {
		rec, err := s.Begin(ctx, clip.Request{Prompt: fmt.Sprint(i)})
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, rec.ID)
		time.Sleep(2 * time.Millisecond)
	}
	s.kv.Set(ctx, s.key("zzz-garbage"), []byte{0xc1})

	all, err := s.List(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Fatalf("len = %d", len(all))
	}
	if all[0].ID != ids[2] || all[2].ID != ids[0] {
		t.Errorf("order = %v, %v, %v", all[0].ID, all[1].ID, all[2].ID)
	}

	two, _ := s.List(ctx, 2)
	if len(two) != 2 || two[0].ID != ids[2] {
		t.Errorf("limited = %+v", two)
	}
}

func TestGetMissingAndDelete(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	if _, err := s.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v", err)
	}
	rec, _ := s.Begin(ctx, clip.Request{Prompt: "p"})
	if err := s.Delete(ctx, rec.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(ctx, rec.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v", err)
	}
	if err := s.Put(ctx, &Record{}); err == nil {
		t.Fatal("expected error for empty id")
	}
}
