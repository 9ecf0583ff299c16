// Package pipeline simulates the video processing flow: a queued video walks
// through progress ticks and lands in a terminal state with generated script,
// captions, highlights, and a step-by-step guide.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"reeldoc/api/internal/store"
	"reeldoc/api/internal/util"
)

var (
	// ErrJobNotFound is returned when no job exists for a video.
	ErrJobNotFound = errors.New("job not found")
	// ErrJobFinished is returned when cancelling a job that already
	// reached a terminal state.
	ErrJobFinished = errors.New("job already finished")
)

const (
	StatusQueued     = "queued"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Job is a snapshot of one processing run. Progress moves from 0 to 100 in
// steps of 10 and never goes backwards.
type Job struct {
	VideoID     string `json:"videoId"`
	WorkspaceID string `json:"workspaceId"`
	Status      string `json:"status"`
	Progress    int    `json:"progress"`
	Step        string `json:"step"`
}

// Store is the slice of storage the simulator needs to finish a job.
type Store interface {
	SetVideoStatus(ctx context.Context, videoID, status string) error
	CompleteVideo(ctx context.Context, videoID string, result store.VideoResult) error
	InsertDocumentation(ctx context.Context, doc store.Documentation) error
}

type job struct {
	snapshot Job
	cancel   context.CancelFunc
}

// Simulator runs fake processing jobs. Each job gets its own goroutine and a
// context detached from the enqueueing request, so an upload survives the
// uploader navigating away.
// Terminal job snapshots stay pollable for this long before being pruned.
const defaultJobRetention = 10 * time.Minute

type Simulator struct {
	store     Store
	stepDelay time.Duration
	retention time.Duration

	// onComplete, when set, receives the finished video result and the
	// generated guide. The app layer uses it for search indexing.
	onComplete func(video store.Video, doc store.Documentation)

	mu   sync.Mutex
	jobs map[string]*job
}

func NewSimulator(st Store, stepDelay time.Duration) *Simulator {
	if stepDelay <= 0 {
		stepDelay = 300 * time.Millisecond
	}
	return &Simulator{
		store:     st,
		stepDelay: stepDelay,
		retention: defaultJobRetention,
		jobs:      make(map[string]*job),
	}
}

// OnComplete registers a completion hook. Must be called before Enqueue.
func (s *Simulator) OnComplete(fn func(video store.Video, doc store.Documentation)) {
	s.onComplete = fn
}

// Enqueue starts processing a video. The job context derives from
// context.Background(); the caller's request context has no say in its
// lifetime.
func (s *Simulator) Enqueue(video store.Video) {
	ctx, cancel := context.WithCancel(context.Background())

	s.mu.Lock()
	s.jobs[video.ID] = &job{
		snapshot: Job{
			VideoID:     video.ID,
			WorkspaceID: video.WorkspaceID,
			Status:      StatusQueued,
			Progress:    0,
			Step:        stepLabel(0),
		},
		cancel: cancel,
	}
	s.mu.Unlock()

	go s.run(ctx, video)
}

// Poll returns the current snapshot of a video's job.
func (s *Simulator) Poll(videoID string) (Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[videoID]
	if !ok {
		return Job{}, ErrJobNotFound
	}
	return j.snapshot, nil
}

// Cancel aborts an in-flight job. The video lands in the failed state;
// cancellation is terminal, not a pause.
func (s *Simulator) Cancel(videoID string) error {
	s.mu.Lock()
	j, ok := s.jobs[videoID]
	if !ok {
		s.mu.Unlock()
		return ErrJobNotFound
	}
	if j.snapshot.Status == StatusCompleted || j.snapshot.Status == StatusFailed {
		s.mu.Unlock()
		return ErrJobFinished
	}
	s.mu.Unlock()

	j.cancel()
	return nil
}

func (s *Simulator) run(ctx context.Context, video store.Video) {
	s.setStatus(video.ID, StatusProcessing, 0)
	if err := s.store.SetVideoStatus(ctx, video.ID, store.VideoProcessing); err != nil {
		log.Printf("pipeline: mark processing %s: %v", video.ID, err)
	}

	for progress := 0; progress <= 100; progress += 10 {
		select {
		case <-ctx.Done():
			s.fail(video.ID)
			return
		case <-time.After(s.stepDelay):
		}
		s.setStatus(video.ID, StatusProcessing, progress)
	}

	result := MockResult(video.Title)
	if err := s.store.CompleteVideo(ctx, video.ID, result); err != nil {
		log.Printf("pipeline: complete video %s: %v", video.ID, err)
		s.fail(video.ID)
		return
	}

	doc := MockDocumentation(video, result)
	if err := s.store.InsertDocumentation(ctx, doc); err != nil {
		log.Printf("pipeline: insert documentation for %s: %v", video.ID, err)
		s.fail(video.ID)
		return
	}

	s.setStatus(video.ID, StatusCompleted, 100)

	if s.onComplete != nil {
		completed := video
		completed.Status = store.VideoCompleted
		completed.AIScript = &result.Script
		completed.AIVoice = &result.Voice
		completed.Captions = result.Captions
		completed.Highlights = result.Highlights
		completed.Duration = &result.Duration
		s.onComplete(completed, doc)
	}
}

func (s *Simulator) fail(videoID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.store.SetVideoStatus(ctx, videoID, store.VideoFailed); err != nil {
		log.Printf("pipeline: mark failed %s: %v", videoID, err)
	}
	s.setStatus(videoID, StatusFailed, -1)
}

func (s *Simulator) setStatus(videoID, status string, progress int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[videoID]
	if !ok {
		return
	}
	j.snapshot.Status = status
	if progress >= 0 && progress > j.snapshot.Progress {
		j.snapshot.Progress = progress
	}
	if status == StatusCompleted {
		j.snapshot.Progress = 100
	}
	j.snapshot.Step = stepLabel(j.snapshot.Progress)

	if status == StatusCompleted || status == StatusFailed {
		s.pruneAfterRetention(videoID)
	}
}

// pruneAfterRetention drops a terminal job snapshot once clients have had
// time to observe it, so the job map does not grow for the process lifetime.
func (s *Simulator) pruneAfterRetention(videoID string) {
	time.AfterFunc(s.retention, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		j, ok := s.jobs[videoID]
		if !ok {
			return
		}
		if j.snapshot.Status == StatusCompleted || j.snapshot.Status == StatusFailed {
			delete(s.jobs, videoID)
		}
	})
}

func stepLabel(progress int) string {
	switch {
	case progress < 20:
		return "Transcribing audio"
	case progress < 40:
		return "Generating script"
	case progress < 60:
		return "Synthesizing voiceover"
	case progress < 80:
		return "Rendering captions"
	case progress < 100:
		return "Detecting highlights"
	default:
		return "Done"
	}
}

const mockDuration = 120

// MockResult builds the deterministic processing output for a video.
// Caption windows do not overlap and highlight times strictly increase.
func MockResult(title string) store.VideoResult {
	script := fmt.Sprintf(
		"Welcome to this walkthrough of %s. In the next two minutes we cover the full flow from start to finish, pausing on the parts people usually get stuck on.",
		title,
	)

	captions := []store.Caption{
		{Start: 0, End: 8, Text: fmt.Sprintf("Welcome to this walkthrough of %s.", title)},
		{Start: 8, End: 24, Text: "First, let's look at the starting screen and what each control does."},
		{Start: 24, End: 56, Text: "Now we walk through the main flow step by step."},
		{Start: 56, End: 92, Text: "Here are the settings most teams change on day one."},
		{Start: 92, End: 120, Text: "That wraps it up. You can replay any chapter from the timeline."},
	}

	highlights := []store.Highlight{
		{Time: 8, Type: "chapter", Description: "Overview of the starting screen"},
		{Time: 24, Type: "chapter", Description: "Main flow walkthrough"},
		{Time: 56, Type: "key-moment", Description: "Recommended settings"},
		{Time: 92, Type: "chapter", Description: "Recap and next steps"},
	}

	return store.VideoResult{
		Script:     script,
		Voice:      "professional-male",
		Captions:   captions,
		Highlights: highlights,
		Duration:   mockDuration,
	}
}

// MockDocumentation derives a step-by-step guide from a finished video.
func MockDocumentation(video store.Video, result store.VideoResult) store.Documentation {
	steps := make([]store.DocStep, 0, len(result.Captions))
	for i, caption := range result.Captions {
		steps = append(steps, store.DocStep{
			Step:   i + 1,
			Title:  fmt.Sprintf("Step %d", i+1),
			Body:   caption.Text,
			AtTime: caption.Start,
		})
	}
	return store.Documentation{
		ID:          util.NewID("doc"),
		VideoID:     video.ID,
		WorkspaceID: video.WorkspaceID,
		UserID:      video.UserID,
		Title:       video.Title + " Guide",
		Content:     steps,
		Format:      "step-by-step",
	}
}
