package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

// DefaultPollInterval is how often the widget refetches the thread while running.
const DefaultPollInterval = 10 * time.Second

var (
	// ErrEmptyText is returned when submitting a blank comment.
	ErrEmptyText = errors.New("comment text is required")
	// ErrSubmitInFlight is returned when a submit is attempted while another is running.
	ErrSubmitInFlight = errors.New("a submission is already in flight")
	// ErrUnauthorized is returned when the delete password is rejected.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound is returned when the comment no longer exists.
	ErrNotFound = errors.New("comment not found")
)

// Comment mirrors the comments API wire shape.
type Comment struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Text      string    `json:"text"`
	ReplyTo   *string   `json:"reply_to"`
	Likes     int       `json:"likes"`
	CreatedAt time.Time `json:"created_at"`
}

// Thread is a top-level comment together with its direct replies.
// Replies never carry threads of their own; deeper nesting is not rendered.
type Thread struct {
	Comment
	Replies []Comment
}

// Options configures a Widget.
type Options struct {
	// HTTPClient defaults to a client with a 10s timeout.
	HTTPClient *http.Client
	// PollInterval defaults to DefaultPollInterval.
	PollInterval time.Duration
	// Translations defaults to the English strings.
	Translations Translations
	// OnUpdate is invoked with the rebuilt threads after every successful fetch.
	OnUpdate func([]Thread)
	// OnError is invoked when a background refresh fails.
	OnError func(error)
}

// Widget is the client-side model of the comments section. It polls the API
// while running, keeps the posting form state, and exposes the actions that
// the page buttons trigger. All methods are safe for concurrent use.
type Widget struct {
	baseURL  string
	client   *http.Client
	interval time.Duration
	tr       Translations
	onUpdate func([]Thread)
	onError  func(error)

	mu         sync.Mutex
	comments   []Comment
	name       string
	text       string
	replyTo    *string
	submitting bool

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// NewWidget creates a Widget talking to the comments API at baseURL
// (e.g. "http://localhost:8080/api").
func NewWidget(baseURL string, opts Options) *Widget {
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	if opts.Translations == (Translations{}) {
		opts.Translations = EnglishTranslations()
	}
	return &Widget{
		baseURL:  strings.TrimRight(baseURL, "/"),
		client:   opts.HTTPClient,
		interval: opts.PollInterval,
		tr:       opts.Translations,
		onUpdate: opts.OnUpdate,
		onError:  opts.OnError,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start fetches the thread once and then polls on the configured interval
// until Stop is called or ctx is cancelled. It returns after the first fetch;
// the poll loop continues in the background.
func (w *Widget) Start(ctx context.Context) {
	if err := w.Refresh(ctx); err != nil {
		w.reportError(err)
	}
	go w.poll(ctx)
}

// Stop ends the polling loop and waits for it to wind down.
func (w *Widget) Stop() {
	w.stopOnce.Do(func() { close(w.stop) })
	<-w.done
}

func (w *Widget) poll(ctx context.Context) {
	defer close(w.done)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stop:
			return
		case <-ticker.C:
			if err := w.Refresh(ctx); err != nil {
				w.reportError(err)
			}
		}
	}
}

// Refresh refetches the full comment list and rebuilds the threads.
func (w *Widget) Refresh(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.baseURL+"/comments", nil)
	if err != nil {
		return err
	}
	resp, err := w.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return apiError(resp)
	}

	var body struct {
		Comments []Comment `json:"comments"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return err
	}

	w.mu.Lock()
	w.comments = body.Comments
	w.mu.Unlock()

	if w.onUpdate != nil {
		w.onUpdate(w.Threads())
	}
	return nil
}

// SetName updates the name field of the posting form.
func (w *Widget) SetName(name string) {
	w.mu.Lock()
	w.name = name
	w.mu.Unlock()
}

// SetText updates the text field of the posting form.
func (w *Widget) SetText(text string) {
	w.mu.Lock()
	w.text = text
	w.mu.Unlock()
}

// BeginReply marks the form as replying to the given top-level comment.
func (w *Widget) BeginReply(id string) {
	w.mu.Lock()
	w.replyTo = &id
	w.mu.Unlock()
}

// CancelReply clears the reply target without touching the form content.
func (w *Widget) CancelReply() {
	w.mu.Lock()
	w.replyTo = nil
	w.mu.Unlock()
}

// ReplyingTo returns the display name of the current reply target, or ""
// when composing a top-level comment.
func (w *Widget) ReplyingTo() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.replyTo == nil {
		return ""
	}
	for _, c := range w.comments {
		if c.ID == *w.replyTo {
			return c.Name
		}
	}
	return ""
}

// Submitting reports whether a submission is currently in flight; the page
// disables the submit control while it is true.
func (w *Widget) Submitting() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.submitting
}

// Submit posts the form. On success the form and reply target are cleared and
// the thread is refetched; on failure the form content is retained and the
// error is returned for the page to surface.
func (w *Widget) Submit(ctx context.Context) error {
	w.mu.Lock()
	if w.submitting {
		w.mu.Unlock()
		return ErrSubmitInFlight
	}
	text := strings.TrimSpace(w.text)
	if text == "" {
		w.mu.Unlock()
		return ErrEmptyText
	}
	name := strings.TrimSpace(w.name)
	if name == "" {
		name = w.tr.GuestName
	}
	replyTo := w.replyTo
	w.submitting = true
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.submitting = false
		w.mu.Unlock()
	}()

	payload := map[string]interface{}{
		"name":     name,
		"text":     text,
		"reply_to": replyTo,
	}
	if err := w.post(ctx, "/comments", payload, http.StatusCreated); err != nil {
		return err
	}

	w.mu.Lock()
	w.name = ""
	w.text = ""
	w.replyTo = nil
	w.mu.Unlock()

	return w.Refresh(ctx)
}

// Like registers one like for the comment and refetches the thread. There is
// no client-side dedup: every call counts.
func (w *Widget) Like(ctx context.Context, id string) error {
	if err := w.post(ctx, "/comments/"+id+"/like", nil, http.StatusOK); err != nil {
		return err
	}
	return w.Refresh(ctx)
}

// Delete removes a comment with the shared admin password and refetches the
// thread. Returns ErrUnauthorized when the password is rejected.
func (w *Widget) Delete(ctx context.Context, id, password string) error {
	body, err := json.Marshal(map[string]string{"password": password})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, w.baseURL+"/comments/"+id+"/delete", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := w.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return apiError(resp)
	}
	return w.Refresh(ctx)
}

// Threads partitions the fetched comments into top-level threads with their
// direct replies attached. Replies whose parent is missing are dropped.
func (w *Widget) Threads() []Thread {
	w.mu.Lock()
	comments := w.comments
	w.mu.Unlock()

	replies := map[string][]Comment{}
	for _, c := range comments {
		if c.ReplyTo != nil {
			replies[*c.ReplyTo] = append(replies[*c.ReplyTo], c)
		}
	}

	var threads []Thread
	for _, c := range comments {
		if c.ReplyTo == nil {
			threads = append(threads, Thread{Comment: c, Replies: replies[c.ID]})
		}
	}
	return threads
}

// Count returns the number of fetched comments, replies included.
func (w *Widget) Count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.comments)
}

func (w *Widget) post(ctx context.Context, path string, payload interface{}, wantStatus int) error {
	var reader io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.baseURL+path, reader)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := w.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != wantStatus && resp.StatusCode != http.StatusOK {
		return apiError(resp)
	}
	return nil
}

func (w *Widget) reportError(err error) {
	if w.onError != nil {
		w.onError(err)
	}
}

func apiError(resp *http.Response) error {
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	}
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&body); err == nil && body.Error != "" {
		return fmt.Errorf("api error (%d): %s", resp.StatusCode, body.Error)
	}
	return fmt.Errorf("api error (%d)", resp.StatusCode)
}
