package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// commentsAPI is a tiny in-memory stand-in for the comments service.
type commentsAPI struct {
	mu       sync.Mutex
	comments []Comment
	password string
	nextID   int
	gets     int
	failPost bool
}

func (api *commentsAPI) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/comments", func(w http.ResponseWriter, r *http.Request) {
		api.mu.Lock()
		defer api.mu.Unlock()
		switch r.Method {
		case http.MethodGet:
			api.gets++
			json.NewEncoder(w).Encode(map[string]interface{}{"comments": api.comments})
		case http.MethodPost:
			if api.failPost {
				w.WriteHeader(http.StatusServiceUnavailable)
				json.NewEncoder(w).Encode(map[string]string{"error": "Failed to create comment"})
				return
			}
			var req struct {
				Name    string  `json:"name"`
				Text    string  `json:"text"`
				ReplyTo *string `json:"reply_to"`
			}
			json.NewDecoder(r.Body).Decode(&req)
			api.nextID++
			c := Comment{
				ID:        fmt.Sprintf("c-%03d", api.nextID),
				Name:      req.Name,
				Text:      req.Text,
				ReplyTo:   req.ReplyTo,
				CreatedAt: time.Now(),
			}
			api.comments = append([]Comment{c}, api.comments...)
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(map[string]interface{}{"comment": c})
		}
	})
	mux.HandleFunc("/api/comments/", func(w http.ResponseWriter, r *http.Request) {
		api.mu.Lock()
		defer api.mu.Unlock()
		parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/api/comments/"), "/")
		id, action := parts[0], parts[1]
		idx := -1
		for i, c := range api.comments {
			if c.ID == id {
				idx = i
				break
			}
		}
		switch action {
		case "like":
			if idx < 0 {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			api.comments[idx].Likes++
			json.NewEncoder(w).Encode(map[string]interface{}{"comment": api.comments[idx]})
		case "delete":
			var req struct {
				Password string `json:"password"`
			}
			json.NewDecoder(r.Body).Decode(&req)
			if api.password == "" || req.Password != api.password {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			if idx < 0 {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			kept := api.comments[:0]
			for _, c := range api.comments {
				if c.ID != id && (c.ReplyTo == nil || *c.ReplyTo != id) {
					kept = append(kept, c)
				}
			}
			api.comments = kept
			json.NewEncoder(w).Encode(map[string]bool{"success": true})
		}
	})
	return mux
}

func (api *commentsAPI) getCount() int {
	api.mu.Lock()
	defer api.mu.Unlock()
	return api.gets
}

func newTestWidget(t *testing.T, api *commentsAPI, opts Options) *Widget {
	t.Helper()
	srv := httptest.NewServer(api.handler())
	t.Cleanup(srv.Close)
	return NewWidget(srv.URL+"/api", opts)
}

func strptr(s string) *string { return &s }

func TestThreadsPartitionOneLevel(t *testing.T) {
	api := &commentsAPI{comments: []Comment{
		{ID: "r2", ReplyTo: strptr("t1"), Text: "second reply"},
		{ID: "deep", ReplyTo: strptr("r1"), Text: "reply to a reply"},
		{ID: "t2", Text: "newer top"},
		{ID: "r1", ReplyTo: strptr("t1"), Text: "first reply"},
		{ID: "t1", Text: "older top"},
		{ID: "orphan", ReplyTo: strptr("gone"), Text: "dangling"},
	}}
	w := newTestWidget(t, api, Options{})
	require.NoError(t, w.Refresh(context.Background()))

	threads := w.Threads()
	require.Len(t, threads, 2)
	assert.Equal(t, "t2", threads[0].ID)
	assert.Empty(t, threads[0].Replies)
	assert.Equal(t, "t1", threads[1].ID)
	require.Len(t, threads[1].Replies, 2)
	assert.Equal(t, "r2", threads[1].Replies[0].ID)
	assert.Equal(t, "r1", threads[1].Replies[1].ID)

	// the reply-to-a-reply and the orphan are fetched but never rendered
	assert.Equal(t, 6, w.Count())
}

func TestSubmitClearsFormAndRefreshes(t *testing.T) {
	api := &commentsAPI{}
	var updates int
	w := newTestWidget(t, api, Options{OnUpdate: func([]Thread) { updates++ }})

	w.SetName("  Alice  ")
	w.SetText("  hello  ")
	require.NoError(t, w.Submit(context.Background()))

	threads := w.Threads()
	require.Len(t, threads, 1)
	assert.Equal(t, "Alice", threads[0].Name)
	assert.Equal(t, "hello", threads[0].Text)
	assert.Equal(t, 1, updates)

	// form cleared: submitting again is a validation error
	assert.ErrorIs(t, w.Submit(context.Background()), ErrEmptyText)
}

func TestSubmitGuestFallbackAndReplyTarget(t *testing.T) {
	api := &commentsAPI{}
	w := newTestWidget(t, api, Options{})

	w.SetText("top level")
	require.NoError(t, w.Submit(context.Background()))
	top := w.Threads()[0]
	assert.Equal(t, "Guest", top.Name)

	w.BeginReply(top.ID)
	assert.Equal(t, "Guest", w.ReplyingTo())
	w.SetText("the reply")
	require.NoError(t, w.Submit(context.Background()))

	assert.Equal(t, "", w.ReplyingTo())
	threads := w.Threads()
	require.Len(t, threads, 1)
	require.Len(t, threads[0].Replies, 1)
	assert.Equal(t, "the reply", threads[0].Replies[0].Text)
}

func TestCancelReplyKeepsFormContent(t *testing.T) {
	api := &commentsAPI{comments: []Comment{{ID: "t1", Name: "Bob", Text: "top"}}}
	w := newTestWidget(t, api, Options{})
	require.NoError(t, w.Refresh(context.Background()))

	w.SetText("draft")
	w.BeginReply("t1")
	assert.Equal(t, "Bob", w.ReplyingTo())
	w.CancelReply()
	assert.Equal(t, "", w.ReplyingTo())

	require.NoError(t, w.Submit(context.Background()))
	threads := w.Threads()
	require.Len(t, threads, 2)
	assert.Nil(t, threads[0].ReplyTo)
}

func TestSubmitFailureRetainsForm(t *testing.T) {
	api := &commentsAPI{failPost: true}
	w := newTestWidget(t, api, Options{})

	w.SetText("precious draft")
	err := w.Submit(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to create comment")

	// the draft survives the failure and can be resubmitted
	api.mu.Lock()
	api.failPost = false
	api.mu.Unlock()
	require.NoError(t, w.Submit(context.Background()))
	assert.Equal(t, "precious draft", w.Threads()[0].Text)
}

func TestSubmitSingleFlight(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			close(started)
			<-release
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"comment":{"id":"c1"}}`))
			return
		}
		w.Write([]byte(`{"comments":[]}`))
	}))
	defer srv.Close()

	w := NewWidget(srv.URL, Options{})
	w.SetText("slow one")

	done := make(chan error, 1)
	go func() { done <- w.Submit(context.Background()) }()

	<-started
	assert.True(t, w.Submitting())
	assert.ErrorIs(t, w.Submit(context.Background()), ErrSubmitInFlight)

	close(release)
	require.NoError(t, <-done)
	assert.False(t, w.Submitting())
}

func TestLikeRefetches(t *testing.T) {
	api := &commentsAPI{comments: []Comment{{ID: "t1", Text: "top"}}}
	w := newTestWidget(t, api, Options{})
	require.NoError(t, w.Refresh(context.Background()))

	require.NoError(t, w.Like(context.Background(), "t1"))
	require.NoError(t, w.Like(context.Background(), "t1"))
	assert.Equal(t, 2, w.Threads()[0].Likes)

	assert.ErrorIs(t, w.Like(context.Background(), "missing"), ErrNotFound)
}

func TestConcurrentLikesAllCount(t *testing.T) {
	api := &commentsAPI{comments: []Comment{{ID: "t1", Text: "top"}}}
	w := newTestWidget(t, api, Options{})
	require.NoError(t, w.Refresh(context.Background()))

	const n = 20
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			assert.NoError(t, w.Like(context.Background(), "t1"))
		}()
	}
	wg.Wait()

	require.NoError(t, w.Refresh(context.Background()))
	assert.Equal(t, n, w.Threads()[0].Likes)
}

func TestDeleteUnauthorized(t *testing.T) {
	api := &commentsAPI{password: "s3cret", comments: []Comment{{ID: "t1", Text: "top"}}}
	w := newTestWidget(t, api, Options{})
	require.NoError(t, w.Refresh(context.Background()))

	assert.ErrorIs(t, w.Delete(context.Background(), "t1", "wrong"), ErrUnauthorized)
	assert.Equal(t, 1, w.Count())

	require.NoError(t, w.Delete(context.Background(), "t1", "s3cret"))
	assert.Equal(t, 0, w.Count())
}

func TestPollingStopsOnStop(t *testing.T) {
	api := &commentsAPI{}
	w := newTestWidget(t, api, Options{PollInterval: 10 * time.Millisecond})

	w.Start(context.Background())
	require.Eventually(t, func() bool { return api.getCount() >= 3 }, time.Second, 5*time.Millisecond)
	w.Stop()

	settled := api.getCount()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, settled, api.getCount())
}

func TestPollingStopsOnContextCancel(t *testing.T) {
	api := &commentsAPI{}
	w := newTestWidget(t, api, Options{PollInterval: 10 * time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	w.Start(ctx)
	require.Eventually(t, func() bool { return api.getCount() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()

	time.Sleep(30 * time.Millisecond)
	settled := api.getCount()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, settled, api.getCount())
}
