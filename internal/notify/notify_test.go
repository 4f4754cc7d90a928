package notify

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"sprint-board-api/internal/client"
	"sprint-board-api/internal/domain"
)

type fixture struct {
	item     domain.WorkItem
	reporter uuid.UUID
	assignee uuid.UUID
	watcher  uuid.UUID
	actor    uuid.UUID
}

func newFixture() fixture {
	f := fixture{
		reporter: uuid.New(),
		assignee: uuid.New(),
		watcher:  uuid.New(),
		actor:    uuid.New(),
	}
	f.item = domain.WorkItem{
		BoardID:    uuid.New(),
		Title:      "Ship release",
		ReporterID: f.reporter,
		AssigneeID: &f.assignee,
		Watchers:   []uuid.UUID{f.watcher},
	}
	f.item.ID = uuid.New()
	return f
}

func (f fixture) event(change domain.Change) domain.ItemUpdateEvent {
	return domain.NewItemUpdateEvent(f.item, change, f.actor, time.Now())
}

type fakePublisher struct {
	mu       sync.Mutex
	channels []string
	payloads [][]byte
	err      error
}

func (p *fakePublisher) Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.channels = append(p.channels, channel)
	p.payloads = append(p.payloads, message.([]byte))
	return redis.NewIntResult(1, p.err)
}

type fakeNotificationClient struct {
	mu     sync.Mutex
	single []client.NotificationEvent
	bulk   [][]client.NotificationEvent
}

func (c *fakeNotificationClient) SendNotification(ctx context.Context, event client.NotificationEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.single = append(c.single, event)
	return nil
}

func (c *fakeNotificationClient) SendBulkNotifications(ctx context.Context, events []client.NotificationEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bulk = append(c.bulk, events)
	return nil
}

func (c *fakeNotificationClient) singles() []client.NotificationEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]client.NotificationEvent(nil), c.single...)
}

func TestRedisPublisher_PublishesTaggedEvent(t *testing.T) {
	f := newFixture()
	pub := &fakePublisher{}
	p := NewRedisPublisher(pub, "", zap.NewNop(), nil)

	p.Dispatch(context.Background(), f.event(domain.StatusChange{From: domain.StatusTodo, To: domain.StatusInProgress}))

	require.Len(t, pub.channels, 1)
	assert.Equal(t, "board:"+f.item.BoardID.String()+":items", pub.channels[0])

	var decoded domain.ItemUpdateEvent
	require.NoError(t, json.Unmarshal(pub.payloads[0], &decoded))
	assert.Equal(t, domain.StatusChange{From: domain.StatusTodo, To: domain.StatusInProgress}, decoded.Change)
	assert.Equal(t, f.item.ID, decoded.Item.ID)
}

func TestRedisPublisher_ErrorIsSwallowed(t *testing.T) {
	f := newFixture()
	pub := &fakePublisher{err: errors.New("connection refused")}
	p := NewRedisPublisher(pub, "custom:%s", nil, nil)

	assert.NotPanics(t, func() {
		p.Dispatch(context.Background(), f.event(domain.CommentAdded{CommentID: uuid.New(), Preview: "hi"}))
	})
	assert.Equal(t, "custom:"+f.item.BoardID.String(), pub.channels[0])
}

func TestMultiDispatcher(t *testing.T) {
	f := newFixture()
	var calls []string
	m := MultiDispatcher{
		DispatcherFunc(func(ctx context.Context, e domain.ItemUpdateEvent) { calls = append(calls, "a") }),
		nil,
		NoOpDispatcher{},
		DispatcherFunc(func(ctx context.Context, e domain.ItemUpdateEvent) { calls = append(calls, "b") }),
	}

	m.Dispatch(context.Background(), f.event(domain.ChecklistChange{From: domain.ChecklistProgress{Done: 0, Total: 2}, To: domain.ChecklistProgress{Done: 1, Total: 2}}))

	assert.Equal(t, []string{"a", "b"}, calls)
}

func TestSummarizeAndHighlight(t *testing.T) {
	due := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	assignee := uuid.MustParse("11111111-1111-1111-1111-111111111111")

	tests := []struct {
		name      string
		change    domain.Change
		summary   string
		highlight string
	}{
		{"상태 변경", domain.StatusChange{From: domain.StatusTodo, To: domain.StatusDone}, "Status changed to DONE", "status"},
		{"담당자 지정", domain.AssigneeChange{To: &assignee}, "Assigned to 11111111-1111-1111-1111-111111111111", "assignee"},
		{"담당자 해제", domain.AssigneeChange{From: &assignee}, "Assignee removed", "assignee"},
		{"마감일 변경", domain.DueDateChange{To: &due}, "Due date moved to 2024-06-30", "dueDate"},
		{"댓글", domain.CommentAdded{Preview: "lgtm"}, "New comment", "title"},
		{"체크리스트", domain.ChecklistChange{From: domain.ChecklistProgress{Done: 1, Total: 3}, To: domain.ChecklistProgress{Done: 2, Total: 3}}, "Checklist 2/3 done", "title"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.summary, Summarize(tt.change))
			assert.Equal(t, tt.highlight, HighlightSection(tt.change.Field()))
		})
	}
}

func TestCoalescer_MergesWithinWindow(t *testing.T) {
	f := newFixture()
	got := make(chan Toast, 4)
	c := NewCoalescer(50*time.Millisecond, func(userID uuid.UUID, toast Toast) {
		assert.Equal(t, f.reporter, userID)
		got <- toast
	})

	assert.True(t, c.Add(f.reporter, f.event(domain.StatusChange{From: domain.StatusTodo, To: domain.StatusInProgress})))
	assert.True(t, c.Add(f.reporter, f.event(domain.StatusChange{From: domain.StatusTodo, To: domain.StatusInProgress})))
	assert.True(t, c.Add(f.reporter, f.event(domain.CommentAdded{Preview: "on it"})))
	assert.Equal(t, 1, c.Pending())

	select {
	case toast := <-got:
		assert.Equal(t, f.item.ID, toast.ItemID)
		assert.Equal(t, "Ship release", toast.Title)
		assert.Equal(t, []string{"Status changed to IN_PROGRESS", "New comment"}, toast.Changes)
		assert.Equal(t, "title", toast.HighlightSection)
	case <-time.After(2 * time.Second):
		t.Fatal("toast was not emitted")
	}

	select {
	case extra := <-got:
		t.Fatalf("unexpected second toast: %+v", extra)
	case <-time.After(150 * time.Millisecond):
	}
	assert.Equal(t, 0, c.Pending())
}

func TestCoalescer_RelevanceGuard(t *testing.T) {
	f := newFixture()
	c := NewCoalescer(time.Hour, func(uuid.UUID, Toast) {
		t.Fatal("irrelevant user must not get a toast")
	})

	assert.False(t, c.Add(uuid.New(), f.event(domain.CommentAdded{})))
	assert.Equal(t, 0, c.Pending())
}

func TestCoalescer_SeparatesRecipientsAndItems(t *testing.T) {
	f := newFixture()
	other := f.item
	other.ID = uuid.New()

	var mu sync.Mutex
	emitted := map[uuid.UUID]int{}
	c := NewCoalescer(time.Hour, func(userID uuid.UUID, toast Toast) {
		mu.Lock()
		defer mu.Unlock()
		emitted[userID]++
	})

	c.Add(f.reporter, f.event(domain.CommentAdded{}))
	c.Add(f.watcher, f.event(domain.CommentAdded{}))
	c.Add(f.watcher, domain.NewItemUpdateEvent(other, domain.CommentAdded{}, f.actor, time.Now()))
	assert.Equal(t, 3, c.Pending())

	c.Flush()

	assert.Equal(t, 0, c.Pending())
	assert.Equal(t, 1, emitted[f.reporter])
	assert.Equal(t, 2, emitted[f.watcher])
}

func TestServiceDispatcher_WithoutCoalescing(t *testing.T) {
	f := newFixture()
	fake := &fakeNotificationClient{}
	d := NewServiceDispatcher(fake, 0, time.Second, zap.NewNop(), nil)

	d.Dispatch(context.Background(), f.event(domain.StatusChange{From: domain.StatusTodo, To: domain.StatusInProgress}))

	require.Len(t, fake.bulk, 1)
	assert.Len(t, fake.bulk[0], 3)
}

func TestServiceDispatcher_CoalescesPerRecipient(t *testing.T) {
	f := newFixture()
	fake := &fakeNotificationClient{}
	d := NewServiceDispatcher(fake, time.Hour, time.Second, zap.NewNop(), nil)

	d.Dispatch(context.Background(), f.event(domain.StatusChange{From: domain.StatusTodo, To: domain.StatusInProgress}))
	d.Dispatch(context.Background(), f.event(domain.StatusChange{From: domain.StatusInProgress, To: domain.StatusInReview}))
	assert.Empty(t, fake.singles())

	d.Close()

	sent := fake.singles()
	require.Len(t, sent, 3)
	for _, n := range sent {
		assert.NotEqual(t, f.actor, n.TargetUserID)
		assert.Equal(t, "status", n.Metadata["highlightSection"])
		assert.Equal(t, []string{"Status changed to IN_PROGRESS", "Status changed to IN_REVIEW"}, n.Metadata["changes"])
	}
}
