// Package composer holds the transient editing state of the post composer: the chat
// transcript, the candidate post and the deferred assistant replies that rewrite it.
package composer

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/debemdeboas/postcraft/internal/metrics"
	"github.com/debemdeboas/postcraft/internal/model"
)

const (
	InitialTitle    = "New LinkedIn Post"
	GreetingMessage = "Hi! I'm here to help you create engaging LinkedIn posts. What would you like to post about today?"

	initialCandidateTitle   = "AI in the Workplace"
	initialCandidateContent = "Share your insights about AI transforming the workplace. What changes have you observed in your industry? 🤖\n\n#AI #FutureOfWork #Innovation #Technology"
)

var (
	ImageNotice = model.Notification{
		Title:       "Image upload",
		Description: "Image upload functionality will be available soon.",
	}
	GenerationFailedNotice = model.Notification{
		Title:       "Generation failed",
		Description: "The assistant could not update your post. Please try again.",
	}
)

var composerLogger = zerolog.Nop()

func SetLogger(l zerolog.Logger) {
	composerLogger = l
}

type SessionID string

func NewSessionID() SessionID {
	return SessionID(uuid.New().String())
}

// State is a point-in-time copy of a session.
type State struct {
	// Title is the composer's title field, used when the candidate is saved.
	Title      string
	Candidate  model.Candidate
	Transcript []model.ChatMessage
	Input      string
	Pending    int
}

// Draft returns the candidate as it would be saved, titled with the composer title.
func (s State) Draft() model.Candidate {
	c := s.Candidate
	c.Title = s.Title
	return c
}

type ReplyEvent struct {
	Session      SessionID
	Outcome      Outcome
	Message      model.ChatMessage
	Notification model.Notification
}

// ReplyListener is told about every reply applied to a session, delivered or failed.
// It is called without the session lock held.
type ReplyListener interface {
	OnReply(ev ReplyEvent)
}

type Options struct {
	ReplyDelay        time.Duration
	GenerationTimeout time.Duration
	Generator         Generator
	Listener          ReplyListener
	Metrics           *metrics.Metrics

	now func() time.Time
}

func (o Options) withDefaults() Options {
	if o.Generator == nil {
		o.Generator = TemplateGenerator{}
	}
	if o.GenerationTimeout <= 0 {
		o.GenerationTimeout = 10 * time.Second
	}
	if o.ReplyDelay < 0 {
		o.ReplyDelay = 0
	}
	if o.now == nil {
		o.now = func() time.Time { return time.Now().UTC() }
	}
	return o
}

// Session is one composer. All mutations are serialised by its lock.
type Session struct {
	id   SessionID
	opts Options

	mu         sync.Mutex
	title      string
	candidate  model.Candidate
	transcript []model.ChatMessage
	input      string
	pending    map[*Task]struct{}
	epoch      uint64
	closed     bool
	lastActive time.Time
}

func NewSession(id SessionID, opts Options) *Session {
	s := &Session{
		id:      id,
		opts:    opts.withDefaults(),
		pending: make(map[*Task]struct{}),
	}
	s.restore()
	return s
}

func (s *Session) ID() SessionID {
	return s.id
}

func (s *Session) restore() {
	now := s.opts.now()
	s.title = InitialTitle
	s.candidate = model.Candidate{
		Title:   initialCandidateTitle,
		Content: initialCandidateContent,
	}
	s.transcript = []model.ChatMessage{s.message(model.SenderAssistant, GreetingMessage, now)}
	s.input = ""
	s.lastActive = now
}

func (s *Session) message(sender model.Sender, content string, at time.Time) model.ChatMessage {
	return model.ChatMessage{
		ID:        model.MessageID(uuid.New().String()),
		Sender:    sender,
		Content:   content,
		Timestamp: at,
	}
}

func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return State{
		Title:      s.title,
		Candidate:  s.candidate,
		Transcript: slices.Clone(s.transcript),
		Input:      s.input,
		Pending:    len(s.pending),
	}
}

// SetInput replaces the pending input buffer.
func (s *Session) SetInput(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.input = text
	s.lastActive = s.opts.now()
}

func (s *Session) SetTitle(title string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.title = title
	s.lastActive = s.opts.now()
}

// SubmitMessage appends a user message, clears the input buffer and schedules the
// assistant reply. Blank text is ignored and reported with ok=false.
func (s *Session) SubmitMessage(text string) (task *Task, ok bool) {
	if strings.TrimSpace(text) == "" {
		return nil, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, false
	}

	now := s.opts.now()
	s.transcript = append(s.transcript, s.message(model.SenderUser, text, now))
	s.input = ""
	s.lastActive = now

	task = newTask(text, s.epoch, now)
	task.sess = s
	s.pending[task] = struct{}{}
	task.timer = time.AfterFunc(s.opts.ReplyDelay, func() { s.deliver(task) })

	if s.opts.Metrics != nil {
		s.opts.Metrics.MessagesTotal.Inc()
	}
	composerLogger.Debug().Str("session", string(s.id)).Int("pending", len(s.pending)).Msg("Message submitted")
	return task, true
}

// live reports whether t may still be applied. Callers hold the lock.
func (s *Session) live(t *Task) bool {
	return !s.closed && !t.cancelled.Load() && t.epoch == s.epoch
}

func (s *Session) deliver(t *Task) {
	s.mu.Lock()
	if !s.live(t) {
		s.drop(t)
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), s.opts.GenerationTimeout)
	reply, genErr := s.opts.Generator.Generate(ctx, t.prompt)
	cancel()

	s.mu.Lock()
	if !s.live(t) {
		s.drop(t)
		s.mu.Unlock()
		return
	}

	now := s.opts.now()
	ev := ReplyEvent{Session: s.id}
	var failure *Error
	if genErr != nil {
		failure = classify(genErr)
		ev.Outcome = OutcomeFailed
		ev.Message = s.message(model.SenderAssistant, retryMessage(failure), now)
		ev.Notification = GenerationFailedNotice
	} else {
		ev.Outcome = OutcomeDelivered
		ev.Message = s.message(model.SenderAssistant, reply.Message, now)
		s.candidate.Content = reply.Content
	}
	s.transcript = append(s.transcript, ev.Message)
	delete(s.pending, t)
	s.mu.Unlock()

	if failure != nil {
		t.finish(OutcomeFailed, failure)
		composerLogger.Warn().Err(failure).Str("session", string(s.id)).Msg("Generation failed")
	} else {
		t.finish(OutcomeDelivered, nil)
		composerLogger.Debug().Str("session", string(s.id)).Msg("Reply delivered")
	}
	s.record(ev.Outcome, t)

	if s.opts.Listener != nil {
		s.opts.Listener.OnReply(ev)
	}
}

// drop finishes t without applying it. Callers hold the lock.
func (s *Session) drop(t *Task) {
	delete(s.pending, t)
	t.finish(OutcomeDropped, s.dropReason())
	s.record(OutcomeDropped, t)
	composerLogger.Debug().Str("session", string(s.id)).Msg("Reply dropped")
}

func (s *Session) record(o Outcome, t *Task) {
	if s.opts.Metrics != nil {
		s.opts.Metrics.RecordReply(o.String(), s.opts.now().Sub(t.issued))
	}
}

// forget removes a cancelled task whose timer has not fired yet.
func (s *Session) forget(t *Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.stop(nil) {
		delete(s.pending, t)
		s.record(OutcomeDropped, t)
	}
}

// dropReason is the error reported by replies dropped now. Callers hold the lock.
func (s *Session) dropReason() error {
	if s.closed {
		return ErrSessionClosed
	}
	return nil
}

// cancelPending stops every pending reply. Replies already running see the epoch change
// and drop themselves. Callers hold the lock.
func (s *Session) cancelPending() {
	s.epoch++
	reason := s.dropReason()
	for t := range s.pending {
		if t.stop(reason) {
			delete(s.pending, t)
			s.record(OutcomeDropped, t)
		}
	}
}

// RequestImageAttachment never attaches anything: images are not supported yet.
// A closed session reports ErrSessionClosed instead.
func (s *Session) RequestImageAttachment(ref string) (model.Notification, error) {
	if s.Closed() {
		return model.Notification{}, ErrSessionClosed
	}
	composerLogger.Debug().Str("session", string(s.id)).Str("ref", ref).Msg("Image attachment requested")
	return ImageNotice, ErrImageNotSupported
}

// LoadDraft replaces the title and candidate with a copy of d. The transcript is kept and
// the session keeps no reference to d, so saving afterwards creates a new draft.
func (s *Session) LoadDraft(d model.Draft) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	s.title = d.Title
	s.candidate = model.Candidate{
		Title:    d.Title,
		Content:  d.Content,
		HasImage: d.HasImage,
		ImageURL: d.ImageURL,
	}
	s.lastActive = s.opts.now()
}

// Reset drops pending replies and restores the initial state.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.cancelPending()
	s.restore()
}

// Close disposes of the session. Pending replies are dropped and later mutations ignored.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.cancelPending()
}

func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

func (s *Session) touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActive = s.opts.now()
}
