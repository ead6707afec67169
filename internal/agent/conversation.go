package agent

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// ErrEmptyQuestion is returned when the question is blank.
var ErrEmptyQuestion = errors.New("question is empty")

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one chat turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Conversation is the transcript of one chat panel.
type Conversation struct {
	mu       sync.Mutex
	messages []Message
}

// NewConversation starts a transcript with the greeting.
func NewConversation() *Conversation {
	return &Conversation{messages: []Message{{Role: RoleAssistant, Content: Greeting}}}
}

// Messages returns a copy of the transcript.
func (c *Conversation) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Message(nil), c.messages...)
}

// Send records the question, asks the agent and records the answer.
func (c *Conversation) Send(ctx context.Context, a *Agent, question, planContext string) (Message, error) {
	if strings.TrimSpace(question) == "" {
		return Message{}, ErrEmptyQuestion
	}

	c.mu.Lock()
	c.messages = append(c.messages, Message{Role: RoleUser, Content: question})
	c.mu.Unlock()

	reply := Message{Role: RoleAssistant, Content: a.Ask(ctx, question, planContext)}

	c.mu.Lock()
	c.messages = append(c.messages, reply)
	c.mu.Unlock()
	return reply, nil
}

// Conversations keeps one transcript per chat session id.
type Conversations struct {
	mu   sync.Mutex
	byID map[string]*Conversation
}

// NewConversations returns an empty registry.
func NewConversations() *Conversations {
	return &Conversations{byID: make(map[string]*Conversation)}
}

// Get returns the conversation for id, starting a new one (with a fresh id)
// when id is empty or unknown.
func (r *Conversations) Get(id string) (string, *Conversation) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.byID[id]; ok {
		return id, c
	}
	if id == "" {
		id = uuid.NewString()
	}
	c := NewConversation()
	r.byID[id] = c
	return id, c
}
