package assistant

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockConversation struct {
	mock.Mock
}

func (m *mockConversation) Send(ctx context.Context, message string) (string, error) {
	args := m.Called(ctx, message)
	return args.String(0), args.Error(1)
}

type mockStarter struct {
	mock.Mock
}

func (m *mockStarter) StartChat(ctx context.Context, systemInstruction string) (Conversation, error) {
	args := m.Called(ctx, systemInstruction)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(Conversation), args.Error(1)
}

func TestSessionSendUsesOneConversation(t *testing.T) {
	conv := &mockConversation{}
	conv.On("Send", mock.Anything, "Why is Charminar so polluted?").Return("Traffic and construction dust.", nil).Once()
	conv.On("Send", mock.Anything, "What should I do?").Return("Wear an N95 mask.", nil).Once()

	starter := &mockStarter{}
	starter.On("StartChat", mock.Anything, Persona).Return(conv, nil).Once()

	s := New(starter, time.Second, nil).NewSession()
	assert.Equal(t, "Traffic and construction dust.", s.Send(context.Background(), "Why is Charminar so polluted?"))
	assert.Equal(t, "Wear an N95 mask.", s.Send(context.Background(), "What should I do?"))
	assert.Equal(t, 2, s.Turns())

	starter.AssertExpectations(t)
	conv.AssertExpectations(t)
}

func TestSessionFallback(t *testing.T) {
	t.Run("transport failure", func(t *testing.T) {
		conv := &mockConversation{}
		conv.On("Send", mock.Anything, mock.Anything).Return("", errors.New("connection reset"))
		starter := &mockStarter{}
		starter.On("StartChat", mock.Anything, mock.Anything).Return(conv, nil)

		s := New(starter, time.Second, nil).NewSession()
		assert.Equal(t, "I'm having trouble connecting right now. Please try again later.", s.Send(context.Background(), "hello"))
		assert.Equal(t, 0, s.Turns())
	})

	t.Run("empty reply", func(t *testing.T) {
		conv := &mockConversation{}
		conv.On("Send", mock.Anything, mock.Anything).Return(" ", nil)
		starter := &mockStarter{}
		starter.On("StartChat", mock.Anything, mock.Anything).Return(conv, nil)

		s := New(starter, time.Second, nil).NewSession()
		assert.Equal(t, Fallback, s.Send(context.Background(), "hello"))
	})

	t.Run("chat cannot be started", func(t *testing.T) {
		starter := &mockStarter{}
		starter.On("StartChat", mock.Anything, mock.Anything).Return(nil, errors.New("API key is not configured"))

		s := New(starter, time.Second, nil).NewSession()
		assert.Equal(t, Fallback, s.Send(context.Background(), "hello"))
		assert.Equal(t, Fallback, s.Send(context.Background(), "again"))
		starter.AssertNumberOfCalls(t, "StartChat", 2)
	})
}

func TestSessionsAreIndependent(t *testing.T) {
	convA := &mockConversation{}
	convA.On("Send", mock.Anything, mock.Anything).Return("from A", nil)
	convB := &mockConversation{}
	convB.On("Send", mock.Anything, mock.Anything).Return("from B", nil)

	starter := &mockStarter{}
	starter.On("StartChat", mock.Anything, Persona).Return(convA, nil).Once()
	starter.On("StartChat", mock.Anything, Persona).Return(convB, nil).Once()

	a := New(starter, time.Second, nil)
	s1 := a.NewSession()
	s2 := a.NewSession()

	assert.Equal(t, "from A", s1.Send(context.Background(), "hi"))
	assert.Equal(t, "from B", s2.Send(context.Background(), "hi"))
	assert.Equal(t, "from A", s1.Send(context.Background(), "again"))
}

func TestSessionReset(t *testing.T) {
	first := &mockConversation{}
	first.On("Send", mock.Anything, mock.Anything).Return("first", nil)
	second := &mockConversation{}
	second.On("Send", mock.Anything, mock.Anything).Return("second", nil)

	starter := &mockStarter{}
	starter.On("StartChat", mock.Anything, mock.Anything).Return(first, nil).Once()
	starter.On("StartChat", mock.Anything, mock.Anything).Return(second, nil).Once()

	s := New(starter, time.Second, nil).NewSession()
	require.Equal(t, "first", s.Send(context.Background(), "hi"))

	s.Reset()
	assert.Equal(t, 0, s.Turns())
	assert.Equal(t, "second", s.Send(context.Background(), "hi"))
}

func TestStarterFunc(t *testing.T) {
	conv := &mockConversation{}
	var got string
	f := StarterFunc(func(ctx context.Context, system string) (Conversation, error) {
		got = system
		return conv, nil
	})

	c, err := f.StartChat(context.Background(), Persona)
	require.NoError(t, err)
	assert.Same(t, conv, c)
	assert.Equal(t, Persona, got)
}
