package channel

import (
	"sync"

	"github.com/stretchr/testify/mock"
)

type mockHandler struct {
	mock.Mock
}

func (m *mockHandler) OnGameJoined(player, opponent string) {
	m.Called(player, opponent)
}

func (m *mockHandler) OnGameEnd(endState EndState, location int) {
	m.Called(endState, location)
}

func (m *mockHandler) OnBetRequest() {
	m.Called()
}

func (m *mockHandler) OnGuessRequest() {
	m.Called()
}

func (m *mockHandler) OnGameError(message string) {
	m.Called(message)
}

type sentMessage struct {
	namespace string
	message   string
	callback  ResultCallback
}

// fakeTransport records sends; tests complete them explicitly.
type fakeTransport struct {
	mu   sync.Mutex
	sent []sentMessage
}

func (f *fakeTransport) SendMessage(namespace, message string, callback ResultCallback) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMessage{namespace: namespace, message: message, callback: callback})
}

func (f *fakeTransport) messages() []sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentMessage(nil), f.sent...)
}
