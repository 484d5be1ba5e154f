package console

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockPlayer struct {
	mock.Mock
}

func (m *mockPlayer) Join(name string) { m.Called(name) }
func (m *mockPlayer) Bet(a1, c1, a2, c2 int) {
	m.Called(a1, c1, a2, c2)
}
func (m *mockPlayer) Guess(value int) { m.Called(value) }
func (m *mockPlayer) Leave()          { m.Called() }

func TestExecute(t *testing.T) {
	tests := []struct {
		line   string
		method string
		args   []any
	}{
		{"join Alice", "Join", []any{"Alice"}},
		{`join "Big Al"`, "Join", []any{"Big Al"}},
		{"GUESS -12", "Guess", []any{-12}},
		{"bet 1 10 2 0", "Bet", []any{1, 10, 2, 0}},
		{"  leave  ", "Leave", nil},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			p := new(mockPlayer)
			p.On(tt.method, tt.args...).Return().Once()

			assert.NoError(t, Execute(p, tt.line))
			p.AssertExpectations(t)
		})
	}
}

func TestExecute_Errors(t *testing.T) {
	tests := []struct {
		line string
		err  error
	}{
		{"join", ErrUsage},
		{"join a b", ErrUsage},
		{"guess", ErrUsage},
		{"guess many", ErrUsage},
		{"bet 1 2 3", ErrUsage},
		{"bet 1 2 3 x", ErrUsage},
		{`join "unterminated`, ErrUsage},
		{"dance", ErrUnknownCommand},
		{"quit", ErrQuit},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			p := new(mockPlayer)
			assert.ErrorIs(t, Execute(p, tt.line), tt.err)
			assert.Empty(t, p.Calls)
		})
	}
}

func TestExecute_Blank(t *testing.T) {
	p := new(mockPlayer)
	assert.NoError(t, Execute(p, "   "))
	assert.Empty(t, p.Calls)
}
