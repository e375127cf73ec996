package commands

import (
	"fmt"
	"io"
	"sync"

	"servicepro/internal/domain"
)

// consoleNavigator prints navigation requests and keeps a screen stack.
type consoleNavigator struct {
	mu    sync.Mutex
	out   io.Writer
	stack []domain.Screen
}

func (n *consoleNavigator) NavigateTo(screen domain.Screen, params map[string]any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.stack = append(n.stack, screen)
	fmt.Fprintf(n.out, "-> %s %v\n", screen, params)
}

func (n *consoleNavigator) ResetTo(screen domain.Screen) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.stack = []domain.Screen{screen}
	fmt.Fprintf(n.out, "=> %s\n", screen)
}

func (n *consoleNavigator) GoBack() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.stack) > 1 {
		n.stack = n.stack[:len(n.stack)-1]
	}
	if len(n.stack) > 0 {
		fmt.Fprintf(n.out, "<- %s\n", n.stack[len(n.stack)-1])
	}
}

var _ domain.Navigator = (*consoleNavigator)(nil)
