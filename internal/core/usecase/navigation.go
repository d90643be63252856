package usecase

import (
	"sync"

	"github.com/kirillkom/retail-insights/internal/core/domain"
)

// navigator tracks the active tab. Every tab change bumps the epoch so a
// response started before navigating away can be recognised as stale.
type navigator struct {
	mu    sync.Mutex
	tab   domain.Tab
	epoch uint64
}

type navTicket struct {
	tab   domain.Tab
	epoch uint64
}

func newNavigator(initial domain.Tab) *navigator {
	return &navigator{tab: initial}
}

func (n *navigator) navigate(tab domain.Tab) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.tab == tab {
		return false
	}
	n.tab = tab
	n.epoch++
	return true
}

// invalidate marks every outstanding ticket stale without changing the tab.
func (n *navigator) invalidate() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.epoch++
}

func (n *navigator) active() domain.Tab {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.tab
}

func (n *navigator) ticket() navTicket {
	n.mu.Lock()
	defer n.mu.Unlock()
	return navTicket{tab: n.tab, epoch: n.epoch}
}

func (n *navigator) current(t navTicket) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.tab == t.tab && n.epoch == t.epoch
}
