package closer

import (
	"sync"

	"go.uber.org/zap"

	"github.com/hoops-finance/hoops/common/rlog"
)

// Closer is Closer inferface
type Closer interface {
	Close()
}

// CloserFunc adapts a function to a Closer
type CloserFunc func()

func (f CloserFunc) Close() {
	f()
}

// Manager closes the registered closers in reverse order once
type Manager struct {
	sync.Mutex
	isClosed bool
	names    []string
	closers  []Closer
	done     chan struct{}
}

// NewManager returns a Manager
func NewManager() *Manager {
	return &Manager{
		done: make(chan struct{}),
	}
}

// IsClosed returns it is closed or not
func (cm *Manager) IsClosed() bool {
	cm.Lock()
	defer cm.Unlock()
	return cm.isClosed
}

// Add adds a closer with a name
func (cm *Manager) Add(Name string, c Closer) {
	cm.Lock()
	defer cm.Unlock()
	cm.names = append(cm.names, Name)
	cm.closers = append(cm.closers, c)
}

// Names returns the closer names in registration order
func (cm *Manager) Names() []string {
	cm.Lock()
	defer cm.Unlock()
	return append([]string{}, cm.names...)
}

// CloseAll closes every closer, later calls do nothing
func (cm *Manager) CloseAll() {
	cm.Lock()
	if cm.isClosed {
		cm.Unlock()
		return
	}
	cm.isClosed = true
	names, closers := cm.names, cm.closers
	cm.Unlock()

	log := rlog.Named("closer")
	for i := len(closers) - 1; i >= 0; i-- {
		log.Info("close", zap.String("name", names[i]))
		closers[i].Close()
	}
	close(cm.done)
}

// Wait waits close all
func (cm *Manager) Wait() {
	<-cm.done
}
