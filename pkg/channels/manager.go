package channels

import (
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"nekocmd/pkg/chat"
	"nekocmd/pkg/logger"
	"nekocmd/pkg/processor"
)

// Manager tracks the channels registered on the processor. The processor
// owns their lifecycle: it subscribes on Start and cancels on Stop.
type Manager struct {
	log       *logger.Logger
	processor *processor.Processor
	channels  map[string]Channel
	mu        sync.RWMutex
}

// NewManager creates a new channel manager.
func NewManager(log *logger.Logger, proc *processor.Processor) *Manager {
	return &Manager{
		log:       log,
		processor: proc,
		channels:  make(map[string]Channel),
	}
}

// Register adds a channel as an event source. It fails once the processor
// has started.
func (m *Manager) Register(channel Channel) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	name := channel.Name()
	if _, exists := m.channels[name]; exists {
		return fmt.Errorf("channel %s already registered", name)
	}

	if err := processor.AddSource[*chat.Message](m.processor, channel); err != nil {
		return fmt.Errorf("registering channel %s: %w", name, err)
	}

	m.channels[name] = channel
	m.log.Info("Registered channel", zap.String("name", name))

	return nil
}

// GetChannel returns a channel by name.
func (m *Manager) GetChannel(name string) (Channel, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	channel, exists := m.channels[name]
	if !exists {
		return nil, fmt.Errorf("channel %s not found", name)
	}

	return channel, nil
}

// ListChannels returns all registered channels sorted by name.
func (m *Manager) ListChannels() []Channel {
	m.mu.RLock()
	defer m.mu.RUnlock()

	channels := make([]Channel, 0, len(m.channels))
	for _, ch := range m.channels {
		channels = append(channels, ch)
	}
	sort.Slice(channels, func(i, j int) bool {
		return channels[i].Name() < channels[j].Name()
	})

	return channels
}

// Names returns the names of all registered channels, sorted.
func (m *Manager) Names() []string {
	channels := m.ListChannels()
	names := make([]string, 0, len(channels))
	for _, ch := range channels {
		names = append(names, ch.Name())
	}
	return names
}
