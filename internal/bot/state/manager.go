package state

import "sync"

// User states
const (
	None           = "none"
	WaitingForMeal = "waiting_for_meal"
	WaitingForGoal = "waiting_for_goal"
)

// Temp data keys
const (
	KeyDish     = "dish"
	KeyServings = "servings"
)

// StateManager keeps per-chat conversation state between updates
type StateManager interface {
	SetUserState(userID int64, state string)
	GetUserState(userID int64) string
	ClearUserState(userID int64)
	SetTempData(userID int64, key string, value interface{})
	GetTempData(userID int64, key string) (interface{}, bool)
	ClearTempData(userID int64)
}

// Manager manages user states and temporary data in memory
type Manager struct {
	userStates map[int64]string
	tempData   map[int64]map[string]interface{}
	mu         sync.RWMutex
}

// NewManager creates a new state manager
func NewManager() *Manager {
	return &Manager{
		userStates: make(map[int64]string),
		tempData:   make(map[int64]map[string]interface{}),
	}
}

// SetUserState sets the state for a user
func (m *Manager) SetUserState(userID int64, state string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.userStates[userID] = state
}

// GetUserState gets the state for a user
func (m *Manager) GetUserState(userID int64) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	state, exists := m.userStates[userID]
	if !exists {
		return None
	}
	return state
}

// ClearUserState clears the state for a user
func (m *Manager) ClearUserState(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.userStates, userID)
}

// SetTempData sets temporary data for a user
func (m *Manager) SetTempData(userID int64, key string, value interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.tempData[userID] == nil {
		m.tempData[userID] = make(map[string]interface{})
	}
	m.tempData[userID][key] = value
}

// GetTempData gets temporary data for a user
func (m *Manager) GetTempData(userID int64, key string) (interface{}, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	userData, exists := m.tempData[userID]
	if !exists {
		return nil, false
	}
	value, exists := userData[key]
	return value, exists
}

// ClearTempData clears all temporary data for a user
func (m *Manager) ClearTempData(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tempData, userID)
}

// PendingDish returns the dish and servings saved while the user picks a
// meal. Values read back from Redis arrive as JSON numbers.
func PendingDish(m StateManager, userID int64) (string, float64, bool) {
	rawDish, ok := m.GetTempData(userID, KeyDish)
	if !ok {
		return "", 0, false
	}
	dish, ok := rawDish.(string)
	if !ok || dish == "" {
		return "", 0, false
	}

	servings := 1.0
	if raw, ok := m.GetTempData(userID, KeyServings); ok {
		switch v := raw.(type) {
		case float64:
			servings = v
		case int:
			servings = float64(v)
		}
	}
	return dish, servings, true
}
