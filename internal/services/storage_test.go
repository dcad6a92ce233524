package services

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/Renal37/karigar-desk/internal/database"
	"github.com/Renal37/karigar-desk/internal/models"
)

// memoryStorage хранилище в памяти с той же семантикой, что и database.Database.
type memoryStorage struct {
	mu       sync.Mutex
	orders   map[string]database.OrderDB
	mappings map[string]database.DesignMappingDB
	karigars map[string]struct{}
	users    map[string]database.UserDB

	// conflicts заказы, для которых SaveTransition ведёт себя так, будто статус уже изменили.
	conflicts     map[string]bool
	mappingLoads  int
	upsertedCount int
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{
		orders:    map[string]database.OrderDB{},
		mappings:  map[string]database.DesignMappingDB{},
		karigars:  map[string]struct{}{},
		users:     map[string]database.UserDB{},
		conflicts: map[string]bool{},
	}
}

func (s *memoryStorage) UpsertOrder(_ context.Context, order database.OrderDB) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.orders[order.ID] = order
	s.upsertedCount++
	if order.KarigarName != nil {
		s.karigars[*order.KarigarName] = struct{}{}
	}
	return nil
}

func (s *memoryStorage) FindOrder(_ context.Context, orderID string) (*database.OrderDB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[orderID]
	if !ok {
		return nil, nil
	}
	return &order, nil
}

func (s *memoryStorage) FindOrders(_ context.Context, filter models.OrderFilter) ([]database.OrderDB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	search := strings.ToLower(filter.Search)
	result := []database.OrderDB{}
	for _, order := range s.orders {
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, order.Status.OrderStatus) {
			continue
		}
		if len(filter.Types) > 0 && !containsType(filter.Types, models.OrderType(order.OrderType)) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(order.OrderNo), search) &&
			!strings.Contains(strings.ToLower(order.Design), search) &&
			!strings.Contains(strings.ToLower(order.Product), search) {
			continue
		}
		result = append(result, order)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (s *memoryStorage) SaveTransition(_ context.Context, prevStatus models.OrderStatus, updated database.OrderDB, created *database.OrderDB) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.orders[updated.ID]
	if !ok || current.Status.OrderStatus != prevStatus || s.conflicts[updated.ID] {
		return database.ErrOrderChanged
	}
	if created != nil {
		if _, exists := s.orders[created.ID]; exists {
			return database.ErrDuplicateOrder
		}
		s.orders[created.ID] = *created
		if created.KarigarName != nil {
			s.karigars[*created.KarigarName] = struct{}{}
		}
	}
	s.orders[updated.ID] = updated
	if updated.KarigarName != nil {
		s.karigars[*updated.KarigarName] = struct{}{}
	}
	return nil
}

func (s *memoryStorage) DeleteOrdersByStatus(_ context.Context, statuses []models.OrderStatus) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64
	for id, order := range s.orders {
		if containsStatus(statuses, order.Status.OrderStatus) {
			delete(s.orders, id)
			deleted++
		}
	}
	return deleted, nil
}

func (s *memoryStorage) FindDesignMappings(_ context.Context) ([]database.DesignMappingDB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]database.DesignMappingDB, 0, len(s.mappings))
	for _, m := range s.mappings {
		result = append(result, m)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].DesignCode < result[j].DesignCode })
	return result, nil
}

func (s *memoryStorage) FindDesignMapping(_ context.Context, code string) (*database.DesignMappingDB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mappingLoads++
	m, ok := s.mappings[code]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (s *memoryStorage) UpsertDesignMapping(_ context.Context, mapping database.DesignMappingDB) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.putMapping(mapping)
	return nil
}

func (s *memoryStorage) UpsertDesignMappings(_ context.Context, mappings []database.DesignMappingDB, karigars []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, m := range mappings {
		s.mappings[m.DesignCode] = m
	}
	for _, name := range karigars {
		s.karigars[name] = struct{}{}
	}
	return nil
}

func (s *memoryStorage) putMapping(m database.DesignMappingDB) {
	s.mappings[m.DesignCode] = m
	if m.KarigarName != "" {
		s.karigars[m.KarigarName] = struct{}{}
	}
}

func (s *memoryStorage) CreateKarigar(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.karigars[name]; ok {
		return database.ErrDuplicateKarigar
	}
	s.karigars[name] = struct{}{}
	return nil
}

func (s *memoryStorage) FindKarigars(_ context.Context) ([]database.KarigarDB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]database.KarigarDB, 0, len(s.karigars))
	for name := range s.karigars {
		result = append(result, database.KarigarDB{Name: name})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (s *memoryStorage) CreateUser(_ context.Context, user database.UserDB) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.Login]; ok {
		return "", database.ErrDuplicateUser
	}
	user.ID = "user-" + user.Login
	s.users[user.Login] = user
	return user.ID, nil
}

func (s *memoryStorage) FindUser(_ context.Context, login string) (*database.UserDB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[login]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

func (s *memoryStorage) order(id string) (database.OrderDB, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[id]
	return order, ok
}

func (s *memoryStorage) loads() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.mappingLoads
}

func containsStatus(statuses []models.OrderStatus, status models.OrderStatus) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

func containsType(types []models.OrderType, orderType models.OrderType) bool {
	for _, t := range types {
		if t == orderType {
			return true
		}
	}
	return false
}
