package stub

import (
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/maxiaolu1981/cretem/nexuscore/errors"

	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/pkg/serverest"
)

var (
	errDuplicateName  = errors.New(serverest.MsgDuplicateProduct)
	errDuplicateEmail = errors.New(serverest.MsgDuplicateEmail)
)

// store keeps every record in memory, in insertion order.
type store struct {
	mu           sync.RWMutex
	products     map[string]serverest.Product
	productOrder []string
	users        map[string]serverest.User
	userOrder    []string
}

func newStore() *store {
	return &store{
		products: map[string]serverest.Product{},
		users:    map[string]serverest.User{},
	}
}

// newID mimics the 16 character identifiers of the real API.
func newID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
}

// contains is the fuzzy filter used for nome: case insensitive substring.
func contains(value, filter string) bool {
	return strings.Contains(strings.ToLower(value), strings.ToLower(filter))
}

type productFilter struct {
	ID        string
	Nome      string
	Descricao string
}

func (s *store) listProducts(f productFilter) []serverest.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []serverest.Product{}
	for _, id := range s.productOrder {
		p := s.products[id]
		if f.ID != "" && p.ID != f.ID {
			continue
		}
		if f.Nome != "" && !contains(p.Nome, f.Nome) {
			continue
		}
		if f.Descricao != "" && !contains(p.Descricao, f.Descricao) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func (s *store) getProduct(id string) (serverest.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[id]
	return p, ok
}

// productNameTaken must be called with the lock held.
func (s *store) productNameTaken(name, exceptID string) bool {
	for id, p := range s.products {
		if id != exceptID && strings.EqualFold(p.Nome, name) {
			return true
		}
	}
	return false
}

func (s *store) createProduct(p serverest.Product) (serverest.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.productNameTaken(p.Nome, "") {
		return serverest.Product{}, errDuplicateName
	}
	p.ID = newID()
	s.products[p.ID] = p
	s.productOrder = append(s.productOrder, p.ID)
	return p, nil
}

// putProduct replaces the record with id, or creates a new one when id is unknown.
func (s *store) putProduct(id string, p serverest.Product) (serverest.Product, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, exists := s.products[id]
	if s.productNameTaken(p.Nome, id) {
		return serverest.Product{}, false, errDuplicateName
	}
	if exists {
		p.ID = id
		s.products[id] = p
		return p, false, nil
	}
	p.ID = newID()
	s.products[p.ID] = p
	s.productOrder = append(s.productOrder, p.ID)
	return p, true, nil
}

func (s *store) deleteProduct(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[id]; !ok {
		return false
	}
	delete(s.products, id)
	s.productOrder = remove(s.productOrder, id)
	return true
}

type userFilter struct {
	ID            string
	Nome          string
	Email         string
	Administrador string
}

func (s *store) listUsers(f userFilter) []serverest.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []serverest.User{}
	for _, id := range s.userOrder {
		u := s.users[id]
		if f.ID != "" && u.ID != f.ID {
			continue
		}
		if f.Nome != "" && !contains(u.Nome, f.Nome) {
			continue
		}
		if f.Email != "" && !strings.EqualFold(u.Email, f.Email) {
			continue
		}
		if f.Administrador != "" && u.Administrador != f.Administrador {
			continue
		}
		out = append(out, u)
	}
	return out
}

func (s *store) getUser(id string) (serverest.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	return u, ok
}

func (s *store) userByEmail(email string) (serverest.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return u, true
		}
	}
	return serverest.User{}, false
}

func (s *store) emailTaken(email, exceptID string) bool {
	for id, u := range s.users {
		if id != exceptID && strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}

func (s *store) createUser(u serverest.User) (serverest.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.emailTaken(u.Email, "") {
		return serverest.User{}, errDuplicateEmail
	}
	u.ID = newID()
	s.users[u.ID] = u
	s.userOrder = append(s.userOrder, u.ID)
	return u, nil
}

func (s *store) putUser(id string, u serverest.User) (serverest.User, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, exists := s.users[id]
	if s.emailTaken(u.Email, id) {
		return serverest.User{}, false, errDuplicateEmail
	}
	if exists {
		u.ID = id
		s.users[id] = u
		return u, false, nil
	}
	u.ID = newID()
	s.users[u.ID] = u
	s.userOrder = append(s.userOrder, u.ID)
	return u, true, nil
}

func (s *store) deleteUser(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return false
	}
	delete(s.users, id)
	s.userOrder = remove(s.userOrder, id)
	return true
}

func remove(ids []string, id string) []string {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
