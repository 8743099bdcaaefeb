package cart

import (
	"sync"
	"time"

	"storefront-backend/internal/domain"
	"storefront-backend/pkg/cache"
)

// Session is the state container for one shopper: the cart, the checkout address and
// the checkout busy flag. It is safe for concurrent use.
type Session struct {
	ID string

	mu          sync.Mutex
	cart        domain.Cart
	address     domain.Address
	checkingOut bool
}

func NewSession(id string) *Session {
	return &Session{ID: id}
}

// Cart returns a snapshot of the current cart.
func (s *Session) Cart() domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.cart)
}

// Update applies fn to the cart and stores the result. The cart is frozen while an
// order submission is in flight.
func (s *Session) Update(fn func(domain.Cart) domain.Cart) (domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.checkingOut {
		return clone(s.cart), domain.ErrCheckoutInProgress
	}
	s.cart = fn(s.cart)
	return clone(s.cart), nil
}

func (s *Session) Address() domain.Address {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.address
}

func (s *Session) SetAddress(addr domain.Address) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.address = addr
}

// TryBeginCheckout marks a submission as in flight. It returns false when one already is.
func (s *Session) TryBeginCheckout() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.checkingOut {
		return false
	}
	s.checkingOut = true
	return true
}

// EndCheckout releases the busy flag. When placed is true the cart and address are
// cleared as well.
func (s *Session) EndCheckout(placed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if placed {
		s.cart = Clear(s.cart)
		s.address = domain.Address{}
	}
	s.checkingOut = false
}

// SessionStore keeps sessions in the cache service with a sliding expiry.
type SessionStore struct {
	cache cache.CacheService
	ttl   time.Duration
	mu    sync.Mutex
}

func NewSessionStore(c cache.CacheService, ttl time.Duration) *SessionStore {
	return &SessionStore{cache: c, ttl: ttl}
}

func sessionKey(id string) string {
	return "cart_session:" + id
}

// Get returns an existing session and refreshes its expiry.
func (s *SessionStore) Get(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lookup(id)
}

// GetOrCreate returns the session for id, starting an empty one if needed.
func (s *SessionStore) GetOrCreate(id string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.lookup(id); ok {
		return sess
	}
	sess := NewSession(id)
	s.cache.Set(sessionKey(id), sess, s.ttl)
	return sess
}

func (s *SessionStore) lookup(id string) (*Session, bool) {
	v, ok := s.cache.Get(sessionKey(id))
	if !ok {
		return nil, false
	}
	sess, ok := v.(*Session)
	if !ok {
		return nil, false
	}
	s.cache.Set(sessionKey(id), sess, s.ttl)
	return sess, true
}
