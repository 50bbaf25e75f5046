package memory

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"daftar/internal/core"
	"daftar/internal/storage"
)

// Store keeps every record in process memory. Reads return copies, so a
// caller always sees a consistent snapshot.
type Store struct {
	mu        sync.RWMutex
	orders    []core.Order
	partners  []core.Partner
	activity  []core.Activity
	nextOrder int64
	nextPart  int64
}

var _ storage.Store = (*Store)(nil)

func New() *Store {
	return &Store{}
}

// NewFromFiles seeds partners from base/seed_partners.txt. Each line is
// "name;joined_amount;percentage"; blank lines and # comments are skipped.
func NewFromFiles(base string) (*Store, error) {
	s := New()
	for i, line := range readLines(filepath.Join(base, "seed_partners.txt")) {
		fields := strings.Split(line, ";")
		if len(fields) != 3 {
			return nil, fmt.Errorf("seed_partners.txt line %d: want 3 fields, got %d", i+1, len(fields))
		}
		p, fe := core.ValidatePartner(core.PartnerInput{Name: fields[0], JoinedAmount: fields[1], Percentage: fields[2]})
		if fe != nil {
			return nil, fmt.Errorf("seed_partners.txt line %d: %w", i+1, fe)
		}
		if _, err := s.SavePartner(context.Background(), p); err != nil {
			return nil, fmt.Errorf("seed_partners.txt line %d: %w", i+1, err)
		}
	}
	return s, nil
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close() error { return nil }

func (s *Store) ListOrders(context.Context) ([]core.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.Order(nil), s.orders...), nil
}

func (s *Store) GetOrder(_ context.Context, id int64) (core.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.orderIndex(id); i >= 0 {
		return s.orders[i], nil
	}
	return core.Order{}, fmt.Errorf("order %d: %w", id, storage.ErrNotFound)
}

func (s *Store) SaveOrder(_ context.Context, o core.Order) (core.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if o.ID == 0 {
		s.nextOrder++
		o.ID = s.nextOrder
		s.orders = append(s.orders, o)
		return o, nil
	}
	i := s.orderIndex(o.ID)
	if i < 0 {
		return core.Order{}, fmt.Errorf("order %d: %w", o.ID, storage.ErrNotFound)
	}
	s.orders[i] = o
	return o, nil
}

func (s *Store) DeleteOrder(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.orderIndex(id)
	if i < 0 {
		return fmt.Errorf("order %d: %w", id, storage.ErrNotFound)
	}
	s.orders = append(s.orders[:i], s.orders[i+1:]...)
	return nil
}

func (s *Store) orderIndex(id int64) int {
	for i := range s.orders {
		if s.orders[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) ListPartners(context.Context) ([]core.Partner, error) {
	s.mu.RLock()
	out := append([]core.Partner(nil), s.partners...)
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) GetPartner(_ context.Context, id int64) (core.Partner, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.partnerIndex(id); i >= 0 {
		return s.partners[i], nil
	}
	return core.Partner{}, fmt.Errorf("partner %d: %w", id, storage.ErrNotFound)
}

func (s *Store) SavePartner(_ context.Context, p core.Partner) (core.Partner, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, other := range s.partners {
		if other.Name == p.Name && other.ID != p.ID {
			return core.Partner{}, fmt.Errorf("partner %q: %w", p.Name, storage.ErrDuplicateName)
		}
	}

	if p.ID == 0 {
		s.nextPart++
		p.ID = s.nextPart
		s.partners = append(s.partners, p)
		return p, nil
	}
	i := s.partnerIndex(p.ID)
	if i < 0 {
		return core.Partner{}, fmt.Errorf("partner %d: %w", p.ID, storage.ErrNotFound)
	}
	s.partners[i] = p
	return p, nil
}

func (s *Store) DeletePartner(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.partnerIndex(id)
	if i < 0 {
		return fmt.Errorf("partner %d: %w", id, storage.ErrNotFound)
	}
	s.partners = append(s.partners[:i], s.partners[i+1:]...)
	return nil
}

func (s *Store) partnerIndex(id int64) int {
	for i := range s.partners {
		if s.partners[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) InsertActivity(_ context.Context, a core.Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.activity {
		if existing.ID == a.ID {
			return nil
		}
	}
	s.activity = append(s.activity, a)
	return nil
}

// ListActivity returns entries newest first; equal timestamps fall back to
// the most recently inserted.
func (s *Store) ListActivity(context.Context) ([]core.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]core.Activity, len(s.activity))
	for i, a := range s.activity {
		out[len(out)-1-i] = a
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}

func readLines(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return out
}
