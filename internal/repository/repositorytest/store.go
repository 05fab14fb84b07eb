// Package repositorytest provides an in-memory repository.Store used by
// service tests. Semantics mirror the Postgres implementation: copies out,
// conditional tombstone writes, Postgres-style ordering.
package repositorytest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vetdesk/backoffice-api/internal/model"
	"github.com/vetdesk/backoffice-api/internal/repository"
)

type Store struct {
	mu           sync.Mutex
	users        map[uuid.UUID]model.User
	tenants      map[uuid.UUID]model.Tenant
	memberships  map[uuid.UUID]map[uuid.UUID]model.Role
	doctors      map[uuid.UUID]model.Doctor
	specialties  map[uuid.UUID]model.Specialty
	appointments map[uuid.UUID]model.Appointment
	transactions map[uuid.UUID]model.Transaction
	sessions     map[uuid.UUID]model.Session
	clock        time.Time
}

func NewStore() *Store {
	return &Store{
		users:        make(map[uuid.UUID]model.User),
		tenants:      make(map[uuid.UUID]model.Tenant),
		memberships:  make(map[uuid.UUID]map[uuid.UUID]model.Role),
		doctors:      make(map[uuid.UUID]model.Doctor),
		specialties:  make(map[uuid.UUID]model.Specialty),
		appointments: make(map[uuid.UUID]model.Appointment),
		transactions: make(map[uuid.UUID]model.Transaction),
		sessions:     make(map[uuid.UUID]model.Session),
		clock:        time.Now(),
	}
}

// tick returns a strictly increasing timestamp so creation-order sorting is
// deterministic even within one test.
func (s *Store) tick() time.Time {
	s.clock = s.clock.Add(time.Millisecond)
	return s.clock
}

func (s *Store) Users() repository.UserRepository               { return (*userRepo)(s) }
func (s *Store) Tenants() repository.TenantRepository           { return (*tenantRepo)(s) }
func (s *Store) Doctors() repository.DoctorRepository           { return (*doctorRepo)(s) }
func (s *Store) Specialties() repository.SpecialtyRepository    { return (*specialtyRepo)(s) }
func (s *Store) Appointments() repository.AppointmentRepository { return (*appointmentRepo)(s) }
func (s *Store) Transactions() repository.TransactionRepository { return (*transactionRepo)(s) }
func (s *Store) Sessions() repository.SessionRepository         { return (*sessionRepo)(s) }

func (s *Store) InTx(ctx context.Context, fn func(repository.Store) error) error {
	return fn(s)
}

// --- users ---

type userRepo Store

func (r *userRepo) Create(ctx context.Context, user *model.User) error {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = s.tick()
	user.UpdatedAt = user.CreatedAt
	s.users[user.ID] = *user
	return nil
}

func (r *userRepo) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		return &u, nil
	}
	return nil, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (r *userRepo) List(ctx context.Context) ([]*model.User, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*model.User{}
	for _, u := range s.users {
		u := u
		out = append(out, &u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *userRepo) Update(ctx context.Context, user *model.User) error {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	user.UpdatedAt = s.tick()
	s.users[user.ID] = *user
	return nil
}

func (r *userRepo) Delete(ctx context.Context, id uuid.UUID) error {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, id)
	return nil
}

// --- tenants ---

type tenantRepo Store

func (r *tenantRepo) Create(ctx context.Context, tenant *model.Tenant) error {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if tenant.ID == uuid.Nil {
		tenant.ID = uuid.New()
	}
	if tenant.CreatedAt.IsZero() {
		tenant.CreatedAt = s.tick()
	}
	s.tenants[tenant.ID] = *tenant
	return nil
}

func (r *tenantRepo) Get(ctx context.Context, id uuid.UUID) (*model.Tenant, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.tenants[id]; ok {
		return &t, nil
	}
	return nil, nil
}

func (r *tenantRepo) AddMembership(ctx context.Context, m *model.UserTenant) error {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.memberships[m.UserID] == nil {
		s.memberships[m.UserID] = make(map[uuid.UUID]model.Role)
	}
	s.memberships[m.UserID][m.TenantID] = m.Role
	return nil
}

func (r *tenantRepo) GetMembership(ctx context.Context, userID, tenantID uuid.UUID) (*model.UserTenant, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	role, ok := s.memberships[userID][tenantID]
	if !ok {
		return nil, nil
	}
	tenant, ok := s.tenants[tenantID]
	if !ok || tenant.DeletedAt != nil {
		return nil, nil
	}
	return &model.UserTenant{UserID: userID, TenantID: tenantID, Role: role}, nil
}

func (r *tenantRepo) ListMemberships(ctx context.Context, userID uuid.UUID) ([]*model.TenantMembership, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*model.TenantMembership{}
	for tenantID, role := range s.memberships[userID] {
		tenant, ok := s.tenants[tenantID]
		if !ok || tenant.DeletedAt != nil {
			continue
		}
		out = append(out, &model.TenantMembership{Tenant: tenant, Role: role})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Tenant.CreatedAt.Before(out[j].Tenant.CreatedAt)
	})
	return out, nil
}

// --- doctors ---

type doctorRepo Store

func (r *doctorRepo) Create(ctx context.Context, doctor *model.Doctor) error {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if doctor.ID == uuid.Nil {
		doctor.ID = uuid.New()
	}
	doctor.CreatedAt = s.tick()
	doctor.UpdatedAt = doctor.CreatedAt
	s.doctors[doctor.ID] = *doctor
	return nil
}

func (r *doctorRepo) Get(ctx context.Context, tenantID, id uuid.UUID) (*model.Doctor, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if d, ok := s.doctors[id]; ok && d.TenantID == tenantID {
		return &d, nil
	}
	return nil, nil
}

func (r *doctorRepo) List(ctx context.Context, tenantID uuid.UUID, f repository.ListFilter) ([]*model.Doctor, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*model.Doctor{}
	for _, d := range s.doctors {
		if d.TenantID != tenantID || d.Deleted() != f.IncludeDeleted {
			continue
		}
		d := d
		out = append(out, &d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *doctorRepo) Update(ctx context.Context, doctor *model.Doctor) error {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	doctor.UpdatedAt = s.tick()
	s.doctors[doctor.ID] = *doctor
	return nil
}

func (r *doctorRepo) SetTombstone(ctx context.Context, tenantID, id uuid.UUID, deletedAt *time.Time, deletedBy *uuid.UUID) (bool, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.doctors[id]
	if !ok || d.TenantID != tenantID || d.Deleted() == (deletedAt != nil) {
		return false, nil
	}
	d.DeletedAt = deletedAt
	d.DeletedBy = deletedBy
	s.doctors[id] = d
	return true, nil
}

// --- specialties ---

type specialtyRepo Store

func (r *specialtyRepo) Create(ctx context.Context, specialty *model.Specialty) error {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if specialty.ID == uuid.Nil {
		specialty.ID = uuid.New()
	}
	specialty.CreatedAt = s.tick()
	specialty.UpdatedAt = specialty.CreatedAt
	s.specialties[specialty.ID] = *specialty
	return nil
}

func (r *specialtyRepo) Get(ctx context.Context, tenantID, id uuid.UUID) (*model.Specialty, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if sp, ok := s.specialties[id]; ok && sp.TenantID == tenantID {
		return &sp, nil
	}
	return nil, nil
}

func (r *specialtyRepo) GetLiveByName(ctx context.Context, tenantID uuid.UUID, name string) (*model.Specialty, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sp := range s.specialties {
		if sp.TenantID == tenantID && sp.Name == name && !sp.Deleted() {
			sp := sp
			return &sp, nil
		}
	}
	return nil, nil
}

func (r *specialtyRepo) List(ctx context.Context, tenantID uuid.UUID, f repository.ListFilter) ([]*model.Specialty, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*model.Specialty{}
	for _, sp := range s.specialties {
		if sp.TenantID != tenantID || sp.Deleted() != f.IncludeDeleted {
			continue
		}
		sp := sp
		out = append(out, &sp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *specialtyRepo) Update(ctx context.Context, specialty *model.Specialty) error {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	specialty.UpdatedAt = s.tick()
	s.specialties[specialty.ID] = *specialty
	return nil
}

func (r *specialtyRepo) SetTombstone(ctx context.Context, tenantID, id uuid.UUID, deletedAt *time.Time, deletedBy *uuid.UUID) (bool, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	sp, ok := s.specialties[id]
	if !ok || sp.TenantID != tenantID || sp.Deleted() == (deletedAt != nil) {
		return false, nil
	}
	sp.DeletedAt = deletedAt
	sp.DeletedBy = deletedBy
	s.specialties[id] = sp
	return true, nil
}

// --- appointments ---

type appointmentRepo Store

func (r *appointmentRepo) Create(ctx context.Context, appointment *model.Appointment) error {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if appointment.ID == uuid.Nil {
		appointment.ID = uuid.New()
	}
	appointment.CreatedAt = s.tick()
	appointment.UpdatedAt = appointment.CreatedAt
	s.appointments[appointment.ID] = *appointment
	return nil
}

func (r *appointmentRepo) Get(ctx context.Context, tenantID, id uuid.UUID) (*model.Appointment, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.appointments[id]; ok && a.TenantID == tenantID {
		return &a, nil
	}
	return nil, nil
}

func inMonth(t time.Time, m *model.Month) bool {
	if m == nil {
		return true
	}
	return !t.Before(m.Start()) && !t.After(m.End())
}

func (r *appointmentRepo) List(ctx context.Context, tenantID uuid.UUID, f repository.ListFilter) ([]*model.Appointment, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*model.Appointment{}
	for _, a := range s.appointments {
		if a.TenantID != tenantID || a.Deleted() != f.IncludeDeleted || !inMonth(a.Datetime, f.Month) {
			continue
		}
		a := a
		out = append(out, &a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Datetime.After(out[j].Datetime) })
	return out, nil
}

func (r *appointmentRepo) ListForDoctor(ctx context.Context, tenantID, doctorID uuid.UUID, month model.Month) ([]*model.Appointment, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*model.Appointment{}
	for _, a := range s.appointments {
		if a.TenantID != tenantID || a.DoctorID != doctorID || a.Deleted() || !inMonth(a.Datetime, &month) {
			continue
		}
		a := a
		out = append(out, &a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Datetime.Before(out[j].Datetime) })
	return out, nil
}

func (r *appointmentRepo) ListForMonth(ctx context.Context, tenantID uuid.UUID, month model.Month) ([]*model.Appointment, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*model.Appointment{}
	for _, a := range s.appointments {
		if a.TenantID != tenantID || a.Deleted() || !inMonth(a.Datetime, &month) {
			continue
		}
		a := a
		out = append(out, &a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Datetime.Before(out[j].Datetime) })
	return out, nil
}

func (r *appointmentRepo) Update(ctx context.Context, appointment *model.Appointment) error {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	appointment.UpdatedAt = s.tick()
	s.appointments[appointment.ID] = *appointment
	return nil
}

func (r *appointmentRepo) SetTombstone(ctx context.Context, tenantID, id uuid.UUID, deletedAt *time.Time, deletedBy *uuid.UUID) (bool, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.appointments[id]
	if !ok || a.TenantID != tenantID || a.Deleted() == (deletedAt != nil) {
		return false, nil
	}
	a.DeletedAt = deletedAt
	a.DeletedBy = deletedBy
	s.appointments[id] = a
	return true, nil
}

// --- transactions ---

type transactionRepo Store

func (r *transactionRepo) Create(ctx context.Context, transaction *model.Transaction) error {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if transaction.ID == uuid.Nil {
		transaction.ID = uuid.New()
	}
	transaction.CreatedAt = s.tick()
	transaction.UpdatedAt = transaction.CreatedAt
	s.transactions[transaction.ID] = *transaction
	return nil
}

func (r *transactionRepo) Get(ctx context.Context, tenantID, id uuid.UUID) (*model.Transaction, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.transactions[id]; ok && t.TenantID == tenantID {
		return &t, nil
	}
	return nil, nil
}

func (r *transactionRepo) List(ctx context.Context, tenantID uuid.UUID, f repository.ListFilter) ([]*model.Transaction, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*model.Transaction{}
	for _, t := range s.transactions {
		if t.TenantID != tenantID || t.Deleted() != f.IncludeDeleted || !inMonth(t.Datetime, f.Month) {
			continue
		}
		t := t
		out = append(out, &t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *transactionRepo) ListForMonth(ctx context.Context, tenantID uuid.UUID, month model.Month) ([]*model.Transaction, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*model.Transaction{}
	for _, t := range s.transactions {
		if t.TenantID != tenantID || t.Deleted() || !inMonth(t.Datetime, &month) {
			continue
		}
		t := t
		out = append(out, &t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Datetime.Before(out[j].Datetime) })
	return out, nil
}

func (r *transactionRepo) Update(ctx context.Context, transaction *model.Transaction) error {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	transaction.UpdatedAt = s.tick()
	s.transactions[transaction.ID] = *transaction
	return nil
}

func (r *transactionRepo) SetTombstone(ctx context.Context, tenantID, id uuid.UUID, deletedAt *time.Time, deletedBy *uuid.UUID) (bool, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.transactions[id]
	if !ok || t.TenantID != tenantID || t.Deleted() == (deletedAt != nil) {
		return false, nil
	}
	t.DeletedAt = deletedAt
	t.DeletedBy = deletedBy
	s.transactions[id] = t
	return true, nil
}

// --- sessions ---

type sessionRepo Store

func (r *sessionRepo) Create(ctx context.Context, session *model.Session) error {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	session.CreatedAt = s.tick()
	s.sessions[session.ID] = *session
	return nil
}

func (r *sessionRepo) Get(ctx context.Context, id uuid.UUID) (*model.Session, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[id]; ok {
		return &sess, nil
	}
	return nil, nil
}

func (r *sessionRepo) UpdateTenant(ctx context.Context, id uuid.UUID, tenantID *uuid.UUID) error {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil
	}
	sess.TenantID = tenantID
	s.sessions[id] = sess
	return nil
}

func (r *sessionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

func (r *sessionRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, sess := range s.sessions {
		if sess.ExpiresAt.Before(now) {
			delete(s.sessions, id)
			n++
		}
	}
	return n, nil
}
