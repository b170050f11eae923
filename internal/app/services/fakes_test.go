package services

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/silani/discipline/internal/app/models"
	"github.com/silani/discipline/internal/pkg/apperrors"
	"github.com/silani/discipline/internal/pkg/fonnte"
)

// memStore backs students, rules, classes and violations in memory
type memStore struct {
	mu         sync.Mutex
	nextID     int64
	students   map[int64]*models.Student
	rules      map[int64]*models.Rule
	classes    map[int64]*models.Class
	violations map[int64]*models.Violation

	failUpdatePoints error
	pointWrites      int
}

func newMemStore() *memStore {
	return &memStore{
		students:   map[int64]*models.Student{},
		rules:      map[int64]*models.Rule{},
		classes:    map[int64]*models.Class{},
		violations: map[int64]*models.Violation{},
	}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memStore) addStudent(name, phone string) *models.Student {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := &models.Student{
		ID:            m.id(),
		NISN:          "00" + name,
		Name:          name,
		GuardianName:  "Wali " + name,
		GuardianPhone: phone,
		Status:        models.StatusActive,
	}
	m.students[s.ID] = s
	return s
}

func (m *memStore) addRule(description string, category models.RuleCategory, points int) *models.Rule {
	m.mu.Lock()
	defer m.mu.Unlock()
	r := &models.Rule{ID: m.id(), Description: description, Category: category, Points: points}
	m.rules[r.ID] = r
	return r
}

func (m *memStore) student(id int64) models.Student {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.students[id]
}

type studentRepo struct{ *memStore }

func (r studentRepo) GetByID(_ context.Context, id int64) (*models.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.students[id]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	cp := *s
	return &cp, nil
}

func (r studentRepo) UpdatePoints(_ context.Context, id int64, total int, status models.StudentStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pointWrites++
	if r.failUpdatePoints != nil {
		return r.failUpdatePoints
	}
	s, ok := r.students[id]
	if !ok {
		return apperrors.ErrStudentNotFound
	}
	s.TotalPoints = total
	s.Status = status
	return nil
}

func (r studentRepo) Create(_ context.Context, s *models.Student) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.students {
		if existing.NISN == s.NISN {
			return 0, apperrors.ErrNISNAlreadyExists
		}
	}
	cp := *s
	cp.ID = r.id()
	r.students[cp.ID] = &cp
	return cp.ID, nil
}

func (r studentRepo) List(_ context.Context, classID *int64) ([]*models.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Student
	for _, s := range r.students {
		if classID == nil || sameID(classID, s.ClassID) {
			cp := *s
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r studentRepo) Update(_ context.Context, s *models.Student) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.students[s.ID]; !ok {
		return apperrors.ErrStudentNotFound
	}
	cp := *s
	r.students[s.ID] = &cp
	return nil
}

func (r studentRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.students[id]; !ok {
		return apperrors.ErrStudentNotFound
	}
	for _, v := range r.violations {
		if sameID(v.StudentID, &id) {
			v.StudentID = nil
		}
	}
	delete(r.students, id)
	return nil
}

type ruleRepo struct{ *memStore }

func (r ruleRepo) GetByID(_ context.Context, id int64) (*models.Rule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rule, ok := r.rules[id]
	if !ok {
		return nil, apperrors.ErrRuleNotFound
	}
	cp := *rule
	return &cp, nil
}

func (r ruleRepo) Create(_ context.Context, rule *models.Rule) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *rule
	cp.ID = r.id()
	r.rules[cp.ID] = &cp
	return cp.ID, nil
}

func (r ruleRepo) List(_ context.Context) ([]*models.Rule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Rule
	for _, rule := range r.rules {
		cp := *rule
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r ruleRepo) Update(_ context.Context, rule *models.Rule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rules[rule.ID]; !ok {
		return apperrors.ErrRuleNotFound
	}
	cp := *rule
	r.rules[rule.ID] = &cp
	return nil
}

func (r ruleRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rules[id]; !ok {
		return apperrors.ErrRuleNotFound
	}
	for _, v := range r.violations {
		if sameID(v.RuleID, &id) {
			return apperrors.ErrRuleInUse
		}
	}
	delete(r.rules, id)
	return nil
}

type classRepo struct{ *memStore }

func (r classRepo) GetByID(_ context.Context, id int64) (*models.Class, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.classes[id]
	if !ok {
		return nil, apperrors.ErrClassNotFound
	}
	cp := *c
	return &cp, nil
}

func (r classRepo) Create(_ context.Context, c *models.Class) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *c
	cp.ID = r.id()
	r.classes[cp.ID] = &cp
	return cp.ID, nil
}

func (r classRepo) List(_ context.Context) ([]*models.Class, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Class
	for _, c := range r.classes {
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

func (r classRepo) Update(_ context.Context, c *models.Class) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.classes[c.ID]; !ok {
		return apperrors.ErrClassNotFound
	}
	cp := *c
	r.classes[c.ID] = &cp
	return nil
}

func (r classRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.classes[id]; !ok {
		return apperrors.ErrClassNotFound
	}
	for _, s := range r.students {
		if sameID(s.ClassID, &id) {
			s.ClassID = nil
			s.ClassName = nil
		}
	}
	delete(r.classes, id)
	return nil
}

type violationRepo struct{ *memStore }

func (r violationRepo) ListByStudent(_ context.Context, studentID int64) ([]*models.Violation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Violation
	for _, v := range r.violations {
		if sameID(v.StudentID, &studentID) {
			cp := *v
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r violationRepo) Create(_ context.Context, v *models.Violation) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *v
	cp.ID = r.id()
	r.violations[cp.ID] = &cp
	return cp.ID, nil
}

func (r violationRepo) GetByID(_ context.Context, id int64) (*models.Violation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.violations[id]
	if !ok {
		return nil, apperrors.ErrViolationNotFound
	}
	cp := *v
	return &cp, nil
}

func (r violationRepo) Update(_ context.Context, v *models.Violation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.violations[v.ID]; !ok {
		return apperrors.ErrViolationNotFound
	}
	cp := *v
	r.violations[v.ID] = &cp
	return nil
}

func (r violationRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.violations[id]; !ok {
		return apperrors.ErrViolationNotFound
	}
	delete(r.violations, id)
	return nil
}

func (r violationRepo) List(_ context.Context, filter models.ViolationFilter) ([]*models.ViolationDetail, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.ViolationDetail
	for _, v := range r.violations {
		if filter.StudentID != nil && !sameID(filter.StudentID, v.StudentID) {
			continue
		}
		if filter.Status != nil && *filter.Status != v.Status {
			continue
		}
		if filter.Year != nil && v.OccurredAt.Year() != *filter.Year {
			continue
		}
		if filter.Month != nil && int(v.OccurredAt.Month()) != *filter.Month {
			continue
		}
		d := &models.ViolationDetail{Violation: *v}
		if v.StudentID != nil {
			if s, ok := r.students[*v.StudentID]; ok {
				d.StudentName = &s.Name
				d.StudentNISN = &s.NISN
			}
		}
		if filter.Term != "" {
			if d.StudentName == nil || !(strings.Contains(*d.StudentName, filter.Term) || strings.Contains(*d.StudentNISN, filter.Term)) {
				continue
			}
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r violationRepo) Summary(_ context.Context, year int) (*models.ViolationSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	summary := &models.ViolationSummary{ByStatus: map[models.ViolationStatus]int64{}}
	for _, v := range r.violations {
		summary.Total++
		summary.ByStatus[v.Status]++
	}
	return summary, nil
}

type auditEntry struct {
	ActorID     *int64
	Activity    string
	Description string
}

// recordingAudit captures audit entries
type recordingAudit struct {
	mu      sync.Mutex
	entries []auditEntry
}

func (a *recordingAudit) Record(_ context.Context, actorID *int64, activity, description string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, auditEntry{ActorID: actorID, Activity: activity, Description: description})
}

func (a *recordingAudit) byActivity(activity string) []auditEntry {
	a.mu.Lock()
	defer a.mu.Unlock()
	var out []auditEntry
	for _, e := range a.entries {
		if e.Activity == activity {
			out = append(out, e)
		}
	}
	return out
}

type sentMessage struct {
	Target  string
	Message string
}

// fakeSender records messages and returns a canned result
type fakeSender struct {
	mu     sync.Mutex
	sent   []sentMessage
	result fonnte.Result
}

func newFakeSender() *fakeSender {
	return &fakeSender{result: fonnte.Succeeded(nil)}
}

func (f *fakeSender) SendMessage(_ context.Context, target, message string) fonnte.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMessage{Target: target, Message: message})
	return f.result
}

func (f *fakeSender) calls() []sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentMessage(nil), f.sent...)
}
