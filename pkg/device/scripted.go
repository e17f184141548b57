package device

import (
	"sync"
	"time"

	"igpilot/pkg/errs"
)

// Scripted is an in-memory ActionSource for tests and dry runs. It
// serves canned text for targets, tracks every action taken, and can be
// told to fail the next N calls to exercise recovery paths.
type Scripted struct {
	mu sync.Mutex

	texts    map[Target]string
	existing map[Target]bool

	failNext int

	Clicks      []Target
	Scrolls     []Target
	Navigations []string
	Backs       int
}

// NewScripted creates an empty scripted device.
func NewScripted() *Scripted {
	return &Scripted{
		texts:    make(map[Target]string),
		existing: make(map[Target]bool),
	}
}

// SetText registers the text returned for a target and marks it existing.
func (s *Scripted) SetText(target Target, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.texts[target] = text
	s.existing[target] = true
}

// SetExists marks a target as present or absent.
func (s *Scripted) SetExists(target Target, exists bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.existing[target] = exists
}

// FailNext makes the next n actions return an action failure.
func (s *Scripted) FailNext(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNext = n
}

func (s *Scripted) maybeFail(op string) error {
	if s.failNext > 0 {
		s.failNext--
		return errs.ActionFailed(op+" failed by script", nil)
	}
	return nil
}

func (s *Scripted) Click(target Target) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.maybeFail("click"); err != nil {
		return err
	}
	s.Clicks = append(s.Clicks, target)
	return nil
}

func (s *Scripted) Scroll(region Target, direction Direction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.maybeFail("scroll"); err != nil {
		return err
	}
	s.Scrolls = append(s.Scrolls, region)
	return nil
}

func (s *Scripted) NavigateTo(identity string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.maybeFail("navigate"); err != nil {
		return err
	}
	s.Navigations = append(s.Navigations, identity)
	return nil
}

func (s *Scripted) ReadText(target Target) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.maybeFail("read"); err != nil {
		return "", err
	}
	text, ok := s.texts[target]
	if !ok {
		return "", errs.ActionFailed("no text for target "+string(target), nil)
	}
	return text, nil
}

func (s *Scripted) Exists(target Target, timeout time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.existing[target]
}

func (s *Scripted) GoBack() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.maybeFail("back"); err != nil {
		return err
	}
	s.Backs++
	return nil
}
