package client

import (
	"sync"

	"github.com/dalemusser/learnhub/internal/app/system/videoid"
	"github.com/dalemusser/learnhub/internal/domain/models"
)

// AppState is the session-lived data container a front end renders from.
// All fields are owned by this struct and read through accessors; it is
// initialized per session and Reset on identity change so state never
// leaks across users.
type AppState struct {
	mu sync.RWMutex

	courses         []models.Course
	user            *models.User
	enrolledCourses []models.Course
	isEducator      bool
	loading         bool
}

// NewAppState returns an empty state container.
func NewAppState() *AppState {
	return &AppState{}
}

// SetCourses stores the public catalog.
func (s *AppState) SetCourses(courses []models.Course) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.courses = courses
}

// Courses returns the cached catalog.
func (s *AppState) Courses() []models.Course {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.courses
}

// SetUser stores the signed-in user's record and derives the educator
// flag from its role.
func (s *AppState) SetUser(u *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = u
	s.isEducator = u != nil && u.Role == models.RoleEducator
}

// User returns the cached user record, nil before provisioning finishes.
func (s *AppState) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// IsEducator reports whether the cached user holds the educator role.
func (s *AppState) IsEducator() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isEducator
}

// SetEnrolledCourses stores the user's enrolled courses.
func (s *AppState) SetEnrolledCourses(courses []models.Course) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enrolledCourses = courses
}

// EnrolledCourses returns the cached enrolled-course list.
func (s *AppState) EnrolledCourses() []models.Course {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.enrolledCourses
}

// SetLoading flips the global loading indicator.
func (s *AppState) SetLoading(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = loading
}

// Loading reports whether a user-data fetch cycle is in progress.
func (s *AppState) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Reset clears everything. Called when the signed-in identity changes.
func (s *AppState) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.courses = nil
	s.user = nil
	s.enrolledCourses = nil
	s.isEducator = false
	s.loading = false
}

// PlayerVideoID extracts the embeddable video ID for a lecture. The API
// stores full video URLs; players embed by ID only.
func PlayerVideoID(l models.Lecture) string {
	return videoid.Extract(l.VideoURL)
}
