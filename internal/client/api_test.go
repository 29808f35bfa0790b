package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dalemusser/learnhub/internal/domain/models"
)

func TestFetchCourses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/course/all" {
			t.Errorf("path: got %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "" {
			t.Error("catalog call must not send a token")
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"courses": []map[string]any{
				{"_id": primitive.NewObjectID().Hex(), "courseTitle": "Go Basics"},
			},
		})
	}))
	t.Cleanup(srv.Close)

	c := New(srv.URL, nil)
	courses, err := c.FetchCourses(context.Background())
	if err != nil {
		t.Fatalf("FetchCourses: %v", err)
	}
	if len(courses) != 1 || courses[0].Title != "Go Basics" {
		t.Fatalf("courses: got %+v", courses)
	}
}

func TestFetchUserDataSentinel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "User Not Found"})
	}))
	t.Cleanup(srv.Close)

	c := New(srv.URL, StaticToken("tok"))
	_, err := c.FetchUserData(context.Background())
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("err: got %v, want ErrUserNotFound", err)
	}
}

func TestCallSurfacesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "Invalid Details"})
	}))
	t.Cleanup(srv.Close)

	c := New(srv.URL, StaticToken("tok"))
	err := c.AddRating(context.Background(), primitive.NewObjectID(), 9)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err: got %T %v, want *APIError", err, err)
	}
	if apiErr.Message != "Invalid Details" {
		t.Errorf("message: got %q", apiErr.Message)
	}
}

func TestEnrollSendsTokenAndBody(t *testing.T) {
	courseID := primitive.NewObjectID()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			t.Errorf("Authorization: got %q", r.Header.Get("Authorization"))
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["courseId"] != courseID.Hex() {
			t.Errorf("courseId: got %q", body["courseId"])
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "message": "Enrollment Successful"})
	}))
	t.Cleanup(srv.Close)

	c := New(srv.URL, StaticToken("tok"))
	msg, err := c.Enroll(context.Background(), courseID)
	if err != nil {
		t.Fatalf("Enroll: %v", err)
	}
	if msg != "Enrollment Successful" {
		t.Errorf("message: got %q", msg)
	}
}

func TestAuthedCallWithoutTokenSource(t *testing.T) {
	c := New("http://unused.invalid", nil)
	if _, err := c.FetchUserData(context.Background()); err == nil {
		t.Fatal("expected error without a token source")
	}
}

func TestAppStateUserAndReset(t *testing.T) {
	s := NewAppState()

	s.SetUser(&models.User{ID: "user_1", Name: "Edu", Role: models.RoleEducator})
	if !s.IsEducator() {
		t.Error("educator flag must derive from role")
	}

	s.SetUser(&models.User{ID: "user_2", Name: "Stu", Role: models.RoleStudent})
	if s.IsEducator() {
		t.Error("educator flag must drop for a student")
	}

	s.SetLoading(true)
	s.SetCourses([]models.Course{{Title: "X"}})
	s.Reset()
	if s.User() != nil || s.Loading() || len(s.Courses()) != 0 || s.IsEducator() {
		t.Error("Reset must clear all state")
	}
}

func TestPlayerVideoID(t *testing.T) {
	l := models.Lecture{VideoURL: "https://www.youtube.com/watch?v=dQw4w9WgXcQ"}
	if got := PlayerVideoID(l); got != "dQw4w9WgXcQ" {
		t.Errorf("PlayerVideoID: got %q", got)
	}
}
