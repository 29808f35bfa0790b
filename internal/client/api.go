// Package client is the Go data layer for LearnHub front ends.
//
// It wraps the HTTP API with typed calls, keeps session state in an
// explicit AppState container, and handles the provisioning gap: a
// freshly signed-up user's record is created asynchronously by the
// identity webhook, so the first fetch of user data may legitimately
// answer "User Not Found" and is retried on a short schedule.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dalemusser/learnhub/internal/domain/models"
)

// ErrUserNotFound is returned by FetchUserData while the identity
// webhook has not provisioned the user record yet. It is the only error
// the retry loop treats as transient.
var ErrUserNotFound = errors.New("user record not provisioned yet")

// APIError is a domain failure reported through the {success:false}
// envelope.
type APIError struct {
	Message string
}

func (e *APIError) Error() string { return e.Message }

// TokenSource supplies the bearer token for authenticated calls.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a TokenSource returning a fixed token. Tests and CLI
// tools use it; browsers plug in the provider's session token instead.
type StaticToken string

func (s StaticToken) Token(ctx context.Context) (string, error) { return string(s), nil }

// Client calls the LearnHub HTTP API.
type Client struct {
	baseURL string
	tokens  TokenSource
	hc      *http.Client
}

// New creates a Client for the API at baseURL. tokens may be nil for
// public-only use.
func New(baseURL string, tokens TokenSource) *Client {
	return &Client{
		baseURL: baseURL,
		tokens:  tokens,
		hc:      &http.Client{Timeout: 30 * time.Second},
	}
}

// FetchCourses lists the published course catalog.
func (c *Client) FetchCourses(ctx context.Context) ([]models.Course, error) {
	var out struct {
		Courses []models.Course `json:"courses"`
	}
	if err := c.call(ctx, http.MethodGet, "/api/course/all", nil, false, &out); err != nil {
		return nil, err
	}
	return out.Courses, nil
}

// FetchCourse loads one course's public detail view.
func (c *Client) FetchCourse(ctx context.Context, id primitive.ObjectID) (*models.Course, error) {
	var out struct {
		CourseData *models.Course `json:"courseData"`
	}
	if err := c.call(ctx, http.MethodGet, "/api/course/"+id.Hex(), nil, false, &out); err != nil {
		return nil, err
	}
	return out.CourseData, nil
}

// FetchUserData loads the signed-in user's record. Returns
// ErrUserNotFound while the record does not exist yet.
func (c *Client) FetchUserData(ctx context.Context) (*models.User, error) {
	var out struct {
		User *models.User `json:"user"`
	}
	err := c.call(ctx, http.MethodGet, "/api/user/data", nil, true, &out)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message == "User Not Found" {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return out.User, nil
}

// Enroll enrolls the signed-in user in courseID. Re-enrolling is not an
// error; the returned message distinguishes it.
func (c *Client) Enroll(ctx context.Context, courseID primitive.ObjectID) (string, error) {
	var out struct {
		Message string `json:"message"`
	}
	body := map[string]string{"courseId": courseID.Hex()}
	if err := c.call(ctx, http.MethodPost, "/api/user/enroll", body, true, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// FetchEnrolledCourses lists the user's enrolled courses with full
// content.
func (c *Client) FetchEnrolledCourses(ctx context.Context) ([]models.Course, error) {
	var out struct {
		EnrolledCourses []models.Course `json:"enrolledCourses"`
	}
	if err := c.call(ctx, http.MethodGet, "/api/user/enrolled-courses", nil, true, &out); err != nil {
		return nil, err
	}
	return out.EnrolledCourses, nil
}

// MarkLectureComplete records a completed lecture.
func (c *Client) MarkLectureComplete(ctx context.Context, courseID primitive.ObjectID, lectureID string) error {
	body := map[string]string{"courseId": courseID.Hex(), "lectureId": lectureID}
	return c.call(ctx, http.MethodPost, "/api/user/update-course-progress", body, true, nil)
}

// FetchProgress loads the user's progress in a course; nil when the user
// has not completed anything yet.
func (c *Client) FetchProgress(ctx context.Context, courseID primitive.ObjectID) (*models.CourseProgress, error) {
	var out struct {
		ProgressData *models.CourseProgress `json:"progressData"`
	}
	body := map[string]string{"courseId": courseID.Hex()}
	if err := c.call(ctx, http.MethodPost, "/api/user/get-course-progress", body, true, &out); err != nil {
		return nil, err
	}
	return out.ProgressData, nil
}

// AddRating submits the user's 1-5 rating for a course.
func (c *Client) AddRating(ctx context.Context, courseID primitive.ObjectID, rating int) error {
	body := map[string]any{"courseId": courseID.Hex(), "rating": rating}
	return c.call(ctx, http.MethodPost, "/api/user/add-rating", body, true, nil)
}

// call performs a request and decodes the {success, ...} envelope into
// out. A success:false body surfaces as *APIError.
func (c *Client) call(ctx context.Context, method, path string, body any, authed bool, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("client: marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("client: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		if c.tokens == nil {
			return errors.New("client: no token source for authenticated call")
		}
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return fmt.Errorf("client: token: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("client: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var envelope struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("client: read response: %w", err)
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("client: decode response (status %d): %w", resp.StatusCode, err)
	}
	if !envelope.Success {
		msg := envelope.Message
		if msg == "" {
			msg = fmt.Sprintf("request failed with status %d", resp.StatusCode)
		}
		return &APIError{Message: msg}
	}
	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("client: decode payload: %w", err)
		}
	}
	return nil
}
