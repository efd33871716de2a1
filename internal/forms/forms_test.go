package forms

import (
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"todolist/internal/model"
)

func postRequest(t *testing.T, values url.Values) *http.Request {
	t.Helper()
	req, err := http.NewRequest("POST", "/", strings.NewReader(values.Encode()))
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestRegistrationFormValidate(t *testing.T) {
	tests := []struct {
		name     string
		username string
		email    string
		password string
		valid    bool
		errField string
	}{
		{"valid", "alice", "alice@example.com", "pw123", true, ""},
		{"username missing", "", "alice@example.com", "pw123", false, "username"},
		{"username too short", "a", "alice@example.com", "pw123", false, "username"},
		{"username too long", strings.Repeat("a", 21), "alice@example.com", "pw123", false, "username"},
		{"username at max", strings.Repeat("a", 20), "alice@example.com", "pw123", true, ""},
		{"multibyte username at max", strings.Repeat("я", 20), "alice@example.com", "pw123", true, ""},
		{"multibyte username too long", strings.Repeat("я", 21), "alice@example.com", "pw123", false, "username"},
		{"email missing", "alice", "", "pw123", false, "email"},
		{"email malformed", "alice", "not-an-email", "pw123", false, "email"},
		{"password missing", "alice", "alice@example.com", "", false, "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := &RegistrationForm{
				Username: tt.username,
				Email:    tt.email,
				Password: tt.password,
			}
			got := form.Validate()
			if got != tt.valid {
				t.Errorf("Validate() = %v, want %v (errors: %v)", got, tt.valid, form.Errors)
			}
			if tt.errField != "" {
				if _, ok := form.Errors[tt.errField]; !ok {
					t.Errorf("expected an error on field %q, got %v", tt.errField, form.Errors)
				}
			}
		})
	}
}

func TestTaskFormDefaults(t *testing.T) {
	form := &TaskForm{
		Title:       "T1",
		Description: "something",
		Category:    "work",
		UserIDRaw:   "1",
	}

	if !form.Validate() {
		t.Fatalf("expected valid form, got errors: %v", form.Errors)
	}

	if form.Status != model.StatusNew {
		t.Errorf("expected default status %q, got %q", model.StatusNew, form.Status)
	}

	wantDue := time.Now().UTC().Add(24 * time.Hour)
	diff := form.DueDate.Sub(wantDue)
	if diff < -5*time.Second || diff > 5*time.Second {
		t.Errorf("expected due date ~24h out, got %v (off by %v)", form.DueDate, diff)
	}
}

func TestTaskFormExplicitDueDate(t *testing.T) {
	form := ParseTask(postRequest(t, url.Values{
		"title":       {"T1"},
		"description": {"something"},
		"category":    {"work"},
		"due_date":    {"2026-09-01 10:30:00"},
		"status":      {"doing"},
		"user_id":     {"2"},
	}))

	if !form.Validate() {
		t.Fatalf("expected valid form, got errors: %v", form.Errors)
	}
	want := time.Date(2026, 9, 1, 10, 30, 0, 0, time.UTC)
	if !form.DueDate.Equal(want) {
		t.Errorf("due date = %v, want %v", form.DueDate, want)
	}
	if form.Status != "doing" {
		t.Errorf("status = %q, want doing", form.Status)
	}
	if form.UserID != 2 {
		t.Errorf("user id = %d, want 2", form.UserID)
	}
}

func TestTaskFormRejects(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*TaskForm)
		errField string
	}{
		{"missing title", func(f *TaskForm) { f.Title = "" }, "title"},
		{"title too long", func(f *TaskForm) { f.Title = strings.Repeat("x", 101) }, "title"},
		{"multibyte title too long", func(f *TaskForm) { f.Title = strings.Repeat("ü", 101) }, "title"},
		{"missing description", func(f *TaskForm) { f.Description = "" }, "description"},
		{"missing category", func(f *TaskForm) { f.Category = "" }, "category"},
		{"category too long", func(f *TaskForm) { f.Category = strings.Repeat("x", 31) }, "category"},
		{"bad due date", func(f *TaskForm) { f.DueDateRaw = "tomorrow" }, "due_date"},
		{"missing assignee", func(f *TaskForm) { f.UserIDRaw = "" }, "user_id"},
		{"non-numeric assignee", func(f *TaskForm) { f.UserIDRaw = "bob" }, "user_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := &TaskForm{
				Title:       "T1",
				Description: "something",
				Category:    "work",
				UserIDRaw:   "1",
			}
			tt.mutate(form)
			if form.Validate() {
				t.Fatal("expected invalid form")
			}
			if _, ok := form.Errors[tt.errField]; !ok {
				t.Errorf("expected an error on field %q, got %v", tt.errField, form.Errors)
			}
		})
	}
}

func TestTaskFormMultibyteTitleAtMax(t *testing.T) {
	form := &TaskForm{
		Title:       strings.Repeat("ü", 100),
		Description: "something",
		Category:    "work",
		UserIDRaw:   "1",
	}
	if !form.Validate() {
		t.Fatalf("expected 100-character title to validate, got errors: %v", form.Errors)
	}
}

func TestFromTaskRoundTrip(t *testing.T) {
	due := time.Date(2026, 9, 1, 10, 30, 0, 0, time.UTC)
	task := &model.Task{
		ID:          7,
		Title:       "T1",
		Description: "something",
		Category:    "work",
		DueDate:     due,
		Status:      "doing",
		Attachment:  "notes.pdf",
		UserID:      3,
	}

	form := FromTask(task)
	if !form.Validate() {
		t.Fatalf("expected pre-populated form to validate, got %v", form.Errors)
	}

	got := form.Task()
	got.ID = task.ID
	if got.Title != task.Title || got.Description != task.Description ||
		got.Category != task.Category || !got.DueDate.Equal(task.DueDate) ||
		got.Status != task.Status || got.Attachment != task.Attachment ||
		got.UserID != task.UserID {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, task)
	}
}
