package forms

import (
	"net/http"
	"strconv"
	"time"
	"unicode/utf8"

	"todolist/internal/model"
)

// DueDateLayout is the wire format of the due-date form field.
const DueDateLayout = "2006-01-02 15:04:05"

// RegistrationForm carries a submitted registration and its field errors.
type RegistrationForm struct {
	Username string
	Email    string
	Password string
	Errors   map[string]string
}

func ParseRegistration(r *http.Request) *RegistrationForm {
	return &RegistrationForm{
		Username: r.PostFormValue("username"),
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
	}
}

// Validate checks the form and fills Errors; it returns true when the
// submission is acceptable.
func (f *RegistrationForm) Validate() bool {
	v := newValidator()
	v.checkCond(f.Username != "", "username", "must be provided")
	v.checkCond(utf8.RuneCountInString(f.Username) >= 2, "username", "must be at least 2 characters long")
	v.checkCond(utf8.RuneCountInString(f.Username) <= 20, "username", "must be at most 20 characters long")
	v.checkEmail(f.Email)
	v.checkCond(f.Password != "", "password", "must be provided")
	f.Errors = v.errors
	return !v.hasErrors()
}

// LoginForm carries submitted credentials.
type LoginForm struct {
	Username string
	Password string
	Errors   map[string]string
}

func ParseLogin(r *http.Request) *LoginForm {
	return &LoginForm{
		Username: r.PostFormValue("username"),
		Password: r.PostFormValue("password"),
	}
}

func (f *LoginForm) Validate() bool {
	v := newValidator()
	v.checkCond(f.Username != "", "username", "must be provided")
	v.checkCond(f.Password != "", "password", "must be provided")
	f.Errors = v.errors
	return !v.hasErrors()
}

// TaskForm carries a submitted task. Status and due date fall back to
// their defaults when left blank.
type TaskForm struct {
	Title       string
	Description string
	Category    string
	DueDateRaw  string
	Status      string
	Attachment  string
	UserIDRaw   string

	DueDate time.Time
	UserID  int
	Errors  map[string]string
}

func ParseTask(r *http.Request) *TaskForm {
	return &TaskForm{
		Title:       r.PostFormValue("title"),
		Description: r.PostFormValue("description"),
		Category:    r.PostFormValue("category"),
		DueDateRaw:  r.PostFormValue("due_date"),
		Status:      r.PostFormValue("status"),
		Attachment:  r.PostFormValue("attachment"),
		UserIDRaw:   r.PostFormValue("user_id"),
	}
}

// FromTask pre-populates the form from an existing task for the edit view.
func FromTask(t *model.Task) *TaskForm {
	return &TaskForm{
		Title:       t.Title,
		Description: t.Description,
		Category:    t.Category,
		DueDateRaw:  t.DueDate.Format(DueDateLayout),
		Status:      t.Status,
		Attachment:  t.Attachment,
		UserIDRaw:   strconv.Itoa(t.UserID),
		DueDate:     t.DueDate,
		UserID:      t.UserID,
	}
}

func (f *TaskForm) Validate() bool {
	v := newValidator()
	v.checkCond(f.Title != "", "title", "must be provided")
	v.checkCond(utf8.RuneCountInString(f.Title) <= 100, "title", "must be at most 100 characters long")
	v.checkCond(f.Description != "", "description", "must be provided")
	v.checkCond(f.Category != "", "category", "must be provided")
	v.checkCond(utf8.RuneCountInString(f.Category) <= 30, "category", "must be at most 30 characters long")
	v.checkCond(utf8.RuneCountInString(f.Status) <= 10, "status", "must be at most 10 characters long")

	if f.Status == "" {
		f.Status = model.StatusNew
	}

	if f.DueDateRaw == "" {
		f.DueDate = model.DefaultDueDate()
	} else {
		due, err := time.Parse(DueDateLayout, f.DueDateRaw)
		v.checkCond(err == nil, "due_date", "must match format YYYY-MM-DD HH:MM:SS")
		f.DueDate = due
	}

	userID, err := strconv.Atoi(f.UserIDRaw)
	v.checkCond(f.UserIDRaw != "", "user_id", "must be provided")
	v.checkCond(f.UserIDRaw == "" || err == nil, "user_id", "must be a numeric user id")
	f.UserID = userID

	f.Errors = v.errors
	return !v.hasErrors()
}

// Task materializes the validated form into a task entity.
func (f *TaskForm) Task() *model.Task {
	return &model.Task{
		Title:       f.Title,
		Description: f.Description,
		Category:    f.Category,
		DueDate:     f.DueDate,
		Status:      f.Status,
		Attachment:  f.Attachment,
		UserID:      f.UserID,
	}
}
