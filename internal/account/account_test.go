package account

import (
	"errors"
	"testing"
)

func TestValidEmail(t *testing.T) {
	v := NewValidator("")

	tests := []struct {
		email string
		want  bool
	}{
		{"wildcat@u.northwestern.edu", true},
		{"a.b-c@u.northwestern.edu", true},
		{"wildcat@northwestern.edu", false},
		{"wildcat@u.northwesternXedu", false},
		{"wild cat@u.northwestern.edu", false},
		{"@u.northwestern.edu", false},
		{"a@b@u.northwestern.edu", false},
		{"wildcat@u.northwestern.edu.evil.com", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := v.ValidEmail(tt.email); got != tt.want {
			t.Errorf("ValidEmail(%q) = %v, want %v", tt.email, got, tt.want)
		}
	}
}

func TestCustomDomain(t *testing.T) {
	v := NewValidator("@example.edu")
	if v.Domain() != "example.edu" {
		t.Errorf("Domain = %q", v.Domain())
	}
	if !v.ValidEmail("x@example.edu") || v.ValidEmail("x@u.northwestern.edu") {
		t.Error("custom domain not applied")
	}
}

func fieldOf(t *testing.T, err error) string {
	t.Helper()
	if err == nil {
		return ""
	}
	var fe *FieldError
	if !errors.As(err, &fe) {
		t.Fatalf("error %v is not a *FieldError", err)
	}
	return fe.Field
}

func TestValidateLogin(t *testing.T) {
	v := NewValidator("")

	tests := []struct {
		name string
		form LoginForm
		want string
	}{
		{"ok", LoginForm{Email: "a@u.northwestern.edu", Password: "pw"}, ""},
		{"bad email checked first", LoginForm{Email: "a@gmail.com"}, "email"},
		{"missing password", LoginForm{Email: "a@u.northwestern.edu"}, "password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fieldOf(t, v.ValidateLogin(tt.form)); got != tt.want {
				t.Errorf("field = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidateSignup(t *testing.T) {
	v := NewValidator("")
	valid := SignupForm{
		FirstName: "Willie",
		LastName:  "Wildcat",
		Email:     "willie@u.northwestern.edu",
		Password:  "purple",
		StudentID: "1234567",
		Agree:     true,
	}

	if err := v.ValidateSignup(valid); err != nil {
		t.Fatalf("valid form rejected: %v", err)
	}

	noLast := valid
	noLast.LastName = ""
	if got := fieldOf(t, v.ValidateSignup(noLast)); got != "last_name" {
		t.Errorf("field = %q, want last_name", got)
	}

	noAgree := valid
	noAgree.Agree = false
	err := v.ValidateSignup(noAgree)
	if got := fieldOf(t, err); got != "agree" {
		t.Errorf("field = %q, want agree", got)
	}

	badEmail := noAgree
	badEmail.Email = "willie@gmail.com"
	if got := fieldOf(t, v.ValidateSignup(badEmail)); got != "email" {
		t.Errorf("field = %q, want email", got)
	}
}

func TestCanSubmit(t *testing.T) {
	if CanSubmit(SignupForm{}) {
		t.Error("CanSubmit without agree should be false")
	}
	if !CanSubmit(SignupForm{Agree: true}) {
		t.Error("CanSubmit with agree should be true")
	}
}
