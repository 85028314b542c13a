// Package account 登录/注册表单校验
// 只做校验，不做认证与存储
package account

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultEmailDomain 默认校园邮箱域名
const DefaultEmailDomain = "u.northwestern.edu"

// NextScreen 校验通过后跳转的页面
const NextScreen = "map"

// FieldError 字段校验错误
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// LoginForm 登录表单
type LoginForm struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupForm 注册表单
type SignupForm struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	StudentID string `json:"student_id"`
	Agree     bool   `json:"agree"`
}

// Validator 绑定校园域名的校验器
type Validator struct {
	domain  string
	emailRe *regexp.Regexp
}

// NewValidator 创建校验器，domain 为空时使用默认域名
func NewValidator(domain string) *Validator {
	if domain == "" {
		domain = DefaultEmailDomain
	}
	domain = strings.TrimPrefix(domain, "@")
	return &Validator{
		domain:  domain,
		emailRe: regexp.MustCompile(`^[^\s@]+@` + regexp.QuoteMeta(domain) + `$`),
	}
}

// Domain 当前校园域名
func (v *Validator) Domain() string {
	return v.domain
}

// ValidEmail 是否为校园邮箱
func (v *Validator) ValidEmail(email string) bool {
	return v.emailRe.MatchString(email)
}

func (v *Validator) emailError() *FieldError {
	return &FieldError{Field: "email", Message: fmt.Sprintf("Please use a valid @%s email.", v.domain)}
}

// ValidateLogin 按页面顺序校验：邮箱 -> 密码
func (v *Validator) ValidateLogin(f LoginForm) error {
	if !v.ValidEmail(f.Email) {
		return v.emailError()
	}
	if f.Password == "" {
		return &FieldError{Field: "password", Message: "Please enter your password."}
	}
	return nil
}

// ValidateSignup 按页面顺序校验：邮箱 -> 必填项 -> 服务条款
func (v *Validator) ValidateSignup(f SignupForm) error {
	if !v.ValidEmail(f.Email) {
		return v.emailError()
	}
	if missing := f.missingField(); missing != "" {
		return &FieldError{Field: missing, Message: "Please fill out all fields."}
	}
	if !f.Agree {
		return &FieldError{Field: "agree", Message: "You must accept the Terms of Service to continue."}
	}
	return nil
}

func (f SignupForm) missingField() string {
	switch {
	case f.FirstName == "":
		return "first_name"
	case f.LastName == "":
		return "last_name"
	case f.Password == "":
		return "password"
	case f.StudentID == "":
		return "student_id"
	}
	return ""
}

// CanSubmit 注册按钮是否可用：仅取决于是否勾选服务条款
func CanSubmit(f SignupForm) bool {
	return f.Agree
}
