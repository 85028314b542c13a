package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/langchou/driveoncampus/internal/account"
)

// Login 登录表单校验，通过后跳转地图页
func (h *Handler) Login(c *gin.Context) {
	var form account.LoginForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if err := h.validator.ValidateLogin(form); err != nil {
		h.formError(c, err, nil)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"next": account.NextScreen}})
}

// Signup 注册表单校验
func (h *Handler) Signup(c *gin.Context) {
	var form account.SignupForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if err := h.validator.ValidateSignup(form); err != nil {
		h.formError(c, err, gin.H{"can_submit": account.CanSubmit(form)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"next": account.NextScreen}})
}

func (h *Handler) formError(c *gin.Context, err error, extra gin.H) {
	var fe *account.FieldError
	if !errors.As(err, &fe) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	body := gin.H{"error": fe.Message, "field": fe.Field}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(http.StatusUnprocessableEntity, body)
}
