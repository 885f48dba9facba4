package handlers

import (
	"net/http"
	"strings"

	"gabinete-digital/internal/middleware"
	"gabinete-digital/internal/models"
	"gabinete-digital/pkg/auth"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// Account é uma conta do painel definida na configuração
type Account struct {
	ID           string
	Email        string
	PasswordHash string
	Role         models.UserRole
}

type AuthHandler struct {
	accounts   []Account
	jwtManager *auth.JWTManager
	log        logrus.FieldLogger
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"senha" binding:"required"`
}

type AuthResponse struct {
	Token string          `json:"token"`
	Email string          `json:"email"`
	Role  models.UserRole `json:"role"`
}

func NewAuthHandler(accounts []Account, jwtManager *auth.JWTManager, log logrus.FieldLogger) *AuthHandler {
	var usable []Account
	for _, a := range accounts {
		if a.Email != "" && a.PasswordHash != "" && a.Role.IsValid() {
			usable = append(usable, a)
		}
	}
	return &AuthHandler{
		accounts:   usable,
		jwtManager: jwtManager,
		log:        log,
	}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Dados inválidos",
			"details": err.Error(),
		})
		return
	}

	account, ok := h.find(req.Email)
	if !ok || bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)) != nil {
		h.log.WithField("email", req.Email).Warn("Tentativa de login inválida")
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "E-mail ou senha incorretos",
		})
		return
	}

	token, err := h.jwtManager.GenerateToken(account.ID, account.Email, account.Role.String())
	if err != nil {
		h.log.WithError(err).Error("Erro ao gerar token")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Erro ao gerar token",
		})
		return
	}

	c.JSON(http.StatusOK, AuthResponse{
		Token: token,
		Email: account.Email,
		Role:  account.Role,
	})
}

// Me devolve a identidade do token atual
func (h *AuthHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"id":    c.GetString(middleware.ContextUserID),
		"email": c.GetString(middleware.ContextUserEmail),
		"role":  c.GetString(middleware.ContextRole),
	})
}

func (h *AuthHandler) find(email string) (Account, bool) {
	for _, a := range h.accounts {
		if strings.EqualFold(a.Email, strings.TrimSpace(email)) {
			return a, true
		}
	}
	return Account{}, false
}
