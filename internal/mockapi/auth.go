package mockapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/uma-arai/capachica-client/internal/model"
	"golang.org/x/crypto/bcrypt"
)

const accountKey = "account"

// Account はバックエンドに登録された利用者です
type Account struct {
	ID             int
	Name           string
	Email          string
	Password       string
	Phone          *string
	Address        *string
	Roles          []string
	EntrepreneurID *int
	// Token を指定するとログイン時に常にこのトークンを返します
	Token     string
	CreatedAt time.Time

	passwordHash []byte
}

func (a *Account) user() model.User {
	return model.User{
		ID:        a.ID,
		Name:      a.Name,
		Email:     a.Email,
		Phone:     a.Phone,
		Address:   a.Address,
		CreatedAt: a.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func (a *Account) loginResponse(message, token string) model.LoginResponse {
	roles := a.Roles
	if roles == nil {
		roles = []string{}
	}
	return model.LoginResponse{
		Message:        message,
		Token:          token,
		User:           a.user(),
		Roles:          roles,
		EntrepreneurID: a.EntrepreneurID,
	}
}

// SeedUser は利用者を登録します。パスワードはbcryptでハッシュ化して保持します
func (s *Server) SeedUser(a Account) (Account, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(a.Password), bcrypt.MinCost)
	if err != nil {
		return Account{}, fmt.Errorf("failed to hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accounts[a.Email]; exists {
		return Account{}, fmt.Errorf("email %s already registered", a.Email)
	}
	a.ID = s.allocID()
	a.passwordHash = hash
	a.Password = ""
	if a.CreatedAt.IsZero() {
		a.CreatedAt = s.now()
	}
	s.accounts[a.Email] = &a
	return a, nil
}

// issueToken はトークンを発行して登録します。呼び出し側でロックを取得していること
func (s *Server) issueToken(a *Account) (string, error) {
	token := a.Token
	if token == "" && s.jwtSecret != nil {
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
			Subject:   a.Email,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(s.now()),
			ExpiresAt: jwt.NewNumericDate(s.now().Add(24 * time.Hour)),
		}).SignedString(s.jwtSecret)
		if err != nil {
			return "", fmt.Errorf("failed to sign token: %w", err)
		}
		token = signed
	}
	if token == "" {
		token = fmt.Sprintf("%d|%s", a.ID, strings.ReplaceAll(uuid.NewString(), "-", ""))
	}
	s.tokens[token] = a.Email
	return token, nil
}

func (s *Server) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthenticated."})
			return
		}

		if s.jwtSecret != nil && strings.Count(token, ".") == 2 {
			_, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
				return s.jwtSecret, nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
			if err != nil {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthenticated."})
				return
			}
		}

		s.mu.Lock()
		email, ok := s.tokens[token]
		var account Account
		if ok {
			account = *s.accounts[email]
		}
		s.mu.Unlock()

		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthenticated."})
			return
		}
		c.Set(accountKey, account)
		c.Set("token", token)
		c.Next()
	}
}

func currentAccount(c *gin.Context) Account {
	return c.MustGet(accountKey).(Account)
}

func (s *Server) login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := req.Validate(); err != nil {
		badRequest(c, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[req.Email]
	if !ok || bcrypt.CompareHashAndPassword(account.passwordHash, []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Credenciales incorrectas"})
		return
	}

	token, err := s.issueToken(account)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, account.loginResponse("Inicio de sesión exitoso", token))
}

func (s *Server) register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := req.Validate(); err != nil {
		badRequest(c, err)
		return
	}

	roles := []string{req.Role}
	s.mu.Lock()
	if s.overrideRoles {
		roles = s.registerRoles
	}
	s.mu.Unlock()

	seeded, err := s.SeedUser(Account{Name: req.Name, Email: req.Email, Password: req.Password, Roles: roles})
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "The email has already been taken."})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	account := s.accounts[seeded.Email]
	token, err := s.issueToken(account)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, account.loginResponse("Usuario registrado", token))
}

func (s *Server) me(c *gin.Context) {
	account := currentAccount(c)
	c.JSON(http.StatusOK, account.user())
}

func (s *Server) logout(c *gin.Context) {
	s.mu.Lock()
	delete(s.tokens, c.GetString("token"))
	s.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{"message": "Sesión cerrada"})
}

var errNoEntrepreneur = errors.New("the current user is not an entrepreneur")
