package service

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Zh-Andrew/foodgram-project-react/internal/apperr"
	"github.com/Zh-Andrew/foodgram-project-react/internal/middleware"
	"github.com/Zh-Andrew/foodgram-project-react/internal/models"
)

// AuthService issues and validates tokens and manages user accounts. The rest
// of the application only ever sees the user id it puts into the request
// context.
type AuthService struct {
	db        *gorm.DB
	jwtSecret string
}

func NewAuthService(db *gorm.DB, jwtSecret string) *AuthService {
	return &AuthService{
		db:        db,
		jwtSecret: jwtSecret,
	}
}

// Register creates a user account and returns it with a fresh token.
func (s *AuthService) Register(email, username, firstName, lastName, password string) (*models.User, string, error) {
	fields := map[string]string{}
	if email == "" {
		fields["email"] = "this field is required"
	}
	if username == "" {
		fields["username"] = "this field is required"
	} else if strings.EqualFold(username, "me") {
		fields["username"] = `"me" is not allowed as a username`
	}
	if firstName == "" {
		fields["first_name"] = "this field is required"
	}
	if lastName == "" {
		fields["last_name"] = "this field is required"
	}
	if len(password) < 8 {
		fields["password"] = "password must be at least 8 characters"
	}
	if len(fields) > 0 {
		return nil, "", apperr.ValidationFields("invalid registration data", fields)
	}

	var existing models.User
	if err := s.db.Where("email = ? OR username = ?", email, username).First(&existing).Error; err == nil {
		return nil, "", apperr.Validation("user with this email or username already exists")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	user := models.User{
		Email:        email,
		Username:     username,
		FirstName:    firstName,
		LastName:     lastName,
		PasswordHash: string(hashedPassword),
	}
	if err := s.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, "", apperr.Validation("user with this email or username already exists")
		}
		return nil, "", err
	}

	token, err := s.generateToken(&user)
	if err != nil {
		return nil, "", err
	}
	return &user, token, nil
}

// Login checks the credentials and returns a token.
func (s *AuthService) Login(email, password string) (string, error) {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		return "", apperr.Unauthorized("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", apperr.Unauthorized("invalid credentials")
	}

	return s.generateToken(&user)
}

// GetUser loads a user by id.
func (s *AuthService) GetUser(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, err
	}
	return &user, nil
}

func (s *AuthService) generateToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"exp":      time.Now().Add(24 * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// ValidateToken parses and verifies a token, returning its claims.
func (s *AuthService) ValidateToken(tokenString string) (*middleware.TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	rawID, ok := claims["user_id"].(float64)
	if !ok {
		return nil, errors.New("invalid token claims")
	}
	username, _ := claims["username"].(string)

	return &middleware.TokenClaims{
		UserID:   uint(rawID),
		Username: username,
	}, nil
}
