package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"sync"
	"time"

	"rta-backend/entity"
	"rta-backend/pkg/logger"
	"rta-backend/repository"
	"rta-backend/utils"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService handles login/register and the session tokens they issue.
type AuthService struct {
	DB          *gorm.DB
	Users       *repository.UserRepository
	Restaurants *repository.RestaurantRepository

	jwtSecret string
	jwtTTL    time.Duration
	// verifyPasswords turns on bcrypt checks; the demo accepts any non-empty password.
	verifyPasswords bool

	mu      sync.Mutex
	revoked map[string]time.Time // token id -> expiry

	mylog logger.Logger
}

func NewAuthService(
	db *gorm.DB,
	users *repository.UserRepository,
	restaurants *repository.RestaurantRepository,
	secret string,
	ttl time.Duration,
	verifyPasswords bool,
	mylog logger.Logger,
) *AuthService {
	return &AuthService{
		DB:              db,
		Users:           users,
		Restaurants:     restaurants,
		jwtSecret:       secret,
		jwtTTL:          ttl,
		verifyPasswords: verifyPasswords,
		revoked:         map[string]time.Time{},
		mylog:           mylog,
	}
}

type AuthResult struct {
	User       *entity.User       `json:"user"`
	Restaurant *entity.Restaurant `json:"restaurant,omitempty"`
	Token      string             `json:"token"`
	ExpiresAt  time.Time          `json:"expiresAt"`
}

type RestaurantData struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Address     string      `json:"address"`
	Phone       string      `json:"phone"`
	Plan        entity.Plan `json:"plan"`
}

type RegisterInput struct {
	Name           string          `json:"name"`
	Email          string          `json:"email"`
	Password       string          `json:"password"`
	Type           entity.UserType `json:"type"`
	RestaurantData *RestaurantData `json:"restaurantData,omitempty"`
}

type SessionInfo struct {
	User              *entity.User       `json:"user"`
	Restaurant        *entity.Restaurant `json:"restaurant"`
	IsAuthenticated   bool               `json:"isAuthenticated"`
	HasBusinessAccess bool               `json:"hasBusinessAccess"`
}

// Login resolves the user by email.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = repository.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrValidation)
	}

	user, err := s.Users.FindByEmail(ctx, email)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, fmt.Errorf("%w: user not found", ErrUnauthorized)
		}
		return nil, err
	}

	if s.verifyPasswords {
		if user.PasswordHash == "" {
			return nil, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
			return nil, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
		}
	}

	var rest *entity.Restaurant
	if user.IsBusiness() && user.RestaurantID != nil {
		rest, err = s.Restaurants.FindByID(ctx, *user.RestaurantID)
		if err != nil && !repository.IsNotFound(err) {
			return nil, err
		}
	}

	logger.ForContext(ctx, s.mylog).Action("login").Info("user logged in", "user_id", user.ID, "type", user.Type)
	return s.issue(user, rest)
}

// Register creates a user and, for business accounts, the restaurant it owns.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	if err := validateRegister(&in); err != nil {
		return nil, err
	}

	count, err := s.Users.CountByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: email already registered", ErrValidation)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.New("hash password failed")
	}

	now := time.Now()
	plan := entity.PlanFree
	if in.RestaurantData != nil && in.RestaurantData.Plan != "" {
		plan = in.RestaurantData.Plan
	}
	user := &entity.User{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hashed),
		Type:         in.Type,
		Plan:         &plan,
		CreatedAt:    now,
	}

	var rest *entity.Restaurant
	if in.Type == entity.UserTypeBusiness {
		rd := in.RestaurantData
		rest = &entity.Restaurant{
			ID:          uuid.NewString(),
			Name:        rd.Name,
			Description: rd.Description,
			Address:     rd.Address,
			Phone:       rd.Phone,
			Email:       in.Email,
			OwnerID:     user.ID,
			Plan:        plan,
			Settings:    entity.SettingsForPlan(plan),
			CreatedAt:   now,
		}
		user.RestaurantID = &rest.ID
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if rest != nil {
			if err := s.Restaurants.WithTx(tx).Create(ctx, rest); err != nil {
				return err
			}
		}
		return s.Users.WithTx(tx).Create(ctx, user)
	})
	if err != nil {
		return nil, err
	}

	logger.ForContext(ctx, s.mylog).Action("register").Info("user registered", "user_id", user.ID, "type", user.Type, "plan", plan)
	return s.issue(user, rest)
}

func validateRegister(in *RegisterInput) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = repository.NormalizeEmail(in.Email)
	in.Type = entity.UserType(strings.TrimSpace(string(in.Type)))

	if in.Name == "" || in.Email == "" || in.Password == "" || in.Type == "" {
		return fmt.Errorf("%w: name, email, password and type are required", ErrValidation)
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return fmt.Errorf("%w: invalid email", ErrValidation)
	}
	switch in.Type {
	case entity.UserTypeUser:
	case entity.UserTypeBusiness:
		rd := in.RestaurantData
		if rd == nil || strings.TrimSpace(rd.Name) == "" {
			return fmt.Errorf("%w: restaurantData.name is required for business accounts", ErrValidation)
		}
		rd.Name = strings.TrimSpace(rd.Name)
	default:
		return fmt.Errorf("%w: type must be %q or %q", ErrValidation, entity.UserTypeUser, entity.UserTypeBusiness)
	}
	if rd := in.RestaurantData; rd != nil && rd.Plan != "" && !rd.Plan.Valid() {
		return fmt.Errorf("%w: plan must be %q or %q", ErrValidation, entity.PlanFree, entity.PlanPro)
	}
	return nil
}

func (s *AuthService) issue(user *entity.User, rest *entity.Restaurant) (*AuthResult, error) {
	token, sess, err := utils.GenerateToken(user, s.jwtSecret, s.jwtTTL)
	if err != nil {
		return nil, errors.New("cannot generate token")
	}
	return &AuthResult{User: user, Restaurant: rest, Token: token, ExpiresAt: sess.ExpiresAt}, nil
}

// Authenticate turns a bearer token into a session, rejecting revoked tokens.
func (s *AuthService) Authenticate(token string) (*entity.Session, error) {
	sess, err := utils.ParseToken(token, s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	s.mu.Lock()
	_, revoked := s.revoked[sess.TokenID]
	s.mu.Unlock()
	if revoked {
		return nil, fmt.Errorf("%w: token revoked", ErrUnauthorized)
	}
	return sess, nil
}

// Logout revokes the session's token for the rest of its lifetime. Anonymous logout is a no-op.
func (s *AuthService) Logout(ctx context.Context, sess *entity.Session) {
	if sess == nil || sess.TokenID == "" {
		return
	}
	now := time.Now()
	s.mu.Lock()
	for id, exp := range s.revoked {
		if now.After(exp) {
			delete(s.revoked, id)
		}
	}
	s.revoked[sess.TokenID] = sess.ExpiresAt
	s.mu.Unlock()

	logger.ForContext(ctx, s.mylog).Action("logout").Info("session revoked", "user_id", sess.UserID)
}

// Current describes the session attached to ctx.
func (s *AuthService) Current(ctx context.Context) (*SessionInfo, error) {
	sess := utils.SessionFrom(ctx)
	if sess == nil {
		return &SessionInfo{}, nil
	}

	user, err := s.Users.FindByID(ctx, sess.UserID)
	if err != nil {
		if repository.IsNotFound(err) {
			return &SessionInfo{}, nil
		}
		return nil, err
	}

	info := &SessionInfo{
		User:              user,
		IsAuthenticated:   true,
		HasBusinessAccess: user.IsBusiness(),
	}
	if user.RestaurantID != nil {
		rest, err := s.Restaurants.FindByID(ctx, *user.RestaurantID)
		if err != nil && !repository.IsNotFound(err) {
			return nil, err
		}
		info.Restaurant = rest
	}
	return info, nil
}
