package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/videoshowcase/backend/internal/apierr"
	"github.com/videoshowcase/backend/internal/logger"
	"github.com/videoshowcase/backend/internal/repos"
	"github.com/videoshowcase/backend/internal/requestdata"
	"github.com/videoshowcase/backend/internal/types"
)

// SessionInput is the identity payload delivered by the OAuth callback.
type SessionInput struct {
	OpenID      string
	Name        string
	Email       string
	LoginMethod string
}

type AuthService interface {
	StartSession(ctx context.Context, input SessionInput) (string, string, *types.User, error)
	Refresh(ctx context.Context, refreshCredential string) (string, string, error)
	Logout(ctx context.Context, refreshCredential string) error
	ContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	GetAccessTTL() time.Duration
	GetRefreshTTL() time.Duration
}

type JWTClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// ResolveInitialRole decides the role a brand-new user record gets. The
// configured owner identity is bootstrapped straight to admin; everyone else
// starts as a regular user. Evaluated exactly once, at record creation.
func ResolveInitialRole(openID, ownerOpenID string) types.Role {
	if ownerOpenID != "" && openID == ownerOpenID {
		return types.RoleAdmin
	}
	return types.RoleUser
}

type authService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      repos.UserRepo
	userTokenRepo repos.UserTokenRepo
	jwtSecretKey  string
	ownerOpenID   string
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	userTokenRepo repos.UserTokenRepo,
	jwtSecretKey string,
	ownerOpenID string,
	accessTTL time.Duration,
	refreshTTL time.Duration,
) AuthService {
	serviceLog := log.With("service", "AuthService")
	return &authService{
		db:            db,
		log:           serviceLog,
		userRepo:      userRepo,
		userTokenRepo: userTokenRepo,
		jwtSecretKey:  jwtSecretKey,
		ownerOpenID:   ownerOpenID,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

// StartSession upserts the user keyed on OpenID, refreshes lastSignedIn, and
// issues an access token plus a rotating refresh credential. OpenID is
// immutable; profile fields are overwritten only when supplied.
func (as *authService) StartSession(ctx context.Context, input SessionInput) (string, string, *types.User, error) {
	input.OpenID = strings.TrimSpace(input.OpenID)
	if input.OpenID == "" {
		return "", "", nil, apierr.BadRequest("missing_open_id", fmt.Errorf("openId is required"))
	}

	var user *types.User
	var accessToken string
	var refreshCredential string
	err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := as.userRepo.GetByOpenID(ctx, tx, input.OpenID)
		if err != nil {
			return fmt.Errorf("failed to look up user by open id: %w", err)
		}
		now := time.Now()
		if existing == nil {
			created := &types.User{
				OpenID:       input.OpenID,
				Name:         input.Name,
				Email:        input.Email,
				LoginMethod:  input.LoginMethod,
				Role:         ResolveInitialRole(input.OpenID, as.ownerOpenID),
				LastSignedIn: now,
			}
			if _, err := as.userRepo.Create(ctx, tx, []*types.User{created}); err != nil {
				return fmt.Errorf("failed to create user: %w", err)
			}
			user = created
		} else {
			fields := map[string]interface{}{"last_signed_in": now}
			if input.Name != "" {
				fields["name"] = input.Name
			}
			if input.Email != "" {
				fields["email"] = input.Email
			}
			if input.LoginMethod != "" {
				fields["login_method"] = input.LoginMethod
			}
			if err := as.userRepo.UpdateFields(ctx, tx, existing.ID, fields); err != nil {
				return fmt.Errorf("failed to update user on sign-in: %w", err)
			}
			refreshed, err := as.userRepo.GetByIDs(ctx, tx, []int64{existing.ID})
			if err != nil || len(refreshed) == 0 {
				return fmt.Errorf("failed to reload user after sign-in: %w", err)
			}
			user = refreshed[0]
		}

		tok, err := as.generateAccessToken(user)
		if err != nil {
			return fmt.Errorf("failed to generate access token: %w", err)
		}
		accessToken = tok

		cred, err := as.issueRefreshCredential(ctx, tx, user.ID)
		if err != nil {
			return fmt.Errorf("failed to issue refresh credential: %w", err)
		}
		refreshCredential = cred
		return nil
	})
	if err != nil {
		return "", "", nil, err
	}
	as.log.Info("Session started", "user_id", user.ID, "open_id", user.OpenID)
	return accessToken, refreshCredential, user, nil
}

// Refresh rotates the credential: verify, delete the old row, mint a new
// access token and a new refresh row in the same transaction. A stale or
// unknown credential fails closed with 401.
func (as *authService) Refresh(ctx context.Context, refreshCredential string) (string, string, error) {
	tokenID, secret, ok := splitRefreshCredential(refreshCredential)
	if !ok {
		return "", "", apierr.Unauthorized("invalid_refresh_token", fmt.Errorf("malformed refresh credential"))
	}

	var accessToken string
	var newCredential string
	err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := as.userTokenRepo.GetByID(ctx, tx, tokenID)
		if err != nil {
			return fmt.Errorf("failed to fetch refresh token: %w", err)
		}
		if row == nil {
			return apierr.Unauthorized("invalid_refresh_token", fmt.Errorf("unknown refresh credential"))
		}
		if row.ExpiresAt.Before(time.Now()) {
			if err := as.userTokenRepo.DeleteByIDs(ctx, tx, []string{row.ID}); err != nil {
				return fmt.Errorf("failed to delete expired refresh token: %w", err)
			}
			return apierr.Unauthorized("refresh_token_expired", fmt.Errorf("refresh credential expired"))
		}
		if bcrypt.CompareHashAndPassword([]byte(row.SecretHash), []byte(secret)) != nil {
			return apierr.Unauthorized("invalid_refresh_token", fmt.Errorf("refresh credential mismatch"))
		}

		users, err := as.userRepo.GetByIDs(ctx, tx, []int64{row.UserID})
		if err != nil {
			return fmt.Errorf("failed to load user for refresh: %w", err)
		}
		if len(users) == 0 {
			return apierr.Unauthorized("invalid_refresh_token", fmt.Errorf("no user for refresh credential"))
		}
		user := users[0]

		tok, err := as.generateAccessToken(user)
		if err != nil {
			return fmt.Errorf("failed to generate access token: %w", err)
		}
		accessToken = tok

		cred, err := as.issueRefreshCredential(ctx, tx, user.ID)
		if err != nil {
			return fmt.Errorf("failed to issue refresh credential: %w", err)
		}
		newCredential = cred

		return as.userTokenRepo.DeleteByIDs(ctx, tx, []string{row.ID})
	})
	if err != nil {
		return "", "", err
	}
	return accessToken, newCredential, nil
}

func (as *authService) Logout(ctx context.Context, refreshCredential string) error {
	tokenID, _, ok := splitRefreshCredential(refreshCredential)
	if !ok {
		// Nothing to revoke; clearing the cookie is the caller's job.
		return nil
	}
	return as.userTokenRepo.DeleteByIDs(ctx, nil, []string{tokenID})
}

// ContextFromToken verifies the bearer token and attaches the caller's
// identity to the context.
func (as *authService) ContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	parsedToken, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(as.jwtSecretKey), nil
	})
	if err != nil {
		return ctx, apierr.Unauthorized("invalid_token", fmt.Errorf("failed to parse token: %w", err))
	}
	claims, ok := parsedToken.Claims.(*JWTClaims)
	if !ok || !parsedToken.Valid {
		return ctx, apierr.Unauthorized("invalid_token", fmt.Errorf("invalid or expired token"))
	}
	var userID int64
	if _, err := fmt.Sscan(claims.Subject, &userID); err != nil || userID <= 0 {
		return ctx, apierr.Unauthorized("invalid_token", fmt.Errorf("invalid subject in token"))
	}
	rd := &requestdata.RequestData{
		TokenString: tokenString,
		UserID:      userID,
		Role:        types.Role(claims.Role),
	}
	return requestdata.WithRequestData(ctx, rd), nil
}

func (as *authService) GetAccessTTL() time.Duration {
	return as.accessTTL
}

func (as *authService) GetRefreshTTL() time.Duration {
	return as.refreshTTL
}

func (as *authService) generateAccessToken(user *types.User) (string, error) {
	claims := JWTClaims{
		Role: string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", user.ID),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(as.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(as.jwtSecretKey))
}

// issueRefreshCredential creates a "<id>.<secret>" credential whose secret is
// stored only as a bcrypt hash.
func (as *authService) issueRefreshCredential(ctx context.Context, tx *gorm.DB, userID int64) (string, error) {
	tokenID := uuid.New().String()
	secret := uuid.New().String()
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	row := &types.UserToken{
		ID:         tokenID,
		UserID:     userID,
		SecretHash: string(hash),
		ExpiresAt:  time.Now().Add(as.refreshTTL),
	}
	if _, err := as.userTokenRepo.Create(ctx, tx, []*types.UserToken{row}); err != nil {
		return "", err
	}
	return tokenID + "." + secret, nil
}

func splitRefreshCredential(credential string) (tokenID, secret string, ok bool) {
	credential = strings.TrimSpace(credential)
	idx := strings.IndexByte(credential, '.')
	if idx <= 0 || idx == len(credential)-1 {
		return "", "", false
	}
	return credential[:idx], credential[idx+1:], true
}
