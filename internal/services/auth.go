package services

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/shotlist-app/shotlist-backend/internal/errs"
	"github.com/shotlist-app/shotlist-backend/internal/logger"
	"github.com/shotlist-app/shotlist-backend/internal/normalization"
	"github.com/shotlist-app/shotlist-backend/internal/repos"
	"github.com/shotlist-app/shotlist-backend/internal/requestdata"
	"github.com/shotlist-app/shotlist-backend/internal/types"
)

type JWTClaims struct {
	jwt.RegisteredClaims
}

type AuthService interface {
	RegisterUser(ctx context.Context, user *types.User) error
	LoginUser(ctx context.Context, email, password string) (string, string, error)
	RefreshUser(ctx context.Context) (string, string, error)
	LogoutUser(ctx context.Context) error
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	GetAccessTTL() time.Duration
}

type authService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      repos.UserRepo
	userTokenRepo repos.UserTokenRepo
	limiter       *RateLimiter
	jwtSecretKey  string
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewAuthService(
	db *gorm.DB,
	baseLog *logger.Logger,
	userRepo repos.UserRepo,
	userTokenRepo repos.UserTokenRepo,
	limiter *RateLimiter,
	jwtSecretKey string,
	accessTTL time.Duration,
	refreshTTL time.Duration,
) AuthService {
	return &authService{
		db:            db,
		log:           baseLog.With("service", "AuthService"),
		userRepo:      userRepo,
		userTokenRepo: userTokenRepo,
		limiter:       limiter,
		jwtSecretKey:  jwtSecretKey,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

func (as *authService) RegisterUser(ctx context.Context, user *types.User) error {
	if user == nil {
		return errs.Newf(errs.CodeValidationFailed, "user required")
	}
	user.Email = normalization.ParseInputString(user.Email)
	user.FirstName = normalization.SanitizeText(user.FirstName)
	user.LastName = normalization.SanitizeText(user.LastName)
	user.BusinessName = normalization.SanitizeText(user.BusinessName)

	if as.limiter != nil && !as.limiter.Allow("register:"+user.Email) {
		return errs.Newf(errs.CodeAuthRateLimited, "register %s", user.Email)
	}
	if user.Email == "" || user.Password == "" || user.FirstName == "" {
		return errs.Newf(errs.CodeValidationFailed, "email, password and first name are required")
	}

	exists, err := as.userRepo.EmailExists(ctx, nil, user.Email)
	if err != nil {
		return errs.New(errs.CodeDatabaseRead, err)
	}
	if exists {
		return errs.Newf(errs.CodeAuthEmailInUse, "email %s", user.Email)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return errs.New(errs.CodeUnknown, err)
	}
	user.Password = string(hashed)
	if user.Plan == "" {
		user.Plan = types.PlanFree
	}

	return as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user.ID = uuid.New()
		if _, err := as.userRepo.Create(ctx, tx, []*types.User{user}); err != nil {
			return errs.New(errs.CodeDatabaseWrite, err)
		}
		return nil
	})
}

func (as *authService) LoginUser(ctx context.Context, email, password string) (string, string, error) {
	email = normalization.ParseInputString(email)
	if email == "" || password == "" {
		return "", "", errs.Newf(errs.CodeValidationFailed, "email and password are required")
	}
	if as.limiter != nil && !as.limiter.Allow("login:"+email) {
		return "", "", errs.Newf(errs.CodeAuthRateLimited, "login %s", email)
	}

	users, err := as.userRepo.GetByEmails(ctx, nil, []string{email})
	if err != nil {
		return "", "", errs.New(errs.CodeDatabaseRead, err)
	}
	if len(users) == 0 {
		return "", "", errs.Newf(errs.CodeAuthInvalidCredentials, "unknown email")
	}
	user := users[0]
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", "", errs.Newf(errs.CodeAuthInvalidCredentials, "password mismatch")
	}

	var accessToken, refreshToken string
	txErr := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := as.userTokenRepo.GetByUserIDs(ctx, tx, []uuid.UUID{user.ID})
		if err != nil {
			return errs.New(errs.CodeDatabaseRead, err)
		}
		stale := make([]*types.UserToken, 0, len(existing))
		for _, t := range existing {
			if t != nil && t.ExpiresAt.Before(time.Now()) {
				stale = append(stale, t)
			}
		}
		if err := as.userTokenRepo.DeleteByTokens(ctx, tx, stale); err != nil {
			return errs.New(errs.CodeDatabaseWrite, err)
		}

		tok, err := as.generateAccessToken(user)
		if err != nil {
			return errs.New(errs.CodeUnknown, err)
		}
		accessToken = tok
		refreshToken = uuid.New().String()
		userToken := types.UserToken{
			ID:           uuid.New(),
			UserID:       user.ID,
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			ExpiresAt:    time.Now().Add(as.refreshTTL),
		}
		if _, err := as.userTokenRepo.Create(ctx, tx, []*types.UserToken{&userToken}); err != nil {
			return errs.New(errs.CodeDatabaseWrite, err)
		}
		return nil
	})
	if txErr != nil {
		return "", "", txErr
	}
	if as.limiter != nil {
		as.limiter.Reset("login:" + email)
	}
	return accessToken, refreshToken, nil
}

func (as *authService) RefreshUser(ctx context.Context) (string, string, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.RefreshToken == "" {
		return "", "", errs.Newf(errs.CodeAuthTokenInvalid, "no refresh token in request context")
	}

	var accessToken, newRefreshToken string
	err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := as.userTokenRepo.GetByRefreshTokens(ctx, tx, []string{rd.RefreshToken})
		if err != nil {
			return errs.New(errs.CodeDatabaseRead, err)
		}
		if len(found) == 0 || found[0] == nil {
			return errs.Newf(errs.CodeAuthTokenInvalid, "refresh token not found")
		}
		existing := found[0]

		const expiryBuffer = 5 * time.Minute
		if existing.ExpiresAt.Add(expiryBuffer).Before(time.Now()) {
			if err := as.userTokenRepo.DeleteByTokens(ctx, tx, []*types.UserToken{existing}); err != nil {
				return errs.New(errs.CodeDatabaseWrite, err)
			}
			return errs.Newf(errs.CodeAuthTokenInvalid, "refresh token expired")
		}

		users, err := as.userRepo.GetByIDs(ctx, tx, []uuid.UUID{existing.UserID})
		if err != nil {
			return errs.New(errs.CodeDatabaseRead, err)
		}
		if len(users) == 0 {
			return errs.Newf(errs.CodeAuthTokenInvalid, "no user for refresh token")
		}
		user := users[0]

		tok, err := as.generateAccessToken(user)
		if err != nil {
			return errs.New(errs.CodeUnknown, err)
		}
		accessToken = tok
		newRefreshToken = uuid.New().String()
		userToken := types.UserToken{
			ID:           uuid.New(),
			UserID:       user.ID,
			AccessToken:  accessToken,
			RefreshToken: newRefreshToken,
			ExpiresAt:    time.Now().Add(as.refreshTTL),
		}
		if _, err := as.userTokenRepo.Create(ctx, tx, []*types.UserToken{&userToken}); err != nil {
			return errs.New(errs.CodeDatabaseWrite, err)
		}
		if err := as.userTokenRepo.DeleteByTokens(ctx, tx, []*types.UserToken{existing}); err != nil {
			return errs.New(errs.CodeDatabaseWrite, err)
		}
		return nil
	})
	if err != nil {
		return "", "", err
	}
	return accessToken, newRefreshToken, nil
}

func (as *authService) LogoutUser(ctx context.Context) error {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.TokenString == "" {
		return errs.Newf(errs.CodeAuthTokenInvalid, "no access token in request context")
	}
	return as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := as.userTokenRepo.GetByAccessTokens(ctx, tx, []string{rd.TokenString})
		if err != nil {
			return errs.New(errs.CodeDatabaseRead, err)
		}
		if err := as.userTokenRepo.DeleteByTokens(ctx, tx, found); err != nil {
			return errs.New(errs.CodeDatabaseWrite, err)
		}
		return nil
	})
}

func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	if tokenString == "" {
		return ctx, errs.Newf(errs.CodeAuthTokenInvalid, "empty token")
	}
	parsed, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(as.jwtSecretKey), nil
	})
	if err != nil {
		return ctx, errs.New(errs.CodeAuthTokenInvalid, err)
	}
	claims, ok := parsed.Claims.(*JWTClaims)
	if !ok || !parsed.Valid {
		return ctx, errs.Newf(errs.CodeAuthTokenInvalid, "invalid or expired token")
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ctx, errs.New(errs.CodeAuthTokenInvalid, err)
	}

	var refreshToken string
	found, err := as.userTokenRepo.GetByAccessTokens(ctx, nil, []string{tokenString})
	if err != nil {
		return ctx, errs.New(errs.CodeDatabaseRead, err)
	}
	if len(found) > 0 && found[0] != nil {
		refreshToken = found[0].RefreshToken
	}

	rd := &requestdata.RequestData{
		TokenString:  tokenString,
		RefreshToken: refreshToken,
		UserID:       userID,
	}
	return requestdata.WithRequestData(ctx, rd), nil
}

func (as *authService) generateAccessToken(user *types.User) (string, error) {
	claims := JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(as.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(as.jwtSecretKey))
}

func (as *authService) GetAccessTTL() time.Duration {
	return as.accessTTL
}
