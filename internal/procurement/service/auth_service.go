package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Jessie533tw/procurement-management-system/internal/config"
	"github.com/Jessie533tw/procurement-management-system/internal/procurement/entity"
	"github.com/Jessie533tw/procurement-management-system/internal/procurement/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

const refreshTokenKeyPrefix = "token:refresh:"

// AuthService 认证服务
type AuthService struct {
	userRepo *repository.UserRepository
	rdb      *redis.Client
	cfg      config.JWTConfig
}

func NewAuthService(userRepo *repository.UserRepository, rdb *redis.Client, cfg config.JWTConfig) *AuthService {
	return &AuthService{userRepo: userRepo, rdb: rdb, cfg: cfg}
}

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// TokenPair 令牌对
type TokenPair struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int64        `json:"expires_in"`
	User         *entity.User `json:"user"`
}

// Login 用户名密码登录
func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*TokenPair, error) {
	user, err := s.userRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, ValidationError("用户名或密码错误")
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ValidationError("用户已停用")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ValidationError("用户名或密码错误")
	}

	return s.issueTokens(ctx, user)
}

// Refresh 用刷新令牌换取新令牌对，旧令牌作废
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.parseToken(refreshToken)
	if err != nil {
		return nil, ValidationError("刷新令牌无效")
	}

	jti, _ := claims["jti"].(string)
	userID, _ := claims["uid"].(string)
	if jti == "" || userID == "" {
		return nil, ValidationError("刷新令牌无效")
	}

	// 只认Redis中仍然存在的刷新令牌
	stored, err := s.rdb.Get(ctx, refreshTokenKeyPrefix+jti).Result()
	if err == redis.Nil || stored != userID {
		return nil, ValidationError("刷新令牌已失效")
	}
	if err != nil && err != redis.Nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, ValidationError("用户不存在")
		}
		return nil, err
	}

	if err := s.rdb.Del(ctx, refreshTokenKeyPrefix+jti).Err(); err != nil {
		return nil, err
	}
	return s.issueTokens(ctx, user)
}

// Logout 注销，作废刷新令牌
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.parseToken(refreshToken)
	if err != nil {
		return nil
	}
	if jti, _ := claims["jti"].(string); jti != "" {
		return s.rdb.Del(ctx, refreshTokenKeyPrefix+jti).Err()
	}
	return nil
}

// Me 当前用户信息
func (s *AuthService) Me(ctx context.Context, userID string) (*entity.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, NotFoundError("用户不存在: %s", userID)
		}
		return nil, err
	}
	return user, nil
}

// EnsureAdminUser 用户表为空时初始化管理员账号
func (s *AuthService) EnsureAdminUser(ctx context.Context, username, password string) error {
	count, err := s.userRepo.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	roles := entity.JSONBArray{"admin"}
	return s.userRepo.Create(ctx, &entity.User{
		ID:           uuid.New().String(),
		Username:     username,
		Name:         "管理员",
		PasswordHash: string(hash),
		Roles:        &roles,
		IsActive:     true,
	})
}

func (s *AuthService) issueTokens(ctx context.Context, user *entity.User) (*TokenPair, error) {
	now := time.Now()
	accessExpire := now.Add(s.cfg.AccessTokenExpire)

	accessClaims := jwt.MapClaims{
		"uid":   user.ID,
		"name":  user.Name,
		"email": user.Email,
		"iss":   s.cfg.Issuer,
		"iat":   now.Unix(),
		"exp":   accessExpire.Unix(),
	}
	if user.Roles != nil {
		accessClaims["roles"] = *user.Roles
	}
	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims).SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return nil, err
	}

	jti := uuid.New().String()
	refreshClaims := jwt.MapClaims{
		"uid": user.ID,
		"jti": jti,
		"iss": s.cfg.Issuer,
		"iat": now.Unix(),
		"exp": now.Add(s.cfg.RefreshTokenExpire).Unix(),
	}
	refreshToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims).SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return nil, err
	}

	if err := s.rdb.Set(ctx, refreshTokenKeyPrefix+jti, user.ID, s.cfg.RefreshTokenExpire).Err(); err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.cfg.AccessTokenExpire.Seconds()),
		User:         user,
	}, nil
}

func (s *AuthService) parseToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.Secret), nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid claims")
	}
	return claims, nil
}
