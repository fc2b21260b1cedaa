package user

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/storefront/internal/domain/user"
	"github.com/xiebiao/storefront/internal/infrastructure/config"
)

// RegisterUseCase 用户注册用例
// 邮箱在管理员白名单中的用户注册为admin
type RegisterUseCase struct {
	userService user.Service
	auth        config.AuthConfig
}

// NewRegisterUseCase 创建注册用例
func NewRegisterUseCase(userService user.Service, auth config.AuthConfig) *RegisterUseCase {
	return &RegisterUseCase{
		userService: userService,
		auth:        auth,
	}
}

// Execute 执行注册
func (uc *RegisterUseCase) Execute(ctx context.Context, req RegisterRequest) (*UserInfo, error) {
	role := user.RoleCustomer
	if uc.auth.IsAdminEmail(req.Email) {
		role = user.RoleAdmin
	}

	u, err := uc.userService.Register(ctx, req.Email, req.Password, req.Name, role)
	if err != nil {
		return nil, err
	}

	zap.L().Info("用户注册成功", zap.Uint("user_id", u.ID), zap.String("role", string(u.Role)))
	return toUserInfo(u), nil
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Email    string
	Password string
	Name     string
}
