package controller

import (
	"errors"
	"family_habit_backend/internal/service"
	"family_habit_backend/internal/util"
	"net/http"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService         *service.AuthService
	VerificationService *service.VerificationService
	IsRelease           bool // 是否为生产环境
}

func NewAuthController(authService *service.AuthService, verificationService *service.VerificationService, isRelease bool) *AuthController {
	return &AuthController{
		AuthService:         authService,
		VerificationService: verificationService,
		IsRelease:           isRelease,
	}
}

// Register godoc
// @Summary 注册新账号
// @Description 邮箱密码注册，孩子账号可携带家长邮箱完成关联
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body service.RegisterInput true "注册信息"
// @Success 201 {object} util.Response{data=object} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 409 {object} util.Response "邮箱已被注册"
// @Failure 500 {object} util.Response "服务器内部错误"
// @Router /api/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req service.RegisterInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, token, err := c.AuthService.Register(&req)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrEmailRegistered):
			util.Error(ctx, http.StatusConflict, err.Error())
		case errors.Is(err, util.ErrParentNotFound), errors.Is(err, util.ErrNotParentAccount):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, gin.H{"user": user, "token": token})
}

// Login godoc
// @Summary 邮箱密码登录
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body service.LoginInput true "登录信息"
// @Success 200 {object} util.Response{data=object} "登录成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 401 {object} util.Response "邮箱或密码错误"
// @Router /api/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req service.LoginInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, token, err := c.AuthService.Login(&req)
	if err != nil {
		if errors.Is(err, util.ErrInvalidCredentials) {
			util.Error(ctx, http.StatusUnauthorized, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"user": user, "token": token})
}

// SendCodeRequest 发送验证码请求
type SendCodeRequest struct {
	Phone string `json:"phone" binding:"required"`
}

// SendCode godoc
// @Summary 发送手机验证码
// @Description 同一手机号1分钟内只能发送一次
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body SendCodeRequest true "手机号"
// @Success 200 {object} util.Response "发送成功"
// @Failure 400 {object} util.Response "手机号格式错误"
// @Failure 429 {object} util.Response "发送过于频繁"
// @Router /api/auth/send-code [post]
func (c *AuthController) SendCode(ctx *gin.Context) {
	var req SendCodeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	code, err := c.VerificationService.SendCode(ctx.Request.Context(), req.Phone)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrInvalidPhone):
			util.BadRequest(ctx, err.Error())
		case errors.Is(err, util.ErrCodeResendTooSoon):
			util.Error(ctx, http.StatusTooManyRequests, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	data := gin.H{"sent": true}
	// 未接入短信通道时在调试模式下回显验证码
	if !c.IsRelease {
		data["code"] = code
	}
	util.Success(ctx, data)
}

// VerifyLogin godoc
// @Summary 验证码登录
// @Description 校验验证码并登录，首次登录自动建号（需携带姓名）
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body service.VerifyLoginInput true "验证码登录信息"
// @Success 200 {object} util.Response{data=object} "登录成功"
// @Failure 400 {object} util.Response "验证码无效或缺少姓名"
// @Router /api/auth/verify-login [post]
func (c *AuthController) VerifyLogin(ctx *gin.Context) {
	var req service.VerifyLoginInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, token, err := c.VerificationService.VerifyLogin(ctx.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrInvalidPhone),
			errors.Is(err, util.ErrCodeInvalid),
			errors.Is(err, util.ErrNameRequired),
			errors.Is(err, util.ErrParentNotFound),
			errors.Is(err, util.ErrNotParentAccount):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"user": user, "token": token})
}
