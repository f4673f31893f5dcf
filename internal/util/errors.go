package util

import "errors"

var (
	ErrUserNotFound         = errors.New("用户不存在")
	ErrEmailRegistered      = errors.New("该邮箱已被注册")
	ErrParentNotFound       = errors.New("未找到家长账号")
	ErrNotParentAccount     = errors.New("该账号不是家长账号")
	ErrInvalidCredentials   = errors.New("邮箱或密码错误")
	ErrInvalidPhone         = errors.New("请输入正确的手机号")
	ErrCodeResendTooSoon    = errors.New("请等待1分钟后再次发送验证码")
	ErrCodeInvalid          = errors.New("验证码无效或已过期")
	ErrNameRequired         = errors.New("首次登录请输入姓名")
	ErrHabitNotFound        = errors.New("习惯不存在")
	ErrTaskNotFound         = errors.New("任务不存在")
	ErrTaskAlreadyCompleted = errors.New("今日已完成此任务")
	ErrTaskNotCompleted     = errors.New("今日未完成此任务，无法撤销")
	ErrRewardNotFound       = errors.New("奖励不存在")
	ErrRewardPointsTooLow   = errors.New("心愿积分不能低于50")
	ErrBadgeAlreadyEarned   = errors.New("该徽章已经获得过了")
	ErrInsufficientPoints   = errors.New("积分不足")
)
