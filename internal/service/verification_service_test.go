package service

import (
	"context"
	"errors"
	"family_habit_backend/internal/config"
	"family_habit_backend/internal/model"
	"family_habit_backend/internal/repository"
	"family_habit_backend/internal/util"
	"family_habit_backend/pkg/logger"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// memoryCodeStore 进程内 CodeStore，过期时间用可拨动的时钟判定
type memoryCodeStore struct {
	codes     map[string]string
	codeExp   map[string]time.Time
	resendExp map[string]time.Time
	now       func() time.Time
}

func newMemoryCodeStore() *memoryCodeStore {
	return &memoryCodeStore{
		codes:     make(map[string]string),
		codeExp:   make(map[string]time.Time),
		resendExp: make(map[string]time.Time),
		now:       time.Now,
	}
}

func (s *memoryCodeStore) SaveCode(ctx context.Context, phone, code string, ttl time.Duration) error {
	s.codes[phone] = code
	s.codeExp[phone] = s.now().Add(ttl)
	return nil
}

func (s *memoryCodeStore) LoadCode(ctx context.Context, phone string) (string, error) {
	code, ok := s.codes[phone]
	if !ok || s.now().After(s.codeExp[phone]) {
		return "", nil
	}
	return code, nil
}

func (s *memoryCodeStore) DropCode(ctx context.Context, phone string) error {
	delete(s.codes, phone)
	delete(s.codeExp, phone)
	return nil
}

func (s *memoryCodeStore) TryLockResend(ctx context.Context, phone string, interval time.Duration) (bool, error) {
	if exp, ok := s.resendExp[phone]; ok && s.now().Before(exp) {
		return false, nil
	}
	s.resendExp[phone] = s.now().Add(interval)
	return true, nil
}

func newVerificationService(db *gorm.DB, store CodeStore) *VerificationService {
	logger.Log = zap.NewNop()
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpireTime = time.Hour
	cfg.SMS.CodeTTL = 5 * time.Minute
	cfg.SMS.ResendInterval = time.Minute
	return NewVerificationServiceWithStore(store, repository.NewUserRepository(db), cfg)
}

func seedPhoneUser(t *testing.T, db *gorm.DB, name, phone string, role model.UserRole) *model.User {
	t.Helper()
	p := phone
	user := &model.User{Name: name, Phone: &p, Role: role}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user
}

func TestPhonePattern(t *testing.T) {
	valid := []string{"13812345678", "19912345678", "15000000000"}
	for _, phone := range valid {
		if !phonePattern.MatchString(phone) {
			t.Fatalf("expected %s to be valid", phone)
		}
	}

	invalid := []string{"12812345678", "1381234567", "138123456789", "abc", "", "+8613812345678"}
	for _, phone := range invalid {
		if phonePattern.MatchString(phone) {
			t.Fatalf("expected %s to be invalid", phone)
		}
	}
}

func TestGenerateCode(t *testing.T) {
	for i := 0; i < 20; i++ {
		code, err := generateCode()
		if err != nil {
			t.Fatalf("generate failed: %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("expected 6 digits, got %q", code)
		}
		for _, r := range code {
			if r < '0' || r > '9' {
				t.Fatalf("non-digit in code %q", code)
			}
		}
	}
}

func TestSendCodeResendWindow(t *testing.T) {
	db, cleanup := setupServiceTestDB(t, "verify-resend")
	defer cleanup()

	store := newMemoryCodeStore()
	clock := time.Now()
	store.now = func() time.Time { return clock }
	svc := newVerificationService(db, store)
	ctx := context.Background()

	if _, err := svc.SendCode(ctx, "13812345678"); err != nil {
		t.Fatalf("send failed: %v", err)
	}

	// 重发间隔内再次请求被拒绝
	if _, err := svc.SendCode(ctx, "13812345678"); !errors.Is(err, util.ErrCodeResendTooSoon) {
		t.Fatalf("expected ErrCodeResendTooSoon, got %v", err)
	}

	// 间隔过后放行，换另一个手机号也不受影响
	clock = clock.Add(61 * time.Second)
	if _, err := svc.SendCode(ctx, "13812345678"); err != nil {
		t.Fatalf("resend after window failed: %v", err)
	}
	if _, err := svc.SendCode(ctx, "13987654321"); err != nil {
		t.Fatalf("send for other phone failed: %v", err)
	}
}

func TestSendCodeInvalidPhone(t *testing.T) {
	db, cleanup := setupServiceTestDB(t, "verify-phone")
	defer cleanup()

	svc := newVerificationService(db, newMemoryCodeStore())

	if _, err := svc.SendCode(context.Background(), "12345"); !errors.Is(err, util.ErrInvalidPhone) {
		t.Fatalf("expected ErrInvalidPhone, got %v", err)
	}
}

func TestVerifyLoginWrongCode(t *testing.T) {
	db, cleanup := setupServiceTestDB(t, "verify-wrong")
	defer cleanup()

	svc := newVerificationService(db, newMemoryCodeStore())
	ctx := context.Background()

	// 未发送过验证码
	if _, _, err := svc.VerifyLogin(ctx, &VerifyLoginInput{Phone: "13812345678", Code: "000000"}); !errors.Is(err, util.ErrCodeInvalid) {
		t.Fatalf("expected ErrCodeInvalid, got %v", err)
	}

	code, err := svc.SendCode(ctx, "13812345678")
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}

	wrong := "000000"
	if wrong == code {
		wrong = "111111"
	}
	if _, _, err := svc.VerifyLogin(ctx, &VerifyLoginInput{Phone: "13812345678", Code: wrong}); !errors.Is(err, util.ErrCodeInvalid) {
		t.Fatalf("expected ErrCodeInvalid for wrong code, got %v", err)
	}
}

func TestVerifyLoginExpiredCode(t *testing.T) {
	db, cleanup := setupServiceTestDB(t, "verify-expired")
	defer cleanup()

	store := newMemoryCodeStore()
	clock := time.Now()
	store.now = func() time.Time { return clock }
	svc := newVerificationService(db, store)
	ctx := context.Background()

	code, err := svc.SendCode(ctx, "13812345678")
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}

	clock = clock.Add(5*time.Minute + time.Second)
	if _, _, err := svc.VerifyLogin(ctx, &VerifyLoginInput{Phone: "13812345678", Code: code}); !errors.Is(err, util.ErrCodeInvalid) {
		t.Fatalf("expected ErrCodeInvalid for expired code, got %v", err)
	}
}

func TestVerifyLoginCodeSingleUse(t *testing.T) {
	db, cleanup := setupServiceTestDB(t, "verify-single")
	defer cleanup()

	svc := newVerificationService(db, newMemoryCodeStore())
	ctx := context.Background()
	seedPhoneUser(t, db, "妈妈", "13812345678", model.Parent)

	code, err := svc.SendCode(ctx, "13812345678")
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}

	user, token, err := svc.VerifyLogin(ctx, &VerifyLoginInput{Phone: "13812345678", Code: code})
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token on login")
	}
	claims, err := util.ParseJWT(token, "test-secret")
	if err != nil {
		t.Fatalf("token invalid: %v", err)
	}
	if claims.UserID != user.ID {
		t.Fatalf("claims wrong: %+v", claims)
	}

	// 验证码一次有效，登录成功后即删除
	if _, _, err := svc.VerifyLogin(ctx, &VerifyLoginInput{Phone: "13812345678", Code: code}); !errors.Is(err, util.ErrCodeInvalid) {
		t.Fatalf("expected ErrCodeInvalid on reused code, got %v", err)
	}
}

func TestVerifyLoginFirstLoginRequiresName(t *testing.T) {
	db, cleanup := setupServiceTestDB(t, "verify-name")
	defer cleanup()

	svc := newVerificationService(db, newMemoryCodeStore())
	ctx := context.Background()

	code, err := svc.SendCode(ctx, "13812345678")
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}

	if _, _, err := svc.VerifyLogin(ctx, &VerifyLoginInput{Phone: "13812345678", Code: code}); !errors.Is(err, util.ErrNameRequired) {
		t.Fatalf("expected ErrNameRequired, got %v", err)
	}
}

func TestVerifyLoginCreatesUserAndLinksParent(t *testing.T) {
	db, cleanup := setupServiceTestDB(t, "verify-create")
	defer cleanup()

	store := newMemoryCodeStore()
	clock := time.Now()
	store.now = func() time.Time { return clock }
	svc := newVerificationService(db, store)
	ctx := context.Background()
	parent := seedPhoneUser(t, db, "爸爸", "13900000001", model.Parent)
	seedPhoneUser(t, db, "哥哥", "13900000002", model.Child)

	// 验证码在建号失败时也已消耗，每次尝试都要重新发送
	sendFresh := func() string {
		t.Helper()
		clock = clock.Add(61 * time.Second)
		code, err := svc.SendCode(ctx, "13812345678")
		if err != nil {
			t.Fatalf("send failed: %v", err)
		}
		return code
	}

	// 家长手机号不存在
	if _, _, err := svc.VerifyLogin(ctx, &VerifyLoginInput{
		Phone: "13812345678", Code: sendFresh(), Name: "小明", ParentPhone: "13900000099",
	}); !errors.Is(err, util.ErrParentNotFound) {
		t.Fatalf("expected ErrParentNotFound, got %v", err)
	}

	// 指向的账号不是家长
	if _, _, err := svc.VerifyLogin(ctx, &VerifyLoginInput{
		Phone: "13812345678", Code: sendFresh(), Name: "小明", ParentPhone: "13900000002",
	}); !errors.Is(err, util.ErrNotParentAccount) {
		t.Fatalf("expected ErrNotParentAccount, got %v", err)
	}

	user, _, err := svc.VerifyLogin(ctx, &VerifyLoginInput{
		Phone: "13812345678", Code: sendFresh(), Name: "小明", ParentPhone: "13900000001",
	})
	if err != nil {
		t.Fatalf("first login failed: %v", err)
	}
	if user.Role != model.Child {
		t.Fatalf("expected default child role, got %s", user.Role)
	}
	if user.ParentID == nil || *user.ParentID != parent.ID {
		t.Fatalf("child not linked to parent: %+v", user.ParentID)
	}
	if user.Phone == nil || *user.Phone != "13812345678" {
		t.Fatalf("phone not stored: %+v", user.Phone)
	}
}
