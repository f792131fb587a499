package services_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	apperrors "github.com/vytor/puzzlequest/internal/errors"
	"github.com/vytor/puzzlequest/internal/models"
	"github.com/vytor/puzzlequest/internal/services"
)

type UserServiceSuite struct {
	storeSuite
	svc services.UserService
}

func (s *UserServiceSuite) SetupTest() {
	s.storeSuite.SetupTest()
	s.svc = services.NewUserService(s.store, s.clock, s.notifier)
}

func (s *UserServiceSuite) TestSignup() {
	u, err := s.svc.Signup(s.ctx, " Ada ", "ada@example.com", "secret1")
	s.Require().NoError(err)
	_, parseErr := uuid.Parse(u.ID)
	s.Assert().NoError(parseErr)
	s.Assert().Equal("Ada", u.Name)
	s.Assert().True(u.CreatedAt.Equal(start))
	s.Assert().True(u.LastLogin.Equal(start))

	stored, err := s.svc.CurrentUser(s.ctx)
	s.Require().NoError(err)
	s.Assert().Equal(u.ID, stored.ID)
	s.Assert().Equal("secret1", stored.Password)
}

func (s *UserServiceSuite) TestSignup_Validation() {
	tests := []struct {
		name, user, email, password, code string
	}{
		{"empty name", "", "a@b.c", "secret1", apperrors.ErrCodeValidation},
		{"bad email", "A", "not-an-email", "secret1", apperrors.ErrCodeValidation},
		{"short password", "A", "a@b.c", "12345", apperrors.ErrCodeValidation},
	}
	for _, tt := range tests {
		_, err := s.svc.Signup(s.ctx, tt.user, tt.email, tt.password)
		s.Assert().True(apperrors.HasCode(err, tt.code), tt.name)
	}

	_, err := s.svc.Signup(s.ctx, "A", "a@b.c", "secret1")
	s.Require().NoError(err)
	_, err = s.svc.Signup(s.ctx, "B", "A@B.C", "secret2")
	s.Assert().True(apperrors.HasCode(err, apperrors.ErrCodeConflict))
}

func (s *UserServiceSuite) TestLogin() {
	_, err := s.svc.Login(s.ctx, "ada@example.com", "secret1")
	s.Assert().True(apperrors.HasCode(err, apperrors.ErrCodeUnauthorized), "no account")

	_, err = s.svc.Signup(s.ctx, "Ada", "ada@example.com", "secret1")
	s.Require().NoError(err)

	_, err = s.svc.Login(s.ctx, "ada@example.com", "wrong!")
	s.Assert().True(apperrors.HasCode(err, apperrors.ErrCodeUnauthorized))

	s.clock.Advance(2 * time.Hour)
	u, err := s.svc.Login(s.ctx, "ada@example.com", "secret1")
	s.Require().NoError(err)
	s.Assert().True(u.LastLogin.Equal(s.clock.Now()))

	stored, err := s.svc.CurrentUser(s.ctx)
	s.Require().NoError(err)
	s.Assert().True(stored.LastLogin.Equal(s.clock.Now()))
	s.Assert().True(stored.CreatedAt.Equal(start))
}

func (s *UserServiceSuite) TestLogout_ClearsEverything() {
	_, err := s.svc.Signup(s.ctx, "Ada", "ada@example.com", "secret1")
	s.Require().NoError(err)
	p := models.DefaultProgress()
	p.XP, p.TotalXP = 40, 40
	s.saveProgress(p)

	s.Require().NoError(s.svc.Logout(s.ctx))

	_, err = s.svc.CurrentUser(s.ctx)
	s.Assert().True(apperrors.HasCode(err, apperrors.ErrCodeNotFound))
	s.Assert().Equal(0, s.progress().TotalXP)
	s.Assert().Equal([]string{"logout"}, s.notifier.sources())
}

func (s *UserServiceSuite) TestSettings() {
	got, err := s.svc.Settings(s.ctx)
	s.Require().NoError(err)
	s.Assert().Equal(models.DefaultSettings(), *got)

	light, off, hard := "light", false, models.DifficultyHard
	got, err = s.svc.UpdateSettings(s.ctx, models.SettingsPatch{Theme: &light, SoundEnabled: &off, Difficulty: &hard})
	s.Require().NoError(err)

	want := models.DefaultSettings()
	want.Theme, want.SoundEnabled, want.Difficulty = "light", false, models.DifficultyHard
	s.Assert().Equal(want, *got)

	bad := models.Difficulty("nightmare")
	_, err = s.svc.UpdateSettings(s.ctx, models.SettingsPatch{Difficulty: &bad})
	s.Assert().True(apperrors.HasCode(err, apperrors.ErrCodeValidation))
}

func TestUserServiceSuite(t *testing.T) {
	suite.Run(t, new(UserServiceSuite))
}
