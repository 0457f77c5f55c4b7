package services

import (
  "context"
  "testing"
  "time"

  "github.com/promptdeck/promptdeck-backend/internal/repos"
  "github.com/promptdeck/promptdeck-backend/internal/requestdata"
  "github.com/promptdeck/promptdeck-backend/internal/types"
)

func newAuthFixture(t *testing.T) (*testFixture, AuthService) {
  t.Helper()
  f := newTestFixture(t)
  tokenRepo := repos.NewUserTokenRepo(f.db, f.log)
  svc := NewAuthService(f.db, f.log, f.userRepo, tokenRepo, nil, "test-secret", time.Hour, 24*time.Hour)
  return f, svc
}

func registerTestUser(t *testing.T, svc AuthService, email string) *types.User {
  t.Helper()
  user := &types.User{
    Email:       email,
    Password:    "sup3r-secret",
    DisplayName: "Test User",
  }
  if err := svc.RegisterUser(context.Background(), user); err != nil {
    t.Fatalf("register user: %v", err)
  }
  return user
}

func TestRegisterUserHashesPassword(t *testing.T) {
  _, svc := newAuthFixture(t)
  user := registerTestUser(t, svc, "new@example.com")
  if user.Password == "sup3r-secret" {
    t.Fatalf("password must not be stored in the clear")
  }
}

func TestRegisterUserRejectsDuplicateEmail(t *testing.T) {
  _, svc := newAuthFixture(t)
  registerTestUser(t, svc, "dupe@example.com")
  dupe := &types.User{Email: "dupe@example.com", Password: "another-secret", DisplayName: "Copycat"}
  if err := svc.RegisterUser(context.Background(), dupe); err == nil {
    t.Fatalf("expected duplicate email to be rejected")
  }
}

func TestLoginIssuesTokens(t *testing.T) {
  _, svc := newAuthFixture(t)
  registerTestUser(t, svc, "login@example.com")

  access, refresh, err := svc.Login(context.Background(), "login@example.com", "sup3r-secret")
  if err != nil {
    t.Fatalf("login: %v", err)
  }
  if access == "" || refresh == "" {
    t.Fatalf("login must return both tokens")
  }

  if _, _, err := svc.Login(context.Background(), "login@example.com", "wrong"); err == nil {
    t.Fatalf("expected wrong password to be rejected")
  }
  if _, _, err := svc.Login(context.Background(), "nobody@example.com", "sup3r-secret"); err == nil {
    t.Fatalf("expected unknown email to be rejected")
  }
}

func TestSetContextFromTokenCarriesIdentity(t *testing.T) {
  _, svc := newAuthFixture(t)
  user := registerTestUser(t, svc, "ctx@example.com")
  access, refresh, err := svc.Login(context.Background(), "ctx@example.com", "sup3r-secret")
  if err != nil {
    t.Fatalf("login: %v", err)
  }

  ctx, err := svc.SetContextFromToken(context.Background(), access)
  if err != nil {
    t.Fatalf("set context: %v", err)
  }
  rd := requestdata.GetRequestData(ctx)
  if rd == nil {
    t.Fatalf("request data missing from context")
  }
  if rd.UserID != user.ID {
    t.Fatalf("wrong user id in context: got %s want %s", rd.UserID, user.ID)
  }
  if rd.RefreshToken != refresh {
    t.Fatalf("refresh token not attached to context")
  }

  if _, err := svc.SetContextFromToken(context.Background(), "garbage.token.here"); err == nil {
    t.Fatalf("expected parse error for a garbage token")
  }
}

func TestRefreshRotatesTokens(t *testing.T) {
  _, svc := newAuthFixture(t)
  registerTestUser(t, svc, "rotate@example.com")
  access, refresh, err := svc.Login(context.Background(), "rotate@example.com", "sup3r-secret")
  if err != nil {
    t.Fatalf("login: %v", err)
  }

  ctx := requestdata.WithRequestData(context.Background(), &requestdata.RequestData{
    TokenString:  access,
    RefreshToken: refresh,
  })
  newAccess, newRefresh, err := svc.Refresh(ctx)
  if err != nil {
    t.Fatalf("refresh: %v", err)
  }
  if newRefresh == refresh {
    t.Fatalf("refresh token must rotate")
  }
  if newAccess == "" {
    t.Fatalf("refresh must issue a new access token")
  }

  // The old refresh token is gone after rotation.
  if _, _, err := svc.Refresh(ctx); err == nil {
    t.Fatalf("expected stale refresh token to be rejected")
  }
}

func TestLogoutInvalidatesToken(t *testing.T) {
  _, svc := newAuthFixture(t)
  registerTestUser(t, svc, "bye@example.com")
  access, _, err := svc.Login(context.Background(), "bye@example.com", "sup3r-secret")
  if err != nil {
    t.Fatalf("login: %v", err)
  }

  ctx := requestdata.WithRequestData(context.Background(), &requestdata.RequestData{TokenString: access})
  if err := svc.Logout(ctx); err != nil {
    t.Fatalf("logout: %v", err)
  }
  // After logout the access token no longer maps to a stored refresh token.
  afterCtx, err := svc.SetContextFromToken(context.Background(), access)
  if err != nil {
    t.Fatalf("set context after logout: %v", err)
  }
  rd := requestdata.GetRequestData(afterCtx)
  if rd == nil || rd.RefreshToken != "" {
    t.Fatalf("logged-out token must not resolve a refresh token")
  }
}
