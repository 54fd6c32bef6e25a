package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	authhttp "inkq/internal/auth/adapter/http"
	"inkq/internal/auth/domain/model"
	"inkq/internal/auth/usecase"
	"inkq/internal/shared/logger"
	"inkq/internal/shared/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type AuthHTTPTestSuite struct {
	suite.Suite
	app         *fiber.App
	mockUsecase *mockAuthUsecase
	cookies     authhttp.CookieOptions
}

func (suite *AuthHTTPTestSuite) SetupTest() {
	suite.mockUsecase = new(mockAuthUsecase)
	suite.cookies = authhttp.CookieOptions{
		Name:     "inkq_session",
		Path:     "/",
		MaxAge:   604800,
		HTTPOnly: true,
		SameSite: "Lax",
	}

	handler := authhttp.NewAuthHTTPHandler(
		suite.mockUsecase,
		suite.cookies,
		"en",
		metrics.New(prometheus.NewRegistry()),
		logger.NewLogger(),
	)

	suite.app = fiber.New()
	handler.SetupAuthRoutes(suite.app.Group("/auth"))
}

func (suite *AuthHTTPTestSuite) postForm(path string, form url.Values, headers map[string]string) *http.Response {
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := suite.app.Test(req)
	require.NoError(suite.T(), err)
	return resp
}

func artistUser(onboarded bool) *model.User {
	return &model.User{
		ID:                  "user-123",
		Email:               "ira@example.com",
		Username:            "ira_ink",
		Role:                model.RoleArtist,
		OnboardingCompleted: onboarded,
		CreatedAt:           time.Now(),
		UpdatedAt:           time.Now(),
	}
}

func (suite *AuthHTTPTestSuite) TestSignIn_Success_RedirectsToOnboarding() {
	user := artistUser(false)
	suite.mockUsecase.On("SignIn", mock.Anything, mock.MatchedBy(func(req usecase.SignInRequest) bool {
		return req.Login == "ira@example.com" && req.Password == "password123"
	}), mock.Anything).Return(user, "tok-abc", nil)

	resp := suite.postForm("/auth/signin", url.Values{
		"login":    {"ira@example.com"},
		"password": {"password123"},
		"locale":   {"en"},
	}, nil)

	assert.Equal(suite.T(), http.StatusSeeOther, resp.StatusCode)
	assert.Equal(suite.T(), "/en/onboarding/artist", resp.Header.Get("Location"))

	cookies := resp.Cookies()
	require.Len(suite.T(), cookies, 1)
	assert.Equal(suite.T(), "inkq_session", cookies[0].Name)
	assert.Equal(suite.T(), "tok-abc", cookies[0].Value)
	assert.True(suite.T(), cookies[0].HttpOnly)
	assert.Equal(suite.T(), "/", cookies[0].Path)

	suite.mockUsecase.AssertExpectations(suite.T())
}

func (suite *AuthHTTPTestSuite) TestSignIn_Success_OnboardedGoesToDashboard() {
	user := artistUser(true)
	suite.mockUsecase.On("SignIn", mock.Anything, mock.Anything, mock.Anything).
		Return(user, "tok-abc", nil)

	resp := suite.postForm("/auth/signin", url.Values{
		"login":    {"ira@example.com"},
		"password": {"password123"},
		"locale":   {"de"},
	}, nil)

	assert.Equal(suite.T(), http.StatusSeeOther, resp.StatusCode)
	assert.Equal(suite.T(), "/de/dashboard/artist", resp.Header.Get("Location"))
}

func (suite *AuthHTTPTestSuite) TestSignIn_InvalidCredentials() {
	suite.mockUsecase.On("SignIn", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, "", usecase.ErrInvalidCredentials)

	resp := suite.postForm("/auth/signin", url.Values{
		"login":    {"ira@example.com"},
		"password": {"wrong"},
		"locale":   {"en"},
	}, nil)

	assert.Equal(suite.T(), http.StatusSeeOther, resp.StatusCode)
	assert.Equal(suite.T(), "/en/signin?error=Invalid+login+or+password", resp.Header.Get("Location"))
	assert.Empty(suite.T(), resp.Cookies())
}

func (suite *AuthHTTPTestSuite) TestSignIn_LocaleFromReferer() {
	suite.mockUsecase.On("SignIn", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, "", usecase.ErrInvalidCredentials)

	resp := suite.postForm("/auth/signin", url.Values{
		"login":    {"ira@example.com"},
		"password": {"wrong"},
	}, map[string]string{"Referer": "https://inkq.app/ru/signin"})

	assert.Equal(suite.T(), "/ru/signin?error=Invalid+login+or+password", resp.Header.Get("Location"))
}

func (suite *AuthHTTPTestSuite) TestSignUp_Success() {
	user := artistUser(false)
	suite.mockUsecase.On("SignUp", mock.Anything, mock.MatchedBy(func(req usecase.SignUpRequest) bool {
		return req.Email == "ira@example.com" && req.Role == "artist"
	}), mock.Anything).Return(user, "tok-new", nil)

	resp := suite.postForm("/auth/signup", url.Values{
		"email":        {"ira@example.com"},
		"username":     {"ira_ink"},
		"password":     {"password123"},
		"account_type": {"artist"},
		"locale":       {"en"},
	}, nil)

	assert.Equal(suite.T(), http.StatusSeeOther, resp.StatusCode)
	assert.Equal(suite.T(), "/en/onboarding/artist", resp.Header.Get("Location"))

	cookies := resp.Cookies()
	require.Len(suite.T(), cookies, 1)
	assert.Equal(suite.T(), "tok-new", cookies[0].Value)
}

func (suite *AuthHTTPTestSuite) TestSignUp_AccountExists() {
	suite.mockUsecase.On("SignUp", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, "", usecase.ErrAccountExists)

	resp := suite.postForm("/auth/signup", url.Values{
		"email":        {"ira@example.com"},
		"username":     {"ira_ink"},
		"password":     {"password123"},
		"account_type": {"artist"},
		"locale":       {"en"},
	}, nil)

	assert.Equal(suite.T(), "/en/signup?error=Account+already+exists", resp.Header.Get("Location"))
}

func (suite *AuthHTTPTestSuite) TestSignUp_InvalidRole() {
	suite.mockUsecase.On("SignUp", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, "", usecase.ErrInvalidRole)

	resp := suite.postForm("/auth/signup", url.Values{
		"email":        {"ira@example.com"},
		"username":     {"ira_ink"},
		"password":     {"password123"},
		"account_type": {"admin"},
		"locale":       {"en"},
	}, nil)

	assert.Equal(suite.T(), "/en/signup?error=Please+check+the+form+and+try+again", resp.Header.Get("Location"))
}

func (suite *AuthHTTPTestSuite) TestSignOut_RevokesAndClearsCookie() {
	suite.mockUsecase.On("SignOut", mock.Anything, "tok-abc").Return(nil)

	req := httptest.NewRequest("POST", "/auth/signout", strings.NewReader("locale=ru"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: "inkq_session", Value: "tok-abc"})

	resp, err := suite.app.Test(req)
	require.NoError(suite.T(), err)

	assert.Equal(suite.T(), http.StatusSeeOther, resp.StatusCode)
	assert.Equal(suite.T(), "/ru", resp.Header.Get("Location"))

	cookies := resp.Cookies()
	require.Len(suite.T(), cookies, 1)
	assert.Empty(suite.T(), cookies[0].Value)
	assert.True(suite.T(), cookies[0].MaxAge < 0 || cookies[0].Expires.Before(time.Now()))

	suite.mockUsecase.AssertExpectations(suite.T())
}

func (suite *AuthHTTPTestSuite) TestSignOut_NoSessionStillRedirects() {
	resp := suite.postForm("/auth/signout", url.Values{"locale": {"en"}}, nil)

	assert.Equal(suite.T(), http.StatusSeeOther, resp.StatusCode)
	assert.Equal(suite.T(), "/en", resp.Header.Get("Location"))
	suite.mockUsecase.AssertNotCalled(suite.T(), "SignOut")
}

func (suite *AuthHTTPTestSuite) TestSignOut_RevocationFailureStillClears() {
	suite.mockUsecase.On("SignOut", mock.Anything, "tok-abc").Return(assert.AnError)

	req := httptest.NewRequest("POST", "/auth/signout", nil)
	req.AddCookie(&http.Cookie{Name: "inkq_session", Value: "tok-abc"})

	resp, err := suite.app.Test(req)
	require.NoError(suite.T(), err)

	assert.Equal(suite.T(), http.StatusSeeOther, resp.StatusCode)
	assert.Equal(suite.T(), "/en", resp.Header.Get("Location"))
	require.Len(suite.T(), resp.Cookies(), 1)
	assert.Empty(suite.T(), resp.Cookies()[0].Value)
}

func (suite *AuthHTTPTestSuite) TestMe_BearerToken() {
	user := artistUser(true)
	suite.mockUsecase.On("ResolveToken", mock.Anything, "tok-abc").
		Return(usecase.Resolution{User: user}, nil)

	req := httptest.NewRequest("GET", "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer tok-abc")

	resp, err := suite.app.Test(req)
	require.NoError(suite.T(), err)

	assert.Equal(suite.T(), http.StatusOK, resp.StatusCode)

	var body model.User
	require.NoError(suite.T(), json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(suite.T(), user.ID, body.ID)
	assert.Equal(suite.T(), user.Email, body.Email)
}

func (suite *AuthHTTPTestSuite) TestMe_MissingToken() {
	req := httptest.NewRequest("GET", "/auth/me", nil)

	resp, err := suite.app.Test(req)
	require.NoError(suite.T(), err)

	assert.Equal(suite.T(), http.StatusUnauthorized, resp.StatusCode)
	suite.mockUsecase.AssertNotCalled(suite.T(), "ResolveToken")
}

func (suite *AuthHTTPTestSuite) TestMe_DeadSession() {
	suite.mockUsecase.On("ResolveToken", mock.Anything, "tok-dead").
		Return(usecase.Resolution{Reason: usecase.ReasonExpired}, nil)

	req := httptest.NewRequest("GET", "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer tok-dead")

	resp, err := suite.app.Test(req)
	require.NoError(suite.T(), err)

	assert.Equal(suite.T(), http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthHTTPTestSuite(t *testing.T) {
	suite.Run(t, new(AuthHTTPTestSuite))
}
