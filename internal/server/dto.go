package server

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/sells-group/content-api/internal/model"
)

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

func (r signupRequest) validate() string {
	if n := utf8.RuneCountInString(r.Username); n < 3 || n > 50 {
		return "username must be 3-50 characters"
	}
	if !emailPattern.MatchString(r.Email) {
		return "invalid email address"
	}
	if n := utf8.RuneCountInString(r.Password); n < 6 || n > 200 {
		return "password must be 6-200 characters"
	}
	return ""
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type contentRequest struct {
	Text string `json:"text"`
}

func (r contentRequest) validate() string {
	if strings.TrimSpace(r.Text) == "" {
		return "text content cannot be empty"
	}
	return ""
}

type contentListResponse struct {
	Contents []model.Content `json:"contents"`
	Total    int             `json:"total"`
}

type errorResponse struct {
	Error string `json:"error"`
}
